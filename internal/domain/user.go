package domain

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email        string    `gorm:"size:191" json:"email"`
	FirstName    string    `gorm:"size:150" json:"firstName"`
	LastName     string    `gorm:"size:150" json:"lastName"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	IsStaff      bool      `gorm:"not null;default:false" json:"isStaff"`
	Groups       []Group   `gorm:"many2many:auth_user_groups;" json:"groups,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// GroupNames 展开用户组名，供 Principal 使用
func (u *User) GroupNames() []string {
	out := make([]string, 0, len(u.Groups))
	for _, g := range u.Groups {
		out = append(out, g.Name)
	}
	return out
}

type Group struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:150;not null" json:"name"`
}

func (Group) TableName() string { return "auth_groups" }

// AuthToken 每个用户最多一个有效 token，登录时复用
type AuthToken struct {
	Key       string    `gorm:"column:token;primaryKey;size:512"`
	UserID    uint      `gorm:"uniqueIndex;not null"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (AuthToken) TableName() string { return "auth_tokens" }

type ManagerRequestStatus string

const (
	ManagerRequestPending  ManagerRequestStatus = "pending"
	ManagerRequestApproved ManagerRequestStatus = "approved"
)

func (s ManagerRequestStatus) Valid() bool {
	return s == ManagerRequestPending || s == ManagerRequestApproved
}

// ManagerRequest pending -> approved，没有拒绝态
type ManagerRequest struct {
	ID        uint                 `gorm:"primaryKey" json:"id"`
	UserID    uint                 `gorm:"not null;index" json:"userId"`
	User      *User                `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Status    ManagerRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
}

func (ManagerRequest) TableName() string { return "manager_requests" }
