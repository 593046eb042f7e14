package auth

// GroupManager 经理角色对应的用户组名
const GroupManager = "manager"

// Principal 当前请求的操作者，由鉴权层解析后显式传入各 service
type Principal struct {
	UserID   uint     `json:"id"`
	Username string   `json:"username"`
	IsStaff  bool     `json:"isStaff"`
	Groups   []string `json:"groups"`
}

func (p *Principal) InGroup(name string) bool {
	if p == nil {
		return false
	}
	for _, g := range p.Groups {
		if g == name {
			return true
		}
	}
	return false
}

func (p *Principal) IsManager() bool { return p.InGroup(GroupManager) }

type Capability string

const (
	CapAuthenticated Capability = "authenticated"
	CapStaff         Capability = "is_staff"
	CapManager       Capability = "is_manager"
)

type Outcome int

const (
	Ok Outcome = iota
	Unauthenticated
	Forbidden
)

func (o Outcome) String() string {
	switch o {
	case Ok:
		return "ok"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

// Authorize 纯函数：nil principal 一律视为未登录
func Authorize(p *Principal, need Capability) Outcome {
	if p == nil {
		return Unauthenticated
	}
	switch need {
	case CapAuthenticated, "":
		return Ok
	case CapStaff:
		if p.IsStaff {
			return Ok
		}
	case CapManager:
		if p.IsManager() {
			return Ok
		}
	}
	return Forbidden
}
