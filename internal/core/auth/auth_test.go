package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	staff := &Principal{UserID: 1, IsStaff: true}
	manager := &Principal{UserID: 2, Groups: []string{"buyers", GroupManager}}
	plain := &Principal{UserID: 3}

	cases := []struct {
		name string
		p    *Principal
		need Capability
		want Outcome
	}{
		{"nil principal", nil, CapManager, Unauthenticated},
		{"nil principal any", nil, CapAuthenticated, Unauthenticated},
		{"plain authenticated", plain, CapAuthenticated, Ok},
		{"plain manager", plain, CapManager, Forbidden},
		{"plain staff", plain, CapStaff, Forbidden},
		{"manager manager", manager, CapManager, Ok},
		{"manager staff", manager, CapStaff, Forbidden},
		{"staff staff", staff, CapStaff, Ok},
		{"staff is not manager", staff, CapManager, Forbidden},
		{"unknown capability", plain, Capability("root"), Forbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Authorize(tc.p, tc.need))
		})
	}
}

func TestPrincipalNilSafe(t *testing.T) {
	var p *Principal
	require.False(t, p.IsManager())
	require.Equal(t, "forbidden", Forbidden.String())
}

func TestJWTerRoundTrip(t *testing.T) {
	j := &JWTer{Secret: []byte("s3cret"), Issuer: "storefront"}

	tok, err := j.Issue(42)
	require.NoError(t, err)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, uint(42), c.UID)
	require.Equal(t, "42", c.Subject)
	require.NotEmpty(t, c.ID)
	require.Nil(t, c.ExpiresAt)

	// 同一用户两次签发不同（jti 随机）
	tok2, err := j.Issue(42)
	require.NoError(t, err)
	require.NotEqual(t, tok, tok2)
}

func TestJWTerRejects(t *testing.T) {
	j := &JWTer{Secret: []byte("s3cret"), Issuer: "storefront", TTL: time.Minute}
	tok, err := j.Issue(7)
	require.NoError(t, err)

	other := &JWTer{Secret: []byte("other"), Issuer: "storefront"}
	_, err = other.Parse(tok)
	require.Error(t, err)

	wrongIss := &JWTer{Secret: []byte("s3cret"), Issuer: "someone-else"}
	_, err = wrongIss.Parse(tok)
	require.Error(t, err)

	_, err = j.Parse("not-a-token")
	require.Error(t, err)

	past := time.Now().Add(-2 * time.Hour)
	old, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "storefront",
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
		},
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = j.Parse(old)
	require.Error(t, err)
}
