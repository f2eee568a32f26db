package domain

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager
}

// User is one of the static back-office accounts.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	DisplayName  string `json:"display_name"`
	Role         Role   `json:"role"`
}

// Session is what a successful login hands back to the client.
type Session struct {
	Token       string `json:"token"`
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name"`
	ExpiresAt   int64  `json:"expires_at"`
}
