package models

import "time"

// Role selects which dashboard and settings panels a user sees
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the identity record kept for an authenticated session.
// Its JSON form is what gets persisted in the client's session storage.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// AuthState is a read-only snapshot of a session.
// IsAuthenticated is true iff User is non-nil.
type AuthState struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"isAuthenticated"`
	IsLoading       bool  `json:"isLoading"`
}

// Role returns the role of the logged-in user, or "" when unauthenticated
func (s AuthState) Role() Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}
