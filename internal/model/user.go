package model

// Role gates what a user may do.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleAdmin   Role = "ADMIN"
)

// AppUser represents an authenticated user of the application.
type AppUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never expose in JSON
	Name         string `json:"name"`
	Role         Role   `json:"role"`
}

// IsAdmin reports whether the user manages the event registry.
func (u AppUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}
