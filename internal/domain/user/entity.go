package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Manages users, finance, approvals and resets
	RoleEmployee Role = "employee" // Own attendance and leave only
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type User struct {
	ID           string
	Username     string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Department   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Summary is the basic identity joined onto attendance and leave listings.
type Summary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

func (u User) Summary() Summary {
	return Summary{
		ID:         u.ID,
		Name:       u.Name,
		Username:   u.Username,
		Email:      u.Email,
		Department: u.Department,
	}
}
