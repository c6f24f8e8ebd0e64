package auth

import (
	"strings"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Username) {
		errs.Add("username", "username is required")
	}
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	}

	return errs.OrNil()
}

type LoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt string            `json:"expires_at"`
	User      user.UserResponse `json:"user"`
}

type RegisterRequest struct {
	Username   string `json:"username"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Role == "" {
		r.Role = string(user.RoleEmployee)
	}

	if validator.IsEmpty(r.Username) {
		errs.Add("username", "username is required")
	} else if !validator.IsValidUsername(r.Username) {
		errs.Add("username", "username must be 3-50 characters of letters, numbers, dots, underscores or hyphens")
	}
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}

	// Password
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters long")
	} else if len(r.Password) > 72 {
		errs.Add("password", "password must not exceed 72 characters")
	}

	if !user.Role(r.Role).IsValid() {
		errs.Add("role", "role must be one of: admin, employee")
	}
	if validator.IsEmpty(r.Department) {
		errs.Add("department", "department is required")
	}

	return errs.OrNil()
}
