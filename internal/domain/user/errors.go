package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUsernameExists          = errors.New("username already registered")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrUnauthenticated         = errors.New("authentication required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
