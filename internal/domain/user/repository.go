package user

import (
	"context"
)

type UserRepository interface {
	// Create inserts a user. Returns ErrUsernameExists or ErrUserEmailExists on a duplicate.
	Create(ctx context.Context, newUser User) (User, error)

	// GetByID returns ErrUserNotFound when no user matches.
	GetByID(ctx context.Context, id string) (User, error)

	// GetByUsername returns ErrUserNotFound when no user matches.
	GetByUsername(ctx context.Context, username string) (User, error)

	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// List returns every user ordered by name.
	List(ctx context.Context) ([]User, error)
}
