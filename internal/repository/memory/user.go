package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

type userRepository struct {
	s *Store
}

func NewUserRepository(s *Store) user.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, newUser.Username) {
			return user.User{}, user.ErrUsernameExists
		}
		if strings.EqualFold(u.Email, newUser.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
	}

	if newUser.ID == "" {
		newUser.ID = uuid.NewString()
	}
	now := r.s.now()
	newUser.CreatedAt, newUser.UpdatedAt = now, now
	r.s.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) || strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepository) List(ctx context.Context) ([]user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]user.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}
