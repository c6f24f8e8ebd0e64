package user

import (
	"fmt"
	"strings"
)

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	ID   string
	Role Role
}

// RequireRole is the single capability check used by route middleware, services
// and the client. It fails with ErrUnauthenticated for an empty principal and
// ErrInsufficientPermissions when the principal holds none of roles.
func RequireRole(p Principal, roles ...Role) error {
	if p.ID == "" {
		return ErrUnauthenticated
	}
	for _, r := range roles {
		if p.Role == r {
			return nil
		}
	}

	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return fmt.Errorf("%w: requires %s, got %q", ErrInsufficientPermissions, strings.Join(names, " or "), p.Role)
}
