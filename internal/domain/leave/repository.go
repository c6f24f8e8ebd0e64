package leave

import (
	"context"
)

// LeaveRequestRepository - interface for leave requests
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)

	// GetByID returns ErrLeaveRequestNotFound when no request matches.
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// ListByUser returns a user's requests, newest request first.
	ListByUser(ctx context.Context, userID string) ([]LeaveRequest, error)

	// ListAll returns every request, newest first, with User joined.
	ListAll(ctx context.Context) ([]LeaveRequest, error)

	// Decide moves a pending request to d.Status.
	// Returns ErrLeaveRequestNotFound or ErrLeaveRequestAlreadyProcessed.
	Decide(ctx context.Context, id string, d Decision) (LeaveRequest, error)

	// CountByStatus counts requests in status, optionally for one user.
	CountByStatus(ctx context.Context, status Status, userID *string) (int64, error)
}
