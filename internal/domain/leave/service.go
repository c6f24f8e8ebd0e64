package leave

import (
	"context"
)

type LeaveService interface {
	Submit(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error)
	ListMine(ctx context.Context) ([]LeaveResponse, error)
	// ListAll and UpdateStatus are admin only
	ListAll(ctx context.Context) ([]LeaveResponse, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (LeaveResponse, error)
}
