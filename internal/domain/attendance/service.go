package attendance

import (
	"context"
	"io"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens today's record for the authenticated user
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes the authenticated user's open record for today
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// GetToday returns the authenticated user's record for today, or nil
	GetToday(ctx context.Context) (*AttendanceResponse, error)

	// GetHistory returns the authenticated user's records, newest first
	GetHistory(ctx context.Context, filter HistoryFilter) ([]AttendanceResponse, error)

	// ListAll returns all users' records with identity joined (admin)
	ListAll(ctx context.Context, filter HistoryFilter) ([]AttendanceResponse, error)

	// ResetToday deletes a user's record for today (admin)
	ResetToday(ctx context.Context, userID string) error

	// Export writes ListAll as an xlsx workbook (admin)
	Export(ctx context.Context, filter HistoryFilter, w io.Writer) error
}
