package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Dates are local midnights; backends store them at day precision.
type AttendanceRepository interface {
	// Create creates a new attendance record.
	// Returns ErrAlreadyCheckedIn when (user, date) already has a record.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID returns ErrAttendanceNotFound when no record matches.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndDate returns nil, nil when the user has no record that day.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// CloseOpen persists the check-out fields of an open record.
	// Returns ErrNoActiveCheckIn if the record was already closed.
	CloseOpen(ctx context.Context, attendance Attendance) error

	// ListByUser returns a user's records inside the filter, newest first.
	ListByUser(ctx context.Context, userID string, filter HistoryFilter) ([]Attendance, error)

	// ListAll returns every user's records inside the filter, newest first, with User joined.
	ListAll(ctx context.Context, filter HistoryFilter) ([]Attendance, error)

	// DeleteByUserAndDate returns ErrAttendanceNotFound when nothing was deleted.
	DeleteByUserAndDate(ctx context.Context, userID string, date time.Time) error

	// CountByStatus counts records on date grouped by status, optionally for one user.
	CountByStatus(ctx context.Context, date time.Time, userID *string) (map[Status]int64, error)
}
