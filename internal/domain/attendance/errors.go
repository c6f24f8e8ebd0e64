package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn   = errors.New("already checked in today")
	ErrNoActiveCheckIn    = errors.New("no active check-in found")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
