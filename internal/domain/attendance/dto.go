package attendance

import (
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	Location *Location `json:"location,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors
	validateLocation(&errs, r.Location)
	return errs.OrNil()
}

type CheckOutRequest struct {
	RecordID string    `json:"-"`
	Location *Location `json:"location,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RecordID) {
		errs.Add("record_id", "record_id is required")
	}
	validateLocation(&errs, r.Location)

	return errs.OrNil()
}

func validateLocation(errs *validator.ValidationErrors, loc *Location) {
	if loc == nil {
		return
	}
	if !validator.IsValidLatitude(loc.Lat) {
		errs.Add("location.lat", "lat must be between -90 and 90")
	}
	if !validator.IsValidLongitude(loc.Lng) {
		errs.Add("location.lng", "lng must be between -180 and 180")
	}
	if loc.Accuracy < 0 {
		errs.Add("location.accuracy", "accuracy must not be negative")
	}
}

// HistoryFilter bounds a history query by an inclusive date range.
// Query parameters are startDate and endDate (YYYY-MM-DD).
type HistoryFilter struct {
	StartDate *string
	EndDate   *string
}

func (f *HistoryFilter) Validate() error {
	return validator.ValidateDateRange("startDate", f.StartDate, "endDate", f.EndDate).OrNil()
}

// Contains reports whether day (YYYY-MM-DD) falls inside the filter bounds.
func (f HistoryFilter) Contains(day string) bool {
	if f.StartDate != nil && *f.StartDate != "" && day < *f.StartDate {
		return false
	}
	if f.EndDate != nil && *f.EndDate != "" && day > *f.EndDate {
		return false
	}
	return true
}

type AttendanceResponse struct {
	ID               string        `json:"id"`
	UserID           string        `json:"user_id"`
	Date             string        `json:"date"`
	Status           string        `json:"status"`
	CheckIn          *string       `json:"check_in,omitempty"`
	CheckOut         *string       `json:"check_out,omitempty"`
	CheckInLocation  *Location     `json:"check_in_location,omitempty"`
	CheckOutLocation *Location     `json:"check_out_location,omitempty"`
	HoursWorked      *float64      `json:"hours_worked,omitempty"`
	User             *user.Summary `json:"user,omitempty"`
	CreatedAt        string        `json:"created_at"`
	UpdatedAt        string        `json:"updated_at"`
}

// ToResponse converts an Attendance entity to AttendanceResponse
func ToResponse(att Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:               att.ID,
		UserID:           att.UserID,
		Date:             att.Date.Format(DateLayout),
		Status:           string(att.Status),
		CheckIn:          timePtrToString(att.CheckIn),
		CheckOut:         timePtrToString(att.CheckOut),
		CheckInLocation:  att.CheckInLocation,
		CheckOutLocation: att.CheckOutLocation,
		HoursWorked:      att.HoursWorked,
		User:             att.User,
		CreatedAt:        att.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        att.UpdatedAt.Format(time.RFC3339),
	}
}

// timePtrToString safely converts a *time.Time to an RFC 3339 string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}
