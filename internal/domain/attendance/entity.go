package attendance

import (
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
)

type Status string

const (
	StatusPresent   Status = "present"
	StatusLate      Status = "late"
	StatusAbsent    Status = "absent"     // seed/demo data only
	StatusCheckedIn Status = "checked-in" // accepted from client mirrors, never produced here
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent, StatusCheckedIn:
		return true
	}
	return false
}

// Location is a geolocation captured at check-in or check-out.
type Location struct {
	Lat      float64 `json:"lat" bson:"lat"`
	Lng      float64 `json:"lng" bson:"lng"`
	Accuracy float64 `json:"accuracy" bson:"accuracy"`
}

type Attendance struct {
	ID               string
	UserID           string
	Date             time.Time // local midnight of the working day
	Status           Status
	CheckIn          *time.Time
	CheckOut         *time.Time
	CheckInLocation  *Location
	CheckOutLocation *Location
	HoursWorked      *float64
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Join
	User *user.Summary
}

// IsOpen reports whether the record has a check-in and no check-out yet.
func (a *Attendance) IsOpen() bool {
	return a.CheckIn != nil && a.CheckOut == nil
}
