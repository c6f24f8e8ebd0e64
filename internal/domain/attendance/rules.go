package attendance

import (
	"math"
	"time"
)

const (
	DateLayout = "2006-01-02"

	lateHour = 9
)

// IsLate applies the lateness cutoff to a local check-in time: from 09:00 on, any
// time past the top of the hour is late. Exactly 09:00:00 is not late, and neither
// is any later on-the-hour time such as 10:00:00.
func IsLate(t time.Time) bool {
	return t.Hour() >= lateHour && (t.Minute() > 0 || t.Second() > 0)
}

// StatusAt returns the status a check-in at local time t receives.
func StatusAt(t time.Time) Status {
	if IsLate(t) {
		return StatusLate
	}
	return StatusPresent
}

// HoursWorked returns out-in in hours rounded to two decimals.
func HoursWorked(in, out time.Time) float64 {
	return math.Round(out.Sub(in).Hours()*100) / 100
}

// DayOf returns local midnight of t in loc.
func DayOf(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// ResolveLocation returns the location to persist for a transition. A nil
// supplied location, or persist=false, yields the zero placeholder.
func ResolveLocation(supplied *Location, persist bool) *Location {
	if supplied == nil || !persist {
		return &Location{}
	}
	loc := *supplied
	return &loc
}

// NewCheckIn builds the record a check-in at now creates. now must already be
// in the working timezone.
func NewCheckIn(userID string, now time.Time, location *Location) Attendance {
	checkIn := now
	return Attendance{
		UserID:          userID,
		Date:            DayOf(now, now.Location()),
		Status:          StatusAt(now),
		CheckIn:         &checkIn,
		CheckInLocation: location,
	}
}

// Close applies the check-out transition. Status is left untouched.
func (a *Attendance) Close(now time.Time, location *Location) error {
	if !a.IsOpen() {
		return ErrNoActiveCheckIn
	}
	checkOut := now
	hours := HoursWorked(*a.CheckIn, checkOut)
	a.CheckOut = &checkOut
	a.CheckOutLocation = location
	a.HoursWorked = &hours
	return nil
}
