package client

import (
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
)

type Origin string

const (
	OriginServer Origin = "server"
	OriginLocal  Origin = "local" // created or closed while the server was unreachable
)

// Record is the client's working shape of an attendance record. It is also
// the document format of the local mirror.
type Record struct {
	ID               string               `json:"id"`
	UserID           string               `json:"userId"`
	Date             string               `json:"date"`
	Status           string               `json:"status"`
	CheckIn          *time.Time           `json:"checkIn,omitempty"`
	CheckOut         *time.Time           `json:"checkOut,omitempty"`
	CheckInLocation  *attendance.Location `json:"checkInLocation,omitempty"`
	CheckOutLocation *attendance.Location `json:"checkOutLocation,omitempty"`
	HoursWorked      *float64             `json:"hoursWorked,omitempty"`
	Origin           Origin               `json:"origin,omitempty"`
}

func (r Record) IsOpen() bool {
	return r.CheckIn != nil && r.CheckOut == nil
}

// FromResponse normalizes a server record. The date is derived from the
// check-in time in loc when one is present; status and hours pass through.
func FromResponse(resp attendance.AttendanceResponse, loc *time.Location) (Record, error) {
	rec := Record{
		ID:               resp.ID,
		UserID:           resp.UserID,
		Date:             resp.Date,
		Status:           resp.Status,
		CheckInLocation:  resp.CheckInLocation,
		CheckOutLocation: resp.CheckOutLocation,
		HoursWorked:      resp.HoursWorked,
		Origin:           OriginServer,
	}

	if resp.CheckIn != nil {
		t, err := time.Parse(time.RFC3339, *resp.CheckIn)
		if err != nil {
			return Record{}, fmt.Errorf("record %s: invalid check_in %q: %w", resp.ID, *resp.CheckIn, err)
		}
		t = t.In(loc)
		rec.CheckIn = &t
		rec.Date = t.Format(attendance.DateLayout)
	}
	if resp.CheckOut != nil {
		t, err := time.Parse(time.RFC3339, *resp.CheckOut)
		if err != nil {
			return Record{}, fmt.Errorf("record %s: invalid check_out %q: %w", resp.ID, *resp.CheckOut, err)
		}
		t = t.In(loc)
		rec.CheckOut = &t
	}
	return rec, nil
}

// FromAttendance converts a domain record, used for local replay and seeding.
func FromAttendance(att attendance.Attendance, origin Origin) Record {
	return Record{
		ID:               att.ID,
		UserID:           att.UserID,
		Date:             att.Date.Format(attendance.DateLayout),
		Status:           string(att.Status),
		CheckIn:          att.CheckIn,
		CheckOut:         att.CheckOut,
		CheckInLocation:  att.CheckInLocation,
		CheckOutLocation: att.CheckOutLocation,
		HoursWorked:      att.HoursWorked,
		Origin:           origin,
	}
}

func (r Record) toAttendance(loc *time.Location) (attendance.Attendance, error) {
	day, err := time.ParseInLocation(attendance.DateLayout, r.Date, loc)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("record %s: invalid date %q: %w", r.ID, r.Date, err)
	}
	return attendance.Attendance{
		ID:               r.ID,
		UserID:           r.UserID,
		Date:             day,
		Status:           attendance.Status(r.Status),
		CheckIn:          r.CheckIn,
		CheckOut:         r.CheckOut,
		CheckInLocation:  r.CheckInLocation,
		CheckOutLocation: r.CheckOutLocation,
		HoursWorked:      r.HoursWorked,
	}, nil
}

// sortNewestFirst orders by date, then check-in time, descending.
func sortNewestFirst(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		a, b := records[i].CheckIn, records[j].CheckIn
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})
}
