package client

import (
	"math"
	"strings"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
)

// Summary is the aggregate the dashboard derives from a working set.
type Summary struct {
	TotalDays    int     `json:"totalDays"`
	DaysPresent  int     `json:"daysPresent"`
	DaysLate     int     `json:"daysLate"`
	DaysAbsent   int     `json:"daysAbsent"`
	TotalHours   float64 `json:"totalHours"`
	AverageHours float64 `json:"averageHours"`
}

// Summarize aggregates the records whose date starts with month (YYYY-MM).
// An empty month covers every record. The average is taken over all days in
// range, so open and absent days pull it down.
func Summarize(records []Record, month string) Summary {
	var s Summary
	for _, rec := range records {
		if !strings.HasPrefix(rec.Date, month) {
			continue
		}
		s.TotalDays++
		switch attendance.Status(rec.Status) {
		case attendance.StatusPresent:
			s.DaysPresent++
		case attendance.StatusLate:
			s.DaysLate++
		case attendance.StatusAbsent:
			s.DaysAbsent++
		}
		if rec.HoursWorked != nil {
			s.TotalHours += *rec.HoursWorked
		}
	}
	s.TotalHours = round2(s.TotalHours)
	if s.TotalDays > 0 {
		s.AverageHours = round2(s.TotalHours / float64(s.TotalDays))
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
