package fixtures

import (
	"math/rand/v2"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

// SampleAttendance generates demo history for userIDs over the days days
// before today (today itself is left free for a real check-in). The same seed
// always yields the same statuses and times. Roughly 90% of days are on time,
// 5% late and 5% absent.
func SampleAttendance(userIDs []string, days int, today time.Time, seed uint64) []attendance.Attendance {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	loc := today.Location()
	start := attendance.DayOf(today, loc)

	records := make([]attendance.Attendance, 0, days*len(userIDs))
	for d := 1; d <= days; d++ {
		day := start.AddDate(0, 0, -d)
		for _, userID := range userIDs {
			roll := rng.Float64()
			if roll < 0.05 {
				records = append(records, attendance.Attendance{
					ID:     uuid.NewString(),
					UserID: userID,
					Date:   day,
					Status: attendance.StatusAbsent,
				})
				continue
			}

			var in time.Time
			if roll < 0.10 {
				in = day.Add(time.Duration(9+rng.IntN(2))*time.Hour + time.Duration(1+rng.IntN(59))*time.Minute)
			} else {
				in = day.Add(8*time.Hour + time.Duration(rng.IntN(60))*time.Minute)
			}
			out := day.Add(time.Duration(17+rng.IntN(2))*time.Hour + time.Duration(rng.IntN(60))*time.Minute)

			att := attendance.NewCheckIn(userID, in, &attendance.Location{})
			att.ID = uuid.NewString()
			_ = att.Close(out, &attendance.Location{})
			records = append(records, att)
		}
	}
	return records
}
