package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m, s int) time.Time {
	return time.Date(2024, 11, 8, h, m, s, 0, time.UTC)
}

func TestIsLate_Boundaries(t *testing.T) {
	cases := []struct {
		name string
		at   time.Time
		want Status
	}{
		{"just before nine", at(8, 59, 59), StatusPresent},
		{"exactly nine", at(9, 0, 0), StatusPresent},
		{"one second past nine", at(9, 0, 1), StatusLate},
		{"nine oh one", at(9, 1, 0), StatusLate},
		{"early morning", at(6, 30, 0), StatusPresent},
		{"afternoon", at(13, 45, 0), StatusLate},
		// Kept as-is: on-the-hour check-ins after nine are not flagged late.
		{"ten on the hour", at(10, 0, 0), StatusPresent},
		{"ten oh one", at(10, 0, 1), StatusLate},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, StatusAt(c.at))
		})
	}
}

func TestHoursWorked(t *testing.T) {
	assert.Equal(t, 8.5, HoursWorked(at(9, 0, 0), at(17, 30, 0)))
	assert.Equal(t, 0.0, HoursWorked(at(9, 0, 0), at(9, 0, 0)))
	// 7h 20m = 7.333... -> 7.33
	assert.Equal(t, 7.33, HoursWorked(at(9, 10, 0), at(16, 30, 0)))
	// 8h 40m = 8.666... -> 8.67
	assert.Equal(t, 8.67, HoursWorked(at(8, 50, 0), at(17, 30, 0)))
}

func TestDayOf(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	// 20:00 UTC on the 8th is 03:00 on the 9th in UTC+7.
	got := DayOf(time.Date(2024, 11, 8, 20, 0, 0, 0, time.UTC), jakarta)
	assert.Equal(t, "2024-11-09", got.Format(DateLayout))
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, jakarta, got.Location())
}

func TestResolveLocation(t *testing.T) {
	supplied := &Location{Lat: 40.7128, Lng: -74.006, Accuracy: 12}

	assert.Equal(t, &Location{}, ResolveLocation(nil, true))
	assert.Equal(t, &Location{}, ResolveLocation(supplied, false))

	got := ResolveLocation(supplied, true)
	assert.Equal(t, supplied, got)
	assert.NotSame(t, supplied, got)
}

func TestCheckInThenClose(t *testing.T) {
	rec := NewCheckIn("u-1", at(9, 0, 0), &Location{})
	assert.Equal(t, StatusPresent, rec.Status)
	assert.Equal(t, "2024-11-08", rec.Date.Format(DateLayout))
	assert.True(t, rec.IsOpen())
	assert.Nil(t, rec.HoursWorked)

	require.NoError(t, rec.Close(at(17, 30, 0), nil))
	assert.False(t, rec.IsOpen())
	require.NotNil(t, rec.HoursWorked)
	assert.Equal(t, 8.5, *rec.HoursWorked)
	assert.Equal(t, StatusPresent, rec.Status, "check-out never changes status")

	assert.ErrorIs(t, rec.Close(at(18, 0, 0), nil), ErrNoActiveCheckIn)
	assert.Equal(t, 8.5, *rec.HoursWorked)
}

func TestLateCheckInKeepsStatusOnClose(t *testing.T) {
	rec := NewCheckIn("u-1", at(9, 15, 0), nil)
	require.NoError(t, rec.Close(at(17, 15, 0), nil))
	assert.Equal(t, StatusLate, rec.Status)
	assert.Equal(t, 8.0, *rec.HoursWorked)
}

func TestHistoryFilter(t *testing.T) {
	s := func(v string) *string { return &v }
	f := HistoryFilter{StartDate: s("2024-11-02"), EndDate: s("2024-11-05")}

	assert.False(t, f.Contains("2024-11-01"))
	assert.True(t, f.Contains("2024-11-02"))
	assert.True(t, f.Contains("2024-11-05"))
	assert.False(t, f.Contains("2024-11-06"))
	assert.True(t, HistoryFilter{}.Contains("1999-01-01"))

	bad := HistoryFilter{StartDate: s("2024-11-05"), EndDate: s("2024-11-02")}
	assert.Error(t, bad.Validate())
}

func TestCheckOutRequest_Validate(t *testing.T) {
	req := CheckOutRequest{Location: &Location{Lat: 91, Lng: 0}}
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record_id")
	assert.Contains(t, err.Error(), "location.lat")

	ok := CheckOutRequest{RecordID: "abc"}
	assert.NoError(t, ok.Validate())
}
