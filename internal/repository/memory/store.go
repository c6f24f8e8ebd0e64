// Package memory holds in-process repositories for development and tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/finance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
)

// Store is shared by the repositories so listings can join user identity.
type Store struct {
	mu         sync.RWMutex
	users      map[string]user.User
	attendance map[string]attendance.Attendance
	leaves     map[string]leave.LeaveRequest
	finance    map[string]finance.Record
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]user.User),
		attendance: make(map[string]attendance.Attendance),
		leaves:     make(map[string]leave.LeaveRequest),
		finance:    make(map[string]finance.Record),
		now:        time.Now,
	}
}

// summaryLocked must be called with mu held.
func (s *Store) summaryLocked(userID string) *user.Summary {
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	sum := u.Summary()
	return &sum
}

func sameDay(a, b time.Time) bool {
	return a.Format(attendance.DateLayout) == b.Format(attendance.DateLayout)
}

func sortAttendanceNewestFirst(records []attendance.Attendance) {
	sort.SliceStable(records, func(i, j int) bool {
		di, dj := records[i].Date.Format(attendance.DateLayout), records[j].Date.Format(attendance.DateLayout)
		if di != dj {
			return di > dj
		}
		if records[i].CheckIn == nil || records[j].CheckIn == nil {
			return records[j].CheckIn == nil && records[i].CheckIn != nil
		}
		return records[i].CheckIn.After(*records[j].CheckIn)
	})
}
