package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type attendanceRepository struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

func (r *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.attendance {
		if existing.UserID == att.UserID && sameDay(existing.Date, att.Date) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}

	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	now := r.s.now()
	att.CreatedAt, att.UpdatedAt = now, now
	att.User = nil
	r.s.attendance[att.ID] = att
	return att, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	att, ok := r.s.attendance[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return att, nil
}

func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, att := range r.s.attendance {
		if att.UserID == userID && sameDay(att.Date, date) {
			found := att
			return &found, nil
		}
	}
	return nil, nil
}

func (r *attendanceRepository) CloseOpen(ctx context.Context, att attendance.Attendance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.attendance[att.ID]
	if !ok || !existing.IsOpen() {
		return attendance.ErrNoActiveCheckIn
	}

	existing.CheckOut = att.CheckOut
	existing.CheckOutLocation = att.CheckOutLocation
	existing.HoursWorked = att.HoursWorked
	existing.UpdatedAt = r.s.now()
	r.s.attendance[att.ID] = existing
	return nil
}

func (r *attendanceRepository) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Attendance, error) {
	return r.list(func(att attendance.Attendance) bool {
		return att.UserID == userID && filter.Contains(att.Date.Format(attendance.DateLayout))
	}, false), nil
}

func (r *attendanceRepository) ListAll(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.Attendance, error) {
	return r.list(func(att attendance.Attendance) bool {
		return filter.Contains(att.Date.Format(attendance.DateLayout))
	}, true), nil
}

func (r *attendanceRepository) list(keep func(attendance.Attendance) bool, join bool) []attendance.Attendance {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	records := make([]attendance.Attendance, 0)
	for _, att := range r.s.attendance {
		if !keep(att) {
			continue
		}
		if join {
			att.User = r.s.summaryLocked(att.UserID)
		}
		records = append(records, att)
	}
	sortAttendanceNewestFirst(records)
	return records
}

func (r *attendanceRepository) DeleteByUserAndDate(ctx context.Context, userID string, date time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, att := range r.s.attendance {
		if att.UserID == userID && sameDay(att.Date, date) {
			delete(r.s.attendance, id)
			return nil
		}
	}
	return attendance.ErrAttendanceNotFound
}

func (r *attendanceRepository) CountByStatus(ctx context.Context, date time.Time, userID *string) (map[attendance.Status]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[attendance.Status]int64)
	for _, att := range r.s.attendance {
		if !sameDay(att.Date, date) {
			continue
		}
		if userID != nil && att.UserID != *userID {
			continue
		}
		counts[att.Status]++
	}
	return counts, nil
}
