package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	loc           *time.Location
	storeLocation bool
	now           func() time.Time
}

type Option func(*AttendanceServiceImpl)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *AttendanceServiceImpl) { s.now = now }
}

// NewAttendanceService builds the attendance state machine. loc decides which
// calendar day "today" is; storeLocation=false persists the zero placeholder
// instead of the supplied coordinates.
func NewAttendanceService(repo attendance.AttendanceRepository, loc *time.Location, storeLocation bool, opts ...Option) attendance.AttendanceService {
	s := &AttendanceServiceImpl{
		AttendanceRepository: repo,
		loc:                  loc,
		storeLocation:        storeLocation,
		now:                  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AttendanceServiceImpl) clock() (now, today time.Time) {
	now = s.now().In(s.loc)
	return now, attendance.DayOf(now, s.loc)
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now, today := s.clock()
	existing, err := s.GetByUserAndDate(ctx, principal.ID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	record := attendance.NewCheckIn(principal.ID, now, attendance.ResolveLocation(req.Location, s.storeLocation))
	created, err := s.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return attendance.ToResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.GetByID(ctx, req.RecordID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNoActiveCheckIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	now, today := s.clock()
	if record.UserID != principal.ID || record.Date.Format(attendance.DateLayout) != today.Format(attendance.DateLayout) {
		return attendance.AttendanceResponse{}, attendance.ErrNoActiveCheckIn
	}
	if err := record.Close(now, attendance.ResolveLocation(req.Location, s.storeLocation)); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if err := s.CloseOpen(ctx, record); err != nil {
		if errors.Is(err, attendance.ErrNoActiveCheckIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to close attendance: %w", err)
	}
	record.UpdatedAt = now

	return attendance.ToResponse(record), nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context) (*attendance.AttendanceResponse, error) {
	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	_, today := s.clock()
	record, err := s.GetByUserAndDate(ctx, principal.ID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	resp := attendance.ToResponse(*record)
	return &resp, nil
}

// GetHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetHistory(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.ListByUser(ctx, principal.ID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return toResponses(records), nil
}

// ListAll implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAll(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.AttendanceResponse, error) {
	records, err := s.listAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toResponses(records), nil
}

func (s *AttendanceServiceImpl) listAll(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.Attendance, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := s.AttendanceRepository.ListAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

// ResetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ResetToday(ctx context.Context, userID string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if validator.IsEmpty(userID) {
		return validator.ValidationErrors{{Field: "user_id", Message: "user_id is required"}}
	}

	_, today := s.clock()
	if err := s.DeleteByUserAndDate(ctx, userID, today); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return err
		}
		return fmt.Errorf("failed to reset attendance: %w", err)
	}
	return nil
}

// Export implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Export(ctx context.Context, filter attendance.HistoryFilter, w io.Writer) error {
	records, err := s.listAll(ctx, filter)
	if err != nil {
		return err
	}
	return writeWorkbook(records, w)
}

func requireAdmin(ctx context.Context) error {
	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	return user.RequireRole(principal, user.RoleAdmin)
}

func toResponses(records []attendance.Attendance) []attendance.AttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.ToResponse(r))
	}
	return responses
}
