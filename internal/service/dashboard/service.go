package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/finance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/jwt"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	attendance attendance.AttendanceRepository
	leave      leave.LeaveRequestRepository
	finance    finance.FinanceRepository
	loc        *time.Location
	now        func() time.Time
}

func NewDashboardService(attendanceRepo attendance.AttendanceRepository, leaveRepo leave.LeaveRequestRepository, financeRepo finance.FinanceRepository, loc *time.Location) dashboard.DashboardService {
	return &DashboardServiceImpl{
		attendance: attendanceRepo,
		leave:      leaveRepo,
		finance:    financeRepo,
		loc:        loc,
		now:        time.Now,
	}
}

// GetStats implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetStats(ctx context.Context) (dashboard.StatsResponse, error) {
	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return dashboard.StatsResponse{}, err
	}

	isAdmin := user.RequireRole(principal, user.RoleAdmin) == nil
	var scope *string
	if !isAdmin {
		scope = &principal.ID
	}
	today := attendance.DayOf(s.now(), s.loc)

	var (
		counts  map[attendance.Status]int64
		pending int64
		totals  finance.Totals
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Today's attendance grouped by status
	g.Go(func() error {
		c, err := s.attendance.CountByStatus(gCtx, today, scope)
		if err != nil {
			return fmt.Errorf("failed to count attendance: %w", err)
		}
		counts = c
		return nil
	})

	// 2. Pending leave requests
	g.Go(func() error {
		n, err := s.leave.CountByStatus(gCtx, leave.StatusPending, scope)
		if err != nil {
			return fmt.Errorf("failed to count leave requests: %w", err)
		}
		pending = n
		return nil
	})

	// 3. Ledger totals, admin only
	if isAdmin {
		g.Go(func() error {
			t, err := s.finance.Totals(gCtx)
			if err != nil {
				return fmt.Errorf("failed to sum finance records: %w", err)
			}
			totals = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return dashboard.StatsResponse{}, err
	}

	resp := dashboard.StatsResponse{
		Date:          today.Format(attendance.DateLayout),
		PresentToday:  counts[attendance.StatusPresent] + counts[attendance.StatusLate],
		LateToday:     counts[attendance.StatusLate],
		PendingLeaves: pending,
	}
	if isAdmin {
		ft := finance.ToTotalsResponse(totals)
		resp.Finance = &ft
	}
	return resp, nil
}
