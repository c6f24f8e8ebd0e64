package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/jwt"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	loc *time.Location
	now func() time.Time
}

func NewLeaveService(repo leave.LeaveRequestRepository, loc *time.Location) leave.LeaveService {
	return &LeaveServiceImpl{LeaveRequestRepository: repo, loc: loc, now: time.Now}
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}
	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	// Validate has already checked both dates
	start, _ := time.ParseInLocation("2006-01-02", req.StartDate, s.loc)
	end, _ := time.ParseInLocation("2006-01-02", req.EndDate, s.loc)

	created, err := s.Create(ctx, leave.LeaveRequest{
		UserID:      principal.ID,
		StartDate:   start,
		EndDate:     end,
		Reason:      req.Reason,
		Status:      leave.StatusPending,
		RequestDate: s.now().In(s.loc),
	})
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return leave.ToResponse(created), nil
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context) ([]leave.LeaveResponse, error) {
	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	requests, err := s.ListByUser(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return toResponses(requests), nil
}

// ListAll implements leave.LeaveService.
func (s *LeaveServiceImpl) ListAll(ctx context.Context) ([]leave.LeaveResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	requests, err := s.LeaveRequestRepository.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return toResponses(requests), nil
}

// UpdateStatus implements leave.LeaveService.
func (s *LeaveServiceImpl) UpdateStatus(ctx context.Context, req leave.UpdateStatusRequest) (leave.LeaveResponse, error) {
	principal, err := requireAdmin(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	decided, err := s.Decide(ctx, req.ID, leave.Decision{
		Status:    leave.Status(req.Status),
		Comments:  req.Comments,
		DecidedBy: principal.ID,
		DecidedAt: s.now().In(s.loc),
	})
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) || errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed) {
			return leave.LeaveResponse{}, err
		}
		return leave.LeaveResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}
	return leave.ToResponse(decided), nil
}

func requireAdmin(ctx context.Context) (user.Principal, error) {
	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return user.Principal{}, err
	}
	return principal, user.RequireRole(principal, user.RoleAdmin)
}

func toResponses(requests []leave.LeaveRequest) []leave.LeaveResponse {
	responses := make([]leave.LeaveResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.ToResponse(r))
	}
	return responses
}
