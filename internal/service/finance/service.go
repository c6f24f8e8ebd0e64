package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/finance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/jwt"
)

type FinanceServiceImpl struct {
	finance.FinanceRepository
	loc *time.Location
}

func NewFinanceService(repo finance.FinanceRepository, loc *time.Location) finance.FinanceService {
	return &FinanceServiceImpl{FinanceRepository: repo, loc: loc}
}

func requireAdmin(ctx context.Context) (user.Principal, error) {
	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return user.Principal{}, err
	}
	return principal, user.RequireRole(principal, user.RoleAdmin)
}

// Create implements finance.FinanceService.
func (s *FinanceServiceImpl) Create(ctx context.Context, req finance.CreateRecordRequest) (finance.RecordResponse, error) {
	principal, err := requireAdmin(ctx)
	if err != nil {
		return finance.RecordResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return finance.RecordResponse{}, err
	}

	date, _ := time.ParseInLocation("2006-01-02", req.Date, s.loc)
	created, err := s.FinanceRepository.Create(ctx, finance.Record{
		Type:        finance.Type(req.Type),
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        date,
		Description: req.Description,
		CreatedBy:   principal.ID,
	})
	if err != nil {
		return finance.RecordResponse{}, fmt.Errorf("failed to create finance record: %w", err)
	}
	return finance.ToResponse(created), nil
}

// List implements finance.FinanceService.
func (s *FinanceServiceImpl) List(ctx context.Context, filter finance.ListFilter) ([]finance.RecordResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := s.FinanceRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list finance records: %w", err)
	}

	responses := make([]finance.RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, finance.ToResponse(r))
	}
	return responses, nil
}

// Update implements finance.FinanceService.
func (s *FinanceServiceImpl) Update(ctx context.Context, req finance.UpdateRecordRequest) (finance.RecordResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return finance.RecordResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return finance.RecordResponse{}, err
	}

	record, err := s.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, finance.ErrFinanceRecordNotFound) {
			return finance.RecordResponse{}, err
		}
		return finance.RecordResponse{}, fmt.Errorf("failed to get finance record: %w", err)
	}
	req.Apply(&record)
	record.Date = time.Date(record.Date.Year(), record.Date.Month(), record.Date.Day(), 0, 0, 0, 0, s.loc)

	updated, err := s.FinanceRepository.Update(ctx, record)
	if err != nil {
		if errors.Is(err, finance.ErrFinanceRecordNotFound) {
			return finance.RecordResponse{}, err
		}
		return finance.RecordResponse{}, fmt.Errorf("failed to update finance record: %w", err)
	}
	return finance.ToResponse(updated), nil
}

// Delete implements finance.FinanceService.
func (s *FinanceServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}

	if err := s.FinanceRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, finance.ErrFinanceRecordNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete finance record: %w", err)
	}
	return nil
}
