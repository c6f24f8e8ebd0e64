package finance

import (
	"context"
)

// FinanceService - every operation is admin only
type FinanceService interface {
	Create(ctx context.Context, req CreateRecordRequest) (RecordResponse, error)
	List(ctx context.Context, filter ListFilter) ([]RecordResponse, error)
	Update(ctx context.Context, req UpdateRecordRequest) (RecordResponse, error)
	Delete(ctx context.Context, id string) error
}
