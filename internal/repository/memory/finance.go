package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/finance"
	"github.com/google/uuid"
)

type financeRepository struct {
	s *Store
}

func NewFinanceRepository(s *Store) finance.FinanceRepository {
	return &financeRepository{s: s}
}

func (r *financeRepository) Create(ctx context.Context, record finance.Record) (finance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := r.s.now()
	record.CreatedAt, record.UpdatedAt = now, now
	r.s.finance[record.ID] = record
	return record, nil
}

func (r *financeRepository) GetByID(ctx context.Context, id string) (finance.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.finance[id]
	if !ok {
		return finance.Record{}, finance.ErrFinanceRecordNotFound
	}
	return rec, nil
}

func (r *financeRepository) List(ctx context.Context, filter finance.ListFilter) ([]finance.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	records := make([]finance.Record, 0)
	for _, rec := range r.s.finance {
		if filter.Matches(rec) {
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.After(records[j].Date)
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (r *financeRepository) Update(ctx context.Context, record finance.Record) (finance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.finance[record.ID]
	if !ok {
		return finance.Record{}, finance.ErrFinanceRecordNotFound
	}
	record.CreatedBy = existing.CreatedBy
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = r.s.now()
	r.s.finance[record.ID] = record
	return record, nil
}

func (r *financeRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.finance[id]; !ok {
		return finance.ErrFinanceRecordNotFound
	}
	delete(r.s.finance, id)
	return nil
}

func (r *financeRepository) Totals(ctx context.Context) (finance.Totals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var t finance.Totals
	for _, rec := range r.s.finance {
		switch rec.Type {
		case finance.TypeIncome:
			t.Income += rec.Amount
		case finance.TypeExpense:
			t.Expenses += rec.Amount
		}
	}
	return t, nil
}
