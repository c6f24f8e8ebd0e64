package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/finance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

// docList is a list of T persisted as one document under namespace.
type docList[T any] struct {
	store     storage.DocumentStore
	namespace string
}

func (d docList[T]) load(ctx context.Context) ([]T, error) {
	var items []T
	if err := d.store.Get(ctx, d.namespace, &items); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("failed to read %s mirror: %w", d.namespace, err)
	}
	return items, nil
}

func (d docList[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	if err := d.store.Put(ctx, d.namespace, items); err != nil {
		return fmt.Errorf("failed to write %s mirror: %w", d.namespace, err)
	}
	return nil
}

// LeaveEntry is a leave request as kept in the local mirror.
type LeaveEntry struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	RequestDate   string  `json:"requestDate"`
	AdminComments *string `json:"adminComments,omitempty"`
	UpdatedBy     *string `json:"updatedBy,omitempty"`
	UpdateDate    *string `json:"updateDate,omitempty"`
}

// FromLeave converts a stored request. Dates are formatted in the request's
// own zone.
func FromLeave(r leave.LeaveRequest) LeaveEntry {
	e := LeaveEntry{
		ID:            r.ID,
		UserID:        r.UserID,
		StartDate:     r.StartDate.Format(attendance.DateLayout),
		EndDate:       r.EndDate.Format(attendance.DateLayout),
		Reason:        r.Reason,
		Status:        string(r.Status),
		RequestDate:   r.RequestDate.Format(attendance.DateLayout),
		AdminComments: r.AdminComments,
		UpdatedBy:     r.UpdatedBy,
	}
	if r.UpdateDate != nil {
		s := r.UpdateDate.Format(time.RFC3339)
		e.UpdateDate = &s
	}
	return e
}

// LeaveMirror keeps leave requests on local disk only. It applies the same
// rules as the server: employees see their own requests, admins decide
// pending ones.
type LeaveMirror struct {
	list docList[LeaveEntry]
	loc  *time.Location
	now  func() time.Time
}

func NewLeaveMirror(store storage.DocumentStore, loc *time.Location) *LeaveMirror {
	return &LeaveMirror{
		list: docList[LeaveEntry]{store: store, namespace: LeaveNamespace},
		loc:  loc,
		now:  time.Now,
	}
}

// List returns the caller's requests, or every request for an admin, newest
// request first.
func (m *LeaveMirror) List(ctx context.Context, p user.Principal) ([]LeaveEntry, error) {
	if err := user.RequireRole(p, user.RoleEmployee, user.RoleAdmin); err != nil {
		return nil, err
	}
	entries, err := m.list.load(ctx)
	if err != nil {
		return nil, err
	}
	if p.Role != user.RoleAdmin {
		entries = slices.DeleteFunc(entries, func(e LeaveEntry) bool { return e.UserID != p.ID })
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].RequestDate > entries[j].RequestDate })
	return entries, nil
}

// Submit stores a new pending request for the caller.
func (m *LeaveMirror) Submit(ctx context.Context, p user.Principal, req leave.CreateLeaveRequest) (LeaveEntry, error) {
	if err := user.RequireRole(p, user.RoleEmployee, user.RoleAdmin); err != nil {
		return LeaveEntry{}, err
	}
	if err := req.Validate(); err != nil {
		return LeaveEntry{}, err
	}

	entries, err := m.list.load(ctx)
	if err != nil {
		return LeaveEntry{}, err
	}
	entry := LeaveEntry{
		ID:          uuid.NewString(),
		UserID:      p.ID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Reason:      req.Reason,
		Status:      string(leave.StatusPending),
		RequestDate: m.now().In(m.loc).Format(attendance.DateLayout),
	}
	if err := m.list.save(ctx, append(entries, entry)); err != nil {
		return LeaveEntry{}, err
	}
	return entry, nil
}

// Decide approves or rejects a pending request. Admin only.
func (m *LeaveMirror) Decide(ctx context.Context, p user.Principal, req leave.UpdateStatusRequest) (LeaveEntry, error) {
	if err := user.RequireRole(p, user.RoleAdmin); err != nil {
		return LeaveEntry{}, err
	}
	if err := req.Validate(); err != nil {
		return LeaveEntry{}, err
	}

	entries, err := m.list.load(ctx)
	if err != nil {
		return LeaveEntry{}, err
	}
	i := slices.IndexFunc(entries, func(e LeaveEntry) bool { return e.ID == req.ID })
	if i < 0 {
		return LeaveEntry{}, leave.ErrLeaveRequestNotFound
	}
	if entries[i].Status != string(leave.StatusPending) {
		return LeaveEntry{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	decidedAt := m.now().In(m.loc).Format(time.RFC3339)
	entries[i].Status = req.Status
	entries[i].AdminComments = req.Comments
	entries[i].UpdatedBy = &p.ID
	entries[i].UpdateDate = &decidedAt
	if err := m.list.save(ctx, entries); err != nil {
		return LeaveEntry{}, err
	}
	return entries[i], nil
}

// Replace overwrites the mirror, as seed-local does.
func (m *LeaveMirror) Replace(ctx context.Context, entries []LeaveEntry) error {
	return m.list.save(ctx, entries)
}

// FinanceEntry is a ledger entry as kept in the local mirror.
type FinanceEntry struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	CreatedBy   string  `json:"createdBy,omitempty"`
}

func FromFinance(r finance.Record) FinanceEntry {
	return FinanceEntry{
		ID:          r.ID,
		Type:        string(r.Type),
		Amount:      r.Amount,
		Category:    r.Category,
		Date:        r.Date.Format(attendance.DateLayout),
		Description: r.Description,
		CreatedBy:   r.CreatedBy,
	}
}

func (e FinanceEntry) toRecord() finance.Record {
	date, _ := time.Parse(attendance.DateLayout, e.Date)
	return finance.Record{
		ID:          e.ID,
		Type:        finance.Type(e.Type),
		Amount:      e.Amount,
		Category:    e.Category,
		Date:        date,
		Description: e.Description,
		CreatedBy:   e.CreatedBy,
	}
}

// FinanceMirror keeps the admin ledger on local disk only. Every operation
// requires the admin role.
type FinanceMirror struct {
	list docList[FinanceEntry]
}

func NewFinanceMirror(store storage.DocumentStore) *FinanceMirror {
	return &FinanceMirror{list: docList[FinanceEntry]{store: store, namespace: FinanceNamespace}}
}

// List returns the entries passing filter, newest date first.
func (m *FinanceMirror) List(ctx context.Context, p user.Principal, filter finance.ListFilter) ([]FinanceEntry, error) {
	if err := user.RequireRole(p, user.RoleAdmin); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	entries, err := m.list.load(ctx)
	if err != nil {
		return nil, err
	}
	entries = slices.DeleteFunc(entries, func(e FinanceEntry) bool { return !filter.Matches(e.toRecord()) })
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })
	return entries, nil
}

func (m *FinanceMirror) Add(ctx context.Context, p user.Principal, req finance.CreateRecordRequest) (FinanceEntry, error) {
	if err := user.RequireRole(p, user.RoleAdmin); err != nil {
		return FinanceEntry{}, err
	}
	if err := req.Validate(); err != nil {
		return FinanceEntry{}, err
	}

	entries, err := m.list.load(ctx)
	if err != nil {
		return FinanceEntry{}, err
	}
	entry := FinanceEntry{
		ID:          uuid.NewString(),
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        req.Date,
		Description: req.Description,
		CreatedBy:   p.ID,
	}
	if err := m.list.save(ctx, append(entries, entry)); err != nil {
		return FinanceEntry{}, err
	}
	return entry, nil
}

// Update applies the non-nil fields of req to the entry with req.ID.
func (m *FinanceMirror) Update(ctx context.Context, p user.Principal, req finance.UpdateRecordRequest) (FinanceEntry, error) {
	if err := user.RequireRole(p, user.RoleAdmin); err != nil {
		return FinanceEntry{}, err
	}
	if err := req.Validate(); err != nil {
		return FinanceEntry{}, err
	}

	entries, err := m.list.load(ctx)
	if err != nil {
		return FinanceEntry{}, err
	}
	i := slices.IndexFunc(entries, func(e FinanceEntry) bool { return e.ID == req.ID })
	if i < 0 {
		return FinanceEntry{}, finance.ErrFinanceRecordNotFound
	}

	rec := entries[i].toRecord()
	req.Apply(&rec)
	entries[i] = FromFinance(rec)
	if err := m.list.save(ctx, entries); err != nil {
		return FinanceEntry{}, err
	}
	return entries[i], nil
}

func (m *FinanceMirror) Delete(ctx context.Context, p user.Principal, id string) error {
	if err := user.RequireRole(p, user.RoleAdmin); err != nil {
		return err
	}
	entries, err := m.list.load(ctx)
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(entries, func(e FinanceEntry) bool { return e.ID == id })
	if len(kept) == len(entries) {
		return finance.ErrFinanceRecordNotFound
	}
	return m.list.save(ctx, kept)
}

// Totals sums income and expenses over every entry.
func (m *FinanceMirror) Totals(ctx context.Context, p user.Principal) (finance.Totals, error) {
	if err := user.RequireRole(p, user.RoleAdmin); err != nil {
		return finance.Totals{}, err
	}
	entries, err := m.list.load(ctx)
	if err != nil {
		return finance.Totals{}, err
	}

	var t finance.Totals
	for _, e := range entries {
		switch finance.Type(e.Type) {
		case finance.TypeIncome:
			t.Income += e.Amount
		case finance.TypeExpense:
			t.Expenses += e.Amount
		}
	}
	return t, nil
}

func (m *FinanceMirror) Replace(ctx context.Context, entries []FinanceEntry) error {
	return m.list.save(ctx, entries)
}
