package finance

import (
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

type CreateRecordRequest struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

func (r *CreateRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if !Type(r.Type).IsValid() {
		errs.Add("type", "type must be one of: income, expense")
	}
	if r.Amount <= 0 {
		errs.Add("amount", "amount must be greater than 0")
	}
	if validator.IsEmpty(r.Category) {
		errs.Add("category", "category is required")
	}
	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if len(r.Description) > 1000 {
		errs.Add("description", "description must not exceed 1000 characters")
	}

	return errs.OrNil()
}

// UpdateRecordRequest is a partial update; nil fields are left unchanged.
type UpdateRecordRequest struct {
	ID          string   `json:"-"`
	Type        *string  `json:"type,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Date        *string  `json:"date,omitempty"`
	Description *string  `json:"description,omitempty"`
}

func (r *UpdateRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Type != nil && !Type(*r.Type).IsValid() {
		errs.Add("type", "type must be one of: income, expense")
	}
	if r.Amount != nil && *r.Amount <= 0 {
		errs.Add("amount", "amount must be greater than 0")
	}
	if r.Category != nil && validator.IsEmpty(*r.Category) {
		errs.Add("category", "category must not be empty")
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}

	return errs.OrNil()
}

// Apply copies the non-nil fields onto rec. Validate must have passed.
func (r *UpdateRecordRequest) Apply(rec *Record) {
	if r.Type != nil {
		rec.Type = Type(*r.Type)
	}
	if r.Amount != nil {
		rec.Amount = *r.Amount
	}
	if r.Category != nil {
		rec.Category = *r.Category
	}
	if r.Date != nil {
		rec.Date, _ = time.Parse(dateLayout, *r.Date)
	}
	if r.Description != nil {
		rec.Description = *r.Description
	}
}

// ListFilter narrows a ledger listing. Query parameters: type, startDate, endDate.
type ListFilter struct {
	Type      *string
	StartDate *string
	EndDate   *string
}

func (f *ListFilter) Validate() error {
	errs := validator.ValidateDateRange("startDate", f.StartDate, "endDate", f.EndDate)
	if f.Type != nil && *f.Type != "" && !Type(*f.Type).IsValid() {
		errs.Add("type", "type must be one of: income, expense")
	}
	return errs.OrNil()
}

// Matches reports whether rec passes the filter.
func (f ListFilter) Matches(rec Record) bool {
	if f.Type != nil && *f.Type != "" && string(rec.Type) != *f.Type {
		return false
	}
	day := rec.Date.Format(dateLayout)
	if f.StartDate != nil && *f.StartDate != "" && day < *f.StartDate {
		return false
	}
	if f.EndDate != nil && *f.EndDate != "" && day > *f.EndDate {
		return false
	}
	return true
}

type RecordResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	CreatedBy   string  `json:"created_by"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func ToResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:          r.ID,
		Type:        string(r.Type),
		Amount:      r.Amount,
		Category:    r.Category,
		Date:        r.Date.Format(dateLayout),
		Description: r.Description,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.Format(time.RFC3339),
	}
}

type TotalsResponse struct {
	TotalIncome   float64 `json:"total_income"`
	TotalExpenses float64 `json:"total_expenses"`
	Balance       float64 `json:"balance"`
}

func ToTotalsResponse(t Totals) TotalsResponse {
	return TotalsResponse{
		TotalIncome:   t.Income,
		TotalExpenses: t.Expenses,
		Balance:       t.Balance(),
	}
}
