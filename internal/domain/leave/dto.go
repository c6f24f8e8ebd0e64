package leave

import (
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

type CreateLeaveRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StartDate) {
		errs.Add("start_date", "start_date is required")
	}
	if validator.IsEmpty(r.EndDate) {
		errs.Add("end_date", "end_date is required")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}
	if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}
	errs = append(errs, validator.ValidateDateRange("start_date", &r.StartDate, "end_date", &r.EndDate)...)

	return errs.OrNil()
}

type UpdateStatusRequest struct {
	ID       string  `json:"-"`
	Status   string  `json:"status"`
	Comments *string `json:"comments,omitempty"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if !validator.IsInSlice(r.Status, []string{string(StatusApproved), string(StatusRejected)}) {
		errs.Add("status", "status must be one of: approved, rejected")
	}

	return errs.OrNil()
}

type LeaveResponse struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	StartDate     string        `json:"start_date"`
	EndDate       string        `json:"end_date"`
	Reason        string        `json:"reason"`
	Status        string        `json:"status"`
	RequestDate   string        `json:"request_date"`
	AdminComments *string       `json:"admin_comments,omitempty"`
	UpdatedBy     *string       `json:"updated_by,omitempty"`
	UpdateDate    *string       `json:"update_date,omitempty"`
	User          *user.Summary `json:"user,omitempty"`
}

func ToResponse(r LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		StartDate:     r.StartDate.Format(dateLayout),
		EndDate:       r.EndDate.Format(dateLayout),
		Reason:        r.Reason,
		Status:        string(r.Status),
		RequestDate:   r.RequestDate.Format(time.RFC3339),
		AdminComments: r.AdminComments,
		UpdatedBy:     r.UpdatedBy,
		User:          r.User,
	}
	if r.UpdateDate != nil {
		s := r.UpdateDate.Format(time.RFC3339)
		resp.UpdateDate = &s
	}
	return resp
}
