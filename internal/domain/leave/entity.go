package leave

import (
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// LeaveRequest entity
type LeaveRequest struct {
	ID            string
	UserID        string
	StartDate     time.Time
	EndDate       time.Time
	Reason        string
	Status        Status
	RequestDate   time.Time
	AdminComments *string
	UpdatedBy     *string
	UpdateDate    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Join
	User *user.Summary
}

// Decision is what an admin records when processing a pending request.
type Decision struct {
	Status    Status
	Comments  *string
	DecidedBy string
	DecidedAt time.Time
}
