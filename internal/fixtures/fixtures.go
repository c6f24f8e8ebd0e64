package fixtures

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/finance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// ==========================================
// SEED FILE
// ==========================================

type UserFixture struct {
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	Role       string `yaml:"role"`
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	Department string `yaml:"department"`
}

type FinanceFixture struct {
	Type        string  `yaml:"type"`
	Amount      float64 `yaml:"amount"`
	Category    string  `yaml:"category"`
	Date        string  `yaml:"date"`
	Description string  `yaml:"description"`
}

type LeaveFixture struct {
	Username    string `yaml:"username"`
	StartDate   string `yaml:"start_date"`
	EndDate     string `yaml:"end_date"`
	Reason      string `yaml:"reason"`
	Status      string `yaml:"status"`
	RequestDate string `yaml:"request_date"`
	Comments    string `yaml:"comments"`
}

type Seed struct {
	Users   []UserFixture    `yaml:"users"`
	Finance []FinanceFixture `yaml:"finance"`
	Leaves  []LeaveFixture   `yaml:"leaves"`
}

// Default returns the embedded seed data.
func Default() (Seed, error) {
	return Parse(defaultSeed)
}

// Parse decodes and checks a seed document.
func Parse(data []byte) (Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Seed{}, fmt.Errorf("failed to parse seed file: %w", err)
	}

	seen := make(map[string]bool, len(s.Users))
	for i, u := range s.Users {
		if u.Username == "" || u.Password == "" {
			return Seed{}, fmt.Errorf("users[%d]: username and password are required", i)
		}
		if !user.Role(u.Role).IsValid() {
			return Seed{}, fmt.Errorf("users[%d]: invalid role %q", i, u.Role)
		}
		if seen[u.Username] {
			return Seed{}, fmt.Errorf("users[%d]: duplicate username %q", i, u.Username)
		}
		seen[u.Username] = true
	}
	for i, f := range s.Finance {
		if !finance.Type(f.Type).IsValid() {
			return Seed{}, fmt.Errorf("finance[%d]: invalid type %q", i, f.Type)
		}
		if _, err := time.Parse(attendance.DateLayout, f.Date); err != nil {
			return Seed{}, fmt.Errorf("finance[%d]: invalid date %q", i, f.Date)
		}
	}
	for i, l := range s.Leaves {
		if !seen[l.Username] {
			return Seed{}, fmt.Errorf("leaves[%d]: unknown user %q", i, l.Username)
		}
		switch leave.Status(l.Status) {
		case leave.StatusPending, leave.StatusApproved, leave.StatusRejected:
		default:
			return Seed{}, fmt.Errorf("leaves[%d]: invalid status %q", i, l.Status)
		}
	}
	return s, nil
}

// FinanceRecords builds ledger entries created by createdBy.
func (s Seed) FinanceRecords(createdBy string, loc *time.Location) []finance.Record {
	records := make([]finance.Record, 0, len(s.Finance))
	for _, f := range s.Finance {
		date, _ := time.ParseInLocation(attendance.DateLayout, f.Date, loc)
		records = append(records, finance.Record{
			ID:          uuid.NewString(),
			Type:        finance.Type(f.Type),
			Amount:      f.Amount,
			Category:    f.Category,
			Date:        date,
			Description: f.Description,
			CreatedBy:   createdBy,
		})
	}
	return records
}

// SampleLeave is a pending request plus the decision to apply after it is
// stored, if any.
type SampleLeave struct {
	Request  leave.LeaveRequest
	Decision *leave.Decision
}

// LeaveRequests resolves usernames through userIDs. Entries for users not in
// the map are skipped.
func (s Seed) LeaveRequests(userIDs map[string]string, decidedBy string, loc *time.Location) []SampleLeave {
	out := make([]SampleLeave, 0, len(s.Leaves))
	for _, l := range s.Leaves {
		userID, ok := userIDs[l.Username]
		if !ok {
			continue
		}
		start, _ := time.ParseInLocation(attendance.DateLayout, l.StartDate, loc)
		end, _ := time.ParseInLocation(attendance.DateLayout, l.EndDate, loc)
		requested, err := time.ParseInLocation(attendance.DateLayout, l.RequestDate, loc)
		if err != nil {
			requested = start
		}

		sample := SampleLeave{Request: leave.LeaveRequest{
			ID:          uuid.NewString(),
			UserID:      userID,
			StartDate:   start,
			EndDate:     end,
			Reason:      l.Reason,
			Status:      leave.StatusPending,
			RequestDate: requested,
		}}
		if status := leave.Status(l.Status); status != leave.StatusPending {
			d := leave.Decision{
				Status:    status,
				DecidedBy: decidedBy,
				DecidedAt: requested.Add(24 * time.Hour),
			}
			if l.Comments != "" {
				comments := l.Comments
				d.Comments = &comments
			}
			sample.Decision = &d
		}
		out = append(out, sample)
	}
	return out
}
