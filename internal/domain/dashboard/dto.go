package dashboard

import "github.com/cmlabs-hris/dashpro-backend-go/internal/domain/finance"

type StatsResponse struct {
	Date          string                  `json:"date"`
	PresentToday  int64                   `json:"present_today"` // present + late
	LateToday     int64                   `json:"late_today"`
	PendingLeaves int64                   `json:"pending_leaves"`
	Finance       *finance.TotalsResponse `json:"finance,omitempty"`
}
