package domain

import "time"

// DashboardSummary is the aggregate shown on the merchant admin dashboard.
type DashboardSummary struct {
	ShopDomain     string     `json:"shopDomain"`
	TotalMatches   int64      `json:"totalMatches"`
	RelevantAlerts int64      `json:"relevantAlerts"`
	LastMatchAt    *time.Time `json:"lastMatchAt,omitempty"`
}
