package domain

// MatchKind labels how a match was produced.
type MatchKind string

const (
	MatchExact MatchKind = "exact"
	MatchFuzzy MatchKind = "fuzzy"
)

// Match is the normalized outcome of a successful match attempt.
// Score is a distance in [0,1]: 0.0 means an exact key hit, fuzzy matches
// carry the matcher's distance (lower = better). UIs invert it to a percent
// via 1 - Score.
type Match struct {
	Celebrity *Celebrity `json:"celebrity"`
	Score     float64    `json:"score"`
	Kind      MatchKind  `json:"kind"`
}

// MatchRequest carries one match attempt. City/State are optional
// disambiguation hints; when present they participate in the storage-key
// reconciliation for the exact lookup. Threshold <= 0 means "use the
// caller-facing default" (order path and admin path are tuned differently).
type MatchRequest struct {
	Name      string
	City      string
	State     string
	Threshold float64
}

// Alert is what the notification layer receives once a match clears the
// merchant's category gate.
type Alert struct {
	ShopDomain string     `json:"shopDomain"`
	OrderID    string     `json:"orderId,omitempty"`
	Celebrity  *Celebrity `json:"celebrity"`
	Score      float64    `json:"score"`
	Kind       MatchKind  `json:"kind"`
}
