package constants

import "time"

var CacheTTL = struct {
	Default          time.Duration
	CandidateSet     time.Duration
	CelebrityRecord  time.Duration
	MerchantSettings time.Duration
	DashboardSummary time.Duration
}{
	Default:          60 * time.Second, // generic result cache entries
	CandidateSet:     1 * time.Hour,    // whole reference set, changes infrequently
	CelebrityRecord:  30 * time.Minute, // per-record redis tier
	MerchantSettings: 5 * time.Minute,  // merchant toggle config
	DashboardSummary: 30 * time.Minute, // admin dashboard aggregates
}

var CacheKey = struct {
	CandidateSet     string
	CelebrityPrefix  string
	MerchantPrefix   string
	DashboardPrefix  string
	CelebrityPattern string
}{
	CandidateSet:     "celebrities:all",
	CelebrityPrefix:  "celebrity:key:",
	MerchantPrefix:   "merchant:settings:",
	DashboardPrefix:  "dashboard:summary:",
	CelebrityPattern: "celebrity:*",
}

// Store-call retry policy: attempts are single-shot from the orchestrator's
// point of view; the accessor retries internally and surfaces one outcome.
var RetryConfig = struct {
	MaxAttempts int
	Delay       time.Duration
}{
	MaxAttempts: 3,
	Delay:       500 * time.Millisecond,
}

var Matching = struct {
	CandidateLimit int
	// The order-webhook path drives merchant-facing alerts, so it is tuned
	// stricter than the operator-facing admin search.
	OrderThreshold float64
	AdminThreshold float64
}{
	CandidateLimit: 100,
	OrderThreshold: 0.4,
	AdminThreshold: 0.5,
}

var ServerConfig = struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}{
	ReadTimeout:     10 * time.Second,
	WriteTimeout:    15 * time.Second,
	ShutdownTimeout: 10 * time.Second,
}
