package matcher

import (
	"context"
	"strings"

	"github.com/famoustracker/famous-tracker-go/internal/constants"
	"github.com/famoustracker/famous-tracker-go/internal/domain"
	"github.com/famoustracker/famous-tracker-go/internal/normalize"
	"go.uber.org/zap"
)

// ReferenceStore is the candidate source the orchestrator matches against.
// In production it is the cached read-through layer over Postgres; tests
// substitute fakes.
type ReferenceStore interface {
	FindByNormalizedName(ctx context.Context, normalizedName string) (*domain.Celebrity, error)
	GetAllCelebrities(ctx context.Context) ([]*domain.Celebrity, error)
}

// CelebrityMatcher runs the exact-then-fuzzy matching protocol. It is
// stateless across requests: each FindBestMatch call walks
// normalize -> exact lookup -> candidate fetch -> fuzzy score and terminates
// in a match or a no-match. Store failures propagate; they are never folded
// into "no match".
type CelebrityMatcher struct {
	store            ReferenceStore
	logger           *zap.Logger
	defaultThreshold float64
}

func NewCelebrityMatcher(store ReferenceStore, defaultThreshold float64, logger *zap.Logger) *CelebrityMatcher {
	if defaultThreshold <= 0 || defaultThreshold > 1 {
		defaultThreshold = constants.Matching.OrderThreshold
	}
	return &CelebrityMatcher{
		store:            store,
		logger:           logger,
		defaultThreshold: defaultThreshold,
	}
}

// candidateKeys are the fields a candidate is scored on; the stored key has
// its underscores mapped back to spaces so both fields share the runtime
// normalization format.
var candidateKeys = []func(*domain.Celebrity) string{
	func(c *domain.Celebrity) string { return c.FullName },
	func(c *domain.Celebrity) string { return strings.ReplaceAll(c.NormalizedName, "_", " ") },
}

// FindBestMatch resolves a raw customer name to a reference record, or nil
// when nothing matches. An exact hit carries score 0.0 and skips fuzzy
// scoring entirely. An empty or unnormalizable name is a no-match, never an
// error.
func (m *CelebrityMatcher) FindBestMatch(ctx context.Context, req domain.MatchRequest) (*domain.Match, error) {
	queryNorm := normalize.ForQuery(req.Name)
	if queryNorm == "" {
		return nil, nil
	}

	// Reconcile the runtime query format with the underscore-delimited
	// storage-key convention before the exact lookup.
	key := normalize.ForStorageKey(queryNorm, req.City, req.State)

	record, err := m.store.FindByNormalizedName(ctx, key)
	if err != nil {
		return nil, err
	}
	if record != nil {
		m.logger.Debug("Exact celebrity match",
			zap.String("key", key),
			zap.String("celebrity", record.FullName),
		)
		return &domain.Match{Celebrity: record, Score: 0.0, Kind: domain.MatchExact}, nil
	}

	candidates, err := m.store.GetAllCelebrities(ctx)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	threshold := req.Threshold
	if threshold <= 0 || threshold > 1 {
		threshold = m.defaultThreshold
	}

	results := Search(queryNorm, candidates, candidateKeys, threshold)
	if len(results) == 0 {
		m.logger.Debug("No fuzzy match under threshold",
			zap.String("query", queryNorm),
			zap.Float64("threshold", threshold),
			zap.Int("candidates", len(candidates)),
		)
		return nil, nil
	}

	best := results[0]
	m.logger.Debug("Fuzzy celebrity match",
		zap.String("query", queryNorm),
		zap.String("celebrity", best.Item.FullName),
		zap.Float64("score", best.Score),
	)

	return &domain.Match{Celebrity: best.Item, Score: best.Score, Kind: domain.MatchFuzzy}, nil
}
