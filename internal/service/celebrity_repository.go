package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/famoustracker/famous-tracker-go/internal/constants"
	"github.com/famoustracker/famous-tracker-go/internal/domain"
	"github.com/famoustracker/famous-tracker-go/internal/service/database"
	"github.com/famoustracker/famous-tracker-go/internal/util"
	"github.com/famoustracker/famous-tracker-go/pkg/errors"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const celebrityColumns = `
	id, full_name, normalized_name, categories, subcategories, socials,
	city, state, country, max_follower_count, max_follower_display,
	notable_achievements, notes
`

// CelebrityRepository is the reference store accessor. Transient store
// failures are retried internally (fixed delay, bounded attempts) and
// surfaced to callers as a single StoreError outcome; the orchestrator never
// retries on top of it.
type CelebrityRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewCelebrityRepository(postgres *database.PostgresService, logger *zap.Logger) *CelebrityRepository {
	return &CelebrityRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// FindByNormalizedName is the exact point lookup on the unique
// normalized-name index. Returns (nil, nil) when no record has the key.
func (r *CelebrityRepository) FindByNormalizedName(ctx context.Context, normalizedName string) (*domain.Celebrity, error) {
	query := `
		SELECT ` + celebrityColumns + `
		FROM celebrities
		WHERE normalized_name = $1
		LIMIT 1
	`

	var celeb *domain.Celebrity
	err := util.Retry(ctx, constants.RetryConfig.MaxAttempts, constants.RetryConfig.Delay, func() error {
		row := r.db.QueryRowContext(ctx, query, normalizedName)
		found, scanErr := r.scanCelebrity(row, &celeb)
		if scanErr != nil {
			return scanErr
		}
		if !found {
			celeb = nil
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewStoreError("exact lookup failed", "find_by_normalized_name", err)
	}

	return celeb, nil
}

// FindCandidates returns up to limit records whose full name contains any of
// the supplied tokens, case-insensitively. This is a deliberately loose
// pre-filter that bounds fuzzy-matching cost; an empty token list yields an
// empty candidate set, which is a valid non-error outcome.
func (r *CelebrityRepository) FindCandidates(ctx context.Context, tokens []string, limit int) ([]*domain.Celebrity, error) {
	if limit <= 0 {
		limit = constants.Matching.CandidateLimit
	}

	clean := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if t := strings.TrimSpace(token); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) == 0 {
		return nil, nil
	}

	conditions := make([]string, len(clean))
	args := make([]any, 0, len(clean)+1)
	for i, token := range clean {
		conditions[i] = fmt.Sprintf("full_name ILIKE '%%' || $%d || '%%'", i+1)
		args = append(args, token)
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT %s
		FROM celebrities
		WHERE %s
		ORDER BY full_name
		LIMIT $%d
	`, celebrityColumns, strings.Join(conditions, " OR "), len(clean)+1)

	return r.queryCelebrities(ctx, "find_candidates", query, args...)
}

// GetAllCelebrities loads the whole reference set, used to build the
// wholesale candidate cache.
func (r *CelebrityRepository) GetAllCelebrities(ctx context.Context) ([]*domain.Celebrity, error) {
	query := `
		SELECT ` + celebrityColumns + `
		FROM celebrities
		ORDER BY full_name
	`
	return r.queryCelebrities(ctx, "get_all_celebrities", query)
}

// Count returns the total number of reference records.
func (r *CelebrityRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := util.Retry(ctx, constants.RetryConfig.MaxAttempts, constants.RetryConfig.Delay, func() error {
		return r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM celebrities`).Scan(&count)
	})
	if err != nil {
		return 0, errors.NewStoreError("count failed", "count_celebrities", err)
	}
	return count, nil
}

// Upsert inserts or updates a record keyed by its unique normalized name and
// returns the stored row id.
func (r *CelebrityRepository) Upsert(ctx context.Context, celeb *domain.Celebrity) (int64, error) {
	socialsJSON, err := json.Marshal(celeb.Socials)
	if err != nil {
		return 0, errors.NewValidationError("socials are not serializable", "socials", celeb.Socials)
	}

	query := `
		INSERT INTO celebrities (
			full_name, normalized_name, categories, subcategories, socials,
			city, state, country, max_follower_count, max_follower_display,
			notable_achievements, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (normalized_name) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			categories = EXCLUDED.categories,
			subcategories = EXCLUDED.subcategories,
			socials = EXCLUDED.socials,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			country = EXCLUDED.country,
			max_follower_count = EXCLUDED.max_follower_count,
			max_follower_display = EXCLUDED.max_follower_display,
			notable_achievements = EXCLUDED.notable_achievements,
			notes = EXCLUDED.notes
		RETURNING id
	`

	var id int64
	err = util.Retry(ctx, constants.RetryConfig.MaxAttempts, constants.RetryConfig.Delay, func() error {
		return r.db.QueryRowContext(ctx, query,
			celeb.FullName,
			celeb.NormalizedName,
			pq.Array(celeb.CategoryTags()),
			pq.Array(celeb.Subcategories),
			socialsJSON,
			celeb.Location.City,
			celeb.Location.State,
			celeb.Location.Country,
			celeb.MaxFollowerCount,
			celeb.MaxFollowerDisplay,
			pq.Array(celeb.NotableAchievements),
			celeb.Notes,
		).Scan(&id)
	})
	if err != nil {
		return 0, errors.NewStoreError("upsert failed", "upsert_celebrity", err)
	}

	return id, nil
}

func (r *CelebrityRepository) queryCelebrities(ctx context.Context, operation, query string, args ...any) ([]*domain.Celebrity, error) {
	var celebs []*domain.Celebrity

	err := util.Retry(ctx, constants.RetryConfig.MaxAttempts, constants.RetryConfig.Delay, func() error {
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		celebs = celebs[:0]
		for rows.Next() {
			var celeb *domain.Celebrity
			found, scanErr := r.scanCelebrity(rows, &celeb)
			if scanErr != nil {
				r.logger.Warn("Failed to scan celebrity row", zap.Error(scanErr))
				continue
			}
			if found {
				celebs = append(celebs, celeb)
			}
		}
		return rows.Err()
	})
	if err != nil {
		return nil, errors.NewStoreError("query failed", operation, err)
	}

	return celebs, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *CelebrityRepository) scanCelebrity(row rowScanner, out **domain.Celebrity) (bool, error) {
	var (
		id                 int64
		fullName           string
		normalizedName     string
		categories         []string
		subcategories      []string
		socialsJSON        []byte
		city               sql.NullString
		state              sql.NullString
		country            sql.NullString
		maxFollowerCount   sql.NullInt64
		maxFollowerDisplay sql.NullString
		achievements       []string
		notes              sql.NullString
	)

	err := row.Scan(
		&id, &fullName, &normalizedName,
		pq.Array(&categories), pq.Array(&subcategories), &socialsJSON,
		&city, &state, &country,
		&maxFollowerCount, &maxFollowerDisplay,
		pq.Array(&achievements), &notes,
	)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	celeb := &domain.Celebrity{
		ID:                  id,
		FullName:            fullName,
		NormalizedName:      normalizedName,
		Subcategories:       subcategories,
		NotableAchievements: achievements,
	}

	for _, tag := range categories {
		if cat, ok := domain.ParseCategory(tag); ok {
			celeb.Categories = append(celeb.Categories, cat)
		} else {
			r.logger.Warn("Unknown category tag in store",
				zap.String("celebrity", fullName),
				zap.String("tag", tag),
			)
		}
	}

	if len(socialsJSON) > 0 {
		if err := json.Unmarshal(socialsJSON, &celeb.Socials); err != nil {
			return false, fmt.Errorf("failed to unmarshal socials: %w", err)
		}
	}

	if city.Valid {
		celeb.Location.City = city.String
	}
	if state.Valid {
		celeb.Location.State = state.String
	}
	if country.Valid {
		celeb.Location.Country = country.String
	}
	if maxFollowerCount.Valid {
		celeb.MaxFollowerCount = maxFollowerCount.Int64
	}
	if maxFollowerDisplay.Valid {
		celeb.MaxFollowerDisplay = maxFollowerDisplay.String
	}
	if notes.Valid {
		celeb.Notes = notes.String
	}

	*out = celeb
	return true, nil
}
