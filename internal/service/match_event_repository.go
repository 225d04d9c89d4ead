package service

import (
	"context"
	"database/sql"

	"github.com/famoustracker/famous-tracker-go/internal/constants"
	"github.com/famoustracker/famous-tracker-go/internal/domain"
	"github.com/famoustracker/famous-tracker-go/internal/service/database"
	"github.com/famoustracker/famous-tracker-go/internal/util"
	"github.com/famoustracker/famous-tracker-go/pkg/errors"
	"go.uber.org/zap"
)

// MatchEventRepository records match outcomes for the admin dashboard.
type MatchEventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewMatchEventRepository(postgres *database.PostgresService, logger *zap.Logger) *MatchEventRepository {
	return &MatchEventRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

func (r *MatchEventRepository) Record(ctx context.Context, alert *domain.Alert, relevant bool) error {
	query := `
		INSERT INTO match_events (shop_domain, order_id, celebrity_id, score, kind, relevant, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	err := util.Retry(ctx, constants.RetryConfig.MaxAttempts, constants.RetryConfig.Delay, func() error {
		_, execErr := r.db.ExecContext(ctx, query,
			alert.ShopDomain,
			alert.OrderID,
			alert.Celebrity.ID,
			alert.Score,
			string(alert.Kind),
			relevant,
		)
		return execErr
	})
	if err != nil {
		return errors.NewStoreError("match event insert failed", "record_match_event", err)
	}

	return nil
}

func (r *MatchEventRepository) Summary(ctx context.Context, shopDomain string) (*domain.DashboardSummary, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE relevant),
		       MAX(created_at)
		FROM match_events
		WHERE shop_domain = $1
	`

	summary := &domain.DashboardSummary{ShopDomain: shopDomain}
	err := util.Retry(ctx, constants.RetryConfig.MaxAttempts, constants.RetryConfig.Delay, func() error {
		var last sql.NullTime
		if err := r.db.QueryRowContext(ctx, query, shopDomain).Scan(
			&summary.TotalMatches, &summary.RelevantAlerts, &last,
		); err != nil {
			return err
		}
		if last.Valid {
			summary.LastMatchAt = &last.Time
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewStoreError("summary query failed", "match_event_summary", err)
	}

	return summary, nil
}
