package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/famoustracker/famous-tracker-go/internal/constants"
	"github.com/famoustracker/famous-tracker-go/internal/domain"
	"github.com/famoustracker/famous-tracker-go/internal/service/database"
	"github.com/famoustracker/famous-tracker-go/internal/util"
	"github.com/famoustracker/famous-tracker-go/pkg/errors"
	"go.uber.org/zap"
)

type MerchantRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewMerchantRepository(postgres *database.PostgresService, logger *zap.Logger) *MerchantRepository {
	return &MerchantRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// GetSettings returns the merchant's alert configuration, or (nil, nil) when
// the shop has never saved one. Toggle keys are normalized to lowercase on
// the way out so gate lookups stay case-insensitive.
func (r *MerchantRepository) GetSettings(ctx context.Context, shopDomain string) (*domain.MerchantSettings, error) {
	query := `
		SELECT category_toggles
		FROM merchant_settings
		WHERE shop_domain = $1
		LIMIT 1
	`

	var settings *domain.MerchantSettings
	err := util.Retry(ctx, constants.RetryConfig.MaxAttempts, constants.RetryConfig.Delay, func() error {
		var togglesJSON []byte
		err := r.db.QueryRowContext(ctx, query, shopDomain).Scan(&togglesJSON)
		if err == sql.ErrNoRows {
			settings = nil
			return nil
		}
		if err != nil {
			return err
		}

		var toggles domain.CategoryToggles
		if err := json.Unmarshal(togglesJSON, &toggles); err != nil {
			return fmt.Errorf("failed to unmarshal category toggles: %w", err)
		}

		settings = &domain.MerchantSettings{
			ShopDomain:      shopDomain,
			CategoryToggles: toggles.Normalized(),
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewStoreError("settings lookup failed", "get_merchant_settings", err)
	}

	return settings, nil
}

func (r *MerchantRepository) UpsertSettings(ctx context.Context, settings *domain.MerchantSettings) error {
	togglesJSON, err := json.Marshal(settings.CategoryToggles.Normalized())
	if err != nil {
		return errors.NewValidationError("category toggles are not serializable", "categoryToggles", settings.CategoryToggles)
	}

	query := `
		INSERT INTO merchant_settings (shop_domain, category_toggles)
		VALUES ($1, $2)
		ON CONFLICT (shop_domain) DO UPDATE SET category_toggles = EXCLUDED.category_toggles
	`

	err = util.Retry(ctx, constants.RetryConfig.MaxAttempts, constants.RetryConfig.Delay, func() error {
		_, execErr := r.db.ExecContext(ctx, query, settings.ShopDomain, togglesJSON)
		return execErr
	})
	if err != nil {
		return errors.NewStoreError("settings upsert failed", "upsert_merchant_settings", err)
	}

	return nil
}
