package app

import (
	"context"
	"fmt"

	"github.com/famoustracker/famous-tracker-go/internal/config"
	"github.com/famoustracker/famous-tracker-go/internal/constants"
	"github.com/famoustracker/famous-tracker-go/internal/service"
	"github.com/famoustracker/famous-tracker-go/internal/service/cache"
	"github.com/famoustracker/famous-tracker-go/internal/service/database"
	"github.com/famoustracker/famous-tracker-go/internal/service/matcher"
	"github.com/famoustracker/famous-tracker-go/internal/web"
	"go.uber.org/zap"
)

// Container holds the assembled application. All heavy-weight initialization
// (DB, redis) happens in Build so the entrypoint stays focused on lifecycle.
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Server *web.Server

	closers []func()
}

// Close tears down infrastructure in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles the service graph: store accessors behind the read-through
// cache, the matcher over both, and the HTTP surface on top.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	closers = append(closers, func() {
		_ = postgresSvc.Close()
	})

	// The redis tier is optional: a failed connection downgrades to the
	// in-process cache instead of blocking startup.
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedisCache(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			logger.Warn("Redis unavailable, continuing with in-process cache only", zap.Error(err))
			redisCache = nil
			err = nil
		} else {
			closers = append(closers, func() {
				_ = redisCache.Close()
			})
		}
	}

	results := cache.NewStore(constants.CacheTTL.Default, nil)

	celebrityRepo := service.NewCelebrityRepository(postgresSvc, logger)
	merchantRepo := service.NewMerchantRepository(postgresSvc, logger)
	eventRepo := service.NewMatchEventRepository(postgresSvc, logger)

	celebrityCache := service.NewCelebrityCache(celebrityRepo, results, redisCache, logger)
	matcherSvc := matcher.NewCelebrityMatcher(celebrityCache, cfg.Matching.OrderThreshold, logger)

	notifier := service.NewNotifier([]service.Dispatcher{
		service.NewLogDispatcher(logger),
	}, logger)

	if count, countErr := celebrityRepo.Count(ctx); countErr != nil {
		logger.Warn("Could not count reference records at startup", zap.Error(countErr))
	} else {
		logger.Info("Reference store ready", zap.Int64("celebrities", count))
	}

	handler := web.NewHandler(web.HandlerDeps{
		Matcher:        matcherSvc,
		Celebrities:    celebrityRepo,
		Merchants:      merchantRepo,
		Events:         eventRepo,
		Notifier:       notifier,
		Invalidator:    celebrityCache,
		Pinger:         postgresSvc,
		Results:        results,
		OrderThreshold: cfg.Matching.OrderThreshold,
		AdminThreshold: cfg.Matching.AdminThreshold,
		Logger:         logger,
	})
	server := web.NewServer(cfg.Server, handler, logger)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Server:  server,
		closers: closers,
	}, nil
}
