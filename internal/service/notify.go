package service

import (
	"context"

	"github.com/famoustracker/famous-tracker-go/internal/domain"
	"github.com/famoustracker/famous-tracker-go/internal/util"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Dispatcher delivers a celebrity alert to one outbound channel
// (email, Slack, webhook). Implementations live outside this core;
// LogDispatcher is the built-in default.
type Dispatcher interface {
	Name() string
	Dispatch(ctx context.Context, alert *domain.Alert) error
}

// LogDispatcher writes alerts to the structured log. It stands in for real
// transports in development and keeps the fan-out path exercised.
type LogDispatcher struct {
	logger *zap.Logger
}

func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Name() string {
	return "log"
}

func (d *LogDispatcher) Dispatch(_ context.Context, alert *domain.Alert) error {
	fields := []zap.Field{
		zap.String("shop", alert.ShopDomain),
		zap.String("celebrity", alert.Celebrity.FullName),
		zap.Float64("score", alert.Score),
		zap.String("kind", string(alert.Kind)),
	}
	if alert.OrderID != "" {
		fields = append(fields, zap.String("order_id", alert.OrderID))
	}
	if alert.Celebrity.Notes != "" {
		fields = append(fields, zap.String("notes", util.TruncateString(alert.Celebrity.Notes, 120)))
	}

	d.logger.Info("Celebrity order alert", fields...)
	return nil
}

// Notifier fans an alert out to every registered dispatcher with bounded
// concurrency. One failing dispatcher does not stop the others; the combined
// error is returned for logging, never to fail the webhook.
type Notifier struct {
	dispatchers []Dispatcher
	concurrency int
	logger      *zap.Logger
}

func NewNotifier(dispatchers []Dispatcher, logger *zap.Logger) *Notifier {
	return &Notifier{
		dispatchers: dispatchers,
		concurrency: 4,
		logger:      logger,
	}
}

func (n *Notifier) Notify(ctx context.Context, alert *domain.Alert) error {
	if len(n.dispatchers) == 0 {
		return nil
	}

	p := pool.New().WithErrors().WithMaxGoroutines(n.concurrency)
	for _, dispatcher := range n.dispatchers {
		p.Go(func() error {
			if err := dispatcher.Dispatch(ctx, alert); err != nil {
				n.logger.Warn("Dispatcher failed",
					zap.String("dispatcher", dispatcher.Name()),
					zap.String("shop", alert.ShopDomain),
					zap.Error(err),
				)
				return err
			}
			return nil
		})
	}

	return p.Wait()
}
