package service

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"todolist/internal/core/port"
	"todolist/internal/core/telemetry"
)

const DefaultSweepInterval = time.Hour

// TrashSweeper periodically removes trash entries past their expiry.
type TrashSweeper struct {
	trash    port.TrashService
	interval time.Duration
	logger   *otelzap.Logger
	metrics  *telemetry.AppMetrics
}

func NewTrashSweeper(trash port.TrashService, interval time.Duration, logger *otelzap.Logger, metrics *telemetry.AppMetrics) *TrashSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}

	return &TrashSweeper{
		trash:    trash,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *TrashSweeper) Run(ctx context.Context) error {
	s.logger.Ctx(ctx).Info("Trash sweeper started", zap.Duration("interval", s.interval))

	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Trash sweeper stopped")
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

func (s *TrashSweeper) Sweep(ctx context.Context) int {
	count, err := s.trash.PurgeExpired(ctx)

	if err != nil {
		if ctx.Err() == nil {
			s.logger.Ctx(ctx).Error("Trash sweep failed", zap.Error(err))
		}

		return 0
	}

	s.metrics.RecordTrashPurged(ctx, count)

	if count > 0 {
		s.logger.Ctx(ctx).Info("Expired trash entries purged", zap.Int("count", count))
	}

	return count
}
