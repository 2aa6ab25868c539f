package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper is implemented by usecase.NotificationCenter.
type Sweeper interface {
	Sweep(now time.Time) int
}

// NotificationSweeper drops expired notifications on a fixed tick so they
// disappear even when nobody lists them.
type NotificationSweeper struct {
	center       Sweeper
	tickInterval time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

func NewNotificationSweeper(center Sweeper, tick time.Duration, logger *zap.Logger) *NotificationSweeper {
	if tick <= 0 {
		tick = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationSweeper{
		center:       center,
		tickInterval: tick,
		logger:       logger,
		now:          time.Now,
	}
}

func (w *NotificationSweeper) Start(ctx context.Context) {
	w.logger.Info("🕒 sweeper de notificações iniciado", zap.Duration("tick", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("⚠️ sweeper de notificações encerrado")
			return
		case <-ticker.C:
			if n := w.center.Sweep(w.now()); n > 0 {
				w.logger.Debug("🧹 notificações expiradas removidas", zap.Int("count", n))
			}
		}
	}
}
