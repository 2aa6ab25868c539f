package usecase

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/entity"
)

// NotificationPublisher fans notifications out of the process.
type NotificationPublisher interface {
	PublishNotification(ctx context.Context, n entity.Notification) error
}

// NotificationCenter keeps the active notifications and drops each one
// once its duration has elapsed.
type NotificationCenter struct {
	mu        sync.Mutex
	items     []entity.Notification
	duration  time.Duration
	publisher NotificationPublisher
	logger    *zap.Logger
	now       func() time.Time
}

var _ Notifier = (*NotificationCenter)(nil)

func NewNotificationCenter(duration time.Duration, publisher NotificationPublisher, logger *zap.Logger) *NotificationCenter {
	if duration <= 0 {
		duration = entity.DefaultNotificationDuration
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationCenter{
		duration:  duration,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (c *NotificationCenter) Notify(ctx context.Context, n entity.Notification) {
	if n.Duration <= 0 {
		n.Duration = c.duration.Milliseconds()
	}

	c.mu.Lock()
	c.items = append(c.items, n)
	c.mu.Unlock()

	c.logger.Info("🔔 notificação",
		zap.String("type", string(n.Type)),
		zap.String("title", n.Title),
		zap.String("message", n.Message))

	if c.publisher == nil {
		return
	}
	if err := c.publisher.PublishNotification(ctx, n); err != nil {
		c.logger.Warn("⚠️ falha ao publicar notificação", zap.String("id", n.ID), zap.Error(err))
	}
}

// Active returns the notifications that have not expired yet, oldest first.
func (c *NotificationCenter) Active() []entity.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked(c.now())
	return slices.Clone(c.items)
}

func (c *NotificationCenter) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(n entity.Notification) bool { return n.ID == id })
	return len(c.items) != before
}

func (c *NotificationCenter) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// Sweep drops expired notifications and reports how many went away.
func (c *NotificationCenter) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked(now)
}

func (c *NotificationCenter) sweepLocked(now time.Time) int {
	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(n entity.Notification) bool {
		return !now.Before(n.ExpiresAt())
	})
	return before - len(c.items)
}
