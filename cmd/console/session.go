package main

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/app"
	"github.com/xavierca1/seller-console/internal/config"
	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/usecase"
)

// session is one opened console: store, controller and coordinator.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	state  *app.State
	center *usecase.NotificationCenter
	coord  *usecase.Coordinator
}

type opener func(ctx context.Context) (*session, error)

// openSession logs to stderr so exports written to stdout stay clean.
func openSession(ctx context.Context) (*session, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := app.NewLogger(cfg, "stderr")

	st, err := app.OpenState(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return newSession(cfg, logger, st, app.NewRemote(cfg, logger)), nil
}

func newSession(cfg *config.Config, logger *zap.Logger, st *app.State, remote usecase.Remote) *session {
	center := usecase.NewNotificationCenter(cfg.NotificationDuration, nil, logger)
	return &session{
		cfg:    cfg,
		logger: logger,
		state:  st,
		center: center,
		coord:  usecase.NewCoordinator(st.Ctrl, remote, center, nil, logger),
	}
}

func (s *session) Close() error {
	s.logger.Sync()
	return s.state.Close()
}

// report prints the notifications raised by the command, oldest first.
func (s *session) report(w io.Writer) {
	for _, n := range s.center.Active() {
		fmt.Fprintf(w, "%s %s: %s\n", icon(n.Type), n.Title, n.Message)
	}
	s.center.Clear()
}

func icon(t entity.NotificationType) string {
	switch t {
	case entity.NotificationSuccess:
		return "✅"
	case entity.NotificationError:
		return "❌"
	case entity.NotificationWarning:
		return "⚠️"
	}
	return "ℹ️"
}
