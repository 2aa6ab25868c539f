// Package app holds the wiring shared by the API server and the console CLI.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/config"
	"github.com/xavierca1/seller-console/internal/infra/database"
	"github.com/xavierca1/seller-console/internal/infra/integration/crm"
	"github.com/xavierca1/seller-console/internal/infra/logger"
	"github.com/xavierca1/seller-console/internal/usecase"
)

// State is an opened store with its controller already loaded.
type State struct {
	KV   database.KVStore
	Repo *database.StateStore
	Ctrl *usecase.Controller
}

func NewLogger(cfg *config.Config, output string) *zap.Logger {
	return logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: output})
}

// OpenState connects to the configured store and loads the console state.
func OpenState(ctx context.Context, cfg *config.Config, log *zap.Logger) (*State, error) {
	kv, err := database.OpenKV(ctx, database.Options{
		Driver:      cfg.StoreDriver,
		SQLitePath:  cfg.SQLitePath,
		DatabaseURL: cfg.DatabaseURL,
		RedisURL:    cfg.RedisURL,
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir store %s: %w", cfg.StoreDriver, err)
	}

	repo := database.NewStateStore(kv, cfg.StateNamespace, log)
	ctrl := usecase.NewController(repo, cfg.ItemsPerPage, log)
	if err := ctrl.Load(ctx); err != nil {
		kv.Close()
		return nil, fmt.Errorf("falha ao carregar estado: %w", err)
	}
	return &State{KV: kv, Repo: repo, Ctrl: ctrl}, nil
}

// NewRemote returns the CRM webhook client when CRM_WEBHOOK_URL is set and
// the simulated remote built from the SIM_* settings otherwise.
func NewRemote(cfg *config.Config, log *zap.Logger) usecase.Remote {
	if cfg.CRMWebhookURL != "" {
		log.Info("🔗 remote: webhook CRM", zap.String("url", cfg.CRMWebhookURL))
		return crm.NewClient(cfg.CRMWebhookURL, cfg.CRMAPIToken, cfg.CRMTimeout, log)
	}
	return usecase.NewSimulatedRemote(cfg.SimLatencyMin, cfg.SimLatencyMax, cfg.SimFailureRate)
}

func (s *State) Close() error {
	return s.KV.Close()
}
