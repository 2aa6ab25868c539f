package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/app"
	"github.com/xavierca1/seller-console/internal/config"
	"github.com/xavierca1/seller-console/internal/infra/http/handlers"
	"github.com/xavierca1/seller-console/internal/infra/http/middleware"
	"github.com/xavierca1/seller-console/internal/infra/http/router"
	"github.com/xavierca1/seller-console/internal/infra/mail"
	"github.com/xavierca1/seller-console/internal/infra/queue"
	"github.com/xavierca1/seller-console/internal/infra/seed"
	"github.com/xavierca1/seller-console/internal/infra/storage"
	"github.com/xavierca1/seller-console/internal/infra/worker"
	"github.com/xavierca1/seller-console/internal/usecase"
)

func main() {
	cfg := config.Load()
	logger := app.NewLogger(cfg, "stdout")
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("❌ configuração inválida", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Estado
	st, err := app.OpenState(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("❌ falha ao abrir estado", zap.Error(err))
	}
	defer st.Close()

	if cfg.SeedSampleData {
		if _, err := seed.NewSeeder(st.Ctrl, st.Repo, logger).Run(ctx, cfg.SampleLeads, false); err != nil {
			logger.Warn("⚠️ não foi possível carregar dados de exemplo", zap.Error(err))
		}
	}

	var wg sync.WaitGroup
	goRun := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	// 2. RabbitMQ (opcional) + alertas por e-mail
	var (
		publisher usecase.NotificationPublisher
		broker    handlers.BrokerPinger
	)
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("⚠️ RabbitMQ indisponível, notificações ficam locais", zap.Error(err))
		} else {
			defer rabbitMQ.Close()
			publisher = queue.NewProducer(rabbitMQ.Ch)
			broker = rabbitMQ

			var alerts queue.AlertSender
			if cfg.MailHost != "" && cfg.AlertEmail != "" {
				alerts = mail.NewAlertSender(mail.NewEmailSender(
					cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.AlertEmail,
				))
			}
			notificationWorker := queue.NewWorker(rabbitMQ.Ch, alerts, logger)
			goRun(func() {
				if err := notificationWorker.Start(ctx, queue.QueueName); err != nil {
					logger.Error("❌ worker de notificações parou", zap.Error(err))
				}
			})
		}
	}

	// 3. UseCases
	center := usecase.NewNotificationCenter(cfg.NotificationDuration, publisher, logger)
	coord := usecase.NewCoordinator(st.Ctrl, app.NewRemote(cfg, logger), center, middleware.ConsoleMetrics{}, logger)

	// 4. Workers
	sweeper := worker.NewNotificationSweeper(center, time.Second, logger)
	goRun(func() { sweeper.Start(ctx) })

	if cfg.BackupSchedule != "" {
		store, err := storage.Open(ctx, cfg)
		if err != nil {
			logger.Fatal("❌ falha ao abrir storage de exportação", zap.Error(err))
		}
		scheduler, err := worker.NewBackupScheduler(cfg.BackupSchedule, usecase.NewBackupUseCase(st.Ctrl, store, logger), logger)
		if err != nil {
			logger.Fatal("❌ BACKUP_SCHEDULE inválido", zap.Error(err))
		}
		goRun(func() { scheduler.Start(ctx) })
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	goRun(func() { limiter.RunCleanup(ctx, 3*time.Minute) })

	// 5. Router
	handler := router.New(router.Deps{
		Coord:          coord,
		Ctrl:           st.Ctrl,
		Notifications:  center,
		Health:         handlers.NewHealthHandler(st.Repo, cfg.StoreDriver, broker),
		Limiter:        limiter,
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("🔥 Seller Console rodando",
			zap.String("port", cfg.APIPort),
			zap.String("store", cfg.StoreDriver),
			zap.String("env", cfg.APIEnvironment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("❌ servidor HTTP falhou", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("⚠️ encerrando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("❌ shutdown forçado", zap.Error(err))
	}
	wg.Wait()
	logger.Info("👋 servidor encerrado")
}
