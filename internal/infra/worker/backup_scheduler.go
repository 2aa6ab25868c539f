package worker

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// BackupJob is implemented by usecase.BackupUseCase.
type BackupJob interface {
	Execute(ctx context.Context) (string, error)
}

// BackupScheduler runs a backup job on a standard five-field cron spec.
type BackupScheduler struct {
	cron   *cron.Cron
	job    BackupJob
	logger *zap.Logger
}

func NewBackupScheduler(spec string, job BackupJob, logger *zap.Logger) (*BackupScheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &BackupScheduler{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		job:    job,
		logger: logger,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("agenda de backup inválida %q: %w", spec, err)
	}
	return s, nil
}

func (s *BackupScheduler) run() {
	location, err := s.job.Execute(context.Background())
	if err != nil {
		s.logger.Error("❌ backup agendado falhou", zap.Error(err))
		return
	}
	s.logger.Info("✅ backup agendado concluído", zap.String("location", location))
}

// Start runs the scheduler until ctx is done, then waits for a running
// backup to finish.
func (s *BackupScheduler) Start(ctx context.Context) {
	s.logger.Info("🗓️ agendador de backup iniciado")
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("⚠️ agendador de backup encerrado")
}
