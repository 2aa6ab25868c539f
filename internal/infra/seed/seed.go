package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/usecase"
)

// DefaultSeed keeps the demo data identical between runs.
const DefaultSeed int64 = 42

var sources = []string{"website", "referral", "cold_call", "email", "social_media", "trade_show"}

var statuses = []string{
	string(entity.LeadStatusNew),
	string(entity.LeadStatusContacted),
	string(entity.LeadStatusQualified),
	string(entity.LeadStatusUnqualified),
}

// flagStore is the part of entity.StateRepository that tracks seeding.
type flagStore interface {
	SampleDataLoaded(ctx context.Context) (bool, error)
	MarkSampleDataLoaded(ctx context.Context) error
}

// GenerateLeads returns n demo leads created within the 90 days before now.
func GenerateLeads(n int, seed int64, now time.Time) []entity.Lead {
	f := gofakeit.New(seed)
	start := now.AddDate(0, 0, -90)

	leads := make([]entity.Lead, 0, n)
	for i := 0; i < n; i++ {
		first, last := f.FirstName(), f.LastName()
		company := f.Company()
		created := f.DateRange(start, now).UTC()
		updated := f.DateRange(created, now).UTC()

		leads = append(leads, entity.Lead{
			ID:        f.UUID(),
			Name:      first + " " + last,
			Company:   company,
			Email:     fmt.Sprintf("%s.%s@%s.%s", slug(first), slug(last), slug(company), f.DomainSuffix()),
			Source:    f.RandomString(sources),
			Score:     f.Number(0, 100),
			Status:    entity.LeadStatus(f.RandomString(statuses)),
			CreatedAt: created,
			UpdatedAt: updated,
		})
	}
	return leads
}

// Seeder loads demo leads into an empty console once.
type Seeder struct {
	ctrl   *usecase.Controller
	flags  flagStore
	logger *zap.Logger
	seed   int64
	now    func() time.Time
}

func NewSeeder(ctrl *usecase.Controller, flags flagStore, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		ctrl:   ctrl,
		flags:  flags,
		logger: logger,
		seed:   DefaultSeed,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Run seeds n leads when the console has no leads and has never been
// seeded. force skips both checks. It returns how many leads were written.
func (s *Seeder) Run(ctx context.Context, n int, force bool) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	if !force {
		loaded, err := s.flags.SampleDataLoaded(ctx)
		if err != nil {
			return 0, err
		}
		if loaded || len(s.ctrl.Get().Leads) > 0 {
			s.logger.Debug("🌱 dados de exemplo ignorados", zap.Bool("already_loaded", loaded))
			return 0, nil
		}
	}

	// offset the seed so forced runs never repeat ids already stored
	existing := len(s.ctrl.Get().Leads)
	leads := GenerateLeads(n, s.seed+int64(existing), s.now())
	if err := s.ctrl.Dispatch(ctx, usecase.AddLeads{Leads: leads}); err != nil {
		return 0, fmt.Errorf("erro ao gravar dados de exemplo: %w", err)
	}
	if err := s.flags.MarkSampleDataLoaded(ctx); err != nil {
		return 0, err
	}

	s.logger.Info("🌱 dados de exemplo carregados", zap.Int("leads", len(leads)))
	return len(leads), nil
}

func slug(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		}
	}
	if len(out) == 0 {
		return "example"
	}
	return string(out)
}
