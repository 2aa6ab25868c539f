package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/listing"
)

// StateStore maps the console state onto namespaced JSON keys
// ("<namespace>:<key>") of a KVStore.
type StateStore struct {
	kv        KVStore
	namespace string
	logger    *zap.Logger
}

var _ entity.StateRepository = (*StateStore)(nil)

func NewStateStore(kv KVStore, namespace string, logger *zap.Logger) *StateStore {
	if namespace == "" {
		namespace = "seller_console"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StateStore{kv: kv, namespace: namespace, logger: logger}
}

func (s *StateStore) key(k string) string { return s.namespace + ":" + k }

type persistedLeadFilters struct {
	Status string `json:"status"`
}

type persistedOpportunityFilters struct {
	Stage string `json:"stage"`
}

// load decodes key into dst. It reports false when the key is missing or
// its payload is unreadable; the latter is logged and treated as absent.
func (s *StateStore) load(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := s.kv.Get(ctx, s.key(key))
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn("⚠️ estado ilegível, usando padrão", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (s *StateStore) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, s.key(key), raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *StateStore) LoadLeads(ctx context.Context) ([]entity.Lead, error) {
	var leads []entity.Lead
	if _, err := s.load(ctx, KeyLeads, &leads); err != nil {
		return nil, err
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	for i := range leads {
		st, err := entity.ParseLeadStatus(string(leads[i].Status))
		if err != nil {
			s.logger.Warn("⚠️ status de lead inválido, usando new",
				zap.String("id", leads[i].ID), zap.String("status", string(leads[i].Status)))
			st = entity.LeadStatusNew
		}
		leads[i].Status = st
	}
	return leads, nil
}

func (s *StateStore) SaveLeads(ctx context.Context, leads []entity.Lead) error {
	return s.save(ctx, KeyLeads, nonNil(leads))
}

func (s *StateStore) LoadOpportunities(ctx context.Context) ([]entity.Opportunity, error) {
	var opps []entity.Opportunity
	if _, err := s.load(ctx, KeyOpportunities, &opps); err != nil {
		return nil, err
	}
	if opps == nil {
		opps = []entity.Opportunity{}
	}
	for i := range opps {
		st, err := entity.ParseOpportunityStage(string(opps[i].Stage))
		if err != nil {
			s.logger.Warn("⚠️ estágio de oportunidade inválido, usando prospecting",
				zap.String("id", opps[i].ID), zap.String("stage", string(opps[i].Stage)))
			st = entity.StageProspecting
		}
		opps[i].Stage = st
	}
	return opps, nil
}

func (s *StateStore) SaveOpportunities(ctx context.Context, opps []entity.Opportunity) error {
	return s.save(ctx, KeyOpportunities, nonNil(opps))
}

// SaveCollections writes both collections in one store transaction.
func (s *StateStore) SaveCollections(ctx context.Context, leads []entity.Lead, opps []entity.Opportunity) error {
	leadsRaw, err := json.Marshal(nonNil(leads))
	if err != nil {
		return fmt.Errorf("encode leads: %w", err)
	}
	oppsRaw, err := json.Marshal(nonNil(opps))
	if err != nil {
		return fmt.Errorf("encode opportunities: %w", err)
	}
	return s.kv.Commit(ctx, map[string][]byte{
		s.key(KeyLeads):         leadsRaw,
		s.key(KeyOpportunities): oppsRaw,
	})
}

func (s *StateStore) LoadLeadFilters(ctx context.Context) (entity.LeadFilters, error) {
	f := entity.DefaultLeadFilters()
	var p persistedLeadFilters
	ok, err := s.load(ctx, KeyLeadFilters, &p)
	if err != nil || !ok {
		return f, err
	}
	status, err := entity.NormalizeStatusFilter(p.Status)
	if err != nil {
		s.logger.Warn("⚠️ filtro de status inválido", zap.String("status", p.Status))
		return f, nil
	}
	f.Status = status
	return f, nil
}

// SaveLeadFilters drops the search text; only the status survives restarts.
func (s *StateStore) SaveLeadFilters(ctx context.Context, f entity.LeadFilters) error {
	return s.save(ctx, KeyLeadFilters, persistedLeadFilters{Status: f.Status})
}

func (s *StateStore) LoadOpportunityFilters(ctx context.Context) (entity.OpportunityFilters, error) {
	f := entity.DefaultOpportunityFilters()
	var p persistedOpportunityFilters
	ok, err := s.load(ctx, KeyOpportunityFilters, &p)
	if err != nil || !ok {
		return f, err
	}
	stage, err := entity.NormalizeStageFilter(p.Stage)
	if err != nil {
		s.logger.Warn("⚠️ filtro de estágio inválido", zap.String("stage", p.Stage))
		return f, nil
	}
	f.Stage = stage
	return f, nil
}

func (s *StateStore) SaveOpportunityFilters(ctx context.Context, f entity.OpportunityFilters) error {
	return s.save(ctx, KeyOpportunityFilters, persistedOpportunityFilters{Stage: f.Stage})
}

func (s *StateStore) LoadLeadSort(ctx context.Context) (entity.SortConfig, error) {
	return s.loadSort(ctx, KeySortConfig, entity.DefaultLeadSort, listing.IsLeadSortField)
}

func (s *StateStore) SaveLeadSort(ctx context.Context, sc entity.SortConfig) error {
	return s.save(ctx, KeySortConfig, sc)
}

func (s *StateStore) LoadOpportunitySort(ctx context.Context) (entity.SortConfig, error) {
	return s.loadSort(ctx, KeyOpportunitySortConfig, entity.DefaultOpportunitySort, listing.IsOpportunitySortField)
}

func (s *StateStore) SaveOpportunitySort(ctx context.Context, sc entity.SortConfig) error {
	return s.save(ctx, KeyOpportunitySortConfig, sc)
}

func (s *StateStore) loadSort(ctx context.Context, key string, def entity.SortConfig, known func(string) bool) (entity.SortConfig, error) {
	var sc entity.SortConfig
	ok, err := s.load(ctx, key, &sc)
	if err != nil || !ok {
		return def, err
	}
	dir, derr := entity.ParseSortDirection(string(sc.Direction))
	if !known(sc.Field) || derr != nil {
		s.logger.Warn("⚠️ ordenação inválida, usando padrão", zap.String("key", key), zap.String("field", sc.Field))
		return def, nil
	}
	sc.Direction = dir
	return sc, nil
}

func (s *StateStore) SampleDataLoaded(ctx context.Context) (bool, error) {
	var loaded bool
	if _, err := s.load(ctx, KeySampleDataLoaded, &loaded); err != nil {
		return false, err
	}
	return loaded, nil
}

func (s *StateStore) MarkSampleDataLoaded(ctx context.Context) error {
	return s.save(ctx, KeySampleDataLoaded, true)
}

// Clear removes every key of the namespace.
func (s *StateStore) Clear(ctx context.Context) error {
	if err := s.kv.DeletePrefix(ctx, s.namespace+":"); err != nil {
		return fmt.Errorf("clear %s: %w", s.namespace, err)
	}
	return nil
}

func (s *StateStore) Ping(ctx context.Context) error { return s.kv.Ping(ctx) }

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
