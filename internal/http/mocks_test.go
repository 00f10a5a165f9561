package http

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"export-readiness/internal/domain"
)

type mockCompanyRepo struct {
	profiles map[string]domain.CompanyProfile
	regions  []domain.RegionCount
	err      error
}

func newMockCompanyRepo(profiles ...domain.CompanyProfile) *mockCompanyRepo {
	m := &mockCompanyRepo{profiles: make(map[string]domain.CompanyProfile)}
	for _, p := range profiles {
		m.profiles[p.ID] = p
	}
	return m
}

func (m *mockCompanyRepo) GetProfile(_ context.Context, id string) (domain.CompanyProfile, error) {
	if m.err != nil {
		return domain.CompanyProfile{}, m.err
	}
	p, ok := m.profiles[id]
	if !ok {
		return domain.CompanyProfile{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockCompanyRepo) Exists(_ context.Context, id string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.profiles[id]
	return ok, nil
}

func (m *mockCompanyRepo) CountByRegion(_ context.Context) ([]domain.RegionCount, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.regions, nil
}

type mockClassificationRepo struct {
	mu      sync.Mutex
	records map[string]domain.ClassificationRecord
}

func newMockClassificationRepo() *mockClassificationRepo {
	return &mockClassificationRepo{records: make(map[string]domain.ClassificationRecord)}
}

func (m *mockClassificationRepo) Upsert(_ context.Context, rec domain.ClassificationRecord) (domain.ClassificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.records[rec.CompanyID]; ok {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	}
	m.records[rec.CompanyID] = rec
	return rec, nil
}

func (m *mockClassificationRepo) GetByCompanyID(_ context.Context, companyID string) (domain.ClassificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[companyID]
	if !ok {
		return domain.ClassificationRecord{}, pgx.ErrNoRows
	}
	return rec, nil
}

func (m *mockClassificationRepo) List(_ context.Context) ([]domain.ClassificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ClassificationRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, nil
}

func (m *mockClassificationRepo) CountByCategory(_ context.Context) (map[domain.Category]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[domain.Category]int)
	for _, rec := range m.records {
		counts[rec.Category]++
	}
	return counts, nil
}

type mockSettingsRepo struct {
	values map[string]int
	err    error
}

func newMockSettingsRepo() *mockSettingsRepo {
	return &mockSettingsRepo{values: make(map[string]int)}
}

func (m *mockSettingsRepo) GetInts(_ context.Context, keys []string) (map[string]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]int)
	for _, k := range keys {
		if v, ok := m.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *mockSettingsRepo) SetInts(_ context.Context, values map[string]int) error {
	if m.err != nil {
		return m.err
	}
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}
