package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"export-readiness/internal/domain"
)

type mockCompanyRepo struct {
	mu       sync.Mutex
	profiles map[string]domain.CompanyProfile
	regions  []domain.RegionCount
	err      error
	calls    int
}

func newMockCompanyRepo(profiles ...domain.CompanyProfile) *mockCompanyRepo {
	m := &mockCompanyRepo{profiles: make(map[string]domain.CompanyProfile)}
	for _, p := range profiles {
		m.profiles[p.ID] = p
	}
	return m
}

func (m *mockCompanyRepo) GetProfile(_ context.Context, id string) (domain.CompanyProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.profiles[id]
	return ok, nil
}

func (m *mockCompanyRepo) CountByRegion(_ context.Context) ([]domain.RegionCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.RegionCount(nil), m.regions...), nil
}

type mockClassificationRepo struct {
	mu        sync.Mutex
	records   map[string]domain.ClassificationRecord
	upserts   int
	upsertErr error
	getErr    error
}

func newMockClassificationRepo() *mockClassificationRepo {
	return &mockClassificationRepo{records: make(map[string]domain.ClassificationRecord)}
}

func (m *mockClassificationRepo) Upsert(_ context.Context, rec domain.ClassificationRecord) (domain.ClassificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return domain.ClassificationRecord{}, m.upsertErr
	}
	m.upserts++
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
	if m.getErr != nil {
		return domain.ClassificationRecord{}, m.getErr
	}
	rec, ok := m.records[companyID]
	if !ok {
		return domain.ClassificationRecord{}, pgx.ErrNoRows
	}
	return rec, nil
}

func (m *mockClassificationRepo) List(_ context.Context) ([]domain.ClassificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([]domain.ClassificationRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, nil
}

func (m *mockClassificationRepo) CountByCategory(_ context.Context) (map[domain.Category]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	counts := make(map[domain.Category]int)
	for _, rec := range m.records {
		counts[rec.Category]++
	}
	return counts, nil
}

type mockThresholds struct {
	category domain.CategoryThresholds
	density  domain.DensityThresholds
	err      error
}

func defaultMockThresholds() *mockThresholds {
	return &mockThresholds{
		category: domain.DefaultCategoryThresholds(),
		density:  domain.DefaultDensityThresholds(),
	}
}

func (m *mockThresholds) CategoryThresholds(_ context.Context) (domain.CategoryThresholds, error) {
	if m.err != nil {
		return domain.CategoryThresholds{}, m.err
	}
	if err := m.category.Validate(); err != nil {
		return domain.CategoryThresholds{}, err
	}
	return m.category, nil
}

func (m *mockThresholds) DensityThresholds(_ context.Context) (domain.DensityThresholds, error) {
	if m.err != nil {
		return domain.DensityThresholds{}, m.err
	}
	if err := m.density.Validate(); err != nil {
		return domain.DensityThresholds{}, err
	}
	return m.density, nil
}

type mockSettingsRepo struct {
	values map[string]int
	getErr error
	setErr error
	sets   int
}

func newMockSettingsRepo(values map[string]int) *mockSettingsRepo {
	if values == nil {
		values = make(map[string]int)
	}
	return &mockSettingsRepo{values: values}
}

func (m *mockSettingsRepo) GetInts(_ context.Context, keys []string) (map[string]int, error) {
	if m.getErr != nil {
		return nil, m.getErr
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
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
}

func dateAt(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}
