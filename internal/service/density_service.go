package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"export-readiness/internal/domain"
	"export-readiness/internal/repository"
)

// DensityService asigna a cada región su franja de densidad de empresas.
type DensityService struct {
	logger     *zap.Logger
	companies  repository.CompanyRepository
	thresholds ThresholdSource
	cache      RegionCountCache
	ttl        time.Duration
}

func NewDensityService(
	logger *zap.Logger,
	companies repository.CompanyRepository,
	thresholds ThresholdSource,
	cache RegionCountCache,
	ttl time.Duration,
) *DensityService {
	if cache == nil {
		cache = NewMemoryRegionCountCache()
	}
	return &DensityService{
		logger:     logger,
		companies:  companies,
		thresholds: thresholds,
		cache:      cache,
		ttl:        ttl,
	}
}

// RegionDensities devuelve cada región con su conteo, franja y color, junto a
// los cortes usados.
func (s *DensityService) RegionDensities(ctx context.Context) ([]domain.RegionDensity, domain.DensityThresholds, error) {
	thresholds, err := s.thresholds.DensityThresholds(ctx)
	if err != nil {
		return nil, domain.DensityThresholds{}, err
	}
	counts, err := s.regionCounts(ctx)
	if err != nil {
		return nil, domain.DensityThresholds{}, err
	}

	out := make([]domain.RegionDensity, 0, len(counts))
	for _, rc := range counts {
		band, err := domain.BucketDensity(rc.Count, thresholds)
		if err != nil {
			return nil, domain.DensityThresholds{}, err
		}
		out = append(out, domain.RegionDensity{
			RegionID: rc.RegionID,
			Name:     rc.Name,
			Count:    rc.Count,
			Band:     band,
			Color:    band.Color(),
		})
	}
	return out, thresholds, nil
}

// regionCounts usa la caché si está disponible; sus fallos no son fatales.
func (s *DensityService) regionCounts(ctx context.Context) ([]domain.RegionCount, error) {
	if counts, ok, err := s.cache.Get(ctx); err != nil {
		s.logger.Warn("region count cache read failed", zap.Error(err))
	} else if ok {
		return counts, nil
	}

	counts, err := s.companies.CountByRegion(ctx)
	if err != nil {
		s.logger.Warn("count companies by region failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrProfileUnavailable, err)
	}
	if err := s.cache.Set(ctx, counts, s.ttl); err != nil {
		s.logger.Warn("region count cache write failed", zap.Error(err))
	}
	return counts, nil
}

// InvalidateCounts descarta el conteo cacheado para forzar una nueva lectura.
func (s *DensityService) InvalidateCounts(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}
