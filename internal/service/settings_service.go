package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"export-readiness/internal/domain"
	"export-readiness/internal/repository"
)

// Claves de configuración persistidas.
const (
	SettingInitialStageMax = "etapa_inicial_max"
	SettingPotentialMax    = "potencial_exportadora_max"
	SettingScoreMax        = "puntaje_max"
	SettingDensityLowMax   = "densidad_baja_max"
	SettingDensityMedMax   = "densidad_media_max"
	SettingDensityHighMax  = "densidad_alta_max"
)

// ThresholdSource entrega los umbrales vigentes, ya validados.
type ThresholdSource interface {
	CategoryThresholds(ctx context.Context) (domain.CategoryThresholds, error)
	DensityThresholds(ctx context.Context) (domain.DensityThresholds, error)
}

// SettingsService lee y actualiza los umbrales editables por un admin.
type SettingsService struct {
	logger *zap.Logger
	repo   repository.SettingsRepository
}

func NewSettingsService(logger *zap.Logger, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{logger: logger, repo: repo}
}

// CategoryThresholds carga los umbrales de categoría. Las claves ausentes
// toman el valor por defecto y el resultado se valida en cada carga.
func (s *SettingsService) CategoryThresholds(ctx context.Context) (domain.CategoryThresholds, error) {
	values, err := s.repo.GetInts(ctx, []string{SettingInitialStageMax, SettingPotentialMax, SettingScoreMax})
	if err != nil {
		s.logger.Warn("load category thresholds failed", zap.Error(err))
		return domain.CategoryThresholds{}, fmt.Errorf("%w: %w", ErrConfigUnavailable, err)
	}

	t := domain.DefaultCategoryThresholds()
	if v, ok := values[SettingInitialStageMax]; ok {
		t.InitialStageMax = v
	}
	if v, ok := values[SettingPotentialMax]; ok {
		t.PotentialMax = v
	}
	if v, ok := values[SettingScoreMax]; ok {
		t.Max = v
	}
	if err := t.Validate(); err != nil {
		s.logger.Error("stored category thresholds are invalid", zap.Error(err), zap.Any("thresholds", t))
		return domain.CategoryThresholds{}, err
	}
	return t, nil
}

// DensityThresholds carga los cortes de densidad con la misma política.
func (s *SettingsService) DensityThresholds(ctx context.Context) (domain.DensityThresholds, error) {
	values, err := s.repo.GetInts(ctx, []string{SettingDensityLowMax, SettingDensityMedMax, SettingDensityHighMax})
	if err != nil {
		s.logger.Warn("load density thresholds failed", zap.Error(err))
		return domain.DensityThresholds{}, fmt.Errorf("%w: %w", ErrConfigUnavailable, err)
	}

	t := domain.DefaultDensityThresholds()
	if v, ok := values[SettingDensityLowMax]; ok {
		t.LowMax = v
	}
	if v, ok := values[SettingDensityMedMax]; ok {
		t.MediumMax = v
	}
	if v, ok := values[SettingDensityHighMax]; ok {
		t.HighMax = v
	}
	if err := t.Validate(); err != nil {
		s.logger.Error("stored density thresholds are invalid", zap.Error(err), zap.Any("thresholds", t))
		return domain.DensityThresholds{}, err
	}
	return t, nil
}

// UpdateCategoryThresholds normaliza, valida y guarda. Si tras normalizar
// siguen siendo inválidos (máximo mayor a 27) no se guarda nada.
func (s *SettingsService) UpdateCategoryThresholds(ctx context.Context, t domain.CategoryThresholds) (domain.CategoryThresholds, error) {
	t = t.Normalize()
	if err := t.Validate(); err != nil {
		return t, err
	}
	err := s.repo.SetInts(ctx, map[string]int{
		SettingInitialStageMax: t.InitialStageMax,
		SettingPotentialMax:    t.PotentialMax,
		SettingScoreMax:        t.Max,
	})
	if err != nil {
		s.logger.Warn("save category thresholds failed", zap.Error(err))
		return t, fmt.Errorf("%w: %w", ErrConfigUnavailable, err)
	}
	s.logger.Info("category thresholds updated", zap.Any("thresholds", t))
	return t, nil
}

// UpdateDensityThresholds normaliza y guarda los cortes de densidad.
func (s *SettingsService) UpdateDensityThresholds(ctx context.Context, t domain.DensityThresholds) (domain.DensityThresholds, error) {
	t = t.Normalize()
	if err := t.Validate(); err != nil {
		return t, err
	}
	err := s.repo.SetInts(ctx, map[string]int{
		SettingDensityLowMax:  t.LowMax,
		SettingDensityMedMax:  t.MediumMax,
		SettingDensityHighMax: t.HighMax,
	})
	if err != nil {
		s.logger.Warn("save density thresholds failed", zap.Error(err))
		return t, fmt.Errorf("%w: %w", ErrConfigUnavailable, err)
	}
	s.logger.Info("density thresholds updated", zap.Any("thresholds", t))
	return t, nil
}
