package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"export-readiness/internal/domain"
	"export-readiness/internal/repository"
)

// ClassificationService calcula, guarda y consulta la clasificación de cada empresa.
type ClassificationService struct {
	logger     *zap.Logger
	companies  repository.CompanyRepository
	records    repository.ClassificationRepository
	thresholds ThresholdSource
	engine     ScoringEngine
	classifier Classifier
	locks      *companyLocks
	now        func() time.Time
}

// ReclassifyResult resume una recategorización masiva.
type ReclassifyResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

func NewClassificationService(
	logger *zap.Logger,
	companies repository.CompanyRepository,
	records repository.ClassificationRepository,
	thresholds ThresholdSource,
	engine ScoringEngine,
) *ClassificationService {
	return &ClassificationService{
		logger:     logger,
		companies:  companies,
		records:    records,
		thresholds: thresholds,
		engine:     engine,
		classifier: Classifier{},
		locks:      newCompanyLocks(),
		now:        time.Now,
	}
}

// Preview recalcula la clasificación desde el perfil actual sin escribir nada.
func (s *ClassificationService) Preview(ctx context.Context, companyID string) (domain.Classification, error) {
	profile, err := s.loadProfile(ctx, companyID)
	if err != nil {
		return domain.Classification{}, err
	}
	thresholds, err := s.thresholds.CategoryThresholds(ctx)
	if err != nil {
		return domain.Classification{}, err
	}
	scores := s.engine.Score(profile, s.now())
	return s.classifier.Classify(scores, thresholds)
}

// Save valida los puntajes y crea o reemplaza la clasificación de la empresa.
// Un rechazo deja intacto el registro existente.
func (s *ClassificationService) Save(ctx context.Context, companyID string, scores domain.Scorecard, source string) (domain.ClassificationRecord, error) {
	if err := ValidateScores(scores); err != nil {
		return domain.ClassificationRecord{}, err
	}
	if source != domain.SourceManual {
		source = domain.SourceAutomatic
	}

	exists, err := s.companies.Exists(ctx, companyID)
	if err != nil {
		s.logger.Warn("company lookup failed", zap.String("company_id", companyID), zap.Error(err))
		return domain.ClassificationRecord{}, fmt.Errorf("%w: %w", ErrProfileUnavailable, err)
	}
	if !exists {
		return domain.ClassificationRecord{}, ErrCompanyNotFound
	}

	return s.store(ctx, companyID, scores, source)
}

// Evaluate calcula desde el perfil y guarda con origen automático.
func (s *ClassificationService) Evaluate(ctx context.Context, companyID string) (domain.ClassificationRecord, error) {
	profile, err := s.loadProfile(ctx, companyID)
	if err != nil {
		return domain.ClassificationRecord{}, err
	}
	scores := s.engine.Score(profile, s.now())
	return s.store(ctx, companyID, scores, domain.SourceAutomatic)
}

// GetByCompany devuelve found=false si la empresa todavía no fue evaluada.
func (s *ClassificationService) GetByCompany(ctx context.Context, companyID string) (domain.ClassificationRecord, bool, error) {
	rec, err := s.records.GetByCompanyID(ctx, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ClassificationRecord{}, false, nil
		}
		s.logger.Warn("get classification failed", zap.String("company_id", companyID), zap.Error(err))
		return domain.ClassificationRecord{}, false, err
	}
	return rec, true, nil
}

// Summary cuenta empresas clasificadas por categoría, incluidas las vacías.
func (s *ClassificationService) Summary(ctx context.Context) ([]domain.CategoryCount, error) {
	counts, err := s.records.CountByCategory(ctx)
	if err != nil {
		s.logger.Warn("count by category failed", zap.Error(err))
		return nil, err
	}
	out := make([]domain.CategoryCount, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		out = append(out, domain.CategoryCount{Category: c, Color: c.Color(), Count: counts[c]})
	}
	return out, nil
}

// Reclassify recalcula todas las clasificaciones guardadas con los umbrales
// vigentes. Las automáticas se recalculan desde el perfil; las manuales
// conservan sus opciones y solo cambian de categoría.
func (s *ClassificationService) Reclassify(ctx context.Context, workers int) (ReclassifyResult, error) {
	if workers < 1 {
		workers = 1
	}
	// Falla temprano si los umbrales no sirven.
	if _, err := s.thresholds.CategoryThresholds(ctx); err != nil {
		return ReclassifyResult{}, err
	}
	records, err := s.records.List(ctx)
	if err != nil {
		s.logger.Warn("list classifications failed", zap.Error(err))
		return ReclassifyResult{}, err
	}

	jobs := make(chan domain.ClassificationRecord, workers)
	var (
		mu     sync.Mutex
		result ReclassifyResult
		wg     sync.WaitGroup
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for rec := range jobs {
				err := s.reclassifyOne(ctx, rec.CompanyID)
				mu.Lock()
				if err != nil {
					result.Failed++
				} else {
					result.Processed++
				}
				mu.Unlock()
				if err != nil {
					s.logger.Warn("reclassify failed",
						zap.Int("worker", idx),
						zap.String("company_id", rec.CompanyID),
						zap.Error(err),
					)
				}
			}
		}(i)
	}

dispatch:
	for _, rec := range records {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- rec:
		}
	}
	close(jobs)
	wg.Wait()

	s.logger.Info("reclassify finished",
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed),
	)
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// reclassifyOne relee el registro bajo el candado de la empresa: el listado
// puede haber quedado viejo si alguien guardó mientras tanto.
func (s *ClassificationService) reclassifyOne(ctx context.Context, companyID string) error {
	unlock := s.locks.Lock(companyID)
	defer unlock()

	current, err := s.records.GetByCompanyID(ctx, companyID)
	if err != nil {
		return err
	}
	if current.Source == domain.SourceManual {
		if err := ValidateScores(current.Scores); err != nil {
			return err
		}
		_, err = s.storeLocked(ctx, companyID, current.Scores, domain.SourceManual)
		return err
	}
	profile, err := s.loadProfile(ctx, companyID)
	if err != nil {
		return err
	}
	_, err = s.storeLocked(ctx, companyID, s.engine.Score(profile, s.now()), domain.SourceAutomatic)
	return err
}

func (s *ClassificationService) store(ctx context.Context, companyID string, scores domain.Scorecard, source string) (domain.ClassificationRecord, error) {
	unlock := s.locks.Lock(companyID)
	defer unlock()
	return s.storeLocked(ctx, companyID, scores, source)
}

// storeLocked asume que el candado de la empresa ya está tomado.
func (s *ClassificationService) storeLocked(ctx context.Context, companyID string, scores domain.Scorecard, source string) (domain.ClassificationRecord, error) {
	thresholds, err := s.thresholds.CategoryThresholds(ctx)
	if err != nil {
		return domain.ClassificationRecord{}, err
	}
	result, err := s.classifier.Classify(scores, thresholds)
	if err != nil {
		return domain.ClassificationRecord{}, err
	}

	now := s.now().UTC()
	saved, err := s.records.Upsert(ctx, domain.ClassificationRecord{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		Scores:      result.Scores,
		TotalScore:  result.Total,
		Category:    result.Category,
		Source:      source,
		EvaluatedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.logger.Warn("save classification failed", zap.String("company_id", companyID), zap.Error(err))
		return domain.ClassificationRecord{}, err
	}
	s.logger.Info("classification saved",
		zap.String("company_id", companyID),
		zap.String("category", string(saved.Category)),
		zap.Int("total_score", saved.TotalScore),
		zap.String("source", saved.Source),
	)
	return saved, nil
}

func (s *ClassificationService) loadProfile(ctx context.Context, companyID string) (domain.CompanyProfile, error) {
	profile, err := s.companies.GetProfile(ctx, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CompanyProfile{}, ErrCompanyNotFound
		}
		s.logger.Warn("load company profile failed", zap.String("company_id", companyID), zap.Error(err))
		return domain.CompanyProfile{}, fmt.Errorf("%w: %w", ErrProfileUnavailable, err)
	}
	return profile, nil
}

// ValidateScores exige los 9 criterios, opciones del catálogo y puntos
// iguales a los declarados para cada opción.
func ValidateScores(scores domain.Scorecard) error {
	verr := &ValidationError{}
	for _, id := range domain.CriterionIDs() {
		score, ok := scores[id]
		if !ok {
			verr.add("%s: missing", id)
			continue
		}
		points, err := domain.PointsFor(id, score.Option)
		if err != nil {
			verr.add("%s: unknown option %q", id, score.Option)
			continue
		}
		if points != score.Points {
			verr.add("%s: option %q is worth %d points, got %d", id, score.Option, points, score.Points)
		}
	}
	for id := range scores {
		if _, err := domain.OptionsFor(id); err != nil {
			verr.add("%s: unknown criterion", id)
		}
	}
	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}

// ScoresFromOptions arma un conjunto de puntajes desde opciones elegidas,
// tomando los puntos del catálogo.
func ScoresFromOptions(options map[domain.CriterionID]string) (domain.Scorecard, error) {
	card := make(domain.Scorecard, len(options))
	for id, option := range options {
		points, err := domain.PointsFor(id, option)
		if err != nil {
			return nil, err
		}
		card[id] = domain.CriterionScore{Option: option, Points: points}
	}
	return card, nil
}
