package service

import "export-readiness/internal/domain"

// Classifier convierte un conjunto de puntajes en total y categoría.
type Classifier struct{}

// Classify suma los puntos y asigna la categoría según los umbrales.
// Los umbrales se validan en cada llamada; un total por encima del máximo
// cae en la categoría superior.
func (Classifier) Classify(scores domain.Scorecard, thresholds domain.CategoryThresholds) (domain.Classification, error) {
	if err := thresholds.Validate(); err != nil {
		return domain.Classification{}, err
	}
	total := scores.Total()
	return domain.Classification{
		Scores:   scores,
		Total:    total,
		Category: thresholds.Category(total),
	}, nil
}
