package domain

import (
	"errors"
	"fmt"
)

// MaxTotalScore es la suma teórica máxima: 9 criterios x 3 puntos.
const MaxTotalScore = 9 * MaxCriterionPoints

var ErrInvalidThresholds = errors.New("invalid thresholds")

// ThresholdError detalla qué límite rompe el orden esperado.
type ThresholdError struct {
	Field  string
	Reason string
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("invalid thresholds: %s %s", e.Field, e.Reason)
}

func (e *ThresholdError) Unwrap() error {
	return ErrInvalidThresholds
}

// CategoryThresholds define tres rangos contiguos sobre el puntaje total:
// etapa_inicial = [0, InitialStageMax], potencial_exportadora =
// [InitialStageMax+1, PotentialMax], exportadora = [PotentialMax+1, Max].
type CategoryThresholds struct {
	InitialStageMax int `json:"etapa_inicial_max"`
	PotentialMax    int `json:"potencial_exportadora_max"`
	Max             int `json:"puntaje_max"`
}

// DefaultCategoryThresholds devuelve los límites por defecto (5, 11, 18).
func DefaultCategoryThresholds() CategoryThresholds {
	return CategoryThresholds{InitialStageMax: 5, PotentialMax: 11, Max: 18}
}

// Validate comprueba que los rangos arranquen en 0, sean contiguos y no vacíos.
func (t CategoryThresholds) Validate() error {
	switch {
	case t.InitialStageMax < 0:
		return &ThresholdError{Field: "etapa_inicial_max", Reason: "must be >= 0"}
	case t.PotentialMax <= t.InitialStageMax:
		return &ThresholdError{Field: "potencial_exportadora_max", Reason: "must be greater than etapa_inicial_max"}
	case t.Max <= t.PotentialMax:
		return &ThresholdError{Field: "puntaje_max", Reason: "must be greater than potencial_exportadora_max"}
	case t.Max > MaxTotalScore:
		return &ThresholdError{Field: "puntaje_max", Reason: fmt.Sprintf("must be <= %d", MaxTotalScore)}
	}
	return nil
}

// Normalize eleva cada límite por encima de su vecino inferior.
// No corrige un máximo por encima de MaxTotalScore; eso lo reporta Validate.
func (t CategoryThresholds) Normalize() CategoryThresholds {
	if t.InitialStageMax < 0 {
		t.InitialStageMax = 0
	}
	if t.PotentialMax <= t.InitialStageMax {
		t.PotentialMax = t.InitialStageMax + 1
	}
	if t.Max <= t.PotentialMax {
		t.Max = t.PotentialMax + 1
	}
	return t
}

// Category asume límites válidos. Los totales por encima de Max caen en la
// categoría superior y los negativos en la inferior.
func (t CategoryThresholds) Category(total int) Category {
	switch {
	case total <= t.InitialStageMax:
		return CategoryInitialStage
	case total <= t.PotentialMax:
		return CategoryPotential
	default:
		return CategoryExporter
	}
}

// CategoryRange es un rango inclusivo de puntaje para una categoría.
type CategoryRange struct {
	Category Category `json:"category"`
	Min      int      `json:"min"`
	Max      int      `json:"max"`
	Color    string   `json:"color"`
}

// Ranges devuelve los tres rangos en orden.
func (t CategoryThresholds) Ranges() []CategoryRange {
	return []CategoryRange{
		{Category: CategoryInitialStage, Min: 0, Max: t.InitialStageMax, Color: CategoryInitialStage.Color()},
		{Category: CategoryPotential, Min: t.InitialStageMax + 1, Max: t.PotentialMax, Color: CategoryPotential.Color()},
		{Category: CategoryExporter, Min: t.PotentialMax + 1, Max: t.Max, Color: CategoryExporter.Color()},
	}
}

// DensityBand es una de las cinco franjas de densidad de empresas por región.
type DensityBand string

const (
	DensityNone     DensityBand = "sin_empresas"
	DensityLow      DensityBand = "baja"
	DensityMedium   DensityBand = "media"
	DensityHigh     DensityBand = "alta"
	DensityVeryHigh DensityBand = "muy_alta"
)

var densityBands = []DensityBand{DensityNone, DensityLow, DensityMedium, DensityHigh, DensityVeryHigh}

// densityPalette sigue el orden de densityBands.
var densityPalette = []string{"#f0f0f0", "#c6dbef", "#6baed6", "#2171b5", "#08306b"}

// DensityBands devuelve las franjas de menor a mayor.
func DensityBands() []DensityBand {
	return append([]DensityBand(nil), densityBands...)
}

// Index devuelve la posición de la franja, o -1 si no existe.
func (b DensityBand) Index() int {
	for i, band := range densityBands {
		if band == b {
			return i
		}
	}
	return -1
}

// Color devuelve el color fijo de la leyenda del mapa.
func (b DensityBand) Color() string {
	i := b.Index()
	if i < 0 {
		return ""
	}
	return densityPalette[i]
}

// DensityThresholds define los cortes de las franjas de densidad:
// baja = [1, LowMax], media = [LowMax+1, MediumMax], alta = [MediumMax+1, HighMax],
// muy_alta = [HighMax+1, ∞).
type DensityThresholds struct {
	LowMax    int `json:"densidad_baja_max"`
	MediumMax int `json:"densidad_media_max"`
	HighMax   int `json:"densidad_alta_max"`
}

// DefaultDensityThresholds devuelve los cortes por defecto (5, 20, 40).
func DefaultDensityThresholds() DensityThresholds {
	return DensityThresholds{LowMax: 5, MediumMax: 20, HighMax: 40}
}

// Validate exige 1 <= LowMax < MediumMax < HighMax.
func (t DensityThresholds) Validate() error {
	switch {
	case t.LowMax < 1:
		return &ThresholdError{Field: "densidad_baja_max", Reason: "must be >= 1"}
	case t.MediumMax <= t.LowMax:
		return &ThresholdError{Field: "densidad_media_max", Reason: "must be greater than densidad_baja_max"}
	case t.HighMax <= t.MediumMax:
		return &ThresholdError{Field: "densidad_alta_max", Reason: "must be greater than densidad_media_max"}
	}
	return nil
}

// Normalize eleva cada corte por encima de su vecino inferior; el resultado
// siempre es válido.
func (t DensityThresholds) Normalize() DensityThresholds {
	if t.LowMax < 1 {
		t.LowMax = 1
	}
	if t.MediumMax <= t.LowMax {
		t.MediumMax = t.LowMax + 1
	}
	if t.HighMax <= t.MediumMax {
		t.HighMax = t.MediumMax + 1
	}
	return t
}

// Band asume cortes válidos.
func (t DensityThresholds) Band(count int) DensityBand {
	switch {
	case count <= 0:
		return DensityNone
	case count <= t.LowMax:
		return DensityLow
	case count <= t.MediumMax:
		return DensityMedium
	case count <= t.HighMax:
		return DensityHigh
	default:
		return DensityVeryHigh
	}
}

// BucketDensity valida los cortes y devuelve la franja de un conteo.
func BucketDensity(count int, t DensityThresholds) (DensityBand, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t.Band(count), nil
}
