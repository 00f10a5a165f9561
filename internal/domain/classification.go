package domain

import "time"

// Category es uno de los tres niveles ordenados de preparación exportadora.
type Category string

const (
	CategoryInitialStage Category = "etapa_inicial"
	CategoryPotential    Category = "potencial_exportadora"
	CategoryExporter     Category = "exportadora"
)

// categoryColors es la paleta fija que usa la capa de presentación.
var categoryColors = map[Category]string{
	CategoryInitialStage: "#e74c3c",
	CategoryPotential:    "#f39c12",
	CategoryExporter:     "#27ae60",
}

// Categories devuelve las categorías de menor a mayor.
func Categories() []Category {
	return []Category{CategoryInitialStage, CategoryPotential, CategoryExporter}
}

// Color devuelve el color de la categoría, o cadena vacía si no existe.
func (c Category) Color() string {
	return categoryColors[c]
}

// Origen de un registro de clasificación.
const (
	SourceAutomatic = "automatica"
	SourceManual    = "manual"
)

// CriterionScore es la opción elegida para un criterio y sus puntos.
type CriterionScore struct {
	Option string `json:"option"`
	Points int    `json:"points"`
}

// Scorecard contiene un puntaje por criterio.
type Scorecard map[CriterionID]CriterionScore

// Total suma los puntos de todos los criterios.
func (s Scorecard) Total() int {
	total := 0
	for _, cs := range s {
		total += cs.Points
	}
	return total
}

// Classification es el resultado calculado, persistido o no.
type Classification struct {
	Scores   Scorecard `json:"scores"`
	Total    int       `json:"total_score"`
	Category Category  `json:"category"`
}

// ClassificationRecord es la única clasificación guardada de una empresa.
type ClassificationRecord struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Scores      Scorecard `json:"scores"`
	TotalScore  int       `json:"total_score"`
	Category    Category  `json:"category"`
	Source      string    `json:"source"`
	EvaluatedAt time.Time `json:"evaluated_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryCount agrupa cuántas empresas hay en una categoría.
type CategoryCount struct {
	Category Category `json:"category"`
	Color    string   `json:"color"`
	Count    int      `json:"count"`
}
