package domain

import (
	"errors"
	"fmt"
)

// CriterionID identifica uno de los 9 criterios de preparación exportadora.
type CriterionID string

const (
	CriterionExportExperience            CriterionID = "export_experience"
	CriterionProductionVolume            CriterionID = "production_volume"
	CriterionDigitalPresence             CriterionID = "digital_presence"
	CriterionTariffPosition              CriterionID = "tariff_position"
	CriterionInternationalization        CriterionID = "internationalization_participation"
	CriterionInternalStructure           CriterionID = "internal_structure"
	CriterionExportInterest              CriterionID = "export_interest"
	CriterionDomesticCertifications      CriterionID = "domestic_certifications"
	CriterionInternationalCertifications CriterionID = "international_certifications"
)

// MaxCriterionPoints es el techo de puntos de cualquier opción.
const MaxCriterionPoints = 3

// Valores de opción por criterio. El puntaje de cada uno vive solo en el catálogo.
const (
	OptionNoExport        = "no_exporta"
	OptionIndirectExport  = "indirecta"
	OptionDirectFew       = "directa_hasta_2_paises"
	OptionDirectMany      = "directa_3_o_mas_paises"
	OptionVolumeNoData    = "sin_datos"
	OptionVolumeLow       = "volumen_bajo"
	OptionVolumeMedium    = "volumen_medio"
	OptionVolumeHigh      = "volumen_alto"
	OptionNoPresence      = "sin_presencia"
	OptionSocialOnly      = "redes_sociales"
	OptionWebsite         = "sitio_web"
	OptionEcommerce       = "comercio_electronico"
	OptionNoTariff        = "sin_posicion"
	OptionTariffPartial   = "posicion_parcial"
	OptionTariffComplete  = "posicion_completa"
	OptionTariffValidated = "posicion_validada"
	OptionTariffNotApply  = "no_aplica"
	OptionNoActivities    = "sin_participacion"
	OptionOneActivity     = "una_actividad"
	OptionSomeActivities  = "varias_actividades"
	OptionActiveProgram   = "participacion_activa"
	OptionNoStructure     = "sin_estructura"
	OptionResponsible     = "responsable_designado"
	OptionTradeArea       = "area_comercio_exterior"
	OptionTradeDepartment = "departamento_consolidado"
	OptionNoInterest      = "sin_interes"
	OptionInterestLow     = "interes_bajo"
	OptionInterestMedium  = "interes_medio"
	OptionInterestHigh    = "interes_alto"
	OptionNoCertification = "sin_certificaciones"
	OptionGenericCert     = "certificacion_generica"
	OptionRecognizedCert  = "certificacion_reconocida"
	OptionManyRecognized  = "multiples_reconocidas"
	OptionStandardCert    = "norma_reconocida"
	OptionManyStandards   = "multiples_normas"
)

var (
	ErrUnknownCriterion = errors.New("unknown criterion")
	ErrUnknownOption    = errors.New("unknown option")
)

// Option es una opción seleccionable de un criterio.
type Option struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// Criterion describe un criterio con sus opciones ordenadas.
type Criterion struct {
	ID      CriterionID `json:"id"`
	Label   string      `json:"label"`
	Options []Option    `json:"options"`
}

// criteria es el catálogo inmutable; se respeta el orden de presentación.
var criteria = []Criterion{
	{
		ID:    CriterionExportExperience,
		Label: "Experiencia exportadora",
		Options: []Option{
			{OptionNoExport, "No exporta", 0},
			{OptionIndirectExport, "Exporta en forma indirecta", 1},
			{OptionDirectFew, "Exporta en forma directa a hasta 2 países", 2},
			{OptionDirectMany, "Exporta en forma directa a 3 o más países", 3},
		},
	},
	{
		ID:    CriterionProductionVolume,
		Label: "Volumen de producción",
		Options: []Option{
			{OptionVolumeNoData, "Sin datos de capacidad", 0},
			{OptionVolumeLow, "Capacidad baja", 1},
			{OptionVolumeMedium, "Capacidad media", 2},
			{OptionVolumeHigh, "Capacidad alta", 3},
		},
	},
	{
		ID:    CriterionDigitalPresence,
		Label: "Presencia digital",
		Options: []Option{
			{OptionNoPresence, "Sin presencia digital", 0},
			{OptionSocialOnly, "Solo redes sociales", 1},
			{OptionWebsite, "Sitio web propio", 2},
			{OptionEcommerce, "Sitio web con comercio electrónico o material multilingüe", 3},
		},
	},
	{
		ID:    CriterionTariffPosition,
		Label: "Posición arancelaria",
		Options: []Option{
			{OptionNoTariff, "Sin posición declarada", 0},
			{OptionTariffPartial, "Posición incompleta", 1},
			{OptionTariffComplete, "Posición completa", 2},
			{OptionTariffValidated, "Posición completa y validada", 3},
			{OptionTariffNotApply, "No aplica (servicios)", 0},
		},
	},
	{
		ID:    CriterionInternationalization,
		Label: "Participación en acciones de internacionalización",
		Options: []Option{
			{OptionNoActivities, "Sin participación", 0},
			{OptionOneActivity, "Una actividad", 1},
			{OptionSomeActivities, "Varias actividades", 2},
			{OptionActiveProgram, "Participación activa y diversificada", 3},
		},
	},
	{
		ID:    CriterionInternalStructure,
		Label: "Estructura interna",
		Options: []Option{
			{OptionNoStructure, "Sin estructura para comercio exterior", 0},
			{OptionResponsible, "Responsable designado", 1},
			{OptionTradeArea, "Área de comercio exterior", 2},
			{OptionTradeDepartment, "Departamento consolidado con plan exportador", 3},
		},
	},
	{
		ID:    CriterionExportInterest,
		Label: "Interés exportador",
		Options: []Option{
			{OptionNoInterest, "Sin interés", 0},
			{OptionInterestLow, "Interés bajo", 1},
			{OptionInterestMedium, "Interés medio", 2},
			{OptionInterestHigh, "Interés alto", 3},
		},
	},
	{
		ID:    CriterionDomesticCertifications,
		Label: "Certificaciones nacionales",
		Options: []Option{
			{OptionNoCertification, "Sin certificaciones", 0},
			{OptionGenericCert, "Certificación genérica", 1},
			{OptionRecognizedCert, "Certificación reconocida", 2},
			{OptionManyRecognized, "Múltiples certificaciones reconocidas", 3},
		},
	},
	{
		ID:    CriterionInternationalCertifications,
		Label: "Certificaciones internacionales",
		Options: []Option{
			{OptionNoCertification, "Sin certificaciones", 0},
			{OptionGenericCert, "Certificación genérica", 1},
			{OptionStandardCert, "Norma internacional reconocida", 2},
			{OptionManyStandards, "Múltiples normas reconocidas", 3},
		},
	},
}

var criteriaIndex = buildCriteriaIndex(criteria)

func buildCriteriaIndex(list []Criterion) map[CriterionID]map[string]int {
	idx := make(map[CriterionID]map[string]int, len(list))
	for _, c := range list {
		opts := make(map[string]int, len(c.Options))
		for _, o := range c.Options {
			if o.Points < 0 || o.Points > MaxCriterionPoints {
				panic(fmt.Sprintf("criterion %s option %s: points %d out of range", c.ID, o.Value, o.Points))
			}
			opts[o.Value] = o.Points
		}
		idx[c.ID] = opts
	}
	return idx
}

// Criteria devuelve una copia del catálogo completo, en orden.
func Criteria() []Criterion {
	out := make([]Criterion, len(criteria))
	for i, c := range criteria {
		out[i] = Criterion{ID: c.ID, Label: c.Label, Options: append([]Option(nil), c.Options...)}
	}
	return out
}

// CriterionIDs devuelve los 9 identificadores en orden de catálogo.
func CriterionIDs() []CriterionID {
	ids := make([]CriterionID, len(criteria))
	for i, c := range criteria {
		ids[i] = c.ID
	}
	return ids
}

// OptionsFor devuelve las opciones ordenadas de un criterio.
func OptionsFor(id CriterionID) ([]Option, error) {
	for _, c := range criteria {
		if c.ID == id {
			return append([]Option(nil), c.Options...), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCriterion, id)
}

// PointsFor devuelve el puntaje declarado para una opción de un criterio.
func PointsFor(id CriterionID, option string) (int, error) {
	opts, ok := criteriaIndex[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCriterion, id)
	}
	points, ok := opts[option]
	if !ok {
		return 0, fmt.Errorf("%w: %s/%s", ErrUnknownOption, id, option)
	}
	return points, nil
}
