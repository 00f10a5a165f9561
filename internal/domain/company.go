package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompanyKind distingue empresas de bienes, servicios o mixtas.
type CompanyKind string

const (
	CompanyKindGoods    CompanyKind = "goods"
	CompanyKindServices CompanyKind = "services"
	CompanyKindMixed    CompanyKind = "mixed"
)

// ProducesGoods indica si la empresa produce bienes (aplica posición arancelaria).
// Un tipo vacío o desconocido se trata como bienes.
func (k CompanyKind) ProducesGoods() bool {
	return k != CompanyKindServices
}

// Modalidades de exportación declaradas.
const (
	ExportModeNone     = "none"
	ExportModeIndirect = "indirect"
	ExportModeDirect   = "direct"
)

// Unidades de capacidad productiva.
const (
	CapacityUnitUnits    = "unidades"
	CapacityUnitKg       = "kg"
	CapacityUnitCurrency = "moneda"
)

// DefaultCapacityUnit es la unidad que se asume cuando la empresa no declara
// una. Servicios y mixtas declaran en moneda; el resto, como bienes, en unidades.
func (k CompanyKind) DefaultCapacityUnit() string {
	switch k {
	case CompanyKindServices, CompanyKindMixed:
		return CapacityUnitCurrency
	default:
		return CapacityUnitUnits
	}
}

// Tipos de actividad de internacionalización.
const (
	ActivityTradeFair    = "feria"
	ActivityTradeMission = "mision_comercial"
	ActivityB2BRound     = "ronda_b2b"
)

// CompanyProfile es la vista de solo lectura de una empresa que usa el puntaje.
// Cualquier campo puede venir vacío: el puntaje nunca falla por datos faltantes.
type CompanyProfile struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Kind   CompanyKind `json:"kind"`
	Region string      `json:"region_id,omitempty"`

	ExportMode      string `json:"export_mode,omitempty"`
	ExportCountries int    `json:"export_countries"`
	ExportYears     int    `json:"export_years"`

	CapacityAmount decimal.Decimal `json:"capacity_amount"`
	CapacityUnit   string          `json:"capacity_unit,omitempty"`

	Website              string   `json:"website,omitempty"`
	SocialNetworks       []string `json:"social_networks,omitempty"`
	HasEcommerce         bool     `json:"has_ecommerce"`
	MultilingualMaterial bool     `json:"multilingual_material"`

	TariffCode          string `json:"tariff_code,omitempty"`
	TariffCodeValidated bool   `json:"tariff_code_validated"`

	Activities []Activity `json:"activities,omitempty"`

	HasForeignTradeManager bool `json:"has_foreign_trade_manager"`
	HasForeignTradeArea    bool `json:"has_foreign_trade_area"`
	ForeignTradeStaff      int  `json:"foreign_trade_staff"`
	HasExportPlan          bool `json:"has_export_plan"`

	ExportInterest string `json:"export_interest,omitempty"`

	DomesticCertifications      []string `json:"domestic_certifications,omitempty"`
	InternationalCertifications []string `json:"international_certifications,omitempty"`
}

// Activity es una participación en ferias, misiones o rondas de negocios.
type Activity struct {
	Type       string     `json:"type"`
	Name       string     `json:"name,omitempty"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}
