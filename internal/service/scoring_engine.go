package service

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/net/publicsuffix"

	"export-readiness/internal/domain"
)

// DefaultActivityLookbackMonths es la ventana por defecto para contar actividades.
const DefaultActivityLookbackMonths = 24

// ScoringEngine traduce un perfil de empresa a una opción por criterio.
// No tiene estado mutable y es seguro para uso concurrente.
type ScoringEngine struct {
	LookbackMonths int
}

// NewScoringEngine crea un motor con la ventana de actividades indicada.
func NewScoringEngine(lookbackMonths int) ScoringEngine {
	if lookbackMonths <= 0 {
		lookbackMonths = DefaultActivityLookbackMonths
	}
	return ScoringEngine{LookbackMonths: lookbackMonths}
}

// capacityBands son los mínimos de las franjas baja, media y alta por unidad.
var capacityBands = map[string][3]decimal.Decimal{
	domain.CapacityUnitUnits:    {decimal.NewFromInt(1), decimal.NewFromInt(10_000), decimal.NewFromInt(100_000)},
	domain.CapacityUnitKg:       {decimal.NewFromInt(1), decimal.NewFromInt(50_000), decimal.NewFromInt(500_000)},
	domain.CapacityUnitCurrency: {decimal.RequireFromString("0.01"), decimal.NewFromInt(100_000), decimal.NewFromInt(1_000_000)},
}

var socialDomains = map[string]struct{}{
	"facebook.com":  {},
	"fb.com":        {},
	"instagram.com": {},
	"linkedin.com":  {},
	"twitter.com":   {},
	"x.com":         {},
	"tiktok.com":    {},
	"youtube.com":   {},
	"pinterest.com": {},
	"wa.me":         {},
	"whatsapp.com":  {},
	"linktr.ee":     {},
}

var recognizedDomesticCertifications = map[string]struct{}{
	"bpm":                       {},
	"registro sanitario":        {},
	"sello de calidad nacional": {},
	"habilitacion sanitaria":    {},
	"producto organico":         {},
}

var recognizedInternationalCertifications = map[string]struct{}{
	"iso 9001":     {},
	"iso 14001":    {},
	"iso 22000":    {},
	"iso 45001":    {},
	"fssc 22000":   {},
	"haccp":        {},
	"brc":          {},
	"brcgs":        {},
	"globalg a p":  {},
	"globalgap":    {},
	"kosher":       {},
	"halal":        {},
	"fair trade":   {},
	"usda organic": {},
}

var interestLevels = map[string]string{
	"alto":    domain.OptionInterestHigh,
	"alta":    domain.OptionInterestHigh,
	"medio":   domain.OptionInterestMedium,
	"media":   domain.OptionInterestMedium,
	"bajo":    domain.OptionInterestLow,
	"baja":    domain.OptionInterestLow,
	"ninguno": domain.OptionNoInterest,
}

// Score devuelve exactamente un puntaje por cada criterio del catálogo.
// Los datos faltantes resuelven a la opción de 0 puntos.
func (e ScoringEngine) Score(profile domain.CompanyProfile, asOf time.Time) domain.Scorecard {
	options := map[domain.CriterionID]string{
		domain.CriterionExportExperience:            exportExperienceOption(profile),
		domain.CriterionProductionVolume:            productionVolumeOption(profile),
		domain.CriterionDigitalPresence:             digitalPresenceOption(profile),
		domain.CriterionTariffPosition:              tariffPositionOption(profile),
		domain.CriterionInternationalization:        e.internationalizationOption(profile.Activities, asOf),
		domain.CriterionInternalStructure:           internalStructureOption(profile),
		domain.CriterionExportInterest:              exportInterestOption(profile.ExportInterest),
		domain.CriterionDomesticCertifications:      certificationOption(profile.DomesticCertifications, recognizedDomesticCertifications, domain.OptionRecognizedCert, domain.OptionManyRecognized),
		domain.CriterionInternationalCertifications: certificationOption(profile.InternationalCertifications, recognizedInternationalCertifications, domain.OptionStandardCert, domain.OptionManyStandards),
	}

	card := make(domain.Scorecard, len(options))
	for id, option := range options {
		points, err := domain.PointsFor(id, option)
		if err != nil {
			panic(fmt.Sprintf("scoring rule produced an option outside the catalog: %v", err))
		}
		card[id] = domain.CriterionScore{Option: option, Points: points}
	}
	return card
}

func exportExperienceOption(p domain.CompanyProfile) string {
	switch strings.ToLower(strings.TrimSpace(p.ExportMode)) {
	case domain.ExportModeDirect:
		if p.ExportCountries >= 3 || p.ExportYears >= 3 {
			return domain.OptionDirectMany
		}
		return domain.OptionDirectFew
	case domain.ExportModeIndirect:
		return domain.OptionIndirectExport
	default:
		return domain.OptionNoExport
	}
}

func productionVolumeOption(p domain.CompanyProfile) string {
	if !p.CapacityAmount.IsPositive() {
		return domain.OptionVolumeNoData
	}
	unit := strings.ToLower(strings.TrimSpace(p.CapacityUnit))
	if unit == "" {
		unit = p.Kind.DefaultCapacityUnit()
	}
	bands, ok := capacityBands[unit]
	if !ok {
		return domain.OptionVolumeNoData
	}
	switch {
	case p.CapacityAmount.GreaterThanOrEqual(bands[2]):
		return domain.OptionVolumeHigh
	case p.CapacityAmount.GreaterThanOrEqual(bands[1]):
		return domain.OptionVolumeMedium
	case p.CapacityAmount.GreaterThanOrEqual(bands[0]):
		return domain.OptionVolumeLow
	default:
		return domain.OptionVolumeNoData
	}
}

func digitalPresenceOption(p domain.CompanyProfile) string {
	hasSocial := false
	for _, s := range p.SocialNetworks {
		if strings.TrimSpace(s) != "" {
			hasSocial = true
			break
		}
	}

	site, ok := registrableDomain(p.Website)
	if ok {
		if _, social := socialDomains[site]; social {
			hasSocial = true
		} else {
			if p.HasEcommerce || p.MultilingualMaterial {
				return domain.OptionEcommerce
			}
			return domain.OptionWebsite
		}
	}
	if hasSocial {
		return domain.OptionSocialOnly
	}
	return domain.OptionNoPresence
}

// registrableDomain devuelve el eTLD+1 de una URL o host declarado.
func registrableDomain(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	host = strings.TrimPrefix(host, "www.")
	if host == "" || !strings.Contains(host, ".") {
		return "", false
	}
	site, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", false
	}
	return site, true
}

func tariffPositionOption(p domain.CompanyProfile) string {
	if !p.Kind.ProducesGoods() {
		return domain.OptionTariffNotApply
	}
	code := strings.TrimSpace(p.TariffCode)
	if code == "" {
		return domain.OptionNoTariff
	}
	digits := 0
	for _, r := range code {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' || r == '-' || unicode.IsSpace(r):
		default:
			return domain.OptionTariffPartial
		}
	}
	switch {
	case digits == 0:
		return domain.OptionNoTariff
	case digits < 6:
		return domain.OptionTariffPartial
	case digits < 8:
		return domain.OptionTariffComplete
	case p.TariffCodeValidated:
		return domain.OptionTariffValidated
	default:
		return domain.OptionTariffComplete
	}
}

func (e ScoringEngine) internationalizationOption(activities []domain.Activity, asOf time.Time) string {
	months := e.LookbackMonths
	if months <= 0 {
		months = DefaultActivityLookbackMonths
	}
	asOf = asOf.UTC()
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	since := day.AddDate(0, -months, 0)
	until := day.AddDate(0, 0, 1)

	count := 0
	kinds := map[string]struct{}{}
	for _, a := range activities {
		if a.OccurredAt == nil {
			continue
		}
		at := a.OccurredAt.UTC()
		if at.Before(since) || !at.Before(until) {
			continue
		}
		kind := strings.ToLower(strings.TrimSpace(a.Type))
		switch kind {
		case domain.ActivityTradeFair, domain.ActivityTradeMission, domain.ActivityB2BRound:
		default:
			continue
		}
		count++
		kinds[kind] = struct{}{}
	}

	switch {
	case count == 0:
		return domain.OptionNoActivities
	case count == 1:
		return domain.OptionOneActivity
	case count >= 4 || len(kinds) == 3:
		return domain.OptionActiveProgram
	default:
		return domain.OptionSomeActivities
	}
}

func internalStructureOption(p domain.CompanyProfile) string {
	switch {
	case p.HasForeignTradeArea && (p.ForeignTradeStaff >= 3 || p.HasExportPlan):
		return domain.OptionTradeDepartment
	case p.HasForeignTradeArea:
		return domain.OptionTradeArea
	case p.HasForeignTradeManager:
		return domain.OptionResponsible
	default:
		return domain.OptionNoStructure
	}
}

func exportInterestOption(level string) string {
	if option, ok := interestLevels[foldText(level)]; ok {
		return option
	}
	return domain.OptionNoInterest
}

func certificationOption(names []string, recognized map[string]struct{}, one, many string) string {
	seen := map[string]struct{}{}
	hits := 0
	for _, name := range names {
		key := foldText(name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if isRecognized(key, recognized) {
			hits++
		}
	}
	switch {
	case len(seen) == 0:
		return domain.OptionNoCertification
	case hits >= 2:
		return many
	case hits == 1:
		return one
	default:
		return domain.OptionGenericCert
	}
}

// isRecognized acepta el nombre exacto o seguido de una versión ("iso 9001 2015").
func isRecognized(name string, recognized map[string]struct{}) bool {
	if _, ok := recognized[name]; ok {
		return true
	}
	for r := range recognized {
		if strings.HasPrefix(name, r+" ") {
			return true
		}
	}
	return false
}
