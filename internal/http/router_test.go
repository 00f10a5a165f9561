package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"export-readiness/internal/domain"
	"export-readiness/internal/service"
)

type testServer struct {
	router    *gin.Engine
	companies *mockCompanyRepo
	records   *mockClassificationRepo
	settings  *mockSettingsRepo
}

func newTestServer(t *testing.T, adminGuard gin.HandlerFunc) *testServer {
	t.Helper()
	return newTestServerWithLogger(t, adminGuard, zap.NewNop())
}

func newTestServerWithLogger(t *testing.T, adminGuard gin.HandlerFunc, logger *zap.Logger) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	companies := newMockCompanyRepo(domain.CompanyProfile{
		ID:             "c1",
		Name:           "Acme",
		Kind:           domain.CompanyKindGoods,
		ExportMode:     domain.ExportModeIndirect,
		CapacityAmount: decimal.NewFromInt(20_000),
		Website:        "acme.com.ar",
		ExportInterest: "alto",
	})
	companies.regions = []domain.RegionCount{
		{RegionID: "r0", Name: "Sur", Count: 0},
		{RegionID: "r1", Name: "Norte", Count: 6},
	}
	records := newMockClassificationRepo()
	settingsRepo := newMockSettingsRepo()

	settingsSvc := service.NewSettingsService(logger, settingsRepo)
	classSvc := service.NewClassificationService(logger, companies, records, settingsSvc, service.NewScoringEngine(24))
	densitySvc := service.NewDensityService(logger, companies, settingsSvc, service.NewMemoryRegionCountCache(), time.Minute)

	router := NewRouter(
		logger,
		adminGuard,
		NewClassificationHandler(logger, classSvc, 2),
		NewSettingsHandler(logger, settingsSvc),
		NewDensityHandler(logger, densitySvc),
	)
	return &testServer{router: router, companies: companies, records: records, settings: settingsRepo}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func allOptions(points int) map[domain.CriterionID]string {
	out := make(map[domain.CriterionID]string)
	for _, c := range domain.Criteria() {
		for _, o := range c.Options {
			if o.Points == points {
				out[c.ID] = o.Value
				break
			}
		}
	}
	return out
}

func TestHealthzAndCriteria(t *testing.T) {
	srv := newTestServer(t, nil)

	if rec := srv.do(http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec := srv.do(http.MethodGet, "/criteria", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	criteria, ok := body["criteria"].([]any)
	if !ok || len(criteria) != 9 {
		t.Fatalf("expected 9 criteria, got %v", body["criteria"])
	}
}

func TestClassification_NotEvaluatedThenEvaluate(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(http.MethodGet, "/companies/c1/classification", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "not_evaluated" {
		t.Fatalf("expected not_evaluated, got %v", body)
	}

	rec = srv.do(http.MethodPost, "/companies/c1/classification/evaluate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = srv.do(http.MethodGet, "/companies/c1/classification", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cls := decodeBody(t, rec)["classification"].(map[string]any)
	if cls["category"] != string(domain.CategoryPotential) || cls["total_score"].(float64) != 8 || cls["color"] != "#f39c12" {
		t.Fatalf("unexpected classification: %v", cls)
	}
}

func TestClassification_PreviewDoesNotPersist(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(http.MethodGet, "/companies/c1/classification/preview", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(srv.records.records) != 0 {
		t.Fatalf("preview must not persist")
	}

	if rec := srv.do(http.MethodGet, "/companies/ghost/classification/preview", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown company, got %d", rec.Code)
	}
}

func TestClassification_SaveWithOptions(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(http.MethodPut, "/companies/c1/classification", map[string]any{"options": allOptions(2)})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	saved := srv.records.records["c1"]
	if saved.TotalScore != 18 || saved.Category != domain.CategoryExporter || saved.Source != domain.SourceManual {
		t.Fatalf("unexpected record: %+v", saved)
	}
}

func TestClassification_SaveValidationErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	partial := allOptions(1)
	delete(partial, domain.CriterionExportInterest)
	if rec := srv.do(http.MethodPut, "/companies/c1/classification", map[string]any{"options": partial}); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for missing criterion, got %d", rec.Code)
	}

	unknown := allOptions(1)
	unknown[domain.CriterionExportInterest] = "muchisimo"
	if rec := srv.do(http.MethodPut, "/companies/c1/classification", map[string]any{"options": unknown}); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown option, got %d", rec.Code)
	}

	scores := map[string]any{
		"scores": map[string]any{
			string(domain.CriterionExportExperience): map[string]any{"option": domain.OptionDirectMany, "points": 1},
		},
	}
	if rec := srv.do(http.MethodPut, "/companies/c1/classification", scores); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for wrong points, got %d", rec.Code)
	}

	if rec := srv.do(http.MethodPut, "/companies/c1/classification", map[string]any{}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body, got %d", rec.Code)
	}

	if rec := srv.do(http.MethodPut, "/companies/ghost/classification", map[string]any{"options": allOptions(0)}); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown company, got %d", rec.Code)
	}
	if len(srv.records.records) != 0 {
		t.Fatalf("rejected saves must not persist")
	}
}

func TestClassification_ProfileUnavailable(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.companies.err = errors.New("db down")

	if rec := srv.do(http.MethodGet, "/companies/c1/classification/preview", nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestClassification_InvalidStoredThresholds(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.settings.values[service.SettingPotentialMax] = 3

	rec := srv.do(http.MethodGet, "/companies/c1/classification/preview", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "invalid_thresholds" {
		t.Fatalf("expected invalid_thresholds, got %v", body)
	}

	srv.settings.err = errors.New("db down")
	if rec := srv.do(http.MethodGet, "/settings/category-thresholds", nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestSummaryAndReclassify(t *testing.T) {
	srv := newTestServer(t, nil)
	if rec := srv.do(http.MethodPost, "/companies/c1/classification/evaluate", nil); rec.Code != http.StatusOK {
		t.Fatalf("evaluate: %d", rec.Code)
	}

	rec := srv.do(http.MethodGet, "/classifications/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["total"].(float64) != 1 {
		t.Fatalf("unexpected summary: %v", body)
	}

	srv.settings.values[service.SettingInitialStageMax] = 8
	srv.settings.values[service.SettingPotentialMax] = 12
	rec = srv.do(http.MethodPost, "/classifications/reclassify", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["processed"].(float64) != 1 || body["failed"].(float64) != 0 {
		t.Fatalf("unexpected reclassify result: %v", body)
	}
	if srv.records.records["c1"].Category != domain.CategoryInitialStage {
		t.Fatalf("expected recategorized record, got %+v", srv.records.records["c1"])
	}
}

func TestRegionDensity(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(http.MethodGet, "/regions/density", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	regions := decodeBody(t, rec)["regions"].([]any)
	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}
	first := regions[0].(map[string]any)
	second := regions[1].(map[string]any)
	if first["band"] != string(domain.DensityNone) || second["band"] != string(domain.DensityMedium) {
		t.Fatalf("unexpected bands: %v %v", first, second)
	}
	if second["color"] != domain.DensityMedium.Color() {
		t.Fatalf("unexpected color: %v", second["color"])
	}
}

func TestRegionDensity_RefreshDropsCachedCounts(t *testing.T) {
	srv := newTestServer(t, nil)

	if rec := srv.do(http.MethodGet, "/regions/density", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	srv.companies.regions = []domain.RegionCount{{RegionID: "r1", Name: "Norte", Count: 50}}

	cached := decodeBody(t, srv.do(http.MethodGet, "/regions/density", nil))["regions"].([]any)
	if len(cached) != 2 {
		t.Fatalf("expected cached counts, got %v", cached)
	}

	rec := srv.do(http.MethodGet, "/regions/density?refresh=true", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	fresh := decodeBody(t, rec)["regions"].([]any)
	if len(fresh) != 1 || fresh[0].(map[string]any)["band"] != string(domain.DensityVeryHigh) {
		t.Fatalf("expected refreshed counts, got %v", fresh)
	}
}

func TestSettings_UpdateAndNormalize(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(http.MethodPut, "/settings/density-thresholds", domain.DensityThresholds{LowMax: 10, MediumMax: 10, HighMax: 40})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if srv.settings.values[service.SettingDensityMedMax] != 11 {
		t.Fatalf("expected medium raised to 11, got %d", srv.settings.values[service.SettingDensityMedMax])
	}

	rec = srv.do(http.MethodPut, "/settings/category-thresholds", domain.CategoryThresholds{InitialStageMax: 5, PotentialMax: 11, Max: 40})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	rec = srv.do(http.MethodPost, "/settings/category-thresholds/normalize", domain.CategoryThresholds{InitialStageMax: 7, PotentialMax: 3, Max: 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	th := body["thresholds"].(map[string]any)
	if th["potencial_exportadora_max"].(float64) != 8 || th["puntaje_max"].(float64) != 9 || body["valid"] != true {
		t.Fatalf("unexpected normalized thresholds: %v", body)
	}

	rec = srv.do(http.MethodPost, "/settings/density-thresholds/normalize", domain.DensityThresholds{})
	th = decodeBody(t, rec)["thresholds"].(map[string]any)
	if th["densidad_baja_max"].(float64) != 1 || th["densidad_media_max"].(float64) != 2 || th["densidad_alta_max"].(float64) != 3 {
		t.Fatalf("unexpected normalized density: %v", th)
	}
}

func TestRouter_AdminGuardProtectsWrites(t *testing.T) {
	jwtSvc := service.NewJWTService("secret", "portal-exporta")
	srv := newTestServer(t, AdminAuthMiddleware(jwtSvc))

	if rec := srv.do(http.MethodPost, "/companies/c1/classification/evaluate", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec := srv.do(http.MethodPut, "/settings/density-thresholds", domain.DefaultDensityThresholds()); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec := srv.do(http.MethodGet, "/companies/c1/classification/preview", nil); rec.Code != http.StatusOK {
		t.Fatalf("reads must stay open, got %d", rec.Code)
	}
}

func TestAdminChangesAreLoggedWithAdminID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	asAdmin := func(c *gin.Context) {
		c.Set(authClaimsKey, service.Claims{UserID: "admin-7", Role: service.RoleAdmin})
		c.Next()
	}
	srv := newTestServerWithLogger(t, asAdmin, zap.New(core))

	if rec := srv.do(http.MethodPut, "/companies/c1/classification", map[string]any{"options": allOptions(1)}); rec.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := srv.do(http.MethodPut, "/settings/density-thresholds", domain.DefaultDensityThresholds()); rec.Code != http.StatusOK {
		t.Fatalf("density update: expected 200, got %d", rec.Code)
	}
	if rec := srv.do(http.MethodPost, "/classifications/reclassify", nil); rec.Code != http.StatusOK {
		t.Fatalf("reclassify: expected 200, got %d", rec.Code)
	}

	for _, msg := range []string{"manual classification saved", "density thresholds updated", "reclassify requested"} {
		entries := logs.FilterMessage(msg).All()
		if len(entries) != 1 {
			t.Fatalf("expected one %q entry, got %d", msg, len(entries))
		}
		if got := entries[0].ContextMap()["admin_id"]; got != "admin-7" {
			t.Fatalf("%q: expected admin_id admin-7, got %v", msg, got)
		}
	}
}

func TestAdminFieldSkippedWithoutClaims(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	srv := newTestServerWithLogger(t, nil, zap.New(core))

	if rec := srv.do(http.MethodPost, "/classifications/reclassify", nil); rec.Code != http.StatusOK {
		t.Fatalf("reclassify: expected 200, got %d", rec.Code)
	}
	entries := logs.FilterMessage("reclassify requested").All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if _, ok := entries[0].ContextMap()["admin_id"]; ok {
		t.Fatalf("expected no admin_id without claims")
	}
}
