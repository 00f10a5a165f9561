package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"export-readiness/internal/domain"
	"export-readiness/internal/service"
)

// SettingsHandler expone los umbrales editables por un admin.
type SettingsHandler struct {
	logger   *zap.Logger
	settings *service.SettingsService
}

// NewSettingsHandler crea una instancia de SettingsHandler.
func NewSettingsHandler(logger *zap.Logger, settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{logger: logger, settings: settings}
}

// GetCategoryThresholds maneja GET /settings/category-thresholds.
func (h *SettingsHandler) GetCategoryThresholds(c *gin.Context) {
	t, err := h.settings.CategoryThresholds(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"thresholds": t, "ranges": t.Ranges()})
}

// UpdateCategoryThresholds maneja PUT /settings/category-thresholds.
func (h *SettingsHandler) UpdateCategoryThresholds(c *gin.Context) {
	var req domain.CategoryThresholds
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid category thresholds request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	t, err := h.settings.UpdateCategoryThresholds(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidThresholds) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "normalized": t})
			return
		}
		respondServiceError(c, h.logger, err)
		return
	}
	h.logger.Info("category thresholds updated",
		zap.Int("etapa_inicial_max", t.InitialStageMax),
		zap.Int("potencial_exportadora_max", t.PotentialMax),
		zap.Int("puntaje_max", t.Max),
		adminField(c),
	)
	c.JSON(http.StatusOK, gin.H{"thresholds": t, "ranges": t.Ranges()})
}

// NormalizeCategoryThresholds maneja POST /settings/category-thresholds/normalize.
func (h *SettingsHandler) NormalizeCategoryThresholds(c *gin.Context) {
	var req domain.CategoryThresholds
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	t := req.Normalize()
	resp := gin.H{"thresholds": t, "valid": true}
	if err := t.Validate(); err != nil {
		resp["valid"] = false
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// GetDensityThresholds maneja GET /settings/density-thresholds.
func (h *SettingsHandler) GetDensityThresholds(c *gin.Context) {
	t, err := h.settings.DensityThresholds(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"thresholds": t})
}

// UpdateDensityThresholds maneja PUT /settings/density-thresholds.
func (h *SettingsHandler) UpdateDensityThresholds(c *gin.Context) {
	var req domain.DensityThresholds
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid density thresholds request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	t, err := h.settings.UpdateDensityThresholds(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidThresholds) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "normalized": t})
			return
		}
		respondServiceError(c, h.logger, err)
		return
	}
	h.logger.Info("density thresholds updated",
		zap.Int("densidad_baja_max", t.LowMax),
		zap.Int("densidad_media_max", t.MediumMax),
		zap.Int("densidad_alta_max", t.HighMax),
		adminField(c),
	)
	c.JSON(http.StatusOK, gin.H{"thresholds": t})
}

// NormalizeDensityThresholds maneja POST /settings/density-thresholds/normalize.
func (h *SettingsHandler) NormalizeDensityThresholds(c *gin.Context) {
	var req domain.DensityThresholds
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"thresholds": req.Normalize(), "valid": true})
}
