package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"export-readiness/internal/service"
)

// DensityHandler expone la densidad de empresas por región.
type DensityHandler struct {
	logger  *zap.Logger
	density *service.DensityService
}

// NewDensityHandler crea una instancia de DensityHandler.
func NewDensityHandler(logger *zap.Logger, density *service.DensityService) *DensityHandler {
	return &DensityHandler{logger: logger, density: density}
}

// RegionDensities maneja GET /regions/density. Con ?refresh=true ignora la caché.
func (h *DensityHandler) RegionDensities(c *gin.Context) {
	if c.Query("refresh") == "true" {
		if err := h.density.InvalidateCounts(c.Request.Context()); err != nil {
			h.logger.Warn("invalidate region counts failed", zap.Error(err))
		}
	}
	regions, thresholds, err := h.density.RegionDensities(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"regions":    regions,
		"thresholds": thresholds,
		"legend":     densityPalette(),
	})
}
