package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"export-readiness/internal/domain"
	"export-readiness/internal/service"
)

// Healthz maneja GET /healthz.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListCriteria maneja GET /criteria y devuelve el catálogo completo.
func ListCriteria(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"criteria":        domain.Criteria(),
		"max_points":      domain.MaxCriterionPoints,
		"max_total_score": domain.MaxTotalScore,
		"category_colors": categoryColors(),
		"density_palette": densityPalette(),
	})
}

func categoryColors() map[domain.Category]string {
	out := make(map[domain.Category]string, len(domain.Categories()))
	for _, cat := range domain.Categories() {
		out[cat] = cat.Color()
	}
	return out
}

func densityPalette() []gin.H {
	bands := domain.DensityBands()
	out := make([]gin.H, 0, len(bands))
	for _, b := range bands {
		out = append(out, gin.H{"band": b, "color": b.Color()})
	}
	return out
}

// respondServiceError traduce errores de servicio a status HTTP.
func respondServiceError(c *gin.Context, logger *zap.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid scores", "details": verr.Problems})
	case errors.Is(err, domain.ErrUnknownCriterion), errors.Is(err, domain.ErrUnknownOption):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCompanyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
	case errors.Is(err, domain.ErrInvalidThresholds):
		logger.Error("configuration integrity violation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid_thresholds", "details": err.Error()})
	case errors.Is(err, service.ErrConfigUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "configuration unavailable"})
	case errors.Is(err, service.ErrProfileUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "company data unavailable"})
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
