package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas.
// adminGuard protege las escrituras; nil deja esas rutas abiertas.
func NewRouter(
	logger *zap.Logger,
	adminGuard gin.HandlerFunc,
	classificationH *ClassificationHandler,
	settingsH *SettingsHandler,
	densityH *DensityHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	if adminGuard == nil {
		adminGuard = func(c *gin.Context) { c.Next() }
	}

	r.GET("/healthz", Healthz)
	r.GET("/criteria", ListCriteria)

	companies := r.Group("/companies/:id/classification")
	companies.GET("", classificationH.GetClassification)
	companies.GET("/preview", classificationH.PreviewClassification)
	companies.POST("/evaluate", adminGuard, classificationH.EvaluateClassification)
	companies.PUT("", adminGuard, classificationH.SaveClassification)

	classifications := r.Group("/classifications")
	classifications.GET("/summary", classificationH.Summary)
	classifications.POST("/reclassify", adminGuard, classificationH.Reclassify)

	r.GET("/regions/density", densityH.RegionDensities)

	settings := r.Group("/settings")
	settings.GET("/category-thresholds", settingsH.GetCategoryThresholds)
	settings.PUT("/category-thresholds", adminGuard, settingsH.UpdateCategoryThresholds)
	settings.POST("/category-thresholds/normalize", settingsH.NormalizeCategoryThresholds)
	settings.GET("/density-thresholds", settingsH.GetDensityThresholds)
	settings.PUT("/density-thresholds", adminGuard, settingsH.UpdateDensityThresholds)
	settings.POST("/density-thresholds/normalize", settingsH.NormalizeDensityThresholds)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
