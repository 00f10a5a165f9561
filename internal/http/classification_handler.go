package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"export-readiness/internal/domain"
	"export-readiness/internal/service"
)

// ClassificationHandler expone la clasificación exportadora por empresa.
type ClassificationHandler struct {
	logger            *zap.Logger
	classifications   *service.ClassificationService
	reclassifyWorkers int
}

// NewClassificationHandler crea una instancia de ClassificationHandler.
func NewClassificationHandler(
	logger *zap.Logger,
	classifications *service.ClassificationService,
	reclassifyWorkers int,
) *ClassificationHandler {
	return &ClassificationHandler{
		logger:            logger,
		classifications:   classifications,
		reclassifyWorkers: reclassifyWorkers,
	}
}

// GetClassification maneja GET /companies/:id/classification.
func (h *ClassificationHandler) GetClassification(c *gin.Context) {
	companyID := c.Param("id")
	rec, found, err := h.classifications.GetByCompany(c.Request.Context(), companyID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"status": "not_evaluated", "company_id": companyID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "evaluated", "classification": withColor(rec)})
}

// PreviewClassification maneja GET /companies/:id/classification/preview.
func (h *ClassificationHandler) PreviewClassification(c *gin.Context) {
	result, err := h.classifications.Preview(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"company_id":  c.Param("id"),
		"scores":      result.Scores,
		"total_score": result.Total,
		"category":    result.Category,
		"color":       result.Category.Color(),
	})
}

// EvaluateClassification maneja POST /companies/:id/classification/evaluate.
func (h *ClassificationHandler) EvaluateClassification(c *gin.Context) {
	rec, err := h.classifications.Evaluate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "evaluated", "classification": withColor(rec)})
}

// SaveClassification maneja PUT /companies/:id/classification. Acepta los
// puntajes completos o solo las opciones elegidas.
func (h *ClassificationHandler) SaveClassification(c *gin.Context) {
	var req struct {
		Scores  domain.Scorecard              `json:"scores"`
		Options map[domain.CriterionID]string `json:"options"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid save classification request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if len(req.Scores) > 0 && len(req.Options) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "send either scores or options"})
		return
	}

	scores := req.Scores
	if len(req.Options) > 0 {
		var err error
		scores, err = service.ScoresFromOptions(req.Options)
		if err != nil {
			respondServiceError(c, h.logger, err)
			return
		}
	}
	if len(scores) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scores are required"})
		return
	}

	rec, err := h.classifications.Save(c.Request.Context(), c.Param("id"), scores, domain.SourceManual)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	h.logger.Info("manual classification saved",
		zap.String("company_id", rec.CompanyID),
		zap.String("category", string(rec.Category)),
		adminField(c),
	)
	c.JSON(http.StatusOK, gin.H{"status": "evaluated", "classification": withColor(rec)})
}

// Summary maneja GET /classifications/summary.
func (h *ClassificationHandler) Summary(c *gin.Context) {
	summary, err := h.classifications.Summary(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	total := 0
	for _, cc := range summary {
		total += cc.Count
	}
	c.JSON(http.StatusOK, gin.H{"categories": summary, "total": total})
}

// Reclassify maneja POST /classifications/reclassify.
func (h *ClassificationHandler) Reclassify(c *gin.Context) {
	result, err := h.classifications.Reclassify(c.Request.Context(), h.reclassifyWorkers)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	h.logger.Info("reclassify requested",
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed),
		adminField(c),
	)
	c.JSON(http.StatusOK, result)
}

type classificationView struct {
	domain.ClassificationRecord
	Color string `json:"color"`
}

func withColor(rec domain.ClassificationRecord) classificationView {
	return classificationView{ClassificationRecord: rec, Color: rec.Category.Color()}
}
