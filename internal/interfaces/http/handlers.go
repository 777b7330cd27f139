package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/procuredesk/order-reconciliation/internal/application/port"
	"github.com/procuredesk/order-reconciliation/internal/application/service"
	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
	"github.com/procuredesk/order-reconciliation/internal/domain/workflow"
	"github.com/procuredesk/order-reconciliation/internal/reconcile"
	"github.com/procuredesk/order-reconciliation/internal/recordstore"
)

// ReportExporter writes a deviation report and returns its path.
type ReportExporter interface {
	Export(results []*entity.ReconciliationResult) (string, error)
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	reconciliation service.ReconciliationService
	review         service.ReviewService
	stats          service.StatsService
	extractor      port.ConfirmationExtractor
	store          port.RecordStore
	exporter       ReportExporter
	logger         *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	reconciliation service.ReconciliationService,
	review service.ReviewService,
	stats service.StatsService,
	extractor port.ConfirmationExtractor,
	store port.RecordStore,
	exporter ReportExporter,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		reconciliation: reconciliation,
		review:         review,
		stats:          stats,
		extractor:      extractor,
		store:          store,
		exporter:       exporter,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// DecisionRequest is the body for POST /results/:id/decisions
type DecisionRequest struct {
	Decision          string     `json:"decision" binding:"required"`
	ReviewerFirstName string     `json:"reviewer_first_name"`
	ReviewerLastName  string     `json:"reviewer_last_name"`
	Comment           string     `json:"comment"`
	CorrectiveAction  string     `json:"corrective_action"`
	FollowUpRequired  bool       `json:"follow_up_required"`
	FollowUpDate      *time.Time `json:"follow_up_date"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// ListResults handles GET /api/v1/results?status=
func (h *Handlers) ListResults(c *gin.Context) {
	results, err := h.reconciliation.ListResults(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.fail(c, err, "failed to retrieve results")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: results})
}

// GetResult handles GET /api/v1/results/:id
func (h *Handlers) GetResult(c *gin.Context) {
	result, err := h.reconciliation.GetResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to retrieve result")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// ListDecisions handles GET /api/v1/results/:id/decisions
func (h *Handlers) ListDecisions(c *gin.Context) {
	decisions, err := h.review.ListDecisions(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to retrieve decisions")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: decisions})
}

// ApplyDecision handles POST /api/v1/results/:id/decisions
func (h *Handlers) ApplyDecision(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	decision := &entity.ReviewDecision{
		Decision:          req.Decision,
		ReviewerFirstName: req.ReviewerFirstName,
		ReviewerLastName:  req.ReviewerLastName,
		Comment:           req.Comment,
		CorrectiveAction:  req.CorrectiveAction,
		FollowUpRequired:  req.FollowUpRequired,
		FollowUpDate:      req.FollowUpDate,
	}

	result, err := h.review.ApplyDecision(c.Request.Context(), c.Param("id"), decision)
	if err != nil {
		h.fail(c, err, "failed to apply decision")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// ReconcileConfirmation handles POST /api/v1/confirmations/:id/reconcile
func (h *Handlers) ReconcileConfirmation(c *gin.Context) {
	result, err := h.reconciliation.ReconcileConfirmation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "reconciliation failed")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: result})
}

// RunReconciliation handles POST /api/v1/reconciliations/run
func (h *Handlers) RunReconciliation(c *gin.Context) {
	results, err := h.reconciliation.ReconcilePending(c.Request.Context())
	if err != nil {
		h.fail(c, err, "reconciliation run failed")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"reconciled": len(results),
			"results":    results,
		},
	})
}

// ExtractConfirmation handles POST /api/v1/confirmations/extract. The body
// is the raw PDF; an optional order_id query parameter links the new
// confirmation to its purchase order.
func (h *Handlers) ExtractConfirmation(c *gin.Context) {
	pdf, err := io.ReadAll(c.Request.Body)
	if err != nil || len(pdf) == 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "missing pdf body"})
		return
	}

	confirmation, err := h.extractor.Extract(c.Request.Context(), pdf)
	if err != nil {
		h.logger.Error("Confirmation extraction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "extraction failed"})
		return
	}

	confirmation.OrderID = c.Query("order_id")

	id, err := h.store.CreateOrderConfirmation(c.Request.Context(), confirmation)
	if err != nil {
		h.fail(c, err, "failed to store confirmation")
		return
	}
	confirmation.ID = id

	c.JSON(http.StatusCreated, Response{Success: true, Data: confirmation})
}

// Stats handles GET /api/v1/stats
func (h *Handlers) Stats(c *gin.Context) {
	stats, err := h.stats.Overview(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to compute stats")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: stats})
}

// ExportDeviationReport handles POST /api/v1/reports/deviations. An
// optional status query parameter narrows the report.
func (h *Handlers) ExportDeviationReport(c *gin.Context) {
	results, err := h.reconciliation.ListResults(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.fail(c, err, "failed to retrieve results")
		return
	}

	path, err := h.exporter.Export(results)
	if err != nil {
		h.logger.Error("Report export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "report export failed"})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"path": path, "rows": len(results)},
	})
}

// fail maps domain errors onto status codes with a generic fallback.
func (h *Handlers) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, recordstore.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "not found"})
	case errors.Is(err, workflow.ErrInvalidTransition):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, workflow.ErrGuardFailed):
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: err.Error()})
	case errors.Is(err, workflow.ErrUnknownDecision):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrMissingOrderReference):
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: err.Error()})
	case errors.Is(err, reconcile.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: fallback})
	}
}
