package workflow

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"brimis/workshop-intelligence/workshop-backend/internal/jobs"
	"brimis/workshop-intelligence/workshop-backend/internal/workflow/catalog"
)

// Handler exposes the workflow engine over HTTP.
type Handler struct {
	engine *Engine
	logger *zap.Logger
}

// NewHandler creates a workflow handler.
func NewHandler(engine *Engine, logger *zap.Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger,
	}
}

// RegisterRoutes registers workflow routes under the jobs resource.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	wf := router.Group("/jobs/:id")
	{
		wf.POST("/advance", h.advance)
		wf.GET("/steps", h.stepsSummary)
		wf.POST("/steps/:step/complete", h.recordCompletion)
		wf.POST("/move", h.moveToStep)
		wf.GET("/repair-unlocked", h.repairUnlocked)
	}
}

type advanceRequest struct {
	ActorID uuid.UUID `json:"actor_id" binding:"required"`
	Notes   *string   `json:"notes"`
}

func (h *Handler) advance(c *gin.Context) {
	jobID, ok := h.jobIDParam(c)
	if !ok {
		return
	}

	var req advanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.engine.Advance(c.Request.Context(), jobID, req.ActorID, req.Notes)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type recordCompletionRequest struct {
	ActorID      uuid.UUID           `json:"actor_id" binding:"required"`
	Notes        *string             `json:"notes"`
	Measurements jobs.MeasurementMap `json:"measurements"`
	Checklist    jobs.ChecklistMap   `json:"checklist_data"`
}

func (h *Handler) recordCompletion(c *gin.Context) {
	jobID, ok := h.jobIDParam(c)
	if !ok {
		return
	}
	step := catalog.Step(c.Param("step"))

	var req recordCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	completion, err := h.engine.RecordCompletion(
		c.Request.Context(), jobID, step, req.ActorID, req.Notes, req.Measurements, req.Checklist)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, completion)
}

type moveRequest struct {
	Step    catalog.Step `json:"step" binding:"required"`
	ActorID uuid.UUID    `json:"actor_id" binding:"required"`
}

func (h *Handler) moveToStep(c *gin.Context) {
	jobID, ok := h.jobIDParam(c)
	if !ok {
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.engine.MoveToStep(c.Request.Context(), jobID, req.Step, req.ActorID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *Handler) stepsSummary(c *gin.Context) {
	jobID, ok := h.jobIDParam(c)
	if !ok {
		return
	}

	summary, err := h.engine.StepsSummary(c.Request.Context(), jobID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) repairUnlocked(c *gin.Context) {
	jobID, ok := h.jobIDParam(c)
	if !ok {
		return
	}

	unlocked, err := h.engine.IsRepairUnlocked(c.Request.Context(), jobID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"repair_unlocked": unlocked})
}

func (h *Handler) jobIDParam(c *gin.Context) (uuid.UUID, bool) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return uuid.Nil, false
	}
	return jobID, true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if ve, ok := IsValidationError(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    ve.Error(),
			"errors":   ve.Reasons,
			"warnings": ve.Warnings,
		})
		return
	}

	switch {
	case errors.Is(err, jobs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrTerminalStep):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, jobs.ErrStepConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrStepNotAccessible), errors.Is(err, ErrUnknownStep):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Workflow operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
