package jobs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"brimis/workshop-intelligence/workshop-backend/internal/workflow/catalog"
)

// Handler handles HTTP requests for job management.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new jobs handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers job routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	jobs := router.Group("/jobs")
	{
		jobs.POST("", h.createJob)
		jobs.GET("", h.listJobs)
		jobs.GET("/stats", h.getStats)
		jobs.GET("/:id", h.getJob)
		jobs.PUT("/:id", h.updateJob)
		jobs.DELETE("/:id", h.deleteJob)

		jobs.PUT("/:id/hazmat", h.updateHazmat)
		jobs.PUT("/:id/quote", h.updateQuote)
		jobs.PUT("/:id/po", h.recordPO)
		jobs.PUT("/:id/technician", h.assignTechnician)
		jobs.POST("/:id/dispatch", h.completeDispatch)
	}
}

func (h *Handler) createJob(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.service.CreateJob(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to create job", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, job)
}

func (h *Handler) listJobs(c *gin.Context) {
	filters := JobFilters{
		Search: c.Query("search"),
		Limit:  h.getIntParam(c, "limit", 50),
		Offset: h.getIntParam(c, "offset", 0),
	}

	if status := c.Query("status"); status != "" {
		s := catalog.Status(status)
		filters.Status = &s
	}
	if step := c.Query("step"); step != "" {
		s := catalog.Step(step)
		filters.Step = &s
	}
	if technicianID := c.Query("technician_id"); technicianID != "" {
		id, err := uuid.Parse(technicianID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "technician_id must be a valid UUID"})
			return
		}
		filters.TechnicianID = &id
	}
	if clientID := c.Query("client_id"); clientID != "" {
		id, err := uuid.Parse(clientID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "client_id must be a valid UUID"})
			return
		}
		filters.ClientID = &id
	}
	if hasHazmat := c.Query("has_hazmat"); hasHazmat != "" {
		v := hasHazmat == "true"
		filters.HasHazmat = &v
	}

	jobs, err := h.service.ListJobs(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("Failed to list jobs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "count": len(jobs)})
}

func (h *Handler) getJob(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	job, err := h.service.GetJob(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *Handler) updateJob(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.service.UpdateJob(c.Request.Context(), id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *Handler) deleteJob(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteJob(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) updateHazmat(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var req UpdateHazmatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.service.UpdateHazmat(c.Request.Context(), id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *Handler) updateQuote(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var req struct {
		Amount float64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.service.UpdateQuote(c.Request.Context(), id, req.Amount)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *Handler) recordPO(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var req struct {
		PONumber string `json:"po_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.service.RecordPO(c.Request.Context(), id, req.PONumber)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *Handler) assignTechnician(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var req struct {
		TechnicianID uuid.UUID `json:"technician_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.service.AssignTechnician(c.Request.Context(), id, req.TechnicianID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *Handler) completeDispatch(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var req struct {
		ActorID uuid.UUID `json:"actor_id" binding:"required"`
		Notes   *string   `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.service.CompleteDispatch(c.Request.Context(), id, req.ActorID, req.Notes)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *Handler) getStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get job stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) idParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) getIntParam(c *gin.Context, name string, fallback int) int {
	value := c.Query(name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("Job operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
