package qc

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler exposes QC inspections over HTTP.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers QC routes under the given router group.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/jobs/:id/qc", h.Submit)
	router.GET("/jobs/:id/qc/latest", h.Latest)
	router.GET("/jobs/:id/qc", h.History)
}

func (h *Handler) Submit(c *gin.Context) {
	jobID, ok := h.jobIDParam(c)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inspection, err := h.service.Submit(c.Request.Context(), jobID, &req)
	if err != nil {
		h.logger.Error("Failed to record QC inspection", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, inspection)
}

func (h *Handler) Latest(c *gin.Context) {
	jobID, ok := h.jobIDParam(c)
	if !ok {
		return
	}

	inspection, err := h.service.Latest(c.Request.Context(), jobID)
	if err != nil {
		h.logger.Error("Failed to get QC inspection", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if inspection == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no QC inspection recorded"})
		return
	}
	c.JSON(http.StatusOK, inspection)
}

func (h *Handler) History(c *gin.Context) {
	jobID, ok := h.jobIDParam(c)
	if !ok {
		return
	}

	inspections, err := h.service.History(c.Request.Context(), jobID)
	if err != nil {
		h.logger.Error("Failed to list QC inspections", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inspections": inspections, "count": len(inspections)})
}

func (h *Handler) jobIDParam(c *gin.Context) (uuid.UUID, bool) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job ID"})
		return uuid.Nil, false
	}
	return jobID, true
}
