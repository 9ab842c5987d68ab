package parts

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the parts documented on a job.
type Handler struct {
	repo   Repository
	logger *zap.Logger
}

// NewHandler creates a new parts handler.
func NewHandler(repo Repository, logger *zap.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// RegisterRoutes registers part routes under the jobs resource.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/jobs/:id/parts", h.addPart)
	router.GET("/jobs/:id/parts", h.listParts)

	parts := router.Group("/parts")
	{
		parts.PUT("/:partId", h.updatePart)
		parts.DELETE("/:partId", h.deletePart)
	}
}

type partRequest struct {
	PartName    string    `json:"part_name" binding:"required"`
	PartNumber  *string   `json:"part_number"`
	Quantity    int       `json:"quantity"`
	Condition   Condition `json:"condition" binding:"required,oneof=good repairable replace"`
	Defects     []string  `json:"defects"`
	DefectNotes *string   `json:"defect_notes"`
	Cost        *float64  `json:"cost"`
}

func (h *Handler) addPart(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	var req partRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	now := time.Now()
	part := &Part{
		ID:          uuid.New(),
		JobID:       jobID,
		PartName:    req.PartName,
		PartNumber:  req.PartNumber,
		Quantity:    req.Quantity,
		Condition:   req.Condition,
		Defects:     req.Defects,
		DefectNotes: req.DefectNotes,
		Cost:        req.Cost,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.repo.Create(c.Request.Context(), part); err != nil {
		h.logger.Error("Failed to create part", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, part)
}

func (h *Handler) listParts(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	parts, err := h.repo.ListByJob(c.Request.Context(), jobID)
	if err != nil {
		h.logger.Error("Failed to list parts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"parts": parts, "count": len(parts)})
}

func (h *Handler) updatePart(c *gin.Context) {
	partID, err := uuid.Parse(c.Param("partId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "partId must be a valid UUID"})
		return
	}

	part, err := h.repo.GetByID(c.Request.Context(), partID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req partRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	part.PartName = req.PartName
	part.PartNumber = req.PartNumber
	if req.Quantity > 0 {
		part.Quantity = req.Quantity
	}
	part.Condition = req.Condition
	part.Defects = req.Defects
	part.DefectNotes = req.DefectNotes
	part.Cost = req.Cost

	if err := h.repo.Update(c.Request.Context(), part); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, part)
}

func (h *Handler) deletePart(c *gin.Context) {
	partID, err := uuid.Parse(c.Param("partId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "partId must be a valid UUID"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), partID); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("Part operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
