package photos

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"brimis/workshop-intelligence/workshop-backend/internal/workflow/catalog"
)

// Handler exposes photo metadata over HTTP. Upload of image bytes is
// handled by external storage; clients register the resulting URLs here.
type Handler struct {
	repo   Repository
	logger *zap.Logger
}

func NewHandler(repo Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes registers photo routes under the given router group.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/jobs/:id/photos", h.CreatePhoto)
	router.GET("/jobs/:id/photos", h.ListPhotos)
	router.DELETE("/photos/:photoId", h.DeletePhoto)
}

type createPhotoRequest struct {
	Step         *string   `json:"step"`
	URL          string    `json:"url" binding:"required"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Caption      *string   `json:"caption"`
	UploadedBy   uuid.UUID `json:"uploaded_by" binding:"required"`
}

func (h *Handler) CreatePhoto(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job ID"})
		return
	}

	var req createPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var step *catalog.Step
	if req.Step != nil {
		s := catalog.Step(*req.Step)
		if !s.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown workflow step"})
			return
		}
		step = &s
	}

	photo := &Photo{
		ID:           uuid.New(),
		JobID:        jobID,
		Step:         step,
		URL:          req.URL,
		ThumbnailURL: req.ThumbnailURL,
		Caption:      req.Caption,
		UploadedBy:   req.UploadedBy,
		CreatedAt:    time.Now(),
	}

	if err := h.repo.Create(c.Request.Context(), photo); err != nil {
		h.logger.Error("Failed to create photo record", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, photo)
}

func (h *Handler) ListPhotos(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job ID"})
		return
	}

	photos, err := h.repo.ListByJob(c.Request.Context(), jobID)
	if err != nil {
		h.logger.Error("Failed to list photos", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos, "count": len(photos)})
}

func (h *Handler) DeletePhoto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("photoId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid photo ID"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
			return
		}
		h.logger.Error("Failed to delete photo record", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "photo deleted"})
}
