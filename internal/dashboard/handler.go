package dashboard

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brimis/workshop-intelligence/workshop-backend/internal/jobs"
	"brimis/workshop-intelligence/workshop-backend/internal/workflow/catalog"
)

// Handler exposes dashboard aggregates over HTTP.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers dashboard routes under the given router group.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/summary", h.GetSummary)
		dashboard.POST("/refresh", h.RefreshSummary)
		dashboard.GET("/export", h.ExportRegister)
	}
}

func (h *Handler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get dashboard summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) RefreshSummary(c *gin.Context) {
	summary, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to refresh dashboard summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) ExportRegister(c *gin.Context) {
	filters := jobs.JobFilters{}
	if v := c.Query("status"); v != "" {
		status := catalog.Status(v)
		filters.Status = &status
	}
	if v := c.Query("step"); v != "" {
		step := catalog.Step(v)
		if !step.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown workflow step"})
			return
		}
		filters.Step = &step
	}
	if v := c.Query("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			filters.Limit = limit
		}
	}

	workbook, err := h.service.ExportJobRegister(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("Failed to export job register", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := "job-register-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}
