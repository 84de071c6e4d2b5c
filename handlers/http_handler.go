package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/readytoruncq/fieldservice-uploads/health"
	"github.com/readytoruncq/fieldservice-uploads/logging"
	"github.com/readytoruncq/fieldservice-uploads/models"
	"github.com/readytoruncq/fieldservice-uploads/services"
)

var validate = validator.New()

type HTTPHandler struct {
	uploadService services.UploadService
	checks        []health.ReadinessCheck
	logger        logging.Logger
}

func NewHTTPHandler(uploadSvc services.UploadService, checks []health.ReadinessCheck, l logging.Logger) *HTTPHandler {
	return &HTTPHandler{
		uploadService: uploadSvc,
		checks:        checks,
		logger:        l,
	}
}

func (h *HTTPHandler) Register(r gin.IRouter) {
	api := r.Group("/api/v1")
	api.POST("/issues/uploads", h.uploadIssueFiles)

	r.GET("/healthz", h.healthz)
}

// uploadIssueFiles is the batch-upload entry point the mobile forms call.
// The forms enforce their own required-field rules before submitting; this
// layer only validates shape.
func (h *HTTPHandler) uploadIssueFiles(c *gin.Context) {
	var req models.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid upload request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validate.Struct(&req); err != nil {
		h.logger.Warn("upload request validation failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.RefCode == "" {
		req.RefCode = NewRefCode()
	}

	results, failures := h.uploadService.UploadBatch(c.Request.Context(), req)

	c.JSON(http.StatusOK, gin.H{
		"ref_code": req.RefCode,
		"results":  results,
		"failures": failures,
	})
}

func (h *HTTPHandler) healthz(c *gin.Context) {
	for _, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
		err := check.IsReady(ctx)
		cancel()

		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"check":  check.Name(),
				"error":  err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
