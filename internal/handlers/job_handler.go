package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ywpark/brickpay-api/internal/jobs"
)

// JobHandler exposes background worker statistics
type JobHandler struct {
	worker *jobs.Worker
}

// NewJobHandler creates a new job handler
func NewJobHandler(worker *jobs.Worker) *JobHandler {
	return &JobHandler{worker: worker}
}

// Status returns the current worker statistics
func (h *JobHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.worker.GetStats())
}
