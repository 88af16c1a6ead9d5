package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teadealer/teadealer-api/internal/services"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobService *services.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// @Summary Worker statistics
// @Description Get background worker queue counters
// @Tags Jobs
// @Produce json
// @Success 200 {object} jobs.WorkerStats
// @Security BearerAuth
// @Router /jobs/stats [get]
func (h *JobHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.jobService.Stats())
}
