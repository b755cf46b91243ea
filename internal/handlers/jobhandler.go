package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/korea-job-board/internal/dtos"
	"github.com/justsurfingit/korea-job-board/internal/models"
	"github.com/justsurfingit/korea-job-board/internal/services"
	"github.com/justsurfingit/korea-job-board/internal/store"
)

type JobHandler struct {
	Store      *store.Store
	LLMService *services.LLMService
}

func NewJobHandler(s *store.Store, llm *services.LLMService) *JobHandler {
	return &JobHandler{Store: s, LLMService: llm}
}

// ListJobs is GET /jobs. Filtering never touches the store's own view.
func (h *JobHandler) ListJobs(c *gin.Context) {
	var q dtos.JobQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}
	jobs := store.FilterJobs(h.Store.Jobs(), q.Criteria())
	c.JSON(http.StatusOK, gin.H{"data": jobs, "count": len(jobs)})
}

func (h *JobHandler) GetJob(c *gin.Context) {
	job, ok := h.Store.GetJobByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	job, err := h.Store.AddJob(c.Request.Context(), req.Fields())
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": "Failed to create job: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, job)
}

// UpdateJob is PUT /jobs/:id, a full replacement. The posted date is kept.
func (h *JobHandler) UpdateJob(c *gin.Context) {
	existing, ok := h.Store.GetJobByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	var req dtos.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	job := models.Job{ID: existing.ID, PostedDate: existing.PostedDate, JobFields: req.Fields()}
	if err := h.Store.UpdateJob(c.Request.Context(), job); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": "Failed to update job: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.Store.GetJobByID(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	if err := h.Store.DeleteJob(c.Request.Context(), id); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": "Failed to delete job: " + err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// ParseJob is POST /jobs/extract. It returns a draft for the employer to check; nothing
// is saved.
func (h *JobHandler) ParseJob(c *gin.Context) {
	var req dtos.JobExtractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	draft, err := h.LLMService.ExtractJobDraft(c.Request.Context(), req.RawHTML)
	if errors.Is(err, services.ErrExtractionDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI Extraction failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    draft,
	})
}
