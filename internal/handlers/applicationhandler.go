package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/korea-job-board/internal/dtos"
	"github.com/justsurfingit/korea-job-board/internal/models"
	"github.com/justsurfingit/korea-job-board/internal/store"
)

type ApplicationHandler struct {
	Store *store.Store
}

func NewApplicationHandler(s *store.Store) *ApplicationHandler {
	return &ApplicationHandler{Store: s}
}

// Apply is POST /jobs/:id/applications. Whatever status the body carries is ignored;
// new applications are always Pending.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	job, ok := h.Store.GetJobByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	var req dtos.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	if !job.AcceptsCountry(req.Country) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Applicants from " + string(req.Country) + " are not eligible for this job"})
		return
	}
	app, err := h.Store.AddApplication(c.Request.Context(), req.Fields(job.ID))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": "Failed to submit application: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.Store.GetJobByID(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	apps := h.Store.GetApplicationsForJob(id)
	c.JSON(http.StatusOK, gin.H{"data": apps, "count": len(apps)})
}

// List is the employer dashboard query, GET /applications?jobId=&status=.
func (h *ApplicationHandler) List(c *gin.Context) {
	var q dtos.ApplicationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}
	apps := store.FilterApplications(h.Store.Applications(), q.JobID, q.Status)
	c.JSON(http.StatusOK, gin.H{"data": apps, "count": len(apps)})
}

func (h *ApplicationHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Stats())
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if !slices.ContainsFunc(h.Store.Applications(), func(a models.Application) bool { return a.ID == id }) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	var req dtos.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	if err := h.Store.UpdateApplicationStatus(c.Request.Context(), id, req.Status); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": "Failed to update status: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}
