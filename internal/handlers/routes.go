package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/korea-job-board/internal/database"
	"github.com/justsurfingit/korea-job-board/internal/middleware"
	"github.com/justsurfingit/korea-job-board/internal/services"
	"github.com/justsurfingit/korea-job-board/internal/store"
)

type Deps struct {
	Store        *store.Store
	LLMService   *services.LLMService
	JWTSecret    string
	ApplyLimiter *middleware.RateLimiter
}

// Register mounts every route on api, normally the /api/v1 group.
func Register(api *gin.RouterGroup, d Deps) {
	jobs := NewJobHandler(d.Store, d.LLMService)
	apps := NewApplicationHandler(d.Store)
	st := NewStoreHandler(d.Store)

	api.GET("/health", HealthCheck)
	api.GET("/store/status", st.Status)

	api.GET("/jobs", jobs.ListJobs)
	api.GET("/jobs/:id", jobs.GetJob)
	api.POST("/jobs/:id/applications", d.ApplyLimiter.Middleware(), apps.Apply)

	employer := api.Group("", middleware.RequireRole(d.JWTSecret, middleware.RoleEmployer, middleware.RoleAdmin))
	{
		employer.POST("/jobs", jobs.CreateJob)
		employer.POST("/jobs/extract", jobs.ParseJob)
		employer.PUT("/jobs/:id", jobs.UpdateJob)
		employer.DELETE("/jobs/:id", jobs.DeleteJob)
		employer.GET("/jobs/:id/applications", apps.ListForJob)

		employer.GET("/applications", apps.List)
		employer.GET("/applications/stats", apps.Stats)
		employer.PATCH("/applications/:id/status", apps.UpdateStatus)

		employer.POST("/store/reload", st.Reload)
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrJobNotFound), errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, database.ErrInvalidID), errors.Is(err, store.ErrUnknownApplicationStatus):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrLoadSuperseded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
