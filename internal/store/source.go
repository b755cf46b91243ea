package store

import (
	"context"

	"github.com/justsurfingit/korea-job-board/internal/models"
)

//go:generate mockgen -destination=storemock/mock_source.go -package=storemock . Source

// Source is the remote table service the store reads from and writes through to.
// Implementations assign ids and timestamps; the store never invents them.
type Source interface {
	ListJobs(ctx context.Context) ([]models.Job, error)
	InsertJob(ctx context.Context, fields models.JobFields) (models.Job, error)
	UpdateJob(ctx context.Context, job models.Job) error
	DeleteJob(ctx context.Context, id string) error

	ListApplications(ctx context.Context) ([]models.Application, error)
	InsertApplication(ctx context.Context, app models.Application) (models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) error
}
