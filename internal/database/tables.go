package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justsurfingit/korea-job-board/internal/models"
	"github.com/justsurfingit/korea-job-board/internal/store"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid id")
)

// Tables reads and writes the hosted jobs and job_applications tables.
type Tables struct {
	DB *gorm.DB
}

var _ store.Source = (*Tables)(nil)

func NewTables(db *gorm.DB) *Tables {
	return &Tables{DB: db}
}

func (t *Tables) ListJobs(ctx context.Context) ([]models.Job, error) {
	var rows []JobRow
	if err := t.DB.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	jobs := make([]models.Job, len(rows))
	for i, row := range rows {
		jobs[i] = jobFromRemote(row)
	}
	return jobs, nil
}

func (t *Tables) InsertJob(ctx context.Context, fields models.JobFields) (models.Job, error) {
	row := jobToRemote(fields)
	if err := t.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Job{}, err
	}
	return jobFromRemote(row), nil
}

// UpdateJob overwrites every column of the posting. created_at is kept so the posted
// date does not move.
func (t *Tables) UpdateJob(ctx context.Context, job models.Job) error {
	id, err := parseID(job.ID)
	if err != nil {
		return err
	}
	row := jobToRemote(job.JobFields)
	row.ID = id
	res := t.DB.WithContext(ctx).Model(&JobRow{ID: id}).
		Select("*").Omit("id", "created_at", "deleted_at").
		Updates(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: job %s", ErrNotFound, job.ID)
	}
	return nil
}

func (t *Tables) DeleteJob(ctx context.Context, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	res := t.DB.WithContext(ctx).Delete(&JobRow{}, "id = ?", uid)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: job %s", ErrNotFound, id)
	}
	return nil
}

func (t *Tables) ListApplications(ctx context.Context) ([]models.Application, error) {
	var rows []ApplicationRow
	if err := t.DB.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	apps := make([]models.Application, len(rows))
	for i, row := range rows {
		apps[i] = applicationFromRemote(row)
	}
	return apps, nil
}

func (t *Tables) InsertApplication(ctx context.Context, app models.Application) (models.Application, error) {
	row, err := applicationToRemote(app)
	if err != nil {
		return models.Application{}, err
	}
	if err := t.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Application{}, err
	}
	return applicationFromRemote(row), nil
}

func (t *Tables) UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	res := t.DB.WithContext(ctx).Model(&ApplicationRow{}).
		Where("id = ?", uid).
		Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: application %s", ErrNotFound, id)
	}
	return nil
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return uid, nil
}
