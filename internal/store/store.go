package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/justsurfingit/korea-job-board/internal/models"
)

var (
	ErrUnknownApplicationStatus = errors.New("unknown application status")
	ErrJobNotFound              = errors.New("job not found")
	ErrMissingID                = errors.New("record has no id")

	// ErrLoadSuperseded means every attempt of a load raced with a local write, so
	// nothing was replaced.
	ErrLoadSuperseded = errors.New("load superseded by concurrent writes")
)

const (
	loadTimeout  = 30 * time.Second
	loadAttempts = 2
)

// Store is the job directory shared by every consumer: the full job and application
// sets, the currently displayed subset of jobs, and the outcome of the last remote call.
// It is safe for concurrent use. Remote calls run outside the lock; their results are
// applied afterwards, and a response is dropped when a later mutation of the same record
// has already been applied.
type Store struct {
	source Source

	mu           sync.RWMutex
	jobs         []models.Job
	applications []models.Application
	filteredJobs []models.Job
	criteria     Criteria
	currentJob   *models.Job
	loading      bool
	err          string

	// seq hands out mutation tokens; applied holds, per record key, the token of the
	// newest mutation whose result reached local state.
	seq     uint64
	applied map[string]uint64
	writes  uint64

	loads singleflight.Group
}

func New(source Source) *Store {
	return &Store{
		source:       source,
		jobs:         []models.Job{},
		applications: []models.Application{},
		filteredJobs: []models.Job{},
		applied:      make(map[string]uint64),
	}
}

// Snapshot is a consistent copy of everything consumers read.
type Snapshot struct {
	Jobs         []models.Job         `json:"jobs"`
	Applications []models.Application `json:"applications"`
	FilteredJobs []models.Job         `json:"filteredJobs"`
	CurrentJob   *models.Job          `json:"currentJob"`
	Loading      bool                 `json:"loading"`
	Error        string               `json:"error,omitempty"`
}

// LoadAll replaces the local jobs and applications with the backend's. On failure the
// previous data is kept and the error is recorded. Concurrent calls share one fetch,
// which is not tied to any single caller's cancellation: a caller whose ctx ends gets
// ctx.Err() while the fetch carries on for the others.
//
// A result that raced with a local write is thrown away and the fetch is retried once;
// if that also races, ErrLoadSuperseded is returned.
func (s *Store) LoadAll(ctx context.Context) error {
	ch := s.loads.DoChan("load", func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		for range loadAttempts {
			applied, err := s.load(lctx)
			if err != nil || applied {
				return nil, err
			}
		}
		return nil, ErrLoadSuperseded
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

// load fetches both collections and applies them unless a local write landed while the
// fetch was in flight, in which case it reports applied=false.
func (s *Store) load(ctx context.Context) (applied bool, err error) {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	writesAtStart := s.writes
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	var jobs []models.Job
	var apps []models.Application
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = s.source.ListJobs(gctx)
		if err != nil {
			return fmt.Errorf("jobs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		apps, err = s.source.ListApplications(gctx)
		if err != nil {
			return fmt.Errorf("applications: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return false, s.fail("load data", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writes != writesAtStart {
		log.Warn().Msg("[store] discarding load result: local writes landed while it was in flight")
		return false, nil
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	if apps == nil {
		apps = []models.Application{}
	}
	s.jobs = jobs
	s.applications = apps
	s.filteredJobs = FilterJobs(jobs, s.criteria)
	if s.currentJob != nil {
		if i := s.indexOfJob(s.currentJob.ID); i >= 0 {
			cur := s.jobs[i].Clone()
			s.currentJob = &cur
		} else {
			s.currentJob = nil
		}
	}
	log.Info().Int("jobs", len(jobs)).Int("applications", len(apps)).Msg("[store] loaded")
	return true, nil
}

// GetJobByID looks a job up in memory only.
func (s *Store) GetJobByID(id string) (models.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOfJob(id); i >= 0 {
		return s.jobs[i].Clone(), true
	}
	return models.Job{}, false
}

// GetApplicationsForJob returns the applications for jobID in their stored order.
func (s *Store) GetApplicationsForJob(jobID string) []models.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterApplications(s.applications, jobID, "")
}

// AddJob creates a posting. The returned job carries the backend's id and posted date
// and is appended to both the full and the displayed job lists.
func (s *Store) AddJob(ctx context.Context, fields models.JobFields) (models.Job, error) {
	job, err := s.source.InsertJob(ctx, fields)
	if err != nil {
		return models.Job{}, s.fail("add job", err)
	}
	if job.ID == "" {
		return models.Job{}, s.fail("add job", ErrMissingID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job.Clone())
	s.filteredJobs = append(s.filteredJobs, job.Clone())
	s.writes++
	return job, nil
}

// UpdateJob replaces the stored posting with the same id.
func (s *Store) UpdateJob(ctx context.Context, job models.Job) error {
	if job.ID == "" {
		return s.fail("update job", ErrMissingID)
	}
	key := jobKey(job.ID)
	token := s.begin()
	if err := s.source.UpdateJob(ctx, job); err != nil {
		return s.fail("update job", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.claim(key, token) {
		log.Debug().Str("job_id", job.ID).Msg("[store] dropping superseded job update")
		return nil
	}
	replace := func(list []models.Job) {
		for i := range list {
			if list[i].ID == job.ID {
				list[i] = job.Clone()
			}
		}
	}
	replace(s.jobs)
	replace(s.filteredJobs)
	if s.currentJob != nil && s.currentJob.ID == job.ID {
		cur := job.Clone()
		s.currentJob = &cur
	}
	return nil
}

// DeleteJob removes a posting. Applications that reference it are kept.
func (s *Store) DeleteJob(ctx context.Context, id string) error {
	if id == "" {
		return s.fail("delete job", ErrMissingID)
	}
	token := s.begin()
	if err := s.source.DeleteJob(ctx, id); err != nil {
		return s.fail("delete job", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied[jobKey(id)] = token
	s.writes++
	isTarget := func(j models.Job) bool { return j.ID == id }
	s.jobs = slices.DeleteFunc(s.jobs, isTarget)
	s.filteredJobs = slices.DeleteFunc(s.filteredJobs, isTarget)
	if s.currentJob != nil && s.currentJob.ID == id {
		s.currentJob = nil
	}
	return nil
}

// AddApplication submits an application for an existing job. Every new application
// starts as Pending.
func (s *Store) AddApplication(ctx context.Context, fields models.ApplicationFields) (models.Application, error) {
	if _, ok := s.GetJobByID(fields.JobID); !ok {
		return models.Application{}, s.fail("add application", fmt.Errorf("%w: %q", ErrJobNotFound, fields.JobID))
	}

	app, err := s.source.InsertApplication(ctx, models.Application{
		Status:            models.StatusPending,
		ApplicationFields: fields,
	})
	if err != nil {
		return models.Application{}, s.fail("add application", err)
	}
	if app.ID == "" {
		return models.Application{}, s.fail("add application", ErrMissingID)
	}
	app.Status = models.StatusPending

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applications = append(s.applications, app.Clone())
	s.writes++
	return app, nil
}

// UpdateApplicationStatus moves an application to status. Only the status changes.
func (s *Store) UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	if !status.Valid() {
		return s.fail("update application status", fmt.Errorf("%w: %q", ErrUnknownApplicationStatus, status))
	}
	key := applicationKey(id)
	token := s.begin()
	if err := s.source.UpdateApplicationStatus(ctx, id, status); err != nil {
		return s.fail("update application status", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.claim(key, token) {
		log.Debug().Str("application_id", id).Msg("[store] dropping superseded status update")
		return nil
	}
	for i := range s.applications {
		if s.applications[i].ID == id {
			s.applications[i].Status = status
		}
	}
	return nil
}

// SetFilteredJobs replaces the displayed subset directly.
func (s *Store) SetFilteredJobs(jobs []models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filteredJobs = cloneJobs(jobs)
}

// ApplyFilter recomputes the displayed subset from the full job set and remembers c so
// later loads keep the same view.
func (s *Store) ApplyFilter(c Criteria) []models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = c
	s.filteredJobs = FilterJobs(s.jobs, c)
	return cloneJobs(s.filteredJobs)
}

func (s *Store) SetCurrentJob(job *models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job == nil {
		s.currentJob = nil
		return
	}
	cur := job.Clone()
	s.currentJob = &cur
}

func (s *Store) CurrentJob() (models.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentJob == nil {
		return models.Job{}, false
	}
	return s.currentJob.Clone(), true
}

func (s *Store) Jobs() []models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneJobs(s.jobs)
}

func (s *Store) FilteredJobs() []models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneJobs(s.filteredJobs)
}

func (s *Store) Applications() []models.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterApplications(s.applications, "", "")
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the message of the last failed remote call, or "" if there is none.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeStats(s.applications)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Jobs:         cloneJobs(s.jobs),
		Applications: FilterApplications(s.applications, "", ""),
		FilteredJobs: cloneJobs(s.filteredJobs),
		Loading:      s.loading,
		Error:        s.err,
	}
	if s.currentJob != nil {
		cur := s.currentJob.Clone()
		snap.CurrentJob = &cur
	}
	return snap
}

func (s *Store) fail(op string, err error) error {
	wrapped := fmt.Errorf("failed to %s: %w", op, err)
	log.Error().Err(err).Str("op", op).Msg("[store] remote call failed")
	s.mu.Lock()
	s.err = wrapped.Error()
	s.mu.Unlock()
	return wrapped
}

func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// claim records token as applied for key unless a newer mutation already was.
// Callers hold s.mu.
func (s *Store) claim(key string, token uint64) bool {
	if token < s.applied[key] {
		return false
	}
	s.applied[key] = token
	s.writes++
	return true
}

func (s *Store) indexOfJob(id string) int {
	return slices.IndexFunc(s.jobs, func(j models.Job) bool { return j.ID == id })
}

func jobKey(id string) string         { return "job:" + id }
func applicationKey(id string) string { return "application:" + id }

func cloneJobs(jobs []models.Job) []models.Job {
	out := make([]models.Job, len(jobs))
	for i, j := range jobs {
		out[i] = j.Clone()
	}
	return out
}
