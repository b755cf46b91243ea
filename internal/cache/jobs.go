package cache

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/justsurfingit/korea-job-board/internal/models"
	"github.com/justsurfingit/korea-job-board/internal/store"
)

const (
	jobsKey = "jobs:all"
	genKey  = "jobs:gen"

	defaultTTL = 5 * time.Minute
)

// storeListing writes the listing only while the generation still matches the one read
// before the database query. A missing generation counts as "0".
var storeListing = redis.NewScript(`
local gen = redis.call("GET", KEYS[2]) or "0"
if gen ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// JobSource keeps the full job listing in Redis in front of another source. Job writes
// bump a generation counter and drop the cached listing, so a listing read from the
// database before a write is never cached after it. Applications pass straight through.
type JobSource struct {
	store.Source

	client *redis.Client
	ttl    time.Duration
}

var _ store.Source = (*JobSource)(nil)

// NewJobSource caches next's job listing for ttl. A non-positive ttl falls back to
// defaultTTL.
func NewJobSource(next store.Source, client *redis.Client, ttl time.Duration) *JobSource {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &JobSource{Source: next, client: client, ttl: ttl}
}

func (s *JobSource) ListJobs(ctx context.Context) ([]models.Job, error) {
	data, err := s.client.Get(ctx, jobsKey).Bytes()
	switch {
	case err == nil:
		var jobs []models.Job
		if err := json.Unmarshal(data, &jobs); err != nil {
			log.Warn().Err(err).Msg("[cache] dropping unreadable job listing")
			break
		}
		log.Debug().Int("jobs", len(jobs)).Msg("[cache] job listing hit")
		return jobs, nil
	case errors.Is(err, redis.Nil):
	default:
		log.Warn().Err(err).Msg("[cache] read failed, falling back to database")
	}

	gen, genErr := s.client.Get(ctx, genKey).Result()
	switch {
	case errors.Is(genErr, redis.Nil):
		gen, genErr = "0", nil
	case genErr != nil:
		log.Warn().Err(genErr).Msg("[cache] generation read failed, not caching this listing")
	}

	jobs, err := s.Source.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		return jobs, nil
	}

	data, err = json.Marshal(jobs)
	if err != nil {
		log.Warn().Err(err).Msg("[cache] could not encode job listing")
		return jobs, nil
	}
	stored, err := storeListing.Run(ctx, s.client, []string{jobsKey, genKey}, gen, data, s.ttl.Milliseconds()).Int()
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("[cache] write failed")
	case stored == 0:
		log.Debug().Str("generation", gen).Msg("[cache] job listing changed during read, not caching")
	}
	return jobs, nil
}

func (s *JobSource) InsertJob(ctx context.Context, fields models.JobFields) (models.Job, error) {
	job, err := s.Source.InsertJob(ctx, fields)
	if err != nil {
		return job, err
	}
	s.invalidate(ctx)
	return job, nil
}

func (s *JobSource) UpdateJob(ctx context.Context, job models.Job) error {
	if err := s.Source.UpdateJob(ctx, job); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *JobSource) DeleteJob(ctx context.Context, id string) error {
	if err := s.Source.DeleteJob(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *JobSource) invalidate(ctx context.Context) {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Del(ctx, jobsKey)
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("[cache] invalidation failed")
	}
}
