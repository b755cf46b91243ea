package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/justsurfingit/korea-job-board/internal/cache"
	"github.com/justsurfingit/korea-job-board/internal/models"
	"github.com/justsurfingit/korea-job-board/internal/seed"
	"github.com/justsurfingit/korea-job-board/internal/store"
	"github.com/justsurfingit/korea-job-board/internal/store/storemock"
)

func setup(t *testing.T) (*cache.JobSource, *storemock.MockSource, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := cache.NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	src := storemock.NewMockSource(gomock.NewController(t))
	return cache.NewJobSource(src, client, time.Minute), src, mr
}

func TestListJobsReadsThrough(t *testing.T) {
	c, src, mr := setup(t)
	jobs, err := seed.Jobs()
	require.NoError(t, err)

	src.EXPECT().ListJobs(gomock.Any()).Return(jobs, nil).Times(1)

	first, err := c.ListJobs(context.Background())
	require.NoError(t, err)
	assert.True(t, mr.Exists("jobs:all"))

	second, err := c.ListJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, jobs, second)
}

func TestListJobsExpires(t *testing.T) {
	c, src, mr := setup(t)

	src.EXPECT().ListJobs(gomock.Any()).Return([]models.Job{{ID: "1"}}, nil).Times(2)

	_, err := c.ListJobs(context.Background())
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = c.ListJobs(context.Background())
	require.NoError(t, err)
}

func TestJobWritesInvalidate(t *testing.T) {
	c, src, mr := setup(t)
	ctx := context.Background()

	src.EXPECT().ListJobs(gomock.Any()).Return([]models.Job{{ID: "1"}}, nil).Times(4)
	src.EXPECT().InsertJob(gomock.Any(), gomock.Any()).Return(models.Job{ID: "2"}, nil)
	src.EXPECT().UpdateJob(gomock.Any(), gomock.Any()).Return(nil)
	src.EXPECT().DeleteJob(gomock.Any(), "2").Return(nil)

	writes := []func() error{
		func() error { _, err := c.InsertJob(ctx, models.JobFields{Title: "New"}); return err },
		func() error { return c.UpdateJob(ctx, models.Job{ID: "2"}) },
		func() error { return c.DeleteJob(ctx, "2") },
	}

	_, err := c.ListJobs(ctx)
	require.NoError(t, err)
	for _, write := range writes {
		require.True(t, mr.Exists("jobs:all"))
		require.NoError(t, write())
		assert.False(t, mr.Exists("jobs:all"))
		_, err := c.ListJobs(ctx)
		require.NoError(t, err)
	}
}

func TestListingReadBeforeWriteIsNotCached(t *testing.T) {
	c, src, mr := setup(t)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	gomock.InOrder(
		src.EXPECT().ListJobs(gomock.Any()).DoAndReturn(func(context.Context) ([]models.Job, error) {
			close(entered)
			<-release
			return []models.Job{{ID: "1"}}, nil
		}),
		src.EXPECT().ListJobs(gomock.Any()).Return([]models.Job{{ID: "1"}, {ID: "2"}}, nil),
	)
	src.EXPECT().InsertJob(gomock.Any(), gomock.Any()).Return(models.Job{ID: "2"}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := c.ListJobs(ctx)
		done <- err
	}()
	<-entered

	_, err := c.InsertJob(ctx, models.JobFields{Title: "New"})
	require.NoError(t, err)
	close(release)
	require.NoError(t, <-done)
	assert.False(t, mr.Exists("jobs:all"), "a listing read before the insert must not be cached")

	jobs, err := c.ListJobs(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.True(t, mr.Exists("jobs:all"))
}

func TestStoreKeepsJobAddedDuringCachedLoad(t *testing.T) {
	c, src, mr := setup(t)
	ctx := context.Background()
	s := store.New(c)

	entered := make(chan struct{})
	release := make(chan struct{})
	gomock.InOrder(
		src.EXPECT().ListJobs(gomock.Any()).DoAndReturn(func(context.Context) ([]models.Job, error) {
			close(entered)
			<-release
			return []models.Job{{ID: "1"}}, nil
		}),
		src.EXPECT().ListJobs(gomock.Any()).Return([]models.Job{{ID: "1"}, {ID: "2"}}, nil),
	)
	src.EXPECT().ListApplications(gomock.Any()).Return(nil, nil).Times(3)
	src.EXPECT().InsertJob(gomock.Any(), gomock.Any()).Return(models.Job{ID: "2"}, nil)

	done := make(chan error, 1)
	go func() { done <- s.LoadAll(ctx) }()
	<-entered

	_, err := s.AddJob(ctx, models.JobFields{Title: "New"})
	require.NoError(t, err)
	close(release)
	require.NoError(t, <-done)

	_, ok := s.GetJobByID("2")
	assert.True(t, ok)

	// Served from the cache this time.
	require.NoError(t, s.LoadAll(ctx))
	_, ok = s.GetJobByID("2")
	assert.True(t, ok)
	assert.Len(t, s.Jobs(), 2)
	assert.True(t, mr.Exists("jobs:all"))
}

func TestNonPositiveTTLUsesDefault(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	src := storemock.NewMockSource(gomock.NewController(t))
	c := cache.NewJobSource(src, client, 0)

	src.EXPECT().ListJobs(gomock.Any()).Return([]models.Job{{ID: "1"}}, nil)

	_, err := c.ListJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, mr.TTL("jobs:all"))
}

func TestFailedWriteKeepsCache(t *testing.T) {
	c, src, mr := setup(t)
	ctx := context.Background()

	src.EXPECT().ListJobs(gomock.Any()).Return([]models.Job{{ID: "1"}}, nil)
	src.EXPECT().DeleteJob(gomock.Any(), "1").Return(errors.New("boom"))

	_, err := c.ListJobs(ctx)
	require.NoError(t, err)
	require.Error(t, c.DeleteJob(ctx, "1"))
	assert.True(t, mr.Exists("jobs:all"))
}

func TestRedisDownFallsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	src := storemock.NewMockSource(gomock.NewController(t))
	c := cache.NewJobSource(src, client, time.Minute)
	mr.Close()

	src.EXPECT().ListJobs(gomock.Any()).Return([]models.Job{{ID: "1"}}, nil)

	jobs, err := c.ListJobs(context.Background())
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestApplicationsPassThrough(t *testing.T) {
	c, src, _ := setup(t)

	src.EXPECT().UpdateApplicationStatus(gomock.Any(), "a1", models.StatusApproved).Return(nil)
	require.NoError(t, c.UpdateApplicationStatus(context.Background(), "a1", models.StatusApproved))
}

func TestNewRedisClientRejectsUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := cache.NewRedisClient(context.Background(), "redis://"+addr)
	assert.Error(t, err)
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := cache.NewRedisClient(context.Background(), "http://localhost:6379")
	assert.Error(t, err)
}
