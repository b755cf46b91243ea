package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/korea-job-board/internal/models"
	"github.com/justsurfingit/korea-job-board/internal/seed"
	"github.com/justsurfingit/korea-job-board/internal/store"
)

func seedJobs(t *testing.T) []models.Job {
	t.Helper()
	jobs, err := seed.Jobs()
	require.NoError(t, err)
	return jobs
}

func ids(jobs []models.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestFilterJobs(t *testing.T) {
	jobs := seedJobs(t)

	tests := []struct {
		name     string
		criteria store.Criteria
		want     []string
	}{
		{"no criteria keeps everything in order", store.Criteria{}, []string{"1", "2", "3", "4", "5"}},
		{"busan", store.Criteria{Location: models.LocationBusan}, []string{"1", "5"}},
		{"title substring matches one job", store.Criteria{Search: "Housekeeper"}, []string{"5"}},
		{"search is case insensitive", store.Criteria{Search: "lg cns"}, []string{"3"}},
		{"search looks at descriptions", store.Criteria{Search: "citrus"}, []string{"4"}},
		{"category", store.Criteria{Category: models.CategoryConstruction}, []string{"2"}},
		{"type", store.Criteria{Type: models.JobTypeFullTime}, []string{"1", "3", "5"}},
		{"countries intersect", store.Criteria{Countries: []models.Country{models.CountryNepal, models.CountryIndia}}, []string{"2", "3", "4"}},
		{"accommodation required", store.Criteria{AccommodationProvided: true}, []string{"1", "2", "4", "5"}},
		{"visa and location", store.Criteria{VisaSponsorship: true, Location: models.LocationSeoul}, []string{"2", "3"}},
		{"nothing matches", store.Criteria{Location: models.LocationUlsan}, []string{}},
		{"newest first", store.Criteria{Sort: store.SortNewest}, []string{"1", "5", "2", "3", "4"}},
		{"deadline soonest first", store.Criteria{Sort: store.SortDeadline}, []string{"4", "2", "3", "5", "1"}},
		{"highest salary first", store.Criteria{Sort: store.SortSalaryHigh}, []string{"3", "2", "1", "5", "4"}},
		{"lowest salary first", store.Criteria{Sort: store.SortSalaryLow}, []string{"4", "5", "1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.FilterJobs(jobs, tt.criteria)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterJobsDoesNotTouchInput(t *testing.T) {
	jobs := seedJobs(t)

	_ = store.FilterJobs(jobs, store.Criteria{Sort: store.SortSalaryHigh})
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(jobs))
}

func TestSortIsStable(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(id string, max int64) models.Job {
		return models.Job{ID: id, PostedDate: base, JobFields: models.JobFields{
			Salary:              models.Salary{Min: 1, Max: max},
			ApplicationDeadline: base,
		}}
	}
	jobs := []models.Job{mk("a", 100), mk("b", 300), mk("c", 100), mk("d", 300), mk("e", 200)}

	high := store.FilterJobs(jobs, store.Criteria{Sort: store.SortSalaryHigh})
	assert.Equal(t, []string{"b", "d", "e", "a", "c"}, ids(high))

	newest := store.FilterJobs(jobs, store.Criteria{Sort: store.SortNewest})
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(newest))
}

func TestCriteriaIsZero(t *testing.T) {
	assert.True(t, store.Criteria{}.IsZero())
	assert.False(t, store.Criteria{Sort: store.SortNewest}.IsZero())
	assert.False(t, store.Criteria{Countries: []models.Country{models.CountryNepal}}.IsZero())
}

func TestFilterApplications(t *testing.T) {
	apps, err := seed.Applications()
	require.NoError(t, err)

	assert.Len(t, store.FilterApplications(apps, "", ""), 2)
	assert.Len(t, store.FilterApplications(apps, "1", ""), 2)
	assert.Empty(t, store.FilterApplications(apps, "2", ""))

	pending := store.FilterApplications(apps, "1", models.StatusPending)
	require.Len(t, pending, 1)
	assert.Equal(t, "Nguyen Van Minh", pending[0].Name)
}
