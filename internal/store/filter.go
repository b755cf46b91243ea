package store

import (
	"cmp"
	"slices"
	"strings"

	"github.com/justsurfingit/korea-job-board/internal/models"
)

type SortOrder string

const (
	SortNewest     SortOrder = "newest"
	SortDeadline   SortOrder = "deadline"
	SortSalaryHigh SortOrder = "salary-high"
	SortSalaryLow  SortOrder = "salary-low"
)

// Criteria selects and orders the jobs shown on the listing page. Zero values mean
// "no constraint".
type Criteria struct {
	Search                string
	Location              models.Location
	Category              models.Category
	Type                  models.JobType
	Countries             []models.Country
	VisaSponsorship       bool
	AccommodationProvided bool
	Sort                  SortOrder
}

// IsZero reports whether c neither filters nor sorts.
func (c Criteria) IsZero() bool {
	return c.Search == "" && c.Location == "" && c.Category == "" && c.Type == "" &&
		len(c.Countries) == 0 && !c.VisaSponsorship && !c.AccommodationProvided && c.Sort == ""
}

// Match reports whether job passes every filter in c.
func (c Criteria) Match(job models.Job) bool {
	if c.Search != "" {
		term := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(job.Title), term) &&
			!strings.Contains(strings.ToLower(job.Company), term) &&
			!strings.Contains(strings.ToLower(job.Description), term) {
			return false
		}
	}
	if c.Location != "" && job.Location != c.Location {
		return false
	}
	if c.Category != "" && job.Category != c.Category {
		return false
	}
	if c.Type != "" && job.Type != c.Type {
		return false
	}
	if len(c.Countries) > 0 && !slices.ContainsFunc(job.EligibleCountries, func(country models.Country) bool {
		return slices.Contains(c.Countries, country)
	}) {
		return false
	}
	if c.VisaSponsorship && !job.VisaSponsorship {
		return false
	}
	if c.AccommodationProvided && !job.AccommodationProvided {
		return false
	}
	return true
}

// FilterJobs returns the jobs matching c in the order c asks for. The input slice is not
// modified. Sorting is stable, so ties keep their input order.
func FilterJobs(jobs []models.Job, c Criteria) []models.Job {
	out := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if c.Match(job) {
			out = append(out, job.Clone())
		}
	}
	SortJobs(out, c.Sort)
	return out
}

// SortJobs orders jobs in place. An empty or unknown order leaves them as they are.
func SortJobs(jobs []models.Job, order SortOrder) {
	switch order {
	case SortNewest:
		slices.SortStableFunc(jobs, func(a, b models.Job) int {
			return b.PostedDate.Compare(a.PostedDate)
		})
	case SortDeadline:
		slices.SortStableFunc(jobs, func(a, b models.Job) int {
			return a.ApplicationDeadline.Compare(b.ApplicationDeadline)
		})
	case SortSalaryHigh:
		slices.SortStableFunc(jobs, func(a, b models.Job) int {
			return cmp.Compare(b.Salary.Max, a.Salary.Max)
		})
	case SortSalaryLow:
		slices.SortStableFunc(jobs, func(a, b models.Job) int {
			return cmp.Compare(a.Salary.Min, b.Salary.Min)
		})
	}
}

// FilterApplications narrows applications to one job and/or one status, as the
// employer dashboard does. Empty arguments match everything.
func FilterApplications(apps []models.Application, jobID string, status models.ApplicationStatus) []models.Application {
	out := make([]models.Application, 0, len(apps))
	for _, app := range apps {
		if jobID != "" && app.JobID != jobID {
			continue
		}
		if status != "" && app.Status != status {
			continue
		}
		out = append(out, app.Clone())
	}
	return out
}

// Stats is the dashboard summary of all applications.
type Stats struct {
	Total     int                              `json:"total"`
	ByStatus  map[models.ApplicationStatus]int `json:"byStatus"`
	ByCountry map[models.Country]int           `json:"byCountry"`
}

func ComputeStats(apps []models.Application) Stats {
	st := Stats{
		Total:     len(apps),
		ByStatus:  make(map[models.ApplicationStatus]int, len(models.Statuses)),
		ByCountry: make(map[models.Country]int),
	}
	for _, s := range models.Statuses {
		st.ByStatus[s] = 0
	}
	for _, app := range apps {
		st.ByStatus[app.Status]++
		if app.Country != "" {
			st.ByCountry[app.Country]++
		}
	}
	return st
}
