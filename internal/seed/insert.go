package seed

import (
	"context"
	"fmt"

	"github.com/justsurfingit/korea-job-board/internal/models"
	"github.com/justsurfingit/korea-job-board/internal/store"
)

// Result counts what Insert wrote.
type Result struct {
	Jobs         int
	Applications int
}

// Insert writes the sample postings and applications through s. Applications are
// re-pointed at the ids the backend gave their jobs, then moved to their sample status.
// progress, if set, is called once per record written.
func Insert(ctx context.Context, s *store.Store, progress func()) (Result, error) {
	var res Result
	step := func() {
		if progress != nil {
			progress()
		}
	}

	jobs, err := Jobs()
	if err != nil {
		return res, err
	}
	apps, err := Applications()
	if err != nil {
		return res, err
	}

	ids := make(map[string]string, len(jobs))
	for _, j := range jobs {
		created, err := s.AddJob(ctx, j.JobFields)
		if err != nil {
			return res, fmt.Errorf("job %s: %w", j.ID, err)
		}
		ids[j.ID] = created.ID
		res.Jobs++
		step()
	}

	for _, a := range apps {
		jobID, ok := ids[a.JobID]
		if !ok {
			return res, fmt.Errorf("application %s: unknown job ref %q", a.ID, a.JobID)
		}
		fields := a.ApplicationFields
		fields.JobID = jobID
		created, err := s.AddApplication(ctx, fields)
		if err != nil {
			return res, fmt.Errorf("application %s: %w", a.ID, err)
		}
		if a.Status != models.StatusPending {
			if err := s.UpdateApplicationStatus(ctx, created.ID, a.Status); err != nil {
				return res, fmt.Errorf("application %s: %w", a.ID, err)
			}
		}
		res.Applications++
		step()
	}
	return res, nil
}

// Total is the number of records Insert writes.
func Total() (int, error) {
	f, err := load()
	if err != nil {
		return 0, err
	}
	return len(f.Jobs) + len(f.Applications), nil
}
