package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/justsurfingit/korea-job-board/internal/models"
)

// jobToRemote maps posting fields onto table columns. id and timestamps are left for
// the database to fill in.
func jobToRemote(f models.JobFields) JobRow {
	row := JobRow{
		Title:                 f.Title,
		Company:               f.Company,
		LogoURL:               optional(f.Logo),
		Location:              string(f.Location),
		Industry:              string(f.Category),
		JobType:               optional(string(f.Type)),
		ExperienceLevel:       optional(string(f.ExperienceLevel)),
		SalaryMin:             &f.Salary.Min,
		SalaryMax:             &f.Salary.Max,
		SalaryCurrency:        optional(f.Salary.Currency),
		Description:           f.Description,
		Requirements:          pq.StringArray(nonNil(f.Requirements)),
		Benefits:              pq.StringArray(nonNil(f.Benefits)),
		EligibleCountries:     countriesToRemote(f.EligibleCountries),
		ContactEmail:          f.ContactEmail,
		VisaSponsorship:       f.VisaSponsorship,
		AccommodationProvided: f.AccommodationProvided,
	}
	if !f.ApplicationDeadline.IsZero() {
		d := dateOf(f.ApplicationDeadline)
		row.ApplicationDeadline = &d
	}
	if lr := f.LanguageRequirements; lr != nil {
		row.KoreanLevel = optional(lr.Korean)
		row.EnglishLevel = optional(lr.English)
	}
	return row
}

// jobFromRemote maps a row back onto the board's model, filling in defaults for
// columns older rows leave empty.
func jobFromRemote(row JobRow) models.Job {
	job := models.Job{
		ID:         row.ID.String(),
		PostedDate: dateOf(row.CreatedAt),
		JobFields: models.JobFields{
			Title:                 row.Title,
			Company:               row.Company,
			Logo:                  deref(row.LogoURL),
			Location:              models.Location(row.Location),
			Category:              models.Category(row.Industry),
			Type:                  models.JobType(deref(row.JobType)),
			ExperienceLevel:       models.ExperienceLevel(deref(row.ExperienceLevel)),
			Salary:                salaryFromRemote(row),
			Description:           row.Description,
			Requirements:          nonNil([]string(row.Requirements)),
			Benefits:              nonNil([]string(row.Benefits)),
			EligibleCountries:     countriesFromRemote(row.EligibleCountries),
			ContactEmail:          row.ContactEmail,
			VisaSponsorship:       row.VisaSponsorship,
			AccommodationProvided: row.AccommodationProvided,
		},
	}
	if job.Type == "" {
		job.Type = models.JobTypeFullTime
	}
	if job.ExperienceLevel == "" {
		job.ExperienceLevel = models.ExperienceEntry
	}
	if job.Category == "" {
		job.Category = models.CategoryOther
	}
	if row.ApplicationDeadline != nil {
		job.ApplicationDeadline = dateOf(*row.ApplicationDeadline)
	}
	if row.KoreanLevel != nil || row.EnglishLevel != nil {
		job.LanguageRequirements = &models.LanguageRequirements{
			Korean:  deref(row.KoreanLevel),
			English: deref(row.EnglishLevel),
		}
	}
	return job
}

func salaryFromRemote(row JobRow) models.Salary {
	s := models.Salary{Currency: models.DefaultCurrency}
	if row.SalaryMin != nil {
		s.Min = *row.SalaryMin
	}
	if row.SalaryMax != nil {
		s.Max = *row.SalaryMax
	} else {
		s.Max = s.Min
	}
	if c := deref(row.SalaryCurrency); c != "" {
		s.Currency = c
	}
	return s
}

// applicationToRemote maps an application onto table columns. The id and created_at
// are left for the database.
func applicationToRemote(app models.Application) (ApplicationRow, error) {
	jobID, err := uuid.Parse(app.JobID)
	if err != nil {
		return ApplicationRow{}, fmt.Errorf("%w: job id %q", ErrInvalidID, app.JobID)
	}
	status := app.Status
	if status == "" {
		status = models.StatusPending
	}
	return ApplicationRow{
		JobID:              jobID,
		UserID:             optional(app.UserID),
		Status:             string(status),
		ResumeURL:          app.Resume,
		CoverLetter:        optional(app.CoverLetter),
		FullName:           app.Name,
		Email:              app.Email,
		Phone:              app.Phone,
		Country:            string(app.Country),
		PassportNumber:     optional(app.PassportNumber),
		CurrentlyInKorea:   app.CurrentlyInKorea,
		PreviousExperience: app.PreviousExperience,
		Education:          app.Education,
		Languages:          nonNil(app.Languages),
		Documents:          app.Documents,
		Notes:              optional(app.Notes),
	}, nil
}

func applicationFromRemote(row ApplicationRow) models.Application {
	status := models.ApplicationStatus(row.Status)
	if status == "" {
		status = models.StatusPending
	}
	return models.Application{
		ID:          row.ID.String(),
		Status:      status,
		AppliedDate: dateOf(row.CreatedAt),
		ApplicationFields: models.ApplicationFields{
			JobID:              row.JobID.String(),
			UserID:             deref(row.UserID),
			Resume:             row.ResumeURL,
			CoverLetter:        deref(row.CoverLetter),
			Name:               row.FullName,
			Email:              row.Email,
			Phone:              row.Phone,
			Country:            models.Country(row.Country),
			PassportNumber:     deref(row.PassportNumber),
			CurrentlyInKorea:   row.CurrentlyInKorea,
			PreviousExperience: row.PreviousExperience,
			Education:          row.Education,
			Languages:          nonNil(row.Languages),
			Documents:          row.Documents,
			Notes:              deref(row.Notes),
		},
	}
}

func countriesToRemote(cs []models.Country) pq.StringArray {
	out := make(pq.StringArray, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

func countriesFromRemote(cs pq.StringArray) []models.Country {
	out := make([]models.Country, len(cs))
	for i, c := range cs {
		out[i] = models.Country(c)
	}
	return out
}

func dateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
