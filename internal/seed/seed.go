// Package seed holds the sample postings and applications the board ships with.
package seed

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/justsurfingit/korea-job-board/internal/models"
)

//go:embed seed.yaml
var seedYAML []byte

const dateLayout = "2006-01-02"

type file struct {
	Jobs         []job         `yaml:"jobs"`
	Applications []application `yaml:"applications"`
}

type job struct {
	Ref                   string           `yaml:"ref"`
	Title                 string           `yaml:"title"`
	Company               string           `yaml:"company"`
	Logo                  string           `yaml:"logo"`
	Location              string           `yaml:"location"`
	Category              string           `yaml:"category"`
	Type                  string           `yaml:"type"`
	ExperienceLevel       string           `yaml:"experience_level"`
	Salary                models.Salary    `yaml:"salary"`
	Description           string           `yaml:"description"`
	Requirements          []string         `yaml:"requirements"`
	Benefits              []string         `yaml:"benefits"`
	ApplicationDeadline   string           `yaml:"application_deadline"`
	PostedDate            string           `yaml:"posted_date"`
	EligibleCountries     []models.Country `yaml:"eligible_countries"`
	ContactEmail          string           `yaml:"contact_email"`
	VisaSponsorship       bool             `yaml:"visa_sponsorship"`
	AccommodationProvided bool             `yaml:"accommodation_provided"`
	LanguageRequirements  *struct {
		Korean  string `yaml:"korean"`
		English string `yaml:"english"`
	} `yaml:"language_requirements"`
}

type application struct {
	Ref                string              `yaml:"ref"`
	JobRef             string              `yaml:"job_ref"`
	UserID             string              `yaml:"user_id"`
	Status             string              `yaml:"status"`
	AppliedDate        string              `yaml:"applied_date"`
	Resume             string              `yaml:"resume"`
	CoverLetter        string              `yaml:"cover_letter"`
	Name               string              `yaml:"name"`
	Email              string              `yaml:"email"`
	Phone              string              `yaml:"phone"`
	Country            models.Country      `yaml:"country"`
	PassportNumber     string              `yaml:"passport_number"`
	CurrentlyInKorea   bool                `yaml:"currently_in_korea"`
	PreviousExperience []models.Experience `yaml:"previous_experience"`
	Education          []models.Education  `yaml:"education"`
	Languages          []models.Language   `yaml:"languages"`
	Documents          []models.Document   `yaml:"documents"`
	Notes              string              `yaml:"notes"`
}

func load() (*file, error) {
	var f file
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &f, nil
}

// Jobs returns the sample postings. Their ids are the seed refs ("1".."5"), which only
// identify them within the seed file.
func Jobs() ([]models.Job, error) {
	f, err := load()
	if err != nil {
		return nil, err
	}

	jobs := make([]models.Job, 0, len(f.Jobs))
	for _, j := range f.Jobs {
		deadline, err := time.Parse(dateLayout, j.ApplicationDeadline)
		if err != nil {
			return nil, fmt.Errorf("job %s: deadline: %w", j.Ref, err)
		}
		posted, err := time.Parse(dateLayout, j.PostedDate)
		if err != nil {
			return nil, fmt.Errorf("job %s: posted date: %w", j.Ref, err)
		}

		out := models.Job{
			ID:         j.Ref,
			PostedDate: posted,
			JobFields: models.JobFields{
				Title:                 j.Title,
				Company:               j.Company,
				Logo:                  j.Logo,
				Location:              models.Location(j.Location),
				Category:              models.Category(j.Category),
				Type:                  models.JobType(j.Type),
				ExperienceLevel:       models.ExperienceLevel(j.ExperienceLevel),
				Salary:                j.Salary,
				Description:           j.Description,
				Requirements:          j.Requirements,
				Benefits:              j.Benefits,
				ApplicationDeadline:   deadline,
				EligibleCountries:     j.EligibleCountries,
				ContactEmail:          j.ContactEmail,
				VisaSponsorship:       j.VisaSponsorship,
				AccommodationProvided: j.AccommodationProvided,
			},
		}
		if lr := j.LanguageRequirements; lr != nil {
			out.LanguageRequirements = &models.LanguageRequirements{Korean: lr.Korean, English: lr.English}
		}
		jobs = append(jobs, out)
	}
	return jobs, nil
}

// Applications returns the sample applications. JobID holds the seed ref of the job.
func Applications() ([]models.Application, error) {
	f, err := load()
	if err != nil {
		return nil, err
	}

	apps := make([]models.Application, 0, len(f.Applications))
	for _, a := range f.Applications {
		applied, err := time.Parse(dateLayout, a.AppliedDate)
		if err != nil {
			return nil, fmt.Errorf("application %s: applied date: %w", a.Ref, err)
		}
		status := models.ApplicationStatus(a.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("application %s: unknown status %q", a.Ref, a.Status)
		}

		apps = append(apps, models.Application{
			ID:          a.Ref,
			Status:      status,
			AppliedDate: applied,
			ApplicationFields: models.ApplicationFields{
				JobID:              a.JobRef,
				UserID:             a.UserID,
				Resume:             a.Resume,
				CoverLetter:        a.CoverLetter,
				Name:               a.Name,
				Email:              a.Email,
				Phone:              a.Phone,
				Country:            a.Country,
				PassportNumber:     a.PassportNumber,
				CurrentlyInKorea:   a.CurrentlyInKorea,
				PreviousExperience: a.PreviousExperience,
				Education:          a.Education,
				Languages:          a.Languages,
				Documents:          a.Documents,
				Notes:              a.Notes,
			},
		})
	}
	return apps, nil
}
