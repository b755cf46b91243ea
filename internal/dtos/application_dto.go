package dtos

import (
	"github.com/justsurfingit/korea-job-board/internal/models"
)

type ExperienceRequest struct {
	Title   string `json:"title" binding:"required"`
	Company string `json:"company" binding:"required"`
	Years   int    `json:"years" binding:"gte=0,lte=60"`
}

type EducationRequest struct {
	Degree      string `json:"degree" binding:"required"`
	Institution string `json:"institution" binding:"required"`
	Year        int    `json:"year" binding:"omitempty,gte=1950,lte=2100"`
}

type LanguageRequest struct {
	Language    string `json:"language" binding:"required"`
	Proficiency string `json:"proficiency" binding:"required"`
}

type DocumentRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required,url"`
}

// ApplicationRequest is the body of POST /jobs/:id/applications. There is no status
// field: a client-sent status is dropped during binding.
type ApplicationRequest struct {
	UserID             string              `json:"userId"`
	Resume             string              `json:"resume" binding:"required,url"`
	CoverLetter        string              `json:"coverLetter" binding:"max=5000"`
	Name               string              `json:"name" binding:"required,max=200"`
	Email              string              `json:"email" binding:"required,email"`
	Phone              string              `json:"phone" binding:"required,max=40"`
	Country            models.Country      `json:"country" binding:"required,country"`
	PassportNumber     string              `json:"passportNumber" binding:"omitempty,alphanum,max=20"`
	CurrentlyInKorea   bool                `json:"currentlyInKorea"`
	PreviousExperience []ExperienceRequest `json:"previousExperience" binding:"dive"`
	Education          []EducationRequest  `json:"education" binding:"dive"`
	Languages          []LanguageRequest   `json:"languages" binding:"dive"`
	Documents          []DocumentRequest   `json:"documents" binding:"dive"`
	Notes              string              `json:"notes" binding:"max=2000"`
}

// Fields converts a bound request into an application for jobID. Uploaded documents
// always start unverified.
func (r *ApplicationRequest) Fields(jobID string) models.ApplicationFields {
	f := models.ApplicationFields{
		JobID:            jobID,
		UserID:           r.UserID,
		Resume:           r.Resume,
		CoverLetter:      Sanitize(r.CoverLetter),
		Name:             Sanitize(r.Name),
		Email:            r.Email,
		Phone:            Sanitize(r.Phone),
		Country:          r.Country,
		PassportNumber:   r.PassportNumber,
		CurrentlyInKorea: r.CurrentlyInKorea,
		Languages:        make([]models.Language, 0, len(r.Languages)),
		Notes:            Sanitize(r.Notes),
	}
	for _, e := range r.PreviousExperience {
		f.PreviousExperience = append(f.PreviousExperience, models.Experience{
			Title: Sanitize(e.Title), Company: Sanitize(e.Company), Years: e.Years,
		})
	}
	for _, e := range r.Education {
		f.Education = append(f.Education, models.Education{
			Degree: Sanitize(e.Degree), Institution: Sanitize(e.Institution), Year: e.Year,
		})
	}
	for _, l := range r.Languages {
		f.Languages = append(f.Languages, models.Language{
			Language: Sanitize(l.Language), Proficiency: Sanitize(l.Proficiency),
		})
	}
	for _, d := range r.Documents {
		f.Documents = append(f.Documents, models.Document{Name: Sanitize(d.Name), URL: d.URL})
	}
	return f
}

type StatusUpdateRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required,appstatus"`
}

type ApplicationQuery struct {
	JobID  string                   `form:"jobId"`
	Status models.ApplicationStatus `form:"status" binding:"omitempty,appstatus"`
}
