package dtos

import (
	"strings"
	"time"

	"github.com/justsurfingit/korea-job-board/internal/models"
	"github.com/justsurfingit/korea-job-board/internal/store"
)

const DateLayout = "2006-01-02"

type JobExtractionRequest struct {
	RawHTML string `json:"raw_html" binding:"required"`
	URL     string `json:"url" binding:"omitempty,url"`
}

type SalaryRequest struct {
	Min      int64  `json:"min" binding:"gte=0"`
	Max      int64  `json:"max" binding:"gtefield=Min"`
	Currency string `json:"currency" binding:"omitempty,len=3,alpha"`
}

type LanguageRequirementsRequest struct {
	Korean  string `json:"korean" binding:"max=100"`
	English string `json:"english" binding:"max=100"`
}

// JobRequest is the body of POST /jobs and PUT /jobs/:id.
type JobRequest struct {
	Title                 string                       `json:"title" binding:"required,max=200"`
	Company               string                       `json:"company" binding:"required,max=200"`
	Logo                  string                       `json:"logo" binding:"omitempty,url"`
	Location              models.Location              `json:"location" binding:"required,location"`
	Category              models.Category              `json:"category" binding:"required,category"`
	Type                  models.JobType               `json:"type" binding:"required,jobtype"`
	ExperienceLevel       models.ExperienceLevel       `json:"experienceLevel" binding:"required,experience"`
	Salary                SalaryRequest                `json:"salary"`
	Description           string                       `json:"description" binding:"required"`
	Requirements          []string                     `json:"requirements" binding:"dive,required,max=500"`
	Benefits              []string                     `json:"benefits" binding:"dive,required,max=500"`
	ApplicationDeadline   string                       `json:"applicationDeadline" binding:"required,datetime=2006-01-02"`
	EligibleCountries     []models.Country             `json:"eligibleCountries" binding:"required,min=1,dive,country"`
	ContactEmail          string                       `json:"contactEmail" binding:"required,email"`
	VisaSponsorship       bool                         `json:"visaSponsorship"`
	AccommodationProvided bool                         `json:"accommodationProvided"`
	LanguageRequirements  *LanguageRequirementsRequest `json:"languageRequirements"`
}

// Fields converts a bound request into posting fields with free text stripped of markup.
func (r *JobRequest) Fields() models.JobFields {
	deadline, _ := time.Parse(DateLayout, r.ApplicationDeadline)
	currency := strings.ToUpper(r.Salary.Currency)
	if currency == "" {
		currency = models.DefaultCurrency
	}
	f := models.JobFields{
		Title:                 Sanitize(r.Title),
		Company:               Sanitize(r.Company),
		Logo:                  r.Logo,
		Location:              r.Location,
		Category:              r.Category,
		Type:                  r.Type,
		ExperienceLevel:       r.ExperienceLevel,
		Salary:                models.Salary{Min: r.Salary.Min, Max: r.Salary.Max, Currency: currency},
		Description:           Sanitize(r.Description),
		Requirements:          SanitizeAll(r.Requirements),
		Benefits:              SanitizeAll(r.Benefits),
		ApplicationDeadline:   deadline,
		EligibleCountries:     append([]models.Country(nil), r.EligibleCountries...),
		ContactEmail:          r.ContactEmail,
		VisaSponsorship:       r.VisaSponsorship,
		AccommodationProvided: r.AccommodationProvided,
	}
	if lr := r.LanguageRequirements; lr != nil && (lr.Korean != "" || lr.English != "") {
		f.LanguageRequirements = &models.LanguageRequirements{
			Korean:  Sanitize(lr.Korean),
			English: Sanitize(lr.English),
		}
	}
	return f
}

// JobQuery is the query string of GET /jobs. countries is a comma separated list.
type JobQuery struct {
	Search        string          `form:"search" binding:"max=200"`
	Location      models.Location `form:"location" binding:"omitempty,location"`
	Category      models.Category `form:"category" binding:"omitempty,category"`
	Type          models.JobType  `form:"type" binding:"omitempty,jobtype"`
	Countries     string          `form:"countries" binding:"omitempty,countrylist"`
	Visa          bool            `form:"visa"`
	Accommodation bool            `form:"accommodation"`
	Sort          string          `form:"sort" binding:"omitempty,oneof=newest deadline salary-high salary-low"`
}

func (q *JobQuery) Criteria() store.Criteria {
	return store.Criteria{
		Search:                strings.TrimSpace(q.Search),
		Location:              q.Location,
		Category:              q.Category,
		Type:                  q.Type,
		Countries:             splitCountries(q.Countries),
		VisaSponsorship:       q.Visa,
		AccommodationProvided: q.Accommodation,
		Sort:                  store.SortOrder(q.Sort),
	}
}

func splitCountries(list string) []models.Country {
	var out []models.Country
	for _, part := range strings.Split(list, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, models.Country(part))
		}
	}
	return out
}

// JobDraft is what draft extraction reads out of a posting page. Values are unchecked
// suggestions; the employer still submits a JobRequest.
type JobDraft struct {
	Title             string   `json:"title"`
	Company           string   `json:"company"`
	Location          string   `json:"location"`
	Category          string   `json:"category"`
	Type              string   `json:"type"`
	ExperienceLevel   string   `json:"experienceLevel"`
	SalaryMin         *int64   `json:"salaryMin"`
	SalaryMax         *int64   `json:"salaryMax"`
	Currency          string   `json:"currency"`
	Description       string   `json:"description"`
	Requirements      []string `json:"requirements"`
	Benefits          []string `json:"benefits"`
	EligibleCountries []string `json:"eligibleCountries"`
	ContactEmail      string   `json:"contactEmail"`
	Deadline          string   `json:"applicationDeadline"`
	Visa              *bool    `json:"visaSponsorship"`
	Accommodation     *bool    `json:"accommodationProvided"`
}

// Normalize blanks enum values the board does not know and drops unknown countries so a
// draft can be loaded into the posting form as is.
func (d *JobDraft) Normalize() {
	d.Title = Sanitize(d.Title)
	d.Company = Sanitize(d.Company)
	d.Description = Sanitize(d.Description)
	d.Requirements = SanitizeAll(d.Requirements)
	d.Benefits = SanitizeAll(d.Benefits)

	if !models.Location(d.Location).Valid() {
		d.Location = ""
	}
	if !models.Category(d.Category).Valid() {
		d.Category = ""
	}
	if !models.JobType(d.Type).Valid() {
		d.Type = ""
	}
	if !models.ExperienceLevel(d.ExperienceLevel).Valid() {
		d.ExperienceLevel = ""
	}
	if _, err := time.Parse(DateLayout, d.Deadline); err != nil {
		d.Deadline = ""
	}
	countries := d.EligibleCountries[:0]
	for _, c := range d.EligibleCountries {
		if models.Country(c).Valid() {
			countries = append(countries, c)
		}
	}
	d.EligibleCountries = countries
}
