package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
)

type Location string

const (
	LocationBusan   Location = "Busan"
	LocationSeoul   Location = "Seoul"
	LocationIncheon Location = "Incheon"
	LocationDaegu   Location = "Daegu"
	LocationDaejeon Location = "Daejeon"
	LocationGwangju Location = "Gwangju"
	LocationUlsan   Location = "Ulsan"
	LocationSejong  Location = "Sejong"
	LocationJeju    Location = "Jeju"
	LocationRemote  Location = "Remote"
)

type Category string

const (
	CategoryManufacturing Category = "Manufacturing"
	CategoryConstruction  Category = "Construction"
	CategoryAgriculture   Category = "Agriculture"
	CategoryFishing       Category = "Fishing"
	CategoryService       Category = "Service Industry"
	CategoryIT            Category = "IT & Technology"
	CategoryHealthcare    Category = "Healthcare"
	CategoryHospitality   Category = "Hospitality"
	CategoryEducation     Category = "Education"
	CategoryOther         Category = "Other"
)

type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeTemporary  JobType = "Temporary"
	JobTypeSeasonal   JobType = "Seasonal"
	JobTypeInternship JobType = "Internship"
)

type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "Entry Level"
	ExperienceMid    ExperienceLevel = "Mid Level"
	ExperienceSenior ExperienceLevel = "Senior Level"
)

type Country string

const (
	CountryPakistan    Country = "Pakistan"
	CountryVietnam     Country = "Vietnam"
	CountryPhilippines Country = "Philippines"
	CountryIndonesia   Country = "Indonesia"
	CountryThailand    Country = "Thailand"
	CountryCambodia    Country = "Cambodia"
	CountryMyanmar     Country = "Myanmar"
	CountryNepal       Country = "Nepal"
	CountryBangladesh  Country = "Bangladesh"
	CountrySriLanka    Country = "Sri Lanka"
	CountryIndia       Country = "India"
	CountryOther       Country = "Other"
)

// ApplicationStatus is the review stage of an application. Any status may follow any
// other; employers move applications backwards as often as forwards.
type ApplicationStatus string

const (
	StatusPending       ApplicationStatus = "Pending"
	StatusReviewing     ApplicationStatus = "Reviewing"
	StatusInterview     ApplicationStatus = "Interview"
	StatusDocumentation ApplicationStatus = "Documentation"
	StatusApproved      ApplicationStatus = "Approved"
	StatusRejected      ApplicationStatus = "Rejected"
)

// Statuses lists every application status in review order.
var Statuses = []ApplicationStatus{
	StatusPending,
	StatusReviewing,
	StatusInterview,
	StatusDocumentation,
	StatusApproved,
	StatusRejected,
}

func (s ApplicationStatus) Valid() bool {
	return slices.Contains(Statuses, s)
}

const DefaultCurrency = "KRW"

type Salary struct {
	Min      int64  `json:"min"`
	Max      int64  `json:"max"`
	Currency string `json:"currency"`
}

// String renders the range the way job cards show it, e.g. "2,200,000 - 2,800,000 KRW".
func (s Salary) String() string {
	if s.Min == 0 && s.Max == 0 {
		return "Negotiable"
	}
	if s.Max <= s.Min {
		return fmt.Sprintf("%s %s", humanize.Comma(s.Min), s.Currency)
	}
	return fmt.Sprintf("%s - %s %s", humanize.Comma(s.Min), humanize.Comma(s.Max), s.Currency)
}

type LanguageRequirements struct {
	Korean  string `json:"korean,omitempty"`
	English string `json:"english,omitempty"`
}

// JobFields is everything an employer supplies for a posting. The backend adds the id
// and posted date.
type JobFields struct {
	Title                 string                `json:"title"`
	Company               string                `json:"company"`
	Logo                  string                `json:"logo,omitempty"`
	Location              Location              `json:"location"`
	Category              Category              `json:"category"`
	Type                  JobType               `json:"type"`
	ExperienceLevel       ExperienceLevel       `json:"experienceLevel"`
	Salary                Salary                `json:"salary"`
	Description           string                `json:"description"`
	Requirements          []string              `json:"requirements"`
	Benefits              []string              `json:"benefits"`
	ApplicationDeadline   time.Time             `json:"applicationDeadline"`
	EligibleCountries     []Country             `json:"eligibleCountries"`
	ContactEmail          string                `json:"contactEmail"`
	VisaSponsorship       bool                  `json:"visaSponsorship"`
	AccommodationProvided bool                  `json:"accommodationProvided"`
	LanguageRequirements  *LanguageRequirements `json:"languageRequirements,omitempty"`
}

type Job struct {
	ID         string    `json:"id"`
	PostedDate time.Time `json:"postedDate"`
	JobFields
}

// Clone returns a copy that shares no slices or pointers with j.
func (j Job) Clone() Job {
	c := j
	c.Requirements = slices.Clone(j.Requirements)
	c.Benefits = slices.Clone(j.Benefits)
	c.EligibleCountries = slices.Clone(j.EligibleCountries)
	if j.LanguageRequirements != nil {
		lr := *j.LanguageRequirements
		c.LanguageRequirements = &lr
	}
	return c
}

// AcceptsCountry reports whether applicants from country may apply.
func (j Job) AcceptsCountry(country Country) bool {
	return slices.Contains(j.EligibleCountries, country)
}

type Experience struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	Years   int    `json:"years"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        int    `json:"year"`
}

type Language struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

type Document struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Verified bool   `json:"verified"`
}

// ApplicationFields is what an applicant submits. Status, id and applied date are never
// taken from the applicant.
type ApplicationFields struct {
	JobID              string       `json:"jobId"`
	UserID             string       `json:"userId,omitempty"`
	Resume             string       `json:"resume"`
	CoverLetter        string       `json:"coverLetter,omitempty"`
	Name               string       `json:"name"`
	Email              string       `json:"email"`
	Phone              string       `json:"phone"`
	Country            Country      `json:"country"`
	PassportNumber     string       `json:"passportNumber,omitempty"`
	CurrentlyInKorea   bool         `json:"currentlyInKorea"`
	PreviousExperience []Experience `json:"previousExperience,omitempty"`
	Education          []Education  `json:"education,omitempty"`
	Languages          []Language   `json:"languages"`
	Documents          []Document   `json:"documents,omitempty"`
	Notes              string       `json:"notes,omitempty"`
}

type Application struct {
	ID          string            `json:"id"`
	Status      ApplicationStatus `json:"status"`
	AppliedDate time.Time         `json:"appliedDate"`
	ApplicationFields
}

func (a Application) Clone() Application {
	c := a
	c.PreviousExperience = slices.Clone(a.PreviousExperience)
	c.Education = slices.Clone(a.Education)
	c.Languages = slices.Clone(a.Languages)
	c.Documents = slices.Clone(a.Documents)
	return c
}

var (
	Locations = []Location{
		LocationBusan, LocationSeoul, LocationIncheon, LocationDaegu, LocationDaejeon,
		LocationGwangju, LocationUlsan, LocationSejong, LocationJeju, LocationRemote,
	}
	Categories = []Category{
		CategoryManufacturing, CategoryConstruction, CategoryAgriculture, CategoryFishing,
		CategoryService, CategoryIT, CategoryHealthcare, CategoryHospitality,
		CategoryEducation, CategoryOther,
	}
	JobTypes = []JobType{
		JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeTemporary,
		JobTypeSeasonal, JobTypeInternship,
	}
	ExperienceLevels = []ExperienceLevel{ExperienceEntry, ExperienceMid, ExperienceSenior}
	Countries        = []Country{
		CountryPakistan, CountryVietnam, CountryPhilippines, CountryIndonesia,
		CountryThailand, CountryCambodia, CountryMyanmar, CountryNepal,
		CountryBangladesh, CountrySriLanka, CountryIndia, CountryOther,
	}
)

func (l Location) Valid() bool        { return slices.Contains(Locations, l) }
func (c Category) Valid() bool        { return slices.Contains(Categories, c) }
func (t JobType) Valid() bool         { return slices.Contains(JobTypes, t) }
func (e ExperienceLevel) Valid() bool { return slices.Contains(ExperienceLevels, e) }
func (c Country) Valid() bool         { return slices.Contains(Countries, c) }
