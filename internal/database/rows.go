package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/justsurfingit/korea-job-board/internal/models"
)

// JobRow is a row of the hosted "jobs" table. Its column names predate the board's own
// model: category lives in "industry", type in "job_type", and the posted date is the
// row's creation time.
type JobRow struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Title           string `gorm:"not null"`
	Company         string `gorm:"not null;index"`
	LogoURL         *string
	Location        string `gorm:"index"`
	Industry        string `gorm:"index"`
	JobType         *string
	ExperienceLevel *string

	// Older rows only carry a free-text salary; the split columns may be NULL.
	SalaryMin      *int64
	SalaryMax      *int64
	SalaryCurrency *string

	Description           string         `gorm:"type:text"`
	Requirements          pq.StringArray `gorm:"type:text[]"`
	Benefits              pq.StringArray `gorm:"type:text[]"`
	ApplicationDeadline   *time.Time     `gorm:"type:date"`
	EligibleCountries     pq.StringArray `gorm:"type:text[]"`
	ContactEmail          string
	VisaSponsorship       bool `gorm:"not null;default:false"`
	AccommodationProvided bool `gorm:"not null;default:false"`
	KoreanLevel           *string
	EnglishLevel          *string
}

func (JobRow) TableName() string { return "jobs" }

// ApplicationRow is a row of the hosted "job_applications" table. Applications are
// never deleted, so there is no soft-delete column.
type ApplicationRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time

	JobID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID *string   `gorm:"index"`
	Status string    `gorm:"not null;default:'Pending'"`

	ResumeURL        string
	CoverLetter      *string `gorm:"type:text"`
	FullName         string  `gorm:"not null"`
	Email            string  `gorm:"not null"`
	Phone            string
	Country          string
	PassportNumber   *string
	CurrentlyInKorea bool `gorm:"not null;default:false"`

	PreviousExperience []models.Experience `gorm:"type:jsonb;serializer:json"`
	Education          []models.Education  `gorm:"type:jsonb;serializer:json"`
	Languages          []models.Language   `gorm:"type:jsonb;serializer:json"`
	Documents          []models.Document   `gorm:"type:jsonb;serializer:json"`
	Notes              *string             `gorm:"type:text"`
}

func (ApplicationRow) TableName() string { return "job_applications" }
