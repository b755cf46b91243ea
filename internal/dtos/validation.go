package dtos

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/justsurfingit/korea-job-board/internal/models"
)

var sanitizer = bluemonday.StrictPolicy()

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("location", func(fl validator.FieldLevel) bool {
		return models.Location(fl.Field().String()).Valid()
	})
	v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	v.RegisterValidation("jobtype", func(fl validator.FieldLevel) bool {
		return models.JobType(fl.Field().String()).Valid()
	})
	v.RegisterValidation("experience", func(fl validator.FieldLevel) bool {
		return models.ExperienceLevel(fl.Field().String()).Valid()
	})
	v.RegisterValidation("country", func(fl validator.FieldLevel) bool {
		return models.Country(fl.Field().String()).Valid()
	})
	v.RegisterValidation("countrylist", func(fl validator.FieldLevel) bool {
		for _, c := range splitCountries(fl.Field().String()) {
			if !c.Valid() {
				return false
			}
		}
		return true
	})
	v.RegisterValidation("appstatus", func(fl validator.FieldLevel) bool {
		return models.ApplicationStatus(fl.Field().String()).Valid()
	})
}

// readable undoes the escaping of characters that cannot open a tag. &lt; and &gt;
// stay encoded so escaped markup in the input never comes back as live markup.
var readable = strings.NewReplacer("&amp;", "&", "&#34;", `"`, "&#39;", "'")

// Sanitize strips all markup from user text and trims it.
func Sanitize(s string) string {
	return strings.TrimSpace(readable.Replace(sanitizer.Sanitize(s)))
}

func SanitizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = Sanitize(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
