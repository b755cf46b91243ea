package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/justsurfingit/korea-job-board/internal/dtos"
	"github.com/justsurfingit/korea-job-board/internal/models"
)

// maxPageChars bounds how much page text goes into a prompt.
const maxPageChars = 20000

var ErrExtractionDisabled = errors.New("job draft extraction is not configured")

type LLMService struct {
	Client llms.Model
}

// NewLLMService connects to Gemini. Without an API key it returns a nil service, which
// answers every call with ErrExtractionDisabled.
func NewLLMService(ctx context.Context, apiKey, model string) (*LLMService, error) {
	if apiKey == "" {
		log.Warn().Msg("[llm] GEMINI_API_KEY is empty, job draft extraction disabled")
		return nil, nil
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &LLMService{Client: llm}, nil
}

const jobExtractionPrompt = `
You are a data extraction agent for a job board that lists jobs in South Korea for foreign workers.
Read the job posting text below and extract a draft posting.

### INSTRUCTIONS:
1. Ignore navigation menus, footers, "similar jobs" lists and advertisements.
2. Only use values that appear in the text. If a value is missing set it to null. Do not guess.
3. Output valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "title": "Job title",
    "company": "Company name",
    "location": one of [%s] or null,
    "category": one of [%s] or null,
    "type": one of [%s] or null,
    "experienceLevel": one of [%s] or null,
    "salaryMin": monthly minimum as an integer or null,
    "salaryMax": monthly maximum as an integer or null,
    "currency": "ISO currency code, e.g. KRW",
    "description": "Plain text summary of the duties",
    "requirements": ["..."],
    "benefits": ["..."],
    "eligibleCountries": subset of [%s],
    "contactEmail": "address or null",
    "applicationDeadline": "YYYY-MM-DD or null",
    "visaSponsorship": true, false or null,
    "accommodationProvided": true, false or null
}

### RAW CONTENT:
%s
`

// ExtractJobDraft turns a posting page into a draft for the employer to review.
func (s *LLMService) ExtractJobDraft(ctx context.Context, rawHTML string) (dtos.JobDraft, error) {
	if s == nil || s.Client == nil {
		return dtos.JobDraft{}, ErrExtractionDisabled
	}

	text, err := pageText(rawHTML)
	if err != nil {
		return dtos.JobDraft{}, fmt.Errorf("failed to read page: %w", err)
	}
	if text == "" {
		return dtos.JobDraft{}, errors.New("page has no text")
	}

	prompt := fmt.Sprintf(jobExtractionPrompt,
		quoted(models.Locations), quoted(models.Categories), quoted(models.JobTypes),
		quoted(models.ExperienceLevels), quoted(models.Countries), text)

	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt, llms.WithTemperature(0))
	if err != nil {
		return dtos.JobDraft{}, fmt.Errorf("failed to generate draft: %w", err)
	}

	var draft dtos.JobDraft
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &draft); err != nil {
		log.Debug().Str("response", resp).Msg("[llm] unparseable draft")
		return dtos.JobDraft{}, fmt.Errorf("model returned invalid JSON: %w", err)
	}
	draft.Normalize()
	return draft, nil
}

// pageText returns the visible text of an HTML page with whitespace collapsed, cut to
// maxPageChars.
func pageText(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, svg, nav, footer").Remove()

	text := strings.Join(strings.Fields(doc.Text()), " ")
	if r := []rune(text); len(r) > maxPageChars {
		text = string(r[:maxPageChars])
	}
	return text, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func quoted[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = `"` + string(v) + `"`
	}
	return strings.Join(parts, ", ")
}
