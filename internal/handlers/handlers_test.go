package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/justsurfingit/korea-job-board/internal/handlers"
	"github.com/justsurfingit/korea-job-board/internal/middleware"
	"github.com/justsurfingit/korea-job-board/internal/models"
	"github.com/justsurfingit/korea-job-board/internal/seed"
	"github.com/justsurfingit/korea-job-board/internal/store"
	"github.com/justsurfingit/korea-job-board/internal/store/storemock"
)

const jwtSecret = "handler-test-secret"

type fixture struct {
	router *gin.Engine
	src    *storemock.MockSource
	store  *store.Store
	token  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	src := storemock.NewMockSource(gomock.NewController(t))
	jobs, err := seed.Jobs()
	require.NoError(t, err)
	apps, err := seed.Applications()
	require.NoError(t, err)
	src.EXPECT().ListJobs(gomock.Any()).Return(jobs, nil)
	src.EXPECT().ListApplications(gomock.Any()).Return(apps, nil)

	s := store.New(src)
	require.NoError(t, s.LoadAll(context.Background()))

	r := gin.New()
	handlers.Register(r.Group("/api/v1"), handlers.Deps{
		Store:        s,
		JWTSecret:    jwtSecret,
		ApplyLimiter: middleware.NewRateLimiter(100),
	})

	token, err := middleware.NewToken(jwtSecret, "employer-1", middleware.RoleEmployer, time.Hour)
	require.NoError(t, err)
	return &fixture{router: r, src: src, store: s, token: token}
}

func (f *fixture) do(method, path string, body any, auth bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

type listResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func jobIDs(jobs []models.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func jobBody() gin.H {
	return gin.H{
		"title":               "Line Cook",
		"company":             "Lotte Hotel",
		"location":            "Seoul",
		"category":            "Hospitality",
		"type":                "Full-time",
		"experienceLevel":     "Mid Level",
		"salary":              gin.H{"min": 2500000, "max": 3000000},
		"description":         "Hotel kitchen.",
		"requirements":        []string{"2 years kitchen experience"},
		"applicationDeadline": "2025-06-30",
		"eligibleCountries":   []string{"Philippines", "Nepal"},
		"contactEmail":        "kitchen@example.com",
		"visaSponsorship":     true,
	}
}

func applicationBody(country string) gin.H {
	return gin.H{
		"resume":    "https://example.com/cv.pdf",
		"name":      "Maria Santos",
		"email":     "maria@example.com",
		"phone":     "+63-917-000-0000",
		"country":   country,
		"languages": []gin.H{{"language": "English", "proficiency": "Fluent"}},
		"status":    "Approved",
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/health", nil, false).Code)
}

func TestListJobs(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/v1/jobs?location=Busan", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[listResponse[models.Job]](t, w)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, []string{"1", "5"}, jobIDs(got.Data))

	w = f.do(http.MethodGet, "/api/v1/jobs?countries=Nepal,India&sort=salary-high", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"3", "2", "4"}, jobIDs(decode[listResponse[models.Job]](t, w).Data))

	assert.Len(t, f.store.FilteredJobs(), 5, "listing must not narrow the store view")
}

func TestListJobsRejectsUnknownValues(t *testing.T) {
	f := newFixture(t)

	for _, q := range []string{"location=Tokyo", "sort=oldest", "countries=Mars", "type=Gig"} {
		assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/v1/jobs?"+q, nil, false).Code, q)
	}
}

func TestGetJob(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/v1/jobs/3", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3", decode[models.Job](t, w).ID)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/v1/jobs/99", nil, false).Code)
}

func TestCreateJob(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/v1/jobs", jobBody(), false).Code)

	f.src.EXPECT().InsertJob(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fields models.JobFields) (models.Job, error) {
			assert.Equal(t, "KRW", fields.Salary.Currency)
			return models.Job{ID: "6", PostedDate: time.Now(), JobFields: fields}, nil
		})

	w := f.do(http.MethodPost, "/api/v1/jobs", jobBody(), true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "6", decode[models.Job](t, w).ID)
	assert.Len(t, f.store.Jobs(), 6)
}

func TestCreateJobValidation(t *testing.T) {
	f := newFixture(t)

	body := jobBody()
	body["location"] = "Osaka"
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/v1/jobs", body, true).Code)
}

func TestCreateJobBackendFailure(t *testing.T) {
	f := newFixture(t)
	f.src.EXPECT().InsertJob(gomock.Any(), gomock.Any()).Return(models.Job{}, errors.New("connection reset"))

	w := f.do(http.MethodPost, "/api/v1/jobs", jobBody(), true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "connection reset")
	assert.Len(t, f.store.Jobs(), 5)
}

func TestUpdateJobKeepsPostedDate(t *testing.T) {
	f := newFixture(t)
	before, _ := f.store.GetJobByID("2")

	f.src.EXPECT().UpdateJob(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, job models.Job) error {
			assert.Equal(t, "2", job.ID)
			assert.Equal(t, before.PostedDate, job.PostedDate)
			return nil
		})

	w := f.do(http.MethodPut, "/api/v1/jobs/2", jobBody(), true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	after, ok := f.store.GetJobByID("2")
	require.True(t, ok)
	assert.Equal(t, "Line Cook", after.Title)
	assert.Equal(t, before.PostedDate, after.PostedDate)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPut, "/api/v1/jobs/99", jobBody(), true).Code)
}

func TestDeleteJob(t *testing.T) {
	f := newFixture(t)
	f.src.EXPECT().DeleteJob(gomock.Any(), "4").Return(nil)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/api/v1/jobs/4", nil, true).Code)
	_, ok := f.store.GetJobByID("4")
	assert.False(t, ok)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/api/v1/jobs/4", nil, true).Code)
}

func TestApplyForcesPending(t *testing.T) {
	f := newFixture(t)
	f.src.EXPECT().InsertApplication(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, app models.Application) (models.Application, error) {
			assert.Equal(t, models.StatusPending, app.Status)
			assert.Equal(t, "1", app.JobID)
			app.ID = "3"
			app.AppliedDate = time.Now()
			return app, nil
		})

	w := f.do(http.MethodPost, "/api/v1/jobs/1/applications", applicationBody("Philippines"), false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	got := decode[models.Application](t, w)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Len(t, f.store.GetApplicationsForJob("1"), 3)
}

func TestApplyRejections(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/api/v1/jobs/99/applications", applicationBody("Vietnam"), false).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, f.do(http.MethodPost, "/api/v1/jobs/1/applications", applicationBody("Nepal"), false).Code)

	body := applicationBody("Vietnam")
	delete(body, "resume")
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/v1/jobs/1/applications", body, false).Code)
}

func TestApplyIsRateLimited(t *testing.T) {
	f := newFixture(t)
	r := gin.New()
	handlers.Register(r.Group("/api/v1"), handlers.Deps{Store: f.store, JWTSecret: jwtSecret, ApplyLimiter: middleware.NewRateLimiter(1)})
	f.router = r

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/api/v1/jobs/99/applications", applicationBody("Vietnam"), false).Code)
	assert.Equal(t, http.StatusTooManyRequests, f.do(http.MethodPost, "/api/v1/jobs/99/applications", applicationBody("Vietnam"), false).Code)
}

func TestApplicationQueries(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/v1/applications", nil, false).Code)

	w := f.do(http.MethodGet, "/api/v1/applications?status=Pending", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[listResponse[models.Application]](t, w).Count)

	w = f.do(http.MethodGet, "/api/v1/jobs/1/applications", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[listResponse[models.Application]](t, w).Count)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/v1/applications?status=Hired", nil, true).Code)

	w = f.do(http.MethodGet, "/api/v1/applications/stats", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[store.Stats](t, w)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[models.StatusReviewing])
	assert.Equal(t, 1, stats.ByCountry[models.CountryPakistan])
}

func TestUpdateApplicationStatus(t *testing.T) {
	f := newFixture(t)
	f.src.EXPECT().UpdateApplicationStatus(gomock.Any(), "1", models.StatusInterview).Return(nil)

	w := f.do(http.MethodPatch, "/api/v1/applications/1/status", gin.H{"status": "Interview"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.StatusInterview, f.store.Applications()[0].Status)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPatch, "/api/v1/applications/1/status", gin.H{"status": "Hired"}, true).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPatch, "/api/v1/applications/9/status", gin.H{"status": "Interview"}, true).Code)
}

func TestStoreStatusAndReload(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/v1/store/status", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"loading":false,"error":"","jobs":5,"applications":2}`, w.Body.String())

	f.src.EXPECT().ListJobs(gomock.Any()).Return(nil, errors.New("timeout"))
	f.src.EXPECT().ListApplications(gomock.Any()).Return(nil, nil).AnyTimes()

	w = f.do(http.MethodPost, "/api/v1/store/reload", nil, true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Len(t, f.store.Jobs(), 5)
	assert.Contains(t, f.store.Err(), "timeout")
}

func TestReloadSupersededByWrites(t *testing.T) {
	f := newFixture(t)
	jobs, _ := seed.Jobs()

	f.src.EXPECT().InsertJob(gomock.Any(), gomock.Any()).Return(models.Job{ID: "new"}, nil).Times(2)
	f.src.EXPECT().ListJobs(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]models.Job, error) {
		_, err := f.store.AddJob(ctx, models.JobFields{Title: "Concurrent"})
		assert.NoError(t, err)
		return jobs, nil
	}).Times(2)
	f.src.EXPECT().ListApplications(gomock.Any()).Return(nil, nil).Times(2)

	w := f.do(http.MethodPost, "/api/v1/store/reload", nil, true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Len(t, f.store.Jobs(), 7)
}

func TestExtractWithoutModel(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/v1/jobs/extract", gin.H{"raw_html": "<p>job</p>"}, true)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
