package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gojobs/internal/events"
	"github.com/jonesrussell/gojobs/internal/handlers"
	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/models"
	"github.com/jonesrussell/gojobs/internal/query"
	"github.com/jonesrussell/gojobs/internal/repository"
)

type publicFixture struct {
	jobs         *MockJobStore
	applications *MockApplicationStore
	notifier     *MockNotifier
	router       *gin.Engine
}

func newPublicFixture() *publicFixture {
	setupTest()

	f := &publicFixture{
		jobs:         &MockJobStore{},
		applications: &MockApplicationStore{},
		notifier:     &MockNotifier{},
	}

	handler := handlers.NewJobHandler(f.jobs, f.applications, f.notifier, logger.NewNop())

	f.router = gin.New()
	f.router.GET("/api/jobs", handler.List)
	f.router.GET("/api/jobs/stats", handler.Stats)
	f.router.GET("/api/jobs/:id", handler.Get)
	f.router.POST("/api/jobs/:id/apply", handler.Apply)
	return f
}

func (f *publicFixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		raw, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func activeJob() *models.Job {
	return &models.Job{
		ID:       uuid.New().String(),
		Title:    "Backend Engineer",
		Company:  "Acme",
		Location: "Remote",
		Type:     models.JobTypeFullTime,
		Salary:   "$100k",
		Status:   models.JobStatusActive,
	}
}

func validApplyBody() map[string]any {
	return map[string]any{
		"applicantName": "Jane Doe",
		"email":         "jane@x.com",
		"phone":         "+15551234567",
		"resume":        "https://x.com/r.pdf",
		"coverLetter":   "I would love to build APIs with you.",
	}
}

func TestJobHandler_List_PinsActiveStatus(t *testing.T) {
	f := newPublicFixture()

	wantFilter := query.JobFilter{
		Search:            "engineer",
		SearchDescription: true,
		Status:            "active",
		Type:              "Contract",
	}
	f.jobs.On("Count", mock.Anything, wantFilter).Return(25, nil)
	f.jobs.On("List", mock.Anything, wantFilter, mock.Anything, query.Page{Number: 2, Limit: 10}).
		Return([]models.Job{*activeJob()}, nil)

	w := f.do(http.MethodGet, "/api/jobs?search=engineer&type=Contract&status=closed&page=2", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(25), body["totalJobs"])
	assert.Equal(t, float64(2), body["currentPage"])
	assert.Equal(t, float64(3), body["totalPages"])
	f.jobs.AssertExpectations(t)
}

func TestJobHandler_List_PageBeyondRange(t *testing.T) {
	f := newPublicFixture()

	f.jobs.On("Count", mock.Anything, mock.Anything).Return(5, nil)
	f.jobs.On("List", mock.Anything, mock.Anything, mock.Anything, query.Page{Number: 9, Limit: 10}).
		Return([]models.Job{}, nil)

	w := f.do(http.MethodGet, "/api/jobs?page=9", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(0), body["count"])
	assert.Equal(t, float64(5), body["totalJobs"])
	assert.Equal(t, float64(1), body["totalPages"])
}

func TestJobHandler_Get_NotActive(t *testing.T) {
	f := newPublicFixture()

	job := activeJob()
	job.Status = models.JobStatusClosed
	f.jobs.On("GetByID", mock.Anything, job.ID).Return(job, nil)

	w := f.do(http.MethodGet, "/api/jobs/"+job.ID, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Job not found")
}

func TestJobHandler_Get_NotFound(t *testing.T) {
	f := newPublicFixture()

	f.jobs.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrJobNotFound)

	w := f.do(http.MethodGet, "/api/jobs/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJobHandler_Stats(t *testing.T) {
	f := newPublicFixture()

	f.jobs.On("Overview", mock.Anything).Return(&models.JobOverview{
		TotalJobs: 10, ActiveJobs: 6, InactiveJobs: 3, ClosedJobs: 1, TotalApplications: 25,
	}, nil)
	f.jobs.On("TypeCounts", mock.Anything).Return([]models.TypeCount{
		{Type: models.JobTypeFullTime, Count: 4},
	}, nil)

	w := f.do(http.MethodGet, "/api/jobs/stats", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	overview := data["overview"].(map[string]any)
	assert.Equal(t, float64(10), overview["totalJobs"])
	assert.Equal(t, float64(25), overview["totalApplications"])
}

func TestJobHandler_Apply_Success(t *testing.T) {
	f := newPublicFixture()
	job := activeJob()

	f.jobs.On("GetByID", mock.Anything, job.ID).Return(job, nil)
	f.applications.On("ExistsForJob", mock.Anything, job.ID, "jane@x.com").Return(false, nil)
	f.applications.On("CreateForJob", mock.Anything, mock.MatchedBy(func(app *models.Application) bool {
		return app.JobID == job.ID &&
			app.JobTitle == job.Title &&
			app.Company == job.Company &&
			app.Email == "jane@x.com"
	})).Run(func(args mock.Arguments) {
		app := args.Get(1).(*models.Application)
		app.ID = uuid.New().String()
		app.Status = models.ApplicationStatusPending
		app.AppliedAt = time.Now()
	}).Return(nil)
	f.notifier.On("Publish", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.TypeNewApplication
	})).Return(nil)

	w := f.do(http.MethodPost, "/api/jobs/"+job.ID+"/apply", validApplyBody())

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["applicationId"])
	assert.Equal(t, "Backend Engineer", data["jobTitle"])
	assert.Equal(t, "Acme", data["company"])
	assert.Equal(t, "pending", data["status"])
	f.applications.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestJobHandler_Apply_ValidationFailure(t *testing.T) {
	f := newPublicFixture()

	body := validApplyBody()
	body["applicantName"] = "J4ne!"
	body["email"] = "not-an-email"

	w := f.do(http.MethodPost, "/api/jobs/"+uuid.New().String()+"/apply", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Validation failed", resp["message"])
	assert.Len(t, resp["errors"], 2)
	f.jobs.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestJobHandler_Apply_JobNotFound(t *testing.T) {
	f := newPublicFixture()
	id := uuid.New().String()

	f.jobs.On("GetByID", mock.Anything, id).Return(nil, repository.ErrJobNotFound)

	w := f.do(http.MethodPost, "/api/jobs/"+id+"/apply", validApplyBody())

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Job not found")
}

func TestJobHandler_Apply_InactiveJob(t *testing.T) {
	f := newPublicFixture()
	job := activeJob()
	job.Status = models.JobStatusInactive

	f.jobs.On("GetByID", mock.Anything, job.ID).Return(job, nil)

	w := f.do(http.MethodPost, "/api/jobs/"+job.ID+"/apply", validApplyBody())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Job is not accepting applications")
	f.applications.AssertNotCalled(t, "CreateForJob", mock.Anything, mock.Anything)
}

func TestJobHandler_Apply_Duplicate(t *testing.T) {
	f := newPublicFixture()
	job := activeJob()

	f.jobs.On("GetByID", mock.Anything, job.ID).Return(job, nil)
	f.applications.On("ExistsForJob", mock.Anything, job.ID, "jane@x.com").Return(true, nil)

	w := f.do(http.MethodPost, "/api/jobs/"+job.ID+"/apply", validApplyBody())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "You have already applied for this job")
	f.applications.AssertNotCalled(t, "CreateForJob", mock.Anything, mock.Anything)
}

func TestJobHandler_Apply_RacedDuplicate(t *testing.T) {
	f := newPublicFixture()
	job := activeJob()

	// The pre-check misses the concurrent insert; the store-level unique
	// violation must surface as the same conflict message.
	f.jobs.On("GetByID", mock.Anything, job.ID).Return(job, nil)
	f.applications.On("ExistsForJob", mock.Anything, job.ID, "jane@x.com").Return(false, nil)
	f.applications.On("CreateForJob", mock.Anything, mock.Anything).
		Return(repository.ErrDuplicateApplication)

	w := f.do(http.MethodPost, "/api/jobs/"+job.ID+"/apply", validApplyBody())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "You have already applied for this job")
	f.notifier.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
