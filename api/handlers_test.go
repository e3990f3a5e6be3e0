package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"naukri-scraper/config"
	"naukri-scraper/models"
	"naukri-scraper/scraper/naukri"
	"naukri-scraper/services"
	"naukri-scraper/storage"
	"naukri-scraper/utils"
)

type stubRunner struct {
	postings []*models.JobPosting
	gate     chan struct{}
}

func (s *stubRunner) Run(ctx context.Context, criteria models.SearchCriteria, opts models.ScrapeOptions, progress naukri.ProgressFunc) ([]*models.JobPosting, error) {
	if s.gate != nil {
		<-s.gate
	}
	return s.postings, nil
}

func (s *stubRunner) Close() error { return nil }

func newTestHandlers(t *testing.T, runner *stubRunner) Handlers {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "results.json"))
	orch := services.NewOrchestrator(utils.NewLogger(),
		func(models.ScrapeOptions) (services.Runner, error) { return runner, nil },
		store)
	return Handlers{Orchestrator: orch, Config: &config.Config{ListenAddr: ":0"}, Logger: utils.NewLogger()}
}

func validBody() string {
	return `{"keyword":"golang","location":"Pune","experience":2,"max_jobs":5,"sort_by":"date","freshness":7}`
}

func waitCompleted(t *testing.T, h Handlers) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.Orchestrator.Status().State == models.StateCompleted {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("job never completed")
}

func TestScrapeAccepted(t *testing.T) {
	h := newTestHandlers(t, &stubRunner{})

	req := httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(validBody()))
	rec := httptest.NewRecorder()
	h.Scrape(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Message)

	waitCompleted(t, h)
}

func TestScrapeRejectsInvalidCriteria(t *testing.T) {
	h := newTestHandlers(t, &stubRunner{})

	body := `{"keyword":"","max_jobs":5,"sort_by":"date","freshness":7}`
	req := httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Scrape(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "keyword")
	assert.Equal(t, models.StateIdle, h.Orchestrator.Status().State)
}

func TestScrapeRejectsWhileRunning(t *testing.T) {
	runner := &stubRunner{gate: make(chan struct{})}
	h := newTestHandlers(t, runner)

	first := httptest.NewRecorder()
	h.Scrape(first, httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(validBody())))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	h.Scrape(second, httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(validBody())))
	assert.Equal(t, http.StatusBadRequest, second.Code)
	assert.Contains(t, second.Body.String(), "already in progress")

	close(runner.gate)
	waitCompleted(t, h)
}

func TestScrapeRejectsBadJSON(t *testing.T) {
	h := newTestHandlers(t, &stubRunner{})

	req := httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Scrape(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScrapeRequiresPost(t *testing.T) {
	h := newTestHandlers(t, &stubRunner{})

	rec := httptest.NewRecorder()
	h.Scrape(rec, httptest.NewRequest(http.MethodGet, "/api/scrape", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStatusSnapshot(t *testing.T) {
	h := newTestHandlers(t, &stubRunner{})

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var job models.ScrapeJob
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	assert.Equal(t, models.StateIdle, job.State)
	assert.Zero(t, job.Progress)
}

func TestResultsBeforeAnyRun(t *testing.T) {
	h := newTestHandlers(t, &stubRunner{})

	rec := httptest.NewRecorder()
	h.Results(rec, httptest.NewRequest(http.MethodGet, "/api/results", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No results found")
}

func TestResultsAfterCompletedRun(t *testing.T) {
	runner := &stubRunner{
		postings: []*models.JobPosting{{
			Index:     1,
			Title:     "Backend Developer",
			JobURL:    "https://www.naukri.com/j1",
			ApplyLink: "https://careers.acme.com/1",
			ApplyType: models.ApplyTypeExternal,
		}},
	}
	h := newTestHandlers(t, runner)

	rec := httptest.NewRecorder()
	h.Scrape(rec, httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(validBody())))
	require.Equal(t, http.StatusOK, rec.Code)
	waitCompleted(t, h)

	rec = httptest.NewRecorder()
	h.Results(rec, httptest.NewRequest(http.MethodGet, "/api/results", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool              `json:"success"`
		Data    *models.ResultSet `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, 1, resp.Data.Metadata.TotalJobs)
	assert.Len(t, resp.Data.Jobs, 1)
	assert.Equal(t, models.SourceLabel, resp.Data.Metadata.Source)
}

func TestHealth(t *testing.T) {
	h := newTestHandlers(t, &stubRunner{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRoutesServeAndCORS(t *testing.T) {
	h := newTestHandlers(t, &stubRunner{})
	srv := httptest.NewServer(Routes(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/scrape", nil)
	require.NoError(t, err)
	preflight, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer preflight.Body.Close()
	assert.Equal(t, http.StatusNoContent, preflight.StatusCode)
}

func TestConfigInfoOmitsCredentials(t *testing.T) {
	h := newTestHandlers(t, &stubRunner{})
	h.Config.PostgresPassword = "secret"

	rec := httptest.NewRecorder()
	h.ConfigInfo(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
	assert.Contains(t, rec.Body.String(), "login_timeout_sec")
}
