package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"naukri-scraper/config"
	"naukri-scraper/models"
	"naukri-scraper/services"
	"naukri-scraper/utils"
)

// Handlers holds the dependencies shared by all HTTP handlers.
type Handlers struct {
	Orchestrator *services.Orchestrator
	Config       *config.Config
	Logger       *utils.Logger
}

// scrapeRequest is the POST /api/scrape body: search criteria plus run options.
type scrapeRequest struct {
	models.SearchCriteria
	models.ScrapeOptions
}

type statusMessage struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Scrape accepts a scrape request and starts the background job. It responds
// immediately; results are never returned synchronously.
func (h Handlers) Scrape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeJSON(w, http.StatusMethodNotAllowed, statusMessage{Success: false, Message: "method not allowed"})
		return
	}

	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, statusMessage{Success: false, Message: "invalid request body: " + err.Error()})
		return
	}

	err := h.Orchestrator.Start(req.SearchCriteria, req.ScrapeOptions)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrAlreadyRunning) {
			h.Logger.Warn("[api] Scrape rejected: %v", err)
		}
		h.writeJSON(w, status, statusMessage{Success: false, Message: err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, statusMessage{Success: true, Message: "Scraping started successfully"})
}

// Status serves the current ScrapeJob snapshot for polling clients.
func (h Handlers) Status(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Orchestrator.Status())
}

// Results serves the most recent completed run.
func (h Handlers) Results(w http.ResponseWriter, r *http.Request) {
	results, ok := h.Orchestrator.Results()
	if !ok {
		h.writeJSON(w, http.StatusNotFound, statusMessage{
			Success: false,
			Message: "No results found. Please run a scrape first.",
		})
		return
	}

	h.writeJSON(w, http.StatusOK, struct {
		Success bool              `json:"success"`
		Data    *models.ResultSet `json:"data"`
	}{Success: true, Data: results})
}

// Health is a liveness probe.
func (h Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}{Status: "ok", Timestamp: time.Now()})
}

// ConfigInfo exposes the scraper settings a frontend may want to display.
// Connection credentials stay out of the response.
func (h Handlers) ConfigInfo(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}{
		Success: true,
		Data: map[string]any{
			"headless":          h.Config.Headless,
			"login_timeout_sec": h.Config.LoginTimeoutSec,
			"login_poll_sec":    h.Config.LoginPollSec,
			"scroll_count":      h.Config.ScrollCount,
			"max_concurrency":   h.Config.MaxConcurrency,
			"rate_limit_ms":     h.Config.RateLimitMs,
			"results_path":      h.Config.ResultsPath,
		},
	})
}

func (h Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error("[api] Writing response failed: %v", err)
	}
}
