// Package services owns the scrape job lifecycle: the single background run,
// its state machine, and the committed results the API layer serves.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"naukri-scraper/models"
	"naukri-scraper/scraper/naukri"
	"naukri-scraper/storage"
	"naukri-scraper/utils"
)

// ErrAlreadyRunning is returned by Start while a scrape job is in flight.
var ErrAlreadyRunning = errors.New("scraping is already in progress")

// Runner executes one scrape sequence. The production implementation is
// *naukri.Scraper; tests substitute fakes.
type Runner interface {
	Run(ctx context.Context, criteria models.SearchCriteria, opts models.ScrapeOptions, progress naukri.ProgressFunc) ([]*models.JobPosting, error)
	Close() error
}

// RunnerFactory builds a Runner for one run. It is invoked inside the
// background goroutine so browser startup never blocks the start request.
type RunnerFactory func(opts models.ScrapeOptions) (Runner, error)

// Orchestrator owns the process-wide ScrapeJob record. All state transitions
// funnel through it under one mutex, so a status read never observes a
// partially updated record and at most one job runs at a time.
type Orchestrator struct {
	logger    *utils.Logger
	newRunner RunnerFactory
	store     storage.ResultStore
	archivers []storage.Archiver

	mu      sync.Mutex
	job     models.ScrapeJob
	results *models.ResultSet
}

// NewOrchestrator creates an Orchestrator in the idle state. Archivers are
// optional secondary sinks fed after each completed run, best-effort.
func NewOrchestrator(logger *utils.Logger, factory RunnerFactory, store storage.ResultStore, archivers ...storage.Archiver) *Orchestrator {
	return &Orchestrator{
		logger:    logger,
		newRunner: factory,
		store:     store,
		archivers: archivers,
		job: models.ScrapeJob{
			State:       models.StateIdle,
			LastUpdated: time.Now(),
		},
	}
}

// Start validates the request and, if accepted, launches the scrape sequence
// in the background. It never blocks on scrape completion. A validation
// error or ErrAlreadyRunning means the job state was left untouched.
func (o *Orchestrator) Start(criteria models.SearchCriteria, opts models.ScrapeOptions) error {
	if err := criteria.Validate(); err != nil {
		return err
	}

	o.mu.Lock()
	if o.job.State == models.StateRunning {
		o.mu.Unlock()
		return ErrAlreadyRunning
	}
	o.job = models.ScrapeJob{
		RunID:       uuid.NewString(),
		State:       models.StateRunning,
		Progress:    0,
		Message:     "Starting scraper...",
		LastUpdated: time.Now(),
	}
	runID := o.job.RunID
	o.mu.Unlock()

	o.logger.Info("[orchestrator] Run %s accepted — keyword=%q max_jobs=%d deep_scrape=%v login=%v",
		runID, criteria.Keyword, criteria.MaxJobs, opts.DeepScrape, opts.RequireLogin)

	go o.run(criteria, opts)
	return nil
}

// Status returns an immediate snapshot of the job record.
func (o *Orchestrator) Status() models.ScrapeJob {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.job
}

// Results returns the most recent committed result set. When no run has
// completed in this process, it falls back to the persisted artifact of a
// previous one.
func (o *Orchestrator) Results() (*models.ResultSet, bool) {
	o.mu.Lock()
	if o.results != nil {
		rs := o.results
		o.mu.Unlock()
		return rs, true
	}
	o.mu.Unlock()

	rs, err := o.store.Load()
	if err != nil {
		return nil, false
	}
	return rs, true
}

// run is the background scrape sequence. Any fault, including panics from
// the automation layer, is caught here and recorded as a failed state; it
// never crashes the host process.
func (o *Orchestrator) run(criteria models.SearchCriteria, opts models.ScrapeOptions) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("[orchestrator] Recovered from panic: %v", r)
			o.fail(fmt.Sprintf("internal error: %v", r))
		}
	}()

	ctx := context.Background()

	runner, err := o.newRunner(opts)
	if err != nil {
		o.fail(fmt.Sprintf("browser startup failed: %v", err))
		return
	}
	defer runner.Close()

	postings, err := runner.Run(ctx, criteria, opts, o.checkpoint)
	if err != nil {
		o.fail(err.Error())
		return
	}

	results := models.NewResultSet(postings)

	// The artifact is what /results serves across restarts; losing it is an
	// error worth logging, but the in-memory commit still completes the run.
	if err := o.store.Save(results); err != nil {
		o.logger.Error("[orchestrator] Persisting results failed: %v", err)
	}
	for _, a := range o.archivers {
		if err := a.Archive(results.Jobs); err != nil {
			o.logger.Warn("[orchestrator] Archive sink failed: %v", err)
		}
	}

	o.complete(results)
}

// checkpoint records a best-effort progress update. Progress is clamped
// monotonic and capped below 100: only complete sets 100.
func (o *Orchestrator) checkpoint(percent int, message string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.job.State != models.StateRunning {
		return
	}
	if percent > 99 {
		percent = 99
	}
	if percent > o.job.Progress {
		o.job.Progress = percent
	}
	o.job.Message = message
	o.job.LastUpdated = time.Now()
}

func (o *Orchestrator) complete(results *models.ResultSet) {
	summary := Summarize(results.Jobs)

	o.mu.Lock()
	o.results = results
	o.job.State = models.StateCompleted
	o.job.Progress = 100
	o.job.Message = fmt.Sprintf("Scraping completed — %d jobs", results.Metadata.TotalJobs)
	o.job.LastUpdated = time.Now()
	runID := o.job.RunID
	o.mu.Unlock()

	o.logger.Info("[orchestrator] Run %s completed — %s", runID, summary)
}

func (o *Orchestrator) fail(message string) {
	o.mu.Lock()
	o.job.State = models.StateFailed
	o.job.Error = message
	o.job.Message = "Error: " + message
	o.job.LastUpdated = time.Now()
	runID := o.job.RunID
	o.mu.Unlock()

	o.logger.Error("[orchestrator] Run %s failed: %s", runID, message)
}
