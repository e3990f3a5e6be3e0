// Package naukri implements the scrape engine for Naukri.com: interactive
// login detection, listing pagination and apply-link resolution, all driven
// through the browser.Adapter capability interface.
package naukri

import (
	"context"
	"errors"
	"fmt"
	"time"

	"naukri-scraper/browser"
	"naukri-scraper/config"
	"naukri-scraper/models"
	"naukri-scraper/utils"
)

// BaseURL is the site entry point all search URLs are built from.
const BaseURL = "https://www.naukri.com"

// ErrLoginTimeout is returned when the login wait elapses without the user
// completing login. It terminates the run.
var ErrLoginTimeout = errors.New("login timeout: user did not complete login in time")

// ProgressFunc receives best-effort checkpoint updates during a run.
type ProgressFunc func(percent int, message string)

// Scraper drives one complete scrape sequence against a browser session. It
// owns the adapter for the duration of the run and releases it on Close.
type Scraper struct {
	cfg      *config.Config
	logger   *utils.Logger
	adapter  browser.Adapter
	detector *LoginDetector
	walker   *ListingWalker
	resolver *ApplyLinkResolver
	pool     *utils.WorkerPool
}

// New creates a ready-to-use Scraper on top of the given adapter.
func New(cfg *config.Config, logger *utils.Logger, adapter browser.Adapter) *Scraper {
	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}
	return &Scraper{
		cfg:     cfg,
		logger:  logger,
		adapter: adapter,
		detector: NewLoginDetector(adapter, logger,
			time.Duration(cfg.LoginTimeoutSec)*time.Second,
			time.Duration(cfg.LoginPollSec)*time.Second),
		walker: NewListingWalker(adapter, logger, cfg.ScrollCount,
			time.Duration(cfg.RateLimitMs)*time.Millisecond),
		resolver: NewResolver(logger, retry),
		pool:     utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
	}
}

// Run executes the scrape sequence: optional login wait, listing walk, then
// optional per-posting apply-link resolution. The returned postings are final
// and ordered; progress callbacks are monotonic checkpoints.
func (s *Scraper) Run(ctx context.Context, criteria models.SearchCriteria, opts models.ScrapeOptions, progress ProgressFunc) ([]*models.JobPosting, error) {
	if progress == nil {
		progress = func(int, string) {}
	}

	if opts.RequireLogin {
		progress(5, "Waiting for user login...")
		ok, err := s.detector.AwaitLogin(ctx)
		if err != nil {
			return nil, fmt.Errorf("login wait: %w", err)
		}
		if !ok {
			return nil, ErrLoginTimeout
		}
	}
	progress(10, "Scraping jobs from Naukri.com...")

	postings, err := s.walker.Walk(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("listing walk: %w", err)
	}
	progress(40, fmt.Sprintf("Collected %d postings", len(postings)))

	if opts.DeepScrape && len(postings) > 0 {
		s.logger.Info("[scraper] Deep scrape — resolving apply links for %d postings", len(postings))
		s.resolveAll(ctx, postings)
		progress(90, "Apply links resolved")
	}

	return postings, nil
}

// resolveAll visits each posting's detail page and fills in the apply link,
// apply type and full description. Each posting is resolved at most once;
// failures leave the walker's defaults in place and are never fatal.
func (s *Scraper) resolveAll(ctx context.Context, postings []*models.JobPosting) {
	for _, posting := range postings {
		p := posting
		s.pool.Submit(func() {
			page, err := s.adapter.OpenDetail(ctx, p.JobURL)
			if err != nil {
				s.logger.Warn("[scraper] Detail page failed for %s: %v", p.JobURL, err)
				return
			}
			defer page.Close()

			p.ApplyLink, p.ApplyType = s.resolver.Resolve(ctx, page, p.JobURL)

			desc, err := page.Description(ctx)
			if err != nil {
				s.logger.Debug("[scraper] Description extraction failed for %s: %v", p.JobURL, err)
			} else if desc != "" {
				p.FullDescription = desc
			}

			s.logger.Debug("[scraper] Resolved %q — apply type: %s", p.Title, p.ApplyType)
		})
	}
	s.pool.Wait()
}

// Close releases the underlying browser session.
func (s *Scraper) Close() error {
	return s.adapter.Close()
}
