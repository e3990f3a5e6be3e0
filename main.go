package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"naukri-scraper/api"
	"naukri-scraper/browser"
	"naukri-scraper/config"
	"naukri-scraper/models"
	"naukri-scraper/scraper/naukri"
	"naukri-scraper/services"
	"naukri-scraper/storage"
	"naukri-scraper/utils"
)

func main() {
	keyword := flag.String("keyword", "", `run a single scrape for this keyword instead of serving the API (e.g. "Python Developer")`)
	location := flag.String("location", "", `job location (e.g. "Bangalore")`)
	experience := flag.Int("experience", 0, "years of experience")
	maxJobs := flag.Int("max-jobs", 20, "maximum number of postings to collect")
	sortBy := flag.String("sort-by", models.SortByRelevance, `sort order: "date" or "relevance"`)
	freshness := flag.Int("freshness", 30, "maximum posting age in days (1, 3, 7, 15 or 30)")
	deepScrape := flag.Bool("deep-scrape", false, "visit each posting to resolve its apply link (slower)")
	login := flag.Bool("login", false, "wait for interactive login before scraping")
	output := flag.String("output", "", "override the results JSON path (one-shot mode)")
	flag.Parse()

	logger := utils.NewLogger()
	cfg := config.Load()

	factory := func(opts models.ScrapeOptions) (services.Runner, error) {
		headless := cfg.Headless
		if opts.RequireLogin {
			// The user has to see the login page to complete it.
			headless = false
		}
		chrome, err := browser.NewChrome(cfg, logger, headless)
		if err != nil {
			return nil, err
		}
		return naukri.New(cfg, logger, chrome), nil
	}

	resultsPath := cfg.ResultsPath
	if *output != "" {
		resultsPath = *output
	}
	store := storage.NewJSONStore(resultsPath)

	if *keyword != "" {
		criteria := models.SearchCriteria{
			Keyword:    *keyword,
			Location:   *location,
			Experience: *experience,
			MaxJobs:    *maxJobs,
			SortBy:     *sortBy,
			Freshness:  *freshness,
		}
		opts := models.ScrapeOptions{DeepScrape: *deepScrape, RequireLogin: *login}
		if err := runOnce(cfg, logger, factory, store, criteria, opts); err != nil {
			logger.Error("Scrape failed: %v", err)
			os.Exit(1)
		}
		return
	}

	archivers := buildArchivers(cfg, logger)
	defer func() {
		for _, a := range archivers {
			_ = a.Close()
		}
	}()

	orch := services.NewOrchestrator(logger, factory, store, archivers...)
	handlers := api.Handlers{Orchestrator: orch, Config: cfg, Logger: logger}

	logger.Info("=== Naukri scraper service starting ===")
	if err := api.Start(cfg.ListenAddr, api.Routes(handlers), logger); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}

// runOnce performs a single scrape without the HTTP server and writes the
// JSON artifact.
func runOnce(cfg *config.Config, logger *utils.Logger, factory services.RunnerFactory, store *storage.JSONStore, criteria models.SearchCriteria, opts models.ScrapeOptions) error {
	if err := criteria.Validate(); err != nil {
		return err
	}

	runner, err := factory(opts)
	if err != nil {
		return fmt.Errorf("browser startup: %w", err)
	}
	defer runner.Close()

	postings, err := runner.Run(context.Background(), criteria, opts, func(percent int, message string) {
		logger.Info("[%3d%%] %s", percent, message)
	})
	if err != nil {
		return err
	}

	results := models.NewResultSet(postings)
	if err := store.Save(results); err != nil {
		return err
	}

	summary := services.Summarize(results.Jobs)
	logger.Info("Done: %s", summary)
	fmt.Printf("\nSaved %d jobs\n", results.Metadata.TotalJobs)
	return nil
}

// buildArchivers assembles the optional secondary sinks for completed runs.
func buildArchivers(cfg *config.Config, logger *utils.Logger) []storage.Archiver {
	var archivers []storage.Archiver

	if cfg.CSVExportPath != "" {
		archivers = append(archivers, storage.NewCSVWriter(cfg.CSVExportPath))
		logger.Info("CSV export enabled: %s", cfg.CSVExportPath)
	}

	if cfg.ArchiveEnabled {
		pg, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("PostgreSQL archive disabled: %v", err)
		} else {
			archivers = append(archivers, pg)
			logger.Info("PostgreSQL archive enabled (table: job_postings)")
		}
	}

	return archivers
}
