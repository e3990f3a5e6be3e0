package storage

import "naukri-scraper/models"

// ResultStore persists and reloads the durable record of the most recent
// completed run.
type ResultStore interface {
	Save(results *models.ResultSet) error
	Load() (*models.ResultSet, error)
}

// Archiver receives a completed run's postings for secondary storage. Archive
// failures are best-effort: they never fail a run.
type Archiver interface {
	Archive(jobs []*models.JobPosting) error
	Close() error
}
