package models

import "time"

// SourceLabel identifies where the postings came from in persisted artifacts.
const SourceLabel = "Naukri.com"

// RunMetadata summarises a completed run.
type RunMetadata struct {
	TotalJobs int       `json:"total_jobs"`
	ScrapedAt time.Time `json:"scraped_at"`
	Source    string    `json:"source"`
}

// ResultSet is the durable record of the most recent completed run. It is
// what gets written to disk and served back to polling clients.
type ResultSet struct {
	Metadata RunMetadata   `json:"metadata"`
	Jobs     []*JobPosting `json:"jobs"`
}

// NewResultSet stamps the given postings with run metadata.
func NewResultSet(jobs []*JobPosting) *ResultSet {
	if jobs == nil {
		jobs = []*JobPosting{}
	}
	return &ResultSet{
		Metadata: RunMetadata{
			TotalJobs: len(jobs),
			ScrapedAt: time.Now().UTC().Truncate(time.Second),
			Source:    SourceLabel,
		},
		Jobs: jobs,
	}
}
