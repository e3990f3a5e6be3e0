package models

import "time"

// Job lifecycle states. Exactly one ScrapeJob exists per process; terminal
// states are overwritten only by the next accepted start request.
const (
	StateIdle      = "idle"
	StateRunning   = "running"
	StateCompleted = "completed"
	StateFailed    = "failed"
)

// Apply-link resolution outcomes.
const (
	ApplyTypeExternal   = "external"   // employer's own site
	ApplyTypeNaukri     = "naukri"     // application stays on Naukri
	ApplyTypeUnresolved = "unresolved" // no apply control found
)

// ScrapeJob is the polling client's view of the single background scrape job.
type ScrapeJob struct {
	RunID       string    `json:"run_id,omitempty"`
	State       string    `json:"state"`
	Progress    int       `json:"progress"`
	Message     string    `json:"message"`
	LastUpdated time.Time `json:"last_updated"`
	Error       string    `json:"error,omitempty"`
}

// JobPosting is one scraped job record. All display fields are opaque strings
// and fall back to "N/A" when the page does not expose them. ApplyLink is
// never empty: it defaults to JobURL when resolution is skipped or fails.
type JobPosting struct {
	Index           int    `json:"index"`
	JobID           string `json:"job_id,omitempty"`
	Title           string `json:"title"`
	Company         string `json:"company"`
	Experience      string `json:"experience"`
	Salary          string `json:"salary"`
	Location        string `json:"location"`
	PostedDate      string `json:"posted_date"`
	JobURL          string `json:"job_url"`
	ApplyLink       string `json:"apply_link"`
	ApplyType       string `json:"apply_type"`
	FullDescription string `json:"full_description,omitempty"`
}
