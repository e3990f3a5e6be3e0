package models

import (
	"fmt"
	"strings"
)

// Sort orders accepted by Naukri search.
const (
	SortByDate      = "date"
	SortByRelevance = "relevance"
)

// FreshnessWindows are the posting-age filters Naukri supports, in days.
var FreshnessWindows = []int{1, 3, 7, 15, 30}

// SearchCriteria describes one job search. It is validated once, before any
// browser action, and never mutated afterwards.
type SearchCriteria struct {
	Keyword    string `json:"keyword"`
	Location   string `json:"location"`
	Experience int    `json:"experience"`
	MaxJobs    int    `json:"max_jobs"`
	SortBy     string `json:"sort_by"`
	Freshness  int    `json:"freshness"`
}

// ScrapeOptions toggles the optional phases of a run.
type ScrapeOptions struct {
	DeepScrape   bool `json:"deep_scrape"`
	RequireLogin bool `json:"require_login"`
}

// Validate checks the criteria against the domain constraints. It returns a
// caller-facing error describing the first violation found.
func (c SearchCriteria) Validate() error {
	if strings.TrimSpace(c.Keyword) == "" {
		return fmt.Errorf("keyword is required")
	}
	if c.Experience < 0 {
		return fmt.Errorf("experience cannot be negative")
	}
	if c.MaxJobs <= 0 {
		return fmt.Errorf("max_jobs must be a positive integer")
	}
	if c.SortBy != SortByDate && c.SortBy != SortByRelevance {
		return fmt.Errorf("sort_by must be either %q or %q", SortByDate, SortByRelevance)
	}
	valid := false
	for _, w := range FreshnessWindows {
		if c.Freshness == w {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("freshness must be one of: 1, 3, 7, 15, 30")
	}
	return nil
}
