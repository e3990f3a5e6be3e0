package services

import (
	"fmt"
	"sort"
	"strings"

	"naukri-scraper/models"
)

// RunSummary aggregates a completed run's postings by resolution outcome and
// location, for the completion log line.
type RunSummary struct {
	Total      int
	External   int
	Naukri     int
	Unresolved int
	ByLocation map[string]int
}

// Summarize computes a RunSummary over the committed postings.
func Summarize(jobs []*models.JobPosting) RunSummary {
	s := RunSummary{
		Total:      len(jobs),
		ByLocation: make(map[string]int),
	}
	for _, j := range jobs {
		switch j.ApplyType {
		case models.ApplyTypeExternal:
			s.External++
		case models.ApplyTypeNaukri:
			s.Naukri++
		case models.ApplyTypeUnresolved:
			s.Unresolved++
		}
		s.ByLocation[j.Location]++
	}
	return s
}

// String renders the summary for logs, listing the top locations.
func (s RunSummary) String() string {
	type locCount struct {
		loc string
		n   int
	}
	locs := make([]locCount, 0, len(s.ByLocation))
	for loc, n := range s.ByLocation {
		locs = append(locs, locCount{loc, n})
	}
	sort.Slice(locs, func(a, b int) bool {
		if locs[a].n != locs[b].n {
			return locs[a].n > locs[b].n
		}
		return locs[a].loc < locs[b].loc
	})
	if len(locs) > 3 {
		locs = locs[:3]
	}

	parts := make([]string, 0, len(locs))
	for _, lc := range locs {
		parts = append(parts, fmt.Sprintf("%s (%d)", lc.loc, lc.n))
	}

	top := "none"
	if len(parts) > 0 {
		top = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%d jobs: %d external, %d naukri, %d unresolved; top locations: %s",
		s.Total, s.External, s.Naukri, s.Unresolved, top)
}
