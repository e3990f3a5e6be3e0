package naukri

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"naukri-scraper/models"
)

// unknownAge ranks postings with unparseable date labels after everything
// with a known age.
const unknownAge = 1 << 20

var daysAgoRegexp = regexp.MustCompile(`(\d+)\+?\s*day`)

// parsePostedAge converts a relative posting-date label into an age in days.
// Labels Naukri uses: "Just now", "Today", "Few hours ago", "1 Day Ago",
// "n Days Ago", "30+ Days Ago". ok is false for anything unrecognised.
func parsePostedAge(label string) (days int, ok bool) {
	s := strings.ToLower(strings.TrimSpace(label))
	if s == "" || s == "n/a" {
		return 0, false
	}

	switch {
	case strings.Contains(s, "just now"),
		strings.Contains(s, "today"),
		strings.Contains(s, "hour"),
		strings.Contains(s, "minute"):
		return 0, true
	case strings.Contains(s, "yesterday"):
		return 1, true
	}

	m := daysAgoRegexp.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	// "30+ days ago" means older than the stated bound.
	if strings.Contains(s, "+") {
		n++
	}
	return n, true
}

// filterFreshness drops postings older than the requested window. Postings
// whose date label cannot be parsed are kept rather than guessed away.
func filterFreshness(jobs []*models.JobPosting, maxAgeDays int) []*models.JobPosting {
	kept := jobs[:0]
	for _, j := range jobs {
		age, ok := parsePostedAge(j.PostedDate)
		if ok && age > maxAgeDays {
			continue
		}
		kept = append(kept, j)
	}
	return kept
}

// sortByRecency re-sorts postings newest-first by parsed age. The upstream
// "most recent first" ordering is unreliable, so this is applied locally when
// date ordering was requested. Postings sharing the same label rank keep
// their original scan order; unparseable labels sort last.
func sortByRecency(jobs []*models.JobPosting) {
	rank := func(j *models.JobPosting) int {
		age, ok := parsePostedAge(j.PostedDate)
		if !ok {
			return unknownAge
		}
		return age
	}
	sort.SliceStable(jobs, func(a, b int) bool {
		return rank(jobs[a]) < rank(jobs[b])
	})
}
