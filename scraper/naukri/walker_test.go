package naukri

import (
	"context"
	"strings"
	"testing"

	"naukri-scraper/browser"
	"naukri-scraper/models"
	"naukri-scraper/utils"
)

func card(url, title string) browser.RawCard {
	return browser.RawCard{Title: title, JobURL: url, Company: "Acme"}
}

func newTestWalker(adapter browser.Adapter) *ListingWalker {
	return NewListingWalker(adapter, utils.NewLogger(), 1, 0)
}

func walkCriteria(maxJobs int) models.SearchCriteria {
	return models.SearchCriteria{
		Keyword:    "golang developer",
		Location:   "Pune",
		Experience: 2,
		MaxJobs:    maxJobs,
		SortBy:     models.SortByRelevance,
		Freshness:  30,
	}
}

func TestWalkRespectsMaxJobs(t *testing.T) {
	fake := &browser.FakeAdapter{
		Pages: [][]browser.RawCard{
			{card("https://www.naukri.com/j1", "a"), card("https://www.naukri.com/j2", "b")},
			{card("https://www.naukri.com/j3", "c"), card("https://www.naukri.com/j4", "d")},
		},
	}

	jobs, err := newTestWalker(fake).Walk(context.Background(), walkCriteria(3))
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if len(jobs) != 3 {
		t.Errorf("expected exactly max_jobs=3 postings, got %d", len(jobs))
	}
}

func TestWalkDeduplicatesByJobURL(t *testing.T) {
	fake := &browser.FakeAdapter{
		Pages: [][]browser.RawCard{
			{card("https://www.naukri.com/j1", "a"), card("https://www.naukri.com/j1", "a dup")},
			{card("https://www.naukri.com/j1", "a again"), card("https://www.naukri.com/j2", "b")},
		},
	}

	jobs, err := newTestWalker(fake).Walk(context.Background(), walkCriteria(10))
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	seen := map[string]bool{}
	for _, j := range jobs {
		if seen[j.JobURL] {
			t.Errorf("duplicate job_url yielded: %s", j.JobURL)
		}
		seen[j.JobURL] = true
	}
	if len(jobs) != 2 {
		t.Errorf("expected 2 unique postings, got %d", len(jobs))
	}
}

func TestWalkStopsWhenPageAddsNothing(t *testing.T) {
	fake := &browser.FakeAdapter{
		Pages: [][]browser.RawCard{
			{card("https://www.naukri.com/j1", "a")},
			{}, // site ran out of content
			{card("https://www.naukri.com/j2", "never reached")},
		},
	}

	jobs, err := newTestWalker(fake).Walk(context.Background(), walkCriteria(10))
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("expected walk to stop after empty page, got %d postings", len(jobs))
	}
}

func TestWalkSkipsCardsWithoutURL(t *testing.T) {
	fake := &browser.FakeAdapter{
		Pages: [][]browser.RawCard{
			{card("", "broken card"), card("https://www.naukri.com/j1", "ok")},
		},
	}

	jobs, err := newTestWalker(fake).Walk(context.Background(), walkCriteria(10))
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("expected broken card to be skipped, got %d postings", len(jobs))
	}
}

func TestWalkAppliesFieldFallbacks(t *testing.T) {
	fake := &browser.FakeAdapter{
		Pages: [][]browser.RawCard{
			{{JobURL: "https://www.naukri.com/j1", Title: "Engineer"}},
		},
	}

	jobs, err := newTestWalker(fake).Walk(context.Background(), walkCriteria(10))
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	j := jobs[0]
	for field, val := range map[string]string{
		"company":     j.Company,
		"experience":  j.Experience,
		"salary":      j.Salary,
		"location":    j.Location,
		"posted_date": j.PostedDate,
	} {
		if val != "N/A" {
			t.Errorf("missing %s should fall back to N/A, got %q", field, val)
		}
	}
	if j.ApplyLink != j.JobURL {
		t.Errorf("apply link should default to job URL, got %q", j.ApplyLink)
	}
	if j.Index != 1 {
		t.Errorf("index should be 1-based, got %d", j.Index)
	}
}

func TestWalkIndexesAfterSorting(t *testing.T) {
	fake := &browser.FakeAdapter{
		Pages: [][]browser.RawCard{{
			{JobURL: "https://www.naukri.com/j1", Title: "old", PostedDate: "7 Days Ago"},
			{JobURL: "https://www.naukri.com/j2", Title: "new", PostedDate: "Today"},
		}},
	}

	criteria := walkCriteria(10)
	criteria.SortBy = models.SortByDate

	jobs, err := newTestWalker(fake).Walk(context.Background(), criteria)
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if jobs[0].Title != "new" || jobs[0].Index != 1 || jobs[1].Index != 2 {
		t.Errorf("expected recency-sorted 1-based indexes, got %+v", jobs)
	}
}

func TestBuildSearchURL(t *testing.T) {
	criteria := models.SearchCriteria{
		Keyword:    "Python Developer",
		Location:   "New Delhi",
		Experience: 3,
		MaxJobs:    20,
		SortBy:     models.SortByDate,
		Freshness:  7,
	}

	url := BuildSearchURL(criteria, 1)
	if !strings.HasPrefix(url, "https://www.naukri.com/python-developer-jobs-in-new-delhi?") {
		t.Errorf("unexpected URL prefix: %s", url)
	}
	for _, want := range []string{"experience=3", "jobAge=7", "sort=f"} {
		if !strings.Contains(url, want) {
			t.Errorf("URL missing %q: %s", want, url)
		}
	}
	if strings.Contains(url, "pageNo") {
		t.Errorf("first page should not carry pageNo: %s", url)
	}

	page2 := BuildSearchURL(criteria, 2)
	if !strings.Contains(page2, "pageNo=2") {
		t.Errorf("page 2 URL missing pageNo: %s", page2)
	}

	criteria.Location = ""
	criteria.SortBy = models.SortByRelevance
	url = BuildSearchURL(criteria, 1)
	if strings.Contains(url, "-in-") {
		t.Errorf("empty location should not add -in- segment: %s", url)
	}
	if !strings.Contains(url, "sort=r") {
		t.Errorf("relevance sort missing: %s", url)
	}
}
