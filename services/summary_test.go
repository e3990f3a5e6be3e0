package services

import (
	"strings"
	"testing"

	"naukri-scraper/models"
)

func TestSummarizeCountsApplyTypes(t *testing.T) {
	jobs := []*models.JobPosting{
		{ApplyType: models.ApplyTypeExternal, Location: "Pune"},
		{ApplyType: models.ApplyTypeExternal, Location: "Pune"},
		{ApplyType: models.ApplyTypeNaukri, Location: "Bangalore"},
		{ApplyType: models.ApplyTypeUnresolved, Location: "N/A"},
	}

	s := Summarize(jobs)
	if s.Total != 4 || s.External != 2 || s.Naukri != 1 || s.Unresolved != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.ByLocation["Pune"] != 2 {
		t.Errorf("expected 2 postings in Pune, got %d", s.ByLocation["Pune"])
	}
}

func TestSummaryStringEmpty(t *testing.T) {
	s := Summarize(nil)
	out := s.String()
	if !strings.Contains(out, "0 jobs") || !strings.Contains(out, "none") {
		t.Errorf("unexpected empty summary: %s", out)
	}
}
