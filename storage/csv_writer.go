package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"naukri-scraper/models"
)

// CSVWriter exports a completed run's postings to a CSV file for spreadsheet
// consumers. Each run replaces the previous export.
type CSVWriter struct {
	mu   sync.Mutex
	path string
}

// NewCSVWriter creates an exporter writing to the given path.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Archive writes the postings, truncating any previous export.
func (c *CSVWriter) Archive(jobs []*models.JobPosting) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", c.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"index", "job_id", "title", "company", "experience", "salary",
		"location", "posted_date", "job_url", "apply_link", "apply_type",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, j := range jobs {
		row := []string{
			strconv.Itoa(j.Index),
			j.JobID,
			j.Title,
			j.Company,
			j.Experience,
			j.Salary,
			j.Location,
			j.PostedDate,
			j.JobURL,
			j.ApplyLink,
			j.ApplyType,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// Close is a no-op; the file is opened and closed per export.
func (c *CSVWriter) Close() error { return nil }
