package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"naukri-scraper/models"
)

// PostgresWriter keeps an append-only archive of scraped postings across
// runs, keyed by job URL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS job_postings (
			id          SERIAL PRIMARY KEY,
			job_id      TEXT        NOT NULL DEFAULT '',
			title       TEXT        NOT NULL,
			company     TEXT        NOT NULL DEFAULT '',
			experience  TEXT        NOT NULL DEFAULT '',
			salary      TEXT        NOT NULL DEFAULT '',
			location    TEXT        NOT NULL DEFAULT '',
			posted_date TEXT        NOT NULL DEFAULT '',
			job_url     TEXT        UNIQUE NOT NULL,
			apply_link  TEXT        NOT NULL,
			apply_type  TEXT        NOT NULL,
			description TEXT        NOT NULL DEFAULT '',
			scraped_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

// Archive upserts the run's postings; a posting seen in an earlier run is
// refreshed in place rather than duplicated.
func (pw *PostgresWriter) Archive(jobs []*models.JobPosting) error {
	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO job_postings
			(job_id, title, company, experience, salary, location, posted_date,
			 job_url, apply_link, apply_type, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (job_url) DO UPDATE SET
			title       = EXCLUDED.title,
			company     = EXCLUDED.company,
			experience  = EXCLUDED.experience,
			salary      = EXCLUDED.salary,
			location    = EXCLUDED.location,
			posted_date = EXCLUDED.posted_date,
			apply_link  = EXCLUDED.apply_link,
			apply_type  = EXCLUDED.apply_type,
			description = EXCLUDED.description,
			scraped_at  = NOW()`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("postgres: prepare: %w", err)
	}
	defer stmt.Close()

	for _, j := range jobs {
		_, err := stmt.Exec(j.JobID, j.Title, j.Company, j.Experience, j.Salary,
			j.Location, j.PostedDate, j.JobURL, j.ApplyLink, j.ApplyType, j.FullDescription)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("postgres: insert %q: %w", j.JobURL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
