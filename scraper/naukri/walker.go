package naukri

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"naukri-scraper/browser"
	"naukri-scraper/models"
	"naukri-scraper/utils"
)

// ListingWalker paginates search results and yields job postings. Each Walk
// performs fresh navigation; it stops once max_jobs records are collected or
// a page contributes nothing new.
type ListingWalker struct {
	adapter browser.Adapter
	logger  *utils.Logger
	scrolls int
	pacing  time.Duration
}

// NewListingWalker creates a walker. scrolls is the per-page scroll count
// used to trigger lazy loading; pacing is the delay between page navigations.
func NewListingWalker(adapter browser.Adapter, logger *utils.Logger, scrolls int, pacing time.Duration) *ListingWalker {
	if scrolls < 1 {
		scrolls = 1
	}
	return &ListingWalker{adapter: adapter, logger: logger, scrolls: scrolls, pacing: pacing}
}

// Walk collects postings for the given criteria. Per-card extraction failures
// are skipped and logged, never fatal; a navigation failure on the first page
// fails the walk, later pages just end it.
func (w *ListingWalker) Walk(ctx context.Context, criteria models.SearchCriteria) ([]*models.JobPosting, error) {
	seen := utils.NewURLSet()
	postings := make([]*models.JobPosting, 0, criteria.MaxJobs)

pages:
	for page := 1; ; page++ {
		searchURL := BuildSearchURL(criteria, page)
		w.logger.Info("[walker] Page %d — %s", page, searchURL)

		if err := w.adapter.OpenSearch(ctx, searchURL); err != nil {
			if page == 1 {
				return nil, fmt.Errorf("open search page: %w", err)
			}
			w.logger.Warn("[walker] Page %d navigation failed, stopping: %v", page, err)
			break
		}

		if err := w.adapter.ScrollPage(ctx, w.scrolls); err != nil {
			w.logger.Warn("[walker] Scroll failed on page %d: %v", page, err)
		}

		cards, err := w.adapter.ExtractCards(ctx)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("extract job cards: %w", err)
			}
			w.logger.Warn("[walker] Page %d extraction failed, stopping: %v", page, err)
			break
		}
		w.logger.Info("[walker] Page %d — found %d job cards", page, len(cards))

		added := 0
		for i, card := range cards {
			if card.JobURL == "" {
				w.logger.Warn("[walker] Skipping card %d on page %d: no job URL", i+1, page)
				continue
			}
			if !seen.Add(card.JobURL) {
				w.logger.Debug("[walker] Duplicate skipped: %s", card.JobURL)
				continue
			}

			postings = append(postings, postingFromCard(card))
			added++

			if len(postings) >= criteria.MaxJobs {
				break pages
			}
		}

		if added == 0 {
			w.logger.Info("[walker] Page %d contributed no new postings — stopping", page)
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(w.pacing):
		}
	}

	postings = filterFreshness(postings, criteria.Freshness)
	if criteria.SortBy == models.SortByDate {
		sortByRecency(postings)
	}
	for i, p := range postings {
		p.Index = i + 1
	}

	w.logger.Info("[walker] Collected %d postings", len(postings))
	return postings, nil
}

// postingFromCard builds a JobPosting from raw card fields, applying the
// "N/A" fallback for anything the page did not expose. The apply link
// defaults to the detail URL until the resolver enriches it.
func postingFromCard(card browser.RawCard) *models.JobPosting {
	return &models.JobPosting{
		JobID:      strings.TrimSpace(card.JobID),
		Title:      orNA(card.Title),
		Company:    orNA(card.Company),
		Experience: orNA(card.Experience),
		Salary:     orNA(card.Salary),
		Location:   orNA(card.Location),
		PostedDate: orNA(card.PostedDate),
		JobURL:     card.JobURL,
		ApplyLink:  card.JobURL,
		ApplyType:  models.ApplyTypeNaukri,
	}
}

func orNA(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "N/A"
	}
	return s
}

// BuildSearchURL assembles the Naukri search URL for one results page, e.g.
// https://www.naukri.com/python-developer-jobs-in-bangalore?experience=3&...
func BuildSearchURL(criteria models.SearchCriteria, page int) string {
	searchURL := BaseURL + "/" + slugify(criteria.Keyword) + "-jobs"
	if strings.TrimSpace(criteria.Location) != "" {
		searchURL += "-in-" + slugify(criteria.Location)
	}

	params := url.Values{}
	params.Set("experience", strconv.Itoa(criteria.Experience))
	params.Set("jobAge", strconv.Itoa(criteria.Freshness))
	if criteria.SortBy == models.SortByDate {
		params.Set("sort", "f")
	} else {
		params.Set("sort", "r")
	}
	if page > 1 {
		params.Set("pageNo", strconv.Itoa(page))
	}

	return searchURL + "?" + params.Encode()
}

func slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), "-")
}
