package browser

import "context"

// RawCard holds the field strings extracted from one job card on a search
// results page. Missing fields are empty; callers apply their own fallbacks.
type RawCard struct {
	JobID      string `json:"job_id"`
	Title      string `json:"title"`
	Company    string `json:"company"`
	Experience string `json:"experience"`
	Salary     string `json:"salary"`
	Location   string `json:"location"`
	PostedDate string `json:"posted_date"`
	JobURL     string `json:"job_url"`
}

// ApplyControl describes an apply button or link found on a job detail page.
// Href is set when the control is an anchor with a direct target; ScriptTarget
// is a URL recovered from a script-bound click handler.
type ApplyControl struct {
	Href         string
	ScriptTarget string
}

// DetailPage is a handle to one opened job detail page. Callers must Close it
// when done so the underlying tab is released.
type DetailPage interface {
	// EmployerApplyControl reports the "apply on company site" control, if the
	// page has one.
	EmployerApplyControl(ctx context.Context) (ApplyControl, bool, error)

	// SiteApplyControl reports the same-site apply control, if present.
	SiteApplyControl(ctx context.Context) (ApplyControl, bool, error)

	// ActivateEmployerApply simulates activating the employer-site control and
	// returns the navigation target it produced (new tab or redirect).
	ActivateEmployerApply(ctx context.Context) (string, error)

	// Description returns the full job description text.
	Description(ctx context.Context) (string, error)

	Close() error
}

// Adapter is the capability surface the scraping engine needs from a browser
// session. Implementations own all site-specific selectors; the engine only
// sees field strings and controls.
type Adapter interface {
	// OpenLogin navigates the session to the site's login entry point.
	OpenLogin(ctx context.Context) error

	// SessionActive samples the page for authenticated-session evidence.
	SessionActive(ctx context.Context) (bool, error)

	// OpenSearch navigates the session to a search results URL.
	OpenSearch(ctx context.Context, url string) error

	// ScrollPage scrolls the current page the given number of times to trigger
	// incremental content loading.
	ScrollPage(ctx context.Context, scrolls int) error

	// ExtractCards reads the raw job cards off the current results page.
	ExtractCards(ctx context.Context) ([]RawCard, error)

	// OpenDetail opens a job detail page in its own tab.
	OpenDetail(ctx context.Context, jobURL string) (DetailPage, error)

	// Close releases the browser and every tab it owns.
	Close() error
}
