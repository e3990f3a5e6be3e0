package browser

import (
	"context"
	"fmt"
	"sync"
)

// FakeAdapter is an in-memory Adapter for exercising the scraping engine
// without a real browser. Pages holds the cards returned for successive
// search navigations; Details maps job URLs to scripted detail pages.
type FakeAdapter struct {
	mu sync.Mutex

	// LoginSucceedsAfter is the number of SessionActive probes that report
	// false before the fake reports an authenticated session. Negative means
	// login is never detected.
	LoginSucceedsAfter int

	Pages   [][]RawCard
	Details map[string]*FakeDetail

	OpenLoginErr  error
	OpenSearchErr error
	ExtractErr    error

	probes      int
	searches    int
	extracts    int
	SearchURLs  []string
	LoginOpened bool
	Closed      bool
}

func (f *FakeAdapter) OpenLogin(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginOpened = true
	return f.OpenLoginErr
}

func (f *FakeAdapter) SessionActive(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LoginSucceedsAfter < 0 {
		return false, nil
	}
	f.probes++
	return f.probes > f.LoginSucceedsAfter, nil
}

func (f *FakeAdapter) OpenSearch(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.OpenSearchErr != nil {
		return f.OpenSearchErr
	}
	f.SearchURLs = append(f.SearchURLs, url)
	f.searches++
	return nil
}

func (f *FakeAdapter) ScrollPage(ctx context.Context, scrolls int) error {
	return nil
}

func (f *FakeAdapter) ExtractCards(ctx context.Context) ([]RawCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ExtractErr != nil {
		return nil, f.ExtractErr
	}
	idx := f.extracts
	f.extracts++
	if idx >= len(f.Pages) {
		return nil, nil
	}
	return f.Pages[idx], nil
}

func (f *FakeAdapter) OpenDetail(ctx context.Context, jobURL string) (DetailPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.Details[jobURL]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("fake: no detail page scripted for %q", jobURL)
}

func (f *FakeAdapter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// FakeDetail is a scripted DetailPage. Nil controls mean the page does not
// have that control. TransientErrs makes the employer-control probe fail that
// many times before succeeding, for exercising retry behaviour.
type FakeDetail struct {
	mu sync.Mutex

	Employer *ApplyControl
	Site     *ApplyControl

	ActivateURL string
	ActivateErr error

	Desc          string
	TransientErrs int

	ClosedCount int
}

func (d *FakeDetail) EmployerApplyControl(ctx context.Context) (ApplyControl, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.TransientErrs > 0 {
		d.TransientErrs--
		return ApplyControl{}, false, fmt.Errorf("fake: stale element")
	}
	if d.Employer == nil {
		return ApplyControl{}, false, nil
	}
	return *d.Employer, true, nil
}

func (d *FakeDetail) SiteApplyControl(ctx context.Context) (ApplyControl, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Site == nil {
		return ApplyControl{}, false, nil
	}
	return *d.Site, true, nil
}

func (d *FakeDetail) ActivateEmployerApply(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ActivateErr != nil {
		return "", d.ActivateErr
	}
	if d.ActivateURL == "" {
		return "", fmt.Errorf("fake: click produced no navigation")
	}
	return d.ActivateURL, nil
}

func (d *FakeDetail) Description(ctx context.Context) (string, error) {
	return d.Desc, nil
}

func (d *FakeDetail) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ClosedCount++
	return nil
}
