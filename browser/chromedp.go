package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"naukri-scraper/config"
	"naukri-scraper/utils"
)

const (
	baseURL  = "https://www.naukri.com"
	loginURL = "https://www.naukri.com/nlogin/login"

	navTimeout     = 60 * time.Second
	extractTimeout = 30 * time.Second
	captureTimeout = 6 * time.Second
)

// urlRegexp recovers an absolute URL from a script-bound click handler.
var urlRegexp = regexp.MustCompile(`https?://[^'"\s)]+`)

// Chrome is the chromedp-backed Adapter. The whole run shares one browser so
// the login session carries across navigations; detail pages open in their
// own tabs off the same browser.
type Chrome struct {
	cfg    *config.Config
	logger *utils.Logger

	cancelAlloc   context.CancelFunc
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
}

// NewChrome launches a browser session. headless=false is used for
// interactive login runs, where the user must see the login page.
func NewChrome(cfg *config.Config, logger *utils.Logger, headless bool) (*Chrome, error) {
	chromeBin := findChromeBinary(cfg.ChromeBin)
	logger.Info("[browser] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))

	if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("browser: launch: %w", err)
	}

	return &Chrome{
		cfg:           cfg,
		logger:        logger,
		cancelAlloc:   cancelAlloc,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
	}, nil
}

// OpenLogin navigates the main tab to the Naukri login page.
func (c *Chrome) OpenLogin(ctx context.Context) error {
	return c.run(ctx, navTimeout,
		chromedp.Navigate(loginURL),
		chromedp.Sleep(c.pageLoadWait()),
	)
}

// SessionActive checks the current page for post-login evidence: a visible
// profile/drawer element, or having left the login page with user-specific
// elements present.
func (c *Chrome) SessionActive(ctx context.Context) (bool, error) {
	var active bool
	err := c.run(ctx, extractTimeout,
		chromedp.Evaluate(`
			(function() {
				var selectors = [
					'.nI-gNb-drawer__icon',
					'[class*="user-name"]',
					'[class*="userinfo"]',
					'.nI-gNb-menuItems__profile'
				];
				for (var i = 0; i < selectors.length; i++) {
					var el = document.querySelector(selectors[i]);
					if (el && el.offsetParent !== null) return true;
				}
				var url = window.location.href.toLowerCase();
				if (url.indexOf('nlogin') === -1 && url.indexOf('login') === -1) {
					var userEls = document.querySelectorAll('[class*="user"], [class*="profile"]');
					if (userEls.length > 3) return true;
				}
				return false;
			})()
		`, &active),
	)
	if err != nil {
		return false, fmt.Errorf("browser: session probe: %w", err)
	}
	return active, nil
}

// OpenSearch loads a search results page in the main tab.
func (c *Chrome) OpenSearch(ctx context.Context, url string) error {
	return c.run(ctx, navTimeout,
		chromedp.Navigate(url),
		chromedp.Sleep(c.pageLoadWait()),
	)
}

// ScrollPage scrolls to the bottom repeatedly so lazily loaded cards render.
func (c *Chrome) ScrollPage(ctx context.Context, scrolls int) error {
	pause := time.Duration(c.cfg.ScrollPauseMs) * time.Millisecond
	for i := 0; i < scrolls; i++ {
		err := c.run(ctx, extractTimeout,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(pause),
		)
		if err != nil {
			return fmt.Errorf("browser: scroll %d/%d: %w", i+1, scrolls, err)
		}
		c.logger.Debug("[browser] Scrolled %d/%d times", i+1, scrolls)
	}
	return nil
}

// ExtractCards reads the job cards off the current results page.
func (c *Chrome) ExtractCards(ctx context.Context) ([]RawCard, error) {
	var cards []RawCard
	err := c.run(ctx, extractTimeout,
		chromedp.Evaluate(`
			(function() {
				var results = [];
				var cards = document.querySelectorAll('.srp-jobtuple-wrapper, .cust-job-tuple');
				for (var i = 0; i < cards.length; i++) {
					var card = cards[i];
					var pick = function(sel) {
						var el = card.querySelector(sel);
						return el ? el.innerText.trim() : '';
					};
					var titleEl = card.querySelector('a.title');
					results.push({
						job_id:      card.getAttribute('data-job-id') || '',
						title:       titleEl ? titleEl.innerText.trim() : '',
						company:     pick('a.comp-name') || pick('.comp-name'),
						experience:  pick('.expwdth') || pick('.exp'),
						salary:      pick('.sal'),
						location:    pick('.locWdth') || pick('.loc'),
						posted_date: pick('.job-post-day'),
						job_url:     titleEl && titleEl.href ? titleEl.href : ''
					});
				}
				return results;
			})()
		`, &cards),
	)
	if err != nil {
		return nil, fmt.Errorf("browser: extract cards: %w", err)
	}

	// Relative hrefs occasionally slip through on slow loads.
	for i := range cards {
		if cards[i].JobURL != "" && !strings.HasPrefix(cards[i].JobURL, "http") {
			cards[i].JobURL = baseURL + cards[i].JobURL
		}
	}
	return cards, nil
}

// OpenDetail opens a job detail page in a fresh tab.
func (c *Chrome) OpenDetail(ctx context.Context, jobURL string) (DetailPage, error) {
	tabCtx, cancel := chromedp.NewContext(c.browserCtx)

	tctx, tcancel := context.WithTimeout(tabCtx, navTimeout)
	defer tcancel()

	err := chromedp.Run(tctx,
		chromedp.Navigate(jobURL),
		chromedp.Sleep(c.pageLoadWait()),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("browser: open detail %q: %w", jobURL, err)
	}

	return &chromeDetail{ctx: tabCtx, cancel: cancel}, nil
}

// Close releases the browser and every tab it owns.
func (c *Chrome) Close() error {
	c.cancelBrowser()
	c.cancelAlloc()
	c.logger.Info("[browser] Browser closed")
	return nil
}

func (c *Chrome) pageLoadWait() time.Duration {
	return time.Duration(c.cfg.PageLoadWaitMs) * time.Millisecond
}

func (c *Chrome) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tctx, cancel := context.WithTimeout(c.browserCtx, timeout)
	defer cancel()
	return chromedp.Run(tctx, actions...)
}

// chromeDetail is a DetailPage backed by one browser tab.
type chromeDetail struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// employerControlJS locates the "apply on company site" control and reports
// its href and onclick attribute.
const employerControlJS = `
	(function() {
		var els = document.querySelectorAll('button, a');
		for (var i = 0; i < els.length; i++) {
			var text = (els[i].innerText || '').toLowerCase();
			if (text.indexOf('apply on company site') !== -1) {
				return {
					present: true,
					href:    els[i].href || '',
					onclick: els[i].getAttribute('onclick') || ''
				};
			}
		}
		return { present: false, href: '', onclick: '' };
	})()
`

const siteControlJS = `
	(function() {
		var el = document.getElementById('apply-button') ||
		         document.querySelector('button.apply-button, a.apply-button');
		if (!el) return { present: false, href: '', onclick: '' };
		return { present: true, href: el.href || '', onclick: '' };
	})()
`

type controlProbe struct {
	Present bool   `json:"present"`
	Href    string `json:"href"`
	Onclick string `json:"onclick"`
}

func (d *chromeDetail) EmployerApplyControl(ctx context.Context) (ApplyControl, bool, error) {
	return d.probe(ctx, employerControlJS)
}

func (d *chromeDetail) SiteApplyControl(ctx context.Context) (ApplyControl, bool, error) {
	return d.probe(ctx, siteControlJS)
}

func (d *chromeDetail) probe(ctx context.Context, js string) (ApplyControl, bool, error) {
	if err := ctx.Err(); err != nil {
		return ApplyControl{}, false, err
	}

	tctx, cancel := context.WithTimeout(d.ctx, extractTimeout)
	defer cancel()

	var p controlProbe
	if err := chromedp.Run(tctx, chromedp.Evaluate(js, &p)); err != nil {
		return ApplyControl{}, false, fmt.Errorf("browser: apply control probe: %w", err)
	}
	if !p.Present {
		return ApplyControl{}, false, nil
	}
	return ApplyControl{
		Href:         p.Href,
		ScriptTarget: urlRegexp.FindString(p.Onclick),
	}, true, nil
}

// ActivateEmployerApply clicks the employer-site control and captures where
// it navigated to: a new tab if one opened, otherwise a same-tab redirect.
func (d *chromeDetail) ActivateEmployerApply(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var before string
	if err := chromedp.Run(d.ctx, chromedp.Location(&before)); err != nil {
		return "", fmt.Errorf("browser: read location: %w", err)
	}

	newTarget := chromedp.WaitNewTarget(d.ctx, func(info *target.Info) bool {
		return info.Type == "page" && info.URL != ""
	})

	var clicked bool
	err := chromedp.Run(d.ctx, chromedp.Evaluate(`
		(function() {
			var els = document.querySelectorAll('button, a');
			for (var i = 0; i < els.length; i++) {
				var text = (els[i].innerText || '').toLowerCase();
				if (text.indexOf('apply on company site') !== -1) {
					els[i].click();
					return true;
				}
			}
			return false;
		})()
	`, &clicked))
	if err != nil {
		return "", fmt.Errorf("browser: activate apply control: %w", err)
	}
	if !clicked {
		return "", fmt.Errorf("browser: apply control disappeared before click")
	}

	select {
	case id := <-newTarget:
		tabCtx, cancel := chromedp.NewContext(d.ctx, chromedp.WithTargetID(id))
		defer cancel()

		var captured string
		err := chromedp.Run(tabCtx,
			chromedp.Location(&captured),
			chromedp.ActionFunc(func(ctx context.Context) error {
				return target.CloseTarget(id).Do(ctx)
			}),
		)
		if err != nil {
			return "", fmt.Errorf("browser: capture new tab: %w", err)
		}
		return captured, nil

	case <-time.After(captureTimeout):
		var after string
		if err := chromedp.Run(d.ctx, chromedp.Location(&after)); err != nil {
			return "", fmt.Errorf("browser: read location after click: %w", err)
		}
		if after != before {
			return after, nil
		}
		return "", fmt.Errorf("browser: click produced no navigation")
	}
}

// Description reads the full job description text off the detail page.
func (d *chromeDetail) Description(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tctx, cancel := context.WithTimeout(d.ctx, extractTimeout)
	defer cancel()

	var desc string
	err := chromedp.Run(tctx, chromedp.Evaluate(`
		(function() {
			var selectors = [
				'section[class*="job-desc"]',
				'div[class*="dang-inner-html"]',
				'.job-desc',
				'[class*="JDC"] section'
			];
			for (var i = 0; i < selectors.length; i++) {
				var el = document.querySelector(selectors[i]);
				if (el && el.innerText.trim().length > 30) {
					return el.innerText.trim();
				}
			}
			return '';
		})()
	`, &desc))
	if err != nil {
		return "", fmt.Errorf("browser: extract description: %w", err)
	}
	return desc, nil
}

func (d *chromeDetail) Close() error {
	d.cancel()
	return nil
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
