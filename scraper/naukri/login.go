package naukri

import (
	"context"
	"fmt"
	"time"

	"naukri-scraper/browser"
	"naukri-scraper/utils"
)

// LoginDetector waits for a user to complete an interactive login. It opens
// the login page and samples the session at a fixed interval; it never sees
// credentials, only post-login page evidence.
type LoginDetector struct {
	adapter  browser.Adapter
	logger   *utils.Logger
	timeout  time.Duration
	interval time.Duration
}

// NewLoginDetector creates a detector with the given bounds. Non-positive
// values fall back to the 120s/5s defaults.
func NewLoginDetector(adapter browser.Adapter, logger *utils.Logger, timeout, interval time.Duration) *LoginDetector {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &LoginDetector{adapter: adapter, logger: logger, timeout: timeout, interval: interval}
}

// AwaitLogin opens the login entry point and polls until an authenticated
// session is detected or the timeout elapses. The outcome is binary: false
// means the timeout passed without evidence, never a partial login. An error
// is returned only when the login page itself cannot be opened.
func (d *LoginDetector) AwaitLogin(ctx context.Context) (bool, error) {
	d.logger.Info("[login] Opening login page — waiting up to %v for user login", d.timeout)

	if err := d.adapter.OpenLogin(ctx); err != nil {
		return false, fmt.Errorf("open login page: %w", err)
	}

	deadline := time.Now().Add(d.timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			d.logger.Warn("[login] Timeout — user did not complete login in %v", d.timeout)
			return false, nil
		}

		wait := d.interval
		if wait > remaining {
			wait = remaining
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(wait):
		}

		active, err := d.adapter.SessionActive(ctx)
		if err != nil {
			// Probe failures are not evidence either way; keep sampling.
			d.logger.Debug("[login] Session probe failed: %v", err)
			continue
		}
		if active {
			d.logger.Info("[login] User login detected")
			return true, nil
		}
		d.logger.Info("[login] Waiting for login... (%.0fs remaining)", time.Until(deadline).Seconds())
	}
}
