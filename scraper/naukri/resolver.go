package naukri

import (
	"context"
	"strings"

	"naukri-scraper/browser"
	"naukri-scraper/models"
	"naukri-scraper/utils"
)

// ApplyLinkResolver disambiguates where an application actually goes: the
// employer's own site, Naukri's apply flow, or nowhere identifiable. The
// decision chain is evaluated in strict order and every posting always ends
// up with a usable link.
type ApplyLinkResolver struct {
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// NewResolver creates a resolver. Transient extraction errors (stale element,
// navigation race) are retried per the given retry policy before the chain
// falls through to the next rule.
func NewResolver(logger *utils.Logger, retry *utils.RetryConfig) *ApplyLinkResolver {
	return &ApplyLinkResolver{logger: logger, retry: retry}
}

// Resolve determines (apply_link, apply_type) for an opened detail page.
// fallback is the posting's canonical detail URL; it is returned whenever no
// better target can be extracted, so the link is never empty.
func (r *ApplyLinkResolver) Resolve(ctx context.Context, page browser.DetailPage, fallback string) (string, string) {
	if link, ok := r.employerLink(ctx, page); ok {
		return link, models.ApplyTypeExternal
	}

	ctrl, present, err := page.SiteApplyControl(ctx)
	if err != nil {
		r.logger.Debug("[resolver] Site apply probe failed: %v", err)
	} else if present {
		if ctrl.Href != "" {
			return ctrl.Href, models.ApplyTypeNaukri
		}
		return fallback, models.ApplyTypeNaukri
	}

	return fallback, models.ApplyTypeUnresolved
}

// employerLink tries, in order: the control's direct href, a URL recovered
// from its script-bound handler, and finally activating the control and
// capturing where it navigated. Only an off-site URL counts.
func (r *ApplyLinkResolver) employerLink(ctx context.Context, page browser.DetailPage) (string, bool) {
	var link string

	err := r.retry.Do(ctx, "employer-apply", func() error {
		link = ""

		ctrl, present, err := page.EmployerApplyControl(ctx)
		if err != nil {
			return err
		}
		if !present {
			return nil
		}

		if offsite(ctrl.Href) {
			link = ctrl.Href
			return nil
		}
		if offsite(ctrl.ScriptTarget) {
			link = ctrl.ScriptTarget
			return nil
		}

		captured, err := page.ActivateEmployerApply(ctx)
		if err != nil {
			return err
		}
		if offsite(captured) {
			link = captured
		}
		return nil
	})
	if err != nil {
		r.logger.Debug("[resolver] Employer apply extraction gave up: %v", err)
		return "", false
	}
	return link, link != ""
}

// offsite reports whether url is a usable application target hosted outside
// the source site.
func offsite(url string) bool {
	return url != "" && !strings.Contains(url, "naukri.com")
}
