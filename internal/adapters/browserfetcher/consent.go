package browserfetcher

import (
	"context"
	"time"

	"github.com/Oikion/mvp-sub003/internal/core/port"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// Known consent-dismissal controls, tried in order. Failing to dismiss
// is non-fatal: some portals show no overlay, some render it after our
// settle window, and extraction often works underneath it anyway.
var consentSelectors = []string{
	`#onetrust-accept-btn-handler`,
	`#didomi-notice-agree-button`,
	`button[id*="accept"]`,
	`button[class*="accept"]`,
	`button[class*="consent"]`,
	`.qc-cmp2-summary-buttons button[mode="primary"]`,
	`button[aria-label*="ποδοχή"]`,
}

// Consent managers that render the dialog inside an embedded frame.
var consentFrameSelectors = []string{
	`iframe[id^="sp_message_iframe"]`,
	`iframe[src*="consent"]`,
	`iframe[title*="Consent"]`,
}

const consentClickTimeout = 2 * time.Second

// dismissConsent tries the dismissal cascade against the top document,
// then against known consent frames.
func dismissConsent(ctx context.Context, logger port.LoggerPort) {
	for _, sel := range consentSelectors {
		if clickQuiet(ctx, sel, nil) {
			logger.Debug("Consent overlay dismissed", port.Fields{"selector": sel})
			return
		}
	}

	for _, frameSel := range consentFrameSelectors {
		var frames []*cdp.Node
		nodesCtx, cancel := context.WithTimeout(ctx, consentClickTimeout)
		err := chromedp.Run(nodesCtx, chromedp.Nodes(frameSel, &frames, chromedp.ByQueryAll, chromedp.AtLeast(0)))
		cancel()
		if err != nil || len(frames) == 0 {
			continue
		}
		for _, sel := range consentSelectors {
			if clickQuiet(ctx, sel, frames[0]) {
				logger.Debug("Consent overlay dismissed inside frame", port.Fields{
					"frame":    frameSel,
					"selector": sel,
				})
				return
			}
		}
	}

	logger.Debug("No consent control matched; continuing", nil)
}

// clickQuiet attempts one click with a short timeout and reports
// success; errors are swallowed, absence of the node is expected.
func clickQuiet(ctx context.Context, sel string, frame *cdp.Node) bool {
	opts := []chromedp.QueryOption{chromedp.ByQuery, chromedp.NodeVisible}
	if frame != nil {
		opts = append(opts, chromedp.FromNode(frame))
	}
	clickCtx, cancel := context.WithTimeout(ctx, consentClickTimeout)
	defer cancel()
	return chromedp.Run(clickCtx, chromedp.Click(sel, opts...)) == nil
}
