package imdb

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"
)

const navigationTimeout = time.Second * 30
const titleNavigationTimeout = time.Second * 20

func navigate(ctx context.Context, page playwright.Page, link string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := page.Goto(link, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	return err
}

// the target renders content client-side with no reliable completion
// signal, so a fixed settle delay after DOM-ready is the best we can do
func settle(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// best-effort dismissal of the cookie-consent overlay, bounded wait,
// absence is not an error
func dismissConsent(ctx context.Context, page playwright.Page) {
	consent := page.Locator(`button:has-text("Accept")`).First()
	err := consent.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(2000),
	})
	if err != nil {
		return
	}
	settle(ctx, time.Millisecond*500)
}

// snapshot the rendered page into a goquery document for extraction
func document(page playwright.Page) (*goquery.Document, error) {
	content, err := page.Content()
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(content))
}
