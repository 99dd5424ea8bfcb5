package imdb

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/playwright-community/playwright-go"
)

type BrowserOptions struct {
	Headless bool
	// path to a chromium binary, empty means the playwright-managed one
	ExecutablePath string
}

// Browser owns the single long-lived headless browser process shared by
// all scrape sessions. The process is launched lazily on first use and
// relaunched when the existing handle reports disconnected. Launch and
// relaunch happen under the mutex so N sessions starting against a dead
// handle produce one relaunch, not N.
type Browser struct {
	opts BrowserOptions

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewBrowser(opts BrowserOptions) *Browser {
	return &Browser{opts: opts}
}

func (b *Browser) handle(ctx context.Context) (playwright.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil && b.browser.IsConnected() {
		return b.browser, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if b.pw == nil {
		pw, err := playwright.Run()
		if err != nil {
			return nil, fmt.Errorf("start playwright: %w", err)
		}
		b.pw = pw
	}

	slog.InfoContext(ctx, "launching browser", "headless", b.opts.Headless)

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.opts.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
		},
	}
	if b.opts.ExecutablePath != "" {
		launchOpts.ExecutablePath = playwright.String(b.opts.ExecutablePath)
	}

	browser, err := b.pw.Chromium.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	b.browser = browser
	return browser, nil
}

// NewPage opens an isolated page with a realistic desktop user-agent and
// viewport. The caller must close it on every exit path.
func (b *Browser) NewPage(ctx context.Context) (playwright.Page, error) {
	browser, err := b.handle(ctx)
	if err != nil {
		return nil, err
	}

	page, err := browser.NewPage(playwright.BrowserNewPageOptions{
		UserAgent: playwright.String(userAgent),
		Viewport: &playwright.Size{
			Width:  1920,
			Height: 1080,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	return page, nil
}

func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil && b.browser.IsConnected() {
		err := b.browser.Close()
		if err != nil {
			return err
		}
	}
	b.browser = nil

	if b.pw != nil {
		err := b.pw.Stop()
		if err != nil {
			return err
		}
		b.pw = nil
	}
	return nil
}
