package imdb

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

const maxSearchResults = 10

// SearchActors runs the person search against the live site and returns
// whatever entries could be extracted, possibly none. A single entry
// failing to parse never aborts the whole search.
func (b *Browser) SearchActors(ctx context.Context, query string) ([]SearchResult, error) {
	ctx, span := tracer.Start(ctx, "SearchActors")
	defer span.End()

	page, err := b.NewPage(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open page")
		return nil, err
	}
	defer page.Close()

	searchUrl := fmt.Sprintf("%s/find/?q=%s&s=nm", baseUrl, url.QueryEscape(query))
	slog.DebugContext(ctx, "navigating to person search", "url", searchUrl)

	err = navigate(ctx, page, searchUrl, navigationTimeout)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search page failed to load")
		return nil, fmt.Errorf("navigate to search: %w", err)
	}
	if err := settle(ctx, time.Second); err != nil {
		return nil, err
	}
	dismissConsent(ctx, page)

	doc, err := document(page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to snapshot search page")
		return nil, err
	}

	var results []SearchResult
	doc.Find(`[data-testid="find-results-section-name"] li.ipc-metadata-list-summary-item`).
		EachWithBreak(func(_ int, item *goquery.Selection) bool {
			entry, ok := extractSearchEntry(item)
			if !ok {
				// skip this entry, keep going
				return true
			}
			results = append(results, entry)
			return len(results) < maxSearchResults
		})

	slog.InfoContext(ctx, "person search scraped", "query", query, "results", len(results))
	return results, nil
}

func extractSearchEntry(item *goquery.Selection) (SearchResult, bool) {
	var id, name string

	// the first /name/nm link with text is the display-name link, the
	// image wraps an identical href with no text
	item.Find(`a[href*="/name/nm"]`).EachWithBreak(func(_ int, link *goquery.Selection) bool {
		text := strings.TrimSpace(link.Text())
		if text == "" {
			return true
		}
		pid, ok := ParseNameID(link.AttrOr("href", ""))
		if !ok {
			return true
		}
		id = pid
		name = text
		return false
	})
	if id == "" || name == "" {
		return SearchResult{}, false
	}

	return SearchResult{
		ID:       id,
		Name:     name,
		KnownFor: strings.TrimSpace(item.Find(".ipc-html-content-inner-div").First().Text()),
		ImageURL: item.Find("img.ipc-image").First().AttrOr("src", ""),
	}, true
}
