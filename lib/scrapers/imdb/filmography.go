package imdb

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"actorratings-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/mazen160/go-random"
	"github.com/playwright-community/playwright-go"
	"go.opentelemetry.io/otel/codes"
)

// bio-page extraction stops after this many unique (title, year) pairs
const maxTitles = 50

// rating enrichment navigates to individual title pages, the expensive
// part, so it is capped harder than extraction
const maxRatingFetches = 30

var profileImageSelectors = []string{
	`[data-testid="hero-media__poster"] img`,
	`[data-testid="hero__photo"] img`,
	`img[class*="ipc-image"]`,
}

// Filmography scrapes a person's profile and biography pages into a
// rating-annotated movie list, ascending by year. Per-element failures
// degrade to missing fields or skipped entries, only a failed load of a
// structurally required page aborts the session.
func (b *Browser) Filmography(ctx context.Context, id string) (Filmography, error) {
	ctx, span := tracer.Start(ctx, "Filmography")
	defer span.End()

	page, err := b.NewPage(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open page")
		return Filmography{}, err
	}
	defer page.Close()

	profileUrl := fmt.Sprintf("%s/name/%s/", baseUrl, id)
	err = navigate(ctx, page, profileUrl, navigationTimeout)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "profile page failed to load")
		return Filmography{}, fmt.Errorf("navigate to profile: %w", err)
	}
	if err := settle(ctx, time.Second*3); err != nil {
		return Filmography{}, err
	}
	dismissConsent(ctx, page)

	doc, err := document(page)
	if err != nil {
		return Filmography{}, err
	}
	name, imageUrl := extractProfile(doc)

	bioUrl := fmt.Sprintf("%s/name/%s/bio", baseUrl, id)
	err = navigate(ctx, page, bioUrl, navigationTimeout)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bio page failed to load")
		return Filmography{}, fmt.Errorf("navigate to bio: %w", err)
	}
	if err := settle(ctx, time.Second*2); err != nil {
		return Filmography{}, err
	}

	doc, err = document(page)
	if err != nil {
		return Filmography{}, err
	}
	movies := extractTitles(ctx, doc)

	slog.InfoContext(
		ctx, "extracted titles from bio page",
		"id", id, "count", len(movies),
	)

	b.enrichRatings(ctx, page, movies)

	slices.SortFunc(movies, func(a, b *Movie) int {
		return a.Year - b.Year
	})

	out := Filmography{Name: name, ImageURL: imageUrl}
	for _, m := range movies {
		out.Movies = append(out.Movies, *m)
	}
	return out, nil
}

func extractProfile(doc *goquery.Document) (name string, imageUrl string) {
	name = strings.TrimSpace(doc.Find(`[data-testid="hero__primary-text"]`).First().Text())
	if name == "" {
		name = "Unknown Actor"
	}

	for _, selector := range profileImageSelectors {
		src := doc.Find(selector).First().AttrOr("src", "")
		if src != "" {
			imageUrl = src
			break
		}
	}
	return name, imageUrl
}

func extractTitles(ctx context.Context, doc *goquery.Document) []*Movie {
	var movies []*Movie
	seen := map[string]struct{}{}

	anchors := htmlutil.GetAnchors(doc.Find(`a[href*="/title/tt"]`))
	for _, anchor := range anchors {
		if len(movies) >= maxTitles {
			break
		}
		if anchor.Href == "" || strings.Contains(anchor.Href, "pro.imdb.com") {
			continue
		}

		title, year, ok := ParseTitleYear(anchor.Name)
		if !ok {
			continue
		}

		key := fmt.Sprintf("%s-%d", title, year)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		link, err := CanonicalTitleURL(anchor.Href)
		if err != nil {
			slog.DebugContext(ctx, "skipping unparsable title href", "href", anchor.Href)
			continue
		}

		movies = append(movies, &Movie{
			Title:   title,
			Year:    year,
			IMDBURL: link,
		})
	}
	return movies
}

// enrichRatings visits each title page sequentially, never in parallel,
// with a randomized delay in between to stay under the site's
// rate-limiting radar. A failed title navigation keeps the movie with
// whatever it already had.
func (b *Browser) enrichRatings(ctx context.Context, page playwright.Page, movies []*Movie) {
	count := min(len(movies), maxRatingFetches)
	for i := 0; i < count; i++ {
		if ctx.Err() != nil {
			return
		}
		movie := movies[i]

		err := navigate(ctx, page, movie.IMDBURL, titleNavigationTimeout)
		if err != nil {
			slog.WarnContext(
				ctx, "failed to load title page",
				"title", movie.Title, "err", err,
			)
			continue
		}
		if err := settle(ctx, time.Second); err != nil {
			return
		}

		doc, err := document(page)
		if err != nil {
			continue
		}
		movie.Rating, movie.PosterURL = extractTitlePage(doc)

		slog.DebugContext(
			ctx, "fetched rating",
			"n", i+1, "of", count,
			"title", movie.Title, "year", movie.Year, "rating", movie.Rating,
		)

		if i < count-1 {
			delayMs, err := random.IntRange(1200, 2000)
			if err != nil {
				delayMs = 1600
			}
			if err := settle(ctx, time.Duration(delayMs)*time.Millisecond); err != nil {
				return
			}
		}
	}
}

func extractTitlePage(doc *goquery.Document) (rating float64, posterUrl string) {
	text := doc.Find(`[data-testid="hero-rating-bar__aggregate-rating__score"] span`).First().Text()
	if strings.TrimSpace(text) == "" {
		// older layout
		text = doc.Find(`span[class*="rating"]`).First().Text()
	}
	rating = ParseRating(text)

	for _, selector := range []string{`[data-testid="hero-media__poster"] img`, `img[class*="ipc-image"]`} {
		src := doc.Find(selector).First().AttrOr("src", "")
		if src != "" {
			posterUrl = src
			break
		}
	}
	return rating, posterUrl
}
