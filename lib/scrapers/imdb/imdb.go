// Package imdb drives a headless browser against the live IMDb site.
// It is the slow, ground-truth path, the fast path lives in
// lib/scrapers/cinemagoer. Selectors here are site-owned and unversioned,
// treat every extraction as best-effort.
package imdb

import (
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/imdb")

const baseUrl = "https://www.imdb.com"

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

type SearchResult struct {
	// site-assigned person identifier, e.g. "nm0000138"
	ID       string
	Name     string
	KnownFor string
	ImageURL string
}

type Movie struct {
	Title     string
	Year      int
	Rating    float64
	IMDBURL   string
	PosterURL string
}

type Filmography struct {
	Name     string
	ImageURL string
	Movies   []Movie
}
