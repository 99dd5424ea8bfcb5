// Package actor resolves free-text queries to actor identities and
// rating-annotated filmographies. It prefers the fast structured source
// and falls back to browser automation, with a file-backed cache in
// front of both.
package actor

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"actorratings-backend/lib/scrapers/cinemagoer"
	"actorratings-backend/lib/scrapers/imdb"
	"actorratings-backend/lib/scrapers/imdbweb"
	"actorratings-backend/lib/textutil"
	"actorratings-backend/services/actor/model"
	"actorratings-backend/services/actor/names"
	"actorratings-backend/services/actor/store"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"
)

var tracer = otel.Tracer("services/actor")

// ceiling on candidates returned by either search path
const maxSearchResults = 10

// upper bound on one collapsed filmography fetch, generous because the
// browser path navigates dozens of title pages with jittered delays
const fetchTimeout = time.Minute * 10

// the only two errors that ever cross the service boundary, internal
// causes are logged and never exposed verbatim
var ErrSearchFailed = errors.New("search failed, please try again")
var ErrFetchFailed = errors.New("failed to fetch actor data, please try again")

type StructuredSource interface {
	Search(ctx context.Context, query string) ([]cinemagoer.SearchResult, error)
	Filmography(ctx context.Context, name string) (cinemagoer.Filmography, error)
}

type BrowserSource interface {
	SearchActors(ctx context.Context, query string) ([]imdb.SearchResult, error)
	Filmography(ctx context.Context, id string) (imdb.Filmography, error)
}

type SuggestionSource interface {
	Suggest(ctx context.Context, query string) ([]imdbweb.Suggestion, error)
}

type Service struct {
	store      *store.Store
	names      *names.Store
	structured StructuredSource
	browser    BrowserSource
	// optional, nil disables search-result enrichment
	suggestions SuggestionSource

	flight singleflight.Group
}

func NewService(
	cache *store.Store,
	bridge *names.Store,
	structured StructuredSource,
	browser BrowserSource,
	suggestions SuggestionSource,
) *Service {
	return &Service{
		store:       cache,
		names:       bridge,
		structured:  structured,
		browser:     browser,
		suggestions: suggestions,
	}
}

// per-source outcome, the fallback policy switches on this instead of
// overloading errors with control flow
type outcome int

const (
	outcomeOk outcome = iota
	outcomeEmpty
	outcomeFailed
)

// Search resolves a free-text query to a ranked set of candidate
// identities. Structured source first, browser on empty or failed, both
// down means ErrSearchFailed.
func (s *Service) Search(ctx context.Context, query string) ([]model.Identity, error) {
	ctx, span := tracer.Start(ctx, "Search")
	defer span.End()
	span.SetAttributes(attribute.String("custom.query", query))

	identities, status := s.structuredSearch(ctx, query)
	if status != outcomeOk {
		slog.InfoContext(
			ctx, "structured search unusable, falling back to browser",
			"query", query, "empty", status == outcomeEmpty,
		)
		identities, status = s.browserSearch(ctx, query)
	}
	if status != outcomeOk {
		span.SetStatus(codes.Error, "both search paths failed")
		return nil, ErrSearchFailed
	}

	// remember id->name for every candidate so a later ratings call can
	// take the structured path, which needs a name rather than an id
	for _, identity := range identities {
		err := s.names.Set(ctx, identity.ID, identity.Name)
		if err != nil {
			slog.WarnContext(
				ctx, "failed to record name bridge",
				"id", identity.ID, "err", err,
			)
		}
	}

	return identities, nil
}

func (s *Service) structuredSearch(ctx context.Context, query string) ([]model.Identity, outcome) {
	results, err := s.structured.Search(ctx, query)
	if err != nil {
		slog.WarnContext(ctx, "structured search failed", "query", query, "err", err)
		return nil, outcomeFailed
	}
	if len(results) == 0 {
		return nil, outcomeEmpty
	}

	identities := make([]model.Identity, 0, len(results))
	for _, r := range results {
		identities = append(identities, model.Identity{
			ID:       r.ImdbID,
			Name:     r.Name,
			ImageURL: r.ImageURL,
		})
	}

	rankBySimilarity(identities, query)
	if len(identities) > maxSearchResults {
		identities = identities[:maxSearchResults]
	}
	s.enrich(ctx, identities, query)
	return identities, outcomeOk
}

func (s *Service) browserSearch(ctx context.Context, query string) ([]model.Identity, outcome) {
	results, err := s.browser.SearchActors(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "browser search failed", "query", query, "err", err)
		return nil, outcomeFailed
	}
	if len(results) == 0 {
		return nil, outcomeEmpty
	}

	identities := make([]model.Identity, 0, len(results))
	for _, r := range results {
		identities = append(identities, model.Identity{
			ID:       r.ID,
			Name:     r.Name,
			KnownFor: r.KnownFor,
			ImageURL: r.ImageURL,
		})
	}
	return identities, outcomeOk
}

// order candidates by name similarity to the query, most similar first.
// no disambiguation beyond this, a confidently wrong structured result
// stays wrong.
func rankBySimilarity(identities []model.Identity, query string) {
	normalizedQuery := textutil.NormalizeName(query)
	slices.SortStableFunc(identities, func(a, b model.Identity) int {
		sa := matchr.JaroWinkler(normalizedQuery, textutil.NormalizeName(a.Name), false)
		sb := matchr.JaroWinkler(normalizedQuery, textutil.NormalizeName(b.Name), false)
		if sa > sb {
			return -1
		}
		if sa < sb {
			return 1
		}
		return 0
	})
}

// best-effort backfill of headshots and known-for snippets, the
// structured source returns neither
func (s *Service) enrich(ctx context.Context, identities []model.Identity, query string) {
	if s.suggestions == nil {
		return
	}
	missing := false
	for _, identity := range identities {
		if identity.ImageURL == "" || identity.KnownFor == "" {
			missing = true
			break
		}
	}
	if !missing {
		return
	}

	suggested, err := s.suggestions.Suggest(ctx, query)
	if err != nil {
		slog.DebugContext(ctx, "suggestion enrichment failed", "err", err)
		return
	}
	byId := make(map[string]imdbweb.Suggestion, len(suggested))
	for _, sg := range suggested {
		byId[sg.ID] = sg
	}

	for i := range identities {
		sg, ok := byId[identities[i].ID]
		if !ok {
			continue
		}
		if identities[i].ImageURL == "" {
			identities[i].ImageURL = sg.ImageURL
		}
		if identities[i].KnownFor == "" {
			identities[i].KnownFor = sg.KnownFor
		}
	}
}

// Ratings returns the filmography for an actor id, from cache when
// fresh. Concurrent calls for the same uncached id collapse into a
// single underlying fetch.
func (s *Service) Ratings(ctx context.Context, id string) (model.Filmography, error) {
	ctx, span := tracer.Start(ctx, "Ratings")
	defer span.End()
	span.SetAttributes(attribute.String("custom.actor_id", id))

	record, hit := s.store.Get(ctx, id)
	if hit {
		span.AddEvent("cache hit")
		return record.Filmography, nil
	}

	result, err, shared := s.flight.Do(id, func() (interface{}, error) {
		// the fetch is shared by every waiter on this id, so it must not
		// die with whichever caller happened to start it. an abandoned
		// request stops waiting but the flight runs to completion under
		// its own deadline.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return s.fetchFilmography(fetchCtx, id)
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch filmography", "id", id, "err", err)
		span.SetStatus(codes.Error, "all fetch paths failed")
		return model.Filmography{}, ErrFetchFailed
	}
	if shared {
		span.AddEvent("joined in-flight fetch")
	}

	return result.(model.Filmography), nil
}

func (s *Service) fetchFilmography(ctx context.Context, id string) (model.Filmography, error) {
	name, known := s.names.Get(ctx, id)
	if known {
		result, err := s.structured.Filmography(ctx, name)
		if err == nil {
			if result.ImdbID != id {
				// name collision between the two identity systems,
				// surfaced for operators, no disambiguation policy exists
				slog.WarnContext(
					ctx, "structured source resolved name to a different id",
					"requested", id, "resolved", result.ImdbID, "name", name,
				)
			}
			filmography := fromStructured(result)
			s.finishFetch(ctx, id, filmography)
			return filmography, nil
		}
		slog.WarnContext(
			ctx, "structured filmography failed, falling back to browser",
			"id", id, "name", name, "err", err,
		)
	} else {
		slog.InfoContext(
			ctx, "no name known for id, scraping directly",
			"id", id,
		)
	}

	scraped, err := s.browser.Filmography(ctx, id)
	if err != nil {
		return model.Filmography{}, err
	}
	filmography := fromBrowser(scraped)
	s.finishFetch(ctx, id, filmography)
	return filmography, nil
}

func (s *Service) finishFetch(ctx context.Context, id string, filmography model.Filmography) {
	err := s.store.Put(ctx, id, filmography)
	if err != nil {
		// the data is still good, only the next request pays again
		slog.WarnContext(ctx, "failed to write cache", "id", id, "err", err)
	}
	if filmography.Name != "" && filmography.Name != "Unknown Actor" {
		err = s.names.Set(ctx, id, filmography.Name)
		if err != nil {
			slog.WarnContext(ctx, "failed to backfill name bridge", "id", id, "err", err)
		}
	}
}
