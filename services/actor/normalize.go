package actor

import (
	"fmt"
	"slices"

	"actorratings-backend/lib/scrapers/cinemagoer"
	"actorratings-backend/lib/scrapers/imdb"
	"actorratings-backend/services/actor/model"
)

// Both sources produce roughly the same shape with different levels of
// hygiene. Everything that goes into the cache passes through
// normalizeMovies so the cached format does not depend on which source
// happened to win.

func fromStructured(in cinemagoer.Filmography) model.Filmography {
	movies := make([]model.Movie, 0, len(in.Movies))
	for _, m := range in.Movies {
		movies = append(movies, model.Movie{
			Title:   m.Title,
			Year:    m.Year,
			Rating:  m.Rating,
			Votes:   m.Votes,
			IMDBURL: m.IMDBURL,
		})
	}
	return model.Filmography{
		Name:   in.Name,
		Movies: normalizeMovies(movies),
	}
}

func fromBrowser(in imdb.Filmography) model.Filmography {
	movies := make([]model.Movie, 0, len(in.Movies))
	for _, m := range in.Movies {
		movies = append(movies, model.Movie{
			Title:     m.Title,
			Year:      m.Year,
			Rating:    m.Rating,
			IMDBURL:   m.IMDBURL,
			PosterURL: m.PosterURL,
		})
	}
	return model.Filmography{
		Name:     in.Name,
		ImageURL: in.ImageURL,
		Movies:   normalizeMovies(movies),
	}
}

// drops entries without a title or release year, collapses duplicate
// (title, year) pairs keeping the first, and orders by year ascending
func normalizeMovies(movies []model.Movie) []model.Movie {
	seen := make(map[string]bool, len(movies))
	kept := make([]model.Movie, 0, len(movies))
	for _, m := range movies {
		if m.Title == "" || m.Year <= 0 {
			continue
		}
		if m.Rating < 0 || m.Rating > 10 {
			m.Rating = 0
		}
		key := fmt.Sprintf("%s\x00%d", m.Title, m.Year)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, m)
	}
	slices.SortStableFunc(kept, func(a, b model.Movie) int {
		return a.Year - b.Year
	})
	return kept
}
