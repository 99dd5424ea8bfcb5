// Package model holds the output types of the actor service, shared by
// the cache store, the orchestrator and the HTTP surface.
package model

type Identity struct {
	// site-assigned person identifier, stable, e.g. "nm0000138"
	ID       string `json:"id"`
	Name     string `json:"name"`
	KnownFor string `json:"knownFor"`
	ImageURL string `json:"imageUrl"`
}

type Movie struct {
	Title  string  `json:"title"`
	Year   int     `json:"year"`
	Rating float64 `json:"rating"`
	// only the structured source reports vote counts
	Votes     int    `json:"votes,omitempty"`
	IMDBURL   string `json:"imdbUrl"`
	PosterURL string `json:"posterUrl"`
}

// Filmography is the unit of caching and the unit returned to clients.
// Movies are ordered ascending by year, unique by (title, year).
type Filmography struct {
	Name     string  `json:"name"`
	ImageURL string  `json:"imageUrl"`
	Movies   []Movie `json:"movies"`
}
