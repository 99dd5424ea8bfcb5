package main

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"actorratings-backend/lib/scrapers/cinemagoer"
	"actorratings-backend/lib/scrapers/imdb"
	"actorratings-backend/lib/scrapers/imdbweb"
	"actorratings-backend/lib/sqliteutil"
	"actorratings-backend/services/actor"
	"actorratings-backend/services/actor/names"
	"actorratings-backend/services/actor/store"
)

type CinemagoerConfig struct {
	// interpreter to invoke the scripts with, defaults to "python3"
	Python         string `json:"python"`
	SearchScript   string `json:"search_script"`
	FullScript     string `json:"full_script"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type BrowserConfig struct {
	Headless *bool `json:"headless"`
	// path to a chromium binary, empty means the playwright-managed one
	ExecutablePath string `json:"executable_path"`
}

type ActorConfig struct {
	// holds the filmography cache and the name bridge database
	DataDir string `json:"data_dir"`
	// disables suggestion enrichment when false
	Suggestions bool             `json:"suggestions"`
	Cinemagoer  CinemagoerConfig `json:"cinemagoer"`
	Browser     BrowserConfig    `json:"browser"`
}

func InitActor(ctx context.Context, mux *http.ServeMux, cfg ActorConfig) (func(), error) {
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}

	db, err := sqliteutil.OpenDB(
		names.Schema,
		filepath.Join(cfg.DataDir, "names.db"),
	)
	if err != nil {
		return nil, err
	}

	headless := true
	if cfg.Browser.Headless != nil {
		headless = *cfg.Browser.Headless
	}
	browser := imdb.NewBrowser(imdb.BrowserOptions{
		Headless:       headless,
		ExecutablePath: cfg.Browser.ExecutablePath,
	})

	structured := cinemagoer.NewClient(cinemagoer.Options{
		Python:       cfg.Cinemagoer.Python,
		SearchScript: cfg.Cinemagoer.SearchScript,
		FullScript:   cfg.Cinemagoer.FullScript,
		Timeout:      time.Duration(cfg.Cinemagoer.TimeoutSeconds) * time.Second,
	})

	var suggestions actor.SuggestionSource
	if cfg.Suggestions {
		suggestions = imdbweb.NewClient(imdbweb.ClientOptions{})
	}

	service := actor.NewService(
		store.NewStore(cfg.DataDir),
		names.NewStore(db),
		structured,
		browser,
		suggestions,
	)
	service.RegisterHandlers(mux)

	cleanup := func() {
		browser.Close()
		db.Close()
	}
	return cleanup, nil
}
