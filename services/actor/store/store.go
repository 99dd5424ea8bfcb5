// Package store persists scraped filmographies in a single JSON file
// keyed by actor id. Reads and writes go through a whole-file
// read/rewrite, writes are rare enough (cache misses only) that last
// writer wins is acceptable.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"actorratings-backend/services/actor/model"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/actor/store")

// records older than this are invisible to Get, they stay on disk until
// a fresh Put for the same id overwrites them
const MaxAge = time.Hour * 24 * 90

type Record struct {
	ScrapedAt time.Time `json:"scrapedAt"`
	model.Filmography
}

type Store struct {
	path string
	now  func() time.Time
}

func NewStore(dataDir string) *Store {
	return &Store{
		path: filepath.Join(dataDir, "cache.json"),
		now:  time.Now,
	}
}

// a missing or corrupt store file is an empty store, not a fatal error
func (s *Store) read(ctx context.Context) map[string]Record {
	contents, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.WarnContext(ctx, "failed to read cache file", "path", s.path, "err", err)
		}
		return map[string]Record{}
	}

	var records map[string]Record
	err = json.Unmarshal(contents, &records)
	if err != nil {
		slog.WarnContext(ctx, "cache file is corrupt, treating as empty", "path", s.path, "err", err)
		return map[string]Record{}
	}
	return records
}

// Get returns the cached record for an id, expiry is evaluated at read
// time against the record's scrape timestamp.
func (s *Store) Get(ctx context.Context, id string) (Record, bool) {
	ctx, span := tracer.Start(ctx, "cache:get")
	defer span.End()
	span.SetAttributes(attribute.String("custom.actor_id", id))

	record, ok := s.read(ctx)[id]
	if !ok {
		return Record{}, false
	}
	if s.now().Sub(record.ScrapedAt) > MaxAge {
		span.AddEvent("cache entry expired")
		return Record{}, false
	}
	return record, true
}

// Put stamps the filmography with the current time and rewrites the
// whole store.
func (s *Store) Put(ctx context.Context, id string, filmography model.Filmography) error {
	ctx, span := tracer.Start(ctx, "cache:set")
	defer span.End()
	span.SetAttributes(attribute.String("custom.actor_id", id))

	records := s.read(ctx)
	records[id] = Record{
		ScrapedAt:   s.now(),
		Filmography: filmography,
	}

	err := os.MkdirAll(filepath.Dir(s.path), 0755)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create data directory")
		return err
	}

	serialized, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize cache")
		return err
	}

	err = os.WriteFile(s.path, serialized, 0644)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write cache file")
		return err
	}
	return nil
}
