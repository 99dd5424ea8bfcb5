package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"actorratings-backend/lib/telemetry"
	"actorratings-backend/services/actor/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var testFilmography = model.Filmography{
	Name:     "Leonardo DiCaprio",
	ImageURL: "https://img/leo.jpg",
	Movies: []model.Movie{
		{Title: "Titanic", Year: 1997, Rating: 7.9, IMDBURL: "https://www.imdb.com/title/tt0120338/"},
		{Title: "Inception", Year: 2010, Rating: 8.8, IMDBURL: "https://www.imdb.com/title/tt1375666/"},
	},
}

func TestPutGet(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:actor/store")
	defer cleanup()

	s := NewStore(t.TempDir())
	ctx := context.Background()

	_, ok := s.Get(ctx, "nm0000138")
	require.False(t, ok)

	err := s.Put(ctx, "nm0000138", testFilmography)
	require.NoError(t, err)

	record, ok := s.Get(ctx, "nm0000138")
	require.True(t, ok)
	require.WithinDuration(t, time.Now(), record.ScrapedAt, time.Second*5)
	if diff := cmp.Diff(testFilmography, record.Filmography); diff != "" {
		t.Fatalf("filmography mismatch (-want +got):\n%s", diff)
	}
}

func TestExpiry(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:actor/store")
	defer cleanup()

	s := NewStore(t.TempDir())
	ctx := context.Background()

	scrapedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return scrapedAt }
	err := s.Put(ctx, "nm0000138", testFilmography)
	require.NoError(t, err)

	// valid at exactly 90 days
	s.now = func() time.Time { return scrapedAt.Add(MaxAge) }
	_, ok := s.Get(ctx, "nm0000138")
	require.True(t, ok)

	// invisible one second past the boundary
	s.now = func() time.Time { return scrapedAt.Add(MaxAge + time.Second) }
	_, ok = s.Get(ctx, "nm0000138")
	require.False(t, ok)

	// but still physically on disk until the next Put for the id
	contents, err := os.ReadFile(s.path)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(contents, &raw))
	require.Contains(t, raw, "nm0000138")
}

func TestOverwrite(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:actor/store")
	defer cleanup()

	s := NewStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "nm0000138", testFilmography))

	updated := testFilmography
	updated.Name = "Leo"
	require.NoError(t, s.Put(ctx, "nm0000138", updated))

	record, ok := s.Get(ctx, "nm0000138")
	require.True(t, ok)
	require.Equal(t, "Leo", record.Name)
}

func TestCorruptFile(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:actor/store")
	defer cleanup()

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "cache.json"), []byte("{{{{ not json"), 0644)
	require.NoError(t, err)

	s := NewStore(dir)
	ctx := context.Background()

	_, ok := s.Get(ctx, "nm0000138")
	require.False(t, ok)

	// a put over a corrupt file starts fresh instead of failing
	require.NoError(t, s.Put(ctx, "nm0000138", testFilmography))
	_, ok = s.Get(ctx, "nm0000138")
	require.True(t, ok)
}
