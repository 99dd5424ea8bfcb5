package cinemagoer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"actorratings-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

// stub scripts stand in for the python helpers, the client only cares
// about argv, exit code, stdout and stderr
func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(body), 0755)
	require.NoError(t, err)
	return path
}

func newTestClient(searchScript, fullScript string) Client {
	return NewClient(Options{
		Python:       "/bin/sh",
		SearchScript: searchScript,
		FullScript:   fullScript,
		Timeout:      time.Second * 5,
	})
}

func TestSearch(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:cinemagoer")
	defer cleanup()

	script := writeScript(t, "search.sh", `
echo '{"debug": "noise on stderr"}' >&2
echo '{"results": [
	{"imdbId": "nm0000138", "name": "Leonardo DiCaprio", "imageUrl": "https://img/leo.jpg"},
	{"imdbId": "bogus", "name": "Shape Shifter"},
	{"imdbId": "nm0000209", "name": ""}
]}'
`)
	client := newTestClient(script, "")

	results, err := client.Search(context.Background(), "leonardo")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "nm0000138", results[0].ImdbID)
	require.Equal(t, "Leonardo DiCaprio", results[0].Name)
}

func TestSearchErrorDocument(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:cinemagoer")
	defer cleanup()

	script := writeScript(t, "search.sh", `
echo '{"debug": "Starting search"}' >&2
echo '{"error": "No person found for: nobody"}' >&2
exit 1
`)
	client := newTestClient(script, "")

	_, err := client.Search(context.Background(), "nobody")
	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	require.Equal(t, "No person found for: nobody", srcErr.Message)
}

func TestSearchMalformedOutput(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:cinemagoer")
	defer cleanup()

	script := writeScript(t, "search.sh", `echo 'this is not json'`)
	client := newTestClient(script, "")

	_, err := client.Search(context.Background(), "x")
	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
}

func TestSearchUnparsableCrash(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:cinemagoer")
	defer cleanup()

	script := writeScript(t, "search.sh", `
echo 'Traceback (most recent call last): boom' >&2
exit 2
`)
	client := newTestClient(script, "")

	_, err := client.Search(context.Background(), "x")
	require.Error(t, err)
	// a crash without an error document is not a SourceError
	var srcErr *SourceError
	require.False(t, errors.As(err, &srcErr))
	require.Contains(t, err.Error(), "Traceback")
}

func TestFilmography(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:cinemagoer")
	defer cleanup()

	script := writeScript(t, "full.sh", `
echo '{
	"imdbId": "nm0000138",
	"name": "Leonardo DiCaprio",
	"movies": [
		{"title": "Titanic", "year": 1997, "rating": 7.9, "votes": 1200000, "imdbUrl": "https://www.imdb.com/title/tt0120338/"},
		{"title": "Inception", "year": 2010, "rating": 8.8, "votes": 2500000, "imdbUrl": "https://www.imdb.com/title/tt1375666/"}
	]
}'
`)
	client := newTestClient("", script)

	result, err := client.Filmography(context.Background(), "Leonardo DiCaprio")
	require.NoError(t, err)
	require.Equal(t, "nm0000138", result.ImdbID)
	require.Len(t, result.Movies, 2)
	require.Equal(t, 8.8, result.Movies[1].Rating)
	require.Equal(t, 2500000, result.Movies[1].Votes)
}

func TestFilmographyMissingFields(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:cinemagoer")
	defer cleanup()

	script := writeScript(t, "full.sh", `echo '{"name": "Somebody"}'`)
	client := newTestClient("", script)

	_, err := client.Filmography(context.Background(), "Somebody")
	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
}

func TestInvokeTimeout(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:cinemagoer")
	defer cleanup()

	script := writeScript(t, "slow.sh", `sleep 10`)
	client := NewClient(Options{
		Python:       "/bin/sh",
		SearchScript: script,
		Timeout:      time.Millisecond * 100,
	})

	_, err := client.Search(context.Background(), "x")
	require.Error(t, err)
}
