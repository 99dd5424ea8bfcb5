package imdbweb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"actorratings-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:imdbweb")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/suggestion/x/leonardo%20dicaprio.json", r.URL.EscapedPath())
		w.Write([]byte(`{
			"d": [
				{"id": "nm0000138", "l": "Leonardo DiCaprio", "s": "Titanic (1997)", "i": {"imageUrl": "https://img/leo.jpg"}},
				{"id": "tt1375666", "l": "Inception", "s": "2010 movie"},
				{"id": "nm0000209", "l": ""}
			],
			"q": "leonardo"
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL})

	suggestions, err := client.Suggest(context.Background(), "Leonardo DiCaprio")
	require.NoError(t, err)
	// title and nameless entries are dropped
	require.Len(t, suggestions, 1)
	require.Equal(t, Suggestion{
		ID:       "nm0000138",
		Name:     "Leonardo DiCaprio",
		KnownFor: "Titanic (1997)",
		ImageURL: "https://img/leo.jpg",
	}, suggestions[0])
}

func TestSuggestBadStatus(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:imdbweb")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL})
	_, err := client.Suggest(context.Background(), "anyone")
	require.Error(t, err)
}
