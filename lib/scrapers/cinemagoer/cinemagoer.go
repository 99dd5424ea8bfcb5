// Package cinemagoer shells out to the cinemagoer-backed helper scripts,
// the fast structured lookup path. The scripts speak a single JSON
// document on stdout, or a JSON error document on stderr with a non-zero
// exit.
package cinemagoer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/cinemagoer")

var imdbIdRegex = regexp.MustCompile(`^nm\d+$`)

const defaultTimeout = time.Second * 60

type Options struct {
	// interpreter to invoke the scripts with, e.g. "python3"
	Python       string
	SearchScript string
	FullScript   string
	// per-invocation timeout, defaults to 60s
	Timeout time.Duration
}

type Client struct {
	opts Options
}

func NewClient(opts Options) Client {
	if opts.Python == "" {
		opts.Python = "python3"
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	return Client{opts: opts}
}

// SourceError means the external source reported an error or produced
// output that does not match the expected shape. The orchestrator treats
// it as a signal to fall back, not a user-facing failure.
type SourceError struct {
	Op      string
	Message string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("cinemagoer %s: %s", e.Op, e.Message)
}

type SearchResult struct {
	ImdbID   string `json:"imdbId"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

type searchPayload struct {
	Results []SearchResult `json:"results"`
	Error   string         `json:"error"`
}

type Movie struct {
	Title   string  `json:"title"`
	Year    int     `json:"year"`
	Rating  float64 `json:"rating"`
	Votes   int     `json:"votes"`
	IMDBURL string  `json:"imdbUrl"`
}

type Filmography struct {
	ImdbID string  `json:"imdbId"`
	Name   string  `json:"name"`
	Movies []Movie `json:"movies"`
	Error  string  `json:"error"`
}

// Search runs the fast search script. Results with a malformed id or a
// missing name are rejected rather than trusted.
func (c Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	ctx, span := tracer.Start(ctx, "Search")
	defer span.End()

	stdout, err := c.invoke(ctx, "search", c.opts.SearchScript, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search invocation failed")
		return nil, err
	}

	var payload searchPayload
	err = json.Unmarshal(stdout, &payload)
	if err != nil {
		return nil, &SourceError{Op: "search", Message: fmt.Sprintf("unparsable output: %s", err)}
	}
	if payload.Error != "" {
		return nil, &SourceError{Op: "search", Message: payload.Error}
	}

	out := payload.Results[:0:0]
	for _, r := range payload.Results {
		if !imdbIdRegex.MatchString(r.ImdbID) || r.Name == "" {
			slog.WarnContext(
				ctx, "rejecting malformed search result",
				"imdb_id", r.ImdbID, "name", r.Name,
			)
			continue
		}
		out = append(out, r)
	}

	slog.DebugContext(ctx, "structured search done", "query", query, "results", len(out))
	return out, nil
}

// Filmography runs the full script. This source indexes by name, not by
// id, which is why the argument is the actor's display name.
func (c Client) Filmography(ctx context.Context, name string) (Filmography, error) {
	ctx, span := tracer.Start(ctx, "Filmography")
	defer span.End()

	stdout, err := c.invoke(ctx, "filmography", c.opts.FullScript, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "filmography invocation failed")
		return Filmography{}, err
	}

	var payload Filmography
	err = json.Unmarshal(stdout, &payload)
	if err != nil {
		return Filmography{}, &SourceError{Op: "filmography", Message: fmt.Sprintf("unparsable output: %s", err)}
	}
	if payload.Error != "" {
		return Filmography{}, &SourceError{Op: "filmography", Message: payload.Error}
	}
	if !imdbIdRegex.MatchString(payload.ImdbID) || payload.Name == "" || payload.Movies == nil {
		return Filmography{}, &SourceError{Op: "filmography", Message: "output is missing imdbId, name or movies"}
	}

	slog.DebugContext(
		ctx, "structured filmography done",
		"name", payload.Name, "movies", len(payload.Movies),
	)
	return payload, nil
}

func (c Client) invoke(ctx context.Context, op, script, arg string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.opts.Python, script, arg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if msg, ok := errorDocument(stderr.Bytes()); ok {
			return nil, &SourceError{Op: op, Message: msg}
		}
		return nil, fmt.Errorf("cinemagoer %s: %w: %s", op, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// the scripts log json lines to stderr as they go, the error document is
// whichever line carries an "error" key
func errorDocument(stderr []byte) (string, bool) {
	for _, line := range bytes.Split(stderr, []byte("\n")) {
		var doc struct {
			Error string `json:"error"`
		}
		err := json.Unmarshal(line, &doc)
		if err == nil && doc.Error != "" {
			return doc.Error, true
		}
	}
	return "", false
}
