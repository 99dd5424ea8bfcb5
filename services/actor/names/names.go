// Package names bridges the two identity systems: the structured source
// indexes people by display name while everything else keys off the
// site-assigned id. Associations live in sqlite so they survive a
// restart, with an expiring in-memory front for the hot path.
package names

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const Schema = `
CREATE TABLE IF NOT EXISTS actor_name (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	seen_at INTEGER NOT NULL
);
`

// associations older than this are considered stale, the orchestrator
// then degrades to id-keyed browser scraping
const MaxAge = time.Hour * 24 * 30

type Store struct {
	db  *sql.DB
	hot *expirable.LRU[string, string]
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:  db,
		hot: expirable.NewLRU[string, string](2048, nil, time.Minute*15),
		now: time.Now,
	}
}

func (s *Store) Set(ctx context.Context, id, name string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO actor_name (id, name, seen_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, seen_at = excluded.seen_at`,
		id, name, s.now().Unix(),
	)
	if err != nil {
		return err
	}
	s.hot.Add(id, name)
	return nil
}

// Get resolves an id to a display name. A miss is not an error, just a
// signal that only the id-keyed path is available.
func (s *Store) Get(ctx context.Context, id string) (string, bool) {
	name, hit := s.hot.Get(id)
	if hit {
		return name, true
	}

	var seenAt int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT name, seen_at FROM actor_name WHERE id = ?`,
		id,
	).Scan(&name, &seenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to read name bridge", "id", id, "err", err)
		return "", false
	}

	if s.now().Sub(time.Unix(seenAt, 0)) > MaxAge {
		return "", false
	}

	s.hot.Add(id, name)
	return name, true
}
