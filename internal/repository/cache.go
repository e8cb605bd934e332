package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/domain"
)

// ErrNoCachedSnapshot is returned by Load when the cache has never been
// written to.
var ErrNoCachedSnapshot = errors.New("no cached snapshot")

// SnapshotCache persists the last good snapshot to SQLite so that a restart
// during a source outage still has data to serve. Snapshots restored from
// the cache are marked stale; the cache is consulted only when the source
// is unreachable and no live snapshot exists yet.
type SnapshotCache struct {
	db *sql.DB
}

// NewSnapshotCache initializes the cache schema.
func NewSnapshotCache(db *sql.DB) (*SnapshotCache, error) {
	c := &SnapshotCache{db: db}
	if err := c.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return c, nil
}

func (c *SnapshotCache) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS questions (
		position INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		excerpt TEXT,
		category TEXT NOT NULL,
		tags TEXT,
		upvotes INTEGER NOT NULL DEFAULT 0,
		downvotes INTEGER NOT NULL DEFAULT 0,
		published_at TIMESTAMP NOT NULL,
		answer_body TEXT NOT NULL,
		resources TEXT
	);

	CREATE TABLE IF NOT EXISTS snapshot_meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		fetch_seq INTEGER NOT NULL,
		fetched_at TIMESTAMP NOT NULL
	);
	`

	_, err := c.db.Exec(schema)
	return err
}

// Save replaces the cached snapshot wholesale. Two snapshots are never
// merged; the cache always holds exactly one.
func (c *SnapshotCache) Save(ctx context.Context, snap *Snapshot) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM questions"); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO questions (
			position, id, slug, title, body, excerpt, category, tags,
			upvotes, downvotes, published_at, answer_body, resources
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, q := range snap.All() {
		tags, err := json.Marshal(q.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags: %w", err)
		}
		resources, err := json.Marshal(q.Answer.Resources)
		if err != nil {
			return fmt.Errorf("marshal resources: %w", err)
		}

		_, err = stmt.ExecContext(ctx,
			i, q.ID, q.Slug, q.Title, q.Body, q.Excerpt, q.Category, string(tags),
			q.Upvotes, q.Downvotes, q.PublishedAt.UTC().Format(time.RFC3339), q.Answer.Body, string(resources),
		)
		if err != nil {
			return fmt.Errorf("insert question %s: %w", q.Slug, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (id, fetch_seq, fetched_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fetch_seq = excluded.fetch_seq,
			fetched_at = excluded.fetched_at
	`, snap.FetchSeq(), snap.FetchedAt().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert meta: %w", err)
	}

	return tx.Commit()
}

// Load restores the cached snapshot, marked stale. Returns
// ErrNoCachedSnapshot when nothing was ever saved.
func (c *SnapshotCache) Load(ctx context.Context) (*Snapshot, error) {
	var fetchSeq uint64
	var fetchedAtRaw string
	err := c.db.QueryRowContext(ctx,
		"SELECT fetch_seq, fetched_at FROM snapshot_meta WHERE id = 1",
	).Scan(&fetchSeq, &fetchedAtRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoCachedSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read meta: %w", err)
	}

	fetchedAt, err := time.Parse(time.RFC3339, fetchedAtRaw)
	if err != nil {
		return nil, fmt.Errorf("parse fetched_at: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, slug, title, body, excerpt, category, tags,
		       upvotes, downvotes, published_at, answer_body, resources
		FROM questions ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		var excerpt, tagsRaw, resourcesRaw sql.NullString
		var publishedAtRaw string

		err := rows.Scan(&q.ID, &q.Slug, &q.Title, &q.Body, &excerpt, &q.Category, &tagsRaw,
			&q.Upvotes, &q.Downvotes, &publishedAtRaw, &q.Answer.Body, &resourcesRaw)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}

		q.Excerpt = excerpt.String
		q.PublishedAt, err = time.Parse(time.RFC3339, publishedAtRaw)
		if err != nil {
			return nil, fmt.Errorf("parse published_at: %w", err)
		}
		if tagsRaw.Valid && tagsRaw.String != "" {
			if err := json.Unmarshal([]byte(tagsRaw.String), &q.Tags); err != nil {
				return nil, fmt.Errorf("unmarshal tags: %w", err)
			}
		}
		if resourcesRaw.Valid && resourcesRaw.String != "" {
			if err := json.Unmarshal([]byte(resourcesRaw.String), &q.Answer.Resources); err != nil {
				return nil, fmt.Errorf("unmarshal resources: %w", err)
			}
		}

		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}

	snap := BuildSnapshot(questions, fetchSeq, fetchedAt)
	snap.stale = true
	return snap, nil
}
