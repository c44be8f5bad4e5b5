// Package archive records each scrape run and its articles in a SQL
// database. Nothing is read back by the scraper itself.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/samber/lo"

	"vnscrape/article"
)

// Run describes one scrape.
type Run struct {
	ID         uuid.UUID
	URL        string
	StartedAt  time.Time
	FinishedAt time.Time
	Found      int
	Accepted   int
	Skipped    int
	Output     string
}

// NewRun starts a run record for url.
func NewRun(url string) Run {
	return Run{ID: uuid.New(), URL: url, StartedAt: time.Now()}
}

// Store is an archive database.
type Store struct {
	db *sqlx.DB
}

type dbRun struct {
	ID         string    `db:"id"`
	URL        string    `db:"url"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
	Found      int       `db:"found"`
	Accepted   int       `db:"accepted"`
	Skipped    int       `db:"skipped"`
	Output     string    `db:"output"`
}

type dbArticle struct {
	RunID       string `db:"run_id"`
	Position    int    `db:"position"`
	Title       string `db:"title"`
	PublishTime string `db:"publish_time"`
	Link        string `db:"link"`
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL,
	found INTEGER NOT NULL DEFAULT 0,
	accepted INTEGER NOT NULL DEFAULT 0,
	skipped INTEGER NOT NULL DEFAULT 0,
	output TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS articles (
	run_id TEXT NOT NULL REFERENCES runs(id),
	position INTEGER NOT NULL,
	title TEXT NOT NULL,
	publish_time TEXT NOT NULL,
	link TEXT NOT NULL,
	PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_articles_link ON articles(link);
`

// Open connects to the archive and creates the schema if needed.
// driver is "sqlite3" or "postgres".
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case "sqlite3", "postgres":
	default:
		return nil, fmt.Errorf("unsupported archive driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to archive: %w", err)
	}

	if driver == "sqlite3" {
		for _, p := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
			if _, err := db.Exec(p); err != nil {
				db.Close()
				return nil, fmt.Errorf("pragma %s: %w", p, err)
			}
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores the run and its records in one transaction.
func (s *Store) SaveRun(ctx context.Context, run Run, records []article.Record) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO runs (id, url, started_at, finished_at, found, accepted, skipped, output)
		VALUES (:id, :url, :started_at, :finished_at, :found, :accepted, :skipped, :output)`,
		dbRun{
			ID:         run.ID.String(),
			URL:        run.URL,
			StartedAt:  run.StartedAt.UTC(),
			FinishedAt: run.FinishedAt.UTC(),
			Found:      run.Found,
			Accepted:   run.Accepted,
			Skipped:    run.Skipped,
			Output:     run.Output,
		})
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	if len(records) > 0 {
		rows := lo.Map(records, func(r article.Record, i int) dbArticle {
			return dbArticle{
				RunID:       run.ID.String(),
				Position:    i,
				Title:       r.Title,
				PublishTime: r.PublishTime,
				Link:        r.Link,
			}
		})
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO articles (run_id, position, title, publish_time, link)
			VALUES (:run_id, :position, :title, :publish_time, :link)`, rows)
		if err != nil {
			return fmt.Errorf("inserting articles: %w", err)
		}
	}

	return tx.Commit()
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	var rows []dbRun
	query := s.db.Rebind(`SELECT id, url, started_at, finished_at, found, accepted, skipped, output
		FROM runs ORDER BY started_at DESC LIMIT ?`)
	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, err
	}

	runs := make([]Run, 0, len(rows))
	for _, r := range rows {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("run id %q: %w", r.ID, err)
		}
		runs = append(runs, Run{
			ID:         id,
			URL:        r.URL,
			StartedAt:  r.StartedAt,
			FinishedAt: r.FinishedAt,
			Found:      r.Found,
			Accepted:   r.Accepted,
			Skipped:    r.Skipped,
			Output:     r.Output,
		})
	}
	return runs, nil
}

// RunArticles returns the records stored for a run, in discovery order.
func (s *Store) RunArticles(ctx context.Context, id uuid.UUID) ([]article.Record, error) {
	var rows []dbArticle
	query := s.db.Rebind(`SELECT run_id, position, title, publish_time, link
		FROM articles WHERE run_id = ? ORDER BY position`)
	if err := s.db.SelectContext(ctx, &rows, query, id.String()); err != nil {
		return nil, err
	}
	return lo.Map(rows, func(r dbArticle, _ int) article.Record {
		return article.Record{Title: r.Title, PublishTime: r.PublishTime, Link: r.Link}
	}), nil
}
