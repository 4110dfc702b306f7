package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/mmcdole/locker/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS thumbnails (
	key           TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	thumbnail_url TEXT NOT NULL,
	media_url     TEXT NOT NULL,
	source        TEXT NOT NULL,
	datetime      TEXT NOT NULL
);
`

// SQLiteStore implements domain.LockerStore using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens a SQLite database at path and creates the table.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) All(ctx context.Context) ([]domain.Thumbnail, error) {
	var items []domain.Thumbnail
	err := s.db.SelectContext(ctx, &items,
		`SELECT title, thumbnail_url, media_url, source, datetime FROM thumbnails`)
	if err != nil {
		return nil, fmt.Errorf("list thumbnails: %w", err)
	}
	return domain.SortByDateTimeDesc(items), nil
}

func (s *SQLiteStore) Put(ctx context.Context, item domain.Thumbnail) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO thumbnails (key, title, thumbnail_url, media_url, source, datetime)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO NOTHING
	`, item.Key(), item.Title, item.ThumbnailURL, item.MediaURL, string(item.Source), item.DateTime)
	if err != nil {
		return fmt.Errorf("upsert thumbnail %s: %w", item.Key(), err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, item domain.Thumbnail) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM thumbnails WHERE key = ?`, item.Key())
	if err != nil {
		return fmt.Errorf("delete thumbnail %s: %w", item.Key(), err)
	}
	return nil
}
