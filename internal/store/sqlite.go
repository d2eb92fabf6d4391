package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadforge/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS lead_magnets (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	type        TEXT NOT NULL DEFAULT 'guide',
	content     TEXT NOT NULL,
	created_at  DATETIME NOT NULL,
	downloads   INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_lead_magnets_created_at ON lead_magnets(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveLeadMagnet(ctx context.Context, magnet *model.LeadMagnet) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lead_magnets (id, title, description, type, content, created_at, downloads)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		magnet.ID, magnet.Title, magnet.Description, magnet.Type, magnet.Content,
		magnet.Created.UTC(), magnet.Downloads,
	)
	return eris.Wrap(err, "sqlite: insert lead magnet")
}

func (s *SQLiteStore) GetLeadMagnet(ctx context.Context, id string) (*model.LeadMagnet, error) {
	var m model.LeadMagnet
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, type, content, created_at, downloads
		 FROM lead_magnets WHERE id = ?`, id,
	).Scan(&m.ID, &m.Title, &m.Description, &m.Type, &m.Content, &m.Created, &m.Downloads)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get lead magnet %s", id)
	}
	return &m, nil
}

func (s *SQLiteStore) ListLeadMagnets(ctx context.Context, limit int) ([]model.LeadMagnet, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, type, content, created_at, downloads
		 FROM lead_magnets ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list lead magnets")
	}
	defer rows.Close() //nolint:errcheck

	var magnets []model.LeadMagnet
	for rows.Next() {
		var m model.LeadMagnet
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Type, &m.Content, &m.Created, &m.Downloads); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead magnet")
		}
		magnets = append(magnets, m)
	}
	return magnets, eris.Wrap(rows.Err(), "sqlite: iterate lead magnets")
}

func (s *SQLiteStore) IncrementDownloads(ctx context.Context, id string) (int, error) {
	var downloads int
	err := s.db.QueryRowContext(ctx,
		`UPDATE lead_magnets SET downloads = downloads + 1 WHERE id = ? RETURNING downloads`, id,
	).Scan(&downloads)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: increment downloads %s", id)
	}
	return downloads, nil
}
