package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadforge/internal/db"
	"github.com/sells-group/leadforge/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS lead_magnets (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	type        TEXT NOT NULL DEFAULT 'guide',
	content     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	downloads   INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_lead_magnets_created_at ON lead_magnets(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveLeadMagnet(ctx context.Context, magnet *model.LeadMagnet) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO lead_magnets (id, title, description, type, content, created_at, downloads)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		magnet.ID, magnet.Title, magnet.Description, magnet.Type, magnet.Content,
		magnet.Created.UTC(), magnet.Downloads,
	)
	return eris.Wrap(err, "postgres: insert lead magnet")
}

func (s *PostgresStore) GetLeadMagnet(ctx context.Context, id string) (*model.LeadMagnet, error) {
	var m model.LeadMagnet
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, description, type, content, created_at, downloads
		 FROM lead_magnets WHERE id = $1`, id,
	).Scan(&m.ID, &m.Title, &m.Description, &m.Type, &m.Content, &m.Created, &m.Downloads)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get lead magnet %s", id)
	}
	return &m, nil
}

func (s *PostgresStore) ListLeadMagnets(ctx context.Context, limit int) ([]model.LeadMagnet, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, description, type, content, created_at, downloads
		 FROM lead_magnets ORDER BY created_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list lead magnets")
	}
	defer rows.Close()

	var magnets []model.LeadMagnet
	for rows.Next() {
		var m model.LeadMagnet
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Type, &m.Content, &m.Created, &m.Downloads); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead magnet")
		}
		magnets = append(magnets, m)
	}
	return magnets, eris.Wrap(rows.Err(), "postgres: iterate lead magnets")
}

func (s *PostgresStore) IncrementDownloads(ctx context.Context, id string) (int, error) {
	var downloads int
	err := s.pool.QueryRow(ctx,
		`UPDATE lead_magnets SET downloads = downloads + 1 WHERE id = $1 RETURNING downloads`, id,
	).Scan(&downloads)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: increment downloads %s", id)
	}
	return downloads, nil
}
