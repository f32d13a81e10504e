package out

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	"srs/internal/modules/links/domain"
	linksout "srs/internal/modules/links/port/out"
	apperrors "srs/internal/platform/errors"

	_ "modernc.org/sqlite"
)

type linkRow struct {
	FromID string  `db:"from_id"`
	ToID   string  `db:"to_id"`
	Weight float64 `db:"weight"`
}

type SQLiteLinkStore struct {
	db *sqlx.DB
}

var _ linksout.LinkStore = (*SQLiteLinkStore)(nil)

func NewSQLiteLinkStore(ctx context.Context, dbPath string) (*SQLiteLinkStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, apperrors.Store("create db dir", err)
	}
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, apperrors.Store("open sqlite", err)
	}
	db.SetMaxOpenConns(1)
	s := &SQLiteLinkStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteLinkStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS links (
  from_id TEXT NOT NULL,
  to_id TEXT NOT NULL,
  weight REAL NOT NULL DEFAULT 1,
  PRIMARY KEY (from_id, to_id)
);
CREATE INDEX IF NOT EXISTS idx_links_to ON links(to_id);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return apperrors.Store("create links table", err)
	}
	return nil
}

func (s *SQLiteLinkStore) Upsert(ctx context.Context, link domain.Link) error {
	const stmt = `
INSERT INTO links (from_id, to_id, weight)
VALUES (:from_id, :to_id, :weight)
ON CONFLICT(from_id, to_id) DO UPDATE SET weight = excluded.weight;
`
	row := linkRow{FromID: link.FromID, ToID: link.ToID, Weight: link.Weight}
	if _, err := s.db.NamedExecContext(ctx, stmt, row); err != nil {
		return apperrors.Store("upsert link", err)
	}
	return nil
}

func (s *SQLiteLinkStore) Incoming(ctx context.Context, toID string) ([]domain.Link, error) {
	rows := []linkRow{}
	if err := s.db.SelectContext(ctx, &rows, `
SELECT from_id, to_id, weight
FROM links
WHERE to_id = ?
ORDER BY from_id ASC;
`, toID); err != nil {
		return nil, apperrors.Store("list incoming links", err)
	}
	out := make([]domain.Link, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Link{FromID: row.FromID, ToID: row.ToID, Weight: row.Weight})
	}
	return out, nil
}

// Forget drops every link touching itemID, in either direction.
func (s *SQLiteLinkStore) Forget(ctx context.Context, itemID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM links WHERE from_id = ? OR to_id = ?;`, itemID, itemID); err != nil {
		return apperrors.Store("forget links", err)
	}
	return nil
}

func (s *SQLiteLinkStore) Close() error {
	if err := s.db.Close(); err != nil {
		return apperrors.Store("close sqlite", err)
	}
	return nil
}
