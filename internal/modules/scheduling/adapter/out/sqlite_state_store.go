package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"

	"srs/internal/modules/scheduling/domain"
	schedulingout "srs/internal/modules/scheduling/port/out"
	apperrors "srs/internal/platform/errors"

	_ "modernc.org/sqlite"
)

type stateRow struct {
	ItemID       string `db:"item_id"`
	Ease         int    `db:"ease"`
	IntervalDays int    `db:"interval_days"`
	Due          string `db:"due"`
	Repetitions  int    `db:"repetitions"`
	Lapses       int    `db:"lapses"`
	LastReviewed string `db:"last_reviewed"`
}

// SQLiteStateStore keeps review state in a single table next to the vault.
type SQLiteStateStore struct {
	db *sqlx.DB
}

var _ schedulingout.DataStore = (*SQLiteStateStore)(nil)

func NewSQLiteStateStore(ctx context.Context, dbPath string) (*SQLiteStateStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, apperrors.Store("create db dir", err)
	}
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, apperrors.Store("open sqlite", err)
	}
	db.SetMaxOpenConns(1)
	s := &SQLiteStateStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStateStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS review_states (
  item_id TEXT PRIMARY KEY,
  ease INTEGER NOT NULL,
  interval_days INTEGER NOT NULL,
  due TEXT NOT NULL,
  repetitions INTEGER NOT NULL DEFAULT 0,
  lapses INTEGER NOT NULL DEFAULT 0,
  last_reviewed TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_review_states_due ON review_states(due);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return apperrors.Store("create review_states table", err)
	}
	return nil
}

func (s *SQLiteStateStore) Load(ctx context.Context, itemID string) (domain.ReviewState, bool, error) {
	row := stateRow{}
	err := s.db.GetContext(ctx, &row, `
SELECT item_id, ease, interval_days, due, repetitions, lapses, last_reviewed
FROM review_states
WHERE item_id = ?;
`, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ReviewState{}, false, nil
	}
	if err != nil {
		return domain.ReviewState{}, false, apperrors.Store("load review state", err)
	}
	state, err := row.toDomain()
	if err != nil {
		return domain.ReviewState{}, false, err
	}
	return state, true, nil
}

func (s *SQLiteStateStore) Save(ctx context.Context, itemID string, state domain.ReviewState) error {
	const stmt = `
INSERT INTO review_states (item_id, ease, interval_days, due, repetitions, lapses, last_reviewed)
VALUES (:item_id, :ease, :interval_days, :due, :repetitions, :lapses, :last_reviewed)
ON CONFLICT(item_id) DO UPDATE SET
  ease = excluded.ease,
  interval_days = excluded.interval_days,
  due = excluded.due,
  repetitions = excluded.repetitions,
  lapses = excluded.lapses,
  last_reviewed = excluded.last_reviewed;
`
	if _, err := s.db.NamedExecContext(ctx, stmt, fromDomain(itemID, state)); err != nil {
		return apperrors.Store("save review state", err)
	}
	return nil
}

func (s *SQLiteStateStore) Remove(ctx context.Context, itemID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM review_states WHERE item_id = ?;`, itemID); err != nil {
		return apperrors.Store("remove review state", err)
	}
	return nil
}

func (s *SQLiteStateStore) AllTrackedIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	if err := s.db.SelectContext(ctx, &ids, `SELECT item_id FROM review_states ORDER BY item_id ASC;`); err != nil {
		return nil, apperrors.Store("list review states", err)
	}
	return ids, nil
}

func (s *SQLiteStateStore) Close() error {
	if err := s.db.Close(); err != nil {
		return apperrors.Store("close sqlite", err)
	}
	return nil
}

func fromDomain(itemID string, state domain.ReviewState) stateRow {
	last := ""
	if !state.LastReviewed.IsZero() {
		last = state.LastReviewed.UTC().Format(time.RFC3339)
	}
	return stateRow{
		ItemID:       itemID,
		Ease:         state.Ease,
		IntervalDays: state.Interval,
		Due:          domain.FormatDate(state.Due),
		Repetitions:  state.Repetitions,
		Lapses:       state.Lapses,
		LastReviewed: last,
	}
}

func (r stateRow) toDomain() (domain.ReviewState, error) {
	due, err := domain.ParseDate(r.Due)
	if err != nil {
		return domain.ReviewState{}, apperrors.InvalidState(r.ItemID, fmt.Sprintf("bad due date %q", r.Due))
	}
	state := domain.ReviewState{
		Ease:        r.Ease,
		Interval:    r.IntervalDays,
		Due:         due,
		Repetitions: r.Repetitions,
		Lapses:      r.Lapses,
	}
	if r.LastReviewed != "" {
		last, err := time.Parse(time.RFC3339, r.LastReviewed)
		if err != nil {
			return domain.ReviewState{}, apperrors.InvalidState(r.ItemID, fmt.Sprintf("bad last review %q", r.LastReviewed))
		}
		state.LastReviewed = last
	}
	if err := state.Validate(r.ItemID); err != nil {
		return domain.ReviewState{}, err
	}
	return state, nil
}
