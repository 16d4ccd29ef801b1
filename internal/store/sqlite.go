package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	scouterrors "github.com/flockwood/Offside-Tool/internal/errors"
	"github.com/flockwood/Offside-Tool/internal/player"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS players (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id TEXT UNIQUE,
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	date_of_birth TEXT,
	nationality TEXT,
	height_cm INTEGER,
	weight_kg INTEGER,
	preferred_foot TEXT,
	position TEXT,
	jersey_number INTEGER,
	current_club TEXT,
	market_value_euros REAL,
	contract_expiry TEXT,
	goals INTEGER,
	assists INTEGER,
	matches_played INTEGER,
	yellow_cards INTEGER,
	red_cards INTEGER,
	minutes_played INTEGER,
	image_url TEXT,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
)`

// SQLiteStore is the local single-file catalog backend.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the catalog database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, scouterrors.NewStoreError("open", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, scouterrors.NewStoreError("open", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) FindByExternalID(ctx context.Context, externalID string) (*player.Record, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM players WHERE external_id = ?",
		strings.Join(recordColumns, ", "))
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, externalID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, scouterrors.NewStoreError("find", err)
	}
	return rec, nil
}

func (s *SQLiteStore) FindByFullName(ctx context.Context, fullName string) (*player.Record, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM players WHERE LOWER(TRIM(first_name || ' ' || last_name)) = LOWER(TRIM(?))",
		strings.Join(recordColumns, ", "))
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, fullName))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, scouterrors.NewStoreError("find", err)
	}
	return rec, nil
}

func (s *SQLiteStore) Create(ctx context.Context, fields map[string]any) (int64, error) {
	cols, err := sortedFieldColumns("create", fields)
	if err != nil {
		return 0, err
	}
	if len(cols) == 0 {
		return 0, scouterrors.NewStoreError("create", errors.New("no fields"))
	}

	placeholders := make([]string, len(cols))
	values := make([]any, len(cols))
	for i, col := range cols {
		placeholders[i] = "?"
		values[i] = fields[col]
	}

	query := fmt.Sprintf(
		"INSERT INTO players (%s) VALUES (%s)",
		strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	res, err := s.db.ExecContext(ctx, query, values...)
	if err != nil {
		return 0, scouterrors.NewStoreError("create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, scouterrors.NewStoreError("create", err)
	}
	return id, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, fields map[string]any) error {
	cols, err := sortedFieldColumns("update", fields)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return nil
	}

	sets := make([]string, len(cols))
	values := make([]any, 0, len(cols)+1)
	for i, col := range cols {
		sets[i] = col + " = ?"
		values = append(values, fields[col])
	}
	values = append(values, id)

	query := fmt.Sprintf(
		"UPDATE players SET %s, updated_at = datetime('now') WHERE id = ?",
		strings.Join(sets, ", "))
	if _, err := s.db.ExecContext(ctx, query, values...); err != nil {
		return scouterrors.NewStoreError("update", err)
	}
	return nil
}

func (s *SQLiteStore) ListLinkedExternalIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT external_id FROM players WHERE external_id IS NOT NULL AND external_id != '' ORDER BY id")
	if err != nil {
		return nil, scouterrors.NewStoreError("list", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, scouterrors.NewStoreError("list", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, scouterrors.NewStoreError("list", err)
	}
	return ids, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
