package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	scouterrors "github.com/flockwood/Offside-Tool/internal/errors"
	"github.com/flockwood/Offside-Tool/internal/player"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS players (
	id BIGSERIAL PRIMARY KEY,
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
	market_value_euros DOUBLE PRECISION,
	contract_expiry TEXT,
	goals INTEGER,
	assists INTEGER,
	matches_played INTEGER,
	yellow_cards INTEGER,
	red_cards INTEGER,
	minutes_played INTEGER,
	image_url TEXT,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore is the shared-database catalog backend.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to the catalog database, verifies the connection,
// and ensures the schema exists.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, scouterrors.NewStoreError("open", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, scouterrors.NewStoreError("open", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, scouterrors.NewStoreError("open", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) FindByExternalID(ctx context.Context, externalID string) (*player.Record, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM players WHERE external_id = $1",
		strings.Join(recordColumns, ", "))
	rec, err := scanRecord(s.pool.QueryRow(ctx, query, externalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, scouterrors.NewStoreError("find", err)
	}
	return rec, nil
}

func (s *PostgresStore) FindByFullName(ctx context.Context, fullName string) (*player.Record, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM players WHERE LOWER(TRIM(first_name || ' ' || last_name)) = LOWER(TRIM($1))",
		strings.Join(recordColumns, ", "))
	rec, err := scanRecord(s.pool.QueryRow(ctx, query, fullName))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, scouterrors.NewStoreError("find", err)
	}
	return rec, nil
}

func (s *PostgresStore) Create(ctx context.Context, fields map[string]any) (int64, error) {
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
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		values[i] = fields[col]
	}

	query := fmt.Sprintf(
		"INSERT INTO players (%s) VALUES (%s) RETURNING id",
		strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	var id int64
	if err := s.pool.QueryRow(ctx, query, values...).Scan(&id); err != nil {
		return 0, scouterrors.NewStoreError("create", err)
	}
	return id, nil
}

func (s *PostgresStore) Update(ctx context.Context, id int64, fields map[string]any) error {
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
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
		values = append(values, fields[col])
	}
	values = append(values, id)

	query := fmt.Sprintf(
		"UPDATE players SET %s, updated_at = NOW() WHERE id = $%d",
		strings.Join(sets, ", "), len(cols)+1)
	if _, err := s.pool.Exec(ctx, query, values...); err != nil {
		return scouterrors.NewStoreError("update", err)
	}
	return nil
}

func (s *PostgresStore) ListLinkedExternalIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT external_id FROM players WHERE external_id IS NOT NULL AND external_id != '' ORDER BY id")
	if err != nil {
		return nil, scouterrors.NewStoreError("list", err)
	}
	defer rows.Close()

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

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
