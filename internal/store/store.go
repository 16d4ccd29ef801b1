// Package store persists the player catalog. Two backends exist, a local
// SQLite file and Postgres, behind one PlayerStore interface.
//
// Writes travel as column/value maps so the reconciler can persist exactly
// the fields it decided to change and nothing else. Column names are
// whitelisted before they reach any SQL text.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	scouterrors "github.com/flockwood/Offside-Tool/internal/errors"
	"github.com/flockwood/Offside-Tool/internal/player"
)

// dateLayout is the storage format for date-typed columns.
const dateLayout = "2006-01-02"

// PlayerStore is the catalog persistence interface.
// Find methods return (nil, nil) when no record matches.
type PlayerStore interface {
	FindByExternalID(ctx context.Context, externalID string) (*player.Record, error)
	FindByFullName(ctx context.Context, fullName string) (*player.Record, error)
	Create(ctx context.Context, fields map[string]any) (int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) error

	// ListLinkedExternalIDs returns the external identifiers of every
	// record linked to the source, in catalog order.
	ListLinkedExternalIDs(ctx context.Context) ([]string, error)

	Close() error
}

// recordColumns is the fixed SELECT column order for reading records.
// scanRecord depends on this order.
var recordColumns = []string{
	"id", "external_id", "first_name", "last_name",
	"date_of_birth", "nationality", "height_cm", "weight_kg",
	"preferred_foot", "position", "jersey_number", "current_club",
	"market_value_euros", "contract_expiry",
	"goals", "assists", "matches_played",
	"yellow_cards", "red_cards", "minutes_played",
	"image_url",
}

// writableColumns whitelists the columns Create and Update may touch.
var writableColumns = map[string]bool{
	"external_id":        true,
	"first_name":         true,
	"last_name":          true,
	"date_of_birth":      true,
	"nationality":        true,
	"height_cm":          true,
	"weight_kg":          true,
	"preferred_foot":     true,
	"position":           true,
	"jersey_number":      true,
	"current_club":       true,
	"market_value_euros": true,
	"contract_expiry":    true,
	"goals":              true,
	"assists":            true,
	"matches_played":     true,
	"yellow_cards":       true,
	"red_cards":          true,
	"minutes_played":     true,
	"image_url":          true,
}

// sortedFieldColumns validates the field map against the whitelist and
// returns its keys in a deterministic order.
func sortedFieldColumns(op string, fields map[string]any) ([]string, error) {
	cols := make([]string, 0, len(fields))
	for col := range fields {
		if !writableColumns[col] {
			return nil, scouterrors.NewStoreError(op, fmt.Errorf("unknown column %q", col))
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols, nil
}

// row is the scan surface shared by database/sql and pgx result rows.
type row interface {
	Scan(dest ...any) error
}

// scanRecord reads one result row, in recordColumns order, into a Record.
func scanRecord(r row) (*player.Record, error) {
	var (
		rec        player.Record
		externalID sql.NullString
		dob        sql.NullString
		nation     sql.NullString
		height     sql.NullInt64
		weight     sql.NullInt64
		foot       sql.NullString
		position   sql.NullString
		jersey     sql.NullInt64
		club       sql.NullString
		value      sql.NullFloat64
		contract   sql.NullString
		goals      sql.NullInt64
		assists    sql.NullInt64
		matches    sql.NullInt64
		yellows    sql.NullInt64
		reds       sql.NullInt64
		minutes    sql.NullInt64
		imageURL   sql.NullString
	)

	err := r.Scan(
		&rec.ID, &externalID, &rec.FirstName, &rec.LastName,
		&dob, &nation, &height, &weight,
		&foot, &position, &jersey, &club,
		&value, &contract,
		&goals, &assists, &matches,
		&yellows, &reds, &minutes,
		&imageURL,
	)
	if err != nil {
		return nil, err
	}

	rec.ExternalID = nullString(externalID)
	rec.DateOfBirth = nullDate(dob)
	rec.Nationality = nullString(nation)
	rec.HeightCM = nullInt(height)
	rec.WeightKG = nullInt(weight)
	if s := nullString(foot); s != nil {
		f := player.Foot(*s)
		rec.PreferredFoot = &f
	}
	if s := nullString(position); s != nil {
		p := player.Position(*s)
		rec.Position = &p
	}
	rec.JerseyNumber = nullInt(jersey)
	rec.CurrentClub = nullString(club)
	rec.MarketValueEuros = nullFloat(value)
	rec.ContractExpiry = nullDate(contract)
	rec.Goals = nullInt(goals)
	rec.Assists = nullInt(assists)
	rec.MatchesPlayed = nullInt(matches)
	rec.YellowCards = nullInt(yellows)
	rec.RedCards = nullInt(reds)
	rec.MinutesPlayed = nullInt(minutes)
	rec.ImageURL = nullString(imageURL)

	return &rec, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid || v.String == "" {
		return nil
	}
	s := v.String
	return &s
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullDate(v sql.NullString) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, v.String)
	if err != nil {
		return nil
	}
	return &t
}

// FormatDate renders a date the way date-typed columns store it.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
