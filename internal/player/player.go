// Package player holds the domain types shared by the ingestion pipeline:
// the partially-known candidate extracted from the external source, the
// catalog record it reconciles against, and the per-job outcome.
package player

import (
	"strings"
	"time"
)

// Position is the fixed position enumeration records are mapped into.
type Position string

const (
	PositionGoalkeeper Position = "goalkeeper"
	PositionDefender   Position = "defender"
	PositionMidfielder Position = "midfielder"
	PositionForward    Position = "forward"
)

// Foot is the preferred-foot enumeration.
type Foot string

const (
	FootLeft  Foot = "left"
	FootRight Foot = "right"
	FootBoth  Foot = "both"
)

// Candidate is a freshly extracted, partially known player profile.
// Every field is independently optional: nil means "unknown", never zero.
// A Candidate is never persisted directly; it always passes through the
// reconciler.
type Candidate struct {
	ExternalID string

	FirstName        *string
	LastName         *string
	DateOfBirth      *time.Time
	Nationality      *string
	HeightCM         *int
	WeightKG         *int
	PreferredFoot    *Foot
	Position         *Position
	JerseyNumber     *int
	CurrentClub      *string
	MarketValueEuros *float64
	ContractExpiry   *time.Time
	Goals            *int
	Assists          *int
	MatchesPlayed    *int
	YellowCards      *int
	RedCards         *int
	MinutesPlayed    *int
	ImageURL         *string
}

// FullName returns the candidate's display name built from the known name
// parts, or "" when neither part is known.
func (c *Candidate) FullName() string {
	var parts []string
	if c.FirstName != nil && *c.FirstName != "" {
		parts = append(parts, *c.FirstName)
	}
	if c.LastName != nil && *c.LastName != "" {
		parts = append(parts, *c.LastName)
	}
	return strings.Join(parts, " ")
}

// Record is the catalog view of a player: the identity fields needed for
// matching plus the current values of every reconcilable field.
type Record struct {
	ID         int64
	ExternalID *string

	FirstName        string
	LastName         string
	DateOfBirth      *time.Time
	Nationality      *string
	HeightCM         *int
	WeightKG         *int
	PreferredFoot    *Foot
	Position         *Position
	JerseyNumber     *int
	CurrentClub      *string
	MarketValueEuros *float64
	ContractExpiry   *time.Time
	Goals            *int
	Assists          *int
	MatchesPlayed    *int
	YellowCards      *int
	RedCards         *int
	MinutesPlayed    *int
	ImageURL         *string
}

// FullName returns the record's display name.
func (r *Record) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}
