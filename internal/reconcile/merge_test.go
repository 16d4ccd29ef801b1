package reconcile

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/flockwood/Offside-Tool/internal/player"
)

func strPtr(s string) *string                   { return &s }
func intPtr(n int) *int                         { return &n }
func floatPtr(f float64) *float64               { return &f }
func timePtr(t time.Time) *time.Time            { return &t }
func posPtr(p player.Position) *player.Position { return &p }

func TestCandidateFieldsSkipsUnknowns(t *testing.T) {
	cand := &player.Candidate{
		ExternalID: "342229",
		FirstName:  strPtr("Kylian"),
		LastName:   strPtr("Mbappé"),
		Goals:      intPtr(255),
	}

	fields := candidateFields(cand)
	assert.Equal(t, map[string]any{
		"external_id": "342229",
		"first_name":  "Kylian",
		"last_name":   "Mbappé",
		"goals":       255,
	}, fields)
}

func TestCandidateFieldsFormatsDatesAndEnums(t *testing.T) {
	foot := player.FootRight
	cand := &player.Candidate{
		DateOfBirth:      timePtr(time.Date(1998, time.December, 20, 0, 0, 0, 0, time.UTC)),
		Position:         posPtr(player.PositionForward),
		PreferredFoot:    &foot,
		MarketValueEuros: floatPtr(180_000_000),
	}

	fields := candidateFields(cand)
	assert.Equal(t, "1998-12-20", fields["date_of_birth"].(string))
	assert.Equal(t, "forward", fields["position"].(string))
	assert.Equal(t, "right", fields["preferred_foot"].(string))
	assert.Equal(t, 180_000_000.0, fields["market_value_euros"].(float64))
}

func TestDiffNeverDowngradesKnownToUnknown(t *testing.T) {
	existing := &player.Record{
		ID:        1,
		FirstName: "Kylian",
		LastName:  "Mbappé",
		HeightCM:  intPtr(178),
		Goals:     intPtr(255),
	}
	// Candidate knows nothing beyond the name: no change at all.
	cand := &player.Candidate{
		FirstName: strPtr("Kylian"),
		LastName:  strPtr("Mbappé"),
	}

	assert.Equal(t, 0, len(diff(existing, cand)))
}

func TestDiffOnlyChangedFields(t *testing.T) {
	existing := &player.Record{
		ID:          1,
		FirstName:   "Kylian",
		LastName:    "Mbappé",
		Goals:       intPtr(250),
		CurrentClub: strPtr("Paris SG"),
		HeightCM:    intPtr(178),
	}
	cand := &player.Candidate{
		Goals:       intPtr(255),
		CurrentClub: strPtr("Real Madrid"),
		HeightCM:    intPtr(178),
	}

	changes := diff(existing, cand)
	assert.Equal(t, map[string]any{
		"goals":        255,
		"current_club": "Real Madrid",
	}, changes)
}

func TestDiffLinksUnlinkedRecord(t *testing.T) {
	existing := &player.Record{ID: 1, FirstName: "Kylian", LastName: "Mbappé"}
	cand := &player.Candidate{ExternalID: "342229"}

	changes := diff(existing, cand)
	assert.Equal(t, "342229", changes["external_id"].(string))
}

func TestDiffDoesNotRelinkLinkedRecord(t *testing.T) {
	existing := &player.Record{ID: 1, ExternalID: strPtr("342229")}
	cand := &player.Candidate{ExternalID: "342229"}

	_, relinked := diff(existing, cand)["external_id"]
	assert.False(t, relinked)
}

func TestDiffDateEquality(t *testing.T) {
	dob := time.Date(1998, time.December, 20, 0, 0, 0, 0, time.UTC)
	existing := &player.Record{ID: 1, DateOfBirth: timePtr(dob)}

	cand := &player.Candidate{DateOfBirth: timePtr(dob)}
	assert.Equal(t, 0, len(diff(existing, cand)))

	cand = &player.Candidate{DateOfBirth: timePtr(dob.AddDate(0, 0, 1))}
	assert.Equal(t, "1998-12-21", diff(existing, cand)["date_of_birth"].(string))
}
