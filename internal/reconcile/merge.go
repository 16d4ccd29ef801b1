package reconcile

import (
	"time"

	"github.com/flockwood/Offside-Tool/internal/player"
	"github.com/flockwood/Offside-Tool/internal/store"
)

// candidateFields converts every known candidate field into its column
// value. Unknown (nil) fields are simply absent from the map, so a create
// persists exactly what was extracted.
func candidateFields(cand *player.Candidate) map[string]any {
	fields := map[string]any{}

	if cand.ExternalID != "" {
		fields["external_id"] = cand.ExternalID
	}
	putString(fields, "first_name", cand.FirstName)
	putString(fields, "last_name", cand.LastName)
	putDate(fields, "date_of_birth", cand.DateOfBirth)
	putString(fields, "nationality", cand.Nationality)
	putInt(fields, "height_cm", cand.HeightCM)
	putInt(fields, "weight_kg", cand.WeightKG)
	if cand.PreferredFoot != nil {
		fields["preferred_foot"] = string(*cand.PreferredFoot)
	}
	if cand.Position != nil {
		fields["position"] = string(*cand.Position)
	}
	putInt(fields, "jersey_number", cand.JerseyNumber)
	putString(fields, "current_club", cand.CurrentClub)
	if cand.MarketValueEuros != nil {
		fields["market_value_euros"] = *cand.MarketValueEuros
	}
	putDate(fields, "contract_expiry", cand.ContractExpiry)
	putInt(fields, "goals", cand.Goals)
	putInt(fields, "assists", cand.Assists)
	putInt(fields, "matches_played", cand.MatchesPlayed)
	putInt(fields, "yellow_cards", cand.YellowCards)
	putInt(fields, "red_cards", cand.RedCards)
	putInt(fields, "minutes_played", cand.MinutesPlayed)
	putString(fields, "image_url", cand.ImageURL)

	return fields
}

// diff computes the columns an existing record should take from the
// candidate. A known value never regresses to unknown: a field changes only
// when the candidate knows it and it differs from what is stored. A
// candidate with an identifier also links a record that has none yet.
func diff(existing *player.Record, cand *player.Candidate) map[string]any {
	changes := map[string]any{}

	if cand.ExternalID != "" && existing.ExternalID == nil {
		changes["external_id"] = cand.ExternalID
	}

	if cand.FirstName != nil && *cand.FirstName != existing.FirstName {
		changes["first_name"] = *cand.FirstName
	}
	if cand.LastName != nil && *cand.LastName != existing.LastName {
		changes["last_name"] = *cand.LastName
	}

	diffDate(changes, "date_of_birth", existing.DateOfBirth, cand.DateOfBirth)
	diffString(changes, "nationality", existing.Nationality, cand.Nationality)
	diffInt(changes, "height_cm", existing.HeightCM, cand.HeightCM)
	diffInt(changes, "weight_kg", existing.WeightKG, cand.WeightKG)
	if cand.PreferredFoot != nil && (existing.PreferredFoot == nil || *existing.PreferredFoot != *cand.PreferredFoot) {
		changes["preferred_foot"] = string(*cand.PreferredFoot)
	}
	if cand.Position != nil && (existing.Position == nil || *existing.Position != *cand.Position) {
		changes["position"] = string(*cand.Position)
	}
	diffInt(changes, "jersey_number", existing.JerseyNumber, cand.JerseyNumber)
	diffString(changes, "current_club", existing.CurrentClub, cand.CurrentClub)
	if cand.MarketValueEuros != nil && (existing.MarketValueEuros == nil || *existing.MarketValueEuros != *cand.MarketValueEuros) {
		changes["market_value_euros"] = *cand.MarketValueEuros
	}
	diffDate(changes, "contract_expiry", existing.ContractExpiry, cand.ContractExpiry)
	diffInt(changes, "goals", existing.Goals, cand.Goals)
	diffInt(changes, "assists", existing.Assists, cand.Assists)
	diffInt(changes, "matches_played", existing.MatchesPlayed, cand.MatchesPlayed)
	diffInt(changes, "yellow_cards", existing.YellowCards, cand.YellowCards)
	diffInt(changes, "red_cards", existing.RedCards, cand.RedCards)
	diffInt(changes, "minutes_played", existing.MinutesPlayed, cand.MinutesPlayed)
	diffString(changes, "image_url", existing.ImageURL, cand.ImageURL)

	return changes
}

func putString(fields map[string]any, col string, v *string) {
	if v != nil && *v != "" {
		fields[col] = *v
	}
}

func putInt(fields map[string]any, col string, v *int) {
	if v != nil {
		fields[col] = *v
	}
}

func putDate(fields map[string]any, col string, v *time.Time) {
	if v != nil {
		fields[col] = store.FormatDate(*v)
	}
}

func diffString(changes map[string]any, col string, stored, fresh *string) {
	if fresh == nil || *fresh == "" {
		return
	}
	if stored == nil || *stored != *fresh {
		changes[col] = *fresh
	}
}

func diffInt(changes map[string]any, col string, stored, fresh *int) {
	if fresh == nil {
		return
	}
	if stored == nil || *stored != *fresh {
		changes[col] = *fresh
	}
}

func diffDate(changes map[string]any, col string, stored, fresh *time.Time) {
	if fresh == nil {
		return
	}
	if stored == nil || !stored.Equal(*fresh) {
		changes[col] = store.FormatDate(*fresh)
	}
}
