package transfermarkt

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scouterrors "github.com/flockwood/Offside-Tool/internal/errors"
	"github.com/flockwood/Offside-Tool/internal/player"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestParseProfile(t *testing.T) {
	cand, err := ParseProfile(loadFixture(t, "profile.html"))
	require.NoError(t, err)

	require.NotNil(t, cand.FirstName)
	assert.Equal(t, "Kylian", *cand.FirstName)
	require.NotNil(t, cand.LastName)
	assert.Equal(t, "Mbappé", *cand.LastName)

	require.NotNil(t, cand.DateOfBirth)
	assert.Equal(t, time.Date(1998, time.December, 20, 0, 0, 0, 0, time.UTC), *cand.DateOfBirth)
	require.NotNil(t, cand.HeightCM)
	assert.Equal(t, 178, *cand.HeightCM)
	require.NotNil(t, cand.WeightKG)
	assert.Equal(t, 75, *cand.WeightKG)
	require.NotNil(t, cand.Nationality)
	assert.Equal(t, "France", *cand.Nationality)
	require.NotNil(t, cand.Position)
	assert.Equal(t, player.PositionForward, *cand.Position)
	require.NotNil(t, cand.PreferredFoot)
	assert.Equal(t, player.FootRight, *cand.PreferredFoot)
	require.NotNil(t, cand.ContractExpiry)
	assert.Equal(t, time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC), *cand.ContractExpiry)

	require.NotNil(t, cand.CurrentClub)
	assert.Equal(t, "Real Madrid", *cand.CurrentClub)
	require.NotNil(t, cand.JerseyNumber)
	assert.Equal(t, 10, *cand.JerseyNumber)
	require.NotNil(t, cand.MarketValueEuros)
	assert.Equal(t, 180_000_000.0, *cand.MarketValueEuros)
	require.NotNil(t, cand.ImageURL)
	assert.Equal(t, "https://img.example.test/342229.jpg", *cand.ImageURL)

	require.NotNil(t, cand.Goals)
	assert.Equal(t, 255, *cand.Goals)
	require.NotNil(t, cand.Assists)
	assert.Equal(t, 110, *cand.Assists)
	require.NotNil(t, cand.MatchesPlayed)
	assert.Equal(t, 420, *cand.MatchesPlayed)
	require.NotNil(t, cand.YellowCards)
	assert.Equal(t, 38, *cand.YellowCards)
	require.NotNil(t, cand.RedCards)
	assert.Equal(t, 2, *cand.RedCards)
	require.NotNil(t, cand.MinutesPlayed)
	assert.Equal(t, 34560, *cand.MinutesPlayed)

	assert.Equal(t, "Kylian Mbappé", cand.FullName())
}

func TestParseProfileMissingHeaderIsParsingError(t *testing.T) {
	html := []byte(`<html><body><div class="info-table"></div></body></html>`)

	_, err := ParseProfile(html)
	require.Error(t, err)
	assert.True(t, scouterrors.IsParsingError(err))
}

func TestParseProfilePartialFieldsStayUnknown(t *testing.T) {
	// Header present but no market value and a malformed birth date: the
	// affected fields stay unknown, everything else still populates.
	html := []byte(`<html><body>
		<h1 class="data-header__headline-wrapper">Bob Jones</h1>
		<span class="data-header__club"><a href="/c/1">FC Example</a></span>
		<div class="info-table">
			<span class="info-table__content">Date of birth:</span>
			<span class="info-table__content">sometime in winter</span>
			<span class="info-table__content">Height:</span>
			<span class="info-table__content">1,84 m</span>
		</div>
	</body></html>`)

	cand, err := ParseProfile(html)
	require.NoError(t, err)

	assert.Nil(t, cand.MarketValueEuros)
	assert.Nil(t, cand.DateOfBirth)
	assert.Nil(t, cand.Position)
	require.NotNil(t, cand.HeightCM)
	assert.Equal(t, 184, *cand.HeightCM)
	require.NotNil(t, cand.CurrentClub)
	assert.Equal(t, "FC Example", *cand.CurrentClub)
	assert.Equal(t, "Bob Jones", cand.FullName())
}

func TestParseProfileUnknownPositionStaysUnknown(t *testing.T) {
	html := []byte(`<html><body>
		<h1 class="data-header__headline-wrapper">Alice Smith</h1>
		<div class="info-table">
			<span class="info-table__content">Position:</span>
			<span class="info-table__content">Quarterback</span>
		</div>
	</body></html>`)

	cand, err := ParseProfile(html)
	require.NoError(t, err)
	assert.Nil(t, cand.Position)
}
