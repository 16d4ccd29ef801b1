package transfermarkt

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	scouterrors "github.com/flockwood/Offside-Tool/internal/errors"
	"github.com/flockwood/Offside-Tool/internal/player"
)

// dateLayout is the single expected date format on profile pages.
// Anything else yields unknown for that field.
const dateLayout = "02/01/2006"

var (
	playerIDRe  = regexp.MustCompile(`/spieler/(\d+)`)
	dateRe      = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)
	heightRe    = regexp.MustCompile(`(\d+),(\d+)`)
	birthYearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// ParseSearch parses a name-search results page into hits.
// A structurally missing results table is a ParsingError; a present table
// with zero player rows is a valid empty result.
func ParseSearch(html []byte) ([]SearchHit, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, scouterrors.NewParsingError("search page is not parseable HTML: " + err.Error())
	}

	table := doc.Find("table.items").First()
	if table.Length() == 0 {
		return nil, scouterrors.NewParsingError("search results table not found")
	}

	hits := []SearchHit{}
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("td.hauptlink a").First()
		if link.Length() == 0 {
			return
		}
		href, _ := link.Attr("href")
		id := playerIDFromURL(href)
		if id == "" {
			return
		}

		hit := SearchHit{
			ExternalID: id,
			Name:       cleanText(link.Text()),
		}
		if alt, ok := row.Find("td.zentriert img").First().Attr("alt"); ok {
			hit.Club = cleanText(alt)
		}
		hit.Position = cleanText(row.Find("table.inline-table tr td").Last().Text())
		row.Find("td.zentriert").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			if m := birthYearRe.FindString(cell.Text()); m != "" {
				hit.BirthYear, _ = strconv.Atoi(m)
				return false
			}
			return true
		})

		hits = append(hits, hit)
	})

	return hits, nil
}

// ParseProfile parses a player profile page into a candidate record.
// The profile header is the structural anchor: without it the document is
// rejected as a whole. Every other field is independently best-effort and
// stays unknown on a local parse failure.
func ParseProfile(html []byte) (*player.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, scouterrors.NewParsingError("profile page is not parseable HTML: " + err.Error())
	}

	header := doc.Find("h1.data-header__headline-wrapper").First()
	if header.Length() == 0 {
		return nil, scouterrors.NewParsingError("profile header not found")
	}

	cand := &player.Candidate{}

	first, last := splitName(header.Text())
	if first != "" {
		cand.FirstName = &first
	}
	if last != "" {
		cand.LastName = &last
	}

	parseInfoTable(doc, cand)
	parseStats(doc, cand)

	if txt := cleanText(doc.Find("a.data-header__market-value-wrapper").First().Text()); txt != "" {
		// The wrapper also carries "last update" text; the value is the
		// first token.
		if v := parseCurrency(strings.Fields(txt)[0]); v != nil {
			cand.MarketValueEuros = v
		}
	}

	if club := cleanText(doc.Find("span.data-header__club a").First().Text()); club != "" {
		cand.CurrentClub = &club
	}

	if txt := cleanText(doc.Find("span.data-header__shirt-number").First().Text()); txt != "" {
		if n := parseNumber(strings.TrimPrefix(txt, "#")); n != nil {
			cand.JerseyNumber = n
		}
	}

	if src, ok := doc.Find("img.data-header__profile-image").First().Attr("src"); ok {
		if src = strings.TrimSpace(src); src != "" {
			cand.ImageURL = &src
		}
	}

	return cand, nil
}

// parseInfoTable walks the label/value span pairs of the personal info
// table. Labels are matched loosely; each value parses independently.
func parseInfoTable(doc *goquery.Document, cand *player.Candidate) {
	spans := doc.Find("div.info-table span.info-table__content")
	texts := make([]string, 0, spans.Length())
	spans.Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, cleanText(s.Text()))
	})

	for i := 0; i+1 < len(texts); i += 2 {
		label := strings.ToLower(texts[i])
		value := texts[i+1]

		switch {
		case strings.Contains(label, "date of birth") || strings.Contains(label, "born"):
			if d := parseDate(value); d != nil {
				cand.DateOfBirth = d
			}
		case strings.Contains(label, "height"):
			if cm := parseHeightCM(value); cm != nil {
				cand.HeightCM = cm
			}
		case strings.Contains(label, "weight"):
			if kg := parseNumber(value); kg != nil {
				cand.WeightKG = kg
			}
		case strings.Contains(label, "citizenship") || strings.Contains(label, "nationality"):
			if value != "" {
				v := value
				cand.Nationality = &v
			}
		case strings.Contains(label, "position"):
			if p := mapPosition(value); p != nil {
				cand.Position = p
			}
		case strings.Contains(label, "foot"):
			if f := mapFoot(value); f != nil {
				cand.PreferredFoot = f
			}
		case strings.Contains(label, "contract"):
			if d := parseDate(value); d != nil {
				cand.ContractExpiry = d
			}
		}
	}
}

// parseStats reads the career statistics boxes.
func parseStats(doc *goquery.Document, cand *player.Candidate) {
	doc.Find("div.stats-box div.box-content").Each(func(_ int, box *goquery.Selection) {
		name := strings.ToLower(cleanText(box.Find("div.box-heading").First().Text()))
		value := cleanText(box.Find("div.box-value").First().Text())
		if name == "" || value == "" {
			return
		}

		n := parseNumber(value)
		if n == nil {
			return
		}

		switch {
		case strings.Contains(name, "yellow card"):
			cand.YellowCards = n
		case strings.Contains(name, "red card"):
			cand.RedCards = n
		case strings.Contains(name, "goal"):
			cand.Goals = n
		case strings.Contains(name, "assist"):
			cand.Assists = n
		case strings.Contains(name, "matches") || strings.Contains(name, "appearances"):
			cand.MatchesPlayed = n
		case strings.Contains(name, "minutes"):
			cand.MinutesPlayed = n
		}
	})
}

// positionTable maps source position strings to the fixed enumeration.
// Lookups are case-insensitive; unrecognized strings map to unknown.
var positionTable = map[string]player.Position{
	"goalkeeper":         player.PositionGoalkeeper,
	"keeper":             player.PositionGoalkeeper,
	"centre-back":        player.PositionDefender,
	"center-back":        player.PositionDefender,
	"left-back":          player.PositionDefender,
	"right-back":         player.PositionDefender,
	"defender":           player.PositionDefender,
	"sweeper":            player.PositionDefender,
	"defensive midfield": player.PositionMidfielder,
	"central midfield":   player.PositionMidfielder,
	"attacking midfield": player.PositionMidfielder,
	"left midfield":      player.PositionMidfielder,
	"right midfield":     player.PositionMidfielder,
	"midfielder":         player.PositionMidfielder,
	"centre-forward":     player.PositionForward,
	"center-forward":     player.PositionForward,
	"second striker":     player.PositionForward,
	"striker":            player.PositionForward,
	"left winger":        player.PositionForward,
	"right winger":       player.PositionForward,
	"forward":            player.PositionForward,
	"attacker":           player.PositionForward,
}

// mapPosition maps a source position string into the fixed enumeration,
// nil (unknown) for anything unrecognized.
func mapPosition(text string) *player.Position {
	key := strings.ToLower(cleanText(text))
	if p, ok := positionTable[key]; ok {
		return &p
	}
	return nil
}

func mapFoot(text string) *player.Foot {
	switch {
	case strings.Contains(strings.ToLower(text), "both"):
		f := player.FootBoth
		return &f
	case strings.Contains(strings.ToLower(text), "left"):
		f := player.FootLeft
		return &f
	case strings.Contains(strings.ToLower(text), "right"):
		f := player.FootRight
		return &f
	}
	return nil
}

// parseCurrency normalizes a currency string: symbols stripped, trailing
// magnitude suffix applied case-insensitively (k ×1e3, m ×1e6, b ×1e9),
// bare numbers taken as base units. Malformed text yields nil.
func parseCurrency(text string) *float64 {
	cleaned := strings.NewReplacer("€", "", "$", "", "£", "", " ", "").Replace(text)
	cleaned = strings.TrimSpace(strings.ToLower(cleaned))
	if cleaned == "" {
		return nil
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(cleaned, "bn"):
		multiplier = 1_000_000_000
		cleaned = strings.TrimSuffix(cleaned, "bn")
	case strings.HasSuffix(cleaned, "b"):
		multiplier = 1_000_000_000
		cleaned = strings.TrimSuffix(cleaned, "b")
	case strings.HasSuffix(cleaned, "m"):
		multiplier = 1_000_000
		cleaned = strings.TrimSuffix(cleaned, "m")
	case strings.HasSuffix(cleaned, "k"):
		multiplier = 1_000
		cleaned = strings.TrimSuffix(cleaned, "k")
	}

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	v := n * multiplier
	return &v
}

// parseNumber strips non-digit characters and parses the remainder as an
// integer; an empty result after stripping yields nil.
func parseNumber(text string) *int {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return nil
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return nil
	}
	return &n
}

// parseDate extracts a dd/mm/yyyy date from free text; anything else is
// unknown.
func parseDate(text string) *time.Time {
	m := dateRe.FindString(text)
	if m == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, m)
	if err != nil {
		return nil
	}
	return &t
}

// parseHeightCM reads a "1,87 m" style height into centimeters.
func parseHeightCM(text string) *int {
	m := heightRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	whole, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	frac := m[2]
	if len(frac) > 2 {
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}
	cents, err := strconv.Atoi(frac)
	if err != nil {
		return nil
	}
	cm := whole*100 + cents
	return &cm
}

// splitName splits a header name into first/last, dropping a leading shirt
// number token ("#10 Lionel Messi").
func splitName(text string) (first, last string) {
	fields := strings.Fields(cleanText(text))
	names := fields[:0]
	for _, f := range fields {
		if strings.HasPrefix(f, "#") {
			continue
		}
		names = append(names, f)
	}
	switch len(names) {
	case 0:
		return "", ""
	case 1:
		return names[0], ""
	default:
		return strings.Join(names[:len(names)-1], " "), names[len(names)-1]
	}
}

// playerIDFromURL extracts the external identifier from a profile href.
func playerIDFromURL(href string) string {
	m := playerIDRe.FindStringSubmatch(href)
	if m == nil {
		return ""
	}
	return m[1]
}

// cleanText collapses all whitespace runs to single spaces and trims.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
