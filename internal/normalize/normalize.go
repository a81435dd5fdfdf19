// Package normalize derives analysis-ready columns from the raw text fields of a dataset.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/showloom-cli/internal/dataset"
)

// PremiereLayout is the fixed day-month-year format of the premiere column, e.g. "14-Jan-20".
const PremiereLayout = "2-Jan-06"

// StatusRule maps a lowercase keyword to a category.
type StatusRule struct {
	Keyword  string
	Category string
}

// StatusRules is evaluated in order; the first keyword contained in the status text wins.
var StatusRules = []StatusRule{
	{Keyword: "renewed", Category: "Renewed"},
	{Keyword: "ended", Category: "Ended"},
	{Keyword: "miniseries", Category: "Miniseries"},
	{Keyword: "pending", Category: "Pending"},
	{Keyword: "tbd", Category: "Pending"},
}

var (
	genreSeparators = regexp.MustCompile(`[/&]| and `)
	lengthRange     = regexp.MustCompile(`(\d+)[–-](\d+)`)
	lengthSingle    = regexp.MustCompile(`(\d+)\s+min`)
	seasonsText     = regexp.MustCompile(`(?i)(\d+)\s*seasons?`)
	episodesText    = regexp.MustCompile(`(?i)(\d+)\s*episodes?`)
)

// Stats summarizes what a normalization pass could and could not derive.
type Stats struct {
	Records        int
	DatesParsed    int
	DatesMissed    int
	LengthFromPair int
	LengthFromText int
	LengthAbsent   int
	GenreColumn    string
}

// Normalize attaches derived values to every record in place. Raw fields are
// never modified, so calling it again yields identical derived values.
func Normalize(ds *dataset.Dataset) Stats {
	st := Stats{Records: ds.Len()}
	if ds == nil {
		return st
	}
	genreCol := GenreColumn(ds)
	st.GenreColumn = genreCol
	hasPair := ds.HasColumn(dataset.ColMinLength) && ds.HasColumn(dataset.ColMaxLength)
	hasLength := ds.HasColumn(dataset.ColLength)
	hasStatus := ds.HasColumn(dataset.ColStatus)
	hasSeasonCols := ds.HasColumn(dataset.ColSeasonsParsed) && ds.HasColumn(dataset.ColEpisodesParsed)
	hasSeasonText := ds.HasColumn(dataset.ColSeasons)

	ds.Derived = dataset.Derived{
		HasPremiere: ds.HasColumn(dataset.ColPremiere),
		HasGenres:   genreCol != "",
		HasLength:   hasPair || hasLength,
		HasStatus:   hasStatus,
		HasSeasons:  hasSeasonCols || hasSeasonText,
	}

	for _, r := range ds.Records {
		r.PremiereDate, r.PremiereYear = dataset.None[time.Time](), dataset.None[int]()
		if ds.Derived.HasPremiere {
			raw, _ := r.Get(dataset.ColPremiere)
			if d, ok := ParsePremiere(raw); ok {
				r.PremiereDate = dataset.Some(d)
				r.PremiereYear = dataset.Some(d.Year())
				st.DatesParsed++
			} else {
				st.DatesMissed++
			}
		}

		r.GenreTokens = nil
		if genreCol != "" {
			if raw, ok := r.Get(genreCol); ok {
				r.GenreTokens = SplitGenres(raw)
			}
		}

		r.EpisodeLengthAvg = dataset.None[float64]()
		if hasPair {
			lo, _ := r.Get(dataset.ColMinLength)
			hi, _ := r.Get(dataset.ColMaxLength)
			if v, ok := LengthFromPair(lo, hi); ok {
				r.EpisodeLengthAvg = dataset.Some(v)
				st.LengthFromPair++
			}
		}
		if !r.EpisodeLengthAvg.Valid && hasLength {
			raw, _ := r.Get(dataset.ColLength)
			if v, ok := LengthFromText(raw); ok {
				r.EpisodeLengthAvg = dataset.Some(v)
				st.LengthFromText++
			}
		}
		if !r.EpisodeLengthAvg.Valid {
			st.LengthAbsent++
		}

		r.StatusCategory = dataset.StatusOther
		if hasStatus {
			raw, _ := r.Get(dataset.ColStatus)
			r.StatusCategory = ClassifyStatus(raw)
		}

		r.SeasonCount, r.EpisodeCount = dataset.None[int](), dataset.None[int]()
		if hasSeasonCols {
			s, _ := r.Get(dataset.ColSeasonsParsed)
			e, _ := r.Get(dataset.ColEpisodesParsed)
			r.SeasonCount = parseCount(s)
			r.EpisodeCount = parseCount(e)
		}
		if hasSeasonText && (!r.SeasonCount.Valid || !r.EpisodeCount.Valid) {
			raw, _ := r.Get(dataset.ColSeasons)
			if !r.SeasonCount.Valid {
				r.SeasonCount = matchCount(seasonsText, raw)
			}
			if !r.EpisodeCount.Valid {
				r.EpisodeCount = matchCount(episodesText, raw)
			}
		}
	}
	return st
}

// GenreColumn picks the genre-bearing column: pre-labeled list first, then free text.
func GenreColumn(ds *dataset.Dataset) string {
	switch {
	case ds.HasColumn(dataset.ColGenreLabels):
		return dataset.ColGenreLabels
	case ds.HasColumn(dataset.ColGenre):
		return dataset.ColGenre
	}
	return ""
}

// ParsePremiere parses the premiere column's fixed date format.
func ParsePremiere(raw string) (time.Time, bool) {
	t, err := time.Parse(PremiereLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SplitGenres tokenizes free genre text. Tokens keep surrounding whitespace;
// consumers that explode the list trim them.
func SplitGenres(raw string) []string {
	s := strings.ReplaceAll(raw, `"`, "")
	s = genreSeparators.ReplaceAllString(s, ",")
	s = strings.ToLower(s)
	return strings.Split(s, ",")
}

// LengthFromPair averages explicit min/max lengths when both are finite and positive.
func LengthFromPair(minRaw, maxRaw string) (float64, bool) {
	lo, ok := parseNumber(minRaw)
	if !ok || lo <= 0 {
		return 0, false
	}
	hi, ok := parseNumber(maxRaw)
	if !ok || hi <= 0 {
		return 0, false
	}
	return (lo + hi) / 2, true
}

// LengthFromText extracts "A-B" (hyphen or en dash) or "N min" from free text.
// Results that are not strictly positive are discarded.
func LengthFromText(raw string) (float64, bool) {
	var v float64
	if m := lengthRange.FindStringSubmatch(raw); m != nil {
		a, errA := strconv.ParseFloat(m[1], 64)
		b, errB := strconv.ParseFloat(m[2], 64)
		if errA != nil || errB != nil {
			return 0, false
		}
		v = (a + b) / 2
	} else if m := lengthSingle.FindStringSubmatch(raw); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		v = n
	} else {
		return 0, false
	}
	if v <= 0 {
		return 0, false
	}
	return v, true
}

// ClassifyStatus maps raw status text to a category, defaulting to "Other".
func ClassifyStatus(raw string) string {
	s := strings.ToLower(raw)
	if strings.TrimSpace(s) == "" {
		return dataset.StatusOther
	}
	for _, rule := range StatusRules {
		if strings.Contains(s, rule.Keyword) {
			return rule.Category
		}
	}
	return dataset.StatusOther
}

func parseNumber(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseCount accepts integral numbers, including "3.0" as written by spreadsheet exports.
func parseCount(raw string) dataset.Maybe[int] {
	f, ok := parseNumber(raw)
	if !ok || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return dataset.None[int]()
	}
	return dataset.Some(int(f))
}

func matchCount(re *regexp.Regexp, raw string) dataset.Maybe[int] {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return dataset.None[int]()
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n > math.MaxInt32 {
		return dataset.None[int]()
	}
	return dataset.Some(n)
}
