package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/showloom-cli/internal/dataset"
)

func build(columns []string, rows ...[]string) *dataset.Dataset {
	return dataset.New("test.csv", columns, rows)
}

func TestNormalize_SingleRowScenario(t *testing.T) {
	ds := build([]string{"Title", "Premiere", "Length"}, []string{"A", "01-Jan-20", "45-50 min"})
	Normalize(ds)

	r := ds.Records[0]
	year, ok := r.PremiereYear.Get()
	require.True(t, ok)
	assert.Equal(t, 2020, year)
	assert.Equal(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), r.PremiereDate.Value)

	avg, ok := r.EpisodeLengthAvg.Get()
	require.True(t, ok)
	assert.InDelta(t, 47.5, avg, 1e-9)
	assert.Equal(t, dataset.StatusOther, r.StatusCategory)
	assert.False(t, ds.Derived.HasGenres)
	assert.True(t, ds.Derived.HasLength)
}

func TestNormalize_BadDateIsLocal(t *testing.T) {
	ds := build([]string{"Title", "Premiere"},
		[]string{"A", "2020-01-01"},
		[]string{"B", "14-jan-20"},
		[]string{"C", ""},
	)
	st := Normalize(ds)

	assert.False(t, ds.Records[0].PremiereDate.Valid)
	assert.False(t, ds.Records[0].PremiereYear.Valid)
	assert.Equal(t, 2020, ds.Records[1].PremiereYear.Value)
	assert.False(t, ds.Records[2].PremiereYear.Valid)
	assert.Equal(t, 1, st.DatesParsed)
	assert.Equal(t, 2, st.DatesMissed)
}

func TestParsePremiere_TwoDigitYearPivot(t *testing.T) {
	d, ok := ParsePremiere("5-Mar-99")
	require.True(t, ok)
	assert.Equal(t, 1999, d.Year())

	d, ok = ParsePremiere("14-Jan-20")
	require.True(t, ok)
	assert.Equal(t, 2020, d.Year())
	assert.Equal(t, 14, d.Day())
}

func TestSplitGenres(t *testing.T) {
	assert.Equal(t, []string{"action", "adventure"}, SplitGenres("Action/Adventure"))
	assert.Equal(t, []string{"crime", " drama"}, SplitGenres(`"Crime, Drama"`))
	assert.Equal(t, []string{"science fiction", "fantasy"}, SplitGenres("Science fiction and fantasy"))
	assert.Equal(t, []string{"comedy ", " drama"}, SplitGenres("Comedy & drama"))
	// Only the lowercase conjunction is a separator.
	assert.Equal(t, []string{"rock and roll"}, SplitGenres("Rock AND Roll"))
}

func TestNormalize_GenreColumnPriority(t *testing.T) {
	ds := build([]string{"Title", "Premiere", "Genre", "GenreLabels"},
		[]string{"A", "01-Jan-20", "Horror", "Drama/Comedy"},
		[]string{"B", "01-Jan-20", "Horror", ""},
	)
	st := Normalize(ds)

	assert.Equal(t, "GenreLabels", st.GenreColumn)
	assert.Equal(t, []string{"drama", "comedy"}, ds.Records[0].GenreTokens)
	assert.Nil(t, ds.Records[1].GenreTokens)
}

func TestLengthFromPair(t *testing.T) {
	v, ok := LengthFromPair("40", "60")
	require.True(t, ok)
	assert.InDelta(t, 50.0, v, 1e-9)

	for _, tc := range [][2]string{{"0", "60"}, {"40", "-1"}, {"", "60"}, {"NaN", "60"}, {"40", "Inf"}, {"x", "y"}} {
		_, ok := LengthFromPair(tc[0], tc[1])
		assert.False(t, ok, "pair %v", tc)
	}
}

func TestLengthFromText(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"45-50 min", 47.5, true},
		{"22–30 min", 26, true},
		{"58 min", 58, true},
		{"Approx. 90 minutes", 90, true},
		{"0 min", 0, false},
		{"0-0 min", 0, false},
		{"58min", 0, false},
		{"varies", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := LengthFromText(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-9, tc.in)
		}
	}
}

func TestNormalize_LengthPrecedence(t *testing.T) {
	ds := build([]string{"Title", "Premiere", "MinLength", "MaxLength", "Length"},
		[]string{"pair", "01-Jan-20", "20", "30", "45-50 min"},
		[]string{"fallback", "01-Jan-20", "0", "30", "45-50 min"},
		[]string{"missing pair", "01-Jan-20", "", "", "60 min"},
		[]string{"nothing", "01-Jan-20", "-5", "-5", "n/a"},
	)
	st := Normalize(ds)

	assert.InDelta(t, 25.0, ds.Records[0].EpisodeLengthAvg.Value, 1e-9)
	assert.InDelta(t, 47.5, ds.Records[1].EpisodeLengthAvg.Value, 1e-9)
	assert.InDelta(t, 60.0, ds.Records[2].EpisodeLengthAvg.Value, 1e-9)
	assert.False(t, ds.Records[3].EpisodeLengthAvg.Valid)
	assert.Equal(t, 1, st.LengthFromPair)
	assert.Equal(t, 2, st.LengthFromText)
	assert.Equal(t, 1, st.LengthAbsent)

	for _, r := range ds.Records {
		if v, ok := r.EpisodeLengthAvg.Get(); ok {
			assert.Greater(t, v, 0.0)
		}
	}
}

func TestClassifyStatus(t *testing.T) {
	assert.Equal(t, "Pending", ClassifyStatus("TBD"))
	assert.Equal(t, "Renewed", ClassifyStatus("Renewed (pending finale)"))
	assert.Equal(t, "Ended", ClassifyStatus("Ended"))
	assert.Equal(t, "Miniseries", ClassifyStatus("Miniseries"))
	assert.Equal(t, "Other", ClassifyStatus("Cancelled"))
	assert.Equal(t, "Other", ClassifyStatus(""))
}

func TestNormalize_StatusColumn(t *testing.T) {
	ds := build([]string{"Title", "Premiere", "Status"},
		[]string{"A", "01-Jan-20", "TBD"},
		[]string{"B", "01-Jan-20", ""},
	)
	Normalize(ds)
	assert.Equal(t, "Pending", ds.Records[0].StatusCategory)
	assert.Equal(t, "Other", ds.Records[1].StatusCategory)
	assert.True(t, ds.Derived.HasStatus)

	noStatus := build([]string{"Title", "Premiere"}, []string{"A", "01-Jan-20"})
	Normalize(noStatus)
	assert.Equal(t, "Other", noStatus.Records[0].StatusCategory)
	assert.False(t, noStatus.Derived.HasStatus)
}

func TestNormalize_SeasonsAndEpisodes(t *testing.T) {
	ds := build([]string{"Title", "Premiere", "SeasonsParsed", "EpisodesParsed", "Seasons"},
		[]string{"A", "01-Jan-20", "3.0", "30", ""},
		[]string{"B", "01-Jan-20", "", "", "2 seasons, 16 episodes"},
		[]string{"C", "01-Jan-20", "1.5", "x", "1 season"},
	)
	Normalize(ds)

	assert.Equal(t, dataset.Some(3), ds.Records[0].SeasonCount)
	assert.Equal(t, dataset.Some(30), ds.Records[0].EpisodeCount)
	assert.Equal(t, dataset.Some(2), ds.Records[1].SeasonCount)
	assert.Equal(t, dataset.Some(16), ds.Records[1].EpisodeCount)
	assert.Equal(t, dataset.Some(1), ds.Records[2].SeasonCount)
	assert.False(t, ds.Records[2].EpisodeCount.Valid)
}

func TestParseCount_RejectsOutOfRange(t *testing.T) {
	for _, raw := range []string{"1e300", "-1e300", "3000000000", "1e10"} {
		assert.False(t, parseCount(raw).Valid, raw)
	}
	assert.Equal(t, dataset.Some(2147483647), parseCount("2147483647"))
	assert.Equal(t, dataset.Some(4), parseCount("4.0"))
}

func TestNormalize_HugeSeasonCountIsMissing(t *testing.T) {
	ds := build([]string{"Title", "Premiere", "SeasonsParsed", "EpisodesParsed"},
		[]string{"A", "01-Jan-20", "1e300", "10"},
	)
	Normalize(ds)

	assert.False(t, ds.Records[0].SeasonCount.Valid)
	assert.Equal(t, dataset.Some(10), ds.Records[0].EpisodeCount)
}

func TestNormalize_Idempotent(t *testing.T) {
	ds := build([]string{"Title", "Premiere", "Genre", "MinLength", "MaxLength", "Length", "Status"},
		[]string{"A", "01-Jan-20", "Drama/Comedy", "20", "30", "", "Renewed"},
		[]string{"B", "bad", "", "", "", "45-50 min", "tbd"},
	)
	Normalize(ds)
	type snapshot struct {
		date   dataset.Maybe[time.Time]
		year   dataset.Maybe[int]
		genres []string
		length dataset.Maybe[float64]
		status string
	}
	take := func() []snapshot {
		out := make([]snapshot, 0, ds.Len())
		for _, r := range ds.Records {
			out = append(out, snapshot{r.PremiereDate, r.PremiereYear, append([]string(nil), r.GenreTokens...), r.EpisodeLengthAvg, r.StatusCategory})
		}
		return out
	}
	first := take()
	columns := append([]string(nil), ds.Columns...)

	Normalize(ds)
	assert.Equal(t, first, take())
	assert.Equal(t, columns, ds.Columns)
}
