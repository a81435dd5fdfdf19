package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/showloom-cli/internal/dataset"
)

// Top-N genre bounds.
const (
	MinTopN     = 3
	MaxTopN     = 20
	DefaultTopN = 10
)

// YearCount is the number of titles premiering in a year.
type YearCount struct {
	Year  int `json:"year" yaml:"year"`
	Count int `json:"count" yaml:"count"`
}

// BoxSummary is a five-number summary plus mean and Tukey outlier count.
type BoxSummary struct {
	Count    int     `json:"count" yaml:"count"`
	Min      float64 `json:"min" yaml:"min"`
	Q1       float64 `json:"q1" yaml:"q1"`
	Median   float64 `json:"median" yaml:"median"`
	Q3       float64 `json:"q3" yaml:"q3"`
	Max      float64 `json:"max" yaml:"max"`
	Mean     float64 `json:"mean" yaml:"mean"`
	Outliers int     `json:"outliers" yaml:"outliers"`
}

// LengthGroup holds the episode lengths of one category.
type LengthGroup struct {
	Category string     `json:"category" yaml:"category"`
	Values   []float64  `json:"values" yaml:"values"`
	Summary  BoxSummary `json:"summary" yaml:"summary"`
}

// SeasonEpisode is one point of the seasons/episodes scatter.
type SeasonEpisode struct {
	Title    string `json:"title" yaml:"title"`
	Seasons  int    `json:"seasons" yaml:"seasons"`
	Episodes int    `json:"episodes" yaml:"episodes"`
}

// ByYear counts records per premiere year, ascending. Records without a year are ignored.
func ByYear(recs []*dataset.Record) []YearCount {
	counts := map[int]int{}
	for _, r := range recs {
		if y, ok := r.PremiereYear.Get(); ok {
			counts[y]++
		}
	}
	out := make([]YearCount, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// ClampTopN bounds n to [MinTopN, MaxTopN]; zero selects DefaultTopN.
func ClampTopN(n int) int {
	switch {
	case n == 0:
		return DefaultTopN
	case n < MinTopN:
		return MinTopN
	case n > MaxTopN:
		return MaxTopN
	}
	return n
}

// TopGenres explodes genre tokens and returns the n most frequent.
// Ties keep the order in which tokens first appeared.
func TopGenres(recs []*dataset.Record, n int) []dataset.ValueCount {
	c := dataset.NewCounter()
	for _, r := range recs {
		for _, tok := range r.GenreTokens {
			tok = strings.TrimSpace(tok)
			if tok == "" || tok == "nan" {
				continue
			}
			c.Add(tok)
		}
	}
	return c.Ranked(ClampTopN(n))
}

// StatusDistribution counts records per status category, most frequent first.
func StatusDistribution(recs []*dataset.Record) []dataset.ValueCount {
	c := dataset.NewCounter()
	for _, r := range recs {
		c.Add(r.StatusCategory)
	}
	return c.Ranked(0)
}

// LengthByCategory groups episode lengths by the category column in
// first-appearance order. Records missing either value are left out.
func LengthByCategory(recs []*dataset.Record) []LengthGroup {
	var order []string
	vals := map[string][]float64{}
	for _, r := range recs {
		v, ok := r.EpisodeLengthAvg.Get()
		if !ok {
			continue
		}
		cat, ok := r.Get(dataset.ColTable)
		if !ok {
			continue
		}
		if _, seen := vals[cat]; !seen {
			order = append(order, cat)
		}
		vals[cat] = append(vals[cat], v)
	}
	out := make([]LengthGroup, 0, len(order))
	for _, cat := range order {
		out = append(out, LengthGroup{Category: cat, Values: vals[cat], Summary: Summarize(vals[cat])})
	}
	return out
}

// SeasonEpisodePairs returns records where both counts are present and positive.
func SeasonEpisodePairs(recs []*dataset.Record) []SeasonEpisode {
	var out []SeasonEpisode
	for _, r := range recs {
		s, okS := r.SeasonCount.Get()
		e, okE := r.EpisodeCount.Get()
		if !okS || !okE || s <= 0 || e <= 0 {
			continue
		}
		title, _ := r.Get(dataset.ColTitle)
		out = append(out, SeasonEpisode{Title: title, Seasons: s, Episodes: e})
	}
	return out
}

// MeanLength averages the present episode lengths.
func MeanLength(recs []*dataset.Record) (float64, bool) {
	var sum float64
	var n int
	for _, r := range recs {
		if v, ok := r.EpisodeLengthAvg.Get(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Summarize computes a box-plot summary of vals. The input is not modified.
func Summarize(vals []float64) BoxSummary {
	if len(vals) == 0 {
		return BoxSummary{}
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	var sum float64
	for _, v := range cp {
		sum += v
	}
	s := BoxSummary{
		Count:  len(cp),
		Min:    cp[0],
		Q1:     quantile(cp, 0.25),
		Median: quantile(cp, 0.5),
		Q3:     quantile(cp, 0.75),
		Max:    cp[len(cp)-1],
		Mean:   sum / float64(len(cp)),
	}
	iqr := s.Q3 - s.Q1
	lo, hi := s.Q1-1.5*iqr, s.Q3+1.5*iqr
	for _, v := range cp {
		if v < lo || v > hi {
			s.Outliers++
		}
	}
	return s
}

// quantile uses linear interpolation over an ascending slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
