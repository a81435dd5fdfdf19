// Package filter narrows a normalized dataset to the records matching the user's controls.
package filter

import (
	"github.com/KaramelBytes/showloom-cli/internal/dataset"
)

// DefaultMaxLanguages is how many of the most frequent languages are offered.
const DefaultMaxLanguages = 20

// YearRange is an inclusive premiere-year range.
type YearRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains reports whether y lies within the inclusive range.
func (r YearRange) Contains(y int) bool { return y >= r.Min && y <= r.Max }

// Criteria holds the user's selections. A nil Years or nil selection slice
// means "everything the control offers".
type Criteria struct {
	Years      *YearRange
	Categories []string
	Languages  []string
}

// Controls describes which filters the dataset supports and their options.
type Controls struct {
	YearOffered     bool      `json:"year_offered" yaml:"year_offered"`
	YearBounds      YearRange `json:"year_bounds" yaml:"year_bounds"`
	CategoryOffered bool      `json:"category_offered" yaml:"category_offered"`
	Categories      []string  `json:"categories,omitempty" yaml:"categories,omitempty"`
	LanguageOffered bool      `json:"language_offered" yaml:"language_offered"`
	Languages       []string  `json:"languages,omitempty" yaml:"languages,omitempty"`
}

// Result is a filtered view plus the controls computed while filtering.
type Result struct {
	Records  []*dataset.Record
	Controls Controls
}

// Engine applies criteria to datasets. It holds no per-dataset state.
type Engine struct {
	MaxLanguages int
}

// New returns an engine offering up to maxLanguages language options.
func New(maxLanguages int) *Engine {
	if maxLanguages <= 0 {
		maxLanguages = DefaultMaxLanguages
	}
	return &Engine{MaxLanguages: maxLanguages}
}

// Apply filters in the order year, category, language. Option lists for
// category and language are computed on the view left by the previous step.
// The source dataset is never modified.
func (e *Engine) Apply(ds *dataset.Dataset, c Criteria) Result {
	var res Result
	if ds == nil {
		return res
	}
	recs := make([]*dataset.Record, len(ds.Records))
	copy(recs, ds.Records)

	if ds.Derived.HasPremiere {
		if bounds, ok := yearBounds(recs); ok {
			res.Controls.YearOffered = true
			res.Controls.YearBounds = bounds
			sel := bounds
			if c.Years != nil {
				sel = *c.Years
			}
			recs = keep(recs, func(r *dataset.Record) bool {
				y, ok := r.PremiereYear.Get()
				return ok && sel.Contains(y)
			})
		}
	}

	if ds.HasColumn(dataset.ColTable) {
		counts := countColumn(recs, dataset.ColTable)
		if counts.Len() > 1 {
			opts := counts.Distinct()
			res.Controls.CategoryOffered = true
			res.Controls.Categories = opts
			recs = keepIn(recs, dataset.ColTable, selection(opts, c.Categories))
		}
	}

	if ds.HasColumn(dataset.ColLanguage) {
		counts := countColumn(recs, dataset.ColLanguage)
		if counts.Len() > 1 {
			ranked := counts.Ranked(e.MaxLanguages)
			opts := make([]string, len(ranked))
			for i, vc := range ranked {
				opts[i] = vc.Value
			}
			res.Controls.LanguageOffered = true
			res.Controls.Languages = opts
			recs = keepIn(recs, dataset.ColLanguage, selection(opts, c.Languages))
		}
	}

	res.Records = recs
	return res
}

// Options computes the controls for a dataset without narrowing anything.
func (e *Engine) Options(ds *dataset.Dataset) Controls {
	return e.Apply(ds, Criteria{}).Controls
}

func yearBounds(recs []*dataset.Record) (YearRange, bool) {
	var out YearRange
	found := false
	for _, r := range recs {
		y, ok := r.PremiereYear.Get()
		if !ok {
			continue
		}
		if !found || y < out.Min {
			out.Min = y
		}
		if !found || y > out.Max {
			out.Max = y
		}
		found = true
	}
	return out, found
}

func countColumn(recs []*dataset.Record, col string) *dataset.Counter {
	c := dataset.NewCounter()
	for _, r := range recs {
		if v, ok := r.Get(col); ok {
			c.Add(v)
		}
	}
	return c
}

// selection restricts chosen values to the offered options; nil chooses all.
func selection(options, chosen []string) map[string]struct{} {
	set := make(map[string]struct{}, len(options))
	if chosen == nil {
		for _, o := range options {
			set[o] = struct{}{}
		}
		return set
	}
	offered := make(map[string]struct{}, len(options))
	for _, o := range options {
		offered[o] = struct{}{}
	}
	for _, v := range chosen {
		if _, ok := offered[v]; ok {
			set[v] = struct{}{}
		}
	}
	return set
}

func keepIn(recs []*dataset.Record, col string, allowed map[string]struct{}) []*dataset.Record {
	return keep(recs, func(r *dataset.Record) bool {
		v, ok := r.Get(col)
		if !ok {
			return false
		}
		_, in := allowed[v]
		return in
	})
}

func keep(recs []*dataset.Record, pred func(*dataset.Record) bool) []*dataset.Record {
	out := make([]*dataset.Record, 0, len(recs))
	for _, r := range recs {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
