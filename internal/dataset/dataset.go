package dataset

import (
	"strings"
	"time"
)

// Well-known column names of the titles dataset.
const (
	ColTitle          = "Title"
	ColPremiere       = "Premiere"
	ColGenreLabels    = "GenreLabels"
	ColGenre          = "Genre"
	ColMinLength      = "MinLength"
	ColMaxLength      = "MaxLength"
	ColLength         = "Length"
	ColStatus         = "Status"
	ColTable          = "Table"
	ColLanguage       = "Language"
	ColSeasonsParsed  = "SeasonsParsed"
	ColEpisodesParsed = "EpisodesParsed"
	ColSeasons        = "Seasons"
)

// StatusOther is the category assigned when no status keyword matches.
const StatusOther = "Other"

// Maybe marks a derived value that may be absent. The zero value is absent.
type Maybe[T any] struct {
	Value T
	Valid bool
}

// Some returns a present value.
func Some[T any](v T) Maybe[T] { return Maybe[T]{Value: v, Valid: true} }

// None returns an absent value.
func None[T any]() Maybe[T] { return Maybe[T]{} }

// Get returns the value and whether it is present.
func (m Maybe[T]) Get() (T, bool) { return m.Value, m.Valid }

// Record is one row of an ingested table plus the columns derived from it.
type Record struct {
	// Fields holds raw cell text keyed by trimmed column name.
	Fields map[string]string

	PremiereDate     Maybe[time.Time]
	PremiereYear     Maybe[int]
	GenreTokens      []string // nil when the record has no genre text
	EpisodeLengthAvg Maybe[float64]
	StatusCategory   string
	SeasonCount      Maybe[int]
	EpisodeCount     Maybe[int]
}

// Get returns the raw value of a column. Missing columns and whitespace-only
// cells both report ok=false.
func (r *Record) Get(col string) (string, bool) {
	if r == nil || r.Fields == nil {
		return "", false
	}
	v, ok := r.Fields[col]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Derived reports which derived columns the normalizer could produce.
type Derived struct {
	HasPremiere bool `json:"has_premiere" yaml:"has_premiere"`
	HasGenres   bool `json:"has_genres" yaml:"has_genres"`
	HasLength   bool `json:"has_length" yaml:"has_length"`
	HasStatus   bool `json:"has_status" yaml:"has_status"`
	HasSeasons  bool `json:"has_seasons" yaml:"has_seasons"`
}

// Dataset is an ordered sequence of records sharing a column set.
type Dataset struct {
	Name    string
	Columns []string
	Records []*Record
	Derived Derived
}

// New builds a dataset from a header and rows. Rows shorter than the header
// are padded with missing cells; longer rows must be filtered by the caller.
func New(name string, columns []string, rows [][]string) *Dataset {
	ds := &Dataset{Name: name, Columns: columns, Records: make([]*Record, 0, len(rows))}
	for _, row := range rows {
		fields := make(map[string]string, len(columns))
		for i, c := range columns {
			if i < len(row) {
				fields[c] = row[i]
			}
		}
		ds.Records = append(ds.Records, &Record{Fields: fields, StatusCategory: StatusOther})
	}
	return ds
}

// HasColumn reports whether the dataset carries the named column.
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Empty returns an empty dataset, used when a load attempt fails.
func Empty() *Dataset { return &Dataset{} }

// RequireColumns verifies the mandatory columns are present.
func RequireColumns(d *Dataset, cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !d.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
