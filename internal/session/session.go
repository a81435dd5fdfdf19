// Package session owns one user's canonical dataset and recomputes views from it.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/KaramelBytes/showloom-cli/internal/analysis"
	"github.com/KaramelBytes/showloom-cli/internal/dataset"
	"github.com/KaramelBytes/showloom-cli/internal/filter"
	"github.com/KaramelBytes/showloom-cli/internal/logger"
	"github.com/KaramelBytes/showloom-cli/internal/normalize"
	"github.com/KaramelBytes/showloom-cli/internal/parser"
	"github.com/google/uuid"
)

// DefaultPreviewRows is the number of filtered rows returned with a view.
const DefaultPreviewRows = 50

// Options configures a session.
type Options struct {
	Decoder      *parser.Decoder
	MaxLanguages int
	PreviewRows  int
}

// Loaded is a normalized dataset plus how it was obtained.
type Loaded struct {
	Key       string           `json:"key" yaml:"key"`
	Name      string           `json:"name" yaml:"name"`
	Dataset   *dataset.Dataset `json:"-" yaml:"-"`
	Encoding  string           `json:"encoding" yaml:"encoding"`
	Separator string           `json:"separator" yaml:"separator"`
	Skipped   int              `json:"skipped_rows" yaml:"skipped_rows"`
	Stats     normalize.Stats  `json:"-" yaml:"-"`
	LoadedAt  time.Time        `json:"loaded_at" yaml:"loaded_at"`
}

// Session holds the current dataset. Calls are serialized.
type Session struct {
	ID      uuid.UUID
	Created time.Time

	mu      sync.Mutex
	opts    Options
	engine  *filter.Engine
	cache   *Cache
	current *Loaded
	log     *logger.Logger
}

// New creates a session with an empty dataset.
func New(opts Options, log *logger.Logger) *Session {
	if opts.Decoder == nil {
		opts.Decoder = parser.Default()
	}
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = DefaultPreviewRows
	}
	if log == nil {
		log = logger.Nop()
	}
	id := uuid.New()
	return &Session{
		ID:      id,
		Created: time.Now(),
		opts:    opts,
		engine:  filter.New(opts.MaxLanguages),
		cache:   NewCache(),
		current: &Loaded{Dataset: dataset.Empty()},
		log:     log.WithField("session", id.String()),
	}
}

// Cache exposes the session's dataset cache.
func (s *Session) Cache() *Cache { return s.cache }

// Load replaces the current dataset with the one read from src. Identical
// content is served from the cache. On any error the session is left holding
// an empty dataset.
func (s *Session) Load(ctx context.Context, src Source) (*Loaded, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load(ctx, src)
	if err != nil {
		s.current = &Loaded{Dataset: dataset.Empty()}
		s.log.WithError(err).Warn("dataset load failed", "source", src.Name, "kind", string(src.Kind))
		return nil, err
	}
	s.current = l
	return l, nil
}

func (s *Session) load(ctx context.Context, src Source) (*Loaded, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := src.bytes()
	if err != nil {
		return nil, err
	}
	key := Key(src.Kind, data)
	if l, ok := s.cache.Get(key); ok {
		s.log.Debug("cache hit", "key", key)
		hit := *l
		hit.Name = src.Name
		return &hit, nil
	}
	s.log.Debug("cache miss", "key", key)
	s.cache.Invalidate("")

	res, err := s.opts.Decoder.Decode(src.Name, data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds := res.Dataset
	if err := dataset.RequireColumns(ds, dataset.ColTitle, dataset.ColPremiere); err != nil {
		return nil, err
	}
	st := normalize.Normalize(ds)
	s.log.Debug("dataset normalized",
		"source", src.Name,
		"candidate", res.Candidate.String(),
		"attempts", res.Attempts,
		"rows", ds.Len(),
		"skipped", res.Skipped,
		"dates_missed", st.DatesMissed,
		"length_from_pair", st.LengthFromPair,
		"length_from_text", st.LengthFromText,
	)
	l := &Loaded{
		Key:       key,
		Name:      src.Name,
		Dataset:   ds,
		Encoding:  res.Candidate.Encoding.Name,
		Separator: res.Candidate.Separator.Name,
		Skipped:   res.Skipped,
		Stats:     st,
		LoadedAt:  time.Now(),
	}
	s.cache.Put(key, l)
	return l, nil
}

// Current returns the loaded dataset; it is empty before a successful load.
func (s *Session) Current() *Loaded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Request carries the user's control selections.
type Request struct {
	Criteria filter.Criteria
	TopN     int
}

// View is everything a dashboard renders for one interaction.
type View struct {
	Source   string              `json:"source" yaml:"source"`
	Controls filter.Controls     `json:"controls" yaml:"controls"`
	Panels   *analysis.Panels    `json:"panels" yaml:"panels"`
	Report   []string            `json:"report" yaml:"report"`
	Columns  []string            `json:"columns" yaml:"columns"`
	Preview  []map[string]string `json:"preview" yaml:"preview"`
	Total    int                 `json:"total" yaml:"total"`
}

// View filters the current dataset and computes every panel and the report.
func (s *Session) View(req Request) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(req)
}

// Report filters the current dataset and builds only the text digest.
func (s *Session) Report(req Request) (*analysis.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds := s.current.Dataset
	if ds.Len() == 0 && len(ds.Columns) == 0 {
		return nil, ErrNoDataset
	}
	res := s.engine.Apply(ds, req.Criteria)
	return analysis.BuildReport(
		analysis.ByYear(res.Records),
		analysis.TopGenres(res.Records, req.TopN),
		res.Records,
	), nil
}

func (s *Session) view(req Request) (*View, error) {
	ds := s.current.Dataset
	if ds.Len() == 0 && len(ds.Columns) == 0 {
		return nil, ErrNoDataset
	}
	res := s.engine.Apply(ds, req.Criteria)
	panels := analysis.Build(ds, res.Records, analysis.Options{TopN: req.TopN})
	rep := analysis.BuildReport(panels.ByYear.Data, panels.TopGenres.Data, res.Records)

	v := &View{
		Source:   s.current.Name,
		Controls: res.Controls,
		Panels:   panels,
		Report:   rep.Lines,
		Columns:  ds.Columns,
		Total:    len(res.Records),
	}
	n := s.opts.PreviewRows
	if n > len(res.Records) {
		n = len(res.Records)
	}
	v.Preview = make([]map[string]string, 0, n)
	for _, r := range res.Records[:n] {
		row := make(map[string]string, len(r.Fields))
		for k, val := range r.Fields {
			row[k] = val
		}
		v.Preview = append(v.Preview, row)
	}
	s.log.Debug("view computed", "total", v.Total, "top_n", analysis.ClampTopN(req.TopN))
	return v, nil
}

// ErrNoDataset is returned when a view is requested before a successful load.
var ErrNoDataset = errors.New("no dataset loaded")
