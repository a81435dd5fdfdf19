package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/showloom-cli/internal/dataset"
)

// Options controls the aggregates computed for a view.
type Options struct {
	// TopN is the number of genres to rank; bounded to [MinTopN, MaxTopN].
	TopN int
}

// DefaultOptions returns the dashboard defaults.
func DefaultOptions() Options {
	return Options{TopN: DefaultTopN}
}

// Panel is one named view over an aggregate. When Available is false, Reason
// explains which source column was missing and Data is the zero value.
type Panel[T any] struct {
	Title     string `json:"title" yaml:"title"`
	Available bool   `json:"available" yaml:"available"`
	Reason    string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Data      T      `json:"data" yaml:"data"`
}

// Panels holds every aggregate a view renders.
type Panels struct {
	ByYear           Panel[[]YearCount]          `json:"by_year" yaml:"by_year"`
	TopGenres        Panel[[]dataset.ValueCount] `json:"top_genres" yaml:"top_genres"`
	Status           Panel[[]dataset.ValueCount] `json:"status" yaml:"status"`
	LengthByCategory Panel[[]LengthGroup]        `json:"length_by_category" yaml:"length_by_category"`
	SeasonEpisode    Panel[[]SeasonEpisode]      `json:"season_episode" yaml:"season_episode"`
}

// Build computes all panels over recs, a filtered view of ds.
func Build(ds *dataset.Dataset, recs []*dataset.Record, opt Options) *Panels {
	var d dataset.Derived
	if ds != nil {
		d = ds.Derived
	}
	n := ClampTopN(opt.TopN)
	p := &Panels{}

	p.ByYear = Panel[[]YearCount]{Title: "Titles per Premiere Year"}
	if d.HasPremiere {
		p.ByYear.Available = true
		p.ByYear.Data = ByYear(recs)
	} else {
		p.ByYear.Reason = "No 'Premiere' column found."
	}

	p.TopGenres = Panel[[]dataset.ValueCount]{Title: fmt.Sprintf("Top %d Genres", n)}
	if d.HasGenres {
		p.TopGenres.Available = true
		p.TopGenres.Data = TopGenres(recs, n)
	} else {
		p.TopGenres.Reason = "No genre column ('GenreLabels' or 'Genre') found."
	}

	p.Status = Panel[[]dataset.ValueCount]{Title: "Status Distribution"}
	if d.HasStatus {
		p.Status.Available = true
		p.Status.Data = StatusDistribution(recs)
	} else {
		p.Status.Reason = "No 'Status' column found."
	}

	p.LengthByCategory = Panel[[]LengthGroup]{Title: "Episode Length by Category"}
	switch {
	case !d.HasLength:
		p.LengthByCategory.Reason = "No episode length columns found."
	case !ds.HasColumn(dataset.ColTable):
		p.LengthByCategory.Reason = "No 'Table' column found."
	default:
		p.LengthByCategory.Available = true
		p.LengthByCategory.Data = LengthByCategory(recs)
	}

	p.SeasonEpisode = Panel[[]SeasonEpisode]{Title: "Seasons vs Episodes"}
	if d.HasSeasons {
		p.SeasonEpisode.Available = true
		p.SeasonEpisode.Data = SeasonEpisodePairs(recs)
	} else {
		p.SeasonEpisode.Reason = "Season/episode data not found."
	}
	return p
}

// Text renders the panels as a compact plain-text summary.
func (p *Panels) Text() string {
	var b strings.Builder
	section := func(title string, available bool, reason string, body func()) {
		b.WriteString(fmt.Sprintf("[%s]\n", strings.ToUpper(title)))
		if !available {
			b.WriteString(fmt.Sprintf("(unavailable) %s\n\n", reason))
			return
		}
		body()
		b.WriteString("\n")
	}

	section(p.ByYear.Title, p.ByYear.Available, p.ByYear.Reason, func() {
		for _, yc := range p.ByYear.Data {
			b.WriteString(fmt.Sprintf("- %d: %d\n", yc.Year, yc.Count))
		}
	})
	section(p.TopGenres.Title, p.TopGenres.Available, p.TopGenres.Reason, func() {
		for i, vc := range p.TopGenres.Data {
			b.WriteString(fmt.Sprintf("%d. %s (%d)\n", i+1, vc.Value, vc.Count))
		}
	})
	section(p.Status.Title, p.Status.Available, p.Status.Reason, func() {
		for _, vc := range p.Status.Data {
			b.WriteString(fmt.Sprintf("- %s: %d\n", vc.Value, vc.Count))
		}
	})
	section(p.LengthByCategory.Title, p.LengthByCategory.Available, p.LengthByCategory.Reason, func() {
		for _, g := range p.LengthByCategory.Data {
			s := g.Summary
			b.WriteString(fmt.Sprintf("- %s: n=%d min %.4g, q1 %.4g, median %.4g, q3 %.4g, max %.4g, mean %.4g\n",
				g.Category, s.Count, s.Min, s.Q1, s.Median, s.Q3, s.Max, s.Mean))
		}
	})
	section(p.SeasonEpisode.Title, p.SeasonEpisode.Available, p.SeasonEpisode.Reason, func() {
		b.WriteString(fmt.Sprintf("%d titles with season and episode counts\n", len(p.SeasonEpisode.Data)))
	})
	return b.String()
}
