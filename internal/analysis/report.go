package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/showloom-cli/internal/dataset"
)

// Download defaults for the summary report.
const (
	ReportFileName = "summary_report.txt"
	ReportMIME     = "text/plain; charset=utf-8"
)

// Report is the short plain-text digest of a filtered view.
type Report struct {
	Lines []string
}

// BuildReport emits one line per fact whose inputs are available. The result
// may have no lines at all.
func BuildReport(byYear []YearCount, topGenres []dataset.ValueCount, recs []*dataset.Record) *Report {
	rep := &Report{}
	if len(byYear) > 0 {
		first, last := byYear[0].Year, byYear[0].Year
		total, latest := 0, 0
		for _, yc := range byYear {
			if yc.Year < first {
				first = yc.Year
			}
			if yc.Year > last {
				last = yc.Year
			}
			total += yc.Count
		}
		for _, yc := range byYear {
			if yc.Year == last {
				latest += yc.Count
			}
		}
		rep.add("Data Range: %d-%d", first, last)
		rep.add("Latest Year (%d): %d titles", last, latest)
		rep.add("Total (Filtered): %d titles", total)
	}
	if len(topGenres) > 0 {
		rep.add("Popular Genre: %s (%d titles)", topGenres[0].Value, topGenres[0].Count)
	}
	if avg, ok := MeanLength(recs); ok {
		rep.add("Avg Episode Length: %.0f min", avg)
	}
	return rep
}

func (r *Report) add(format string, args ...any) {
	r.Lines = append(r.Lines, fmt.Sprintf(format, args...))
}

// Empty reports whether no fact could be produced.
func (r *Report) Empty() bool { return r == nil || len(r.Lines) == 0 }

// Text joins the lines with newlines, without a trailing newline.
func (r *Report) Text() string {
	if r == nil {
		return ""
	}
	return strings.Join(r.Lines, "\n")
}
