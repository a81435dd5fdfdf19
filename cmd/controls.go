package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/KaramelBytes/showloom-cli/internal/filter"
	"github.com/KaramelBytes/showloom-cli/internal/parser"
	"github.com/KaramelBytes/showloom-cli/internal/session"
	"github.com/spf13/cobra"
)

// controlFlags are the filter and decoding flags shared by analyze and report commands.
type controlFlags struct {
	yearMin    int
	yearMax    int
	categories []string
	languages  []string
	topN       int
	delimiter  string
	encoding   string
}

func (c *controlFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&c.yearMin, "year-min", 0, "earliest premiere year (inclusive)")
	f.IntVar(&c.yearMax, "year-max", 0, "latest premiere year (inclusive)")
	f.StringArrayVar(&c.categories, "category", nil, "keep only this category (repeatable)")
	f.StringArrayVar(&c.languages, "language", nil, "keep only this language (repeatable)")
	f.IntVar(&c.topN, "top-n", 0, "number of genres to rank, 3-20 (default from config)")
	f.StringVar(&c.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	f.StringVar(&c.encoding, "encoding", "", "text encoding: utf-8 | utf-8-sig | windows-1254 | latin-1 (try all if omitted)")
}

func (c *controlFlags) request(cmd *cobra.Command) (session.Request, error) {
	f := cmd.Flags()
	var req session.Request
	minSet, maxSet := f.Changed("year-min"), f.Changed("year-max")
	if minSet || maxSet {
		if !minSet || !maxSet {
			return req, fmt.Errorf("--year-min and --year-max must be given together")
		}
		if c.yearMax < c.yearMin {
			return req, fmt.Errorf("--year-max (%d) is before --year-min (%d)", c.yearMax, c.yearMin)
		}
		req.Criteria.Years = &filter.YearRange{Min: c.yearMin, Max: c.yearMax}
	}
	if f.Changed("category") {
		req.Criteria.Categories = c.categories
	}
	if f.Changed("language") {
		req.Criteria.Languages = c.languages
	}
	req.TopN = currentConfig().TopNGenres
	if f.Changed("top-n") {
		if c.topN < 3 || c.topN > 20 {
			return req, fmt.Errorf("--top-n must be between 3 and 20: %d", c.topN)
		}
		req.TopN = c.topN
	}
	return req, nil
}

func (c *controlFlags) decoder() (*parser.Decoder, error) {
	opt := parser.Options{Encoding: strings.TrimSpace(c.encoding)}
	switch c.delimiter {
	case "", "auto":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return nil, fmt.Errorf("unsupported --delimiter: %s", c.delimiter)
	}
	return parser.New(opt)
}

// openSession loads path into a fresh session.
func (c *controlFlags) openSession(ctx context.Context, path string) (*session.Session, *session.Loaded, error) {
	dec, err := c.decoder()
	if err != nil {
		return nil, nil, err
	}
	conf := currentConfig()
	s := session.New(session.Options{
		Decoder:      dec,
		MaxLanguages: conf.MaxLanguages,
		PreviewRows:  conf.PreviewRows,
	}, currentLogger())
	l, err := s.Load(ctx, session.LocalFile(path))
	if err != nil {
		return nil, nil, err
	}
	return s, l, nil
}

// inputPath returns the single positional argument or the configured default CSV.
func inputPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if p := currentConfig().DefaultCSV; p != "" {
		return p, nil
	}
	return "", fmt.Errorf("no input file given and default_csv is not configured")
}
