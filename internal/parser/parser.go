package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/showloom-cli/internal/dataset"
)

// Separator is a field delimiter choice. Comma == 0 means sniff from the header.
type Separator struct {
	Name  string
	Comma rune
}

var (
	SepAuto      = Separator{Name: "auto"}
	SepComma     = Separator{Name: "comma", Comma: ','}
	SepSemicolon = Separator{Name: "semicolon", Comma: ';'}
	SepTab       = Separator{Name: "tab", Comma: '\t'}
)

// Candidate is one encoding/separator combination tried by the decoder.
type Candidate struct {
	Encoding  Encoding
	Separator Separator
}

func (c Candidate) String() string { return c.Encoding.Name + "/" + c.Separator.Name }

// Options narrows the candidate list, e.g. when the user already knows the delimiter.
type Options struct {
	// Delimiter forces a single separator. If 0, auto-detect then ',', ';', '\t'.
	Delimiter rune
	// Encoding forces a single encoding by name. If empty, try all in order.
	Encoding string
}

// Result is a decoded dataset plus diagnostics about how it was decoded.
type Result struct {
	Dataset   *dataset.Dataset
	Candidate Candidate
	Attempts  int
	// Skipped counts malformed rows dropped during parsing.
	Skipped int
}

// Decoder tries candidates in order until one yields a table.
type Decoder struct {
	candidates []Candidate
}

// New builds a decoder for the given options.
func New(opt Options) (*Decoder, error) {
	encs := Encodings()
	if opt.Encoding != "" {
		e, ok := LookupEncoding(opt.Encoding)
		if !ok {
			return nil, fmt.Errorf("unsupported encoding: %s", opt.Encoding)
		}
		encs = []Encoding{e}
	}
	seps := []Separator{SepAuto, SepComma, SepSemicolon, SepTab}
	if opt.Delimiter != 0 {
		seps = []Separator{{Name: string(opt.Delimiter), Comma: opt.Delimiter}}
		for _, s := range []Separator{SepComma, SepSemicolon, SepTab} {
			if s.Comma == opt.Delimiter {
				seps = []Separator{s}
			}
		}
	}
	d := &Decoder{}
	for _, e := range encs {
		for _, s := range seps {
			d.candidates = append(d.candidates, Candidate{Encoding: e, Separator: s})
		}
	}
	return d, nil
}

// Default returns a decoder that tries every candidate.
func Default() *Decoder {
	d, _ := New(Options{})
	return d
}

// Candidates returns the ordered candidate list.
func (d *Decoder) Candidates() []Candidate {
	out := make([]Candidate, len(d.candidates))
	copy(out, d.candidates)
	return out
}

// Decode parses an in-memory buffer. Candidates are evaluated lazily and the
// first one that produces a header row wins.
func (d *Decoder) Decode(name string, data []byte) (*Result, error) {
	var last error
	attempts := 0
	// Text decoding is shared by every separator of the same encoding.
	decoded := map[string]string{}
	failed := map[string]error{}
	for _, c := range d.candidates {
		attempts++
		text, ok := decoded[c.Encoding.Name]
		if !ok {
			if err, bad := failed[c.Encoding.Name]; bad {
				last = err
				continue
			}
			t, err := c.Encoding.decode(data)
			if err != nil {
				last = fmt.Errorf("%s: %w", c.Encoding.Name, err)
				failed[c.Encoding.Name] = last
				continue
			}
			decoded[c.Encoding.Name] = t
			text = t
		}
		header, rows, skipped, err := readTable(text, c.Separator.Comma)
		if err != nil {
			last = fmt.Errorf("%s: %w", c, err)
			continue
		}
		return &Result{
			Dataset:   dataset.New(name, header, rows),
			Candidate: c,
			Attempts:  attempts,
			Skipped:   skipped,
		}, nil
	}
	return nil, &IngestionError{Source: name, Attempts: attempts, Last: last}
}

// DecodeFile reads and decodes a file from disk.
func (d *Decoder) DecodeFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return d.Decode(filepath.Base(path), data)
}

// ParseFile decodes a file with the default candidate list.
func ParseFile(path string) (*Result, error) {
	return Default().DecodeFile(path)
}

// ParseBytes decodes an uploaded buffer with the default candidate list.
func ParseBytes(name string, data []byte) (*Result, error) {
	return Default().Decode(name, data)
}

var (
	errNoHeader    = errors.New("no header row")
	errNoDelimiter = errors.New("could not determine delimiter")
)
