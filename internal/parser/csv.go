package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var sniffOrder = []rune{',', ';', '\t'}

// readTable parses delimited text. Malformed rows are skipped and counted.
func readTable(text string, comma rune) ([]string, [][]string, int, error) {
	if comma == 0 {
		c, ok := sniffDelimiter(text)
		if !ok {
			return nil, nil, 0, errNoDelimiter
		}
		comma = c
	}
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, 0, errNoHeader
		}
		return nil, nil, 0, fmt.Errorf("read header: %w", err)
	}
	if len(header) == 0 {
		return nil, nil, 0, errNoHeader
	}
	header = cleanHeader(header)

	var rows [][]string
	skipped := 0
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			skipped++
			continue
		}
		if len(rec) > len(header) {
			skipped++
			continue
		}
		rows = append(rows, rec)
	}
	return header, rows, skipped, nil
}

// sniffDelimiter counts candidate delimiters on the header line, ignoring quoted text.
func sniffDelimiter(text string) (rune, bool) {
	counts := map[rune]int{}
	inQuotes := false
	for _, ch := range text {
		if ch == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		if ch == '\n' {
			break
		}
		counts[ch]++
	}
	best, bestN := rune(0), 0
	for _, c := range sniffOrder {
		if counts[c] > bestN {
			best, bestN = c, counts[c]
		}
	}
	return best, bestN > 0
}

// cleanHeader trims names, names blank columns and de-duplicates repeats.
func cleanHeader(raw []string) []string {
	out := make([]string, len(raw))
	seen := map[string]int{}
	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		out[i] = name
	}
	return out
}
