package parser

import "fmt"

// IngestionError indicates no encoding/separator combination could parse the input.
type IngestionError struct {
	Source   string
	Attempts int
	// Last is the failure of the final candidate tried.
	Last error
}

func (e *IngestionError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("could not read %s after %d attempts: %v", e.Source, e.Attempts, e.Last)
	}
	return fmt.Sprintf("could not read input after %d attempts: %v", e.Attempts, e.Last)
}

func (e *IngestionError) Unwrap() error { return e.Last }
