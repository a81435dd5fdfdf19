package dataset

import (
	"fmt"
	"strings"
)

// SchemaError indicates a dataset parsed fine but lacks mandatory columns.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	quoted := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		quoted[i] = fmt.Sprintf("'%s'", m)
	}
	return fmt.Sprintf("dataset is missing required columns: %s", strings.Join(quoted, ", "))
}
