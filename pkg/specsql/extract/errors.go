package extract

import (
	"errors"
	"fmt"
)

// ErrTableNotFound indicates the column-rule table has no entry for a target table.
var ErrTableNotFound = errors.New("table not found in column rules")

// LookupError reports a target table missing from the column-rule table.
// It aborts the run: every statement for that table would be wrong.
type LookupError struct {
	Table string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("table %q not found in column rules", e.Table)
}

func (e *LookupError) Unwrap() error {
	return ErrTableNotFound
}
