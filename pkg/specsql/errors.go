package specsql

import (
	"errors"
	"fmt"

	"github.com/ukaji3/specsql-go/pkg/specsql/extract"
	"github.com/ukaji3/specsql-go/pkg/specsql/parser"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid xlsx format.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrTableNotFound indicates the column-rule table has no entry for a target table.
var ErrTableNotFound = extract.ErrTableNotFound

// ErrCellReference indicates a malformed or out-of-range cell reference.
var ErrCellReference = parser.ErrCellReference

// ExtractionError represents an error while processing one sheet.
type ExtractionError struct {
	SheetName string
	Component string // "sheet", "project" or the document category
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(sheetName, component string, err error) *ExtractionError {
	return &ExtractionError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
