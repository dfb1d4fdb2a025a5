package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrCellReference indicates a malformed or out-of-bounds cell reference.
var ErrCellReference = errors.New("invalid cell reference")

// CellReferenceError describes a reference that could not be resolved.
type CellReferenceError struct {
	Ref    string
	Reason string
}

func (e *CellReferenceError) Error() string {
	return fmt.Sprintf("cell reference %q: %s", e.Ref, e.Reason)
}

func (e *CellReferenceError) Unwrap() error {
	return ErrCellReference
}

// MergeRange is a merged region in 1-based cell coordinates.
type MergeRange struct {
	MinCol int
	MinRow int
	MaxCol int
	MaxRow int
}

// Contains reports whether (col, row) lies inside the region.
func (m MergeRange) Contains(col, row int) bool {
	return col >= m.MinCol && col <= m.MaxCol && row >= m.MinRow && row <= m.MaxRow
}

// Anchor returns the top-left cell name of the region.
func (m MergeRange) Anchor() string {
	name, _ := excelize.CoordinatesToCellName(m.MinCol, m.MinRow)
	return name
}

// normalizeRef strips formula and absolute markers: "=$B$12" -> "B12".
func normalizeRef(ref string) string {
	ref = strings.TrimSpace(ref)
	ref = strings.TrimPrefix(ref, "=")
	ref = strings.ReplaceAll(ref, "$", "")
	return strings.ToUpper(ref)
}

// isColumnOnly reports whether ref is a bare column name such as "D" or "BN".
func isColumnOnly(ref string) bool {
	if ref == "" {
		return false
	}
	for _, r := range ref {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// CellName builds the reference a column rule points at. A bare column letter
// is combined with row; a full reference is used as is.
func CellName(ref string, row int) (string, error) {
	norm := normalizeRef(ref)
	if norm == "" {
		return "", &CellReferenceError{Ref: ref, Reason: "empty reference"}
	}
	if isColumnOnly(norm) {
		norm += strconv.Itoa(row)
	}
	if _, _, err := excelize.CellNameToCoordinates(norm); err != nil {
		return "", &CellReferenceError{Ref: ref, Reason: err.Error()}
	}
	return norm, nil
}

// SplitCellName parses an A1 reference into 1-based column and row.
func SplitCellName(ref string) (col, row int, err error) {
	col, row, err = excelize.CellNameToCoordinates(normalizeRef(ref))
	if err != nil {
		return 0, 0, &CellReferenceError{Ref: ref, Reason: err.Error()}
	}
	return col, row, nil
}

// parseRange converts the two axes of a merged cell into a MergeRange.
func parseRange(start, end string) (MergeRange, bool) {
	startCol, startRow, err := excelize.CellNameToCoordinates(normalizeRef(start))
	if err != nil {
		return MergeRange{}, false
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(normalizeRef(end))
	if err != nil {
		return MergeRange{}, false
	}
	if endCol < startCol {
		startCol, endCol = endCol, startCol
	}
	if endRow < startRow {
		startRow, endRow = endRow, startRow
	}
	return MergeRange{MinCol: startCol, MinRow: startRow, MaxCol: endCol, MaxRow: endRow}, true
}
