// Package models defines data structures shared by the extraction pipeline.
package models

import "time"

// CellKind classifies the effective value of a cell.
type CellKind int

const (
	// CellEmpty means neither the cell nor an enclosing merge anchor holds a value.
	CellEmpty CellKind = iota
	// CellString is shared, inline or formula string text.
	CellString
	// CellNumber is a numeric value without a date number format.
	CellNumber
	// CellBool is a TRUE/FALSE value.
	CellBool
	// CellDate is a numeric value carrying a date/time number format.
	CellDate
)

// CellValue represents the effective value of a worksheet cell.
type CellValue struct {
	// Ref is the A1 reference the value was read from (the anchor for merged cells).
	Ref string
	// Kind is the value classification.
	Kind CellKind
	// Text is the stored value as text.
	Text string
	// Number holds the numeric value for CellNumber and CellBool.
	Number float64
	// Time holds the value for CellDate.
	Time time.Time
}

// IsEmpty reports whether the cell resolved to no value.
func (v CellValue) IsEmpty() bool {
	return v.Kind == CellEmpty
}
