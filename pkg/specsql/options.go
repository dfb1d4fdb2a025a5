// Package specsql turns item-definition workbooks into SQL INSERT statements.
package specsql

import (
	"log/slog"
	"slices"
	"time"
)

const (
	// DefaultStartSheet is the 0-based index of the first sheet considered;
	// the leading cover and revision-history sheets are skipped.
	DefaultStartSheet = 2
	// DefaultCategoryCell holds the document category of a sheet.
	DefaultCategoryCell = "B2"
)

// DefaultSkipSheets are sheet names never treated as documents.
var DefaultSkipSheets = []string{"表紙", "改訂履歴"}

// Options configures generation.
type Options struct {
	// SystemID is the fixed system id token. If empty, it is derived from Now as HHMMSS.
	SystemID string
	// SystemDate is the fixed date token. If empty, it is derived from Now as YYYY-MM-DD.
	SystemDate string
	// StartSheet is the 0-based index of the first sheet considered.
	StartSheet int
	// SkipSheets lists sheet names that are never processed.
	SkipSheets []string
	// CategoryCell is the cell holding a sheet's document category.
	CategoryCell string
	// MappingOverrides replaces or extends the MAPPING table of a target table.
	MappingOverrides map[string]map[string]string
	// Logger receives progress and warnings. If nil, slog.Default is used.
	Logger *slog.Logger
	// Now supplies the clock for derived tokens. If nil, time.Now is used.
	Now func() time.Time
}

// DefaultOptions returns default generation options.
func DefaultOptions() Options {
	return Options{
		StartSheet:   DefaultStartSheet,
		SkipSheets:   slices.Clone(DefaultSkipSheets),
		CategoryCell: DefaultCategoryCell,
	}
}

// ShouldSkipSheet reports whether the sheet at index with the given name is excluded.
func (o Options) ShouldSkipSheet(index int, name string) bool {
	return index < o.StartSheet || slices.Contains(o.SkipSheets, name)
}

// Tokens returns the system id and date used for the run.
func (o Options) Tokens() (systemID, systemDate string) {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	t := now()
	systemID, systemDate = o.SystemID, o.SystemDate
	if systemID == "" {
		systemID = t.Format("150405")
	}
	if systemDate == "" {
		systemDate = t.Format(time.DateOnly)
	}
	return systemID, systemDate
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) categoryCell() string {
	if o.CategoryCell == "" {
		return DefaultCategoryCell
	}
	return o.CategoryCell
}
