// Package parser provides worksheet access for the extraction engine: cell
// values with merged-region fill-down, and merge geometry queries.
package parser

import (
	"fmt"

	"github.com/ukaji3/specsql-go/pkg/specsql/models"
	"github.com/xuri/excelize/v2"
)

// Sheet is a read-only view of one worksheet. Cell values and merge lookups
// are memoized; the workbook must not be modified while a Sheet is in use.
type Sheet struct {
	f      *excelize.File
	name   string
	rows   [][]string
	merges []MergeRange
	maxRow int

	cells map[string]models.CellValue
	spans map[spanKey]spanHit
}

type spanKey struct {
	row, colStart, colEnd int
}

type spanHit struct {
	region MergeRange
	found  bool
}

// OpenSheet loads the raw rows and merged regions of sheetName.
func OpenSheet(f *excelize.File, sheetName string) (*Sheet, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	mergeCells, err := f.GetMergeCells(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read merged cells: %w", err)
	}
	merges := make([]MergeRange, 0, len(mergeCells))
	for _, mc := range mergeCells {
		if m, ok := parseRange(mc.GetStartAxis(), mc.GetEndAxis()); ok {
			merges = append(merges, m)
		}
	}

	return &Sheet{
		f:      f,
		name:   sheetName,
		rows:   rows,
		merges: merges,
		maxRow: lastRow(rows, merges),
		cells:  make(map[string]models.CellValue),
		spans:  make(map[spanKey]spanHit),
	}, nil
}

// Name returns the worksheet name.
func (s *Sheet) Name() string {
	return s.name
}

// MaxRow returns the last row the sheet uses, counting merged regions.
func (s *Sheet) MaxRow() int {
	return s.maxRow
}

// Text returns the value stored directly in (col, row) without merge fill-down.
func (s *Sheet) Text(col, row int) string {
	if row < 1 || row > len(s.rows) {
		return ""
	}
	r := s.rows[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}

// Resolve returns the effective value of ref. An empty cell inside a merged
// region yields the anchor cell's value. A cell with no value returns a
// CellValue of kind CellEmpty. Malformed references fail with *CellReferenceError.
func (s *Sheet) Resolve(ref string) (models.CellValue, error) {
	col, row, err := SplitCellName(ref)
	if err != nil {
		return models.CellValue{}, err
	}
	name, _ := excelize.CoordinatesToCellName(col, row)
	if v, ok := s.cells[name]; ok {
		return v, nil
	}

	v := models.CellValue{Ref: name}
	if raw := s.Text(col, row); raw != "" {
		v = s.classify(name, raw)
	} else if m, ok := s.mergeAt(col, row); ok {
		anchor := m.Anchor()
		if raw := s.Text(m.MinCol, m.MinRow); raw != "" {
			v = s.classify(anchor, raw)
		}
	}

	s.cells[name] = v
	return v, nil
}

// IsMergedAcrossColumns reports whether row lies in a merged region spanning
// exactly colStart..colEnd. Regions that merely cover or overlap the span do
// not count.
func (s *Sheet) IsMergedAcrossColumns(row, colStart, colEnd int) bool {
	_, ok := s.MergedRegion(row, colStart, colEnd)
	return ok
}

// MergedRegion returns the merged region holding row that spans exactly
// colStart..colEnd.
func (s *Sheet) MergedRegion(row, colStart, colEnd int) (MergeRange, bool) {
	key := spanKey{row: row, colStart: colStart, colEnd: colEnd}
	if hit, ok := s.spans[key]; ok {
		return hit.region, hit.found
	}
	var hit spanHit
	for _, m := range s.merges {
		if m.MinCol == colStart && m.MaxCol == colEnd && m.MinRow <= row && row <= m.MaxRow {
			hit = spanHit{region: m, found: true}
			break
		}
	}
	s.spans[key] = hit
	return hit.region, hit.found
}

func (s *Sheet) mergeAt(col, row int) (MergeRange, bool) {
	for _, m := range s.merges {
		if m.Contains(col, row) {
			return m, true
		}
	}
	return MergeRange{}, false
}
