package extract

import (
	"github.com/ukaji3/specsql-go/pkg/specsql/models"
	"github.com/ukaji3/specsql-go/pkg/specsql/parser"
	"github.com/xuri/excelize/v2"
)

// fakeGrid is an in-memory Grid for scanner and resolver tests.
type fakeGrid struct {
	cells  map[string]models.CellValue
	merges []parser.MergeRange
}

func newGrid() *fakeGrid {
	return &fakeGrid{cells: make(map[string]models.CellValue)}
}

func (g *fakeGrid) set(ref, text string) *fakeGrid {
	g.cells[ref] = models.CellValue{Ref: ref, Kind: models.CellString, Text: text}
	return g
}

func (g *fakeGrid) setValue(ref string, v models.CellValue) *fakeGrid {
	v.Ref = ref
	g.cells[ref] = v
	return g
}

func (g *fakeGrid) merge(start, end string) *fakeGrid {
	c1, r1, _ := parser.SplitCellName(start)
	c2, r2, _ := parser.SplitCellName(end)
	g.merges = append(g.merges, parser.MergeRange{MinCol: c1, MinRow: r1, MaxCol: c2, MaxRow: r2})
	return g
}

func (g *fakeGrid) Name() string { return "Sheet3" }

func (g *fakeGrid) MaxRow() int {
	maxRow := 0
	for ref := range g.cells {
		_, row, _ := parser.SplitCellName(ref)
		maxRow = max(maxRow, row)
	}
	for _, m := range g.merges {
		maxRow = max(maxRow, m.MaxRow)
	}
	return maxRow
}

func (g *fakeGrid) Text(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	return g.cells[name].Text
}

func (g *fakeGrid) Resolve(ref string) (models.CellValue, error) {
	col, row, err := parser.SplitCellName(ref)
	if err != nil {
		return models.CellValue{}, err
	}
	name, _ := excelize.CoordinatesToCellName(col, row)
	if v, ok := g.cells[name]; ok {
		return v, nil
	}
	for _, m := range g.merges {
		if m.Contains(col, row) {
			return g.cells[m.Anchor()], nil
		}
	}
	return models.CellValue{Ref: name}, nil
}

func (g *fakeGrid) IsMergedAcrossColumns(row, colStart, colEnd int) bool {
	_, ok := g.MergedRegion(row, colStart, colEnd)
	return ok
}

func (g *fakeGrid) MergedRegion(row, colStart, colEnd int) (parser.MergeRange, bool) {
	for _, m := range g.merges {
		if m.MinCol == colStart && m.MaxCol == colEnd && m.MinRow <= row && row <= m.MaxRow {
			return m, true
		}
	}
	return parser.MergeRange{}, false
}
