package parser

// findDataBounds finds the last row and column holding a non-empty cell.
// Both are 1-based; zero means the sheet has no data.
func findDataBounds(rows [][]string) (maxRow, maxCol int) {
	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if rowIdx+1 > maxRow {
				maxRow = rowIdx + 1
			}
			if colIdx+1 > maxCol {
				maxCol = colIdx + 1
			}
		}
	}
	return
}

// lastRow is the last row the scanner must visit: the last data row or the
// bottom edge of the lowest merged region, whichever is further down.
func lastRow(rows [][]string, merges []MergeRange) int {
	maxRow, _ := findDataBounds(rows)
	for _, m := range merges {
		if m.MaxRow > maxRow {
			maxRow = m.MaxRow
		}
	}
	return maxRow
}
