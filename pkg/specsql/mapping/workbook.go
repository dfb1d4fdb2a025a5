package mapping

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoTableName indicates the mapping sheet has no TABLE_NAME header.
var ErrNoTableName = errors.New("mapping sheet has no TABLE_NAME column")

const (
	tableNameHeader = "TABLE_NAME"
	valueHeader     = "VALUE"
	lengthHeader    = "CHARACTER_MAXIMUM_LENGTH"
)

// ReadWorkbook builds a table-info document from the mapping workbook at path.
func ReadWorkbook(path string) (Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open mapping workbook: %w", err)
	}
	defer f.Close()
	return BuildTableInfo(f)
}

// BuildTableInfo reads the first sheet of a mapping workbook. The first row
// holds headers; every later row with a TABLE_NAME becomes one record of that
// table, carrying all other columns in header order. A VALUE of BLANK is
// stored as "" and CHARACTER_MAXIMUM_LENGTH is stored as an integer when it
// is one.
func BuildTableInfo(f *excelize.File) (Document, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("mapping workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read mapping sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoTableName
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	tableCol := slices.Index(header, tableNameHeader)
	if tableCol < 0 {
		return nil, ErrNoTableName
	}

	grouped := make(map[string][]Record)
	for _, row := range rows[1:] {
		table := strings.TrimSpace(cellAt(row, tableCol))
		if table == "" {
			continue
		}
		var rec Record
		for i, h := range header {
			if i == tableCol || h == "" {
				continue
			}
			rec = append(rec, Attr{Key: h, Value: attrValue(h, cellAt(row, i))})
		}
		grouped[table] = append(grouped[table], rec)
	}

	return orderTables(grouped), nil
}

// orderTables lays tables out in TableOrder followed by the rest by name.
func orderTables(grouped map[string][]Record) Document {
	doc := make(Document, 0, len(grouped))
	for _, name := range TableOrder {
		if recs, ok := grouped[name]; ok {
			doc = append(doc, Table{Name: name, Records: recs})
		}
	}
	var rest []string
	for name := range grouped {
		if !slices.Contains(TableOrder, name) {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	for _, name := range rest {
		doc = append(doc, Table{Name: name, Records: grouped[name]})
	}
	return doc
}

func attrValue(header, raw string) any {
	switch header {
	case valueHeader:
		if raw == "BLANK" {
			return ""
		}
	case lengthHeader:
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && f == math.Trunc(f) {
			return int(f)
		}
	}
	return raw
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
