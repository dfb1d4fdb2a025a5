// Package mapping reads and writes the column-rule table that drives
// statement generation.
package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/ukaji3/specsql-go/pkg/specsql/models"
)

// TableOrder is the order tables are written in. Tables not listed follow in
// name order.
var TableOrder = []string{
	"T_KIHON_PJ",
	"T_KIHON_PJ_GAMEN",
	"T_KIHON_PJ_GAMEN_YOUKEN",
	"T_KIHON_PJ_KOUMOKU",
	"T_KIHON_PJ_KOUMOKU_LOGIC",
	"T_KIHON_PJ_FUNC",
	"T_KIHON_PJ_FUNC_LOGIC",
	"T_KIHON_PJ_IPO",
	"T_KIHON_PJ_KOUMOKU_CSV",
	"T_KIHON_PJ_KOUMOKU_CSV_LOGIC",
	"T_KIHON_PJ_KOUMOKU_RE",
	"T_KIHON_PJ_KOUMOKU_RE_LOGIC",
	"T_KIHON_PJ_MENU",
	"T_KIHON_PJ_MESSAGE",
	"T_KIHON_PJ_TAB",
}

// Attr is one named attribute of a column rule row.
type Attr struct {
	Key   string
	Value any
}

// Record is one column rule row with its attributes in sheet column order.
type Record []Attr

// Get returns the attribute named key as text.
func (r Record) Get(key string) string {
	for _, a := range r {
		if a.Key == key {
			return text(a.Value)
		}
	}
	return ""
}

// MarshalJSON writes the attributes as an object, preserving their order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, a.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, a.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Table is the ordered rows of one target table.
type Table struct {
	Name    string
	Records []Record
}

// Document is a full table-info document in output order.
type Document []Table

// MarshalJSON writes the tables as one object keyed by table name.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, t.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		records := t.Records
		if records == nil {
			records = []Record{}
		}
		if err := writeJSON(&buf, records); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TableInfo converts the document into the rule table used for generation.
func (d Document) TableInfo() models.TableInfo {
	info := make(models.TableInfo, len(d))
	for _, t := range d {
		rules := make([]models.ColumnRule, 0, len(t.Records))
		for _, r := range t.Records {
			rules = append(rules, models.ColumnRule{
				ColumnName: r.Get("COLUMN_NAME"),
				Value:      r.Get("VALUE"),
				CellFix:    r.Get("CELL_FIX"),
				CellLogic:  r.Get("CELL_LOGIC"),
				DataType:   r.Get("DATA_TYPE"),
			})
		}
		info[t.Name] = rules
	}
	return info
}

// WriteTableInfo writes d as indented JSON with non-ASCII text left unescaped.
func WriteTableInfo(w io.Writer, d Document) error {
	var compact bytes.Buffer
	if err := writeJSON(&compact, d); err != nil {
		return fmt.Errorf("encode table info: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "    "); err != nil {
		return fmt.Errorf("indent table info: %w", err)
	}
	if _, err := out.WriteTo(w); err != nil {
		return fmt.Errorf("write table info: %w", err)
	}
	return nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// text renders a decoded attribute value as rule text.
func text(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(v)
}
