package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/specsql-go/pkg/specsql/models"
	"github.com/xuri/excelize/v2"
)

// classify turns the raw stored text of ref into a typed CellValue.
func (s *Sheet) classify(ref, raw string) models.CellValue {
	v := models.CellValue{Ref: ref, Kind: models.CellString, Text: raw}

	cellType, err := s.f.GetCellType(s.name, ref)
	if err != nil {
		return v
	}

	switch cellType {
	case excelize.CellTypeBool:
		v.Kind = models.CellBool
		if raw == "1" || strings.EqualFold(raw, "true") {
			v.Number = 1
		}
	case excelize.CellTypeDate:
		if t, ok := parseISOTime(raw); ok {
			v.Kind = models.CellDate
			v.Time = t
		}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		n, ok := parseValue(raw).(float64)
		if !ok {
			return v
		}
		if s.hasDateFormat(ref) {
			t, err := excelize.ExcelDateToTime(n, false)
			if err == nil {
				v.Kind = models.CellDate
				v.Time = t
				return v
			}
		}
		v.Kind = models.CellNumber
		v.Number = n
	}
	return v
}

// parseValue attempts to parse a string value as a number.
// Returns float64 for numeric text or the original string.
func parseValue(s string) interface{} {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func parseISOTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// hasDateFormat reports whether the number format applied to ref renders a
// date or time.
func (s *Sheet) hasDateFormat(ref string) bool {
	styleID, err := s.f.GetCellStyle(s.name, ref)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := s.f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil && *style.CustomNumFmt != "" {
		return isDateFormatCode(*style.CustomNumFmt)
	}
	return isBuiltInDateFormat(style.NumFmt)
}

// isBuiltInDateFormat covers the built-in date ids including the ja-JP ones.
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode inspects a custom number format code for date tokens,
// ignoring quoted literals, escapes and bracketed locale/color sections.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case inBracket:
			if c == ']' {
				inBracket = false
			}
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\':
			i++
		default:
			b.WriteByte(c)
		}
	}
	stripped := strings.ToLower(b.String())
	if stripped == "general" || stripped == "" {
		return false
	}
	if strings.ContainsAny(stripped, "ydhs") && !strings.ContainsAny(stripped, "0#") {
		return true
	}
	return strings.Contains(stripped, "m") && !strings.ContainsAny(stripped, "0#?")
}
