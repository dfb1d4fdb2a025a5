// Package sqlgen renders SQL literals and INSERT statements.
package sqlgen

import (
	"strconv"
	"strings"
)

const (
	// Null is the bare SQL NULL token.
	Null = "NULL"
	// Empty is the SQL empty-string literal.
	Empty = "''"
)

var escaper = strings.NewReplacer("'", "''", "\r", "", "\n", " ")

// Escape doubles single quotes, drops carriage returns and turns line feeds
// into spaces so the value fits on one statement line.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Quote returns s as a single-quoted literal.
func Quote(s string) string {
	return "'" + Escape(s) + "'"
}

// NQuote returns s as a Unicode (N-prefixed) literal.
func NQuote(s string) string {
	return "N" + Quote(s)
}

// Text quotes s, N-prefixed when unicode is true.
func Text(s string, unicode bool) string {
	if unicode {
		return NQuote(s)
	}
	return Quote(s)
}

// Int renders n as an unquoted integer.
func Int(n int) string {
	return strconv.Itoa(n)
}

// Number renders f unquoted, without a trailing ".0" for integral values.
func Number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
