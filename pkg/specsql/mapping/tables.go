package mapping

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"regexp"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var insertPattern = regexp.MustCompile(`(?i)^\s*INSERT INTO\s+([A-Z0-9_]+)\s*\(`)

// fallbackEncodings are tried in order after UTF-8. Latin-1 accepts any input.
var fallbackEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"shift_jis", japanese.ShiftJIS},
	{"cp1252", charmap.Windows1252},
	{"latin-1", charmap.ISO8859_1},
}

// Decode converts data to UTF-8, trying UTF-8 (with or without a byte order
// mark) first and then each fallback encoding. It returns the name of the
// encoding that decoded data cleanly.
func Decode(data []byte) (string, []byte, error) {
	if utf8.Valid(data) {
		out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), data)
		if err != nil {
			return "", nil, err
		}
		return "utf-8", out, nil
	}
	for _, fe := range fallbackEncodings {
		out, _, err := transform.Bytes(fe.enc.NewDecoder(), data)
		if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
			continue
		}
		return fe.name, out, nil
	}
	return "", nil, fmt.Errorf("cannot decode input with utf-8, shift_jis, cp1252 or latin-1")
}

// ScanTableNames returns the target tables of the INSERT statements in data,
// de-duplicated in order of first appearance.
func ScanTableNames(data []byte) ([]string, error) {
	_, text, err := Decode(data)
	if err != nil {
		return nil, err
	}

	var names []string
	seen := make(map[string]bool)
	sc := bufio.NewScanner(bytes.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		m := insertPattern.FindStringSubmatch(sc.Text())
		if m == nil || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan statements: %w", err)
	}
	return names, nil
}

// ReadTableNames runs ScanTableNames over the file at path.
func ReadTableNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read statements: %w", err)
	}
	return ScanTableNames(data)
}
