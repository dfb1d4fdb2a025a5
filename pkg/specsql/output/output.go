// Package output writes generated statements as SQL text.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteSQL writes one statement per line, each line ending in a newline.
func WriteSQL(w io.Writer, stmts []string) error {
	bw := bufio.NewWriter(w)
	for _, s := range stmts {
		if _, err := bw.WriteString(s); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes stmts to path, creating parent directories as needed.
func WriteFile(path string, stmts []string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := WriteSQL(f, stmts); err != nil {
		f.Close()
		return fmt.Errorf("write output file: %w", err)
	}
	return f.Close()
}
