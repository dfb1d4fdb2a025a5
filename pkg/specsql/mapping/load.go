package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/specsql-go/pkg/specsql/models"
	"gopkg.in/yaml.v3"
)

// Load reads a column-rule table. JSON (.json, .txt) and YAML (.yaml, .yml)
// documents are decoded directly; a mapping workbook (.xlsx) is converted
// with BuildTableInfo.
func Load(path string) (models.TableInfo, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" {
		doc, err := ReadWorkbook(path)
		if err != nil {
			return nil, err
		}
		return doc.TableInfo(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table info: %w", err)
	}

	raw := make(map[string][]map[string]any)
	switch ext {
	case ".json", ".txt":
		dec := json.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode table info %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode table info %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported table info format %q", ext)
	}
	return fromRaw(raw), nil
}

func fromRaw(raw map[string][]map[string]any) models.TableInfo {
	info := make(models.TableInfo, len(raw))
	for table, rows := range raw {
		rules := make([]models.ColumnRule, 0, len(rows))
		for _, row := range rows {
			rules = append(rules, models.ColumnRule{
				ColumnName: text(row["COLUMN_NAME"]),
				Value:      text(row["VALUE"]),
				CellFix:    text(row["CELL_FIX"]),
				CellLogic:  text(row["CELL_LOGIC"]),
				DataType:   text(row["DATA_TYPE"]),
			})
		}
		info[table] = rules
	}
	return info
}
