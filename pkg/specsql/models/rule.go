package models

// ColumnRule describes how one target column is filled.
type ColumnRule struct {
	// ColumnName is the target column name.
	ColumnName string `json:"COLUMN_NAME" yaml:"COLUMN_NAME"`
	// Value is the extraction directive (BLANK, NULL, AUTO_ID, MAPPING, "" for a cell read, ...).
	Value string `json:"VALUE" yaml:"VALUE"`
	// CellFix is the primary cell reference: a bare column letter or a full A1 reference.
	CellFix string `json:"CELL_FIX" yaml:"CELL_FIX"`
	// CellLogic is the alternate reference tried when CellFix resolves to nothing.
	CellLogic string `json:"CELL_LOGIC" yaml:"CELL_LOGIC"`
	// DataType is the target SQL type name.
	DataType string `json:"DATA_TYPE" yaml:"DATA_TYPE"`
}

// TableInfo maps a target table name to its ordered column rules.
type TableInfo map[string][]ColumnRule

// Columns returns the rules for table and whether the table is present.
func (t TableInfo) Columns(table string) ([]ColumnRule, bool) {
	cols, ok := t[table]
	return cols, ok
}
