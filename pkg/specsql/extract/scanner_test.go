package extract

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/specsql-go/pkg/specsql/models"
)

func fieldRules() models.TableInfo {
	return models.TableInfo{
		TableField: {
			{ColumnName: "SEQ", Value: "T_KIHON_PJ_GAMEN.SEQ"},
			{ColumnName: "SEQ_K", Value: "AUTO_ID"},
			{ColumnName: "ROW_NO", Value: "AUTO_ID"},
			{ColumnName: "KOUMOKU_NAME", CellFix: "B", DataType: "nvarchar"},
		},
		TableFieldLogic: {
			{ColumnName: "SEQ", Value: "T_KIHON_PJ_GAMEN.SEQ"},
			{ColumnName: "SEQ_K", Value: "T_KIHON_PJ_KOUMOKU.SEQ_K"},
			{ColumnName: "SEQ_K_L", Value: "AUTO_ID"},
			{ColumnName: "LOGIC", CellFix: "B", DataType: "nvarchar"},
		},
	}
}

func scanField(t *testing.T, g Grid) []string {
	t.Helper()
	catalog := DefaultCatalog(nil)
	sec, ok := catalog.Section("field")
	require.True(t, ok)

	x := NewExtractor(catalog, fieldRules())
	screen := &Scope{Table: &catalog.Screen, Seq: 1}
	stmts, err := x.ScanSection(testContext(), g, sec, screen)
	require.NoError(t, err)
	return stmts
}

func TestScanSectionRecordWithLogicRows(t *testing.T) {
	g := newGrid().
		set("B3", MarkerField).
		set("B4", "項目A").merge("B4", "C4").
		set("B5", "ロジック1").merge("B5", "BN5").
		set("B6", "ロジック2").merge("B6", "BN6")

	stmts := scanField(t, g)
	assert.Equal(t, []string{
		"INSERT INTO T_KIHON_PJ_KOUMOKU (SEQ, SEQ_K, ROW_NO, KOUMOKU_NAME) VALUES (1, 1, 1, N'項目A');",
		"INSERT INTO T_KIHON_PJ_KOUMOKU_LOGIC (SEQ, SEQ_K, SEQ_K_L, LOGIC) VALUES (1, 1, 1, N'ロジック1');",
		"INSERT INTO T_KIHON_PJ_KOUMOKU_LOGIC (SEQ, SEQ_K, SEQ_K_L, LOGIC) VALUES (1, 1, 2, N'ロジック2');",
	}, stmts)
}

func TestScanSectionSequencesAcrossBlocks(t *testing.T) {
	g := newGrid().
		set("B2", MarkerField).
		set("B3", "番号").merge("B3", "C3").
		set("B4", "項目A").merge("B4", "C4").
		set("B5", "A-1").merge("B5", "BN5").
		set("B6", "項目B").merge("B6", "C7").
		set("B8", "B-1").merge("B8", "BN8").
		set("B9", "B-2").merge("B9", "BN9").
		set("B10", MarkerField).
		set("B11", "画面").merge("B11", "C11").
		set("B12", "項目C").merge("B12", "C12").
		set("B13", MarkerRemarks).
		set("B14", "項目D").merge("B14", "C14")

	stmts := scanField(t, g)
	assert.Equal(t, []string{
		"INSERT INTO T_KIHON_PJ_KOUMOKU (SEQ, SEQ_K, ROW_NO, KOUMOKU_NAME) VALUES (1, 1, 1, N'項目A');",
		"INSERT INTO T_KIHON_PJ_KOUMOKU_LOGIC (SEQ, SEQ_K, SEQ_K_L, LOGIC) VALUES (1, 1, 1, N'A-1');",
		"INSERT INTO T_KIHON_PJ_KOUMOKU (SEQ, SEQ_K, ROW_NO, KOUMOKU_NAME) VALUES (1, 2, 2, N'項目B');",
		"INSERT INTO T_KIHON_PJ_KOUMOKU_LOGIC (SEQ, SEQ_K, SEQ_K_L, LOGIC) VALUES (1, 2, 1, N'B-1');",
		"INSERT INTO T_KIHON_PJ_KOUMOKU_LOGIC (SEQ, SEQ_K, SEQ_K_L, LOGIC) VALUES (1, 2, 2, N'B-2');",
		"INSERT INTO T_KIHON_PJ_KOUMOKU (SEQ, SEQ_K, ROW_NO, KOUMOKU_NAME) VALUES (1, 3, 3, N'項目C');",
	}, stmts)
}

func TestScanSectionEmptyLabelMergeEndsLogic(t *testing.T) {
	g := newGrid().
		set("B3", MarkerField).
		set("B4", "A").merge("B4", "C4").
		set("B5", "l1").merge("B5", "BN5").
		merge("B6", "C6").
		set("B7", "l2").merge("B7", "BN7")

	stmts := scanField(t, g)
	assert.Equal(t, []string{
		"INSERT INTO T_KIHON_PJ_KOUMOKU (SEQ, SEQ_K, ROW_NO, KOUMOKU_NAME) VALUES (1, 1, 1, N'A');",
		"INSERT INTO T_KIHON_PJ_KOUMOKU_LOGIC (SEQ, SEQ_K, SEQ_K_L, LOGIC) VALUES (1, 1, 1, N'l1');",
	}, stmts)
}

func TestScanSectionTallLabelKeepsLogic(t *testing.T) {
	g := newGrid().
		set("B3", MarkerField).
		set("B4", "A").merge("B4", "C6").
		set("B7", "l1").merge("B7", "BN7")

	stmts := scanField(t, g)
	assert.Equal(t, []string{
		"INSERT INTO T_KIHON_PJ_KOUMOKU (SEQ, SEQ_K, ROW_NO, KOUMOKU_NAME) VALUES (1, 1, 1, N'A');",
		"INSERT INTO T_KIHON_PJ_KOUMOKU_LOGIC (SEQ, SEQ_K, SEQ_K_L, LOGIC) VALUES (1, 1, 1, N'l1');",
	}, stmts)
}

func TestScanSectionSkipLabelsNeverEmit(t *testing.T) {
	g := newGrid().
		set("B2", MarkerField).
		set("B3", "画面").merge("B3", "C3").
		set("B4", "番号").merge("B4", "C4")

	assert.Empty(t, scanField(t, g))
}

func TestScanSectionStopRightAfterMarker(t *testing.T) {
	g := newGrid().
		set("B2", MarkerField).
		set("B3", MarkerFunction).
		set("B4", "項目A").merge("B4", "C4")

	assert.Empty(t, scanField(t, g))
}

func TestScanSectionWithoutMarker(t *testing.T) {
	g := newGrid().
		set("B4", "項目A").merge("B4", "C4")

	assert.Empty(t, scanField(t, g))
}

func TestScanSectionLogicFromAnchorRow(t *testing.T) {
	catalog := DefaultCatalog(nil)
	sec, ok := catalog.Section("function")
	require.True(t, ok)

	rules := models.TableInfo{
		TableFunction: {
			{ColumnName: "SEQ_F", Value: "AUTO_ID"},
			{ColumnName: "FUNC_NAME", CellFix: "B", DataType: "nvarchar"},
		},
		TableFunctionLogic: {
			{ColumnName: "SEQ_F", Value: "T_KIHON_PJ_FUNC.SEQ_F"},
			{ColumnName: "SEQ_F_L", Value: "AUTO_ID"},
			{ColumnName: "LOGIC", CellFix: "D", DataType: "nvarchar"},
		},
	}
	g := newGrid().
		set("B2", MarkerFunction).
		set("B3", "F1").merge("B3", "C3").
		set("D3", "登録").merge("D3", "BN3").
		set("D4", "確認後に登録").merge("D4", "BN4").
		set("B5", "F2").merge("B5", "C5")

	x := NewExtractor(catalog, rules)
	screen := &Scope{Table: &catalog.Screen, Seq: 1}
	stmts, err := x.ScanSection(testContext(), g, sec, screen)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"INSERT INTO T_KIHON_PJ_FUNC (SEQ_F, FUNC_NAME) VALUES (1, N'F1');",
		"INSERT INTO T_KIHON_PJ_FUNC_LOGIC (SEQ_F, SEQ_F_L, LOGIC) VALUES (1, 1, N'登録');",
		"INSERT INTO T_KIHON_PJ_FUNC_LOGIC (SEQ_F, SEQ_F_L, LOGIC) VALUES (1, 2, N'確認後に登録');",
		"INSERT INTO T_KIHON_PJ_FUNC (SEQ_F, FUNC_NAME) VALUES (2, N'F2');",
	}, stmts)
}

func TestScanSectionMissingTableIsFatal(t *testing.T) {
	catalog := DefaultCatalog(nil)
	sec, _ := catalog.Section("message")
	g := newGrid().
		set("B2", MarkerMessage).
		set("B3", "MSG001").merge("B3", "C3")

	x := NewExtractor(catalog, fieldRules())
	_, err := x.ScanSection(testContext(), g, sec, &Scope{Table: &catalog.Screen, Seq: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTableNotFound))

	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, TableMessage, lookupErr.Table)
}

func TestSheetEmitsScreenThenSections(t *testing.T) {
	catalog := DefaultCatalog(nil)
	rules := fieldRules()
	rules[TableScreen] = []models.ColumnRule{
		{ColumnName: "SEQ", Value: "AUTO_ID"},
		{ColumnName: "JYUN", Value: "AUTO_ID"},
		{ColumnName: "SHUBETSU", Value: "MAPPING", CellFix: "B2"},
	}
	rules[TableProject] = []models.ColumnRule{
		{ColumnName: "SYSTEM_ID", Value: "SYSTEMID"},
	}
	for _, table := range []string{TableFunction, TableFunctionLogic, TableMessage, TableTab, TableIchiran, TableHyouji} {
		rules[table] = []models.ColumnRule{{ColumnName: "SEQ", Value: "T_KIHON_PJ_GAMEN.SEQ"}}
	}

	g := newGrid().
		set("B2", "項目定義書_画面").
		set("B4", MarkerField).
		set("B5", "項目A").merge("B5", "C5")

	cat, ok := catalog.Category("項目定義書_画面")
	require.True(t, ok)

	ec := testContext()
	x := NewExtractor(catalog, rules)
	pj, err := x.Project(ec, g)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO T_KIHON_PJ (SYSTEM_ID) VALUES ('093015');", pj)

	for seq := 1; seq <= 2; seq++ {
		stmts, err := x.Sheet(ec, g, cat)
		require.NoError(t, err)
		require.Len(t, stmts, 2)
		assert.Equal(t, fmt.Sprintf("INSERT INTO T_KIHON_PJ_GAMEN (SEQ, JYUN, SHUBETSU) VALUES (%d, %d, 2);", seq, seq), stmts[0])
		assert.Equal(t, fmt.Sprintf("INSERT INTO T_KIHON_PJ_KOUMOKU (SEQ, SEQ_K, ROW_NO, KOUMOKU_NAME) VALUES (%d, 1, 1, N'項目A');", seq), stmts[1])
	}
	assert.Equal(t, 2, ec.Screens().Issued())
}

func TestClassify(t *testing.T) {
	catalog := DefaultCatalog(nil)
	field, _ := catalog.Section("field")
	tab, _ := catalog.Section("tab")

	g := newGrid().
		set("B1", MarkerField).
		set("B2", "番号").merge("B2", "C2").
		set("B3", "項目A").merge("B3", "C4").
		set("B5", "logic").merge("B5", "BN5").
		set("B6", MarkerCautions).
		set("B7", "noise").
		merge("B8", "C8")

	tests := []struct {
		sec      *Section
		row      int
		expected Action
	}{
		{field, 1, ActionSkip},
		{field, 2, ActionHeader},
		{field, 3, ActionRecord},
		{field, 4, ActionSkip},
		{field, 5, ActionLogic},
		{field, 6, ActionStop},
		{field, 7, ActionSkip},
		{field, 8, ActionSkip},
		{field, 9, ActionStop},
		{tab, 1, ActionStop},
		{tab, 5, ActionSkip},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, catalog.Classify(tt.sec, g, tt.row), "%s row %d", tt.sec.Name, tt.row)
	}
}

func TestSheetDispatchesByCategory(t *testing.T) {
	catalog := DefaultCatalog(nil)
	rules := models.TableInfo{
		TableScreen: {
			{ColumnName: "SEQ", Value: "AUTO_ID"},
			{ColumnName: "SHUBETSU", Value: "MAPPING", CellFix: "B2"},
		},
	}
	for _, table := range []string{
		TableField, TableFieldLogic, TableFieldReport, TableFieldRepLogic, TableFieldCSV, TableFieldCSVLogic,
		TableFunction, TableFunctionLogic, TableMessage, TableTab, TableIchiran, TableHyouji, TableIPO, TableMenu,
	} {
		rules[table] = []models.ColumnRule{
			{ColumnName: "SEQ", Value: "T_KIHON_PJ_GAMEN.SEQ"},
			{ColumnName: "NAME", CellFix: "B", DataType: "nvarchar"},
		}
	}

	// Every section appears on the sheet; the category decides which are read.
	grid := func(label string) *fakeGrid {
		return newGrid().
			set("B2", label).
			set("B4", MarkerField).
			set("B5", "F").merge("B5", "C5").
			set("B6", "FL").merge("B6", "BN6").
			set("B7", MarkerFunction).
			set("B8", "FN").merge("B8", "C8").
			set("B9", MarkerMessage).
			set("B10", "M").merge("B10", "C10").
			set("B11", MarkerIPO).
			set("B12", "P").merge("B12", "C12").
			set("B13", MarkerMenu).
			set("B14", "MN").merge("B14", "C14")
	}

	tests := []struct {
		label    string
		code     string
		expected []string
	}{
		{"項目定義書_帳票", "1", []string{
			"INSERT INTO T_KIHON_PJ_KOUMOKU_RE (SEQ, NAME) VALUES (1, N'F');",
			"INSERT INTO T_KIHON_PJ_KOUMOKU_RE_LOGIC (SEQ, NAME) VALUES (1, N'FL');",
		}},
		{"項目定義書_画面", "2", []string{
			"INSERT INTO T_KIHON_PJ_FUNC (SEQ, NAME) VALUES (1, N'FN');",
			"INSERT INTO T_KIHON_PJ_KOUMOKU (SEQ, NAME) VALUES (1, N'F');",
			"INSERT INTO T_KIHON_PJ_KOUMOKU_LOGIC (SEQ, NAME) VALUES (1, N'FL');",
			"INSERT INTO T_KIHON_PJ_MESSAGE (SEQ, NAME) VALUES (1, N'M');",
		}},
		{"項目定義書_CSV", "3", []string{
			"INSERT INTO T_KIHON_PJ_KOUMOKU_CSV (SEQ, NAME) VALUES (1, N'F');",
			"INSERT INTO T_KIHON_PJ_KOUMOKU_CSV_LOGIC (SEQ, NAME) VALUES (1, N'FL');",
		}},
		{"項目定義書_IPO図", "4", []string{
			"INSERT INTO T_KIHON_PJ_IPO (SEQ, NAME) VALUES (1, N'P');",
		}},
		{"項目定義書_ﾒﾆｭｰ", "5", []string{
			"INSERT INTO T_KIHON_PJ_MENU (SEQ, NAME) VALUES (1, N'MN');",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			cat, ok := catalog.Category(tt.label)
			require.True(t, ok)

			stmts, err := NewExtractor(catalog, rules).Sheet(testContext(), grid(tt.label), cat)
			require.NoError(t, err)

			expected := append([]string{
				fmt.Sprintf("INSERT INTO T_KIHON_PJ_GAMEN (SEQ, SHUBETSU) VALUES (1, %s);", tt.code),
			}, tt.expected...)
			assert.Equal(t, expected, stmts)
		})
	}
}
