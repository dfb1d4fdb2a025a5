// Package extract walks item-definition sheets and turns their sections into
// INSERT statements.
//
// Every section kind is described by a Section value: the bracketed marker
// that opens it, the merge spans that identify record and logic rows, the
// labels that mark header rows and the target tables. One scanner and one
// row classifier serve all of them.
package extract

import "maps"

// Target tables.
const (
	TableProject       = "T_KIHON_PJ"
	TableScreen        = "T_KIHON_PJ_GAMEN"
	TableField         = "T_KIHON_PJ_KOUMOKU"
	TableFieldLogic    = "T_KIHON_PJ_KOUMOKU_LOGIC"
	TableFieldReport   = "T_KIHON_PJ_KOUMOKU_RE"
	TableFieldRepLogic = "T_KIHON_PJ_KOUMOKU_RE_LOGIC"
	TableFieldCSV      = "T_KIHON_PJ_KOUMOKU_CSV"
	TableFieldCSVLogic = "T_KIHON_PJ_KOUMOKU_CSV_LOGIC"
	TableFunction      = "T_KIHON_PJ_FUNC"
	TableFunctionLogic = "T_KIHON_PJ_FUNC_LOGIC"
	TableMessage       = "T_KIHON_PJ_MESSAGE"
	TableTab           = "T_KIHON_PJ_TAB"
	TableIchiran       = "T_KIHON_PJ_ICHIRAN"
	TableHyouji        = "T_KIHON_PJ_HYOUJI"
	TableIPO           = "T_KIHON_PJ_IPO"
	TableMenu          = "T_KIHON_PJ_MENU"
)

// Section markers found in the marker column.
const (
	MarkerField    = "【項目定義】"
	MarkerFunction = "【ファンクション定義】"
	MarkerMessage  = "【メッセージ定義】"
	MarkerTab      = "【タブインデックス定義】"
	MarkerIchiran  = "【一覧定義】"
	MarkerHyouji   = "【表示位置定義】"
	MarkerIPO      = "【IPO図】"
	MarkerMenu     = "【メニュー定義】"
	MarkerReport   = "【帳票データ】"
	MarkerCSV      = "【CSVデータ】"
	MarkerRemarks  = "【備考】"
	MarkerCautions = "【運用上の注意点】"
)

// Column spans, 1-based and inclusive.
var (
	// NarrowSpan is B:C, the label span of a record anchor row.
	NarrowSpan = Span{Start: 2, End: 3}
	// WideSpan is B:BN, a free-text continuation row.
	WideSpan = Span{Start: 2, End: 66}
	// DetailSpan is D:BN, the description beside a function label.
	DetailSpan = Span{Start: 4, End: 66}
)

// DefaultSkipLabels are the header labels that never start a record.
var DefaultSkipLabels = []string{"画面", "番号"}

// CategoryCodes maps the category cell of a sheet to the screen category code.
var CategoryCodes = map[string]string{
	"項目定義書_帳票":   "1",
	"項目定義書_画面":   "2",
	"項目定義書_CSV":  "3",
	"項目定義書_IPO図": "4",
	"項目定義書_ﾒﾆｭｰ": "5",
}

// ItemTypeCodes maps the item type cell of a field row to its code.
var ItemTypeCodes = map[string]string{
	"ラベル":      "1",
	"チェックボックス": "2",
	"処理":       "3",
}

// Span is an inclusive 1-based column range.
type Span struct {
	Start int
	End   int
}

// Table describes one target table.
type Table struct {
	// Name is the target table name and the key into the column-rule table.
	Name string
	// SeqColumn carries the record's own sequence; empty for unsequenced tables.
	SeqColumn string
	// Mapping resolves MAPPING columns.
	Mapping map[string]string
	// RequirementColumn is the column whose text is reduced to a requirement id.
	RequirementColumn string
}

// LogicSection describes the free-text child rows of a record.
type LogicSection struct {
	Table Table
	// Span is the exact merge span of a logic row.
	Span Span
	// FromAnchorRow makes the record's own row eligible as the first logic row.
	FromAnchorRow bool
}

// Section describes one bracketed section kind.
type Section struct {
	Name       string
	Marker     string
	MarkerCol  int
	Anchor     Span
	SkipLabels []string
	Table      Table
	Logic      *LogicSection
}

func (s *Section) isSkipLabel(label string) bool {
	for _, l := range s.SkipLabels {
		if l == label {
			return true
		}
	}
	return false
}

// Category is one of the five document kinds a sheet can declare.
type Category struct {
	// Name is a short identifier used in logs.
	Name string
	// Label is the text of the category cell.
	Label string
	// Sections are scanned in order for sheets of this category.
	Sections []*Section
}

// Catalog holds every table, section and category known to the extractor.
type Catalog struct {
	Project    Table
	Screen     Table
	Categories []*Category
	// Reserved are the markers that close any section other than their own.
	Reserved map[string]bool
}

// Category returns the category whose label equals text.
func (c *Catalog) Category(text string) (*Category, bool) {
	for _, cat := range c.Categories {
		if cat.Label == text {
			return cat, true
		}
	}
	return nil, false
}

// Section returns the section named name.
func (c *Catalog) Section(name string) (*Section, bool) {
	for _, cat := range c.Categories {
		for _, sec := range cat.Sections {
			if sec.Name == name {
				return sec, true
			}
		}
	}
	return nil, false
}

// DefaultCatalog returns the built-in catalog. overrides replaces or extends
// the MAPPING table of the named target tables.
func DefaultCatalog(overrides map[string]map[string]string) *Catalog {
	mapping := func(table string, base map[string]string) map[string]string {
		m := maps.Clone(base)
		if m == nil {
			m = make(map[string]string)
		}
		maps.Copy(m, overrides[table])
		return m
	}

	record := func(name, marker, table, seq string, logic *LogicSection) *Section {
		return &Section{
			Name:       name,
			Marker:     marker,
			MarkerCol:  2,
			Anchor:     NarrowSpan,
			SkipLabels: DefaultSkipLabels,
			Table:      Table{Name: table, SeqColumn: seq, Mapping: mapping(table, ItemTypeCodes)},
			Logic:      logic,
		}
	}
	logic := func(table, seq string, span Span, fromAnchor bool) *LogicSection {
		return &LogicSection{
			Table:         Table{Name: table, SeqColumn: seq, Mapping: mapping(table, nil), RequirementColumn: "YOUKEN_NO"},
			Span:          span,
			FromAnchorRow: fromAnchor,
		}
	}

	field := record("field", MarkerField, TableField, "SEQ_K", logic(TableFieldLogic, "SEQ_K_L", WideSpan, false))
	fieldReport := record("field-report", MarkerField, TableFieldReport, "SEQ_K", logic(TableFieldRepLogic, "SEQ_K_L", WideSpan, false))
	fieldCSV := record("field-csv", MarkerField, TableFieldCSV, "SEQ_K", logic(TableFieldCSVLogic, "SEQ_K_L", WideSpan, false))
	function := record("function", MarkerFunction, TableFunction, "SEQ_F", logic(TableFunctionLogic, "SEQ_F_L", DetailSpan, true))
	message := record("message", MarkerMessage, TableMessage, "SEQ_M", nil)
	tab := record("tab", MarkerTab, TableTab, "SEQ_T", nil)
	ichiran := record("ichiran", MarkerIchiran, TableIchiran, "SEQ_I", nil)
	hyouji := record("hyouji", MarkerHyouji, TableHyouji, "SEQ_H", nil)
	ipo := record("ipo", MarkerIPO, TableIPO, "SEQ_P", nil)
	menu := record("menu", MarkerMenu, TableMenu, "SEQ_MN", nil)

	c := &Catalog{
		Project: Table{Name: TableProject},
		Screen:  Table{Name: TableScreen, SeqColumn: "SEQ", Mapping: mapping(TableScreen, CategoryCodes)},
		Categories: []*Category{
			{Name: "report", Label: "項目定義書_帳票", Sections: []*Section{fieldReport}},
			{Name: "screen", Label: "項目定義書_画面", Sections: []*Section{function, field, message, tab, ichiran, hyouji}},
			{Name: "csv", Label: "項目定義書_CSV", Sections: []*Section{fieldCSV}},
			{Name: "ipo", Label: "項目定義書_IPO図", Sections: []*Section{ipo}},
			{Name: "menu", Label: "項目定義書_ﾒﾆｭｰ", Sections: []*Section{menu}},
		},
		Reserved: map[string]bool{
			MarkerReport:   true,
			MarkerCSV:      true,
			MarkerRemarks:  true,
			MarkerCautions: true,
		},
	}
	for _, cat := range c.Categories {
		for _, sec := range cat.Sections {
			c.Reserved[sec.Marker] = true
		}
	}
	return c
}
