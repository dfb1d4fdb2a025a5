package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/specsql-go/pkg/specsql/models"
	"github.com/ukaji3/specsql-go/pkg/specsql/parser"
	"github.com/ukaji3/specsql-go/pkg/specsql/sqlgen"
)

// Grid is the worksheet view the extractor reads. *parser.Sheet implements it.
type Grid interface {
	Name() string
	MaxRow() int
	Text(col, row int) string
	Resolve(ref string) (models.CellValue, error)
	IsMergedAcrossColumns(row, colStart, colEnd int) bool
	MergedRegion(row, colStart, colEnd int) (parser.MergeRange, bool)
}

// Column rule directives.
const (
	DirectiveCell       = ""
	DirectiveBlank      = "BLANK"
	DirectiveNull       = "NULL"
	DirectiveAutoID     = "AUTO_ID"
	DirectiveMapping    = "MAPPING"
	DirectiveSystemID   = "SYSTEMID"
	DirectiveProjectID  = "T_KIHON_PJ.SYSTEM_ID"
	DirectiveSystemDate = "SYSTEM DATE"
	DirectiveAutoTime   = "AUTO_TIME"
)

// NoValue is the full-width dash written in numeric cells that have no value.
const NoValue = "－"

const dateTimeLayout = "2006-01-02 15:04:05"

var (
	tableRefPattern    = regexp.MustCompile(`^([A-Z][A-Z0-9_]*)\.([A-Z][A-Z0-9_]*)$`)
	requirementPattern = regexp.MustCompile(`[（(]?(要件№[^\s（()）]+?)[）)]?要件ロジック：`)
)

type typeClass int

const (
	classText typeClass = iota
	classUnicode
	classInteger
	classDecimal
	classDate
)

// classifyType maps a declared SQL type to a formatting class.
func classifyType(dataType string) typeClass {
	t := strings.ToLower(strings.TrimSpace(dataType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	switch t {
	case "nvarchar", "nchar", "ntext":
		return classUnicode
	case "int", "integer", "bigint", "smallint", "tinyint", "bit":
		return classInteger
	case "decimal", "numeric", "float", "real", "money", "smallmoney":
		return classDecimal
	case "date", "datetime", "datetime2", "smalldatetime", "time", "datetimeoffset", "timestamp":
		return classDate
	}
	return classText
}

// ResolveColumn renders the SQL literal for one column of the record in
// scope. It never fails: a cell that cannot be read resolves to '' and is
// recorded as a warning on ec.
func ResolveColumn(ec *ExtractionContext, g Grid, rule models.ColumnRule, scope *Scope) string {
	directive := strings.TrimSpace(rule.Value)
	class := classifyType(rule.DataType)

	switch directive {
	case DirectiveAutoID:
		if v, ok := scope.autoID(rule.ColumnName); ok {
			return sqlgen.Int(v)
		}
		return sqlgen.Empty
	case DirectiveMapping:
		return resolveMapping(ec, g, rule, scope)
	case DirectiveCell:
		return resolveCell(ec, g, rule, scope, class)
	case DirectiveBlank:
		return sqlgen.Empty
	case DirectiveNull:
		return sqlgen.Null
	case DirectiveSystemID, DirectiveProjectID:
		return sqlgen.Quote(ec.SystemID)
	case DirectiveSystemDate, DirectiveAutoTime:
		return sqlgen.Quote(ec.SystemDate)
	}

	if m := tableRefPattern.FindStringSubmatch(directive); m != nil {
		if v, ok := scope.ref(m[1], m[2]); ok {
			return sqlgen.Int(v)
		}
		return sqlgen.Empty
	}

	return sqlgen.Text(directive, class == classUnicode)
}

func resolveMapping(ec *ExtractionContext, g Grid, rule models.ColumnRule, scope *Scope) string {
	if strings.TrimSpace(rule.CellFix) == "" {
		return sqlgen.Empty
	}
	ref, err := parser.CellName(rule.CellFix, scope.Row)
	if err != nil {
		ec.warn(columnWarning(g, rule, scope, rule.CellFix, err))
		return sqlgen.Empty
	}
	col, row, _ := parser.SplitCellName(ref)
	if code, ok := scope.Table.Mapping[g.Text(col, row)]; ok {
		return code
	}
	return sqlgen.Empty
}

func resolveCell(ec *ExtractionContext, g Grid, rule models.ColumnRule, scope *Scope, class typeClass) string {
	v, ok := readCell(ec, g, rule, scope)
	if !ok {
		return sqlgen.Empty
	}

	if rule.ColumnName == scope.Table.RequirementColumn && scope.Table.RequirementColumn != "" {
		m := requirementPattern.FindStringSubmatch(v.Text)
		if m == nil {
			return sqlgen.Empty
		}
		return sqlgen.Text(m[1], class == classUnicode)
	}

	switch class {
	case classInteger, classDecimal:
		if strings.TrimSpace(v.Text) == NoValue {
			return sqlgen.Null
		}
		switch v.Kind {
		case models.CellNumber, models.CellBool:
			return sqlgen.Number(v.Number)
		}
		// Numbers stored as text still render as numerals.
		if n, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			return sqlgen.Number(n)
		}
		return sqlgen.Quote(cellText(v))
	case classDate:
		return sqlgen.Quote(cellText(v))
	case classUnicode:
		return sqlgen.NQuote(cellText(v))
	}
	return sqlgen.Quote(cellText(v))
}

// readCell resolves CELL_FIX, then CELL_LOGIC when the first yields nothing.
func readCell(ec *ExtractionContext, g Grid, rule models.ColumnRule, scope *Scope) (models.CellValue, bool) {
	for _, ref := range []string{rule.CellFix, rule.CellLogic} {
		if strings.TrimSpace(ref) == "" {
			continue
		}
		name, err := parser.CellName(ref, scope.Row)
		if err != nil {
			ec.warn(columnWarning(g, rule, scope, ref, err))
			return models.CellValue{}, false
		}
		v, err := g.Resolve(name)
		if err != nil {
			ec.warn(columnWarning(g, rule, scope, name, err))
			return models.CellValue{}, false
		}
		if !v.IsEmpty() {
			return v, true
		}
	}
	return models.CellValue{}, false
}

// cellText renders a value the way it appears in the generated SQL.
func cellText(v models.CellValue) string {
	switch v.Kind {
	case models.CellDate:
		return v.Time.Format(dateTimeLayout)
	case models.CellNumber:
		return sqlgen.Number(v.Number)
	case models.CellBool:
		if v.Number != 0 {
			return "TRUE"
		}
		return "FALSE"
	}
	return v.Text
}

func columnWarning(g Grid, rule models.ColumnRule, scope *Scope, ref string, err error) models.Warning {
	return models.Warning{
		Sheet:  g.Name(),
		Table:  scope.Table.Name,
		Column: rule.ColumnName,
		Row:    scope.Row,
		Ref:    ref,
		Reason: err.Error(),
	}
}
