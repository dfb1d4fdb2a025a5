package extract

import (
	"github.com/ukaji3/specsql-go/pkg/specsql/models"
	"github.com/ukaji3/specsql-go/pkg/specsql/sqlgen"
)

// Extractor turns sheets into INSERT statements using a catalog of sections
// and an externally supplied column-rule table.
type Extractor struct {
	catalog *Catalog
	rules   models.TableInfo
}

// NewExtractor creates an Extractor.
func NewExtractor(catalog *Catalog, rules models.TableInfo) *Extractor {
	return &Extractor{catalog: catalog, rules: rules}
}

// Catalog returns the extractor's catalog.
func (x *Extractor) Catalog() *Catalog {
	return x.catalog
}

// emit renders the INSERT for the record in scope.
func (x *Extractor) emit(ec *ExtractionContext, g Grid, scope *Scope) (string, error) {
	rules, ok := x.rules.Columns(scope.Table.Name)
	if !ok {
		return "", &LookupError{Table: scope.Table.Name}
	}
	cols := make([]sqlgen.Column, 0, len(rules))
	for _, rule := range rules {
		cols = append(cols, sqlgen.Column{
			Name:  rule.ColumnName,
			Value: ResolveColumn(ec, g, rule, scope),
		})
	}
	return sqlgen.Insert(scope.Table.Name, cols), nil
}

// Project emits the single project record from g and makes it the root scope
// of every later screen.
func (x *Extractor) Project(ec *ExtractionContext, g Grid) (string, error) {
	scope := &Scope{Table: &x.catalog.Project}
	stmt, err := x.emit(ec, g, scope)
	if err != nil {
		return "", err
	}
	ec.project = scope
	ec.Logger.Debug("created record", "table", scope.Table.Name, "sheet", g.Name())
	return stmt, nil
}

// Sheet emits the screen record of g followed by every section its category
// calls for. Statements are returned in emission order.
func (x *Extractor) Sheet(ec *ExtractionContext, g Grid, cat *Category) ([]string, error) {
	screen := &Scope{Table: &x.catalog.Screen, Seq: ec.screens.Current(), Parent: ec.project}
	stmt, err := x.emit(ec, g, screen)
	if err != nil {
		return nil, err
	}
	ec.screens.Advance()
	ec.Logger.Info("processing sheet", "sheet", g.Name(), "category", cat.Name, "seq", screen.Seq)

	out := []string{stmt}
	for _, sec := range cat.Sections {
		stmts, err := x.ScanSection(ec, g, sec, screen)
		if err != nil {
			return nil, err
		}
		out = append(out, stmts...)
	}
	return out, nil
}

// ScanSection finds every block of sec in g and emits its records, each
// followed by its logic children. Record sequences run 1..N across all
// blocks of the sheet.
func (x *Extractor) ScanSection(ec *ExtractionContext, g Grid, sec *Section, parent *Scope) ([]string, error) {
	var out []string
	seq := NewSequence()
	maxRow := g.MaxRow()

	row := 1
	for row <= maxRow {
		if g.Text(sec.MarkerCol, row) != sec.Marker {
			row++
			continue
		}

		r := row + 1
	section:
		for ; r <= maxRow; r++ {
			switch x.catalog.Classify(sec, g, r) {
			case ActionStop:
				break section
			case ActionRecord:
				scope := &Scope{Table: &sec.Table, Seq: seq.Current(), Row: r, Parent: parent}
				stmt, err := x.emit(ec, g, scope)
				if err != nil {
					return nil, err
				}
				out = append(out, stmt)
				ec.Logger.Debug("created record", "table", sec.Table.Name, "seq", scope.Seq, "row", r)

				if sec.Logic != nil {
					children, err := x.scanLogic(ec, g, sec, scope)
					if err != nil {
						return nil, err
					}
					out = append(out, children...)
				}
				seq.Advance()
			}
		}
		// Resume on the row that closed the section; it is never our own marker.
		row = r
	}

	if n := seq.Issued(); n > 0 {
		ec.Logger.Debug("section done", "sheet", g.Name(), "section", sec.Name, "records", n)
	}
	return out, nil
}

// scanLogic emits the logic rows below the record in scope. It ends at the
// next label-span merge other than the record's own, at any marker or at the
// end of the sheet.
func (x *Extractor) scanLogic(ec *ExtractionContext, g Grid, sec *Section, record *Scope) ([]string, error) {
	var out []string
	seq := NewSequence()
	logic := sec.Logic

	emit := func(row int) error {
		scope := &Scope{Table: &logic.Table, Seq: seq.Current(), Row: row, Parent: record}
		stmt, err := x.emit(ec, g, scope)
		if err != nil {
			return err
		}
		out = append(out, stmt)
		ec.Logger.Debug("created record", "table", logic.Table.Name, "seq", scope.Seq, "row", row)
		seq.Advance()
		return nil
	}

	if logic.FromAnchorRow && g.IsMergedAcrossColumns(record.Row, logic.Span.Start, logic.Span.End) {
		if err := emit(record.Row); err != nil {
			return nil, err
		}
	}

	label, _ := g.MergedRegion(record.Row, sec.Anchor.Start, sec.Anchor.End)
	for r := record.Row + 1; r <= g.MaxRow(); r++ {
		if g.Text(sec.MarkerCol, r) == sec.Marker {
			break
		}
		action := x.catalog.Classify(sec, g, r)
		if action == ActionStop || action == ActionRecord || action == ActionHeader {
			break
		}
		// Any other label-span merge ends the children, even an empty one.
		if m, ok := g.MergedRegion(r, sec.Anchor.Start, sec.Anchor.End); ok && m != label {
			break
		}
		if action == ActionLogic {
			if err := emit(r); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
