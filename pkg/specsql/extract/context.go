package extract

import (
	"log/slog"

	"github.com/ukaji3/specsql-go/pkg/specsql/models"
)

// Sequence issues 1, 2, 3, ... within one scope. Current is read to stamp a
// record and Advance is called once the record has been emitted.
type Sequence struct {
	next int
}

// NewSequence returns a sequence starting at 1.
func NewSequence() *Sequence {
	return &Sequence{next: 1}
}

// Current returns the value the next accepted record receives.
func (s *Sequence) Current() int {
	return s.next
}

// Advance moves to the next value.
func (s *Sequence) Advance() {
	s.next++
}

// Issued returns how many values have been handed out.
func (s *Sequence) Issued() int {
	return s.next - 1
}

// Scope is the record being emitted together with its ancestors.
type Scope struct {
	Table  *Table
	Seq    int
	Row    int
	Parent *Scope
}

// rowAliases mirror a record's own sequence.
var rowAliases = map[string]bool{"ROW_NO": true, "JYUN": true}

// own returns the record's own sequence when column names it.
func (s *Scope) own(column string) (int, bool) {
	if s.Table.SeqColumn == "" {
		return 0, false
	}
	if column == s.Table.SeqColumn || rowAliases[column] {
		return s.Seq, true
	}
	return 0, false
}

// autoID resolves an AUTO_ID column: the record's own sequence, or the
// sequence of the nearest ancestor whose sequence column has that name.
func (s *Scope) autoID(column string) (int, bool) {
	if v, ok := s.own(column); ok {
		return v, true
	}
	for p := s.Parent; p != nil; p = p.Parent {
		if p.Table.SeqColumn != "" && p.Table.SeqColumn == column {
			return p.Seq, true
		}
	}
	return 0, false
}

// ref resolves a TABLE.COLUMN sequence reference against the scope chain.
func (s *Scope) ref(table, column string) (int, bool) {
	for p := s; p != nil; p = p.Parent {
		if p.Table.Name == table {
			return p.own(column)
		}
	}
	return 0, false
}

// ExtractionContext carries the state of one run. It is created once per
// workbook and passed to every scanner and resolver call.
type ExtractionContext struct {
	// SystemID is the run's fixed system id token.
	SystemID string
	// SystemDate is the run's fixed date token.
	SystemDate string
	// Logger receives progress and warnings.
	Logger *slog.Logger
	// Warnings lists every column that fell back to '' because its cell could not be read.
	Warnings []models.Warning

	screens *Sequence
	project *Scope
}

// NewExtractionContext creates the context for one run.
func NewExtractionContext(systemID, systemDate string, logger *slog.Logger) *ExtractionContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractionContext{
		SystemID:   systemID,
		SystemDate: systemDate,
		Logger:     logger,
		screens:    NewSequence(),
	}
}

// Screens returns the workbook-wide screen sequence.
func (ec *ExtractionContext) Screens() *Sequence {
	return ec.screens
}

func (ec *ExtractionContext) warn(w models.Warning) {
	ec.Warnings = append(ec.Warnings, w)
	ec.Logger.Warn("column resolved to empty literal",
		"sheet", w.Sheet,
		"table", w.Table,
		"column", w.Column,
		"row", w.Row,
		"ref", w.Ref,
		"reason", w.Reason,
	)
}
