package extract

// Action is the role of a row inside an open section.
type Action int

const (
	// ActionSkip is a noise row or a repeat of the section's own marker.
	ActionSkip Action = iota
	// ActionHeader is a label-span row carrying a reserved header label.
	ActionHeader
	// ActionRecord anchors a new main-table record.
	ActionRecord
	// ActionLogic anchors a logic child row.
	ActionLogic
	// ActionStop closes the section.
	ActionStop
)

func (a Action) String() string {
	switch a {
	case ActionSkip:
		return "skip"
	case ActionHeader:
		return "header"
	case ActionRecord:
		return "record"
	case ActionLogic:
		return "logic"
	case ActionStop:
		return "stop"
	}
	return "unknown"
}

// Classify decides the role of row within an open section of kind sec.
// Rows matching no rule are skipped.
func (c *Catalog) Classify(sec *Section, g Grid, row int) Action {
	if row > g.MaxRow() {
		return ActionStop
	}
	label := g.Text(sec.MarkerCol, row)
	if label == sec.Marker {
		return ActionSkip
	}
	if c.Reserved[label] {
		return ActionStop
	}
	if label != "" && g.IsMergedAcrossColumns(row, sec.Anchor.Start, sec.Anchor.End) {
		if sec.isSkipLabel(label) {
			return ActionHeader
		}
		return ActionRecord
	}
	if sec.Logic != nil && g.IsMergedAcrossColumns(row, sec.Logic.Span.Start, sec.Logic.Span.End) {
		return ActionLogic
	}
	return ActionSkip
}
