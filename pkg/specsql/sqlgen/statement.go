package sqlgen

import "strings"

// Column is one rendered column of an INSERT.
type Column struct {
	Name  string
	Value string
}

// Insert renders one INSERT statement. Columns appear in the given order.
func Insert(table string, cols []Column) string {
	names := make([]string, len(cols))
	values := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
		values[i] = c.Value
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(strings.Join(values, ", "))
	b.WriteString(");")
	return b.String()
}
