package model

// Row maps a column name to the raw cell value for one table row. Values are
// always raw strings; numeric interpretation happens at presentation time.
type Row map[string]string

// Table is an ingested spreadsheet: an ordered header plus row maps.
// A (re)fetch fully replaces the previous table for a card, there is no
// incremental merge.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Clone creates a deep copy of the table
func (t Table) Clone() Table {
	clone := Table{}
	if t.Columns != nil {
		clone.Columns = make([]string, len(t.Columns))
		copy(clone.Columns, t.Columns)
	}
	if t.Rows != nil {
		clone.Rows = make([]Row, len(t.Rows))
		for i, r := range t.Rows {
			nr := make(Row, len(r))
			for k, v := range r {
				nr[k] = v
			}
			clone.Rows[i] = nr
		}
	}
	return clone
}

// Empty returns true when the table has no rows
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}
