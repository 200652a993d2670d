package graph

// Row accumulates the record currently being assembled. Columns are sparse:
// a column that was never set is written as an empty field.
type Row[C ~int] struct {
	cells map[C]string
}

// NewRow returns an empty row.
func NewRow[C ~int]() *Row[C] {
	return &Row[C]{cells: make(map[C]string)}
}

// Set stores text in col, replacing any earlier value.
func (r *Row[C]) Set(col C, text string) {
	r.cells[col] = text
}

// SetIfEmpty stores text in col only if col has not been set yet.
func (r *Row[C]) SetIfEmpty(col C, text string) {
	if _, ok := r.cells[col]; !ok {
		r.cells[col] = text
	}
}

// Get returns the value of col and whether it was set.
func (r *Row[C]) Get(col C) (string, bool) {
	v, ok := r.cells[col]
	return v, ok
}

// Len returns the number of columns set.
func (r *Row[C]) Len() int {
	return len(r.cells)
}

// Empty reports whether no column is set.
func (r *Row[C]) Empty() bool {
	return len(r.cells) == 0
}

// Clear drops every column.
func (r *Row[C]) Clear() {
	clear(r.cells)
}

// Fields returns the values of the closed column range [first, last].
func (r *Row[C]) Fields(first, last C) []string {
	out := make([]string, 0, int(last-first)+1)
	for c := first; c <= last; c++ {
		out = append(out, r.cells[c])
	}
	return out
}

// Commit writes the columns [first, last] as one record to w and clears the
// row. Committing an empty row writes nothing.
func (r *Row[C]) Commit(w RecordWriter, first, last C) error {
	if r.Empty() {
		return nil
	}
	fields := r.Fields(first, last)
	r.Clear()
	return w.Write(fields)
}

// RecordWriter receives committed records.
type RecordWriter interface {
	Write(fields []string) error
}
