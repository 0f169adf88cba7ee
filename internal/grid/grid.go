// Package grid provides the tabular container shared by the matching engine
// and the comparison framework. Logical rows are (subject, trial) recordings
// carrying a stimulus attribute; logical columns are raters, detectors, or
// column-pairs thereof. Row and column order is the order of first
// insertion, and every iteration helper walks that order, so identical
// inputs always produce identically ordered output.
package grid

// RowKey identifies one recording: a (subject, trial) pair. Pooled grids
// reuse the Subject field for the group name.
type RowKey struct {
	Subject string
	Trial   string
}

// Row is a grid row: its key plus the stimulus shown during the recording.
type Row struct {
	Key      RowKey
	Stimulus string
}

// GroupRow returns the row used for a pooled group, named after the group.
func GroupRow(name string) Row {
	return Row{Key: RowKey{Subject: name}, Stimulus: name}
}

// Grid is a table of cells addressed by (row key, column key). The column
// key type is generic so derived grids can use typed column-pairs instead of
// encoded strings. Cells without a value are distinct from zero-valued
// cells.
type Grid[C comparable, T any] struct {
	rows  []Row
	rowIx map[RowKey]int
	cols  []C
	colIx map[C]int
	cells map[cellRef[C]]T
}

type cellRef[C comparable] struct {
	row RowKey
	col C
}

// New returns an empty grid. Rows and columns are registered on first use.
func New[C comparable, T any]() *Grid[C, T] {
	return &Grid[C, T]{
		rowIx: make(map[RowKey]int),
		colIx: make(map[C]int),
		cells: make(map[cellRef[C]]T),
	}
}

// AddRow registers a row without setting any cells. Adding an existing row
// is a no-op.
func (g *Grid[C, T]) AddRow(r Row) {
	if _, ok := g.rowIx[r.Key]; ok {
		return
	}
	g.rowIx[r.Key] = len(g.rows)
	g.rows = append(g.rows, r)
}

// AddColumn registers a column without setting any cells. Adding an existing
// column is a no-op.
func (g *Grid[C, T]) AddColumn(c C) {
	if _, ok := g.colIx[c]; ok {
		return
	}
	g.colIx[c] = len(g.cols)
	g.cols = append(g.cols, c)
}

// Set stores a cell value, registering the row and column if new.
func (g *Grid[C, T]) Set(r Row, col C, v T) {
	g.AddRow(r)
	g.AddColumn(col)
	g.cells[cellRef[C]{row: r.Key, col: col}] = v
}

// Get returns the cell value and whether it is present.
func (g *Grid[C, T]) Get(key RowKey, col C) (T, bool) {
	v, ok := g.cells[cellRef[C]{row: key, col: col}]
	return v, ok
}

// Rows returns the rows in insertion order. The slice is shared; callers
// must not mutate it.
func (g *Grid[C, T]) Rows() []Row { return g.rows }

// Columns returns the column keys in insertion order. The slice is shared;
// callers must not mutate it.
func (g *Grid[C, T]) Columns() []C { return g.cols }

// NumRows returns the number of registered rows.
func (g *Grid[C, T]) NumRows() int { return len(g.rows) }

// NumColumns returns the number of registered columns.
func (g *Grid[C, T]) NumColumns() int { return len(g.cols) }

// Pair is an ordered pair of source columns. For symmetric computations the
// first member doubles as the ground-truth side.
type Pair struct {
	A string
	B string
}

// String renders the pair for output column headers.
func (p Pair) String() string { return p.A + " vs " + p.B }

// Pairs enumerates column pairs of a string-columned grid. Symmetric mode
// yields each unordered pair once, in column order; asymmetric mode yields
// every ordered pair with distinct members.
func Pairs[T any](g *Grid[string, T], symmetric bool) []Pair {
	cols := g.Columns()
	var pairs []Pair
	if symmetric {
		for i := 0; i < len(cols); i++ {
			for j := i + 1; j < len(cols); j++ {
				pairs = append(pairs, Pair{A: cols[i], B: cols[j]})
			}
		}
		return pairs
	}
	for i := 0; i < len(cols); i++ {
		for j := 0; j < len(cols); j++ {
			if i == j {
				continue
			}
			pairs = append(pairs, Pair{A: cols[i], B: cols[j]})
		}
	}
	return pairs
}
