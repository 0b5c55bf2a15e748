package grid

// Grid is a dense walkability bitmap for a rectangular map
// Cells are stored in a 1D array: index = x + y*Cols
type Grid struct {
	Cols  int
	Rows  int
	cells []bool
}

// New creates a grid with every cell walkable
func New(cols, rows int) *Grid {
	g := &Grid{
		Cols:  cols,
		Rows:  rows,
		cells: make([]bool, cols*rows),
	}
	for i := range g.cells {
		g.cells[i] = true
	}
	return g
}

// Index returns the flat cell index for (x, y)
func (g *Grid) Index(x, y int) int {
	return x + y*g.Cols
}

// InBounds returns true if (x, y) lies inside the grid
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Cols && y >= 0 && y < g.Rows
}

// SetWalkable marks a single cell walkable or blocked
// Coordinates are not bounds-checked; callers validate first
func (g *Grid) SetWalkable(x, y int, walkable bool) {
	g.cells[x+y*g.Cols] = walkable
}

// IsWalkable reports whether a cell is walkable
// Coordinates are not bounds-checked; callers validate first
func (g *Grid) IsWalkable(x, y int) bool {
	return g.cells[x+y*g.Cols]
}

// Import replaces walkability from a flat row-major pattern where
// values > 0 mean walkable. A nil or wrong-length pattern leaves the
// grid untouched
func (g *Grid) Import(pattern []int32) {
	if len(pattern) != len(g.cells) {
		return
	}
	for i, v := range pattern {
		g.cells[i] = v > 0
	}
}
