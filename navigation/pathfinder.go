package navigation

import (
	"github.com/lixenwraith/gridnav/grid"
	"github.com/lixenwraith/gridnav/heap"
)

// Weighted step costs: cardinal = 10, diagonal = 14 (≈10√2)
const (
	costCardinal int32 = 10
	costDiagonal int32 = 14
)

// openSetCapacity sizes the open set before first growth
const openSetCapacity = 64

// Pathfinder runs A* searches over a borrowed walkability grid
//
// Scratch state (open set, membership bitmaps, cell arena) is reused
// between searches, so a single instance must not run two searches
// concurrently. The grid may be shared between pathfinders as long as
// nobody mutates walkability mid-search
type Pathfinder struct {
	grid     *grid.Grid
	open     *heap.IndexedMinHeap
	inOpen   []bool
	inClosed []bool
	cells    []*CellInfo
	epoch    uint64
}

// New creates a pathfinder bound to the given grid
func New(g *grid.Grid) *Pathfinder {
	size := g.Cols * g.Rows
	return &Pathfinder{
		grid:     g,
		open:     heap.NewIndexedMinHeap(openSetCapacity),
		inOpen:   make([]bool, size),
		inClosed: make([]bool, size),
		cells:    make([]*CellInfo, size),
	}
}

// FindPath searches from (sx, sy) to (tx, ty)
//
// Returns (true, path) when the target is reached, where path is the
// flat sequence [x0, y0, ..., xk, yk] from start to target inclusive.
// When the target is unreachable it returns (false, path) to the
// reached cell with the lowest heuristic cost; the slice is empty when
// not even one neighbour of the start was walkable. Identical start and
// target or out-of-range coordinates return (false, nil)
func (p *Pathfinder) FindPath(sx, sy, tx, ty int) (bool, []int32) {
	if sx == tx && sy == ty {
		return false, nil
	}
	if !p.grid.InBounds(sx, sy) || !p.grid.InBounds(tx, ty) {
		return false, nil
	}

	p.beginSearch()

	var closest *CellInfo

	start := p.cellAt(sx, sy, tx, ty)
	p.expand(start, tx, ty, &closest)

	for {
		node, ok := p.open.Pop()
		if !ok {
			break
		}
		current := node.(*CellInfo)
		if current.X == tx && current.Y == ty {
			return true, reconstruct(current)
		}
		p.expand(current, tx, ty, &closest)
	}

	if closest == nil {
		return false, []int32{}
	}
	return false, reconstruct(closest)
}

// beginSearch advances the arena epoch and zeroes the membership bitmaps
func (p *Pathfinder) beginSearch() {
	p.epoch++
	p.open.Clear()
	for i := range p.inOpen {
		p.inOpen[i] = false
		p.inClosed[i] = false
	}
}

// cellAt returns the arena record for (x, y), initializing it for the
// current search when it was created by an earlier one
func (p *Pathfinder) cellAt(x, y, tx, ty int) *CellInfo {
	id := p.grid.Index(x, y)
	c := p.cells[id]
	if c == nil {
		c = &CellInfo{CellID: id, X: x, Y: y}
		p.cells[id] = c
	}
	if c.epoch != p.epoch {
		c.epoch = p.epoch
		c.G = 0
		c.H = heuristic(x, y, tx, ty)
		c.OrderNumber = 0
		c.Parent = nil
	}
	return c
}

// expand visits the walkable neighbours of current and then retires it
// to the closed set
//
// Diagonal neighbours are admitted only when both adjoining cardinal
// cells are in-range and walkable, so paths never cut corners
func (p *Pathfinder) expand(current *CellInfo, tx, ty int, closest **CellInfo) {
	x, y := current.X, current.Y

	top := p.grid.InBounds(x, y-1) && p.grid.IsWalkable(x, y-1)
	bottom := p.grid.InBounds(x, y+1) && p.grid.IsWalkable(x, y+1)
	left := p.grid.InBounds(x-1, y) && p.grid.IsWalkable(x-1, y)
	right := p.grid.InBounds(x+1, y) && p.grid.IsWalkable(x+1, y)

	if top {
		p.visit(current, x, y-1, false, tx, ty, closest)
	}
	if bottom {
		p.visit(current, x, y+1, false, tx, ty, closest)
	}
	if left {
		p.visit(current, x-1, y, false, tx, ty, closest)
	}
	if right {
		p.visit(current, x+1, y, false, tx, ty, closest)
	}

	if top && left && p.grid.IsWalkable(x-1, y-1) {
		p.visit(current, x-1, y-1, true, tx, ty, closest)
	}
	if top && right && p.grid.IsWalkable(x+1, y-1) {
		p.visit(current, x+1, y-1, true, tx, ty, closest)
	}
	if bottom && left && p.grid.IsWalkable(x-1, y+1) {
		p.visit(current, x-1, y+1, true, tx, ty, closest)
	}
	if bottom && right && p.grid.IsWalkable(x+1, y+1) {
		p.visit(current, x+1, y+1, true, tx, ty, closest)
	}

	id := current.CellID
	p.inClosed[id] = true
	p.inOpen[id] = false
}

// visit relaxes one neighbour of current
func (p *Pathfinder) visit(current *CellInfo, nx, ny int, diagonal bool, tx, ty int, closest **CellInfo) {
	id := p.grid.Index(nx, ny)
	if p.inClosed[id] {
		return
	}

	step := costCardinal
	if diagonal {
		step = costDiagonal
	}

	if p.inOpen[id] {
		cell := p.cells[id]
		tentative := current.G + step
		if tentative < cell.G {
			cell.G = tentative
			cell.Parent = current
			cell.OrderNumber = current.OrderNumber + 1
			p.open.Update(cell.heapIndex)
		}
		return
	}

	cell := p.cellAt(nx, ny, tx, ty)
	cell.Parent = current
	cell.OrderNumber = current.OrderNumber + 1
	cell.G = current.G + step
	if *closest == nil || cell.H < (*closest).H {
		*closest = cell
	}
	p.inOpen[id] = true
	p.open.Insert(cell)
}

// heuristic is the Diagonal Shortcut estimate: diagonal steps cover
// min(dx, dy), cardinal steps cover the remainder
func heuristic(x, y, tx, ty int) int32 {
	dx := x - tx
	if dx < 0 {
		dx = -dx
	}
	dy := y - ty
	if dy < 0 {
		dy = -dy
	}
	if dx < dy {
		return costDiagonal*int32(dx) + costCardinal*int32(dy-dx)
	}
	return costDiagonal*int32(dy) + costCardinal*int32(dx-dy)
}

// reconstruct walks the parent chain back to the start and emits the
// flat [x0, y0, ..., xk, yk] sequence in start-to-end order
func reconstruct(end *CellInfo) []int32 {
	points := end.OrderNumber + 1
	path := make([]int32, 2*points)
	c := end
	for i := points - 1; i >= 0; i-- {
		path[2*i] = int32(c.X)
		path[2*i+1] = int32(c.Y)
		c = c.Parent
	}
	return path
}
