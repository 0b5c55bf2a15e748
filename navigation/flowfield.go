package navigation

import (
	"github.com/lixenwraith/gridnav/grid"
	"github.com/lixenwraith/gridnav/heap"
)

// Direction constants, index into DirVectors: N=0, NE=1, E=2, SE=3,
// S=4, SW=5, W=6, NW=7
const (
	DirNone   int8 = -1 // Blocked or unreachable
	DirTarget int8 = -2 // At target cell
	DirN      int8 = 0
	DirNE     int8 = 1
	DirE      int8 = 2
	DirSE     int8 = 3
	DirS      int8 = 4
	DirSW     int8 = 5
	DirW      int8 = 6
	DirNW     int8 = 7
	DirCount  int8 = 8
)

// Direction vectors matching DirN..DirNW
var DirVectors = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

const unreachable int32 = 1<<30 - 1

// Per-direction costs matching DirVectors index order
var dirCosts = [8]int32{
	costCardinal, costDiagonal, costCardinal, costDiagonal,
	costCardinal, costDiagonal, costCardinal, costDiagonal,
}

// flowNode is the per-cell open-set record for the Dijkstra pass
type flowNode struct {
	id        int
	dist      int32
	heapIndex int
}

func (n *flowNode) Value() int32 { return n.dist }

func (n *flowNode) SetHeapIndex(i int) { n.heapIndex = i }

// FlowField stores precomputed navigation directions toward a target
// over a borrowed walkability grid. One compute serves any number of
// agents steering toward the same target
type FlowField struct {
	grid       *grid.Grid
	Directions []int8  // Per-cell direction index, DirNone when blocked
	Distances  []int32 // Weighted distance from target

	TargetX, TargetY int  // Target this field was computed for
	Valid            bool // False when the field needs recomputation

	open  *heap.IndexedMinHeap
	nodes []*flowNode
}

// NewFlowField creates an empty flow field bound to the given grid
func NewFlowField(g *grid.Grid) *FlowField {
	size := g.Cols * g.Rows
	return &FlowField{
		grid:       g,
		Directions: make([]int8, size),
		Distances:  make([]int32, size),
		TargetX:    -1,
		TargetY:    -1,
		open:       heap.NewIndexedMinHeap(size / 4),
		nodes:      make([]*flowNode, size),
	}
}

// Invalidate marks the field for recomputation
func (f *FlowField) Invalidate() {
	f.Valid = false
}

// Direction returns the flow direction at a cell, DirNone when the
// field is invalid or the cell blocked or out of range
func (f *FlowField) Direction(x, y int) int8 {
	if !f.Valid || !f.grid.InBounds(x, y) {
		return DirNone
	}
	return f.Directions[f.grid.Index(x, y)]
}

// Distance returns the weighted distance from the target, -1 when
// unreachable
func (f *FlowField) Distance(x, y int) int32 {
	if !f.Valid || !f.grid.InBounds(x, y) {
		return -1
	}
	d := f.Distances[f.grid.Index(x, y)]
	if d >= unreachable {
		return -1
	}
	return d
}

// Compute runs weighted Dijkstra from the target, then derives per-cell
// flow directions by steepest descent on the distance surface
//
// Diagonal edges are skipped when either adjoining cardinal cell is
// blocked, matching the pathfinder's no-corner-cutting rule
func (f *FlowField) Compute(targetX, targetY int) {
	if !f.grid.InBounds(targetX, targetY) {
		f.Valid = false
		return
	}

	g := f.grid
	size := g.Cols * g.Rows

	for i := 0; i < size; i++ {
		f.Directions[i] = DirNone
		f.Distances[i] = unreachable
	}

	targetID := g.Index(targetX, targetY)
	f.Distances[targetID] = 0

	f.open.Clear()
	f.open.Insert(f.nodeAt(targetID, 0))

	for {
		popped, ok := f.open.Pop()
		if !ok {
			break
		}
		entry := popped.(*flowNode)
		entry.heapIndex = -1

		cx := entry.id % g.Cols
		cy := entry.id / g.Cols

		for dir := int8(0); dir < DirCount; dir++ {
			nx := cx + DirVectors[dir][0]
			ny := cy + DirVectors[dir][1]

			if !g.InBounds(nx, ny) || !g.IsWalkable(nx, ny) {
				continue
			}
			if DirVectors[dir][0] != 0 && DirVectors[dir][1] != 0 {
				if !f.open4(cx+DirVectors[dir][0], cy) || !f.open4(cx, cy+DirVectors[dir][1]) {
					continue
				}
			}

			nID := ny*g.Cols + nx
			newDist := entry.dist + dirCosts[dir]
			if newDist >= f.Distances[nID] {
				continue
			}
			f.Distances[nID] = newDist

			n := f.nodes[nID]
			if n != nil && n.heapIndex >= 0 {
				n.dist = newDist
				f.open.Update(n.heapIndex)
			} else {
				f.open.Insert(f.nodeAt(nID, newDist))
			}
		}
	}

	// Steepest-descent pass: point every reachable cell at its cheapest
	// neighbour
	f.Directions[targetID] = DirTarget

	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			id := y*g.Cols + x
			dist := f.Distances[id]
			if dist >= unreachable || dist == 0 {
				continue
			}

			bestDir := DirNone
			bestDist := dist

			for dir := int8(0); dir < DirCount; dir++ {
				nx := x + DirVectors[dir][0]
				ny := y + DirVectors[dir][1]
				if !g.InBounds(nx, ny) {
					continue
				}
				nDist := f.Distances[ny*g.Cols+nx]
				if nDist >= bestDist {
					continue
				}
				if DirVectors[dir][0] != 0 && DirVectors[dir][1] != 0 {
					if !f.open4(x+DirVectors[dir][0], y) || !f.open4(x, y+DirVectors[dir][1]) {
						continue
					}
				}
				bestDist = nDist
				bestDir = dir
			}

			f.Directions[id] = bestDir
		}
	}

	f.TargetX = targetX
	f.TargetY = targetY
	f.Valid = true
}

// Patch repairs directions for cells that became walkable after the
// last Compute, without a full recompute
func (f *FlowField) Patch() {
	if !f.Valid {
		return
	}
	g := f.grid

	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			id := y*g.Cols + x
			if f.Directions[id] != DirNone || !g.IsWalkable(x, y) {
				continue
			}

			bestDir := DirNone
			bestDist := unreachable

			for dir := int8(0); dir < DirCount; dir++ {
				nx := x + DirVectors[dir][0]
				ny := y + DirVectors[dir][1]
				if !g.InBounds(nx, ny) {
					continue
				}
				nDist := f.Distances[ny*g.Cols+nx]
				if nDist >= unreachable {
					continue
				}
				if DirVectors[dir][0] != 0 && DirVectors[dir][1] != 0 {
					if !f.open4(x+DirVectors[dir][0], y) || !f.open4(x, y+DirVectors[dir][1]) {
						continue
					}
				}
				if cost := nDist + dirCosts[dir]; cost < bestDist {
					bestDist = cost
					bestDir = dir
				}
			}

			if bestDir != DirNone {
				f.Directions[id] = bestDir
				f.Distances[id] = bestDist
			}
		}
	}
}

// open4 reports whether a cardinal cell is in range and walkable
func (f *FlowField) open4(x, y int) bool {
	return f.grid.InBounds(x, y) && f.grid.IsWalkable(x, y)
}

// nodeAt returns the arena record for a cell primed with dist
func (f *FlowField) nodeAt(id int, dist int32) *flowNode {
	n := f.nodes[id]
	if n == nil {
		n = &flowNode{id: id}
		f.nodes[id] = n
	}
	n.dist = dist
	n.heapIndex = -1
	return n
}
