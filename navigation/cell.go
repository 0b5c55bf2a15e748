package navigation

// CellInfo is the per-cell bookkeeping record for a search
// Records live in the pathfinder's arena and are reused across searches;
// an epoch stamp marks which search last initialized them
type CellInfo struct {
	CellID      int
	X, Y        int
	G           int32 // Accumulated cost from the start
	H           int32 // Heuristic estimate to the target
	OrderNumber int   // Edges from the start along the best parent chain
	Parent      *CellInfo

	heapIndex int
	epoch     uint64
}

// Value returns the A* priority F = G + H
// Read live by the open set on every comparison
func (c *CellInfo) Value() int32 {
	return c.G + c.H
}

// SetHeapIndex records the cell's current slot in the open set
func (c *CellInfo) SetHeapIndex(i int) {
	c.heapIndex = i
}
