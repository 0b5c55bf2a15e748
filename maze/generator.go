package maze

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/gridnav/grid"
)

// Point is a cell coordinate inside a generated maze
type Point struct {
	X, Y int
}

// Config controls maze generation
type Config struct {
	Width, Height int

	// Braiding: 0.0 (perfect maze, a tree) to 1.0 (no dead ends).
	// Higher values add cycles. The plaza/pillar constraints take precedence
	Braiding float64

	// RemoveBorders opens the outer boundary
	RemoveBorders bool

	Start *Point // Optional (nil = automatic)
	End   *Point // Optional (nil = automatic)
	Seed  int64  // Optional (0 = random)
}

// Validate reports configuration values Generate cannot honor
func (cfg Config) Validate() error {
	if cfg.Width < 3 || cfg.Height < 3 {
		return errors.Errorf("maze dimensions %dx%d below minimum 3x3", cfg.Width, cfg.Height)
	}
	if cfg.Braiding < 0 || cfg.Braiding > 1 {
		return errors.Errorf("braiding %v outside [0, 1]", cfg.Braiding)
	}
	return nil
}

// Result carries the generated terrain
// Grid is walkable where the maze has passages; Solution is a BFS
// shortest cardinal path from Start to End, nil when disconnected
type Result struct {
	Grid       *grid.Grid
	Start, End Point
	Solution   []Point
}

// Generate creates a stochastic maze as a walkability grid
//
// A recursive backtracker carves a spanning tree over the odd-coordinate
// lattice, then braiding opens a fraction of dead ends into cycles.
// Dimensions round down to odd so the wall lattice closes
func Generate(cfg Config) Result {
	rows := ensureOdd(cfg.Height)
	cols := ensureOdd(cfg.Width)

	g := grid.New(cols, rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			g.SetWalkable(x, y, false)
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	startDefX, startDefY := 1, 1
	endDefX, endDefY := cols-2, rows-2

	if cfg.RemoveBorders {
		// Open-border mode: start center, end on the right edge
		startDefX, startDefY = (cols/2)|1, (rows/2)|1
		endDefX, endDefY = cols-1, (rows/2)|1
	}

	start := resolvePoint(g, cfg.Start, startDefX, startDefY)
	end := resolvePoint(g, cfg.End, endDefX, endDefY)

	carve(g, start, rng)

	// Border strip happens before braiding so edge nodes already count
	// their external connections and do not force internal loops
	if cfg.RemoveBorders {
		stripBorders(g)
	}

	if cfg.Braiding > 0 {
		braid(g, cfg.Braiding, rng)
	}

	if cfg.RemoveBorders {
		g.SetWalkable(start.X, start.Y, true)
		g.SetWalkable(end.X, end.Y, true)
	} else {
		forceOpen(g, start)
		forceOpen(g, end)
	}

	return Result{
		Grid:     g,
		Start:    start,
		End:      end,
		Solution: solveBFS(g, start, end),
	}
}

// carve runs the recursive backtracker from start, opening passages on
// the odd lattice two cells at a time
func carve(g *grid.Grid, start Point, rng *rand.Rand) {
	if !g.InBounds(start.X, start.Y) {
		start = Point{1, 1}
	}

	stack := []Point{start}
	g.SetWalkable(start.X, start.Y, true)

	dirs := []Point{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		candidates := make([]Point, 0, 4)

		for _, d := range dirs {
			nx, ny := curr.X+d.X, curr.Y+d.Y
			// Leave a one-cell wall border
			if nx > 0 && nx < g.Cols-1 && ny > 0 && ny < g.Rows-1 {
				if !g.IsWalkable(nx, ny) {
					candidates = append(candidates, d)
				}
			}
		}

		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[rng.Intn(len(candidates))]
		g.SetWalkable(curr.X+d.X/2, curr.Y+d.Y/2, true)
		next := Point{curr.X + d.X, curr.Y + d.Y}
		g.SetWalkable(next.X, next.Y, true)
		stack = append(stack, next)
	}
}

// braid opens a fraction of dead ends into loops, skipping removals that
// would create a plaza (2x2 open area) or a pillar (isolated wall)
func braid(g *grid.Grid, probability float64, rng *rand.Rand) {
	checkDirs := []Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	jumpDirs := []Point{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}

	for y := 1; y < g.Rows-1; y += 2 {
		for x := 1; x < g.Cols-1; x += 2 {
			if !g.IsWalkable(x, y) {
				continue
			}

			exits := 0
			for _, d := range checkDirs {
				if g.IsWalkable(x+d.X, y+d.Y) {
					exits++
				}
			}
			if exits != 1 || rng.Float64() >= probability {
				continue
			}

			candidates := make([]Point, 0, 4)
			for _, jd := range jumpDirs {
				nx, ny := x+jd.X, y+jd.Y
				wx, wy := x+jd.X/2, y+jd.Y/2
				if !g.InBounds(nx, ny) {
					continue
				}
				if g.IsWalkable(nx, ny) && !g.IsWalkable(wx, wy) && canRemoveWall(g, wx, wy) {
					candidates = append(candidates, Point{wx, wy})
				}
			}

			if len(candidates) > 0 {
				c := candidates[rng.Intn(len(candidates))]
				g.SetWalkable(c.X, c.Y, true)
			}
		}
	}
}

// canRemoveWall checks that opening (x, y) creates neither a plaza
// (2x2 walkable block) nor a pillar (a wall with no wall neighbours)
func canRemoveWall(g *grid.Grid, x, y int) bool {
	open := func(tx, ty int) bool {
		return g.InBounds(tx, ty) && g.IsWalkable(tx, ty)
	}

	// Plaza check over the four quadrants touching (x, y)
	if open(x-1, y-1) && open(x, y-1) && open(x-1, y) {
		return false
	}
	if open(x, y-1) && open(x+1, y-1) && open(x+1, y) {
		return false
	}
	if open(x-1, y) && open(x-1, y+1) && open(x, y+1) {
		return false
	}
	if open(x+1, y) && open(x, y+1) && open(x+1, y+1) {
		return false
	}

	ortho := []Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

	// Pillar check: every adjacent wall keeps at least one wall
	// connection once (x, y) opens
	for _, d := range ortho {
		nx, ny := x+d.X, y+d.Y
		if !g.InBounds(nx, ny) || g.IsWalkable(nx, ny) {
			continue
		}
		wallConnections := 0
		for _, d2 := range ortho {
			nnx, nny := nx+d2.X, ny+d2.Y
			if nnx == x && nny == y {
				continue
			}
			if g.InBounds(nnx, nny) && !g.IsWalkable(nnx, nny) {
				wallConnections++
			}
		}
		if wallConnections == 0 {
			return false
		}
	}

	return true
}

func stripBorders(g *grid.Grid) {
	for x := 0; x < g.Cols; x++ {
		g.SetWalkable(x, 0, true)
		g.SetWalkable(x, g.Rows-1, true)
	}
	for y := 0; y < g.Rows; y++ {
		g.SetWalkable(0, y, true)
		g.SetWalkable(g.Cols-1, y, true)
	}
}

func ensureOdd(n int) int {
	if n < 3 {
		return 3
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}

func resolvePoint(g *grid.Grid, p *Point, defX, defY int) Point {
	if p == nil {
		return Point{defX, defY}
	}
	x, y := p.X, p.Y
	if x < 0 {
		x = 0
	}
	if x >= g.Cols {
		x = g.Cols - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= g.Rows {
		y = g.Rows - 1
	}
	return Point{x, y}
}

// forceOpen makes p walkable and, if isolated, opens one interior neighbour
func forceOpen(g *grid.Grid, p Point) {
	if !g.InBounds(p.X, p.Y) {
		return
	}
	g.SetWalkable(p.X, p.Y, true)

	dirs := []Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	for _, d := range dirs {
		nx, ny := p.X+d.X, p.Y+d.Y
		if g.InBounds(nx, ny) && g.IsWalkable(nx, ny) {
			return
		}
	}

	for _, d := range dirs {
		nx, ny := p.X+d.X, p.Y+d.Y
		if nx > 0 && nx < g.Cols-1 && ny > 0 && ny < g.Rows-1 {
			g.SetWalkable(nx, ny, true)
			return
		}
	}
}

// solveBFS finds the shortest cardinal path between start and end,
// nil when no path exists
func solveBFS(g *grid.Grid, start, end Point) []Point {
	if !g.InBounds(start.X, start.Y) || !g.InBounds(end.X, end.Y) {
		return nil
	}
	if !g.IsWalkable(start.X, start.Y) || !g.IsWalkable(end.X, end.Y) {
		return nil
	}

	queue := []Point{start}
	cameFrom := make(map[Point]Point)
	visited := map[Point]bool{start: true}
	dirs := []Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		if curr == end {
			path := []Point{}
			for curr != start {
				path = append([]Point{curr}, path...)
				curr = cameFrom[curr]
			}
			return append([]Point{start}, path...)
		}

		for _, d := range dirs {
			next := Point{curr.X + d.X, curr.Y + d.Y}
			if g.InBounds(next.X, next.Y) && g.IsWalkable(next.X, next.Y) && !visited[next] {
				visited[next] = true
				cameFrom[next] = curr
				queue = append(queue, next)
			}
		}
	}
	return nil
}
