package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/lixenwraith/gridnav/grid"
	"github.com/lixenwraith/gridnav/logger"
	"github.com/lixenwraith/gridnav/maze"
	"github.com/lixenwraith/gridnav/navigation"
)

var (
	width    = flag.Int("width", 61, "Maze width")
	height   = flag.Int("height", 31, "Maze height")
	braiding = flag.Float64("braiding", 0.3, "Braiding factor [0.0 - 1.0]")
	seed     = flag.Int64("seed", 0, "Maze seed (0 = random)")
)

// Sandbox drives a pathfinder over a generated maze. The cursor moves
// with hjkl or the arrow keys; space toggles the wall under the cursor,
// s and t drop the start and target, r regenerates the maze
type Sandbox struct {
	screen tcell.Screen
	grid   *grid.Grid
	finder *navigation.Pathfinder

	cursorX, cursorY int
	startX, startY   int
	targetX, targetY int

	found bool
	path  []int32
}

func main() {
	flag.Parse()
	logger.Init()

	if err := run(); err != nil {
		logger.Log.WithError(err).Error("sandbox failed")
		os.Exit(1)
	}
}

func run() error {
	cfg := maze.Config{
		Width:    *width,
		Height:   *height,
		Braiding: *braiding,
		Seed:     *seed,
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "maze config")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init screen")
	}
	defer screen.Fini()

	s := &Sandbox{screen: screen}
	s.regenerate(cfg)

	logger.Log.WithField("size", fmt.Sprintf("%dx%d", s.grid.Cols, s.grid.Rows)).Info("sandbox ready")

	for {
		s.search()
		s.draw()

		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if !s.handleKey(ev, &cfg) {
				return nil
			}
		}
	}
}

func (s *Sandbox) regenerate(cfg maze.Config) {
	res := maze.Generate(cfg)
	s.grid = res.Grid
	s.finder = navigation.New(res.Grid)
	s.startX, s.startY = res.Start.X, res.Start.Y
	s.targetX, s.targetY = res.End.X, res.End.Y
	s.cursorX, s.cursorY = res.Start.X, res.Start.Y
}

func (s *Sandbox) handleKey(ev *tcell.EventKey, cfg *maze.Config) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		s.moveCursor(0, -1)
	case tcell.KeyDown:
		s.moveCursor(0, 1)
	case tcell.KeyLeft:
		s.moveCursor(-1, 0)
	case tcell.KeyRight:
		s.moveCursor(1, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'h':
			s.moveCursor(-1, 0)
		case 'j':
			s.moveCursor(0, 1)
		case 'k':
			s.moveCursor(0, -1)
		case 'l':
			s.moveCursor(1, 0)
		case ' ':
			s.grid.SetWalkable(s.cursorX, s.cursorY, !s.grid.IsWalkable(s.cursorX, s.cursorY))
		case 's':
			if s.grid.IsWalkable(s.cursorX, s.cursorY) {
				s.startX, s.startY = s.cursorX, s.cursorY
			}
		case 't':
			if s.grid.IsWalkable(s.cursorX, s.cursorY) {
				s.targetX, s.targetY = s.cursorX, s.cursorY
			}
		case 'r':
			cfg.Seed = 0
			s.regenerate(*cfg)
		}
	}
	return true
}

func (s *Sandbox) moveCursor(dx, dy int) {
	nx, ny := s.cursorX+dx, s.cursorY+dy
	if s.grid.InBounds(nx, ny) {
		s.cursorX, s.cursorY = nx, ny
	}
}

func (s *Sandbox) search() {
	s.found, s.path = s.finder.FindPath(s.startX, s.startY, s.targetX, s.targetY)
}

func (s *Sandbox) draw() {
	s.screen.Clear()

	wallStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	pathStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	partialStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	markStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	cursorStyle := tcell.StyleDefault.Reverse(true)

	for y := 0; y < s.grid.Rows; y++ {
		for x := 0; x < s.grid.Cols; x++ {
			if !s.grid.IsWalkable(x, y) {
				s.screen.SetContent(x, y, '█', nil, wallStyle)
			}
		}
	}

	style := pathStyle
	if !s.found {
		style = partialStyle
	}
	for i := 0; i+1 < len(s.path); i += 2 {
		s.screen.SetContent(int(s.path[i]), int(s.path[i+1]), '•', nil, style)
	}

	s.screen.SetContent(s.startX, s.startY, 'S', nil, markStyle)
	s.screen.SetContent(s.targetX, s.targetY, 'T', nil, markStyle)

	cr, _, _, _ := s.screen.GetContent(s.cursorX, s.cursorY)
	if cr == ' ' {
		cr = '.'
	}
	s.screen.SetContent(s.cursorX, s.cursorY, cr, nil, cursorStyle)

	status := fmt.Sprintf(" hjkl/arrows move | space wall | s start | t target | r new maze | q quit | path: %s ", pathLabel(s.found, s.path))
	for i, r := range status {
		s.screen.SetContent(i, s.grid.Rows+1, r, nil, tcell.StyleDefault)
	}

	s.screen.Show()
}

func pathLabel(found bool, path []int32) string {
	if found {
		return fmt.Sprintf("%d cells", len(path)/2)
	}
	if len(path) == 0 {
		return "none"
	}
	return fmt.Sprintf("partial, %d cells", len(path)/2)
}
