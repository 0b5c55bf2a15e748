package main

import (
	"flag"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/gridnav/logger"
	"github.com/lixenwraith/gridnav/maze"
	"github.com/lixenwraith/gridnav/navigation"
	"github.com/lixenwraith/gridnav/pool"
)

var (
	workers  = flag.Int("workers", runtime.NumCPU(), "Concurrent search workers")
	searches = flag.Int("searches", 10000, "Searches per worker")
	width    = flag.Int("width", 201, "Maze width")
	height   = flag.Int("height", 201, "Maze height")
	braiding = flag.Float64("braiding", 0.5, "Braiding factor [0.0 - 1.0]")
	seed     = flag.Int64("seed", 1, "Maze seed")
)

// Each worker borrows a pathfinder from the process pool registry and
// runs its share of searches over one shared read-only grid
func main() {
	flag.Parse()
	logger.Init()

	if err := run(); err != nil {
		logger.Log.WithError(err).Error("benchmark failed")
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

	res := maze.Generate(cfg)
	g := res.Grid

	finders := pool.GetWithFactory(pool.Default(), *workers, func() *navigation.Pathfinder {
		return navigation.New(g)
	})
	finders.Prewarm(*workers)

	logger.Log.WithFields(logrus.Fields{
		"grid":     g.Cols * g.Rows,
		"workers":  *workers,
		"searches": *searches,
	}).Info("benchmark starting")

	var walkable []maze.Point
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			if g.IsWalkable(x, y) {
				walkable = append(walkable, maze.Point{X: x, Y: y})
			}
		}
	}
	if len(walkable) < 2 {
		return errors.New("generated maze has no walkable cells")
	}

	start := time.Now()
	var eg errgroup.Group

	// The pool has no locking, so every worker's pathfinder is acquired
	// here on the calling goroutine and released after all workers finish
	borrowed := make([]*navigation.Pathfinder, 0, *workers)
	for w := 0; w < *workers; w++ {
		w := w
		finder := finders.Acquire()
		borrowed = append(borrowed, finder)
		eg.Go(func() error {
			rng := rand.New(rand.NewSource(*seed + int64(w)))
			found := 0
			for i := 0; i < *searches; i++ {
				from := walkable[rng.Intn(len(walkable))]
				to := walkable[rng.Intn(len(walkable))]
				if from == to {
					continue
				}
				if ok, _ := finder.FindPath(from.X, from.Y, to.X, to.Y); ok {
					found++
				}
			}
			logger.Log.WithFields(logrus.Fields{
				"worker": w,
				"found":  found,
			}).Debug("worker done")
			return nil
		})
	}

	err := eg.Wait()
	for _, finder := range borrowed {
		finders.Release(finder)
	}
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	total := *workers * *searches
	logger.Log.WithFields(logrus.Fields{
		"total":       total,
		"elapsed":     elapsed.Round(time.Millisecond).String(),
		"searches/s":  int(float64(total) / elapsed.Seconds()),
		"pool_size":   finders.Size(),
		"pool_unused": finders.Available(),
	}).Info("benchmark complete")

	pool.Default().DisposeAll()
	return nil
}
