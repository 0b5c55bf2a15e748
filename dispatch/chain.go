package dispatch

import (
	"github.com/lixenwraith/gridnav/cache"
)

// Mode selects how a Chain walks its handlers
type Mode int

const (
	// First runs the first handler able to process and stops
	First Mode = iota
	// FirstNoOrder behaves like First but consults an LRU cache of
	// recently matched handlers before the ordered scan
	FirstNoOrder
	// All runs every handler able to process
	All
	// StopIfFail runs handlers in order until one cannot process
	StopIfFail
)

// Handler processes dispatched requests
// Arguments flow through untouched from Dispatch to both methods
type Handler interface {
	CanProcess(args ...any) bool
	Process(args ...any)
}

// handlerCacheCapacity bounds the FirstNoOrder fast path
const handlerCacheCapacity = 5

// Chain dispatches to an ordered list of handlers
//
// Dispatch semantics per mode:
//   - First:        true iff some handler ran
//   - FirstNoOrder: true iff some handler ran (cache hit or chain scan)
//   - All:          true iff at least one handler ran
//   - StopIfFail:   true iff the scan completed without a failing handler
//
// An empty chain always dispatches to false
type Chain struct {
	mode     Mode
	handlers []Handler
	recent   *cache.LRU[Handler]
}

// NewChain creates a dispatcher in the given mode
func NewChain(mode Mode) *Chain {
	c := &Chain{mode: mode}
	if mode == FirstNoOrder {
		c.recent = cache.NewLRU[Handler](handlerCacheCapacity)
	}
	return c
}

// Mode returns the chain's dispatch mode
func (c *Chain) Mode() Mode {
	return c.mode
}

// Len returns the number of registered handlers
func (c *Chain) Len() int {
	return len(c.handlers)
}

// Add appends a handler to the chain
func (c *Chain) Add(h Handler) {
	c.handlers = append(c.handlers, h)
}

// Clear removes all handlers and empties the fast-path cache
func (c *Chain) Clear() {
	c.handlers = c.handlers[:0]
	if c.recent != nil {
		c.recent.Clear()
	}
}

// Dispatch walks the chain according to the mode
func (c *Chain) Dispatch(args ...any) bool {
	if len(c.handlers) == 0 {
		return false
	}

	switch c.mode {
	case First:
		return c.dispatchFirst(args)

	case FirstNoOrder:
		if c.recent.Find(func(h Handler) bool {
			if h.CanProcess(args...) {
				h.Process(args...)
				return true
			}
			return false
		}) {
			return true
		}
		for _, h := range c.handlers {
			if h.CanProcess(args...) {
				h.Process(args...)
				c.recent.Add(h)
				return true
			}
		}
		return false

	case All:
		processed := false
		for _, h := range c.handlers {
			if h.CanProcess(args...) {
				h.Process(args...)
				processed = true
			}
		}
		return processed

	case StopIfFail:
		for _, h := range c.handlers {
			if !h.CanProcess(args...) {
				return false
			}
			h.Process(args...)
		}
		return true
	}
	return false
}

func (c *Chain) dispatchFirst(args []any) bool {
	for _, h := range c.handlers {
		if h.CanProcess(args...) {
			h.Process(args...)
			return true
		}
	}
	return false
}
