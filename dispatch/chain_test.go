package dispatch

import "testing"

// stubHandler accepts when its tag matches the first dispatch argument
type stubHandler struct {
	tag      string
	canCalls int
	ran      int
	lastArgs []any
}

func (h *stubHandler) CanProcess(args ...any) bool {
	h.canCalls++
	return len(args) > 0 && args[0] == h.tag
}

func (h *stubHandler) Process(args ...any) {
	h.ran++
	h.lastArgs = args
}

func TestEmptyChainReturnsFalse(t *testing.T) {
	for _, mode := range []Mode{First, FirstNoOrder, All, StopIfFail} {
		c := NewChain(mode)
		if c.Dispatch("x") {
			t.Errorf("Mode %d: expected empty chain to dispatch false", mode)
		}
	}
}

func TestFirstStopsAtFirstMatch(t *testing.T) {
	a := &stubHandler{tag: "x"}
	b := &stubHandler{tag: "x"}
	miss := &stubHandler{tag: "y"}

	c := NewChain(First)
	c.Add(miss)
	c.Add(a)
	c.Add(b)

	if !c.Dispatch("x") {
		t.Fatal("Expected dispatch true")
	}
	if a.ran != 1 || b.ran != 0 {
		t.Errorf("Expected only the first match to run: a = %d, b = %d", a.ran, b.ran)
	}
	if miss.canCalls != 1 {
		t.Errorf("Expected the miss to be probed once, got %d", miss.canCalls)
	}
}

func TestFirstNoMatch(t *testing.T) {
	c := NewChain(First)
	c.Add(&stubHandler{tag: "y"})
	if c.Dispatch("x") {
		t.Error("Expected dispatch false with no capable handler")
	}
}

func TestAllRunsEveryMatch(t *testing.T) {
	a := &stubHandler{tag: "x"}
	b := &stubHandler{tag: "y"}
	d := &stubHandler{tag: "x"}

	c := NewChain(All)
	c.Add(a)
	c.Add(b)
	c.Add(d)

	if !c.Dispatch("x") {
		t.Fatal("Expected dispatch true")
	}
	if a.ran != 1 || d.ran != 1 {
		t.Errorf("Expected both matches to run: a = %d, d = %d", a.ran, d.ran)
	}
	if b.ran != 0 {
		t.Errorf("Expected the miss to be skipped, ran = %d", b.ran)
	}
}

func TestAllNoMatch(t *testing.T) {
	c := NewChain(All)
	c.Add(&stubHandler{tag: "y"})
	c.Add(&stubHandler{tag: "z"})
	if c.Dispatch("x") {
		t.Error("Expected dispatch false when nothing ran")
	}
}

func TestStopIfFail(t *testing.T) {
	a := &stubHandler{tag: "x"}
	fail := &stubHandler{tag: "y"}
	after := &stubHandler{tag: "x"}

	c := NewChain(StopIfFail)
	c.Add(a)
	c.Add(fail)
	c.Add(after)

	if c.Dispatch("x") {
		t.Error("Expected dispatch false when a handler cannot process")
	}
	if a.ran != 1 {
		t.Errorf("Expected the handler before the failure to run, ran = %d", a.ran)
	}
	if after.ran != 0 || after.canCalls != 0 {
		t.Error("Expected the scan to terminate at the failure")
	}
}

func TestStopIfFailCompletes(t *testing.T) {
	a := &stubHandler{tag: "x"}
	b := &stubHandler{tag: "x"}

	c := NewChain(StopIfFail)
	c.Add(a)
	c.Add(b)

	if !c.Dispatch("x") {
		t.Error("Expected dispatch true when every handler processes")
	}
	if a.ran != 1 || b.ran != 1 {
		t.Errorf("Expected both to run: a = %d, b = %d", a.ran, b.ran)
	}
}

func TestFirstNoOrderCachesHandler(t *testing.T) {
	early := &stubHandler{tag: "y"}
	match := &stubHandler{tag: "x"}

	c := NewChain(FirstNoOrder)
	c.Add(early)
	c.Add(match)

	// Miss in the cache, hit in the chain scan
	if !c.Dispatch("x") {
		t.Fatal("Expected dispatch true")
	}
	if early.canCalls != 1 {
		t.Fatalf("Expected one probe of the earlier handler, got %d", early.canCalls)
	}

	// Second dispatch hits the cache and skips the chain entirely
	if !c.Dispatch("x") {
		t.Fatal("Expected cached dispatch true")
	}
	if early.canCalls != 1 {
		t.Errorf("Expected the cache to bypass the chain, probes = %d", early.canCalls)
	}
	if match.ran != 2 {
		t.Errorf("Expected the cached handler to run twice, ran = %d", match.ran)
	}
}

func TestFirstNoOrderFallsBackOnCacheMiss(t *testing.T) {
	x := &stubHandler{tag: "x"}
	y := &stubHandler{tag: "y"}

	c := NewChain(FirstNoOrder)
	c.Add(x)
	c.Add(y)

	c.Dispatch("x") // caches x
	if !c.Dispatch("y") {
		t.Fatal("Expected fallback scan to find y")
	}
	if y.ran != 1 {
		t.Errorf("Expected y to run once, ran = %d", y.ran)
	}
	// Both are cached now; no further chain probes needed
	xProbes := x.canCalls
	c.Dispatch("y")
	if x.canCalls > xProbes+1 {
		t.Errorf("Expected at most one cache probe of x, got %d extra", x.canCalls-xProbes)
	}
	if y.ran != 2 {
		t.Errorf("Expected cached y to run again, ran = %d", y.ran)
	}
}

func TestArgsFlowThrough(t *testing.T) {
	h := &stubHandler{tag: "x"}
	c := NewChain(First)
	c.Add(h)

	c.Dispatch("x", 42, "payload")

	if len(h.lastArgs) != 3 || h.lastArgs[1] != 42 || h.lastArgs[2] != "payload" {
		t.Errorf("Expected args untouched and in order, got %v", h.lastArgs)
	}
}

func TestClear(t *testing.T) {
	h := &stubHandler{tag: "x"}
	c := NewChain(FirstNoOrder)
	c.Add(h)
	c.Dispatch("x")

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Expected empty chain, len = %d", c.Len())
	}
	if c.Dispatch("x") {
		t.Error("Expected cleared chain to dispatch false")
	}
}
