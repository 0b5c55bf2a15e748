package pool

import "testing"

type widget struct {
	id    int
	hot   bool
	reset int
}

// trackingCreator records lifecycle transitions for assertions
type trackingCreator struct {
	created  int
	acquired int
	returned int
	disposed int
}

func (c *trackingCreator) OnCreate() *widget {
	c.created++
	return &widget{id: c.created}
}

func (c *trackingCreator) OnAcquire(w *widget) {
	c.acquired++
	w.hot = true
}

func (c *trackingCreator) OnReturn(w *widget) {
	c.returned++
	w.hot = false
	w.reset++
}

func (c *trackingCreator) OnDispose(w *widget) {
	c.disposed++
}

func TestCapacityClamp(t *testing.T) {
	p := NewPool[*widget](1)
	if p.Size() != MinCapacity {
		t.Errorf("Expected capacity clamped to %d, got %d", MinCapacity, p.Size())
	}
}

func TestCapacityDefault(t *testing.T) {
	p := NewPool[*widget](0)
	if p.Size() != DefaultCapacity {
		t.Errorf("Expected default capacity %d, got %d", DefaultCapacity, p.Size())
	}
}

func TestAcquireEmptyUsesFactory(t *testing.T) {
	created := 0
	p := NewPoolWithFactory(4, func() *widget {
		created++
		return &widget{id: created}
	})

	w := p.Acquire()
	if w == nil || created != 1 {
		t.Fatalf("Expected factory-built instance, created = %d", created)
	}
	if !p.IsEmpty() {
		t.Error("Expected pool still empty after factory acquire")
	}
}

func TestAcquireEmptyWithoutFactoryYieldsZero(t *testing.T) {
	p := NewPool[*widget](4)
	if w := p.Acquire(); w != nil {
		t.Errorf("Expected zero value from bare pool, got %v", w)
	}
}

func TestReleaseAcquireRoundtrip(t *testing.T) {
	p := NewPool[*widget](4)
	w := &widget{id: 7}
	p.Release(w)

	if p.Available() != 1 {
		t.Fatalf("Expected 1 available, got %d", p.Available())
	}
	got := p.Acquire()
	if got != w {
		t.Error("Expected the released instance back")
	}
	if !p.IsEmpty() {
		t.Error("Expected pool empty after draining")
	}
}

func TestGrowthDoubles(t *testing.T) {
	p := NewPool[*widget](4)
	for i := 0; i < 5; i++ {
		p.Release(&widget{id: i})
	}
	if p.Size() != 8 {
		t.Errorf("Expected size 8 after overflow, got %d", p.Size())
	}
	if p.Available() != 5 {
		t.Errorf("Expected 5 available, got %d", p.Available())
	}
}

func TestReleaseSixIntoFour(t *testing.T) {
	p := NewPoolWithFactory(4, func() *widget { return &widget{} })
	for i := 0; i < 6; i++ {
		p.Release(&widget{id: i})
	}
	if p.Size() != 8 {
		t.Errorf("Expected size 8, got %d", p.Size())
	}
	if p.Available() != 6 {
		t.Errorf("Expected 6 available, got %d", p.Available())
	}
}

func TestCreatorLifecycle(t *testing.T) {
	c := &trackingCreator{}
	p := NewPoolWithCreator[*widget](4, c, false)

	// Fresh instance: OnCreate only, never OnAcquire
	w := p.Acquire()
	if c.created != 1 || c.acquired != 0 {
		t.Fatalf("Fresh acquire: created = %d, acquired = %d", c.created, c.acquired)
	}

	p.Release(w)
	if c.returned != 1 || w.hot {
		t.Fatalf("Release: returned = %d, hot = %v", c.returned, w.hot)
	}

	// Pooled instance passes through OnAcquire
	w2 := p.Acquire()
	if w2 != w || c.acquired != 1 || !w2.hot {
		t.Fatalf("Pooled acquire: acquired = %d, hot = %v", c.acquired, w2.hot)
	}
}

func TestPrewarm(t *testing.T) {
	c := &trackingCreator{}
	p := NewPoolWithCreator[*widget](4, c, true)

	if !p.IsFull() {
		t.Fatalf("Expected prewarmed pool full, available = %d", p.Available())
	}
	if c.created != 4 || c.returned != 4 {
		t.Errorf("Expected 4 creations and 4 returns, got %d / %d", c.created, c.returned)
	}
}

func TestPrewarmAboveCapacityGrows(t *testing.T) {
	c := &trackingCreator{}
	p := NewPoolWithCreator[*widget](4, c, false)
	p.Prewarm(10)

	if p.Size() != 10 {
		t.Errorf("Expected capacity grown to 10, got %d", p.Size())
	}
	if p.Available() != 10 {
		t.Errorf("Expected 10 available, got %d", p.Available())
	}
}

func TestSetFactoryClearsCreator(t *testing.T) {
	c := &trackingCreator{}
	p := NewPoolWithCreator[*widget](4, c, false)
	p.SetFactory(func() *widget { return &widget{id: -1} })

	w := p.Acquire()
	if w.id != -1 {
		t.Errorf("Expected factory instance, got id %d", w.id)
	}
	p.Release(w)
	if c.returned != 0 {
		t.Error("Expected creator hooks cleared by SetFactory")
	}
}

func TestClearDisposesAndEmpties(t *testing.T) {
	c := &trackingCreator{}
	p := NewPoolWithCreator[*widget](4, c, true)

	p.Clear(false)
	if c.disposed != 4 {
		t.Errorf("Expected 4 disposals, got %d", c.disposed)
	}
	if !p.IsEmpty() || p.Size() != 4 {
		t.Errorf("Expected empty pool at capacity 4, available = %d, size = %d", p.Available(), p.Size())
	}
}

func TestClearShrinkRestoresInitialCapacity(t *testing.T) {
	p := NewPool[*widget](4)
	for i := 0; i < 9; i++ {
		p.Release(&widget{id: i})
	}
	if p.Size() != 16 {
		t.Fatalf("Expected size 16 after two doublings, got %d", p.Size())
	}

	p.Clear(true)
	if p.Size() != 4 {
		t.Errorf("Expected shrink back to 4, got %d", p.Size())
	}
}

func TestDisposeOnce(t *testing.T) {
	c := &trackingCreator{}
	p := NewPoolWithCreator[*widget](4, c, true)

	removed := 0
	p.tag = "widget"
	p.onRemove = func(tag string) {
		if tag != "widget" {
			t.Errorf("Expected tag widget, got %q", tag)
		}
		removed++
	}

	p.Dispose()
	p.Dispose()

	if removed != 1 {
		t.Errorf("Expected remove event once, got %d", removed)
	}
	if c.disposed != 4 {
		t.Errorf("Expected 4 disposals, got %d", c.disposed)
	}
	if !p.Disposed() {
		t.Error("Expected pool marked disposed")
	}
}
