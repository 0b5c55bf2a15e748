package heap

// Node is a heap payload. The heap reads the ordering key through Value
// on every comparison, so callers that mutate the key in place only need
// to call Update with the node's current slot. SetHeapIndex is invoked
// whenever the node moves so the payload always knows its own slot
type Node interface {
	Value() int32
	SetHeapIndex(i int)
}

// MinCapacity is the smallest backing array the heap will allocate
const MinCapacity = 10

// IndexedMinHeap is a binary min-heap whose payloads track their own
// position, enabling O(log n) in-place key updates
type IndexedMinHeap struct {
	nodes []Node
	count int
}

// NewIndexedMinHeap creates a heap with at least MinCapacity slots
func NewIndexedMinHeap(capacity int) *IndexedMinHeap {
	if capacity < MinCapacity {
		capacity = MinCapacity
	}
	return &IndexedMinHeap{
		nodes: make([]Node, capacity),
	}
}

// Count returns the number of occupied slots
func (h *IndexedMinHeap) Count() int {
	return h.count
}

// Capacity returns the current backing array size
func (h *IndexedMinHeap) Capacity() int {
	return len(h.nodes)
}

// Insert appends the node at the end and sifts it up
// The backing array doubles when full
func (h *IndexedMinHeap) Insert(n Node) {
	if h.count == len(h.nodes) {
		h.grow(len(h.nodes) * 2)
	}
	h.nodes[h.count] = n
	n.SetHeapIndex(h.count)
	h.count++
	h.siftUp(h.count - 1)
}

// Peek returns the minimum node without removing it
func (h *IndexedMinHeap) Peek() (Node, bool) {
	if h.count == 0 {
		return nil, false
	}
	return h.nodes[0], true
}

// Pop removes and returns the minimum node
func (h *IndexedMinHeap) Pop() (Node, bool) {
	if h.count == 0 {
		return nil, false
	}
	top := h.nodes[0]
	h.count--
	if h.count > 0 {
		h.nodes[0] = h.nodes[h.count]
		h.nodes[0].SetHeapIndex(0)
	}
	h.nodes[h.count] = nil
	if h.count > 1 {
		h.siftDown(0)
	}
	return top, true
}

// Update restores the heap property after the node at heapIndex changed
// its key in place. Indices outside [0, count) are ignored
func (h *IndexedMinHeap) Update(heapIndex int) {
	if heapIndex < 0 || heapIndex >= h.count {
		return
	}
	key := h.nodes[heapIndex].Value()
	if heapIndex > 0 && key < h.nodes[(heapIndex-1)/2].Value() {
		h.siftUp(heapIndex)
		return
	}
	h.siftDown(heapIndex)
}

// Resize changes the backing array size, clamped to MinCapacity
// Shrinking below count discards the tail; only safe when the caller
// knows the tail slots are unused
func (h *IndexedMinHeap) Resize(newCapacity int) {
	if newCapacity < MinCapacity {
		newCapacity = MinCapacity
	}
	if newCapacity == len(h.nodes) {
		return
	}
	resized := make([]Node, newCapacity)
	copy(resized, h.nodes)
	h.nodes = resized
	if h.count > newCapacity {
		h.count = newCapacity
	}
}

// Clear drops all payload references and empties the heap
func (h *IndexedMinHeap) Clear() {
	for i := 0; i < h.count; i++ {
		h.nodes[i] = nil
	}
	h.count = 0
}

func (h *IndexedMinHeap) grow(newCapacity int) {
	resized := make([]Node, newCapacity)
	copy(resized, h.nodes)
	h.nodes = resized
}

func (h *IndexedMinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.nodes[parent].Value() <= h.nodes[i].Value() {
			break
		}
		h.swap(parent, i)
		i = parent
	}
}

func (h *IndexedMinHeap) siftDown(i int) {
	for {
		left := 2*i + 1
		if left >= h.count {
			break
		}
		smallest := left
		if right := left + 1; right < h.count && h.nodes[right].Value() < h.nodes[left].Value() {
			smallest = right
		}
		if h.nodes[i].Value() <= h.nodes[smallest].Value() {
			break
		}
		h.swap(i, smallest)
		i = smallest
	}
}

func (h *IndexedMinHeap) swap(a, b int) {
	h.nodes[a], h.nodes[b] = h.nodes[b], h.nodes[a]
	h.nodes[a].SetHeapIndex(a)
	h.nodes[b].SetHeapIndex(b)
}
