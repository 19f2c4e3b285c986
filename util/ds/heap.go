// Package ds holds the ordered containers used by the sorter.
//
// Heap started from https://github.com/zyedidia/generic/blob/master/heap/heap.go at 98022f9
package ds

// CompareFn is a function that returns:
//   - negative value if a < b
//   - zero if a == b
//   - positive value if a > b
type CompareFn[T any] func(a, b T) int

// Heap is a binary min-heap ordered by a CompareFn. Elements that compare
// equal come out in no particular order, so callers needing a deterministic
// order must break ties in the compare function.
type Heap[T any] struct {
	data    []T
	compare CompareFn[T]
}

// NewHeap returns an empty heap with room for cap elements.
func NewHeap[T any](compare CompareFn[T], cap int) *Heap[T] {
	return &Heap[T]{
		data:    make([]T, 0, cap),
		compare: compare,
	}
}

// Push adds an element to the heap.
func (h *Heap[T]) Push(x T) {
	h.data = append(h.data, x)
	h.up(len(h.data) - 1)
}

// Pop removes and returns the minimum element. Returns false if the heap is
// empty.
func (h *Heap[T]) Pop() (T, bool) {
	var x T
	if h.IsEmpty() {
		return x, false
	}

	x = h.data[0]
	n := len(h.data) - 1
	h.data[0] = h.data[n]

	// Drop the reference held by the vacated slot.
	var zero T
	h.data[n] = zero
	h.data = h.data[:n]

	if n > 0 {
		h.down(0)
	}
	return x, true
}

// Size returns the number of elements in the heap.
func (h *Heap[T]) Size() int {
	return len(h.data)
}

func (h *Heap[T]) IsEmpty() bool {
	return len(h.data) == 0
}

func (h *Heap[T]) down(i int) {
	for {
		left, right := 2*i+1, 2*i+2
		if left >= len(h.data) || left < 0 { // `left < 0` in case of overflow
			return
		}

		// find the smallest child
		j := left
		if right < len(h.data) && h.compare(h.data[right], h.data[left]) < 0 {
			j = right
		}

		if h.compare(h.data[j], h.data[i]) >= 0 {
			return
		}

		h.data[i], h.data[j] = h.data[j], h.data[i]
		i = j
	}
}

func (h *Heap[T]) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.compare(h.data[i], h.data[parent]) >= 0 {
			return
		}
		h.data[i], h.data[parent] = h.data[parent], h.data[i]
		i = parent
	}
}
