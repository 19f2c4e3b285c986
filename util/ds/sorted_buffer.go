package ds

import (
	"iter"

	"github.com/google/btree"
)

const bufferDegree = 32

// SortedBuffer keeps pushed items ordered by a compare function. Items that
// compare equal stay in the order they were pushed. The buffer reports itself
// full once it reaches either a count or a byte limit.
type SortedBuffer[T any] struct {
	tree         *btree.BTreeG[sequenced[T]]
	seq          uint64
	byteSize     uint64
	maxLen       int
	maxSizeBytes uint64
	sizeOf       func(T) int
}

type sequenced[T any] struct {
	item T
	seq  uint64
}

// NewSortedBuffer creates a buffer holding up to maxLen items. When
// maxSizeBytes is non-zero the buffer is also full once the sizes reported by
// sizeOf add up to maxSizeBytes.
func NewSortedBuffer[T any](compare CompareFn[T], maxLen int, maxSizeBytes uint64, sizeOf func(T) int) *SortedBuffer[T] {
	if maxLen < 1 {
		panic("SortedBuffer maxLen must be at least 1")
	}
	return &SortedBuffer[T]{
		tree: btree.NewG(bufferDegree, func(a, b sequenced[T]) bool {
			if c := compare(a.item, b.item); c != 0 {
				return c < 0
			}
			return a.seq < b.seq
		}),
		maxLen:       maxLen,
		maxSizeBytes: maxSizeBytes,
		sizeOf:       sizeOf,
	}
}

func (s *SortedBuffer[T]) Push(item T) {
	if s.sizeOf != nil {
		s.byteSize += uint64(s.sizeOf(item))
	}
	s.tree.ReplaceOrInsert(sequenced[T]{item: item, seq: s.seq})
	s.seq++
}

// All iterates the items in ascending order.
func (s *SortedBuffer[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		s.tree.Ascend(func(si sequenced[T]) bool {
			return yield(si.item)
		})
	}
}

// Clear empties the buffer, keeping its tree nodes for reuse.
func (s *SortedBuffer[T]) Clear() {
	s.tree.Clear(true)
	s.seq = 0
	s.byteSize = 0
}

func (s *SortedBuffer[T]) Len() int {
	return s.tree.Len()
}

func (s *SortedBuffer[T]) ByteSize() uint64 {
	return s.byteSize
}

func (s *SortedBuffer[T]) IsEmpty() bool {
	return s.tree.Len() == 0
}

func (s *SortedBuffer[T]) IsFull() bool {
	if s.tree.Len() >= s.maxLen {
		return true
	}
	return s.maxSizeBytes > 0 && s.byteSize >= s.maxSizeBytes
}
