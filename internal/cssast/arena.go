package cssast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena stores values contiguously and hands out 1-based handles, so the
// zero handle can mean "no value".
type Arena[T any] struct {
	items []T
}

func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{items: make([]T, 0, capHint)}
}

// Allocate appends v and returns its handle.
func (a *Arena[T]) Allocate(v T) uint32 {
	a.items = append(a.items, v)
	h, err := safecast.Conv[uint32](len(a.items))
	if err != nil {
		panic(fmt.Errorf("cssast: too many nodes: %w", err))
	}
	return h
}

// Get returns nil for 0 and for handles past the end.
func (a *Arena[T]) Get(h uint32) *T {
	if h == 0 || uint64(h) > uint64(len(a.items)) {
		return nil
	}
	return &a.items[h-1]
}

// Slice exposes the backing storage; callers only read it.
func (a *Arena[T]) Slice() []T { return a.items }

func (a *Arena[T]) Len() uint32 { return uint32(len(a.items)) }
