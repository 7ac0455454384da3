package ecs

import (
	"cmp"
	"fmt"
	"math"
)

// Entity encodes a 32-bit index in the lower bits and a 32-bit generation
// in the upper bits. The generation is bumped every time an index is recycled,
// so a stale copy never compares equal to the new occupant.
type Entity uint64

// NewEntity creates an Entity from an index and a generation
func NewEntity(index uint32, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

// Index extracts the slot index
func (e Entity) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation extracts the recycle counter
func (e Entity) Generation() uint32 {
	return uint32(e >> 32)
}

// Compare orders entities by generation, then by index.
func (e Entity) Compare(other Entity) int {
	if c := cmp.Compare(e.Generation(), other.Generation()); c != 0 {
		return c
	}
	return cmp.Compare(e.Index(), other.Index())
}

func (e Entity) String() string {
	return fmt.Sprintf("%d:%d", e.Index(), e.Generation())
}

// EntityAllocator issues entity identifiers and recycles destroyed ones.
// It does not track masks or storage; the World does that.
type EntityAllocator struct {
	recycled  []Entity
	nextIndex uint32
	maxIndex  uint32
	live      int
}

// NewEntityAllocator creates an allocator that can hand out up to maxEntities indices.
func NewEntityAllocator(maxEntities int) *EntityAllocator {
	return &EntityAllocator{
		recycled: make([]Entity, 0, 64),
		maxIndex: uint32(maxEntities),
	}
}

// Create pops a recycled entity with its generation bumped, or mints a new index.
func (a *EntityAllocator) Create() Entity {
	if n := len(a.recycled); n > 0 {
		old := a.recycled[n-1]
		a.recycled = a.recycled[:n-1]
		a.live++
		return NewEntity(old.Index(), old.Generation()+1)
	}

	if a.nextIndex >= a.maxIndex {
		invariant("entity index space exhausted (max %d)", a.maxIndex)
	}

	e := NewEntity(a.nextIndex, 0)
	a.nextIndex++
	a.live++
	return e
}

// Destroy returns the entity's index to the recycle stack. An index whose
// generation is exhausted is retired instead of wrapping back to a stale id.
func (a *EntityAllocator) Destroy(e Entity) {
	a.live--
	if e.Generation() == math.MaxUint32 {
		return
	}
	a.recycled = append(a.recycled, e)
}

// Len returns the number of entities currently handed out.
func (a *EntityAllocator) Len() int {
	return a.live
}
