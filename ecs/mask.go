package ecs

import (
	"iter"
	"math/bits"
)

const bitsPerWord = 64

// ComponentMask is a fixed-width bitset of component type slots. Entities use
// one to record what they carry, systems use one to record what they require.
type ComponentMask struct {
	words    []uint64
	capacity int
}

// NewComponentMask creates an empty mask able to hold capacity slots.
func NewComponentMask(capacity int) ComponentMask {
	return ComponentMask{
		words:    make([]uint64, (capacity+bitsPerWord-1)/bitsPerWord),
		capacity: capacity,
	}
}

// Capacity returns the number of slots the mask was built with.
func (m *ComponentMask) Capacity() int {
	return m.capacity
}

func (m *ComponentMask) locate(slot ComponentType) (int, uint64) {
	if int(slot) >= m.capacity {
		invariant("component slot %d out of mask range %d", slot, m.capacity)
	}
	return int(slot) / bitsPerWord, uint64(1) << (uint(slot) % bitsPerWord)
}

// Set turns the slot's bit on.
func (m *ComponentMask) Set(slot ComponentType) {
	w, b := m.locate(slot)
	m.words[w] |= b
}

// Clear turns the slot's bit off.
func (m *ComponentMask) Clear(slot ComponentType) {
	w, b := m.locate(slot)
	m.words[w] &^= b
}

// Has reports whether the slot's bit is on.
func (m *ComponentMask) Has(slot ComponentType) bool {
	w, b := m.locate(slot)
	return m.words[w]&b != 0
}

// Matches reports whether every bit of required is also set in m.
// Both masks must have been built with the same capacity.
func (m *ComponentMask) Matches(required *ComponentMask) bool {
	if m.capacity != required.capacity {
		invariant("component masks have different capacities: %d != %d", m.capacity, required.capacity)
	}
	for i, r := range required.words {
		if r != r&m.words[i] {
			return false
		}
	}
	return true
}

// Equal reports whether both masks carry exactly the same bits.
func (m *ComponentMask) Equal(other *ComponentMask) bool {
	if m.capacity != other.capacity {
		return false
	}
	for i, w := range m.words {
		if w != other.words[i] {
			return false
		}
	}
	return true
}

// Reset zeroes every word.
func (m *ComponentMask) Reset() {
	clear(m.words)
}

// IsEmpty reports whether no bit is set.
func (m *ComponentMask) IsEmpty() bool {
	for _, w := range m.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of bits set.
func (m *ComponentMask) Count() int {
	n := 0
	for _, w := range m.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Slots iterates over the set slots in ascending order.
func (m *ComponentMask) Slots() iter.Seq[ComponentType] {
	return func(yield func(ComponentType) bool) {
		for i, w := range m.words {
			for w != 0 {
				b := bits.TrailingZeros64(w)
				if !yield(ComponentType(i*bitsPerWord + b)) {
					return
				}
				w &= w - 1
			}
		}
	}
}
