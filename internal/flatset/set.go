// Package flatset provides an open-addressing hash set with values.
//
// Entries are never removed individually; the set is only ever cleared as a
// whole, so probing needs no tombstones. Insert returns a [Handle] rather
// than a pointer: a pointer into the table is invalidated by growth, a
// handle detects it. Value panics on a stale handle instead of silently
// reading a slot that now belongs to another key.
package flatset

import "fmt"

// Handle refers to an entry of a Set. It stays valid until the set grows
// or is cleared.
type Handle struct {
	index int32
	epoch uint32
}

type slot[K comparable, V any] struct {
	key   K
	value V
	used  bool
}

// Set is an open-addressing hash table with linear probing and a
// power-of-two capacity. It grows when half full, multiplying its capacity
// by 1<<growShift.
type Set[K comparable, V any] struct {
	slots     []slot[K, V]
	count     int
	mask      uint64
	growShift uint
	hash      func(K) uint64
	epoch     uint32
}

// New creates a set with at least the given capacity. growShift of 1 doubles
// the table on growth, 2 quadruples it.
func New[K comparable, V any](hash func(K) uint64, capacity int, growShift uint) *Set[K, V] {
	c := 8
	for c < capacity {
		c <<= 1
	}
	return &Set[K, V]{
		slots:     make([]slot[K, V], c),
		mask:      uint64(c - 1),
		growShift: max(growShift, 1),
		hash:      hash,
	}
}

// Len returns the number of entries.
func (s *Set[K, V]) Len() int { return s.count }

// Cap returns the number of slots.
func (s *Set[K, V]) Cap() int { return len(s.slots) }

// find returns the slot holding key, or the empty slot where it belongs.
func (s *Set[K, V]) find(key K) (int, bool) {
	i := s.hash(key) & s.mask
	for {
		sl := &s.slots[i]
		if !sl.used {
			return int(i), false
		}
		if sl.key == key {
			return int(i), true
		}
		i = (i + 1) & s.mask
	}
}

// Lookup returns a handle for key if present.
func (s *Set[K, V]) Lookup(key K) (Handle, bool) {
	i, ok := s.find(key)
	if !ok {
		return Handle{}, false
	}
	return Handle{index: int32(i), epoch: s.epoch}, true
}

// Get returns a copy of the value stored for key.
func (s *Set[K, V]) Get(key K) (V, bool) {
	i, ok := s.find(key)
	if !ok {
		var zero V
		return zero, false
	}
	return s.slots[i].value, true
}

// Insert returns the entry for key, creating it with value if absent.
// inserted reports whether a new entry was created. Handles obtained before
// an insert that grows the set become stale.
func (s *Set[K, V]) Insert(key K, value V) (h Handle, inserted bool) {
	i, ok := s.find(key)
	if ok {
		return Handle{index: int32(i), epoch: s.epoch}, false
	}
	if (s.count+1)*2 > len(s.slots) {
		s.grow()
		i, _ = s.find(key)
	}
	s.slots[i] = slot[K, V]{key: key, value: value, used: true}
	s.count++
	return Handle{index: int32(i), epoch: s.epoch}, true
}

// Value returns a pointer to the entry's value. The pointer must not be held
// across an Insert. Value panics if h is stale.
func (s *Set[K, V]) Value(h Handle) *V {
	if !s.valid(h) {
		panic(fmt.Sprintf("flatset: stale handle %d (epoch %d, set epoch %d)", h.index, h.epoch, s.epoch))
	}
	return &s.slots[h.index].value
}

// valid reports whether h still refers to a live entry.
func (s *Set[K, V]) valid(h Handle) bool {
	return h.epoch == s.epoch && int(h.index) < len(s.slots) && s.slots[h.index].used
}

// Clear removes every entry and keeps the capacity.
func (s *Set[K, V]) Clear() {
	clear(s.slots)
	s.count = 0
	s.epoch++
}

func (s *Set[K, V]) grow() {
	old := s.slots
	s.slots = make([]slot[K, V], len(old)<<s.growShift)
	s.mask = uint64(len(s.slots) - 1)
	s.epoch++
	for i := range old {
		if !old[i].used {
			continue
		}
		j, _ := s.find(old[i].key)
		s.slots[j] = old[i]
	}
}
