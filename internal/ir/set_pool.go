package ir

import "github.com/bits-and-blooms/bitset"

// PooledEntitySet is a compact, copy-cheap token referencing a bitset of
// handles stored out of line in a SetPool. It stands in for libeir_ir's
// util::pooled_entity_set::PooledEntitySet, backing the block
// predecessor/successor caches (spec.md §3, §4.1).
//
// The zero value is the empty set; slot 0 is reserved the same way
// EntityList reserves it, so an unallocated token never aliases pool
// storage.
type PooledEntitySet[H handle] struct {
	slot int32
}

// SetPool is the shared backing store for PooledEntitySets, implemented
// on top of github.com/bits-and-blooms/bitset since the standard library
// has no compact bitset type.
type SetPool[H handle] struct {
	data []*bitset.BitSet
	free []int32
}

// Insert adds h to *s, allocating backing storage on first use.
func (p *SetPool[H]) Insert(s *PooledEntitySet[H], h H) {
	if s.slot == 0 {
		s.slot = p.alloc()
	}
	p.data[s.slot-1].Set(uint(h))
}

// Remove drops h from *s, if present.
func (p *SetPool[H]) Remove(s PooledEntitySet[H], h H) {
	if s.slot == 0 {
		return
	}
	p.data[s.slot-1].Clear(uint(h))
}

// Contains reports whether h is a member of s.
func (p *SetPool[H]) Contains(s PooledEntitySet[H], h H) bool {
	if s.slot == 0 {
		return false
	}
	return p.data[s.slot-1].Test(uint(h))
}

// Items returns the set's members in ascending order. The result is a
// fresh slice safe to retain.
func (p *SetPool[H]) Items(s PooledEntitySet[H]) []H {
	if s.slot == 0 {
		return nil
	}
	bs := p.data[s.slot-1]
	items := make([]H, 0, bs.Count())
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		items = append(items, H(i))
	}
	return items
}

// Clear empties *s and returns its backing slot to the free list.
func (p *SetPool[H]) Clear(s *PooledEntitySet[H]) {
	if s.slot == 0 {
		return
	}
	p.data[s.slot-1].ClearAll()
	p.free = append(p.free, s.slot)
	s.slot = 0
}

func (p *SetPool[H]) alloc() int32 {
	if n := len(p.free); n > 0 {
		slot := p.free[n-1]
		p.free = p.free[:n-1]
		return slot
	}
	p.data = append(p.data, bitset.New(64))
	return int32(len(p.data))
}
