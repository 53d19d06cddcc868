package ir

// EntityList is an opaque, copy-cheap token referencing a variable-length
// sequence of handles stored out of line in a ListPool. It stands in for
// cranelift_entity::EntityList, used throughout libeir_ir/src/fun/mangle.rs
// for block arguments and reads (`value_buf`, `data.reads.push(read, ...)`).
//
// The zero value is the empty list and needs no pool to read from: slot 0
// is reserved so the unallocated state and pool index 0 don't collide.
type EntityList[T any] struct {
	slot int32
}

// ListPool is the shared out-of-line backing store for EntityLists. Each
// list owns one growable slice in the pool; clearing a list returns its
// slot to a free list so later lists can reuse the backing array instead
// of growing the pool without bound — the same amortization ListPool
// buys in the original Rust source, expressed with a freelist of slices
// instead of a size-class chunk allocator, since Go slices already give
// cheap independent growth per list.
type ListPool[T any] struct {
	data []([]T)
	free []int32
}

// Slice returns the list's current contents. The returned slice aliases
// pool storage and must not be retained past the next mutation of l.
func (p *ListPool[T]) Slice(l EntityList[T]) []T {
	if l.slot == 0 {
		return nil
	}
	return p.data[l.slot-1]
}

// Len returns the number of elements in l.
func (p *ListPool[T]) Len(l EntityList[T]) int {
	return len(p.Slice(l))
}

// Push appends v to *l, allocating backing storage on first use.
func (p *ListPool[T]) Push(l *EntityList[T], v T) {
	if l.slot == 0 {
		l.slot = p.alloc()
	}
	p.data[l.slot-1] = append(p.data[l.slot-1], v)
}

// Set replaces the full contents of *l with vs.
func (p *ListPool[T]) Set(l *EntityList[T], vs []T) {
	if l.slot == 0 {
		if len(vs) == 0 {
			return
		}
		l.slot = p.alloc()
	}
	p.data[l.slot-1] = append(p.data[l.slot-1][:0], vs...)
}

// Clear empties *l and returns its backing slot to the free list.
func (p *ListPool[T]) Clear(l *EntityList[T]) {
	if l.slot == 0 {
		return
	}
	p.data[l.slot-1] = p.data[l.slot-1][:0]
	p.free = append(p.free, l.slot)
	l.slot = 0
}

func (p *ListPool[T]) alloc() int32 {
	if n := len(p.free); n > 0 {
		slot := p.free[n-1]
		p.free = p.free[:n-1]
		return slot
	}
	p.data = append(p.data, nil)
	return int32(len(p.data))
}
