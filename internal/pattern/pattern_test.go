package pattern

import "testing"

func TestWildcardDedupsWithinClause(t *testing.T) {
	p := NewPool()
	c := p.ClauseStart()

	w1 := p.NewWildcard(c)
	w2 := p.NewWildcard(c)
	if w1 != w2 {
		t.Fatalf("expected two wildcard nodes in the same clause to dedup to one")
	}

	c2 := p.ClauseStart()
	w3 := p.NewWildcard(c2)
	if w3 != w1 {
		// Dedup keys are per-clause (clauseData.dedup), so the node index
		// coincides by construction (both are the first node of an empty
		// clause) even though they belong to different clauses.
		t.Fatalf("expected the first wildcard of a fresh clause to reuse index 0, got %d", w3)
	}
}

func TestBindNodesAreNeverDeduped(t *testing.T) {
	p := NewPool()
	c := p.ClauseStart()

	inner := p.NewWildcard(c)
	b1 := p.NewBind(c, inner)
	b2 := p.NewBind(c, inner)
	if b1 == b2 {
		t.Fatalf("expected two syntactic bind occurrences to produce distinct nodes")
	}
	if p.BindCount(c) != 2 {
		t.Fatalf("expected 2 binds recorded, got %d", p.BindCount(c))
	}
}

func TestLiteralDedupsBySlot(t *testing.T) {
	p := NewPool()
	c := p.ClauseStart()

	slot := p.ClauseValue(c)
	l1 := p.NewLiteral(c, slot)
	l2 := p.NewLiteral(c, slot)
	if l1 != l2 {
		t.Fatalf("expected two literal nodes over the same slot to dedup")
	}
}

func TestTupleDedupsByEntryIdentity(t *testing.T) {
	p := NewPool()
	c := p.ClauseStart()

	w := p.NewWildcard(c)
	slot := p.ClauseValue(c)
	lit := p.NewLiteral(c, slot)

	t1 := p.NewTuple(c, []Node{w, lit})
	t2 := p.NewTuple(c, []Node{w, lit})
	if t1 != t2 {
		t.Fatalf("expected structurally identical tuples to dedup")
	}

	t3 := p.NewTuple(c, []Node{lit, w})
	if t3 == t1 {
		t.Fatalf("expected a reordered tuple to be a distinct node")
	}
}

func TestFinishFreezesClause(t *testing.T) {
	p := NewPool()
	c := p.ClauseStart()
	p.Finish(c)

	if !p.IsFrozen(c) {
		t.Fatalf("expected clause to report frozen after Finish")
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected ClauseValue on a frozen clause to panic")
		}
	}()
	p.ClauseValue(c)
}

func TestNewBinaryDedupsBySegmentMetadata(t *testing.T) {
	p := NewPool()
	c := p.ClauseStart()
	w := p.NewWildcard(c)

	seg := Segment{ValueNode: w, Unit: 8, Kind: SegInteger, Signed: false}
	n1 := p.NewBinary(c, seg)
	n2 := p.NewBinary(c, seg)
	if n1 != n2 {
		t.Fatalf("expected identical segment metadata to dedup")
	}

	seg.Signed = true
	n3 := p.NewBinary(c, seg)
	if n3 == n1 {
		t.Fatalf("expected differing signedness to produce a distinct node")
	}
}
