package retro

import (
	"math"
	"math/bits"
)

// Label is the integer type used to tag OrderedList nodes. Wider label
// types raise MaxSize and reduce how often relabelling runs; OrderedList
// defaults to uint64 and accepts any unsigned type via NewOrderedListOf.
type Label interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// omsUpper is a node in the upper level: just a label, no payload.
type omsUpper[L Label] struct {
	label      L
	prev, next *omsUpper[L]
}

// omsLower is a node in the lower level: a label that only orders it
// relative to siblings sharing the same upper node, plus the payload.
type omsLower[T any, L Label] struct {
	upper      *omsUpper[L]
	label      L
	value      T
	prev, next *omsLower[T, L]
}

// OrderedList is the order-maintenance structure: a totally ordered,
// doubly linked sequence of tokens supporting O(1) order comparison
// between any two tokens and amortised O(1) insertion at an arbitrary
// position. See Bender, Cole, Demaine, Farach-Colton & Zito (2002).
type OrderedList[T any, L Label] struct {
	upperHead, upperTail       *omsUpper[L]
	lowerHead, root, lowerTail *omsLower[T, L]

	upperLen int
	size     int

	m, logm, mstart, mstep L
}

// Iterator refers to a position in an OrderedList. It doubles as the
// opaque time-point handle that PartialQueue and FullMap hand back from
// their retroactive operations: bidirectional traversal, equality, and a
// total order all come from the three node fields compared below.
type Iterator[T any, L Label] struct {
	node *omsLower[T, L]
}

// Value returns the element stored at this position.
func (it Iterator[T, L]) Value() T { return it.node.value }

// Next returns the position immediately after this one.
func (it Iterator[T, L]) Next() Iterator[T, L] { return Iterator[T, L]{it.node.next} }

// Prev returns the position immediately before this one.
func (it Iterator[T, L]) Prev() Iterator[T, L] { return Iterator[T, L]{it.node.prev} }

// Equal reports whether it and other refer to the same position.
func (it Iterator[T, L]) Equal(other Iterator[T, L]) bool { return it.node == other.node }

// Less reports whether it comes before other in the list's total order.
// This is the O(1) comparison the whole structure exists to provide: two
// tokens from the same sublist compare by their own label, otherwise by
// their upper nodes' labels.
func (it Iterator[T, L]) Less(other Iterator[T, L]) bool {
	if it.node.upper == other.node.upper {
		return it.node.label < other.node.label
	}
	return it.node.upper.label < other.node.upper.label
}

// Greater reports whether it comes after other in the list's total order.
func (it Iterator[T, L]) Greater(other Iterator[T, L]) bool {
	return !it.Equal(other) && !it.Less(other)
}

// omsParams derives the density-bound constants for a given label width:
// M = MaxLabel/2, LOGM = floor(log2(M)), MSTART = M/2, MSTEP = MSTART/LOGM.
func omsParams[L Label]() (m, logm, mstart, mstep L) {
	maxVal := ^L(0)
	m = maxVal / 2
	logm = L(bits.Len64(uint64(m))) - 1
	if logm < 1 {
		logm = 1
	}
	mstart = m / 2
	mstep = mstart / logm
	if mstep < 1 {
		mstep = 1
	}
	return
}

// NewOrderedList creates an empty OrderedList using uint64 labels, the
// right default for almost every caller.
func NewOrderedList[T any]() *OrderedList[T, uint64] {
	return NewOrderedListOf[T, uint64]()
}

// NewOrderedListOf creates an empty OrderedList with an explicit label
// type. Smaller label types reach MaxSize (and relabel) sooner; this is
// mainly useful for exercising the relabelling paths in tests.
func NewOrderedListOf[T any, L Label]() *OrderedList[T, L] {
	l := &OrderedList[T, L]{}
	l.m, l.logm, l.mstart, l.mstep = omsParams[L]()

	l.upperHead = &omsUpper[L]{label: 0}
	l.upperTail = &omsUpper[L]{label: l.m - 1}
	l.upperHead.next = l.upperTail
	l.upperTail.prev = l.upperHead
	l.upperLen = 2

	mid := l.insertUpper(l.upperHead)

	l.lowerHead = &omsLower[T, L]{upper: l.upperHead, label: 0}
	l.root = &omsLower[T, L]{upper: mid, label: l.mstart}
	l.lowerTail = &omsLower[T, L]{upper: l.upperTail, label: l.m - 1}

	l.lowerHead.next = l.root
	l.root.prev = l.lowerHead
	l.root.next = l.lowerTail
	l.lowerTail.prev = l.root

	return l
}

// Len returns the number of elements currently stored.
func (l *OrderedList[T, L]) Len() int { return l.size }

// Empty reports whether the list holds no elements.
func (l *OrderedList[T, L]) Empty() bool { return l.size == 0 }

// MaxSize returns the largest number of elements this list can ever hold,
// per the bound of (M-1) * LOGM (clamped to avoid overflow for wide label
// types, where the bound is astronomically large anyway).
func (l *OrderedList[T, L]) MaxSize() int {
	hi, lo := bits.Mul64(uint64(l.m-1), uint64(l.logm))
	if hi != 0 || lo > uint64(math.MaxInt) {
		return math.MaxInt
	}
	return int(lo)
}

// Begin returns the position of the first element, or End() if the list
// is empty.
func (l *OrderedList[T, L]) Begin() Iterator[T, L] { return Iterator[T, L]{l.root.next} }

// End returns the past-the-end position.
func (l *OrderedList[T, L]) End() Iterator[T, L] { return Iterator[T, L]{l.lowerTail} }

// Front returns the first element. The caller must ensure the list is
// non-empty.
func (l *OrderedList[T, L]) Front() T { return l.root.next.value }

// Back returns the last element. The caller must ensure the list is
// non-empty.
func (l *OrderedList[T, L]) Back() T { return l.lowerTail.prev.value }

// Insert places value immediately before the position before and returns
// a token for the new element. Amortised O(1): most insertions just need
// a label halfway between their new neighbours; occasionally a local
// relabel of the saturated sublist is required, and rarer still a split
// of the upper level (locally or, in the worst case, globally).
func (l *OrderedList[T, L]) Insert(before Iterator[T, L], value T) Iterator[T, L] {
	assertf(l.size < l.MaxSize(), "OrderedList.Insert called with size already at MaxSize (%d)", l.MaxSize())

	prev := before.node.prev
	upper := prev.upper

	newNode := &omsLower[T, L]{upper: upper, value: value}
	newNode.prev = prev
	newNode.next = before.node
	prev.next = newNode
	before.node.prev = newNode
	l.size++

	if prev.label+1 < before.node.label {
		newNode.label = prev.label + (before.node.label-prev.label)/2
		return Iterator[T, L]{newNode}
	}

	// The sublist is saturated: find the maximal contiguous run sharing
	// this upper node, then split it into fresh sublists of LOGM nodes
	// each, splitting the upper level once per full chunk.
	runStart := newNode
	for runStart.prev != l.lowerHead && runStart.prev.upper == upper {
		runStart = runStart.prev
	}
	runEnd := newNode.next
	for runEnd != l.lowerTail && runEnd.upper == upper {
		runEnd = runEnd.next
	}

	cur := runStart
	u := upper
	for {
		label := l.mstart
		for i := L(0); i < l.logm; i++ {
			if cur == runEnd {
				return Iterator[T, L]{newNode}
			}
			cur.label = label
			cur.upper = u
			label += l.mstep
			cur = cur.next
		}
		u = l.insertUpper(u)
	}
}

// PushBack inserts value at the end of the list.
func (l *OrderedList[T, L]) PushBack(value T) Iterator[T, L] { return l.Insert(l.End(), value) }

// PushFront inserts value at the beginning of the list.
func (l *OrderedList[T, L]) PushFront(value T) Iterator[T, L] { return l.Insert(l.Begin(), value) }

// insertUpper inserts a new upper node immediately after it and returns
// it, maintaining the tag-range density bound: widen the window outward
// from it until the span exceeds n*n, then relabel that window into an
// evenly spaced run (falling back to a full global relabel if that
// window turns out to be degenerate).
func (l *OrderedList[T, L]) insertUpper(it *omsUpper[L]) *omsUpper[L] {
	n := L(1)
	cur := it.next
	v0 := it.label

	for cur != l.upperTail && cur.label-v0 <= n*n {
		n++
		cur = cur.next
	}

	relabelUpperRun(it, cur, n)

	succ := it.next
	newLabel := v0/2 + succ.label/2
	if v0+1 >= newLabel || newLabel+1 >= succ.label {
		l.relabelUpperGlobal()
		v0 = it.label
		succ = it.next
		newLabel = v0/2 + succ.label/2
	}

	newUpper := &omsUpper[L]{label: newLabel, prev: it, next: succ}
	it.next = newUpper
	succ.prev = newUpper
	l.upperLen++
	return newUpper
}

// relabelUpperRun relabels the n nodes in the half-open range [from, to)
// as an arithmetic progression spanning from.label to to.label.
func relabelUpperRun[L Label](from, to *omsUpper[L], n L) {
	gap := (to.label - from.label) / n
	label := from.label
	for cur := from; cur != to; cur = cur.next {
		cur.label = label
		label += gap
	}
}

// relabelUpperGlobal is the escape hatch for when even a local relabel
// window can't produce a usable gap: relabel the entire upper list as an
// arithmetic progression from 0 with step (M-1)/(count-1), rounded down.
// The tail sentinel keeps M-1, so when the step rounds down the last gap
// is wider than the others.
func (l *OrderedList[T, L]) relabelUpperGlobal() {
	relabelUpperRun(l.upperHead, l.upperTail, L(l.upperLen-1))
}
