package retro

import "math"

// qNode is a node of the queue's own insertion-time-ordered sequence D —
// not the OrderedList: a partially retroactive queue never needs O(1)
// order comparisons between arbitrary past operations, only
// constant-time neighbour relinking, so it gets its own doubly linked
// list in the same head/tail-sentinel shape as a hash map's
// insertion-order list.
type qNode[T any] struct {
	value      T
	preFront   bool
	prev, next *qNode[T]
}

// queueHandle is satisfied by both PushHandle and PopHandle so that
// PushAt can accept the time point of either a prior push or a prior pop.
type queueHandle[T any] interface {
	ptr() *qNode[T]
}

// PushHandle is the time point returned by a push operation.
type PushHandle[T any] struct{ n *qNode[T] }

func (h PushHandle[T]) ptr() *qNode[T] { return h.n }

// PopHandle is the time point returned by a pop operation.
type PopHandle[T any] struct{ n *qNode[T] }

func (h PopHandle[T]) ptr() *qNode[T] { return h.n }

// PartialQueue is a partially retroactive FIFO queue: push and pop can be
// performed, or reverted, at any past moment, but only the present queue
// can be queried.
type PartialQueue[T any] struct {
	head, tail *qNode[T]
	front      *qNode[T] // front == tail means the queue is empty
	size       int
}

// NewPartialQueue creates an empty partially retroactive queue.
func NewPartialQueue[T any]() *PartialQueue[T] {
	q := &PartialQueue[T]{}
	q.head = &qNode[T]{}
	q.tail = &qNode[T]{}
	q.head.next = q.tail
	q.tail.prev = q.head
	q.front = q.tail
	return q
}

// Len returns the number of elements in the queue at present.
func (q *PartialQueue[T]) Len() int { return q.size }

// Empty reports whether the queue is empty at present.
func (q *PartialQueue[T]) Empty() bool { return q.size == 0 }

// MaxSize returns the largest number of elements the queue can hold.
// Unlike OrderedList, D carries no label budget, so this is only bounded
// by available memory.
func (q *PartialQueue[T]) MaxSize() int { return math.MaxInt }

// Front returns the oldest element in the present queue. The caller must
// ensure the queue is non-empty.
func (q *PartialQueue[T]) Front() T { return q.front.value }

// Back returns the newest element in the present queue. The caller must
// ensure the queue is non-empty.
func (q *PartialQueue[T]) Back() T { return q.tail.prev.value }

func spliceBefore[T any](node, before *qNode[T]) {
	prev := before.prev
	node.prev = prev
	node.next = before
	prev.next = node
	before.prev = node
}

func unlink[T any](node *qNode[T]) {
	node.prev.next = node.next
	node.next.prev = node.prev
}

// Push enqueues value at present. It never needs to touch front, except
// when the queue was empty, because new elements always land at the end
// of the timeline and the end of the queue at once.
func (q *PartialQueue[T]) Push(value T) PushHandle[T] {
	wasEmpty := q.front == q.tail

	node := &qNode[T]{value: value}
	spliceBefore(node, q.tail)
	q.size++

	if wasEmpty {
		q.front = node
	}
	return PushHandle[T]{node}
}

// PushAt retroactively inserts value as if it had been pushed just before
// the operation t. The three cases below are exactly the ones that need
// the pre_front flag: pushing before the very first recorded operation,
// pushing at the current front, and pushing anywhere else, where whether
// the new element lands in the already-popped region is inherited from
// its new predecessor.
func (q *PartialQueue[T]) PushAt(t queueHandle[T], value T) PushHandle[T] {
	it := t.ptr()

	var node *qNode[T]
	switch {
	case it.prev == q.head:
		node = &qNode[T]{value: value, preFront: true}
		spliceBefore(node, it)
		q.moveFrontPred()
	case it == q.front:
		node = &qNode[T]{value: value, preFront: false}
		spliceBefore(node, it)
	default:
		before := it.prev
		node = &qNode[T]{value: value, preFront: before.preFront}
		spliceBefore(node, it)
		if node.preFront {
			q.moveFrontPred()
		}
	}

	q.size++
	return PushHandle[T]{node}
}

// Pop dequeues the oldest element of the present queue and returns a
// handle to the operation.
func (q *PartialQueue[T]) Pop() PopHandle[T] {
	assertf(q.size > 0, "PartialQueue.Pop called on an empty queue")

	q.size--
	old := q.front
	q.moveFrontSucc()
	return PopHandle[T]{old}
}

// PopAt retroactively records a pop. It always pops whatever is currently
// the oldest surviving element regardless of t — a retroactive pop can't
// reach back and consume an element that a later pop already claimed — so
// this is just Pop().
func (q *PartialQueue[T]) PopAt(t queueHandle[T]) PopHandle[T] {
	return q.Pop()
}

// RevertPush undoes a previous push as though it had never happened.
func (q *PartialQueue[T]) RevertPush(t PushHandle[T]) {
	node := t.n
	q.size--

	if node.preFront {
		// One fewer historical push means one of the elements already
		// popped never existed, so the pop that consumed it should now
		// consume its successor instead.
		q.moveFrontSucc()
	} else if node == q.front {
		q.moveFrontSucc()
	}

	unlink(node)
}

// RevertPop undoes a previous pop, restoring the element it removed.
func (q *PartialQueue[T]) RevertPop(t PopHandle[T]) {
	q.moveFrontPred()
	q.size++
}

// moveFrontSucc advances front by one, marking the node it steps off of
// as part of the popped-away region.
func (q *PartialQueue[T]) moveFrontSucc() {
	q.front.preFront = true
	q.front = q.front.next
	if q.front != q.tail {
		q.front.preFront = false
	}
}

// moveFrontPred retreats front by one, marking the node it steps onto as
// no longer part of the popped-away region.
func (q *PartialQueue[T]) moveFrontPred() {
	q.front.preFront = false
	q.front = q.front.prev
	if q.front != q.head {
		q.front.preFront = false
	}
}
