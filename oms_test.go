package retro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// isCorrectOrder checks that Less/Greater agree with traversal order for
// every pair of positions in ol, mirroring the all-pairs check the source
// runs after each ordering test.
func isCorrectOrder[T any, L Label](ol *OrderedList[T, L]) bool {
	correct := true

	for from := ol.Begin(); !from.Equal(ol.End()); from = from.Next() {
		to := ol.Begin()
		for !to.Equal(from) {
			correct = correct && to.Less(from)
			to = to.Next()
		}

		correct = correct && to.Equal(from)
		to = to.Next()

		for !to.Equal(ol.End()) {
			correct = correct && to.Greater(from)
			to = to.Next()
		}
	}

	return correct
}

func TestOrderedListPushBackDoesNotChangeFrontButChangesBack(t *testing.T) {
	ol := NewOrderedList[int]()

	ol.PushBack(1)
	assert.Equal(t, 1, ol.Len())
	assert.Equal(t, 1, ol.Front())
	assert.Equal(t, 1, ol.Back())

	ol.PushBack(2)
	assert.Equal(t, 2, ol.Len())
	assert.Equal(t, 1, ol.Front())
	assert.Equal(t, 2, ol.Back())

	ol.PushBack(3)
	assert.Equal(t, 3, ol.Len())
	assert.Equal(t, 1, ol.Front())
	assert.Equal(t, 3, ol.Back())
}

func TestOrderedListPushFrontDoesNotChangeBackButChangesFront(t *testing.T) {
	ol := NewOrderedList[int]()

	ol.PushFront(1)
	assert.Equal(t, 1, ol.Len())
	assert.Equal(t, 1, ol.Front())
	assert.Equal(t, 1, ol.Back())

	ol.PushFront(2)
	assert.Equal(t, 2, ol.Len())
	assert.Equal(t, 2, ol.Front())
	assert.Equal(t, 1, ol.Back())

	ol.PushFront(3)
	assert.Equal(t, 3, ol.Len())
	assert.Equal(t, 3, ol.Front())
	assert.Equal(t, 1, ol.Back())
}

func TestOrderedListPushBackMaintainsOrder(t *testing.T) {
	ol := NewOrderedList[int]()

	for i := 0; i < 100; i++ {
		ol.PushBack(i)
	}

	assert.Equal(t, 100, ol.Len())
	assert.True(t, isCorrectOrder(ol))

	i := 0
	for it := ol.Begin(); !it.Equal(ol.End()); it = it.Next() {
		assert.Equal(t, i, it.Value())
		i++
	}
}

func TestOrderedListPushFrontMaintainsOrder(t *testing.T) {
	ol := NewOrderedList[int]()

	for i := 0; i < 100; i++ {
		ol.PushFront(i)
	}

	assert.Equal(t, 100, ol.Len())
	assert.True(t, isCorrectOrder(ol))

	i := 99
	for it := ol.Begin(); !it.Equal(ol.End()); it = it.Next() {
		assert.Equal(t, i, it.Value())
		i--
	}
}

func TestOrderedListInsertMiddleMaintainsOrder(t *testing.T) {
	ol := NewOrderedList[int]()

	ol.PushBack(0)
	ol.PushBack(0)

	middle := ol.Begin().Next()
	for i := 1; i <= 100; i++ {
		ol.Insert(middle, i)
		if i%2 == 0 {
			middle = middle.Prev()
		}
	}

	assert.Equal(t, 102, ol.Len())
	assert.True(t, isCorrectOrder(ol))
}

func TestOrderedListCanReachMaximumSize(t *testing.T) {
	ol := NewOrderedListOf[int, uint8]()

	for ol.Len() != ol.MaxSize() {
		ol.PushBack(0)
	}

	assert.True(t, isCorrectOrder(ol))
}

func TestOrderedListEmptyAndLen(t *testing.T) {
	ol := NewOrderedList[string]()
	assert.True(t, ol.Empty())
	assert.Equal(t, 0, ol.Len())

	ol.PushBack("a")
	assert.False(t, ol.Empty())
	assert.Equal(t, 1, ol.Len())
}

func TestOrderedListBeginEqualsEndWhenEmpty(t *testing.T) {
	ol := NewOrderedList[int]()
	assert.True(t, ol.Begin().Equal(ol.End()))
}
