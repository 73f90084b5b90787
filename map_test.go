package retro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullMapCanFindInsertedElements(t *testing.T) {
	m := NewFullMap[int, int]()

	m.Insert(1, 1)
	m.Insert(2, 2)
	m.Insert(3, 3)

	k, v := m.Find(1).Value()
	assert.Equal(t, 1, k)
	assert.Equal(t, 1, v)

	k, v = m.Find(2).Value()
	assert.Equal(t, 2, k)
	assert.Equal(t, 2, v)

	k, v = m.Find(3).Value()
	assert.Equal(t, 3, k)
	assert.Equal(t, 3, v)

	assert.True(t, m.Find(0).Equal(m.End()))
	assert.True(t, m.Find(4).Equal(m.End()))
}

func TestFullMapCanRetroactivelyIterateThroughPresentInsertions(t *testing.T) {
	m := NewFullMap[int, int]()
	t1 := m.Insert(1, 1)
	t2 := m.Insert(2, 2)
	t3 := m.Insert(3, 3)

	// Before t1, there was nothing.
	assert.True(t, m.BeginAt(t1).Equal(m.EndAt(t1)))

	// Before t2, there was only '1'.
	begin2 := m.BeginAt(t2)
	assert.False(t, begin2.Equal(m.EndAt(t2)))
	k, _ := begin2.Value()
	assert.Equal(t, 1, k)
	begin2.Next()
	assert.True(t, begin2.Equal(m.EndAt(t2)))

	// Before t3, there was only '1', '2'.
	begin3 := m.BeginAt(t3)
	assert.False(t, begin3.Equal(m.EndAt(t3)))
	k, _ = begin3.Value()
	assert.Equal(t, 1, k)
	begin3.Next()
	k, _ = begin3.Value()
	assert.Equal(t, 2, k)
	begin3.Next()
	assert.True(t, begin3.Equal(m.EndAt(t3)))
}

func TestFullMapCanIteratePresentInsertionsInKeyOrder(t *testing.T) {
	m := NewFullMap[int, int]()

	m.Insert(4, 3)
	m.Insert(1, 6)
	m.Insert(3, 1)

	it := m.Begin()
	k, v := it.Value()
	assert.Equal(t, 1, k)
	assert.Equal(t, 6, v)

	it.Next()
	k, v = it.Value()
	assert.Equal(t, 3, k)
	assert.Equal(t, 1, v)

	it.Next()
	k, v = it.Value()
	assert.Equal(t, 4, k)
	assert.Equal(t, 3, v)

	it.Next()
	assert.True(t, it.Equal(m.End()))
}

func TestFullMapRetroactiveInsertionAffectsPresent(t *testing.T) {
	m := NewFullMap[int, int]()

	tp := m.Insert(1, 1)
	for i := 2; i <= 10; i++ {
		tp = m.InsertAt(tp, i, i)
	}

	i := 1
	for it, end := m.Begin(), m.End(); !it.Equal(end); it.Next() {
		k, _ := it.Value()
		assert.Equal(t, i, k)
		i++
	}
	assert.Equal(t, 11, i)
}

func TestFullMapPresentInsertionsCanBeRetroactivelyFound(t *testing.T) {
	m := NewFullMap[int, int]()
	t1 := m.Insert(1, 1)
	t2 := m.Insert(2, 2)
	t3 := m.Insert(3, 3)

	// Before t1, the map is empty.
	assert.True(t, m.FindAt(t1, 1).Equal(m.EndAt(t1)))
	assert.True(t, m.FindAt(t1, 2).Equal(m.EndAt(t1)))
	assert.True(t, m.FindAt(t1, 3).Equal(m.EndAt(t1)))

	// Before t2, the map contains '1'.
	_, v := m.FindAt(t2, 1).Value()
	assert.Equal(t, 1, v)
	assert.True(t, m.FindAt(t2, 2).Equal(m.EndAt(t2)))
	assert.True(t, m.FindAt(t2, 3).Equal(m.EndAt(t2)))

	// Before t3, the map contains '1', '2'.
	_, v = m.FindAt(t3, 1).Value()
	assert.Equal(t, 1, v)
	_, v = m.FindAt(t3, 2).Value()
	assert.Equal(t, 2, v)
	assert.True(t, m.FindAt(t3, 3).Equal(m.EndAt(t3)))
}

func TestFullMapRetroactiveInsertionsCanBeRetroactivelyFound(t *testing.T) {
	m := NewFullMap[int, int]()
	t3 := m.Insert(3, 3)
	t1 := m.InsertAt(t3, 1, 1)

	// Before t1, the map is empty.
	assert.True(t, m.FindAt(t1, 1).Equal(m.EndAt(t1)))
	assert.True(t, m.FindAt(t1, 2).Equal(m.EndAt(t1)))
	assert.True(t, m.FindAt(t1, 3).Equal(m.EndAt(t1)))

	// Before t3, the map contains '1'.
	_, v := m.FindAt(t3, 1).Value()
	assert.Equal(t, 1, v)
	assert.True(t, m.FindAt(t3, 2).Equal(m.EndAt(t3)))
	assert.True(t, m.FindAt(t3, 3).Equal(m.EndAt(t3)))

	// Retroactively insert '2'.
	t2 := m.InsertAt(t3, 2, 2)

	// Before t2, the map contains '1'.
	_, v = m.FindAt(t2, 1).Value()
	assert.Equal(t, 1, v)
	assert.True(t, m.FindAt(t2, 2).Equal(m.EndAt(t2)))
	assert.True(t, m.FindAt(t2, 3).Equal(m.EndAt(t2)))

	// Before t3, the map contains '1', '2'.
	_, v = m.FindAt(t3, 1).Value()
	assert.Equal(t, 1, v)
	_, v = m.FindAt(t3, 2).Value()
	assert.Equal(t, 2, v)
	assert.True(t, m.FindAt(t3, 3).Equal(m.EndAt(t3)))
}

func TestFullMapLenAndEmpty(t *testing.T) {
	m := NewFullMap[int, string]()
	assert.True(t, m.Empty())
	assert.Equal(t, 0, m.Len())

	m.Insert(1, "a")
	m.Insert(2, "b")
	assert.False(t, m.Empty())
	assert.Equal(t, 2, m.Len())
}

func TestFullMapEraseRemovesKeyFromPresent(t *testing.T) {
	m := NewFullMap[int, int]()
	m.Insert(1, 1)
	m.Insert(2, 2)
	assert.Equal(t, 2, m.Len())

	m.Erase(1)
	assert.Equal(t, 1, m.Len())
	assert.True(t, m.Find(1).Equal(m.End()))

	_, v := m.Find(2).Value()
	assert.Equal(t, 2, v)
}

func TestFullMapFindAtSeesKeyBeforeItsErase(t *testing.T) {
	m := NewFullMap[int, int]()
	m.Insert(1, 1)
	terase := m.Erase(1)

	// Strictly before the erase event, the key was still present.
	_, v := m.FindAt(terase, 1).Value()
	assert.Equal(t, 1, v)

	// At present, after the erase, it's gone.
	assert.True(t, m.Find(1).Equal(m.End()))
}

func TestFullMapCustomComparator(t *testing.T) {
	m := NewFullMapCompare[string, int](func(a, b string) bool { return a > b })

	m.Insert("a", 1)
	m.Insert("b", 2)
	m.Insert("c", 3)

	it := m.Begin()
	k, _ := it.Value()
	assert.Equal(t, "c", k)
}

func TestFullMapAllIteratesInKeyOrder(t *testing.T) {
	m := NewFullMap[int, int]()
	m.Insert(3, 3)
	m.Insert(1, 1)
	m.Insert(2, 2)

	var keys []int
	for k := range m.All() {
		keys = append(keys, k)
	}
	assert.Equal(t, []int{1, 2, 3}, keys)
}
