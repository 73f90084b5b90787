package retro

import (
	"cmp"
	"iter"

	"github.com/google/btree"
)

// Op identifies the kind of event a FullMap time point represents.
type Op int

const (
	// OpInsert records that a key-value pair was inserted.
	OpInsert Op = iota
	// OpErase records that a key was erased.
	OpErase
)

// record is a value-store entry: a key-value pair that, once inserted,
// is never removed, because reverting a later event can make an earlier
// insert relevant again. Reachability through the event graph is enough
// to keep it alive; there is no separate container to manage.
type record[K, V any] struct {
	key   K
	value V
}

// event is what FullMap's OrderedList timeline actually stores.
type event[K, V any] struct {
	op   Op
	data *record[K, V]
}

// eventItem adapts an OrderedList position over events into a
// github.com/google/btree.Item so a key's history can be kept as an
// ordered set exactly like the source's std::set<event_iterator>.
type eventItem[K, V any, L Label] struct {
	handle Iterator[event[K, V], L]
}

func (e *eventItem[K, V, L]) Less(other btree.Item) bool {
	return e.handle.Less(other.(*eventItem[K, V, L]).handle)
}

// keyEntry is one key's slot in the top-level index: the key itself plus
// the ordered set of every Insert/Erase event ever recorded for it.
type keyEntry[K, V any, L Label] struct {
	key  K
	less func(a, b K) bool
	evs  *btree.BTree
}

func (e *keyEntry[K, V, L]) Less(other btree.Item) bool {
	return e.less(e.key, other.(*keyEntry[K, V, L]).key)
}

// MapHandle is the time point returned by FullMap's retroactive
// operations: an operation tag plus the OrderedList position of the
// event it created.
type MapHandle[K, V any, L Label] struct {
	op Op
	ev Iterator[event[K, V], L]
}

// Op returns the operation this time point represents.
func (h MapHandle[K, V, L]) Op() Op { return h.op }

// FullMap is a fully retroactive ordered associative map: insertions can
// be made at any point in the map's logical past, and both the present
// map and any past version of it can be queried.
type FullMap[K, V any, L Label] struct {
	events *OrderedList[event[K, V], L]
	index  *btree.BTree
	less   func(a, b K) bool
}

const btreeDegree = 16

// NewFullMap creates an empty FullMap ordered by K's natural order, using
// uint64 event labels.
func NewFullMap[K cmp.Ordered, V any]() *FullMap[K, V, uint64] {
	return NewFullMapOf[K, V, uint64](func(a, b K) bool { return a < b })
}

// NewFullMapCompare creates an empty FullMap ordered by less, using
// uint64 event labels.
func NewFullMapCompare[K, V any](less func(a, b K) bool) *FullMap[K, V, uint64] {
	return NewFullMapOf[K, V, uint64](less)
}

// NewFullMapOf creates an empty FullMap with an explicit comparator and
// event-label type.
func NewFullMapOf[K, V any, L Label](less func(a, b K) bool) *FullMap[K, V, L] {
	return &FullMap[K, V, L]{
		events: NewOrderedListOf[event[K, V], L](),
		index:  btree.New(btreeDegree),
		less:   less,
	}
}

func (m *FullMap[K, V, L]) lookupEntry(key K) *keyEntry[K, V, L] {
	probe := &keyEntry[K, V, L]{key: key, less: m.less}
	item := m.index.Get(probe)
	if item == nil {
		return nil
	}
	return item.(*keyEntry[K, V, L])
}

func (m *FullMap[K, V, L]) addEvent(key K, handle Iterator[event[K, V], L]) {
	ke := m.lookupEntry(key)
	if ke == nil {
		ke = &keyEntry[K, V, L]{key: key, less: m.less, evs: btree.New(btreeDegree)}
		m.index.ReplaceOrInsert(ke)
	}
	ke.evs.ReplaceOrInsert(&eventItem[K, V, L]{handle: handle})
}

// predecessorEvent returns the greatest event in ke's history strictly
// before handle, i.e. the predecessor of lower_bound(handle). Both
// keyExistsAt and the retro iterator's value lookup reduce to this one
// query.
func predecessorEvent[K, V any, L Label](ke *keyEntry[K, V, L], handle Iterator[event[K, V], L]) (*eventItem[K, V, L], bool) {
	if ke == nil {
		return nil, false
	}
	probe := &eventItem[K, V, L]{handle: handle}
	var found *eventItem[K, V, L]
	ke.evs.DescendLessOrEqual(probe, func(i btree.Item) bool {
		cand := i.(*eventItem[K, V, L])
		if cand.handle.Equal(handle) {
			return true // keep walking past the exact match, if present
		}
		found = cand
		return false
	})
	return found, found != nil
}

// keyExistsNow reports whether ke's key is present in the map at
// present: its event set is non-empty and the most recent event is an
// Insert.
func keyExistsNow[K, V any, L Label](ke *keyEntry[K, V, L]) bool {
	if ke == nil || ke.evs.Len() == 0 {
		return false
	}
	return ke.evs.Max().(*eventItem[K, V, L]).handle.Value().op == OpInsert
}

// keyExistsAt reports whether ke's key was present just before handle.
func keyExistsAt[K, V any, L Label](ke *keyEntry[K, V, L], handle Iterator[event[K, V], L]) bool {
	pred, ok := predecessorEvent(ke, handle)
	return ok && pred.handle.Value().op == OpInsert
}

// Insert inserts key/value into the map at present.
func (m *FullMap[K, V, L]) Insert(key K, value V) MapHandle[K, V, L] {
	return m.InsertAt(MapHandle[K, V, L]{ev: m.events.End()}, key, value)
}

// InsertAt retroactively inserts key/value just before time point t.
//
// An insert for a key that already exists (now, or at t) is still
// recorded: the event and its value-store entry persist so that
// reverting an earlier insert can make them relevant again, and the new
// Insert gives the key's value from t onward until the key's next event
// in time order, if it has one.
func (m *FullMap[K, V, L]) InsertAt(t MapHandle[K, V, L], key K, value V) MapHandle[K, V, L] {
	data := &record[K, V]{key: key, value: value}
	handle := m.events.Insert(t.ev, event[K, V]{op: OpInsert, data: data})
	m.addEvent(key, handle)
	return MapHandle[K, V, L]{op: OpInsert, ev: handle}
}

// Erase removes key from the map at present.
func (m *FullMap[K, V, L]) Erase(key K) MapHandle[K, V, L] {
	return m.EraseAt(MapHandle[K, V, L]{ev: m.events.End()}, key)
}

// EraseAt retroactively records the erasure of key just before t.
func (m *FullMap[K, V, L]) EraseAt(t MapHandle[K, V, L], key K) MapHandle[K, V, L] {
	data := &record[K, V]{key: key}
	handle := m.events.Insert(t.ev, event[K, V]{op: OpErase, data: data})
	m.addEvent(key, handle)
	return MapHandle[K, V, L]{op: OpErase, ev: handle}
}

// Len returns the number of keys present in the map at present.
func (m *FullMap[K, V, L]) Len() int {
	n := 0
	m.index.Ascend(func(i btree.Item) bool {
		if keyExistsNow(i.(*keyEntry[K, V, L])) {
			n++
		}
		return true
	})
	return n
}

// Empty reports whether the map is empty at present.
func (m *FullMap[K, V, L]) Empty() bool {
	empty := true
	m.index.Ascend(func(i btree.Item) bool {
		if keyExistsNow(i.(*keyEntry[K, V, L])) {
			empty = false
			return false
		}
		return true
	})
	return empty
}

// LenAt returns the number of keys present just before time point t.
func (m *FullMap[K, V, L]) LenAt(t MapHandle[K, V, L]) int {
	n := 0
	m.index.Ascend(func(i btree.Item) bool {
		if keyExistsAt(i.(*keyEntry[K, V, L]), t.ev) {
			n++
		}
		return true
	})
	return n
}

// EmptyAt reports whether the map was empty just before time point t.
func (m *FullMap[K, V, L]) EmptyAt(t MapHandle[K, V, L]) bool {
	empty := true
	m.index.Ascend(func(i btree.Item) bool {
		if keyExistsAt(i.(*keyEntry[K, V, L]), t.ev) {
			empty = false
			return false
		}
		return true
	})
	return empty
}

// MaxSize returns the largest number of events the map's timeline can
// hold; inserts and erases share this one budget.
func (m *FullMap[K, V, L]) MaxSize() int { return m.events.MaxSize() }

func (m *FullMap[K, V, L]) nextKey(k K) (K, bool) {
	probe := &keyEntry[K, V, L]{key: k, less: m.less}
	var result K
	found := false
	m.index.AscendGreaterOrEqual(probe, func(i btree.Item) bool {
		ke := i.(*keyEntry[K, V, L])
		if !m.less(k, ke.key) {
			return true // this is k itself, keep going
		}
		result, found = ke.key, true
		return false
	})
	return result, found
}

func (m *FullMap[K, V, L]) prevKey(k K) (K, bool) {
	probe := &keyEntry[K, V, L]{key: k, less: m.less}
	var result K
	found := false
	m.index.DescendLessOrEqual(probe, func(i btree.Item) bool {
		ke := i.(*keyEntry[K, V, L])
		if !m.less(ke.key, k) {
			return true // this is k itself, keep going
		}
		result, found = ke.key, true
		return false
	})
	return result, found
}

// MapIterator iterates over FullMap's present keys in sorted order,
// skipping any key whose latest event is an Erase.
type MapIterator[K, V any, L Label] struct {
	m     *FullMap[K, V, L]
	key   K
	valid bool
}

// Begin returns an iterator to the first present key, or End() if the
// map is empty at present.
func (m *FullMap[K, V, L]) Begin() *MapIterator[K, V, L] {
	it := &MapIterator[K, V, L]{m: m}
	m.index.Ascend(func(i btree.Item) bool {
		ke := i.(*keyEntry[K, V, L])
		if keyExistsNow(ke) {
			it.key, it.valid = ke.key, true
			return false
		}
		return true
	})
	return it
}

// End returns the past-the-end iterator for present iteration.
func (m *FullMap[K, V, L]) End() *MapIterator[K, V, L] {
	return &MapIterator[K, V, L]{m: m}
}

// Find returns an iterator to key if it is present at present, else
// End().
func (m *FullMap[K, V, L]) Find(key K) *MapIterator[K, V, L] {
	if ke := m.lookupEntry(key); ke != nil && keyExistsNow(ke) {
		return &MapIterator[K, V, L]{m: m, key: key, valid: true}
	}
	return m.End()
}

// Value returns the key and value at this iterator's position.
func (it *MapIterator[K, V, L]) Value() (K, V) {
	ke := it.m.lookupEntry(it.key)
	v := ke.evs.Max().(*eventItem[K, V, L]).handle.Value().data.value
	return it.key, v
}

// Next advances the iterator to the next present key.
func (it *MapIterator[K, V, L]) Next() {
	cur := it.key
	for {
		nk, ok := it.m.nextKey(cur)
		if !ok {
			it.valid = false
			return
		}
		cur = nk
		if keyExistsNow(it.m.lookupEntry(cur)) {
			it.key, it.valid = cur, true
			return
		}
	}
}

// Prev retreats the iterator to the previous present key.
func (it *MapIterator[K, V, L]) Prev() {
	cur := it.key
	for {
		pk, ok := it.m.prevKey(cur)
		assertf(ok, "MapIterator.Prev called with nothing before it")
		cur = pk
		if keyExistsNow(it.m.lookupEntry(cur)) {
			it.key, it.valid = cur, true
			return
		}
	}
}

// Equal reports whether it and other refer to the same key, or are both
// End().
func (it *MapIterator[K, V, L]) Equal(other *MapIterator[K, V, L]) bool {
	if it.valid != other.valid {
		return false
	}
	if !it.valid {
		return true
	}
	return !it.m.less(it.key, other.key) && !it.m.less(other.key, it.key)
}

// MapRetroIterator iterates over the keys that were present just before
// a given time point, skipping any key whose last event strictly before
// that time point is an Erase.
type MapRetroIterator[K, V any, L Label] struct {
	m      *FullMap[K, V, L]
	anchor Iterator[event[K, V], L]
	key    K
	valid  bool
}

// BeginAt returns an iterator to the first key present just before t, or
// EndAt(t) if none was.
func (m *FullMap[K, V, L]) BeginAt(t MapHandle[K, V, L]) *MapRetroIterator[K, V, L] {
	it := &MapRetroIterator[K, V, L]{m: m, anchor: t.ev}
	m.index.Ascend(func(i btree.Item) bool {
		ke := i.(*keyEntry[K, V, L])
		if keyExistsAt(ke, t.ev) {
			it.key, it.valid = ke.key, true
			return false
		}
		return true
	})
	return it
}

// EndAt returns the past-the-end iterator for iteration at time point t.
func (m *FullMap[K, V, L]) EndAt(t MapHandle[K, V, L]) *MapRetroIterator[K, V, L] {
	return &MapRetroIterator[K, V, L]{m: m, anchor: t.ev}
}

// FindAt returns an iterator to key as it stood just before t, if it was
// present, else EndAt(t).
func (m *FullMap[K, V, L]) FindAt(t MapHandle[K, V, L], key K) *MapRetroIterator[K, V, L] {
	if ke := m.lookupEntry(key); ke != nil && keyExistsAt(ke, t.ev) {
		return &MapRetroIterator[K, V, L]{m: m, anchor: t.ev, key: key, valid: true}
	}
	return m.EndAt(t)
}

// Value returns the key and value this iterator saw just before its
// time point.
func (it *MapRetroIterator[K, V, L]) Value() (K, V) {
	ke := it.m.lookupEntry(it.key)
	pred, _ := predecessorEvent(ke, it.anchor)
	return it.key, pred.handle.Value().data.value
}

// Next advances the iterator to the next key present at its time point.
func (it *MapRetroIterator[K, V, L]) Next() {
	cur := it.key
	for {
		nk, ok := it.m.nextKey(cur)
		if !ok {
			it.valid = false
			return
		}
		cur = nk
		if keyExistsAt(it.m.lookupEntry(cur), it.anchor) {
			it.key, it.valid = cur, true
			return
		}
	}
}

// Prev retreats the iterator to the previous key present at its time
// point.
func (it *MapRetroIterator[K, V, L]) Prev() {
	cur := it.key
	for {
		pk, ok := it.m.prevKey(cur)
		assertf(ok, "MapRetroIterator.Prev called with nothing before it")
		cur = pk
		if keyExistsAt(it.m.lookupEntry(cur), it.anchor) {
			it.key, it.valid = cur, true
			return
		}
	}
}

// Equal reports whether it and other refer to the same key, or are both
// at end, of the same time point.
func (it *MapRetroIterator[K, V, L]) Equal(other *MapRetroIterator[K, V, L]) bool {
	if it.valid != other.valid {
		return false
	}
	if !it.valid {
		return true
	}
	return !it.m.less(it.key, other.key) && !it.m.less(other.key, it.key)
}

// All returns an iterator, in the iter.Seq2 sense, over every key-value
// pair present in the map at present, in key order.
func (m *FullMap[K, V, L]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for it, end := m.Begin(), m.End(); !it.Equal(end); it.Next() {
			k, v := it.Value()
			if !yield(k, v) {
				return
			}
		}
	}
}

// AllAt returns an iterator over every key-value pair present just
// before t, in key order.
func (m *FullMap[K, V, L]) AllAt(t MapHandle[K, V, L]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		end := m.EndAt(t)
		for it := m.BeginAt(t); !it.Equal(end); it.Next() {
			k, v := it.Value()
			if !yield(k, v) {
				return
			}
		}
	}
}
