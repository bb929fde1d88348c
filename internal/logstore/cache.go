package logstore

import "github.com/google/btree"

type fedItem int64

func (a fedItem) Less(b btree.Item) bool { return a < b.(fedItem) }

// indexCache is the in-memory view of the log rebuilt at startup: the index
// and term watermarks plus the sorted set of live federated indices. All
// access goes through the store mutex.
type indexCache struct {
	nextIndex   int64
	lastIndex   int64
	lastTerm    int64
	lastApplied int64

	fed *btree.BTree
}

func newIndexCache() *indexCache {
	return &indexCache{fed: btree.New(2)}
}

func (c *indexCache) insertFed(i int64) {
	if i == NoFedIndex {
		return
	}
	c.fed.ReplaceOrInsert(fedItem(i))
}

// resetFed replaces the federated set with the given indices.
func (c *indexCache) resetFed(indices []int64) {
	c.fed.Clear(false)
	for _, i := range indices {
		c.insertFed(i)
	}
}

func (c *indexCache) fedSize() int { return c.fed.Len() }

// lastFederated returns the highest federated index, or NoFedIndex when the
// set is empty.
func (c *indexCache) lastFederated() int64 {
	max, ok := c.fed.Max().(fedItem)
	if !ok {
		return NoFedIndex
	}
	return int64(max)
}

// previousFederated returns the strict predecessor of i within the set, or
// NoFedIndex when i is absent or has none.
func (c *indexCache) previousFederated(i int64) int64 {
	if !c.fed.Has(fedItem(i)) {
		return NoFedIndex
	}
	prev := NoFedIndex
	c.fed.DescendLessOrEqual(fedItem(i), func(item btree.Item) bool {
		v := int64(item.(fedItem))
		if v == i {
			return true
		}
		prev = v
		return false
	})
	return prev
}

// nextFederated returns the strict successor of i within the set, or
// NoFedIndex when i is absent or has none.
func (c *indexCache) nextFederated(i int64) int64 {
	if !c.fed.Has(fedItem(i)) {
		return NoFedIndex
	}
	next := NoFedIndex
	c.fed.AscendGreaterOrEqual(fedItem(i), func(item btree.Item) bool {
		v := int64(item.(fedItem))
		if v == i {
			return true
		}
		next = v
		return false
	})
	return next
}

// LastFederated returns the highest live federated index, or -1.
func (s *Store) LastFederated() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.lastFederated()
}

// PreviousFederated returns the federated index preceding i in the federated
// stream, or -1 when i is not part of the stream or is its first element.
func (s *Store) PreviousFederated(i int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.previousFederated(i)
}

// NextFederated returns the federated index following i in the federated
// stream, or -1 when i is not part of the stream or is its last element.
func (s *Store) NextFederated(i int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.nextFederated(i)
}
