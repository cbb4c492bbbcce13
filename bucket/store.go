package bucket

import "github.com/google/btree"

const storeDegree = 32

type entry struct {
	key   string
	value string
}

func entryLess(a, b entry) bool {
	return a.key < b.key
}

// Store is the key/value table owned by one Bucket. It is not safe for
// concurrent use; the runtime serializes every call through the owning
// component's runner.
type Store struct {
	tree *btree.BTreeG[entry]
}

func NewStore() *Store {
	return &Store{
		tree: btree.NewG(storeDegree, entryLess),
	}
}

// Put stores value under key, replacing any previous value.
func (s *Store) Put(key, value string) {
	s.tree.ReplaceOrInsert(entry{key: key, value: value})
}

// Get returns the value stored under key, or "" when key is absent.
func (s *Store) Get(key string) string {
	e, ok := s.tree.Get(entry{key: key})
	if !ok {
		return ""
	}
	return e.value
}

// Has reports whether key is present, distinguishing an absent key from one
// stored with an empty value.
func (s *Store) Has(key string) bool {
	return s.tree.Has(entry{key: key})
}

// Reset removes every entry.
func (s *Store) Reset() {
	s.tree.Clear(false)
}

func (s *Store) Len() int {
	return s.tree.Len()
}

// Keys returns the stored keys in ascending order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, s.tree.Len())
	s.tree.Ascend(func(e entry) bool {
		keys = append(keys, e.key)
		return true
	})
	return keys
}
