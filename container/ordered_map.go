package container

// OrderedMap is an insertion-ordered associative array keyed by string.
//
// Put always appends rather than overwrites, so a later Put for a key
// already present shadows rather than replaces the earlier binding; Get
// returns the most recently bound value. This is what lets the parser reuse
// one OrderedMap per scope and still get correct shadowing semantics when a
// nested scope redeclares an outer name (spec.md §4.1: "Duplicate keys are
// tolerated (later shadows earlier) because inner scopes reuse the
// container").
type OrderedMap struct {
	keys   []string
	values []any
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{}
}

// Put appends a new binding for key, shadowing any earlier binding for the
// same key without removing it.
func (m *OrderedMap) Put(key string, value any) {
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
}

// Get returns the most recently bound value for key, walking from the
// newest binding to the oldest. The second return value is false if key has
// never been bound (the "absent" sentinel of spec.md §4.1).
func (m *OrderedMap) Get(key string) (any, bool) {
	for i := len(m.keys) - 1; i >= 0; i-- {
		if m.keys[i] == key {
			return m.values[i], true
		}
	}
	return nil, false
}

// Has reports whether key has ever been bound in this map, ignoring any
// later shadowing binding of the same key. Used by the parser to detect
// redeclaration within a single scope.
func (m *OrderedMap) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the total number of bindings put, including shadowed ones.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// Keys returns the bound keys in insertion order (including duplicates for
// shadowed bindings). Used by the AST printer to list struct member names in
// declaration order.
func (m *OrderedMap) Keys() []string {
	return m.keys
}

// Entries returns the (key, value) pairs in insertion order.
func (m *OrderedMap) Entries() []Entry {
	entries := make([]Entry, len(m.keys))
	for i := range m.keys {
		entries[i] = Entry{Key: m.keys[i], Value: m.values[i]}
	}
	return entries
}

// Entry is one (key, value) binding, as returned by Entries.
type Entry struct {
	Key   string
	Value any
}
