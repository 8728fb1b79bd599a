package db

// Record is one row of a result stream. Values are opaque payloads decoded by
// the connection; the core passes them through untouched.
type Record struct {
	Keys   []string
	Values []any
}

// Get returns the value stored under the given key.
func (r *Record) Get(key string) (any, bool) {
	for i, k := range r.Keys {
		if k == key {
			return r.Values[i], true
		}
	}
	return nil, false
}

// AsMap returns the record as a key-value map.
func (r *Record) AsMap() map[string]any {
	m := make(map[string]any, len(r.Keys))
	for i, k := range r.Keys {
		m[k] = r.Values[i]
	}
	return m
}
