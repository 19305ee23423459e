package decode

import (
	"sort"

	"github.com/bastiangx/redrawd/pkg/value"
)

// Attrs is a decoded string-keyed attribute map, as used by highlight
// definitions, mode info entries and tabline rows.
type Attrs map[string]value.Value

func (a Attrs) Has(key string) bool {
	_, ok := a[key]
	return ok
}

func (a Attrs) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok {
		return "", false
	}
	return v.AsString()
}

func (a Attrs) Uint(key string) (uint64, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	return v.AsUint64()
}

func (a Attrs) Int(key string) (int64, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	return v.AsInt64()
}

func (a Attrs) Bool(key string) (bool, bool) {
	v, ok := a[key]
	if !ok {
		return false, false
	}
	return v.AsBool()
}

// Keys returns the attribute names in sorted order.
func (a Attrs) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value re-encodes the attributes as a Map value with sorted keys.
func (a Attrs) Value() value.Value {
	pairs := make([]value.Pair, 0, len(a))
	for _, k := range a.Keys() {
		pairs = append(pairs, value.Pair{Key: value.String(k), Val: a[k]})
	}
	return value.Map(pairs...)
}
