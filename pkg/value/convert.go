package value

import (
	"fmt"
	"sort"
)

// ExtConverter turns a client-specific extension type (a buffer or tabpage
// handle, say) into an Ext value. It reports false for types it does not own.
type ExtConverter func(x any) (Value, bool)

// FromGo converts values produced by a generic msgpack decoder into a Value.
// Go maps have no order, so map entries are sorted by their rendered key.
func FromGo(x any, exts ...ExtConverter) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Nil(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return signed(int64(t)), nil
	case int8:
		return signed(int64(t)), nil
	case int16:
		return signed(int64(t)), nil
	case int32:
		return signed(int64(t)), nil
	case int64:
		return signed(t), nil
	case uint:
		return Uint(uint64(t)), nil
	case uint8:
		return Uint(uint64(t)), nil
	case uint16:
		return Uint(uint64(t)), nil
	case uint32:
		return Uint(uint64(t)), nil
	case uint64:
		return Uint(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case []byte:
		return Binary(t), nil
	case []string:
		return Strings(t...), nil
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			v, err := FromGo(e, exts...)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = v
		}
		return Array(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]Pair, 0, len(t))
		for _, k := range keys {
			v, err := FromGo(t[k], exts...)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			pairs = append(pairs, Pair{Key: String(k), Val: v})
		}
		return Map(pairs...), nil
	case map[any]any:
		pairs := make([]Pair, 0, len(t))
		for k, e := range t {
			kv, err := FromGo(k, exts...)
			if err != nil {
				return Value{}, err
			}
			vv, err := FromGo(e, exts...)
			if err != nil {
				return Value{}, fmt.Errorf("%v: %w", k, err)
			}
			pairs = append(pairs, Pair{Key: kv, Val: vv})
		}
		sort.Slice(pairs, func(i, j int) bool {
			return pairs[i].Key.String() < pairs[j].Key.String()
		})
		return Map(pairs...), nil
	}

	for _, conv := range exts {
		if v, ok := conv(x); ok {
			return v, nil
		}
	}
	return Value{}, fmt.Errorf("value: unsupported Go type %T", x)
}

// signed keeps msgpack's convention that non-negative integers are unsigned.
func signed(i int64) Value {
	if i >= 0 {
		return Uint(uint64(i))
	}
	return Int(i)
}

// ToGo is the inverse of FromGo for clients that encode plain Go values.
// Maps with only string keys become map[string]any; Ext values become
// their raw payload.
func ToGo(v Value) any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindUint:
		return v.u
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindBinary, KindExt:
		return v.raw
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = ToGo(e)
		}
		return out
	case KindMap:
		strKeys := make(map[string]any, len(v.m))
		for _, p := range v.m {
			k, ok := p.Key.RawString()
			if !ok {
				return mapAny(v.m)
			}
			strKeys[k] = ToGo(p.Val)
		}
		return strKeys
	}
	return nil
}

func mapAny(pairs []Pair) map[any]any {
	out := make(map[any]any, len(pairs))
	for _, p := range pairs {
		k := ToGo(p.Key)
		switch k.(type) {
		case []any, []byte, map[string]any, map[any]any:
			// unhashable
			k = p.Key.String()
		}
		out[k] = ToGo(p.Val)
	}
	return out
}
