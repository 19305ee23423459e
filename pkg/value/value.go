/*
Package value models the dynamically typed values carried by the editor's
msgpack-rpc channel.

A Value is a small tagged union. It is built either by decoding msgpack
directly (Value implements msgpack.CustomDecoder) or by converting the
already decoded Go values handed out by an RPC client (FromGo).

	var v value.Value
	err := msgpack.Unmarshal(data, &v)
	if s, ok := v.AsString(); ok {
		...
	}

Values are immutable once built; the slices returned by AsArray, AsMap and
AsBinary must not be modified by callers.
*/
package value

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind is the wire tag of a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindBinary
	KindArray
	KindMap
	KindExt
)

var kindNames = [...]string{
	KindNil:    "nil",
	KindBool:   "bool",
	KindInt:    "int",
	KindUint:   "uint",
	KindFloat:  "float",
	KindString: "string",
	KindBinary: "binary",
	KindArray:  "array",
	KindMap:    "map",
	KindExt:    "ext",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Pair is one entry of a Map value. Map entries keep their wire order.
type Pair struct {
	Key Value
	Val Value
}

// Value is a single wire value. The zero Value is Nil.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
	raw  []byte
	arr  []Value
	m    []Pair
	ext  int8
}

func Nil() Value              { return Value{} }
func Bool(b bool) Value       { return Value{kind: KindBool, b: b} }
func Int(i int64) Value       { return Value{kind: KindInt, i: i} }
func Uint(u uint64) Value     { return Value{kind: KindUint, u: u} }
func Float(f float64) Value   { return Value{kind: KindFloat, f: f} }
func String(s string) Value   { return Value{kind: KindString, s: s} }
func Binary(b []byte) Value   { return Value{kind: KindBinary, raw: b} }
func Array(vs ...Value) Value { return Value{kind: KindArray, arr: vs} }
func Map(ps ...Pair) Value    { return Value{kind: KindMap, m: ps} }

// Ext builds an extension value with the given application type tag.
func Ext(typ int8, data []byte) Value {
	return Value{kind: KindExt, ext: typ, raw: data}
}

// Strings is a convenience for building an array of string values.
func Strings(ss ...string) Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return Array(vs...)
}

// StringMap builds a Map from string keys in the given order.
// keyvals alternates key and value, like a logger's key/value list.
func StringMap(keyvals ...any) Value {
	pairs := make([]Pair, 0, len(keyvals)/2)
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, _ := keyvals[i].(string)
		val, ok := keyvals[i+1].(Value)
		if !ok {
			conv, err := FromGo(keyvals[i+1])
			if err != nil {
				conv = String(fmt.Sprint(keyvals[i+1]))
			}
			val = conv
		}
		pairs = append(pairs, Pair{Key: String(key), Val: val})
	}
	return Map(pairs...)
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsInt64 reports the value as a signed integer. Unsigned values are
// reinterpreted when they fit.
func (v Value) AsInt64() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindUint:
		if v.u <= 1<<63-1 {
			return int64(v.u), true
		}
	}
	return 0, false
}

// AsUint64 reports the value as an unsigned integer. Non-negative signed
// values are reinterpreted.
func (v Value) AsUint64() (uint64, bool) {
	switch v.kind {
	case KindUint:
		return v.u, true
	case KindInt:
		if v.i >= 0 {
			return uint64(v.i), true
		}
	}
	return 0, false
}

func (v Value) AsFloat64() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// AsString returns the string payload. ok is false for non-string values
// and for strings that are not valid UTF-8.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString || !utf8.ValidString(v.s) {
		return "", false
	}
	return v.s, true
}

// RawString returns the string payload without validating it.
func (v Value) RawString() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) AsBinary() ([]byte, bool) {
	return v.raw, v.kind == KindBinary
}

func (v Value) AsArray() ([]Value, bool) {
	return v.arr, v.kind == KindArray
}

func (v Value) AsMap() ([]Pair, bool) {
	return v.m, v.kind == KindMap
}

func (v Value) AsExt() (typ int8, data []byte, ok bool) {
	return v.ext, v.raw, v.kind == KindExt
}

// Equal compares two values structurally. A non-negative Int equals the
// Uint with the same magnitude, since msgpack does not keep the difference.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		if isInteger(v.kind) && isInteger(o.kind) {
			a, aok := v.AsUint64()
			b, bok := o.AsUint64()
			return aok && bok && a == b
		}
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindUint:
		return v.u == o.u
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindBinary:
		return bytes.Equal(v.raw, o.raw)
	case KindExt:
		return v.ext == o.ext && bytes.Equal(v.raw, o.raw)
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(o.m) {
			return false
		}
		for i := range v.m {
			if !v.m[i].Key.Equal(o.m[i].Key) || !v.m[i].Val.Equal(o.m[i].Val) {
				return false
			}
		}
		return true
	}
	return false
}

func isInteger(k Kind) bool { return k == KindInt || k == KindUint }

// String renders the value for logs, roughly in msgpack-tool notation.
func (v Value) String() string {
	var sb strings.Builder
	v.format(&sb)
	return sb.String()
}

func (v Value) format(sb *strings.Builder) {
	switch v.kind {
	case KindNil:
		sb.WriteString("nil")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case KindUint:
		sb.WriteString(strconv.FormatUint(v.u, 10))
	case KindFloat:
		sb.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindString:
		sb.WriteString(strconv.Quote(v.s))
	case KindBinary:
		fmt.Fprintf(sb, "bin(%d)", len(v.raw))
	case KindExt:
		fmt.Fprintf(sb, "ext(%d,%x)", v.ext, v.raw)
	case KindArray:
		sb.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.format(sb)
		}
		sb.WriteByte(']')
	case KindMap:
		sb.WriteByte('{')
		for i, p := range v.m {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.Key.format(sb)
			sb.WriteString(": ")
			p.Val.format(sb)
		}
		sb.WriteByte('}')
	}
}
