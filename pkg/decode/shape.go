/*
Package decode converts untyped wire values into statically shaped Go values.

A Shape describes what a value must look like and how to build the typed
result. Shapes compose: scalars, string-keyed attribute maps, records with
required keys, homogeneous sequences and two-element pairs.

	chunk := decode.PairOf(decode.AttrMap, decode.String)
	line := decode.SeqOf(chunk)
	content, err := line.Decode(v)

Decoding never panics on malformed input; every failure is an *Error that
names the path of the offending value.
*/
package decode

import (
	"fmt"
	"strconv"

	"github.com/bastiangx/redrawd/pkg/value"
)

// Shape is a typed description of an expected wire value.
type Shape[T any] struct {
	name   string
	decode func(v value.Value, path string) (T, error)
}

// Name describes the shape in error messages.
func (s Shape[T]) Name() string { return s.name }

// Decode converts v into T or reports why it cannot.
func (s Shape[T]) Decode(v value.Value) (T, error) {
	return s.decode(v, "")
}

// Pair is the result of a PairOf shape.
type Pair[A, B any] struct {
	First  A
	Second B
}

var (
	String = Shape[string]{name: "string", decode: decodeString}

	Bool = Shape[bool]{name: "bool", decode: func(v value.Value, path string) (bool, error) {
		b, ok := v.AsBool()
		if !ok {
			return false, mismatch(path, "bool", v)
		}
		return b, nil
	}}

	Uint = Shape[uint64]{name: "uint", decode: func(v value.Value, path string) (uint64, error) {
		u, ok := v.AsUint64()
		if !ok {
			return 0, mismatch(path, "uint", v)
		}
		return u, nil
	}}

	Int = Shape[int64]{name: "int", decode: func(v value.Value, path string) (int64, error) {
		i, ok := v.AsInt64()
		if !ok {
			return 0, mismatch(path, "int", v)
		}
		return i, nil
	}}

	Float = Shape[float64]{name: "float", decode: func(v value.Value, path string) (float64, error) {
		f, ok := v.AsFloat64()
		if !ok {
			return 0, mismatch(path, "float", v)
		}
		return f, nil
	}}

	// Raw accepts any value unchanged.
	Raw = Shape[value.Value]{name: "any", decode: func(v value.Value, _ string) (value.Value, error) {
		return v, nil
	}}

	// AttrMap accepts a map with string keys. Duplicate keys keep the last value.
	AttrMap = Shape[Attrs]{name: "map", decode: decodeAttrs}

	// Strings is a sequence of strings.
	Strings = SeqOf(String)
)

func decodeString(v value.Value, path string) (string, error) {
	raw, ok := v.RawString()
	if !ok {
		return "", mismatch(path, "string", v)
	}
	s, ok := v.AsString()
	if !ok {
		return "", &Error{Kind: ErrInvalidText, Path: path, Expected: "utf-8 string", Actual: v.Kind(), Detail: strconv.Quote(raw)}
	}
	return s, nil
}

func decodeAttrs(v value.Value, path string) (Attrs, error) {
	pairs, ok := v.AsMap()
	if !ok {
		return nil, mismatch(path, "map", v)
	}
	attrs := make(Attrs, len(pairs))
	for i, p := range pairs {
		key, err := decodeString(p.Key, index(path, i)+".key")
		if err != nil {
			return nil, err
		}
		attrs[key] = p.Val
	}
	return attrs, nil
}

// Record is an attribute map that must carry every required key.
func Record(required ...string) Shape[Attrs] {
	return Shape[Attrs]{
		name: fmt.Sprintf("map with keys %v", required),
		decode: func(v value.Value, path string) (Attrs, error) {
			attrs, err := decodeAttrs(v, path)
			if err != nil {
				return nil, err
			}
			for _, key := range required {
				if _, ok := attrs[key]; !ok {
					return nil, &Error{Kind: ErrMissingField, Path: path, Expected: "map", Actual: v.Kind(), Detail: key}
				}
			}
			return attrs, nil
		},
	}
}

// SeqOf accepts an array whose every element has the elem shape.
func SeqOf[T any](elem Shape[T]) Shape[[]T] {
	return Shape[[]T]{
		name: "[]" + elem.name,
		decode: func(v value.Value, path string) ([]T, error) {
			items, ok := v.AsArray()
			if !ok {
				return nil, mismatch(path, "array of "+elem.name, v)
			}
			out := make([]T, len(items))
			for i, item := range items {
				decoded, err := elem.decode(item, index(path, i))
				if err != nil {
					return nil, err
				}
				out[i] = decoded
			}
			return out, nil
		},
	}
}

// PairOf accepts a two-element array such as an (attributes, text) chunk.
func PairOf[A, B any](a Shape[A], b Shape[B]) Shape[Pair[A, B]] {
	return Shape[Pair[A, B]]{
		name: "(" + a.name + ", " + b.name + ")",
		decode: func(v value.Value, path string) (Pair[A, B], error) {
			var out Pair[A, B]
			items, ok := v.AsArray()
			if !ok {
				return out, mismatch(path, "pair", v)
			}
			if len(items) != 2 {
				return out, &Error{Kind: ErrShapeMismatch, Path: path, Expected: "pair", Actual: v.Kind(),
					Detail: fmt.Sprintf("got %d elements", len(items))}
			}
			var err error
			if out.First, err = a.decode(items[0], index(path, 0)); err != nil {
				return out, err
			}
			if out.Second, err = b.decode(items[1], index(path, 1)); err != nil {
				return out, err
			}
			return out, nil
		},
	}
}

// AtLeast requires a decoded sequence to hold at least n elements.
func AtLeast[T any](s Shape[[]T], n int) Shape[[]T] {
	return Shape[[]T]{
		name: fmt.Sprintf("%s with at least %d elements", s.name, n),
		decode: func(v value.Value, path string) ([]T, error) {
			out, err := s.decode(v, path)
			if err != nil {
				return nil, err
			}
			if len(out) < n {
				return nil, &Error{Kind: ErrShapeMismatch, Path: path, Expected: s.name, Actual: v.Kind(),
					Detail: fmt.Sprintf("got %d of %d required elements", len(out), n)}
			}
			return out, nil
		},
	}
}

// Then builds a shape that decodes with s and converts the result with fn.
// Errors from fn are reported at the path of the value being converted.
func Then[T, U any](s Shape[T], name string, fn func(T) (U, error)) Shape[U] {
	return Shape[U]{
		name: name,
		decode: func(v value.Value, path string) (U, error) {
			var zero U
			decoded, err := s.decode(v, path)
			if err != nil {
				return zero, err
			}
			out, err := fn(decoded)
			if err != nil {
				if path == "" {
					return zero, err
				}
				return zero, fmt.Errorf("%s: %w", path, err)
			}
			return out, nil
		},
	}
}

func index(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
