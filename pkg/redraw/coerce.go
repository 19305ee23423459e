package redraw

import (
	"fmt"

	"github.com/bastiangx/redrawd/pkg/decode"
	"github.com/bastiangx/redrawd/pkg/value"
)

// ArgKind is the primitive type expected at one argument position.
type ArgKind uint8

const (
	ArgString ArgKind = iota
	ArgBool
	ArgUint
	ArgInt
	// ArgStructural keeps the raw value for a shape chosen by the method.
	ArgStructural
)

func (k ArgKind) String() string {
	switch k {
	case ArgString:
		return "string"
	case ArgBool:
		return "bool"
	case ArgUint:
		return "uint"
	case ArgInt:
		return "int"
	case ArgStructural:
		return "structural"
	}
	return fmt.Sprintf("argkind(%d)", uint8(k))
}

// Arg is a coerced argument. Only the field matching Kind is set.
type Arg struct {
	Kind ArgKind
	Str  string
	Bool bool
	Uint uint64
	Int  int64
	Raw  value.Value
}

// Coerce converts one wire value to the given kind.
func Coerce(v value.Value, kind ArgKind) (Arg, error) {
	arg := Arg{Kind: kind}
	var err error
	switch kind {
	case ArgString:
		arg.Str, err = decode.String.Decode(v)
	case ArgBool:
		arg.Bool, err = decode.Bool.Decode(v)
	case ArgUint:
		arg.Uint, err = decode.Uint.Decode(v)
	case ArgInt:
		arg.Int, err = decode.Int.Decode(v)
	case ArgStructural:
		arg.Raw = v
	default:
		err = fmt.Errorf("redraw: unknown argument kind %s", kind)
	}
	return arg, err
}

// CoerceAll converts a call's arguments positionally. It fails on the first
// missing or ill-typed argument and returns nothing partial. Trailing
// arguments beyond kinds are ignored so newer editors can extend events.
func CoerceAll(method string, kinds []ArgKind, args []value.Value) ([]Arg, error) {
	if len(args) < len(kinds) {
		return nil, &MissingArgumentError{Method: method, Index: len(args)}
	}
	out := make([]Arg, len(kinds))
	for i, kind := range kinds {
		arg, err := Coerce(args[i], kind)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = arg
	}
	return out, nil
}
