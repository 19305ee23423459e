package cli

import (
	"fmt"
	"strings"

	"github.com/bastiangx/redrawd/pkg/redraw"
	"github.com/bastiangx/redrawd/pkg/value"
	"github.com/tidwall/gjson"
)

// tabpageKey marks a JSON object standing for a tabpage handle:
// {"$tabpage": 1}.
const tabpageKey = "$tabpage"

// ParseArgs parses a JSON array into call arguments. Integers without a
// fraction or exponent become Uint, or Int when negative.
func ParseArgs(s string) ([]value.Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !gjson.Valid(s) {
		return nil, fmt.Errorf("invalid JSON: %s", s)
	}
	res := gjson.Parse(s)
	if !res.IsArray() {
		return nil, fmt.Errorf("arguments must be a JSON array, got %s", res.Type)
	}
	args, _ := fromJSON(res).AsArray()
	return args, nil
}

func fromJSON(r gjson.Result) value.Value {
	switch r.Type {
	case gjson.Null:
		return value.Nil()
	case gjson.False:
		return value.Bool(false)
	case gjson.True:
		return value.Bool(true)
	case gjson.String:
		return value.String(r.Str)
	case gjson.Number:
		switch {
		case strings.ContainsAny(r.Raw, ".eE"):
			return value.Float(r.Num)
		case strings.HasPrefix(r.Raw, "-"):
			return value.Int(r.Int())
		default:
			return value.Uint(r.Uint())
		}
	}

	if r.IsArray() {
		var items []value.Value
		r.ForEach(func(_, v gjson.Result) bool {
			items = append(items, fromJSON(v))
			return true
		})
		return value.Array(items...)
	}

	if m := r.Map(); len(m) == 1 {
		if h, ok := m[tabpageKey]; ok {
			return redraw.NewTabpage(h.Int()).Value
		}
	}
	var pairs []value.Pair
	r.ForEach(func(k, v gjson.Result) bool {
		pairs = append(pairs, value.Pair{Key: value.String(k.Str), Val: fromJSON(v)})
		return true
	})
	return value.Map(pairs...)
}
