package redraw

import (
	"errors"
	"testing"

	"github.com/bastiangx/redrawd/pkg/decode"
	"github.com/bastiangx/redrawd/pkg/value"
)

func TestParseRedrawFlattensInOrder(t *testing.T) {
	params := []value.Value{
		value.Array(value.String("cursor_goto"), value.Array(value.Uint(0), value.Uint(0))),
		value.Array(value.String("put"),
			value.Array(value.String("a")),
			value.Array(value.String("b")),
		),
		value.Array(value.String("clear"), value.Array()),
	}

	calls, err := ParseRedraw(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"cursor_goto", "put", "put", "clear"}
	if len(calls) != len(want) {
		t.Fatalf("got %d calls, want %d", len(calls), len(want))
	}
	for i, m := range want {
		if calls[i].Method != m {
			t.Errorf("call %d = %s, want %s", i, calls[i].Method, m)
		}
	}
	if s, _ := calls[2].Args[0].AsString(); s != "b" {
		t.Errorf("third call arg = %s, want b", calls[2].Args[0])
	}
}

func TestParseRedrawSkipsMalformedUpdates(t *testing.T) {
	params := []value.Value{
		value.Uint(7),
		value.Array(value.Uint(1), value.Array()),
		value.Array(value.String("put"), value.String("not a tuple"), value.Array(value.String("x"))),
	}

	calls, err := ParseRedraw(params)
	if err == nil {
		t.Fatal("expected an error for malformed updates")
	}
	if !errors.Is(err, decode.ErrShapeMismatch) || !errors.Is(err, decode.ErrTypeMismatch) {
		t.Errorf("error = %v", err)
	}
	if len(calls) != 1 || calls[0].Method != "put" {
		t.Errorf("calls = %+v, want the single valid put", calls)
	}
}
