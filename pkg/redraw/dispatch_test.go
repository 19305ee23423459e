package redraw

import (
	"errors"
	"io"
	"testing"

	"github.com/bastiangx/redrawd/pkg/decode"
	"github.com/bastiangx/redrawd/pkg/value"
	"github.com/charmbracelet/log"
)

func quietDispatcher(opts ...Option) *Dispatcher {
	opts = append([]Option{WithLogger(log.New(io.Discard))}, opts...)
	return NewDispatcher(opts...)
}

var (
	u   = value.Uint
	i64 = value.Int
	str = value.String
	arr = value.Array
)

func chunk(text string) value.Value {
	return arr(value.StringMap(), str(text))
}

func TestDispatchWellTyped(t *testing.T) {
	testCases := []struct {
		method string
		args   []value.Value
		want   string
	}{
		{"cursor_goto", []value.Value{u(3), u(7)}, "CursorGoto(3,7)"},
		{"put", []value.Value{str("x")}, `Put("x")`},
		{"clear", nil, "Clear()"},
		{"resize", []value.Value{u(80), u(24)}, "Resize(80,24)"},
		{"highlight_set", []value.Value{value.StringMap("bold", true, "italic", false)}, "HighlightSet([bold italic])"},
		{"eol_clear", nil, "EOLClear()"},
		{"set_scroll_region", []value.Value{u(0), u(10), u(0), u(79)}, "SetScrollRegion(0,10,0,79)"},
		{"scroll", []value.Value{i64(-2)}, "Scroll(-2)"},
		{"update_bg", []value.Value{i64(-1)}, "UpdateBg(-1)"},
		{"update_fg", []value.Value{u(0xffffff)}, "UpdateFg(16777215)"},
		{"update_sp", []value.Value{u(255)}, "UpdateSp(255)"},
		{"mode_change", []value.Value{str("insert"), u(1)}, `ModeChange("insert",1)`},
		{"mouse_on", nil, "Mouse(true)"},
		{"mouse_off", nil, "Mouse(false)"},
		{"busy_start", nil, "Busy(true)"},
		{"busy_stop", nil, "Busy(false)"},
		{"popupmenu_show", []value.Value{arr(value.Strings("w", "k", "m", "i")), i64(-1), u(2), u(4)}, "PopupmenuShow(1,-1,2,4)"},
		{"popupmenu_hide", nil, "PopupmenuHide()"},
		{"popupmenu_select", []value.Value{i64(3)}, "PopupmenuSelect(3)"},
		{"tabline_update", []value.Value{NewTabpage(1).Value, arr(value.StringMap("tab", NewTabpage(1).Value, "name", "a.go"))}, "TablineUpdate(1,1)"},
		{"mode_info_set", []value.Value{value.Bool(true), arr(value.StringMap("cursor_shape", "block", "name", "normal"))}, "ModeInfoSet(true,1)"},
		{"cmdline_show", []value.Value{arr(chunk("ec"), chunk("ho")), u(4), str(":"), str(""), u(0), u(1)}, `CmdlineShow("echo",4,":","",0,1)`},
		{"cmdline_hide", []value.Value{u(1)}, "CmdlineHide(1)"},
		{"cmdline_block_show", []value.Value{arr(arr(chunk("a")), arr(chunk("b")))}, "CmdlineBlockShow(2)"},
		{"cmdline_block_append", []value.Value{arr(chunk("c"))}, `CmdlineBlockAppend("c")`},
		{"cmdline_block_hide", nil, "CmdlineBlockHide()"},
		{"cmdline_pos", []value.Value{u(2), u(1)}, "CmdlinePos(2,1)"},
		{"cmdline_special_char", []value.Value{str("^V"), value.Bool(true), u(1)}, `CmdlineSpecialChar("^V",true,1)`},
	}

	d := quietDispatcher()
	for _, tc := range testCases {
		t.Run(tc.method, func(t *testing.T) {
			sink := &recorder{outcome: Cursor(1, 1)}
			got, err := d.Dispatch(sink, tc.method, tc.args)
			if err != nil {
				t.Fatalf("Dispatch(%s) error: %v", tc.method, err)
			}
			if len(sink.calls) != 1 || sink.calls[0] != tc.want {
				t.Fatalf("sink calls = %v, want [%s]", sink.calls, tc.want)
			}
			if got != sink.outcome {
				t.Errorf("repaint = %s, want the sink's %s", got, sink.outcome)
			}
		})
	}
}

func TestDispatchMissingArgument(t *testing.T) {
	d := quietDispatcher()
	for _, method := range d.Table().Methods("") {
		entry, _ := d.Table().Lookup(method)
		if len(entry.Kinds) == 0 {
			continue
		}
		t.Run(method, func(t *testing.T) {
			sink := &recorder{}
			args := make([]value.Value, len(entry.Kinds)-1)
			for i := range args {
				args[i] = value.Nil()
			}
			_, err := d.Dispatch(sink, method, args)
			var missing *MissingArgumentError
			if !errors.As(err, &missing) {
				t.Fatalf("error = %v, want MissingArgumentError", err)
			}
			if missing.Index != len(args) || missing.Method != method {
				t.Errorf("missing = %+v", missing)
			}
			if len(sink.calls) != 0 {
				t.Errorf("sink was mutated: %v", sink.calls)
			}
		})
	}
}

func TestDispatchTypeErrorsLeaveSinkUntouched(t *testing.T) {
	testCases := []struct {
		description string
		method      string
		args        []value.Value
		wantErr     error
	}{
		{"string for uint", "cursor_goto", []value.Value{str("3"), u(1)}, decode.ErrTypeMismatch},
		{"second arg wrong", "cursor_goto", []value.Value{u(3), i64(-1)}, decode.ErrTypeMismatch},
		{"invalid utf8 put", "put", []value.Value{str("\xff")}, decode.ErrInvalidText},
		{"highlight not a map", "highlight_set", []value.Value{u(1)}, decode.ErrTypeMismatch},
		{"menu not array of arrays", "popupmenu_show", []value.Value{arr(str("w")), i64(0), u(0), u(0)}, decode.ErrTypeMismatch},
		{"menu row with 3 cells", "popupmenu_show", []value.Value{arr(value.Strings("w", "k", "m", "i"), value.Strings("w", "k", "m")), i64(0), u(0), u(0)}, decode.ErrShapeMismatch},
		{"tab row without tab key", "tabline_update", []value.Value{NewTabpage(1).Value, arr(value.StringMap("name", "a"))}, decode.ErrMissingField},
		{"cmdline chunk not a pair", "cmdline_show", []value.Value{arr(str("x")), u(0), str(":"), str(""), u(0), u(1)}, decode.ErrTypeMismatch},
		{"mode info not bool", "mode_info_set", []value.Value{u(1), arr()}, decode.ErrTypeMismatch},
	}

	d := quietDispatcher()
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			sink := &recorder{}
			_, err := d.Dispatch(sink, tc.method, tc.args)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
			var callErr *CallError
			if !errors.As(err, &callErr) || callErr.Method != tc.method {
				t.Errorf("error %v does not name method %s", err, tc.method)
			}
			if len(sink.calls) != 0 {
				t.Errorf("sink was mutated: %v", sink.calls)
			}
		})
	}
}

func TestModeInfoErrorPropagates(t *testing.T) {
	d := quietDispatcher()
	sink := &recorder{}
	modes := arr(value.StringMap("cursor_shape", "triangle"))
	_, err := d.Dispatch(sink, "mode_info_set", []value.Value{value.Bool(true), modes})
	if err == nil {
		t.Fatal("expected an error for an unknown cursor shape")
	}
	if len(sink.calls) != 0 {
		t.Errorf("sink was mutated: %v", sink.calls)
	}
}

func TestPopupmenuItems(t *testing.T) {
	d := quietDispatcher()
	sink := &recorder{}
	menu := arr(value.Strings("word", "kind", "menu", "info", "extra"))
	if _, err := d.Dispatch(sink, "popupmenu_show", []value.Value{menu, i64(0), u(1), u(2)}); err != nil {
		t.Fatal(err)
	}
	want := CompleteItem{Word: "word", Kind: "kind", Menu: "menu", Info: "info"}
	if len(sink.items) != 1 || sink.items[0] != want {
		t.Errorf("items = %+v, want [%+v]", sink.items, want)
	}
}

func TestTablineNames(t *testing.T) {
	d := quietDispatcher()
	sink := &recorder{}
	tabs := arr(
		value.StringMap("tab", NewTabpage(1).Value, "name", "a.go"),
		value.StringMap("tab", NewTabpage(2).Value),
	)
	if _, err := d.Dispatch(sink, "tabline_update", []value.Value{NewTabpage(2).Value, tabs}); err != nil {
		t.Fatal(err)
	}
	if len(sink.tabs) != 2 {
		t.Fatalf("tabs = %+v", sink.tabs)
	}
	if sink.tabs[0].Name == nil || *sink.tabs[0].Name != "a.go" {
		t.Errorf("first tab name = %v", sink.tabs[0].Name)
	}
	if sink.tabs[1].Name != nil {
		t.Errorf("second tab name = %q, want nil", *sink.tabs[1].Name)
	}
	if h, ok := sink.tabs[1].Page.Handle(); !ok || h != 2 {
		t.Errorf("second tab handle = %d, %v", h, ok)
	}
}

func TestUnknownMethodIsIgnored(t *testing.T) {
	d := quietDispatcher()
	sink := &recorder{outcome: Full()}
	got, err := d.Dispatch(sink, "future_feature", []value.Value{u(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Nothing() {
		t.Errorf("repaint = %s, want nothing", got)
	}
	if len(sink.calls) != 0 {
		t.Errorf("sink was called: %v", sink.calls)
	}
}

func TestExtraArgumentsAreIgnored(t *testing.T) {
	d := quietDispatcher()
	sink := &recorder{}
	if _, err := d.Dispatch(sink, "cursor_goto", []value.Value{u(1), u(2), str("new")}); err != nil {
		t.Fatal(err)
	}
	if sink.calls[0] != "CursorGoto(1,2)" {
		t.Errorf("calls = %v", sink.calls)
	}
}

func TestOptionalCapabilities(t *testing.T) {
	d := quietDispatcher()

	plain := &recorder{outcome: Full()}
	got, err := d.Dispatch(plain, "set_title", []value.Value{str("vim")})
	if err != nil || got != Nothing() || len(plain.calls) != 0 {
		t.Errorf("plain sink: repaint %s, err %v, calls %v", got, err, plain.calls)
	}

	withTitle := &titled{}
	if _, err := d.Dispatch(withTitle, "set_title", []value.Value{str("vim")}); err != nil {
		t.Fatal(err)
	}
	if withTitle.title != "vim" {
		t.Errorf("title = %q", withTitle.title)
	}
}

func TestBatchIsolatesFailures(t *testing.T) {
	var reported []string
	d := quietDispatcher(WithErrorHandler(func(call Call, err error) {
		reported = append(reported, call.Method)
	}))

	sink := &recorder{outcome: Area(1, 1, 0, 3)}
	calls := []Call{
		{Method: "put", Args: []value.Value{str("a")}},
		{Method: "cursor_goto", Args: []value.Value{u(1)}},
		{Method: "future_feature"},
		{Method: "put", Args: []value.Value{str("b")}},
	}

	got, err := d.Batch(sink, calls)
	if !errors.Is(err, ErrMissingArgument) {
		t.Fatalf("batch error = %v, want missing argument", err)
	}
	if len(reported) != 1 || reported[0] != "cursor_goto" {
		t.Errorf("reported = %v", reported)
	}
	want := []string{`Put("a")`, `Put("b")`}
	if len(sink.calls) != 2 || sink.calls[0] != want[0] || sink.calls[1] != want[1] {
		t.Errorf("calls = %v, want %v", sink.calls, want)
	}
	if len(sink.redraws) != 1 || sink.redraws[0] != got {
		t.Errorf("OnRedraw calls = %v, want exactly [%s]", sink.redraws, got)
	}
	if got != Area(1, 1, 0, 3) {
		t.Errorf("repaint = %s", got)
	}
}

func TestEmptyBatchStillNotifies(t *testing.T) {
	sink := &recorder{}
	got, err := quietDispatcher().Batch(sink, nil)
	if err != nil || got != Nothing() {
		t.Fatalf("Batch(nil) = %s, %v", got, err)
	}
	if len(sink.redraws) != 1 {
		t.Errorf("OnRedraw called %d times", len(sink.redraws))
	}
}

func TestTableMethodsByPrefix(t *testing.T) {
	table := DefaultTable()
	got := table.Methods("popupmenu_")
	want := []string{"popupmenu_hide", "popupmenu_select", "popupmenu_show"}
	if len(got) != len(want) {
		t.Fatalf("Methods(popupmenu_) = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Methods[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if table.Len() != len(table.Methods("")) {
		t.Errorf("Len() = %d, listed %d", table.Len(), len(table.Methods("")))
	}
}

func TestRegisterReplaces(t *testing.T) {
	table := DefaultTable()
	n := table.Len()
	table.Register("put", nil, fixed(func(Sink) Repaint { return Full() }))
	if table.Len() != n {
		t.Errorf("Len changed from %d to %d on replace", n, table.Len())
	}
	d := quietDispatcher(WithTable(table))
	got, err := d.Dispatch(&recorder{}, "put", nil)
	if err != nil || got != Full() {
		t.Errorf("replaced put = %s, %v", got, err)
	}
}
