package server

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/bastiangx/redrawd/pkg/clipboard"
	"github.com/bastiangx/redrawd/pkg/gui"
	"github.com/bastiangx/redrawd/pkg/redraw"
	"github.com/bastiangx/redrawd/pkg/screen"
	"github.com/bastiangx/redrawd/pkg/value"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

func stream(t *testing.T, msgs ...value.Value) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	for _, m := range msgs {
		if err := enc.Encode(m); err != nil {
			t.Fatal(err)
		}
	}
	return &buf
}

func notification(method string, params ...value.Value) value.Value {
	return value.Array(value.Uint(typeNotification), value.String(method), value.Array(params...))
}

func request(id uint64, method string, params ...value.Value) value.Value {
	return value.Array(value.Uint(typeRequest), value.Uint(id), value.String(method), value.Array(params...))
}

func responses(t *testing.T, out *bytes.Buffer) []value.Value {
	t.Helper()
	dec := msgpack.NewDecoder(out)
	var got []value.Value
	for out.Len() > 0 {
		v, err := value.Decode(dec)
		if err != nil {
			t.Fatalf("decode response: %v", err)
		}
		got = append(got, v)
	}
	return got
}

type fixture struct {
	screen *screen.Screen
	store  *clipboard.Store
	out    *bytes.Buffer
}

func serve(t *testing.T, in io.Reader) fixture {
	t.Helper()
	store := clipboard.NewStore()
	scr := screen.New(10, 3, screen.WithClipboard(store))
	logger := log.New(io.Discard)
	router := NewRouter(gui.NewShared[UI](scr), nil, logger)

	var out bytes.Buffer
	srv := NewServer(router, WithIO(in, &out), WithLogger(logger))
	if err := srv.Serve(context.Background()); err != nil {
		t.Fatalf("Serve error: %v", err)
	}
	return fixture{screen: scr, store: store, out: &out}
}

func TestServeRedrawNotification(t *testing.T) {
	in := stream(t,
		notification("redraw",
			value.Array(value.String("cursor_goto"), value.Array(value.Uint(0), value.Uint(3))),
			value.Array(value.String("put"), value.Array(value.String("o")), value.Array(value.String("k"))),
		),
	)
	f := serve(t, in)

	if got := f.screen.Line(0); got != "   ok     " {
		t.Errorf("line 0 = %q", got)
	}
	n, last := f.screen.Redraws()
	if n != 1 || last != redraw.Area(0, 0, 3, 4) {
		t.Errorf("redraws = %d, last %s", n, last)
	}
	if f.out.Len() != 0 {
		t.Errorf("notification produced %d bytes of output", f.out.Len())
	}
}

func TestServeGuiCommandAndRequest(t *testing.T) {
	in := stream(t,
		notification("Gui", value.String("Font"), value.String("Mono 12")),
		notification("Gui", value.String("Clipboard"), value.String("Set"), value.String("+"), value.String("a\nb")),
		request(7, "Gui", value.String("Clipboard"), value.String("Get"), value.String("+")),
		request(8, "Gui", value.String("Clipboard"), value.String("Get"), value.String("*")),
	)
	f := serve(t, in)

	if f.screen.Font() != "Mono 12" {
		t.Errorf("font = %q", f.screen.Font())
	}
	got := responses(t, f.out)
	want := []value.Value{
		value.Array(value.Uint(typeResponse), value.Uint(7), value.Nil(), value.Strings("a", "b")),
		value.Array(value.Uint(typeResponse), value.Uint(8), value.Nil(), value.Strings("")),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d responses, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("response %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestServeRequestErrors(t *testing.T) {
	testCases := []struct {
		description string
		msg         value.Value
		wantErrKind value.Kind
	}{
		{"unsupported gui request", request(1, "Gui", value.String("Bogus")), value.KindString},
		{"unknown clipboard option", request(1, "Gui", value.String("Clipboard"), value.String("Put")), value.KindNil},
		{"unknown method", request(1, "nvim_eval", value.String("1")), value.KindString},
		{"missing sub-command", request(1, "Gui"), value.KindString},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			f := serve(t, stream(t, tc.msg))
			got := responses(t, f.out)
			if len(got) != 1 {
				t.Fatalf("got %d responses, want 1", len(got))
			}
			items, _ := got[0].AsArray()
			if len(items) != 4 || items[2].Kind() != tc.wantErrKind || !items[3].IsNil() {
				t.Errorf("response = %s", got[0])
			}
		})
	}
}

func TestServeSkipsMalformedMessages(t *testing.T) {
	in := stream(t,
		value.String("not an array"),
		value.Array(value.Uint(9)),
		value.Array(value.Uint(typeNotification), value.Uint(1), value.Array()),
		value.Array(value.Uint(typeRequest), value.String("id"), value.String("Gui"), value.Array()),
		value.Array(value.Uint(typeResponse), value.Uint(1), value.Nil(), value.Nil()),
		notification("redraw", value.Array(value.String("put"), value.Array(value.String("x")))),
	)
	f := serve(t, in)
	if got := f.screen.Line(0); got[0] != 'x' {
		t.Errorf("line 0 = %q, want the put after the malformed messages", got)
	}
}

func TestServeStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	router := NewRouter(gui.NewShared[UI](screen.New(1, 1)), nil, log.New(io.Discard))
	srv := NewServer(router, WithIO(stream(t, notification("redraw")), io.Discard))
	if err := srv.Serve(ctx); err != context.Canceled {
		t.Errorf("Serve = %v, want context.Canceled", err)
	}
}

func TestRouterIgnoresUnknownNotification(t *testing.T) {
	scr := screen.New(2, 1)
	router := NewRouter(gui.NewShared[UI](scr), nil, log.New(io.Discard))
	router.HandleNotification("nvim_buf_lines_event", nil)
	if n, _ := scr.Redraws(); n != 0 {
		t.Errorf("unknown notification ran %d batches", n)
	}
}

func TestServeHostileInput(t *testing.T) {
	huge := value.Uint(1 << 40)
	resize := stream(t, notification("redraw",
		value.Array(value.String("resize"), value.Array(huge, huge)),
		value.Array(value.String("set_scroll_region"), value.Array(huge, huge, huge, huge)),
		value.Array(value.String("scroll"), value.Array(value.Int(-1<<63))),
	)).Bytes()

	testCases := []struct {
		description string
		data        []byte
		wantErr     bool
	}{
		{"truncated array32 message", []byte{0xdd, 0xff, 0xff, 0xff, 0xff}, true},
		{"truncated map32 message", []byte{0xdf, 0xff, 0xff, 0xff, 0xff}, true},
		{"truncated params", []byte{0x93, 0x02, 0xa6, 'r', 'e', 'd', 'r', 'a', 'w', 0xdd, 0xff, 0xff, 0xff, 0xff}, true},
		{"truncated ext32", []byte{0xc9, 0xff, 0xff, 0xff, 0xff, 0x02}, true},
		{"extreme geometry", resize, false},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			scr := screen.New(10, 3)
			router := NewRouter(gui.NewShared[UI](scr), nil, log.New(io.Discard))
			srv := NewServer(router, WithIO(bytes.NewReader(tc.data), io.Discard), WithLogger(log.New(io.Discard)))
			err := srv.Serve(context.Background())
			if (err != nil) != tc.wantErr {
				t.Fatalf("Serve error = %v, wantErr %v", err, tc.wantErr)
			}
			if cols, rows := scr.Size(); cols != 10 || rows != 3 {
				t.Errorf("size = %dx%d, want 10x3", cols, rows)
			}
		})
	}
}
