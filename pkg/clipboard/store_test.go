package clipboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"
)

func TestSelectionsAreIndependent(t *testing.T) {
	s := NewStore()
	s.Primary().SetText("one")
	s.Clipboard().SetText("two")

	if got := s.Primary().Text(); got != "one" {
		t.Errorf("primary = %q, want one", got)
	}
	if got := s.Clipboard().Text(); got != "two" {
		t.Errorf("clipboard = %q, want two", got)
	}
}

func TestWaitForText(t *testing.T) {
	s := NewStore()
	sel := s.Clipboard()

	if _, ok := sel.WaitForText(context.Background()); ok {
		t.Error("empty selection reported text")
	}

	sel.SetText("hello")
	text, ok := sel.WaitForText(context.Background())
	if !ok || text != "hello" {
		t.Errorf("WaitForText = %q, %v", text, ok)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := sel.WaitForText(ctx); ok {
		t.Error("cancelled context still returned text")
	}
}

func TestOSC52Mirroring(t *testing.T) {
	testCases := []struct {
		description string
		primary     bool
		wantTarget  string
	}{
		{"primary selection", true, "p"},
		{"system clipboard", false, "c"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			var out bytes.Buffer
			s := NewStore(WithOSC52(&out))
			sel := s.Clipboard()
			if tc.primary {
				sel = s.Primary()
			}
			sel.SetText("yank")

			want := "\x1b]52;" + tc.wantTarget + ";" + base64.StdEncoding.EncodeToString([]byte("yank"))
			if !strings.HasPrefix(out.String(), want) {
				t.Errorf("osc52 output = %q, want prefix %q", out.String(), want)
			}
		})
	}
}
