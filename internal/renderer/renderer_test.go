package renderer

import (
	"testing"

	"github.com/dshills/peek64/internal/renderer/backend"
)

func newTestRenderer(t *testing.T, w, h int) (*Renderer, *backend.Null) {
	t.Helper()
	b := backend.NewNull(w, h)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return New(b), b
}

func TestDrawRows(t *testing.T) {
	r, b := newTestRenderer(t, 40, 10)

	r.Draw(Frame{
		Input:        "TWFu",
		Decoded:      "Man",
		InputRunes:   4,
		DecodedBytes: 3,
	})

	if got := b.Row(0); got != "TWFu" {
		t.Errorf("input row = %q, want %q", got, "TWFu")
	}
	if got := b.Row(1); got != "4 chars -> 3 bytes" {
		t.Errorf("status row = %q, want %q", got, "4 chars -> 3 bytes")
	}
	if got := b.Row(9); got != "Man" {
		t.Errorf("decoded row = %q, want %q", got, "Man")
	}
}

func TestDrawCursorFollowsInput(t *testing.T) {
	r, b := newTestRenderer(t, 40, 10)

	r.Draw(Frame{Input: "abc"})

	x, y, visible := b.CursorPosition()
	if !visible {
		t.Fatal("cursor should be visible")
	}
	if x != 3 || y != 0 {
		t.Errorf("cursor at (%d, %d), want (3, 0)", x, y)
	}
}

func TestDrawStatusInvalidAndFilter(t *testing.T) {
	r, b := newTestRenderer(t, 60, 10)

	r.Draw(Frame{
		Input:        "a!b@",
		InputRunes:   4,
		DecodedBytes: 1,
		InvalidRunes: 2,
		FilterName:   "rot13.lua",
	})

	want := "4 chars -> 1 bytes, 2 invalid | filter: rot13.lua"
	if got := b.Row(1); got != want {
		t.Errorf("status row = %q, want %q", got, want)
	}
}

func TestDrawTailClipsLongInput(t *testing.T) {
	r, b := newTestRenderer(t, 10, 10)

	r.Draw(Frame{Input: "abcdefghijklmnop"})

	// Width 10, one cell reserved for the cursor: last nine runes.
	if got := b.Row(0); got != "hijklmnop" {
		t.Errorf("input row = %q, want %q", got, "hijklmnop")
	}
	x, _, _ := b.CursorPosition()
	if x != 9 {
		t.Errorf("cursor x = %d, want 9", x)
	}
}

func TestDrawWideRunes(t *testing.T) {
	r, b := newTestRenderer(t, 40, 10)

	r.Draw(Frame{Input: "日Q"})

	if got := b.CellAt(0, 0).Rune; got != '日' {
		t.Errorf("cell (0,0) = %q, want %q", got, '日')
	}
	// The wide rune owns two columns; the next rune lands after it.
	if got := b.CellAt(2, 0).Rune; got != 'Q' {
		t.Errorf("cell (2,0) = %q, want %q", got, 'Q')
	}
	x, _, _ := b.CursorPosition()
	if x != 3 {
		t.Errorf("cursor x = %d, want 3 (cells, not runes)", x)
	}
}

func TestDrawTailClipWideRunes(t *testing.T) {
	r, b := newTestRenderer(t, 4, 10)

	// Width 4, one cell reserved for the cursor: of the six-cell string
	// only the last rune (two cells) fits in the remaining three.
	r.Draw(Frame{Input: "日本語"})

	if got := b.CellAt(0, 0).Rune; got != '語' {
		t.Errorf("cell (0,0) = %q, want %q", got, '語')
	}
	x, _, _ := b.CursorPosition()
	if x != 2 {
		t.Errorf("cursor x = %d, want 2", x)
	}
}

func TestTextWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"日本", 4},
		{"a日b", 4},
		{"a\nb", 3}, // control runes draw as single blanks
	}

	for _, tt := range tests {
		if got := textWidth(tt.in); got != tt.want {
			t.Errorf("textWidth(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDrawTinyScreen(t *testing.T) {
	r, b := newTestRenderer(t, 20, 2)

	r.Draw(Frame{Input: "QQ", Decoded: "A"})

	// Height 2: no room for the status row; decoded takes the bottom row.
	if got := b.Row(0); got != "QQ" {
		t.Errorf("input row = %q, want %q", got, "QQ")
	}
	if got := b.Row(1); got != "A" {
		t.Errorf("decoded row = %q, want %q", got, "A")
	}
}

func TestDrawZeroSize(t *testing.T) {
	r, _ := newTestRenderer(t, 0, 0)

	// Must not panic.
	r.Draw(Frame{Input: "abc"})
}

func TestResize(t *testing.T) {
	r, b := newTestRenderer(t, 40, 10)

	b.Resize(5, 10)
	r.Resize(5, 10)
	r.Draw(Frame{Input: "abcdefgh"})

	if got := b.Row(0); got != "efgh" {
		t.Errorf("input row after resize = %q, want %q", got, "efgh")
	}
}
