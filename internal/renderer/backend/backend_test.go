package backend

import (
	"testing"

	"github.com/dshills/peek64/internal/renderer/core"
)

func TestNullInit(t *testing.T) {
	b := NewNull(80, 24)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	w, h := b.Size()
	if w != 80 || h != 24 {
		t.Errorf("expected size (80, 24), got (%d, %d)", w, h)
	}
}

func TestNullSetGetCell(t *testing.T) {
	b := NewNull(80, 24)
	b.Init()

	cell := core.NewStyledCell('X', core.DefaultStyle().WithForeground(core.ColorFromRGB(255, 0, 0)))
	b.SetCell(10, 5, cell)

	got := b.CellAt(10, 5)
	if !got.Equals(cell) {
		t.Errorf("cell mismatch: expected %+v, got %+v", cell, got)
	}

	// Out of bounds should be ignored/return empty.
	b.SetCell(-1, 0, cell)
	b.SetCell(100, 0, cell)

	empty := b.CellAt(-1, 0)
	if !empty.Equals(core.EmptyCell()) {
		t.Error("out of bounds should return empty cell")
	}
}

func TestNullClear(t *testing.T) {
	b := NewNull(80, 24)
	b.Init()

	b.SetCell(10, 10, core.NewCell('X'))
	b.Clear(core.DefaultStyle())

	got := b.CellAt(10, 10)
	if !got.Equals(core.EmptyCell()) {
		t.Error("clear should reset all cells")
	}
}

func TestNullCursor(t *testing.T) {
	b := NewNull(80, 24)
	b.Init()

	b.ShowCursor(15, 10)
	x, y, visible := b.CursorPosition()
	if x != 15 || y != 10 || !visible {
		t.Errorf("cursor position: expected (15, 10, true), got (%d, %d, %v)", x, y, visible)
	}

	b.HideCursor()
	_, _, visible = b.CursorPosition()
	if visible {
		t.Error("cursor should be hidden")
	}
}

func TestNullRow(t *testing.T) {
	b := NewNull(10, 2)
	b.Init()

	for i, r := range "abc" {
		b.SetCell(i, 0, core.NewCell(r))
	}

	if got := b.Row(0); got != "abc" {
		t.Errorf("Row(0) = %q, want %q", got, "abc")
	}
	if got := b.Row(1); got != "" {
		t.Errorf("Row(1) = %q, want empty", got)
	}
	if got := b.Row(5); got != "" {
		t.Errorf("Row(5) out of range = %q, want empty", got)
	}
}

func TestNullEvents(t *testing.T) {
	b := NewNull(80, 24)
	b.Init()

	b.Inject(Event{Type: EventKey, Key: KeyRune, Rune: 'x'})
	ev := b.PollEvent()
	if ev.Type != EventKey || ev.Rune != 'x' {
		t.Errorf("unexpected event: %+v", ev)
	}

	b.PostInterrupt()
	ev = b.PollEvent()
	if ev.Type != EventInterrupt {
		t.Errorf("expected interrupt, got %+v", ev)
	}
}

func TestNullClipboard(t *testing.T) {
	b := NewNull(80, 24)
	b.Init()

	// With nothing on the clipboard the request is recorded but no
	// event arrives, matching a terminal that denies the read.
	b.RequestClipboard()
	if got := b.ClipboardRequests(); got != 1 {
		t.Errorf("clipboard requests = %d, want 1", got)
	}

	b.SetClipboard("TWFu")
	b.RequestClipboard()
	ev := b.PollEvent()
	if ev.Type != EventClipboard || ev.Text != "TWFu" {
		t.Errorf("unexpected clipboard event: %+v", ev)
	}
}

func TestNullResize(t *testing.T) {
	b := NewNull(80, 24)
	b.Init()

	b.Resize(40, 12)
	ev := b.PollEvent()
	if ev.Type != EventResize || ev.Width != 40 || ev.Height != 12 {
		t.Errorf("unexpected resize event: %+v", ev)
	}

	w, h := b.Size()
	if w != 40 || h != 12 {
		t.Errorf("size after resize = (%d, %d), want (40, 12)", w, h)
	}
}
