// Package backend provides terminal backend abstraction for the renderer.
package backend

import (
	"sync"

	"github.com/dshills/peek64/internal/renderer/core"
)

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	// EventPasteStart and EventPasteEnd bracket a paste; the pasted text
	// arrives as ordinary key events between them.
	EventPasteStart
	EventPasteEnd
	// EventClipboard carries text fetched via RequestClipboard.
	EventClipboard
	EventInterrupt
)

// Key represents a keyboard key.
type Key int

// Key constants for the keys the application handles.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyBackspace
	KeyCtrlC
	KeyCtrlQ
	KeyCtrlU
	KeyCtrlV
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune

	// Resize event fields
	Width, Height int

	// Clipboard event field
	Text string
}

// Backend defines the interface for terminal/display backends.
// Implementations handle actual drawing to the terminal or other surfaces.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Fini releases backend resources and restores terminal state.
	Fini()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetCell sets a single cell at the given position.
	// Positions outside the terminal are silently ignored.
	SetCell(x, y int, cell core.Cell)

	// Clear clears the entire screen with the given style.
	Clear(style core.Style)

	// Show synchronizes the internal buffer with the actual display.
	Show()

	// ShowCursor positions and displays the cursor.
	ShowCursor(x, y int)

	// HideCursor hides the cursor.
	HideCursor()

	// EnablePaste enables bracketed paste mode.
	EnablePaste()

	// RequestClipboard asks the terminal for its clipboard contents.
	// The response, if the terminal grants it, arrives later as an
	// EventClipboard from PollEvent.
	RequestClipboard()

	// PollEvent waits for and returns the next terminal event.
	// This is a blocking call.
	PollEvent() Event

	// PostInterrupt posts an interrupt event, waking a PollEvent caller.
	// Safe to call from any goroutine.
	PostInterrupt()
}

// Null is an in-memory backend for testing. Events are injected with
// Inject and screen contents inspected with Row. Like Terminal, it is safe
// for concurrent use.
type Null struct {
	mu            sync.Mutex
	width, height int
	cells         [][]core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	pasteEnabled  bool
	clipboard     string
	clipRequests  int
	events        chan Event
}

// NewNull creates a null backend with the given dimensions.
func NewNull(width, height int) *Null {
	return &Null{
		width:  width,
		height: height,
		events: make(chan Event, 100),
	}
}

func (b *Null) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.reset()
	return nil
}

// reset rebuilds the cell grid. Caller holds b.mu.
func (b *Null) reset() {
	b.cells = make([][]core.Cell, b.height)
	for y := range b.cells {
		b.cells[y] = make([]core.Cell, b.width)
		for x := range b.cells[y] {
			b.cells[y][x] = core.EmptyCell()
		}
	}
}

func (b *Null) Fini() {}

func (b *Null) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.width, b.height
}

func (b *Null) SetCell(x, y int, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.cells[y][x] = cell
}

func (b *Null) Clear(style core.Style) {
	b.mu.Lock()
	defer b.mu.Unlock()

	blank := core.NewStyledCell(' ', style)
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = blank
		}
	}
}

func (b *Null) Show() {}

func (b *Null) ShowCursor(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cursorX, b.cursorY = x, y
	b.cursorVisible = true
}

func (b *Null) HideCursor() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cursorVisible = false
}

func (b *Null) EnablePaste() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pasteEnabled = true
}

func (b *Null) RequestClipboard() {
	b.mu.Lock()
	b.clipRequests++
	text := b.clipboard
	b.mu.Unlock()

	if text != "" {
		b.events <- Event{Type: EventClipboard, Text: text}
	}
}

func (b *Null) PollEvent() Event {
	return <-b.events
}

func (b *Null) PostInterrupt() {
	b.events <- Event{Type: EventInterrupt}
}

// Inject queues an event for PollEvent to return.
func (b *Null) Inject(ev Event) {
	b.events <- ev
}

// SetClipboard sets the text returned by RequestClipboard.
func (b *Null) SetClipboard(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clipboard = text
}

// ClipboardRequests returns how many times the clipboard was requested.
func (b *Null) ClipboardRequests() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.clipRequests
}

// Resize changes the backend dimensions and queues a resize event.
func (b *Null) Resize(width, height int) {
	b.mu.Lock()
	b.width, b.height = width, height
	b.reset()
	b.mu.Unlock()

	b.events <- Event{Type: EventResize, Width: width, Height: height}
}

// CellAt returns the cell at the given position, or an empty cell when out
// of bounds.
func (b *Null) CellAt(x, y int) core.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()

	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return core.EmptyCell()
	}
	return b.cells[y][x]
}

// Row returns the text content of row y with trailing blanks trimmed.
func (b *Null) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if y < 0 || y >= b.height {
		return ""
	}
	runes := make([]rune, 0, b.width)
	for x := 0; x < b.width; x++ {
		runes = append(runes, b.cells[y][x].Rune)
	}
	end := len(runes)
	for end > 0 && runes[end-1] == ' ' {
		end--
	}
	return string(runes[:end])
}

// CursorPosition returns the cursor position and visibility.
func (b *Null) CursorPosition() (x, y int, visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.cursorX, b.cursorY, b.cursorVisible
}
