// Package renderer lays out the peek64 screen: the input text on the top
// row, a status row below it, and the decoded preview on the bottom row.
package renderer

import (
	"fmt"

	"github.com/dshills/peek64/internal/renderer/backend"
	"github.com/dshills/peek64/internal/renderer/core"
)

// Theme holds the styles for each screen region.
type Theme struct {
	Input   core.Style
	Status  core.Style
	Decoded core.Style
}

// DefaultTheme returns a theme using the terminal's default colors, with a
// dimmed status row.
func DefaultTheme() Theme {
	return Theme{
		Input:   core.DefaultStyle(),
		Status:  core.DefaultStyle().WithAttributes(core.AttrDim),
		Decoded: core.DefaultStyle(),
	}
}

// Frame is one snapshot of everything the screen shows.
type Frame struct {
	// Input is the text being edited.
	Input string
	// Decoded is the display string produced from Input.
	Decoded string
	// InputRunes, DecodedBytes and InvalidRunes feed the status row.
	InputRunes   int
	DecodedBytes int
	InvalidRunes int
	// FilterName names the active display filter, if any.
	FilterName string
}

// Renderer draws frames onto a backend.
type Renderer struct {
	backend       backend.Backend
	theme         Theme
	width, height int
}

// New creates a renderer for the given backend, sized to it.
func New(b backend.Backend) *Renderer {
	w, h := b.Size()
	return &Renderer{
		backend: b,
		theme:   DefaultTheme(),
		width:   w,
		height:  h,
	}
}

// SetTheme replaces the renderer's theme. Takes effect on the next Draw.
func (r *Renderer) SetTheme(t Theme) {
	r.theme = t
}

// Resize updates the renderer's notion of the screen size.
func (r *Renderer) Resize(width, height int) {
	r.width = width
	r.height = height
}

// Draw renders a frame: input on row 0 with the cursor after its last rune,
// status on row 1, decoded text on the bottom row. Rows that don't fit at
// the current height are dropped from the bottom up.
func (r *Renderer) Draw(f Frame) {
	r.backend.Clear(core.DefaultStyle())

	if r.width <= 0 || r.height <= 0 {
		r.backend.Show()
		return
	}

	// Reserve one cell for the cursor; show the tail when the input is
	// wider than the screen so the edit point stays visible.
	input := tailClip(f.Input, r.width-1)
	r.drawText(0, input, r.theme.Input)
	r.backend.ShowCursor(textWidth(input), 0)

	if r.height >= 3 {
		r.drawText(1, tailClip(r.statusText(f), r.width), r.theme.Status)
	}

	if r.height >= 2 {
		r.drawText(r.height-1, tailClip(f.Decoded, r.width), r.theme.Decoded)
	}

	r.backend.Show()
}

// statusText formats the status row for a frame.
func (r *Renderer) statusText(f Frame) string {
	s := fmt.Sprintf("%d chars -> %d bytes", f.InputRunes, f.DecodedBytes)
	if f.InvalidRunes > 0 {
		s += fmt.Sprintf(", %d invalid", f.InvalidRunes)
	}
	if f.FilterName != "" {
		s += " | filter: " + f.FilterName
	}
	return s
}

// drawText writes a string along row y starting at column 0, advancing by
// each rune's display width so wide runes keep their second column.
func (r *Renderer) drawText(y int, text string, style core.Style) {
	x := 0
	for _, ch := range text {
		w := cellWidth(ch)
		if w == 0 {
			continue
		}
		if x+w > r.width {
			return
		}
		if ch < ' ' {
			// Pasted input can contain control characters; render
			// them as blanks rather than letting them mangle cells.
			ch = ' '
		}
		r.backend.SetCell(x, y, core.NewStyledCell(ch, style))
		x += w
	}
}

// tailClip returns the longest suffix of s that fits in max screen cells.
func tailClip(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	cells := 0
	i := len(runes)
	for i > 0 {
		w := cellWidth(runes[i-1])
		if cells+w > max {
			break
		}
		cells += w
		i--
	}
	return string(runes[i:])
}

// cellWidth returns the screen width a rune occupies when drawn. Control
// runes render as single blanks rather than the zero width they'd otherwise
// report.
func cellWidth(ch rune) int {
	if ch < ' ' {
		return 1
	}
	return core.RuneWidth(ch)
}

// textWidth returns the total display width of s in cells.
func textWidth(s string) int {
	w := 0
	for _, ch := range s {
		w += cellWidth(ch)
	}
	return w
}
