// Package core provides the cell, style, and color primitives shared by the
// renderer and its backends.
package core

// Color represents a color value. Supports true color (RGB) and terminal
// palette colors.
type Color struct {
	R, G, B uint8
	// If Indexed is true, R contains the palette index (0-255).
	// G and B are ignored in indexed mode.
	Indexed bool
	// Default indicates this is the terminal's default color.
	Default bool
}

// ColorDefault represents the terminal's default color.
var ColorDefault = Color{Default: true}

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex creates an indexed palette color (0-255).
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// IsDefault reports whether this is the terminal's default color.
func (c Color) IsDefault() bool {
	return c.Default
}

// AttrMask represents text attributes as a bit mask.
type AttrMask int

const (
	AttrNone AttrMask = 0
	AttrBold AttrMask = 1 << iota
	AttrDim
	AttrReverse
)

// Has reports whether the mask contains the given attribute.
func (a AttrMask) Has(attr AttrMask) bool {
	return a&attr != 0
}

// Style describes how a cell is drawn.
type Style struct {
	Foreground Color
	Background Color
	Attributes AttrMask
}

// DefaultStyle returns a style using the terminal's default colors.
func DefaultStyle() Style {
	return Style{
		Foreground: ColorDefault,
		Background: ColorDefault,
	}
}

// WithForeground returns a copy of the style with the foreground set.
func (s Style) WithForeground(c Color) Style {
	s.Foreground = c
	return s
}

// WithBackground returns a copy of the style with the background set.
func (s Style) WithBackground(c Color) Style {
	s.Background = c
	return s
}

// WithAttributes returns a copy of the style with the attributes set.
func (s Style) WithAttributes(a AttrMask) Style {
	s.Attributes = a
	return s
}

// Cell is one screen position: a rune plus its style.
type Cell struct {
	Rune  rune
	Style Style
}

// EmptyCell returns a blank cell with the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Style: DefaultStyle()}
}

// NewCell creates a cell with the default style.
func NewCell(r rune) Cell {
	return Cell{Rune: r, Style: DefaultStyle()}
}

// NewStyledCell creates a cell with the given style.
func NewStyledCell(r rune, style Style) Cell {
	return Cell{Rune: r, Style: style}
}

// Equals reports whether two cells are identical.
func (c Cell) Equals(other Cell) bool {
	return c == other
}

// RuneWidth returns the display width of a rune in screen cells.
func RuneWidth(r rune) int {
	if r < 32 || r == 0x7F {
		return 0
	}
	if isWideRune(r) {
		return 2
	}
	return 1
}

// isWideRune checks if a rune is a wide (double-width) character.
func isWideRune(r rune) bool {
	if r >= 0x1100 && r <= 0x115F {
		return true
	}
	if r >= 0x3130 && r <= 0x318F {
		return true
	}
	if r >= 0x2E80 && r <= 0x9FFF {
		return true
	}
	if r >= 0xAC00 && r <= 0xD7A3 {
		return true
	}
	if r >= 0xF900 && r <= 0xFAFF {
		return true
	}
	if r >= 0xFE10 && r <= 0xFE1F {
		return true
	}
	if r >= 0xFE30 && r <= 0xFE6F {
		return true
	}
	if r >= 0xFF00 && r <= 0xFF60 {
		return true
	}
	if r >= 0xFFE0 && r <= 0xFFE6 {
		return true
	}
	if r >= 0x20000 && r <= 0x2FFFF {
		return true
	}
	if r >= 0x2F800 && r <= 0x2FA1F {
		return true
	}
	return false
}
