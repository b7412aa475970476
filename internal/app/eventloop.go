package app

import (
	"unicode/utf8"

	"github.com/dshills/peek64/internal/renderer/backend"
)

// handleEvent processes one backend event. Returns ErrQuit when the
// application should exit.
func (app *Application) handleEvent(ev backend.Event) error {
	if app.isClosed() {
		return ErrQuit
	}

	switch ev.Type {
	case backend.EventKey:
		return app.handleKey(ev)

	case backend.EventResize:
		app.renderer.Resize(ev.Width, ev.Height)
		app.draw()

	case backend.EventClipboard:
		app.appendText(ev.Text)

	case backend.EventPasteStart, backend.EventPasteEnd:
		// Bracketed paste markers; the pasted runes arrive as ordinary
		// key events in between and are appended one by one.

	case backend.EventInterrupt:
		app.applyPendingTheme()
		app.draw()

	case backend.EventNone:
		// The backend has been finalized out from under us.
		return ErrQuit
	}

	return nil
}

// handleKey processes keyboard input: text entry, backspace, clear, paste
// request, and the quit keys.
func (app *Application) handleKey(ev backend.Event) error {
	switch ev.Key {
	case backend.KeyRune:
		app.appendText(string(ev.Rune))

	case backend.KeyBackspace:
		app.removeLastRune()

	case backend.KeyCtrlU:
		app.clearInput()

	case backend.KeyEnter:
		// The input is a single line; Enter neither inserts nor quits.

	case backend.KeyCtrlV:
		// OSC 52 clipboard read; the text arrives later as an
		// EventClipboard if the terminal allows it.
		app.backend.RequestClipboard()

	case backend.KeyEscape, backend.KeyCtrlC, backend.KeyCtrlQ:
		return ErrQuit
	}

	return nil
}

func (app *Application) appendText(s string) {
	if s == "" {
		return
	}
	app.input += s
	app.refresh()
	app.draw()
}

func (app *Application) removeLastRune() {
	if app.input == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(app.input)
	app.input = app.input[:len(app.input)-size]
	app.refresh()
	app.draw()
}

func (app *Application) clearInput() {
	app.input = ""
	app.refresh()
	app.draw()
}
