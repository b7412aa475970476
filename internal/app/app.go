// Package app wires the decoder, renderer, config, and plugin together and
// runs the event loop.
package app

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/peek64/internal/config"
	"github.com/dshills/peek64/internal/decode"
	"github.com/dshills/peek64/internal/plugin"
	"github.com/dshills/peek64/internal/renderer"
	"github.com/dshills/peek64/internal/renderer/backend"
	"github.com/dshills/peek64/internal/renderer/core"
)

// Options configure the application at startup. Non-empty values override
// the corresponding config file settings.
type Options struct {
	ConfigPath  string
	FilterPath  string
	LogFile     string
	LogLevel    string
	InitialText string
	// WatchConfig enables live reload of the config file.
	WatchConfig bool
}

// Application owns the input text and coordinates decode, filter, and
// render on every edit.
type Application struct {
	opts       Options
	configPath string
	cfg        config.Config
	logger     *Logger
	logFile    *os.File

	backend  backend.Backend
	renderer *renderer.Renderer
	filter   *plugin.Filter
	watcher  *config.Watcher

	// input is the text being edited; frame is the last rendered state.
	input string
	frame renderer.Frame

	// mu guards state shared with the watcher goroutine and Shutdown.
	mu           sync.Mutex
	pendingTheme *renderer.Theme
	closed       bool

	shutdownOnce sync.Once
	prevDiag     decode.DiagnosticFunc
}

// New creates an application from options: loads config, opens the log,
// and loads the display filter if one is configured.
func New(opts Options) (*Application, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	// CLI flags win over file and environment.
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.LogFile != "" {
		cfg.Logging.File = opts.LogFile
	}
	if opts.FilterPath != "" {
		cfg.Plugin.Filter = opts.FilterPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		opts:       opts,
		configPath: configPath,
		cfg:        cfg,
		logger:     NullLogger,
		input:      opts.InitialText,
	}

	// The application owns the terminal, so logging is file-only and
	// disabled unless a file is configured.
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		app.logFile = f
		app.logger = NewLogger(LoggerConfig{
			Level:  ParseLogLevel(cfg.Logging.Level),
			Output: f,
			Prefix: "peek64",
		}).WithField("session", uuid.NewString())
	}

	// Invalid symbols are advisory only; they go to the log, never the
	// screen, and never interrupt the decode.
	diagLogger := app.logger.WithComponent("decode")
	app.prevDiag = decode.SetDiagnostic(func(r rune) {
		diagLogger.Debug("invalid char: %q", r)
	})

	if cfg.Plugin.Filter != "" {
		filter, err := plugin.Load(cfg.Plugin.Filter)
		if err != nil {
			return nil, err
		}
		app.filter = filter
		app.logger.Info("loaded display filter %s", filter.Name())
	}

	return app, nil
}

// SetBackend attaches the terminal backend. Must be called before Run.
func (app *Application) SetBackend(b backend.Backend) {
	app.backend = b
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Run initializes the backend and processes events until the user quits.
// A normal quit returns ErrQuit.
func (app *Application) Run() error {
	if app.backend == nil {
		return ErrNoBackend
	}

	if err := app.backend.Init(); err != nil {
		return fmt.Errorf("initializing backend: %w", err)
	}
	app.backend.EnablePaste()

	app.renderer = renderer.New(app.backend)
	app.renderer.SetTheme(themeFromConfig(app.cfg))

	if app.opts.WatchConfig && app.configPath != "" {
		app.startWatcher()
	}

	app.logger.Info("started")
	app.refresh()
	app.draw()

	for {
		ev := app.backend.PollEvent()
		if err := app.handleEvent(ev); err != nil {
			return err
		}
	}
}

// Shutdown releases all resources. Idempotent and safe to call from a
// signal handler while Run is blocked.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		app.mu.Lock()
		app.closed = true
		app.mu.Unlock()

		decode.SetDiagnostic(app.prevDiag)

		if app.watcher != nil {
			_ = app.watcher.Close()
		}
		if app.filter != nil {
			app.filter.Close()
		}
		if app.backend != nil {
			// Wake a blocked PollEvent before tearing down.
			app.backend.PostInterrupt()
			app.backend.Fini()
		}

		app.logger.Info("shutdown")
		if app.logFile != nil {
			_ = app.logFile.Close()
		}
	})
}

// startWatcher begins live config reload. Reload failures are logged and
// the running config is kept.
func (app *Application) startWatcher() {
	reloadLogger := app.logger.WithComponent("config")

	w, err := config.Watch(app.configPath,
		func(cfg config.Config) {
			theme := themeFromConfig(cfg)
			app.mu.Lock()
			app.pendingTheme = &theme
			app.mu.Unlock()
			app.backend.PostInterrupt()
			reloadLogger.Info("config reloaded")
		},
		func(err error) {
			reloadLogger.Warn("config reload failed: %v", err)
		})
	if err != nil {
		reloadLogger.Warn("config watch unavailable: %v", err)
		return
	}
	app.watcher = w
}

// refresh re-runs the decode pipeline over the current input and rebuilds
// the frame. Called on every edit.
func (app *Application) refresh() {
	raw := decode.Raw(app.input)
	trimmed := len(raw)
	for trimmed > 0 && raw[trimmed-1] == 0 {
		trimmed--
	}

	text := decode.Display(app.input)

	filterName := ""
	if app.filter != nil {
		filterName = app.filter.Name()
		out, err := app.filter.Apply(text)
		if err != nil {
			// Show the unfiltered text rather than nothing.
			app.logger.Warn("%v", err)
		} else {
			text = out
		}
	}

	app.frame = renderer.Frame{
		Input:        app.input,
		Decoded:      text,
		InputRunes:   len([]rune(app.input)),
		DecodedBytes: trimmed,
		InvalidRunes: decode.InvalidCount(app.input),
		FilterName:   filterName,
	}
}

func (app *Application) draw() {
	if app.renderer != nil {
		app.renderer.Draw(app.frame)
	}
}

// Frame returns the last rendered frame.
func (app *Application) Frame() renderer.Frame {
	return app.frame
}

func (app *Application) isClosed() bool {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.closed
}

// applyPendingTheme installs a theme staged by the config watcher.
func (app *Application) applyPendingTheme() {
	app.mu.Lock()
	theme := app.pendingTheme
	app.pendingTheme = nil
	app.mu.Unlock()

	if theme != nil && app.renderer != nil {
		app.renderer.SetTheme(*theme)
	}
}

// themeFromConfig builds the renderer theme from validated config colors.
func themeFromConfig(cfg config.Config) renderer.Theme {
	th := renderer.DefaultTheme()
	th.Input = applyColor(th.Input, cfg.UI.InputColor)
	th.Status = applyColor(th.Status, cfg.UI.StatusColor)
	th.Decoded = applyColor(th.Decoded, cfg.UI.DecodedColor)
	return th
}

func applyColor(s core.Style, c config.Color) core.Style {
	r, g, b, ok, err := c.RGB()
	if err != nil || !ok {
		return s
	}
	return s.WithForeground(core.ColorFromRGB(r, g, b))
}
