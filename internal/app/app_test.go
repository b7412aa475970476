package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/peek64/internal/config"
	"github.com/dshills/peek64/internal/renderer/backend"
)

func TestRunWithoutBackend(t *testing.T) {
	application, err := New(Options{ConfigPath: filepath.Join(t.TempDir(), "absent.toml")})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer application.Shutdown()

	if err := application.Run(); !errors.Is(err, ErrNoBackend) {
		t.Errorf("Run without backend = %v, want ErrNoBackend", err)
	}
}

func TestNewInvalidLogLevel(t *testing.T) {
	_, err := New(Options{
		ConfigPath: filepath.Join(t.TempDir(), "absent.toml"),
		LogLevel:   "loud",
	})
	if !errors.Is(err, config.ErrInvalidLogLevel) {
		t.Errorf("expected ErrInvalidLogLevel, got %v", err)
	}
}

func TestNewMissingFilterScript(t *testing.T) {
	_, err := New(Options{
		ConfigPath: filepath.Join(t.TempDir(), "absent.toml"),
		FilterPath: filepath.Join(t.TempDir(), "absent.lua"),
	})
	if err == nil {
		t.Error("expected error for missing filter script")
	}
}

func TestInitialTextDecodesOnStartup(t *testing.T) {
	application, b, done := newTestApp(t, Options{InitialText: "SGVsbG8="})

	b.Inject(backend.Event{Type: backend.EventKey, Key: backend.KeyEscape})
	waitQuit(t, done)

	frame := application.Frame()
	if frame.Input != "SGVsbG8=" {
		t.Errorf("input = %q, want %q", frame.Input, "SGVsbG8=")
	}
	if frame.Decoded != "Hello" {
		t.Errorf("decoded = %q, want %q", frame.Decoded, "Hello")
	}
}

func TestDisplayFilterApplied(t *testing.T) {
	script := filepath.Join(t.TempDir(), "lower.lua")
	if err := os.WriteFile(script, []byte(`function filter(text) return string.lower(text) end`), 0o644); err != nil {
		t.Fatal(err)
	}

	application, b, done := newTestApp(t, Options{
		InitialText: "TWFu",
		FilterPath:  script,
	})

	b.Inject(backend.Event{Type: backend.EventKey, Key: backend.KeyEscape})
	waitQuit(t, done)

	frame := application.Frame()
	if frame.Decoded != "man" {
		t.Errorf("filtered decoded = %q, want %q", frame.Decoded, "man")
	}
	if frame.FilterName != "lower.lua" {
		t.Errorf("filter name = %q, want %q", frame.FilterName, "lower.lua")
	}
}

func TestFailingFilterFallsBack(t *testing.T) {
	script := filepath.Join(t.TempDir(), "boom.lua")
	if err := os.WriteFile(script, []byte(`function filter(text) error("boom") end`), 0o644); err != nil {
		t.Fatal(err)
	}

	application, b, done := newTestApp(t, Options{
		InitialText: "TWFu",
		FilterPath:  script,
	})

	b.Inject(backend.Event{Type: backend.EventKey, Key: backend.KeyEscape})
	waitQuit(t, done)

	// The unfiltered display string is shown instead.
	if got := application.Frame().Decoded; got != "Man" {
		t.Errorf("decoded = %q, want unfiltered %q", got, "Man")
	}
}

func TestLogFileWritten(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "peek64.log")

	application, err := New(Options{
		ConfigPath: filepath.Join(t.TempDir(), "absent.toml"),
		LogFile:    logPath,
		LogLevel:   "debug",
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	b := backend.NewNull(40, 10)
	application.SetBackend(b)

	done := make(chan error, 1)
	go func() { done <- application.Run() }()

	b.Inject(backend.Event{Type: backend.EventKey, Key: backend.KeyEscape})
	waitQuit(t, done)
	application.Shutdown()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	log := string(data)
	if !strings.Contains(log, "started") {
		t.Errorf("log should record startup, got:\n%s", log)
	}
	if !strings.Contains(log, "session=") {
		t.Errorf("log lines should carry the session field, got:\n%s", log)
	}
}

func TestConfigFileTheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[ui]
decoded_color = "#00ff00"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, b, done := newTestApp(t, Options{ConfigPath: path, InitialText: "QQ=="})

	b.Inject(backend.Event{Type: backend.EventKey, Key: backend.KeyEscape})
	waitQuit(t, done)

	// Decoded row is drawn with the configured green foreground.
	cell := b.CellAt(0, 9)
	if cell.Rune != 'A' {
		t.Fatalf("decoded cell rune = %q, want %q", cell.Rune, 'A')
	}
	fg := cell.Style.Foreground
	if fg.IsDefault() || fg.R != 0 || fg.G != 255 || fg.B != 0 {
		t.Errorf("decoded foreground = %+v, want RGB(0, 255, 0)", fg)
	}
}

func TestThemeFromConfigIgnoresEmptyColors(t *testing.T) {
	th := themeFromConfig(config.Default())
	if !th.Input.Foreground.IsDefault() {
		t.Errorf("empty color should keep the default foreground, got %+v", th.Input.Foreground)
	}
}
