// Package plugin runs an optional Lua display filter. A filter script
// defines a single function, filter(text), which receives the decoded
// display string and returns a replacement to render instead.
//
// Scripts run sandboxed: only the base, table, string, and math libraries
// are opened, and the globals that reach outside the VM (dofile, loadfile,
// load, loadstring, require, print) are stripped or neutered.
package plugin

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Filter errors.
var (
	ErrNoFilterFunc    = errors.New("script does not define filter(text)")
	ErrBadFilterResult = errors.New("filter(text) did not return a string")
)

// Filter is a loaded display filter. Safe for use from one goroutine at a
// time; Apply serializes callers.
type Filter struct {
	mu   sync.Mutex
	L    *lua.LState
	fn   *lua.LFunction
	name string
}

// Load reads and runs a filter script, returning a ready Filter.
func Load(path string) (*Filter, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	openSafeLibs(L)
	sandbox(L)

	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading filter %s: %w", path, err)
	}

	fn, ok := L.GetGlobal("filter").(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNoFilterFunc)
	}

	return &Filter{
		L:    L,
		fn:   fn,
		name: filepath.Base(path),
	}, nil
}

// Name returns the script's file name, for the status row.
func (f *Filter) Name() string {
	return f.name
}

// Apply runs filter(text) and returns its result. Script errors and
// non-string results are returned as errors; the caller decides whether to
// fall back to the unfiltered text.
func (f *Filter) Apply(text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := f.L.CallByParam(lua.P{
		Fn:      f.fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(text))
	if err != nil {
		return "", fmt.Errorf("filter %s: %w", f.name, err)
	}

	ret := f.L.Get(-1)
	f.L.Pop(1)

	s, ok := ret.(lua.LString)
	if !ok {
		return "", fmt.Errorf("filter %s: %w", f.name, ErrBadFilterResult)
	}
	return string(s), nil
}

// Close releases the Lua state.
func (f *Filter) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.L.Close()
}

// openSafeLibs opens only the libraries a text filter legitimately needs.
// Notably absent: os, io, debug, package.
func openSafeLibs(L *lua.LState) {
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			// Opening built-in libraries cannot fail on a fresh state.
			panic(err)
		}
	}
}

// sandbox strips the base-library globals that could be used to escape.
func sandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	// The application owns the terminal; swallow print output.
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int { return 0 }))
}
