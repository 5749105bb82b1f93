package project

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	lenserrors "github.com/conneroisu/vuelens/internal/errors"
)

// DefaultLuaTimeout bounds a single plugin call.
const DefaultLuaTimeout = 2 * time.Second

// LuaLoader loads language plugins written in Lua. A plugin file returns a
// table with a name and an optional resolve function:
//
//	return {
//	  name = "markdown-pages",
//	  resolve = function(opts)
//	    return { extensions = { ".md" } }
//	  end,
//	}
//
// resolve receives the current options and returns the options to add or
// replace. List options are appended to, scalar options are replaced.
type LuaLoader struct {
	Timeout time.Duration
}

// Load runs the plugin file in a fresh sandboxed state.
func (l *LuaLoader) Load(path string) (LanguagePlugin, error) {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultLuaTimeout
	}

	p := &LuaPlugin{
		path:    path,
		state:   newSandboxedState(),
		timeout: timeout,
	}

	if err := p.run(func() error { return p.state.DoFile(path) }); err != nil {
		p.state.Close()
		return nil, lenserrors.NewModuleError(lenserrors.ErrCodePluginUnloadable,
			"lua plugin failed to run", err).WithFile(path)
	}

	tbl, ok := popResult(p.state).(*lua.LTable)
	if !ok {
		p.state.Close()
		return nil, lenserrors.NewModuleError(lenserrors.ErrCodePluginUnloadable,
			"lua plugin must return a table", nil).WithFile(path)
	}

	p.name = lua.LVAsString(tbl.RawGetString("name"))
	if p.name == "" {
		p.name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if fn, ok := tbl.RawGetString("resolve").(*lua.LFunction); ok {
		p.resolve = fn
	}

	return p, nil
}

// LuaPlugin is a plugin backed by its own Lua state. Calls are serialized.
type LuaPlugin struct {
	mu      sync.Mutex
	path    string
	name    string
	state   *lua.LState
	resolve *lua.LFunction
	timeout time.Duration
	closed  bool
}

// Name returns the plugin's declared name.
func (p *LuaPlugin) Name() string {
	return p.name
}

// Path returns the plugin file.
func (p *LuaPlugin) Path() string {
	return p.path
}

// ResolveOptions calls the plugin's resolve function with the current
// options and applies the table it returns.
func (p *LuaPlugin) ResolveOptions(opts *CompilerOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("lua plugin %s is closed", p.name)
	}
	if p.resolve == nil {
		return nil
	}

	arg := optionsTable(p.state, opts)
	err := p.run(func() error {
		return p.state.CallByParam(lua.P{Fn: p.resolve, NRet: 1, Protect: true}, arg)
	})
	if err != nil {
		return err
	}

	if tbl, ok := popResult(p.state).(*lua.LTable); ok {
		applyLuaOptions(tbl, opts)
	}
	return nil
}

// Close releases the Lua state.
func (p *LuaPlugin) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		p.state.Close()
	}
	return nil
}

func (p *LuaPlugin) run(fn func() error) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	p.state.SetContext(ctx)
	defer p.state.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// popResult pops the value a chunk or call returned, or LNil when it
// returned nothing.
func popResult(L *lua.LState) lua.LValue {
	if L.GetTop() == 0 {
		return lua.LNil
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret
}

// ClosePlugins closes every plugin that holds resources.
func ClosePlugins(plugins []LanguagePlugin) {
	for _, p := range plugins {
		if c, ok := p.(io.Closer); ok {
			_ = c.Close()
		}
	}
}

// newSandboxedState opens only the base, table, string and math libraries
// and removes the functions that load code from disk or strings.
func newSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

func optionsTable(L *lua.LState, opts *CompilerOptions) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("target", lua.LNumber(opts.Target))
	tbl.RawSetString("extensions", stringsTable(L, opts.Extensions))
	tbl.RawSetString("dataAttributes", stringsTable(L, opts.DataAttributes))
	tbl.RawSetString("htmlAttributes", stringsTable(L, opts.HTMLAttributes))
	tbl.RawSetString("strictTemplates", lua.LBool(opts.StrictTemplates))
	tbl.RawSetString("jsxTemplates", lua.LBool(opts.JSXTemplates))
	return tbl
}

func stringsTable(L *lua.LState, values []string) *lua.LTable {
	tbl := L.CreateTable(len(values), 0)
	for _, v := range values {
		tbl.Append(lua.LString(v))
	}
	return tbl
}

func applyLuaOptions(tbl *lua.LTable, opts *CompilerOptions) {
	lists := map[string]*[]string{
		"extensions":     &opts.Extensions,
		"nativeTags":     &opts.NativeTags,
		"dataAttributes": &opts.DataAttributes,
		"htmlAttributes": &opts.HTMLAttributes,
	}
	for key, dst := range lists {
		if values, ok := tbl.RawGetString(key).(*lua.LTable); ok {
			*dst = appendUnique(*dst, luaStrings(values))
		}
	}

	bools := map[string]*bool{
		"strictTemplates":     &opts.StrictTemplates,
		"jsxTemplates":        &opts.JSXTemplates,
		"skipTemplateCodegen": &opts.SkipTemplateCodegen,
		"experimentalRfc436":  &opts.ExperimentalRfc436,
	}
	for key, dst := range bools {
		if v, ok := tbl.RawGetString(key).(lua.LBool); ok {
			*dst = bool(v)
		}
	}

	if v, ok := tbl.RawGetString("target").(lua.LNumber); ok {
		opts.Target = float64(v)
	}
	if v, ok := tbl.RawGetString("experimentalResolveStyleCssClasses").(lua.LString); ok {
		opts.ExperimentalResolveStyleCSSClasses = string(v)
	}
}

func luaStrings(tbl *lua.LTable) []string {
	var out []string
	for i := 1; i <= tbl.Len(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

func appendUnique(dst, values []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			dst = append(dst, v)
		}
	}
	return dst
}
