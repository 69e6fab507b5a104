package luaunit

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/pagevault/pagevault/constant"
	"github.com/pagevault/pagevault/handler"
	"github.com/pagevault/pagevault/log"
	"github.com/samber/mo"
	lua "github.com/yuin/gopher-lua"
)

// luaHandler adapts a loaded Lua unit to handler.Handler.
// An LState is not safe for concurrent use, so every call takes mu.
type luaHandler struct {
	name     string
	priority int
	path     string
	dir      string

	mu    sync.Mutex
	state *lua.LState
}

func (h *luaHandler) Name() string { return h.name }

func (h *luaHandler) Priority() int { return h.priority }

func (h *luaHandler) Origin() handler.Origin { return handler.OriginLua }

func (h *luaHandler) Path() string { return h.path }

// Matches calls Match(url). Errors and non-boolean results count as no match.
func (h *luaHandler) Matches(url string) bool {
	ret, err := h.call(constant.HandlerMatchFn, lua.LString(url))
	if err != nil {
		log.Warnf("handler %s: %v", h.name, err)
		return false
	}
	return ret == lua.LTrue
}

// InjectedScript calls Script(). Relative paths resolve against the unit's directory.
func (h *luaHandler) InjectedScript() mo.Option[string] {
	ret, err := h.call(constant.HandlerScriptFn)
	if err != nil {
		log.Warnf("handler %s: %v", h.name, err)
		return mo.None[string]()
	}

	s, ok := ret.(lua.LString)
	if !ok || s == "" {
		return mo.None[string]()
	}

	path := string(s)
	if !filepath.IsAbs(path) {
		path = filepath.Join(h.dir, path)
	}
	return mo.Some(path)
}

// ExtraArguments calls Arguments() and keeps the string entries in order.
func (h *luaHandler) ExtraArguments() []string {
	ret, err := h.call(constant.HandlerArgumentsFn)
	if err != nil {
		log.Warnf("handler %s: %v", h.name, err)
		return nil
	}

	table, ok := ret.(*lua.LTable)
	if !ok {
		return nil
	}
	return stringList(table)
}

// FilenamePrefix calls Prefix(url, title).
func (h *luaHandler) FilenamePrefix(url, title string) string {
	ret, err := h.call(constant.HandlerPrefixFn, lua.LString(url), lua.LString(title))
	if err != nil {
		log.Warnf("handler %s: %v", h.name, err)
		return ""
	}

	if s, ok := ret.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// Close releases the Lua state. Later calls fail as if the unit errored.
func (h *luaHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != nil {
		h.state.Close()
		h.state = nil
	}
	return nil
}

// call executes a global function in protected mode. Undefined optional functions return nil.
func (h *luaHandler) call(fn string, args ...lua.LValue) (ret lua.LValue, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == nil {
		return lua.LNil, fmt.Errorf("%s called after the unit was closed", fn)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			ret, err = lua.LNil, fmt.Errorf("%s panicked: %v", fn, recovered)
		}
	}()

	luaFn := h.state.GetGlobal(fn)
	if luaFn.Type() != lua.LTFunction {
		return lua.LNil, nil
	}

	if err := h.state.CallByParam(lua.P{
		Fn:      luaFn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		return lua.LNil, err
	}

	ret = h.state.Get(-1)
	h.state.Pop(1)
	return ret, nil
}

// stringList collects the string values of an array-like table.
func stringList(table *lua.LTable) []string {
	var list []string
	for i := 1; i <= table.Len(); i++ {
		if v, ok := table.RawGetInt(i).(lua.LString); ok {
			list = append(list, string(v))
		}
	}
	return list
}
