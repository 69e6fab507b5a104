// Package luaunit loads capture handlers written in Lua.
//
// A unit is a single .lua file declaring a Match(url) function and, optionally,
// the globals Name, Priority and Requires and the functions Script(),
// Arguments() and Prefix(url, title).
package luaunit

import (
	"fmt"
	"math"
	"path/filepath"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/pagevault/pagevault/constant"
	"github.com/pagevault/pagevault/handler"
	"github.com/pagevault/pagevault/internal/luacache"
	"github.com/pagevault/pagevault/util"
	lua "github.com/yuin/gopher-lua"
)

// Load executes the unit at path and validates the handler it declares.
func Load(path string) ([]handler.Handler, error) {
	state := lua.NewState()
	libs.Preload(state)

	if err := luacache.CompileAndLoad(state, path); err != nil {
		state.Close()
		return nil, err
	}

	h, err := newLuaHandler(state, path)
	if err != nil {
		state.Close()
		return nil, err
	}

	return []handler.Handler{h}, nil
}

func newLuaHandler(state *lua.LState, path string) (*luaHandler, error) {
	if state.GetGlobal(constant.HandlerMatchFn).Type() != lua.LTFunction {
		return nil, fmt.Errorf("function %s is required but not defined", constant.HandlerMatchFn)
	}

	for _, fn := range []string{constant.HandlerScriptFn, constant.HandlerArgumentsFn, constant.HandlerPrefixFn} {
		if t := state.GetGlobal(fn).Type(); t != lua.LTNil && t != lua.LTFunction {
			return nil, fmt.Errorf("%s must be a function, got %s", fn, t)
		}
	}

	name := util.FileStem(path)
	if v := state.GetGlobal(constant.HandlerNameVar); v.Type() == lua.LTString && v.String() != "" {
		name = v.String()
	}

	priority := handler.UnitPriority
	switch v := state.GetGlobal(constant.HandlerPriorityVar).(type) {
	case lua.LNumber:
		n := float64(v)
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
			return nil, fmt.Errorf("%s must be a whole number within ±%d, got %v", constant.HandlerPriorityVar, math.MaxInt32, v)
		}
		priority = int(n)
	case *lua.LNilType:
	default:
		return nil, fmt.Errorf("%s must be a number, got %s", constant.HandlerPriorityVar, v.Type())
	}

	if v := state.GetGlobal(constant.HandlerRequiresVar); v.Type() == lua.LTString {
		if err := handler.CheckRequires(v.String()); err != nil {
			return nil, err
		}
	}

	return &luaHandler{
		name:     name,
		priority: priority,
		path:     path,
		dir:      filepath.Dir(path),
		state:    state,
	}, nil
}
