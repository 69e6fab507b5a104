// Package luacache compiles Lua units once and reuses their bytecode prototypes.
package luacache

import (
	"fmt"
	"sync"

	"github.com/pagevault/pagevault/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

var bytecodeCache sync.Map

// cacheKey invalidates the cached prototype when the file changes on disk.
func cacheKey(path string) (string, error) {
	info, err := filesystem.API().Stat(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s@%d:%d", path, info.ModTime().UnixNano(), info.Size()), nil
}

// CompileAndLoad executes a Lua file within L, reusing a previously compiled prototype when possible.
func CompileAndLoad(L *lua.LState, path string) error {
	key, err := cacheKey(path)
	if err != nil {
		return err
	}

	if cached, ok := bytecodeCache.Load(key); ok {
		L.Push(L.NewFunctionFromProto(cached.(*lua.FunctionProto)))
		return L.PCall(0, lua.MultRet, nil)
	}

	file, err := filesystem.API().Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	chunk, err := parse.Parse(file, path)
	if err != nil {
		return err
	}

	proto, err := lua.Compile(chunk, path)
	if err != nil {
		return err
	}

	bytecodeCache.Store(key, proto)

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

// Reset drops every cached prototype.
func Reset() {
	bytecodeCache.Range(func(k, _ any) bool {
		bytecodeCache.Delete(k)
		return true
	})
}
