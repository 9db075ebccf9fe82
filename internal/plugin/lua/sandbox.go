package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/usercast/internal/logging"
)

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	// Note: These are intentionally NOT opened:
	// - io (file system access)
	// - os (system calls, execute)
	// - debug (can bypass sandbox)
	// - package (can load arbitrary modules)
}

// installSandbox removes loaders from the base library and routes print to
// the logger.
func installSandbox(L *lua.LState, logger *logging.Logger) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		logger.Info("%s", strings.Join(parts, "\t"))
		return 0
	}))
}
