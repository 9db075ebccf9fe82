package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/usercast/internal/cast"
	"github.com/dshills/usercast/internal/prefs"
)

// ModuleName is the global table scripts use.
const ModuleName = "usercast"

// Module exposes a plugin's preferences to scripts.
type Module struct {
	// Store holds the preferences.
	Store *prefs.Store

	// Root is the preference directory relative keys resolve against.
	Root string

	// Config supplies the configuration for compose previews.
	Config cast.ConfigSource
}

// Install registers the usercast module in s:
//
//	get(key)                  current value of a preference
//	set(key, value)           store a preference, raising on invalid values
//	keys()                    registered keys below Root
//	policy(name)              parse "first_word", "Last word" or "2"
//	compose(nick, text, off)  preview the text a cast would insert
//	policies                  table of policy values by name
//
// Keys without a leading slash are relative to Root.
func Install(s *State, m Module) {
	mod := s.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"get":     m.get,
		"set":     m.set,
		"keys":    m.keys,
		"policy":  policy,
		"compose": m.compose,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	policies := s.L.NewTable()
	for _, p := range cast.Policies() {
		policies.RawSetString(strings.ToUpper(p.String()), lua.LNumber(p))
	}
	s.L.SetField(mod, "policies", policies)
}

func (m Module) path(key string) string {
	if strings.HasPrefix(key, "/") {
		return key
	}
	return prefs.Join(m.Root, key)
}

func (m Module) get(L *lua.LState) int {
	v, err := m.Store.Get(m.path(L.CheckString(1)))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(toLua(v))
	return 1
}

func (m Module) set(L *lua.LState) int {
	path := m.path(L.CheckString(1))
	val := L.CheckAny(2)

	var v any
	switch lv := val.(type) {
	case lua.LString:
		v = string(lv)
	case lua.LNumber:
		v = float64(lv)
	case lua.LBool:
		v = bool(lv)
	default:
		L.ArgError(2, "expected string, number or boolean")
		return 0
	}

	if err := m.Store.Set(path, v, "script"); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (m Module) keys(L *lua.LState) int {
	tbl := L.NewTable()
	prefix := m.Root + "/"
	for _, p := range m.Store.Paths(m.Root) {
		if p == m.Root {
			continue
		}
		tbl.Append(lua.LString(strings.TrimPrefix(p, prefix)))
	}
	L.Push(tbl)
	return 1
}

func (m Module) compose(L *lua.LState) int {
	nick := L.CheckString(1)
	text := L.OptString(2, "")
	offset := L.OptInt(3, len([]rune(text)))

	cfg, err := m.Config.CastConfig()
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LString(cast.Compose(nick, cfg, cast.Context{Text: text, Offset: offset})))
	return 1
}

func policy(L *lua.LState) int {
	p, err := cast.ParsePolicy(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	L.Push(lua.LNumber(p))
	return 1
}

func toLua(v any) lua.LValue {
	switch x := v.(type) {
	case string:
		return lua.LString(x)
	case int:
		return lua.LNumber(x)
	case bool:
		return lua.LBool(x)
	default:
		return lua.LNil
	}
}
