package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/narsis77/unpoly/internal/params"
	plua "github.com/narsis77/unpoly/internal/plugin/lua"
)

// ParamsModule implements up.params.
type ParamsModule struct{}

// NewParamsModule creates a new params module.
func NewParamsModule() *ParamsModule {
	return &ParamsModule{}
}

// Name returns the module name.
func (m *ParamsModule) Name() string {
	return "params"
}

// Register installs up.params.
func (m *ParamsModule) Register(L *lua.LState, up *lua.LTable) error {
	mod := L.NewTable()
	L.SetField(mod, "parse", L.NewFunction(m.parse))
	L.SetField(mod, "query", L.NewFunction(m.query))
	L.SetField(mod, "object", L.NewFunction(m.object))
	L.SetField(mod, "strip", L.NewFunction(m.strip))
	L.SetField(up, "params", mod)
	return nil
}

// parse(query) -> {{name=, value=}, ...}
// Names without a value have no value field.
func (m *ParamsModule) parse(L *lua.LState) int {
	p := params.FromQuery(L.CheckString(1))
	bridge := plua.NewBridge(L)

	list := L.NewTable()
	for i, e := range p.ToArray() {
		entry := L.NewTable()
		entry.RawSetString("name", lua.LString(e.Name))
		entry.RawSetString("value", bridge.ToLuaValue(e.Value))
		list.RawSetInt(i+1, entry)
	}
	L.Push(list)
	return 1
}

// query(value) -> string
// value is a query string, a list of {name=, value=} entries, or a table of
// names to values.
func (m *ParamsModule) query(L *lua.LState) int {
	p, ok := m.toParams(L, 1)
	if !ok {
		return 0
	}
	L.Push(lua.LString(p.ToQuery()))
	return 1
}

// object(value) -> table
// Array keys map to lists of their values.
func (m *ParamsModule) object(L *lua.LState) int {
	p, ok := m.toParams(L, 1)
	if !ok {
		return 0
	}
	L.Push(plua.NewBridge(L).ToLuaValue(p.ToObject()))
	return 1
}

// strip(url) -> string
func (m *ParamsModule) strip(L *lua.LState) int {
	L.Push(lua.LString(params.StripURL(L.CheckString(1))))
	return 1
}

// toParams reads argument n as params. It raises an argument error and
// reports false when the value cannot be read.
func (m *ParamsModule) toParams(L *lua.LState, n int) (*params.Params, bool) {
	switch v := L.Get(n).(type) {
	case lua.LString:
		return params.FromQuery(string(v)), true
	case *lua.LTable:
		if plua.IsSequence(v) {
			return m.fromEntries(L, n, v)
		}
		obj, _ := plua.NewBridge(L).ToGoValue(v).(map[string]any)
		return params.FromMap(obj), true
	default:
		L.ArgError(n, "query string or table expected")
		return nil, false
	}
}

func (m *ParamsModule) fromEntries(L *lua.LState, n int, list *lua.LTable) (*params.Params, bool) {
	bridge := plua.NewBridge(L)
	entries := make([]params.Entry, 0, list.Len())

	for i := 1; i <= list.Len(); i++ {
		t, ok := list.RawGetInt(i).(*lua.LTable)
		if !ok {
			L.ArgError(n, "entries must be tables")
			return nil, false
		}
		name, ok := t.RawGetString("name").(lua.LString)
		if !ok {
			L.ArgError(n, "entry name must be a string")
			return nil, false
		}
		entries = append(entries, params.Entry{
			Name:  string(name),
			Value: bridge.ToGoValue(t.RawGetString("value")),
		})
	}
	return params.FromEntries(entries), true
}
