package scripting

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"
)

// ToLua converts plain Go values into Lua values. Supported: nil, bool,
// int, int64, float64, string, []string, []any, []map[string]any and
// map[string]any, nested freely.
//
// Postcondition: Returns an error for any other type.
func ToLua(v any) (lua.LValue, error) {
	switch x := v.(type) {
	case nil:
		return lua.LNil, nil
	case bool:
		return lua.LBool(x), nil
	case int:
		return lua.LNumber(x), nil
	case int64:
		return lua.LNumber(x), nil
	case float64:
		return lua.LNumber(x), nil
	case string:
		return lua.LString(x), nil
	case []string:
		t := newTable()
		for _, s := range x {
			t.Append(lua.LString(s))
		}
		return t, nil
	case []map[string]any:
		t := newTable()
		for _, m := range x {
			lv, err := ToLua(m)
			if err != nil {
				return nil, err
			}
			t.Append(lv)
		}
		return t, nil
	case []any:
		t := newTable()
		for _, e := range x {
			lv, err := ToLua(e)
			if err != nil {
				return nil, err
			}
			t.Append(lv)
		}
		return t, nil
	case map[string]any:
		t := newTable()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lv, err := ToLua(x[k])
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			t.RawSetString(k, lv)
		}
		return t, nil
	}
	return nil, fmt.Errorf("scripting: cannot convert %T to Lua", v)
}

// FromLua converts a Lua value into plain Go: nil, bool, float64, string,
// []any for sequences, and map[string]any for other tables. Functions and
// userdata become nil.
func FromLua(lv lua.LValue) any {
	switch x := lv.(type) {
	case lua.LBool:
		return bool(x)
	case lua.LNumber:
		return float64(x)
	case lua.LString:
		return string(x)
	case *lua.LTable:
		if n := x.Len(); n > 0 {
			out := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				out = append(out, FromLua(x.RawGetInt(i)))
			}
			return out
		}
		out := make(map[string]any)
		x.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				out[string(ks)] = FromLua(v)
			}
		})
		return out
	}
	return nil
}

// newTable returns an empty table usable from any LState.
func newTable() *lua.LTable {
	return &lua.LTable{Metatable: lua.LNil}
}
