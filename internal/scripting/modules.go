package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers all engine.* Lua tables into L for scope:
//
//	engine.log.debug|info|warn|error(msg)
//	engine.dice.roll(sides) -> 1..sides
//	engine.say(speaker, line)
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState, scope string) {
	engine := L.NewTable()
	L.SetGlobal("engine", engine)

	logTbl := L.NewTable()
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	} {
		fn := fn
		L.SetField(logTbl, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("scope", scope))
			return 0
		}))
	}
	L.SetField(engine, "log", logTbl)

	diceTbl := L.NewTable()
	L.SetField(diceTbl, "roll", L.NewFunction(func(L *lua.LState) int {
		sides := L.CheckInt(1)
		if sides < 1 {
			L.ArgError(1, "sides must be >= 1")
			return 0
		}
		L.Push(lua.LNumber(m.roller.Die(sides)))
		return 1
	}))
	L.SetField(engine, "dice", diceTbl)

	L.SetField(engine, "say", L.NewFunction(func(L *lua.LState) int {
		speaker := L.CheckString(1)
		line := L.CheckString(2)
		if m.Say != nil {
			m.Say(scope, speaker, line)
		} else {
			m.logger.Info("scripting: line", zap.String("scope", scope), zap.String("speaker", speaker), zap.String("line", line))
		}
		return 0
	}))
}
