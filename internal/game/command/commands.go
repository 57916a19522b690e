// Package command defines the commands a player types during an encounter
// and the registry and parser that resolve them.
package command

// Categories for organizing commands in help output.
const (
	CategoryCombat = "combat"
	CategoryInfo   = "info"
	CategorySystem = "system"
)

// Handler identifiers dispatched by the console.
const (
	HandlerUse     = "use"
	HandlerTarget  = "target"
	HandlerCancel  = "cancel"
	HandlerSkip    = "skip"
	HandlerHarm    = "harm"
	HandlerFlee    = "flee"
	HandlerStatus  = "status"
	HandlerTargets = "targets"
	HandlerHelp    = "help"
	HandlerQuit    = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument form, e.g. "use <ability> [target]".
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command in help output.
	Category string
	// Handler names the console action that runs the command.
	Handler string
	// MinArgs is the number of arguments the command requires.
	MinArgs int
}

// BuiltinCommands returns every command the console understands.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "use", Aliases: []string{"u", "cast"}, Usage: "use <ability> [target]", Help: "Use an ability, optionally naming its target", Category: CategoryCombat, Handler: HandlerUse, MinArgs: 1},
		{Name: "target", Aliases: []string{"t", "at"}, Usage: "target <combatant>", Help: "Aim the selected ability", Category: CategoryCombat, Handler: HandlerTarget, MinArgs: 1},
		{Name: "cancel", Aliases: []string{"c"}, Usage: "cancel", Help: "Drop the selected ability", Category: CategoryCombat, Handler: HandlerCancel},
		{Name: "skip", Aliases: []string{"pass", "wait"}, Usage: "skip", Help: "End your turn and gain a little anger", Category: CategoryCombat, Handler: HandlerSkip},
		{Name: "harm", Aliases: []string{"bleed"}, Usage: "harm <blood>", Help: "Spill your own blood for anger", Category: CategoryCombat, Handler: HandlerHarm, MinArgs: 1},
		{Name: "flee", Aliases: []string{"run", "escape"}, Usage: "flee", Help: "Escape the encounter", Category: CategoryCombat, Handler: HandlerFlee},

		{Name: "status", Aliases: []string{"st", "look", "l"}, Usage: "status", Help: "Show every combatant's blood, anger and effects", Category: CategoryInfo, Handler: HandlerStatus},
		{Name: "targets", Aliases: []string{"tg"}, Usage: "targets <ability>", Help: "List valid targets for an ability", Category: CategoryInfo, Handler: HandlerTargets, MinArgs: 1},

		{Name: "help", Aliases: []string{"h", "?"}, Usage: "help", Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"q", "exit"}, Usage: "quit", Help: "Leave the game", Category: CategorySystem, Handler: HandlerQuit},
	}
}
