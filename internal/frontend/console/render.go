package console

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/bloodrage/internal/game/combat"
	"github.com/cory-johannsen/bloodrage/internal/game/command"
)

// RenderEvent formats one encounter signal as a console line. Signals the
// player does not need to see render as "".
func RenderEvent(ev combat.Event) string {
	switch ev.Type {
	case combat.EventTurnStarted:
		if ev.Combatant == nil {
			return ""
		}
		return Colorf(Dim, "-- round %d, turn %d: %s --", ev.Round, ev.Turn+1, ev.Combatant.Name())
	case combat.EventAbilityUsed:
		if ev.Combatant == nil || ev.Ability == nil {
			return ""
		}
		if ev.Target == nil || ev.Target == ev.Combatant {
			return Colorf(BrightWhite, "%s uses %s.", ev.Combatant.Name(), ev.Ability.Name())
		}
		return Colorf(BrightWhite, "%s uses %s on %s.", ev.Combatant.Name(), ev.Ability.Name(), ev.Target.Name())
	case combat.EventBloodChanged:
		if ev.Combatant == nil {
			return ""
		}
		return fmt.Sprintf("  %s: blood %s", ev.Combatant.Name(), Colorf(bloodColor(ev.Current, ev.Max), "%d/%d", ev.Current, ev.Max))
	case combat.EventDefeated:
		if ev.Combatant == nil {
			return ""
		}
		return Colorf(Red, "%s falls.", ev.Combatant.Name())
	case combat.EventEffectAdded:
		if ev.Combatant == nil || ev.Effect == nil {
			return ""
		}
		return Colorf(Magenta, "  %s is %s.", ev.Combatant.Name(), strings.ToLower(ev.Effect.Name()))
	case combat.EventEffectRemoved:
		if ev.Combatant == nil || ev.Effect == nil {
			return ""
		}
		return Colorf(Dim, "  %s is no longer %s.", ev.Combatant.Name(), strings.ToLower(ev.Effect.Name()))
	case combat.EventVictory:
		return Colorize(Bold+Green, "Victory!")
	case combat.EventDefeat:
		return Colorize(Bold+Red, "Defeat.")
	case combat.EventEscape:
		return Colorize(Bold+Yellow, "You escaped.")
	}
	return ""
}

// RenderCombatant formats one roster line.
func RenderCombatant(c combat.CombatantView, acting bool) string {
	var b strings.Builder
	if acting {
		b.WriteString(Colorize(BrightYellow, "> "))
	} else {
		b.WriteString("  ")
	}
	name := c.Name
	if c.Defeated {
		name = Colorize(Dim, name+" (defeated)")
	}
	fmt.Fprintf(&b, "%-10s %s [%s]  blood %s  anger %d/%d",
		c.Faction, name, c.ID,
		Colorf(bloodColor(c.Blood, c.MaxBlood), "%d/%d", c.Blood, c.MaxBlood),
		c.Anger, c.MaxAnger)
	if len(c.Effects) > 0 {
		parts := make([]string, 0, len(c.Effects))
		for _, e := range c.Effects {
			parts = append(parts, fmt.Sprintf("%s %d", strings.ToLower(e.Name), e.Remaining))
		}
		b.WriteString(Colorf(Magenta, "  (%s)", strings.Join(parts, ", ")))
	}
	return b.String()
}

// RenderStatus formats the whole roster, marking the combatant with actingID.
func RenderStatus(roster []combat.CombatantView, actingID string) string {
	var b strings.Builder
	for _, c := range roster {
		b.WriteString(RenderCombatant(c, c.ID == actingID))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderAbilities lists c's abilities with their current cost, dimming the
// ones it cannot afford.
func RenderAbilities(c combat.CombatantView) string {
	parts := make([]string, 0, len(c.Abilities))
	for _, a := range c.Abilities {
		label := fmt.Sprintf("%s(%d)", a.ID, a.Cost)
		if !a.Affordable {
			label = Colorize(Dim, label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

// RenderTargets lists combatants by ID and name.
func RenderTargets(targets []combat.CombatantView) string {
	if len(targets) == 0 {
		return Colorize(Dim, "no valid targets")
	}
	parts := make([]string, 0, len(targets))
	for _, t := range targets {
		parts = append(parts, fmt.Sprintf("%s (%s)", t.ID, t.Name))
	}
	return "targets: " + strings.Join(parts, ", ")
}

// RenderHelp lists the registry's commands grouped by category.
func RenderHelp(r *command.Registry) string {
	var b strings.Builder
	cats := r.CommandsByCategory()
	for _, cat := range []string{command.CategoryCombat, command.CategoryInfo, command.CategorySystem} {
		b.WriteString(Colorize(Cyan, cat))
		b.WriteString("\n")
		for _, cmd := range cats[cat] {
			fmt.Fprintf(&b, "  %-24s %s\n", cmd.Usage, cmd.Help)
		}
	}
	return b.String()
}

// RenderLine formats a scripted line of dialogue.
func RenderLine(speaker, line string) string {
	return Colorf(Cyan, "%s: ", speaker) + Colorize(White, line)
}
