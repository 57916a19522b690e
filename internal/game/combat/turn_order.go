package combat

// TurnOrder is the per-round queue of combatants still due to act.
// Rounds enqueue live combatants in roster order.
type TurnOrder struct {
	queue []*Combatant
	round int
}

// NewTurnOrder creates an empty queue at round zero.
func NewTurnOrder() *TurnOrder {
	return &TurnOrder{}
}

// Rebuild starts a new round from the live members of roster.
//
// Postcondition: Round() is incremented; Pending() == number of live combatants.
func (o *TurnOrder) Rebuild(roster []*Combatant) {
	o.round++
	o.queue = o.queue[:0]
	for _, c := range roster {
		if !c.IsDefeated() {
			o.queue = append(o.queue, c)
		}
	}
}

// Next dequeues the next live combatant. Defeated entries are skipped; an
// exhausted queue is rebuilt from roster first.
//
// Postcondition: Returns nil only when roster has no live combatants.
func (o *TurnOrder) Next(roster []*Combatant) *Combatant {
	for attempt := 0; attempt < 2; attempt++ {
		for len(o.queue) > 0 {
			c := o.queue[0]
			o.queue = o.queue[1:]
			if !c.IsDefeated() {
				return c
			}
		}
		if attempt == 0 {
			o.Rebuild(roster)
		}
	}
	return nil
}

// Pending returns the number of queued entries, including any defeated
// since the round began.
func (o *TurnOrder) Pending() int { return len(o.queue) }

// Round returns the number of rounds started.
func (o *TurnOrder) Round() int { return o.round }
