package combat

import (
	"sync"

	"github.com/cory-johannsen/bloodrage/internal/game/effect"
)

// EventType identifies an outbound combat signal.
type EventType int

const (
	EventUnknown EventType = iota // zero value; intentionally invalid
	EventBloodChanged
	EventAngerChanged
	EventDefeated
	EventAbilityUsed
	EventEffectAdded
	EventEffectRemoved
	EventStateChanged
	EventTurnStarted
	EventTurnEnded
	EventVictory
	EventDefeat
	EventEscape
)

var eventNames = map[EventType]string{
	EventBloodChanged:  "blood_changed",
	EventAngerChanged:  "anger_changed",
	EventDefeated:      "defeated",
	EventAbilityUsed:   "ability_used",
	EventEffectAdded:   "effect_added",
	EventEffectRemoved: "effect_removed",
	EventStateChanged:  "state_changed",
	EventTurnStarted:   "turn_started",
	EventTurnEnded:     "turn_ended",
	EventVictory:       "victory",
	EventDefeat:        "defeat",
	EventEscape:        "escape",
}

// String returns the snake_case name of the event type.
func (t EventType) String() string {
	if s, ok := eventNames[t]; ok {
		return s
	}
	return "unknown"
}

// Event is one fire-and-forget signal. Only the fields relevant to Type are set.
type Event struct {
	Type      EventType
	Combatant *Combatant
	Target    *Combatant
	Ability   *Ability
	Effect    *effect.Effect
	// Current and Max carry the pool values for blood_changed and anger_changed.
	Current int
	Max     int
	State   State
	Turn    int
	Round   int
}

// Emitter receives signals from combatants and encounters.
type Emitter interface {
	Publish(ev Event)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ev Event)

// Publish calls f(ev).
func (f EmitterFunc) Publish(ev Event) { f(ev) }

// Listener consumes events published on a Bus.
type Listener func(ev Event)

// Bus fans events out to listeners registered at composition time.
// Publish is synchronous. Listeners run on the publishing goroutine while the
// encounter lock is held and must not call back into the encounter.
type Bus struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewBus creates a Bus with no listeners.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers l.
//
// Precondition: l must not be nil.
func (b *Bus) Subscribe(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// Publish delivers ev to every listener in subscription order.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	ls := b.listeners
	b.mu.RUnlock()
	for _, l := range ls {
		l(ev)
	}
}
