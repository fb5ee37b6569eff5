// Package condition tracks the time-boxed modifiers carried by each entity:
// armor, damage and splash immunity, attack and bidding bans, paralysis and
// the one-shot flags granted by black-market assets.
//
// Durations are counted in turn-ends of the holder's own side. A condition
// scheduled during a turn starts when that turn ends, so it covers the whole
// of the holder's next d turns.
package condition

import "fmt"

// Kind is the lifecycle stage of a Timer.
type Kind uint8

const (
	Inactive Kind = iota
	Pending
	Active
)

func (k Kind) String() string {
	switch k {
	case Inactive:
		return "inactive"
	case Pending:
		return "pending"
	case Active:
		return "active"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Timer is a tagged duration. Pending timers hold the duration they will
// start with; active timers hold the turns left.
type Timer struct {
	Kind  Kind `json:"kind"`
	Turns int  `json:"turns"`
}

// Schedule returns a timer that becomes active with d turns at the next
// decay.
func Schedule(d int) Timer {
	if d <= 0 {
		return Timer{}
	}
	return Timer{Kind: Pending, Turns: d}
}

// Activate returns a timer that is already in effect for d turns.
func Activate(d int) Timer {
	if d <= 0 {
		return Timer{}
	}
	return Timer{Kind: Active, Turns: d}
}

// IsActive reports whether the condition currently applies.
func (t Timer) IsActive() bool { return t.Kind == Active && t.Turns > 0 }

// IsPending reports whether the condition starts at the next decay.
func (t Timer) IsPending() bool { return t.Kind == Pending && t.Turns > 0 }

// Apply merges a newly imposed condition into t. An active condition is
// extended by the new duration plus one, since the current turn is already
// spent; anything else is replaced.
func (t Timer) Apply(next Timer) Timer {
	if next.Turns <= 0 {
		return t
	}
	if t.IsActive() {
		return Timer{Kind: Active, Turns: t.Turns + next.Turns + 1}
	}
	return next
}

// Decay advances the timer by one turn-end of its holder's side.
func (t Timer) Decay() Timer {
	switch {
	case t.IsActive():
		if t.Turns-1 <= 0 {
			return Timer{}
		}
		return Timer{Kind: Active, Turns: t.Turns - 1}
	case t.IsPending():
		return Timer{Kind: Active, Turns: t.Turns}
	default:
		return Timer{}
	}
}

// Signed renders the timer in the legacy single-integer form: positive while
// active, negative while pending, zero when inactive.
func (t Timer) Signed() int {
	switch {
	case t.IsActive():
		return t.Turns
	case t.IsPending():
		return -t.Turns
	default:
		return 0
	}
}

// FromSigned is the inverse of Signed.
func FromSigned(v int) Timer {
	switch {
	case v > 0:
		return Activate(v)
	case v < 0:
		return Schedule(-v)
	default:
		return Timer{}
	}
}

func (t Timer) String() string {
	if t.Kind == Inactive {
		return "inactive"
	}
	return fmt.Sprintf("%s(%d)", t.Kind, t.Turns)
}
