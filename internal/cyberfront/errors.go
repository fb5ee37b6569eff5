package cyberfront

import (
	"errors"
	"fmt"
)

// ErrRejected is wrapped by every precondition failure. A rejected action
// leaves the game untouched.
var ErrRejected = errors.New("action rejected")

var (
	ErrNotInProgress = fmt.Errorf("%w: game is not in progress", ErrRejected)
	ErrNotYourTurn   = fmt.Errorf("%w: side is not active", ErrRejected)
	ErrAlreadyActed  = fmt.Errorf("%w: entity has already acted this turn", ErrRejected)
	ErrParalysed     = fmt.Errorf("%w: entity is paralysed", ErrRejected)
	ErrInsufficient  = fmt.Errorf("%w: not enough resource", ErrRejected)
	ErrNotSeated     = fmt.Errorf("%w: user does not control this entity", ErrRejected)
)

// Reject builds a precondition error with a formatted reason.
func Reject(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRejected, fmt.Sprintf(format, args...))
}
