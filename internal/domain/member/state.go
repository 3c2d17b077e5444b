package member

// State tracks how far the session has gotten reconciling the local card
// against the remote backend.
type State int

const (
	// StateUnloaded means no local card exists yet.
	StateUnloaded State = iota
	// StateLocalOnly means the local card is loaded but the remote balance
	// has not been confirmed (backend unreachable during load).
	StateLocalOnly
	// StateReconciled means local and remote balances agree.
	StateReconciled
	// StateCorrected means the remote balance differed and the local card
	// was overwritten with it.
	StateCorrected
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLocalOnly:
		return "local-only"
	case StateReconciled:
		return "reconciled"
	case StateCorrected:
		return "corrected"
	default:
		return "unknown"
	}
}
