package grove

// Phase is the state of a [Context].
type Phase int

const (
	// Declaring is the initial phase. Declarations are accepted and lookups
	// fail with [ErrNotResolved].
	Declaring Phase = iota

	// Resolving means [Context.Resolve] is running.
	Resolving

	// Resolved is terminal: every declaration produced a component and the
	// lookup API is available.
	Resolved

	// Failed is terminal: Resolve returned an error. There is no retry.
	Failed
)

// String returns the human-readable name of the phase.
func (p Phase) String() string {
	switch p {
	case Declaring:
		return "declaring"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

