package attendance

// State is the live position of an employee in the day's attendance flow.
// It is never stored; DeriveState reads it off the entry.
type State string

const (
	StateNotCheckedIn State = "NOT_CHECKED_IN"
	StateCheckedIn    State = "CHECKED_IN"
	StateOnBreak      State = "ON_BREAK"
	StateCheckedOut   State = "CHECKED_OUT"
)

// DeriveState maps an entry (nil when the day has none yet) to its State.
func DeriveState(e *Entry) State {
	switch {
	case e == nil || e.CheckIn == nil:
		return StateNotCheckedIn
	case e.CheckOut != nil:
		return StateCheckedOut
	}

	if _, ok := ActiveBreak(*e); ok {
		return StateOnBreak
	}
	return StateCheckedIn
}
