package vote

// DefaultMaxAttempts caps vote actions per user per poll.
const DefaultMaxAttempts = 3

// Decision is the outcome of judging one button press against the ledger.
type Decision int

const (
	// Persist accepts the vote: append it to history, apply it to the
	// ledger, and redraw the keyboard.
	Persist Decision = iota
	// RejectDuplicate refuses a repeat of the user's current choice.
	// Nothing is persisted and no attempt is consumed.
	RejectDuplicate
	// RejectExhausted refuses a user who has spent all attempts.
	RejectExhausted
)

// Machine judges button presses. The zero value uses DefaultMaxAttempts.
type Machine struct {
	MaxAttempts int
}

func (m Machine) cap() int {
	if m.MaxAttempts > 0 {
		return m.MaxAttempts
	}
	return DefaultMaxAttempts
}

// Decide judges a press of choice by userID against the poll's ledger.
// The attempt cap is checked before the duplicate rule: an exhausted user is
// rejected as exhausted even when repeating their current choice.
func (m Machine) Decide(l *Ledger, userID int64, choice Choice) Decision {
	e, voted := l.Entry(userID)
	if e.Attempts >= m.cap() {
		return RejectExhausted
	}
	if voted && e.Choice == choice {
		return RejectDuplicate
	}
	return Persist
}
