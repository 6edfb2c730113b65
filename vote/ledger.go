// Package vote holds the in-memory poll engine: the per-poll ledger folded
// from the append-only vote history, the state machine that judges each
// button press, and the session map serializing presses per poll.
package vote

// Choice is one of the two poll options.
type Choice string

const (
	// Up is the approving choice.
	Up Choice = "up"
	// Down is the disapproving choice.
	Down Choice = "down"
)

// Valid reports whether c is one of the two known choices.
func (c Choice) Valid() bool { return c == Up || c == Down }

// Record is one persisted vote action: user X pressed choice Y.
// History rows are append-only; a switched vote adds a row, it never
// rewrites one.
type Record struct {
	UserID int64
	Choice Choice
}

// Entry is the folded per-user state inside a ledger.
type Entry struct {
	Choice   Choice
	Attempts int
}

// Ledger is the current state of one poll, derived purely from its history.
// Counts partition users by their latest choice; attempts count actions.
type Ledger struct {
	entries map[int64]Entry
	up      int
	down    int
}

// BuildLedger folds the ordered vote history into a ledger. The same history
// always yields the same ledger.
func BuildLedger(history []Record) *Ledger {
	l := &Ledger{entries: make(map[int64]Entry)}
	for _, rec := range history {
		l.Apply(rec)
	}
	return l
}

// Apply advances the ledger by one accepted vote action.
func (l *Ledger) Apply(rec Record) {
	if !rec.Choice.Valid() {
		return
	}
	prev, voted := l.entries[rec.UserID]
	if voted {
		switch prev.Choice {
		case Up:
			l.up--
		case Down:
			l.down--
		}
	}
	switch rec.Choice {
	case Up:
		l.up++
	case Down:
		l.down++
	}
	l.entries[rec.UserID] = Entry{Choice: rec.Choice, Attempts: prev.Attempts + 1}
}

// Entry returns the folded state for a user and whether the user has voted.
func (l *Ledger) Entry(userID int64) (Entry, bool) {
	e, ok := l.entries[userID]
	return e, ok
}

// Counts returns the current up/down partition of voters.
func (l *Ledger) Counts() (up, down int) {
	return l.up, l.down
}

// Voters returns the number of distinct users in the ledger.
func (l *Ledger) Voters() int {
	return len(l.entries)
}
