package vote

import "testing"

func TestMachineDecide(t *testing.T) {
	tests := []struct {
		name    string
		history []Record
		userID  int64
		choice  Choice
		want    Decision
	}{
		{
			name:   "first vote persists",
			userID: 1,
			choice: Up,
			want:   Persist,
		},
		{
			name:    "repeat of current choice is duplicate",
			history: []Record{{UserID: 1, Choice: Up}},
			userID:  1,
			choice:  Up,
			want:    RejectDuplicate,
		},
		{
			name:    "switching choice persists",
			history: []Record{{UserID: 1, Choice: Up}},
			userID:  1,
			choice:  Down,
			want:    Persist,
		},
		{
			name: "fourth action is exhausted",
			history: []Record{
				{UserID: 1, Choice: Up},
				{UserID: 1, Choice: Down},
				{UserID: 1, Choice: Up},
			},
			userID: 1,
			choice: Down,
			want:   RejectExhausted,
		},
		{
			name: "exhausted wins over duplicate",
			history: []Record{
				{UserID: 1, Choice: Up},
				{UserID: 1, Choice: Down},
				{UserID: 1, Choice: Up},
			},
			userID: 1,
			choice: Up,
			want:   RejectExhausted,
		},
		{
			name:    "other users unaffected by someone's attempts",
			history: []Record{{UserID: 1, Choice: Up}, {UserID: 1, Choice: Down}, {UserID: 1, Choice: Up}},
			userID:  2,
			choice:  Down,
			want:    Persist,
		},
	}
	var m Machine
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := BuildLedger(tt.history)
			if got := m.Decide(l, tt.userID, tt.choice); got != tt.want {
				t.Fatalf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

// The canonical three-attempt run: Up, Down, Up all persist, then everything
// is refused.
func TestMachineThreeAttemptLifecycle(t *testing.T) {
	var m Machine
	l := BuildLedger(nil)

	for i, choice := range []Choice{Up, Down, Up} {
		if got := m.Decide(l, 5, choice); got != Persist {
			t.Fatalf("attempt %d: Decide() = %v, want Persist", i+1, got)
		}
		l.Apply(Record{UserID: 5, Choice: choice})
	}

	if got := m.Decide(l, 5, Down); got != RejectExhausted {
		t.Fatalf("after cap: Decide(Down) = %v, want RejectExhausted", got)
	}
	if got := m.Decide(l, 5, Up); got != RejectExhausted {
		t.Fatalf("after cap: Decide(Up) = %v, want RejectExhausted", got)
	}

	up, down := l.Counts()
	if up != 1 || down != 0 {
		t.Fatalf("Counts() = (%d, %d), want (1, 0)", up, down)
	}
}

func TestMachineCustomCap(t *testing.T) {
	m := Machine{MaxAttempts: 1}
	l := BuildLedger([]Record{{UserID: 1, Choice: Up}})
	if got := m.Decide(l, 1, Down); got != RejectExhausted {
		t.Fatalf("Decide() = %v, want RejectExhausted", got)
	}
}
