package vote

import "testing"

func TestBuildLedgerFold(t *testing.T) {
	tests := []struct {
		name     string
		history  []Record
		wantUp   int
		wantDown int
	}{
		{
			name: "empty history",
		},
		{
			name:    "single up",
			history: []Record{{UserID: 1, Choice: Up}},
			wantUp:  1,
		},
		{
			name: "two users split",
			history: []Record{
				{UserID: 1, Choice: Up},
				{UserID: 2, Choice: Down},
			},
			wantUp:   1,
			wantDown: 1,
		},
		{
			name: "switch moves user between partitions",
			history: []Record{
				{UserID: 1, Choice: Up},
				{UserID: 1, Choice: Down},
			},
			wantDown: 1,
		},
		{
			name: "full switch cycle counts latest choice",
			history: []Record{
				{UserID: 1, Choice: Up},
				{UserID: 1, Choice: Down},
				{UserID: 1, Choice: Up},
			},
			wantUp: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := BuildLedger(tt.history)
			up, down := l.Counts()
			if up != tt.wantUp || down != tt.wantDown {
				t.Fatalf("Counts() = (%d, %d), want (%d, %d)", up, down, tt.wantUp, tt.wantDown)
			}
		})
	}
}

func TestLedgerAttemptsCountActions(t *testing.T) {
	l := BuildLedger([]Record{
		{UserID: 7, Choice: Up},
		{UserID: 7, Choice: Down},
		{UserID: 7, Choice: Up},
	})
	e, ok := l.Entry(7)
	if !ok {
		t.Fatal("Entry(7) not found")
	}
	if e.Attempts != 3 {
		t.Fatalf("Attempts = %d, want 3", e.Attempts)
	}
	if e.Choice != Up {
		t.Fatalf("Choice = %q, want %q", e.Choice, Up)
	}
}

func TestLedgerSameHistorySameState(t *testing.T) {
	history := []Record{
		{UserID: 1, Choice: Up},
		{UserID: 2, Choice: Down},
		{UserID: 1, Choice: Down},
		{UserID: 3, Choice: Up},
	}
	a := BuildLedger(history)
	b := BuildLedger(history)

	au, ad := a.Counts()
	bu, bd := b.Counts()
	if au != bu || ad != bd {
		t.Fatalf("counts diverge: (%d, %d) vs (%d, %d)", au, ad, bu, bd)
	}
	for _, id := range []int64{1, 2, 3} {
		ea, _ := a.Entry(id)
		eb, _ := b.Entry(id)
		if ea != eb {
			t.Fatalf("entry %d diverges: %+v vs %+v", id, ea, eb)
		}
	}
}

func TestLedgerIgnoresUnknownChoice(t *testing.T) {
	l := BuildLedger([]Record{{UserID: 1, Choice: "sideways"}})
	if up, down := l.Counts(); up != 0 || down != 0 {
		t.Fatalf("Counts() = (%d, %d), want (0, 0)", up, down)
	}
	if _, ok := l.Entry(1); ok {
		t.Fatal("unknown choice must not create an entry")
	}
}
