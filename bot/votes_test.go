package bot

import (
	"testing"

	"github.com/m3rciful/vbot/vote"
)

func TestVoteResponseText(t *testing.T) {
	tests := []struct {
		name      string
		decision  vote.Decision
		prev      vote.Choice
		persisted bool
		failed    bool
		want      string
	}{
		{
			name:     "accepted vote",
			decision: vote.Persist,
			want:     "Vote counted.",
		},
		{
			name:     "duplicate up",
			decision: vote.RejectDuplicate,
			prev:     vote.Up,
			want:     "You already voted up.",
		},
		{
			name:     "duplicate down",
			decision: vote.RejectDuplicate,
			prev:     vote.Down,
			want:     "You already voted down.",
		},
		{
			name:     "exhausted",
			decision: vote.RejectExhausted,
			want:     "You have no vote changes left.",
		},
		{
			name:     "save failed before persist",
			decision: vote.Persist,
			failed:   true,
			want:     "Something went wrong, try again later.",
		},
		{
			name:      "redraw failed after persist still counts",
			decision:  vote.Persist,
			persisted: true,
			failed:    true,
			want:      "Vote counted.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := voteResponseText(tt.decision, tt.prev, tt.persisted, tt.failed)
			if got != tt.want {
				t.Fatalf("voteResponseText() = %q, want %q", got, tt.want)
			}
		})
	}
}
