package bot

import (
	"testing"

	"github.com/m3rciful/vbot/vote"
)

func TestVoteLabel(t *testing.T) {
	tests := []struct {
		name  string
		emoji string
		count int
		want  string
	}{
		{name: "zero count shows emoji alone", emoji: upEmoji, count: 0, want: upEmoji},
		{name: "positive count appends number", emoji: upEmoji, count: 7, want: upEmoji + " 7"},
		{name: "down emoji with count", emoji: downEmoji, count: 1, want: downEmoji + " 1"},
		{name: "large count", emoji: downEmoji, count: 120, want: downEmoji + " 120"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := voteLabel(tt.emoji, tt.count); got != tt.want {
				t.Fatalf("voteLabel(%q, %d) = %q, want %q", tt.emoji, tt.count, got, tt.want)
			}
		})
	}
}

func TestPollMarkup(t *testing.T) {
	markup := pollMarkup(2, 0)

	if len(markup.InlineKeyboard) != 1 {
		t.Fatalf("rows = %d, want 1", len(markup.InlineKeyboard))
	}
	row := markup.InlineKeyboard[0]
	if len(row) != 2 {
		t.Fatalf("buttons = %d, want 2", len(row))
	}

	up, down := row[0], row[1]
	if up.Text != upEmoji+" 2" {
		t.Fatalf("up text = %q, want %q", up.Text, upEmoji+" 2")
	}
	if down.Text != downEmoji {
		t.Fatalf("down text = %q, want emoji alone at zero", down.Text)
	}
	if up.Unique != voteCallbackKey || down.Unique != voteCallbackKey {
		t.Fatalf("uniques = (%q, %q), want both %q", up.Unique, down.Unique, voteCallbackKey)
	}
	if up.Data != string(vote.Up) {
		t.Fatalf("up data = %q, want %q", up.Data, vote.Up)
	}
	if down.Data != string(vote.Down) {
		t.Fatalf("down data = %q, want %q", down.Data, vote.Down)
	}
}
