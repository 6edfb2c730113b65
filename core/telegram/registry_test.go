package telegram

import (
	"testing"

	"github.com/m3rciful/vbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	reg.SetBotUsername("vbot")
	handler := func(tele.Context) error { return nil }
	reg.RegisterCommand("/getreport", commands.Command{
		Handler:     handler,
		Description: "report",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/start", commands.Command{
		Handler:     handler,
		Description: "help",
	})
	return reg
}

func TestLookupCommand(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name    string
		text    string
		wantKey string
		wantOK  bool
	}{
		{
			name:    "exact match",
			text:    "/getreport",
			wantKey: "/getreport",
			wantOK:  true,
		},
		{
			name:    "first token only, argument ignored",
			text:    "/getreport 2",
			wantKey: "/getreport",
			wantOK:  true,
		},
		{
			name:    "tab separated argument",
			text:    "/start\thello",
			wantKey: "/start",
			wantOK:  true,
		},
		{
			name: "wrong case does not match",
			text: "/GetReport",
		},
		{
			name:    "own username suffix stripped",
			text:    "/getreport@vbot 2",
			wantKey: "/getreport",
			wantOK:  true,
		},
		{
			name:    "username suffix matched case-insensitively",
			text:    "/getreport@VBot",
			wantKey: "/getreport",
			wantOK:  true,
		},
		{
			name: "foreign username suffix does not match",
			text: "/getreport@otherbot",
		},
		{
			name: "unknown command",
			text: "/unknown",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, cmd, ok := reg.LookupCommand(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("LookupCommand(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if key != tt.wantKey {
				t.Fatalf("LookupCommand(%q) key = %q, want %q", tt.text, key, tt.wantKey)
			}
			if cmd.Handler == nil {
				t.Fatalf("LookupCommand(%q) returned nil handler", tt.text)
			}
		})
	}
}

func TestLookupCommandNoConfiguredUsername(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{
		Handler:     func(tele.Context) error { return nil },
		Description: "help",
	})

	// Without a configured username any suffix is stripped.
	key, _, ok := reg.LookupCommand("/start@whoever")
	if !ok || key != "/start" {
		t.Fatalf("LookupCommand = (%q, %v), want (%q, true)", key, ok, "/start")
	}
}
