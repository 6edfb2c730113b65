package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		wantUnique  string
		wantPayload string
	}{
		{
			name:        "form feed prefix with payload",
			data:        "\fvote|up",
			wantUnique:  "vote",
			wantPayload: "up",
		},
		{
			name:       "form feed prefix without payload",
			data:       "\fvote",
			wantUnique: "vote",
		},
		{
			name:        "no prefix",
			data:        "vote|down",
			wantUnique:  "vote",
			wantPayload: "down",
		},
		{
			name:        "payload keeps inner separators",
			data:        "\fvote|a|b",
			wantUnique:  "vote",
			wantPayload: "a|b",
		},
		{
			name: "empty data",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unique, payload := ParseCallbackData(&tele.Callback{Data: tt.data})
			if unique != tt.wantUnique || payload != tt.wantPayload {
				t.Fatalf("ParseCallbackData(%q) = (%q, %q), want (%q, %q)",
					tt.data, unique, payload, tt.wantUnique, tt.wantPayload)
			}
		})
	}
}

func TestParseCallbackDataNil(t *testing.T) {
	unique, payload := ParseCallbackData(nil)
	if unique != "" || payload != "" {
		t.Fatalf("ParseCallbackData(nil) = (%q, %q), want empty", unique, payload)
	}
}
