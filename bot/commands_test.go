package bot

import "testing"

func TestParseReportDays(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    int
		wantErr bool
	}{
		{name: "empty defaults to one day", arg: "", want: 1},
		{name: "zero means today", arg: "0", want: 0},
		{name: "plain number", arg: "14", want: 14},
		{name: "upper bound", arg: "365", want: 365},
		{name: "above upper bound", arg: "366", wantErr: true},
		{name: "negative", arg: "-1", wantErr: true},
		{name: "not a number", arg: "week", wantErr: true},
		{name: "float", arg: "1.5", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseReportDays(tt.arg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseReportDays(%q) expected an error", tt.arg)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseReportDays(%q): %v", tt.arg, err)
			}
			if got != tt.want {
				t.Fatalf("parseReportDays(%q) = %d, want %d", tt.arg, got, tt.want)
			}
		})
	}
}
