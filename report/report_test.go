package report

import (
	"reflect"
	"testing"
)

func TestBuildHeaderSelection(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want []string
	}{
		{
			name: "empty rows yield no header",
			rows: nil,
			want: nil,
		},
		{
			name: "three columns use the narrow header",
			rows: [][]string{{"2026-08-30", "devops", "12"}},
			want: []string{"DATE", "GROUP", "MESSAGES"},
		},
		{
			name: "four columns use the wide header",
			rows: [][]string{{"alice", "devops", "2026-08-30", "12"}},
			want: []string{"USERNAME", "GROUP", "DATE", "MESSAGES"},
		},
		{
			name: "extra columns still use the wide header",
			rows: [][]string{{"alice", "devops", "2026-08-30", "12", "extra"}},
			want: []string{"USERNAME", "GROUP", "DATE", "MESSAGES"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.rows)
			if !reflect.DeepEqual(got.Headers, tt.want) {
				t.Fatalf("Headers = %v, want %v", got.Headers, tt.want)
			}
		})
	}
}

func TestEncodeCSV(t *testing.T) {
	rep := Build([][]string{
		{"2026-08-30", "devops", "12"},
		{"2026-08-31", "general", "3"},
	})
	data, err := rep.EncodeCSV()
	if err != nil {
		t.Fatalf("EncodeCSV: %v", err)
	}
	want := "DATE,GROUP,MESSAGES\n2026-08-30,devops,12\n2026-08-31,general,3\n"
	if string(data) != want {
		t.Fatalf("EncodeCSV = %q, want %q", data, want)
	}
}

func TestEncodeCSVEmptyReport(t *testing.T) {
	rep := Build(nil)
	if !rep.Empty() {
		t.Fatal("Empty() = false, want true")
	}
	data, err := rep.EncodeCSV()
	if err != nil {
		t.Fatalf("EncodeCSV: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("EncodeCSV = %q, want empty output", data)
	}
}

func TestEncodeCSVQuoting(t *testing.T) {
	rep := Build([][]string{
		{"2026-08-30", `group, with "quotes"`, "1"},
	})
	data, err := rep.EncodeCSV()
	if err != nil {
		t.Fatalf("EncodeCSV: %v", err)
	}
	want := "DATE,GROUP,MESSAGES\n2026-08-30,\"group, with \"\"quotes\"\"\",1\n"
	if string(data) != want {
		t.Fatalf("EncodeCSV = %q, want %q", data, want)
	}
}
