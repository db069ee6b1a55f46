package todo

import (
	"errors"
	"strings"
	"testing"
)

func TestCheckSchemas(t *testing.T) {
	if err := CheckSchemas(); err != nil {
		t.Fatalf("embedded schemas do not compile: %v", err)
	}
}

func TestDecodeDraft(t *testing.T) {
	today := MustParseDate("2025-06-22")

	d, err := DecodeDraft([]byte(`{
		"title": "Ship report",
		"description": "final pass",
		"priority": "high",
		"category": "work",
		"due_date": "+3d"
	}`), today)
	if err != nil {
		t.Fatalf("DecodeDraft failed: %v", err)
	}
	if d.Title != "Ship report" || d.Description != "final pass" {
		t.Errorf("text fields: got %q/%q", d.Title, d.Description)
	}
	if d.Priority != PriorityHigh || d.Category != CategoryWork {
		t.Errorf("enums: got %q/%q", d.Priority, d.Category)
	}
	if d.DueDate.String() != "2025-06-25" {
		t.Errorf("DueDate: got %q, want %q", d.DueDate, "2025-06-25")
	}

	sparse, err := DecodeDraft([]byte(`{"title":"only a title"}`), today)
	if err != nil {
		t.Fatalf("DecodeDraft sparse failed: %v", err)
	}
	if sparse.Priority != "" || sparse.Category != "" || !sparse.DueDate.IsZero() {
		t.Errorf("sparse draft: got %+v", sparse)
	}
}

func TestDecodeDraftInvalid(t *testing.T) {
	today := MustParseDate("2025-06-22")

	tests := []struct {
		name     string
		input    string
		wantPath string
	}{
		{name: "malformed json", input: `{"title":`},
		{name: "missing title", input: `{}`},
		{name: "blank title", input: `{"title":"   "}`, wantPath: "title"},
		{name: "title wrong type", input: `{"title": 7}`, wantPath: "title"},
		{name: "unknown priority", input: `{"title":"x","priority":"urgent"}`, wantPath: "priority"},
		{name: "unknown category", input: `{"title":"x","category":"hobby"}`, wantPath: "category"},
		{name: "bad due date", input: `{"title":"x","due_date":"soon"}`, wantPath: "due_date"},
		{name: "impossible due date", input: `{"title":"x","due_date":"2025-02-30"}`, wantPath: "due_date"},
		{name: "unknown field", input: `{"title":"x","tags":["a"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDraft([]byte(tt.input), today)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected errors.Is(err, ErrInvalid), got %v", err)
			}
			if tt.wantPath != "" && !strings.Contains(err.Error(), tt.wantPath) {
				t.Errorf("error %q does not mention %q", err, tt.wantPath)
			}
		})
	}
}

func TestDecodePatch(t *testing.T) {
	today := MustParseDate("2025-06-22")

	p, err := DecodePatch([]byte(`{"priority":"low","due_date":"none","completed":true}`), today)
	if err != nil {
		t.Fatalf("DecodePatch failed: %v", err)
	}
	if p.Title != nil || p.Description != nil || p.Category != nil {
		t.Errorf("unset fields should be nil: %+v", p)
	}
	if p.Priority == nil || *p.Priority != PriorityLow {
		t.Errorf("Priority: got %v, want low", p.Priority)
	}
	if p.DueDate == nil || !p.DueDate.IsZero() {
		t.Errorf("DueDate: got %v, want cleared", p.DueDate)
	}
	if p.Completed == nil || !*p.Completed {
		t.Errorf("Completed: got %v, want true", p.Completed)
	}

	dated, err := DecodePatch([]byte(`{"due_date":"yesterday"}`), today)
	if err != nil {
		t.Fatalf("DecodePatch failed: %v", err)
	}
	if dated.DueDate == nil || dated.DueDate.String() != "2025-06-21" {
		t.Errorf("DueDate: got %v, want 2025-06-21", dated.DueDate)
	}
}

func TestDecodePatchInvalid(t *testing.T) {
	today := MustParseDate("2025-06-22")

	for _, input := range []string{
		`{}`,
		`{"title":""}`,
		`{"completed":"yes"}`,
		`{"id":"T001"}`,
		`[]`,
	} {
		t.Run(input, func(t *testing.T) {
			if _, err := DecodePatch([]byte(input), today); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/", ""},
		{"/title", "title"},
		{"/tasks/0/title", "tasks[0].title"},
		{"#/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tt := range tests {
		if got := jsonPointerToPath(tt.in); got != tt.want {
			t.Errorf("jsonPointerToPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
