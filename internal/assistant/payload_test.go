package assistant

import (
	"testing"

	"fiesta-cli/internal/chat"
)

func TestDecodeAction(t *testing.T) {
	args := `{
		"action_type": "add_tasks",
		"prompt": "Add these to your list?",
		"hint": "Ask about catering next",
		"items": [
			{"title": "Book the venue", "description": "downtown"},
			{"title": "Order catering"}
		]
	}`

	action, hint, err := decodeAction(args)
	if err != nil {
		t.Fatalf("decodeAction: %v", err)
	}
	if action.Type != chat.ActionAddTasks {
		t.Fatalf("type = %q", action.Type)
	}
	if hint != "Ask about catering next" {
		t.Fatalf("hint = %q", hint)
	}
	if len(action.Items) != 2 || action.Items[0].Title != "Book the venue" {
		t.Fatalf("items = %+v", action.Items)
	}
	if action.Items[0].ID == "" || action.Items[0].ID == action.Items[1].ID {
		t.Fatal("items must get distinct local ids")
	}
	if !action.Valid() {
		t.Fatal("decoded action should be valid")
	}
}

func TestDecodeActionMalformed(t *testing.T) {
	if _, _, err := decodeAction(`{"action_type": add_tasks}`); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestDecodeChecklist(t *testing.T) {
	args := `{
		"title": "Venue checklist",
		"topic": "venue",
		"items": [
			{"text": "Visit the venue"},
			{"text": "   "},
			{"text": "Pay the deposit"}
		]
	}`

	cl, err := decodeChecklist(args)
	if err != nil {
		t.Fatalf("decodeChecklist: %v", err)
	}
	if cl.Title != "Venue checklist" || cl.Topic != "venue" {
		t.Fatalf("checklist = %+v", cl)
	}
	if len(cl.Items) != 2 {
		t.Fatalf("blank items must be dropped, got %d", len(cl.Items))
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "bare object", in: `{"a":1}`, want: `{"a":1}`, ok: true},
		{name: "surrounded by prose", in: "Sure! Here it is: {\"a\":1} hope it helps", want: `{"a":1}`, ok: true},
		{name: "nested braces", in: `{"a":{"b":2}}`, want: `{"a":{"b":2}}`, ok: true},
		{name: "brace inside string", in: `{"a":"}"}`, want: `{"a":"}"}`, ok: true},
		{name: "escaped quote", in: `{"a":"say \"hi\""}`, want: `{"a":"say \"hi\""}`, ok: true},
		{name: "unbalanced", in: `{"a":1`, ok: false},
		{name: "no object", in: "plain text", ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractJSON(tc.in)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseHints(t *testing.T) {
	text := "Here you go:\n```json\n{\"primary\": \"Plan the menu\", \"suggested\": [\"Pick a date\", \"Set a budget\"]}\n```"
	hints, err := parseHints(text)
	if err != nil {
		t.Fatalf("parseHints: %v", err)
	}
	if hints.Primary != "Plan the menu" || len(hints.Suggested) != 2 {
		t.Fatalf("hints = %+v", hints)
	}

	if _, err := parseHints("no json here"); err == nil {
		t.Fatal("expected error for prose-only response")
	}
}
