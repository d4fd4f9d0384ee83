package tui

import (
	"strings"
	"testing"

	"fiesta-cli/internal/chat"
)

func TestRenderChecklist(t *testing.T) {
	cl := &chat.Checklist{
		Title: "Venue checklist",
		Items: []chat.ChecklistItem{
			{ID: "c1", Text: "Visit the venue", Checked: true},
			{ID: "c2", Text: "Pay the deposit"},
		},
	}

	out := renderChecklist(cl, false)
	if !strings.Contains(out, "[x] 1. Visit the venue") {
		t.Fatalf("checked item missing:\n%s", out)
	}
	if !strings.Contains(out, "[ ] 2. Pay the deposit") {
		t.Fatalf("unchecked item missing:\n%s", out)
	}
	if !strings.Contains(out, "/additems") {
		t.Fatal("pending checklist should advertise /additems")
	}

	added := renderChecklist(cl, true)
	if strings.Contains(added, "/additems") {
		t.Fatal("handled checklist must not advertise /additems")
	}
}

func TestRenderActionLabels(t *testing.T) {
	action := &chat.SuggestedAction{
		Type:         chat.ActionAddTasks,
		Prompt:       "Add these to your list?",
		ConfirmLabel: "add them",
		Items: []chat.SuggestedActionItem{
			{ID: "i1", Title: "Book the venue"},
			{ID: "i2", Title: "Catering budget", AmountMinor: 150000},
		},
	}

	out := renderAction(action, false, 80)
	if !strings.Contains(out, "Add these to your list?") {
		t.Fatalf("prompt missing:\n%s", out)
	}
	if !strings.Contains(out, "Book the venue") {
		t.Fatalf("item missing:\n%s", out)
	}
	if !strings.Contains(out, "1500.00") {
		t.Fatalf("amount missing:\n%s", out)
	}
	if !strings.Contains(out, "add them") {
		t.Fatalf("confirm label missing:\n%s", out)
	}

	handled := renderAction(action, true, 80)
	if !strings.Contains(handled, "handled") {
		t.Fatalf("applied action must show handled:\n%s", handled)
	}
}

func TestToolLine(t *testing.T) {
	line := toolLine(chat.ToolExecution{ToolName: "search_venues", Status: chat.ToolStatusInProgress})
	if !strings.Contains(line, "running") {
		t.Fatalf("got %q", line)
	}
	line = toolLine(chat.ToolExecution{ToolName: "search_venues", Status: chat.ToolStatusSuccess, Summary: "3 results"})
	if !strings.Contains(line, "done") || !strings.Contains(line, "3 results") {
		t.Fatalf("got %q", line)
	}
}
