package tui

import "testing"

func TestPromptHistoryBrowse(t *testing.T) {
	var h promptHistory
	h.Set([]string{"first", "second"})

	got, ok := h.Prev("draft in progress")
	if !ok || got != "second" {
		t.Fatalf("Prev = %q ok=%v", got, ok)
	}
	got, _ = h.Prev("")
	if got != "first" {
		t.Fatalf("Prev = %q, want first", got)
	}
	// 到顶后停住
	got, _ = h.Prev("")
	if got != "first" {
		t.Fatalf("Prev at top = %q, want first", got)
	}

	got, _ = h.Next()
	if got != "second" {
		t.Fatalf("Next = %q, want second", got)
	}
	got, ok = h.Next()
	if !ok || got != "draft in progress" {
		t.Fatalf("Next past end should restore the draft, got %q ok=%v", got, ok)
	}
	if _, ok := h.Next(); ok {
		t.Fatal("Next at the latest position must be a no-op")
	}
}

func TestPromptHistoryAddResetsCursor(t *testing.T) {
	var h promptHistory
	h.Add("one")
	h.Prev("")
	h.Add("two")

	got, _ := h.Prev("")
	if got != "two" {
		t.Fatalf("Prev after Add = %q, want two", got)
	}
}

func TestPromptHistoryIgnoresBlank(t *testing.T) {
	var h promptHistory
	h.Add("   ")
	if _, ok := h.Prev(""); ok {
		t.Fatal("blank entries must not be recorded")
	}
}
