package tui

import (
	"context"
	"sync"
	"testing"

	"fiesta-cli/internal/assistant"
	"fiesta-cli/internal/chat"
	"fiesta-cli/internal/planner"
)

type countingConversations struct {
	mu    sync.Mutex
	calls int
}

func (f *countingConversations) Saved(ctx context.Context, eventID string) ([]planner.SavedConversation, error) {
	return nil, nil
}

func (f *countingConversations) Save(ctx context.Context, eventID, conversationID string) error {
	return nil
}

func (f *countingConversations) Unsave(ctx context.Context, eventID, conversationID string) error {
	return nil
}

func (f *countingConversations) ToggleChecklistItem(ctx context.Context, eventID, checklistID, itemID string, checked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil
}

func (f *countingConversations) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestCheckCommandDefersRemoteSync(t *testing.T) {
	conv := &countingConversations{}
	engine := chat.New(chat.Options{
		Event:         planner.Event{ID: "ev-1", Name: "Spring Gala"},
		Streamer:      &assistant.Scripted{},
		Conversations: conv,
	})
	engine.Store().Append(chat.Message{
		ID:     "m1",
		Author: chat.AuthorAssistant,
		Checklist: &chat.Checklist{
			ID:    "cl-1",
			Title: "Venue checklist",
			Items: []chat.ChecklistItem{{ID: "i1", Text: "Book the venue"}},
		},
	})

	m := New(Options{Engine: engine, Event: planner.Event{ID: "ev-1"}})
	cmd := m.runCommand(CommandCheck, []string{"1"})
	if cmd == nil {
		t.Fatal("expected a deferred command for /check")
	}
	// Update 返回前不得发起远端同步。
	if got := conv.count(); got != 0 {
		t.Fatalf("remote sync ran on the event loop, calls = %d", got)
	}

	cmd()
	if got := conv.count(); got != 1 {
		t.Fatalf("toggle calls = %d, want 1", got)
	}
	msg, ok := engine.Store().Find("m1")
	if !ok || msg.Checklist == nil {
		t.Fatal("checklist message missing after toggle")
	}
	if !msg.Checklist.Items[0].Checked {
		t.Fatal("item not checked after deferred toggle")
	}
}
