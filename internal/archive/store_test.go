package archive

import (
	"testing"

	"fiesta-cli/internal/chat"
)

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	rec := Record{
		EventID:        "ev1",
		ConversationID: "conv-1",
		Title:          "Venue hunt",
		Messages: []chat.Message{
			{ID: "m1", Author: chat.AuthorUser, Content: "Help me find a venue"},
			{ID: "m2", Author: chat.AuthorAssistant, Content: "Here are three options downtown."},
		},
	}

	id, err := s.Save(rec)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	got, err := s.Load(id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ConversationID != "conv-1" || len(got.Messages) != 2 {
		t.Fatalf("round trip lost data: %+v", got)
	}
	if got.Preview == "" {
		t.Fatal("preview should derive from the last message")
	}
}

func TestStoreFindByConversation(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	if _, err := s.Save(Record{EventID: "ev1", ConversationID: "conv-a"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.Save(Record{EventID: "ev1", ConversationID: "conv-b"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	rec, ok, err := s.FindByConversation("conv-b")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !ok || rec.ConversationID != "conv-b" {
		t.Fatalf("expected conv-b, got %+v ok=%v", rec, ok)
	}

	if _, ok, _ := s.FindByConversation("conv-missing"); ok {
		t.Fatal("expected miss for unknown conversation")
	}
}

func TestStoreHistory(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	msgs := []chat.Message{{ID: "m1", Author: chat.AuthorUser, Content: "hello"}}
	if _, err := s.Save(Record{EventID: "ev1", ConversationID: "conv-a", Messages: msgs}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok := s.History("conv-a")
	if !ok || len(got) != 1 || got[0].Content != "hello" {
		t.Fatalf("history = %+v ok=%v", got, ok)
	}
	if _, ok := s.History("conv-missing"); ok {
		t.Fatal("expected miss")
	}
}

func TestStoreListFiltersAndOrders(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	if _, err := s.Save(Record{EventID: "ev1", ConversationID: "c1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.Save(Record{EventID: "ev2", ConversationID: "c2"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	all, err := s.List("")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 records, got %d", len(all))
	}

	filtered, err := s.List("ev1")
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].EventID != "ev1" {
		t.Fatalf("filter failed: %+v", filtered)
	}
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	id, err := s.Save(Record{EventID: "ev1"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Delete(id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(id); err != nil {
		t.Fatalf("second delete must be a no-op: %v", err)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	s := &Store{Dir: t.TempDir() + "/never-created"}
	records, err := s.List("")
	if err != nil {
		t.Fatalf("missing dir must not error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty list, got %d", len(records))
	}
}
