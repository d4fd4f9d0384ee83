package chat

import (
	"testing"
	"time"
)

func TestStoreAppendFindReplace(t *testing.T) {
	s := NewStore()
	msg := Message{ID: "m1", Content: "hello", Author: AuthorUser, CreatedAt: time.Now()}
	s.Append(msg)

	got, ok := s.Find("m1")
	if !ok {
		t.Fatal("expected to find m1")
	}
	if got.Content != "hello" {
		t.Fatalf("expected hello, got %q", got.Content)
	}

	got.Content = "changed"
	s.Replace("m1", got)
	got2, _ := s.Find("m1")
	if got2.Content != "changed" {
		t.Fatalf("replace not applied, got %q", got2.Content)
	}

	// unknown id is a silent no-op
	s.Replace("missing", Message{ID: "missing"})
	if s.Len() != 1 {
		t.Fatalf("expected 1 message, got %d", s.Len())
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	s := NewStore()
	s.Append(Message{ID: "m1", ToolExecutions: []ToolExecution{{ToolName: "search", Status: ToolStatusInProgress}}})

	got, _ := s.Find("m1")
	got.ToolExecutions[0].Status = ToolStatusError

	again, _ := s.Find("m1")
	if again.ToolExecutions[0].Status != ToolStatusInProgress {
		t.Fatal("mutating a returned message leaked into the store")
	}
}

func TestStoreSubscribeNotifies(t *testing.T) {
	s := NewStore()
	sub := s.Subscribe()

	s.Append(Message{ID: "m1"})
	select {
	case <-sub:
	case <-time.After(time.Second):
		t.Fatal("no notification after append")
	}

	// 通知是非阻塞合并的：连续变更不会堵死存储
	s.Append(Message{ID: "m2"})
	s.Append(Message{ID: "m3"})
	select {
	case <-sub:
	case <-time.After(time.Second):
		t.Fatal("no coalesced notification")
	}
}

func TestStoreReset(t *testing.T) {
	s := NewStore()
	s.Append(Message{ID: "old"})
	s.Reset([]Message{{ID: "a"}, {ID: "b"}})

	if s.Len() != 2 {
		t.Fatalf("expected 2 messages after reset, got %d", s.Len())
	}
	if _, ok := s.Find("old"); ok {
		t.Fatal("reset should drop previous messages")
	}
}

func TestStoreSubscribeAfterClose(t *testing.T) {
	s := NewStore()
	s.Close()
	sub := s.Subscribe()
	select {
	case _, open := <-sub:
		if open {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("subscribe on closed store should return a closed channel")
	}
}
