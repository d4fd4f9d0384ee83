package chat

import (
	"sync"
	"testing"
	"time"
)

// hintRecorder 收集每次提示变更，供断言轮换顺序。
type hintRecorder struct {
	mu   sync.Mutex
	seen []string
}

func (r *hintRecorder) record(hint string) {
	r.mu.Lock()
	r.seen = append(r.seen, hint)
	r.mu.Unlock()
}

func TestHintSchedulerFallbackThenRotation(t *testing.T) {
	rec := &hintRecorder{}
	h := newHintScheduler(20*time.Millisecond, rec.record)
	defer h.Stop()

	h.SetFallback("fallback")
	if h.Current() != "fallback" {
		t.Fatalf("expected fallback, got %q", h.Current())
	}

	h.SetHints(Hints{Primary: "one", Suggested: []string{"two", "three"}})
	if h.Current() != "one" {
		t.Fatalf("server hints should replace fallback, got %q", h.Current())
	}

	deadline := time.After(2 * time.Second)
	for {
		if cur := h.Current(); cur == "two" || cur == "three" {
			break
		}
		select {
		case <-deadline:
			t.Fatal("rotation never advanced")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestHintSchedulerOverrideStopsRotation(t *testing.T) {
	h := newHintScheduler(10*time.Millisecond, nil)
	defer h.Stop()

	h.SetHints(Hints{Primary: "one", Suggested: []string{"two"}})
	h.Override("contextual")

	if h.Current() != "contextual" {
		t.Fatalf("override not applied, got %q", h.Current())
	}
	time.Sleep(60 * time.Millisecond)
	if h.Current() != "contextual" {
		t.Fatalf("rotation resumed after override, got %q", h.Current())
	}

	// later server hints must not displace the contextual hint
	h.SetHints(Hints{Primary: "late"})
	if h.Current() != "contextual" {
		t.Fatalf("late hints displaced the override, got %q", h.Current())
	}
	h.SetFallback("late-fallback")
	if h.Current() != "contextual" {
		t.Fatalf("late fallback displaced the override, got %q", h.Current())
	}
}

func TestHintSchedulerStopIsFinal(t *testing.T) {
	h := newHintScheduler(10*time.Millisecond, nil)
	h.SetHints(Hints{Primary: "one"})
	h.Stop()

	h.SetHints(Hints{Primary: "after-stop"})
	h.Override("after-stop")
	if h.Current() != "one" {
		t.Fatalf("stopped scheduler must ignore updates, got %q", h.Current())
	}
}

func TestFallbackHintByCategory(t *testing.T) {
	if fallbackHint("wedding") == fallbackHint("unknown-category") {
		t.Fatal("expected category-specific fallback")
	}
	if fallbackHint("") == "" {
		t.Fatal("default fallback must be non-empty")
	}
}
