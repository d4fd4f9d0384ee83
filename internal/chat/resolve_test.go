package chat

import "testing"

func TestResolveTarget(t *testing.T) {
	ids := []string{"t1", "t2", "t3"}
	titles := []string{"Book the venue", "Order catering", "Send invitations"}

	tests := []struct {
		name       string
		existingID string
		title      string
		want       int
	}{
		{name: "id match wins over title", existingID: "t3", title: "Book the venue", want: 2},
		{name: "unknown id falls back to title", existingID: "nope", title: "order catering", want: 1},
		{name: "substring of record title", title: "venue", want: 0},
		{name: "record title inside query", title: "please Send Invitations today", want: 2},
		{name: "case insensitive", title: "BOOK THE VENUE", want: 0},
		{name: "no match", title: "hire a band", want: -1},
		{name: "empty title without id", want: -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveTarget(tc.existingID, tc.title, ids, titles); got != tc.want {
				t.Fatalf("resolveTarget() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestResolveTargetTieBreakIsDeterministic(t *testing.T) {
	ids := []string{"a", "b"}
	titles := []string{"Call the caterer", "Call the caterer"}

	for i := 0; i < 50; i++ {
		if got := resolveTarget("", "call the caterer", ids, titles); got != 0 {
			t.Fatalf("iteration %d: expected earliest candidate, got %d", i, got)
		}
	}
}

func TestResolveTargetMultipleCandidatesStillResolve(t *testing.T) {
	ids := []string{"a", "b", "c"}
	titles := []string{"Venue deposit", "Venue walkthrough", "Send invitations"}

	got := resolveTarget("", "venue", ids, titles)
	if got != 0 && got != 1 {
		t.Fatalf("expected one of the venue candidates, got %d", got)
	}
	// same inputs always resolve to the same record
	for i := 0; i < 20; i++ {
		if again := resolveTarget("", "venue", ids, titles); again != got {
			t.Fatalf("resolution flapped: %d then %d", got, again)
		}
	}
}
