package booking

import (
	"testing"
	"time"
)

func TestCanTransitionAndApply(t *testing.T) {
	if !CanTransition(StatusReserved, StatusActive) {
		t.Fatalf("expected reserved -> active allowed")
	}
	if !CanTransition(StatusActive, StatusReturned) {
		t.Fatalf("expected active -> returned allowed")
	}
	if CanTransition(StatusReturned, StatusReserved) {
		t.Fatalf("expected returned -> reserved not allowed")
	}
	if CanTransition(StatusReturned, StatusReturned) {
		t.Fatalf("expected returned -> returned not allowed")
	}

	b := &Booking{Status: StatusReserved}
	now := time.Now().UTC()
	if err := ApplyTransition(b, StatusActive, now); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if b.Status != StatusActive {
		t.Fatalf("expected status active, got %s", b.Status)
	}
	if b.PickedUpAt == nil || !b.PickedUpAt.Equal(now) {
		t.Fatalf("expected picked_up_at set to now, got %v", b.PickedUpAt)
	}

	if err := ApplyTransition(b, StatusActive, now); err == nil {
		t.Fatalf("expected repeated pickup to fail")
	}
	if KindOf(ApplyTransition(b, StatusCancelled, now)) != KindInvalidOperation {
		t.Fatalf("expected invalid_operation for active -> cancelled")
	}
}

func TestReservedStatusesHaveNoTransitions(t *testing.T) {
	// cancelled / picked_up / overdue 暂无流转入口
	for _, s := range []Status{StatusCancelled, StatusPickedUp, StatusOverdue} {
		if len(AllowTransition[s]) != 0 {
			t.Fatalf("expected no outgoing transitions for %s", s)
		}
		if !s.IsTerminal() {
			t.Fatalf("expected %s to be terminal", s)
		}
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2025, 1, 10, h, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"contained", at(10), at(12), at(11), at(12), true},
		{"partial", at(10), at(12), at(11), at(13), true},
		{"identical", at(10), at(12), at(10), at(12), true},
		{"touching end-start", at(10), at(12), at(12), at(13), false},
		{"touching start-end", at(12), at(13), at(10), at(12), false},
		{"disjoint", at(10), at(11), at(12), at(13), false},
	}
	for _, c := range cases {
		if got := Overlaps(c.s1, c.e1, c.s2, c.e2); got != c.want {
			t.Fatalf("%s: Overlaps=%v, want %v", c.name, got, c.want)
		}
	}
}
