package fetch

import (
	"context"
	"testing"
)

func TestBeginCancelsPrevious(t *testing.T) {
	r := NewRegistry()

	first, firstDone := r.Begin(context.Background(), "calendar.events")
	defer firstDone()

	second, secondDone := r.Begin(context.Background(), "calendar.events")
	defer secondDone()

	if first.Err() == nil {
		t.Fatal("expected first context to be canceled by second Begin")
	}
	if second.Err() != nil {
		t.Fatalf("second context should be live, got %v", second.Err())
	}
}

func TestKeysAreIndependent(t *testing.T) {
	r := NewRegistry()

	events, eventsDone := r.Begin(context.Background(), "calendar.events")
	defer eventsDone()

	_, holidaysDone := r.Begin(context.Background(), "calendar.holidays")
	defer holidaysDone()

	if events.Err() != nil {
		t.Fatal("fetch under a different key must not cancel this one")
	}
}

func TestDoneDoesNotClearNewerFetch(t *testing.T) {
	r := NewRegistry()

	_, firstDone := r.Begin(context.Background(), "users")
	second, secondDone := r.Begin(context.Background(), "users")
	defer secondDone()

	// The stale fetch finishing must not release the newer one's slot.
	firstDone()

	if second.Err() != nil {
		t.Fatalf("second context canceled by stale done: %v", second.Err())
	}

	third, thirdDone := r.Begin(context.Background(), "users")
	defer thirdDone()
	if second.Err() == nil {
		t.Fatal("third Begin should cancel second")
	}
	if third.Err() != nil {
		t.Fatalf("third context should be live, got %v", third.Err())
	}
}

func TestCancelAll(t *testing.T) {
	r := NewRegistry()

	a, _ := r.Begin(context.Background(), "a")
	b, _ := r.Begin(context.Background(), "b")

	r.CancelAll()

	if a.Err() == nil || b.Err() == nil {
		t.Fatal("CancelAll must cancel every tracked fetch")
	}
}
