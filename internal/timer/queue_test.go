package timer

import (
	"math/rand"
	"testing"
	"time"

	"github.com/yaahc/tetris/internal/event"
)

func TestQueuePopsInFireOrder(t *testing.T) {
	base := time.Unix(1000, 0)
	rng := rand.New(rand.NewSource(42))

	for round := range 50 {
		var q Queue
		n := 1 + rng.Intn(40)
		for range n {
			at := base.Add(time.Duration(rng.Intn(200)) * time.Millisecond)
			q.Schedule(at, event.Timer(1+rng.Intn(int(event.ArrRight))))
		}

		var prev time.Time
		popped := 0
		for {
			e, ok := q.PopFront()
			if !ok {
				break
			}
			if popped > 0 && e.At.Before(prev) {
				t.Fatalf("round %d: popped %v after %v", round, e.At, prev)
			}
			prev = e.At
			popped++
		}
		if popped != n {
			t.Errorf("round %d: popped %d entries, expected %d", round, popped, n)
		}
	}
}

func TestQueueEqualTimesKeepScheduleOrder(t *testing.T) {
	at := time.Unix(5, 0)
	var q Queue
	q.Schedule(at, event.Gravity)
	q.Schedule(at, event.LockDelay)
	q.Schedule(at.Add(-time.Second), event.Countdown)
	q.Schedule(at, event.DasLeft)

	want := []event.Timer{event.Countdown, event.Gravity, event.LockDelay, event.DasLeft}
	for i, kind := range want {
		e, ok := q.PopFront()
		if !ok || e.Kind != kind {
			t.Errorf("pop %d = %v, expected %v", i, e.Kind, kind)
		}
	}
}

func TestQueueFrontDoesNotRemove(t *testing.T) {
	var q Queue
	if _, ok := q.Front(); ok {
		t.Fatal("Front() on empty queue should report false")
	}

	q.Schedule(time.Unix(10, 0), event.Gravity)
	for range 3 {
		e, ok := q.Front()
		if !ok || e.Kind != event.Gravity {
			t.Fatalf("Front() = %v, %v", e, ok)
		}
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", q.Len())
	}
}

func TestQueueCancel(t *testing.T) {
	var q Queue
	now := time.Unix(0, 0)
	q.Schedule(now.Add(3*time.Millisecond), event.ArrLeft)
	q.Schedule(now.Add(1*time.Millisecond), event.Gravity)
	q.Schedule(now.Add(2*time.Millisecond), event.ArrLeft)

	if n := q.Cancel(event.ArrLeft); n != 2 {
		t.Errorf("Cancel() = %d, expected 2", n)
	}
	if q.Pending(event.ArrLeft) {
		t.Error("ArrLeft still pending after Cancel")
	}
	if !q.Pending(event.Gravity) {
		t.Error("Gravity should still be pending")
	}
}

func TestQueueClear(t *testing.T) {
	var q Queue
	q.Schedule(time.Unix(1, 0), event.Gravity)
	q.Schedule(time.Unix(2, 0), event.LockCap)
	q.Clear()

	if q.Len() != 0 {
		t.Errorf("Len() after Clear = %d, expected 0", q.Len())
	}
	if _, ok := q.PopFront(); ok {
		t.Error("PopFront() after Clear should report false")
	}
}

func TestQueueMark(t *testing.T) {
	var q Queue
	at := time.Unix(5, 0)
	q.Schedule(at, event.Gravity)
	mark := q.Mark()
	q.Schedule(at, event.LockDelay)

	first, _ := q.PopFront()
	second, _ := q.PopFront()
	if !first.ScheduledBefore(mark) {
		t.Errorf("%v scheduled before Mark() should report true", first.Kind)
	}
	if second.ScheduledBefore(mark) {
		t.Errorf("%v scheduled after Mark() should report false", second.Kind)
	}

	// Clear keeps the order running so older marks stay valid.
	q.Clear()
	q.Schedule(at, event.Gravity)
	if e, _ := q.Front(); e.ScheduledBefore(mark) {
		t.Error("entry scheduled after Clear should not be before an earlier mark")
	}
}
