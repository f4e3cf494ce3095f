// Package timer provides the ordered queue of scheduled game events.
package timer

import (
	"sort"
	"time"

	"github.com/yaahc/tetris/internal/event"
)

// Entry is a pending timer: the absolute fire time and what fires.
type Entry struct {
	At   time.Time
	Kind event.Timer
	seq  uint64
}

// ScheduledBefore reports whether e was queued before mark was taken.
func (e Entry) ScheduledBefore(mark uint64) bool {
	return e.seq < mark
}

// Queue keeps entries in non-decreasing fire-time order.
// Entries with equal fire times keep their scheduling order.
type Queue struct {
	entries []Entry
	next    uint64
}

// Mark returns a position in the scheduling order. Entries scheduled after
// the call are not ScheduledBefore it.
func (q *Queue) Mark() uint64 {
	return q.next
}

// Schedule inserts a timer firing at at.
func (q *Queue) Schedule(at time.Time, kind event.Timer) {
	// First index whose entry fires strictly later keeps equal times stable.
	i := sort.Search(len(q.entries), func(i int) bool {
		return q.entries[i].At.After(at)
	})
	q.entries = append(q.entries, Entry{})
	copy(q.entries[i+1:], q.entries[i:])
	q.entries[i] = Entry{At: at, Kind: kind, seq: q.next}
	q.next++
}

// Front returns the earliest entry without removing it.
func (q *Queue) Front() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}
	return q.entries[0], true
}

// PopFront removes and returns the earliest entry.
func (q *Queue) PopFront() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}
	e := q.entries[0]
	q.entries = q.entries[1:]
	return e, true
}

// Cancel removes every pending entry of kind and returns how many were removed.
func (q *Queue) Cancel(kind event.Timer) int {
	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.Kind != kind {
			kept = append(kept, e)
		}
	}
	removed := len(q.entries) - len(kept)
	q.entries = kept
	return removed
}

// Pending reports whether an entry of kind is queued.
func (q *Queue) Pending(kind event.Timer) bool {
	for _, e := range q.entries {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Clear discards all entries unfired.
func (q *Queue) Clear() {
	q.entries = nil
}

// Len returns the number of pending entries.
func (q *Queue) Len() int {
	return len(q.entries)
}
