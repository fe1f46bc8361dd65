package snapshot

import "github.com/lox/holdem-engine/internal/event"

// Entry pairs one published domain event with the Snapshot taken
// immediately after it committed, letting a host reconstruct a structured,
// replayable hand history without the core engine doing any formatting
// itself — the hand-progression analogue of the teacher's
// internal/game/hand_history.go, which accumulates the same kind of record
// as formatted text instead of (event, state) pairs.
type Entry struct {
	Event    event.Event
	Snapshot *Snapshot
}

// Timeline is a bounded, newest-last log of (event, snapshot) pairs for one
// game session.
type Timeline struct {
	limit   int
	entries []Entry
}

const defaultTimelineLimit = 1000

// NewTimeline creates an empty Timeline retaining at most the default
// number of entries (1000, matching the event bus's default history bound).
func NewTimeline() *Timeline {
	return NewTimelineWithLimit(defaultTimelineLimit)
}

// NewTimelineWithLimit creates an empty Timeline retaining at most limit
// entries. limit<=0 disables retention (Record becomes a no-op).
func NewTimelineWithLimit(limit int) *Timeline {
	return &Timeline{limit: limit}
}

// Record appends evt paired with snap to the timeline, trimming the oldest
// entry if the bound is exceeded.
func (tl *Timeline) Record(evt event.Event, snap *Snapshot) {
	if tl.limit <= 0 {
		return
	}
	tl.entries = append(tl.entries, Entry{Event: evt, Snapshot: snap})
	if over := len(tl.entries) - tl.limit; over > 0 {
		tl.entries = tl.entries[over:]
	}
}

// Entries returns every retained entry, oldest first.
func (tl *Timeline) Entries() []Entry {
	out := make([]Entry, len(tl.entries))
	copy(out, tl.entries)
	return out
}

// Since returns every entry recorded for hands from handNumber onward,
// oldest first — useful for a host replaying just the current hand.
func (tl *Timeline) Since(handNumber int) []Entry {
	var out []Entry
	for _, e := range tl.entries {
		if e.Snapshot != nil && e.Snapshot.HandNumber >= handNumber {
			out = append(out, e)
		}
	}
	return out
}

// Len reports how many entries are currently retained.
func (tl *Timeline) Len() int {
	return len(tl.entries)
}
