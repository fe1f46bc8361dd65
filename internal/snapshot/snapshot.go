// Package snapshot implements the Snapshot Manager from spec §4.11:
// immutable deep copies of a GameContext used for read-only query views,
// AI-decision views and timeline entries. The Command Service's rollback
// baseline is a plain GameContext.Clone, not a Snapshot. It is grounded on the teacher's
// internal/testing/test_infrastructure.go use of coder/quartz for
// deterministic clocks in tests, injected here as the Manager's time
// source so created_at is reproducible without reaching for time.Now.
package snapshot

import (
	"errors"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/holdem-engine/internal/gamestate"
	"github.com/lox/holdem-engine/internal/phase"
)

// Snapshot is an immutable deep copy of a GameContext plus metadata, per
// spec §3.
type Snapshot struct {
	ID          string
	Version     int
	CreatedAt   time.Time
	HandNumber  int
	Description string
	Context     *gamestate.GameContext
}

// ErrEmptyPlayers is returned by RestoreFromSnapshot when the snapshot's
// context has no players, which can never be a valid restore target.
var ErrEmptyPlayers = errors.New("snapshot: context has no players")

// ErrInvalidPhase is returned by RestoreFromSnapshot when the snapshot's
// phase is outside the known GamePhase range.
var ErrInvalidPhase = errors.New("snapshot: context phase is invalid")

// Manager keeps a bounded, newest-first history of snapshots for one game
// session (spec §4.11: default 100, configurable).
type Manager struct {
	clock        quartz.Clock
	historyLimit int
	history      []*Snapshot // newest first
	nextVersion  int
}

const defaultHistoryLimit = 100

// NewManager creates a Manager using clock as its time source and the
// default history bound. Use NewManagerWithLimit for a different bound.
func NewManager(clock quartz.Clock) *Manager {
	return NewManagerWithLimit(clock, defaultHistoryLimit)
}

// NewManagerWithLimit creates a Manager retaining at most limit snapshots.
// limit<=0 disables retention (CreateSnapshot still returns a Snapshot, it
// is just not kept in History()).
func NewManagerWithLimit(clock quartz.Clock, limit int) *Manager {
	return &Manager{clock: clock, historyLimit: limit}
}

// CreateSnapshot deep-copies ctx into a new Snapshot with a generated id, a
// monotonically increasing version, and the manager's current time.
func (m *Manager) CreateSnapshot(ctx *gamestate.GameContext, handNumber int, description string) *Snapshot {
	m.nextVersion++
	snap := &Snapshot{
		ID:          uuid.NewString(),
		Version:     m.nextVersion,
		CreatedAt:   m.clock.Now(),
		HandNumber:  handNumber,
		Description: description,
		Context:     ctx.Clone(),
	}
	if m.historyLimit > 0 {
		m.history = append([]*Snapshot{snap}, m.history...)
		if len(m.history) > m.historyLimit {
			m.history = m.history[:m.historyLimit]
		}
	}
	return snap
}

// RestoreFromSnapshot deep-copies the snapshot's context back out, after
// validating basic structural sanity (spec §4.11).
func RestoreFromSnapshot(snap *Snapshot) (*gamestate.GameContext, error) {
	if snap.Context == nil || len(snap.Context.Players) == 0 {
		return nil, ErrEmptyPlayers
	}
	if snap.Context.CurrentPhase < phase.Init || snap.Context.CurrentPhase > phase.Finished {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPhase, snap.Context.CurrentPhase)
	}
	return snap.Context.Clone(), nil
}

// History returns the retained snapshots, newest first.
func (m *Manager) History() []*Snapshot {
	out := make([]*Snapshot, len(m.history))
	copy(out, m.history)
	return out
}

// ClearOld trims history to the keepN newest snapshots.
func (m *Manager) ClearOld(keepN int) {
	if keepN < 0 {
		keepN = 0
	}
	if len(m.history) > keepN {
		m.history = m.history[:keepN]
	}
}

// Len reports how many snapshots are currently retained.
func (m *Manager) Len() int {
	return len(m.history)
}
