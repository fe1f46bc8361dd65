package snapshot

import (
	"testing"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/holdem-engine/internal/gamestate"
	"github.com/lox/holdem-engine/internal/phase"
)

func newTestContext() *gamestate.GameContext {
	p0 := &gamestate.PlayerState{ID: "p0", Chips: 900, Status: gamestate.StatusActive, IsActive: true}
	p1 := &gamestate.PlayerState{ID: "p1", Chips: 950, Status: gamestate.StatusActive, IsActive: true}
	return &gamestate.GameContext{
		GameID:       "g1",
		CurrentPhase: phase.PreFlop,
		PlayerOrder:  []string{"p0", "p1"},
		Players:      map[string]*gamestate.PlayerState{"p0": p0, "p1": p1},
		PotTotal:     150,
		CurrentBet:   100,
	}
}

func TestCreateSnapshotDeepCopiesContext(t *testing.T) {
	mock := quartz.NewMock(t)
	mock.Set(time.Unix(1700000000, 0))
	m := NewManager(mock)

	ctx := newTestContext()
	snap := m.CreateSnapshot(ctx, 1, "pre-action baseline")

	ctx.Players["p0"].Chips = 0
	if snap.Context.Players["p0"].Chips != 900 {
		t.Fatalf("snapshot aliases live context: Chips = %d, want 900", snap.Context.Players["p0"].Chips)
	}
	if snap.ID == "" {
		t.Fatal("expected a generated snapshot id")
	}
	if !snap.CreatedAt.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("CreatedAt = %v, want mocked clock value", snap.CreatedAt)
	}
}

func TestSnapshotVersionsAreMonotonic(t *testing.T) {
	mock := quartz.NewMock(t)
	m := NewManager(mock)
	ctx := newTestContext()

	first := m.CreateSnapshot(ctx, 1, "a")
	second := m.CreateSnapshot(ctx, 1, "b")

	if second.Version <= first.Version {
		t.Fatalf("Version not monotonic: first=%d second=%d", first.Version, second.Version)
	}
}

func TestHistoryIsNewestFirstAndBounded(t *testing.T) {
	mock := quartz.NewMock(t)
	m := NewManagerWithLimit(mock, 2)
	ctx := newTestContext()

	a := m.CreateSnapshot(ctx, 1, "a")
	b := m.CreateSnapshot(ctx, 1, "b")
	c := m.CreateSnapshot(ctx, 1, "c")

	history := m.History()
	if len(history) != 2 {
		t.Fatalf("History() length = %d, want 2 (bounded)", len(history))
	}
	if history[0].ID != c.ID || history[1].ID != b.ID {
		t.Fatalf("History() not newest-first: got ids %s, %s want %s, %s", history[0].ID, history[1].ID, c.ID, b.ID)
	}
	_ = a
}

func TestClearOldTrimsToKeepN(t *testing.T) {
	mock := quartz.NewMock(t)
	m := NewManager(mock)
	ctx := newTestContext()
	for i := 0; i < 5; i++ {
		m.CreateSnapshot(ctx, 1, "x")
	}
	m.ClearOld(2)
	if m.Len() != 2 {
		t.Fatalf("Len() after ClearOld(2) = %d, want 2", m.Len())
	}
}

func TestRestoreFromSnapshotRoundTrips(t *testing.T) {
	mock := quartz.NewMock(t)
	m := NewManager(mock)
	ctx := newTestContext()
	snap := m.CreateSnapshot(ctx, 3, "baseline")

	restored, err := RestoreFromSnapshot(snap)
	if err != nil {
		t.Fatalf("RestoreFromSnapshot() error = %v", err)
	}
	if restored.GameID != ctx.GameID || restored.PotTotal != ctx.PotTotal || restored.CurrentPhase != ctx.CurrentPhase {
		t.Fatalf("restored context diverges from original: %+v vs %+v", restored, ctx)
	}
	restored.Players["p0"].Chips = 1
	if snap.Context.Players["p0"].Chips == 1 {
		t.Fatal("RestoreFromSnapshot aliased the stored snapshot")
	}
}

func TestRestoreFromSnapshotRejectsEmptyPlayers(t *testing.T) {
	snap := &Snapshot{Context: &gamestate.GameContext{CurrentPhase: phase.PreFlop, Players: map[string]*gamestate.PlayerState{}}}
	if _, err := RestoreFromSnapshot(snap); err != ErrEmptyPlayers {
		t.Fatalf("RestoreFromSnapshot() error = %v, want ErrEmptyPlayers", err)
	}
}
