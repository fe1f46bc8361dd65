package engine

import (
	"github.com/lox/holdem-engine/internal/event"
	"github.com/lox/holdem-engine/internal/gamestate"
	"github.com/lox/holdem-engine/internal/phase"
	"github.com/lox/holdem-engine/internal/snapshot"
)

// ActionOption is one permitted action and its amount bounds, derived
// purely from a snapshot (spec §4.6's get_available_actions).
type ActionOption struct {
	Type      gamestate.ActionType
	MinAmount int
	MaxAmount int
}

// QueryService exposes read-only views over CommandService sessions, per
// spec §4.6. It never mutates a GameContext.
type QueryService struct {
	cs  *CommandService
	bus *event.Bus
}

// NewQueryService creates a QueryService reading from cs and bus.
func NewQueryService(cs *CommandService, bus *event.Bus) *QueryService {
	return &QueryService{cs: cs, bus: bus}
}

// GetSnapshot returns a fresh immutable snapshot of the session's current
// state.
func (q *QueryService) GetSnapshot(gameID string) (*snapshot.Snapshot, error) {
	sess, err := q.cs.lookupSession(gameID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshots.CreateSnapshot(sess.ctx, sess.handNumber, "query"), nil
}

// GetAvailableActions derives the legal action set for playerID purely
// from the current snapshot, per spec §4.6. It returns an empty slice (not
// an error) when the player cannot currently act.
func (q *QueryService) GetAvailableActions(gameID, playerID string) ([]ActionOption, error) {
	sess, err := q.cs.lookupSession(gameID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	ctx := sess.ctx

	player := ctx.Players[playerID]
	if player == nil {
		return nil, newError(ErrInvalidInput, "unknown player_id %q", playerID)
	}
	if ctx.ActivePlayerID != playerID || !player.IsActionable() {
		return nil, nil
	}

	need := ctx.CurrentBet - player.CurrentBet
	var options []ActionOption

	if need > 0 {
		options = append(options, ActionOption{Type: gamestate.ActionFold})
		if need <= player.Chips {
			options = append(options, ActionOption{Type: gamestate.ActionCall, MinAmount: need, MaxAmount: need})
		}
	} else {
		options = append(options, ActionOption{Type: gamestate.ActionCheck})
	}

	minRaiseTotal := ctx.CurrentBet + ctx.LastRaiseSize
	allInTotal := player.CurrentBet + player.Chips
	if player.Chips > 0 && allInTotal > ctx.CurrentBet {
		effectiveMin := minRaiseTotal
		if effectiveMin > allInTotal {
			effectiveMin = allInTotal
		}
		options = append(options, ActionOption{Type: gamestate.ActionRaise, MinAmount: effectiveMin, MaxAmount: allInTotal})
	}
	if player.Chips > 0 {
		options = append(options, ActionOption{Type: gamestate.ActionAllIn, MinAmount: allInTotal, MaxAmount: allInTotal})
	}

	return options, nil
}

// IsGameOver reports whether fewer than 2 players have chips>0. Per spec
// §4.6, in-hand state (folded players, current phase) must not affect this
// answer.
func (q *QueryService) IsGameOver(gameID string) (bool, string, error) {
	sess, err := q.cs.lookupSession(gameID)
	if err != nil {
		return false, "", err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	withChips := 0
	for _, p := range sess.ctx.Players {
		if p.Chips > 0 {
			withChips++
		}
	}
	if withChips < 2 {
		return true, "fewer than 2 players have chips remaining", nil
	}
	return false, "", nil
}

// CurrentPhase returns the session's current phase, mostly useful in tests
// and sample drivers.
func (q *QueryService) CurrentPhase(gameID string) (phase.Phase, error) {
	sess, err := q.cs.lookupSession(gameID)
	if err != nil {
		return phase.Init, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.ctx.CurrentPhase, nil
}

// GetEventHistory returns up to limit events of eventType (or event.Any for
// every type) from the shared bus, oldest first.
func (q *QueryService) GetEventHistory(eventType event.Type, limit int) []event.Event {
	return q.bus.History(eventType, limit)
}

// GetTimeline returns gameID's full (event, snapshot) history, oldest
// first — a structured, replayable hand log a host can format without any
// help from the core (spec §6: rendering is out of scope).
func (q *QueryService) GetTimeline(gameID string) ([]snapshot.Entry, error) {
	sess, err := q.cs.lookupSession(gameID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.timeline.Entries(), nil
}

// GetHandTimeline returns just the (event, snapshot) pairs recorded since
// handNumber started, oldest first.
func (q *QueryService) GetHandTimeline(gameID string, handNumber int) ([]snapshot.Entry, error) {
	sess, err := q.cs.lookupSession(gameID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.timeline.Since(handNumber), nil
}
