package engine

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-engine/internal/ai"
	"github.com/lox/holdem-engine/internal/deck"
	"github.com/lox/holdem-engine/internal/enginelog"
	"github.com/lox/holdem-engine/internal/event"
	"github.com/lox/holdem-engine/internal/gameid"
	"github.com/lox/holdem-engine/internal/gamestate"
	"github.com/lox/holdem-engine/internal/invariant"
	"github.com/lox/holdem-engine/internal/phase"
	"github.com/lox/holdem-engine/internal/snapshot"
)

// session holds everything the Command Service needs to run one game,
// serialized behind its own mutex so distinct sessions can run on distinct
// goroutines concurrently (spec §5).
type session struct {
	mu           sync.Mutex
	ctx          *gamestate.GameContext
	deck         *deck.Deck
	snapshots    *snapshot.Manager
	timeline     *snapshot.Timeline
	strategies   map[string]ai.Strategy
	initialChips int
	handNumber   int
}

// CommandService is the sole mutator of game state, per spec §4.5. Every
// public method wraps its mutation in the atomic-with-rollback scope from
// spec §4.9 and publishes resulting events to bus.
type CommandService struct {
	mu       sync.Mutex
	sessions map[string]*session
	bus      *event.Bus
	clock    quartz.Clock
	logger   *log.Logger
	idgen    *gameid.Generator
}

// NewCommandService creates a CommandService publishing to bus and stamping
// snapshots using clock (inject a quartz.Mock in tests for determinism).
// Diagnostics (rollback, recovered handler panics) are discarded; use
// NewCommandServiceWithLogger to observe them.
func NewCommandService(bus *event.Bus, clock quartz.Clock) *CommandService {
	return NewCommandServiceWithLogger(bus, clock, enginelog.Discard())
}

// NewCommandServiceWithLogger is NewCommandService with an explicit
// diagnostic logger, mirroring the teacher's NewGameEngine(table,
// defaultAgent, logger) constructor shape. logger never receives
// user-facing output (spec §7: "the engine itself never prints"), only
// rollback and recovered-panic breadcrumbs.
func NewCommandServiceWithLogger(bus *event.Bus, clock quartz.Clock, logger *log.Logger) *CommandService {
	if logger == nil {
		logger = enginelog.Discard()
	}
	idgen := gameid.New(func() int64 { return clock.Now().UnixMilli() }, nil)
	return &CommandService{sessions: make(map[string]*session), bus: bus, clock: clock, logger: logger, idgen: idgen}
}

// CreateGame creates a new session in Init phase with even starting chips
// and the given blinds, per spec §4.5.
func (s *CommandService) CreateGame(gameID string, playerIDs []string, initialChips, smallBlind, bigBlind int) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gameID == "" {
		return failResult(newError(ErrInvalidInput, "game_id must not be empty"))
	}
	if _, exists := s.sessions[gameID]; exists {
		return failResult(newError(ErrInvalidInput, "game_id %q already exists", gameID))
	}
	if len(playerIDs) < 2 {
		return failResult(newError(ErrInvalidInput, "create_game requires at least 2 players"))
	}
	if initialChips <= 0 || smallBlind <= 0 || bigBlind <= 0 {
		return failResult(newError(ErrInvalidInput, "chips and blinds must be positive"))
	}

	players := make(map[string]*gamestate.PlayerState, len(playerIDs))
	order := make([]string, len(playerIDs))
	for i, id := range playerIDs {
		if id == "" || players[id] != nil {
			return failResult(newError(ErrInvalidInput, "player_ids must be non-empty and unique"))
		}
		players[id] = &gamestate.PlayerState{ID: id, Name: id, Chips: initialChips, Status: gamestate.StatusActive, IsActive: true}
		order[i] = id
	}

	ctx := &gamestate.GameContext{
		GameID:       gameID,
		CurrentPhase: phase.Init,
		PlayerOrder:  order,
		Players:      players,
		SmallBlind:   smallBlind,
		BigBlind:     bigBlind,
		DealerSeat:   len(order) - 1, // so the first rotateDealer() lands on seat 0
	}

	s.sessions[gameID] = &session{
		ctx:          ctx,
		snapshots:    snapshot.NewManager(s.clock),
		timeline:     snapshot.NewTimeline(),
		strategies:   make(map[string]ai.Strategy),
		initialChips: initialChips,
	}

	s.bus.Publish(event.Event{Type: event.TypeGameStarted, SourcePhase: phase.Init, Data: map[string]any{"game_id": gameID, "player_ids": playerIDs}})
	return okResult("game created", nil)
}

// RegisterStrategy assigns an AI strategy to playerID. Whenever that seat
// becomes the active player after a command completes, driveAISeats invokes
// it automatically with a redacted Snapshot (RedactedFor) so it never sees
// another seat's hole cards. It is a host-facing convenience, not part of
// §6's mandatory command surface.
func (s *CommandService) RegisterStrategy(gameID, playerID string, strategy ai.Strategy) Result {
	sess, err := s.lookupSession(gameID)
	if err != nil {
		return failResult(err)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.strategies[playerID] = strategy
	return okResult("strategy registered", nil)
}

func (s *CommandService) lookupSession(gameID string) (*session, *engineError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[gameID]
	if !ok {
		return nil, newError(ErrInvalidInput, "unknown game_id %q", gameID)
	}
	return sess, nil
}

// RemoveGame destroys a session and its snapshot history.
func (s *CommandService) RemoveGame(gameID string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[gameID]; !ok {
		return failResult(newError(ErrInvalidInput, "unknown game_id %q", gameID))
	}
	delete(s.sessions, gameID)
	return okResult("game removed", nil)
}

// StartNewHand posts blinds, rotates the dealer button, and transitions
// Init|Finished → PreFlop, per spec §4.5.
func (s *CommandService) StartNewHand(gameID string, rng deck.RNG) Result {
	sess, lookupErr := s.lookupSession(gameID)
	if lookupErr != nil {
		return failResult(lookupErr)
	}
	sess.mu.Lock()
	result := s.startNewHandLocked(sess, rng)
	sess.mu.Unlock()

	if result.Success {
		s.driveAISeats(gameID, sess)
	}
	return result
}

func (s *CommandService) startNewHandLocked(sess *session, rng deck.RNG) Result {
	return s.atomic(sess, func(ctx *gamestate.GameContext) ([]event.Event, *engineError) {
		if ctx.CurrentPhase != phase.Init && ctx.CurrentPhase != phase.Finished {
			return nil, newError(ErrPhaseError, "start_new_hand not allowed in phase %s", ctx.CurrentPhase)
		}
		eligible := 0
		for _, p := range ctx.Players {
			if p.Chips > 0 {
				eligible++
			}
		}
		if eligible < 2 {
			return nil, newError(ErrPhaseError, "start_new_hand requires at least 2 players with chips")
		}

		for _, p := range ctx.OrderedPlayers() {
			p.ResetForNewHand()
		}
		ctx.WinnerInfo = nil
		ctx.ShowdownComplete = false
		sess.handNumber++
		ctx.HandNumber = sess.handNumber

		if sess.deck == nil {
			sess.deck = deck.New(rng)
		}
		sess.deck.Reset()

		var events []event.Event
		events = append(events, event.Event{Type: event.TypeHandStarted, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"hand_number": ctx.HandNumber}})

		blindEvents := assignPositionsAndPostBlinds(ctx)
		events = append(events, blindEvents...)

		ctx.CurrentPhase = phase.PreFlop
		events = append(events, event.Event{Type: event.TypePhaseChanged, SourcePhase: phase.PreFlop, Data: map[string]any{"from": "Init", "to": "PreFlop"}})
		events = append(events, enterPreFlop(ctx, sess.deck)...)

		return events, nil
	})
}

// ExecutePlayerAction validates turn ownership and action shape, applies
// the action, and advances the phase/seat as needed, per spec §4.5. If the
// resulting active seat has a registered AI strategy (spec §6's AIStrategy
// port), the Command Service drives it to decision synchronously before
// returning, same as every subsequent AI-held seat in turn.
func (s *CommandService) ExecutePlayerAction(gameID, playerID string, action gamestate.Action) Result {
	sess, lookupErr := s.lookupSession(gameID)
	if lookupErr != nil {
		return failResult(lookupErr)
	}
	sess.mu.Lock()
	result := s.executePlayerActionLocked(sess, playerID, action)
	sess.mu.Unlock()

	if result.Success {
		s.driveAISeats(gameID, sess)
	}
	return result
}

func (s *CommandService) executePlayerActionLocked(sess *session, playerID string, action gamestate.Action) Result {
	return s.atomic(sess, func(ctx *gamestate.GameContext) ([]event.Event, *engineError) {
		if ctx.CurrentPhase != phase.PreFlop && ctx.CurrentPhase != phase.Flop && ctx.CurrentPhase != phase.Turn && ctx.CurrentPhase != phase.River {
			return nil, newError(ErrPhaseError, "execute_player_action not allowed in phase %s", ctx.CurrentPhase)
		}
		player := ctx.Players[playerID]
		if player == nil {
			return nil, newError(ErrInvalidInput, "unknown player_id %q", playerID)
		}
		if ctx.ActivePlayerID != playerID {
			return nil, newError(ErrNotYourTurn, "it is %q's turn, not %q", ctx.ActivePlayerID, playerID)
		}

		events, err := applyPlayerAction(ctx, player, action)
		if err != nil {
			return nil, err
		}

		if isHandOverByFold(ctx) {
			events = append(events, event.Event{Type: event.TypeHandAutoFinish, SourcePhase: ctx.CurrentPhase})
			ctx.CurrentPhase = phase.Finished
			events = append(events, event.Event{Type: event.TypePhaseChanged, Data: map[string]any{"to": "Finished"}})
			events = append(events, enterFinished(ctx)...)
			return events, nil
		}

		if isBettingRoundComplete(ctx) {
			advanceEvents, err := s.advanceToNextPhase(ctx, sess)
			if err != nil {
				return nil, err
			}
			events = append(events, advanceEvents...)
		} else {
			advanceActivePlayer(ctx, playerID)
		}

		return events, nil
	})
}

// AdvancePhase explicitly triggers the same phase progression
// execute_player_action performs automatically when a round completes,
// per spec §4.5's optional deterministic-progression trigger.
func (s *CommandService) AdvancePhase(gameID string) Result {
	sess, lookupErr := s.lookupSession(gameID)
	if lookupErr != nil {
		return failResult(lookupErr)
	}
	sess.mu.Lock()
	result := s.atomic(sess, func(ctx *gamestate.GameContext) ([]event.Event, *engineError) {
		return s.advanceToNextPhase(ctx, sess)
	})
	sess.mu.Unlock()

	if result.Success {
		s.driveAISeats(gameID, sess)
	}
	return result
}

// driveAISeats repeatedly executes the registered AI strategy for
// active_player_id, per spec §6: "the core invokes this when an AI seat is
// active". Each decision is applied through the same ExecutePlayerAction
// path a human action would take, so it sees the same validation, atomic
// rollback, and event publication; the loop stops as soon as the active
// seat has no registered strategy (a human seat, or none) or the hand ends.
// maxAISteps bounds a misbehaving strategy that never yields turn.
func (s *CommandService) driveAISeats(gameID string, sess *session) {
	const maxAISteps = 1000
	for i := 0; i < maxAISteps; i++ {
		sess.mu.Lock()
		activeID := sess.ctx.ActivePlayerID
		strategy, ok := sess.strategies[activeID]
		var snap *snapshot.Snapshot
		if ok {
			snap = sess.snapshots.CreateSnapshot(sess.ctx.RedactedFor(activeID), sess.handNumber, "ai-decision")
		}
		sess.mu.Unlock()

		if activeID == "" || !ok {
			return
		}

		decision, err := strategy.Decide(snap, activeID)
		if err != nil {
			decision = gamestate.Action{Type: gamestate.ActionFold}
		}

		sess.mu.Lock()
		result := s.executePlayerActionLocked(sess, activeID, decision)
		sess.mu.Unlock()
		if !result.Success {
			return
		}
	}
}

// advanceToNextPhase transitions ctx to Showdown/Finished or the next
// street, per the legal graph in spec §4.2.
func (s *CommandService) advanceToNextPhase(ctx *gamestate.GameContext, sess *session) ([]event.Event, *engineError) {
	var events []event.Event

	if isHandOverByFold(ctx) {
		ctx.CurrentPhase = phase.Finished
		events = append(events, event.Event{Type: event.TypePhaseChanged, Data: map[string]any{"to": "Finished"}})
		events = append(events, enterFinished(ctx)...)
		return events, nil
	}

	switch ctx.CurrentPhase {
	case phase.PreFlop:
		ctx.CurrentPhase = phase.Flop
		events = append(events, event.Event{Type: event.TypePhaseChanged, Data: map[string]any{"to": "Flop"}})
		events = append(events, enterStreet(ctx, sess.deck, 3, phase.Flop)...)
	case phase.Flop:
		ctx.CurrentPhase = phase.Turn
		events = append(events, event.Event{Type: event.TypePhaseChanged, Data: map[string]any{"to": "Turn"}})
		events = append(events, enterStreet(ctx, sess.deck, 1, phase.Turn)...)
	case phase.Turn:
		ctx.CurrentPhase = phase.River
		events = append(events, event.Event{Type: event.TypePhaseChanged, Data: map[string]any{"to": "River"}})
		events = append(events, enterStreet(ctx, sess.deck, 1, phase.River)...)
	case phase.River:
		ctx.CurrentPhase = phase.Showdown
		events = append(events, event.Event{Type: event.TypePhaseChanged, Data: map[string]any{"to": "Showdown"}})
		events = append(events, enterShowdown(ctx)...)
		ctx.CurrentPhase = phase.Finished
		events = append(events, event.Event{Type: event.TypePhaseChanged, Data: map[string]any{"to": "Finished"}})
	default:
		return nil, newError(ErrPhaseError, "no further advancement from phase %s", ctx.CurrentPhase)
	}

	// All actionable players remaining with 0 chips after all-in calls means
	// no one can act this street; keep auto-advancing to the next street or
	// to showdown without waiting on player input.
	if ctx.CurrentPhase != phase.Finished && len(actionablePlayers(ctx)) <= 1 {
		more, err := s.advanceToNextPhase(ctx, sess)
		if err != nil {
			return nil, err
		}
		events = append(events, more...)
	}

	return events, nil
}

// RemovePlayer eliminates playerID from gameID's session entirely: if the
// player is mid-hand, they are folded first and the turn pointer repaired
// exactly as foldAction/advanceActivePlayer would; the seat is then deleted
// from both PlayerOrder and Players. Grounded on the teacher's
// table_actions.go RemovePlayer, including its acknowledgment that removing
// a seated player necessarily removes their chips from the system — this
// bypasses the atomic wrapper's I1 conservation check rather than fighting
// it, since mid-session removal is the one operation the spec's
// conservation invariant does not (and should not) cover.
func (s *CommandService) RemovePlayer(gameID, playerID string) Result {
	sess, lookupErr := s.lookupSession(gameID)
	if lookupErr != nil {
		return failResult(lookupErr)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	ctx := sess.ctx
	player := ctx.Players[playerID]
	if player == nil {
		return failResult(newError(ErrInvalidInput, "unknown player_id %q", playerID))
	}

	removedIdx := indexOf(ctx.PlayerOrder, playerID)
	wasActive := ctx.ActivePlayerID == playerID

	if player.IsInHand() && ctx.CurrentPhase != phase.Init && ctx.CurrentPhase != phase.Finished {
		foldAction(ctx, player)
		if wasActive {
			advanceActivePlayer(ctx, playerID)
		}
	} else if wasActive {
		ctx.ActivePlayerID = ""
	}

	ctx.PlayerOrder = append(ctx.PlayerOrder[:removedIdx], ctx.PlayerOrder[removedIdx+1:]...)
	delete(ctx.Players, playerID)
	delete(sess.strategies, playerID)
	if removedIdx <= ctx.DealerSeat && ctx.DealerSeat > 0 {
		ctx.DealerSeat--
	}

	s.bus.Publish(event.Event{Type: event.TypePlayerRemoved, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"player_id": playerID}})
	return okResult("player removed", nil)
}

// atomic wraps fn in the snapshot-execute-validate-commit-or-rollback scope
// from spec §4.9. A panic inside fn (spec §7's StateCorruption class) is
// recovered and rolled back the same way an invariant violation is, rather
// than crashing the caller.
func (s *CommandService) atomic(sess *session, fn func(ctx *gamestate.GameContext) ([]event.Event, *engineError)) (result Result) {
	baseline := sess.ctx.Clone()
	initialTotal := sess.ctx.TotalChips()

	var events []event.Event
	var err *engineError
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = newError(ErrStateCorruption, "recovered handler panic: %v", r)
			}
		}()
		events, err = fn(sess.ctx)
	}()

	if err == nil {
		if violation := invariant.ValidateAll(sess.ctx, initialTotal); violation != nil {
			err = newError(ErrInvariantViolation, "%s", violation.Error())
		}
	}

	if err != nil {
		sess.ctx = baseline
		s.logger.Warn("command rolled back", "error_code", string(err.code), "message", err.message)
		s.bus.Publish(event.Event{Type: event.TypeRolledBack, Data: map[string]any{"error_code": string(err.code), "message": err.message}})
		return failResult(err)
	}

	if len(events) > 0 {
		correlationID := s.idgen.Generate()
		post := sess.snapshots.CreateSnapshot(sess.ctx, sess.handNumber, "timeline")
		for _, e := range events {
			if e.CorrelationID == "" {
				e.CorrelationID = correlationID
			}
			s.bus.Publish(e)
			sess.timeline.Record(e, post)
		}
	}
	return okResult("ok", nil)
}
