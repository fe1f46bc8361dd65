// Package event implements the domain event bus from spec §4.12: typed
// pub/sub with priority-ordered handlers, an optional per-subscription
// filter, bounded history, and a '*' wildcard bucket. It follows the shape
// of the teacher's internal/game/events.go (GameEvent interface,
// EventSubscriber, EventBus) but replaces the teacher's unordered
// slice-of-subscribers Publish with priority ordering, per-subscription
// filtering, handler-panic isolation, and a mutex, since the teacher's
// SimpleEventBus assumes a single goroutine and leaves those as TODOs.
package event

import (
	"sort"
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/holdem-engine/internal/phase"
)

// Type identifies the kind of domain event, per spec §4.2's GameEvent list.
type Type string

const (
	TypeGameStarted            Type = "GameStarted"
	TypeHandStarted            Type = "HandStarted"
	TypePhaseChanged           Type = "PhaseChanged"
	TypePlayerActionExecuted   Type = "PlayerActionExecuted"
	TypePlayerFolded           Type = "PlayerFolded"
	TypePlayerCalled           Type = "PlayerCalled"
	TypePlayerRaised           Type = "PlayerRaised"
	TypePlayerChecked          Type = "PlayerChecked"
	TypePlayerAllIn            Type = "PlayerAllIn"
	TypeBetPlaced              Type = "BetPlaced"
	TypePotUpdated             Type = "PotUpdated"
	TypeCardsDealt             Type = "CardsDealt"
	TypeCommunityCardsRevealed Type = "CommunityCardsRevealed"
	TypeHandEnded              Type = "HandEnded"
	TypeHandAutoFinish         Type = "HandAutoFinish"
	TypeInvalidAction          Type = "InvalidAction"
	TypeRolledBack             Type = "RolledBack"
	TypePlayerRemoved          Type = "PlayerRemoved"

	// Any is the wildcard bucket: a subscription to Any receives every
	// event regardless of its concrete Type.
	Any Type = "*"
)

// Event is one domain event, per spec §4.2's
// {event_type, data, source_phase, timestamp, correlation_id?}.
type Event struct {
	Type          Type
	Data          map[string]any
	SourcePhase   phase.Phase
	Timestamp     time.Time
	CorrelationID string
}

// Handler processes a published event. A Handler must not panic across a
// call to Publish; any panic is caught by the bus and counted without
// affecting other handlers or the publisher, but the handler's own work for
// that event is lost.
type Handler func(Event)

// Filter decides whether a subscription should receive a given event. A nil
// filter always matches.
type Filter func(Event) bool

// SubscriptionID identifies an active subscription, returned by Subscribe
// and consumed by Unsubscribe.
type SubscriptionID uint64

type subscription struct {
	id       SubscriptionID
	eventType Type
	priority int
	filter   Filter
	handler  Handler
}

// Bus is a mutex-protected, priority-ordered, filterable pub/sub of domain
// events with bounded history, per spec §4.12.
type Bus struct {
	mu            sync.Mutex
	subscriptions []subscription
	nextID        SubscriptionID
	history       []Event
	historyLimit  int
	panicCount    uint64
	clock         quartz.Clock
}

const defaultHistoryLimit = 1000

// New creates an empty Bus with the default history bound (1000 events, per
// spec §4.12), stamping each published event with a real wall-clock time.
// Use NewWithHistoryLimit for a different bound, or NewWithClock to inject
// a quartz.Mock for deterministic event-ordering tests.
func New() *Bus {
	return NewWithClock(quartz.NewReal(), defaultHistoryLimit)
}

// NewWithHistoryLimit creates an empty Bus retaining at most limit events.
// limit<=0 disables history retention entirely (Publish still dispatches).
func NewWithHistoryLimit(limit int) *Bus {
	return NewWithClock(quartz.NewReal(), limit)
}

// NewWithClock creates an empty Bus stamping events with clock.Now(),
// retaining at most limit events in history.
func NewWithClock(clock quartz.Clock, limit int) *Bus {
	return &Bus{historyLimit: limit, clock: clock}
}

// Subscribe registers handler for eventType (or Any for every type), run in
// priority-descending order among all matching subscriptions. filter may be
// nil to match every event of the subscribed type.
func (b *Bus) Subscribe(eventType Type, priority int, filter Filter, handler Handler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subscriptions = append(b.subscriptions, subscription{
		id:        id,
		eventType: eventType,
		priority:  priority,
		filter:    filter,
		handler:   handler,
	})
	sort.SliceStable(b.subscriptions, func(i, j int) bool {
		return b.subscriptions[i].priority > b.subscriptions[j].priority
	})
	return id
}

// Unsubscribe removes a subscription by id. It is a no-op if id is unknown
// (already unsubscribed, or never valid).
func (b *Bus) Unsubscribe(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subscriptions {
		if s.id == id {
			b.subscriptions = append(b.subscriptions[:i], b.subscriptions[i+1:]...)
			return
		}
	}
}

// Publish dispatches evt to every matching subscription in priority order
// and appends it to history. Publish returns only after every handler has
// completed (spec §4.12's single-threaded cooperative dispatch): a handler
// that panics is caught, counted, and does not prevent later handlers (or
// future Publish calls) from running.
func (b *Bus) Publish(evt Event) {
	b.mu.Lock()
	if evt.Timestamp.IsZero() && b.clock != nil {
		evt.Timestamp = b.clock.Now()
	}
	matching := make([]subscription, 0, len(b.subscriptions))
	for _, s := range b.subscriptions {
		if s.eventType != Any && s.eventType != evt.Type {
			continue
		}
		if s.filter != nil && !s.filter(evt) {
			continue
		}
		matching = append(matching, s)
	}
	if b.historyLimit > 0 {
		b.history = append(b.history, evt)
		if over := len(b.history) - b.historyLimit; over > 0 {
			b.history = b.history[over:]
		}
	}
	b.mu.Unlock()

	for _, s := range matching {
		b.dispatch(s, evt)
	}
}

func (b *Bus) dispatch(s subscription, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			b.mu.Lock()
			b.panicCount++
			b.mu.Unlock()
		}
	}()
	s.handler(evt)
}

// PanicCount returns the number of handler panics caught so far.
func (b *Bus) PanicCount() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.panicCount
}

// History returns up to limit most recent events matching eventType (or Any
// for every type), oldest first. limit<=0 returns every retained event.
func (b *Bus) History(eventType Type, limit int) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	var matched []Event
	for _, e := range b.history {
		if eventType == Any || e.Type == eventType {
			matched = append(matched, e)
		}
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched
}

// Len reports how many events are currently retained in history.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.history)
}
