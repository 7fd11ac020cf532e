package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var ErrSubscriptionClosed = errors.New("the subscription is closed")

// Bus delivers events to subscriptions.
//
// Mutations that emit events run through Commit. Commit holds a lock for
// the whole mutation, so events of one scope are delivered in the order
// their changes were committed.
type Bus struct {
	commit sync.Mutex

	mu          sync.Mutex
	sequence    uint64
	subscribers map[Scope]map[*Subscription]struct{}
	all         map[*Subscription]struct{}

	published *prometheus.CounterVec
}

func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[Scope]map[*Subscription]struct{}),
		all:         make(map[*Subscription]struct{}),
		published: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_published_total",
				Help: "How many change events were published, partitioned by kind.",
			},
			[]string{"kind"},
		),
	}
}

// Collectors returns the Prometheus metrics of the bus.
func (b *Bus) Collectors() []prometheus.Collector {
	return []prometheus.Collector{b.published}
}

// Commit runs mutate and publishes the events it returns if it succeeds.
//
// Nothing is published when mutate returns an error.
func (b *Bus) Commit(ctx context.Context, mutate func() ([]Event, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.commit.Lock()
	defer b.commit.Unlock()

	events, err := mutate()
	if err != nil {
		return err
	}

	b.Publish(events...)
	return nil
}

// Publish delivers events to the subscriptions of their scopes and to all
// global subscriptions.
func (b *Bus) Publish(events ...Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, e := range events {
		b.sequence++
		e.Sequence = b.sequence
		if e.OccurredAt.IsZero() {
			e.OccurredAt = time.Now().In(time.UTC)
		}

		for s := range b.subscribers[e.Scope] {
			s.push(e)
		}

		for s := range b.all {
			s.push(e)
		}

		b.published.WithLabelValues(string(e.Kind)).Inc()
		log.Debug().Uint64("sequence", e.Sequence).Str("scope", string(e.Scope)).Str("kind", string(e.Kind)).Str("resource", e.ResourceID.String()).Msg("event")
	}
}

// Subscribe returns a subscription for all events of the scope.
func (b *Bus) Subscribe(scope Scope) *Subscription {
	s := newSubscription(b, scope)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subscribers[scope] == nil {
		b.subscribers[scope] = make(map[*Subscription]struct{})
	}
	b.subscribers[scope][s] = struct{}{}

	return s
}

// SubscribeAll returns a subscription for every event of every scope.
func (b *Bus) SubscribeAll() *Subscription {
	s := newSubscription(b, "")

	b.mu.Lock()
	defer b.mu.Unlock()

	b.all[s] = struct{}{}
	return s
}

// Subscribers returns the number of open subscriptions for the scope.
func (b *Bus) Subscribers(scope Scope) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subscribers[scope])
}

// Open returns the number of open subscriptions of all scopes.
func (b *Bus) Open() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	open := len(b.all)
	for _, subs := range b.subscribers {
		open += len(subs)
	}
	return open
}

// Close closes all open subscriptions. Readers waiting in Next return
// ErrSubscriptionClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	var open []*Subscription
	for _, subs := range b.subscribers {
		for s := range subs {
			open = append(open, s)
		}
	}
	for s := range b.all {
		open = append(open, s)
	}
	b.mu.Unlock()

	for _, s := range open {
		s.Close()
	}
}

func (b *Bus) unsubscribe(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s.scope == "" {
		delete(b.all, s)
		return
	}

	delete(b.subscribers[s.scope], s)
	if len(b.subscribers[s.scope]) == 0 {
		delete(b.subscribers, s.scope)
	}
}

// Subscription queues events until they are read with Next.
//
// The queue is unbounded. Publishing never blocks on a slow reader.
type Subscription struct {
	bus   *Bus
	scope Scope

	mu     sync.Mutex
	queue  []Event
	closed bool
	ready  chan struct{}
}

func newSubscription(b *Bus, scope Scope) *Subscription {
	return &Subscription{
		bus:   b,
		scope: scope,
		ready: make(chan struct{}, 1),
	}
}

// Scope returns the scope of the subscription. It is empty for global
// subscriptions.
func (s *Subscription) Scope() Scope {
	return s.scope
}

func (s *Subscription) push(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.queue = append(s.queue, e)
	s.signal()
}

// signal wakes a waiting reader. s.mu must be held.
func (s *Subscription) signal() {
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// Next blocks until an event is available, the context ends or the
// subscription is closed.
func (s *Subscription) Next(ctx context.Context) (Event, error) {
	for {
		s.mu.Lock()
		if len(s.queue) > 0 {
			e := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return e, nil
		}

		if s.closed {
			s.mu.Unlock()
			return Event{}, ErrSubscriptionClosed
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		case <-s.ready:
		}
	}
}

// Close removes the subscription from the bus. Queued events are dropped.
func (s *Subscription) Close() {
	s.bus.unsubscribe(s)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.queue = nil
	s.signal()
}
