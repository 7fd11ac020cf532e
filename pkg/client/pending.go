package client

import (
	"errors"
	"sync"

	"golang.org/x/exp/maps"
)

var (
	ErrUnknownKey = errors.New("no value with this key")
	ErrPendingKey = errors.New("a change for this key is already pending")
	ErrNoChange   = errors.New("no pending change for this key")
)

// change is a tentative modification of a single key.
type change[V any] struct {
	value   V
	removed bool
}

// Pending holds committed values and tentative changes on top of them.
//
// Every change is applied in two phases. Apply and Remove record a
// tentative change that readers see immediately. Commit, CommitAs and
// Rollback resolve the change. A change is always resolved as a whole and
// there is at most one pending change per key.
//
// Pending is safe for concurrent use.
type Pending[K comparable, V any] struct {
	mu        sync.RWMutex
	committed map[K]V
	changes   map[K]change[V]
}

// NewPending returns an empty store.
func NewPending[K comparable, V any]() *Pending[K, V] {
	return &Pending[K, V]{
		committed: make(map[K]V),
		changes:   make(map[K]change[V]),
	}
}

// Apply records value as a tentative value for key.
func (p *Pending[K, V]) Apply(key K, value V) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.changes[key]; ok {
		return ErrPendingKey
	}

	p.changes[key] = change[V]{value: value}
	return nil
}

// Remove tentatively removes the committed value for key.
func (p *Pending[K, V]) Remove(key K) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.changes[key]; ok {
		return ErrPendingKey
	}

	value, ok := p.committed[key]
	if !ok {
		return ErrUnknownKey
	}

	p.changes[key] = change[V]{value: value, removed: true}
	return nil
}

// Commit makes the pending change for key permanent as it was recorded.
func (p *Pending[K, V]) Commit(key K) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.changes[key]
	if !ok {
		return ErrNoChange
	}
	delete(p.changes, key)

	if c.removed {
		delete(p.committed, key)
		return nil
	}

	p.committed[key] = c.value
	return nil
}

// CommitAs resolves the pending change for key by committing value
// under newKey. The tentative key does not survive the commit.
func (p *Pending[K, V]) CommitAs(key, newKey K, value V) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.changes[key]; !ok {
		return ErrNoChange
	}

	if _, ok := p.changes[newKey]; ok && newKey != key {
		return ErrPendingKey
	}

	delete(p.changes, key)
	delete(p.committed, key)
	p.committed[newKey] = value
	return nil
}

// Rollback discards the pending change for key. The committed state is
// the same as before the change was recorded.
func (p *Pending[K, V]) Rollback(key K) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.changes[key]; !ok {
		return ErrNoChange
	}

	delete(p.changes, key)
	return nil
}

// Reset replaces all committed values. Pending changes are kept.
func (p *Pending[K, V]) Reset(values map[K]V) {
	committed := maps.Clone(values)
	if committed == nil {
		committed = make(map[K]V)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.committed = committed
}

// Get returns the visible value for key.
func (p *Pending[K, V]) Get(key K) (V, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if c, ok := p.changes[key]; ok {
		if c.removed {
			var zero V
			return zero, false
		}
		return c.value, true
	}

	v, ok := p.committed[key]
	return v, ok
}

// IsPending reports if a change for key is not resolved yet.
func (p *Pending[K, V]) IsPending(key K) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, ok := p.changes[key]
	return ok
}

// Values returns all visible values in no particular order.
func (p *Pending[K, V]) Values() []V {
	p.mu.RLock()
	defer p.mu.RUnlock()

	values := make([]V, 0, len(p.committed)+len(p.changes))
	for k, v := range p.committed {
		if _, ok := p.changes[k]; ok {
			continue
		}
		values = append(values, v)
	}

	for _, c := range p.changes {
		if !c.removed {
			values = append(values, c.value)
		}
	}

	return values
}

// Committed returns the committed values only.
func (p *Pending[K, V]) Committed() map[K]V {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return maps.Clone(p.committed)
}
