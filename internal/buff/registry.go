package buff

import (
	"fmt"
	"sync"

	"github.com/aldwake/PetGrotto_Go/internal/domain"
)

// Registry tracks active temporary buffs. At most one buff per type is
// active at a time; activating a duplicate type is rejected rather than
// stacked or refreshed, so a held use is never silently discarded.
type Registry struct {
	mu     sync.Mutex
	active map[domain.BuffType]domain.Buff
}

// NewRegistry creates an empty buff registry.
func NewRegistry() *Registry {
	return &Registry{
		active: make(map[domain.BuffType]domain.Buff),
	}
}

// Activate registers a buff. Returns ErrBuffAlreadyActive when a buff
// of the same type is still active.
func (r *Registry) Activate(b domain.Buff) error {
	if b.Duration <= 0 {
		return fmt.Errorf("%w: buff duration must be positive", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.active[b.Type]; ok {
		return fmt.Errorf("%w: %s", domain.ErrBuffAlreadyActive, b.Type)
	}
	r.active[b.Type] = b
	return nil
}

// Peek returns the active buff of the given type without consuming a
// use.
func (r *Registry) Peek(t domain.BuffType) (domain.Buff, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.active[t]
	return b, ok
}

// Value returns the active buff's value for the given type, or zero
// when no such buff is active.
func (r *Registry) Value(t domain.BuffType) float64 {
	b, ok := r.Peek(t)
	if !ok {
		return 0
	}
	return b.Value
}

// Consume decrements the remaining uses of the active buff of the
// given type and removes it once the counter reaches zero. It reports
// the buff that was consumed.
func (r *Registry) Consume(t domain.BuffType) (domain.Buff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.active[t]
	if !ok {
		return domain.Buff{}, fmt.Errorf("%w: %s", domain.ErrBuffNotFound, t)
	}

	b.Duration--
	if b.Duration <= 0 {
		delete(r.active, t)
	} else {
		r.active[t] = b
	}
	return b, nil
}

// ConsumeIfActive is Consume for callers that treat the buff as
// optional. It reports whether a buff was consumed.
func (r *Registry) ConsumeIfActive(t domain.BuffType) (domain.Buff, bool) {
	b, err := r.Consume(t)
	if err != nil {
		return domain.Buff{}, false
	}
	return b, true
}

// Snapshot returns all active buffs for persistence.
func (r *Registry) Snapshot() []domain.Buff {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Buff, 0, len(r.active))
	for _, b := range r.active {
		out = append(out, b)
	}
	return out
}

// Restore replaces the registry contents with a persisted snapshot.
// Exhausted entries are discarded.
func (r *Registry) Restore(buffs []domain.Buff) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active = make(map[domain.BuffType]domain.Buff, len(buffs))
	for _, b := range buffs {
		if b.Duration <= 0 {
			continue
		}
		r.active[b.Type] = b
	}
}

// Clear removes all active buffs.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = make(map[domain.BuffType]domain.Buff)
}
