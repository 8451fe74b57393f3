package inventory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/aldwake/PetGrotto_Go/internal/domain"
)

// Ledger is the authoritative in-memory stack store. All mutations are
// atomic: a removal either applies in full or leaves the ledger
// untouched. Stacking identity is the catalog item ID.
type Ledger struct {
	mu         sync.Mutex
	quantities map[int]int
	order      []int // insertion order, for stable snapshots
	lastUpdate int64
	clock      clockwork.Clock
}

// NewLedger creates an empty ledger.
func NewLedger(clock clockwork.Clock) *Ledger {
	return &Ledger{
		quantities: make(map[int]int),
		clock:      clock,
	}
}

// Add merges quantity into the stack for itemID, creating the stack if
// absent. Quantity must be positive.
func (l *Ledger) Add(itemID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", domain.ErrInvalidInput, quantity)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.quantities[itemID]; !ok {
		l.order = append(l.order, itemID)
	}
	l.quantities[itemID] += quantity
	l.lastUpdate = l.clock.Now().Unix()
	return nil
}

// Remove deducts quantity from the stack for itemID. Fails without any
// change when the stack is missing or short. A stack that reaches zero
// is deleted, never stored.
func (l *Ledger) Remove(itemID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", domain.ErrInvalidInput, quantity)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	have, ok := l.quantities[itemID]
	if !ok {
		return fmt.Errorf("%w: item %d", domain.ErrItemNotFound, itemID)
	}
	if have < quantity {
		return fmt.Errorf("%w: item %d has %d, need %d", domain.ErrInsufficientQuantity, itemID, have, quantity)
	}

	if have == quantity {
		delete(l.quantities, itemID)
		l.dropFromOrder(itemID)
	} else {
		l.quantities[itemID] = have - quantity
	}
	l.lastUpdate = l.clock.Now().Unix()
	return nil
}

// Count returns the held quantity for itemID, zero if absent.
func (l *Ledger) Count(itemID int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.quantities[itemID]
}

// Has reports whether at least quantity of itemID is held.
func (l *Ledger) Has(itemID, quantity int) bool {
	return l.Count(itemID) >= quantity
}

// Snapshot returns the current stacks in insertion order.
func (l *Ledger) Snapshot() domain.Inventory {
	l.mu.Lock()
	defer l.mu.Unlock()

	slots := make([]domain.InventorySlot, 0, len(l.order))
	for _, id := range l.order {
		if qty := l.quantities[id]; qty > 0 {
			slots = append(slots, domain.InventorySlot{ItemID: id, Quantity: qty})
		}
	}
	return domain.Inventory{Slots: slots, LastUpdate: l.lastUpdate}
}

// Restore replaces the ledger contents with a persisted snapshot.
// Slots with non-positive quantities are discarded.
func (l *Ledger) Restore(inv domain.Inventory) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.quantities = make(map[int]int, len(inv.Slots))
	l.order = l.order[:0]
	for _, slot := range inv.Slots {
		if slot.Quantity <= 0 {
			continue
		}
		if _, ok := l.quantities[slot.ItemID]; !ok {
			l.order = append(l.order, slot.ItemID)
		}
		l.quantities[slot.ItemID] += slot.Quantity
	}
	l.lastUpdate = inv.LastUpdate
}

// TotalStacks returns the number of distinct stacks held.
func (l *Ledger) TotalStacks() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.quantities)
}

// SortedSnapshot returns stacks ordered by item ID, for displays that
// want a stable catalog ordering rather than acquisition ordering.
func (l *Ledger) SortedSnapshot() []domain.InventorySlot {
	snap := l.Snapshot().Slots
	sort.Slice(snap, func(i, j int) bool { return snap[i].ItemID < snap[j].ItemID })
	return snap
}

func (l *Ledger) dropFromOrder(itemID int) {
	for i, id := range l.order {
		if id == itemID {
			l.order = append(l.order[:i], l.order[i+1:]...)
			return
		}
	}
}
