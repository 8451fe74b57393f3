package inventory

import (
	"errors"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldwake/PetGrotto_Go/internal/domain"
)

func newTestLedger() *Ledger {
	return NewLedger(clockwork.NewFakeClock())
}

func TestLedger_AddAndCount(t *testing.T) {
	l := newTestLedger()

	require.NoError(t, l.Add(101, 3))
	require.NoError(t, l.Add(101, 2))
	assert.Equal(t, 5, l.Count(101))
	assert.Equal(t, 1, l.TotalStacks())

	assert.Equal(t, 0, l.Count(999))
}

func TestLedger_AddRejectsNonPositive(t *testing.T) {
	l := newTestLedger()

	err := l.Add(101, 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	err = l.Add(101, -1)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, 0, l.Count(101))
}

func TestLedger_Remove(t *testing.T) {
	l := newTestLedger()
	require.NoError(t, l.Add(101, 5))

	t.Run("partial removal keeps stack", func(t *testing.T) {
		require.NoError(t, l.Remove(101, 2))
		assert.Equal(t, 3, l.Count(101))
	})

	t.Run("removal to zero deletes stack", func(t *testing.T) {
		require.NoError(t, l.Remove(101, 3))
		assert.Equal(t, 0, l.Count(101))
		assert.Equal(t, 0, l.TotalStacks())
	})

	t.Run("missing stack", func(t *testing.T) {
		err := l.Remove(101, 1)
		assert.True(t, errors.Is(err, domain.ErrItemNotFound))
	})
}

func TestLedger_RemoveShortStackIsAtomic(t *testing.T) {
	l := newTestLedger()
	require.NoError(t, l.Add(101, 2))

	err := l.Remove(101, 3)
	assert.True(t, errors.Is(err, domain.ErrInsufficientQuantity))
	assert.Equal(t, 2, l.Count(101), "failed removal must not change the stack")
}

func TestLedger_Has(t *testing.T) {
	l := newTestLedger()
	require.NoError(t, l.Add(20, 1))

	assert.True(t, l.Has(20, 1))
	assert.False(t, l.Has(20, 2))
	assert.False(t, l.Has(21, 1))
}

func TestLedger_SnapshotRestoreRoundTrip(t *testing.T) {
	l := newTestLedger()
	require.NoError(t, l.Add(101, 3))
	require.NoError(t, l.Add(20, 1))
	require.NoError(t, l.Add(1, 7))

	snap := l.Snapshot()
	require.Len(t, snap.Slots, 3)
	// Insertion order preserved.
	assert.Equal(t, 101, snap.Slots[0].ItemID)
	assert.Equal(t, 20, snap.Slots[1].ItemID)

	restored := newTestLedger()
	restored.Restore(snap)
	assert.Equal(t, 3, restored.Count(101))
	assert.Equal(t, 1, restored.Count(20))
	assert.Equal(t, 7, restored.Count(1))
	assert.Equal(t, snap.Slots, restored.Snapshot().Slots)
}

func TestLedger_RestoreDiscardsZeroSlots(t *testing.T) {
	l := newTestLedger()
	l.Restore(domain.Inventory{Slots: []domain.InventorySlot{
		{ItemID: 1, Quantity: 0},
		{ItemID: 2, Quantity: -4},
		{ItemID: 3, Quantity: 2},
	}})

	assert.Equal(t, 1, l.TotalStacks())
	assert.Equal(t, 2, l.Count(3))
}

func TestLedger_SortedSnapshot(t *testing.T) {
	l := newTestLedger()
	require.NoError(t, l.Add(104, 1))
	require.NoError(t, l.Add(1, 1))
	require.NoError(t, l.Add(20, 1))

	sorted := l.SortedSnapshot()
	require.Len(t, sorted, 3)
	assert.Equal(t, 1, sorted[0].ItemID)
	assert.Equal(t, 20, sorted[1].ItemID)
	assert.Equal(t, 104, sorted[2].ItemID)
}
