package buff

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldwake/PetGrotto_Go/internal/domain"
)

func TestRegistry_ActivateAndPeek(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Activate(domain.Buff{Type: domain.BuffHuntRewardBoost, Value: 0.3, Duration: 1}))

	b, ok := r.Peek(domain.BuffHuntRewardBoost)
	require.True(t, ok)
	assert.Equal(t, 0.3, b.Value)
	assert.Equal(t, 1, b.Duration, "peek must not consume a use")

	_, ok = r.Peek(domain.BuffExpBoost)
	assert.False(t, ok)
}

func TestRegistry_DuplicateTypeRejected(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Activate(domain.Buff{Type: domain.BuffExpBoost, Value: 2, Duration: 1}))

	err := r.Activate(domain.Buff{Type: domain.BuffExpBoost, Value: 3, Duration: 1})
	assert.True(t, errors.Is(err, domain.ErrBuffAlreadyActive))

	// The original buff is untouched.
	b, ok := r.Peek(domain.BuffExpBoost)
	require.True(t, ok)
	assert.Equal(t, float64(2), b.Value)
}

func TestRegistry_ActivateRejectsExhausted(t *testing.T) {
	r := NewRegistry()
	err := r.Activate(domain.Buff{Type: domain.BuffAutoHeal, Value: 50, Duration: 0})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestRegistry_ConsumeDecrementsAndRemoves(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Activate(domain.Buff{Type: domain.BuffHungerCostReduce, Value: 0.5, Duration: 2}))

	b, err := r.Consume(domain.BuffHungerCostReduce)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Duration)

	// Still active with one use left.
	_, ok := r.Peek(domain.BuffHungerCostReduce)
	assert.True(t, ok)

	b, err = r.Consume(domain.BuffHungerCostReduce)
	require.NoError(t, err)
	assert.Equal(t, 0, b.Duration)

	_, ok = r.Peek(domain.BuffHungerCostReduce)
	assert.False(t, ok, "buff must be removed once uses run out")

	_, err = r.Consume(domain.BuffHungerCostReduce)
	assert.True(t, errors.Is(err, domain.ErrBuffNotFound))
}

func TestRegistry_ConsumeIfActive(t *testing.T) {
	r := NewRegistry()

	_, consumed := r.ConsumeIfActive(domain.BuffDeathMoneyProtect)
	assert.False(t, consumed)

	require.NoError(t, r.Activate(domain.Buff{Type: domain.BuffDeathMoneyProtect, Value: 1, Duration: 1}))
	b, consumed := r.ConsumeIfActive(domain.BuffDeathMoneyProtect)
	assert.True(t, consumed)
	assert.Equal(t, domain.BuffDeathMoneyProtect, b.Type)
}

func TestRegistry_Value(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, float64(0), r.Value(domain.BuffDeathChanceReduce))

	require.NoError(t, r.Activate(domain.Buff{Type: domain.BuffDeathChanceReduce, Value: 0.05, Duration: 1}))
	assert.Equal(t, 0.05, r.Value(domain.BuffDeathChanceReduce))
}

func TestRegistry_SnapshotRestore(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Activate(domain.Buff{Type: domain.BuffHuntRewardBoost, Value: 0.3, Duration: 1}))
	require.NoError(t, r.Activate(domain.Buff{Type: domain.BuffAutoHeal, Value: 50, Duration: 1, Threshold: 30}))

	snap := r.Snapshot()
	assert.Len(t, snap, 2)

	restored := NewRegistry()
	restored.Restore(append(snap, domain.Buff{Type: domain.BuffExpBoost, Value: 2, Duration: 0}))

	_, ok := restored.Peek(domain.BuffHuntRewardBoost)
	assert.True(t, ok)
	heal, ok := restored.Peek(domain.BuffAutoHeal)
	require.True(t, ok)
	assert.Equal(t, 30, heal.Threshold)
	_, ok = restored.Peek(domain.BuffExpBoost)
	assert.False(t, ok, "exhausted snapshot entries must be discarded")
}
