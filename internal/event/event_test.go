package event

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBus_PublishReachesSubscribers(t *testing.T) {
	bus := NewMemoryBus()

	var mu sync.Mutex
	var received []Event
	bus.Subscribe(HuntResolved, func(_ context.Context, ev Event) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, ev)
		return nil
	})

	ev := NewHuntResolvedEvent("cat", false, 80, 24, 25, 0.1)
	require.NoError(t, bus.Publish(context.Background(), ev))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, HuntResolved, received[0].Type)
	assert.Equal(t, EventSchemaVersion, received[0].Version)
}

func TestMemoryBus_NoSubscribersIsNotAnError(t *testing.T) {
	bus := NewMemoryBus()
	require.NoError(t, bus.Publish(context.Background(), NewFragmentDroppedEvent("fox", "hunt")))
}

func TestMemoryBus_HandlersRunInSubscriptionOrder(t *testing.T) {
	bus := NewMemoryBus()

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		bus.Subscribe(PlayCompleted, func(_ context.Context, _ Event) error {
			order = append(order, i)
			return nil
		})
	}

	require.NoError(t, bus.Publish(context.Background(), NewPlayCompletedEvent("cat", 10, 10)))
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestMemoryBus_AggregatesHandlerErrors(t *testing.T) {
	bus := NewMemoryBus()

	calls := 0
	bus.Subscribe(PetDied, func(_ context.Context, _ Event) error {
		calls++
		return errors.New("first handler broke")
	})
	bus.Subscribe(PetDied, func(_ context.Context, _ Event) error {
		calls++
		return nil
	})
	bus.Subscribe(PetDied, func(_ context.Context, _ Event) error {
		calls++
		return errors.New("third handler broke")
	})

	err := bus.Publish(context.Background(), NewPetDiedEvent("id-1", "cat", false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 handler error(s)")
	// A failing handler never stops the remaining handlers.
	assert.Equal(t, 3, calls)
}

func TestDecodePayload_TypedPassthrough(t *testing.T) {
	payload := SynthesisResultPayloadV1{RecipeID: 2, TargetPetType: "bird", Success: true, SuccessRate: 0.6}

	decoded, err := DecodePayload[SynthesisResultPayloadV1](payload)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestDecodePayload_JSONFallback(t *testing.T) {
	raw := map[string]interface{}{
		"fragment_type": "dragon",
		"source":        "forest",
		"timestamp":     float64(1700000000),
	}

	decoded, err := DecodePayload[FragmentDroppedPayloadV1](raw)
	require.NoError(t, err)
	assert.Equal(t, "dragon", decoded.FragmentType)
	assert.Equal(t, "forest", decoded.Source)
	assert.Equal(t, int64(1700000000), decoded.Timestamp)
}

// failingBus rejects publishes a set number of times before accepting.
type failingBus struct {
	mu        sync.Mutex
	failures  int
	published []Event
}

func (b *failingBus) Publish(_ context.Context, ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures > 0 {
		b.failures--
		return errors.New("bus unavailable")
	}
	b.published = append(b.published, ev)
	return nil
}

func (b *failingBus) Subscribe(Type, Handler) {}

func (b *failingBus) publishedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.published)
}

func TestResilientPublisher_RetriesUntilSuccess(t *testing.T) {
	inner := &failingBus{failures: 2}
	publisher := NewResilientPublisher(inner, ResilientConfig{
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	})

	require.NoError(t, publisher.Publish(context.Background(), NewFragmentDroppedEvent("cat", "forest")))

	require.Eventually(t, func() bool {
		return inner.publishedCount() == 1
	}, time.Second, time.Millisecond)
}

func TestResilientPublisher_DeadLettersAfterExhaustedRetries(t *testing.T) {
	deadLetterPath := filepath.Join(t.TempDir(), "dead_letters.jsonl")
	inner := &failingBus{failures: 100}
	publisher := NewResilientPublisher(inner, ResilientConfig{
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
		DeadLetterPath: deadLetterPath,
	})

	ev := NewPetDiedEvent("id-9", "dragon", true)
	require.NoError(t, publisher.Publish(context.Background(), ev))

	require.Eventually(t, func() bool {
		_, err := os.Stat(deadLetterPath)
		return err == nil
	}, time.Second, time.Millisecond)

	data, err := os.ReadFile(deadLetterPath)
	require.NoError(t, err)

	var entry struct {
		Timestamp time.Time `json:"timestamp"`
		Event     Event     `json:"event"`
	}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, PetDied, entry.Event.Type)
	assert.False(t, entry.Timestamp.IsZero())

	payload, err := DecodePayload[PetDiedPayloadV1](entry.Event.Payload)
	require.NoError(t, err)
	assert.Equal(t, "dragon", payload.PetType)
	assert.True(t, payload.MoneyProtected)
}
