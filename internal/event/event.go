package event

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Type represents the type of an event
type Type string

// Common event types
const (
	SynthesisSucceeded Type = "synthesis.succeeded"
	SynthesisFailed    Type = "synthesis.failed"
	PetSummoned        Type = "pet.summoned"
	PetDied            Type = "pet.died"
	PetLeveledUp       Type = "pet.leveled_up"
	HuntResolved       Type = "hunt.resolved"
	PlayCompleted      Type = "play.completed"
	FragmentDropped    Type = "fragment.dropped"
	BuffActivated      Type = "buff.activated"
	BuffConsumed       Type = "buff.consumed"
	SaveWritten        Type = "save.written"
	SaveLoaded         Type = "save.loaded"
)

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// Typed event payloads for type safety

// SynthesisResultPayloadV1 is the typed payload for synthesis outcome events
type SynthesisResultPayloadV1 struct {
	RecipeID      int     `json:"recipe_id"`
	TargetPetType string  `json:"target_pet_type"`
	Success       bool    `json:"success"`
	SuccessRate   float64 `json:"success_rate"`
	FailCount     int     `json:"fail_count"`
	PityActive    bool    `json:"pity_active"`
	Timestamp     int64   `json:"timestamp"`
}

// PetSummonedPayloadV1 is the typed payload for pet summon events
type PetSummonedPayloadV1 struct {
	InstanceID string `json:"instance_id"`
	PetType    string `json:"pet_type"`
	Timestamp  int64  `json:"timestamp"`
}

// PetDiedPayloadV1 is the typed payload for pet death events
type PetDiedPayloadV1 struct {
	InstanceID     string `json:"instance_id"`
	PetType        string `json:"pet_type"`
	MoneyProtected bool   `json:"money_protected"`
	Timestamp      int64  `json:"timestamp"`
}

// HuntResolvedPayloadV1 is the typed payload for hunt completion events
type HuntResolvedPayloadV1 struct {
	PetType     string  `json:"pet_type"`
	Died        bool    `json:"died"`
	Reward      int     `json:"reward"`
	BuffBonus   int     `json:"buff_bonus"`
	Experience  int     `json:"experience"`
	DeathChance float64 `json:"death_chance"`
	Timestamp   int64   `json:"timestamp"`
}

// PlayCompletedPayloadV1 is the typed payload for play completion events
type PlayCompletedPayloadV1 struct {
	PetType    string `json:"pet_type"`
	MoodGain   int    `json:"mood_gain"`
	Experience int    `json:"experience"`
	Timestamp  int64  `json:"timestamp"`
}

// FragmentDroppedPayloadV1 is the typed payload for fragment drop events
type FragmentDroppedPayloadV1 struct {
	FragmentType string `json:"fragment_type"`
	Source       string `json:"source"`
	Timestamp    int64  `json:"timestamp"`
}

// NewSynthesisResultEvent builds a synthesis outcome event.
func NewSynthesisResultEvent(recipeID int, targetPetType string, success bool, rate float64, failCount int, pityActive bool) Event {
	eventType := SynthesisFailed
	if success {
		eventType = SynthesisSucceeded
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: SynthesisResultPayloadV1{
			RecipeID:      recipeID,
			TargetPetType: targetPetType,
			Success:       success,
			SuccessRate:   rate,
			FailCount:     failCount,
			PityActive:    pityActive,
			Timestamp:     time.Now().Unix(),
		},
	}
}

// NewHuntResolvedEvent builds a hunt completion event.
func NewHuntResolvedEvent(petType string, died bool, reward, buffBonus, experience int, deathChance float64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    HuntResolved,
		Payload: HuntResolvedPayloadV1{
			PetType:     petType,
			Died:        died,
			Reward:      reward,
			BuffBonus:   buffBonus,
			Experience:  experience,
			DeathChance: deathChance,
			Timestamp:   time.Now().Unix(),
		},
	}
}

// NewPlayCompletedEvent builds a play completion event.
func NewPlayCompletedEvent(petType string, moodGain, experience int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PlayCompleted,
		Payload: PlayCompletedPayloadV1{
			PetType:    petType,
			MoodGain:   moodGain,
			Experience: experience,
			Timestamp:  time.Now().Unix(),
		},
	}
}

// NewPetDiedEvent builds a pet death event.
func NewPetDiedEvent(instanceID, petType string, moneyProtected bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PetDied,
		Payload: PetDiedPayloadV1{
			InstanceID:     instanceID,
			PetType:        petType,
			MoneyProtected: moneyProtected,
			Timestamp:      time.Now().Unix(),
		},
	}
}

// NewFragmentDroppedEvent builds a fragment drop event.
func NewFragmentDroppedEvent(fragmentType, source string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    FragmentDropped,
		Payload: FragmentDroppedPayloadV1{
			FragmentType: fragmentType,
			Source:       source,
			Timestamp:    time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run
// synchronously in subscription order.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d handler error(s) for %s: %v", len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
