package metrics

import (
	"context"
	"strconv"

	"github.com/aldwake/PetGrotto_Go/internal/event"
	"github.com/aldwake/PetGrotto_Go/internal/logger"
)

// EventMetricsCollector subscribes to gameplay events and records
// metrics from their payloads.
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to every event type the collector understands.
func (e *EventMetricsCollector) Register(bus event.Bus) {
	eventTypes := []event.Type{
		event.SynthesisSucceeded,
		event.SynthesisFailed,
		event.PetSummoned,
		event.PetDied,
		event.HuntResolved,
		event.PlayCompleted,
		event.FragmentDropped,
		event.SaveWritten,
	}
	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent records metrics for a single event. Decode failures are
// logged and swallowed; metrics must never fail gameplay.
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.SynthesisSucceeded, event.SynthesisFailed:
		payload, err := event.DecodePayload[event.SynthesisResultPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		recipe := strconv.Itoa(payload.RecipeID)
		outcome := OutcomeFailure
		if payload.Success {
			outcome = OutcomeSuccess
		}
		SynthesisAttempts.WithLabelValues(recipe, outcome).Inc()
		SynthesisRate.WithLabelValues(recipe).Set(payload.SuccessRate)
		if payload.PityActive {
			PityActivations.WithLabelValues(recipe).Inc()
		}

	case event.PetSummoned:
		payload, err := event.DecodePayload[event.PetSummonedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		PetsSummoned.WithLabelValues(payload.PetType).Inc()

	case event.PetDied:
		payload, err := event.DecodePayload[event.PetDiedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		PetDeaths.WithLabelValues(payload.PetType).Inc()

	case event.HuntResolved:
		payload, err := event.DecodePayload[event.HuntResolvedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		outcome := OutcomeVictory
		if payload.Died {
			outcome = OutcomeDeath
		} else {
			HuntRewards.Observe(float64(payload.Reward + payload.BuffBonus))
		}
		HuntsResolved.WithLabelValues(payload.PetType, outcome).Inc()

	case event.PlayCompleted:
		payload, err := event.DecodePayload[event.PlayCompletedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		PlaysCompleted.WithLabelValues(payload.PetType).Inc()

	case event.FragmentDropped:
		payload, err := event.DecodePayload[event.FragmentDroppedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		FragmentsDropped.WithLabelValues(payload.Source, payload.FragmentType).Inc()

	case event.SaveWritten:
		SavesWritten.Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
