package save

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jonboulle/clockwork"

	"github.com/aldwake/PetGrotto_Go/internal/domain"
	"github.com/aldwake/PetGrotto_Go/internal/event"
	"github.com/aldwake/PetGrotto_Go/internal/logger"
	"github.com/aldwake/PetGrotto_Go/internal/notification"
)

// Snapshotter produces and consumes full game snapshots. The game
// service implements this by coordinating every stateful component.
type Snapshotter interface {
	Snapshot() domain.SaveData
	Restore(ctx context.Context, data *domain.SaveData) error
}

// Service manages the fixed save slots: versioned writes, the
// migration chain on load, import/export and the autosave cadence
// hook. Concurrent saves are rejected, never queued.
type Service struct {
	store    Store
	snap     Snapshotter
	clock    clockwork.Clock
	bus      event.Bus
	notifier notification.Notifier
	cache    *expirable.LRU[string, domain.SaveMeta]

	saving chan struct{}

	mu           sync.Mutex
	basePlayTime int64
	playTimeMark time.Time
}

// NewService creates a save service.
func NewService(store Store, snap Snapshotter, clock clockwork.Clock, bus event.Bus, notifier notification.Notifier) *Service {
	s := &Service{
		store:        store,
		snap:         snap,
		clock:        clock,
		bus:          bus,
		notifier:     notifier,
		cache:        expirable.NewLRU[string, domain.SaveMeta](MetaCacheSize, nil, MetaCacheTTL),
		saving:       make(chan struct{}, 1),
		playTimeMark: clock.Now(),
	}
	return s
}

// beginSave claims the single save token.
func (s *Service) beginSave() error {
	select {
	case s.saving <- struct{}{}:
		return nil
	default:
		return domain.ErrSaveInProgress
	}
}

func (s *Service) endSave() {
	<-s.saving
}

// SaveToSlot snapshots the game into a slot. The slot's identity and
// creation time survive overwrites; play time accumulates across
// saves.
func (s *Service) SaveToSlot(ctx context.Context, slot, name string) (domain.SaveMeta, error) {
	if !ValidSlot(slot) {
		return domain.SaveMeta{}, fmt.Errorf("%w: %s", domain.ErrInvalidSaveSlot, slot)
	}
	if err := s.beginSave(); err != nil {
		return domain.SaveMeta{}, err
	}
	defer s.endSave()

	data := s.snap.Snapshot()
	now := s.clock.Now()

	meta := domain.SaveMeta{
		ID:        uuid.NewString(),
		Name:      name,
		Version:   CurrentSaveVersion,
		CreatedAt: now.Unix(),
		UpdatedAt: now.Unix(),
	}
	if existing, err := s.store.Load(ctx, slot); err == nil {
		meta.ID = existing.Meta.ID
		meta.CreatedAt = existing.Meta.CreatedAt
	}

	s.mu.Lock()
	elapsed := int64(now.Sub(s.playTimeMark).Minutes())
	s.basePlayTime += elapsed
	s.playTimeMark = now
	meta.PlayTime = s.basePlayTime
	s.mu.Unlock()

	data.Meta = meta
	if err := s.store.Save(ctx, slot, &data); err != nil {
		return domain.SaveMeta{}, err
	}
	s.cache.Add(slot, meta)

	s.publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.SaveWritten,
		Payload: meta,
	})
	if s.notifier != nil && slot != SlotAutosave {
		s.notifier.Success(MsgSaveWritten)
	}
	logger.FromContext(ctx).Info(LogMsgSaveWritten, "slot", slot, "save_id", meta.ID)
	return meta, nil
}

// Autosave writes the dedicated autosave slot. Invoked on the
// scheduler cadence; a manual save already in flight skips this cycle.
func (s *Service) Autosave(ctx context.Context) error {
	_, err := s.SaveToSlot(ctx, SlotAutosave, DefaultAutosaveName)
	return err
}

// LoadFromSlot reads a slot, runs the migration chain and restores the
// game from it. The caller decides what to do on failure; the game's
// running state is untouched unless the restore itself starts.
func (s *Service) LoadFromSlot(ctx context.Context, slot string) (domain.SaveMeta, error) {
	data, err := s.store.Load(ctx, slot)
	if err != nil {
		return domain.SaveMeta{}, err
	}

	fromVersion := data.Meta.Version
	if err := Migrate(data); err != nil {
		return domain.SaveMeta{}, err
	}
	if fromVersion != data.Meta.Version {
		logger.FromContext(ctx).Info(LogMsgSaveMigrated,
			"slot", slot, "from_version", fromVersion, "to_version", data.Meta.Version)
	}

	if err := s.snap.Restore(ctx, data); err != nil {
		return domain.SaveMeta{}, fmt.Errorf("failed to restore snapshot: %w", err)
	}

	s.mu.Lock()
	s.basePlayTime = data.Meta.PlayTime
	s.playTimeMark = s.clock.Now()
	s.mu.Unlock()
	s.cache.Add(slot, data.Meta)

	s.publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.SaveLoaded,
		Payload: data.Meta,
	})
	if s.notifier != nil {
		s.notifier.Success(MsgSaveLoaded)
	}
	logger.FromContext(ctx).Info(LogMsgSaveLoaded, "slot", slot, "save_id", data.Meta.ID)
	return data.Meta, nil
}

// DeleteSlot removes a slot's snapshot.
func (s *Service) DeleteSlot(ctx context.Context, slot string) error {
	if err := s.store.Delete(ctx, slot); err != nil {
		return err
	}
	s.cache.Remove(slot)
	logger.FromContext(ctx).Info(LogMsgSaveDeleted, "slot", slot)
	return nil
}

// ListSlots returns metadata for every occupied slot, served from the
// metadata cache while it is warm.
func (s *Service) ListSlots(ctx context.Context) ([]domain.SaveMeta, error) {
	cached := make([]domain.SaveMeta, 0, len(Slots()))
	complete := true
	for _, slot := range Slots() {
		meta, ok := s.cache.Get(slot)
		if !ok {
			complete = false
			break
		}
		cached = append(cached, meta)
	}
	if complete {
		return cached, nil
	}

	metas, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return metas, nil
}

// ExportSlot serializes a slot's snapshot for download or transfer.
func (s *Service) ExportSlot(ctx context.Context, slot string) ([]byte, error) {
	data, err := s.store.Load(ctx, slot)
	if err != nil {
		return nil, err
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return raw, nil
}

// ImportSlot parses external snapshot JSON, migrates it and stores it
// in the slot. The import is not loaded into the running game.
func (s *Service) ImportSlot(ctx context.Context, slot string, raw []byte) (domain.SaveMeta, error) {
	if !ValidSlot(slot) {
		return domain.SaveMeta{}, fmt.Errorf("%w: %s", domain.ErrInvalidSaveSlot, slot)
	}

	var data domain.SaveData
	if err := json.Unmarshal(raw, &data); err != nil {
		return domain.SaveMeta{}, fmt.Errorf("%w: %v", domain.ErrSaveCorrupt, err)
	}
	if err := Migrate(&data); err != nil {
		return domain.SaveMeta{}, err
	}

	if err := s.beginSave(); err != nil {
		return domain.SaveMeta{}, err
	}
	defer s.endSave()

	if err := s.store.Save(ctx, slot, &data); err != nil {
		return domain.SaveMeta{}, err
	}
	s.cache.Add(slot, data.Meta)
	logger.FromContext(ctx).Info(LogMsgSaveImported, "slot", slot, "save_id", data.Meta.ID)
	return data.Meta, nil
}

func (s *Service) publish(ctx context.Context, ev event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish save event", "error", err)
	}
}
