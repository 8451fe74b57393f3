package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/aldwake/PetGrotto_Go/internal/buff"
	"github.com/aldwake/PetGrotto_Go/internal/catalog"
	"github.com/aldwake/PetGrotto_Go/internal/domain"
	"github.com/aldwake/PetGrotto_Go/internal/event"
	"github.com/aldwake/PetGrotto_Go/internal/inventory"
	"github.com/aldwake/PetGrotto_Go/internal/logger"
	"github.com/aldwake/PetGrotto_Go/internal/notification"
	"github.com/aldwake/PetGrotto_Go/internal/outdoor"
	"github.com/aldwake/PetGrotto_Go/internal/pet"
)

// Service owns the cross-cutting game state, currency and game time,
// and coordinates item purchases and activations across the catalog,
// ledger, pet collection and buff registry. It also assembles and
// restores full snapshots for the save system.
type Service struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	ledger   *inventory.Ledger
	pets     *pet.Collection
	buffs    *buff.Registry
	resolver *outdoor.Resolver
	bus      event.Bus
	notifier notification.Notifier
	clock    clockwork.Clock

	currency int
	gameTime int64
}

// NewService creates the game service. The service is the resolver's
// wallet, so the resolver is attached after construction; call
// AttachResolver before any gameplay. Call NewGame or a save load to
// put the service into a playable state.
func NewService(
	cat *catalog.Catalog,
	ledger *inventory.Ledger,
	pets *pet.Collection,
	buffs *buff.Registry,
	bus event.Bus,
	notifier notification.Notifier,
	clock clockwork.Clock,
) *Service {
	return &Service{
		catalog:  cat,
		ledger:   ledger,
		pets:     pets,
		buffs:    buffs,
		bus:      bus,
		notifier: notifier,
		clock:    clock,
		currency: StartingMoney,
	}
}

// AttachResolver wires the activity resolver once it exists.
func (s *Service) AttachResolver(resolver *outdoor.Resolver) {
	s.resolver = resolver
}

// NewGame resets everything to the fresh-game state: starter pet,
// starter backpack and the starting wallet.
func (s *Service) NewGame(ctx context.Context) error {
	s.mu.Lock()
	s.currency = StartingMoney
	s.gameTime = 0
	s.mu.Unlock()

	s.resolver.Clear()
	s.buffs.Clear()
	s.ledger.Restore(domain.Inventory{})
	s.pets.Clear()
	s.pets.InitStarter()

	for _, seed := range startingItems {
		if err := s.ledger.Add(seed.itemID, seed.quantity); err != nil {
			return fmt.Errorf("failed to seed starting item %d: %w", seed.itemID, err)
		}
	}

	if s.notifier != nil {
		s.notifier.Info(MsgNewGame)
	}
	logger.FromContext(ctx).Info(LogMsgNewGame)
	return nil
}

// Money returns the current wallet balance.
func (s *Service) Money() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currency
}

// Earn adds currency. Non-positive amounts are ignored.
func (s *Service) Earn(amount int) {
	if amount <= 0 {
		return
	}
	s.mu.Lock()
	s.currency += amount
	s.mu.Unlock()
}

// Spend deducts currency, rejecting overdrafts without partial
// mutation.
func (s *Service) Spend(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: spend amount must be positive", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currency < amount {
		return fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientFunds, s.currency, amount)
	}
	s.currency -= amount
	return nil
}

// GameTime returns elapsed in-game minutes.
func (s *Service) GameTime() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameTime
}

// TickMinute advances game time one minute and runs the per-minute
// world effects: stat decay and the happiness fragment roll. Invoked
// on the scheduler cadence.
func (s *Service) TickMinute(ctx context.Context) {
	s.mu.Lock()
	s.gameTime++
	s.mu.Unlock()

	s.resolver.DecayTick(ctx)
	s.resolver.RollHappinessDrop(ctx)
}

// BuyItem purchases a quantity of a shop item into the backpack.
// Fragments are earned, never sold.
func (s *Service) BuyItem(ctx context.Context, itemID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	item, err := s.catalog.Item(itemID)
	if err != nil {
		return err
	}
	if item.IsFragment() {
		return fmt.Errorf("%w: %s is not for sale", domain.ErrInvalidInput, item.Name)
	}

	cost := item.Price * quantity
	if err := s.Spend(cost); err != nil {
		return err
	}
	if err := s.ledger.Add(itemID, quantity); err != nil {
		// Undo the charge; the purchase never happened.
		s.Earn(cost)
		return err
	}

	if s.notifier != nil {
		s.notifier.Success(fmt.Sprintf(MsgItemBought, item.Name))
	}
	logger.FromContext(ctx).Info(LogMsgItemBought,
		"item_id", itemID, "quantity", quantity, "cost", cost)
	return nil
}

// UseItem activates one unit of a backpack item: food feeds the
// active pet, buff items arm their buff, the revive potion revives a
// dead pet. The unit is only consumed when the effect applies.
func (s *Service) UseItem(ctx context.Context, itemID int) (*domain.Item, error) {
	item, err := s.catalog.Item(itemID)
	if err != nil {
		return nil, err
	}
	if !s.ledger.Has(itemID, 1) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInsufficientQuantity, item.Name)
	}

	switch {
	case item.Buff != nil:
		err = s.useBuffItem(ctx, item)
	case item.Key == catalog.KeyRevivePotion:
		err = s.useReviveItem(ctx, item)
	case item.Category == domain.CategoryFood || item.Category == domain.CategoryMood:
		err = s.useFoodItem(ctx, item)
	default:
		return nil, fmt.Errorf("%w: %s cannot be used directly", domain.ErrInvalidInput, item.Name)
	}
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgItemUsed, "item_id", itemID, "key", item.Key)
	return item, nil
}

// useBuffItem arms the item's buff. The unit stays in the backpack
// when a buff of the same type is already waiting.
func (s *Service) useBuffItem(ctx context.Context, item *domain.Item) error {
	if err := s.buffs.Activate(*item.Buff); err != nil {
		return err
	}
	if err := s.ledger.Remove(item.ID, 1); err != nil {
		return fmt.Errorf("%w: buff item vanished after activation: %v", domain.ErrInvariant, err)
	}

	s.publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.BuffActivated,
		Payload: *item.Buff,
	})
	if s.notifier != nil {
		s.notifier.Success(fmt.Sprintf(MsgBuffActivated, item.Name))
	}
	return nil
}

func (s *Service) useReviveItem(_ context.Context, item *domain.Item) error {
	if err := s.pets.Revive(); err != nil {
		return err
	}
	if err := s.ledger.Remove(item.ID, 1); err != nil {
		return fmt.Errorf("%w: revive potion vanished after revival: %v", domain.ErrInvariant, err)
	}
	if s.notifier != nil {
		s.notifier.Success(MsgPetRevived)
	}
	return nil
}

// useFoodItem removes the unit then feeds, with CanFeed checked first
// so a refused feeding never strands the item.
func (s *Service) useFoodItem(_ context.Context, item *domain.Item) error {
	if err := s.pets.CanFeed(); err != nil {
		return err
	}
	if err := s.ledger.Remove(item.ID, 1); err != nil {
		return err
	}
	if _, err := s.pets.Feed(item); err != nil {
		return fmt.Errorf("%w: feeding failed after validation: %v", domain.ErrInvariant, err)
	}
	if s.notifier != nil {
		s.notifier.Success(fmt.Sprintf(MsgItemUsed, item.Name))
	}
	return nil
}

// Snapshot assembles the full persisted state. The active pet is
// duplicated into the game section for format stability; the
// collection entries remain authoritative.
func (s *Service) Snapshot() domain.SaveData {
	s.mu.Lock()
	currency := s.currency
	gameTime := s.gameTime
	s.mu.Unlock()

	data := domain.SaveData{
		Game: domain.SaveGame{
			Currency:    currency,
			GameTime:    gameTime,
			ActiveBuffs: s.buffs.Snapshot(),
		},
		Backpack: domain.SaveBackpack{
			Items: s.ledger.Snapshot().Slots,
		},
		Collection: s.pets.Snapshot(),
		Outdoor:    s.resolver.Snapshot(),
	}
	if active, err := s.pets.Active(); err == nil {
		data.Game.Pet = active
	}
	return data
}

// Restore replaces the running state with a loaded snapshot and
// applies offline decay for the time since it was written.
func (s *Service) Restore(ctx context.Context, data *domain.SaveData) error {
	s.mu.Lock()
	s.currency = data.Game.Currency
	s.gameTime = data.Game.GameTime
	s.mu.Unlock()

	s.pets.Restore(data.Collection)
	s.ledger.Restore(domain.Inventory{Slots: data.Backpack.Items})
	s.buffs.Restore(data.Game.ActiveBuffs)
	s.resolver.Restore(ctx, data.Outdoor)

	if data.Meta.UpdatedAt > 0 {
		elapsed := s.clock.Now().Unix() - data.Meta.UpdatedAt
		if minutes := int(elapsed / 60); minutes > 0 {
			s.resolver.ApplyOfflineDecay(ctx, minutes)
		}
	}

	logger.FromContext(ctx).Info(LogMsgGameRestored,
		"currency", data.Game.Currency, "game_time", data.Game.GameTime)
	return nil
}

func (s *Service) publish(ctx context.Context, ev event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish game event", "error", err)
	}
}
