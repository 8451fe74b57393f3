package pet

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/aldwake/PetGrotto_Go/internal/catalog"
	"github.com/aldwake/PetGrotto_Go/internal/domain"
	"github.com/aldwake/PetGrotto_Go/internal/utils"
)

// Collection is the single source of truth for owned pets. The active
// pet's entry carries its live stats directly; there is no separate
// status record to sync. At most one instance exists per pet type.
type Collection struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	clock    clockwork.Clock
	pets     []*domain.Pet
	activeID string

	statusResetTimer clockwork.Timer
}

// FeedResult reports the applied stat gains of a feeding.
type FeedResult struct {
	HungerGain int
	MoodGain   int
}

// LevelResult reports an experience grant.
type LevelResult struct {
	Experience int
	Level      int
	LeveledUp  bool
}

// NewCollection creates an empty collection.
func NewCollection(cat *catalog.Catalog, clock clockwork.Clock) *Collection {
	return &Collection{
		catalog: cat,
		clock:   clock,
	}
}

// InitStarter creates the starter pet unless its type is already
// owned, and makes it active.
func (c *Collection) InitStarter() *domain.Pet {
	starter := c.catalog.StarterPet()

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing := c.findByType(starter.Key); existing != nil {
		out := existing.Clone()
		return &out
	}

	p := newInstance(starter)
	c.pets = append(c.pets, p)
	c.activeID = p.InstanceID
	out := p.Clone()
	return &out
}

// Summon adds a new pet of the given type. When the type is already
// owned this is a no-op returning the existing instance; duplicate pet
// types are never created.
func (c *Collection) Summon(petType string) (*domain.Pet, bool, error) {
	petDef, err := c.catalog.PetType(petType)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing := c.findByType(petType); existing != nil {
		out := existing.Clone()
		return &out, false, nil
	}

	p := newInstance(petDef)
	c.pets = append(c.pets, p)
	if c.activeID == "" {
		c.activeID = p.InstanceID
	}
	out := p.Clone()
	return &out, true, nil
}

func newInstance(def *domain.PetType) *domain.Pet {
	return &domain.Pet{
		InstanceID: uuid.NewString(),
		PetType:    def.Key,
		Name:       def.Name,
		Hunger:     def.BaseStats.Hunger,
		Mood:       def.BaseStats.Mood,
		Health:     def.BaseStats.Health,
		MaxHunger:  def.BaseStats.MaxHunger,
		MaxMood:    def.BaseStats.MaxMood,
		MaxHealth:  def.BaseStats.MaxHealth,
		Level:      1,
		Experience: 0,
		Status:     domain.StatusIdle,
		IsAtHome:   true,
		IsDead:     false,
	}
}

// SetActive switches the active pet. While the active pet is outdoors
// the switch is rejected; session outcomes apply to the active pet, so
// swapping it mid-session would redirect them onto a pet that never
// left home.
func (c *Collection) SetActive(instanceID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if current := c.active(); current != nil {
		if current.InstanceID == instanceID {
			return nil
		}
		if !current.IsAtHome {
			return fmt.Errorf("%w: recall %s first", domain.ErrPetOutdoors, current.Name)
		}
	}

	for _, p := range c.pets {
		if p.InstanceID == instanceID {
			c.activeID = instanceID
			return nil
		}
	}
	return fmt.Errorf("%w: instance %s", domain.ErrPetNotFound, instanceID)
}

// Active returns a copy of the active pet.
func (c *Collection) Active() (*domain.Pet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.active()
	if p == nil {
		return nil, domain.ErrPetNotFound
	}
	out := p.Clone()
	return &out, nil
}

// Pets returns copies of all owned pets in acquisition order.
func (c *Collection) Pets() []domain.Pet {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Pet, 0, len(c.pets))
	for _, p := range c.pets {
		out = append(out, p.Clone())
	}
	return out
}

// OwnedTypes returns the owned pet type keys.
func (c *Collection) OwnedTypes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.pets))
	for _, p := range c.pets {
		out = append(out, p.PetType)
	}
	return out
}

// IsOwned reports whether a pet of the given type is owned.
func (c *Collection) IsOwned(petType string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.findByType(petType) != nil
}

// Feed applies a food item to the active pet. The caller is
// responsible for removing the item from the inventory first; CanFeed
// exists so that check-then-remove-then-feed cannot strand an item.
func (c *Collection) Feed(item *domain.Item) (FeedResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.active()
	if p == nil {
		return FeedResult{}, domain.ErrPetNotFound
	}
	if err := feedable(p); err != nil {
		return FeedResult{}, err
	}

	oldHunger := p.Hunger
	oldMood := p.Mood
	p.Hunger = utils.ClampInt(p.Hunger+item.FoodValue, 0, p.MaxHunger)

	moodGain := item.MoodValue
	if moodGain == 0 {
		moodGain = DefaultFeedMoodGain
	}
	p.Mood = utils.ClampInt(p.Mood+moodGain, 0, p.MaxMood)

	p.Status = domain.StatusEating
	c.scheduleStatusReset(p.InstanceID, domain.StatusEating)

	return FeedResult{
		HungerGain: p.Hunger - oldHunger,
		MoodGain:   p.Mood - oldMood,
	}, nil
}

// CanFeed reports whether the active pet can currently be fed.
func (c *Collection) CanFeed() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.active()
	if p == nil {
		return domain.ErrPetNotFound
	}
	return feedable(p)
}

func feedable(p *domain.Pet) error {
	if p.IsDead {
		return domain.ErrPetIsDead
	}
	if !p.IsAtHome {
		return domain.ErrPetNotAtHome
	}
	if p.Hunger >= p.MaxHunger {
		return fmt.Errorf("%w: pet is already full", domain.ErrInvalidInput)
	}
	return nil
}

// scheduleStatusReset reverts a transient status back to idle after
// its display duration, unless something else changed it meanwhile.
// The timer is stored on the collection so Clear and Restore can
// cancel it with the rest of the state. Caller holds the lock.
func (c *Collection) scheduleStatusReset(instanceID string, from domain.PetStatus) {
	if c.statusResetTimer != nil {
		c.statusResetTimer.Stop()
	}
	c.statusResetTimer = c.clock.AfterFunc(EatingStatusDuration, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.statusResetTimer = nil
		for _, p := range c.pets {
			if p.InstanceID == instanceID && p.Status == from {
				p.Status = domain.StatusIdle
				return
			}
		}
	})
}

// stopStatusResetLocked cancels a pending status reset. Caller holds
// the lock.
func (c *Collection) stopStatusResetLocked() {
	if c.statusResetTimer != nil {
		c.statusResetTimer.Stop()
		c.statusResetTimer = nil
	}
}

// AdjustStats applies clamped deltas to the active pet's stats.
func (c *Collection) AdjustStats(hungerDelta, moodDelta, healthDelta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.active()
	if p == nil {
		return domain.ErrPetNotFound
	}
	p.Hunger = utils.ClampInt(p.Hunger+hungerDelta, 0, p.MaxHunger)
	p.Mood = utils.ClampInt(p.Mood+moodDelta, 0, p.MaxMood)
	p.Health = utils.ClampInt(p.Health+healthDelta, 0, p.MaxHealth)
	return nil
}

// SetStatus sets the active pet's status.
func (c *Collection) SetStatus(status domain.PetStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.active()
	if p == nil {
		return domain.ErrPetNotFound
	}
	p.Status = status
	return nil
}

// SetAtHome moves the active pet between home and outdoors.
func (c *Collection) SetAtHome(atHome bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.active()
	if p == nil {
		return domain.ErrPetNotFound
	}
	p.IsAtHome = atHome
	if atHome && !p.IsDead {
		p.Status = domain.StatusIdle
	}
	return nil
}

// MarkDead kills the active pet: health zeroed, tired status per the
// original presentation.
func (c *Collection) MarkDead() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.active()
	if p == nil {
		return domain.ErrPetNotFound
	}
	p.IsDead = true
	p.Health = 0
	p.Status = domain.StatusTired
	p.IsAtHome = true
	return nil
}

// Revive brings the active pet back with partial stats.
func (c *Collection) Revive() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.active()
	if p == nil {
		return domain.ErrPetNotFound
	}
	if !p.IsDead {
		return fmt.Errorf("%w: pet is not dead", domain.ErrInvalidInput)
	}
	p.IsDead = false
	p.Health = p.MaxHealth / ReviveHealthDivisor
	p.Hunger = utils.ClampInt(ReviveHungerValue, 0, p.MaxHunger)
	p.Mood = utils.ClampInt(ReviveMoodValue, 0, p.MaxMood)
	p.Status = domain.StatusIdle
	return nil
}

// Heal restores health on the active pet, capped at its max.
func (c *Collection) Heal(amount int) error {
	if amount < 0 {
		return fmt.Errorf("%w: heal amount must not be negative", domain.ErrInvalidInput)
	}
	return c.AdjustStats(0, 0, amount)
}

// AddExperience grants experience to the active pet and recomputes its
// level (one level per XPPerLevel).
func (c *Collection) AddExperience(amount int) (LevelResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.active()
	if p == nil {
		return LevelResult{}, domain.ErrPetNotFound
	}

	p.Experience += amount
	newLevel := p.Experience/XPPerLevel + 1
	leveledUp := newLevel > p.Level
	if leveledUp {
		p.Level = newLevel
	}
	return LevelResult{Experience: p.Experience, Level: p.Level, LeveledUp: leveledUp}, nil
}

// PassiveValue returns the active pet's passive-skill value for the
// given effect, zero when the pet has no matching skill.
func (c *Collection) PassiveValue(effect domain.PassiveEffect) float64 {
	c.mu.Lock()
	p := c.active()
	if p == nil {
		c.mu.Unlock()
		return 0
	}
	petType := p.PetType
	c.mu.Unlock()

	def, err := c.catalog.PetType(petType)
	if err != nil || def.PassiveSkill == nil || def.PassiveSkill.Effect != effect {
		return 0
	}
	return def.PassiveSkill.Value
}

// ApplyPassive applies the active pet's passive skill to a base value.
// Time reductions multiply by (1-v), reward boosts by (1+v), death
// chance reductions subtract v floored at zero.
func (c *Collection) ApplyPassive(effect domain.PassiveEffect, base float64) float64 {
	v := c.PassiveValue(effect)
	if v == 0 {
		return base
	}
	switch effect {
	case domain.PassiveExploreTimeReduce:
		return base * (1 - v)
	case domain.PassiveHuntRewardBoost:
		return base * (1 + v)
	case domain.PassiveDeathChanceReduce:
		if base-v < 0 {
			return 0
		}
		return base - v
	default:
		return base
	}
}

// Decay applies minutes worth of stat decay to the active pet and
// updates the tired/sad status. One batch of k minutes equals k
// single-minute ticks.
func (c *Collection) Decay(minutes int) error {
	if minutes <= 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.active()
	if p == nil {
		return domain.ErrPetNotFound
	}
	if p.IsDead {
		return nil
	}

	hungerRate := HungerDecayAtHome
	if !p.IsAtHome {
		hungerRate = HungerDecayOutdoor
	}
	p.Hunger = utils.ClampInt(p.Hunger-hungerRate*minutes, 0, p.MaxHunger)
	p.Mood = utils.ClampInt(p.Mood-MoodDecay*minutes, 0, p.MaxMood)

	// Tired takes priority over sad.
	if p.Hunger < TiredThreshold {
		p.Status = domain.StatusTired
	} else if p.Mood < SadThreshold {
		p.Status = domain.StatusSad
	}
	return nil
}

// Snapshot returns the collection for persistence. The active pet's
// live stats are included in its collection entry.
func (c *Collection) Snapshot() domain.SaveCollection {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := domain.SaveCollection{
		OwnedPets:   make([]domain.Pet, 0, len(c.pets)),
		ActivePetID: c.activeID,
	}
	for _, p := range c.pets {
		out.OwnedPets = append(out.OwnedPets, p.Clone())
	}
	return out
}

// Restore replaces the collection contents with a persisted snapshot.
// A pending status reset belongs to the replaced state and is
// cancelled.
func (c *Collection) Restore(snap domain.SaveCollection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopStatusResetLocked()
	c.pets = c.pets[:0]
	for i := range snap.OwnedPets {
		p := snap.OwnedPets[i].Clone()
		c.pets = append(c.pets, &p)
	}
	c.activeID = snap.ActivePetID
	if c.active() == nil && len(c.pets) > 0 {
		c.activeID = c.pets[0].InstanceID
	}
}

// Clear removes all pets and cancels any pending status reset, for a
// full game reset.
func (c *Collection) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopStatusResetLocked()
	c.pets = nil
	c.activeID = ""
}

func (c *Collection) active() *domain.Pet {
	for _, p := range c.pets {
		if p.InstanceID == c.activeID {
			return p
		}
	}
	return nil
}

func (c *Collection) findByType(petType string) *domain.Pet {
	for _, p := range c.pets {
		if p.PetType == petType {
			return p
		}
	}
	return nil
}
