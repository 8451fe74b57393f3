package outdoor

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/aldwake/PetGrotto_Go/internal/buff"
	"github.com/aldwake/PetGrotto_Go/internal/catalog"
	"github.com/aldwake/PetGrotto_Go/internal/domain"
	"github.com/aldwake/PetGrotto_Go/internal/event"
	"github.com/aldwake/PetGrotto_Go/internal/inventory"
	"github.com/aldwake/PetGrotto_Go/internal/logger"
	"github.com/aldwake/PetGrotto_Go/internal/notification"
	"github.com/aldwake/PetGrotto_Go/internal/pet"
	"github.com/aldwake/PetGrotto_Go/internal/utils"
)

// Area names an outdoor zone a pet can be sent to.
type Area string

const (
	AreaPlay Area = "play"
	AreaHunt Area = "hunt"
)

// Wallet receives currency awarded by hunt victories.
type Wallet interface {
	Earn(amount int)
}

// session holds the transient state of one outdoor stay. The pet
// snapshot is what was captured at send time; the live stats stay in
// the pet collection.
type session struct {
	snapshot  domain.Pet
	startedAt int64
}

// State is a read-only view of both zones for API responses.
type State struct {
	Playing       bool   `json:"playing"`
	PlayPetType   string `json:"play_pet_type,omitempty"`
	PlayStartedAt int64  `json:"play_started_at,omitempty"`
	Hunting       bool   `json:"hunting"`
	HuntPetType   string `json:"hunt_pet_type,omitempty"`
	HuntStartedAt int64  `json:"hunt_started_at,omitempty"`
	HuntTicksLeft int    `json:"hunt_ticks_left,omitempty"`
}

// Resolver orchestrates outdoor activities for the active pet: timed
// play sessions, hunts with periodic combat attrition and a
// probabilistic outcome, fragment drop rolls and recall. Every pending
// timer is stored on the resolver so a recall can cancel the whole
// session atomically; no tick or completion fires after a recall.
type Resolver struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	ledger   *inventory.Ledger
	pets     *pet.Collection
	buffs    *buff.Registry
	wallet   Wallet
	bus      event.Bus
	notifier notification.Notifier
	clock    clockwork.Clock
	rng      *rand.Rand

	play      *session
	playTimer clockwork.Timer

	hunt           *session
	huntTicksLeft  int
	huntHungerCost int
	huntTickTimer  clockwork.Timer
	huntTimer      clockwork.Timer
}

// NewResolver creates an activity resolver.
func NewResolver(
	cat *catalog.Catalog,
	ledger *inventory.Ledger,
	pets *pet.Collection,
	buffs *buff.Registry,
	wallet Wallet,
	bus event.Bus,
	notifier notification.Notifier,
	clock clockwork.Clock,
	rng *rand.Rand,
) *Resolver {
	return &Resolver{
		catalog:  cat,
		ledger:   ledger,
		pets:     pets,
		buffs:    buffs,
		wallet:   wallet,
		bus:      bus,
		notifier: notifier,
		clock:    clock,
		rng:      rng,
	}
}

// SendToPlay sends the active pet to the forest play zone. The session
// completes on its own after the effective duration, which the bird's
// explore time reduction shortens.
func (r *Resolver) SendToPlay(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	active, err := r.sendable()
	if err != nil {
		return err
	}

	effective := time.Duration(r.pets.ApplyPassive(domain.PassiveExploreTimeReduce, float64(PlayBaseDuration)))

	r.play = &session{snapshot: *active, startedAt: r.clock.Now().Unix()}
	if err := r.pets.SetAtHome(false); err != nil {
		r.play = nil
		return err
	}
	if err := r.pets.SetStatus(domain.StatusPlaying); err != nil {
		r.play = nil
		return err
	}

	r.playTimer = r.clock.AfterFunc(effective, func() {
		r.finishPlay(ctx)
	})

	logger.FromContext(ctx).Info(LogMsgPlayStarted,
		"pet_type", active.PetType,
		"effective_duration", effective)
	return nil
}

// finishPlay applies the play rewards and returns the pet home.
func (r *Resolver) finishPlay(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.play == nil {
		return
	}
	petType := r.play.snapshot.PetType
	r.play = nil
	r.playTimer = nil

	if err := r.pets.AdjustStats(0, PlayMoodGain, 0); err != nil {
		logger.FromContext(ctx).Warn("Failed to apply play mood gain", "error", err)
	}
	if _, err := r.pets.AddExperience(PlayExperienceGain); err != nil {
		logger.FromContext(ctx).Warn("Failed to apply play experience", "error", err)
	}
	r.rollDrop(ctx, catalog.DropSourceForest, petType)

	if err := r.pets.SetAtHome(true); err != nil {
		logger.FromContext(ctx).Warn("Failed to return pet home", "error", err)
	}

	r.publish(ctx, event.NewPlayCompletedEvent(petType, PlayMoodGain, PlayExperienceGain))
	r.notifySuccess(fmt.Sprintf(MsgPlayFinished, PlayMoodGain, PlayExperienceGain))
	logger.FromContext(ctx).Info(LogMsgPlayCompleted, "pet_type", petType)
}

// SendToHunt sends the active pet to the hunting grounds. Attrition
// ticks run on a fixed interval while a single completion timer
// resolves the outcome; both are cancelled together by a recall. A
// held hunger cost reduction buff is consumed up front and discounts
// every tick of this hunt.
func (r *Resolver) SendToHunt(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	active, err := r.sendable()
	if err != nil {
		return err
	}

	hungerCost := HuntTickHungerCost
	if b, ok := r.buffs.ConsumeIfActive(domain.BuffHungerCostReduce); ok {
		hungerCost = int(float64(HuntTickHungerCost) * (1 - b.Value))
		if hungerCost < 0 {
			hungerCost = 0
		}
	}

	r.hunt = &session{snapshot: *active, startedAt: r.clock.Now().Unix()}
	r.huntTicksLeft = HuntTickCount
	r.huntHungerCost = hungerCost
	if err := r.pets.SetAtHome(false); err != nil {
		r.hunt = nil
		return err
	}
	if err := r.pets.SetStatus(domain.StatusHunting); err != nil {
		r.hunt = nil
		return err
	}

	r.huntTickTimer = r.clock.AfterFunc(HuntTickInterval, func() {
		r.huntTick(ctx)
	})
	r.huntTimer = r.clock.AfterFunc(HuntDuration, func() {
		r.finishHunt(ctx)
	})

	logger.FromContext(ctx).Info(LogMsgHuntStarted,
		"pet_type", active.PetType,
		"hunger_cost_per_tick", hungerCost)
	return nil
}

// huntTick applies one round of combat attrition and reschedules
// itself while ticks remain.
func (r *Resolver) huntTick(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hunt == nil {
		return
	}

	if err := r.pets.AdjustStats(-r.huntHungerCost, 0, -HuntTickHealthCost); err != nil {
		logger.FromContext(ctx).Warn("Failed to apply hunt attrition", "error", err)
	}

	r.huntTicksLeft--
	if r.huntTicksLeft > 0 {
		r.huntTickTimer = r.clock.AfterFunc(HuntTickInterval, func() {
			r.huntTick(ctx)
		})
	} else {
		r.huntTickTimer = nil
	}
}

// finishHunt resolves the hunt outcome: a death roll against the
// buff- and passive-adjusted chance, then either death handling or the
// victory rewards, then a hunt drop roll either way.
func (r *Resolver) finishHunt(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hunt == nil {
		return
	}
	snapshot := r.hunt.snapshot
	r.clearHuntLocked()

	deathChance := r.pets.ApplyPassive(domain.PassiveDeathChanceReduce, BaseDeathChance)
	if b, ok := r.buffs.ConsumeIfActive(domain.BuffDeathChanceReduce); ok {
		deathChance -= b.Value
		if deathChance < 0 {
			deathChance = 0
		}
	}

	died := r.rng.Float64() < deathChance

	var reward, buffBonus, experience int
	if died {
		r.resolveDeath(ctx, snapshot, deathChance)
	} else {
		reward, buffBonus, experience = r.resolveVictory(ctx)
	}

	r.rollDrop(ctx, catalog.DropSourceHunt, snapshot.PetType)

	if !died {
		if err := r.pets.SetAtHome(true); err != nil {
			logger.FromContext(ctx).Warn("Failed to return pet home", "error", err)
		}
	}

	r.publish(ctx, event.NewHuntResolvedEvent(snapshot.PetType, died, reward, buffBonus, experience, deathChance))
	logger.FromContext(ctx).Info(LogMsgHuntResolved,
		"pet_type", snapshot.PetType,
		"died", died,
		"death_chance", deathChance,
		"reward", reward,
		"buff_bonus", buffBonus)
}

// resolveDeath marks the active pet dead. A held money protection buff
// is consumed so downstream currency loss is skipped. Caller holds the
// lock.
func (r *Resolver) resolveDeath(ctx context.Context, snapshot domain.Pet, deathChance float64) {
	if err := r.pets.MarkDead(); err != nil {
		logger.FromContext(ctx).Warn("Failed to mark pet dead", "error", err)
	}
	_, moneyProtected := r.buffs.ConsumeIfActive(domain.BuffDeathMoneyProtect)

	r.publish(ctx, event.NewPetDiedEvent(snapshot.InstanceID, snapshot.PetType, moneyProtected))
	r.notifyError(MsgHuntDeath)
}

// resolveVictory awards currency and experience, with the fox's reward
// boost applied multiplicatively, a reward buff's bonus tracked
// separately on top, an experience multiplier buff and a post-combat
// heal when health fell below the heal buff's trigger. Caller holds
// the lock.
func (r *Resolver) resolveVictory(ctx context.Context) (reward, buffBonus, experience int) {
	base := utils.RandomIntIn(r.rng, HuntRewardMin, HuntRewardMax)
	reward = int(r.pets.ApplyPassive(domain.PassiveHuntRewardBoost, float64(base)))

	if b, ok := r.buffs.ConsumeIfActive(domain.BuffHuntRewardBoost); ok {
		buffBonus = int(float64(reward) * b.Value)
	}
	if r.wallet != nil {
		r.wallet.Earn(reward + buffBonus)
	}

	experience = HuntExperienceGain
	if b, ok := r.buffs.ConsumeIfActive(domain.BuffExpBoost); ok {
		experience = int(float64(experience) * b.Value)
	}
	if _, err := r.pets.AddExperience(experience); err != nil {
		logger.FromContext(ctx).Warn("Failed to apply hunt experience", "error", err)
	}

	if active, err := r.pets.Active(); err == nil {
		if b, ok := r.buffs.Peek(domain.BuffAutoHeal); ok && active.Health < b.Threshold {
			if consumed, ok := r.buffs.ConsumeIfActive(domain.BuffAutoHeal); ok {
				if err := r.pets.Heal(int(consumed.Value)); err != nil {
					logger.FromContext(ctx).Warn("Failed to apply auto heal", "error", err)
				}
			}
		}
	}

	r.notifySuccess(fmt.Sprintf(MsgHuntVictory, reward+buffBonus))
	return reward, buffBonus, experience
}

// Recall pulls the pet back from an outdoor zone. All pending timers
// of that session are stopped before the state is cleared, so a
// cancelled session applies no completion effects.
func (r *Resolver) Recall(ctx context.Context, area Area) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch area {
	case AreaPlay:
		if r.play == nil {
			return fmt.Errorf("%w: nothing is playing", domain.ErrNoActiveSession)
		}
		if r.playTimer != nil {
			r.playTimer.Stop()
			r.playTimer = nil
		}
		r.play = nil
	case AreaHunt:
		if r.hunt == nil {
			return fmt.Errorf("%w: nothing is hunting", domain.ErrNoActiveSession)
		}
		r.clearHuntLocked()
	default:
		return fmt.Errorf("%w: unknown area %q", domain.ErrInvalidInput, area)
	}

	if err := r.pets.SetAtHome(true); err != nil {
		return err
	}

	r.notifyInfo(MsgPetRecalled)
	logger.FromContext(ctx).Info(LogMsgSessionRecall, "area", area)
	return nil
}

// RollHappinessDrop grants a guaranteed own-type fragment roll when
// the active pet's mood is above the happiness threshold. Invoked on
// the scheduler cadence.
func (r *Resolver) RollHappinessDrop(ctx context.Context) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	active, err := r.pets.Active()
	if err != nil || active.IsDead || active.Mood <= pet.HappyThreshold {
		return "", false
	}
	return r.rollDrop(ctx, catalog.DropSourceHappiness, active.PetType)
}

// DecayTick applies one minute of stat decay to the active pet.
// Invoked on the scheduler cadence, independent of sessions.
func (r *Resolver) DecayTick(ctx context.Context) {
	if err := r.pets.Decay(1); err != nil {
		logger.FromContext(ctx).Warn("Failed to apply stat decay", "error", err)
	}
}

// ApplyOfflineDecay batch-applies the per-minute decay rates for the
// elapsed minutes. The result equals running DecayTick once per
// elapsed minute.
func (r *Resolver) ApplyOfflineDecay(ctx context.Context, minutes int) {
	if minutes <= 0 {
		return
	}
	if err := r.pets.Decay(minutes); err != nil {
		logger.FromContext(ctx).Warn("Failed to apply offline decay", "error", err)
	}
}

// State returns a view of both zones.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := State{}
	if r.play != nil {
		out.Playing = true
		out.PlayPetType = r.play.snapshot.PetType
		out.PlayStartedAt = r.play.startedAt
	}
	if r.hunt != nil {
		out.Hunting = true
		out.HuntPetType = r.hunt.snapshot.PetType
		out.HuntStartedAt = r.hunt.startedAt
		out.HuntTicksLeft = r.huntTicksLeft
	}
	return out
}

// Snapshot captures in-progress sessions for persistence.
func (r *Resolver) Snapshot() domain.SaveOutdoor {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := domain.SaveOutdoor{}
	if r.play != nil {
		snap := r.play.snapshot
		out.Play = domain.OutdoorSessionSnapshot{Pet: &snap, StartedAt: r.play.startedAt}
	}
	if r.hunt != nil {
		snap := r.hunt.snapshot
		out.Hunt = domain.OutdoorSessionSnapshot{Pet: &snap, StartedAt: r.hunt.startedAt}
	}
	return out
}

// Restore handles persisted session state from a reload. Timers do not
// survive a restart, so a session that was in flight at save time is
// cancelled: the pet comes home with no rewards and no outcome.
func (r *Resolver) Restore(ctx context.Context, snap domain.SaveOutdoor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearAllLocked()

	if snap.Play.Pet == nil && snap.Hunt.Pet == nil {
		return
	}
	if err := r.pets.SetAtHome(true); err != nil {
		logger.FromContext(ctx).Warn("Failed to return pet home on restore", "error", err)
	}
	logger.FromContext(ctx).Info(LogMsgSessionReset)
}

// Clear cancels all sessions without applying effects, for a full
// game reset.
func (r *Resolver) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearAllLocked()
}

func (r *Resolver) clearAllLocked() {
	if r.playTimer != nil {
		r.playTimer.Stop()
		r.playTimer = nil
	}
	r.play = nil
	r.clearHuntLocked()
}

// clearHuntLocked stops the tick and completion timers together so no
// callback fires on a cleared session. Caller holds the lock.
func (r *Resolver) clearHuntLocked() {
	if r.huntTickTimer != nil {
		r.huntTickTimer.Stop()
		r.huntTickTimer = nil
	}
	if r.huntTimer != nil {
		r.huntTimer.Stop()
		r.huntTimer = nil
	}
	r.hunt = nil
	r.huntTicksLeft = 0
	r.huntHungerCost = 0
}

// sendable checks that the active pet can go outdoors. Caller holds
// the lock.
func (r *Resolver) sendable() (*domain.Pet, error) {
	active, err := r.pets.Active()
	if err != nil {
		return nil, err
	}
	if active.IsDead {
		return nil, domain.ErrPetIsDead
	}
	if r.play != nil || r.hunt != nil || !active.IsAtHome {
		return nil, domain.ErrSessionActive
	}
	return active, nil
}

// rollDrop rolls a fragment drop for the given source and adds the
// fragment to the ledger on a hit. Caller holds the lock.
func (r *Resolver) rollDrop(ctx context.Context, source, petType string) (string, bool) {
	table, ok := r.catalog.DropTable(source)
	if !ok {
		return "", false
	}
	if r.rng.Float64() >= table.Chance {
		return "", false
	}

	fragmentType := petType
	if !table.OwnTypeOnly {
		fragmentType = weightedFragmentType(r.rng, table.Weights)
	}

	fragItem, err := r.catalog.FragmentItem(fragmentType)
	if err != nil {
		logger.FromContext(ctx).Warn("Dropped fragment type has no catalog item",
			"fragment_type", fragmentType, "error", err)
		return "", false
	}
	if err := r.ledger.Add(fragItem.ID, 1); err != nil {
		logger.FromContext(ctx).Warn("Failed to add dropped fragment", "error", err)
		return "", false
	}

	r.publish(ctx, event.NewFragmentDroppedEvent(fragmentType, source))
	r.notifyInfo(fmt.Sprintf(MsgFragmentFound, fragmentType))
	return fragmentType, true
}

// weightedFragmentType draws a fragment type by weighted selection:
// one uniform draw over the weight total, then sequential subtraction
// until the remainder is spent.
func weightedFragmentType(rng *rand.Rand, weights map[string]int) string {
	types := make([]string, 0, len(weights))
	total := 0
	for t, w := range weights {
		types = append(types, t)
		total += w
	}
	if total <= 0 {
		return FallbackFragmentType
	}
	sort.Strings(types)

	remainder := rng.Intn(total)
	for _, t := range types {
		remainder -= weights[t]
		if remainder < 0 {
			return t
		}
	}
	return FallbackFragmentType
}

func (r *Resolver) publish(ctx context.Context, ev event.Event) {
	if r.bus == nil {
		return
	}
	if err := r.bus.Publish(ctx, ev); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish outdoor event", "error", err)
	}
}

func (r *Resolver) notifySuccess(message string) {
	if r.notifier != nil {
		r.notifier.Success(message)
	}
}

func (r *Resolver) notifyInfo(message string) {
	if r.notifier != nil {
		r.notifier.Info(message)
	}
}

func (r *Resolver) notifyError(message string) {
	if r.notifier != nil {
		r.notifier.Error(message)
	}
}
