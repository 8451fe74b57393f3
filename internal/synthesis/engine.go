package synthesis

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/aldwake/PetGrotto_Go/internal/catalog"
	"github.com/aldwake/PetGrotto_Go/internal/domain"
	"github.com/aldwake/PetGrotto_Go/internal/event"
	"github.com/aldwake/PetGrotto_Go/internal/inventory"
	"github.com/aldwake/PetGrotto_Go/internal/logger"
	"github.com/aldwake/PetGrotto_Go/internal/notification"
	"github.com/aldwake/PetGrotto_Go/internal/pet"
)

// Phase is the synthesis animation phase
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePreparing Phase = "preparing"
	PhaseFusing    Phase = "fusing"
	PhaseBurst     Phase = "burst"
	PhaseResult    Phase = "result"
)

// Result is the outcome of a synthesis attempt
type Result struct {
	Success      bool    `json:"success"`
	RecipeID     int     `json:"recipe_id"`
	PetType      string  `json:"pet_type,omitempty"`
	PetName      string  `json:"pet_name,omitempty"`
	SuccessRate  float64 `json:"success_rate"`
	FailCount    int     `json:"fail_count"`
	PityActive   bool    `json:"pity_active"`
	PityProgress string  `json:"pity_progress,omitempty"`
	Message      string  `json:"message"`
}

// Slots describes the staged materials of the current session
type Slots struct {
	FragmentType  string        `json:"fragment_type,omitempty"`
	FragmentCount int           `json:"fragment_count"`
	PotionStaged  bool          `json:"potion_staged"`
	PotionRarity  domain.Rarity `json:"potion_rarity,omitempty"`
}

// Engine runs synthesis sessions: recipe selection, material staging,
// the timed phase sequence and outcome resolution. All randomness
// comes from the injected rng so outcomes are reproducible under a
// fixed seed; all timing goes through the injected clock. The phase
// timer is stored on the engine so it is a cancellable scheduled
// operation, not a fire-and-forget callback.
type Engine struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	ledger   *inventory.Ledger
	pets     *pet.Collection
	bus      event.Bus
	notifier notification.Notifier
	clock    clockwork.Clock
	rng      *rand.Rand

	selectedRecipeID int
	slots            Slots
	isSynthesizing   bool
	phase            Phase
	result           *Result
	failCounts       map[int]int
	phaseTimer       clockwork.Timer
}

// NewEngine creates a synthesis engine.
func NewEngine(
	cat *catalog.Catalog,
	ledger *inventory.Ledger,
	pets *pet.Collection,
	bus event.Bus,
	notifier notification.Notifier,
	clock clockwork.Clock,
	rng *rand.Rand,
) *Engine {
	return &Engine{
		catalog:    cat,
		ledger:     ledger,
		pets:       pets,
		bus:        bus,
		notifier:   notifier,
		clock:      clock,
		rng:        rng,
		phase:      PhaseIdle,
		failCounts: make(map[int]int),
	}
}

// IsUnlocked reports whether a recipe's unlock requirement is met.
func (e *Engine) IsUnlocked(recipeID int) (bool, error) {
	recipe, err := e.catalog.Recipe(recipeID)
	if err != nil {
		return false, err
	}
	return e.unlocked(recipe), nil
}

func (e *Engine) unlocked(recipe *domain.Recipe) bool {
	if recipe.Unlock == nil {
		return true
	}
	switch recipe.Unlock.Type {
	case domain.UnlockPetOwned:
		return e.pets.IsOwned(recipe.Unlock.PetType)
	default:
		return true
	}
}

// SelectRecipe picks the working recipe and resets session state.
func (e *Engine) SelectRecipe(recipeID int) error {
	recipe, err := e.catalog.Recipe(recipeID)
	if err != nil {
		return err
	}
	if !e.unlocked(recipe) {
		return fmt.Errorf("%w: recipe %d", domain.ErrRecipeLocked, recipeID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isSynthesizing {
		return domain.ErrSynthesisInProgress
	}

	e.selectedRecipeID = recipeID
	e.slots = Slots{}
	e.result = nil
	e.phase = PhaseIdle
	return nil
}

// SelectedRecipe returns the currently selected recipe.
func (e *Engine) SelectedRecipe() (*domain.Recipe, error) {
	e.mu.Lock()
	id := e.selectedRecipeID
	e.mu.Unlock()

	if id == 0 {
		return nil, domain.ErrNoRecipeSelected
	}
	return e.catalog.Recipe(id)
}

// StageFragments stages fragments of the given type into the session,
// capped at what the recipe still needs and what the ledger holds.
// Returns how many were actually staged.
func (e *Engine) StageFragments(fragmentType string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	recipe, err := e.SelectedRecipe()
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isSynthesizing {
		return 0, domain.ErrSynthesisInProgress
	}
	if fragmentType != recipe.FragmentType {
		e.notifier.Warning(MsgFragmentMismatch)
		return 0, fmt.Errorf("%w: recipe needs %s, got %s", domain.ErrFragmentTypeMismatch, recipe.FragmentType, fragmentType)
	}

	needed := recipe.FragmentCount - e.slots.FragmentCount
	if needed <= 0 {
		return 0, nil
	}

	fragItem, err := e.catalog.FragmentItem(fragmentType)
	if err != nil {
		return 0, err
	}
	available := e.ledger.Count(fragItem.ID) - e.slots.FragmentCount
	canAdd := min(quantity, needed)
	canAdd = min(canAdd, available)
	if canAdd <= 0 {
		return 0, fmt.Errorf("%w: fragment %s", domain.ErrInsufficientQuantity, fragmentType)
	}

	e.slots.FragmentType = fragmentType
	e.slots.FragmentCount += canAdd
	return canAdd, nil
}

// UnstageFragments removes staged fragments from the session.
func (e *Engine) UnstageFragments(quantity int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isSynthesizing {
		return
	}
	if quantity <= 0 || quantity >= e.slots.FragmentCount {
		e.slots.FragmentCount = 0
		e.slots.FragmentType = ""
		return
	}
	e.slots.FragmentCount -= quantity
}

// StagePotion stages the recipe's potion into the session.
func (e *Engine) StagePotion(rarity domain.Rarity) error {
	recipe, err := e.SelectedRecipe()
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isSynthesizing {
		return domain.ErrSynthesisInProgress
	}
	if rarity != recipe.RequiredPotion.Rarity {
		e.notifier.Warning(MsgPotionMismatchNote)
		return fmt.Errorf("%w: recipe needs %s, got %s", domain.ErrPotionMismatch, recipe.RequiredPotion.Rarity, rarity)
	}

	potionItem, err := e.catalog.PotionItem(rarity)
	if err != nil {
		return err
	}
	if !e.ledger.Has(potionItem.ID, recipe.RequiredPotion.Count) {
		return fmt.Errorf("%w: potion %s", domain.ErrInsufficientQuantity, rarity)
	}

	e.slots.PotionStaged = true
	e.slots.PotionRarity = rarity
	return nil
}

// UnstagePotion removes the staged potion from the session.
func (e *Engine) UnstagePotion() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isSynthesizing {
		return
	}
	e.slots.PotionStaged = false
	e.slots.PotionRarity = ""
}

// ClearSlots empties the staging slots.
func (e *Engine) ClearSlots() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isSynthesizing {
		e.slots = Slots{}
	}
}

// AutoFill stages the full material requirement from the ledger in one
// step.
func (e *Engine) AutoFill() error {
	recipe, err := e.SelectedRecipe()
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isSynthesizing {
		return domain.ErrSynthesisInProgress
	}

	fragItem, err := e.catalog.FragmentItem(recipe.FragmentType)
	if err != nil {
		return err
	}
	if !e.ledger.Has(fragItem.ID, recipe.FragmentCount) {
		e.notifier.Warning(MsgMaterialsShort)
		return fmt.Errorf("%w: fragment %s", domain.ErrInsufficientQuantity, recipe.FragmentType)
	}

	potionItem, err := e.catalog.PotionItem(recipe.RequiredPotion.Rarity)
	if err != nil {
		return err
	}
	if !e.ledger.Has(potionItem.ID, recipe.RequiredPotion.Count) {
		e.notifier.Warning(MsgMaterialsShort)
		return fmt.Errorf("%w: potion %s", domain.ErrInsufficientQuantity, recipe.RequiredPotion.Rarity)
	}

	e.slots = Slots{
		FragmentType:  recipe.FragmentType,
		FragmentCount: recipe.FragmentCount,
		PotionStaged:  true,
		PotionRarity:  recipe.RequiredPotion.Rarity,
	}
	return nil
}

// StagedSlots returns a copy of the current staging slots.
func (e *Engine) StagedSlots() Slots {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.slots
}

// CanSynthesize revalidates the session against the live ledger.
// A nil return means synthesis may start right now.
func (e *Engine) CanSynthesize() error {
	recipe, err := e.SelectedRecipe()
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canSynthesizeLocked(recipe)
}

func (e *Engine) canSynthesizeLocked(recipe *domain.Recipe) error {
	if e.isSynthesizing {
		return domain.ErrSynthesisInProgress
	}
	if e.slots.FragmentCount < recipe.FragmentCount || e.slots.FragmentType != recipe.FragmentType {
		return fmt.Errorf("%w: %d/%d fragments staged", domain.ErrMaterialsNotStaged, e.slots.FragmentCount, recipe.FragmentCount)
	}
	if !e.slots.PotionStaged {
		return fmt.Errorf("%w: no potion staged", domain.ErrMaterialsNotStaged)
	}

	// Revalidate against the live ledger; staging does not reserve.
	fragItem, err := e.catalog.FragmentItem(recipe.FragmentType)
	if err != nil {
		return err
	}
	if !e.ledger.Has(fragItem.ID, recipe.FragmentCount) {
		return fmt.Errorf("%w: fragment %s", domain.ErrInsufficientQuantity, recipe.FragmentType)
	}
	potionItem, err := e.catalog.PotionItem(recipe.RequiredPotion.Rarity)
	if err != nil {
		return err
	}
	if !e.ledger.Has(potionItem.ID, recipe.RequiredPotion.Count) {
		return fmt.Errorf("%w: potion %s", domain.ErrInsufficientQuantity, recipe.RequiredPotion.Rarity)
	}
	return nil
}

// CurrentSuccessRate returns the rate the selected recipe would roll
// against right now.
func (e *Engine) CurrentSuccessRate() (float64, error) {
	recipe, err := e.SelectedRecipe()
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	failCount := e.failCounts[recipe.ID]
	e.mu.Unlock()

	return SuccessRate(recipe, failCount, e.playerLevel()), nil
}

// PityStatus reports the fail count and threshold of the selected
// recipe.
func (e *Engine) PityStatus() (failCount, threshold int, active bool, err error) {
	recipe, err := e.SelectedRecipe()
	if err != nil {
		return 0, 0, false, err
	}

	e.mu.Lock()
	failCount = e.failCounts[recipe.ID]
	e.mu.Unlock()

	return failCount, recipe.PityThreshold, PityActive(recipe, failCount), nil
}

// playerLevel is the active pet's level; a fresh game counts as 1.
func (e *Engine) playerLevel() int {
	p, err := e.pets.Active()
	if err != nil {
		return 1
	}
	return p.Level
}

// Start begins the timed synthesis sequence. It returns immediately;
// phases progress on the engine's clock and the outcome lands in
// Result. A second Start while one is in flight is rejected with no
// state change.
func (e *Engine) Start(ctx context.Context) error {
	recipe, err := e.SelectedRecipe()
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.canSynthesizeLocked(recipe); err != nil {
		return err
	}

	e.isSynthesizing = true
	e.phase = PhasePreparing
	e.result = nil

	logger.FromContext(ctx).Info(LogMsgSynthesisStarted,
		"recipe_id", recipe.ID,
		"target", recipe.TargetPetType,
		"fail_count", e.failCounts[recipe.ID])

	e.phaseTimer = e.clock.AfterFunc(PreparingDuration, func() {
		e.enterFusing(ctx, recipe)
	})
	return nil
}

func (e *Engine) enterFusing(ctx context.Context, recipe *domain.Recipe) {
	e.mu.Lock()
	e.phase = PhaseFusing
	e.phaseTimer = e.clock.AfterFunc(FusingDuration, func() {
		e.enterBurst(ctx, recipe)
	})
	e.mu.Unlock()
}

func (e *Engine) enterBurst(ctx context.Context, recipe *domain.Recipe) {
	e.mu.Lock()
	e.phase = PhaseBurst

	// The rate is computed fresh at the burst, so fail counts or level
	// changes since Start still apply.
	rate := SuccessRate(recipe, e.failCounts[recipe.ID], e.playerLevel())
	success := e.rng.Float64() < rate

	e.phaseTimer = e.clock.AfterFunc(BurstDuration, func() {
		e.enterResult(ctx, recipe, rate, success)
	})
	e.mu.Unlock()
}

func (e *Engine) enterResult(ctx context.Context, recipe *domain.Recipe, rate float64, success bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.phase = PhaseResult
	if success {
		e.resolveSuccess(ctx, recipe, rate)
	} else {
		e.resolveFailure(ctx, recipe, rate)
	}
	e.isSynthesizing = false

	logger.FromContext(ctx).Info(LogMsgSynthesisResolved,
		"recipe_id", recipe.ID,
		"success", success,
		"rate", rate,
		"fail_count", e.failCounts[recipe.ID])
}

// resolveSuccess consumes the full material cost, resets pity and adds
// the pet. Caller holds the lock.
func (e *Engine) resolveSuccess(ctx context.Context, recipe *domain.Recipe, rate float64) {
	log := logger.FromContext(ctx)

	fragItem, err := e.catalog.FragmentItem(recipe.FragmentType)
	if err == nil {
		err = e.ledger.Remove(fragItem.ID, recipe.FragmentCount)
	}
	if err != nil {
		// canSynthesizeLocked validated this; a failure here is a bug,
		// not a user error.
		log.Error(LogMsgLedgerInvariant, "error", fmt.Errorf("%w: %v", domain.ErrInvariant, err))
		e.result = &Result{
			Success:  false,
			RecipeID: recipe.ID,
			Message:  domain.ErrMsgInvariantViolation,
		}
		return
	}

	if err := e.consumePotion(recipe); err != nil {
		log.Error(LogMsgLedgerInvariant, "error", fmt.Errorf("%w: %v", domain.ErrInvariant, err))
	}

	newPet, _, err := e.pets.Summon(recipe.TargetPetType)
	if err != nil {
		log.Error("Failed to add synthesized pet", "error", err)
	}

	e.failCounts[recipe.ID] = 0
	e.slots = Slots{}

	petName := recipe.TargetPetType
	if newPet != nil {
		petName = newPet.Name
	}
	e.result = &Result{
		Success:     true,
		RecipeID:    recipe.ID,
		PetType:     recipe.TargetPetType,
		PetName:     petName,
		SuccessRate: rate,
		Message:     fmt.Sprintf(MsgSynthesisSuccess, petName),
	}

	e.publish(ctx, event.NewSynthesisResultEvent(recipe.ID, recipe.TargetPetType, true, rate, 0, false))
	if newPet != nil {
		e.publish(ctx, event.Event{
			Version: event.EventSchemaVersion,
			Type:    event.PetSummoned,
			Payload: event.PetSummonedPayloadV1{
				InstanceID: newPet.InstanceID,
				PetType:    newPet.PetType,
				Timestamp:  e.clock.Now().Unix(),
			},
		})
	}
	e.notifier.Success(e.result.Message)
}

// resolveFailure consumes the potion only; staged fragments stay both
// staged and in the ledger. Caller holds the lock.
func (e *Engine) resolveFailure(ctx context.Context, recipe *domain.Recipe, rate float64) {
	log := logger.FromContext(ctx)

	if err := e.consumePotion(recipe); err != nil {
		log.Error(LogMsgLedgerInvariant, "error", fmt.Errorf("%w: %v", domain.ErrInvariant, err))
	}
	e.slots.PotionStaged = false
	e.slots.PotionRarity = ""

	e.failCounts[recipe.ID]++
	failCount := e.failCounts[recipe.ID]
	active := PityActive(recipe, failCount)

	pityMsg := fmt.Sprintf(MsgPityProgress, failCount%recipe.PityThreshold, recipe.PityThreshold)
	if active {
		pityMsg = MsgPityActive
	}

	e.result = &Result{
		Success:      false,
		RecipeID:     recipe.ID,
		SuccessRate:  rate,
		FailCount:    failCount,
		PityActive:   active,
		PityProgress: pityMsg,
		Message:      MsgSynthesisFailed,
	}

	e.publish(ctx, event.NewSynthesisResultEvent(recipe.ID, recipe.TargetPetType, false, rate, failCount, active))
	e.notifier.Warning(fmt.Sprintf("%s %s", MsgSynthesisFailed, pityMsg))
}

func (e *Engine) consumePotion(recipe *domain.Recipe) error {
	potionItem, err := e.catalog.PotionItem(recipe.RequiredPotion.Rarity)
	if err != nil {
		return err
	}
	return e.ledger.Remove(potionItem.ID, recipe.RequiredPotion.Count)
}

func (e *Engine) publish(ctx context.Context, ev event.Event) {
	if e.bus == nil {
		return
	}
	if err := e.bus.Publish(ctx, ev); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish synthesis event", "error", err)
	}
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Result returns the outcome of the last resolved attempt, nil while
// none has resolved since the last reset.
func (e *Engine) Result() *Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.result == nil {
		return nil
	}
	out := *e.result
	return &out
}

// CloseResult acknowledges the result view and returns to idle.
func (e *Engine) CloseResult() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isSynthesizing {
		return
	}
	e.phase = PhaseIdle
	e.result = nil
}

// Reset cancels any scheduled phase transition and clears the whole
// session, for a full game reset.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phaseTimer != nil {
		e.phaseTimer.Stop()
		e.phaseTimer = nil
	}
	e.selectedRecipeID = 0
	e.slots = Slots{}
	e.isSynthesizing = false
	e.phase = PhaseIdle
	e.result = nil
	e.failCounts = make(map[int]int)
}
