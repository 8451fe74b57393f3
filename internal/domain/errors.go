package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Item/inventory errors
	ErrMsgItemNotFound         = "item not found"
	ErrMsgInsufficientQuantity = "insufficient quantity"

	// Pet errors
	ErrMsgPetNotFound  = "pet not found"
	ErrMsgPetNotOwned  = "pet type not owned"
	ErrMsgPetNotAtHome = "pet is not at home"
	ErrMsgPetIsDead    = "pet is dead"
	ErrMsgPetOutdoors  = "pet is already outdoors"

	// Recipe/synthesis errors
	ErrMsgRecipeNotFound      = "recipe not found"
	ErrMsgRecipeLocked        = "recipe is locked"
	ErrMsgNoRecipeSelected    = "no recipe selected"
	ErrMsgMaterialsNotStaged  = "materials not staged"
	ErrMsgFragmentTypeMismatch = "fragment type mismatch"
	ErrMsgPotionMismatch      = "potion rarity mismatch"
	ErrMsgSynthesisInProgress = "synthesis already in progress"

	// Buff errors
	ErrMsgBuffAlreadyActive = "a buff of this type is already active"
	ErrMsgBuffNotFound      = "buff not found"

	// Outdoor errors
	ErrMsgSessionActive   = "an outdoor session is already active"
	ErrMsgNoActiveSession = "no active outdoor session"

	// Save errors
	ErrMsgSaveNotFound       = "save not found"
	ErrMsgSaveInProgress     = "a save is already in progress"
	ErrMsgSaveCorrupt        = "save data corrupt"
	ErrMsgSaveVersionTooNew  = "save version exceeds supported version"
	ErrMsgInvalidSaveSlot    = "invalid save slot"

	// Economy errors
	ErrMsgInsufficientFunds = "insufficient funds"

	// Validation errors
	ErrMsgInvalidInput = "invalid input"

	// Internal errors
	ErrMsgInvariantViolation = "invariant violation"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Item/inventory errors
	ErrItemNotFound         = errors.New(ErrMsgItemNotFound)
	ErrInsufficientQuantity = errors.New(ErrMsgInsufficientQuantity)

	// Pet errors
	ErrPetNotFound  = errors.New(ErrMsgPetNotFound)
	ErrPetNotOwned  = errors.New(ErrMsgPetNotOwned)
	ErrPetNotAtHome = errors.New(ErrMsgPetNotAtHome)
	ErrPetIsDead    = errors.New(ErrMsgPetIsDead)
	ErrPetOutdoors  = errors.New(ErrMsgPetOutdoors)

	// Recipe/synthesis errors
	ErrRecipeNotFound       = errors.New(ErrMsgRecipeNotFound)
	ErrRecipeLocked         = errors.New(ErrMsgRecipeLocked)
	ErrNoRecipeSelected     = errors.New(ErrMsgNoRecipeSelected)
	ErrMaterialsNotStaged   = errors.New(ErrMsgMaterialsNotStaged)
	ErrFragmentTypeMismatch = errors.New(ErrMsgFragmentTypeMismatch)
	ErrPotionMismatch       = errors.New(ErrMsgPotionMismatch)
	ErrSynthesisInProgress  = errors.New(ErrMsgSynthesisInProgress)

	// Buff errors
	ErrBuffAlreadyActive = errors.New(ErrMsgBuffAlreadyActive)
	ErrBuffNotFound      = errors.New(ErrMsgBuffNotFound)

	// Outdoor errors
	ErrSessionActive   = errors.New(ErrMsgSessionActive)
	ErrNoActiveSession = errors.New(ErrMsgNoActiveSession)

	// Save errors
	ErrSaveNotFound      = errors.New(ErrMsgSaveNotFound)
	ErrSaveInProgress    = errors.New(ErrMsgSaveInProgress)
	ErrSaveCorrupt       = errors.New(ErrMsgSaveCorrupt)
	ErrSaveVersionTooNew = errors.New(ErrMsgSaveVersionTooNew)
	ErrInvalidSaveSlot   = errors.New(ErrMsgInvalidSaveSlot)

	// Economy errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// ErrInvariant marks logic bugs (e.g. a validated removal failing anyway).
	// These must never be converted to user-facing validation failures.
	ErrInvariant = errors.New(ErrMsgInvariantViolation)
)
