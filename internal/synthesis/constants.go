package synthesis

import "time"

// Phase durations for the synthesis animation sequence
const (
	PreparingDuration = 500 * time.Millisecond
	FusingDuration    = 2 * time.Second
	BurstDuration     = 500 * time.Millisecond
)

// Success rate bounds
const (
	// MaxSuccessRate caps the final rate; no synthesis is ever a sure thing
	MaxSuccessRate = 0.95
	// LevelBonusPerLevel is the rate bonus per level above the recipe minimum
	LevelBonusPerLevel = 0.02
	// LevelBonusCap bounds the total level bonus
	LevelBonusCap = 0.10
)

// Notification messages
const (
	MsgSynthesisSuccess   = "Synthesis succeeded! %s joins your collection!"
	MsgSynthesisFailed    = "Synthesis failed, the magic fizzled out..."
	MsgPityActive         = "Pity is active, the next attempt has a higher rate!"
	MsgPityProgress       = "Pity progress: %d/%d"
	MsgMaterialsShort     = "Not enough materials to synthesize"
	MsgFragmentMismatch   = "That fragment does not match the selected recipe"
	MsgPotionMismatchNote = "The recipe calls for a different potion"
)

// Log message constants
const (
	LogMsgSynthesisStarted  = "Synthesis started"
	LogMsgSynthesisResolved = "Synthesis resolved"
	LogMsgLedgerInvariant   = "Ledger removal failed after successful validation"
)
