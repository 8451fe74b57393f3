package outdoor

import "time"

// Session timings
const (
	// PlayBaseDuration is the play time before passive reductions
	PlayBaseDuration = 3 * time.Second
	// HuntDuration is the total hunt length; the outcome resolves when
	// it elapses
	HuntDuration = 5 * time.Second
	// HuntTickInterval spaces the combat attrition ticks
	HuntTickInterval = 1 * time.Second
	// HuntTickCount is how many attrition ticks a full hunt runs
	HuntTickCount = 5
)

// Play rewards
const (
	PlayMoodGain       = 10
	PlayExperienceGain = 10
)

// Hunt attrition and outcome tuning
const (
	HuntTickHealthCost = 2
	HuntTickHungerCost = 2
	BaseDeathChance    = 0.10
	HuntRewardMin      = 50
	HuntRewardMax      = 100
	HuntExperienceGain = 25
)

// FallbackFragmentType is returned when a weighted draw exhausts the
// table without selecting, which a well-formed table never does.
const FallbackFragmentType = "cat"

// Notification messages
const (
	MsgPlayFinished  = "Play time is over! Mood +%d, XP +%d!"
	MsgHuntVictory   = "Victory! Earned %d coins!"
	MsgHuntDeath     = "Your pet fell in battle. A revive potion can bring it back."
	MsgFragmentFound = "Found a %s fragment!"
	MsgPetRecalled   = "Your pet came back home"
)

// Log message constants
const (
	LogMsgPlayStarted   = "Play session started"
	LogMsgPlayCompleted = "Play session completed"
	LogMsgHuntStarted   = "Hunt session started"
	LogMsgHuntResolved  = "Hunt session resolved"
	LogMsgSessionRecall = "Outdoor session recalled"
	LogMsgSessionReset  = "Stale outdoor session cleared on restore"
)
