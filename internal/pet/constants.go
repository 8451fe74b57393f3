package pet

import "time"

// Experience progression
const (
	// XPPerLevel is the experience required per level
	XPPerLevel = 100
)

// Status durations
const (
	// EatingStatusDuration is how long the eating status lasts before
	// reverting to idle
	EatingStatusDuration = 3 * time.Second
	// HappyStatusDuration is how long the happy status lasts before
	// reverting to idle
	HappyStatusDuration = 3 * time.Second
)

// Stat decay rates, applied once per decay minute
const (
	HungerDecayAtHome  = 1
	HungerDecayOutdoor = 2
	MoodDecay          = 5
)

// Status thresholds
const (
	// TiredThreshold is the hunger level below which the pet turns tired
	TiredThreshold = 20
	// SadThreshold is the mood level below which the pet turns sad
	SadThreshold = 20
	// HungryThreshold is the hunger level below which the pet reads as hungry
	HungryThreshold = 30
	// HappyThreshold is the mood level above which the pet reads as happy
	HappyThreshold = 70
)

// Feeding defaults
const (
	// DefaultFeedMoodGain is the mood gained from eating when the food
	// item grants no mood of its own
	DefaultFeedMoodGain = 5
)

// Revival restores a fixed fraction of the stat caps
const (
	ReviveHealthDivisor = 2
	ReviveHungerValue   = 50
	ReviveMoodValue     = 50
)
