package domain

// PetStatus describes what the active pet is currently doing
type PetStatus string

const (
	StatusIdle     PetStatus = "idle"
	StatusEating   PetStatus = "eating"
	StatusHappy    PetStatus = "happy"
	StatusPlaying  PetStatus = "playing"
	StatusHunting  PetStatus = "hunting"
	StatusTired    PetStatus = "tired"
	StatusSad      PetStatus = "sad"
	StatusSleeping PetStatus = "sleeping"
)

// PassiveEffect identifies the calculation a passive skill modifies
type PassiveEffect string

const (
	PassiveExploreTimeReduce PassiveEffect = "explore_time_reduce"
	PassiveHuntRewardBoost   PassiveEffect = "hunt_reward_boost"
	PassiveDeathChanceReduce PassiveEffect = "death_chance_reduce"
)

// PassiveSkill is a permanent pet-type-specific modifier, applied
// automatically whenever its effect matches the current calculation.
type PassiveSkill struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Effect      PassiveEffect `json:"effect"`
	Value       float64       `json:"value"`
	Icon        string        `json:"icon,omitempty"`
}

// PetBaseStats holds the spawn stats for a pet type
type PetBaseStats struct {
	Hunger    int `json:"hunger"`
	Mood      int `json:"mood"`
	Health    int `json:"health"`
	MaxHunger int `json:"max_hunger"`
	MaxMood   int `json:"max_mood"`
	MaxHealth int `json:"max_health"`
}

// PetType is a static catalog definition of a collectible pet
type PetType struct {
	ID           int           `json:"pet_id"`
	Key          string        `json:"key"`
	Name         string        `json:"name"`
	Emoji        string        `json:"emoji"`
	Rarity       Rarity        `json:"rarity"`
	BaseStats    PetBaseStats  `json:"base_stats"`
	PassiveSkill *PassiveSkill `json:"passive_skill,omitempty"`
	IsStarter    bool          `json:"is_starter,omitempty"`
	Description  string        `json:"description,omitempty"`
}

// Pet is an owned pet instance. At most one instance exists per pet
// type; exactly one instance is active at a time and is the only one
// subject to feeding and outdoor activities.
type Pet struct {
	InstanceID string    `json:"instance_id"`
	PetType    string    `json:"pet_type"`
	Name       string    `json:"name"`
	Hunger     int       `json:"hunger"`
	Mood       int       `json:"mood"`
	Health     int       `json:"health"`
	MaxHunger  int       `json:"max_hunger"`
	MaxMood    int       `json:"max_mood"`
	MaxHealth  int       `json:"max_health"`
	Level      int       `json:"level"`
	Experience int       `json:"experience"`
	Status     PetStatus `json:"status"`
	IsAtHome   bool      `json:"is_at_home"`
	IsDead     bool      `json:"is_dead"`
}

// Clone returns a copy for session snapshots.
func (p *Pet) Clone() Pet {
	out := *p
	return out
}
