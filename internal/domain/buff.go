package domain

// BuffType identifies the calculation a buff modifies
type BuffType string

const (
	BuffHuntRewardBoost   BuffType = "hunt_reward_boost"
	BuffDeathChanceReduce BuffType = "death_chance_reduce"
	BuffDeathMoneyProtect BuffType = "death_money_protect"
	BuffHungerCostReduce  BuffType = "hunger_cost_reduce"
	BuffExpBoost          BuffType = "exp_boost"
	BuffAutoHeal          BuffType = "auto_heal"
)

// Buff is a transient modifier created by item activation.
// Duration is a remaining-use counter, not wall-clock time: it is
// decremented exactly once per consumption event and the buff is
// removed from the registry when it reaches zero.
type Buff struct {
	Type     BuffType `json:"type"`
	Value    float64  `json:"value"`
	Duration int      `json:"duration"`
	// Threshold only applies to auto_heal: the health level below
	// which the heal fires.
	Threshold int `json:"threshold,omitempty"`
}
