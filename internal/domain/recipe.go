package domain

// UnlockRequirementType classifies recipe unlock gates
type UnlockRequirementType string

const (
	// UnlockPetOwned gates a recipe behind ownership of another pet type.
	// The acquisition order (cat -> bird -> fox -> dragon) is emergent
	// from these requirements, never hard-coded by the engine.
	UnlockPetOwned UnlockRequirementType = "pet_owned"
)

// UnlockRequirement gates a recipe until a condition is met
type UnlockRequirement struct {
	Type    UnlockRequirementType `json:"type"`
	PetType string                `json:"pet_type"`
}

// RequiredPotion names the potion slot requirement of a recipe
type RequiredPotion struct {
	Rarity Rarity `json:"rarity"`
	Count  int    `json:"count"`
}

// Recipe is an immutable synthesis recipe definition
type Recipe struct {
	ID              int                `json:"recipe_id"`
	Name            string             `json:"name"`
	TargetPetType   string             `json:"target_pet_type"`
	FragmentType    string             `json:"fragment_type"`
	FragmentCount   int                `json:"fragment_count"`
	RequiredPotion  RequiredPotion     `json:"required_potion"`
	BaseSuccessRate float64            `json:"base_success_rate"`
	PityThreshold   int                `json:"pity_threshold"`
	PityBonus       float64            `json:"pity_bonus"`
	MinPlayerLevel  int                `json:"min_player_level"`
	Unlock          *UnlockRequirement `json:"unlock_requirement,omitempty"`
	Description     string             `json:"description,omitempty"`
}
