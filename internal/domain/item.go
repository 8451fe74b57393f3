package domain

// Rarity classifies items, fragments and pets
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// ItemCategory groups catalog items by their use
type ItemCategory string

const (
	CategoryFood     ItemCategory = "food"
	CategoryMood     ItemCategory = "mood"
	CategoryCombat   ItemCategory = "combat"
	CategoryCharm    ItemCategory = "charm"
	CategoryPotion   ItemCategory = "potion"
	CategorySpecial  ItemCategory = "special"
	CategoryFragment ItemCategory = "fragment"
)

// UseCondition restricts when an item may be activated
type UseCondition string

const (
	UseAlways     UseCondition = "always"
	UseBeforeHunt UseCondition = "before_hunt"
	UsePassive    UseCondition = "passive"
)

// Item is a static catalog definition. Stacks in the ledger reference
// items by ID; all other attributes are resolved through the catalog.
type Item struct {
	ID           int          `json:"item_id"`
	Key          string       `json:"key"`
	Name         string       `json:"name"`
	Icon         string       `json:"icon"`
	Category     ItemCategory `json:"category"`
	Rarity       Rarity       `json:"rarity"`
	Price        int          `json:"price"`
	FoodValue    int          `json:"food_value"`
	MoodValue    int          `json:"mood_value"`
	FragmentType string       `json:"fragment_type,omitempty"`
	PotionRarity Rarity       `json:"potion_rarity,omitempty"`
	UseCondition UseCondition `json:"use_condition,omitempty"`
	Buff         *Buff        `json:"buff,omitempty"`
	Description  string       `json:"description,omitempty"`
}

// IsFragment reports whether the item is a synthesis fragment.
func (i *Item) IsFragment() bool {
	return i.Category == CategoryFragment
}

// IsPotion reports whether the item can fill a synthesis potion slot.
func (i *Item) IsPotion() bool {
	return i.Category == CategoryPotion || i.Category == CategorySpecial
}
