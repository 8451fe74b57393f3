package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/aldwake/PetGrotto_Go/internal/domain"
	"github.com/aldwake/PetGrotto_Go/internal/validation"
)

// Sentinel errors for catalog loading
var (
	ErrDuplicateID   = errors.New("duplicate id")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ItemsConfig is the JSON layout of items.json. Fragments are regular
// catalog items with category "fragment".
type ItemsConfig struct {
	Version     string        `json:"version"`
	Description string        `json:"description,omitempty"`
	Items       []domain.Item `json:"items"`
}

// PetsConfig is the JSON layout of pets.json
type PetsConfig struct {
	Version     string           `json:"version"`
	Description string           `json:"description,omitempty"`
	Pets        []domain.PetType `json:"pets"`
}

// RecipesConfig is the JSON layout of recipes.json
type RecipesConfig struct {
	Version     string          `json:"version"`
	Description string          `json:"description,omitempty"`
	Recipes     []domain.Recipe `json:"recipes"`
}

// DropTableDef defines one fragment drop table. Chance is the roll to
// drop anything at all; Weights selects the fragment type once the
// roll passes. OwnTypeOnly tables ignore Weights and always drop the
// active pet's own fragment type.
type DropTableDef struct {
	Chance      float64        `json:"chance"`
	Weights     map[string]int `json:"weights,omitempty"`
	OwnTypeOnly bool           `json:"own_type_only,omitempty"`
}

// DropTablesConfig is the JSON layout of droptables.json
type DropTablesConfig struct {
	Version     string                  `json:"version"`
	Description string                  `json:"description,omitempty"`
	Tables      map[string]DropTableDef `json:"tables"`
}

func loadJSON(sv validation.SchemaValidator, path, schemaName string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf(ErrMsgReadConfigFailed, err)
	}
	if err := sv.ValidateBytes(data, schemaName); err != nil {
		return fmt.Errorf(ErrMsgSchemaConfigFailed, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf(ErrMsgParseConfigFailed, err)
	}
	return nil
}

// Load reads every catalog file from dir, checks it against its JSON
// Schema, validates the definitions and cross-references, and returns
// an immutable Catalog.
func Load(dir string) (*Catalog, error) {
	sv := validation.NewSchemaValidator()

	var items ItemsConfig
	if err := loadJSON(sv, filepath.Join(dir, ItemsFileName), validation.SchemaItems, &items); err != nil {
		return nil, err
	}

	var pets PetsConfig
	if err := loadJSON(sv, filepath.Join(dir, PetsFileName), validation.SchemaPets, &pets); err != nil {
		return nil, err
	}

	var recipes RecipesConfig
	if err := loadJSON(sv, filepath.Join(dir, RecipesFileName), validation.SchemaRecipes, &recipes); err != nil {
		return nil, err
	}

	var drops DropTablesConfig
	if err := loadJSON(sv, filepath.Join(dir, DropTablesFileName), validation.SchemaDropTables, &drops); err != nil {
		return nil, err
	}

	c, err := build(&items, &pets, &recipes, &drops)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", dir, err)
	}
	return c, nil
}

func build(items *ItemsConfig, pets *PetsConfig, recipes *RecipesConfig, drops *DropTablesConfig) (*Catalog, error) {
	c := &Catalog{
		itemsByID:       make(map[int]*domain.Item, len(items.Items)),
		itemsByKey:      make(map[string]*domain.Item, len(items.Items)),
		fragmentsByType: make(map[string]*domain.Item),
		potionsByRarity: make(map[domain.Rarity]*domain.Item),
		petsByKey:       make(map[string]*domain.PetType, len(pets.Pets)),
		recipesByID:     make(map[int]*domain.Recipe, len(recipes.Recipes)),
		dropTables:      make(map[string]DropTableDef, len(drops.Tables)),
		itemOrder:       make([]int, 0, len(items.Items)),
		recipeOrder:     make([]int, 0, len(recipes.Recipes)),
	}

	if err := c.indexItems(items); err != nil {
		return nil, err
	}
	if err := c.indexPets(pets); err != nil {
		return nil, err
	}
	if err := c.indexRecipes(recipes); err != nil {
		return nil, err
	}
	if err := c.indexDropTables(drops); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Catalog) indexItems(cfg *ItemsConfig) error {
	if len(cfg.Items) == 0 {
		return fmt.Errorf("%w: no items defined", ErrInvalidConfig)
	}

	for i := range cfg.Items {
		item := &cfg.Items[i]
		if item.ID <= 0 {
			return fmt.Errorf("%w: item at index %d has non-positive id", ErrInvalidConfig, i)
		}
		if item.Key == "" {
			return fmt.Errorf("%w: item %d has empty key", ErrInvalidConfig, item.ID)
		}
		if item.Price < 0 {
			return fmt.Errorf("%w: item %q has negative price", ErrInvalidConfig, item.Key)
		}
		if _, ok := c.itemsByID[item.ID]; ok {
			return fmt.Errorf("%w: item %d", ErrDuplicateID, item.ID)
		}
		if _, ok := c.itemsByKey[item.Key]; ok {
			return fmt.Errorf("%w: item key %q", ErrDuplicateID, item.Key)
		}

		c.itemsByID[item.ID] = item
		c.itemsByKey[item.Key] = item
		c.itemOrder = append(c.itemOrder, item.ID)

		if item.IsFragment() {
			if item.FragmentType == "" {
				return fmt.Errorf("%w: fragment item %q has no fragment_type", ErrInvalidConfig, item.Key)
			}
			if _, ok := c.fragmentsByType[item.FragmentType]; ok {
				return fmt.Errorf("%w: fragment type %q", ErrDuplicateID, item.FragmentType)
			}
			c.fragmentsByType[item.FragmentType] = item
		}

		if item.Category == domain.CategoryPotion {
			if item.PotionRarity == "" {
				return fmt.Errorf("%w: potion item %q has no potion_rarity", ErrInvalidConfig, item.Key)
			}
			if _, ok := c.potionsByRarity[item.PotionRarity]; ok {
				return fmt.Errorf("%w: potion rarity %q", ErrDuplicateID, item.PotionRarity)
			}
			c.potionsByRarity[item.PotionRarity] = item
		}
	}

	return nil
}

func (c *Catalog) indexPets(cfg *PetsConfig) error {
	if len(cfg.Pets) == 0 {
		return fmt.Errorf("%w: no pet types defined", ErrInvalidConfig)
	}

	starters := 0
	for i := range cfg.Pets {
		pet := &cfg.Pets[i]
		if pet.Key == "" {
			return fmt.Errorf("%w: pet at index %d has empty key", ErrInvalidConfig, i)
		}
		if _, ok := c.petsByKey[pet.Key]; ok {
			return fmt.Errorf("%w: pet type %q", ErrDuplicateID, pet.Key)
		}
		if pet.BaseStats.MaxHunger <= 0 || pet.BaseStats.MaxMood <= 0 || pet.BaseStats.MaxHealth <= 0 {
			return fmt.Errorf("%w: pet %q has non-positive stat caps", ErrInvalidConfig, pet.Key)
		}
		if pet.IsStarter {
			starters++
		}
		c.petsByKey[pet.Key] = pet
	}

	if starters != 1 {
		return fmt.Errorf("%w: expected exactly one starter pet, got %d", ErrInvalidConfig, starters)
	}

	return nil
}

func (c *Catalog) indexRecipes(cfg *RecipesConfig) error {
	if len(cfg.Recipes) == 0 {
		return fmt.Errorf("%w: no recipes defined", ErrInvalidConfig)
	}

	for i := range cfg.Recipes {
		r := &cfg.Recipes[i]
		if r.ID <= 0 {
			return fmt.Errorf("%w: recipe at index %d has non-positive id", ErrInvalidConfig, i)
		}
		if _, ok := c.recipesByID[r.ID]; ok {
			return fmt.Errorf("%w: recipe %d", ErrDuplicateID, r.ID)
		}
		if _, ok := c.petsByKey[r.TargetPetType]; !ok {
			return fmt.Errorf("%w: recipe %d targets unknown pet type %q", ErrInvalidConfig, r.ID, r.TargetPetType)
		}
		if _, ok := c.fragmentsByType[r.FragmentType]; !ok {
			return fmt.Errorf("%w: recipe %d requires unknown fragment type %q", ErrInvalidConfig, r.ID, r.FragmentType)
		}
		if _, ok := c.potionsByRarity[r.RequiredPotion.Rarity]; !ok {
			return fmt.Errorf("%w: recipe %d requires unknown potion rarity %q", ErrInvalidConfig, r.ID, r.RequiredPotion.Rarity)
		}
		if r.FragmentCount <= 0 {
			return fmt.Errorf("%w: recipe %d has non-positive fragment count", ErrInvalidConfig, r.ID)
		}
		if r.BaseSuccessRate <= 0 || r.BaseSuccessRate > 1 {
			return fmt.Errorf("%w: recipe %d has success rate outside (0,1]", ErrInvalidConfig, r.ID)
		}
		if r.PityThreshold <= 0 {
			return fmt.Errorf("%w: recipe %d has non-positive pity threshold", ErrInvalidConfig, r.ID)
		}
		if r.Unlock != nil && r.Unlock.Type == domain.UnlockPetOwned {
			if _, ok := c.petsByKey[r.Unlock.PetType]; !ok {
				return fmt.Errorf("%w: recipe %d unlock references unknown pet type %q", ErrInvalidConfig, r.ID, r.Unlock.PetType)
			}
		}
		c.recipesByID[r.ID] = r
		c.recipeOrder = append(c.recipeOrder, r.ID)
	}

	return nil
}

func (c *Catalog) indexDropTables(cfg *DropTablesConfig) error {
	if len(cfg.Tables) == 0 {
		return fmt.Errorf("%w: no drop tables defined", ErrInvalidConfig)
	}

	for name, table := range cfg.Tables {
		if table.Chance < 0 || table.Chance > 1 {
			return fmt.Errorf("%w: drop table %q chance outside [0,1]", ErrInvalidConfig, name)
		}
		if table.OwnTypeOnly {
			c.dropTables[name] = table
			continue
		}
		if len(table.Weights) == 0 {
			return fmt.Errorf("%w: drop table %q has no weights", ErrInvalidConfig, name)
		}
		total := 0
		for fragType, weight := range table.Weights {
			if weight <= 0 {
				return fmt.Errorf("%w: drop table %q weight for %q must be positive", ErrInvalidConfig, name, fragType)
			}
			if _, ok := c.fragmentsByType[fragType]; !ok {
				return fmt.Errorf("%w: drop table %q references unknown fragment type %q", ErrInvalidConfig, name, fragType)
			}
			total += weight
		}
		if math.Abs(float64(total)-100) > 0.5 {
			return fmt.Errorf("%w: drop table %q weights sum to %d (expected 100)", ErrInvalidConfig, name, total)
		}
		c.dropTables[name] = table
	}

	return nil
}
