package catalog

import (
	"fmt"

	"github.com/aldwake/PetGrotto_Go/internal/domain"
)

// Catalog is the read-only registry of static game definitions: shop
// items, fragments, potions, pet types, synthesis recipes and fragment
// drop tables. It is built once at startup and safe for concurrent
// reads.
type Catalog struct {
	itemsByID       map[int]*domain.Item
	itemsByKey      map[string]*domain.Item
	fragmentsByType map[string]*domain.Item
	potionsByRarity map[domain.Rarity]*domain.Item
	petsByKey       map[string]*domain.PetType
	recipesByID     map[int]*domain.Recipe
	dropTables      map[string]DropTableDef

	itemOrder   []int
	recipeOrder []int
}

// Item returns the item definition for id.
func (c *Catalog) Item(id int) (*domain.Item, error) {
	item, ok := c.itemsByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrItemNotFound, id)
	}
	return item, nil
}

// ItemByKey returns the item definition for key.
func (c *Catalog) ItemByKey(key string) (*domain.Item, error) {
	item, ok := c.itemsByKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: key %q", domain.ErrItemNotFound, key)
	}
	return item, nil
}

// Items returns all item definitions in file order.
func (c *Catalog) Items() []*domain.Item {
	out := make([]*domain.Item, 0, len(c.itemOrder))
	for _, id := range c.itemOrder {
		out = append(out, c.itemsByID[id])
	}
	return out
}

// FragmentItem returns the fragment item for a fragment type
// (cat, bird, fox, dragon).
func (c *Catalog) FragmentItem(fragmentType string) (*domain.Item, error) {
	item, ok := c.fragmentsByType[fragmentType]
	if !ok {
		return nil, fmt.Errorf("%w: fragment type %q", domain.ErrItemNotFound, fragmentType)
	}
	return item, nil
}

// PotionItem returns the synthesis potion item for a rarity.
func (c *Catalog) PotionItem(rarity domain.Rarity) (*domain.Item, error) {
	item, ok := c.potionsByRarity[rarity]
	if !ok {
		return nil, fmt.Errorf("%w: potion rarity %q", domain.ErrItemNotFound, rarity)
	}
	return item, nil
}

// PetType returns the pet type definition for key.
func (c *Catalog) PetType(key string) (*domain.PetType, error) {
	pet, ok := c.petsByKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: type %q", domain.ErrPetNotFound, key)
	}
	return pet, nil
}

// StarterPet returns the pet type flagged as the starter.
func (c *Catalog) StarterPet() *domain.PetType {
	for _, pet := range c.petsByKey {
		if pet.IsStarter {
			return pet
		}
	}
	// Load guarantees exactly one starter.
	return nil
}

// Recipe returns the synthesis recipe for id.
func (c *Catalog) Recipe(id int) (*domain.Recipe, error) {
	r, ok := c.recipesByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrRecipeNotFound, id)
	}
	return r, nil
}

// Recipes returns all recipes in file order.
func (c *Catalog) Recipes() []*domain.Recipe {
	out := make([]*domain.Recipe, 0, len(c.recipeOrder))
	for _, id := range c.recipeOrder {
		out = append(out, c.recipesByID[id])
	}
	return out
}

// DropTable returns the fragment drop table for a source
// (forest, hunt, happiness).
func (c *Catalog) DropTable(source string) (DropTableDef, bool) {
	table, ok := c.dropTables[source]
	return table, ok
}
