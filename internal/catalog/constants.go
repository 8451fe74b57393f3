package catalog

// Config file names within the catalog directory
const (
	ItemsFileName      = "items.json"
	PetsFileName       = "pets.json"
	RecipesFileName    = "recipes.json"
	DropTablesFileName = "droptables.json"
)

// Item keys referenced by name in game logic
const (
	KeyRevivePotion = "revive_potion"
)

// Drop table sources
const (
	DropSourceForest    = "forest"
	DropSourceHunt      = "hunt"
	DropSourceHappiness = "happiness"
)

// Error message constants
const (
	ErrMsgReadConfigFailed   = "failed to read catalog file: %w"
	ErrMsgSchemaConfigFailed = "catalog file rejected by schema: %w"
	ErrMsgParseConfigFailed  = "failed to parse catalog file: %w"
)
