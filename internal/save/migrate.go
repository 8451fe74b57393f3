package save

import (
	"fmt"

	"github.com/aldwake/PetGrotto_Go/internal/domain"
)

// migration upgrades a snapshot from exactly one version to the next.
type migration struct {
	from  int
	apply func(data *domain.SaveData) error
}

// migrations is the strictly ordered upgrade chain. A version-N save
// passes through every step from N up to CurrentSaveVersion.
var migrations = []migration{
	{from: 1, apply: migrateV1CollectionSection},
}

// migrateV1CollectionSection backfills the collection section.
// Version-1 saves predate multi-pet ownership and only carried the
// single live pet in the game section.
func migrateV1CollectionSection(data *domain.SaveData) error {
	if len(data.Collection.OwnedPets) > 0 {
		return nil
	}
	if data.Game.Pet == nil {
		return fmt.Errorf("%w: no pet to build the collection from", domain.ErrSaveCorrupt)
	}
	data.Collection = domain.SaveCollection{
		OwnedPets:   []domain.Pet{data.Game.Pet.Clone()},
		ActivePetID: data.Game.Pet.InstanceID,
	}
	return nil
}

// Migrate upgrades a snapshot in place to CurrentSaveVersion. Saves
// newer than this build supports are rejected outright; partial
// upgrades never happen because each step either applies fully or
// fails the whole load.
func Migrate(data *domain.SaveData) error {
	if data.Meta.Version > CurrentSaveVersion {
		return fmt.Errorf("%w: save version %d, supported up to %d",
			domain.ErrSaveVersionTooNew, data.Meta.Version, CurrentSaveVersion)
	}
	if data.Meta.Version < 1 {
		return fmt.Errorf("%w: save version %d", domain.ErrSaveCorrupt, data.Meta.Version)
	}

	for _, step := range migrations {
		if data.Meta.Version != step.from {
			continue
		}
		if err := step.apply(data); err != nil {
			return fmt.Errorf("migrating save from version %d: %w", step.from, err)
		}
		data.Meta.Version = step.from + 1
	}

	if data.Meta.Version != CurrentSaveVersion {
		return fmt.Errorf("%w: migration chain ended at version %d", domain.ErrSaveCorrupt, data.Meta.Version)
	}
	return validate(data)
}

// validate checks the required fields every upgraded snapshot must
// carry before it is handed to the game.
func validate(data *domain.SaveData) error {
	if data.Meta.ID == "" {
		return fmt.Errorf("%w: missing save id", domain.ErrSaveCorrupt)
	}
	if data.Game.Pet == nil {
		return fmt.Errorf("%w: missing pet record", domain.ErrSaveCorrupt)
	}
	if len(data.Collection.OwnedPets) == 0 {
		return fmt.Errorf("%w: empty pet collection", domain.ErrSaveCorrupt)
	}
	for _, slot := range data.Backpack.Items {
		if slot.Quantity <= 0 {
			return fmt.Errorf("%w: non-positive stack for item %d", domain.ErrSaveCorrupt, slot.ItemID)
		}
	}
	return nil
}
