package domain

// SaveMeta is the snapshot header. Version drives the migration chain:
// a save is migrated step by step up to the current version before use
// and rejected outright if its version exceeds the current one.
type SaveMeta struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Version   int    `json:"version"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
	PlayTime  int64  `json:"play_time"` // cumulative minutes
}

// SaveGame is the game-state section of a snapshot
type SaveGame struct {
	Currency    int    `json:"currency"`
	GameTime    int64  `json:"game_time"`
	Pet         *Pet   `json:"pet"`
	ActiveBuffs []Buff `json:"active_buffs"`
}

// OutdoorSessionSnapshot captures an in-progress outdoor session so a
// reload can resume or correctly cancel it
type OutdoorSessionSnapshot struct {
	Pet       *Pet  `json:"pet,omitempty"`
	StartedAt int64 `json:"started_at,omitempty"`
}

// SaveOutdoor is the outdoor section of a snapshot
type SaveOutdoor struct {
	Play OutdoorSessionSnapshot `json:"play"`
	Hunt OutdoorSessionSnapshot `json:"hunt"`
}

// SaveBackpack is the inventory section of a snapshot
type SaveBackpack struct {
	Items []InventorySlot `json:"items"`
}

// SaveCollection is the pet collection section of a snapshot. The
// active pet's live stats live in SaveGame.Pet; entries here hold the
// frozen stats of every owned pet.
type SaveCollection struct {
	OwnedPets   []Pet  `json:"owned_pets"`
	ActivePetID string `json:"active_pet_id"`
}

// SaveData is the full persisted snapshot exchanged with the
// persistence collaborator. JSON shape is the format-stable surface.
type SaveData struct {
	Meta       SaveMeta       `json:"meta"`
	Game       SaveGame       `json:"game"`
	Backpack   SaveBackpack   `json:"backpack"`
	Collection SaveCollection `json:"collection"`
	Outdoor    SaveOutdoor    `json:"outdoor"`
}
