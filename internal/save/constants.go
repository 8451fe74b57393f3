package save

import "time"

// CurrentSaveVersion is the newest snapshot schema this build writes
// and the highest version it accepts on load.
const CurrentSaveVersion = 2

// Save slots: three manual slots plus the autosave slot.
const (
	SlotAutosave = "autosave"
	Slot1        = "slot1"
	Slot2        = "slot2"
	Slot3        = "slot3"
)

// File store settings
const (
	SaveFileExtension   = ".json"
	SaveFilePermissions = 0644
	SaveDirPermissions  = 0755
)

// Slot metadata cache settings
const (
	MetaCacheSize = 8
	MetaCacheTTL  = 30 * time.Second
)

// DefaultAutosaveName labels autosave snapshots in slot listings.
const DefaultAutosaveName = "Autosave"

// Notification messages
const (
	MsgSaveWritten = "Game saved"
	MsgSaveLoaded  = "Game loaded"
)

// Log message constants
const (
	LogMsgSaveWritten   = "Snapshot written"
	LogMsgSaveLoaded    = "Snapshot loaded"
	LogMsgSaveDeleted   = "Snapshot deleted"
	LogMsgSaveMigrated  = "Snapshot migrated"
	LogMsgSaveImported  = "Snapshot imported"
	LogMsgLoadFallback  = "Snapshot load failed, starting from defaults"
)
