package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain
// consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Operation error messages
	ErrMsgBuyItemFailed     = "Failed to buy item"
	ErrMsgUseItemFailed     = "Failed to use item"
	ErrMsgNewGameFailed     = "Failed to start a new game"
	ErrMsgSetActiveFailed   = "Failed to switch active pet"
	ErrMsgSynthesisFailed   = "Failed to run synthesis"
	ErrMsgOutdoorFailed     = "Failed to resolve outdoor action"
	ErrMsgSaveFailed        = "Failed to write save"
	ErrMsgLoadFailed        = "Failed to load save"
	ErrMsgDeleteSaveFailed  = "Failed to delete save"
	ErrMsgListSavesFailed   = "Failed to list saves"
	ErrMsgExportSaveFailed  = "Failed to export save"
	ErrMsgImportSaveFailed  = "Failed to import save"
)

// User-facing error messages derived from domain errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	ErrMsgItemNotFoundError     = "Item not found"
	ErrMsgInsufficientItemsErr  = "Not enough of that item"
	ErrMsgNotEnoughMoneyError   = "Not enough coins"
	ErrMsgPetNotFoundError      = "Pet not found"
	ErrMsgPetNotOwnedError      = "You don't own that pet"
	ErrMsgPetNotAtHomeError     = "Your pet is not at home"
	ErrMsgPetIsDeadError        = "Your pet has passed away"
	ErrMsgPetOutdoorsError      = "Your pet is already outdoors"
	ErrMsgRecipeNotFoundError   = "Recipe not found"
	ErrMsgRecipeLockedError     = "Recipe is locked. Collect its prerequisite pet first"
	ErrMsgNoRecipeSelectedError = "Select a recipe first"
	ErrMsgMaterialsMissingError = "Materials are not fully staged"
	ErrMsgSynthesisBusyError    = "A synthesis is already in progress"
	ErrMsgBuffActiveError       = "A buff of this type is already active"
	ErrMsgSessionActiveError    = "An outdoor session is already active"
	ErrMsgNoSessionError        = "No outdoor session to recall from"
	ErrMsgSaveNotFoundError     = "Save not found"
	ErrMsgSaveInProgressError   = "A save is already in progress"
	ErrMsgSaveCorruptError      = "Save data is corrupt"
	ErrMsgSaveTooNewError       = "Save was written by a newer version"
	ErrMsgInvalidSlotError      = "Invalid save slot"
	ErrMsgNoResultError         = "No synthesis result available"
)

// Success messages for API responses
const (
	MsgNewGameStarted    = "New game started"
	MsgItemUsedSuccess   = "Item used"
	MsgItemBoughtSuccess = "Item purchased"
	MsgPetActivated      = "Active pet switched"
	MsgSaveWritten       = "Game saved"
	MsgSaveLoaded        = "Game loaded"
	MsgSaveDeleted       = "Save deleted"
	MsgSaveImported      = "Save imported"
	MsgSynthesisStarted  = "Synthesis started"
	MsgResultClosed      = "Result acknowledged"
	MsgSessionRecalled   = "Pet recalled"
)
