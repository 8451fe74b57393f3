package game

// StartingMoney is the wallet balance of a fresh game.
const StartingMoney = 100

// startingItem seeds the backpack of a fresh game.
type startingItem struct {
	itemID   int
	quantity int
}

// startingItems mirrors the starter kit handed out on a new game:
// some food, a hunt buff, a protective charm and a few fragments to
// try synthesis with.
var startingItems = []startingItem{
	{itemID: 1, quantity: 3},   // magic_cookie
	{itemID: 2, quantity: 2},   // rainbow_candy
	{itemID: 8, quantity: 1},   // combat_ration
	{itemID: 10, quantity: 1},  // amulet
	{itemID: 101, quantity: 5}, // cat_fragment
	{itemID: 102, quantity: 3}, // bird_fragment
}

// Notification messages
const (
	MsgItemBought    = "Bought %s"
	MsgItemUsed      = "Used %s"
	MsgBuffActivated = "%s is ready for the next hunt!"
	MsgPetRevived    = "Your pet came back to life!"
	MsgNewGame       = "A new adventure begins!"
)

// Log message constants
const (
	LogMsgItemBought   = "Item bought"
	LogMsgItemUsed     = "Item used"
	LogMsgGameRestored = "Game state restored"
	LogMsgNewGame      = "New game started"
)
