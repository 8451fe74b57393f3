package domain

// InventorySlot represents a single stacked entry in the ledger.
// The identity key for stacking is the catalog item ID; fragments use
// their per-type fragment item IDs so they stack by fragment type.
type InventorySlot struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}

// Inventory is the persisted stack list. A slot is removed the moment
// its quantity reaches zero; zero-quantity slots are never stored.
type Inventory struct {
	Slots      []InventorySlot `json:"slots"`
	LastUpdate int64           `json:"last_update,omitempty"`
}

// Clone returns a deep copy for snapshotting.
func (inv *Inventory) Clone() Inventory {
	out := Inventory{
		Slots:      make([]InventorySlot, len(inv.Slots)),
		LastUpdate: inv.LastUpdate,
	}
	copy(out.Slots, inv.Slots)
	return out
}
