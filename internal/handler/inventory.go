package handler

import (
	"net/http"

	"github.com/aldwake/PetGrotto_Go/internal/catalog"
	"github.com/aldwake/PetGrotto_Go/internal/domain"
	"github.com/aldwake/PetGrotto_Go/internal/inventory"
)

// InventoryEntry is a backpack stack joined with its catalog item
type InventoryEntry struct {
	Item     *domain.Item `json:"item"`
	Quantity int          `json:"quantity"`
}

// InventoryResponse is the full backpack listing
type InventoryResponse struct {
	Items []InventoryEntry `json:"items"`
}

// HandleGetInventory returns the backpack contents in acquisition order
func HandleGetInventory(ledger *inventory.Ledger, cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slots := ledger.SortedSnapshot()
		entries := make([]InventoryEntry, 0, len(slots))
		for _, slot := range slots {
			item, err := cat.Item(slot.ItemID)
			if err != nil {
				// A stack with no catalog entry is unusable; hide it
				// rather than failing the whole listing.
				continue
			}
			entries = append(entries, InventoryEntry{Item: item, Quantity: slot.Quantity})
		}
		respondJSON(w, http.StatusOK, InventoryResponse{Items: entries})
	}
}
