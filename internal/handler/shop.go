package handler

import (
	"net/http"

	"github.com/aldwake/PetGrotto_Go/internal/catalog"
	"github.com/aldwake/PetGrotto_Go/internal/domain"
)

// ShopResponse lists the purchasable catalog
type ShopResponse struct {
	Items []*domain.Item `json:"items"`
}

// HandleGetShop returns every buyable item. Fragments are excluded;
// they only enter the backpack through drops and synthesis refunds.
func HandleGetShop(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := cat.Items()
		buyable := make([]*domain.Item, 0, len(items))
		for _, item := range items {
			if item.IsFragment() || item.Price <= 0 {
				continue
			}
			buyable = append(buyable, item)
		}
		respondJSON(w, http.StatusOK, ShopResponse{Items: buyable})
	}
}
