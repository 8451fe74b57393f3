package handler

import (
	"net/http"

	"github.com/aldwake/PetGrotto_Go/internal/catalog"
	"github.com/aldwake/PetGrotto_Go/internal/domain"
	"github.com/aldwake/PetGrotto_Go/internal/game"
	"github.com/aldwake/PetGrotto_Go/internal/logger"
	"github.com/aldwake/PetGrotto_Go/internal/pet"
)

// PetHandler groups the active-pet and collection endpoints
type PetHandler struct {
	game    *game.Service
	pets    *pet.Collection
	catalog *catalog.Catalog
}

// NewPetHandler creates a pet handler.
func NewPetHandler(svc *game.Service, pets *pet.Collection, cat *catalog.Catalog) *PetHandler {
	return &PetHandler{game: svc, pets: pets, catalog: cat}
}

// PetStatusResponse is the active pet with its type definition
type PetStatusResponse struct {
	Pet  domain.Pet      `json:"pet"`
	Type *domain.PetType `json:"type,omitempty"`
}

// HandleGetPet returns the active pet
func (h *PetHandler) HandleGetPet(w http.ResponseWriter, r *http.Request) {
	active, err := h.pets.Active()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := PetStatusResponse{Pet: *active}
	if def, err := h.catalog.PetType(active.PetType); err == nil {
		resp.Type = def
	}
	respondJSON(w, http.StatusOK, resp)
}

// CollectionResponse lists every owned pet
type CollectionResponse struct {
	Pets        []domain.Pet `json:"pets"`
	ActivePetID string       `json:"active_pet_id"`
}

// HandleGetCollection returns the owned pet collection
func (h *PetHandler) HandleGetCollection(w http.ResponseWriter, r *http.Request) {
	snap := h.pets.Snapshot()
	respondJSON(w, http.StatusOK, CollectionResponse{
		Pets:        snap.OwnedPets,
		ActivePetID: snap.ActivePetID,
	})
}

// SetActivePetRequest selects which owned pet is active
type SetActivePetRequest struct {
	InstanceID string `json:"instance_id" validate:"required"`
}

// HandleSetActivePet switches the active pet
func (h *PetHandler) HandleSetActivePet(w http.ResponseWriter, r *http.Request) {
	var req SetActivePetRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set active pet"); err != nil {
		return
	}

	if err := h.pets.SetActive(req.InstanceID); err != nil {
		logger.FromContext(r.Context()).Warn(ErrMsgSetActiveFailed, "instance_id", req.InstanceID, "error", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgPetActivated})
}

// FeedPetRequest names the food item to feed
type FeedPetRequest struct {
	ItemID int `json:"item_id" validate:"required,gt=0"`
}

// HandleFeedPet feeds the active pet with a food or mood item
func (h *PetHandler) HandleFeedPet(w http.ResponseWriter, r *http.Request) {
	var req FeedPetRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Feed pet"); err != nil {
		return
	}
	h.useItemOfKind(w, r, req.ItemID, func(item *domain.Item) bool {
		return item.Category == domain.CategoryFood || item.Category == domain.CategoryMood
	})
}

// ActivateItemRequest names the buff item to activate
type ActivateItemRequest struct {
	ItemID int `json:"item_id" validate:"required,gt=0"`
}

// HandleActivateItem activates a buff item before a hunt
func (h *PetHandler) HandleActivateItem(w http.ResponseWriter, r *http.Request) {
	var req ActivateItemRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Activate item"); err != nil {
		return
	}
	h.useItemOfKind(w, r, req.ItemID, func(item *domain.Item) bool {
		return item.Buff != nil
	})
}

// HandleRevivePet consumes a revive potion on the dead active pet
func (h *PetHandler) HandleRevivePet(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.ItemByKey(catalog.KeyRevivePotion)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.useItemOfKind(w, r, item.ID, func(*domain.Item) bool { return true })
}

// useItemOfKind checks the item against the route's category before
// delegating to the shared use-item path, so feeding with a combat
// ration fails the same way as feeding with an unknown item.
func (h *PetHandler) useItemOfKind(w http.ResponseWriter, r *http.Request, itemID int, accepts func(*domain.Item) bool) {
	item, err := h.catalog.Item(itemID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !accepts(item) {
		respondServiceError(w, domain.ErrInvalidInput)
		return
	}

	used, err := h.game.UseItem(r.Context(), itemID)
	if err != nil {
		logger.FromContext(r.Context()).Warn(ErrMsgUseItemFailed, "item_id", itemID, "error", err)
		respondServiceError(w, err)
		return
	}

	active, err := h.pets.Active()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Message string       `json:"message"`
		Item    *domain.Item `json:"item"`
		Pet     domain.Pet   `json:"pet"`
	}{
		Message: MsgItemUsedSuccess,
		Item:    used,
		Pet:     *active,
	})
}
