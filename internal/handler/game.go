package handler

import (
	"net/http"

	"github.com/aldwake/PetGrotto_Go/internal/domain"
	"github.com/aldwake/PetGrotto_Go/internal/game"
	"github.com/aldwake/PetGrotto_Go/internal/logger"
)

// GameStateResponse is the summary of the running session
type GameStateResponse struct {
	Currency    int           `json:"currency"`
	GameTime    int64         `json:"game_time"`
	ActiveBuffs []domain.Buff `json:"active_buffs"`
}

// HandleGetGame returns the current session summary
func HandleGetGame(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := svc.Snapshot()
		respondJSON(w, http.StatusOK, GameStateResponse{
			Currency:    snap.Game.Currency,
			GameTime:    snap.Game.GameTime,
			ActiveBuffs: snap.Game.ActiveBuffs,
		})
	}
}

// HandleNewGame resets the world to the starting state
func HandleNewGame(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.NewGame(r.Context()); err != nil {
			logger.FromContext(r.Context()).Error(ErrMsgNewGameFailed, "error", err)
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, SuccessResponse{Message: MsgNewGameStarted})
	}
}

// BuyItemRequest represents the shop purchase request
type BuyItemRequest struct {
	ItemID   int `json:"item_id" validate:"required,gt=0"`
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// HandleBuyItem purchases a catalog item into the backpack
func HandleBuyItem(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BuyItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Buy item"); err != nil {
			return
		}

		if err := svc.BuyItem(r.Context(), req.ItemID, req.Quantity); err != nil {
			logger.FromContext(r.Context()).Warn(ErrMsgBuyItemFailed, "item_id", req.ItemID, "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{
			Message: MsgItemBoughtSuccess,
			Data:    map[string]int{"currency": svc.Money()},
		})
	}
}

// UseItemRequest represents the item activation request
type UseItemRequest struct {
	ItemID int `json:"item_id" validate:"required,gt=0"`
}

// UseItemResponse reports the consumed item
type UseItemResponse struct {
	Message string       `json:"message"`
	Item    *domain.Item `json:"item"`
}

// HandleUseItem consumes one unit of a backpack item. Food feeds the
// active pet, buff items activate their buff and the revive potion
// resurrects a dead pet.
func HandleUseItem(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UseItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Use item"); err != nil {
			return
		}

		item, err := svc.UseItem(r.Context(), req.ItemID)
		if err != nil {
			logger.FromContext(r.Context()).Warn(ErrMsgUseItemFailed, "item_id", req.ItemID, "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, UseItemResponse{
			Message: MsgItemUsedSuccess,
			Item:    item,
		})
	}
}
