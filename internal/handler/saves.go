package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aldwake/PetGrotto_Go/internal/domain"
	"github.com/aldwake/PetGrotto_Go/internal/logger"
	"github.com/aldwake/PetGrotto_Go/internal/save"
)

// Import payloads are full snapshots; anything larger is not a save.
const maxImportBytes = 1 << 20

// SaveHandler groups the save slot endpoints
type SaveHandler struct {
	saves *save.Service
}

// NewSaveHandler creates a save handler.
func NewSaveHandler(saves *save.Service) *SaveHandler {
	return &SaveHandler{saves: saves}
}

// SlotListResponse lists every slot with its metadata
type SlotListResponse struct {
	Slots []domain.SaveMeta `json:"slots"`
}

// HandleListSlots returns metadata for every occupied slot
func (h *SaveHandler) HandleListSlots(w http.ResponseWriter, r *http.Request) {
	metas, err := h.saves.ListSlots(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgListSavesFailed, "error", err)
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, SlotListResponse{Slots: metas})
}

// SaveSlotRequest carries the display name for a manual save
type SaveSlotRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

// HandleSaveSlot writes the current game state into a slot
func (h *SaveHandler) HandleSaveSlot(w http.ResponseWriter, r *http.Request) {
	slot, ok := h.slotParam(w, r)
	if !ok {
		return
	}

	var req SaveSlotRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Save slot"); err != nil {
		return
	}

	meta, err := h.saves.SaveToSlot(r.Context(), slot, req.Name)
	if err != nil {
		logger.FromContext(r.Context()).Warn(ErrMsgSaveFailed, "slot", slot, "error", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, DataResponse{Message: MsgSaveWritten, Data: meta})
}

// HandleLoadSlot restores the game state from a slot
func (h *SaveHandler) HandleLoadSlot(w http.ResponseWriter, r *http.Request) {
	slot, ok := h.slotParam(w, r)
	if !ok {
		return
	}

	meta, err := h.saves.LoadFromSlot(r.Context(), slot)
	if err != nil {
		logger.FromContext(r.Context()).Warn(ErrMsgLoadFailed, "slot", slot, "error", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Message: MsgSaveLoaded, Data: meta})
}

// HandleDeleteSlot removes a slot
func (h *SaveHandler) HandleDeleteSlot(w http.ResponseWriter, r *http.Request) {
	slot, ok := h.slotParam(w, r)
	if !ok {
		return
	}

	if err := h.saves.DeleteSlot(r.Context(), slot); err != nil {
		logger.FromContext(r.Context()).Warn(ErrMsgDeleteSaveFailed, "slot", slot, "error", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgSaveDeleted})
}

// HandleExportSlot downloads a slot as a JSON attachment
func (h *SaveHandler) HandleExportSlot(w http.ResponseWriter, r *http.Request) {
	slot, ok := h.slotParam(w, r)
	if !ok {
		return
	}

	raw, err := h.saves.ExportSlot(r.Context(), slot)
	if err != nil {
		logger.FromContext(r.Context()).Warn(ErrMsgExportSaveFailed, "slot", slot, "error", err)
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", slot+save.SaveFileExtension))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgExportSaveFailed, "slot", slot, "error", err)
	}
}

// HandleImportSlot uploads a snapshot into a slot. The imported save is
// migrated and validated but not loaded into the running game.
func (h *SaveHandler) HandleImportSlot(w http.ResponseWriter, r *http.Request) {
	slot, ok := h.slotParam(w, r)
	if !ok {
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}

	meta, err := h.saves.ImportSlot(r.Context(), slot, raw)
	if err != nil {
		logger.FromContext(r.Context()).Warn(ErrMsgImportSaveFailed, "slot", slot, "error", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, DataResponse{Message: MsgSaveImported, Data: meta})
}

func (h *SaveHandler) slotParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	slot := chi.URLParam(r, "slot")
	if !save.ValidSlot(slot) {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidSlotError)
		return "", false
	}
	return slot, true
}
