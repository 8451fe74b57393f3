package handler

import (
	"net/http"

	"github.com/aldwake/PetGrotto_Go/internal/logger"
	"github.com/aldwake/PetGrotto_Go/internal/outdoor"
)

// OutdoorHandler groups the outdoor activity endpoints
type OutdoorHandler struct {
	resolver *outdoor.Resolver
}

// NewOutdoorHandler creates an outdoor handler.
func NewOutdoorHandler(resolver *outdoor.Resolver) *OutdoorHandler {
	return &OutdoorHandler{resolver: resolver}
}

// HandleSendToPlay sends the active pet to the play area
func (h *OutdoorHandler) HandleSendToPlay(w http.ResponseWriter, r *http.Request) {
	if err := h.resolver.SendToPlay(r.Context()); err != nil {
		logger.FromContext(r.Context()).Warn(ErrMsgOutdoorFailed, "area", outdoor.AreaPlay, "error", err)
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, h.resolver.State())
}

// HandleSendToHunt sends the active pet hunting
func (h *OutdoorHandler) HandleSendToHunt(w http.ResponseWriter, r *http.Request) {
	if err := h.resolver.SendToHunt(r.Context()); err != nil {
		logger.FromContext(r.Context()).Warn(ErrMsgOutdoorFailed, "area", outdoor.AreaHunt, "error", err)
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, h.resolver.State())
}

// RecallRequest names the area to recall from
type RecallRequest struct {
	Area string `json:"area" validate:"required,oneof=play hunt"`
}

// HandleRecall recalls the pet before its session resolves, forfeiting
// any pending rewards
func (h *OutdoorHandler) HandleRecall(w http.ResponseWriter, r *http.Request) {
	var req RecallRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Recall pet"); err != nil {
		return
	}

	if err := h.resolver.Recall(r.Context(), outdoor.Area(req.Area)); err != nil {
		logger.FromContext(r.Context()).Warn(ErrMsgOutdoorFailed, "area", req.Area, "error", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgSessionRecalled})
}

// HandleGetState returns the live outdoor session view
func (h *OutdoorHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.resolver.State())
}
