package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aldwake/PetGrotto_Go/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Encode to a pooled buffer first so a marshal failure cannot
	// leave a half-written body behind.
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError maps a service error to a user-facing HTTP response
func respondServiceError(w http.ResponseWriter, err error) {
	status, message := mapServiceErrorToUserMessage(err)
	respondError(w, status, message)
}

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// status codes and messages.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusBadRequest, ErrMsgItemNotFoundError
	case errors.Is(err, domain.ErrInsufficientQuantity):
		return http.StatusBadRequest, ErrMsgInsufficientItemsErr
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrMsgNotEnoughMoneyError
	case errors.Is(err, domain.ErrPetNotFound):
		return http.StatusBadRequest, ErrMsgPetNotFoundError
	case errors.Is(err, domain.ErrPetNotOwned):
		return http.StatusBadRequest, ErrMsgPetNotOwnedError
	case errors.Is(err, domain.ErrPetNotAtHome):
		return http.StatusConflict, ErrMsgPetNotAtHomeError
	case errors.Is(err, domain.ErrPetIsDead):
		return http.StatusConflict, ErrMsgPetIsDeadError
	case errors.Is(err, domain.ErrPetOutdoors):
		return http.StatusConflict, ErrMsgPetOutdoorsError
	case errors.Is(err, domain.ErrRecipeNotFound):
		return http.StatusBadRequest, ErrMsgRecipeNotFoundError
	case errors.Is(err, domain.ErrRecipeLocked):
		return http.StatusForbidden, ErrMsgRecipeLockedError
	case errors.Is(err, domain.ErrNoRecipeSelected):
		return http.StatusBadRequest, ErrMsgNoRecipeSelectedError
	case errors.Is(err, domain.ErrMaterialsNotStaged):
		return http.StatusBadRequest, ErrMsgMaterialsMissingError
	case errors.Is(err, domain.ErrFragmentTypeMismatch):
		return http.StatusBadRequest, ErrMsgMaterialsMissingError
	case errors.Is(err, domain.ErrPotionMismatch):
		return http.StatusBadRequest, ErrMsgMaterialsMissingError
	case errors.Is(err, domain.ErrSynthesisInProgress):
		return http.StatusConflict, ErrMsgSynthesisBusyError
	case errors.Is(err, domain.ErrBuffAlreadyActive):
		return http.StatusConflict, ErrMsgBuffActiveError
	case errors.Is(err, domain.ErrSessionActive):
		return http.StatusConflict, ErrMsgSessionActiveError
	case errors.Is(err, domain.ErrNoActiveSession):
		return http.StatusConflict, ErrMsgNoSessionError
	case errors.Is(err, domain.ErrSaveNotFound):
		return http.StatusNotFound, ErrMsgSaveNotFoundError
	case errors.Is(err, domain.ErrSaveInProgress):
		return http.StatusConflict, ErrMsgSaveInProgressError
	case errors.Is(err, domain.ErrSaveCorrupt):
		return http.StatusBadRequest, ErrMsgSaveCorruptError
	case errors.Is(err, domain.ErrSaveVersionTooNew):
		return http.StatusBadRequest, ErrMsgSaveTooNewError
	case errors.Is(err, domain.ErrInvalidSaveSlot):
		return http.StatusBadRequest, ErrMsgInvalidSlotError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestSummary
	case errors.Is(err, domain.ErrInvariant):
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
