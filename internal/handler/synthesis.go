package handler

import (
	"net/http"

	"github.com/aldwake/PetGrotto_Go/internal/catalog"
	"github.com/aldwake/PetGrotto_Go/internal/domain"
	"github.com/aldwake/PetGrotto_Go/internal/logger"
	"github.com/aldwake/PetGrotto_Go/internal/synthesis"
)

// SynthesisHandler groups the synthesis session endpoints
type SynthesisHandler struct {
	engine  *synthesis.Engine
	catalog *catalog.Catalog
}

// NewSynthesisHandler creates a synthesis handler.
func NewSynthesisHandler(engine *synthesis.Engine, cat *catalog.Catalog) *SynthesisHandler {
	return &SynthesisHandler{engine: engine, catalog: cat}
}

// RecipeView is a recipe joined with its unlock state
type RecipeView struct {
	Recipe   *domain.Recipe `json:"recipe"`
	Unlocked bool           `json:"unlocked"`
}

// HandleGetRecipes lists every recipe with its unlock state
func (h *SynthesisHandler) HandleGetRecipes(w http.ResponseWriter, r *http.Request) {
	recipes := h.catalog.Recipes()
	views := make([]RecipeView, 0, len(recipes))
	for _, recipe := range recipes {
		unlocked, err := h.engine.IsUnlocked(recipe.ID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		views = append(views, RecipeView{Recipe: recipe, Unlocked: unlocked})
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: views})
}

// SelectRecipeRequest names the recipe for the next session
type SelectRecipeRequest struct {
	RecipeID int `json:"recipe_id" validate:"required,gt=0"`
}

// HandleSelectRecipe selects the recipe for the next synthesis
func (h *SynthesisHandler) HandleSelectRecipe(w http.ResponseWriter, r *http.Request) {
	var req SelectRecipeRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Select recipe"); err != nil {
		return
	}

	if err := h.engine.SelectRecipe(req.RecipeID); err != nil {
		respondServiceError(w, err)
		return
	}
	h.respondStatus(w)
}

// StageFragmentsRequest stages fragments into the session
type StageFragmentsRequest struct {
	FragmentType string `json:"fragment_type" validate:"required"`
	Quantity     int    `json:"quantity" validate:"required,gt=0"`
}

// HandleStageFragments moves fragments from the backpack into the slots
func (h *SynthesisHandler) HandleStageFragments(w http.ResponseWriter, r *http.Request) {
	var req StageFragmentsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Stage fragments"); err != nil {
		return
	}

	if _, err := h.engine.StageFragments(req.FragmentType, req.Quantity); err != nil {
		respondServiceError(w, err)
		return
	}
	h.respondStatus(w)
}

// UnstageFragmentsRequest returns staged fragments to the backpack
type UnstageFragmentsRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// HandleUnstageFragments returns staged fragments to the backpack
func (h *SynthesisHandler) HandleUnstageFragments(w http.ResponseWriter, r *http.Request) {
	var req UnstageFragmentsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Unstage fragments"); err != nil {
		return
	}

	h.engine.UnstageFragments(req.Quantity)
	h.respondStatus(w)
}

// StagePotionRequest stages the potion slot
type StagePotionRequest struct {
	Rarity string `json:"rarity" validate:"required,rarity"`
}

// HandleStagePotion stages a potion of the given rarity
func (h *SynthesisHandler) HandleStagePotion(w http.ResponseWriter, r *http.Request) {
	var req StagePotionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Stage potion"); err != nil {
		return
	}

	if err := h.engine.StagePotion(domain.Rarity(req.Rarity)); err != nil {
		respondServiceError(w, err)
		return
	}
	h.respondStatus(w)
}

// HandleUnstagePotion clears the potion slot
func (h *SynthesisHandler) HandleUnstagePotion(w http.ResponseWriter, r *http.Request) {
	h.engine.UnstagePotion()
	h.respondStatus(w)
}

// HandleAutoFill stages the selected recipe's materials from the backpack
func (h *SynthesisHandler) HandleAutoFill(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.AutoFill(); err != nil {
		respondServiceError(w, err)
		return
	}
	h.respondStatus(w)
}

// HandleClearSlots returns every staged material to the backpack
func (h *SynthesisHandler) HandleClearSlots(w http.ResponseWriter, r *http.Request) {
	h.engine.ClearSlots()
	h.respondStatus(w)
}

// HandleStart begins the timed synthesis sequence
func (h *SynthesisHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Start(r.Context()); err != nil {
		logger.FromContext(r.Context()).Warn(ErrMsgSynthesisFailed, "error", err)
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, SuccessResponse{Message: MsgSynthesisStarted})
}

// SynthesisStatusResponse is the live session view the client polls
// between SSE updates
type SynthesisStatusResponse struct {
	Phase         synthesis.Phase   `json:"phase"`
	SelectedID    int               `json:"selected_recipe_id,omitempty"`
	Slots         synthesis.Slots   `json:"slots"`
	SuccessRate   float64           `json:"success_rate,omitempty"`
	PityFailCount int               `json:"pity_fail_count"`
	PityThreshold int               `json:"pity_threshold,omitempty"`
	PityActive    bool              `json:"pity_active"`
	Result        *synthesis.Result `json:"result,omitempty"`
}

// HandleGetStatus returns the current session state
func (h *SynthesisHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	h.respondStatus(w)
}

// HandleGetResult returns the outcome of the last attempt
func (h *SynthesisHandler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	result := h.engine.Result()
	if result == nil {
		respondError(w, http.StatusNotFound, ErrMsgNoResultError)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleCloseResult acknowledges the result and returns to idle
func (h *SynthesisHandler) HandleCloseResult(w http.ResponseWriter, r *http.Request) {
	h.engine.CloseResult()
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgResultClosed})
}

// HandleReset abandons the session and returns staged materials
func (h *SynthesisHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.engine.Reset()
	h.respondStatus(w)
}

func (h *SynthesisHandler) respondStatus(w http.ResponseWriter) {
	resp := SynthesisStatusResponse{
		Phase:  h.engine.Phase(),
		Slots:  h.engine.StagedSlots(),
		Result: h.engine.Result(),
	}

	if recipe, err := h.engine.SelectedRecipe(); err == nil {
		resp.SelectedID = recipe.ID
		resp.PityThreshold = recipe.PityThreshold
		if rate, err := h.engine.CurrentSuccessRate(); err == nil {
			resp.SuccessRate = rate
		}
		if failCount, _, active, err := h.engine.PityStatus(); err == nil {
			resp.PityFailCount = failCount
			resp.PityActive = active
		}
	}

	respondJSON(w, http.StatusOK, resp)
}
