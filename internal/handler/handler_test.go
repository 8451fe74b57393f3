package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldwake/PetGrotto_Go/internal/buff"
	"github.com/aldwake/PetGrotto_Go/internal/catalog"
	"github.com/aldwake/PetGrotto_Go/internal/game"
	"github.com/aldwake/PetGrotto_Go/internal/inventory"
	"github.com/aldwake/PetGrotto_Go/internal/outdoor"
	"github.com/aldwake/PetGrotto_Go/internal/pet"
	"github.com/aldwake/PetGrotto_Go/internal/utils"
)

const (
	magicCookieID  = 1
	combatRationID = 8
	rarePotionID   = 22
	catFragmentID  = 101
)

type fixture struct {
	svc    *game.Service
	ledger *inventory.Ledger
	pets   *pet.Collection
	cat    *catalog.Catalog
	clock  *clockwork.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cat, err := catalog.Load("../../configs")
	require.NoError(t, err)

	clock := clockwork.NewFakeClock()
	ledger := inventory.NewLedger(clock)
	pets := pet.NewCollection(cat, clock)
	buffs := buff.NewRegistry()

	svc := game.NewService(cat, ledger, pets, buffs, nil, nil, clock)
	resolver := outdoor.NewResolver(cat, ledger, pets, buffs, svc, nil, nil, clock, utils.NewRand(1))
	svc.AttachResolver(resolver)

	require.NoError(t, svc.NewGame(context.Background()))
	return &fixture{svc: svc, ledger: ledger, pets: pets, cat: cat, clock: clock}
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandleGetGame(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	HandleGetGame(f.svc)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/game", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeBody[GameStateResponse](t, rec)
	assert.Equal(t, game.StartingMoney, state.Currency)
	assert.Empty(t, state.ActiveBuffs)
}

func TestHandleBuyItem(t *testing.T) {
	f := newFixture(t)

	rec := postJSON(t, HandleBuyItem(f.svc), "/api/v1/shop/buy", BuyItemRequest{ItemID: magicCookieID, Quantity: 2})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, f.ledger.Count(magicCookieID))
}

func TestHandleBuyItem_Overdraft(t *testing.T) {
	f := newFixture(t)

	// Two rare potions cost more than the starting purse.
	rec := postJSON(t, HandleBuyItem(f.svc), "/api/v1/shop/buy", BuyItemRequest{ItemID: rarePotionID, Quantity: 2})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, ErrMsgNotEnoughMoneyError, resp.Error)
	assert.Equal(t, game.StartingMoney, f.svc.Money())
}

func TestHandleBuyItem_RejectsInvalidBody(t *testing.T) {
	f := newFixture(t)

	rec := postJSON(t, HandleBuyItem(f.svc), "/api/v1/shop/buy", BuyItemRequest{ItemID: magicCookieID})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ValidationErrorResponse](t, rec)
	assert.Contains(t, resp.Fields, "quantity")
}

func TestHandleUseItem_UnknownItem(t *testing.T) {
	f := newFixture(t)

	rec := postJSON(t, HandleUseItem(f.svc), "/api/v1/items/use", UseItemRequest{ItemID: 9999})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, ErrMsgItemNotFoundError, resp.Error)
}

func TestPetHandler_FeedRejectsNonFood(t *testing.T) {
	f := newFixture(t)
	h := NewPetHandler(f.svc, f.pets, f.cat)

	rec := postJSON(t, h.HandleFeedPet, "/api/v1/pet/feed", FeedPetRequest{ItemID: combatRationID})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, f.ledger.Count(combatRationID))
}

func TestPetHandler_FeedUpdatesPet(t *testing.T) {
	f := newFixture(t)
	h := NewPetHandler(f.svc, f.pets, f.cat)

	require.NoError(t, f.pets.AdjustStats(-30, 0, 0))
	before, err := f.pets.Active()
	require.NoError(t, err)

	rec := postJSON(t, h.HandleFeedPet, "/api/v1/pet/feed", FeedPetRequest{ItemID: magicCookieID})

	require.Equal(t, http.StatusOK, rec.Code)
	after, err := f.pets.Active()
	require.NoError(t, err)
	assert.Greater(t, after.Hunger, before.Hunger)
	assert.Equal(t, 2, f.ledger.Count(magicCookieID))
}

func TestPetHandler_SetActiveUnknownInstance(t *testing.T) {
	f := newFixture(t)
	h := NewPetHandler(f.svc, f.pets, f.cat)

	rec := postJSON(t, h.HandleSetActivePet, "/api/v1/pet/set-active", SetActivePetRequest{InstanceID: "nope"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPetHandler_GetCollection(t *testing.T) {
	f := newFixture(t)
	h := NewPetHandler(f.svc, f.pets, f.cat)

	rec := httptest.NewRecorder()
	h.HandleGetCollection(rec, httptest.NewRequest(http.MethodGet, "/api/v1/collection", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[CollectionResponse](t, rec)
	require.Len(t, resp.Pets, 1)
	assert.Equal(t, "cat", resp.Pets[0].PetType)
	assert.Equal(t, resp.Pets[0].InstanceID, resp.ActivePetID)
}

func TestHandleGetInventory(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	HandleGetInventory(f.ledger, f.cat)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[InventoryResponse](t, rec)
	require.NotEmpty(t, resp.Items)
	assert.Equal(t, magicCookieID, resp.Items[0].Item.ID)
	assert.Equal(t, 3, resp.Items[0].Quantity)
}

func TestHandleGetShop_ExcludesFragments(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	HandleGetShop(f.cat)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/shop", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[ShopResponse](t, rec)
	require.NotEmpty(t, resp.Items)
	for _, item := range resp.Items {
		assert.False(t, item.IsFragment(), "fragment %s should not be buyable", item.Key)
		assert.Greater(t, item.Price, 0)
	}
}
