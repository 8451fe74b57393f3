package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldwake/PetGrotto_Go/internal/domain"
	"github.com/aldwake/PetGrotto_Go/internal/save"
)

func newSaveRouter(t *testing.T, f *fixture) chi.Router {
	t.Helper()

	store, err := save.NewFileStore(t.TempDir())
	require.NoError(t, err)
	saves := save.NewService(store, f.svc, f.clock, nil, nil)

	h := NewSaveHandler(saves)
	r := chi.NewRouter()
	r.Get("/saves", h.HandleListSlots)
	r.Route("/saves/{slot}", func(r chi.Router) {
		r.Post("/", h.HandleSaveSlot)
		r.Post("/load", h.HandleLoadSlot)
		r.Delete("/", h.HandleDeleteSlot)
		r.Get("/export", h.HandleExportSlot)
		r.Post("/import", h.HandleImportSlot)
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSaveHandler_SaveLoadRoundTrip(t *testing.T) {
	f := newFixture(t)
	r := newSaveRouter(t, f)

	rec := doJSON(t, r, http.MethodPost, "/saves/slot1", SaveSlotRequest{Name: "Before the hunt"})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeBody[struct {
		Data domain.SaveMeta `json:"data"`
	}](t, rec)
	assert.Equal(t, "Before the hunt", resp.Data.Name)
	assert.Equal(t, save.CurrentSaveVersion, resp.Data.Version)

	rec = doJSON(t, r, http.MethodPost, "/saves/slot1/load", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSaveHandler_InvalidSlot(t *testing.T) {
	f := newFixture(t)
	r := newSaveRouter(t, f)

	rec := doJSON(t, r, http.MethodPost, "/saves/basement", SaveSlotRequest{Name: "nope"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, ErrMsgInvalidSlotError, resp.Error)
}

func TestSaveHandler_LoadMissingSlot(t *testing.T) {
	f := newFixture(t)
	r := newSaveRouter(t, f)

	rec := doJSON(t, r, http.MethodPost, "/saves/slot2/load", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveHandler_ExportImportRoundTrip(t *testing.T) {
	f := newFixture(t)
	r := newSaveRouter(t, f)

	rec := doJSON(t, r, http.MethodPost, "/saves/slot1", SaveSlotRequest{Name: "Exported"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/saves/slot1/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "slot1.json")
	exported := rec.Body.Bytes()

	req := httptest.NewRequest(http.MethodPost, "/saves/slot3/import", bytes.NewReader(exported))
	importRec := httptest.NewRecorder()
	r.ServeHTTP(importRec, req)
	require.Equal(t, http.StatusCreated, importRec.Code)

	rec = doJSON(t, r, http.MethodGet, "/saves", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[SlotListResponse](t, rec)
	assert.Len(t, list.Slots, 2)
}

func TestSaveHandler_ImportGarbage(t *testing.T) {
	f := newFixture(t)
	r := newSaveRouter(t, f)

	req := httptest.NewRequest(http.MethodPost, "/saves/slot1/import", bytes.NewReader([]byte("not a save")))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, ErrMsgSaveCorruptError, resp.Error)
}

func TestSaveHandler_DeleteSlot(t *testing.T) {
	f := newFixture(t)
	r := newSaveRouter(t, f)

	rec := doJSON(t, r, http.MethodPost, "/saves/slot1", SaveSlotRequest{Name: "Doomed"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodDelete, "/saves/slot1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/saves/slot1/load", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
