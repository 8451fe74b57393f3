package save

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldwake/PetGrotto_Go/internal/domain"
)

func samplePet() domain.Pet {
	return domain.Pet{
		InstanceID: "pet-1",
		PetType:    "cat",
		Name:       "Cat",
		Hunger:     80,
		Mood:       70,
		Health:     100,
		MaxHunger:  100,
		MaxMood:    100,
		MaxHealth:  100,
		Level:      1,
		Status:     domain.StatusIdle,
		IsAtHome:   true,
	}
}

func sampleData() domain.SaveData {
	p := samplePet()
	return domain.SaveData{
		Meta: domain.SaveMeta{
			ID:      "save-1",
			Name:    "Main",
			Version: CurrentSaveVersion,
		},
		Game: domain.SaveGame{
			Currency: 100,
			GameTime: 42,
			Pet:      &p,
		},
		Backpack: domain.SaveBackpack{
			Items: []domain.InventorySlot{{ItemID: 101, Quantity: 3}},
		},
		Collection: domain.SaveCollection{
			OwnedPets:   []domain.Pet{p},
			ActivePetID: p.InstanceID,
		},
	}
}

func TestMigrate_BackfillsCollectionFromV1(t *testing.T) {
	data := sampleData()
	data.Meta.Version = 1
	data.Collection = domain.SaveCollection{}

	require.NoError(t, Migrate(&data))

	assert.Equal(t, CurrentSaveVersion, data.Meta.Version)
	require.Len(t, data.Collection.OwnedPets, 1)
	assert.Equal(t, "cat", data.Collection.OwnedPets[0].PetType)
	assert.Equal(t, "pet-1", data.Collection.ActivePetID)
}

func TestMigrate_CurrentVersionPassesThrough(t *testing.T) {
	data := sampleData()
	require.NoError(t, Migrate(&data))
	assert.Equal(t, CurrentSaveVersion, data.Meta.Version)
}

func TestMigrate_RejectsFutureVersion(t *testing.T) {
	data := sampleData()
	data.Meta.Version = CurrentSaveVersion + 1

	err := Migrate(&data)
	assert.ErrorIs(t, err, domain.ErrSaveVersionTooNew)
}

func TestMigrate_RejectsCorruptSaves(t *testing.T) {
	t.Run("non-positive version", func(t *testing.T) {
		data := sampleData()
		data.Meta.Version = 0
		assert.ErrorIs(t, Migrate(&data), domain.ErrSaveCorrupt)
	})

	t.Run("missing pet", func(t *testing.T) {
		data := sampleData()
		data.Game.Pet = nil
		assert.ErrorIs(t, Migrate(&data), domain.ErrSaveCorrupt)
	})

	t.Run("missing save id", func(t *testing.T) {
		data := sampleData()
		data.Meta.ID = ""
		assert.ErrorIs(t, Migrate(&data), domain.ErrSaveCorrupt)
	})

	t.Run("zero quantity stack", func(t *testing.T) {
		data := sampleData()
		data.Backpack.Items[0].Quantity = 0
		assert.ErrorIs(t, Migrate(&data), domain.ErrSaveCorrupt)
	})
}

func TestFileStore_RoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	data := sampleData()
	require.NoError(t, store.Save(ctx, Slot1, &data))

	loaded, err := store.Load(ctx, Slot1)
	require.NoError(t, err)
	assert.Equal(t, data, *loaded)
}

func TestFileStore_MissingSlot(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Load(ctx, Slot2)
	assert.ErrorIs(t, err, domain.ErrSaveNotFound)

	err = store.Delete(ctx, Slot2)
	assert.ErrorIs(t, err, domain.ErrSaveNotFound)
}

func TestFileStore_RejectsUnknownSlot(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Load(ctx, "slot99")
	assert.ErrorIs(t, err, domain.ErrInvalidSaveSlot)

	data := sampleData()
	assert.ErrorIs(t, store.Save(ctx, "slot99", &data), domain.ErrInvalidSaveSlot)
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, Slot1+SaveFileExtension), []byte("{not json"), 0644))

	_, err = store.Load(context.Background(), Slot1)
	assert.ErrorIs(t, err, domain.ErrSaveCorrupt)
}

func TestFileStore_ListInSlotOrder(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	third := sampleData()
	third.Meta.ID = "save-3"
	require.NoError(t, store.Save(ctx, Slot3, &third))

	first := sampleData()
	require.NoError(t, store.Save(ctx, Slot1, &first))

	metas, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "save-1", metas[0].ID)
	assert.Equal(t, "save-3", metas[1].ID)
}

func TestFileStore_OverwriteReplacesContent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	data := sampleData()
	require.NoError(t, store.Save(ctx, Slot1, &data))

	data.Game.Currency = 999
	require.NoError(t, store.Save(ctx, Slot1, &data))

	loaded, err := store.Load(ctx, Slot1)
	require.NoError(t, err)
	assert.Equal(t, 999, loaded.Game.Currency)
}

type fakeGame struct {
	mu       sync.Mutex
	data     domain.SaveData
	restored *domain.SaveData
}

func (g *fakeGame) Snapshot() domain.SaveData {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.data
}

func (g *fakeGame) Restore(_ context.Context, data *domain.SaveData) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.restored = data
	return nil
}

func (g *fakeGame) lastRestored() *domain.SaveData {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.restored
}

func newServiceFixture(t *testing.T) (*Service, *fakeGame, *FileStore) {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	game := &fakeGame{data: sampleData()}
	svc := NewService(store, game, clockwork.NewFakeClock(), nil, nil)
	return svc, game, store
}

func TestService_SaveAndLoadSlot(t *testing.T) {
	svc, game, _ := newServiceFixture(t)
	ctx := context.Background()

	meta, err := svc.SaveToSlot(ctx, Slot1, "First Run")
	require.NoError(t, err)
	assert.Equal(t, "First Run", meta.Name)
	assert.Equal(t, CurrentSaveVersion, meta.Version)
	assert.NotEmpty(t, meta.ID)

	loaded, err := svc.LoadFromSlot(ctx, Slot1)
	require.NoError(t, err)
	assert.Equal(t, meta.ID, loaded.ID)
	require.NotNil(t, game.lastRestored())
	assert.Equal(t, 100, game.lastRestored().Game.Currency)
}

func TestService_OverwriteKeepsSlotIdentity(t *testing.T) {
	svc, _, _ := newServiceFixture(t)
	ctx := context.Background()

	first, err := svc.SaveToSlot(ctx, Slot2, "Run A")
	require.NoError(t, err)
	second, err := svc.SaveToSlot(ctx, Slot2, "Run B")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "Run B", second.Name)
}

func TestService_LoadMigratesOldSaves(t *testing.T) {
	svc, game, store := newServiceFixture(t)
	ctx := context.Background()

	old := sampleData()
	old.Meta.Version = 1
	old.Collection = domain.SaveCollection{}
	require.NoError(t, store.Save(ctx, Slot1, &old))

	meta, err := svc.LoadFromSlot(ctx, Slot1)
	require.NoError(t, err)
	assert.Equal(t, CurrentSaveVersion, meta.Version)
	require.NotNil(t, game.lastRestored())
	assert.Len(t, game.lastRestored().Collection.OwnedPets, 1)
}

func TestService_LoadRejectsFutureVersion(t *testing.T) {
	svc, game, store := newServiceFixture(t)
	ctx := context.Background()

	future := sampleData()
	future.Meta.Version = CurrentSaveVersion + 5
	require.NoError(t, store.Save(ctx, Slot1, &future))

	_, err := svc.LoadFromSlot(ctx, Slot1)
	assert.ErrorIs(t, err, domain.ErrSaveVersionTooNew)
	assert.Nil(t, game.lastRestored(), "a rejected save must not be restored")
}

type blockingStore struct {
	Store
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStore) Save(ctx context.Context, slot string, data *domain.SaveData) error {
	b.entered <- struct{}{}
	<-b.release
	return b.Store.Save(ctx, slot, data)
}

func TestService_RejectsConcurrentSaves(t *testing.T) {
	inner, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	store := &blockingStore{
		Store:   inner,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	game := &fakeGame{data: sampleData()}
	svc := NewService(store, game, clockwork.NewFakeClock(), nil, nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.SaveToSlot(ctx, Slot1, "Slow Save")
		done <- err
	}()

	<-store.entered
	_, err = svc.SaveToSlot(ctx, Slot2, "Too Eager")
	assert.ErrorIs(t, err, domain.ErrSaveInProgress)

	close(store.release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("first save never completed")
	}
}

func TestService_ExportImportRoundTrip(t *testing.T) {
	svc, _, _ := newServiceFixture(t)
	ctx := context.Background()

	_, err := svc.SaveToSlot(ctx, Slot1, "Exportable")
	require.NoError(t, err)

	raw, err := svc.ExportSlot(ctx, Slot1)
	require.NoError(t, err)

	var exported domain.SaveData
	require.NoError(t, json.Unmarshal(raw, &exported))
	assert.Equal(t, "Exportable", exported.Meta.Name)

	meta, err := svc.ImportSlot(ctx, Slot3, raw)
	require.NoError(t, err)
	assert.Equal(t, exported.Meta.ID, meta.ID)

	imported, err := svc.ExportSlot(ctx, Slot3)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(imported))
}

func TestService_ImportRejectsGarbage(t *testing.T) {
	svc, _, _ := newServiceFixture(t)
	ctx := context.Background()

	_, err := svc.ImportSlot(ctx, Slot1, []byte("{broken"))
	assert.ErrorIs(t, err, domain.ErrSaveCorrupt)

	_, err = svc.ImportSlot(ctx, "slot99", []byte("{}"))
	assert.ErrorIs(t, err, domain.ErrInvalidSaveSlot)
}

func TestService_ListSlots(t *testing.T) {
	svc, _, _ := newServiceFixture(t)
	ctx := context.Background()

	_, err := svc.SaveToSlot(ctx, Slot1, "One")
	require.NoError(t, err)
	_, err = svc.SaveToSlot(ctx, Slot3, "Three")
	require.NoError(t, err)

	metas, err := svc.ListSlots(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "One", metas[0].Name)
	assert.Equal(t, "Three", metas[1].Name)
}
