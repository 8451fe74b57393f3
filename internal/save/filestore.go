package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aldwake/PetGrotto_Go/internal/domain"
)

// FileStore keeps one JSON file per slot under a directory. Writes go
// to a temp file in the same directory and are renamed into place, so
// a crashed or failed write never corrupts the previous snapshot.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns the store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, SaveDirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(slot string) string {
	return filepath.Join(s.dir, slot+SaveFileExtension)
}

// Load reads and decodes a slot's snapshot.
func (s *FileStore) Load(_ context.Context, slot string) (*domain.SaveData, error) {
	if !ValidSlot(slot) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidSaveSlot, slot)
	}

	raw, err := os.ReadFile(s.path(slot))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: slot %s", domain.ErrSaveNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save file: %w", err)
	}

	var data domain.SaveData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSaveCorrupt, err)
	}
	return &data, nil
}

// Save writes a slot's snapshot atomically.
func (s *FileStore) Save(_ context.Context, slot string, data *domain.SaveData) error {
	if !ValidSlot(slot) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidSaveSlot, slot)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode save data: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, slot+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp save file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write save data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp save file: %w", err)
	}
	if err := os.Chmod(tmpName, SaveFilePermissions); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set save file permissions: %w", err)
	}

	if err := os.Rename(tmpName, s.path(slot)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace save file: %w", err)
	}
	return nil
}

// Delete removes a slot's snapshot. Deleting an empty slot is an
// ErrSaveNotFound, matching Load.
func (s *FileStore) Delete(_ context.Context, slot string) error {
	if !ValidSlot(slot) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidSaveSlot, slot)
	}
	err := os.Remove(s.path(slot))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: slot %s", domain.ErrSaveNotFound, slot)
	}
	if err != nil {
		return fmt.Errorf("failed to delete save file: %w", err)
	}
	return nil
}

// List returns metadata for every occupied slot in display order.
// Unreadable slots are skipped rather than failing the whole listing.
func (s *FileStore) List(ctx context.Context) ([]domain.SaveMeta, error) {
	out := make([]domain.SaveMeta, 0, len(Slots()))
	for _, slot := range Slots() {
		data, err := s.Load(ctx, slot)
		if err != nil {
			continue
		}
		out = append(out, data.Meta)
	}
	return out, nil
}
