package save

import (
	"context"

	"github.com/aldwake/PetGrotto_Go/internal/domain"
)

// Store persists snapshots by slot. Implementations must make Save
// all-or-nothing: a failed write leaves any previous snapshot in the
// slot intact.
type Store interface {
	Load(ctx context.Context, slot string) (*domain.SaveData, error)
	Save(ctx context.Context, slot string, data *domain.SaveData) error
	Delete(ctx context.Context, slot string) error
	List(ctx context.Context) ([]domain.SaveMeta, error)
}

// Slots returns every valid slot name in display order.
func Slots() []string {
	return []string{Slot1, Slot2, Slot3, SlotAutosave}
}

// ValidSlot reports whether the slot name is one of the fixed slots.
func ValidSlot(slot string) bool {
	switch slot {
	case Slot1, Slot2, Slot3, SlotAutosave:
		return true
	default:
		return false
	}
}
