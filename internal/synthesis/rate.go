package synthesis

import (
	"math"

	"github.com/aldwake/PetGrotto_Go/internal/domain"
)

// SuccessRate computes the final synthesis success rate for a recipe
// given the current fail count and player level.
//
// rate = base
//      + pityBonus * floor(failCount / pityThreshold)
//      + min((level - minLevel) * 0.02, 0.10)   (only above the minimum)
// capped at 0.95.
func SuccessRate(r *domain.Recipe, failCount, playerLevel int) float64 {
	rate := r.BaseSuccessRate

	if failCount >= r.PityThreshold {
		pityMultiplier := failCount / r.PityThreshold
		rate += r.PityBonus * float64(pityMultiplier)
	}

	if levelDiff := playerLevel - r.MinPlayerLevel; levelDiff > 0 {
		rate += math.Min(float64(levelDiff)*LevelBonusPerLevel, LevelBonusCap)
	}

	return math.Min(rate, MaxSuccessRate)
}

// PityActive reports whether the pity floor has been reached.
func PityActive(r *domain.Recipe, failCount int) bool {
	return failCount >= r.PityThreshold
}
