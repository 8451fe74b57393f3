package synthesis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aldwake/PetGrotto_Go/internal/domain"
)

func baseRecipe() *domain.Recipe {
	return &domain.Recipe{
		ID:              1,
		BaseSuccessRate: 0.7,
		PityThreshold:   3,
		PityBonus:       0.1,
		MinPlayerLevel:  1,
	}
}

func TestSuccessRate_BoundsAndMonotonicity(t *testing.T) {
	r := baseRecipe()

	prevByFail := 0.0
	for fail := 0; fail <= 30; fail++ {
		rate := SuccessRate(r, fail, 1)
		assert.GreaterOrEqual(t, rate, r.BaseSuccessRate)
		assert.LessOrEqual(t, rate, MaxSuccessRate)
		assert.GreaterOrEqual(t, rate, prevByFail, "rate must not decrease as failures accumulate")
		prevByFail = rate
	}

	prevByLevel := 0.0
	for level := 1; level <= 20; level++ {
		rate := SuccessRate(r, 0, level)
		assert.GreaterOrEqual(t, rate, r.BaseSuccessRate)
		assert.LessOrEqual(t, rate, MaxSuccessRate)
		assert.GreaterOrEqual(t, rate, prevByLevel, "rate must not decrease with level")
		prevByLevel = rate
	}
}

func TestSuccessRate_PityScenario(t *testing.T) {
	r := baseRecipe()

	// {base 0.7, threshold 3, bonus 0.1} with three failures at the
	// minimum level lands exactly on 0.80.
	assert.InDelta(t, 0.80, SuccessRate(r, 3, 1), 1e-9)

	// Below the threshold the pity bonus does not apply.
	assert.InDelta(t, 0.70, SuccessRate(r, 2, 1), 1e-9)
}

func TestSuccessRate_PityCompounds(t *testing.T) {
	r := baseRecipe()

	// Two full pity cycles apply the bonus twice (0.7 + 0.2 = 0.9).
	oneCycle := SuccessRate(r, r.PityThreshold, 1)
	twoCycles := SuccessRate(r, 2*r.PityThreshold, 1)
	assert.InDelta(t, 2*r.PityBonus, twoCycles-r.BaseSuccessRate, 1e-9)
	assert.InDelta(t, r.PityBonus, twoCycles-oneCycle, 1e-9)
}

func TestSuccessRate_LevelBonusClamped(t *testing.T) {
	r := baseRecipe()

	// +2% per level above the minimum.
	assert.InDelta(t, 0.74, SuccessRate(r, 0, 3), 1e-9)
	// Bonus caps at +10%.
	assert.InDelta(t, 0.80, SuccessRate(r, 0, 30), 1e-9)
	// Levels below the minimum grant nothing.
	assert.InDelta(t, 0.70, SuccessRate(r, 0, 0), 1e-9)
}

func TestSuccessRate_Cap(t *testing.T) {
	r := baseRecipe()
	assert.InDelta(t, MaxSuccessRate, SuccessRate(r, 100, 50), 1e-9)
}

func TestPityActive(t *testing.T) {
	r := baseRecipe()
	assert.False(t, PityActive(r, 2))
	assert.True(t, PityActive(r, 3))
	assert.True(t, PityActive(r, 7))
}
