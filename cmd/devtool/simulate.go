package main

import (
	"flag"
	"fmt"
	"sort"

	"github.com/aldwake/PetGrotto_Go/internal/catalog"
	"github.com/aldwake/PetGrotto_Go/internal/outdoor"
	"github.com/aldwake/PetGrotto_Go/internal/synthesis"
	"github.com/aldwake/PetGrotto_Go/internal/utils"
)

// runSimulateSynthesis plays repeated synthesis attempts per recipe
// under a fixed seed and prints how often each outcome lands, including
// how much of the success mass the pity ramp contributes.
func runSimulateSynthesis(args []string) error {
	fs := flag.NewFlagSet("simulate-synthesis", flag.ExitOnError)
	seed := fs.Int64("seed", 1, "rng seed")
	trials := fs.Int("n", 10000, "number of attempts per recipe")
	configDir := fs.String("configs", "configs", "catalog directory")
	level := fs.Int("level", 1, "player level used for the rate bonus")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cat, err := catalog.Load(*configDir)
	if err != nil {
		return err
	}

	rng := utils.NewRand(*seed)

	fmt.Printf("%-20s %8s %9s %10s %12s\n", "recipe", "base", "observed", "pity hits", "max streak")
	for _, recipe := range cat.Recipes() {
		successes, pityHits, maxStreak := 0, 0, 0
		failStreak := 0
		for i := 0; i < *trials; i++ {
			rate := synthesis.SuccessRate(recipe, failStreak, *level)
			if synthesis.PityActive(recipe, failStreak) {
				pityHits++
			}
			if rng.Float64() < rate {
				successes++
				failStreak = 0
			} else {
				failStreak++
				if failStreak > maxStreak {
					maxStreak = failStreak
				}
			}
		}
		fmt.Printf("%-20s %7.0f%% %8.2f%% %10d %12d\n",
			recipe.Name,
			recipe.BaseSuccessRate*100,
			float64(successes)/float64(*trials)*100,
			pityHits,
			maxStreak)
	}
	return nil
}

// runSimulateHunt rolls the hunt outcome math under a fixed seed and
// prints the death rate, reward spread and drop frequency.
func runSimulateHunt(args []string) error {
	fs := flag.NewFlagSet("simulate-hunt", flag.ExitOnError)
	seed := fs.Int64("seed", 1, "rng seed")
	trials := fs.Int("n", 10000, "number of hunts")
	configDir := fs.String("configs", "configs", "catalog directory")
	deathChance := fs.Float64("death-chance", outdoor.BaseDeathChance, "effective death chance after passives and buffs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cat, err := catalog.Load(*configDir)
	if err != nil {
		return err
	}
	table, ok := cat.DropTable(catalog.DropSourceHunt)
	if !ok {
		return fmt.Errorf("no drop table for source %q", catalog.DropSourceHunt)
	}

	rng := utils.NewRand(*seed)

	deaths, drops, totalReward := 0, 0, 0
	minReward, maxReward := outdoor.HuntRewardMax, outdoor.HuntRewardMin
	dropCounts := make(map[string]int)

	for i := 0; i < *trials; i++ {
		if rng.Float64() < *deathChance {
			deaths++
		} else {
			reward := utils.RandomIntIn(rng, outdoor.HuntRewardMin, outdoor.HuntRewardMax)
			totalReward += reward
			if reward < minReward {
				minReward = reward
			}
			if reward > maxReward {
				maxReward = reward
			}
		}
		// Drop roll happens win or lose, same as a live hunt.
		if rng.Float64() < table.Chance {
			drops++
			total := 0
			for _, w := range table.Weights {
				total += w
			}
			remainder := rng.Intn(total)
			for _, fragmentType := range sortedKeys(table.Weights) {
				remainder -= table.Weights[fragmentType]
				if remainder < 0 {
					dropCounts[fragmentType]++
					break
				}
			}
		}
	}

	survived := *trials - deaths
	fmt.Printf("hunts:        %d (seed %d)\n", *trials, *seed)
	fmt.Printf("deaths:       %d (%.2f%%)\n", deaths, float64(deaths)/float64(*trials)*100)
	if survived > 0 {
		fmt.Printf("reward:       avg %.1f, range [%d, %d]\n", float64(totalReward)/float64(survived), minReward, maxReward)
	}
	fmt.Printf("drops:        %d (%.2f%%)\n", drops, float64(drops)/float64(*trials)*100)
	for _, fragmentType := range sortedKeys(table.Weights) {
		fmt.Printf("  %-10s %d\n", fragmentType, dropCounts[fragmentType])
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
