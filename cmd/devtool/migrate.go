package main

import (
	"fmt"

	"github.com/aldwake/PetGrotto_Go/internal/config"
	"github.com/aldwake/PetGrotto_Go/internal/save"
)

// runMigrate applies the save-store schema migrations against the
// configured database.
func runMigrate() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := save.RunMigrations(cfg.GetDBConnString()); err != nil {
		return err
	}

	fmt.Println("Migrations applied")
	return nil
}
