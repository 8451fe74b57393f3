package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aldwake/PetGrotto_Go/internal/config"
	"github.com/aldwake/PetGrotto_Go/internal/event"
	"github.com/aldwake/PetGrotto_Go/internal/logger"
	"github.com/aldwake/PetGrotto_Go/internal/metrics"
)

// InitializeEventSystem creates the event bus wrapped in a resilient
// publisher, with the dead-letter file under the data directory, and
// registers the metrics collector on it. Services publish through the
// returned bus so a failing subscriber never fails gameplay.
func InitializeEventSystem(cfg *config.Config) (event.Bus, error) {
	deadLetterPath := filepath.Join(cfg.DataDir, DeadLetterFileName)
	if err := os.MkdirAll(filepath.Dir(deadLetterPath), DirPermission); err != nil {
		return nil, fmt.Errorf("failed to create dead-letter directory: %w", err)
	}

	publisher := event.NewResilientPublisher(event.NewMemoryBus(), event.ResilientConfig{
		MaxRetries:     EventDefaultMaxRetries,
		RetryDelay:     EventDefaultRetryDelay,
		DeadLetterPath: deadLetterPath,
	})

	metrics.NewEventMetricsCollector().Register(publisher)

	logger.Info(LogMsgEventSystemInitialized,
		"max_retries", EventDefaultMaxRetries,
		"retry_delay", EventDefaultRetryDelay,
		"deadletter_path", deadLetterPath)

	return publisher, nil
}
