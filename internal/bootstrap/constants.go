package bootstrap

import "time"

// File system permissions
const (
	DirPermission = 0755
)

// Event system defaults
const (
	EventDefaultMaxRetries = 3
	EventDefaultRetryDelay = 500 * time.Millisecond
	DeadLetterFileName     = "deadletter.jsonl"
)

// Log messages
const (
	LogMsgEventSystemInitialized   = "Event system initialized"
	LogMsgCatalogLoaded            = "Catalog loaded"
	LogMsgSaveBackendReady         = "Save backend ready"
	LogMsgAutosaveRestored         = "Autosave restored"
	LogMsgStartedFreshGame         = "No autosave found, started a fresh game"
	LogMsgShuttingDownServer       = "Shutting down server"
	LogMsgServerForcedShutdown     = "Server forced to shutdown"
	LogMsgFinalAutosaveFailed      = "Final autosave failed"
	LogMsgServerStopped            = "Server stopped"
	LogMsgFailedCreateDataDir      = "failed to create data directory"
	LogMsgFailedConnectDatabase    = "failed to connect to database"
	LogMsgFailedRunMigrations      = "failed to run database migrations"
)
