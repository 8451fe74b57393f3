package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/aldwake/PetGrotto_Go/internal/buff"
	"github.com/aldwake/PetGrotto_Go/internal/catalog"
	"github.com/aldwake/PetGrotto_Go/internal/config"
	"github.com/aldwake/PetGrotto_Go/internal/domain"
	"github.com/aldwake/PetGrotto_Go/internal/game"
	"github.com/aldwake/PetGrotto_Go/internal/handler"
	"github.com/aldwake/PetGrotto_Go/internal/inventory"
	"github.com/aldwake/PetGrotto_Go/internal/logger"
	"github.com/aldwake/PetGrotto_Go/internal/notification"
	"github.com/aldwake/PetGrotto_Go/internal/outdoor"
	"github.com/aldwake/PetGrotto_Go/internal/pet"
	"github.com/aldwake/PetGrotto_Go/internal/save"
	"github.com/aldwake/PetGrotto_Go/internal/scheduler"
	"github.com/aldwake/PetGrotto_Go/internal/server"
	"github.com/aldwake/PetGrotto_Go/internal/synthesis"
	"github.com/aldwake/PetGrotto_Go/internal/utils"
	"github.com/aldwake/PetGrotto_Go/internal/worker"
)

// App holds the wired application and everything that needs a graceful
// shutdown.
type App struct {
	Server    *server.Server
	Saves     *save.Service
	Hub       *notification.Hub
	Scheduler *scheduler.Scheduler
	Pool      *worker.Pool
	dbPool    *pgxpool.Pool
}

// NewApp wires the full application from configuration: catalog,
// collections, services, save backend, background jobs and the HTTP
// server.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	cat, err := catalog.Load(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info(LogMsgCatalogLoaded, "dir", cfg.ConfigDir)

	if err := os.MkdirAll(cfg.DataDir, DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDataDir, err)
	}

	bus, err := InitializeEventSystem(cfg)
	if err != nil {
		return nil, err
	}

	clock := clockwork.NewRealClock()
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = clock.Now().UnixNano()
	}
	rng := utils.NewRand(seed)

	ledger := inventory.NewLedger(clock)
	pets := pet.NewCollection(cat, clock)
	buffs := buff.NewRegistry()

	hub := notification.NewHub()
	hub.Start()
	notifier := notification.NewService(hub)

	gameSvc := game.NewService(cat, ledger, pets, buffs, bus, notifier, clock)
	resolver := outdoor.NewResolver(cat, ledger, pets, buffs, gameSvc, bus, notifier, clock, rng)
	gameSvc.AttachResolver(resolver)
	engine := synthesis.NewEngine(cat, ledger, pets, bus, notifier, clock, rng)

	app := &App{Hub: hub}

	store, checker, err := app.openSaveStore(ctx, cfg)
	if err != nil {
		hub.Stop()
		return nil, err
	}
	saves := save.NewService(store, gameSvc, clock, bus, notifier)
	app.Saves = saves

	// Resume from the autosave when one exists; otherwise start fresh.
	if _, err := saves.LoadFromSlot(ctx, save.SlotAutosave); err != nil {
		if !errors.Is(err, domain.ErrSaveNotFound) {
			logger.Warn("Autosave could not be loaded, starting fresh", "error", err)
		} else {
			logger.Info(LogMsgStartedFreshGame)
		}
		if err := gameSvc.NewGame(ctx); err != nil {
			hub.Stop()
			return nil, fmt.Errorf("failed to start new game: %w", err)
		}
	} else {
		logger.Info(LogMsgAutosaveRestored)
	}

	pool := worker.NewPool(worker.DefaultWorkerCount, worker.DefaultQueueSize)
	pool.Start()
	sched := scheduler.New(pool, clock)
	sched.Schedule(cfg.DecayEvery, worker.JobFunc(func(ctx context.Context) error {
		gameSvc.TickMinute(ctx)
		return nil
	}))
	sched.Schedule(cfg.AutosaveEvery, worker.JobFunc(saves.Autosave))
	app.Pool = pool
	app.Scheduler = sched

	app.Server = server.NewServer(cfg.Port, nil, server.Services{
		Catalog:       cat,
		Ledger:        ledger,
		Pets:          pets,
		Game:          gameSvc,
		Synthesis:     engine,
		Outdoor:       resolver,
		Saves:         saves,
		Notifications: notifier,
		Hub:           hub,
		HealthChecker: checker,
	})

	return app, nil
}

// openSaveStore builds the configured save backend. The postgres
// backend runs its migrations before first use.
func (a *App) openSaveStore(ctx context.Context, cfg *config.Config) (save.Store, handler.HealthChecker, error) {
	if cfg.SaveBackend == "postgres" {
		connString := cfg.GetDBConnString()
		if err := save.RunMigrations(connString); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedRunMigrations, err)
		}

		dbPool, err := pgxpool.New(ctx, connString)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedConnectDatabase, err)
		}
		a.dbPool = dbPool

		store := save.NewPostgresStore(dbPool)
		logger.Info(LogMsgSaveBackendReady, "backend", cfg.SaveBackend)
		return store, store, nil
	}

	store, err := save.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open save directory: %w", err)
	}
	logger.Info(LogMsgSaveBackendReady, "backend", cfg.SaveBackend, "dir", cfg.DataDir)
	return store, nil, nil
}

// Shutdown stops the application in dependency order: the HTTP server
// first, then the background cadences, a final autosave, and last the
// notification hub and database pool.
func (a *App) Shutdown(ctx context.Context) {
	logger.Info(LogMsgShuttingDownServer)

	if err := a.Server.Stop(ctx); err != nil {
		logger.Error(LogMsgServerForcedShutdown, "error", err)
	}

	a.Scheduler.Stop()
	a.Pool.Stop()

	saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := a.Saves.Autosave(saveCtx); err != nil {
		logger.Error(LogMsgFinalAutosaveFailed, "error", err)
	}

	a.Hub.Stop()
	if a.dbPool != nil {
		a.dbPool.Close()
	}

	logger.Info(LogMsgServerStopped)
}
