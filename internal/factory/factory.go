package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/ecardgame/ecard-server/internal/dependencies/clock"
	"github.com/ecardgame/ecard-server/internal/dependencies/random"
	"github.com/ecardgame/ecard-server/internal/services/match"
	"github.com/ecardgame/ecard-server/internal/services/registry"
	"github.com/ecardgame/ecard-server/internal/storage"
	"github.com/ecardgame/ecard-server/internal/storage/memory"
	redisstorage "github.com/ecardgame/ecard-server/internal/storage/redis"
	"github.com/ecardgame/ecard-server/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	Storage storage.Storage

	Clock  clock.Clock
	Random random.Random

	MatchController    *match.Controller
	RegistryController *registry.Controller
	Hub                *ws.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	var store storage.Storage
	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), random.New(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	matchController := match.NewController(store, clk, logger)
	registryController := registry.NewController(store, matchController, clk, logger)
	hub := ws.NewHub(registryController, matchController, rnd, logger)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		MatchController:    matchController,
		RegistryController: registryController,
		Hub:                hub,
	}
}
