// Package app wires configuration, storage, cache and sources into a catalog service.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/tripcatalog/internal/cache"
	"github.com/neexbeast/tripcatalog/internal/catalog"
	"github.com/neexbeast/tripcatalog/internal/config"
	"github.com/neexbeast/tripcatalog/internal/destination"
	"github.com/neexbeast/tripcatalog/internal/itinerary"
	"github.com/neexbeast/tripcatalog/internal/source"
	"github.com/neexbeast/tripcatalog/internal/storage"
	"github.com/neexbeast/tripcatalog/migrations"
)

// Pinger reports backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App holds the long-lived dependencies of a process.
type App struct {
	Service     *catalog.Service
	Itineraries *storage.ItineraryRepository
	DB          Pinger
	// Redis is nil when no cache is configured.
	Redis Pinger

	pool  *pgxpool.Pool
	redis *redis.Client
}

// New connects to the store, applies migrations, optionally connects to the
// cache and assembles the service. Close releases the connections.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	pool, err := storage.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := storage.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	log.Info("migrations applied")

	a := &App{DB: pool, pool: pool}

	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		a.redis = client
		a.Redis = cache.Pinger{Client: client}
	} else {
		log.Info("REDIS_URL not set, slug cache disabled")
	}

	destRepo := storage.NewDestinationRepository(pool)
	a.Itineraries = storage.NewItineraryRepository(pool)

	svc, err := Assemble(cfg, log, destRepo, a.Itineraries, a.redis)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Service = svc
	return a, nil
}

// Close releases the store and cache connections.
func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

// Assemble builds the catalog service over already-constructed tables.
// When rdb is non-nil both tables are fronted by a slug cache.
func Assemble(cfg *config.Config, log *slog.Logger, dest *storage.DestinationRepository, itin *storage.ItineraryRepository, rdb *redis.Client) (*catalog.Service, error) {
	seed, err := loadDestinations(cfg.DestinationsSeed)
	if err != nil {
		return nil, err
	}

	deps := catalog.Deps{
		Log:          log,
		Destinations: destination.NewStaticSource(seed),
		Adapter:      source.NewElsewhereWithURL(cfg.ElsewhereBaseURL, cfg.HTTPTimeout, nil),
	}

	if rdb != nil {
		cachedDest := cache.NewCachedStore[*destination.Destination](dest,
			cache.NewSlugIndex(rdb, storage.DestinationsTable, cfg.CacheTTL), log)
		deps.DestinationStore = cachedDest
		deps.SlugStore = cachedDest
		deps.ItineraryStore = cache.NewCachedStore[*itinerary.Itinerary](itin,
			cache.NewSlugIndex(rdb, storage.ItinerariesTable, cfg.CacheTTL), log)
	} else {
		deps.DestinationStore = dest
		deps.SlugStore = dest
		deps.ItineraryStore = itin
	}

	return catalog.NewService(deps), nil
}

func loadDestinations(path string) ([]destination.Destination, error) {
	if path == "" {
		return nil, nil
	}
	items, err := destination.LoadSeed(path)
	if err != nil {
		return nil, fmt.Errorf("loading destination seed: %w", err)
	}
	return items, nil
}
