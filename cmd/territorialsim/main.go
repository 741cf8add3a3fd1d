// Command territorialsim runs the territorial conquest simulation: it
// generates (or loads from cache) a world map, spawns actors onto it, and
// drives the tick scheduler that advances the game and broadcasts its state.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/brindlefield/territorial/internal/cache"
	"github.com/brindlefield/territorial/internal/game"
	"github.com/brindlefield/territorial/internal/scheduler"
	"github.com/brindlefield/territorial/internal/wire"
	"github.com/brindlefield/territorial/internal/worldmap"
	"github.com/brindlefield/territorial/internal/worldmap/citygaz"
)

// Config is assembled in main from environment variables, following the flat
// env-var-driven approach cmd/worldsim/main.go uses rather than a config file
// or a flags library.
type Config struct {
	Width, Height int
	NumActors     int
	Seed          int64
	CachePath     string
	MemCacheSize  int
	GazetteerPath string // empty uses the embedded gazetteer
	LogInterval   time.Duration
	Rasters       worldmap.RasterPaths // empty fields fall back to synthetic generation
}

func loadConfig() Config {
	cfg := Config{
		Width:        1200,
		Height:       800,
		NumActors:    250,
		Seed:         42,
		CachePath:    "data/worldmap_cache.db",
		MemCacheSize: 8,
		LogInterval:  60 * time.Second,
	}

	if v := os.Getenv("GAME_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Width = n
		}
	}
	if v := os.Getenv("GAME_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Height = n
		}
	}
	if v := os.Getenv("NUM_SQUARES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.NumActors = n
		}
	}
	if v := os.Getenv("TERRITORIAL_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v := os.Getenv("TERRITORIAL_CACHE_PATH"); v != "" {
		cfg.CachePath = v
	}
	if v := os.Getenv("TERRITORIAL_GAZETTEER_PATH"); v != "" {
		cfg.GazetteerPath = v
	}
	cfg.Rasters = worldmap.RasterPaths{
		Elevation: os.Getenv("TERRITORIAL_RASTER_ELEVATION_PATH"),
		Rainfall:  os.Getenv("TERRITORIAL_RASTER_RAINFALL_PATH"),
		Lon:       os.Getenv("TERRITORIAL_RASTER_LON_PATH"),
		Lat:       os.Getenv("TERRITORIAL_RASTER_LAT_PATH"),
	}
	return cfg
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("territorial conquest simulation starting")

	cfg := loadConfig()

	// ── Gazetteer ─────────────────────────────────────────────────────
	gaz, err := citygaz.Load(cfg.GazetteerPath)
	if err != nil {
		slog.Error("failed to load city gazetteer", "error", err, "path", cfg.GazetteerPath)
		os.Exit(1)
	}
	if cfg.GazetteerPath == "" {
		slog.Info("TERRITORIAL_GAZETTEER_PATH not set — using embedded gazetteer")
	}

	// ── World map ─────────────────────────────────────────────────────
	// A configured raster asset that can't be loaded is fatal at startup
	// (§7): unlike the cache below, which regenerates on any fault, a raster
	// path the operator explicitly set is a required asset, not an
	// optimization, so a load failure here aborts rather than falls back.
	var worldMap *worldmap.Map
	if cfg.Rasters.Configured() {
		slog.Info("loading world map from configured rasters")
		worldMap, err = worldmap.GenerateFromRasters(worldmap.DefaultGenConfig(cfg.Width, cfg.Height, cfg.Seed), cfg.Rasters)
		if err != nil {
			slog.Error("required raster asset missing or unreadable", "error", err)
			os.Exit(1)
		}
	} else {
		os.MkdirAll("data", 0755)
		worldCache, err := cache.Open(cfg.CachePath, cfg.MemCacheSize)
		if err != nil {
			slog.Error("failed to open world map cache", "error", err, "path", cfg.CachePath)
			os.Exit(1)
		}
		defer worldCache.Close()

		hit := false
		worldMap, hit, err = worldCache.Get(cfg.Width, cfg.Height, cfg.Seed)
		if err != nil {
			slog.Warn("world map cache load failed, regenerating", "error", err)
		}
		if !hit {
			slog.Info("generating world map", "width", cfg.Width, "height", cfg.Height, "seed", cfg.Seed)
			worldMap = worldmap.Generate(worldmap.DefaultGenConfig(cfg.Width, cfg.Height, cfg.Seed))
			if err := worldCache.Put(cfg.Width, cfg.Height, cfg.Seed, worldMap); err != nil {
				slog.Warn("failed to save generated world map to cache", "error", err)
			}
		} else {
			slog.Info("world map loaded from cache", "width", cfg.Width, "height", cfg.Height, "seed", cfg.Seed)
		}
	}

	// ── Game ──────────────────────────────────────────────────────────
	g := game.New(worldMap, cfg.NumActors, cfg.Seed, gaz)
	slog.Info("game initialized", "actors", len(g.Actors()), "width", worldMap.Width, "height", worldMap.Height)

	// ── Broadcasters ──────────────────────────────────────────────────
	gridBroadcaster := scheduler.NewBroadcaster()
	squareInfoBroadcaster := scheduler.NewBroadcaster()
	boatBroadcaster := scheduler.NewBroadcaster()

	// logSubscriber below is an example Subscriber: it logs every message it
	// receives. Real transports (WebSocket, SSE) implement the same
	// interface and Subscribe (or SubscribeAndSend) themselves on connect.
	mapMsg, err := wire.NewMapMessage(worldMap.RGBA())
	if err != nil {
		slog.Error("failed to encode initial map message", "error", err)
		os.Exit(1)
	}
	mapData, err := wire.Marshal(mapMsg)
	if err != nil {
		slog.Error("failed to marshal initial map message", "error", err)
		os.Exit(1)
	}
	gridBroadcaster.SubscribeAndSend(logSubscriber{name: "grid_update"}, mapData)
	squareInfoBroadcaster.Subscribe(logSubscriber{name: "square_info"})
	boatBroadcaster.Subscribe(logSubscriber{name: "boats"})

	// ── Scheduler ─────────────────────────────────────────────────────
	tasks := []scheduler.Task{
		{Name: "attack_movements", Period: 100 * time.Millisecond, Run: g.UpdateAttackMovements},
		{Name: "resources", Period: 100 * time.Millisecond, Run: g.UpdateResources},
		{Name: "centers_of_mass", Period: 2 * time.Second, Run: g.UpdateCentersOfMass},
		{Name: "new_attack_movements", Period: 2 * time.Second, Run: g.GetNewAttackMovements},
		{Name: "square_areas", Period: time.Second, Run: g.UpdateSquareAreas},
		{Name: "neighbors", Period: 5 * time.Second, Run: g.UpdateNeighbors},
		{Name: "boats", Period: 100 * time.Millisecond, Run: g.UpdateBoats},
		{Name: "grid_update", Period: 200 * time.Millisecond, Run: func() {
			broadcastGridUpdate(g, gridBroadcaster)
		}},
		{Name: "square_info", Period: 500 * time.Millisecond, Run: func() {
			broadcastSquareInfo(g, squareInfoBroadcaster)
		}},
		{Name: "send_boats", Period: 100 * time.Millisecond, Run: func() {
			broadcastBoats(g, boatBroadcaster)
		}},
	}
	sched := scheduler.New(tasks, cfg.LogInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("scheduler starting", "tasks", len(tasks))
	sched.Run(ctx)
	slog.Info("territorial conquest simulation stopped")
}

func broadcastGridUpdate(g *game.Game, b *scheduler.Broadcaster) {
	msg, err := wire.NewGridUpdateMessage(g.Color)
	if err != nil {
		slog.Error("failed to encode grid update", "error", err)
		return
	}
	data, err := wire.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal grid update", "error", err)
		return
	}
	b.Broadcast(data)
}

func broadcastSquareInfo(g *game.Game, b *scheduler.Broadcaster) {
	msg := wire.NewSquareInfoMessage(g.Actors())
	data, err := wire.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal square info", "error", err)
		return
	}
	b.Broadcast(data)
}

func broadcastBoats(g *game.Game, b *scheduler.Broadcaster) {
	msg := wire.NewBoatMessage(g.Boats)
	data, err := wire.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal boats", "error", err)
		return
	}
	b.Broadcast(data)
}

// logSubscriber is a minimal Subscriber that logs message sizes, useful as a
// smoke test and as the example implementation real transports follow.
type logSubscriber struct {
	name string
}

func (l logSubscriber) Send(message []byte) error {
	slog.Debug("subscriber received message", "subscriber", l.name, "bytes", len(message))
	return nil
}
