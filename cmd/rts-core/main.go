// Command rts-core drives the simulation core headlessly: it loads a
// map and balance config, wires the ECS world and its systems, and
// runs the fixed-timestep loop against a wall-clock ticker. The core
// never draws (spec.md §6); this binary exists to exercise and
// smoke-test the simulation, the way the teacher's cmd/ sandboxes
// exercise individual subsystems in isolation.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lixenwraith/rts-core/combat"
	"github.com/lixenwraith/rts-core/diag"
	"github.com/lixenwraith/rts-core/ecs"
	"github.com/lixenwraith/rts-core/economy"
	"github.com/lixenwraith/rts-core/events"
	"github.com/lixenwraith/rts-core/gridmap"
	"github.com/lixenwraith/rts-core/mapdata"
	"github.com/lixenwraith/rts-core/movement"
	"github.com/lixenwraith/rts-core/pathfind"
	"github.com/lixenwraith/rts-core/perf"
	"github.com/lixenwraith/rts-core/sim"
	"github.com/lixenwraith/rts-core/simconfig"
	"github.com/lixenwraith/rts-core/spatial"
)

func main() {
	mapPath := flag.String("map", "", "path to a TOML map file (optional; a blank 64x64 map is used if omitted)")
	configPath := flag.String("config", "", "path to a TOML balance config file (optional; defaults are used if omitted)")
	debug := flag.Bool("debug", false, "enable debug-level logging")
	ticks := flag.Uint64("ticks", 0, "stop after this many simulation ticks (0 runs until interrupted)")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	cfg := simconfig.Default()
	if *configPath != "" {
		loaded, err := simconfig.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("rts-core: failed to load config")
		}
		cfg = loaded
	}

	var grid *gridmap.Grid
	if *mapPath != "" {
		m, err := mapdata.Load(*mapPath)
		if err != nil {
			log.Fatal().Err(err).Msg("rts-core: failed to load map")
		}
		grid = m.BuildGrid()
	} else {
		grid = gridmap.New(64, 64)
	}

	world := ecs.NewWorld()
	queue := events.NewQueue()
	router := events.NewRouter(queue)

	worldBounds := spatial.AABB{
		MinX: 0, MinY: 0,
		MaxX: float64(grid.Width) * gridmap.CellSize,
		MaxY: float64(grid.Height) * gridmap.CellSize,
	}
	index := spatial.New(worldBounds, spatial.DefaultMaxEntriesPerNode, spatial.DefaultMaxDepth)
	world.OnDestroy(func(e ecs.Entity) { index.Remove(spatial.ID(e.Raw())) })

	pool := pathfind.NewPool(grid, 4)
	defer pool.Close()
	cache := pathfind.NewCache(256)

	movementSys := movement.NewSystem(world, grid, index, pool, cache, queue)
	combatSys := combat.NewSystem(world, grid, queue)
	economySys := economy.NewSystem(world, queue)
	world.AddSystem(movementSys)
	world.AddSystem(combatSys)
	world.AddSystem(economySys)

	governor := perf.NewGovernor(cfg.PerfBudgets(), queue)

	clock := sim.NewPausableClock()
	loop := sim.NewLoop(clock, queue)

	log.Info().
		Int("grid_width", grid.Width).
		Int("grid_height", grid.Height).
		Int("per_bail", cfg.PerBail).
		Int("capacity", cfg.Capacity).
		Msg("rts-core: simulation starting")

	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	budget := 2 * time.Millisecond
	diagInterval := 5 * time.Second
	nextDiag := time.Now().Add(diagInterval)

	for range ticker.C {
		pfCtx, cancel := context.WithTimeout(context.Background(), budget)
		pool.RunBudget(pfCtx)
		cancel()

		governor.Begin(perf.PhaseMovement)
		loop.Advance(0.016, world.Step)
		governor.End()

		router.DispatchAll()

		if time.Now().After(nextDiag) {
			diag.CheckWorld(world, index)
			nextDiag = time.Now().Add(diagInterval)
		}

		if *ticks > 0 && loop.TickCount() >= *ticks {
			break
		}
	}

	log.Info().Uint64("total_ticks", loop.TickCount()).Msg("rts-core: simulation stopped")
}
