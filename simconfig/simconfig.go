// Package simconfig loads the tunable balance numbers spec.md leaves
// as named defaults (per_bail, capacity, per-phase budgets, cell
// size) from TOML (SPEC_FULL.md §2, "Config"). Only the per-phase
// budgets take effect at runtime, through PerfBudgets. per_bail,
// capacity and cell_size are decoded and logged at startup, but the
// economy and grid keep using their own constants and component
// values.
package simconfig

import (
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/lixenwraith/rts-core/economy"
	"github.com/lixenwraith/rts-core/gridmap"
	"github.com/lixenwraith/rts-core/perf"
)

// Budgets mirrors perf.DefaultBudgets in a TOML-friendly shape
// (time.Duration has no native TOML representation, so budgets are
// expressed in milliseconds here and converted on load).
type Budgets struct {
	InputMS        float64 `toml:"input_ms"`
	CommandsMS     float64 `toml:"commands_ms"`
	PathfindingMS  float64 `toml:"pathfinding_ms"`
	MovementMS     float64 `toml:"movement_ms"`
	EconomyMS      float64 `toml:"economy_ms"`
	SpatialIndexMS float64 `toml:"spatial_index_ms"`
}

// Config is the full set of tunable balance/performance values.
type Config struct {
	PerBail  int     `toml:"per_bail"`
	Capacity int     `toml:"capacity"`
	CellSize float64 `toml:"cell_size"`
	Budgets  Budgets `toml:"budgets"`
}

// Default returns the "authentic" values spec.md §4.8/§4.11 name
// explicitly, for use when no config file is supplied.
func Default() Config {
	return Config{
		PerBail:  economy.DefaultPerBail,
		Capacity: economy.DefaultCapacity,
		CellSize: gridmap.CellSize,
		Budgets: Budgets{
			InputMS:        1.0,
			CommandsMS:     0.5,
			PathfindingMS:  2.0,
			MovementMS:     2.0,
			EconomyMS:      2.0,
			SpatialIndexMS: 1.0,
		},
	}
}

// Load parses a TOML config file at path on top of Default: fields
// absent from the file keep their Default value (BurntSushi/toml
// leaves them untouched), while a field set in the file overrides
// its default even when set to zero.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "simconfig: decode %s", path)
	}
	return cfg, nil
}

// PerfBudgets converts the config's millisecond fields into the
// time.Duration map perf.Governor expects.
func (c Config) PerfBudgets() map[perf.Phase]time.Duration {
	ms := func(v float64) time.Duration { return time.Duration(v * float64(time.Millisecond)) }
	return map[perf.Phase]time.Duration{
		perf.PhaseInput:        ms(c.Budgets.InputMS),
		perf.PhaseCommands:     ms(c.Budgets.CommandsMS),
		perf.PhasePathfinding:  ms(c.Budgets.PathfindingMS),
		perf.PhaseMovement:     ms(c.Budgets.MovementMS),
		perf.PhaseEconomy:      ms(c.Budgets.EconomyMS),
		perf.PhaseSpatialIndex: ms(c.Budgets.SpatialIndexMS),
	}
}
