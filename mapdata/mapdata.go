// Package mapdata loads the read-only startup payload — grid
// dimensions, passability, initial entities, starting economies —
// from TOML (SPEC_FULL.md §4.14): the format the distilled spec left
// unstated, chosen to match the corpus's config/data-loading idiom.
package mapdata

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/lixenwraith/rts-core/gridmap"
)

// Cell is one passability/cost override in the TOML payload; cells
// not listed default to passable at gridmap.DefaultCost.
type Cell struct {
	X    int     `toml:"x"`
	Y    int     `toml:"y"`
	Pass bool    `toml:"passable"`
	Cost float64 `toml:"cost"`
}

// Entity is one initial-entity spawn record. mapdata only parses the
// payload and does not interpret Kind; cmd/rts-core builds the grid
// from a loaded map and does not spawn these records.
type Entity struct {
	Kind   string  `toml:"kind"`
	TeamID uint8   `toml:"team_id"`
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
}

// EconomyStart is one team's opening credit balance.
type EconomyStart struct {
	TeamID     uint8 `toml:"team_id"`
	Credits    int   `toml:"credits"`
	StorageCap int   `toml:"storage_cap"`
}

// Map is the fully parsed startup payload.
type Map struct {
	Width    int            `toml:"width"`
	Height   int            `toml:"height"`
	Cells    []Cell         `toml:"cell"`
	Entities []Entity       `toml:"entity"`
	Economies []EconomyStart `toml:"economy"`
}

// Load parses a TOML map file at path.
func Load(path string) (*Map, error) {
	var m Map
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, errors.Wrapf(err, "mapdata: decode %s", path)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return nil, errors.Errorf("mapdata: %s: width/height must be positive, got %dx%d", path, m.Width, m.Height)
	}
	return &m, nil
}

// BuildGrid materializes a gridmap.Grid from the parsed cell
// overrides.
func (m *Map) BuildGrid() *gridmap.Grid {
	g := gridmap.New(m.Width, m.Height)
	for _, c := range m.Cells {
		g.SetPassable(c.X, c.Y, c.Pass)
		if c.Cost > 0 {
			g.SetCost(c.X, c.Y, c.Cost)
		}
	}
	return g
}
