// Package snapshot turns telemetry and detection output into schema
// snapshots: the fast merge path, the full builder with schema defaults,
// and the ordered lookup tables behind region and tutorial-phase naming.
package snapshot

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UnknownRegion names coordinates no table entry covers.
const UnknownRegion = "unknown"

// RegionBound is one named rectangle of world coordinates, inclusive on
// all four edges.
type RegionBound struct {
	Name string `yaml:"name"`
	MinX int    `yaml:"min_x"`
	MaxX int    `yaml:"max_x"`
	MinY int    `yaml:"min_y"`
	MaxY int    `yaml:"max_y"`
}

func (b RegionBound) contains(x, y int) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// RegionTable resolves world coordinates to region names. Entries are
// checked in order and the first match wins, so overlapping bounds are
// legal and earlier entries shadow later ones.
type RegionTable struct {
	bounds []RegionBound
}

// DefaultRegionTable covers the early-game areas the agent operates in.
func DefaultRegionTable() *RegionTable {
	return &RegionTable{bounds: []RegionBound{
		{Name: "Tutorial Island", MinX: 3050, MaxX: 3150, MinY: 3050, MaxY: 3150},
		{Name: "Lumbridge", MinX: 3200, MaxX: 3250, MinY: 3200, MaxY: 3250},
		{Name: "Varrock", MinX: 3180, MaxX: 3290, MinY: 3380, MaxY: 3500},
		{Name: "Falador", MinX: 2940, MaxX: 3040, MinY: 3310, MaxY: 3400},
		{Name: "Draynor", MinX: 3080, MaxX: 3120, MinY: 3230, MaxY: 3280},
		{Name: "Al Kharid", MinX: 3270, MaxX: 3330, MinY: 3140, MaxY: 3200},
		{Name: "Edgeville", MinX: 3080, MaxX: 3110, MinY: 3480, MaxY: 3520},
		{Name: "Barbarian Village", MinX: 3070, MaxX: 3110, MinY: 3410, MaxY: 3440},
	}}
}

// NewRegionTable validates and wraps a custom bounds list.
func NewRegionTable(bounds []RegionBound) (*RegionTable, error) {
	if len(bounds) == 0 {
		return nil, errors.New("region table needs at least one bound")
	}
	for i, b := range bounds {
		if b.Name == "" {
			return nil, fmt.Errorf("region %d has no name", i)
		}
		if b.Name == UnknownRegion {
			return nil, fmt.Errorf("region %d may not be named %q", i, UnknownRegion)
		}
		if b.MinX > b.MaxX || b.MinY > b.MaxY {
			return nil, fmt.Errorf("region %q has inverted bounds", b.Name)
		}
	}
	table := &RegionTable{bounds: make([]RegionBound, len(bounds))}
	copy(table.bounds, bounds)
	return table, nil
}

type regionsFile struct {
	Regions []RegionBound `yaml:"regions"`
}

// LoadRegionTable reads a full replacement table from a YAML file. The file
// replaces the default table rather than extending it, so operators see
// exactly the bounds they wrote.
func LoadRegionTable(path string) (*RegionTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read regions file: %w", err)
	}
	var file regionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse regions file: %w", err)
	}
	table, err := NewRegionTable(file.Regions)
	if err != nil {
		return nil, fmt.Errorf("invalid regions file %q: %w", path, err)
	}
	return table, nil
}

// Lookup names the region containing the coordinates, UnknownRegion when
// no bound matches.
func (t *RegionTable) Lookup(x, y int) string {
	for _, b := range t.bounds {
		if b.contains(x, y) {
			return b.Name
		}
	}
	return UnknownRegion
}

// Bounds returns a copy of the table entries in match order.
func (t *RegionTable) Bounds() []RegionBound {
	out := make([]RegionBound, len(t.bounds))
	copy(out, t.bounds)
	return out
}
