package terralod

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gekko3d/terralod/octree"
)

// Settings holds all configurable parameters of a terrain world,
// loadable from YAML.
type Settings struct {
	World   WorldSettings   `yaml:"world"`
	Budget  BudgetSettings  `yaml:"budget"`
	Logging LoggingSettings `yaml:"logging"`
	Metrics MetricsSettings `yaml:"metrics"`
}

// WorldSettings maps onto octree.Config.
type WorldSettings struct {
	VoxelSize   float64 `yaml:"voxel_size"`
	MinLOD      int32   `yaml:"min_lod"`
	MaxLOD      int32   `yaml:"max_lod"`
	InitialLOD  int32   `yaml:"initial_lod"`
	LodExponent float64 `yaml:"lod_exponent"`
	Seed        int64   `yaml:"seed"`
}

// BudgetSettings maps onto octree.Budget. Zero counts mean unlimited.
type BudgetSettings struct {
	MaxTransitions        int   `yaml:"max_transitions"`
	MaxSubdivisions       int   `yaml:"max_subdivisions"`
	MaxCollapses          int   `yaml:"max_collapses"`
	MaxRelativeLOD        int32 `yaml:"max_relative_lod"`
	MaxNeighborIterations int   `yaml:"max_neighbor_iterations"`
}

// LoggingSettings selects the log level and optional rotating file.
type LoggingSettings struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// MetricsSettings controls the prometheus endpoint.
type MetricsSettings struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// DefaultSettings returns the defaults a missing file would produce.
func DefaultSettings() Settings {
	b := octree.DefaultBudget()
	return Settings{
		World: WorldSettings{
			VoxelSize:  1.0,
			MinLOD:     0,
			MaxLOD:     30,
			InitialLOD: 8,
			Seed:       1337,
		},
		Budget: BudgetSettings{
			MaxSubdivisions:       b.MaxSubdivisions,
			MaxCollapses:          b.MaxCollapses,
			MaxRelativeLOD:        b.MaxRelativeLOD,
			MaxNeighborIterations: b.MaxNeighborIterations,
		},
		Logging: LoggingSettings{Level: "info"},
		Metrics: MetricsSettings{Addr: ":9091"},
	}
}

// LoadSettings reads YAML from path over the defaults. A missing file
// is not an error; the defaults are returned.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("reading settings from %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing settings from %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("validating settings from %s: %w", path, err)
	}
	return s, nil
}

// Save writes the settings as YAML.
func (s Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings to %s: %w", path, err)
	}
	return nil
}

// Validate rejects parameter combinations the octree cannot represent.
func (s Settings) Validate() error {
	if s.World.VoxelSize <= 0 {
		return fmt.Errorf("world.voxel_size must be positive, got %v", s.World.VoxelSize)
	}
	if s.World.MinLOD < 0 {
		return fmt.Errorf("world.min_lod must be >= 0, got %d", s.World.MinLOD)
	}
	if s.World.MaxLOD <= s.World.MinLOD {
		return fmt.Errorf("world.max_lod (%d) must exceed world.min_lod (%d)",
			s.World.MaxLOD, s.World.MinLOD)
	}
	if s.World.InitialLOD < s.World.MinLOD || s.World.InitialLOD > s.World.MaxLOD {
		return fmt.Errorf("world.initial_lod (%d) must lie in [%d, %d]",
			s.World.InitialLOD, s.World.MinLOD, s.World.MaxLOD)
	}
	if s.Budget.MaxTransitions < 0 || s.Budget.MaxSubdivisions < 0 || s.Budget.MaxCollapses < 0 {
		return fmt.Errorf("budget counts must be >= 0 (0 = unlimited)")
	}
	return nil
}

// OctreeConfig builds the immutable octree configuration.
func (s Settings) OctreeConfig() octree.Config {
	cfg := octree.DefaultConfig()
	cfg.VoxelSize = s.World.VoxelSize
	cfg.MinLOD = s.World.MinLOD
	cfg.MaxLOD = s.World.MaxLOD
	cfg.LodExponent = s.World.LodExponent
	return cfg
}

// RefinementBudget builds the per-step budget.
func (s Settings) RefinementBudget() octree.Budget {
	return octree.Budget{
		MaxTransitions:        s.Budget.MaxTransitions,
		MaxSubdivisions:       s.Budget.MaxSubdivisions,
		MaxCollapses:          s.Budget.MaxCollapses,
		MaxRelativeLOD:        s.Budget.MaxRelativeLOD,
		MaxNeighborIterations: s.Budget.MaxNeighborIterations,
	}
}
