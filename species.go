package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
)

//go:embed species_configs/*.json
var embeddedSpeciesConfigs embed.FS

var globalSpeciesLibrary = mustLoadSpeciesLibrary()

// speciesLibrary holds the compiled per-species stat table. Species tuning is
// plain data; behaviour differences between deer and rabbit are numbers, not
// types.
type speciesLibrary struct {
	configsByName map[string]*speciesConfig
	names         []string
}

type speciesConfig struct {
	Name            string
	DetectionRadius float64
	Speed           float64
	PopulationCap   int
	VerticalOffset  float64
	BodyRadius      float64
	HeadRadius      float64
	HeadHeight      float64
	IdleDwellMin    float64 // seconds before IDLE decays to FORAGING
	IdleDwellMax    float64
	Score           int
	RespawnDelay    float64 // seconds before a removed corpse is replaced

	Spawn        spawnConstraint
	InitialState initialStateWeights
}

// spawnConstraint gates candidate spawn positions for one species.
type spawnConstraint struct {
	MinPlayerDistance float64
	MaxSlopeDegrees   float64
	AllowedBiomes     map[Biome]bool
}

func (c spawnConstraint) biomeAllowed(b Biome) bool {
	if len(c.AllowedBiomes) == 0 {
		return true
	}
	return c.AllowedBiomes[b]
}

// initialStateWeights weight the live state a fresh spawn starts in.
type initialStateWeights struct {
	Idle     float64
	Foraging float64
	Alerted  float64
}

type speciesAuthoring struct {
	Species         string   `json:"species"`
	DetectionRadius float64  `json:"detection_radius"`
	Speed           float64  `json:"speed"`
	PopulationCap   int      `json:"population_cap"`
	VerticalOffset  float64  `json:"vertical_offset"`
	BodyRadius      float64  `json:"body_radius"`
	HeadRadius      float64  `json:"head_radius"`
	HeadHeight      float64  `json:"head_height"`
	IdleDwellMin    float64  `json:"idle_dwell_min_seconds"`
	IdleDwellMax    float64  `json:"idle_dwell_max_seconds"`
	Score           int      `json:"score"`
	RespawnDelay    float64  `json:"respawn_delay_seconds"`
	MinPlayerDist   float64  `json:"min_player_distance"`
	MaxSlope        float64  `json:"max_slope_degrees"`
	AllowedBiomes   []string `json:"allowed_biomes"`

	InitialStateWeights struct {
		Idle     float64 `json:"idle"`
		Foraging float64 `json:"foraging"`
		Alerted  float64 `json:"alerted"`
	} `json:"initial_state_weights"`
}

func mustLoadSpeciesLibrary() *speciesLibrary {
	lib, err := loadSpeciesLibrary()
	if err != nil {
		panic(err)
	}
	return lib
}

func loadSpeciesLibrary() (*speciesLibrary, error) {
	entries, err := fs.ReadDir(embeddedSpeciesConfigs, "species_configs")
	if err != nil {
		return nil, fmt.Errorf("read species configs: %w", err)
	}
	lib := &speciesLibrary{configsByName: make(map[string]*speciesConfig)}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := embeddedSpeciesConfigs.ReadFile("species_configs/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		var authoring speciesAuthoring
		if err := json.Unmarshal(data, &authoring); err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
		cfg, err := compileSpeciesConfig(authoring)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", entry.Name(), err)
		}
		lib.configsByName[cfg.Name] = cfg
		lib.names = append(lib.names, cfg.Name)
	}
	if len(lib.names) == 0 {
		return nil, fmt.Errorf("no species configs embedded")
	}
	return lib, nil
}

func compileSpeciesConfig(authoring speciesAuthoring) (*speciesConfig, error) {
	if authoring.Species == "" {
		return nil, fmt.Errorf("species config missing species name")
	}
	if authoring.DetectionRadius <= 0 {
		return nil, fmt.Errorf("species %s: detection radius must be positive", authoring.Species)
	}
	if authoring.Speed <= 0 {
		return nil, fmt.Errorf("species %s: speed must be positive", authoring.Species)
	}
	if authoring.PopulationCap <= 0 {
		return nil, fmt.Errorf("species %s: population cap must be positive", authoring.Species)
	}
	cfg := &speciesConfig{
		Name:            authoring.Species,
		DetectionRadius: authoring.DetectionRadius,
		Speed:           authoring.Speed,
		PopulationCap:   authoring.PopulationCap,
		VerticalOffset:  authoring.VerticalOffset,
		BodyRadius:      authoring.BodyRadius,
		HeadRadius:      authoring.HeadRadius,
		HeadHeight:      authoring.HeadHeight,
		IdleDwellMin:    authoring.IdleDwellMin,
		IdleDwellMax:    authoring.IdleDwellMax,
		Score:           authoring.Score,
		RespawnDelay:    authoring.RespawnDelay,
		Spawn: spawnConstraint{
			MinPlayerDistance: authoring.MinPlayerDist,
			MaxSlopeDegrees:   authoring.MaxSlope,
		},
		InitialState: initialStateWeights{
			Idle:     authoring.InitialStateWeights.Idle,
			Foraging: authoring.InitialStateWeights.Foraging,
			Alerted:  authoring.InitialStateWeights.Alerted,
		},
	}
	if cfg.BodyRadius <= 0 {
		cfg.BodyRadius = 0.8
	}
	if cfg.HeadRadius <= 0 {
		cfg.HeadRadius = cfg.BodyRadius * 0.4
	}
	if cfg.HeadHeight <= 0 {
		cfg.HeadHeight = cfg.BodyRadius * 1.2
	}
	if cfg.IdleDwellMax < cfg.IdleDwellMin {
		cfg.IdleDwellMax = cfg.IdleDwellMin
	}
	if cfg.InitialState.Idle+cfg.InitialState.Foraging+cfg.InitialState.Alerted <= 0 {
		cfg.InitialState = initialStateWeights{Idle: 1}
	}
	if len(authoring.AllowedBiomes) > 0 {
		cfg.Spawn.AllowedBiomes = make(map[Biome]bool, len(authoring.AllowedBiomes))
		for _, name := range authoring.AllowedBiomes {
			cfg.Spawn.AllowedBiomes[Biome(name)] = true
		}
	}
	return cfg, nil
}

func (l *speciesLibrary) ConfigFor(name string) *speciesConfig {
	if l == nil {
		return nil
	}
	return l.configsByName[name]
}

// Names returns species names in embed order, stable across runs.
func (l *speciesLibrary) Names() []string {
	if l == nil {
		return nil
	}
	return l.names
}
