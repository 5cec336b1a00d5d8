package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
)

// SpeciesDocument mirrors the authoring shape of species_configs/*.json so
// designers get editor validation while tuning animals.
type SpeciesDocument struct {
	Species         string   `json:"species" jsonschema:"required"`
	DetectionRadius float64  `json:"detection_radius" jsonschema:"required"`
	Speed           float64  `json:"speed" jsonschema:"required"`
	PopulationCap   int      `json:"population_cap" jsonschema:"required"`
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

// WeaponDocument mirrors the authoring shape of weapon_configs/*.json.
type WeaponDocument struct {
	Weapon            string  `json:"weapon" jsonschema:"required"`
	Damage            float64 `json:"damage" jsonschema:"required"`
	FireInterval      float64 `json:"fire_interval_seconds"`
	MagazineCapacity  int     `json:"magazine_capacity" jsonschema:"required"`
	ReloadDuration    float64 `json:"reload_duration_seconds"`
	BaseSpread        float64 `json:"base_spread_radians"`
	MaxRange          float64 `json:"max_range"`
	MuzzleVelocity    float64 `json:"muzzle_velocity" jsonschema:"required"`
	InstantKillChance float64 `json:"instant_kill_chance"`
}

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write the JSON schemas")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
	}

	species := reflector.Reflect(new(SpeciesDocument))
	species.Title = "Stagfall Species Config"
	species.Description = "Validates species tuning files embedded under species_configs/"

	weapon := reflector.Reflect(new(WeaponDocument))
	weapon.Title = "Stagfall Weapon Config"
	weapon.Description = "Validates weapon tuning files embedded under weapon_configs/"

	for name, schema := range map[string]*jsonschema.Schema{
		"species.schema.json": species,
		"weapon.schema.json":  weapon,
	} {
		if err := writeSchema(filepath.Join(outDir, name), schema); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", name, err)
			os.Exit(1)
		}
	}
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
