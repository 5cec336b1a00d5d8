package main

import (
	"math"
)

// Biome classifies a patch of ground for spawn constraints and cover.
type Biome string

const (
	BiomeMeadow    Biome = "meadow"
	BiomeForest    Biome = "forest"
	BiomeRiverbank Biome = "riverbank"
	BiomeRidge     Biome = "ridge"
)

// WorldQuery is the terrain collaborator consumed by the simulation. The
// production title backs it with the streamed terrain system; this repo ships
// a seeded procedural implementation for the standalone server and the tests.
type WorldQuery interface {
	// Height returns the terrain surface height at a ground coordinate.
	Height(x, z float64) float64
	// Slope returns the steepest incline at a ground coordinate, in degrees.
	Slope(x, z float64) float64
	// Biome classifies the ground at a coordinate.
	Biome(x, z float64) Biome
	// LineOfSight returns how occluded the segment between two points is,
	// 0 (clear) to 1 (fully blocked), from vegetation and terrain.
	LineOfSight(a, b vec3) float64
}

// environmentState bundles the ambient conditions sampled by perception and
// ballistics. Immutable during a run except through config.
type environmentState struct {
	Wind          vec3 // horizontal wind vector, units/second
	RainIntensity float64
}

func (e environmentState) heavyRain() bool {
	return e.RainIntensity >= heavyRainCutoff
}

// proceduralTerrain is a deterministic heightfield built from the world seed.
// Height blends two rotated sine octaves; biomes band by height with forest
// pockets carved from a third octave.
type proceduralTerrain struct {
	phaseA float64
	phaseB float64
	phaseC float64
}

func newProceduralTerrain(seed string) *proceduralTerrain {
	base := DeterministicSeedValue(seed, "terrain")
	return &proceduralTerrain{
		phaseA: float64(base%977) / 977 * 2 * math.Pi,
		phaseB: float64(base%1409) / 1409 * 2 * math.Pi,
		phaseC: float64(base%2053) / 2053 * 2 * math.Pi,
	}
}

func (t *proceduralTerrain) Height(x, z float64) float64 {
	coarse := math.Sin(x*0.045+t.phaseA) * math.Cos(z*0.038+t.phaseB)
	fine := math.Sin(x*0.17 + z*0.13 + t.phaseC)
	return coarse*6.0 + fine*1.2
}

func (t *proceduralTerrain) Slope(x, z float64) float64 {
	const step = 0.5
	dx := (t.Height(x+step, z) - t.Height(x-step, z)) / (2 * step)
	dz := (t.Height(x, z+step) - t.Height(x, z-step)) / (2 * step)
	return math.Atan(math.Hypot(dx, dz)) * 180 / math.Pi
}

func (t *proceduralTerrain) Biome(x, z float64) Biome {
	h := t.Height(x, z)
	switch {
	case h < -3.5:
		return BiomeRiverbank
	case h > 4.5:
		return BiomeRidge
	}
	if math.Sin(x*0.09+t.phaseC)*math.Cos(z*0.11+t.phaseA) > 0.25 {
		return BiomeForest
	}
	return BiomeMeadow
}

func (t *proceduralTerrain) vegetationDensity(x, z float64) float64 {
	switch t.Biome(x, z) {
	case BiomeForest:
		return 0.8
	case BiomeRiverbank:
		return 0.45
	case BiomeMeadow:
		return 0.2
	default:
		return 0.05
	}
}

// LineOfSight samples the segment at fixed intervals, accumulating occlusion
// from vegetation and capping at 1 when terrain rises above the sight line.
func (t *proceduralTerrain) LineOfSight(a, b vec3) float64 {
	span := distance3(a, b)
	if span == 0 {
		return 0
	}
	samples := int(span / 2)
	if samples < 2 {
		samples = 2
	}
	if samples > 48 {
		samples = 48
	}
	occlusion := 0.0
	for i := 1; i < samples; i++ {
		f := float64(i) / float64(samples)
		p := a.add(b.sub(a).scale(f))
		if t.Height(p.X, p.Z) > p.Y {
			return 1
		}
		occlusion += t.vegetationDensity(p.X, p.Z) / float64(samples)
	}
	return clamp(occlusion, 0, 1)
}
