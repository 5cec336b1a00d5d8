package main

import "fmt"

// flatTerrain is a controllable WorldQuery for tests: level ground with a
// fixed slope reading, one biome everywhere, and a fixed occlusion value.
type flatTerrain struct {
	slope     float64
	biome     Biome
	occlusion float64
}

func (t flatTerrain) Height(x, z float64) float64 { return 0 }
func (t flatTerrain) Slope(x, z float64) float64  { return t.slope }
func (t flatTerrain) Biome(x, z float64) Biome {
	if t.biome == "" {
		return BiomeMeadow
	}
	return t.biome
}
func (t flatTerrain) LineOfSight(a, b vec3) float64 { return t.occlusion }

func newTestWorld(terrain WorldQuery) *World {
	if terrain == nil {
		terrain = flatTerrain{}
	}
	cfg := defaultWorldConfig()
	cfg.Seed = "test"
	cfg.DeerCount = 0
	cfg.RabbitCount = 0
	cfg.WindX = 0
	cfg.WindZ = 0
	w := &World{
		cfg:     cfg,
		seed:    cfg.Seed,
		query:   terrain,
		env:     cfg.environment(),
		species: globalSpeciesLibrary,
		weapons: globalWeaponLibrary,
		animals: make(map[string]*animalState),
	}
	w.player = &playerState{
		Player: Player{ID: "hunter-1", Health: playerMaxHealth},
		weapon: newWeaponState(w.weapons.DefaultConfig()),
	}
	return w
}

// placeAnimal drops an animal at an exact position, bypassing the spawn
// sampler so tests control the geometry.
func placeAnimal(w *World, species string, x, z float64, state AnimalState) *animalState {
	cfg := w.species.ConfigFor(species)
	if cfg == nil {
		panic(fmt.Sprintf("unknown species %q", species))
	}
	w.nextAnimalID++
	a := &animalState{
		Animal: Animal{
			ID:      fmt.Sprintf("%s-%d", species, w.nextAnimalID),
			Species: species,
			X:       x,
			Y:       w.query.Height(x, z) + cfg.VerticalOffset,
			Z:       z,
			Health:  animalMaxHealth,
		},
		species:       cfg,
		state:         state,
		speedModifier: 1.0,
		collisionOn:   true,
	}
	w.animals[a.ID] = a
	return a
}

func movePlayer(w *World, x, z float64) {
	w.player.X = x
	w.player.Z = z
	w.player.Y = w.query.Height(x, z)
}

func hasEvent(out StepOutput, eventType EventType) bool {
	for _, e := range out.Events {
		if e.Type == eventType {
			return true
		}
	}
	return false
}
