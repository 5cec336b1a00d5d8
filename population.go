package main

import (
	"context"
	"errors"
	"fmt"

	"stagfall/server/logging"
	logginglifecycle "stagfall/server/logging/lifecycle"
)

var (
	// ErrSpawnPositionInvalid is returned when no candidate position passed
	// the species' spawn constraints within the attempt budget.
	ErrSpawnPositionInvalid = errors.New("spawn position invalid")
	// ErrPopulationLimitReached is returned when the species is already at
	// its population cap.
	ErrPopulationLimitReached = errors.New("population limit reached")
)

// pendingRespawn schedules a replacement spawn after a corpse is removed.
type pendingRespawn struct {
	species string
	dueTick uint64
}

// trySpawn places one animal of the given species at a constraint-satisfying
// position. The cap is checked before any sampling work.
func (w *World) trySpawn(species string, tick uint64, out *StepOutput) (*animalState, error) {
	cfg := w.species.ConfigFor(species)
	if cfg == nil {
		return nil, fmt.Errorf("unknown species %q", species)
	}
	if w.speciesCount(species) >= cfg.PopulationCap {
		return nil, ErrPopulationLimitReached
	}

	pos, err := w.sampleSpawnPosition(cfg)
	if err != nil {
		return nil, err
	}

	w.nextAnimalID++
	a := &animalState{
		Animal: Animal{
			ID:      fmt.Sprintf("%s-%d", species, w.nextAnimalID),
			Species: species,
			X:       pos.X,
			Y:       pos.Y,
			Z:       pos.Z,
			Health:  animalMaxHealth,
		},
		species:       cfg,
		state:         w.rollInitialState(cfg),
		speedModifier: 1.0,
		collisionOn:   true,
	}
	switch a.state {
	case AnimalIdle:
		a.dwellTicks = w.randomDwellTicks(a)
	case AnimalForaging:
		a.forageAnchor = a.position()
	case AnimalAlerted:
		a.pauseTicks = secondsToTicks(alertPauseSeconds)
	}
	w.animals[a.ID] = a

	logginglifecycle.AnimalSpawned(
		context.Background(),
		w.publisher,
		tick,
		logging.EntityRef{ID: a.ID, Kind: logging.EntityKindAnimal},
		logginglifecycle.SpawnPayload{Species: species, X: pos.X, Y: pos.Y, Z: pos.Z},
	)
	out.emit(tick, EventAnimalStateChanged, a.ID, map[string]any{
		"from": "",
		"to":   a.state.String(),
	})
	return a, nil
}

// sampleSpawnPosition draws candidate ground positions until one satisfies
// the species' slope, biome, and player-distance constraints, or the attempt
// budget runs out.
func (w *World) sampleSpawnPosition(cfg *speciesConfig) (vec3, error) {
	rng := w.subsystemRNG("population.spawn")
	playerPos := w.player.position()

	for attempt := 0; attempt < spawnAttemptCap; attempt++ {
		x := randomRange(rng, -worldWidth/2, worldWidth/2)
		z := randomRange(rng, -worldDepth/2, worldDepth/2)

		if groundDistance(vec3{X: x, Z: z}, playerPos) < cfg.Spawn.MinPlayerDistance {
			continue
		}
		if w.query.Slope(x, z) > cfg.Spawn.MaxSlopeDegrees {
			continue
		}
		if !cfg.Spawn.biomeAllowed(w.query.Biome(x, z)) {
			continue
		}
		return vec3{X: x, Y: w.query.Height(x, z) + cfg.VerticalOffset, Z: z}, nil
	}
	return vec3{}, ErrSpawnPositionInvalid
}

func (w *World) rollInitialState(cfg *speciesConfig) AnimalState {
	weights := cfg.InitialState
	total := weights.Idle + weights.Foraging + weights.Alerted
	if total <= 0 {
		return AnimalIdle
	}
	roll := w.subsystemRNG("population.spawn").Float64() * total
	if roll < weights.Idle {
		return AnimalIdle
	}
	if roll < weights.Idle+weights.Foraging {
		return AnimalForaging
	}
	return AnimalAlerted
}

func (w *World) speciesCount(species string) int {
	count := 0
	for _, a := range w.animals {
		if a.Species == species {
			count++
		}
	}
	return count
}

// advancePopulation runs corpse grace countdowns, removes expired corpses,
// schedules their replacements, and executes due respawns.
func (w *World) advancePopulation(tick uint64, out *StepOutput) {
	for _, id := range w.sortedAnimalIDs() {
		a := w.animals[id]
		if a == nil || a.state != AnimalDead {
			continue
		}
		if a.graceTicks > 0 {
			a.graceTicks--
			continue
		}
		a.collisionOn = false
		delete(w.animals, id)
		w.respawns = append(w.respawns, pendingRespawn{
			species: a.Species,
			dueTick: tick + secondsToTicks(a.species.RespawnDelay),
		})
		logginglifecycle.AnimalRemoved(
			context.Background(),
			w.publisher,
			tick,
			logging.EntityRef{ID: a.ID, Kind: logging.EntityKindAnimal},
		)
	}

	if len(w.respawns) == 0 {
		return
	}
	remaining := w.respawns[:0]
	for _, r := range w.respawns {
		if r.dueTick > tick {
			remaining = append(remaining, r)
			continue
		}
		if _, err := w.trySpawn(r.species, tick, out); err != nil {
			// Keep the slot and retry next tick; the cap or terrain may
			// free up later.
			r.dueTick = tick + 1
			remaining = append(remaining, r)
			logginglifecycle.RespawnDeferred(
				context.Background(),
				w.publisher,
				tick,
				logginglifecycle.RespawnDeferredPayload{Species: r.species, Reason: err.Error()},
			)
		}
	}
	w.respawns = remaining
}

// seedPopulation fills the world to the configured counts at startup.
func (w *World) seedPopulation(out *StepOutput) error {
	targets := []struct {
		species string
		count   int
	}{
		{"deer", w.cfg.DeerCount},
		{"rabbit", w.cfg.RabbitCount},
	}
	for _, t := range targets {
		for i := 0; i < t.count; i++ {
			if _, err := w.trySpawn(t.species, 0, out); err != nil {
				if errors.Is(err, ErrPopulationLimitReached) {
					break
				}
				return fmt.Errorf("seed %s: %w", t.species, err)
			}
		}
	}
	return nil
}
