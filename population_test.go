package main

import (
	"errors"
	"testing"
)

func TestSpawnRespectsPopulationCap(t *testing.T) {
	w := newTestWorld(nil)
	movePlayer(w, 0, 0)

	var out StepOutput
	cap := w.species.ConfigFor("deer").PopulationCap
	for i := 0; i < cap; i++ {
		if _, err := w.trySpawn("deer", 1, &out); err != nil {
			t.Fatalf("spawn %d of %d failed: %v", i+1, cap, err)
		}
	}
	if _, err := w.trySpawn("deer", 1, &out); !errors.Is(err, ErrPopulationLimitReached) {
		t.Fatalf("expected ErrPopulationLimitReached past the cap, got %v", err)
	}
	if got := w.speciesCount("deer"); got != cap {
		t.Fatalf("expected exactly %d deer, got %d", cap, got)
	}
}

func TestSpawnRejectsSteepTerrain(t *testing.T) {
	w := newTestWorld(flatTerrain{slope: 80})
	var out StepOutput
	if _, err := w.trySpawn("deer", 1, &out); !errors.Is(err, ErrSpawnPositionInvalid) {
		t.Fatalf("expected ErrSpawnPositionInvalid on 80 degree slopes, got %v", err)
	}
}

func TestSpawnRejectsDisallowedBiome(t *testing.T) {
	w := newTestWorld(flatTerrain{biome: BiomeRidge})
	var out StepOutput
	if _, err := w.trySpawn("deer", 1, &out); !errors.Is(err, ErrSpawnPositionInvalid) {
		t.Fatalf("deer cannot spawn on ridges, got %v", err)
	}
	// Rabbits cannot either; riverbank is rabbit-only.
	w2 := newTestWorld(flatTerrain{biome: BiomeRiverbank})
	if _, err := w2.trySpawn("rabbit", 1, &out); err != nil {
		t.Fatalf("rabbits spawn on riverbanks: %v", err)
	}
	if _, err := w2.trySpawn("deer", 1, &out); !errors.Is(err, ErrSpawnPositionInvalid) {
		t.Fatalf("deer must not spawn on riverbanks, got %v", err)
	}
}

func TestSpawnKeepsDistanceFromPlayer(t *testing.T) {
	w := newTestWorld(nil)
	movePlayer(w, 0, 0)

	var out StepOutput
	minDist := w.species.ConfigFor("deer").Spawn.MinPlayerDistance
	for i := 0; i < 5; i++ {
		a, err := w.trySpawn("deer", 1, &out)
		if err != nil {
			t.Fatalf("spawn failed: %v", err)
		}
		if d := groundDistance(a.position(), w.player.position()); d < minDist {
			t.Fatalf("spawn %s landed %.1f from the player, minimum is %.1f", a.ID, d, minDist)
		}
	}
}

func TestFreshSpawnStartsAliveAndHealthy(t *testing.T) {
	w := newTestWorld(nil)
	var out StepOutput
	a, err := w.trySpawn("rabbit", 1, &out)
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	if a.Health != animalMaxHealth {
		t.Fatalf("fresh spawn should hold full health, got %.1f", a.Health)
	}
	if !a.state.live() {
		t.Fatalf("fresh spawn must be in a live state, got %s", a.state)
	}
	if !a.collisionOn {
		t.Fatalf("fresh spawn must be collidable")
	}
}

func TestCorpseGraceThenRemovalAndRespawn(t *testing.T) {
	w := newTestWorld(nil)
	deer := placeAnimal(w, "deer", 20, 20, AnimalIdle)
	deer.Health = 0

	var out StepOutput
	w.requestTransition(deer, AnimalDead, 1, &out)
	if deer.graceTicks != secondsToTicks(deathGraceSeconds) {
		t.Fatalf("death should start the grace countdown")
	}

	// Shrink the timers so the test stays fast.
	deer.graceTicks = 2
	w.advancePopulation(2, &out)
	if _, ok := w.animals[deer.ID]; !ok {
		t.Fatalf("corpse must persist through the grace period")
	}
	w.advancePopulation(3, &out)
	w.advancePopulation(4, &out)
	if _, ok := w.animals[deer.ID]; ok {
		t.Fatalf("corpse should be removed after the grace period")
	}
	if len(w.respawns) != 1 {
		t.Fatalf("removal should schedule one respawn, got %d", len(w.respawns))
	}

	w.respawns[0].dueTick = 5
	w.advancePopulation(5, &out)
	if got := w.speciesCount("deer"); got != 1 {
		t.Fatalf("respawn should restore the deer count, got %d", got)
	}
	if len(w.respawns) != 0 {
		t.Fatalf("executed respawn should leave the queue empty")
	}
}

func TestSpawnAttemptBudgetExhausts(t *testing.T) {
	// A world that rejects every candidate must fail cleanly, not loop.
	w := newTestWorld(flatTerrain{slope: 89})
	var out StepOutput
	if _, err := w.trySpawn("rabbit", 1, &out); !errors.Is(err, ErrSpawnPositionInvalid) {
		t.Fatalf("expected a clean sampling failure, got %v", err)
	}
}
