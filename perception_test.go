package main

import (
	"math"
	"testing"
)

func TestDetectionInsideBaseRadius(t *testing.T) {
	w := newTestWorld(nil)
	deer := placeAnimal(w, "deer", 0, 0, AnimalIdle)

	movePlayer(w, 0, 59)
	if !detects(deer, w.player.eyePosition(), w.env, w.query) {
		t.Fatalf("expected detection at 59 units with a 60 unit radius")
	}

	movePlayer(w, 0, 61)
	if detects(deer, w.player.eyePosition(), w.env, w.query) {
		t.Fatalf("expected no detection at 61 units with a 60 unit radius")
	}
}

func TestDetectionUsesStraightLineDistance(t *testing.T) {
	w := newTestWorld(nil)
	deer := placeAnimal(w, "deer", 0, 50, AnimalIdle)
	movePlayer(w, 0, 0)

	if !detects(deer, w.player.eyePosition(), w.env, w.query) {
		t.Fatalf("grounded deer 50 units out should perceive inside the 60 unit radius")
	}

	// Same ground separation, but lifted so the straight line runs ~110.
	deer.setPosition(vec3{X: 0, Y: 100, Z: 50})
	if detects(deer, w.player.eyePosition(), w.env, w.query) {
		t.Fatalf("elevation must count toward perception range")
	}
}

func TestDeadAnimalNeverDetects(t *testing.T) {
	w := newTestWorld(nil)
	deer := placeAnimal(w, "deer", 0, 0, AnimalDead)

	movePlayer(w, 0, 1)
	if detects(deer, w.player.eyePosition(), w.env, w.query) {
		t.Fatalf("dead animal must not perceive")
	}
}

func TestDenseVegetationShrinksRadius(t *testing.T) {
	w := newTestWorld(flatTerrain{occlusion: 0.8})
	deer := placeAnimal(w, "deer", 0, 0, AnimalIdle)

	radius := effectiveDetectionRadius(deer, w.player.eyePosition(), w.env.Wind, w.query)
	want := deer.species.DetectionRadius * (1 - vegetationRadiusCut)
	if math.Abs(radius-want) > 1e-9 {
		t.Fatalf("expected radius %.2f behind dense cover, got %.2f", want, radius)
	}

	// Past the cut radius the animal no longer perceives.
	movePlayer(w, 0, 50)
	if detects(deer, w.player.eyePosition(), w.env, w.query) {
		t.Fatalf("expected vegetation to hide player at 50 units")
	}
}

func TestSparseVegetationKeepsRadius(t *testing.T) {
	w := newTestWorld(flatTerrain{occlusion: 0.3})
	deer := placeAnimal(w, "deer", 0, 0, AnimalIdle)

	radius := effectiveDetectionRadius(deer, w.player.eyePosition(), w.env.Wind, w.query)
	if radius != deer.species.DetectionRadius {
		t.Fatalf("occlusion below the dense threshold must not change the radius, got %.2f", radius)
	}
}

func TestTailwindCarriesScent(t *testing.T) {
	w := newTestWorld(nil)
	deer := placeAnimal(w, "deer", 0, 50, AnimalIdle)
	movePlayer(w, 0, 0)

	// Wind blowing from the player straight at the deer, at reference speed.
	tailwind := vec3{Z: windReferenceSpeed}
	radius := effectiveDetectionRadius(deer, w.player.eyePosition(), tailwind, w.query)
	want := deer.species.DetectionRadius * (1 + windScentBonus)
	if math.Abs(radius-want) > 1e-9 {
		t.Fatalf("expected full scent bonus radius %.2f, got %.2f", want, radius)
	}

	// Headwind pushes scent away; the radius must not shrink below base.
	headwind := vec3{Z: -windReferenceSpeed}
	radius = effectiveDetectionRadius(deer, w.player.eyePosition(), headwind, w.query)
	if radius != deer.species.DetectionRadius {
		t.Fatalf("headwind must leave the radius at base, got %.2f", radius)
	}
}

func TestCrosswindLeavesRadiusAlone(t *testing.T) {
	w := newTestWorld(nil)
	deer := placeAnimal(w, "deer", 0, 50, AnimalIdle)
	movePlayer(w, 0, 0)

	crosswind := vec3{X: windReferenceSpeed}
	radius := effectiveDetectionRadius(deer, w.player.eyePosition(), crosswind, w.query)
	if math.Abs(radius-deer.species.DetectionRadius) > 1e-9 {
		t.Fatalf("perpendicular wind must not change the radius, got %.2f", radius)
	}
}
