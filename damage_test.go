package main

import (
	"math"
	"testing"
)

func TestBodyShotDamageAndFlee(t *testing.T) {
	w := newTestWorld(nil)
	deer := placeAnimal(w, "deer", 0, 20, AnimalIdle)
	p := &projectileState{Projectile: Projectile{ID: "shot-1"}, damagePotential: 25}

	var out StepOutput
	w.applyHit(deer, p, false, 5, &out)

	if deer.Health != 75 {
		t.Fatalf("expected 75 health after a 25 damage body shot, got %.1f", deer.Health)
	}
	if deer.state != AnimalFleeing {
		t.Fatalf("wounded animal should flee, got %s", deer.state)
	}
	if math.Abs(deer.speedModifier-(1-injurySpeedPenalty)) > 1e-9 {
		t.Fatalf("injury should slow the animal to %.2f, got %.2f", 1-injurySpeedPenalty, deer.speedModifier)
	}
	if len(deer.trail) == 0 {
		t.Fatalf("wounded animal should leave a blood trail marker")
	}
	if !hasEvent(out, EventHitRegistered) {
		t.Fatalf("hit should emit a hit event")
	}
	if hasEvent(out, EventAnimalDied) {
		t.Fatalf("non-lethal hit must not emit a death event")
	}
}

func TestHeadshotMultiplier(t *testing.T) {
	w := newTestWorld(nil)
	rabbit := placeAnimal(w, "rabbit", 0, 10, AnimalIdle)
	rabbit.Health = 100
	// Disable the instant-kill roll so the arithmetic is observable.
	w.player.weapon.config = &weaponConfig{
		Name:             "test_rifle",
		Damage:           25,
		FireInterval:     0.5,
		MagazineCapacity: 10,
		MuzzleVelocity:   150,
		MaxRange:         500,
	}
	p := &projectileState{Projectile: Projectile{ID: "shot-1"}, damagePotential: 25}

	var out StepOutput
	w.applyHit(rabbit, p, true, 5, &out)

	want := 100 - 25*headshotMultiplier
	if math.Abs(rabbit.Health-want) > 1e-9 {
		t.Fatalf("expected %.1f health after a headshot, got %.1f", want, rabbit.Health)
	}
}

func TestLethalHitFloorsHealthAndScores(t *testing.T) {
	w := newTestWorld(nil)
	deer := placeAnimal(w, "deer", 0, 20, AnimalFleeing)
	deer.Health = 20
	p := &projectileState{Projectile: Projectile{ID: "shot-1"}, damagePotential: 25}

	var out StepOutput
	w.applyHit(deer, p, false, 5, &out)

	if deer.Health != 0 {
		t.Fatalf("health must floor at zero, got %.1f", deer.Health)
	}
	if deer.state != AnimalDead {
		t.Fatalf("lethal hit must leave the animal dead, got %s", deer.state)
	}
	if w.kills != 1 {
		t.Fatalf("kill should be counted, got %d", w.kills)
	}
	if w.score != deer.species.Score {
		t.Fatalf("kill should credit %d points, got %d", deer.species.Score, w.score)
	}
	if !hasEvent(out, EventAnimalDied) || !hasEvent(out, EventObjectiveProgress) {
		t.Fatalf("lethal hit should emit death and objective events")
	}
}

func TestDeadAnimalAbsorbsNoFurtherDamage(t *testing.T) {
	w := newTestWorld(nil)
	deer := placeAnimal(w, "deer", 0, 20, AnimalDead)
	deer.Health = 0
	p := &projectileState{Projectile: Projectile{ID: "shot-1"}, damagePotential: 25}

	var out StepOutput
	w.applyHit(deer, p, false, 5, &out)

	if deer.Health != 0 || w.kills != 0 {
		t.Fatalf("hits on a corpse must not change health or score")
	}
	if len(out.Events) != 0 {
		t.Fatalf("hits on a corpse must not emit events")
	}
}
