package main

import (
	"fmt"
	"math"
	"testing"
)

func stepAI(w *World, ticks int, startTick uint64) StepOutput {
	var out StepOutput
	dt := 1.0 / float64(tickRate)
	for i := 0; i < ticks; i++ {
		w.advanceAnimals(startTick+uint64(i), dt, &out)
	}
	return out
}

func TestTransitionGraphRejectsOffGraphEdges(t *testing.T) {
	w := newTestWorld(nil)
	deer := placeAnimal(w, "deer", 0, 0, AnimalFleeing)

	var out StepOutput
	if w.requestTransition(deer, AnimalAlerted, 1, &out) {
		t.Fatalf("fleeing animals cannot re-alert")
	}
	if deer.state != AnimalFleeing {
		t.Fatalf("rejected transition must hold the prior state, got %s", deer.state)
	}

	deer.state = AnimalDead
	if w.requestTransition(deer, AnimalIdle, 2, &out) {
		t.Fatalf("death is absorbing")
	}
}

func TestIdleDecaysToForaging(t *testing.T) {
	w := newTestWorld(nil)
	deer := placeAnimal(w, "deer", 0, 0, AnimalIdle)
	deer.dwellTicks = 3
	movePlayer(w, 0, 90) // far outside detection

	stepAI(w, 3, 1)
	if deer.state != AnimalForaging {
		t.Fatalf("idle should decay to foraging after the dwell, got %s", deer.state)
	}
}

func TestForagingStaysNearAnchor(t *testing.T) {
	w := newTestWorld(nil)
	deer := placeAnimal(w, "deer", 10, 10, AnimalForaging)
	deer.forageAnchor = deer.position()
	movePlayer(w, -90, -90)

	stepAI(w, 10*tickRate, 1)
	if deer.state != AnimalForaging {
		t.Fatalf("undisturbed foraging should persist, got %s", deer.state)
	}
	if d := groundDistance(deer.position(), deer.forageAnchor); d > forageWanderRadius+1 {
		t.Fatalf("foraging should stay within %.0f of the anchor, wandered %.1f", forageWanderRadius, d)
	}
}

func TestApproachEscalatesToFlee(t *testing.T) {
	w := newTestWorld(nil)
	deer := placeAnimal(w, "deer", 0, 0, AnimalIdle)
	deer.dwellTicks = 10000

	movePlayer(w, 0, 70)
	stepAI(w, 1, 1)
	if deer.state != AnimalIdle {
		t.Fatalf("player at 70 units is outside the 60 unit radius, got %s", deer.state)
	}

	movePlayer(w, 0, 40)
	stepAI(w, 1, 2)
	if deer.state != AnimalAlerted {
		t.Fatalf("player at 40 units should alert the deer, got %s", deer.state)
	}

	movePlayer(w, 0, 14)
	stepAI(w, 1, 3)
	if deer.state != AnimalFleeing {
		t.Fatalf("player inside 15 units should trigger flight, got %s", deer.state)
	}

	// Flight moves the deer directly away from the threat.
	before := groundDistance(deer.position(), w.player.position())
	stepAI(w, tickRate, 4)
	after := groundDistance(deer.position(), w.player.position())
	if after <= before {
		t.Fatalf("fleeing should open distance, was %.1f now %.1f", before, after)
	}
}

func TestFleeingCalmsAtSafeDistance(t *testing.T) {
	w := newTestWorld(nil)
	deer := placeAnimal(w, "deer", 0, 0, AnimalFleeing)
	deer.lastKnownPlayer = vec3{Z: -55}
	movePlayer(w, 0, -55)

	stepAI(w, 1, 1)
	if deer.state != AnimalIdle {
		t.Fatalf("animal past the safe distance should calm to idle, got %s", deer.state)
	}
}

func TestAlertPauseDecays(t *testing.T) {
	w := newTestWorld(nil)
	deer := placeAnimal(w, "deer", 0, 0, AnimalAlerted)
	deer.pauseTicks = secondsToTicks(alertPauseSeconds)
	deer.lastKnownPlayer = vec3{Z: 90}
	movePlayer(w, 0, 90) // out of detection, outside proximity

	stepAI(w, int(secondsToTicks(alertPauseSeconds)), 1)
	if deer.state != AnimalIdle && deer.state != AnimalForaging {
		t.Fatalf("alert should decay once the pause elapses, got %s", deer.state)
	}
}

func TestProximityAlertsWithoutDetection(t *testing.T) {
	// Dense cover hides the player visually, but inside the proximity
	// radius the animal alerts regardless.
	w := newTestWorld(flatTerrain{occlusion: 1.0})
	rabbit := placeAnimal(w, "rabbit", 0, 0, AnimalIdle)
	rabbit.dwellTicks = 10000
	movePlayer(w, 0, 28)

	stepAI(w, 1, 1)
	if rabbit.state != AnimalAlerted {
		t.Fatalf("player at 28 units should alert even unseen, got %s", rabbit.state)
	}
}

func TestFleeRoutesAroundRocks(t *testing.T) {
	w := newTestWorld(nil)
	deer := placeAnimal(w, "deer", 0, 0, AnimalFleeing)
	deer.lastKnownPlayer = vec3{Z: -10}
	movePlayer(w, 0, -10)
	// Wall the straight escape line north of the deer.
	w.rocks = []Rock{{ID: "rock-1", X: 0, Y: 1, Z: 4, Radius: 3}}

	stepAI(w, tickRate, 1)
	if deer.state == AnimalFleeing {
		for i := range w.rocks {
			if groundDistance(deer.position(), w.rocks[i].center()) < w.rocks[i].Radius {
				t.Fatalf("fleeing animal ended up inside a rock")
			}
		}
	}
	if groundDistance(deer.position(), vec3{}) < 1 {
		t.Fatalf("deer should have found a sideways escape route")
	}
}

func TestFleeHoldsThenForcesStraightAway(t *testing.T) {
	w := newTestWorld(nil)
	deer := placeAnimal(w, "deer", 0, 0, AnimalFleeing)
	deer.lastKnownPlayer = vec3{Z: -10}
	// Ring the deer with rocks so every escape sample is blocked.
	for i := 0; i < 8; i++ {
		angle := float64(i) * math.Pi / 4
		w.rocks = append(w.rocks, Rock{
			ID:     fmt.Sprintf("rock-%d", i),
			X:      4 * math.Sin(angle),
			Y:      1,
			Z:      4 * math.Cos(angle),
			Radius: 3,
		})
	}

	dt := 1.0 / float64(tickRate)
	w.flee(deer, dt)
	if !deer.fleeHeld {
		t.Fatalf("boxed-in animal should hold for one tick")
	}
	if deer.velocity.length() != 0 || deer.position().Z != 0 {
		t.Fatalf("held animal must stay put, z=%.2f", deer.position().Z)
	}

	w.flee(deer, dt)
	if deer.fleeHeld {
		t.Fatalf("second blocked tick should force the straight-away heading")
	}
	if deer.position().Z <= 0 {
		t.Fatalf("fallback should push directly away from the threat, z=%.2f", deer.position().Z)
	}
}
