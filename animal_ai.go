package main

import (
	"context"
	"math"

	"stagfall/server/logging"
	loggingsim "stagfall/server/logging/simulation"
)

// requestTransition moves an animal to a new state if the behaviour graph
// permits the edge. Off-graph requests are logged and the animal holds its
// prior state.
func (w *World) requestTransition(a *animalState, to AnimalState, tick uint64, out *StepOutput) bool {
	if a == nil || a.state == to {
		return false
	}
	if !transitionAllowed(a.state, to) {
		loggingsim.InvalidTransition(
			context.Background(),
			w.publisher,
			tick,
			logging.EntityRef{ID: a.ID, Kind: logging.EntityKindAnimal},
			loggingsim.InvalidTransitionPayload{From: a.state.String(), To: to.String()},
		)
		return false
	}

	from := a.state
	a.state = to

	switch to {
	case AnimalIdle:
		a.velocity = vec3{}
		a.dwellTicks = w.randomDwellTicks(a)
	case AnimalForaging:
		a.forageAnchor = a.position()
		a.hasWanderTarget = false
		a.pauseTicks = 0
	case AnimalAlerted:
		// Turn to face the threat and freeze for the alert pause.
		a.velocity = vec3{}
		a.Heading = math.Atan2(a.lastKnownPlayer.X-a.X, a.lastKnownPlayer.Z-a.Z)
		a.pauseTicks = secondsToTicks(alertPauseSeconds)
	case AnimalFleeing:
		a.fleeHeld = false
	case AnimalDead:
		a.velocity = vec3{}
		a.graceTicks = secondsToTicks(deathGraceSeconds)
	}

	out.emit(tick, EventAnimalStateChanged, a.ID, map[string]any{
		"from": from.String(),
		"to":   to.String(),
	})
	return true
}

func secondsToTicks(seconds float64) uint64 {
	return uint64(math.Ceil(seconds * tickRate))
}

func (w *World) randomDwellTicks(a *animalState) uint64 {
	rng := w.subsystemRNG("ai.dwell")
	return secondsToTicks(randomRange(rng, a.species.IdleDwellMin, a.species.IdleDwellMax))
}

// advanceAnimals runs perception and one FSM step for every live animal.
// Dead animals are left to the population manager's grace handling.
func (w *World) advanceAnimals(tick uint64, dt float64, out *StepOutput) {
	playerPos := w.player.eyePosition()
	for _, id := range w.sortedAnimalIDs() {
		a := w.animals[id]
		if a == nil || !a.state.live() {
			continue
		}
		w.advanceAnimal(a, playerPos, tick, dt, out)
	}
}

func (w *World) advanceAnimal(a *animalState, playerPos vec3, tick uint64, dt float64, out *StepOutput) {
	seen := detects(a, playerPos, w.env, w.query)
	dist := groundDistance(a.position(), playerPos)
	if seen {
		a.lastKnownPlayer = playerPos
	}

	switch a.state {
	case AnimalIdle:
		if seen || dist <= proximityAlertRadius {
			a.lastKnownPlayer = playerPos
			w.requestTransition(a, AnimalAlerted, tick, out)
			return
		}
		if a.dwellTicks > 0 {
			a.dwellTicks--
		}
		if a.dwellTicks == 0 {
			w.requestTransition(a, AnimalForaging, tick, out)
		}

	case AnimalForaging:
		if seen || dist <= proximityAlertRadius {
			a.lastKnownPlayer = playerPos
			w.requestTransition(a, AnimalAlerted, tick, out)
			return
		}
		w.forage(a, dt)

	case AnimalAlerted:
		if dist < fleeTriggerRadius {
			a.lastKnownPlayer = playerPos
			w.requestTransition(a, AnimalFleeing, tick, out)
			return
		}
		if seen {
			// Still watching the threat; hold the pause.
			a.pauseTicks = secondsToTicks(alertPauseSeconds)
			a.Heading = math.Atan2(playerPos.X-a.X, playerPos.Z-a.Z)
			return
		}
		if a.pauseTicks > 0 {
			a.pauseTicks--
		}
		if a.pauseTicks == 0 {
			next := AnimalIdle
			if w.subsystemRNG("ai.calm").Float64() < 0.5 {
				next = AnimalForaging
			}
			w.requestTransition(a, next, tick, out)
		}

	case AnimalFleeing:
		if dist >= safeFleeDistance {
			w.requestTransition(a, AnimalIdle, tick, out)
			return
		}
		w.flee(a, dt)
	}
}

// forage wanders within forageWanderRadius of the anchor, pausing to eat for
// 3-7 seconds before re-sampling a target.
func (w *World) forage(a *animalState, dt float64) {
	if a.pauseTicks > 0 {
		a.pauseTicks--
		a.velocity = vec3{}
		return
	}

	if !a.hasWanderTarget || groundDistance(a.position(), a.wanderTarget) < 0.5 {
		rng := w.subsystemRNG("ai.forage")
		if a.hasWanderTarget {
			// Arrived: eat before picking the next spot.
			a.hasWanderTarget = false
			a.pauseTicks = secondsToTicks(randomRange(rng, eatPauseMinSeconds, eatPauseMaxSeconds))
			a.velocity = vec3{}
			return
		}
		angle := randomAngle(rng)
		span := forageWanderRadius * math.Sqrt(rng.Float64())
		a.wanderTarget = vec3{
			X: clamp(a.forageAnchor.X+math.Sin(angle)*span, -worldWidth/2, worldWidth/2),
			Z: clamp(a.forageAnchor.Z+math.Cos(angle)*span, -worldDepth/2, worldDepth/2),
		}
		a.hasWanderTarget = true
	}

	direction := a.wanderTarget.sub(a.position())
	direction.Y = 0
	w.moveAnimal(a, direction.normalized(), a.maxSpeed()*0.4, dt)
}

// flee moves away from the last-known player position at top speed, routing
// around rocks and impassable ground. On the first tick with no clear sample
// the animal holds position; a second consecutive failure falls back to the
// straight-away direction and lets the collision check stop it.
func (w *World) flee(a *animalState, dt float64) {
	direction, ok := w.chooseFleeDirection(a)
	if !ok {
		if !a.fleeHeld {
			a.fleeHeld = true
			a.velocity = vec3{}
			return
		}
		direction = a.position().sub(a.lastKnownPlayer)
		direction.Y = 0
		direction = direction.normalized()
		if direction.length() == 0 {
			a.velocity = vec3{}
			return
		}
	}
	a.fleeHeld = false
	w.moveAnimal(a, direction, a.maxSpeed(), dt)
}

// chooseFleeDirection fans candidate headings out from the away-from-threat
// vector, widest last, rejecting any whose look-ahead segment is blocked.
func (w *World) chooseFleeDirection(a *animalState) (vec3, bool) {
	away := a.position().sub(a.lastKnownPlayer)
	away.Y = 0
	if away.length() == 0 {
		angle := randomAngle(w.subsystemRNG("ai.flee"))
		away = vec3{X: math.Sin(angle), Z: math.Cos(angle)}
	}
	away = away.normalized()
	baseAngle := math.Atan2(away.X, away.Z)

	const lookahead = 6.0
	offsets := [fleeSampleCount]float64{0, 0.45, -0.45, 0.9, -0.9, 1.4, -1.4, math.Pi / 2}
	for _, offset := range offsets {
		angle := baseAngle + offset
		candidate := vec3{X: math.Sin(angle), Z: math.Cos(angle)}
		ahead := a.position().add(candidate.scale(lookahead))
		if ahead.X < -worldWidth/2 || ahead.X > worldWidth/2 || ahead.Z < -worldDepth/2 || ahead.Z > worldDepth/2 {
			continue
		}
		if w.segmentBlockedByRock(a.position(), ahead) {
			continue
		}
		if w.query.Biome(ahead.X, ahead.Z) == BiomeRiverbank {
			continue
		}
		return candidate, true
	}
	return vec3{}, false
}

// moveAnimal integrates one tick of locomotion, keeps the animal on the
// terrain surface, and drops trail markers along the way.
func (w *World) moveAnimal(a *animalState, direction vec3, speed float64, dt float64) {
	if speed <= 0 || direction.length() == 0 {
		a.velocity = vec3{}
		return
	}
	a.velocity = direction.scale(speed)
	a.Heading = math.Atan2(direction.X, direction.Z)

	next := a.position().add(a.velocity.scale(dt))
	next.X = clamp(next.X, -worldWidth/2, worldWidth/2)
	next.Z = clamp(next.Z, -worldDepth/2, worldDepth/2)
	if w.segmentBlockedByRock(a.position(), next) {
		a.velocity = vec3{}
		return
	}
	next.Y = w.query.Height(next.X, next.Z) + a.species.VerticalOffset

	traveled := groundDistance(a.position(), next)
	a.setPosition(next)
	a.leaveTrailMarker(traveled)
}

// reactToDamage applies the behavioural side of a hit: non-lethal damage
// sends the animal fleeing with a lasting speed penalty and a trail marker;
// lethal damage transitions straight to DEAD.
func (w *World) reactToDamage(a *animalState, lethal bool, playerPos vec3, tick uint64, out *StepOutput) {
	if a == nil || !a.state.live() {
		return
	}
	if lethal {
		w.requestTransition(a, AnimalDead, tick, out)
		return
	}
	a.lastKnownPlayer = playerPos
	a.speedModifier *= 1 - injurySpeedPenalty
	a.trail = append(a.trail, a.position())
	if len(a.trail) > trailMarkerCap {
		a.trail = a.trail[1:]
	}
	w.requestTransition(a, AnimalFleeing, tick, out)
}
