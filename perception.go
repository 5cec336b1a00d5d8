package main

import "math"

// effectiveDetectionRadius applies the environmental modifiers to a species'
// base detection radius: a fixed 20% cut when the sight line crosses dense
// vegetation, and up to a 25% bonus when wind carries player scent toward
// the animal. Crosswind and headwind never shrink the vegetation-adjusted
// radius.
func effectiveDetectionRadius(animal *animalState, playerPos vec3, wind vec3, query WorldQuery) float64 {
	radius := animal.species.DetectionRadius

	if query != nil {
		eye := playerPos
		target := animal.headCenter()
		if query.LineOfSight(eye, target) >= denseVegetationCutoff {
			radius *= 1 - vegetationRadiusCut
		}
	}

	// Scent: wind blowing along player→animal pushes the player's scent at
	// the animal. Scale the bonus by how hard the wind blows relative to a
	// reference speed.
	toAnimal := animal.position().sub(playerPos)
	toAnimal.Y = 0
	windSpeed := math.Hypot(wind.X, wind.Z)
	if windSpeed > 0 && toAnimal.length() > 0 {
		alignment := (wind.X*toAnimal.X + wind.Z*toAnimal.Z) / (windSpeed * toAnimal.length())
		if alignment > 0 {
			strength := math.Min(1, windSpeed/windReferenceSpeed)
			radius *= 1 + windScentBonus*alignment*strength
		}
	}

	return radius
}

// detects reports whether the animal perceives the player this evaluation.
// Pure function of its inputs; no state is touched. Range is straight-line
// distance, so elevation separation counts.
func detects(animal *animalState, playerPos vec3, env environmentState, query WorldQuery) bool {
	if animal == nil || !animal.state.live() {
		return false
	}
	radius := effectiveDetectionRadius(animal, playerPos, env.Wind, query)
	return distance3(animal.position(), playerPos) <= radius
}
