package main

import (
	"fmt"
	"math"
)

// Rock is a static boulder: a ricochet surface for ballistics and an
// impassable blocker for fleeing animals. Modelled as a sphere sitting on
// the terrain.
type Rock struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Radius float64 `json:"radius"`
}

func (r Rock) center() vec3 {
	return vec3{X: r.X, Y: r.Y, Z: r.Z}
}

// generateRocks scatters boulders across the world away from the player
// spawn, deterministic under the world seed.
func (w *World) generateRocks(count int) []Rock {
	rocks := make([]Rock, 0, count)
	if count <= 0 {
		return rocks
	}
	rng := w.subsystemRNG("obstacles.rocks")
	for i := 0; i < count; i++ {
		x := randomRange(rng, -worldWidth/2+rockSpawnMargin, worldWidth/2-rockSpawnMargin)
		z := randomRange(rng, -worldDepth/2+rockSpawnMargin, worldDepth/2-rockSpawnMargin)
		if groundDistance(vec3{X: x, Z: z}, vec3{X: defaultSpawnX, Z: defaultSpawnZ}) < rockSpawnMargin {
			continue
		}
		radius := randomRange(rng, rockMinRadius, rockMaxRadius)
		rocks = append(rocks, Rock{
			ID:     fmt.Sprintf("rock-%d", i+1),
			X:      x,
			Y:      w.query.Height(x, z) + radius*0.4,
			Z:      z,
			Radius: radius,
		})
	}
	return rocks
}

// segmentBlockedByRock reports whether the ground segment from a to b passes
// through any rock volume. Used by flee routing.
func (w *World) segmentBlockedByRock(a, b vec3) bool {
	for i := range w.rocks {
		if t, ok := segmentSphereIntersect(a, b, w.rocks[i].center(), w.rocks[i].Radius); ok && t >= 0 && t <= 1 {
			return true
		}
	}
	return false
}

// segmentSphereIntersect returns the fractional position along segment a→b of
// the first intersection with the sphere, if any.
func segmentSphereIntersect(a, b, center vec3, radius float64) (float64, bool) {
	d := b.sub(a)
	f := a.sub(center)

	qa := d.dot(d)
	if qa == 0 {
		return 0, false
	}
	qb := 2 * f.dot(d)
	qc := f.dot(f) - radius*radius

	discriminant := qb*qb - 4*qa*qc
	if discriminant < 0 {
		return 0, false
	}
	sqrtD := math.Sqrt(discriminant)
	t := (-qb - sqrtD) / (2 * qa)
	if t < 0 {
		t = (-qb + sqrtD) / (2 * qa)
	}
	if t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}
