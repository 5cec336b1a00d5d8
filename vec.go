package main

import "math"

// vec3 is a world-space vector. Y is up; the ground plane is X/Z.
type vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v vec3) add(o vec3) vec3 {
	return vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v vec3) sub(o vec3) vec3 {
	return vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v vec3) scale(s float64) vec3 {
	return vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v vec3) dot(o vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v vec3) length() float64 {
	return math.Sqrt(v.dot(v))
}

func (v vec3) normalized() vec3 {
	l := v.length()
	if l == 0 {
		return vec3{}
	}
	return v.scale(1 / l)
}

// groundDistance ignores the vertical axis; perception and AI range checks
// operate on the ground plane.
func groundDistance(a, b vec3) float64 {
	return math.Hypot(a.X-b.X, a.Z-b.Z)
}

func distance3(a, b vec3) float64 {
	return a.sub(b).length()
}

// reflect mirrors v about the unit normal n.
func reflect(v, n vec3) vec3 {
	return v.sub(n.scale(2 * v.dot(n)))
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
