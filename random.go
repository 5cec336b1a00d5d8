package main

import (
	"hash/fnv"
	"math"
	"math/rand"
)

// DeterministicSeedValue derives a stable sub-seed for a labelled subsystem
// stream so replays stay reproducible from a single root seed.
func DeterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

func newDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(DeterministicSeedValue(rootSeed, label)))
}

func (w *World) subsystemRNG(label string) *rand.Rand {
	if w.rngStreams == nil {
		w.rngStreams = make(map[string]*rand.Rand)
	}
	if rng, ok := w.rngStreams[label]; ok {
		return rng
	}
	rng := newDeterministicRNG(w.seed, label)
	w.rngStreams[label] = rng
	return rng
}

func randomAngle(rng *rand.Rand) float64 {
	return rng.Float64() * 2 * math.Pi
}

func randomRange(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + rng.Float64()*(max-min)
}
