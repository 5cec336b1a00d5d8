package main

// AnimalState enumerates the behaviour states of one animal.
type AnimalState uint8

const (
	AnimalIdle AnimalState = iota
	AnimalForaging
	AnimalAlerted
	AnimalFleeing
	AnimalDead
)

func (s AnimalState) String() string {
	switch s {
	case AnimalIdle:
		return "idle"
	case AnimalForaging:
		return "foraging"
	case AnimalAlerted:
		return "alerted"
	case AnimalFleeing:
		return "fleeing"
	case AnimalDead:
		return "dead"
	default:
		return "unknown"
	}
}

// liveStates are the states a transition may originate from; DEAD is absorbing.
func (s AnimalState) live() bool {
	return s != AnimalDead
}

// animalTransitions is the full edge set of the behaviour graph. Anything not
// listed here is rejected as an invalid transition.
var animalTransitions = map[AnimalState][]AnimalState{
	AnimalIdle:     {AnimalForaging, AnimalAlerted, AnimalFleeing, AnimalDead},
	AnimalForaging: {AnimalAlerted, AnimalFleeing, AnimalDead},
	AnimalAlerted:  {AnimalIdle, AnimalForaging, AnimalFleeing, AnimalDead},
	AnimalFleeing:  {AnimalIdle, AnimalDead},
	AnimalDead:     {},
}

func transitionAllowed(from, to AnimalState) bool {
	for _, next := range animalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Animal is the broadcast-friendly snapshot of one animal.
type Animal struct {
	ID      string  `json:"id"`
	Species string  `json:"species"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Heading float64 `json:"heading"` // radians on the ground plane
	Health  float64 `json:"health"`
	State   string  `json:"state"`
}

// animalState is the authoritative per-animal record. Owned by the population
// manager; mutated only by the AI and damage resolver inside the tick.
type animalState struct {
	Animal
	species *speciesConfig
	state   AnimalState

	velocity        vec3
	pauseTicks      uint64 // countdown: alert pause or eating pause
	dwellTicks      uint64 // countdown: idle dwell before foraging
	forageAnchor    vec3
	wanderTarget    vec3
	hasWanderTarget bool
	lastKnownPlayer vec3
	speedModifier   float64 // 1.0 healthy; injury applies a penalty
	collisionOn     bool
	graceTicks      uint64 // post-death collision grace countdown
	fleeHeld        bool   // no valid escape sample last tick; fall back next

	trail          []vec3 // recent ground markers left while moving
	sinceLastTrail float64
}

func (a *animalState) position() vec3 {
	return vec3{X: a.X, Y: a.Y, Z: a.Z}
}

func (a *animalState) setPosition(p vec3) {
	a.X, a.Y, a.Z = p.X, p.Y, p.Z
}

// headCenter is where the head collision sphere sits, above the body center.
func (a *animalState) headCenter() vec3 {
	return vec3{X: a.X, Y: a.Y + a.species.HeadHeight, Z: a.Z}
}

// maxSpeed folds the injury penalty into the species top speed.
func (a *animalState) maxSpeed() float64 {
	return a.species.Speed * a.speedModifier
}

func (a *animalState) snapshot() Animal {
	snap := a.Animal
	snap.State = a.state.String()
	return snap
}

// leaveTrailMarker records a ground marker every trailMarkerSpacing units of
// travel, keeping only the newest trailMarkerCap entries.
func (a *animalState) leaveTrailMarker(traveled float64) {
	a.sinceLastTrail += traveled
	if a.sinceLastTrail < trailMarkerSpacing {
		return
	}
	a.sinceLastTrail = 0
	a.trail = append(a.trail, a.position())
	if len(a.trail) > trailMarkerCap {
		a.trail = a.trail[1:]
	}
}
