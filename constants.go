package main

import "time"

const (
	ProtocolVersion   = 1
	writeWait         = 10 * time.Second
	tickRate          = 30 // ticks per second
	heartbeatInterval = 2 * time.Second
	disconnectAfter   = 3 * heartbeatInterval

	worldWidth  = 100.0 // east-west extent in world units
	worldDepth  = 100.0 // north-south extent
	defaultSeed = "stagfall"

	playerEyeHeight = 1.8
	playerMoveSpeed = 10.0
	defaultSpawnX   = 0.0
	defaultSpawnZ   = 0.0
	playerMaxHealth = 100.0
	animalMaxHealth = 100.0

	gravityAccel    = 9.8
	projectileSteps = 4 // integration sub-steps per tick
	// Failsafe cap on flight time; range expiry fires first in practice.
	projectileLifetimeSeconds = 8.0
	maxRicochets              = 2
	ricochetDecay             = 0.45 // speed/damage-potential multiplier per bounce
	heavyRainCutoff           = 0.7
	rainSpeedPenalty          = 0.10
	adsSwayFactor             = 0.3
	runSpreadFactor           = 1.6

	denseVegetationCutoff = 0.5 // occlusion above this counts as dense cover
	vegetationRadiusCut   = 0.2
	windScentBonus        = 0.25
	windReferenceSpeed    = 10.0

	proximityAlertRadius = 30.0
	fleeTriggerRadius    = 15.0
	safeFleeDistance     = 50.0
	alertPauseSeconds    = 2.0
	forageWanderRadius   = 5.0
	eatPauseMinSeconds   = 3.0
	eatPauseMaxSeconds   = 7.0
	injurySpeedPenalty   = 0.30
	deathGraceSeconds    = 10.0
	fleeSampleCount      = 8
	trailMarkerSpacing   = 1.6
	trailMarkerCap       = 14

	spawnAttemptCap = 1000

	rockCount       = 12
	rockMinRadius   = 1.2
	rockMaxRadius   = 3.5
	rockSpawnMargin = 8.0
)
