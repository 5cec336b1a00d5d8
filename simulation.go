package main

import (
	"context"
	"errors"
	"math/rand"
	"sort"

	"stagfall/server/logging"
	loggingcombat "stagfall/server/logging/combat"
)

// Player is the broadcast-friendly snapshot of the hunter.
type Player struct {
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Heading float64 `json:"heading"`
	Health  float64 `json:"health"`
	Ammo    int     `json:"ammo"`
	Score   int     `json:"score"`
}

// playerState is the authoritative hunter record. One per world.
type playerState struct {
	Player
	weapon        *weaponState
	running       bool
	aiming        bool
	lastHeartbeat uint64
}

func (p *playerState) position() vec3 {
	return vec3{X: p.X, Y: p.Y, Z: p.Z}
}

func (p *playerState) eyePosition() vec3 {
	return vec3{X: p.X, Y: p.Y + playerEyeHeight, Z: p.Z}
}

func (p *playerState) snapshot(score int) Player {
	snap := p.Player
	snap.Ammo = p.weapon.ammo
	snap.Score = score
	return snap
}

// Command is a queued client intent drained at the top of the tick. Exactly
// one of the pointer fields is set.
type Command struct {
	PlayerID  string
	Move      *MoveCommand
	Fire      *FireCommand
	Reload    bool
	Heartbeat bool
}

// MoveCommand carries a normalized ground-plane direction plus stance flags.
type MoveCommand struct {
	DX      float64
	DZ      float64
	Heading float64
	Running bool
	Aiming  bool
}

// FireCommand carries the aim direction at trigger time.
type FireCommand struct {
	Aim vec3
}

// World owns all simulation state. Only Step mutates it, always on the hub's
// tick goroutine; everything else reads snapshots.
type World struct {
	cfg     worldConfig
	seed    string
	query   WorldQuery
	env     environmentState
	species *speciesLibrary
	weapons *weaponLibrary

	player      *playerState
	animals     map[string]*animalState
	projectiles []*projectileState
	rocks       []Rock
	respawns    []pendingRespawn

	rngStreams map[string]*rand.Rand

	currentTick      uint64
	kills            int
	score            int
	nextAnimalID     uint64
	nextProjectileID uint64

	publisher logging.Publisher
}

func newWorld(cfg worldConfig, publisher logging.Publisher) (*World, error) {
	cfg = cfg.normalized()
	w := &World{
		cfg:       cfg,
		seed:      cfg.Seed,
		query:     newProceduralTerrain(cfg.Seed),
		env:       cfg.environment(),
		species:   globalSpeciesLibrary,
		weapons:   globalWeaponLibrary,
		animals:   make(map[string]*animalState),
		publisher: publisher,
	}
	if w.publisher == nil {
		w.publisher = logging.NopPublisher()
	}

	spawn := vec3{X: defaultSpawnX, Z: defaultSpawnZ}
	spawn.Y = w.query.Height(spawn.X, spawn.Z)
	w.player = &playerState{
		Player: Player{ID: "hunter-1", X: spawn.X, Y: spawn.Y, Z: spawn.Z, Health: playerMaxHealth},
		weapon: newWeaponState(w.weapons.DefaultConfig()),
	}

	w.rocks = w.generateRocks(rockCount)

	var seedOut StepOutput
	if err := w.seedPopulation(&seedOut); err != nil {
		return nil, err
	}
	return w, nil
}

// sortedAnimalIDs gives a stable iteration order so per-tick work is
// deterministic regardless of map layout.
func (w *World) sortedAnimalIDs() []string {
	ids := make([]string, 0, len(w.animals))
	for id := range w.animals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Step advances the world one fixed tick: drain commands, integrate rounds
// already in flight, resolve impacts, run perception and AI, then the
// population manager. Events accumulate in the returned output.
func (w *World) Step(tick uint64, dt float64, commands []Command) StepOutput {
	w.currentTick = tick
	var out StepOutput

	w.player.weapon.advanceReload()

	for _, cmd := range commands {
		w.applyCommand(cmd, tick, dt, &out)
	}

	w.integrateProjectiles(tick, dt, &out)
	w.advanceAnimals(tick, dt, &out)
	w.advancePopulation(tick, &out)

	return out
}

func (w *World) applyCommand(cmd Command, tick uint64, dt float64, out *StepOutput) {
	switch {
	case cmd.Heartbeat:
		w.player.lastHeartbeat = tick
	case cmd.Move != nil:
		w.applyMove(*cmd.Move, dt)
	case cmd.Fire != nil:
		if _, err := w.requestFire(tick, cmd.Fire.Aim, out); err != nil {
			w.rejectWeaponCommand(tick, "fire", err, out)
		}
	case cmd.Reload:
		if err := w.requestReload(tick); err != nil {
			w.rejectWeaponCommand(tick, "reload", err, out)
		}
	}
}

// rejectWeaponCommand surfaces an expected weapon gating failure as an event
// and a log line; rejections never abort the tick.
func (w *World) rejectWeaponCommand(tick uint64, action string, err error, out *StepOutput) {
	reason := "busy"
	switch {
	case errors.Is(err, ErrOutOfAmmo):
		reason = "out_of_ammo"
	case errors.Is(err, ErrAlreadyReloading):
		reason = "already_reloading"
	}
	loggingcombat.CommandRejected(
		context.Background(),
		w.publisher,
		tick,
		logging.EntityRef{ID: w.player.ID, Kind: logging.EntityKindPlayer},
		loggingcombat.CommandRejectedPayload{Action: action, Reason: reason},
	)
	out.emit(tick, EventWeaponRejected, w.player.ID, map[string]any{
		"action": action,
		"reason": reason,
	})
}

// applyMove integrates one tick of player locomotion clamped to the world
// bounds and snapped to the terrain surface. Rocks block movement.
func (w *World) applyMove(move MoveCommand, dt float64) {
	p := w.player
	p.running = move.Running
	p.aiming = move.Aiming
	p.Heading = move.Heading

	dir := vec3{X: move.DX, Z: move.DZ}
	if dir.length() == 0 {
		return
	}
	dir = dir.normalized()

	speed := playerMoveSpeed
	if !move.Running {
		speed *= 0.5
	}
	next := p.position().add(dir.scale(speed * dt))
	next.X = clamp(next.X, -worldWidth/2, worldWidth/2)
	next.Z = clamp(next.Z, -worldDepth/2, worldDepth/2)
	if w.segmentBlockedByRock(p.position(), next) {
		return
	}
	next.Y = w.query.Height(next.X, next.Z)
	p.X, p.Y, p.Z = next.X, next.Y, next.Z
}

// Snapshot captures the broadcastable world state after a step.
type Snapshot struct {
	Tick        uint64       `json:"tick"`
	Player      Player       `json:"player"`
	Animals     []Animal     `json:"animals"`
	Projectiles []Projectile `json:"projectiles"`
	Rocks       []Rock       `json:"rocks"`
	Trails      []TrailGroup `json:"trails,omitempty"`
	Kills       int          `json:"kills"`
	Required    int          `json:"requiredKills"`
	Complete    bool         `json:"complete"`
}

// TrailGroup is the visible track line one animal has left behind.
type TrailGroup struct {
	AnimalID string `json:"animalId"`
	Points   []vec3 `json:"points"`
}

func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:     w.currentTick,
		Player:   w.player.snapshot(w.score),
		Kills:    w.kills,
		Required: w.cfg.RequiredKills,
		Complete: w.kills >= w.cfg.RequiredKills,
	}
	for _, id := range w.sortedAnimalIDs() {
		a := w.animals[id]
		snap.Animals = append(snap.Animals, a.snapshot())
		if len(a.trail) > 0 {
			points := make([]vec3, len(a.trail))
			copy(points, a.trail)
			snap.Trails = append(snap.Trails, TrailGroup{AnimalID: a.ID, Points: points})
		}
	}
	for _, p := range w.projectiles {
		snap.Projectiles = append(snap.Projectiles, p.Projectile)
	}
	snap.Rocks = append(snap.Rocks, w.rocks...)
	return snap
}
