package main

import (
	"context"
	"errors"
	"fmt"
	"math"

	"stagfall/server/logging"
	loggingcombat "stagfall/server/logging/combat"
)

var (
	// ErrWeaponBusy is returned when a shot is requested inside the fire
	// interval or during a reload.
	ErrWeaponBusy = errors.New("weapon busy")
	// ErrOutOfAmmo is returned when the magazine is empty.
	ErrOutOfAmmo = errors.New("out of ammo")
	// ErrAlreadyReloading is returned when a reload is requested mid-reload.
	ErrAlreadyReloading = errors.New("already reloading")
)

// Projectile is the broadcast-friendly snapshot of one round in flight.
type Projectile struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

// projectileState is the authoritative per-round record. Rounds spawned this
// tick carry pending=true and skip integration until the next tick, so a shot
// can never spawn and resolve inside the same step.
type projectileState struct {
	Projectile
	velocity        vec3
	damagePotential float64
	traveled        float64
	bounces         int
	spawnTick       uint64
	pending         bool
	owner           string
}

func (p *projectileState) position() vec3 {
	return vec3{X: p.X, Y: p.Y, Z: p.Z}
}

func (p *projectileState) setPosition(pos vec3) {
	p.X, p.Y, p.Z = pos.X, pos.Y, pos.Z
}

// requestFire validates fire gating, spends one round, and spawns a
// projectile from the player's eye along the aim direction with spread and
// weather applied. The caller surfaces the sentinel errors to the client.
func (w *World) requestFire(tick uint64, aim vec3, out *StepOutput) (string, error) {
	weapon := w.player.weapon
	if weapon.reloading {
		return "", ErrWeaponBusy
	}
	if weapon.hasFired && tick-weapon.lastFireTick < weapon.config.fireIntervalTicks() {
		return "", ErrWeaponBusy
	}
	if weapon.ammo <= 0 {
		return "", ErrOutOfAmmo
	}

	weapon.ammo--
	weapon.lastFireTick = tick
	weapon.hasFired = true

	direction := w.spreadDirection(aim)
	speed := weapon.config.MuzzleVelocity
	if w.env.heavyRain() {
		speed *= 1 - rainSpeedPenalty
	}

	w.nextProjectileID++
	id := fmt.Sprintf("shot-%d", w.nextProjectileID)
	origin := w.player.eyePosition()
	p := &projectileState{
		Projectile:      Projectile{ID: id, X: origin.X, Y: origin.Y, Z: origin.Z},
		velocity:        direction.scale(speed),
		damagePotential: weapon.config.Damage,
		spawnTick:       tick,
		pending:         true,
		owner:           w.player.ID,
	}
	w.projectiles = append(w.projectiles, p)

	loggingcombat.ShotFired(
		context.Background(),
		w.publisher,
		tick,
		logging.EntityRef{ID: w.player.ID, Kind: logging.EntityKindPlayer},
		loggingcombat.ShotFiredPayload{Projectile: id, Ammo: weapon.ammo},
	)
	out.emit(tick, EventProjectileFired, id, map[string]any{
		"owner": w.player.ID,
		"ammo":  weapon.ammo,
	})
	return id, nil
}

// spreadDirection perturbs the aim vector inside the weapon's spread cone.
// Running widens the cone, aiming down sights tightens it.
func (w *World) spreadDirection(aim vec3) vec3 {
	if aim.length() == 0 {
		aim = vec3{Z: 1}
	}
	aim = aim.normalized()

	spread := w.player.weapon.config.BaseSpread
	if w.player.running {
		spread *= runSpreadFactor
	}
	if w.player.aiming {
		spread *= adsSwayFactor
	}
	if spread <= 0 {
		return aim
	}

	rng := w.subsystemRNG("ballistics.spread")
	deflect := spread * math.Sqrt(rng.Float64())
	roll := randomAngle(rng)

	// Build an orthonormal basis around the aim vector and tilt within it.
	up := vec3{Y: 1}
	if math.Abs(aim.Y) > 0.99 {
		up = vec3{X: 1}
	}
	right := vec3{
		X: aim.Y*up.Z - aim.Z*up.Y,
		Y: aim.Z*up.X - aim.X*up.Z,
		Z: aim.X*up.Y - aim.Y*up.X,
	}.normalized()
	trueUp := vec3{
		X: right.Y*aim.Z - right.Z*aim.Y,
		Y: right.Z*aim.X - right.X*aim.Z,
		Z: right.X*aim.Y - right.Y*aim.X,
	}

	lateral := right.scale(math.Cos(roll) * math.Sin(deflect)).
		add(trueUp.scale(math.Sin(roll) * math.Sin(deflect)))
	return aim.scale(math.Cos(deflect)).add(lateral).normalized()
}

// requestReload starts the reload timer. Rounds left in the magazine are
// kept; completion tops the magazine back to capacity.
func (w *World) requestReload(tick uint64) error {
	weapon := w.player.weapon
	if weapon.reloading {
		return ErrAlreadyReloading
	}
	weapon.reloading = true
	weapon.reloadTicks = weapon.config.reloadTicks()
	loggingcombat.ReloadStarted(
		context.Background(),
		w.publisher,
		tick,
		logging.EntityRef{ID: w.player.ID, Kind: logging.EntityKindPlayer},
	)
	return nil
}

// integrateProjectiles advances every live round by one tick in fixed
// sub-steps, sweeping each segment against animals, rocks, and terrain.
// Rounds spawned this tick only clear their pending flag.
func (w *World) integrateProjectiles(tick uint64, dt float64, out *StepOutput) {
	alive := w.projectiles[:0]
	for _, p := range w.projectiles {
		if p.pending {
			p.pending = false
			alive = append(alive, p)
			continue
		}
		if w.integrateProjectile(p, tick, dt, out) {
			alive = append(alive, p)
		}
	}
	w.projectiles = alive
}

// integrateProjectile returns false once the round is spent: it hit
// something that absorbed it, exceeded the weapon's maximum range, or
// outlived the hard lifetime cap.
func (w *World) integrateProjectile(p *projectileState, tick uint64, dt float64, out *StepOutput) bool {
	if tick-p.spawnTick >= secondsToTicks(projectileLifetimeSeconds) {
		return false
	}
	stepDt := dt / projectileSteps
	maxRange := w.player.weapon.config.MaxRange

	for i := 0; i < projectileSteps; i++ {
		p.velocity.Y -= gravityAccel * stepDt
		p.velocity.X += w.env.Wind.X * stepDt
		p.velocity.Z += w.env.Wind.Z * stepDt

		from := p.position()
		to := from.add(p.velocity.scale(stepDt))

		if target, point, head, ok := w.nearestAnimalHit(from, to); ok {
			p.setPosition(point)
			w.applyHit(target, p, head, tick, out)
			return false
		}
		if rock, t, ok := w.nearestRockHit(from, to); ok {
			point := from.add(to.sub(from).scale(t))
			if p.bounces >= maxRicochets {
				p.setPosition(point)
				out.emit(tick, EventTerrainImpact, p.ID, map[string]any{
					"x": point.X, "y": point.Y, "z": point.Z, "surface": "rock",
				})
				return false
			}
			p.bounces++
			normal := point.sub(rock.center()).normalized()
			p.velocity = reflect(p.velocity, normal).scale(ricochetDecay)
			p.damagePotential *= ricochetDecay
			p.traveled += distance3(from, point)
			p.setPosition(point.add(normal.scale(0.01)))
			continue
		}
		if ground := w.query.Height(to.X, to.Z); to.Y <= ground {
			impact := vec3{X: to.X, Y: ground, Z: to.Z}
			p.setPosition(impact)
			out.emit(tick, EventTerrainImpact, p.ID, map[string]any{
				"x": impact.X, "y": impact.Y, "z": impact.Z, "surface": "terrain",
			})
			return false
		}

		p.traveled += distance3(from, to)
		p.setPosition(to)
		if p.traveled >= maxRange {
			return false
		}
	}
	return true
}

// nearestAnimalHit sweeps the segment against every collidable animal's body
// and head spheres, returning the closest intersection. Head hits win a tie
// against the body of the same animal.
func (w *World) nearestAnimalHit(from, to vec3) (*animalState, vec3, bool, bool) {
	var (
		best     *animalState
		bestT    = math.Inf(1)
		bestHead bool
	)
	for _, id := range w.sortedAnimalIDs() {
		a := w.animals[id]
		if a == nil || !a.collisionOn {
			continue
		}
		if t, ok := segmentSphereIntersect(from, to, a.headCenter(), a.species.HeadRadius); ok && t < bestT {
			best, bestT, bestHead = a, t, true
		}
		if t, ok := segmentSphereIntersect(from, to, a.position(), a.species.BodyRadius); ok && t < bestT {
			best, bestT, bestHead = a, t, false
		}
	}
	if best == nil {
		return nil, vec3{}, false, false
	}
	return best, from.add(to.sub(from).scale(bestT)), bestHead, true
}

// nearestRockHit returns the closest rock the segment crosses, if any.
func (w *World) nearestRockHit(from, to vec3) (*Rock, float64, bool) {
	var (
		best  *Rock
		bestT = math.Inf(1)
	)
	for i := range w.rocks {
		rock := &w.rocks[i]
		if t, ok := segmentSphereIntersect(from, to, rock.center(), rock.Radius); ok && t < bestT {
			best, bestT = rock, t
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestT, true
}
