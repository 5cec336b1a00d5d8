package main

import (
	"context"

	"stagfall/server/logging"
	loggingcombat "stagfall/server/logging/combat"
)

const headshotMultiplier = 1.5

// applyHit resolves one projectile impact against an animal: location
// multiplier, instant-kill roll on head hits, health floor at zero, then the
// behavioural reaction. Health and death stay consistent in the same tick.
func (w *World) applyHit(target *animalState, p *projectileState, head bool, tick uint64, out *StepOutput) {
	if target == nil || !target.state.live() {
		return
	}

	damage := p.damagePotential
	location := "body"
	instantKill := false
	if head {
		location = "head"
		damage *= headshotMultiplier
		chance := w.player.weapon.config.InstantKillChance
		if chance > 0 && w.subsystemRNG("damage").Float64() < chance {
			instantKill = true
		}
	}

	target.Health -= damage
	if target.Health < 0 || instantKill {
		target.Health = 0
	}
	lethal := target.Health == 0

	loggingcombat.HitRegistered(
		context.Background(),
		w.publisher,
		tick,
		logging.EntityRef{ID: w.player.ID, Kind: logging.EntityKindPlayer},
		logging.EntityRef{ID: target.ID, Kind: logging.EntityKindAnimal},
		loggingcombat.HitPayload{
			Projectile:  p.ID,
			Location:    location,
			Damage:      damage,
			Lethal:      lethal,
			InstantKill: instantKill,
		},
	)
	out.emit(tick, EventHitRegistered, target.ID, map[string]any{
		"projectile": p.ID,
		"location":   location,
		"damage":     damage,
		"lethal":     lethal,
	})

	w.reactToDamage(target, lethal, w.player.eyePosition(), tick, out)
	if lethal {
		w.recordKill(target, tick, out)
	}
}

// recordKill credits the score and advances the session objective.
func (w *World) recordKill(target *animalState, tick uint64, out *StepOutput) {
	w.kills++
	w.score += target.species.Score
	out.emit(tick, EventAnimalDied, target.ID, map[string]any{
		"species": target.Species,
		"score":   target.species.Score,
	})
	out.emit(tick, EventObjectiveProgress, w.player.ID, map[string]any{
		"kills":    w.kills,
		"required": w.cfg.RequiredKills,
		"score":    w.score,
		"complete": w.kills >= w.cfg.RequiredKills,
	})
}
