package combat

import (
	"context"

	"stagfall/server/logging"
)

const (
	// EventShotFired is emitted when a round leaves the muzzle.
	EventShotFired logging.EventType = "combat.shot_fired"
	// EventReloadStarted is emitted when a reload timer begins.
	EventReloadStarted logging.EventType = "combat.reload_started"
	// EventHitRegistered is emitted when a round strikes an animal.
	EventHitRegistered logging.EventType = "combat.hit_registered"
	// EventCommandRejected is emitted when fire or reload gating refuses a
	// client intent.
	EventCommandRejected logging.EventType = "combat.command_rejected"
)

// ShotFiredPayload captures the round and the ammo remaining after it.
type ShotFiredPayload struct {
	Projectile string `json:"projectile"`
	Ammo       int    `json:"ammo"`
}

// HitPayload captures where a round landed and what it did.
type HitPayload struct {
	Projectile  string  `json:"projectile"`
	Location    string  `json:"location"`
	Damage      float64 `json:"damage"`
	Lethal      bool    `json:"lethal"`
	InstantKill bool    `json:"instantKill,omitempty"`
}

// CommandRejectedPayload names the refused action and why.
type CommandRejectedPayload struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

func ShotFired(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ShotFiredPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventShotFired,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

func ReloadStarted(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventReloadStarted,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
	})
}

func HitRegistered(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload HitPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventHitRegistered,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

func CommandRejected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload CommandRejectedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCommandRejected,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}
