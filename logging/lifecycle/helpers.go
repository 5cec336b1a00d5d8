package lifecycle

import (
	"context"

	"stagfall/server/logging"
)

const (
	// EventAnimalSpawned is emitted when the population manager places an
	// animal into the world.
	EventAnimalSpawned logging.EventType = "lifecycle.animal_spawned"
	// EventAnimalRemoved is emitted when a corpse leaves the world.
	EventAnimalRemoved logging.EventType = "lifecycle.animal_removed"
	// EventRespawnDeferred is emitted when a scheduled respawn could not be
	// placed and was pushed to a later tick.
	EventRespawnDeferred logging.EventType = "lifecycle.respawn_deferred"
	// EventPlayerJoined is emitted when the hunter connects.
	EventPlayerJoined logging.EventType = "lifecycle.player_joined"
	// EventPlayerDisconnected is emitted when the hunter drops.
	EventPlayerDisconnected logging.EventType = "lifecycle.player_disconnected"
)

// SpawnPayload captures where a fresh animal was placed.
type SpawnPayload struct {
	Species string  `json:"species"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
}

// RespawnDeferredPayload names the species that could not be placed and why.
type RespawnDeferredPayload struct {
	Species string `json:"species"`
	Reason  string `json:"reason"`
}

// PlayerDisconnectedPayload captures the reason the hunter left.
type PlayerDisconnectedPayload struct {
	Reason string `json:"reason"`
}

func AnimalSpawned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload SpawnPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventAnimalSpawned,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

func AnimalRemoved(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventAnimalRemoved,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryLifecycle,
	})
}

func RespawnDeferred(ctx context.Context, pub logging.Publisher, tick uint64, payload RespawnDeferredPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRespawnDeferred,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

func PlayerJoined(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerJoined,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
	})
}

func PlayerDisconnected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlayerDisconnectedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerDisconnected,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}
