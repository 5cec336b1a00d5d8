package main

// EventType names a gameplay event emitted during a tick.
type EventType string

const (
	EventAnimalStateChanged EventType = "animal_state_changed"
	EventProjectileFired    EventType = "projectile_fired"
	EventHitRegistered      EventType = "hit_registered"
	EventAnimalDied         EventType = "animal_died"
	EventTerrainImpact      EventType = "terrain_impact"
	EventObjectiveProgress  EventType = "objective_progress"
	EventWeaponRejected     EventType = "weapon_rejected"
)

// Event is a tick-scoped notification for presentation collaborators. The
// hub broadcasts the batch after the step; subscribers never mutate world
// state in response.
type Event struct {
	Tick     uint64         `json:"tick"`
	Type     EventType      `json:"type"`
	EntityID string         `json:"entityId,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// StepOutput accumulates everything a single tick produced for observers.
type StepOutput struct {
	Events []Event
}

func (o *StepOutput) emit(tick uint64, eventType EventType, entityID string, payload map[string]any) {
	if o == nil {
		return
	}
	o.Events = append(o.Events, Event{
		Tick:     tick,
		Type:     eventType,
		EntityID: entityID,
		Payload:  payload,
	})
}
