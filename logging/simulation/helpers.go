package simulation

import (
	"context"
	"time"

	"stagfall/server/logging"
)

const (
	// EventInvalidTransition is emitted when behaviour code requests a
	// state change the graph does not allow. The animal holds its state.
	EventInvalidTransition logging.EventType = "simulation.invalid_transition"
	// EventTickLagging is emitted when a step overruns the tick interval.
	EventTickLagging logging.EventType = "simulation.tick_lagging"
)

// InvalidTransitionPayload records the rejected edge.
type InvalidTransitionPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TickLaggingPayload records how long the overrunning step took.
type TickLaggingPayload struct {
	Elapsed time.Duration `json:"elapsed"`
	Budget  time.Duration `json:"budget"`
}

func InvalidTransition(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload InvalidTransitionPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventInvalidTransition,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategorySim,
		Payload:  payload,
	})
}

func TickLagging(ctx context.Context, pub logging.Publisher, tick uint64, payload TickLaggingPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventTickLagging,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityWarn,
		Category: logging.CategorySim,
		Payload:  payload,
	})
}
