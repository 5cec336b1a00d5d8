package main

import (
	"context"
	"testing"

	"stagfall/server/logging"
	loggingcombat "stagfall/server/logging/combat"
	loggingsim "stagfall/server/logging/simulation"
	"stagfall/server/logging/sinks"
)

func TestWorldEventsReachMemorySink(t *testing.T) {
	sink := sinks.NewMemorySink()
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityDebug
	router := logging.NewRouter(nil, cfg, []logging.NamedSink{{Name: "memory", Sink: sink}})

	w := newTestWorld(nil)
	w.publisher = router

	deer := placeAnimal(w, "deer", 0, 0, AnimalFleeing)
	var out StepOutput
	if w.requestTransition(deer, AnimalAlerted, 1, &out) {
		t.Fatalf("fleeing animals cannot re-alert")
	}

	w.player.weapon.ammo = 0
	w.Step(2, 1.0/float64(tickRate), []Command{
		{PlayerID: "hunter-1", Fire: &FireCommand{Aim: vec3{Z: 1}}},
	})

	// Close drains the queue and flushes every sink worker.
	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("router close: %v", err)
	}

	counts := make(map[logging.EventType]int)
	for _, e := range sink.Events() {
		counts[e.Type]++
	}
	if counts[loggingsim.EventInvalidTransition] == 0 {
		t.Fatalf("rejected transition never reached the sink, saw %v", counts)
	}
	if counts[loggingcombat.EventCommandRejected] == 0 {
		t.Fatalf("rejected fire command never reached the sink, saw %v", counts)
	}
}
