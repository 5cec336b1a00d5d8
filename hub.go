package main

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"stagfall/server/logging"
	logginglifecycle "stagfall/server/logging/lifecycle"
	loggingsim "stagfall/server/logging/simulation"
)

// subscriber serializes writes to one websocket connection.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub owns the world and the tick loop. Client intents are queued under the
// mutex and drained into Step on the simulation goroutine; nothing outside
// that goroutine mutates the world.
type Hub struct {
	mu         sync.Mutex
	world      *World
	commands   []Command
	subscriber *subscriber
	joined     bool

	lastHeartbeat time.Time
	lastRTT       time.Duration

	publisher logging.Publisher
}

func newHub(world *World, publisher logging.Publisher) *Hub {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &Hub{world: world, publisher: publisher}
}

// Join claims the hunter slot and returns the starting snapshot. Rejoining
// replaces any live connection.
func (h *Hub) Join() joinResponse {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.joined = true
	h.lastHeartbeat = time.Now()
	playerID := h.world.player.ID

	logginglifecycle.PlayerJoined(
		context.Background(),
		h.publisher,
		h.world.currentTick,
		logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
	)
	return joinResponse{ID: playerID, Snapshot: h.world.Snapshot()}
}

// Subscribe attaches a websocket to the joined hunter, replacing a previous
// connection if one is still open.
func (h *Hub) Subscribe(playerID string, conn *websocket.Conn) (*subscriber, Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.joined || playerID != h.world.player.ID {
		return nil, Snapshot{}, false
	}
	if h.subscriber != nil {
		h.subscriber.conn.Close()
	}
	h.lastHeartbeat = time.Now()
	sub := &subscriber{conn: conn}
	h.subscriber = sub
	return sub, h.world.Snapshot(), true
}

// Disconnect drops the connection. The world keeps simulating; the hunter
// slot stays claimed so a reconnect resumes the session.
func (h *Hub) Disconnect(playerID, reason string) {
	h.mu.Lock()
	sub := h.subscriber
	h.subscriber = nil
	tick := h.world.currentTick
	h.mu.Unlock()

	if sub != nil {
		sub.conn.Close()
	}
	logginglifecycle.PlayerDisconnected(
		context.Background(),
		h.publisher,
		tick,
		logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		logginglifecycle.PlayerDisconnectedPayload{Reason: reason},
	)
}

// QueueCommand enqueues one client intent for the next tick.
func (h *Hub) QueueCommand(cmd Command) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.joined || cmd.PlayerID != h.world.player.ID {
		return false
	}
	h.commands = append(h.commands, cmd)
	return true
}

// UpdateHeartbeat records liveness and computes the round trip from the
// client clock when it looks sane.
func (h *Hub) UpdateHeartbeat(playerID string, receivedAt time.Time, clientSent int64) (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.joined || playerID != h.world.player.ID {
		return 0, false
	}
	h.lastHeartbeat = receivedAt
	h.commands = append(h.commands, Command{PlayerID: playerID, Heartbeat: true})

	if clientSent > 0 {
		clientTime := time.UnixMilli(clientSent)
		if clientTime.Before(receivedAt.Add(5 * time.Second)) {
			rtt := receivedAt.Sub(clientTime)
			if rtt < 0 {
				rtt = 0
			}
			h.lastRTT = rtt
		}
	}
	return h.lastRTT, true
}

// RunSimulation drives the fixed-rate tick loop until stop closes.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	interval := time.Second / tickRate
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var tick uint64
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			tick++
			h.step(tick, now, interval)
		}
	}
}

func (h *Hub) step(tick uint64, now time.Time, budget time.Duration) {
	h.mu.Lock()
	commands := h.commands
	h.commands = nil
	if h.subscriber != nil && now.Sub(h.lastHeartbeat) > disconnectAfter {
		stale := h.subscriber
		h.subscriber = nil
		go stale.conn.Close()
		log.Printf("disconnecting %s due to heartbeat timeout", h.world.player.ID)
	}

	out := h.world.Step(tick, 1.0/float64(tickRate), commands)
	snapshot := h.world.Snapshot()
	sub := h.subscriber
	h.mu.Unlock()

	if elapsed := time.Since(now); elapsed > budget {
		loggingsim.TickLagging(
			context.Background(),
			h.publisher,
			tick,
			loggingsim.TickLaggingPayload{Elapsed: elapsed, Budget: budget},
		)
	}

	if sub == nil {
		return
	}
	msg := stateMessage{
		Type:       "state",
		Snapshot:   snapshot,
		Events:     out.Events,
		ServerTime: now.UnixMilli(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("failed to marshal state message: %v", err)
		return
	}
	if err := sub.send(data); err != nil {
		h.Disconnect(snapshot.Player.ID, "write failed")
	}
}

type diagnosticsSnapshot struct {
	Status        string         `json:"status"`
	Tick          uint64         `json:"tick"`
	Kills         int            `json:"kills"`
	RequiredKills int            `json:"requiredKills"`
	Animals       int            `json:"animals"`
	SpeciesCounts map[string]int `json:"speciesCounts"`
	Projectiles   int            `json:"projectiles"`
	Connected     bool           `json:"connected"`
	LastHeartbeat int64          `json:"lastHeartbeat"`
	RTTMillis     int64          `json:"rttMillis"`
}

func (h *Hub) DiagnosticsSnapshot() diagnosticsSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	counts := make(map[string]int, len(h.world.species.Names()))
	for _, name := range h.world.species.Names() {
		counts[name] = h.world.speciesCount(name)
	}
	return diagnosticsSnapshot{
		Status:        "ok",
		Tick:          h.world.currentTick,
		Kills:         h.world.kills,
		RequiredKills: h.world.cfg.RequiredKills,
		Animals:       len(h.world.animals),
		SpeciesCounts: counts,
		Projectiles:   len(h.world.projectiles),
		Connected:     h.subscriber != nil,
		LastHeartbeat: h.lastHeartbeat.UnixMilli(),
		RTTMillis:     h.lastRTT.Milliseconds(),
	}
}
