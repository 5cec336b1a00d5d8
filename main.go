package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"stagfall/server/logging"
	"stagfall/server/logging/sinks"
)

func main() {
	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logCfg := logging.DefaultConfig()
	logCfg.MinimumSeverity = logging.SeverityFromString(cfg.LogLevel)
	logCfg.Fields = map[string]any{"seed": cfg.Seed}
	namedSinks := []logging.NamedSink{
		{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout, logCfg.Console)},
	}
	if cfg.EventLogPath != "" {
		jsonSink, err := sinks.NewJSONSink(logging.JSONConfig{FilePath: cfg.EventLogPath})
		if err != nil {
			log.Fatalf("open event log: %v", err)
		}
		namedSinks = append(namedSinks, logging.NamedSink{Name: "json", Sink: jsonSink})
	}
	router := logging.NewRouter(nil, logCfg, namedSinks)

	world, err := newWorld(cfg, router)
	if err != nil {
		log.Fatalf("build world: %v", err)
	}
	hub := newHub(world, router)

	stop := make(chan struct{})
	go hub.RunSimulation(stop)
	defer close(stop)

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	http.HandleFunc("/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		data, err := json.Marshal(hub.DiagnosticsSnapshot())
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	http.HandleFunc("/join", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		data, err := json.Marshal(hub.Join())
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		playerID := r.URL.Query().Get("id")
		if playerID == "" {
			http.Error(w, "missing id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade failed for %s: %v", playerID, err)
			return
		}

		sub, snapshot, ok := hub.Subscribe(playerID, conn)
		if !ok {
			message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unknown player")
			conn.WriteMessage(websocket.CloseMessage, message)
			conn.Close()
			return
		}

		initial := stateMessage{Type: "state", Snapshot: snapshot, ServerTime: time.Now().UnixMilli()}
		data, err := json.Marshal(initial)
		if err != nil {
			log.Printf("failed to marshal initial state for %s: %v", playerID, err)
			hub.Disconnect(playerID, "encode failed")
			return
		}
		if err := sub.send(data); err != nil {
			hub.Disconnect(playerID, "write failed")
			return
		}

		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				hub.Disconnect(playerID, "read failed")
				return
			}

			var msg clientMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				log.Printf("discarding malformed message from %s: %v", playerID, err)
				continue
			}

			switch msg.Type {
			case "move":
				hub.QueueCommand(Command{
					PlayerID: playerID,
					Move: &MoveCommand{
						DX:      msg.DX,
						DZ:      msg.DZ,
						Heading: msg.Heading,
						Running: msg.Running,
						Aiming:  msg.Aiming,
					},
				})
			case "fire":
				hub.QueueCommand(Command{
					PlayerID: playerID,
					Fire:     &FireCommand{Aim: vec3{X: msg.AimX, Y: msg.AimY, Z: msg.AimZ}},
				})
			case "reload":
				hub.QueueCommand(Command{PlayerID: playerID, Reload: true})
			case "heartbeat":
				now := time.Now()
				rtt, ok := hub.UpdateHeartbeat(playerID, now, msg.SentAt)
				if !ok {
					continue
				}
				ack := heartbeatMessage{
					Type:       "heartbeat",
					ServerTime: now.UnixMilli(),
					ClientTime: msg.SentAt,
					RTTMillis:  rtt.Milliseconds(),
				}
				data, err := json.Marshal(ack)
				if err != nil {
					log.Printf("failed to marshal heartbeat ack for %s: %v", playerID, err)
					continue
				}
				if err := sub.send(data); err != nil {
					hub.Disconnect(playerID, "write failed")
					return
				}
			default:
				reply := errorMessage{Type: "error", Reason: fmt.Sprintf("unknown message type %q", msg.Type)}
				data, err := json.Marshal(reply)
				if err != nil {
					continue
				}
				if err := sub.send(data); err != nil {
					hub.Disconnect(playerID, "write failed")
					return
				}
			}
		}
	})

	log.Printf("server listening on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
