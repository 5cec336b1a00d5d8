package main

// Wire messages exchanged with the client over the websocket.

type joinResponse struct {
	ID       string   `json:"id"`
	Snapshot Snapshot `json:"snapshot"`
}

type stateMessage struct {
	Type       string   `json:"type"`
	Snapshot   Snapshot `json:"snapshot"`
	Events     []Event  `json:"events,omitempty"`
	ServerTime int64    `json:"serverTime"`
}

// clientMessage is every inbound message shape folded into one struct; Type
// selects which fields matter.
type clientMessage struct {
	Type    string  `json:"type"`
	DX      float64 `json:"dx"`
	DZ      float64 `json:"dz"`
	Heading float64 `json:"heading"`
	Running bool    `json:"running"`
	Aiming  bool    `json:"aiming"`
	AimX    float64 `json:"aimX"`
	AimY    float64 `json:"aimY"`
	AimZ    float64 `json:"aimZ"`
	SentAt  int64   `json:"sentAt"`
}

type heartbeatMessage struct {
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
	RTTMillis  int64  `json:"rtt"`
}

type errorMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}
