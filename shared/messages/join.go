package messages

import "github.com/leap-fish/necs/esync"

// JoinRequest is sent by a client after connecting to request joining the arena.
type JoinRequest struct {
	Version    string
	PlayerName string
}

// JoinAccepted is sent by the server when a client's join request is accepted.
type JoinAccepted struct {
	NetworkID  esync.NetworkId
	ServerName string
	TickRate   int
	Arena      string
	SpawnX     float64
	SpawnY     float64
	SpawnZ     float64
}

// JoinRejected is sent by the server when a client's join request is rejected.
type JoinRejected struct {
	Reason string
}

// LeaveRequest asks the server to remove the sender's avatar. The connection
// stays open.
type LeaveRequest struct{}
