// Package netconfig holds constants shared between client and server. It must
// have zero dependencies on ebiten or any graphics library so the relay
// binary stays headless.
package netconfig

const (
	// ProtocolVersion is compared during the join handshake. Servers started
	// with an empty required version accept any client.
	ProtocolVersion = "beamarena/1"

	DefaultPort     uint = 7373
	DefaultTickRate      = 20
	DefaultServer        = "localhost:7373"
	DefaultName          = "Beam Arena"
)

// MaxPlayerName bounds display names accepted by the relay.
const MaxPlayerName = 24
