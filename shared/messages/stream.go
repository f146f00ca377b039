package messages

// StreamUpdate is the owner's per-tick upload: the opaque replication
// payload plus the avatar transform.
type StreamUpdate struct {
	Seq     uint32
	Payload []byte
	X, Y, Z float64
	Yaw     float64
}
