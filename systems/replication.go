package systems

import (
	"log"

	"github.com/automoto/beamarena/shared/messages"
	"github.com/automoto/beamarena/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi/ecs"
)

// NewReplicationSystem returns an update system that uploads the local
// avatar's state every interval ticks. The payload is the controller's
// replication write; the transform rides along so observers can place it.
func NewReplicationSystem(sendFn func(any) error, localNetID func() esync.NetworkId, interval int) func(*ecs.ECS) {
	if interval < 1 {
		interval = 1
	}
	var tick int
	var seq uint32

	return func(e *ecs.ECS) {
		tick++
		if tick%interval != 0 {
			return
		}

		entry, ok := localEntry(e.World, localNetID())
		if !ok {
			return
		}
		ctrl := controllerOf(entry)
		if ctrl == nil || !ctrl.IsOwner() || ctrl.Removed() {
			return
		}

		payload, err := ctrl.Capture()
		if err != nil {
			log.Printf("[replication] capture failed: %v", err)
			return
		}

		seq++
		tr := netcomponents.NetTransform.Get(entry)
		msg := messages.StreamUpdate{
			Seq:     seq,
			Payload: payload,
			X:       tr.X,
			Y:       tr.Y,
			Z:       tr.Z,
			Yaw:     tr.Yaw,
		}
		if err := sendFn(msg); err != nil {
			log.Printf("[replication] send error: %v", err)
		}
	}
}
