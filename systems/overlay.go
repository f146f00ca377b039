package systems

import (
	"github.com/automoto/beamarena/components"
	"github.com/automoto/beamarena/overlay"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// UpdateOverlays steps every binder against the active camera and removes
// overlay entities whose binder destroyed itself. Runs after UpdateAvatars
// so gauges show this tick's health.
func UpdateOverlays(e *ecs.ECS) {
	var cam overlay.Projector
	if entry, ok := components.Camera.First(e.World); ok {
		if c := components.Camera.Get(entry).Camera; c != nil {
			cam = c
		}
	}

	var dead []*donburi.Entry
	components.Overlay.Each(e.World, func(entry *donburi.Entry) {
		b := components.Overlay.Get(entry).Binder
		if b == nil || !b.Step(cam) {
			dead = append(dead, entry)
		}
	})
	for _, entry := range dead {
		entry.Remove()
	}
}
