package systems

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// UpdateBeams moves every avatar's body and beam in the hazard field to its
// current transform and advances the beam pulse.
func UpdateBeams(e *ecs.ECS) {
	arena, ok := arenaOf(e)
	if !ok || arena.Hazards == nil {
		return
	}
	dt := float32(tickDt())

	avatarQuery.Each(e.World, func(entry *donburi.Entry) {
		ctrl := controllerOf(entry)
		if ctrl == nil {
			return
		}
		arena.Hazards.Track(ctrl.ID(), positionOf(entry), avatarYaw(entry), ctrl.Firing(), ctrl.Removed())
		if ctrl.Removed() {
			return
		}

		if beam := beamOf(entry); beam != nil {
			beam.Update(dt)
		}
	})
}
