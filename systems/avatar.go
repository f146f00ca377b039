package systems

import (
	"github.com/automoto/beamarena/avatar"
	"github.com/automoto/beamarena/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// UpdateAvatars ticks every avatar's controller. Only the local avatar gets
// fire edges and hazard contacts; observers just sync their effect.
func UpdateAvatars(e *ecs.ECS) {
	input := getOrCreateInput(e)
	arena, _ := arenaOf(e)
	dt := tickDt()

	avatarQuery.Each(e.World, func(entry *donburi.Entry) {
		ctrl := controllerOf(entry)
		if ctrl == nil {
			return
		}

		in := avatar.TickInput{Dt: dt}
		if ctrl.IsOwner() && entry.HasComponent(tags.Local) {
			in.FireDown = input.FireDown
			in.FireUp = input.FireUp
			if arena != nil && arena.Hazards != nil {
				in.Contacts = arena.Hazards.Contacts(ctrl.ID())
			}
		}
		ctrl.Tick(in)
	})
}
