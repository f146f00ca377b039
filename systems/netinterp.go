package systems

import (
	"github.com/automoto/beamarena/components"
	"github.com/automoto/beamarena/shared/netcomponents"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/filter"
)

var netInterpQuery = donburi.NewQuery(filter.Contains(
	components.NetInterp, netcomponents.NetTransform,
))

// NewNetInterpSystem returns an update system that eases remote transforms
// toward the latest snapshot over one server tick.
func NewNetInterpSystem(tickRate func() int) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		dt := tickDt()
		rate := tickRate()
		netInterpQuery.Each(e.World, func(entry *donburi.Entry) {
			interp := components.NetInterp.Get(entry)
			if !interp.Initialized {
				return
			}
			netcomponents.NetTransform.SetValue(entry, interp.Advance(dt, rate))
		})
	}
}
