package systems

import (
	"github.com/automoto/beamarena/avatar"
	"github.com/automoto/beamarena/components"
	"github.com/automoto/beamarena/shared/gamemath"
	"github.com/automoto/beamarena/shared/netcomponents"
	"github.com/automoto/beamarena/tags"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/filter"
)

var (
	avatarQuery = donburi.NewQuery(filter.Contains(
		tags.Avatar, components.Avatar, netcomponents.NetTransform,
	))
	localAvatarQuery = donburi.NewQuery(filter.Contains(
		tags.Local, components.Avatar, netcomponents.NetTransform,
	))
)

// tickDt is the length of one game tick in seconds.
func tickDt() float64 {
	return 1 / float64(ebiten.TPS())
}

func controllerOf(entry *donburi.Entry) *avatar.Controller {
	return components.Avatar.Get(entry).Controller
}

func positionOf(entry *donburi.Entry) avatar.Vec3 {
	tr := netcomponents.NetTransform.Get(entry)
	return avatar.Vec3{X: tr.X, Y: tr.Y, Z: tr.Z}
}

func avatarYaw(entry *donburi.Entry) float64 {
	return netcomponents.NetTransform.Get(entry).Yaw
}

func heading(yaw float64) avatar.Vec3 {
	dx, dz := gamemath.Heading(yaw)
	return avatar.Vec3{X: dx, Z: dz}
}

func beamOf(entry *donburi.Entry) *components.BeamEffect {
	if !entry.HasComponent(components.Beam) {
		return nil
	}
	return components.Beam.Get(entry).BeamEffect
}

func arenaOf(e *ecs.ECS) (*components.ArenaData, bool) {
	entry, ok := components.Arena.First(e.World)
	if !ok {
		return nil, false
	}
	return components.Arena.Get(entry), true
}

// localEntry looks up the local avatar by the network id the session joined
// as. It fails until the avatar has spawned and after it is removed.
func localEntry(w donburi.World, id esync.NetworkId) (*donburi.Entry, bool) {
	entity := esync.FindByNetworkId(w, id)
	if !w.Valid(entity) {
		return nil, false
	}
	entry := w.Entry(entity)
	if !entry.HasComponent(tags.Local) || !entry.HasComponent(components.Avatar) {
		return nil, false
	}
	return entry, true
}
