package network

import (
	"github.com/automoto/beamarena/avatar"
	"github.com/automoto/beamarena/components"
	"github.com/automoto/beamarena/shared/netcomponents"
	"github.com/yohamta/donburi"
)

// AvatarTarget is an overlay target backed by an avatar entity. It goes
// invalid as soon as the entity leaves the world.
type AvatarTarget struct {
	world  donburi.World
	entity donburi.Entity
	height float64
	radius float64
}

func NewAvatarTarget(world donburi.World, entity donburi.Entity, height, radius float64) *AvatarTarget {
	return &AvatarTarget{world: world, entity: entity, height: height, radius: radius}
}

func (t *AvatarTarget) Valid() bool {
	return t.world.Valid(t.entity)
}

func (t *AvatarTarget) entry() *donburi.Entry {
	return t.world.Entry(t.entity)
}

func (t *AvatarTarget) Health() float32 {
	e := t.entry()
	if !e.HasComponent(components.Avatar) {
		return 0
	}
	ctrl := components.Avatar.Get(e).Controller
	if ctrl == nil {
		return 0
	}
	return ctrl.Health()
}

func (t *AvatarTarget) Position() avatar.Vec3 {
	tr := netcomponents.NetTransform.Get(t.entry())
	return avatar.Vec3{X: tr.X, Y: tr.Y, Z: tr.Z}
}

func (t *AvatarTarget) Height() float64 { return t.height }
func (t *AvatarTarget) Radius() float64 { return t.radius }

func (t *AvatarTarget) DisplayName() string {
	e := t.entry()
	if !e.HasComponent(netcomponents.NetAvatar) {
		return ""
	}
	return netcomponents.NetAvatar.Get(e).Name
}
