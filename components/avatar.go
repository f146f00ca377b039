package components

import (
	"image/color"

	"github.com/automoto/beamarena/avatar"
	"github.com/yohamta/donburi"
)

// AvatarData links a networked entity to its controller.
type AvatarData struct {
	Controller *avatar.Controller
	Color      color.RGBA
}

var Avatar = donburi.NewComponentType[AvatarData]()

// BodyData is the local avatar's movement state.
type BodyData struct {
	VelY     float64
	OnGround bool
}

var Body = donburi.NewComponentType[BodyData]()
