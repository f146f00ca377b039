package netcomponents

import "github.com/yohamta/donburi"

// NetTransformData is the owner-reported world position of an avatar.
type NetTransformData struct {
	X, Y, Z float64
	Yaw     float64
}

var NetTransform = donburi.NewComponentType[NetTransformData]()

// LerpNetTransform interpolates between two transforms.
func LerpNetTransform(from, to NetTransformData, t float64) *NetTransformData {
	return &NetTransformData{
		X:   from.X + (to.X-from.X)*t,
		Y:   from.Y + (to.Y-from.Y)*t,
		Z:   from.Z + (to.Z-from.Z)*t,
		Yaw: to.Yaw,
	}
}
