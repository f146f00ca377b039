package components

import (
	"github.com/automoto/beamarena/view"
	"github.com/yohamta/donburi"
)

type CameraData struct {
	*view.Camera
}

var Camera = donburi.NewComponentType[CameraData]()
