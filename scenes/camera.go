package scenes

import (
	cfg "github.com/automoto/beamarena/config"
	"github.com/automoto/beamarena/view"
)

func newCamera() *view.Camera {
	return &view.Camera{
		FovY:   cfg.Camera.FovY,
		Near:   cfg.Camera.Near,
		Width:  cfg.C.Width,
		Height: cfg.C.Height,
	}
}
