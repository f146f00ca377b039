package components

import (
	"github.com/automoto/beamarena/overlay"
	"github.com/yohamta/donburi"
)

// OverlayData is a free-standing UI entity. It is not attached to the avatar
// it shows; the binder only holds a reference to it.
type OverlayData struct {
	*overlay.Binder
}

var Overlay = donburi.NewComponentType[OverlayData]()
