package components

import (
	"github.com/automoto/beamarena/shared/netcomponents"
	"github.com/yohamta/donburi"
)

// NetInterpData stores interpolation state for smooth rendering of remote
// networked entities between server snapshots.
type NetInterpData struct {
	Prev        netcomponents.NetTransformData
	Target      netcomponents.NetTransformData
	T           float64
	Initialized bool
}

var NetInterp = donburi.NewComponentType[NetInterpData]()

// Retarget starts a new interpolation leg from the currently shown transform.
// The first target snaps.
func (d *NetInterpData) Retarget(current, target netcomponents.NetTransformData) {
	if !d.Initialized {
		d.Prev, d.Target, d.T, d.Initialized = target, target, 1, true
		return
	}
	d.Prev, d.Target, d.T = current, target, 0
}

// Advance moves dt seconds along the current leg, which lasts one snapshot
// interval at tickRate, and returns the transform to show.
func (d *NetInterpData) Advance(dt float64, tickRate int) netcomponents.NetTransformData {
	if tickRate <= 0 {
		d.T = 1
	} else {
		d.T += dt * float64(tickRate)
	}
	if d.T >= 1 {
		d.T = 1
		return d.Target
	}
	return *netcomponents.LerpNetTransform(d.Prev, d.Target, d.T)
}
