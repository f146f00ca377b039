package components

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
)

// BeamEffect is the firing visual. It is the controller's effect target, so
// it lives behind a pointer that survives component storage moves.
type BeamEffect struct {
	active bool
	pulse  *gween.Sequence
	scale  float32
}

// NewBeamEffect returns an inactive beam whose width pulses between 1 and
// pulseScale every period seconds while active.
func NewBeamEffect(pulseScale, period float32) *BeamEffect {
	seq := gween.NewSequence(
		gween.New(1, pulseScale, period, ease.InOutQuad),
		gween.New(pulseScale, 1, period, ease.InOutQuad),
	)
	seq.SetLoop(-1)
	return &BeamEffect{pulse: seq, scale: 1}
}

func (b *BeamEffect) SetActive(active bool) {
	if active && !b.active {
		b.pulse.Reset()
		b.scale = 1
	}
	b.active = active
}

func (b *BeamEffect) Active() bool { return b.active }

// Scale is the current width multiplier.
func (b *BeamEffect) Scale() float32 { return b.scale }

// Update advances the pulse by dt seconds.
func (b *BeamEffect) Update(dt float32) {
	if !b.active {
		return
	}
	b.scale, _, _ = b.pulse.Update(dt)
}

type BeamData struct {
	*BeamEffect
}

var Beam = donburi.NewComponentType[BeamData]()
