// Package overlay keeps a screen-space health gauge attached to an avatar.
package overlay

import (
	"errors"
	"log"

	"github.com/automoto/beamarena/avatar"
)

var (
	ErrNilTarget    = errors.New("overlay target is nil or no longer valid")
	ErrAlreadyBound = errors.New("overlay is already bound")
	ErrDestroyed    = errors.New("overlay has been destroyed")
)

// Target is the avatar a Binder follows. The binder only reads from it.
type Target interface {
	// Valid turns false once the avatar has been removed from the scene.
	Valid() bool
	Health() float32
	Position() avatar.Vec3
	Height() float64
	Radius() float64
	DisplayName() string
}

// Projector is the active camera.
type Projector interface {
	WorldToScreen(p avatar.Vec3) (x, y, depth float64)
	InView(p avatar.Vec3, radius float64) bool
}

// Gauge is what gets drawn for one tick.
type Gauge struct {
	Name   string
	Health float32
	X, Y   float64
	Alpha  float32
}

// Binder mirrors one target into a Gauge each tick and destroys itself the
// first tick the target is gone.
type Binder struct {
	target    Target
	height    float64
	name      string
	offsetX   float64
	offsetY   float64
	gauge     Gauge
	destroyed bool
}

// NewBinder returns an unbound binder. The offset is added in screen pixels
// after projection.
func NewBinder(offsetX, offsetY float64) *Binder {
	return &Binder{offsetX: offsetX, offsetY: offsetY}
}

// Bind attaches the binder to target once. The target's height and name are
// sampled here and not read again.
func (b *Binder) Bind(target Target) error {
	if b.destroyed {
		log.Printf("[overlay] bind on destroyed overlay ignored")
		return ErrDestroyed
	}
	if target == nil || !target.Valid() {
		log.Printf("[overlay] missing target for Bind")
		return ErrNilTarget
	}
	if b.target != nil {
		log.Printf("[overlay] already bound to %q, bind ignored", b.name)
		return ErrAlreadyBound
	}
	b.target = target
	b.height = target.Height()
	b.name = target.DisplayName()
	b.gauge = Gauge{Name: b.name, Health: target.Health()}
	return nil
}

func (b *Binder) Bound() bool     { return b.target != nil }
func (b *Binder) Destroyed() bool { return b.destroyed }
func (b *Binder) Gauge() Gauge    { return b.gauge }

// Step refreshes the gauge. It returns false once the binder is destroyed.
func (b *Binder) Step(cam Projector) bool {
	if b.destroyed {
		return false
	}
	if b.target == nil {
		return true
	}
	if !b.target.Valid() {
		b.destroyed = true
		b.target = nil
		return false
	}

	b.gauge.Health = b.target.Health()

	pos := b.target.Position()
	if cam == nil {
		b.gauge.Alpha = 0
		return true
	}
	anchor := pos.Add(avatar.Vec3{Y: b.height})
	x, y, _ := cam.WorldToScreen(anchor)
	b.gauge.X = x + b.offsetX
	b.gauge.Y = y + b.offsetY
	if cam.InView(pos, b.target.Radius()) {
		b.gauge.Alpha = 1
	} else {
		b.gauge.Alpha = 0
	}
	return true
}
