// Package hazard tracks firing beams and avatar bodies on the arena floor
// plane and reports which beams touch which bodies.
//
// Broad phase runs on a resolv space laid over the XZ plane; the narrow phase
// is a capsule test of the body against the beam segment.
package hazard

import (
	"math"
	"slices"

	"github.com/automoto/beamarena/avatar"
	"github.com/solarlune/resolv"
)

const (
	tagBeam = "beam"
	tagBody = "body"

	// scale converts world units to space units; resolv cells are integers.
	scale    = 16.0
	cellSize = 16
)

// Shape sizes the beams and bodies in a field.
type Shape struct {
	BeamLength float64
	BeamWidth  float64
	BodyRadius float64
	BodyHeight float64
}

type beam struct {
	owner  uint
	origin avatar.Vec3
	dirX   float64
	dirZ   float64
	active bool
	obj    *resolv.Object
}

type body struct {
	id  uint
	pos avatar.Vec3
	obj *resolv.Object
}

// Field is not safe for concurrent use; it lives on the game loop.
type Field struct {
	shape  Shape
	space  *resolv.Space
	beams  map[uint]*beam
	bodies map[uint]*body
}

// NewField covers a width x depth area of the floor, in world units.
func NewField(width, depth float64, shape Shape) *Field {
	w := int(math.Ceil(width*scale)) + cellSize
	h := int(math.Ceil(depth*scale)) + cellSize
	return &Field{
		shape:  shape,
		space:  resolv.NewSpace(w, h, cellSize, cellSize),
		beams:  make(map[uint]*beam),
		bodies: make(map[uint]*body),
	}
}

// SetBody places avatar id's body with its feet at pos.
func (f *Field) SetBody(id uint, pos avatar.Vec3) {
	b, ok := f.bodies[id]
	if !ok {
		d := f.shape.BodyRadius * 2 * scale
		b = &body{id: id, obj: resolv.NewObject(0, 0, d, d, tagBody)}
		b.obj.Data = id
		f.bodies[id] = b
		f.space.Add(b.obj)
	}
	b.pos = pos
	r := f.shape.BodyRadius
	b.obj.X = (pos.X - r) * scale
	b.obj.Y = (pos.Z - r) * scale
	b.obj.Update()
}

// SetBeam places owner's beam at origin facing yaw (radians, 0 looks down
// +Z). Inactive beams stay in the field but never touch anything.
func (f *Field) SetBeam(owner uint, origin avatar.Vec3, yaw float64, active bool) {
	b, ok := f.beams[owner]
	if !ok {
		b = &beam{owner: owner, obj: resolv.NewObject(0, 0, 1, 1, tagBeam)}
		b.obj.Data = owner
		f.beams[owner] = b
		f.space.Add(b.obj)
	}
	b.origin = origin
	b.dirX, b.dirZ = math.Sin(yaw), math.Cos(yaw)
	b.active = active

	// The object is the beam's bounding box on the floor plane.
	l, hw := f.shape.BeamLength, f.shape.BeamWidth/2
	endX, endZ := origin.X+b.dirX*l, origin.Z+b.dirZ*l
	minX, maxX := math.Min(origin.X, endX)-hw, math.Max(origin.X, endX)+hw
	minZ, maxZ := math.Min(origin.Z, endZ)-hw, math.Max(origin.Z, endZ)+hw
	b.obj.X, b.obj.Y = minX*scale, minZ*scale
	b.obj.W, b.obj.H = (maxX-minX)*scale, (maxZ-minZ)*scale
	b.obj.Update()
}

// Track syncs avatar id for one tick. An avatar that is out of the game
// leaves the field, so a beam it was firing stops touching others at once.
func (f *Field) Track(id uint, pos avatar.Vec3, yaw float64, firing, out bool) {
	if out {
		f.Remove(id)
		return
	}
	f.SetBody(id, pos)
	f.SetBeam(id, pos, yaw, firing)
}

// Remove drops both the body and the beam of avatar id.
func (f *Field) Remove(id uint) {
	if b, ok := f.bodies[id]; ok {
		f.space.Remove(b.obj)
		delete(f.bodies, id)
	}
	if b, ok := f.beams[id]; ok {
		f.space.Remove(b.obj)
		delete(f.beams, id)
	}
}

// Contacts returns the owners of active beams touching body id, excluding
// its own beam. The order is stable for a given field state.
func (f *Field) Contacts(id uint) []uint {
	b, ok := f.bodies[id]
	if !ok {
		return nil
	}
	check := b.obj.Check(0, 0, tagBeam)
	if check == nil {
		return nil
	}

	var out []uint
	for _, obj := range check.Objects {
		owner, ok := obj.Data.(uint)
		if !ok || owner == id {
			continue
		}
		bm := f.beams[owner]
		if bm == nil || !bm.active {
			continue
		}
		if f.touches(bm, b) {
			out = append(out, owner)
		}
	}
	slices.Sort(out)
	return out
}

// touches is the narrow phase: the body's vertical extent must include the
// beam height and its circle must reach the beam segment.
func (f *Field) touches(bm *beam, b *body) bool {
	beamY := bm.origin.Y + f.shape.BodyHeight*0.5
	if beamY < b.pos.Y || beamY > b.pos.Y+f.shape.BodyHeight {
		return false
	}
	px, pz := b.pos.X-bm.origin.X, b.pos.Z-bm.origin.Z
	t := px*bm.dirX + pz*bm.dirZ
	t = math.Max(0, math.Min(f.shape.BeamLength, t))
	dx, dz := px-bm.dirX*t, pz-bm.dirZ*t
	reach := f.shape.BodyRadius + f.shape.BeamWidth/2
	return dx*dx+dz*dz <= reach*reach
}

// BeamEnd returns the far end of owner's beam, for drawing.
func (f *Field) BeamEnd(owner uint) (avatar.Vec3, bool) {
	bm, ok := f.beams[owner]
	if !ok {
		return avatar.Vec3{}, false
	}
	l := f.shape.BeamLength
	return avatar.Vec3{
		X: bm.origin.X + bm.dirX*l,
		Y: bm.origin.Y + f.shape.BodyHeight*0.5,
		Z: bm.origin.Z + bm.dirZ*l,
	}, true
}
