// Package view projects world positions onto the screen.
package view

import (
	"math"

	"github.com/automoto/beamarena/avatar"
)

var worldUp = avatar.Vec3{Y: 1}

// Camera is a pinhole perspective camera looking from Eye at Target. The
// world is left-handed: looking down +Z with +Y up, +X is to the right.
type Camera struct {
	Eye    avatar.Vec3
	Target avatar.Vec3
	FovY   float64 // vertical field of view, radians
	Near   float64
	Width  int
	Height int
}

type basis struct {
	forward, right, up avatar.Vec3
	focal              float64
}

func (c *Camera) basis() basis {
	f := normalize(c.Target.Sub(c.Eye))
	r := normalize(cross(worldUp, f))
	if r == (avatar.Vec3{}) {
		// Looking straight up or down; any horizontal right vector works.
		r = avatar.Vec3{X: 1}
	}
	u := cross(f, r)
	focal := float64(c.Height) / 2 / math.Tan(c.FovY/2)
	return basis{forward: f, right: r, up: u, focal: focal}
}

// WorldToScreen returns the pixel position of p (origin top-left, y down)
// and its depth along the view direction. Points with depth <= Near are
// behind the camera and their screen position is meaningless.
func (c *Camera) WorldToScreen(p avatar.Vec3) (x, y, depth float64) {
	b := c.basis()
	d := p.Sub(c.Eye)
	depth = dot(d, b.forward)
	if depth <= 0 {
		return 0, 0, depth
	}
	x = float64(c.Width)/2 + dot(d, b.right)*b.focal/depth
	y = float64(c.Height)/2 - dot(d, b.up)*b.focal/depth
	return x, y, depth
}

// InView reports whether a sphere of the given radius around p is at least
// partly on screen.
func (c *Camera) InView(p avatar.Vec3, radius float64) bool {
	x, y, depth := c.WorldToScreen(p)
	if depth <= c.Near {
		return false
	}
	r := radius * c.basis().focal / depth
	return x+r >= 0 && x-r <= float64(c.Width) &&
		y+r >= 0 && y-r <= float64(c.Height)
}

// Follow moves the camera so it trails target by offset, easing by
// smoothing (0..1) each call.
func (c *Camera) Follow(target, offset avatar.Vec3, smoothing float64) {
	wantEye := target.Add(offset)
	c.Eye = c.Eye.Add(wantEye.Sub(c.Eye).Scale(smoothing))
	c.Target = c.Target.Add(target.Sub(c.Target).Scale(smoothing))
}

func dot(a, b avatar.Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func cross(a, b avatar.Vec3) avatar.Vec3 {
	return avatar.Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func normalize(v avatar.Vec3) avatar.Vec3 {
	l := math.Sqrt(dot(v, v))
	if l < 1e-9 {
		return avatar.Vec3{}
	}
	return v.Scale(1 / l)
}
