// Package gamemath holds the movement math for the local avatar. It is
// pure and headless so it can be tested without a window.
package gamemath

import (
	"math"

	"github.com/automoto/beamarena/shared/arenadata"
)

// Motion holds the movement tuning.
type Motion struct {
	MoveSpeed    float64 // units per second
	JumpSpeed    float64
	Gravity      float64
	MaxFallSpeed float64
	TurnSpeed    float64 // radians per second
}

// Body is the movement state of one avatar.
type Body struct {
	Pos      arenadata.Point
	Yaw      float64 // 0 faces +Z, positive turns toward +X
	VelY     float64
	OnGround bool
}

// Intent is the player's input for one step.
type Intent struct {
	Forward float64 // -1..1
	Turn    float64 // -1..1
	Jump    bool
}

// ClampSpeed clamps a value to [-max, max].
func ClampSpeed(speed, max float64) float64 {
	if speed > max {
		return max
	}
	if speed < -max {
		return -max
	}
	return speed
}

// WrapAngle maps a to (-pi, pi].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// Heading returns the unit XZ direction for yaw.
func Heading(yaw float64) (dx, dz float64) {
	return math.Sin(yaw), math.Cos(yaw)
}

// StepBody advances b by dt seconds. The body lands on the highest floor it
// reaches while falling; floors above its feet never block it. A nil arena
// has no floors.
func StepBody(b Body, in Intent, m Motion, arena *arenadata.Arena, dt float64) Body {
	b.Yaw = WrapAngle(b.Yaw + ClampSpeed(in.Turn, 1)*m.TurnSpeed*dt)

	dx, dz := Heading(b.Yaw)
	dist := ClampSpeed(in.Forward, 1) * m.MoveSpeed * dt
	b.Pos.X += dx * dist
	b.Pos.Z += dz * dist

	if in.Jump && b.OnGround {
		b.VelY = m.JumpSpeed
	}
	b.VelY = math.Max(b.VelY-m.Gravity*dt, -m.MaxFallSpeed)

	nextY := b.Pos.Y + b.VelY*dt
	if arena != nil && b.VelY <= 0 {
		probe := arenadata.Point{X: b.Pos.X, Y: b.Pos.Y, Z: b.Pos.Z}
		if ground, ok := arena.GroundBelow(probe, b.Pos.Y-nextY); ok {
			b.Pos.Y = ground
			b.VelY = 0
			b.OnGround = true
			return b
		}
	}
	b.Pos.Y = nextY
	b.OnGround = false
	return b
}
