// Package avatar holds the per-participant state machine: who may write an
// avatar's health and firing flag, how that state is streamed to observers,
// and when the avatar leaves the session.
package avatar

// Vec3 is a world-space position. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// State is the replicated part of an avatar. Field order here matches the
// wire order: Firing, then Health.
type State struct {
	Firing bool
	Health float32
}

// Tuning holds the gameplay constants applied by the owner.
type Tuning struct {
	StartHealth   float32
	ContactDamage float32 // applied once when a hazard contact begins
	DamageRate    float32 // applied per second while contact continues
}

// DefaultTuning matches the values the arena ships with.
func DefaultTuning() Tuning {
	return Tuning{
		StartHealth:   1.0,
		ContactDamage: 0.1,
		DamageRate:    0.1,
	}
}
