package overlay

import (
	"errors"
	"testing"

	"github.com/automoto/beamarena/avatar"
)

type fakeTarget struct {
	valid   bool
	health  float32
	pos     avatar.Vec3
	height  float64
	name    string
	reads   int
	heights int
}

func (f *fakeTarget) Valid() bool { return f.valid }
func (f *fakeTarget) Health() float32 {
	f.reads++
	return f.health
}
func (f *fakeTarget) Position() avatar.Vec3 {
	f.reads++
	return f.pos
}
func (f *fakeTarget) Height() float64 {
	f.heights++
	return f.height
}
func (f *fakeTarget) Radius() float64     { return 0.5 }
func (f *fakeTarget) DisplayName() string { return f.name }

// flatCamera maps world (x, y) straight to pixels and treats x < 0 as off screen.
type flatCamera struct{}

func (flatCamera) WorldToScreen(p avatar.Vec3) (float64, float64, float64) {
	return p.X, -p.Y, 1
}

func (flatCamera) InView(p avatar.Vec3, _ float64) bool { return p.X >= 0 }

func TestBindRejectsNil(t *testing.T) {
	b := NewBinder(0, -30)
	if err := b.Bind(nil); !errors.Is(err, ErrNilTarget) {
		t.Fatalf("Bind(nil) err = %v", err)
	}
	if err := b.Bind(&fakeTarget{valid: false}); !errors.Is(err, ErrNilTarget) {
		t.Fatalf("Bind(invalid) err = %v", err)
	}
	if b.Bound() {
		t.Fatal("rejected bind must leave the binder unbound")
	}
}

func TestBindOnlyOnce(t *testing.T) {
	b := NewBinder(0, 0)
	first := &fakeTarget{valid: true, name: "first"}
	if err := b.Bind(first); err != nil {
		t.Fatal(err)
	}
	if err := b.Bind(&fakeTarget{valid: true, name: "second"}); !errors.Is(err, ErrAlreadyBound) {
		t.Fatalf("rebind err = %v", err)
	}
	if err := b.Bind(nil); !errors.Is(err, ErrNilTarget) {
		t.Fatalf("nil rebind err = %v", err)
	}
	b.Step(flatCamera{})
	if b.Gauge().Name != "first" {
		t.Errorf("binding changed to %q", b.Gauge().Name)
	}
}

func TestStepMirrorsTarget(t *testing.T) {
	target := &fakeTarget{valid: true, health: 0.8, pos: avatar.Vec3{X: 100, Y: 2}, height: 2, name: "amy"}
	b := NewBinder(5, -30)
	if err := b.Bind(target); err != nil {
		t.Fatal(err)
	}
	if !b.Step(flatCamera{}) {
		t.Fatal("Step reported destroyed")
	}
	g := b.Gauge()
	if g.Health != 0.8 || g.X != 105 || g.Y != -4-30 || g.Alpha != 1 || g.Name != "amy" {
		t.Fatalf("gauge = %+v", g)
	}

	// Height is cached at bind time.
	target.height = 50
	target.health = 0.3
	target.pos = avatar.Vec3{X: -1}
	b.Step(flatCamera{})
	g = b.Gauge()
	if g.Health != 0.3 || g.Y != -2-30 || g.Alpha != 0 {
		t.Fatalf("gauge = %+v", g)
	}
	if target.heights != 1 {
		t.Errorf("height sampled %d times, want 1", target.heights)
	}
}

func TestStepDestroysWhenTargetGone(t *testing.T) {
	target := &fakeTarget{valid: true, health: 1}
	b := NewBinder(0, 0)
	if err := b.Bind(target); err != nil {
		t.Fatal(err)
	}
	b.Step(flatCamera{})
	target.valid = false
	reads := target.reads
	if b.Step(flatCamera{}) {
		t.Fatal("Step should report destruction")
	}
	if !b.Destroyed() {
		t.Fatal("binder not destroyed")
	}
	if target.reads != reads {
		t.Error("binder read a removed target")
	}

	// Terminal: reviving the target or binding again does nothing.
	target.valid = true
	if b.Step(flatCamera{}) {
		t.Error("destroyed binder came back")
	}
	if err := b.Bind(target); !errors.Is(err, ErrDestroyed) {
		t.Errorf("bind after destroy err = %v", err)
	}
}
