package avatar

import (
	"errors"
	"math"
	"testing"

	"github.com/automoto/beamarena/shared/replication"
)

type fakeEffect struct {
	active  bool
	toggles []bool
}

func (f *fakeEffect) SetActive(active bool) {
	f.active = active
	f.toggles = append(f.toggles, active)
}

type fakeSession struct {
	leaves int
}

func (f *fakeSession) LeaveRoom() { f.leaves++ }

const tick = 1.0 / 60

func newOwner(t Tuning) (*Controller, *fakeEffect, *fakeSession) {
	eff := &fakeEffect{}
	sess := &fakeSession{}
	c := New(Config{ID: 1, Name: "owner", Role: RoleOwner, Tuning: t, Effect: eff, Session: sess})
	eff.toggles = nil // drop the initial reset
	return c, eff, sess
}

func newObserver(t Tuning) (*Controller, *fakeEffect) {
	eff := &fakeEffect{}
	c := New(Config{ID: 2, Name: "observer", Role: RoleObserver, Tuning: t, Effect: eff})
	eff.toggles = nil
	return c, eff
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestResolveRole(t *testing.T) {
	local := ResolverFunc(func(id uint) bool { return id == 7 })
	if got := ResolveRole(local, 7); got != RoleOwner {
		t.Errorf("ResolveRole(7) = %v, want owner", got)
	}
	if got := ResolveRole(local, 8); got != RoleObserver {
		t.Errorf("ResolveRole(8) = %v, want observer", got)
	}
	if got := ResolveRole(nil, 7); got != RoleObserver {
		t.Errorf("ResolveRole(nil) = %v, want observer", got)
	}
}

func TestExactlyOneSideSerializes(t *testing.T) {
	owner, _, _ := newOwner(DefaultTuning())
	observer, _ := newObserver(DefaultTuning())

	if err := owner.Serialize(replication.NewWriter()); err != nil {
		t.Errorf("owner write: %v", err)
	}
	if err := owner.Serialize(replication.NewReader([]any{true, float32(1)})); !errors.Is(err, ErrNotObserver) {
		t.Errorf("owner read err = %v, want ErrNotObserver", err)
	}
	if err := observer.Serialize(replication.NewWriter()); !errors.Is(err, ErrNotOwner) {
		t.Errorf("observer write err = %v, want ErrNotOwner", err)
	}
	if err := observer.Serialize(replication.NewReader([]any{true, float32(1)})); err != nil {
		t.Errorf("observer read: %v", err)
	}

	if _, err := observer.Capture(); !errors.Is(err, ErrNotOwner) {
		t.Errorf("observer Capture err = %v", err)
	}
	if err := owner.Apply(nil); !errors.Is(err, ErrNotObserver) {
		t.Errorf("owner Apply err = %v", err)
	}
}

func TestCaptureApplyRoundTrip(t *testing.T) {
	owner, _, _ := newOwner(DefaultTuning())
	owner.Tick(TickInput{FireDown: true, Contacts: []uint{9}, Dt: tick})

	payload, err := owner.Capture()
	if err != nil {
		t.Fatal(err)
	}
	observer, _ := newObserver(DefaultTuning())
	if err := observer.Apply(payload); err != nil {
		t.Fatal(err)
	}
	got, want := observer.State(), owner.State()
	if got.Firing != want.Firing || math.Float32bits(got.Health) != math.Float32bits(want.Health) {
		t.Errorf("observer = %+v, owner = %+v", got, want)
	}
}

func TestApplyKeepsStateOnProtocolError(t *testing.T) {
	observer, _ := newObserver(DefaultTuning())
	good, _ := replication.Encode([]any{true, float32(0.5)})
	if err := observer.Apply(good); err != nil {
		t.Fatal(err)
	}
	bad, _ := replication.Encode([]any{false, float32(0.1), float32(3)})
	if err := observer.Apply(bad); !errors.Is(err, replication.ErrProtocol) {
		t.Fatalf("err = %v, want protocol error", err)
	}
	if s := observer.State(); !s.Firing || s.Health != 0.5 {
		t.Errorf("state after bad tick = %+v", s)
	}
}

func TestFireWithoutEdgesIsIdempotent(t *testing.T) {
	owner, eff, _ := newOwner(DefaultTuning())
	owner.Tick(TickInput{FireDown: true, Dt: tick})
	owner.Tick(TickInput{Dt: tick})
	owner.Tick(TickInput{Dt: tick})
	if !owner.Firing() {
		t.Fatal("firing dropped without a release edge")
	}
	if len(eff.toggles) != 1 {
		t.Errorf("effect toggled %d times, want 1", len(eff.toggles))
	}
}

func TestEffectFollowsFiringEveryTick(t *testing.T) {
	owner, eff, _ := newOwner(DefaultTuning())
	inputs := []TickInput{
		{FireDown: true}, {}, {FireUp: true}, {}, {FireDown: true}, {FireUp: true},
	}
	for i, in := range inputs {
		in.Dt = tick
		owner.Tick(in)
		if owner.EffectActive() != owner.Firing() || eff.active != owner.Firing() {
			t.Fatalf("tick %d: effect=%v applied=%v firing=%v", i, eff.active, owner.EffectActive(), owner.Firing())
		}
	}
}

func TestPressAndReleaseInOneTick(t *testing.T) {
	owner, eff, _ := newOwner(DefaultTuning())
	owner.Tick(TickInput{FireDown: true, FireUp: true, Dt: tick})
	if owner.Firing() {
		t.Fatal("firing should end false")
	}
	if len(eff.toggles) != 0 {
		t.Errorf("coalesced edges toggled the effect: %v", eff.toggles)
	}

	// Spread over two ticks both transitions are visible.
	owner.Tick(TickInput{FireDown: true, Dt: tick})
	owner.Tick(TickInput{FireUp: true, Dt: tick})
	if want := []bool{true, false}; len(eff.toggles) != 2 || eff.toggles[0] != want[0] || eff.toggles[1] != want[1] {
		t.Errorf("toggles = %v, want %v", eff.toggles, want)
	}
}

func TestHazardContactDamage(t *testing.T) {
	owner, _, _ := newOwner(Tuning{StartHealth: 1, ContactDamage: 0.1, DamageRate: 0.5})
	owner.Tick(TickInput{Contacts: []uint{3}, Dt: 0.5})
	if !approx(owner.Health(), 0.9) {
		t.Fatalf("after first contact health = %v, want 0.9", owner.Health())
	}
	owner.Tick(TickInput{Contacts: []uint{3, 3}, Dt: 0.5})
	if !approx(owner.Health(), 0.65) {
		t.Fatalf("after continued contact health = %v, want 0.65", owner.Health())
	}
	owner.Tick(TickInput{Dt: 0.5})
	owner.Tick(TickInput{Contacts: []uint{3}, Dt: 0.5})
	if !approx(owner.Health(), 0.55) {
		t.Fatalf("re-entered contact health = %v, want 0.55", owner.Health())
	}
}

func TestObserverIgnoresHazards(t *testing.T) {
	observer, _ := newObserver(DefaultTuning())
	for i := 0; i < 10; i++ {
		observer.Tick(TickInput{Contacts: []uint{1}, FireDown: true, Dt: 1})
	}
	if s := observer.State(); s.Health != 1 || s.Firing {
		t.Errorf("observer mutated its own state: %+v", s)
	}
}

func TestHazardScenarioReplicated(t *testing.T) {
	owner, _, _ := newOwner(Tuning{StartHealth: 1, ContactDamage: 0, DamageRate: 0.1})
	observer, _ := newObserver(DefaultTuning())

	// The first tick only starts the contact; 180 more are 3 seconds of it.
	const steps = 180
	for i := 0; i <= steps; i++ {
		owner.Tick(TickInput{Contacts: []uint{4}, Dt: tick})
	}
	payload, err := owner.Capture()
	if err != nil {
		t.Fatal(err)
	}
	if err := observer.Apply(payload); err != nil {
		t.Fatal(err)
	}
	observer.Tick(TickInput{Dt: tick})

	if h := observer.Health(); !approx(h, 0.7) {
		t.Errorf("observer health = %v, want ~0.7", h)
	}
	if observer.Firing() {
		t.Error("firing changed")
	}
}

func TestHealthMonotonicAndTerminal(t *testing.T) {
	owner, _, sess := newOwner(Tuning{StartHealth: 0.25, ContactDamage: 0.1, DamageRate: 0})
	prev := owner.Health()
	var atRemoval float32
	removedAt := -1
	for i := 0; i < 8; i++ {
		owner.Tick(TickInput{Contacts: []uint{uint(i)}, Dt: tick})
		if owner.Health() > prev {
			t.Fatalf("health rose from %v to %v", prev, owner.Health())
		}
		prev = owner.Health()
		if owner.Removed() && removedAt < 0 {
			removedAt, atRemoval = i, owner.Health()
		}
	}
	if removedAt != 2 {
		t.Fatalf("removed at tick %d, want 2", removedAt)
	}
	if sess.leaves != 1 {
		t.Errorf("LeaveRoom called %d times, want 1", sess.leaves)
	}
	if h := owner.Health(); h != atRemoval {
		t.Errorf("post-terminal damage applied: health %v -> %v", atRemoval, h)
	}
}

func TestExactZeroLeavesOnce(t *testing.T) {
	owner, _, sess := newOwner(Tuning{StartHealth: 0.5, ContactDamage: 0.5})
	owner.Tick(TickInput{Contacts: []uint{1}, Dt: tick})
	if owner.Health() != 0 {
		t.Fatalf("health = %v, want exactly 0", owner.Health())
	}
	owner.Tick(TickInput{Dt: tick})
	owner.Tick(TickInput{Contacts: []uint{1}, Dt: tick})
	if sess.leaves != 1 {
		t.Errorf("LeaveRoom called %d times, want 1", sess.leaves)
	}
	if owner.Phase() != PhaseRemoved {
		t.Errorf("phase = %v", owner.Phase())
	}
}

func TestObserverRemovedWithoutLeaving(t *testing.T) {
	sess := &fakeSession{}
	observer := New(Config{ID: 5, Role: RoleObserver, Tuning: DefaultTuning(), Session: sess})
	payload, _ := replication.Encode([]any{false, float32(-0.1)})
	if err := observer.Apply(payload); err != nil {
		t.Fatal(err)
	}
	observer.Tick(TickInput{Dt: tick})
	if !observer.Removed() {
		t.Fatal("observer should be removed")
	}
	if sess.leaves != 0 {
		t.Error("observer must not leave the session")
	}
	if err := observer.Apply(payload); !errors.Is(err, ErrRemoved) {
		t.Errorf("Apply after removal err = %v", err)
	}
}

func TestMissingEffectIsNotFatal(t *testing.T) {
	c := New(Config{ID: 1, Role: RoleOwner, Tuning: DefaultTuning(), Session: &fakeSession{}})
	c.Tick(TickInput{FireDown: true, Dt: tick})
	if !c.Firing() || !c.EffectActive() {
		t.Error("controller should keep running without an effect")
	}
}

func TestEdgeDetector(t *testing.T) {
	var d EdgeDetector
	levels := []bool{false, true, true, false, false, true}
	type edges struct{ down, up bool }
	want := []edges{{}, {down: true}, {}, {up: true}, {}, {down: true}}
	for i, level := range levels {
		down, up := d.Sample(level)
		if down != want[i].down || up != want[i].up {
			t.Errorf("sample %d (%v): got down=%v up=%v, want %+v", i, level, down, up, want[i])
		}
	}
}
