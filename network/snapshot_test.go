package network

import (
	"testing"

	"github.com/automoto/beamarena/avatar"
	"github.com/automoto/beamarena/components"
	"github.com/automoto/beamarena/overlay"
	"github.com/automoto/beamarena/shared/messages"
	"github.com/automoto/beamarena/shared/netcomponents"
	"github.com/automoto/beamarena/tags"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

const localID esync.NetworkId = 7

func localResolver() avatar.Resolver {
	return avatar.ResolverFunc(func(id uint) bool { return id == uint(localID) })
}

// spawnController mimics the arena scene: every new avatar gets a controller
// whose role comes from the resolver.
func spawnController(r avatar.Resolver, spawned *[]esync.NetworkId) func(*donburi.Entry, bool) {
	return func(entry *donburi.Entry, local bool) {
		id := *esync.GetNetworkId(entry)
		*spawned = append(*spawned, id)
		entry.AddComponent(components.Avatar)
		components.Avatar.SetValue(entry, components.AvatarData{
			Controller: avatar.New(avatar.Config{
				ID:     uint(id),
				Name:   netcomponents.NetAvatar.Get(entry).Name,
				Role:   avatar.ResolveRole(r, uint(id)),
				Tuning: avatar.DefaultTuning(),
			}),
		})
	}
}

// ownerPayload is what an owner that took one hit of damage sends.
func ownerPayload(t *testing.T, firing bool, damage float32) []byte {
	t.Helper()
	tuning := avatar.DefaultTuning()
	tuning.ContactDamage = damage
	c := avatar.New(avatar.Config{ID: 99, Role: avatar.RoleOwner, Tuning: tuning})
	c.Tick(avatar.TickInput{FireDown: firing, Contacts: []uint{1}, Dt: 1.0 / 60})
	payload, err := c.Capture()
	if err != nil {
		t.Fatal(err)
	}
	return payload
}

func update(id esync.NetworkId, name string, x float64, stream *netcomponents.NetStreamData) EntityUpdate {
	u := EntityUpdate{ID: id, Components: []any{
		netcomponents.NetAvatarData{Name: name},
		netcomponents.NetTransformData{X: x},
	}}
	if stream != nil {
		u.Components = append(u.Components, *stream)
	}
	return u
}

func controllerOf(t *testing.T, world donburi.World, id esync.NetworkId) *avatar.Controller {
	t.Helper()
	entity := esync.FindByNetworkId(world, id)
	if !world.Valid(entity) {
		t.Fatalf("entity %d missing", id)
	}
	return components.Avatar.Get(world.Entry(entity)).Controller
}

func TestApplySpawnsOncePerAvatar(t *testing.T) {
	world := donburi.NewWorld()
	r := localResolver()
	var spawned []esync.NetworkId
	a := NewApplier(r)
	a.OnSpawn = spawnController(r, &spawned)

	snap := []EntityUpdate{update(localID, "me", 1, nil), update(8, "them", 2, nil)}
	a.Apply(world, snap)
	a.Apply(world, snap)

	if len(spawned) != 2 {
		t.Fatalf("spawned = %v", spawned)
	}
	local := world.Entry(esync.FindByNetworkId(world, localID))
	if !local.HasComponent(tags.Local) || local.HasComponent(components.NetInterp) {
		t.Error("local avatar should be tagged local and not interpolated")
	}
	remote := world.Entry(esync.FindByNetworkId(world, 8))
	if remote.HasComponent(tags.Local) || !remote.HasComponent(components.NetInterp) {
		t.Error("remote avatar should be interpolated")
	}
	if !controllerOf(t, world, localID).IsOwner() || controllerOf(t, world, 8).IsOwner() {
		t.Error("roles resolved incorrectly")
	}
	if got := netcomponents.NetAvatar.Get(remote).Name; got != "them" {
		t.Errorf("remote name = %q", got)
	}
}

func TestApplyFeedsObserverAndKeepsStateOnGarbage(t *testing.T) {
	world := donburi.NewWorld()
	r := localResolver()
	var spawned []esync.NetworkId
	a := NewApplier(r)
	a.OnSpawn = spawnController(r, &spawned)

	payload := ownerPayload(t, true, 0.4)
	a.Apply(world, []EntityUpdate{update(8, "them", 0, &netcomponents.NetStreamData{Seq: 1, Payload: payload})})

	ctrl := controllerOf(t, world, 8)
	if st := ctrl.State(); !st.Firing || st.Health < 0.59 || st.Health > 0.61 {
		t.Fatalf("observer state = %+v", st)
	}

	// Shape mismatch: a three-element array.
	bad := []byte{0x93, 0xc2, 0xca, 0x3f, 0x00, 0x00, 0x00, 0xc2}
	a.Apply(world, []EntityUpdate{update(8, "them", 0, &netcomponents.NetStreamData{Seq: 2, Payload: bad})})
	if st := ctrl.State(); !st.Firing || st.Health < 0.59 || st.Health > 0.61 {
		t.Fatalf("protocol error changed state to %+v", st)
	}
}

func TestApplyNeverOverwritesLocalState(t *testing.T) {
	world := donburi.NewWorld()
	r := localResolver()
	var spawned []esync.NetworkId
	a := NewApplier(r)
	a.OnSpawn = spawnController(r, &spawned)

	a.Apply(world, []EntityUpdate{update(localID, "me", 3, nil)})
	entry := world.Entry(esync.FindByNetworkId(world, localID))
	if got := netcomponents.NetTransform.Get(entry).X; got != 3 {
		t.Fatalf("spawn position X = %v, want 3", got)
	}

	// The player has moved since; a stale echo must not pull them back.
	netcomponents.NetTransform.Get(entry).X = 10
	echo := ownerPayload(t, false, 0.5)
	a.Apply(world, []EntityUpdate{update(localID, "me", 3, &netcomponents.NetStreamData{Seq: 9, Payload: echo})})

	if got := netcomponents.NetTransform.Get(entry).X; got != 10 {
		t.Errorf("local X overwritten to %v", got)
	}
	if got := controllerOf(t, world, localID).Health(); got != 1 {
		t.Errorf("local health overwritten to %v", got)
	}
}

func TestRemovedAvatarDestroysOverlay(t *testing.T) {
	world := donburi.NewWorld()
	r := localResolver()
	var spawned []esync.NetworkId
	var removed []esync.NetworkId
	a := NewApplier(r)
	a.OnSpawn = spawnController(r, &spawned)
	a.OnRemove = func(entry *donburi.Entry) {
		removed = append(removed, *esync.GetNetworkId(entry))
	}

	a.Apply(world, []EntityUpdate{update(localID, "me", 0, nil), update(8, "them", 0, nil)})

	entity := esync.FindByNetworkId(world, 8)
	target := NewAvatarTarget(world, entity, 2, 0.5)
	b := overlay.NewBinder(0, 0)
	if err := b.Bind(target); err != nil {
		t.Fatal(err)
	}
	if !b.Step(nil) {
		t.Fatal("binder destroyed while the avatar is present")
	}
	if b.Gauge().Name != "them" {
		t.Errorf("gauge name = %q", b.Gauge().Name)
	}

	a.Apply(world, []EntityUpdate{update(localID, "me", 0, nil)})

	if len(removed) != 1 || removed[0] != 8 {
		t.Fatalf("removed = %v", removed)
	}
	if target.Valid() {
		t.Fatal("target still valid after removal")
	}
	if b.Step(nil) || !b.Destroyed() {
		t.Fatal("binder survived its target")
	}
}

func TestRemoteTransformInterpolates(t *testing.T) {
	world := donburi.NewWorld()
	a := NewApplier(localResolver())

	a.Apply(world, []EntityUpdate{update(8, "them", 2, nil)})
	entry := world.Entry(esync.FindByNetworkId(world, 8))
	if got := netcomponents.NetTransform.Get(entry).X; got != 2 {
		t.Fatalf("first transform X = %v, want snap to 2", got)
	}

	a.Apply(world, []EntityUpdate{update(8, "them", 6, nil)})
	if got := netcomponents.NetTransform.Get(entry).X; got != 2 {
		t.Errorf("second transform jumped to %v before interpolation", got)
	}
	interp := components.NetInterp.Get(entry)
	if interp.Target.X != 6 || interp.Prev.X != 2 || interp.T != 0 {
		t.Errorf("interp = %+v", *interp)
	}
}

func TestClientSessionRole(t *testing.T) {
	c := NewClient()
	if c.IsLocal(uint(localID)) {
		t.Fatal("nothing is local before the join is accepted")
	}
	c.acceptJoin(messages.JoinAccepted{NetworkID: localID, TickRate: 20, Arena: "arena"})
	if !c.IsLocal(uint(localID)) || c.IsLocal(8) {
		t.Fatal("IsLocal does not match the accepted network id")
	}
	if c.State() != StateJoinedGame || c.TickRate() != 20 || c.Welcome().Arena != "arena" {
		t.Fatalf("state = %v, welcome = %+v", c.State(), c.Welcome())
	}

	// No connection: the leave cannot be sent, so the client drops out.
	c.LeaveRoom()
	if c.State() != StateDisconnected {
		t.Fatalf("state after leave = %v", c.State())
	}
	c.LeaveRoom()
	if c.State() != StateDisconnected {
		t.Fatalf("second leave changed state to %v", c.State())
	}
}

func TestLatestSnapshotKeepsNewest(t *testing.T) {
	c := NewClient()
	if c.LatestSnapshot() != nil {
		t.Fatal("empty client returned a snapshot")
	}
	c.pushSnapshot(make(esync.WorldSnapshot, 1))
	c.pushSnapshot(make(esync.WorldSnapshot, 2))
	snap := c.LatestSnapshot()
	if snap == nil || len(*snap) != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if c.LatestSnapshot() != nil {
		t.Fatal("snapshot delivered twice")
	}
}
