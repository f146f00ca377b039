package network

import (
	"bytes"
	"log"

	"github.com/automoto/beamarena/avatar"
	"github.com/automoto/beamarena/components"
	"github.com/automoto/beamarena/shared/netcomponents"
	"github.com/automoto/beamarena/tags"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

// EntityUpdate is one entity of a decoded snapshot.
type EntityUpdate struct {
	ID         esync.NetworkId
	Components []any
}

// DecodeSnapshot deserializes every component of every entity. Components
// that fail to decode are logged and skipped.
func DecodeSnapshot(snapshot esync.WorldSnapshot) []EntityUpdate {
	out := make([]EntityUpdate, 0, len(snapshot))
	for _, ent := range snapshot {
		u := EntityUpdate{ID: ent.Id}
		for _, componentBytes := range ent.State {
			instance, err := esync.Mapper.Deserialize(componentBytes)
			if err != nil {
				log.Printf("[client] entity %d: skipping component: %v", ent.Id, err)
				continue
			}
			u.Components = append(u.Components, instance)
		}
		out = append(out, u)
	}
	return out
}

// Applier mirrors server snapshots into the client world.
//
// A snapshot is the complete set of live avatars: entities missing from it
// are removed, which is what invalidates overlay targets. Remote stream
// payloads are handed to the avatar's controller; the local avatar's stream
// and transform are never overwritten since this process owns them.
type Applier struct {
	resolver avatar.Resolver

	// OnSpawn runs once for each new avatar, after its name and transform are
	// set and before its first stream payload is applied.
	OnSpawn func(entry *donburi.Entry, local bool)
	// OnRemove runs just before an avatar's entity is removed.
	OnRemove func(entry *donburi.Entry)

	present map[esync.NetworkId]bool
}

func NewApplier(resolver avatar.Resolver) *Applier {
	return &Applier{
		resolver: resolver,
		present:  make(map[esync.NetworkId]bool),
	}
}

// Apply brings world in line with one snapshot.
func (a *Applier) Apply(world donburi.World, updates []EntityUpdate) {
	clear(a.present)

	for _, u := range updates {
		a.present[u.ID] = true
		local := avatar.ResolveRole(a.resolver, uint(u.ID)) == avatar.RoleOwner

		entity := esync.FindByNetworkId(world, u.ID)
		spawned := false
		if !world.Valid(entity) {
			entity = a.create(world, u.ID, local)
			spawned = true
		}
		entry := world.Entry(entity)

		var stream *netcomponents.NetStreamData
		for _, data := range u.Components {
			switch v := data.(type) {
			case netcomponents.NetAvatarData:
				netcomponents.NetAvatar.SetValue(entry, v)
			case netcomponents.NetTransformData:
				applyTransform(entry, v, local, spawned)
			case netcomponents.NetStreamData:
				cp := v
				stream = &cp
			}
		}

		if spawned && a.OnSpawn != nil {
			a.OnSpawn(entry, local)
		}
		if stream != nil && !local {
			applyStream(entry, *stream)
		}
	}

	var gone []*donburi.Entry
	esync.NetworkEntityQuery.Each(world, func(entry *donburi.Entry) {
		id := esync.GetNetworkId(entry)
		if id == nil || !a.present[*id] {
			gone = append(gone, entry)
		}
	})
	for _, entry := range gone {
		if a.OnRemove != nil {
			a.OnRemove(entry)
		}
		entry.Remove()
	}
}

func (a *Applier) create(world donburi.World, id esync.NetworkId, local bool) donburi.Entity {
	ctypes := []donburi.IComponentType{
		tags.Avatar,
		netcomponents.NetAvatar,
		netcomponents.NetStream,
		netcomponents.NetTransform,
	}
	if local {
		ctypes = append(ctypes, tags.Local)
	} else {
		ctypes = append(ctypes, components.NetInterp)
	}
	entity := world.Create(ctypes...)

	entry := world.Entry(entity)
	entry.AddComponent(esync.NetworkIdComponent)
	esync.NetworkIdComponent.SetValue(entry, id)
	return entity
}

// applyTransform snaps the local avatar to its spawn point once; after that
// the local transform is ours. Remote transforms start a new interpolation leg.
func applyTransform(entry *donburi.Entry, v netcomponents.NetTransformData, local, spawned bool) {
	if local {
		if spawned {
			netcomponents.NetTransform.SetValue(entry, v)
		}
		return
	}
	if !entry.HasComponent(components.NetInterp) {
		netcomponents.NetTransform.SetValue(entry, v)
		return
	}
	interp := components.NetInterp.Get(entry)
	first := !interp.Initialized
	interp.Retarget(*netcomponents.NetTransform.Get(entry), v)
	if first {
		netcomponents.NetTransform.SetValue(entry, v)
	}
}

// applyStream hands a new payload to the observer controller. Payloads the
// snapshot repeats unchanged are skipped.
func applyStream(entry *donburi.Entry, v netcomponents.NetStreamData) {
	cur := netcomponents.NetStream.Get(entry)
	if cur.Seq == v.Seq && bytes.Equal(cur.Payload, v.Payload) && cur.Payload != nil {
		return
	}
	*cur = v
	if len(v.Payload) == 0 || !entry.HasComponent(components.Avatar) {
		return
	}
	ctrl := components.Avatar.Get(entry).Controller
	if ctrl == nil {
		return
	}
	// Protocol errors are logged by the controller and keep the old state.
	_ = ctrl.Apply(v.Payload)
}
