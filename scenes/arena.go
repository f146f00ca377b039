package scenes

import (
	"image/color"
	"log"
	"strings"
	"sync"

	"github.com/automoto/beamarena/assets/arenas"
	"github.com/automoto/beamarena/avatar"
	"github.com/automoto/beamarena/components"
	cfg "github.com/automoto/beamarena/config"
	"github.com/automoto/beamarena/hazard"
	"github.com/automoto/beamarena/network"
	"github.com/automoto/beamarena/overlay"
	"github.com/automoto/beamarena/prefs"
	"github.com/automoto/beamarena/shared/arenadata"
	"github.com/automoto/beamarena/shared/netcomponents"
	"github.com/automoto/beamarena/systems"
	"github.com/automoto/beamarena/tags"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// leaveTimeout is how many ticks to wait for the server to drop our avatar
// after a leave before giving up on it.
const leaveTimeout = 120

// ArenaScene is the joined game. Snapshots are mirrored into the world at
// the start of each frame, then the systems run in a fixed order.
type ArenaScene struct {
	ecsWorld     *ecs.ECS
	sceneChanger SceneChanger
	store        *prefs.Store
	netClient    *network.Client
	applier      *network.Applier
	once         sync.Once

	arenaEntry    *donburi.Entry
	localCtrl     *avatar.Controller
	pendingReload bool
	leaveTicks    int
	colorIndex    int
}

func NewArenaScene(sc SceneChanger, store *prefs.Store, client *network.Client) *ArenaScene {
	return &ArenaScene{
		sceneChanger: sc,
		store:        store,
		netClient:    client,
	}
}

func (as *ArenaScene) Update() {
	as.once.Do(as.configure)

	state := as.netClient.State()
	if state == network.StateDisconnected || state == network.StateError {
		log.Println("[arena] disconnected, returning to connect screen")
		msg := "Disconnected from server"
		if err := as.netClient.LastError(); err != nil {
			msg = err.Error()
		}
		as.exit(msg)
		return
	}

	if snap := as.netClient.LatestSnapshot(); snap != nil {
		as.applier.Apply(as.ecsWorld.World, network.DecodeSnapshot(*snap))
	}

	if state == network.StateLeaving {
		as.leaveTicks++
		if !as.localPresent() || as.leaveTicks > leaveTimeout {
			as.exit(as.leaveReason())
			return
		}
	}

	if as.pendingReload {
		as.pendingReload = false
		as.reloadArena()
	}

	as.ecsWorld.Update()

	if entry, ok := components.Input.First(as.ecsWorld.World); ok {
		input := components.Input.Get(entry)
		if input.Reload.JustPressed {
			as.reloadArena()
		}
		if input.Leave.JustPressed {
			as.netClient.LeaveRoom()
		}
	}
}

func (as *ArenaScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{12, 14, 20, 255})

	if as.ecsWorld == nil {
		return
	}

	as.ecsWorld.Draw(screen)
}

func (as *ArenaScene) configure() {
	world := donburi.NewWorld()
	as.ecsWorld = ecs.NewECS(world)

	as.arenaEntry = world.Entry(world.Create(components.Arena))
	as.loadArena()
	as.createCamera()

	as.applier = network.NewApplier(as.netClient)
	as.applier.OnSpawn = as.spawnAvatar
	as.applier.OnRemove = as.removeAvatar

	sendFn := func(msg any) error {
		if as.netClient.State() != network.StateJoinedGame {
			return nil
		}
		return as.netClient.SendMessage(msg)
	}
	localNetID := func() esync.NetworkId {
		return as.netClient.NetworkID()
	}

	as.ecsWorld.AddSystem(systems.UpdateInput)
	as.ecsWorld.AddSystem(systems.UpdateFireInput)
	as.ecsWorld.AddSystem(systems.UpdateMovement)
	as.ecsWorld.AddSystem(systems.UpdateBeams)
	as.ecsWorld.AddSystem(systems.UpdateAvatars)
	as.ecsWorld.AddSystem(systems.NewReplicationSystem(sendFn, localNetID, cfg.Network.SendInterval))
	as.ecsWorld.AddSystem(systems.NewNetInterpSystem(as.netClient.TickRate))
	as.ecsWorld.AddSystem(systems.NewCameraSystem(localNetID))
	as.ecsWorld.AddSystem(systems.UpdateOverlays)

	as.ecsWorld.AddRenderer(systems.LayerWorld, systems.DrawArena)
	as.ecsWorld.AddRenderer(systems.LayerWorld, systems.DrawAvatars)
	as.ecsWorld.AddRenderer(systems.LayerOverlay, systems.DrawOverlays)
	as.ecsWorld.AddRenderer(systems.LayerOverlay, systems.NewHUDRenderer(as.netClient.Welcome().ServerName, localNetID))
}

// loadArena replaces the arena map and starts a fresh hazard field. Avatars
// re-enter the field on the next UpdateBeams. A map that fails to load
// keeps the previous one.
func (as *ArenaScene) loadArena() {
	file := cfg.Arena.File
	if name := as.netClient.Welcome().Arena; name != "" {
		file = name
		if !strings.HasSuffix(file, ".tmx") {
			file += ".tmx"
		}
	}

	data := components.Arena.Get(as.arenaEntry)
	a, err := arenadata.Load(arenas.FS, file)
	if err != nil {
		log.Printf("[arena] could not load %s: %v", file, err)
		if data.Arena == nil {
			return
		}
		a = data.Arena
	}

	w, d := a.Extent()
	data.Arena = a
	data.Hazards = hazard.NewField(w, d, hazard.Shape{
		BeamLength: cfg.Beam.Length,
		BeamWidth:  cfg.Beam.Width,
		BodyRadius: cfg.Avatar.Radius,
		BodyHeight: cfg.Avatar.Height,
	})
	data.Loads++
	log.Printf("[arena] loaded %s (%d floors, %d spawns), load #%d", a.Name, len(a.Floors), len(a.Spawns), data.Loads)
}

// reloadArena is the scene-load event: reload the map, put the local avatar
// back on safe ground if no floor is close below it, and give every avatar
// a fresh overlay.
func (as *ArenaScene) reloadArena() {
	as.loadArena()
	world := as.ecsWorld.World

	if entry, ok := as.localEntry(); ok {
		arena := components.Arena.Get(as.arenaEntry).Arena
		tr := netcomponents.NetTransform.Get(entry)
		fb := cfg.Arena.Fallback
		pos, moved := arena.Settle(
			arenadata.Point{X: tr.X, Y: tr.Y, Z: tr.Z},
			cfg.Arena.SafeDistance,
			arenadata.Point{X: fb.X, Y: fb.Y, Z: fb.Z},
		)
		if moved {
			log.Printf("[arena] no floor within %.1f below (%.1f, %.1f, %.1f), moving to (%.1f, %.1f, %.1f)",
				cfg.Arena.SafeDistance, tr.X, tr.Y, tr.Z, pos.X, pos.Y, pos.Z)
			tr.X, tr.Y, tr.Z = pos.X, pos.Y, pos.Z
			if entry.HasComponent(components.Body) {
				components.Body.SetValue(entry, components.BodyData{})
			}
		}
		if cam, ok := components.Camera.First(world); ok {
			systems.SnapCamera(components.Camera.Get(cam), avatar.Vec3{X: tr.X, Y: tr.Y, Z: tr.Z}, tr.Yaw)
		}
	}

	var stale []*donburi.Entry
	components.Overlay.Each(world, func(entry *donburi.Entry) {
		stale = append(stale, entry)
	})
	for _, entry := range stale {
		entry.Remove()
	}

	var avatars []*donburi.Entry
	tags.Avatar.Each(world, func(entry *donburi.Entry) {
		avatars = append(avatars, entry)
	})
	for _, entry := range avatars {
		as.attachOverlay(entry)
	}
}

func (as *ArenaScene) createCamera() {
	world := as.ecsWorld.World
	w := as.netClient.Welcome()
	spawn := avatar.Vec3{X: w.SpawnX, Y: w.SpawnY, Z: w.SpawnZ}

	cam := &components.CameraData{Camera: newCamera()}
	systems.SnapCamera(cam, spawn, 0)

	entry := world.Entry(world.Create(components.Camera))
	components.Camera.SetValue(entry, *cam)
}

// spawnAvatar gives a newly replicated avatar its controller, beam and
// overlay. The role comes from the session and never changes.
func (as *ArenaScene) spawnAvatar(entry *donburi.Entry, local bool) {
	id := uint(*esync.GetNetworkId(entry))
	name := netcomponents.NetAvatar.Get(entry).Name
	beam := components.NewBeamEffect(float32(cfg.Beam.PulseScale), cfg.Beam.PulseTime)

	ctrl := avatar.New(avatar.Config{
		ID:     id,
		Name:   name,
		Role:   avatar.ResolveRole(as.netClient, id),
		Tuning: tuning(),
		Effect: beam,
		// Observers never leave; only the owner's controller uses this.
		Session: as.netClient,
	})

	clr := cfg.AvatarColors[as.colorIndex%len(cfg.AvatarColors)]
	as.colorIndex++

	entry.AddComponent(components.Avatar)
	components.Avatar.SetValue(entry, components.AvatarData{Controller: ctrl, Color: clr})
	entry.AddComponent(components.Beam)
	components.Beam.SetValue(entry, components.BeamData{BeamEffect: beam})

	if local {
		entry.AddComponent(components.Body)
		as.localCtrl = ctrl
		as.pendingReload = true
	}
	as.attachOverlay(entry)

	log.Printf("[arena] avatar %d (%q) joined as %s", id, name, ctrl.Role())
}

func (as *ArenaScene) removeAvatar(entry *donburi.Entry) {
	id := esync.GetNetworkId(entry)
	if id == nil {
		return
	}
	if hazards := components.Arena.Get(as.arenaEntry).Hazards; hazards != nil {
		hazards.Remove(uint(*id))
	}
	log.Printf("[arena] avatar %d left", *id)
}

// attachOverlay creates a free-standing overlay entity bound to entry.
func (as *ArenaScene) attachOverlay(entry *donburi.Entry) {
	world := as.ecsWorld.World
	b := overlay.NewBinder(cfg.Overlay.OffsetX, cfg.Overlay.OffsetY)
	target := network.NewAvatarTarget(world, entry.Entity(), cfg.Avatar.Height, cfg.Avatar.Radius)
	if err := b.Bind(target); err != nil {
		return
	}

	ov := world.Entry(world.Create(tags.Overlay, components.Overlay))
	components.Overlay.SetValue(ov, components.OverlayData{Binder: b})
}

func (as *ArenaScene) localEntry() (*donburi.Entry, bool) {
	world := as.ecsWorld.World
	entity := esync.FindByNetworkId(world, as.netClient.NetworkID())
	if !world.Valid(entity) {
		return nil, false
	}
	entry := world.Entry(entity)
	return entry, entry.HasComponent(tags.Local)
}

func (as *ArenaScene) localPresent() bool {
	_, ok := as.localEntry()
	return ok
}

func (as *ArenaScene) leaveReason() string {
	if as.localCtrl != nil && as.localCtrl.Removed() {
		return "You were knocked out"
	}
	return "You left the arena"
}

func (as *ArenaScene) exit(status string) {
	as.netClient.Disconnect()
	as.sceneChanger.ChangeScene(NewConnectScene(as.sceneChanger, as.store, status))
}

func tuning() avatar.Tuning {
	return avatar.Tuning{
		StartHealth:   cfg.Avatar.StartHealth,
		ContactDamage: cfg.Avatar.ContactDamage,
		DamageRate:    cfg.Avatar.DamageRate,
	}
}
