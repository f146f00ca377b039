package systems

import (
	"image"
	"image/color"
	"slices"

	"github.com/automoto/beamarena/avatar"
	"github.com/automoto/beamarena/components"
	cfg "github.com/automoto/beamarena/config"
	"github.com/automoto/beamarena/shared/arenadata"
	"github.com/automoto/beamarena/tags"
	"github.com/automoto/beamarena/view"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// floorTile is the edge of one drawn floor cell, in world units. Cells are
// culled one by one, so a floor that passes under the camera still draws.
const floorTile = 1.0

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)

	// Reused between frames to avoid allocations
	floorVertices []ebiten.Vertex
	floorIndices  []uint16
	drawList      []avatarSprite
)

func init() {
	whiteImage.Fill(color.White)
}

func activeCamera(e *ecs.ECS) *view.Camera {
	entry, ok := components.Camera.First(e.World)
	if !ok {
		return nil
	}
	return components.Camera.Get(entry).Camera
}

// DrawArena renders the arena floors as a checkerboard, lowest first.
func DrawArena(e *ecs.ECS, screen *ebiten.Image) {
	cam := activeCamera(e)
	arena, ok := arenaOf(e)
	if cam == nil || !ok || arena.Arena == nil {
		return
	}

	floors := slices.Clone(arena.Arena.Floors)
	slices.SortStableFunc(floors, func(a, b arenadata.Floor) int {
		switch {
		case a.Top < b.Top:
			return -1
		case a.Top > b.Top:
			return 1
		}
		return 0
	})

	for _, f := range floors {
		floorVertices = floorVertices[:0]
		floorIndices = floorIndices[:0]
		shade := floorShade(f.Top)

		for x := f.MinX; x < f.MaxX; x += floorTile {
			for z := f.MinZ; z < f.MaxZ; z += floorTile {
				// uint16 indices; flush before they overflow.
				if len(floorVertices) > 65000 {
					screen.DrawTriangles(floorVertices, floorIndices, whiteSubImage, nil)
					floorVertices = floorVertices[:0]
					floorIndices = floorIndices[:0]
				}
				clr := shade
				if (int(x/floorTile)+int(z/floorTile))%2 == 1 {
					clr = darken(shade, 0.85)
				}
				appendQuad(cam, f.Top, x, z, min(x+floorTile, f.MaxX), min(z+floorTile, f.MaxZ), clr)
			}
		}
		if len(floorIndices) > 0 {
			screen.DrawTriangles(floorVertices, floorIndices, whiteSubImage, nil)
		}
	}
}

// appendQuad adds one horizontal cell at height y. Cells with a corner at or
// behind the near plane are dropped.
func appendQuad(cam *view.Camera, y, x0, z0, x1, z1 float64, clr color.RGBA) {
	corners := [4]avatar.Vec3{{X: x0, Y: y, Z: z0}, {X: x1, Y: y, Z: z0}, {X: x1, Y: y, Z: z1}, {X: x0, Y: y, Z: z1}}
	var pts [4][2]float32
	for i, c := range corners {
		sx, sy, depth := cam.WorldToScreen(c)
		if depth <= cam.Near {
			return
		}
		pts[i] = [2]float32{float32(sx), float32(sy)}
	}

	base := uint16(len(floorVertices))
	r, g, b, a := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255, float32(clr.A)/255
	for _, p := range pts {
		floorVertices = append(floorVertices, ebiten.Vertex{
			DstX: p[0], DstY: p[1],
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		})
	}
	floorIndices = append(floorIndices, base, base+1, base+2, base, base+2, base+3)
}

func floorShade(top float64) color.RGBA {
	lift := uint8(min(top*12, 80))
	return color.RGBA{
		R: cfg.Floor.R + lift,
		G: cfg.Floor.G + lift,
		B: cfg.Floor.B + lift,
		A: 255,
	}
}

func darken(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{R: uint8(float64(c.R) * f), G: uint8(float64(c.G) * f), B: uint8(float64(c.B) * f), A: c.A}
}

type avatarSprite struct {
	depth  float64
	footX  float32
	footY  float32
	height float32
	clr    color.RGBA
	beam   *beamSprite
	facing [2]float32
}

type beamSprite struct {
	x0, y0, x1, y1 float32
	width          float32
}

// DrawAvatars renders every avatar as an upright box, far to near, with its
// beam while firing.
func DrawAvatars(e *ecs.ECS, screen *ebiten.Image) {
	cam := activeCamera(e)
	if cam == nil {
		return
	}
	arena, _ := arenaOf(e)

	drawList = drawList[:0]
	avatarQuery.Each(e.World, func(entry *donburi.Entry) {
		if s, ok := projectAvatar(cam, arena, entry); ok {
			drawList = append(drawList, s)
		}
	})
	slices.SortFunc(drawList, func(a, b avatarSprite) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})

	for _, s := range drawList {
		if s.beam != nil {
			vector.StrokeLine(screen, s.beam.x0, s.beam.y0, s.beam.x1, s.beam.y1, s.beam.width, cfg.LightRed, true)
		}
		w := s.height * float32(cfg.Avatar.Radius*2/cfg.Avatar.Height)
		vector.DrawFilledRect(screen, s.footX-w/2, s.footY-s.height, w, s.height, s.clr, false)
		vector.DrawFilledRect(screen, s.facing[0]-2, s.facing[1]-2, 4, 4, cfg.White, false)
	}
}

func projectAvatar(cam *view.Camera, arena *components.ArenaData, entry *donburi.Entry) (avatarSprite, bool) {
	data := components.Avatar.Get(entry)
	if data.Controller == nil || data.Controller.Removed() {
		return avatarSprite{}, false
	}
	pos := positionOf(entry)
	fx, fy, depth := cam.WorldToScreen(pos)
	if depth <= cam.Near {
		return avatarSprite{}, false
	}
	_, hy, _ := cam.WorldToScreen(pos.Add(avatar.Vec3{Y: cfg.Avatar.Height}))

	s := avatarSprite{
		depth:  depth,
		footX:  float32(fx),
		footY:  float32(fy),
		height: float32(fy - hy),
		clr:    data.Color,
	}
	if entry.HasComponent(tags.Local) {
		s.clr = cfg.BrightGreen
	}

	yaw := avatarYaw(entry)
	mid := pos.Add(avatar.Vec3{Y: cfg.Avatar.Height * 0.5})
	nose := mid.Add(heading(yaw).Scale(cfg.Avatar.Radius))
	nx, ny, _ := cam.WorldToScreen(nose)
	s.facing = [2]float32{float32(nx), float32(ny)}

	if beam := beamOf(entry); beam != nil && beam.Active() && arena != nil && arena.Hazards != nil {
		if end, ok := arena.Hazards.BeamEnd(data.Controller.ID()); ok {
			x0, y0, d0 := cam.WorldToScreen(mid)
			x1, y1, d1 := cam.WorldToScreen(end)
			if d0 > cam.Near && d1 > cam.Near {
				perUnit := float64(s.height) / cfg.Avatar.Height
				s.beam = &beamSprite{
					x0: float32(x0), y0: float32(y0),
					x1: float32(x1), y1: float32(y1),
					width: float32(max(2, cfg.Beam.Width*perUnit*float64(beam.Scale()))),
				}
			}
		}
	}
	return s, true
}
