// Package arenadata parses arena TMX maps into floors and spawn points.
// It is pure data, shared between client and server.
//
// The map is drawn top-down: Tiled x maps to world X and Tiled y maps to
// world Z. One tile is one world unit. Floors are rectangles in the "Floor"
// object group whose "top" property is the height of their walkable surface.
package arenadata

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"
)

var ErrNoFloors = errors.New("arena has no floors")

// Point is a world-space position.
type Point struct {
	X, Y, Z float64
}

// Floor is a walkable horizontal rectangle.
type Floor struct {
	Name       string
	MinX, MinZ float64
	MaxX, MaxZ float64
	Top        float64
}

func (f Floor) Contains(x, z float64) bool {
	return x >= f.MinX && x <= f.MaxX && z >= f.MinZ && z <= f.MaxZ
}

type SpawnPoint struct {
	Point
	Index int
}

type Arena struct {
	Name   string
	Floors []Floor
	Spawns []SpawnPoint
}

// spawnHeight lifts spawns above the floor so avatars settle onto it.
const spawnHeight = 1.0

// Load parses the TMX at path in fsys. Callers pass embed.FS or os.DirFS.
func Load(fsys fs.FS, path string) (*Arena, error) {
	m, err := tiled.LoadFile(path, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", path, err)
	}

	unitX := float64(m.TileWidth)
	unitZ := float64(m.TileHeight)
	if unitX == 0 || unitZ == 0 {
		return nil, fmt.Errorf("load TMX %s: zero tile size", path)
	}

	a := &Arena{Name: strings.TrimSuffix(filepath.Base(path), ".tmx")}

	for _, og := range m.ObjectGroups {
		switch og.Name {
		case "Floor":
			for _, o := range og.Objects {
				a.Floors = append(a.Floors, Floor{
					Name: o.Name,
					MinX: o.X / unitX,
					MinZ: o.Y / unitZ,
					MaxX: (o.X + o.Width) / unitX,
					MaxZ: (o.Y + o.Height) / unitZ,
					Top:  o.Properties.GetFloat("top"),
				})
			}
		case "PlayerSpawn":
			for _, o := range og.Objects {
				a.Spawns = append(a.Spawns, SpawnPoint{
					Point: Point{X: o.X / unitX, Z: o.Y / unitZ},
					Index: o.Properties.GetInt("spawnIndex"),
				})
			}
		}
	}

	if len(a.Floors) == 0 {
		return nil, fmt.Errorf("load TMX %s: %w", path, ErrNoFloors)
	}

	// Spawns sit on the highest floor under them, whatever the group order.
	for i := range a.Spawns {
		s := &a.Spawns[i]
		top, _ := a.GroundBelow(Point{X: s.X, Y: math.MaxFloat64, Z: s.Z}, math.Inf(1))
		s.Y = top + spawnHeight
	}

	sort.Slice(a.Spawns, func(i, j int) bool {
		return a.Spawns[i].Index < a.Spawns[j].Index
	})
	return a, nil
}

// GroundBelow returns the highest floor top at or below p within maxDist.
func (a *Arena) GroundBelow(p Point, maxDist float64) (float64, bool) {
	best, found := 0.0, false
	for _, f := range a.Floors {
		if !f.Contains(p.X, p.Z) {
			continue
		}
		drop := p.Y - f.Top
		if drop < 0 || drop > maxDist {
			continue
		}
		if !found || f.Top > best {
			best, found = f.Top, true
		}
	}
	return best, found
}

// Settle returns p unchanged when a floor lies within maxDist below it, and
// fallback otherwise. The second result reports whether p was moved.
func (a *Arena) Settle(p Point, maxDist float64, fallback Point) (Point, bool) {
	if a == nil {
		return fallback, true
	}
	if _, ok := a.GroundBelow(p, maxDist); ok {
		return p, false
	}
	return fallback, true
}

// Spawn picks a spawn point for the n-th player, cycling through the map's
// spawns. With no spawns it returns fallback.
func (a *Arena) Spawn(n int, fallback Point) Point {
	if a == nil || len(a.Spawns) == 0 {
		return fallback
	}
	if n < 0 {
		n = -n
	}
	return a.Spawns[n%len(a.Spawns)].Point
}

// Extent returns the far corner of the area covered by floors. Floors are
// laid out from the origin, so this is also the arena's size.
func (a *Arena) Extent() (maxX, maxZ float64) {
	if a == nil {
		return 0, 0
	}
	for _, f := range a.Floors {
		maxX = math.Max(maxX, f.MaxX)
		maxZ = math.Max(maxZ, f.MaxZ)
	}
	return maxX, maxZ
}
