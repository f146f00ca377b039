package arenadata

import (
	"testing"
	"testing/fstest"

	"github.com/automoto/beamarena/assets/arenas"
)

func loadDefault(t *testing.T) *Arena {
	t.Helper()
	a, err := Load(arenas.FS, arenas.Default)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return a
}

func TestLoadDefaultArena(t *testing.T) {
	a := loadDefault(t)
	if a.Name != "arena" {
		t.Errorf("name = %q", a.Name)
	}
	if len(a.Floors) != 4 {
		t.Fatalf("floors = %d, want 4", len(a.Floors))
	}
	ground := a.Floors[0]
	if ground.MaxX != 40 || ground.MaxZ != 40 || ground.Top != 0 {
		t.Errorf("ground = %+v", ground)
	}
	if len(a.Spawns) != 4 {
		t.Fatalf("spawns = %d, want 4", len(a.Spawns))
	}
	for i, s := range a.Spawns {
		if s.Index != i {
			t.Errorf("spawn %d has index %d", i, s.Index)
		}
		if s.Y != 1 {
			t.Errorf("spawn %d Y = %v, want 1", i, s.Y)
		}
	}
	if got := a.Spawns[1].Point; got.X != 34 || got.Z != 6 {
		t.Errorf("spawn 1 = %+v", got)
	}
	if x, z := a.Extent(); x != 40 || z != 40 {
		t.Errorf("extent = %v x %v", x, z)
	}
}

func TestGroundBelow(t *testing.T) {
	a := loadDefault(t)
	tests := []struct {
		name   string
		p      Point
		want   float64
		wantOK bool
	}{
		{"on ground", Point{X: 1, Y: 0, Z: 1}, 0, true},
		{"above tower", Point{X: 19, Y: 6, Z: 19}, 4, true},
		{"inside tower", Point{X: 19, Y: 3, Z: 19}, 0, true},
		{"too high", Point{X: 1, Y: 5.5, Z: 1}, 0, false},
		{"off the map", Point{X: -3, Y: 1, Z: 1}, 0, false},
		{"below ground", Point{X: 1, Y: -1, Z: 1}, 0, false},
	}
	for _, tt := range tests {
		got, ok := a.GroundBelow(tt.p, 5)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("%s: GroundBelow = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSettle(t *testing.T) {
	a := loadDefault(t)
	fallback := Point{Y: 5}

	p := Point{X: 10, Y: 1, Z: 10}
	if got, moved := a.Settle(p, 5, fallback); moved || got != p {
		t.Errorf("grounded avatar moved to %+v", got)
	}
	if got, moved := a.Settle(Point{X: 100, Y: 1, Z: 100}, 5, fallback); !moved || got != fallback {
		t.Errorf("stranded avatar settled at %+v", got)
	}

	var none *Arena
	if got, moved := none.Settle(p, 5, fallback); !moved || got != fallback {
		t.Errorf("nil arena settled at %+v", got)
	}
}

func TestSpawnCycles(t *testing.T) {
	a := loadDefault(t)
	if a.Spawn(0, Point{}) != a.Spawn(4, Point{}) {
		t.Error("spawn selection should wrap around")
	}
	var none *Arena
	if got := none.Spawn(3, Point{Y: 5}); got != (Point{Y: 5}) {
		t.Errorf("fallback spawn = %+v", got)
	}
}

func TestLoadRejectsEmptyArena(t *testing.T) {
	fsys := fstest.MapFS{
		"empty.tmx": {Data: []byte(`<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="4" height="4" tilewidth="16" tileheight="16" infinite="0">
 <objectgroup id="1" name="PlayerSpawn"/>
</map>`)},
	}
	if _, err := Load(fsys, "empty.tmx"); err == nil {
		t.Fatal("expected an error for an arena without floors")
	}
	if _, err := Load(fsys, "missing.tmx"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
