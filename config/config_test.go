package config

import (
	"os"
	"path/filepath"
	"testing"
)

func snapshot() func() {
	c, avatar, beam, overlay := *C, Avatar, Beam, Overlay
	arena, network, camera := Arena, Network, Camera
	return func() {
		*C = c
		Avatar, Beam, Overlay = avatar, beam, overlay
		Arena, Network, Camera = arena, network, camera
	}
}

func TestApplyOverridesOnlyGivenFields(t *testing.T) {
	defer snapshot()()

	err := Apply([]byte(`
avatar:
  damageRate: 0.25
arena:
  fallback: {x: 1, y: 7, z: 2}
network:
  serverAddress: arena.example:9000
`))
	if err != nil {
		t.Fatal(err)
	}
	if Avatar.DamageRate != 0.25 {
		t.Errorf("DamageRate = %v", Avatar.DamageRate)
	}
	if Avatar.StartHealth != 1.0 || Avatar.ContactDamage != 0.1 {
		t.Errorf("untouched avatar fields changed: %+v", Avatar)
	}
	if Arena.Fallback != (Vec3{X: 1, Y: 7, Z: 2}) || Arena.SafeDistance != 5 {
		t.Errorf("arena = %+v", Arena)
	}
	if Network.ServerAddress != "arena.example:9000" || Network.SendInterval != 3 {
		t.Errorf("network = %+v", Network)
	}
	if C.Width != 640 {
		t.Errorf("window width = %d", C.Width)
	}
}

func TestApplyRejectsBadInput(t *testing.T) {
	defer snapshot()()

	for _, doc := range []string{
		"avatar: [not, a, map]",
		"window: {width: 0}",
	} {
		if err := Apply([]byte(doc)); err == nil {
			t.Errorf("Apply(%q) succeeded", doc)
		}
	}
	if C.Width != 640 || Avatar.StartHealth != 1.0 {
		t.Error("failed Apply changed live values")
	}
}

func TestLoad(t *testing.T) {
	defer snapshot()()

	path := filepath.Join(t.TempDir(), "beamarena.yaml")
	if err := os.WriteFile(path, []byte("camera:\n  followSmoothing: 0.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Load(path); err != nil {
		t.Fatal(err)
	}
	if Camera.FollowSmoothing != 0.5 {
		t.Errorf("FollowSmoothing = %v", Camera.FollowSmoothing)
	}
	if err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}
