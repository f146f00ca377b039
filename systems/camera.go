package systems

import (
	"math"

	"github.com/automoto/beamarena/avatar"
	"github.com/automoto/beamarena/components"
	"github.com/automoto/beamarena/config"
	"github.com/automoto/beamarena/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi/ecs"
)

// NewCameraSystem returns an update system that trails the local avatar.
// Remote avatars never move the camera.
func NewCameraSystem(localNetID func() esync.NetworkId) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		cameraEntry, ok := components.Camera.First(e.World)
		if !ok {
			return
		}
		camera := components.Camera.Get(cameraEntry)
		if camera.Camera == nil {
			return
		}

		entry, ok := localEntry(e.World, localNetID())
		if !ok {
			return
		}
		tr := netcomponents.NetTransform.Get(entry)

		target := avatar.Vec3{X: tr.X, Y: tr.Y + config.Camera.LookHeight, Z: tr.Z}
		offset := behind(config.Camera.Offset, tr.Yaw)
		camera.Follow(target, offset, config.Camera.FollowSmoothing)
	}
}

// SnapCamera places the camera on its follow position without easing.
func SnapCamera(camera *components.CameraData, pos avatar.Vec3, yaw float64) {
	if camera == nil || camera.Camera == nil {
		return
	}
	target := pos.Add(avatar.Vec3{Y: config.Camera.LookHeight})
	camera.Follow(target, behind(config.Camera.Offset, yaw), 1)
}

// behind rotates the configured offset, given in the avatar's frame, into
// world space.
func behind(offset config.Vec3, yaw float64) avatar.Vec3 {
	sin, cos := math.Sin(yaw), math.Cos(yaw)
	// forward = (sin, 0, cos), right = (cos, 0, -sin)
	return avatar.Vec3{
		X: offset.X*cos + offset.Z*sin,
		Y: offset.Y,
		Z: -offset.X*sin + offset.Z*cos,
	}
}
