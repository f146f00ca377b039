package systems

import (
	"github.com/automoto/beamarena/components"
	cfg "github.com/automoto/beamarena/config"
	"github.com/automoto/beamarena/shared/arenadata"
	"github.com/automoto/beamarena/shared/gamemath"
	"github.com/automoto/beamarena/shared/netcomponents"
	"github.com/yohamta/donburi/ecs"
)

// UpdateMovement moves the local avatar from this tick's input. Remote
// avatars are moved by interpolation only.
func UpdateMovement(e *ecs.ECS) {
	entry, ok := localAvatarQuery.First(e.World)
	if !ok || !entry.HasComponent(components.Body) {
		return
	}
	if ctrl := controllerOf(entry); ctrl == nil || ctrl.Removed() {
		return
	}

	input := getOrCreateInput(e)
	var arena *arenadata.Arena
	if a, ok := arenaOf(e); ok {
		arena = a.Arena
	}

	tr := netcomponents.NetTransform.Get(entry)
	body := components.Body.Get(entry)

	next := gamemath.StepBody(
		gamemath.Body{
			Pos:      arenadata.Point{X: tr.X, Y: tr.Y, Z: tr.Z},
			Yaw:      tr.Yaw,
			VelY:     body.VelY,
			OnGround: body.OnGround,
		},
		gamemath.Intent{
			Forward: input.Forward,
			Turn:    input.Turn,
			Jump:    input.Jump.JustPressed,
		},
		motion(),
		arena,
		tickDt(),
	)

	tr.X, tr.Y, tr.Z, tr.Yaw = next.Pos.X, next.Pos.Y, next.Pos.Z, next.Yaw
	body.VelY, body.OnGround = next.VelY, next.OnGround
}

func motion() gamemath.Motion {
	return gamemath.Motion{
		MoveSpeed:    cfg.Avatar.MoveSpeed,
		JumpSpeed:    cfg.Avatar.JumpSpeed,
		Gravity:      cfg.Avatar.Gravity,
		MaxFallSpeed: cfg.Avatar.MaxFallSpeed,
		TurnSpeed:    cfg.Avatar.TurnSpeed,
	}
}
