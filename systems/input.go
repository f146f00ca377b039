package systems

import (
	"github.com/automoto/beamarena/components"
	"github.com/automoto/beamarena/controls"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi/ecs"
)

// Reusable slice for gamepad IDs to avoid allocations
var gamepadIDs []ebiten.GamepadID

// UpdateInput polls movement and scene actions into the Input singleton.
// Must run BEFORE UpdateMovement in the system order.
func UpdateInput(e *ecs.ECS) {
	input := getOrCreateInput(e)
	gamepadIDs = ebiten.AppendGamepadIDs(gamepadIDs[:0])

	forward := axis(actionHeld(controls.ActionMoveForward), actionHeld(controls.ActionMoveBack))
	turn := axis(actionHeld(controls.ActionTurnRight), actionHeld(controls.ActionTurnLeft))

	// The left stick overrides the digital axes when pushed past the deadzone.
	if h, v, ok := analogStick(gamepadIDs); ok {
		if h != 0 {
			turn = h
		}
		if v != 0 {
			forward = -v
		}
	}

	input.Forward = forward
	input.Turn = turn
	input.Jump = nextActionState(input.Jump, actionHeld(controls.ActionJump))
	input.Reload = nextActionState(input.Reload, actionHeld(controls.ActionReloadArena))
	input.Leave = nextActionState(input.Leave, actionHeld(controls.ActionLeave))
}

// UpdateFireInput samples the fire level and derives this tick's edges from
// the level seen on the previous tick.
func UpdateFireInput(e *ecs.ECS) {
	input := getOrCreateInput(e)
	input.FireDown, input.FireUp = input.Fire.Sample(actionHeld(controls.ActionFire))
}

// actionHeld reports whether any key, mouse button or gamepad button bound to
// id is down.
func actionHeld(id controls.ActionID) bool {
	binding, ok := controls.Input.Bindings[id]
	if !ok {
		return false
	}
	for _, key := range binding.Keys {
		if ebiten.IsKeyPressed(key) {
			return true
		}
	}
	for _, btn := range binding.MouseButtons {
		if ebiten.IsMouseButtonPressed(btn) {
			return true
		}
	}
	for _, gpID := range gamepadIDs {
		if !ebiten.IsStandardGamepadLayoutAvailable(gpID) {
			continue
		}
		for _, btn := range binding.StandardGamepadButtons {
			if ebiten.IsStandardGamepadButtonPressed(gpID, btn) {
				return true
			}
		}
	}
	return false
}

// analogStick reads the left stick of the first gamepad pushed past the
// deadzone. Axes inside the deadzone read as 0.
func analogStick(gamepads []ebiten.GamepadID) (h, v float64, ok bool) {
	deadzone := controls.Input.AnalogDeadzone

	for _, gpID := range gamepads {
		if !ebiten.IsStandardGamepadLayoutAvailable(gpID) {
			continue
		}

		h = ebiten.StandardGamepadAxisValue(gpID, ebiten.StandardGamepadAxisLeftStickHorizontal)
		v = ebiten.StandardGamepadAxisValue(gpID, ebiten.StandardGamepadAxisLeftStickVertical)
		if h > -deadzone && h < deadzone {
			h = 0
		}
		if v > -deadzone && v < deadzone {
			v = 0
		}
		if h != 0 || v != 0 {
			return h, v, true
		}
	}
	return 0, 0, false
}

func axis(positive, negative bool) float64 {
	switch {
	case positive && !negative:
		return 1
	case negative && !positive:
		return -1
	}
	return 0
}

func nextActionState(prev components.ActionState, held bool) components.ActionState {
	return components.ActionState{
		Pressed:      held,
		JustPressed:  held && !prev.Pressed,
		JustReleased: !held && prev.Pressed,
	}
}

// getOrCreateInput returns the singleton Input component, creating if needed
func getOrCreateInput(e *ecs.ECS) *components.InputData {
	entry, ok := components.Input.First(e.World)
	if !ok {
		entry = e.World.Entry(e.World.Create(components.Input))
	}
	return components.Input.Get(entry)
}
