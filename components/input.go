package components

import (
	"github.com/automoto/beamarena/avatar"
	"github.com/yohamta/donburi"
)

// ActionState represents the temporal state of an action
type ActionState struct {
	Pressed      bool // Currently held down
	JustPressed  bool // Pressed this frame
	JustReleased bool // Released this frame
}

// InputData is the local player's input for the current frame. It is filled
// by the input system and consumed by movement and the avatar controller.
type InputData struct {
	Forward float64 // -1..1
	Turn    float64 // -1..1, positive turns right
	Jump    ActionState
	Reload  ActionState
	Leave   ActionState

	// Fire edges come from the detector, which remembers last frame's level.
	Fire     avatar.EdgeDetector
	FireDown bool
	FireUp   bool
}

var Input = donburi.NewComponentType[InputData]()
