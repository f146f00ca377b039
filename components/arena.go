package components

import (
	"github.com/automoto/beamarena/hazard"
	"github.com/automoto/beamarena/shared/arenadata"
	"github.com/yohamta/donburi"
)

// ArenaData is the singleton holding the loaded map and the hazard field.
type ArenaData struct {
	Arena   *arenadata.Arena
	Hazards *hazard.Field
	Loads   int // number of times the arena has been (re)loaded
}

var Arena = donburi.NewComponentType[ArenaData]()
