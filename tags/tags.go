package tags

import "github.com/yohamta/donburi"

var (
	Avatar  = donburi.NewTag().SetName("Avatar")
	Local   = donburi.NewTag().SetName("Local")
	Overlay = donburi.NewTag().SetName("Overlay")
)
