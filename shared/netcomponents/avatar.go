package netcomponents

import "github.com/yohamta/donburi"

// NetAvatarData identifies a player-controlled avatar. Set once by the
// relay when the player joins.
type NetAvatarData struct {
	Name string
}

var NetAvatar = donburi.NewComponentType[NetAvatarData]()
