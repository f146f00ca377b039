package netcomponents

import "github.com/yohamta/donburi"

// NetStreamData carries the owner's latest replication payload. The relay
// stores it verbatim and never decodes it.
type NetStreamData struct {
	Payload []byte
	Seq     uint32
}

var NetStream = donburi.NewComponentType[NetStreamData]()
