package protocol

import (
	"github.com/automoto/beamarena/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetAvatar    uint = 10
	SyncIDNetStream    uint = 11
	SyncIDNetTransform uint = 12
)

// Interpolation IDs (uint8 for WithInterpFn)
const (
	InterpIDNetTransform uint8 = 12
)

// RegisterComponents registers all network components with necs for serialization.
// This must be called by both server and client before any network operations.
func RegisterComponents() error {
	if err := esync.RegisterComponent(
		SyncIDNetAvatar,
		netcomponents.NetAvatarData{},
		netcomponents.NetAvatar,
	); err != nil {
		return err
	}

	// Stream payloads are opaque; interpolating them makes no sense.
	if err := esync.RegisterComponent(
		SyncIDNetStream,
		netcomponents.NetStreamData{},
		netcomponents.NetStream,
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetTransform,
		netcomponents.NetTransformData{},
		netcomponents.NetTransform,
		esync.WithInterpFn(InterpIDNetTransform, netcomponents.LerpNetTransform),
	); err != nil {
		return err
	}

	return nil
}
