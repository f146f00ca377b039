package avatar

import (
	"github.com/automoto/beamarena/shared/replication"
)

// Owned is the writable copy of an avatar's state. Only the owning process
// holds one, so there is exactly one writer per avatar.
type Owned struct {
	state State
}

func newOwned(t Tuning) *Owned {
	return &Owned{state: State{Health: t.StartHealth}}
}

func (o *Owned) State() State { return o.state }

// PressFire and ReleaseFire apply the fire button edges.
func (o *Owned) PressFire() {
	if !o.state.Firing {
		o.state.Firing = true
	}
}

func (o *Owned) ReleaseFire() {
	if o.state.Firing {
		o.state.Firing = false
	}
}

// Damage lowers health by amount. Negative amounts are ignored so health
// never goes up.
func (o *Owned) Damage(amount float32) {
	if amount <= 0 {
		return
	}
	o.state.Health -= amount
}

// Serialize writes Firing then Health. An owner never reads its own state
// back from the network.
func (o *Owned) Serialize(s *replication.Stream) error {
	if !s.IsWriting() {
		return replication.ErrWrongMode
	}
	if err := s.SendNext(o.state.Firing); err != nil {
		return err
	}
	return s.SendNext(o.state.Health)
}
