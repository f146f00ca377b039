package avatar

import (
	"github.com/automoto/beamarena/shared/replication"
)

// Observed is a read-only snapshot of a remote avatar. The replication
// channel is its only writer.
type Observed struct {
	state State
}

func newObserved(t Tuning) *Observed {
	return &Observed{state: State{Health: t.StartHealth}}
}

func (o *Observed) State() State { return o.state }

// Serialize reads Firing then Health and overwrites the snapshot. Nothing
// is committed unless the whole payload matched.
func (o *Observed) Serialize(s *replication.Stream) error {
	if s.IsWriting() {
		return replication.ErrWrongMode
	}
	firing, err := s.ReceiveBool()
	if err != nil {
		return err
	}
	health, err := s.ReceiveFloat32()
	if err != nil {
		return err
	}
	if err := s.Finish(); err != nil {
		return err
	}
	o.state = State{Firing: firing, Health: health}
	return nil
}
