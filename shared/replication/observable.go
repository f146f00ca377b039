package replication

import "fmt"

// Observable is implemented by anything whose state travels over a Stream.
// Serialize is called with a Writing stream on the owning side and a Reading
// stream on every observer, once per replication tick.
type Observable interface {
	Serialize(s *Stream) error
}

// Write captures o into an encoded payload.
func Write(o Observable) ([]byte, error) {
	s := NewWriter()
	if err := o.Serialize(s); err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}
	payload, err := Encode(s.Values())
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Read decodes payload and hands it to o in Reading mode. On error o must
// have left its state untouched.
func Read(o Observable, payload []byte) error {
	values, err := Decode(payload)
	if err != nil {
		return err
	}
	s := NewReader(values)
	if err := o.Serialize(s); err != nil {
		return err
	}
	return s.Finish()
}
