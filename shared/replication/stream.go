// Package replication implements the ordered value stream that carries an
// owned entity's mutable state to every observer. Field order is the schema:
// a writer and its matching reader must agree on the exact sequence of values.
package replication

import (
	"errors"
	"fmt"
)

var (
	// ErrProtocol is the root of every payload shape mismatch. A reader that
	// sees it must drop the tick and keep its previous state.
	ErrProtocol = errors.New("replication protocol error")

	ErrWrongMode      = fmt.Errorf("%w: stream used in the wrong direction", ErrProtocol)
	ErrMissingValue   = fmt.Errorf("%w: fewer values than expected", ErrProtocol)
	ErrTrailingValues = fmt.Errorf("%w: more values than expected", ErrProtocol)
	ErrTypeMismatch   = fmt.Errorf("%w: unexpected value type", ErrProtocol)
	ErrUnsupported    = errors.New("unsupported value type")
)

// Mode is the direction of a Stream.
type Mode int

const (
	Reading Mode = iota
	Writing
)

func (m Mode) String() string {
	if m == Writing {
		return "writing"
	}
	return "reading"
}

// Stream is a position-addressed list of values. In Writing mode values are
// appended with SendNext; in Reading mode they are consumed in the same order
// with ReceiveNext and the typed helpers.
type Stream struct {
	mode   Mode
	values []any
	next   int
}

// NewWriter returns an empty stream in Writing mode.
func NewWriter() *Stream {
	return &Stream{mode: Writing}
}

// NewReader returns a stream that reads back values in order.
func NewReader(values []any) *Stream {
	return &Stream{mode: Reading, values: values}
}

func (s *Stream) IsWriting() bool { return s.mode == Writing }

// Values returns the values written so far (or the values being read).
func (s *Stream) Values() []any {
	return s.values
}

// SendNext appends v. Only bool, float32, float64, int32, int64, uint32 and
// string are accepted; those round-trip through the codec unchanged.
func (s *Stream) SendNext(v any) error {
	if s.mode != Writing {
		return ErrWrongMode
	}
	switch v.(type) {
	case bool, float32, float64, int32, int64, uint32, string:
	default:
		return fmt.Errorf("%w: %T", ErrUnsupported, v)
	}
	s.values = append(s.values, v)
	return nil
}

// ReceiveNext returns the next value in order.
func (s *Stream) ReceiveNext() (any, error) {
	if s.mode != Reading {
		return nil, ErrWrongMode
	}
	if s.next >= len(s.values) {
		return nil, fmt.Errorf("%w: want value #%d, have %d", ErrMissingValue, s.next+1, len(s.values))
	}
	v := s.values[s.next]
	s.next++
	return v, nil
}

func (s *Stream) ReceiveBool() (bool, error) {
	v, err := s.ReceiveNext()
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: value #%d is %T, want bool", ErrTypeMismatch, s.next, v)
	}
	return b, nil
}

func (s *Stream) ReceiveFloat32() (float32, error) {
	v, err := s.ReceiveNext()
	if err != nil {
		return 0, err
	}
	f, ok := v.(float32)
	if !ok {
		return 0, fmt.Errorf("%w: value #%d is %T, want float32", ErrTypeMismatch, s.next, v)
	}
	return f, nil
}

// Remaining reports how many values have not been consumed yet.
func (s *Stream) Remaining() int {
	if s.mode != Reading {
		return 0
	}
	return len(s.values) - s.next
}

// Finish verifies that a reader consumed every value. Readers call it before
// committing anything they received.
func (s *Stream) Finish() error {
	if n := s.Remaining(); n > 0 {
		return fmt.Errorf("%w: %d unread", ErrTrailingValues, n)
	}
	return nil
}
