package replication

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Encode packs values as a msgpack array. float32 stays a 32-bit msgpack
// float so readers get back the exact bits.
func Encode(values []any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.EncodeArrayLen(len(values)); err != nil {
		return nil, fmt.Errorf("encode length: %w", err)
	}
	for i, v := range values {
		var err error
		switch x := v.(type) {
		case bool:
			err = enc.EncodeBool(x)
		case float32:
			err = enc.EncodeFloat32(x)
		case float64:
			err = enc.EncodeFloat64(x)
		case int32:
			err = enc.EncodeInt32(x)
		case int64:
			err = enc.EncodeInt64(x)
		case uint32:
			err = enc.EncodeUint32(x)
		case string:
			err = enc.EncodeString(x)
		default:
			err = fmt.Errorf("%w: %T", ErrUnsupported, v)
		}
		if err != nil {
			return nil, fmt.Errorf("encode value #%d: %w", i+1, err)
		}
	}
	return buf.Bytes(), nil
}

// Decode unpacks a payload produced by Encode. Anything that is not a single
// msgpack array is a protocol error.
func Decode(payload []byte) ([]any, error) {
	r := bytes.NewReader(payload)
	dec := msgpack.NewDecoder(r)
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: nil array", ErrProtocol)
	}
	// Every msgpack value takes at least one byte.
	if n > r.Len() {
		return nil, fmt.Errorf("%w: array of %d values in %d bytes", ErrProtocol, n, r.Len())
	}
	values := make([]any, 0, n)
	for i := 0; i < n; i++ {
		v, err := dec.DecodeInterface()
		if err != nil {
			return nil, fmt.Errorf("%w: value #%d: %v", ErrProtocol, i+1, err)
		}
		values = append(values, v)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrProtocol, r.Len())
	}
	return values, nil
}
