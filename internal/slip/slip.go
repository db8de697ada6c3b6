// Package slip implements SLIP byte stuffing (RFC 1055) and the HCI three-wire
// escape variant.
//
// Encoder turns a payload into an END-delimited frame. Decoder is a per-byte
// state machine that locks onto frame boundaries in a live stream, discarding
// leading noise and frames with invalid escape sequences.
package slip

import (
	"errors"
	"fmt"
)

// Encode wraps data in SLIP framing.
// Adds END byte at start and end, escapes special bytes.
func Encode(data []byte) []byte {
	return EncodeVariant(Standard, data)
}

// EncodeVariant wraps data in SLIP framing using the given escape table.
func EncodeVariant(v Variant, data []byte) []byte {
	// Pre-allocate with some extra space for escapes
	result := make([]byte, 0, len(data)+10)
	return NewEncoder(WithVariant(v)).AppendFrame(result, data)
}

// Decode extracts the payload of the first complete standard SLIP frame in frame.
// Bytes before the first END are ignored.
func Decode(frame []byte) ([]byte, error) {
	d := NewDecoderSize(len(frame))
	for _, b := range frame {
		if err := d.DecodeByte(b); err != nil {
			return nil, err
		}
		if d.HasFrame() {
			return append([]byte{}, d.Frame()...), nil
		}
	}
	return nil, ErrIncomplete
}

// DecodeAll extracts every complete frame from a captured byte stream.
// Frames with bad escapes are skipped. The returned error then wraps ErrBadEscape
// and reports how many were dropped. The frames that did decode are still returned.
func DecodeAll(data []byte, opts ...Option) ([][]byte, error) {
	d := NewDecoderSize(len(data), opts...)

	var frames [][]byte
	dropped := 0
	for _, b := range data {
		if err := d.DecodeByte(b); err != nil {
			if errors.Is(err, ErrBadEscape) {
				dropped++
				continue
			}
			return frames, err
		}
		if d.HasFrame() {
			frames = append(frames, append([]byte{}, d.Frame()...))
			d.Reset()
		}
	}

	if dropped > 0 {
		return frames, fmt.Errorf("%w: %d frame(s) dropped", ErrBadEscape, dropped)
	}
	return frames, nil
}
