package slip

import "errors"

var (
	// ErrOverflow is returned when a frame does not fit in the output buffer.
	ErrOverflow = errors.New("slip: buffer overflow")
	// ErrBadEscape is returned when Esc is followed by a byte outside the escape table.
	// The partially decoded frame is discarded.
	ErrBadEscape = errors.New("slip: bad escape sequence")
	// ErrFramePending is returned by DecodeByte while a decoded frame has not been reset.
	ErrFramePending = errors.New("slip: decoded frame not yet consumed")
	// ErrIncomplete is returned when input ends before a frame closes.
	ErrIncomplete = errors.New("slip: incomplete frame")
)
