package slip

// State is the decoder's position relative to frame boundaries.
type State uint8

const (
	// StateIdle discards bytes until an END opens a frame.
	StateIdle State = iota
	// StateFrameOpen has seen END and skips repeated END delimiters.
	StateFrameOpen
	// StateDecoding is accumulating payload bytes.
	StateDecoding
	// StateEscaping has seen ESC and expects an escaped byte.
	StateEscaping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFrameOpen:
		return "frame-open"
	case StateDecoding:
		return "decoding"
	case StateEscaping:
		return "escaping"
	default:
		return "unknown"
	}
}

// Decoder incrementally decodes a SLIP byte stream one byte at a time.
//
// Once HasFrame reports true the decoder holds the payload until Reset is
// called. It does not reset itself, so Frame may be read any number of times.
// DecodeByte returns ErrFramePending until then.
type Decoder struct {
	variant  Variant
	buf      []byte
	idx      int
	hasFrame bool
	state    State
}

// NewDecoder creates a Decoder that accumulates payload into buf.
// The decoder borrows buf for its lifetime. Frames longer than len(buf) fail with ErrOverflow.
func NewDecoder(buf []byte, opts ...Option) *Decoder {
	o := buildOptions(opts)
	return &Decoder{variant: o.variant, buf: buf}
}

// NewDecoderSize creates a Decoder with its own buffer of size bytes.
func NewDecoderSize(size int, opts ...Option) *Decoder {
	return NewDecoder(make([]byte, size), opts...)
}

// DecodeByte feeds one byte from the stream.
//
// ErrBadEscape drops the frame in progress and returns the decoder to idle.
// A fresh END is then needed to start the next frame. ErrOverflow drops the
// byte and leaves the decoder otherwise unchanged.
func (d *Decoder) DecodeByte(b byte) error {
	if d.hasFrame {
		return ErrFramePending
	}

	switch d.state {
	case StateIdle:
		if b == End {
			d.state = StateFrameOpen
		}
		return nil
	case StateFrameOpen:
		if b == End {
			return nil
		}
		// The first non-END byte after a frame opens is already data.
		return d.decode(b)
	case StateDecoding:
		return d.decode(b)
	case StateEscaping:
		raw, ok := unescape(d.variant, b)
		if !ok {
			d.idx = 0
			d.state = StateIdle
			return ErrBadEscape
		}
		if err := d.append(raw); err != nil {
			return err
		}
		d.state = StateDecoding
		return nil
	}
	return nil
}

func (d *Decoder) decode(b byte) error {
	switch b {
	case End:
		d.hasFrame = true
		d.state = StateIdle
	case Esc:
		d.state = StateEscaping
	default:
		if err := d.append(b); err != nil {
			return err
		}
		d.state = StateDecoding
	}
	return nil
}

func (d *Decoder) append(b byte) error {
	if d.idx >= len(d.buf) {
		return ErrOverflow
	}
	d.buf[d.idx] = b
	d.idx++
	return nil
}

// HasFrame reports whether a complete frame is ready.
func (d *Decoder) HasFrame() bool {
	return d.hasFrame
}

// Frame returns the decoded payload, or nil if no frame is ready.
// The slice aliases the decoder buffer and is only valid until Reset.
func (d *Decoder) Frame() []byte {
	if !d.hasFrame {
		return nil
	}
	return d.buf[:d.idx]
}

// Len returns the number of payload bytes decoded so far.
func (d *Decoder) Len() int {
	return d.idx
}

// Cap returns the largest payload the decoder can hold.
func (d *Decoder) Cap() int {
	return len(d.buf)
}

// State returns the current FSM state.
func (d *Decoder) State() State {
	return d.state
}

// Variant returns the escape variant used by the decoder.
func (d *Decoder) Variant() Variant {
	return d.variant
}

// Reset discards any partial or completed frame.
func (d *Decoder) Reset() {
	d.idx = 0
	d.hasFrame = false
	d.state = StateIdle
}
