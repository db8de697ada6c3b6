package slip

// Encoder wraps payloads in SLIP framing.
// It keeps no per-call state, so one Encoder can encode any number of frames.
type Encoder struct {
	variant  Variant
	truncate bool
}

// NewEncoder creates an Encoder.
func NewEncoder(opts ...Option) *Encoder {
	o := buildOptions(opts)
	return &Encoder{variant: o.variant, truncate: o.truncate}
}

// Variant returns the escape variant used by the encoder.
func (e *Encoder) Variant() Variant {
	return e.variant
}

// MaxEncodedLen returns the largest frame n payload bytes can produce.
func (e *Encoder) MaxEncodedLen(n int) int {
	return 2*n + 2
}

// Encode writes the framed payload into dst and returns the frame length.
// If the frame does not fit, it returns ErrOverflow and dst must not be sent.
// With WithLegacyTruncate, it drops the payload tail instead. An escape pair is never split.
func (e *Encoder) Encode(dst, payload []byte) (int, error) {
	// Room for the two END delimiters.
	if len(dst) < 2 {
		return 0, ErrOverflow
	}

	n := 0
	dst[n] = End
	n++

	for _, b := range payload {
		second, escaped := escape(e.variant, b)
		width := 1
		if escaped {
			width = 2
		}

		// Keep room for the trailing END.
		if n+width+1 > len(dst) {
			if e.truncate {
				break
			}
			return 0, ErrOverflow
		}

		if escaped {
			dst[n] = Esc
			dst[n+1] = second
		} else {
			dst[n] = b
		}
		n += width
	}

	dst[n] = End
	return n + 1, nil
}

// AppendFrame appends the framed payload to dst and returns the extended slice.
func (e *Encoder) AppendFrame(dst, payload []byte) []byte {
	dst = append(dst, End)
	for _, b := range payload {
		if second, ok := escape(e.variant, b); ok {
			dst = append(dst, Esc, second)
		} else {
			dst = append(dst, b)
		}
	}
	return append(dst, End)
}
