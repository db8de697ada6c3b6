package slip

// Option configures an Encoder or Decoder.
type Option func(*options)

type options struct {
	variant  Variant
	truncate bool
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithVariant selects the escape table. The default is Standard.
func WithVariant(v Variant) Option {
	return func(o *options) {
		o.variant = v
	}
}

// WithLegacyTruncate makes Encoder.Encode cut the payload short instead of
// returning ErrOverflow, sending a shortened frame the way older firmware did.
// Decoders ignore it.
func WithLegacyTruncate() Option {
	return func(o *options) {
		o.truncate = true
	}
}
