package transport

import (
	"github.com/rs/zerolog"

	"github.com/bigbag/slipctl/internal/slip"
)

// Default buffer sizes.
const (
	DefaultMaxFrameSize = 4096
	DefaultScratchSize  = 256
)

// Option configures a Transport.
type Option func(*settings)

type settings struct {
	variant        slip.Variant
	legacyTruncate bool
	maxFrame       int
	scratchSize    int
	queueSize      int
	queue          Queue
	backoff        Backoff
	log            zerolog.Logger
}

func defaultSettings() settings {
	return settings{
		variant:     slip.Standard,
		maxFrame:    DefaultMaxFrameSize,
		scratchSize: DefaultScratchSize,
		backoff:     DefaultBackoff(),
		log:         zerolog.Nop(),
	}
}

// WithVariant selects the escape table for both directions.
func WithVariant(v slip.Variant) Option {
	return func(s *settings) {
		s.variant = v
	}
}

// WithLegacyTruncate sends oversized payloads cut short instead of failing.
func WithLegacyTruncate() Option {
	return func(s *settings) {
		s.legacyTruncate = true
	}
}

// WithMaxFrameSize sets the largest decoded payload and the largest encoded frame.
func WithMaxFrameSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxFrame = n
		}
	}
}

// WithScratchSize sets how many bytes a single read may return.
func WithScratchSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.scratchSize = n
		}
	}
}

// WithQueueSize sets the read-ahead queue capacity.
// A capacity below the scratch size is replaced by twice the scratch size.
func WithQueueSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithQueue uses q as the read-ahead queue instead of an internal ring buffer.
func WithQueue(q Queue) Option {
	return func(s *settings) {
		s.queue = q
	}
}

// WithBackoff sets how long ReceiveFrame waits after reads that return no data.
func WithBackoff(b Backoff) Option {
	return func(s *settings) {
		s.backoff = b
	}
}

// WithLogger sets the logger for dropped frames and queue overruns.
func WithLogger(log zerolog.Logger) Option {
	return func(s *settings) {
		s.log = log
	}
}
