// Package transport sends and receives SLIP frames over a byte stream.
//
// Received bytes are read ahead into a queue and decoded one at a time, so
// bytes belonging to the next frame survive between ReceiveFrame calls.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/bigbag/slipctl/internal/ringbuf"
	"github.com/bigbag/slipctl/internal/slip"
)

var (
	// ErrBufferTooSmall is returned when a frame does not fit the caller's buffer
	// or the decoder's capacity.
	ErrBufferTooSmall = errors.New("transport: buffer too small for frame")
	// ErrTransport wraps errors from the underlying reader or writer.
	ErrTransport = errors.New("transport: link error")
)

// Queue buffers raw bytes that have been read but not yet decoded.
type Queue interface {
	PushForce(p []byte) int
	PopByte() (byte, bool)
	Len() int
	Reset()
}

// Transport frames payloads onto conn and decodes frames from it.
//
// A Read returning 0 bytes and a nil error means no data is available yet.
// A Transport is not safe for concurrent use.
type Transport struct {
	conn    io.ReadWriter
	enc     *slip.Encoder
	dec     *slip.Decoder
	queue   Queue
	scratch []byte
	encBuf  []byte
	readErr error
	backoff Backoff
	log     zerolog.Logger
}

// New creates a Transport over conn.
func New(conn io.ReadWriter, opts ...Option) *Transport {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	queue := s.queue
	if queue == nil {
		size := s.queueSize
		if size < s.scratchSize {
			size = 2 * s.scratchSize
		}
		queue = ringbuf.New(size)
	}

	encOpts := []slip.Option{slip.WithVariant(s.variant)}
	if s.legacyTruncate {
		encOpts = append(encOpts, slip.WithLegacyTruncate())
	}

	return &Transport{
		conn:    conn,
		enc:     slip.NewEncoder(encOpts...),
		dec:     slip.NewDecoderSize(s.maxFrame, slip.WithVariant(s.variant)),
		queue:   queue,
		scratch: make([]byte, s.scratchSize),
		encBuf:  make([]byte, s.maxFrame),
		backoff: s.backoff,
		log:     s.log,
	}
}

// SendFrame encodes payload and writes the whole frame to the link.
// If the frame does not fit the encode buffer nothing is written and the error wraps slip.ErrOverflow.
func (t *Transport) SendFrame(ctx context.Context, payload []byte) (int, error) {
	n, err := t.enc.Encode(t.encBuf, payload)
	if err != nil {
		return 0, fmt.Errorf("encode %d byte payload: %w", len(payload), err)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	frame := t.encBuf[:n]
	for len(frame) > 0 {
		w, err := t.conn.Write(frame)
		if err != nil {
			return 0, fmt.Errorf("%w: write: %w", ErrTransport, err)
		}
		if w <= 0 {
			return 0, fmt.Errorf("%w: write: %w", ErrTransport, io.ErrShortWrite)
		}
		frame = frame[w:]
	}

	t.log.Trace().Int("payload", len(payload)).Int("frame", n).Msg("frame sent")
	return n, nil
}

// ReceiveFrame blocks until a complete frame is decoded and copies its payload into out.
//
// Frames with bad escape sequences are dropped and decoding continues. If the
// frame in progress grows larger than out, ErrBufferTooSmall is returned and
// the partial frame is kept: calling again with a larger buffer continues it,
// Reset discards it. ReceiveFrame returns ctx.Err() once ctx is done.
func (t *Transport) ReceiveFrame(ctx context.Context, out []byte) (int, error) {
	attempt := 0
	for {
		if t.dec.HasFrame() {
			return t.deliver(out)
		}

		if t.queue.Len() == 0 {
			if err := t.takeReadErr(); err != nil {
				return 0, err
			}
			if err := ctx.Err(); err != nil {
				return 0, err
			}

			n, err := t.conn.Read(t.scratch)
			if n > 0 {
				t.enqueue(t.scratch[:n])
				attempt = 0
			}
			if err != nil {
				if n <= 0 {
					return 0, fmt.Errorf("%w: read: %w", ErrTransport, err)
				}
				// Decode what arrived first, report the error once the queue drains.
				t.readErr = err
			}
			if n <= 0 {
				attempt++
				if err := sleep(ctx, t.backoff.Delay(attempt)); err != nil {
					return 0, err
				}
				continue
			}
		}

		for t.queue.Len() > 0 {
			b, _ := t.queue.PopByte()
			if err := t.dec.DecodeByte(b); err != nil {
				switch {
				case errors.Is(err, slip.ErrBadEscape):
					t.log.Debug().Hex("escape", []byte{b}).Msg("dropped frame with bad escape sequence")
					continue
				case errors.Is(err, slip.ErrOverflow):
					t.dec.Reset()
					return 0, fmt.Errorf("%w: frame exceeds %d bytes: %w", ErrBufferTooSmall, t.dec.Cap(), err)
				default:
					return 0, err
				}
			}

			if t.dec.HasFrame() {
				return t.deliver(out)
			}
			if t.dec.Len() > len(out) {
				return 0, fmt.Errorf("%w: frame exceeds %d byte buffer", ErrBufferTooSmall, len(out))
			}
		}
	}
}

func (t *Transport) deliver(out []byte) (int, error) {
	frame := t.dec.Frame()
	if len(frame) > len(out) {
		return 0, fmt.Errorf("%w: %d byte frame, %d byte buffer", ErrBufferTooSmall, len(frame), len(out))
	}
	n := copy(out, frame)
	t.dec.Reset()

	t.log.Trace().Int("len", n).Msg("frame received")
	return n, nil
}

func (t *Transport) enqueue(p []byte) {
	if lost := t.queue.PushForce(p); lost > 0 {
		t.log.Warn().Int("lost", lost).Msg("receive queue overrun, unread bytes overwritten")
	}
}

func (t *Transport) takeReadErr() error {
	if t.readErr == nil {
		return nil
	}
	err := t.readErr
	t.readErr = nil
	return fmt.Errorf("%w: read: %w", ErrTransport, err)
}

// Buffered returns how many received bytes are queued but not yet decoded.
func (t *Transport) Buffered() int {
	return t.queue.Len()
}

// Reset drops queued bytes and any partially decoded frame.
func (t *Transport) Reset() {
	t.dec.Reset()
	t.queue.Reset()
	t.readErr = nil
}
