package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/bigbag/slipctl/internal/config"
	"github.com/bigbag/slipctl/internal/link"
	"github.com/bigbag/slipctl/internal/serial"
	"github.com/bigbag/slipctl/internal/slip"
	"github.com/bigbag/slipctl/internal/transport"
)

func transportOptions(c *config.Config) []transport.Option {
	opts := []transport.Option{
		transport.WithVariant(c.Framing.Variant),
		transport.WithMaxFrameSize(c.Framing.MaxFrame),
		transport.WithQueueSize(c.Framing.QueueSize),
		transport.WithScratchSize(c.Framing.ScratchSize),
		transport.WithLogger(log.With().Str("device", c.Link.Device).Logger()),
	}
	if c.Framing.LegacyTruncate {
		opts = append(opts, transport.WithLegacyTruncate())
	}
	return opts
}

func openTransport(cmd *cobra.Command) (*transport.Transport, func() error, error) {
	conn, err := link.Open(cfg.Link)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open link: %w", err)
	}

	if link.IsTCP(cfg.Link.Device) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Link: %s (tcp)\n", cfg.Link.Device)
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "Link: %s @ %d baud\n", cfg.Link.Device, cfg.Link.Baud)
	}
	return transport.New(conn, transportOptions(cfg)...), conn.Close, nil
}

func runSend(cmd *cobra.Command, args []string) error {
	path := args[0]

	if chunkFlag <= 0 {
		return fmt.Errorf("--chunk must be positive, got %d", chunkFlag)
	}
	if need := slip.NewEncoder().MaxEncodedLen(chunkFlag); need > cfg.Framing.MaxFrame && !cfg.Framing.LegacyTruncate {
		return fmt.Errorf("--chunk %d may need %d byte frames, framing.max_frame is %d", chunkFlag, need, cfg.Framing.MaxFrame)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "File: %s (%d bytes)\n", path, len(data))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr, closeLink, err := openTransport(cmd)
	if err != nil {
		return err
	}
	defer closeLink()

	bar := progressbar.NewOptions(len(data),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Sending"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	frames := 0
	for off := 0; off < len(data); off += chunkFlag {
		end := min(off+chunkFlag, len(data))
		if _, err := tr.SendFrame(ctx, data[off:end]); err != nil {
			return fmt.Errorf("frame %d at offset %d: %w", frames, off, err)
		}
		frames++
		bar.Add(end - off)
	}

	bar.Finish()
	fmt.Fprintf(cmd.ErrOrStderr(), "\nSent %d frame(s)\n", frames)
	return nil
}

func runListen(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr, closeLink, err := openTransport(cmd)
	if err != nil {
		return err
	}
	defer closeLink()

	out := cmd.OutOrStdout()
	buf := make([]byte, cfg.Framing.MaxFrame)
	received := 0
	for countFlag <= 0 || received < countFlag {
		n, err := tr.ReceiveFrame(ctx, buf)
		switch {
		case err == nil:
		case errors.Is(err, transport.ErrBufferTooSmall):
			log.Warn().Err(err).Msg("oversized frame dropped")
			continue
		case errors.Is(err, context.Canceled):
			return nil
		default:
			return err
		}

		received++
		fmt.Fprintln(out, hex.EncodeToString(buf[:n]))
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	ports, err := serial.ListPorts()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(ports) == 0 {
		fmt.Fprintln(out, "No serial ports found")
		return nil
	}

	fmt.Fprintln(out, "Available serial ports:")
	for _, p := range ports {
		fmt.Fprintf(out, "  %s\n", p)
	}

	return nil
}
