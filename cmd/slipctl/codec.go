package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bigbag/slipctl/internal/slip"
)

func runEncode(cmd *cobra.Command, args []string) error {
	payload, err := readHexInput(cmd, args)
	if err != nil {
		return err
	}

	opts := []slip.Option{slip.WithVariant(cfg.Framing.Variant)}
	if cfg.Framing.LegacyTruncate {
		opts = append(opts, slip.WithLegacyTruncate())
	}
	enc := slip.NewEncoder(opts...)

	var frame []byte
	if maxFlag > 0 {
		buf := make([]byte, maxFlag)
		n, err := enc.Encode(buf, payload)
		if err != nil {
			return fmt.Errorf("%d byte payload needs up to %d bytes: %w", len(payload), enc.MaxEncodedLen(len(payload)), err)
		}
		frame = buf[:n]
	} else {
		frame = enc.AppendFrame(nil, payload)
	}

	log.Debug().Int("payload", len(payload)).Int("frame", len(frame)).Stringer("variant", enc.Variant()).Msg("encoded")
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(frame))
	return nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	data, err := readHexInput(cmd, args)
	if err != nil {
		return err
	}

	frames, err := slip.DecodeAll(data, slip.WithVariant(cfg.Framing.Variant))
	out := cmd.OutOrStdout()
	for _, f := range frames {
		fmt.Fprintln(out, hex.EncodeToString(f))
	}

	if errors.Is(err, slip.ErrBadEscape) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		return nil
	}
	return err
}

// readHexInput takes hex from the first argument or, without one, from stdin.
func readHexInput(cmd *cobra.Command, args []string) ([]byte, error) {
	var text string
	if len(args) > 0 {
		text = args[0]
	} else {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(raw)
	}
	return parseHex(text)
}

// parseHex accepts "c0 01 c0", "0xc0,0x01,0xc0", "c0:01:c0" and "c001c0".
func parseHex(s string) ([]byte, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\r', ',', ':':
			return true
		}
		return false
	})

	var sb strings.Builder
	for _, f := range fields {
		sb.WriteString(strings.TrimPrefix(strings.TrimPrefix(f, "0x"), "0X"))
	}

	data, err := hex.DecodeString(sb.String())
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}
