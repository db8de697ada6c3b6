package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bigbag/slipctl/internal/config"
	"github.com/bigbag/slipctl/internal/logging"
	"github.com/bigbag/slipctl/internal/slip"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configFlag   string
	portFlag     string
	baudFlag     int
	variantFlag  string
	logLevelFlag string

	maxFlag            int
	legacyTruncateFlag bool
	chunkFlag          int
	countFlag          int
)

// Set by the root command before any subcommand runs.
var (
	cfg *config.Config
	log zerolog.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "slipctl",
		Short: "Encode, decode and exchange SLIP frames",
		Long: `slipctl frames payloads with SLIP byte stuffing (RFC 1055) or the
HCI three-wire escape variant.

It can encode and decode hex captures offline, or talk to a device over a
serial port or a TCP socket.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to TOML config file")
	rootCmd.PersistentFlags().StringVarP(&portFlag, "port", "p", "", "Serial port or host:port")
	rootCmd.PersistentFlags().IntVarP(&baudFlag, "baud", "b", 0, "Baud rate (default from config)")
	rootCmd.PersistentFlags().StringVar(&variantFlag, "variant", "", "Escape variant: standard or three-wire")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: trace, debug, info, warn, error")

	// Encode command
	encodeCmd := &cobra.Command{
		Use:   "encode [hex]",
		Short: "Encode a hex payload into a frame",
		Long: `Encode a payload given as hex (argument or stdin) and print the frame as hex.

With --max the frame must fit a buffer of that many bytes. An oversized
payload fails unless --legacy-truncate is set, which cuts it short instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runEncode,
	}
	encodeCmd.Flags().IntVar(&maxFlag, "max", 0, "Encode buffer size in bytes (0 = unbounded)")
	encodeCmd.Flags().BoolVar(&legacyTruncateFlag, "legacy-truncate", false, "Truncate oversized payloads instead of failing")

	// Decode command
	decodeCmd := &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode frames from a hex capture",
		Long:  "Decode every complete frame in a hex capture (argument or stdin) and print one payload per line.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDecode,
	}

	// Send command
	sendCmd := &cobra.Command{
		Use:   "send <file>",
		Short: "Send a file as a sequence of frames",
		Args:  cobra.ExactArgs(1),
		RunE:  runSend,
	}
	sendCmd.Flags().IntVar(&chunkFlag, "chunk", 256, "Payload bytes per frame")
	sendCmd.Flags().BoolVar(&legacyTruncateFlag, "legacy-truncate", false, "Truncate oversized payloads instead of failing")

	// Listen command
	listenCmd := &cobra.Command{
		Use:   "listen",
		Short: "Print received frames until interrupted",
		Args:  cobra.NoArgs,
		RunE:  runListen,
	}
	listenCmd.Flags().IntVarP(&countFlag, "count", "n", 0, "Stop after this many frames (0 = no limit)")

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "slipctl %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available serial ports",
		RunE:  runList,
	}

	rootCmd.AddCommand(encodeCmd, decodeCmd, sendCmd, listenCmd, versionCmd, listCmd)
	return rootCmd
}

// setup loads the config and applies the environment, then command line flags.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	if err := c.ApplyEnv(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		c.Link.Device = portFlag
	}
	if flags.Changed("baud") {
		c.Link.Baud = baudFlag
	}
	if flags.Changed("variant") {
		v, err := slip.ParseVariant(variantFlag)
		if err != nil {
			return err
		}
		c.Framing.Variant = v
	}
	if flags.Changed("legacy-truncate") {
		c.Framing.LegacyTruncate = legacyTruncateFlag
	}
	if flags.Changed("log-level") {
		c.Log.Level = logLevelFlag
	}
	if err := c.Validate(); err != nil {
		return err
	}

	l, err := logging.New(c.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	cfg = c
	log = l
	return nil
}
