package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/potatofarm/internal/factory"
	"github.com/mcoot/potatofarm/internal/telemetry"
)

var (
	cfg             *Config
	device          *factory.Device
	out             *Output
	shutdownTracing telemetry.Shutdown
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	flagged := DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "potato",
		Short: "Play and sync a potato farm from the terminal",
		Long: `potato is a terminal device for the potato farm game.

Progress is kept in a local device store and synced to the server when
signed in. Loading always keeps the highest all-time potato count seen on
either side.

Configuration is read from ~/.potato/config.yaml, then POTATO_* environment
variables, then flags.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolve(cmd, flagged)
			if err != nil {
				return err
			}
			cfg = resolved

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			shutdownTracing, err = telemetry.Setup(cmd.Context(), "potato-cli", cfg.Otel)
			if err != nil {
				logger.Warn("tracing disabled", slog.String("error", err.Error()))
			}

			device, err = openDevice(cfg, logger)
			if err != nil {
				return err
			}

			out = NewOutput(cfg.Output, cmd.OutOrStdout())
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&flagged.ConfigFile, "config", flagged.ConfigFile, "Config file (env: POTATO_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&flagged.ServerURL, "server", flagged.ServerURL, "Server URL (env: POTATO_SERVER)")
	rootCmd.PersistentFlags().StringVar(&flagged.DataDir, "data-dir", flagged.DataDir, "Device data directory (env: POTATO_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagged.LocalRedisURL, "local-redis", "", "Keep the device store in Redis (env: POTATO_LOCAL_REDIS_URL)")
	rootCmd.PersistentFlags().StringVar(&flagged.DeviceID, "device", flagged.DeviceID, "Device id for a Redis device store (env: POTATO_DEVICE_ID)")
	rootCmd.PersistentFlags().DurationVar(&flagged.RemoteTimeout, "remote-timeout", flagged.RemoteTimeout, "Timeout for server loads and saves (env: POTATO_REMOTE_TIMEOUT)")
	rootCmd.PersistentFlags().StringVarP(&flagged.Output, "output", "o", flagged.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&flagged.Verbose, "verbose", "v", flagged.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newLoadCmd())
	rootCmd.AddCommand(newSaveCmd())
	rootCmd.AddCommand(newHarvestCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Run executes the CLI with args and returns the process exit code
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	release()
	if err != nil {
		return 1
	}
	return 0
}

// Execute runs the root command. An interrupt cancels the command's context
// so an in-flight load is discarded rather than applied.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// release flushes spans and closes the device store after a command
func release() {
	if shutdownTracing != nil {
		_ = shutdownTracing(context.Background())
		shutdownTracing = nil
	}
	if device != nil {
		_ = device.Close()
		device = nil
	}
}
