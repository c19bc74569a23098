// Package cmd provides the command-line interface of framesim.
package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/framesim/config"
	"github.com/sarchlab/framesim/logging"
)

type options struct {
	envFile     string
	openBrowser bool
	scenario    string

	cfg    config.Config
	logger zerolog.Logger
}

// NewRootCommand creates the framesim command with all its subcommands.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "framesim",
		Short: "framesim runs frame-based discrete event simulations.",
		Long: `framesim runs the example models of the framesim engine. ` +
			`Settings come from FRAMESIM_* environment variables, an ` +
			`optional .env file, and the flags, in increasing precedence.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", ".env",
		"File to load environment variables from")
	flags.Uint64("seed", 0, "Seed of the random source")
	flags.Uint64("frames", 100, "Number of frames to run")
	flags.String("log-level", "info",
		"Log level (trace, debug, info, warn, error)")
	flags.Bool("log-console", true, "Write human readable logs")
	flags.String("record", "",
		"Record fired events into the given SQLite file, without extension")
	flags.Bool("monitor", false, "Serve the monitoring web page")
	flags.Int("monitor-port", 0, "Port of the monitoring web page")
	flags.BoolVar(&opts.openBrowser, "open-browser", false,
		"Open the monitoring web page in a browser")

	rootCmd.AddCommand(
		newCounterCommand(opts),
		newDriveCommand(opts),
		newWalkCommand(opts),
		newTimelineCommand(opts),
		newReportCommand(opts),
	)

	return rootCmd
}

func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()

	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}

	if flags.Changed("frames") {
		cfg.Frames, _ = flags.GetUint64("frames")
	}

	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if flags.Changed("log-console") {
		cfg.LogConsole, _ = flags.GetBool("log-console")
	}

	if flags.Changed("record") {
		cfg.Record, _ = flags.GetString("record")
	}

	if flags.Changed("monitor") {
		cfg.Monitor, _ = flags.GetBool("monitor")
	}

	if flags.Changed("monitor-port") {
		cfg.MonitorPort, _ = flags.GetInt("monitor-port")
	}

	if o.openBrowser {
		cfg.Monitor = true
	}

	o.cfg = cfg
	o.logger = logging.New(logging.Config{
		Level:   cfg.LogLevel,
		Console: cfg.LogConsole,
		Out:     cmd.ErrOrStderr(),
	})

	return nil
}

// Execute runs the framesim command with the process arguments.
func Execute() {
	err := NewRootCommand().Execute()
	if err != nil {
		atexit.Exit(1)
	}
}
