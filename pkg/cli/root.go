package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/hostprobe/pkg/config"
	"github.com/NVIDIA/hostprobe/pkg/logging"
	"github.com/NVIDIA/hostprobe/pkg/probe"
	"github.com/NVIDIA/hostprobe/pkg/snapshotter"
	"github.com/NVIDIA/hostprobe/pkg/source"
)

const (
	name           = "hostprobe"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// settings is the resolved configuration shared by all subcommands.
type settings struct {
	cfg *config.Config

	// newProbe builds the probe used by snapshot commands.
	newProbe func(cfg *config.Config) snapshotter.Prober
}

func defaultProbe(cfg *config.Config) snapshotter.Prober {
	src := source.NewDefault(
		source.WithCommands(cfg.Commands),
		source.WithProcRoot(cfg.ProcRoot),
	)
	return probe.New(src,
		probe.WithSamplingWindow(cfg.SamplingWindow),
		probe.WithLogger(slog.Default()),
	)
}

// Execute runs the hostprobe command line and exits on failure.
// This is called by main.main().
func Execute() {
	// LOG_LEVEL applies until the configuration is loaded
	logging.SetDefaultStructuredLogger(name, version)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(&settings{newProbe: defaultProbe}).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if ctx.Err() != nil {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newRootCmd(s *settings) *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		EnableShellCompletion: true,
		Usage:                 "Capture a point-in-time snapshot of the local host",
		Description: `hostprobe reports the operating system identity, logged in users, storage
partitions, peripheral devices, network interfaces, processor and memory
state of the machine it runs on.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: search ./, $HOME/.hostprobe, /etc/hostprobe)",
				Sources: cli.EnvVars("HOSTPROBE_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.DurationFlag{
				Name:  "sampling-window",
				Usage: "Delay between the two CPU counter reads",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, s.load(cmd)
		},
		Commands: []*cli.Command{
			snapshotCmd(s),
			getCmd(s),
			renderCmd(s),
		},
	}
}

// load resolves config file, environment and flags, in increasing priority,
// then configures the default logger.
func (s *settings) load(cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("sampling-window") {
		cfg.SamplingWindow = cmd.Duration("sampling-window")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg

	logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", cfg.LogLevel,
		"samplingWindow", cfg.SamplingWindow.String())
	return nil
}

