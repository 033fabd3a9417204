package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/hostprobe/pkg/defaults"
	"github.com/NVIDIA/hostprobe/pkg/serializer"
	"github.com/NVIDIA/hostprobe/pkg/snapshotter"
)

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage: fmt.Sprintf("Output format (supported values: %s)",
			strings.Join(serializer.SupportedFormats(), ", ")),
	}
}

func timeoutFlag() cli.Flag {
	return &cli.DurationFlag{
		Name:  "timeout",
		Usage: "Abort the capture after this long, 0 disables",
		Value: defaults.CLISnapshotTimeout,
	}
}

func nameFilterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "include-interface",
			Usage: "Report only interfaces matching a wildcard pattern, e.g. eth* (can be repeated)",
		},
		&cli.StringSliceFlag{
			Name:  "include-partition",
			Usage: "Report only partitions matching a wildcard pattern, e.g. nvme* (can be repeated)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude-interface",
			Usage: "Skip interfaces matching a wildcard pattern, e.g. veth* (can be repeated)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude-partition",
			Usage: "Skip partitions matching a wildcard pattern, e.g. loop* (can be repeated)",
		},
	}
}

// parseOutputFormat returns the --format flag when set, fallback otherwise.
func parseOutputFormat(cmd *cli.Command, fallback string) (serializer.Format, error) {
	value := fallback
	if cmd.IsSet("format") {
		value = cmd.String("format")
	}
	format := serializer.Format(strings.ToLower(strings.TrimSpace(value)))
	if format.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", value)
	}
	return format, nil
}

// outputPath returns the --output flag when set, the configured path otherwise.
func (s *settings) outputPath(cmd *cli.Command) string {
	if cmd.IsSet("output") {
		return cmd.String("output")
	}
	return s.cfg.Output
}

// measure captures resources and writes them in the requested format.
func (s *settings) measure(ctx context.Context, cmd *cli.Command, resources []snapshotter.Resource) error {
	format, err := parseOutputFormat(cmd, s.cfg.Format)
	if err != nil {
		return err
	}

	if d := cmd.Duration("timeout"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	w := serializer.NewFileWriterOrStdout(format, s.outputPath(cmd))
	defer w.Close()

	hs := &snapshotter.HostSnapshotter{
		Version:           version,
		Probe:             s.newProbe(s.cfg),
		Serializer:        w,
		Include:           resources,
		IncludeInterfaces: slices.Concat(s.cfg.IncludeInterfaces, cmd.StringSlice("include-interface")),
		ExcludeInterfaces: slices.Concat(s.cfg.ExcludeInterfaces, cmd.StringSlice("exclude-interface")),
		IncludePartitions: slices.Concat(s.cfg.IncludePartitions, cmd.StringSlice("include-partition")),
		ExcludePartitions: slices.Concat(s.cfg.ExcludePartitions, cmd.StringSlice("exclude-partition")),
	}
	return hs.Measure(ctx)
}
