package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/hostprobe/pkg/serializer"
	"github.com/NVIDIA/hostprobe/pkg/snapshotter"
)

func renderCmd(s *settings) *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Re-render a saved snapshot in another format",
		Description: `Read a snapshot written by "hostprobe snapshot" as JSON or YAML and
write it again, for example as a table:

  hostprobe render --input node-1.yaml --format table`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Path to a JSON or YAML snapshot",
				Required: true,
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd, s.cfg.Format)
			if err != nil {
				return err
			}

			input := cmd.String("input")
			snap, err := serializer.FromFile[snapshotter.Snapshot](input)
			if err != nil {
				return fmt.Errorf("failed to load snapshot from %q: %w", input, err)
			}

			w := serializer.NewFileWriterOrStdout(format, s.outputPath(cmd))
			defer w.Close()
			return w.Serialize(ctx, snap)
		},
	}
}
