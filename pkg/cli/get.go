package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/hostprobe/pkg/snapshotter"
)

func getCmd(s *settings) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Capture a single resource of the host",
		ArgsUsage: "<resource>",
		Description: fmt.Sprintf(`Capture one resource category. Supported resources: %s.

# Examples

  hostprobe get interfaces --format table
  hostprobe get processor --sampling-window 2s`,
			strings.Join(snapshotter.ResourceNames(), ", ")),
		Flags: append([]cli.Flag{
			outputFlag(),
			formatFlag(),
			timeoutFlag(),
		}, nameFilterFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one resource, one of: %s",
					strings.Join(snapshotter.ResourceNames(), ", "))
			}

			r, err := snapshotter.ParseResource(cmd.Args().First())
			if err != nil {
				return err
			}
			return s.measure(ctx, cmd, []snapshotter.Resource{r})
		},
	}
}
