package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/hostprobe/pkg/snapshotter"
)

func snapshotCmd(s *settings) *cli.Command {
	return &cli.Command{
		Name:                  "snapshot",
		EnableShellCompletion: true,
		Usage:                 "Capture a snapshot of the host",
		Description: fmt.Sprintf(`Capture the state of the local host:
  - Operating system identity
  - Logged in user sessions
  - Storage partitions
  - Peripheral devices
  - Network interfaces
  - Processor details and per-core utilization
  - Physical memory

Use --include to limit the snapshot to some resources (%s).
The processor resource samples CPU counters over the sampling window.

# Examples

Full snapshot as YAML:
  hostprobe snapshot --format yaml

Memory and processor only, skipping container interfaces:
  hostprobe snapshot --include memory --include processor --exclude-interface 'veth*'`,
			strings.Join(snapshotter.ResourceNames(), ", ")),
		Flags: append([]cli.Flag{
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Resource to capture (can be repeated, default: all)",
			},
			outputFlag(),
			formatFlag(),
			timeoutFlag(),
		}, nameFilterFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			names := s.cfg.Include
			if cmd.IsSet("include") {
				names = cmd.StringSlice("include")
			}

			resources, err := snapshotter.ParseResources(names)
			if err != nil {
				return err
			}
			return s.measure(ctx, cmd, resources)
		},
	}
}
