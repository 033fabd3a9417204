// Package cli implements the hostprobe command line.
//
// # Commands
//
// snapshot - Capture every resource of the host:
//
//	hostprobe snapshot [--include processor] [--output node.yaml] [--format yaml]
//
// get - Capture a single resource:
//
//	hostprobe get interfaces --format table
//
// render - Re-render a saved snapshot:
//
//	hostprobe render --input node.yaml --format table
//
// # Global Flags
//
//	--config, -c       Config file (default: search ./, $HOME/.hostprobe, /etc/hostprobe)
//	--log-level        Log level: debug, info, warn, error
//	--sampling-window  Delay between the two CPU counter reads (default: 1s)
//	--help, -h         Show command help
//	--version, -v      Show version information
//
// Flags override the config file and HOSTPROBE_* environment variables.
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, execution failure)
//	2  Interrupted
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/hostprobe/pkg/cli.version=1.0.0'"
package cli
