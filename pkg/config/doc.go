// Package config loads hostprobe settings from a YAML file and HOSTPROBE_
// environment variables.
//
// Lookup order for the file, unless a path is given explicitly:
//
//	./hostprobe.yaml
//	$HOME/.hostprobe/hostprobe.yaml
//	/etc/hostprobe/hostprobe.yaml
//
// Example file:
//
//	sampling_window: 2s
//	log_level: debug
//	format: yaml
//	include: [os, processor, memory]
//	exclude_interfaces: ["veth*", "docker*"]
//	exclude_partitions: ["loop*"]
//	include_partitions: ["nvme*", "sd*"]
//	commands:
//	  lshw: /usr/sbin/lshw
//
// Environment variables take precedence over the file, e.g.
// HOSTPROBE_SAMPLING_WINDOW=500ms. Command line flags are applied on top
// by the caller.
package config
