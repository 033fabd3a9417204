// Package snapshotter captures every resource of a host into one document.
//
// HostSnapshotter reads the selected resources through a probe.Probe in
// parallel, drops filtered interfaces and partitions, stamps the result with
// a header and hands it to a serializer:
//
//	s := &snapshotter.HostSnapshotter{
//	    Version:           version,
//	    Serializer:        serializer.NewStdoutWriter(serializer.FormatYAML),
//	    ExcludeInterfaces: []string{"veth*", "docker*"},
//	}
//	if err := s.Measure(ctx); err != nil {
//	    return err
//	}
//
// A snapshot of a single resource has kind Resource, anything else has kind
// Snapshot. The processor resource blocks for the probe sampling window, so
// a full capture takes at least that long.
//
// Metrics:
//   - hostprobe_snapshot_collection_duration_seconds
//   - hostprobe_snapshot_collection_total{status}
//   - hostprobe_snapshot_resource_duration_seconds{resource}
//   - hostprobe_snapshot_resources
package snapshotter
