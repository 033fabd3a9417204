package snapshotter

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/hostprobe/pkg/errors"
	"github.com/NVIDIA/hostprobe/pkg/filter"
	"github.com/NVIDIA/hostprobe/pkg/header"
	"github.com/NVIDIA/hostprobe/pkg/probe"
	"github.com/NVIDIA/hostprobe/pkg/serializer"
)

// HostSnapshotter captures the resources of the current host in parallel
// and serializes the result.
type HostSnapshotter struct {
	// Version is the tool version recorded in the snapshot metadata.
	Version string

	// Probe reads the host. If nil, probe.NewDefault is used.
	Probe Prober

	// Serializer is the serializer to use for output. If nil, a default stdout JSON serializer is used.
	Serializer serializer.Serializer

	// Include selects the captured resources. Empty means all.
	Include []Resource

	// IncludeInterfaces keeps only interfaces whose name matches a pattern.
	// Empty keeps all.
	IncludeInterfaces []string

	// ExcludeInterfaces drops interfaces whose name matches a pattern.
	ExcludeInterfaces []string

	// IncludePartitions keeps only partitions whose name matches a pattern.
	// Empty keeps all.
	IncludePartitions []string

	// ExcludePartitions drops partitions whose name matches a pattern.
	ExcludePartitions []string
}

// Measure captures a snapshot and serializes it.
func (h *HostSnapshotter) Measure(ctx context.Context) error {
	snap, err := h.Capture(ctx)
	if err != nil {
		return err
	}

	if h.Serializer == nil {
		h.Serializer = serializer.NewStdoutWriter(serializer.FormatJSON)
	}

	if err := h.Serializer.Serialize(ctx, snap); err != nil {
		slog.Error("failed to serialize", slog.String("error", err.Error()))
		return fmt.Errorf("failed to serialize: %w", err)
	}

	return nil
}

// Capture reads the selected resources concurrently. Probe operations never
// fail, so the only error is a context that ends before the capture does.
func (h *HostSnapshotter) Capture(ctx context.Context) (*Snapshot, error) {
	if h.Probe == nil {
		h.Probe = probe.NewDefault()
	}
	include := h.Include
	if len(include) == 0 {
		include = Resources()
	}

	slog.Debug("starting host snapshot", slog.Any("resources", include))

	start := time.Now()
	defer func() {
		snapshotCollectionDuration.Observe(time.Since(start).Seconds())
	}()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	snap := NewSnapshot()
	kind := header.KindSnapshot
	if len(include) == 1 {
		kind = header.KindResource
	}
	snap.Init(kind, APIVersion, h.Version)

	collect := func(r Resource, read func(context.Context, *Snapshot)) {
		if !slices.Contains(include, r) {
			return
		}
		g.Go(func() error {
			resourceStart := time.Now()
			defer func() {
				snapshotResourceDuration.WithLabelValues(string(r)).Observe(time.Since(resourceStart).Seconds())
			}()

			// results are built outside the lock; only the assignment is guarded
			var part Snapshot
			read(gctx, &part)

			mu.Lock()
			merge(snap, &part)
			mu.Unlock()
			return nil
		})
	}

	collect(ResourceOS, func(ctx context.Context, s *Snapshot) {
		id := h.Probe.OSIdentity(ctx)
		s.OS = &id
	})
	collect(ResourceSessions, func(ctx context.Context, s *Snapshot) {
		s.Sessions = h.Probe.UserSessions(ctx)
	})
	collect(ResourcePartitions, func(ctx context.Context, s *Snapshot) {
		s.Partitions = byName(h.Probe.StoragePartitions(ctx), h.IncludePartitions, h.ExcludePartitions,
			func(p probe.StoragePartition) string { return p.Name })
	})
	collect(ResourceDevices, func(ctx context.Context, s *Snapshot) {
		s.Devices = h.Probe.PeripheralDevices(ctx)
	})
	collect(ResourceInterfaces, func(ctx context.Context, s *Snapshot) {
		s.Interfaces = byName(h.Probe.NetworkInterfaces(ctx), h.IncludeInterfaces, h.ExcludeInterfaces,
			func(n probe.NetworkInterface) string { return n.Name })
	})
	collect(ResourceProcessor, func(ctx context.Context, s *Snapshot) {
		info := h.Probe.ProcessorInfo(ctx)
		s.Processor = &info
	})
	collect(ResourceMemory, func(ctx context.Context, s *Snapshot) {
		m := h.Probe.MemorySnapshot(ctx)
		s.Memory = &m
	})

	if err := g.Wait(); err != nil {
		snapshotCollectionTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		snapshotCollectionTotal.WithLabelValues("error").Inc()
		return nil, errors.Wrap(errors.ErrCodeTimeout, "snapshot capture did not complete", err)
	}

	if snap.OS != nil {
		snap.Metadata[header.MetadataHostname] = snap.OS.Hostname
	}

	snapshotCollectionTotal.WithLabelValues("success").Inc()
	snapshotResourceCount.Set(float64(len(include)))

	slog.Debug("snapshot collection complete",
		slog.String("id", snap.ID()),
		slog.Int("resources", len(include)))

	return snap, nil
}

// byName applies the include patterns, when there are any, then the exclude
// patterns.
func byName[T any](items []T, include, exclude []string, name func(T) string) []T {
	if len(include) > 0 {
		items = filter.In(items, include, name)
	}
	return filter.Out(items, exclude, name)
}

// merge copies the resources set in part into snap.
func merge(snap, part *Snapshot) {
	if part.OS != nil {
		snap.OS = part.OS
	}
	if part.Sessions != nil {
		snap.Sessions = part.Sessions
	}
	if part.Partitions != nil {
		snap.Partitions = part.Partitions
	}
	if part.Devices != nil {
		snap.Devices = part.Devices
	}
	if part.Interfaces != nil {
		snap.Interfaces = part.Interfaces
	}
	if part.Processor != nil {
		snap.Processor = part.Processor
	}
	if part.Memory != nil {
		snap.Memory = part.Memory
	}
}
