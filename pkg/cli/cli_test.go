package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/hostprobe/pkg/config"
	"github.com/NVIDIA/hostprobe/pkg/header"
	"github.com/NVIDIA/hostprobe/pkg/probe"
	"github.com/NVIDIA/hostprobe/pkg/serializer"
	"github.com/NVIDIA/hostprobe/pkg/snapshotter"
)

type stubProber struct{}

func (stubProber) OSIdentity(context.Context) probe.OSIdentity {
	return probe.OSIdentity{Name: "Linux", Hostname: "node-7", Kernel: "6.8.0", Arch: 64}
}

func (stubProber) UserSessions(context.Context) []probe.UserSession {
	return []probe.UserSession{{Name: "root"}}
}

func (stubProber) StoragePartitions(context.Context) []probe.StoragePartition {
	return []probe.StoragePartition{{Name: "sda1"}, {Name: "loop3"}}
}

func (stubProber) PeripheralDevices(context.Context) []probe.PeripheralDevice {
	return []probe.PeripheralDevice{}
}

func (stubProber) NetworkInterfaces(context.Context) []probe.NetworkInterface {
	return []probe.NetworkInterface{{Name: "eth0"}, {Name: "veth9"}}
}

func (stubProber) ProcessorInfo(context.Context) probe.ProcessorInfo {
	return probe.ProcessorInfo{Name: "cpu", Load: []float64{0.5}}
}

func (stubProber) MemorySnapshot(context.Context) probe.MemorySnapshot {
	return probe.MemorySnapshot{Capacity: 1024, Free: 512}
}

// isolate keeps config discovery away from files on the test machine.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func run(t *testing.T, s *settings, args ...string) error {
	t.Helper()
	if s.newProbe == nil {
		s.newProbe = func(*config.Config) snapshotter.Prober { return stubProber{} }
	}
	return newRootCmd(s).Run(context.Background(), append([]string{name}, args...))
}

func TestSnapshotCommand(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "snap.json")

	require.NoError(t, run(t, &settings{}, "snapshot", "--format", "json", "--output", out,
		"--exclude-interface", "veth*", "--exclude-partition", "loop*"))

	snap, err := serializer.FromFile[snapshotter.Snapshot](out)
	require.NoError(t, err)
	assert.Equal(t, header.KindSnapshot, snap.Kind)
	assert.Equal(t, "node-7", snap.Metadata[header.MetadataHostname])
	assert.Equal(t, []probe.NetworkInterface{{Name: "eth0"}}, snap.Interfaces)
	assert.Equal(t, []probe.StoragePartition{{Name: "sda1"}}, snap.Partitions)
	require.NotNil(t, snap.Memory)
	assert.Equal(t, uint64(512), snap.Memory.Free)
}

func TestSnapshotCommand_Include(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "snap.yaml")

	require.NoError(t, run(t, &settings{}, "snapshot", "--include", "os", "--include", "memory",
		"--format", "yaml", "--output", out))

	snap, err := serializer.FromFile[snapshotter.Snapshot](out)
	require.NoError(t, err)
	assert.NotNil(t, snap.OS)
	assert.NotNil(t, snap.Memory)
	assert.Nil(t, snap.Processor)
}

func TestSnapshotCommand_UnknownResource(t *testing.T) {
	isolate(t)
	err := run(t, &settings{}, "snapshot", "--include", "gpu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown resource")
}

func TestGetCommand(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "mem.json")

	require.NoError(t, run(t, &settings{}, "get", "--format", "json", "--output", out, "memory"))

	snap, err := serializer.FromFile[snapshotter.Snapshot](out)
	require.NoError(t, err)
	assert.Equal(t, header.KindResource, snap.Kind)
	require.NotNil(t, snap.Memory)
	assert.Equal(t, uint64(1024), snap.Memory.Capacity)
	assert.Nil(t, snap.OS)
}

func TestGetCommand_IncludeInterface(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hostprobe.yaml"),
		[]byte("include_interfaces: [\"lo*\"]\n"), 0o600))
	out := filepath.Join(dir, "ifaces.json")

	require.NoError(t, run(t, &settings{}, "get", "--format", "json", "--output", out,
		"--include-interface", "veth*", "interfaces"))

	snap, err := serializer.FromFile[snapshotter.Snapshot](out)
	require.NoError(t, err)
	assert.Equal(t, []probe.NetworkInterface{{Name: "veth9"}}, snap.Interfaces)
}

func TestGetCommand_Args(t *testing.T) {
	isolate(t)
	require.Error(t, run(t, &settings{}, "get"))
	require.Error(t, run(t, &settings{}, "get", "disks"))
}

func TestRenderCommand(t *testing.T) {
	dir := isolate(t)
	in := filepath.Join(dir, "snap.json")
	out := filepath.Join(dir, "snap.txt")

	require.NoError(t, run(t, &settings{}, "get", "--format", "json", "--output", in, "os"))
	require.NoError(t, run(t, &settings{}, "render", "--input", in, "--format", "table", "--output", out))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "os.hostname")
	assert.Contains(t, string(b), "node-7")
}

func TestRootFlagsOverrideConfig(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("sampling_window: 3s\nformat: table\n"), 0o600))

	var got *config.Config
	s := &settings{newProbe: func(cfg *config.Config) snapshotter.Prober {
		got = cfg
		return stubProber{}
	}}

	out := filepath.Join(dir, "out.txt")
	require.NoError(t, run(t, s, "--config", cfgPath, "--sampling-window", "200ms",
		"get", "--output", out, "os"))

	require.NotNil(t, got)
	assert.Equal(t, 200*time.Millisecond, got.SamplingWindow)
	assert.Equal(t, "table", got.Format)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "FIELD")
}

func TestMissingConfigFile(t *testing.T) {
	dir := isolate(t)
	err := run(t, &settings{}, "--config", filepath.Join(dir, "absent.yaml"), "get", "os")
	require.Error(t, err)
}
