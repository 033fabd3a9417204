package probe

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/hostprobe/pkg/addr"
	"github.com/NVIDIA/hostprobe/pkg/source"
)

const (
	lsblkDoc = `{"blockdevices":[
	  {"name":"nvme0n1","mountpoint":null,"fstype":null,"size":512110190592,"fsavail":null,"type":"disk","children":[
	    {"name":"nvme0n1p1","mountpoint":"/boot/efi","fstype":"vfat","size":1127219200,"fsavail":1120509952,"type":"part"},
	    {"name":"nvme0n1p2","mountpoint":null,"fstype":null,"size":"x12","fsavail":null,"type":"part"}
	  ]},
	  {"name":"sr0","mountpoint":null,"fstype":null,"size":1073741312,"fsavail":null,"type":"rom"}
	]}`

	lshwDoc = `{"id":"host","description":"Computer","children":[
	  {"id":"input:0","class":"input","vendor":"Acme","product":"Mouse"},
	  {"id":"core","class":"bus","children":[
	    {"id":"display","class":"display","vendor":"NVIDIA","product":"GA102","description":"VGA compatible controller"},
	    {"id":"multimedia","class":"multimedia","description":"Audio device"}
	  ]}
	]}`

	ipDoc = `[
	  {"ifname":"lo","address":"00:00:00:00:00:00","addr_info":[
	    {"family":"inet","local":"127.0.0.1","prefixlen":8},
	    {"family":"inet6","local":"::1","prefixlen":128}]},
	  {"ifname":"eth0","address":"52:54:00:12:34:56","addr_info":[
	    {"family":"inet6","local":"fe80::5054:ff:fe12:3456","prefixlen":64},
	    {"family":"inet6","local":"2001:db8::2","prefixlen":64}]},
	  {"ifname":"dummy0","addr_info":[{"family":"inet","local":"0.0.0.0","prefixlen":99}]},
	  {"ifname":"wg0","address":"zz:00","addr_info":[]}
	]`

	lscpuDoc = `{"caches":[
	  {"name":"L1d","all-size":"393216"},
	  {"name":"L1i","all-size":"262144"},
	  {"name":"L2","all-size":10485760},
	  {"name":"L3","all-size":"37748736"}
	]}`
)

func unixFake(t *testing.T) *fakeSource {
	f := newFake(source.DialectUnix)
	f.keyed[source.OS] = map[string]any{
		"sysname": "Linux", "nodename": "gpu-node-1", "release": "6.8.0-45-generic", "machine": "x86_64",
	}
	f.keyed[source.Processor] = map[string]any{
		"model name":  "AMD EPYC 7413 24-Core Processor",
		"cpu cores":   "24",
		"siblings":    "48",
		"physical id": "1",
		"cpu MHz":     "2650.000",
	}
	f.keyed[source.Memory] = map[string]any{"total": uint64(64 << 30), "available": uint64(40 << 30)}
	f.text[source.Sessions] = []string{"alice\t1704106800", "\tnot-a-number"}
	f.tree(t, source.Partitions, lsblkDoc, source.LsblkTree)
	f.tree(t, source.Devices, lshwDoc, source.LshwTree)
	f.tree(t, source.Interfaces, ipDoc, source.IPAddrTree)
	f.tree(t, source.Caches, lscpuDoc, source.LscpuTree)
	f.counters = [][][]uint64{
		{{10, 0, 10, 80, 0}, {5, 0, 5, 90, 0}},
		{{20, 0, 20, 160, 0}, {5, 0, 5, 90, 0}},
	}
	return f
}

func TestOSIdentity(t *testing.T) {
	p := newTestProbe(unixFake(t))

	got := p.OSIdentity(context.TODO())
	assert.Equal(t, OSIdentity{Name: "Linux", Hostname: "gpu-node-1", Kernel: "6.8.0-45-generic", Arch: 64}, got)
}

func TestOSIdentity_FetchedOnce(t *testing.T) {
	p := newTestProbe(unixFake(t))

	first := p.OSIdentity(context.TODO())
	second := p.OSIdentity(context.TODO())
	_ = p.ProcessorInfo(context.TODO())

	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.Stats()[source.OS])
}

func TestOSIdentity_FailureIsCached(t *testing.T) {
	f := unixFake(t)
	f.setFail(source.OS, true)
	p := newTestProbe(f)

	assert.Equal(t, defaultOSIdentity(), p.OSIdentity(context.TODO()))

	f.setFail(source.OS, false)
	assert.Equal(t, defaultOSIdentity(), p.OSIdentity(context.TODO()))
	assert.Equal(t, 1, p.Stats()[source.OS])
}

func TestOSIdentity_CachedFailureCountedOnce(t *testing.T) {
	f := unixFake(t)
	f.setFail(source.OS, true)
	p := newTestProbe(f)

	fallbacks := operationFallbackTotal.WithLabelValues("os")
	before := testutil.ToFloat64(fallbacks)

	for range 3 {
		assert.Equal(t, defaultOSIdentity(), p.OSIdentity(context.TODO()))
	}

	assert.InDelta(t, 1, testutil.ToFloat64(fallbacks)-before, 0)
	assert.Equal(t, 1, p.Stats()[source.OS])
}

func TestOSIdentity_ConcurrentCallersFetchOnce(t *testing.T) {
	p := newTestProbe(unixFake(t))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "gpu-node-1", p.OSIdentity(context.TODO()).Hostname)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, p.Stats()[source.OS])
}

func TestOSIdentity_UnknownMachine(t *testing.T) {
	f := unixFake(t)
	f.keyed[source.OS] = map[string]any{"sysname": "Linux", "nodename": "", "machine": "quantum9"}
	p := newTestProbe(f)

	got := p.OSIdentity(context.TODO())
	assert.Equal(t, uint16(0), got.Arch)
	assert.Equal(t, Placeholder, got.Hostname)
	assert.Equal(t, Placeholder, got.Kernel)
}

func TestUserSessions(t *testing.T) {
	p := newTestProbe(unixFake(t))

	got := p.UserSessions(context.TODO())
	require.Len(t, got, 2)

	assert.Equal(t, "alice", got[0].Name)
	assert.Equal(t, time.Unix(1704106800, 0).UTC(), got[0].LastLogin)
	assert.Equal(t, fixedNow.Sub(got[0].LastLogin), got[0].Uptime)

	assert.Equal(t, Placeholder, got[1].Name)
	assert.True(t, got[1].LastLogin.IsZero())
	assert.Equal(t, time.Duration(0), got[1].Uptime)
}

func TestUserSessions_RecomputedEveryCall(t *testing.T) {
	p := newTestProbe(unixFake(t))

	p.UserSessions(context.TODO())
	p.UserSessions(context.TODO())
	assert.Equal(t, 2, p.Stats()[source.Sessions])
}

func TestStoragePartitions(t *testing.T) {
	p := newTestProbe(unixFake(t))

	got := p.StoragePartitions(context.TODO())
	require.Len(t, got, 2)
	assert.Equal(t, StoragePartition{
		Name: "nvme0n1p1", MountPoint: "/boot/efi", Filesystem: "vfat",
		Capacity: 1127219200, Free: 1120509952,
	}, got[0])
	assert.Equal(t, StoragePartition{
		Name: "nvme0n1p2", MountPoint: Placeholder, Filesystem: Placeholder,
	}, got[1], "null and unparsable fields fall back to defaults")
}

func TestStoragePartitions_CachedAfterFirstSuccess(t *testing.T) {
	f := unixFake(t)
	f.setFail(source.Partitions, true)
	p := newTestProbe(f)

	assert.Empty(t, p.StoragePartitions(context.TODO()))
	assert.NotNil(t, p.StoragePartitions(context.TODO()))
	assert.Equal(t, 2, p.Stats()[source.Partitions])

	f.setFail(source.Partitions, false)
	assert.Len(t, p.StoragePartitions(context.TODO()), 2)
	assert.Equal(t, 3, p.Stats()[source.Partitions])

	f.setFail(source.Partitions, true)
	assert.Len(t, p.StoragePartitions(context.TODO()), 2, "never invalidated")
	assert.Equal(t, 3, p.Stats()[source.Partitions])
}

func TestPeripheralDevices(t *testing.T) {
	p := newTestProbe(unixFake(t))

	got := p.PeripheralDevices(context.TODO())
	assert.Equal(t, []PeripheralDevice{
		{Name: "Acme Mouse input:0", Class: "input"},
		{Name: "NVIDIA GA102 | VGA compatible controller display", Class: "display"},
		{Name: "| Audio device multimedia", Class: "multimedia"},
	}, got)
	assert.Equal(t, 1, p.Stats()[source.Devices])

	p.PeripheralDevices(context.TODO())
	assert.Equal(t, 2, p.Stats()[source.Devices])
}

func TestPeripheralDevices_MatchingChildOfUntaggedRoot(t *testing.T) {
	f := newFake(source.DialectUnix)
	f.tree(t, source.Devices, `{"children":[{"class":"input","vendor":"Acme","product":"Mouse"}]}`, source.LshwTree)

	got := newTestProbe(f).PeripheralDevices(context.TODO())
	assert.Equal(t, []PeripheralDevice{{Name: "Acme Mouse", Class: "input"}}, got)
}

func TestNetworkInterfaces(t *testing.T) {
	p := newTestProbe(unixFake(t))

	got := p.NetworkInterfaces(context.TODO())
	require.Len(t, got, 4)

	lo := got[0]
	assert.Equal(t, "lo", lo.Name)
	require.NotNil(t, lo.IPv4)
	assert.Equal(t, addr.IPv4{127, 0, 0, 1}, *lo.IPv4)
	assert.Equal(t, uint8(8), lo.IPv4Prefix)
	require.NotNil(t, lo.IPv6)
	assert.Equal(t, "::1", lo.IPv6.String())
	assert.Equal(t, uint8(128), lo.IPv6Prefix)

	eth0 := got[1]
	require.NotNil(t, eth0.MAC)
	assert.Equal(t, "52:54:00:12:34:56", eth0.MAC.String())
	assert.Nil(t, eth0.IPv4, "no IPv4 configured")
	require.NotNil(t, eth0.IPv6)
	assert.Equal(t, "fe80::5054:ff:fe12:3456", eth0.IPv6.String(), "first address wins")

	dummy := got[2]
	assert.Nil(t, dummy.MAC)
	require.NotNil(t, dummy.IPv4, "0.0.0.0 is a present address")
	assert.True(t, dummy.IPv4.IsZero())
	assert.Equal(t, uint8(32), dummy.IPv4Prefix)
	assert.Nil(t, dummy.IPv6)

	wg := got[3]
	require.NotNil(t, wg.MAC, "malformed MAC stays present")
	assert.Equal(t, addr.MAC{}, *wg.MAC)
}

func TestProcessorInfo(t *testing.T) {
	p := newTestProbe(unixFake(t))

	got := p.ProcessorInfo(context.TODO())
	assert.Equal(t, "AMD EPYC 7413 24-Core Processor", got.Name)
	assert.Equal(t, "x86_64", got.Arch)
	assert.Equal(t, uint32(48), got.Cores)
	assert.Equal(t, uint64(1), got.PhysicalID)
	assert.InDelta(t, 2650.0, got.ClockMHz, 1e-9)
	assert.Equal(t, uint64(393216), got.L1Cache)
	assert.Equal(t, uint64(10485760), got.L2Cache)
	assert.Equal(t, uint64(37748736), got.L3Cache)
	assert.Equal(t, uint64(393216+10485760+37748736), got.TotalCache)

	require.Len(t, got.Load, 2)
	assert.InDelta(t, 0.2, got.Load[0], 1e-9)
	assert.Equal(t, 0.0, got.Load[1], "idle core with no elapsed ticks")
	assert.Equal(t, 2, p.Stats()[source.Counters])
}

func TestProcessorInfo_PartialSources(t *testing.T) {
	f := unixFake(t)
	f.setFail(source.Caches, true)
	f.setFail(source.Counters, true)
	f.keyed[source.Processor]["siblings"] = "many"
	p := newTestProbe(f)

	got := p.ProcessorInfo(context.TODO())
	assert.Equal(t, "AMD EPYC 7413 24-Core Processor", got.Name)
	assert.Equal(t, uint32(0), got.Cores, "unparsable count falls back to 0")
	assert.Equal(t, uint64(0), got.TotalCache)
	assert.NotNil(t, got.Load)
	assert.Empty(t, got.Load)
}

func TestProcessorInfo_CoresFallback(t *testing.T) {
	f := unixFake(t)
	delete(f.keyed[source.Processor], "siblings")

	got := newTestProbe(f).ProcessorInfo(context.TODO())
	assert.Equal(t, uint32(24), got.Cores)
}

func TestMemorySnapshot(t *testing.T) {
	p := newTestProbe(unixFake(t))

	assert.Equal(t, MemorySnapshot{Capacity: 64 << 30, Free: 40 << 30}, p.MemorySnapshot(context.TODO()))
	p.MemorySnapshot(context.TODO())
	assert.Equal(t, 2, p.Stats()[source.Memory])
}

func TestUnavailableSources(t *testing.T) {
	p := newTestProbe(newFake(source.DialectUnix))
	ctx := context.TODO()

	assert.Equal(t, defaultOSIdentity(), p.OSIdentity(ctx))
	assert.Equal(t, []UserSession{}, p.UserSessions(ctx))
	assert.Equal(t, []StoragePartition{}, p.StoragePartitions(ctx))
	assert.Equal(t, []PeripheralDevice{}, p.PeripheralDevices(ctx))
	assert.Equal(t, []NetworkInterface{}, p.NetworkInterfaces(ctx))
	assert.Equal(t, MemorySnapshot{}, p.MemorySnapshot(ctx))

	cpu := p.ProcessorInfo(ctx)
	assert.Equal(t, Placeholder, cpu.Name)
	assert.Equal(t, UndefinedArch, cpu.Arch)
	assert.Equal(t, []float64{}, cpu.Load)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestProbe(unixFake(t))
	assert.Equal(t, defaultOSIdentity(), p.OSIdentity(ctx))
	assert.Empty(t, p.StoragePartitions(ctx))
	assert.Equal(t, defaultProcessorInfo(), p.ProcessorInfo(ctx))
	assert.Empty(t, p.Stats())

	// a cancelled call does not poison the cache
	assert.Equal(t, "gpu-node-1", p.OSIdentity(context.TODO()).Hostname)
}

func TestSamplingWindowOption(t *testing.T) {
	p := New(newFake(source.DialectUnix))
	assert.Equal(t, time.Second, p.SamplingWindow())

	p = New(newFake(source.DialectUnix), WithSamplingWindow(-1))
	assert.Equal(t, time.Second, p.SamplingWindow())
}
