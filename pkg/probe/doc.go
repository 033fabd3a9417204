// Package probe produces typed, point-in-time facts about the local host:
// operating system identity, user sessions, storage partitions, peripheral
// devices, network interfaces, processor and memory.
//
// A Probe reads raw data through a source.Source and normalizes it. Public
// operations never fail: an unavailable source yields an empty list or a
// default record, and a field that cannot be parsed gets a default value
// (0 for numbers, Placeholder for names) without affecting its siblings.
// Every fallback is logged.
//
// # Caching
//
// OS identity is fetched once per Probe, whatever the outcome. Storage
// partitions are cached after the first successful fetch and never
// invalidated. Everything else is read on every call.
//
// # Usage
//
//	p := probe.NewDefault()
//	id := p.OSIdentity(ctx)
//	cpu := p.ProcessorInfo(ctx) // blocks for the sampling window
//	fmt.Println(id.Hostname, cpu.Load)
//
// A Probe is safe for concurrent use.
package probe
