// Package source supplies the raw host data that the probe normalizes.
//
// A Source answers four kinds of request, each keyed by an ID:
//
//   - TextTable: a sequence of lines
//   - StructuredTree: a hierarchical document of Nodes
//   - KeyedFields: a mapping of field name to primitive value
//   - CounterSnapshot: per-core tick counter rows
//
// A request the adapter cannot serve fails with an error wrapping
// ErrUnavailable. Adapters never cache; every call reaches the host.
//
// # Dialects
//
// The shape of each answer depends on the adapter Dialect. Unix adapters
// (Linux and Portable) answer with:
//
//	OS          KeyedFields     sysname, nodename, release, machine
//	Sessions    TextTable       "<user>\t<login unix seconds>"
//	Partitions  StructuredTree  root > disk > partition{name, mountpoint, fstype, size, fsavail}
//	Devices     StructuredTree  lshw tree{class, vendor, product, description, id}
//	Interfaces  StructuredTree  root > iface{ifname, address} > addr{family, local, prefixlen}
//	Processor   KeyedFields     /proc/cpuinfo keys of the first processor
//	Caches      StructuredTree  root > cache{name, all-size}
//	Memory      KeyedFields     total, available (bytes)
//
// The Windows adapter answers with PowerShell line output:
//
//	OS          TextTable  caption, hostname, version, OS architecture
//	Sessions    TextTable  user, seconds since interactive logon
//	Partitions  TextTable  "<drive>|<filesystem>|<size>|<free>" per drive
//	Devices     TextTable  "NAME:<name>" and "TYPE:<pnp id>" pairs
//	Interfaces  TextTable  six lines per adapter: description, MAC, IPv4,
//	                       IPv6, dotted IPv4 mask, IPv6 prefix
//	Processor   TextTable  name, architecture code, cores, logical
//	                       processors, L2 and L3 (KB), processor id (hex),
//	                       clock (MHz)
//	Memory      KeyedFields total, available (bytes)
//
// NewDefault picks the adapter for runtime.GOOS: Linux on linux, PowerShell
// on windows and the gopsutil backed Portable adapter elsewhere.
//
// Every adapter captures command output through process pipes, so
// concurrent calls never share intermediate files.
package source
