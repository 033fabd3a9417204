package probe

import (
	"context"
	"log/slog"
	"time"

	"github.com/NVIDIA/hostprobe/pkg/source"
)

// Platform turns the answers of one source dialect into typed results.
//
// Every method returns a best-effort value together with the errors met on
// the way. On total failure the value is the empty or default result, so
// callers may always use it.
type Platform interface {
	OSIdentity(ctx context.Context) (OSIdentity, error)
	UserSessions(ctx context.Context, now time.Time) ([]UserSession, error)
	StoragePartitions(ctx context.Context) ([]StoragePartition, error)
	PeripheralDevices(ctx context.Context) ([]PeripheralDevice, error)
	NetworkInterfaces(ctx context.Context) ([]NetworkInterface, error)
	// ProcessorInfo describes the processor without sampling its load.
	ProcessorInfo(ctx context.Context) (ProcessorInfo, error)
	MemorySnapshot(ctx context.Context) (MemorySnapshot, error)
}

// NewPlatform returns the Platform matching the dialect of src.
func NewPlatform(src source.Source, logger *slog.Logger) Platform {
	if logger == nil {
		logger = slog.Default()
	}
	if src.Dialect() == source.DialectWindows {
		return newWindowsPlatform(src, logger)
	}
	return newUnixPlatform(src, logger)
}

// readMemory is shared by all dialects.
func readMemory(ctx context.Context, src source.Source, logger *slog.Logger) (MemorySnapshot, error) {
	m, err := src.KeyedFields(ctx, source.Memory)
	if err != nil {
		return MemorySnapshot{}, err
	}

	f := fields{log: logger, id: source.Memory}
	return MemorySnapshot{
		Capacity: f.anyUint(m, "total"),
		Free:     f.anyUint(m, "available"),
	}, nil
}

func sinceLogin(now, login time.Time) time.Duration {
	if d := now.Sub(login); d > 0 {
		return d
	}
	return 0
}
