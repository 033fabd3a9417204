package source

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// ticksPerSecond converts gopsutil CPU times, reported in seconds, back to
// USER_HZ ticks.
const ticksPerSecond = 100

// cpuTimesCounters reads per-core CPU times as counter rows in the
// /proc/stat column order.
func cpuTimesCounters(ctx context.Context) ([][]uint64, error) {
	times, err := cpu.TimesWithContext(ctx, true)
	if err != nil {
		return nil, Unavailable(Counters, err)
	}

	rows := make([][]uint64, 0, len(times))
	for _, t := range times {
		if t.CPU == "cpu-total" || !strings.HasPrefix(t.CPU, "cpu") {
			continue
		}
		rows = append(rows, timesRow(t))
	}

	if len(rows) == 0 {
		return nil, Unavailable(Counters, fmt.Errorf("no per-core times reported"))
	}
	return rows, nil
}

func timesRow(t cpu.TimesStat) []uint64 {
	cols := []float64{t.User, t.Nice, t.System, t.Idle, t.Iowait, t.Irq, t.Softirq, t.Steal}
	row := make([]uint64, len(cols))
	for i, c := range cols {
		row[i] = toTicks(c)
	}
	return row
}

func toTicks(seconds float64) uint64 {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return uint64(math.Round(seconds * ticksPerSecond))
}

// virtualMemory reads total and available physical memory in bytes.
func virtualMemory(ctx context.Context) (map[string]any, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, Unavailable(Memory, err)
	}

	return map[string]any{
		"total":     vm.Total,
		"available": vm.Available,
	}, nil
}
