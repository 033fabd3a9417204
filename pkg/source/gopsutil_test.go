package source

import (
	"math"
	"testing"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/stretchr/testify/assert"
)

func TestTimesRow(t *testing.T) {
	row := timesRow(cpu.TimesStat{
		CPU:    "cpu0",
		User:   12.34,
		Nice:   0,
		System: 5.5,
		Idle:   100,
		Iowait: 0.01,
		Irq:    0.2,
	})

	assert.Equal(t, []uint64{1234, 0, 550, 10000, 1, 20, 0, 0}, row)
}

func TestToTicks(t *testing.T) {
	assert.Equal(t, uint64(0), toTicks(-1))
	assert.Equal(t, uint64(0), toTicks(math.NaN()))
	assert.Equal(t, uint64(150), toTicks(1.5))
}
