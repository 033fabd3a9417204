package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/hostprobe/pkg/defaults"
	"github.com/NVIDIA/hostprobe/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hostprobe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
sampling_window: 2s
log_level: debug
format: json
output: /tmp/snap.json
include: [os, memory]
exclude_interfaces: ["veth*", "docker*"]
exclude_partitions: ["loop*"]
include_interfaces: ["eth*"]
include_partitions: ["nvme*"]
commands:
  lshw: /usr/sbin/lshw
proc_root: /host/proc
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.SamplingWindow)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "/tmp/snap.json", cfg.Output)
	assert.Equal(t, []string{"os", "memory"}, cfg.Include)
	assert.Equal(t, []string{"veth*", "docker*"}, cfg.ExcludeInterfaces)
	assert.Equal(t, []string{"loop*"}, cfg.ExcludePartitions)
	assert.Equal(t, []string{"eth*"}, cfg.IncludeInterfaces)
	assert.Equal(t, []string{"nvme*"}, cfg.IncludePartitions)
	assert.Equal(t, map[string]string{"lshw": "/usr/sbin/lshw"}, cfg.Commands)
	assert.Equal(t, "/host/proc", cfg.ProcRoot)
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, defaults.SamplingWindow, cfg.SamplingWindow)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Empty(t, cfg.Include)
	assert.NotNil(t, cfg.Commands)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "sampling_window: 2s\nformat: json\n")
	t.Setenv("HOSTPROBE_SAMPLING_WINDOW", "500ms")
	t.Setenv("HOSTPROBE_FORMAT", "table")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.SamplingWindow)
	assert.Equal(t, "table", cfg.Format)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}

func TestLoad_InvalidFormat(t *testing.T) {
	_, err := Load(writeConfig(t, "format: xml\n"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}

func TestValidate_SamplingWindow(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want time.Duration
	}{
		{"unset", 0, defaults.SamplingWindow},
		{"negative", -time.Second, defaults.SamplingWindow},
		{"too short", time.Millisecond, defaults.MinSamplingWindow},
		{"too long", time.Hour, defaults.MaxSamplingWindow},
		{"in range", 3 * time.Second, 3 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.SamplingWindow = tt.in
			require.NoError(t, cfg.Validate())
			assert.Equal(t, tt.want, cfg.SamplingWindow)
		})
	}
}
