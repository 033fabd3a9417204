package probe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/hostprobe/pkg/addr"
)

func TestNetworkInterface_ZeroPrefixRendered(t *testing.T) {
	ni := NetworkInterface{Name: "tun0", IPv4: &addr.IPv4{}, IPv4Prefix: 0}

	b, err := json.Marshal(ni)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "0.0.0.0", got["ipv4"])
	assert.Contains(t, got, "ipv4Prefix")
	assert.InDelta(t, 0, got["ipv4Prefix"], 0)
	assert.NotContains(t, got, "ipv6")
	assert.NotContains(t, got, "mac")
}
