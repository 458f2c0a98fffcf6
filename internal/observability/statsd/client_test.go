package statsd

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePrefix(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"  rfpconsole.web  ": "rfpconsole.web",
		"..foo..":            "foo",
		".":                  "",
		"":                   "",
	}
	for input, want := range tests {
		assert.Equal(t, want, sanitizePrefix(input), input)
	}
}

func TestNormalizeMetricName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		" api/call ":      "api_call",
		"api..duration":   "api.duration",
		"multi  space":    "multi__space",
		"rfp/getrfp/{id}": "rfp_getrfp_{id}",
	}
	for input, want := range tests {
		assert.Equal(t, want, normalizeMetricName(input), input)
	}
}

func TestEncodeTags(t *testing.T) {
	t.Parallel()

	global := map[string]string{"env": "prod", " service ": " rfp-console "}
	local := map[string]string{"result": " success ", "": "ignored", "env": "stage"}

	assert.Equal(t, "|#env:stage,result:success,service:rfp-console", encodeTags(global, local))
	assert.Empty(t, encodeTags(nil, nil))
}

func TestClientWritesDatagrams(t *testing.T) {
	t.Parallel()

	listener, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	client, err := NewClient(Config{
		Enabled:    true,
		Address:    listener.LocalAddr().String(),
		Prefix:     "rfpconsole",
		GlobalTags: map[string]string{"env": "test"},
	})
	require.NoError(t, err)
	defer client.Close()
	require.True(t, client.Enabled())

	client.Count("api.call", 1, map[string]string{"op": "rfp.list"})
	client.Timing("api.duration", 1500*time.Microsecond, nil)

	buf := make([]byte, 512)
	require.NoError(t, listener.SetReadDeadline(time.Now().Add(2*time.Second)))

	n, _, err := listener.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, "rfpconsole.api.call:1|c|#env:test,op:rfp.list", string(buf[:n]))

	n, _, err = listener.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, "rfpconsole.api.duration:1.5|ms|#env:test", string(buf[:n]))
}

func TestClientDisabledAndClose(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{Enabled: true, Address: "   "})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	assert.NotPanics(t, func() { client.Gauge("rfp.open", 3, nil) })
	require.NoError(t, client.Close())

	var nilClient *Client
	assert.False(t, nilClient.Enabled())
	assert.NoError(t, nilClient.Close())
	assert.NotPanics(t, func() { nilClient.Count("x", 1, nil) })
}

func TestNewClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Enabled: true, Address: "bad address"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "statsd dial"))
}
