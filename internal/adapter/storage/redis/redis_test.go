package redis

import (
	"context"
	"io"
	"testing"

	"wallet-ledger-engine/config"
	"wallet-ledger-engine/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_ConnectsAndPings(t *testing.T) {
	mr := miniredis.RunT(t)

	host, port := splitAddr(t, mr.Addr())
	client, err := NewClient(context.Background(), config.RedisConfig{
		Host: host,
		Port: port,
	}, logger.NewWithWriter("error", io.Discard))
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestNewClient_ConnectionRefused(t *testing.T) {
	// Port 1 is never a Redis server.
	_, err := NewClient(context.Background(), config.RedisConfig{
		Host: "127.0.0.1",
		Port: 1,
	}, logger.NewWithWriter("error", io.Discard))
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)

	host, port := splitAddr(t, mr.Addr())
	client, err := NewClient(context.Background(), config.RedisConfig{Host: host, Port: port},
		logger.NewWithWriter("error", io.Discard))
	require.NoError(t, err)
	defer client.Close()

	hc := NewHealthCheck(client)
	assert.Equal(t, "redis", hc.Name())
	assert.NoError(t, hc.Ping(context.Background()))

	mr.Close()
	assert.Error(t, hc.Ping(context.Background()))
}

func splitAddr(t *testing.T, addr string) (string, int) {
	t.Helper()
	var host string
	var port int
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			host = addr[:i]
			for _, ch := range addr[i+1:] {
				port = port*10 + int(ch-'0')
			}
			break
		}
	}
	require.NotEmpty(t, host)
	return host, port
}
