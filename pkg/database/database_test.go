package database

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce-portal/configs"
	"workforce-portal/internal/store"
)

func TestOpenStoreMemory(t *testing.T) {
	s, err := OpenStore(context.Background(), configs.Config{StoreDriver: configs.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &store.Memory{}, s)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), configs.Config{StoreDriver: "sqlite"})
	assert.EqualError(t, err, `unknown store driver "sqlite"`)
}

func TestLimiterStorage(t *testing.T) {
	if os.Getenv("INTEGRATION") != "1" {
		t.Skip("set INTEGRATION=1 to run against a redis container")
	}
	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{Repository: "redis", Tag: "7-alpine"},
		func(hc *docker.HostConfig) { hc.AutoRemove = true })
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	port, err := strconv.Atoi(resource.GetPort("6379/tcp"))
	require.NoError(t, err)
	cfg := configs.Config{RedisHost: "localhost", RedisPort: port}

	ctx := context.Background()
	require.NoError(t, pool.Retry(func() error {
		client, err := ConnectRedis(ctx, cfg)
		if err != nil {
			return err
		}
		return client.Close()
	}))
	client, err := ConnectRedis(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, client.Set(ctx, "unrelated", "keep", 0).Err())

	s := NewLimiterStorage(client, "limiter:")
	t.Cleanup(func() { _ = s.Close() })

	got, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Set(fmt.Sprintf("ip-%d", i), []byte("1"), time.Minute))
	}
	got, err = s.Get("ip-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	require.NoError(t, s.Delete("ip-1"))
	got, err = s.Get("ip-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Reset())
	got, err = s.Get("ip-0")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, "keep", client.Get(ctx, "unrelated").Val())
}
