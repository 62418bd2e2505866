package redis

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/dbtest"
	"github.com/derWhity/fyyur/internal/models"
)

// The tests in this file need a running Redis server. Its address is taken from FYYUR_TEST_REDIS_ADDR.
func connect(t *testing.T) *FlashRepo {
	addr := os.Getenv("FYYUR_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FYYUR_TEST_REDIS_ADDR is not set")
	}
	client, err := Connect(context.Background(), addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return New(client, dbtest.Logger())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "fyyur:flash:abc", key("abc"))
}

func TestRedisPushAndPop(t *testing.T) {
	ctx := context.Background()
	repo := connect(t)
	clientID := uuid.NewString()

	first := models.Flash{Category: models.FlashSuccess, Message: "Show was successfully listed!"}
	second := models.Flash{Category: models.FlashError, Message: "start_time: Not a valid date and time"}
	require.NoError(t, repo.Push(ctx, clientID, first))
	require.NoError(t, repo.Push(ctx, clientID, second))

	ttl, err := repo.client.TTL(ctx, key(clientID)).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= expiry)

	flashes, err := repo.Pop(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, []models.Flash{first, second}, flashes)

	flashes, err = repo.Pop(ctx, clientID)
	require.NoError(t, err)
	assert.Empty(t, flashes)
}

func TestRedisSkipsBrokenEntries(t *testing.T) {
	ctx := context.Background()
	repo := connect(t)
	clientID := uuid.NewString()

	require.NoError(t, repo.client.RPush(ctx, key(clientID), "not json").Err())
	good := models.Flash{Category: models.FlashSuccess, Message: "ok"}
	require.NoError(t, repo.Push(ctx, clientID, good))

	flashes, err := repo.Pop(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, []models.Flash{good}, flashes)
}

func TestConnectFailsForUnreachableServer(t *testing.T) {
	_, err := Connect(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
