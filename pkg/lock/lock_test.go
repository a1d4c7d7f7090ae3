package lock

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func exerciseMutualExclusion(t *testing.T, l Locker, key string) {
	t.Helper()

	var (
		inside  int32
		maxSeen int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), key)
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			if n > atomic.LoadInt32(&maxSeen) {
				atomic.StoreInt32(&maxSeen, n)
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxSeen))
}

func TestLocalLocker_MutualExclusion(t *testing.T) {
	l := NewLocalLocker()
	assert.False(t, l.Distributed())
	exerciseMutualExclusion(t, l, "Concert")
}

func TestLocalLocker_KeysAreIndependent(t *testing.T) {
	l := NewLocalLocker()

	unlockA, err := l.Lock(context.Background(), "A")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := l.Lock(ctx, "B")
	require.NoError(t, err)
	unlockB()
}

func TestLocalLocker_HonoursContext(t *testing.T) {
	l := NewLocalLocker()

	unlock, err := l.Lock(context.Background(), "Concert")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "Concert")
	assert.ErrorIs(t, err, ErrNotAcquired)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()

	again, err := l.Lock(context.Background(), "Concert")
	require.NoError(t, err)
	again()
}

func TestRedisLocker_Integration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	l := NewRedisLocker(client, 5*time.Second, 2*time.Second, zap.NewNop())
	assert.True(t, l.Distributed())

	key := "test-" + time.Now().Format("150405.000000")
	exerciseMutualExclusion(t, l, key)

	unlock, err := l.Lock(context.Background(), key)
	require.NoError(t, err)

	short := NewRedisLocker(client, 5*time.Second, 50*time.Millisecond, zap.NewNop())
	_, err = short.Lock(context.Background(), key)
	assert.ErrorIs(t, err, ErrNotAcquired)

	unlock()
	exists, err := client.Exists(context.Background(), keyPrefix+key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)
}

func TestLocalLocker_DropsIdleSlots(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "Concert")
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(waitCtx, "Concert")
	assert.ErrorIs(t, err, ErrNotAcquired)
	assert.Equal(t, 1, l.Len())

	unlock()
	unlock()
	assert.Equal(t, 0, l.Len())

	for _, title := range []string{"A", "B", "C"} {
		u, err := l.Lock(ctx, title)
		require.NoError(t, err)
		u()
	}
	assert.Equal(t, 0, l.Len())
}
