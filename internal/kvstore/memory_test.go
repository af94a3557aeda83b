package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "k", "v", 10*time.Millisecond))

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	time.Sleep(20 * time.Millisecond)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDeleteByPattern(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "content:list:page=1", "a", 0))
	require.NoError(t, store.Set(ctx, "content:list:page=2", "b", 0))
	require.NoError(t, store.Set(ctx, "content:a1", "c", 0))

	require.NoError(t, store.DeleteByPattern(ctx, "content:list:*"))

	assert.ElementsMatch(t, []string{"content:a1"}, store.Keys())
}

func TestMemoryStorePubSub(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sub, err := store.Subscribe(ctx, "notifications")
	require.NoError(t, err)

	require.NoError(t, store.Publish(ctx, "notifications", "hello"))
	require.NoError(t, store.Publish(ctx, "other-channel", "ignored"))

	select {
	case msg := <-sub.Messages():
		assert.Equal(t, "hello", msg)
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}

	require.NoError(t, sub.Close())
	_, open := <-sub.Messages()
	assert.False(t, open)

	// publishing after the subscriber left is a no-op
	require.NoError(t, store.Publish(ctx, "notifications", "late"))
}

func TestMemoryStoreCloseEndsSubscriptions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sub, err := store.Subscribe(ctx, "notifications")
	require.NoError(t, err)

	require.NoError(t, store.Close())
	_, open := <-sub.Messages()
	assert.False(t, open)

	// both sides closing is safe in either order
	require.NoError(t, sub.Close())
	require.NoError(t, store.Close())
}
