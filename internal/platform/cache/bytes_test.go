package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestBytesRoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	b := NewBytes(client, time.Minute)
	ctx := context.Background()

	_, ok, err := b.Get(ctx, "label:missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, b.Set(ctx, "label:1", []byte("%PDF-1.4")))
	data, ok, err := b.Get(ctx, "label:1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("%PDF-1.4"), data)
}

func TestBytesNilSafe(t *testing.T) {
	var b *Bytes
	ctx := context.Background()
	require.NoError(t, b.Set(ctx, "k", []byte("v")))
	_, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}
