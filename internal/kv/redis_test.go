package kv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRedis_UnreachableServerIsNotAbsent(t *testing.T) {
	// Port 1 is never a Redis server; the dial fails fast.
	r := NewRedis(RedisOptions{Addr: "127.0.0.1:1"})
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := r.Load(ctx, "realEstateAppDB")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound), "transport errors must be distinguishable from a missing key")

	assert.Error(t, r.Save(ctx, "realEstateAppDB", []byte("{}")))
}

func TestNewRedis_DefaultAddr(t *testing.T) {
	r := NewRedis(RedisOptions{Prefix: "homelist:"})
	defer r.Close()

	assert.Equal(t, "localhost:6379", r.client.Options().Addr)
	assert.Equal(t, "homelist:", r.prefix)
}
