package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/shiftwise/scheduler/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRedisHook short-circuits every command with a fixed error, so tests
// never touch the network.
type stubRedisHook struct {
	err error
}

func (h stubRedisHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h stubRedisHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		cmd.SetErr(h.err)
		return h.err
	}
}

func (h stubRedisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		return h.err
	}
}

func newOTPHandler(t *testing.T, redisErr error) *Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.Redis.OperationTimeout = 1

	rdb := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	rdb.AddHook(stubRedisHook{err: redisErr})
	t.Cleanup(func() {
		rdb.Close()
	})

	h, err := NewHandler(cfg, nil, nil, rdb)
	require.NoError(t, err)
	return h
}

func TestCheckOTPMissingCodeIsNotAnError(t *testing.T) {
	h := newOTPHandler(t, redis.Nil)

	ok, err := h.checkOTP(context.Background(), "grace@example.com", "reset_password", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckOTPSurfacesRedisOutage(t *testing.T) {
	outage := errors.New("connection refused")
	h := newOTPHandler(t, outage)

	_, err := h.checkOTP(context.Background(), "grace@example.com", "reset_password", "123456")
	assert.ErrorIs(t, err, outage)
}
