package utils

import (
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusboard/config"
)

func useInMemorySessions(t *testing.T) {
	t.Helper()
	cfg := config.Get()
	cfg.RedisHost = ""
	config.Set(cfg)
	ResetRedis()
	t.Cleanup(ResetRedis)
}

func useMiniredisSessions(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := config.Get()
	cfg.RedisHost = mr.Host()
	cfg.RedisPort = port
	config.Set(cfg)
	ResetRedis()
	t.Cleanup(func() {
		cfg := config.Get()
		cfg.RedisHost = ""
		config.Set(cfg)
		ResetRedis()
	})
}

func TestSessionLifecycleInMemory(t *testing.T) {
	useInMemorySessions(t)

	token, err := CreateSession(7, "alice", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	data, ok := GetSession(token)
	require.True(t, ok)
	assert.Equal(t, uint(7), data.UserID)
	assert.Equal(t, "alice", data.Username)

	DeleteSession(token)
	_, ok = GetSession(token)
	assert.False(t, ok)
}

func TestSessionExpiryInMemory(t *testing.T) {
	useInMemorySessions(t)

	token, err := CreateSession(7, "alice", time.Millisecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, ok := GetSession(token)
	assert.False(t, ok)
}

func TestSessionUnknownToken(t *testing.T) {
	useInMemorySessions(t)

	_, ok := GetSession("no-such-token")
	assert.False(t, ok)
	_, ok = GetSession("")
	assert.False(t, ok)

	// Deleting an unknown token is a no-op.
	DeleteSession("no-such-token")
}

func TestSessionLifecycleRedis(t *testing.T) {
	useMiniredisSessions(t)

	token, err := CreateSession(42, "bob", time.Hour)
	require.NoError(t, err)

	data, ok := GetSession(token)
	require.True(t, ok)
	assert.Equal(t, uint(42), data.UserID)
	assert.Equal(t, "bob", data.Username)

	DeleteSession(token)
	_, ok = GetSession(token)
	assert.False(t, ok)
}

func TestSessionExpiryRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg := config.Get()
	cfg.RedisHost = mr.Host()
	cfg.RedisPort = port
	config.Set(cfg)
	ResetRedis()
	t.Cleanup(func() {
		cfg := config.Get()
		cfg.RedisHost = ""
		config.Set(cfg)
		ResetRedis()
	})

	token, err := CreateSession(42, "bob", time.Minute)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, ok := GetSession(token)
	assert.False(t, ok)
}

func TestSessionTokensAreUnique(t *testing.T) {
	useInMemorySessions(t)

	a, err := CreateSession(1, "alice", time.Hour)
	require.NoError(t, err)
	b, err := CreateSession(1, "alice", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
