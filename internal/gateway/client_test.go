package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRegistryAddRemove(t *testing.T) {
	reg := NewClientRegistry()
	assert.Equal(t, 0, reg.Count())

	c := &Client{ConnID: "c1", Info: ClientInfo{ID: "test"}, ConnectedAt: time.Now()}
	reg.Add(c)
	assert.Equal(t, 1, reg.Count())

	got, ok := reg.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "test", got.Info.ID)

	reg.Remove("c1")
	assert.Equal(t, 0, reg.Count())
	_, ok = reg.Get("c1")
	assert.False(t, ok)
}

func TestClientRegistryRemoveUnknownIsNoop(t *testing.T) {
	reg := NewClientRegistry()
	reg.Remove("nope")
	assert.Equal(t, 0, reg.Count())
}

func TestAuthRateLimiterBlocksAfterFailures(t *testing.T) {
	l := newAuthRateLimiter()
	ip := "10.0.0.1"

	for i := 0; i < maxAuthFailures; i++ {
		assert.False(t, l.blocked(ip))
		l.recordFailure(ip)
	}
	assert.True(t, l.blocked(ip))

	// Other IPs are unaffected.
	assert.False(t, l.blocked("10.0.0.2"))

	// Success clears the slate.
	l.recordSuccess(ip)
	assert.False(t, l.blocked(ip))
}
