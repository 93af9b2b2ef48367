package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowBurst(t *testing.T) {
	l := NewDynamicRateLimiter(time.Hour, 2)

	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
}

func TestUpdate(t *testing.T) {
	l := NewDynamicRateLimiter(time.Hour, 1)
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())

	l.Update(0, 1)
	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
}

func TestWaitHonoursContext(t *testing.T) {
	l := NewDynamicRateLimiter(time.Hour, 1)
	assert.True(t, l.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.Error(t, l.Wait(ctx))
}

func TestDisabled(t *testing.T) {
	l := NewDynamicRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow())
	}
}
