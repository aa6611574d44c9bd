package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSuccessOutcome(t *testing.T) {
	o := Success(1500 * time.Microsecond)
	assert.True(t, o.IsSuccess())
	assert.True(t, o.HasLatency())

	ms, ok := o.LatencyMs()
	assert.True(t, ok)
	assert.InDelta(t, 1.5, ms, 1e-9)
}

func TestSuccessOutcome_NegativeLatencyClamped(t *testing.T) {
	o := Success(-time.Second)
	d, ok := o.Latency()
	assert.True(t, ok)
	assert.Equal(t, time.Duration(0), d)
}

func TestFailureOutcome_HasNoLatency(t *testing.T) {
	o := Failure()
	assert.False(t, o.IsSuccess())
	assert.False(t, o.HasLatency())

	_, ok := o.LatencyMs()
	assert.False(t, ok)
}

func TestCredential(t *testing.T) {
	c := Credential("abc")
	assert.Equal(t, "Bearer abc", c.BearerHeader())
	assert.False(t, c.IsEmpty())
	assert.True(t, Credential("").IsEmpty())
	assert.True(t, ResourceID("").IsEmpty())
}
