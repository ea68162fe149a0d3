package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errBoom = errors.New("boom")

func TestBreakerOpensAfterMaxFailures(t *testing.T) {
	b := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		err := b.Execute(func() error { return errBoom })
		assert.ErrorIs(t, err, errBoom)
	}
	assert.Equal(t, StateOpen, b.State())

	err := b.Execute(func() error { return nil })
	assert.ErrorIs(t, err, ErrOpen)
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := New(2, time.Minute)

	assert.Error(t, b.Execute(func() error { return errBoom }))
	assert.NoError(t, b.Execute(func() error { return nil }))
	assert.Error(t, b.Execute(func() error { return errBoom }))

	// one failure after a success is below the threshold
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	b := New(1, 10*time.Millisecond)

	assert.Error(t, b.Execute(func() error { return errBoom }))
	assert.Equal(t, StateOpen, b.State())

	time.Sleep(20 * time.Millisecond)

	// probe fails: straight back to open
	assert.ErrorIs(t, b.Execute(func() error { return errBoom }), errBoom)
	assert.Equal(t, StateOpen, b.State())

	time.Sleep(20 * time.Millisecond)

	// probe succeeds: closed again
	assert.NoError(t, b.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, b.State())
}
