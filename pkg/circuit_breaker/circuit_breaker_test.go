package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-management/pkg/circuit_breaker"
)

func Test_circuitBreaker_Call(t *testing.T) {
	t.Parallel()
	errService := errors.New("service error")
	ok := func() error { return nil }
	fail := func() error { return errService }

	cb := circuit_breaker.New(10, 50*time.Millisecond, 0.3, 2)
	for i := 0; i < 20; i++ {
		require.NoError(t, cb.Call(ok))
	}
	require.Equal(t, circuit_breaker.Closed, cb.State())

	// 3 failures out of 10 reach the 30% threshold
	for i := 0; i < 3; i++ {
		require.ErrorIs(t, cb.Call(fail), errService)
	}
	require.Equal(t, circuit_breaker.Open, cb.State())
	require.ErrorIs(t, cb.Call(ok), circuit_breaker.ErrOpenCB)

	time.Sleep(80 * time.Millisecond)
	// probe fails: back to open
	require.ErrorIs(t, cb.Call(fail), errService)
	require.Equal(t, circuit_breaker.Open, cb.State())

	time.Sleep(80 * time.Millisecond)
	require.NoError(t, cb.Call(ok))
	require.Equal(t, circuit_breaker.HalfOpen, cb.State())
	require.NoError(t, cb.Call(ok))
	require.Equal(t, circuit_breaker.Closed, cb.State())
}

func Test_circuitBreaker_Reset(t *testing.T) {
	t.Parallel()
	cb := circuit_breaker.New(2, time.Hour, 0.5, 1)
	_ = cb.Call(func() error { return errors.New("boom") })
	require.Equal(t, circuit_breaker.Open, cb.State())
	cb.Reset()
	require.Equal(t, circuit_breaker.Closed, cb.State())
	require.NoError(t, cb.Call(func() error { return nil }))
}
