package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebounceCoalescesBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	noisy, clean := Debounce(ctx, 50*time.Millisecond)

	for i := 0; i < 5; i++ {
		noisy <- i
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case ev := <-clean:
		require.Equal(t, int64(5), ev.Counter)
		require.Equal(t, 4, ev.Data, "last value wins")
	case <-time.After(time.Second):
		t.Fatal("debounced event never fired")
	}
}

func TestDebounceSeparateBursts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	noisy, clean := Debounce(ctx, 30*time.Millisecond)

	noisy <- "first"
	ev := <-clean
	require.Equal(t, int64(1), ev.Counter)
	require.Equal(t, "first", ev.Data)

	noisy <- "second"
	ev = <-clean
	require.Equal(t, int64(1), ev.Counter)
	require.Equal(t, "second", ev.Data)
}

func TestDebounceStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	noisy, clean := Debounce(ctx, 20*time.Millisecond)
	noisy <- "pending"
	cancel()

	// a flush racing the cancel is acceptable, anything after is not
	select {
	case ev := <-clean:
		require.Equal(t, "pending", ev.Data)
	case <-time.After(100 * time.Millisecond):
	}

	select {
	case noisy <- "after cancel":
		t.Fatal("input still consumed after cancel")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPassThrough(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	noisy, clean := PassThrough(ctx)

	for i := 0; i < 3; i++ {
		noisy <- i
		ev := <-clean
		require.Equal(t, int64(1), ev.Counter)
		require.Equal(t, i, ev.Data)
	}
}
