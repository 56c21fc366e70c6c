package util

import (
	"context"
	"time"
)

// DebounceEvent contains the last event fired to the input channel
type DebounceEvent struct {
	Counter int64
	Data    interface{}
}

// Debounce returns two channels for input and output. The output fires
// once the input has been quiet for wait, carrying the last value and
// how many were coalesced.
func Debounce(haltCtx context.Context, wait time.Duration) (noisy chan interface{}, clean chan DebounceEvent) {
	noisy = make(chan interface{})
	clean = make(chan DebounceEvent, 1) // do not block our goroutine

	go func() {
		var lastTime time.Time
		var counter int64
		var data interface{}

		tick := time.NewTicker(wait)
		defer tick.Stop()

		for {
			select {
			case data = <-noisy:
				lastTime = time.Now()
				counter++
			case <-tick.C:
				if !lastTime.IsZero() && time.Since(lastTime) > wait {
					clean <- DebounceEvent{
						Counter: counter,
						Data:    data,
					}

					lastTime = time.Time{}
					counter = 0
				}
			case <-haltCtx.Done():
				return
			}
		}
	}()

	return
}

// PassThrough has the same shape as Debounce without the delay, for
// call sites that only sometimes want coalescing.
func PassThrough(haltCtx context.Context) (noisy chan interface{}, clean chan DebounceEvent) {
	noisy = make(chan interface{})
	clean = make(chan DebounceEvent, 1)

	go func() {
		for {
			select {
			case data := <-noisy:
				clean <- DebounceEvent{
					Counter: 1,
					Data:    data,
				}
			case <-haltCtx.Done():
				return
			}
		}
	}()

	return
}
