// Package controller runs the firmware core: it owns the single
// execution context that all matrix events, host frames and timer work
// pass through, in arrival order.
package controller

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"

	"github.com/yxakbd/YxaManager/system/arbiter"
	"github.com/yxakbd/YxaManager/system/keymap"
)

// DefaultTickInterval drives the housekeeping step. One millisecond
// matches the matrix scan cadence.
const DefaultTickInterval = time.Millisecond

// Config contains the configuration for the controller loop.
type Config struct {
	Core *Core

	// TickInterval overrides DefaultTickInterval when positive
	TickInterval time.Duration
}

// Controller pumps events into the core from a single goroutine.
// Everything downstream of the channels is free of locks; ordering is
// whatever the select delivers, which mirrors the scan loop of the
// real hardware.
type Controller struct {
	Config

	eventCh chan Event
	hostCh  chan []byte
	errorCh chan error

	epoch time.Time
}

// Event is one debounced matrix transition with its switch position.
type Event struct {
	Row, Col uint8
	Pressed  bool
}

// NewController validates conf and returns a runnable controller.
func NewController(conf Config) (*Controller, error) {
	if conf.Core == nil {
		return nil, errors.New("[controller] nil Core is invalid")
	}
	if conf.TickInterval <= 0 {
		conf.TickInterval = DefaultTickInterval
	}
	return &Controller{
		Config: conf,

		eventCh: make(chan Event, 32),
		hostCh:  make(chan []byte, 4),
		errorCh: make(chan error),
	}, nil
}

// Events returns the matrix event sink. Senders must not block; the
// channel is buffered well beyond any realistic key burst.
func (c *Controller) Events() chan<- Event {
	return c.eventCh
}

// HostFrames returns the inbound raw HID sink.
func (c *Controller) HostFrames() chan<- []byte {
	return c.hostCh
}

func (c *Controller) now() time.Duration {
	return time.Since(c.epoch)
}

// Serve starts the controller loop and blocks until context cancel.
func (c *Controller) Serve(haltCtx context.Context) error {
	log.Println("[controller] starting controller loop")

	c.epoch = time.Now()
	tick := time.NewTicker(c.TickInterval)
	defer tick.Stop()

	for {
		select {
		case ev := <-c.eventCh:
			c.Core.HandleEvent(matrixEvent(ev, c.now()))
		case buf := <-c.hostCh:
			c.Core.HandleHostFrame(buf)
		case <-tick.C:
			c.Core.Housekeep(c.now())
		case err := <-c.errorCh:
			log.Printf("[controller] unrecoverable error in controller loop: %v\n", err)
			return err
		case <-haltCtx.Done():
			log.Println("[controller] exiting controller loop")
			return nil
		}
	}
}

func (c *Controller) String() string {
	return "Controller"
}

func matrixEvent(ev Event, at time.Duration) arbiter.Event {
	return arbiter.Event{
		Pos:     keymap.Pos{Row: ev.Row, Col: ev.Col},
		Pressed: ev.Pressed,
		At:      at,
	}
}
