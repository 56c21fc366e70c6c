package main

import (
	"context"
	"log"

	"github.com/yxakbd/YxaManager/host"
	"github.com/yxakbd/YxaManager/system/keymap"
)

// stateLogger drains monitor updates and logs layer transitions, the
// daemon's only surface when no trainer is attached.
type stateLogger struct {
	updates <-chan host.State

	lastLayer keymap.Layer
	seen      bool
}

func (s *stateLogger) Serve(haltCtx context.Context) error {
	for {
		select {
		case st := <-s.updates:
			if !s.seen || st.Layer != s.lastLayer {
				log.Printf("[manager] active layer: %s\n", st.Layer)
				s.lastLayer = st.Layer
				s.seen = true
			}
		case <-haltCtx.Done():
			return nil
		}
	}
}

func (s *stateLogger) String() string {
	return "StateLogger"
}
