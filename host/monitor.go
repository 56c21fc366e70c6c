// Package host implements the companion side of the sideband channel:
// it finds the keyboard's raw HID interface, mirrors the broadcast
// state and keeps the link alive with heartbeats.
package host

import (
	"context"
	"log"
	"time"

	"github.com/karalabe/usb"
	"github.com/pkg/errors"

	"github.com/yxakbd/YxaManager/system/keycode"
	"github.com/yxakbd/YxaManager/system/keymap"
	"github.com/yxakbd/YxaManager/system/sideband"
)

// DefaultHeartbeatInterval keeps the keyboard's host-presence view warm.
const DefaultHeartbeatInterval = time.Second

// State is the mirrored keyboard state, rebuilt from sideband frames.
type State struct {
	Layer    keymap.Layer
	CapsWord bool
	Mods     keycode.Modifier
	Pressed  map[keymap.Pos]bool
}

func (s State) clone() State {
	c := s
	c.Pressed = make(map[keymap.Pos]bool, len(s.Pressed))
	for p := range s.Pressed {
		c.Pressed[p] = true
	}
	return c
}

// Config contains the configuration for the monitor.
type Config struct {
	VendorID  uint16
	ProductID uint16

	// Updates receives a state copy after every applied frame
	Updates chan<- State

	HeartbeatInterval time.Duration
}

// Monitor owns one open raw HID device and the mirrored state.
type Monitor struct {
	Config

	frameCh chan []byte
	errorCh chan error

	state State
}

// NewMonitor validates conf and returns a runnable monitor.
func NewMonitor(conf Config) (*Monitor, error) {
	if conf.Updates == nil {
		return nil, errors.New("[host] nil updates channel is invalid")
	}
	if conf.VendorID == 0 {
		conf.VendorID = keycode.VendorID
		conf.ProductID = keycode.ProductID
	}
	if conf.HeartbeatInterval <= 0 {
		conf.HeartbeatInterval = DefaultHeartbeatInterval
	}
	return &Monitor{
		Config: conf,

		frameCh: make(chan []byte, 8),
		errorCh: make(chan error),

		state: State{Pressed: make(map[keymap.Pos]bool)},
	}, nil
}

func (m *Monitor) open() (usb.Device, error) {
	devices, err := usb.EnumerateHid(m.VendorID, m.ProductID)
	if err != nil {
		return nil, errors.Wrap(err, "[host] cannot enumerate hid devices")
	}
	for _, device := range devices {
		if device.UsagePage != sideband.UsagePage || device.Usage != sideband.UsageID {
			continue
		}
		d, err := device.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "[host] cannot open %s", device.Path)
		}
		log.Printf("[host] opened raw hid interface: %s\n", device.Path)
		return d, nil
	}
	return nil, errors.New("[host] no raw hid interface found")
}

func (m *Monitor) readDevice(haltCtx context.Context, dev usb.Device) {
	for {
		select {
		case <-haltCtx.Done():
			return
		default:
		}
		buf := make([]byte, sideband.FrameSize)
		n, err := dev.Read(buf)
		if err != nil {
			select {
			case m.errorCh <- errors.Wrap(err, "[host] read error"):
			case <-haltCtx.Done():
			}
			return
		}
		if n == 0 {
			continue
		}
		select {
		case m.frameCh <- buf[:n]:
		case <-haltCtx.Done():
			return
		}
	}
}

func (m *Monitor) apply(buf []byte) bool {
	msg, err := sideband.Decode(buf)
	if err != nil {
		// unknown or short frame from a newer firmware, skip it
		return false
	}
	switch msg.Tag {
	case sideband.TagLayerState:
		m.state.Layer = msg.Layer
	case sideband.TagCapsWord:
		m.state.CapsWord = msg.CapsWord
	case sideband.TagModifier:
		m.state.Mods = msg.Mods
	case sideband.TagFullState:
		m.state.Layer = msg.Full.Layer
		m.state.CapsWord = msg.Full.CapsWord
		m.state.Mods = msg.Full.Mods
		// per-key detail is not in the snapshot, start over
		m.state.Pressed = make(map[keymap.Pos]bool)
	case sideband.TagKeyPress, sideband.TagKeyRelease, sideband.TagKeyBatch:
		for _, ev := range msg.Keys {
			if ev.Pressed {
				m.state.Pressed[ev.Pos] = true
			} else {
				delete(m.state.Pressed, ev.Pos)
			}
		}
	default:
		return false
	}
	return true
}

// Serve opens the device and mirrors its state until context cancel.
func (m *Monitor) Serve(haltCtx context.Context) error {
	dev, err := m.open()
	if err != nil {
		return err
	}
	defer dev.Close()

	go m.readDevice(haltCtx, dev)

	req := sideband.RequestStateFrame()
	if _, err := dev.Write(req[:]); err != nil {
		return errors.Wrap(err, "[host] cannot request state")
	}

	heartbeat := time.NewTicker(m.HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case buf := <-m.frameCh:
			if m.apply(buf) {
				select {
				case m.Updates <- m.state.clone():
				default:
					// slow consumer, drop the intermediate snapshot
				}
			}
		case <-heartbeat.C:
			hb := sideband.HeartbeatFrame()
			if _, err := dev.Write(hb[:]); err != nil {
				return errors.Wrap(err, "[host] heartbeat failed")
			}
		case err := <-m.errorCh:
			return err
		case <-haltCtx.Done():
			log.Println("[host] exiting monitor loop")
			return nil
		}
	}
}

func (m *Monitor) String() string {
	return "HostMonitor"
}
