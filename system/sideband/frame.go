// Package sideband implements the raw HID back-channel: fixed 32-byte
// frames mirroring layer, modifier, caps-word and per-key state to a
// host companion.
package sideband

import (
	"github.com/pkg/errors"

	"github.com/yxakbd/YxaManager/system/keycode"
	"github.com/yxakbd/YxaManager/system/keymap"
)

// Raw HID endpoint parameters
const (
	FrameSize = 32

	UsagePage = 0xFF60
	UsageID   = 0x61
)

// Tag is the leading frame byte. The set is closed.
type Tag uint8

const (
	TagRequestState Tag = 0x00 // host->kbd
	TagLayerState   Tag = 0x01
	TagKeyPress     Tag = 0x02
	TagKeyRelease   Tag = 0x03
	TagCapsWord     Tag = 0x04
	TagModifier     Tag = 0x05
	TagHeartbeat    Tag = 0x06 // host->kbd
	TagFullState    Tag = 0x07
	TagKeyBatch     Tag = 0x08
)

func (t Tag) String() string {
	switch t {
	case TagRequestState:
		return "REQUEST_STATE"
	case TagLayerState:
		return "LAYER_STATE"
	case TagKeyPress:
		return "KEY_PRESS"
	case TagKeyRelease:
		return "KEY_RELEASE"
	case TagCapsWord:
		return "CAPS_WORD_STATE"
	case TagModifier:
		return "MODIFIER_STATE"
	case TagHeartbeat:
		return "HEARTBEAT"
	case TagFullState:
		return "FULL_STATE"
	case TagKeyBatch:
		return "KEY_BATCH"
	default:
		return "UNKNOWN"
	}
}

// Frame is one padded sideband report. Keyboard-to-host frames are
// independent and self-contained.
type Frame [FrameSize]byte

// Tag returns the frame type.
func (f Frame) Tag() Tag {
	return Tag(f[0])
}

// KeyEvent is one entry of a KEY_BATCH frame.
type KeyEvent struct {
	Pos     keymap.Pos
	Pressed bool
}

// MaxBatchKeys is how many (type,row,col) tuples fit a KEY_BATCH frame.
const MaxBatchKeys = (FrameSize - 2) / 3

func layerFrame(l keymap.Layer) Frame {
	var f Frame
	f[0] = byte(TagLayerState)
	f[1] = byte(l)
	return f
}

func capsWordFrame(on bool) Frame {
	var f Frame
	f[0] = byte(TagCapsWord)
	if on {
		f[1] = 1
	}
	return f
}

func modifierFrame(m keycode.Modifier) Frame {
	var f Frame
	f[0] = byte(TagModifier)
	f[1] = byte(m)
	return f
}

func batchFrame(events []KeyEvent) Frame {
	var f Frame
	f[0] = byte(TagKeyBatch)
	f[1] = byte(len(events))
	for i, ev := range events {
		off := 2 + i*3
		if ev.Pressed {
			f[off] = byte(TagKeyPress)
		} else {
			f[off] = byte(TagKeyRelease)
		}
		f[off+1] = ev.Pos.Row
		f[off+2] = ev.Pos.Col
	}
	return f
}

// FullState is the snapshot carried by a FULL_STATE frame.
type FullState struct {
	Layer        keymap.Layer
	CapsWord     bool
	Mods         keycode.Modifier
	PressedCount uint8
}

func fullStateFrame(st FullState) Frame {
	var f Frame
	f[0] = byte(TagFullState)
	f[1] = byte(st.Layer)
	if st.CapsWord {
		f[2] = 1
	}
	f[3] = byte(st.Mods)
	f[4] = st.PressedCount
	return f
}

// RequestStateFrame builds the host-side snapshot request.
func RequestStateFrame() Frame {
	var f Frame
	f[0] = byte(TagRequestState)
	return f
}

// HeartbeatFrame builds the host-side liveness probe.
func HeartbeatFrame() Frame {
	var f Frame
	f[0] = byte(TagHeartbeat)
	return f
}

// Message is one decoded keyboard-to-host frame, host side.
type Message struct {
	Tag      Tag
	Layer    keymap.Layer
	CapsWord bool
	Mods     keycode.Modifier
	Full     FullState
	Keys     []KeyEvent
}

// Decode parses a keyboard-to-host frame. Unknown tags are an error the
// caller is expected to ignore silently.
func Decode(buf []byte) (Message, error) {
	if len(buf) < FrameSize {
		return Message{}, errors.Errorf("[sideband] short frame: %d bytes", len(buf))
	}
	m := Message{Tag: Tag(buf[0])}
	switch m.Tag {
	case TagLayerState:
		m.Layer = keymap.Layer(buf[1])
	case TagKeyPress, TagKeyRelease:
		m.Keys = []KeyEvent{{
			Pos:     keymap.Pos{Row: buf[1], Col: buf[2]},
			Pressed: m.Tag == TagKeyPress,
		}}
	case TagCapsWord:
		m.CapsWord = buf[1] != 0
	case TagModifier:
		m.Mods = keycode.Modifier(buf[1])
	case TagFullState:
		m.Full = FullState{
			Layer:        keymap.Layer(buf[1]),
			CapsWord:     buf[2] != 0,
			Mods:         keycode.Modifier(buf[3]),
			PressedCount: buf[4],
		}
	case TagKeyBatch:
		n := int(buf[1])
		if n > MaxBatchKeys {
			return Message{}, errors.Errorf("[sideband] batch count %d out of range", n)
		}
		for i := 0; i < n; i++ {
			off := 2 + i*3
			m.Keys = append(m.Keys, KeyEvent{
				Pos:     keymap.Pos{Row: buf[off+1], Col: buf[off+2]},
				Pressed: Tag(buf[off]) == TagKeyPress,
			})
		}
	default:
		return Message{}, errors.Errorf("[sideband] unknown tag %#02x", buf[0])
	}
	return m, nil
}
