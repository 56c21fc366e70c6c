package sideband

import (
	"time"

	"github.com/pkg/errors"

	"github.com/yxakbd/YxaManager/system/keycode"
	"github.com/yxakbd/YxaManager/system/keymap"
)

// Publication tunables
const (
	// MaxTracked bounds the dedup set; overflow drops the oldest entry
	MaxTracked = 10
	// MaxBatchEvents flushes a release batch when full
	MaxBatchEvents = 8
	// DefaultBatchTimeout flushes a release batch on age
	DefaultBatchTimeout = 2 * time.Millisecond
)

// Endpoint sends one frame on the raw HID interrupt endpoint. It must
// not block; an error means the frame was dropped and the host will
// reconcile on its next heartbeat.
type Endpoint interface {
	Send(f Frame) error
}

// Config wires a publisher.
type Config struct {
	Endpoint Endpoint
	// Snapshot supplies the current full state for host requests
	Snapshot func() FullState
	// BatchTimeout defaults to DefaultBatchTimeout when zero
	BatchTimeout time.Duration
}

// Publisher batches, deduplicates and publishes state transitions as
// sideband frames. All methods are called from the owning loop; the
// publisher never blocks and never queues beyond one pending batch.
type Publisher struct {
	ep           Endpoint
	snapshot     func() FullState
	batchTimeout time.Duration

	// last published value per channel; -1 means never published
	lastLayer int16
	lastMods  int16
	lastCaps  int8

	tracked []keymap.Pos

	batch   []KeyEvent
	batchAt time.Duration
}

// NewPublisher validates the config and returns a publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	if cfg.Endpoint == nil {
		return nil, errors.New("[sideband] nil endpoint is invalid")
	}
	if cfg.Snapshot == nil {
		return nil, errors.New("[sideband] nil snapshot func is invalid")
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = DefaultBatchTimeout
	}
	return &Publisher{
		ep:           cfg.Endpoint,
		snapshot:     cfg.Snapshot,
		batchTimeout: cfg.BatchTimeout,
		lastLayer:    -1,
		lastMods:     -1,
		lastCaps:     -1,
		tracked:      make([]keymap.Pos, 0, MaxTracked),
		batch:        make([]KeyEvent, 0, MaxBatchEvents),
	}, nil
}

// send drops the frame on endpoint failure; the channel is best effort.
func (p *Publisher) send(f Frame) {
	_ = p.ep.Send(f)
}

// ObserveLayer publishes the effective layer if it changed.
func (p *Publisher) ObserveLayer(l keymap.Layer) {
	if int16(l) == p.lastLayer {
		return
	}
	p.lastLayer = int16(l)
	p.send(layerFrame(l))
}

// ObserveMods publishes the modifier snapshot if it changed.
func (p *Publisher) ObserveMods(m keycode.Modifier) {
	if int16(m) == p.lastMods {
		return
	}
	p.lastMods = int16(m)
	p.send(modifierFrame(m))
}

// ObserveCapsWord publishes the caps-word flag if it changed.
func (p *Publisher) ObserveCapsWord(on bool) {
	v := int8(0)
	if on {
		v = 1
	}
	if v == p.lastCaps {
		return
	}
	p.lastCaps = v
	p.send(capsWordFrame(on))
}

func (p *Publisher) trackedIdx(pos keymap.Pos) int {
	for i, t := range p.tracked {
		if t == pos {
			return i
		}
	}
	return -1
}

// ObserveKey feeds a post-arbitration key transition. Duplicate presses
// and unmatched releases are suppressed, so a second notification for
// the same resolution is harmless. Presses flush immediately; releases
// coalesce into a batch.
func (p *Publisher) ObserveKey(pos keymap.Pos, pressed bool, now time.Duration) {
	idx := p.trackedIdx(pos)
	if pressed {
		if idx >= 0 {
			return // host already sees it down
		}
		if len(p.tracked) >= MaxTracked {
			// drop the oldest; heartbeat reconciles the miss
			p.tracked = append(p.tracked[:0], p.tracked[1:]...)
		}
		p.tracked = append(p.tracked, pos)

		// keep per-key alternation: pending releases go first
		p.flushBatch()
		p.send(batchFrame([]KeyEvent{{Pos: pos, Pressed: true}}))
		return
	}

	if idx < 0 {
		return // host never saw the press
	}
	p.tracked = append(p.tracked[:idx], p.tracked[idx+1:]...)

	if len(p.batch) == 0 {
		p.batchAt = now
	}
	p.batch = append(p.batch, KeyEvent{Pos: pos, Pressed: false})
	if len(p.batch) >= MaxBatchEvents {
		p.flushBatch()
	}
}

// Tick flushes an aged release batch. Called from housekeeping.
func (p *Publisher) Tick(now time.Duration) {
	if len(p.batch) > 0 && now-p.batchAt >= p.batchTimeout {
		p.flushBatch()
	}
}

func (p *Publisher) flushBatch() {
	if len(p.batch) == 0 {
		return
	}
	p.send(batchFrame(p.batch))
	p.batch = p.batch[:0]
}

// TrackedCount returns how many keys the host currently sees pressed.
func (p *Publisher) TrackedCount() int {
	return len(p.tracked)
}

// HandleHostFrame processes one host-to-keyboard report. State requests
// and heartbeats are answered with a FULL_STATE snapshot; unknown tags
// are ignored without a reply.
func (p *Publisher) HandleHostFrame(buf []byte) {
	if len(buf) < 1 {
		return
	}
	switch Tag(buf[0]) {
	case TagRequestState, TagHeartbeat:
		st := p.snapshot()
		st.PressedCount = uint8(len(p.tracked))
		p.send(fullStateFrame(st))
	default:
		// observational channel: nothing else is actionable
	}
}
