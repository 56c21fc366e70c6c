package controller

import (
	"log"
	"time"

	"github.com/pkg/errors"

	"github.com/yxakbd/YxaManager/system/arbiter"
	"github.com/yxakbd/YxaManager/system/keycode"
	"github.com/yxakbd/YxaManager/system/keymap"
	"github.com/yxakbd/YxaManager/system/report"
	"github.com/yxakbd/YxaManager/system/rgb"
	"github.com/yxakbd/YxaManager/system/sideband"
)

// CoreConfig wires the firmware core to its collaborators. Reports and
// Endpoint are required; the rest may be nil.
type CoreConfig struct {
	Keymap       *keymap.Map
	DefaultLayer keymap.Layer
	Tunables     Tunables

	// Reports receives every keyboard report, in order
	Reports func(report.Report) error
	// Endpoint carries sideband frames to the host
	Endpoint sideband.Endpoint
	// LEDs receives the repainted frame once per housekeeping pass
	LEDs func([]rgb.RGB)
	// BootRequest is invoked when the boot tap dance fires
	BootRequest func()
}

// Core is the synchronous firmware pipeline: for each debounced matrix
// event, layer resolution, tap-hold arbitration, report emission and
// sideband observation, plus a housekeeping step for all timer work.
// All state is owned by the caller's loop; nothing here blocks.
type Core struct {
	keymap *keymap.Map
	layers *keymap.State
	arb    *arbiter.Arbiter
	caps   *arbiter.CapsWord
	rpt    *report.Builder
	pub    *sideband.Publisher
	ind    *rgb.Indicator

	reports func(report.Report) error
	leds    func([]rgb.RGB)
	boot    func()

	// chord emitted at press time, so the release balances the
	// modifier refcounts even after one-shot or caps-word additions
	pressChord map[keycode.Code]keycode.Modifier

	ledBuf []rgb.RGB
	ledsOn bool
}

// NewCore validates the config and assembles the pipeline.
func NewCore(cfg CoreConfig) (*Core, error) {
	if cfg.Keymap == nil {
		return nil, errors.New("[core] nil keymap is invalid")
	}
	if cfg.Reports == nil {
		return nil, errors.New("[core] nil report sink is invalid")
	}
	if cfg.Endpoint == nil {
		return nil, errors.New("[core] nil sideband endpoint is invalid")
	}

	layers, err := keymap.NewState(cfg.DefaultLayer)
	if err != nil {
		return nil, errors.Wrap(err, "[core] invalid default layer")
	}

	arb, err := arbiter.New(cfg.Tunables.arbiterConfig())
	if err != nil {
		return nil, errors.Wrap(err, "[core] invalid arbiter config")
	}

	c := &Core{
		keymap:  cfg.Keymap,
		layers:  layers,
		arb:     arb,
		caps:    arbiter.NewCapsWord(cfg.Tunables.CapsWordIdle),
		rpt:     report.NewBuilder(),
		ind:     rgb.NewIndicator(),
		reports: cfg.Reports,
		leds:    cfg.LEDs,
		boot:    cfg.BootRequest,

		pressChord: make(map[keycode.Code]keycode.Modifier),
		ledBuf:  make([]rgb.RGB, rgb.NumLEDs),
		ledsOn:  true,
	}

	c.pub, err = sideband.NewPublisher(sideband.Config{
		Endpoint:     cfg.Endpoint,
		BatchTimeout: cfg.Tunables.BatchTimeout,
		Snapshot:     c.snapshot,
	})
	if err != nil {
		return nil, errors.Wrap(err, "[core] cannot create publisher")
	}
	return c, nil
}

func (c *Core) snapshot() sideband.FullState {
	return sideband.FullState{
		Layer:    c.layers.Effective(),
		CapsWord: c.caps.Active(),
		Mods:     c.rpt.Mods(),
	}
}

// Effective returns the current effective layer.
func (c *Core) Effective() keymap.Layer {
	return c.layers.Effective()
}

// HandleEvent runs one debounced matrix event through the pipeline.
func (c *Core) HandleEvent(ev arbiter.Event) {
	var ops []arbiter.Op
	if ev.Pressed {
		act, _, ok := c.layers.Resolve(c.keymap, ev.Pos)
		if !ok {
			// fully transparent stack: consume silently but keep the
			// press/release bookkeeping alive
			act = keymap.XXX
		}
		ops = c.arb.Press(ev.Pos, act, ev.At)
	} else {
		ops = c.arb.Release(ev.Pos, ev.At)
	}
	c.apply(ops, ev.At)
}

// HandleHostFrame feeds one inbound raw HID report. Invoked on the same
// execution context as the scan loop; there is no preemption.
func (c *Core) HandleHostFrame(buf []byte) {
	c.pub.HandleHostFrame(buf)
}

// Housekeep performs the once-per-loop timer work: arbitration and
// dance timeouts, caps-word idle, one-shot expiry, change publication
// and the LED repaint.
func (c *Core) Housekeep(now time.Duration) {
	c.apply(c.arb.Tick(now), now)
	c.caps.Tick(now)
	c.rpt.Tick(now)

	c.pub.ObserveLayer(c.layers.Effective())
	c.pub.ObserveMods(c.rpt.Mods())
	c.pub.ObserveCapsWord(c.caps.Active())
	c.pub.Tick(now)

	c.paint()
}

func (c *Core) paint() {
	if c.leds == nil {
		return
	}
	if !c.ledsOn {
		for i := range c.ledBuf {
			c.ledBuf[i] = rgb.RGB{}
		}
	} else {
		c.ind.Paint(c.layers.Effective(), c.ledBuf)
	}
	c.leds(c.ledBuf)
}

func (c *Core) apply(ops []arbiter.Op, now time.Duration) {
	for _, op := range ops {
		switch op.Kind {
		case arbiter.OpKeyEvent:
			c.pub.ObserveKey(op.Pos, op.Pressed, now)

		case arbiter.OpPress:
			c.applyPress(op, now)

		case arbiter.OpRelease:
			if op.Code.Internal() {
				// the matching press never reached the report
				continue
			}
			chord := op.Mods
			if ch, ok := c.pressChord[op.Code]; ok {
				chord = ch
				delete(c.pressChord, op.Code)
			}
			c.rpt.Release(op.Code, chord)
			c.flushReport()

		case arbiter.OpOneShot:
			c.rpt.OneShot(op.Mods, now)

		case arbiter.OpModsSet:
			c.rpt.SetMods(op.Mods)
			c.flushReport()

		case arbiter.OpModsClear:
			c.rpt.ClearMods(op.Mods)
			c.flushReport()

		case arbiter.OpLayerOn:
			c.layers.Activate(op.Layer)

		case arbiter.OpLayerOff:
			c.layers.Deactivate(op.Layer)

		case arbiter.OpSetDefault:
			if err := c.layers.SetDefault(op.Layer); err != nil {
				log.Printf("[core] rejecting default layer change: %v\n", err)
			}

		case arbiter.OpBootloader:
			log.Println("[core] bootloader entry requested")
			if c.boot != nil {
				c.boot()
			}

		case arbiter.OpReplay:
			c.HandleEvent(op.Ev)
		}
	}
}

func (c *Core) applyPress(op arbiter.Op, now time.Duration) {
	code, chord := op.Code, op.Mods

	switch code {
	case keycode.CapsWordToggle:
		if c.rpt.Mods()&(keycode.ModLeftShift|keycode.ModRightShift) != 0 {
			// shift + caps-word toggle is promoted to caps lock
			c.rpt.Press(keycode.CapsLock, keycode.ModNone)
			c.flushReport()
			c.rpt.Release(keycode.CapsLock, keycode.ModNone)
			c.flushReport()
			return
		}
		c.caps.Toggle(now)
		return
	case keycode.RGBToggle:
		c.ledsOn = !c.ledsOn
		return
	}

	if code.Internal() {
		// mouse, media and RGB usages never reach the boot report
		c.caps.ObservePress(code, op.Mods, now)
		return
	}

	if !code.IsModifierKey() {
		chord |= c.rpt.ConsumeOneShot()
	}
	if c.caps.Active() && keycode.ShiftUnderCapsWord(code) {
		chord |= keycode.ModLeftShift
	}
	c.caps.ObservePress(code, op.Mods, now)

	c.pressChord[code] = chord
	c.rpt.Press(code, chord)
	c.flushReport()
}

func (c *Core) flushReport() {
	if err := c.reports(c.rpt.Report()); err != nil {
		// the host collaborator dropped the report; nothing to retry
		log.Printf("[core] report send failed: %v\n", err)
	}
}
