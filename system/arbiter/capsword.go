package arbiter

import (
	"time"

	"github.com/yxakbd/YxaManager/system/keycode"
)

// DefaultCapsWordIdle clears caps-word after this much typing silence.
const DefaultCapsWordIdle = 5 * time.Second

// CapsWord is the transient shift-like state: letters are shifted until
// an idle timeout or a non-word key ends the word.
type CapsWord struct {
	on     bool
	idle   time.Duration
	lastAt time.Duration
}

// NewCapsWord returns a caps-word flag with the given idle timeout.
// Zero selects DefaultCapsWordIdle.
func NewCapsWord(idle time.Duration) *CapsWord {
	if idle <= 0 {
		idle = DefaultCapsWordIdle
	}
	return &CapsWord{idle: idle}
}

// Active reports the flag.
func (c *CapsWord) Active() bool {
	return c.on
}

// Toggle flips the flag and returns the new state.
func (c *CapsWord) Toggle(now time.Duration) bool {
	c.on = !c.on
	c.lastAt = now
	return c.on
}

// ObservePress feeds an emitted keycode. Word keys refresh the idle
// timer; anything else ends the word. Returns whether the flag changed.
func (c *CapsWord) ObservePress(code keycode.Code, mods keycode.Modifier, now time.Duration) bool {
	if !c.on {
		return false
	}
	if keycode.ContinuesCapsWord(code, mods) {
		c.lastAt = now
		return false
	}
	c.on = false
	return true
}

// Tick clears the flag after the idle interval. Returns whether the flag
// changed.
func (c *CapsWord) Tick(now time.Duration) bool {
	if c.on && now-c.lastAt >= c.idle {
		c.on = false
		return true
	}
	return false
}
