// Package client implements the trainer TUI: a live view of the
// keyboard's layer, modifier and per-key state as mirrored over the
// sideband channel.
package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/yxakbd/YxaManager/system/keycode"
	"github.com/yxakbd/YxaManager/system/keymap"
	"github.com/yxakbd/YxaManager/system/rgb"
	"github.com/yxakbd/YxaManager/util"

	"github.com/yxakbd/YxaManager/host"
)

const cellWidth = 6

// redrawWait coalesces bursts of sideband updates into one draw
const redrawWait = time.Millisecond * 16

// Trainer renders the mirrored keyboard state.
type Trainer struct {
	keymap *keymap.Map
	ind    *rgb.Indicator

	updates <-chan host.State

	ctx      context.Context
	cancelFn context.CancelFunc

	app   *tview.Application
	frame *tview.Frame

	container  *tview.Flex
	statusView *tview.TextView
	gridView   *tview.TextView
	infoView   *tview.TextView

	state host.State
}

// NewTrainer builds the interface around a keymap and an update feed.
func NewTrainer(m *keymap.Map, updates <-chan host.State) *Trainer {
	return &Trainer{
		keymap:  m,
		ind:     rgb.NewIndicator(),
		updates: updates,

		app:        tview.NewApplication(),
		container:  tview.NewFlex(),
		statusView: tview.NewTextView(),
		gridView:   tview.NewTextView(),
		infoView:   tview.NewTextView(),
	}
}

func (t *Trainer) setup() {
	t.statusView.SetDynamicColors(true).SetTextAlign(tview.AlignCenter)
	t.gridView.SetDynamicColors(true).SetTextAlign(tview.AlignCenter)
	t.infoView.SetDynamicColors(true)

	t.statusView.Box.SetBorder(true).SetTitle(" State ")
	t.gridView.Box.SetBorder(true).SetTitle(" Keymap ")
	t.infoView.Box.SetBorder(true).SetTitle(" Information ")

	t.container.SetDirection(tview.FlexRow).
		AddItem(t.statusView, 4, 0, false).
		AddItem(t.gridView, 0, 8, false).
		AddItem(t.infoView, 4, 0, false)

	t.infoView.SetText("Press (Q) to quit\nColors follow the per-key LEDs, highlight marks held keys")

	t.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && (event.Rune() == 'q' || event.Rune() == 'Q') {
			t.cancelFn()
			return nil
		}
		return event
	})

	t.frame = tview.NewFrame(t.container).
		AddText("YxaManager Trainer", true, tview.AlignCenter, tcell.ColorWhite)

	t.app.SetRoot(t.frame, true)
}

func tviewColor(c rgb.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (t *Trainer) cellColor(st host.State, p keymap.Pos) tcell.Color {
	led := rgb.LEDIndex(p)
	if led < 0 {
		return tcell.ColorGray
	}
	var buf [rgb.NumLEDs]rgb.RGB
	t.ind.Paint(st.Layer, buf[:])
	return tviewColor(buf[led])
}

func label(a keymap.Action) string {
	var s string
	switch a.Kind {
	case keymap.KindKey, keymap.KindModTap, keymap.KindLayerTap:
		s = a.Code.String()
	case keymap.KindMomentary:
		s = a.Layer.String()
	case keymap.KindOneShot:
		s = "OS" + modNames(a.Mods)
	case keymap.KindTapDance:
		s = "dance"
	default:
		s = ""
	}
	if len(s) > cellWidth-1 {
		s = s[:cellWidth-1]
	}
	return s
}

func pad(s string) string {
	if len(s) >= cellWidth {
		return s
	}
	left := (cellWidth - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", cellWidth-len(s)-left)
}

func (t *Trainer) cell(st host.State, p keymap.Pos) string {
	act := t.keymap.At(st.Layer, p)
	if act.Kind == keymap.KindBlocked {
		return strings.Repeat(" ", cellWidth) + " "
	}
	color := t.cellColor(st, p)
	if st.Pressed[p] {
		return fmt.Sprintf("[black:#%06x]%s[-:-] ", color.Hex(), pad(label(act)))
	}
	return fmt.Sprintf("[#%06x]%s[-] ", color.Hex(), pad(label(act)))
}

func (t *Trainer) renderGrid(st host.State) string {
	var b strings.Builder
	for row := uint8(0); row < 4; row++ {
		b.WriteString("\n")
		for col := uint8(0); col < keymap.Cols; col++ {
			b.WriteString(t.cell(st, keymap.Pos{Row: row, Col: col}))
		}
		b.WriteString("   ")
		for col := uint8(0); col < keymap.Cols; col++ {
			b.WriteString(t.cell(st, keymap.Pos{Row: row + 4, Col: col}))
		}
	}
	return b.String()
}

func modNames(m keycode.Modifier) string {
	if m == keycode.ModNone {
		return "none"
	}
	var parts []string
	for _, e := range []struct {
		bit  keycode.Modifier
		name string
	}{
		{keycode.ModLeftCtrl, "LCtrl"},
		{keycode.ModLeftShift, "LShift"},
		{keycode.ModLeftAlt, "LAlt"},
		{keycode.ModLeftGui, "LGui"},
		{keycode.ModRightCtrl, "RCtrl"},
		{keycode.ModRightShift, "RShift"},
		{keycode.ModRightAlt, "RAlt"},
		{keycode.ModRightGui, "RGui"},
	} {
		if m&e.bit != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "+")
}

// redraw takes the state by value: it runs on the tview draw goroutine
// while the select loop keeps receiving updates.
func (t *Trainer) redraw(st host.State) {
	caps := ""
	if st.CapsWord {
		caps = "  [yellow]CAPS WORD[-]"
	}
	t.statusView.SetText(fmt.Sprintf("Layer: [::b]%s[::-]%s\nModifiers: %s   Held keys: %d",
		st.Layer, caps, modNames(st.Mods), len(st.Pressed)))
	t.gridView.SetText(t.renderGrid(st))
}

// Serve runs the interface until quit or context cancel.
func (t *Trainer) Serve(haltCtx context.Context) error {
	t.ctx, t.cancelFn = context.WithCancel(haltCtx)
	defer t.cancelFn()

	t.setup()
	t.redraw(t.state)

	redrawIn, redrawOut := util.Debounce(t.ctx, redrawWait)

	go func() {
		for {
			select {
			case st := <-t.updates:
				t.state = st
				redrawIn <- struct{}{}
			case <-redrawOut:
				st := t.state
				t.app.QueueUpdateDraw(func() { t.redraw(st) })
			case <-t.ctx.Done():
				return
			}
		}
	}()

	go func() {
		t.app.Run()
		t.cancelFn()
	}()

	<-t.ctx.Done()
	t.app.Stop()
	return nil
}

func (t *Trainer) String() string {
	return "Trainer"
}
