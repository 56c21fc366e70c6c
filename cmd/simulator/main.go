package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/yxakbd/YxaManager/controller"
	"github.com/yxakbd/YxaManager/system/arbiter"
	"github.com/yxakbd/YxaManager/system/keycode"
	"github.com/yxakbd/YxaManager/system/keymap"
	"github.com/yxakbd/YxaManager/system/report"
	"github.com/yxakbd/YxaManager/system/sideband"
	"github.com/yxakbd/YxaManager/util"
)

// demoScript is played when no script file is given: a tap, a held
// home-row mod, and a NAV layer excursion.
const demoScript = `
# tap Q
press 0 1
wait 30
release 0 1
wait 100
# hold the A mod-tap past the tapping term
press 0 0
wait 250
press 1 2
wait 30
release 1 2
release 0 0
wait 100
# NAV layer from the left thumb
press 3 3
wait 250
press 5 1
wait 30
release 5 1
release 3 3
`

type step struct {
	at time.Duration
	ev controller.Event
}

func parseScript(r *bufio.Scanner) ([]step, time.Duration, error) {
	var steps []step
	var clock time.Duration
	line := 0
	for r.Scan() {
		line++
		fields := strings.Fields(r.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "wait":
			if len(fields) != 2 {
				return nil, 0, errors.Errorf("line %d: wait takes milliseconds", line)
			}
			ms, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, 0, errors.Wrapf(err, "line %d", line)
			}
			clock += time.Duration(ms) * time.Millisecond
		case "press", "release":
			if len(fields) != 3 {
				return nil, 0, errors.Errorf("line %d: %s takes row and col", line, fields[0])
			}
			row, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, 0, errors.Wrapf(err, "line %d", line)
			}
			col, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, 0, errors.Wrapf(err, "line %d", line)
			}
			steps = append(steps, step{
				at: clock,
				ev: controller.Event{
					Row:     uint8(row),
					Col:     uint8(col),
					Pressed: fields[0] == "press",
				},
			})
		default:
			return nil, 0, errors.Errorf("line %d: unknown directive %q", line, fields[0])
		}
	}
	return steps, clock, r.Err()
}

// consoleEndpoint prints every sideband frame the firmware would send.
type consoleEndpoint struct{}

func (consoleEndpoint) Send(f sideband.Frame) error {
	msg, err := sideband.Decode(f[:])
	if err != nil {
		return nil
	}
	switch msg.Tag {
	case sideband.TagLayerState:
		fmt.Printf("sideband: %s %s\n", msg.Tag, msg.Layer)
	case sideband.TagCapsWord:
		fmt.Printf("sideband: %s %t\n", msg.Tag, msg.CapsWord)
	case sideband.TagModifier:
		fmt.Printf("sideband: %s %08b\n", msg.Tag, msg.Mods)
	case sideband.TagKeyBatch:
		var parts []string
		for _, ev := range msg.Keys {
			dir := "up"
			if ev.Pressed {
				dir = "down"
			}
			parts = append(parts, fmt.Sprintf("(%d,%d)%s", ev.Pos.Row, ev.Pos.Col, dir))
		}
		fmt.Printf("sideband: %s %s\n", msg.Tag, strings.Join(parts, " "))
	default:
		fmt.Printf("sideband: %s\n", msg.Tag)
	}
	return nil
}

func printReport(r report.Report) error {
	var parts []string
	for _, c := range r.Keys() {
		parts = append(parts, c.String())
	}
	fmt.Printf("report: mods=%08b keys=[%s]\n", r.Mods(), strings.Join(parts, " "))
	return nil
}

func main() {
	var scripts util.ArrayFlags
	flag.Var(&scripts, "script", "event script, repeatable to play several in sequence; omit for the built-in demo")
	idiom := flag.String("clipboard", "x11", "clipboard idiom: x11, mac or win")
	flag.Parse()

	var clip keycode.ClipboardIdiom
	switch *idiom {
	case "x11":
		clip = keycode.ClipboardX11
	case "mac":
		clip = keycode.ClipboardMac
	case "win":
		clip = keycode.ClipboardWin
	default:
		log.Fatalf("[simulator] unknown clipboard idiom %q\n", *idiom)
	}

	var steps []step
	var end time.Duration
	if len(scripts) == 0 {
		var err error
		steps, end, err = parseScript(bufio.NewScanner(strings.NewReader(demoScript)))
		if err != nil {
			log.Fatalf("[simulator] cannot parse demo script: %+v\n", err)
		}
	}
	for _, path := range scripts {
		f, err := os.Open(path)
		if err != nil {
			log.Fatalf("[simulator] cannot open script: %+v\n", err)
		}
		part, clock, err := parseScript(bufio.NewScanner(f))
		f.Close()
		if err != nil {
			log.Fatalf("[simulator] cannot parse %s: %+v\n", path, err)
		}
		for _, st := range part {
			st.at += end
			steps = append(steps, st)
		}
		end += clock
	}

	tunables := controller.DefaultTunables()
	tunables.Clipboard = clip
	core, err := controller.NewCore(controller.CoreConfig{
		Keymap:   keymap.Miryoku(clip),
		Tunables: tunables,
		Reports:  printReport,
		Endpoint: consoleEndpoint{},
		BootRequest: func() {
			fmt.Println("bootloader: entry requested")
		},
	})
	if err != nil {
		log.Fatalf("[simulator] cannot create core: %+v\n", err)
	}

	// virtual time, one housekeeping pass per simulated millisecond
	next := 0
	for now := time.Duration(0); now <= end+time.Second; now += time.Millisecond {
		for next < len(steps) && steps[next].at <= now {
			ev := steps[next].ev
			dir := "up"
			if ev.Pressed {
				dir = "down"
			}
			fmt.Printf("matrix: (%d,%d) %s @%v\n", ev.Row, ev.Col, dir, now)
			core.HandleEvent(arbiter.Event{
				Pos:     keymap.Pos{Row: ev.Row, Col: ev.Col},
				Pressed: ev.Pressed,
				At:      now,
			})
			next++
		}
		core.Housekeep(now)
	}
}
