package keycode

import "fmt"

var names = map[Code]string{
	None:           "·",
	Enter:          "Ent",
	Escape:         "Esc",
	Backspace:      "Bsp",
	Tab:            "Tab",
	Space:          "Spc",
	Minus:          "-",
	Equal:          "=",
	LeftBracket:    "[",
	RightBracket:   "]",
	Backslash:      "\\",
	Semicolon:      ";",
	Quote:          "'",
	Grave:          "`",
	Comma:          ",",
	Dot:            ".",
	Slash:          "/",
	CapsLock:       "Caps",
	PrintScreen:    "PScr",
	ScrollLock:     "ScrL",
	Pause:          "Paus",
	Insert:         "Ins",
	Home:           "Hom",
	PageUp:         "PgU",
	Delete:         "Del",
	End:            "End",
	PageDown:       "PgD",
	Right:          "→",
	Left:           "←",
	Down:           "↓",
	Up:             "↑",
	Application:    "App",
	Again:          "Rdo",
	Undo:           "Und",
	Cut:            "Cut",
	Copy:           "Cpy",
	Paste:          "Pst",
	LeftCtrlKey:    "Ctl",
	LeftShiftKey:   "Sft",
	LeftAltKey:     "Alt",
	LeftGuiKey:     "Gui",
	RightCtrlKey:   "Ctl",
	RightShiftKey:  "Sft",
	RightAltKey:    "AGr",
	RightGuiKey:    "Gui",
	CapsWordToggle: "CapW",
	MouseBtn1:      "Bt1",
	MouseBtn2:      "Bt2",
	MouseBtn3:      "Bt3",
	MouseLeft:      "Ms←",
	MouseDown:      "Ms↓",
	MouseUp:        "Ms↑",
	MouseRight:     "Ms→",
	WheelLeft:      "Wh←",
	WheelDown:      "Wh↓",
	WheelUp:        "Wh↑",
	WheelRight:     "Wh→",
	MediaPlayPause: "Play",
	MediaStop:      "Stop",
	MediaPrev:      "Prev",
	MediaNext:      "Next",
	VolumeUp:       "Vol+",
	VolumeDown:     "Vol-",
	VolumeMute:     "Mute",
	RGBToggle:      "RGB",
	RGBNext:        "RGB>",
	RGBHueUp:       "Hue+",
	RGBSatUp:       "Sat+",
	RGBValUp:       "Val+",
	OutputAuto:     "Out",
}

func (c Code) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	switch {
	case c >= A && c <= Z:
		return string(rune('A' + (c - A)))
	case c >= Num1 && c <= Num9:
		return string(rune('1' + (c - Num1)))
	case c == Num0:
		return "0"
	case c >= F1 && c <= F12:
		return fmt.Sprintf("F%d", c-F1+1)
	default:
		return fmt.Sprintf("0x%02x", uint8(c))
	}
}
