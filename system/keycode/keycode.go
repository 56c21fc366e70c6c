package keycode

// Code is a USB HID keyboard usage ID. Values at or above internalBase do
// not appear in keyboard reports and are consumed inside the firmware core.
type Code uint8

// Defines the vendorID/productID for the Yxa halves (pid.codes allocation)
const (
	VendorID  = 0x1209
	ProductID = 0x0036
)

// Keyboard usage page codes
const (
	None Code = 0x00

	A Code = 0x04 + iota - 1
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z

	Num1
	Num2
	Num3
	Num4
	Num5
	Num6
	Num7
	Num8
	Num9
	Num0

	Enter
	Escape
	Backspace
	Tab
	Space
	Minus
	Equal
	LeftBracket
	RightBracket
	Backslash
	NonUSHash
	Semicolon
	Quote
	Grave
	Comma
	Dot
	Slash
	CapsLock

	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12

	PrintScreen
	ScrollLock
	Pause
	Insert
	Home
	PageUp
	Delete
	End
	PageDown
	Right
	Left
	Down
	Up
)

// Less common codes outside the contiguous block above
const (
	Application Code = 0x65
	Again       Code = 0x79
	Undo        Code = 0x7a
	Cut         Code = 0x7b
	Copy        Code = 0x7c
	Paste       Code = 0x7d
)

// Modifier usages occupy 0xE0-0xE7 and map 1:1 onto report modifier bits
const (
	LeftCtrlKey Code = 0xe0 + iota
	LeftShiftKey
	LeftAltKey
	LeftGuiKey
	RightCtrlKey
	RightShiftKey
	RightAltKey
	RightGuiKey
)

// Internal codes: consumed by the core, never reported to the host.
// They live in the 0xA5-0xDF gap of the keyboard usage page.
const (
	internalBase Code = 0xa5

	CapsWordToggle Code = 0xa5 + iota
	MouseBtn1
	MouseBtn2
	MouseBtn3
	MouseBtn4
	MouseBtn5
	MouseLeft
	MouseDown
	MouseUp
	MouseRight
	WheelLeft
	WheelDown
	WheelUp
	WheelRight
	MediaPlayPause
	MediaStop
	MediaPrev
	MediaNext
	VolumeUp
	VolumeDown
	VolumeMute
	RGBToggle
	RGBNext
	RGBHueUp
	RGBSatUp
	RGBValUp
	OutputAuto
)

// Internal reports whether c is consumed by the core instead of being
// placed in a keyboard report.
func (c Code) Internal() bool {
	return c >= internalBase && c < LeftCtrlKey
}

// IsModifierKey reports whether c is one of the 0xE0-0xE7 modifier usages.
func (c Code) IsModifierKey() bool {
	return c >= LeftCtrlKey && c <= RightGuiKey
}

// ModifierBit returns the report modifier bit for a modifier usage, or 0.
func (c Code) ModifierBit() Modifier {
	if !c.IsModifierKey() {
		return 0
	}
	return Modifier(1) << (c - LeftCtrlKey)
}

// Modifier is the bitmask in byte 0 of a keyboard report.
type Modifier uint8

// Modifier bits, LSB first per the HID boot protocol
const (
	ModNone       Modifier = 0x0
	ModLeftCtrl   Modifier = 1 << 0
	ModLeftShift  Modifier = 1 << 1
	ModLeftAlt    Modifier = 1 << 2
	ModLeftGui    Modifier = 1 << 3
	ModRightCtrl  Modifier = 1 << 4
	ModRightShift Modifier = 1 << 5
	ModRightAlt   Modifier = 1 << 6
	ModRightGui   Modifier = 1 << 7
)
