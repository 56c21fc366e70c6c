package keymap

import (
	kc "github.com/yxakbd/YxaManager/system/keycode"
)

// Map is the full 3-D keymap: layer x row x col. Dimensions are fixed.
type Map [NumLayers][Rows][Cols]Action

// At returns the action bound at (layer, pos) without any layer walk.
func (m *Map) At(l Layer, p Pos) Action {
	if l >= NumLayers || !p.Valid() {
		return XXX
	}
	return m[l][p.Row][p.Col]
}

// split3x5x3 lays out 36 actions in reading order (three rows of ten
// across both halves, then six thumbs) into the 8x5 matrix. Rows 0-3 are
// the left half, 4-7 the right; row 3 thumbs sit in cols 2-4, row 7
// thumbs in cols 0-2.
func split3x5x3(keys [36]Action) [Rows][Cols]Action {
	var out [Rows][Cols]Action
	for r := 0; r < 3; r++ {
		for c := 0; c < Cols; c++ {
			out[r][c] = keys[r*10+c]
			out[r+4][c] = keys[r*10+5+c]
		}
	}
	out[3][0], out[3][1] = XXX, XXX
	out[3][2], out[3][3], out[3][4] = keys[30], keys[31], keys[32]
	out[7][0], out[7][1], out[7][2] = keys[33], keys[34], keys[35]
	out[7][3], out[7][4] = XXX, XXX
	return out
}

// Miryoku builds the default Miryoku layout with the given clipboard
// idiom. Base is Colemak-DH with GACS home row mods, Extra is QWERTY,
// Tap drops the home row mods but keeps the layer-tap thumbs.
func Miryoku(idiom kc.ClipboardIdiom) *Map {
	clip := kc.Clipboard(idiom)
	und := ChordKey(clip.Undo)
	cut := ChordKey(clip.Cut)
	cpy := ChordKey(clip.Copy)
	pst := ChordKey(clip.Paste)
	rdo := ChordKey(clip.Redo)

	shift := func(c kc.Code) Action {
		return ChordKey(kc.Chord{Mods: kc.ModLeftShift, Code: c})
	}
	k := Key

	// Home row mods
	aGui := ModTap(kc.A, kc.ModLeftGui)
	rAlt := ModTap(kc.R, kc.ModLeftAlt)
	sCtl := ModTap(kc.S, kc.ModLeftCtrl)
	tSft := ModTap(kc.T, kc.ModLeftShift)
	nSft := ModTap(kc.N, kc.ModLeftShift)
	eCtl := ModTap(kc.E, kc.ModLeftCtrl)
	iAlt := ModTap(kc.I, kc.ModLeftAlt)
	oGui := ModTap(kc.O, kc.ModLeftGui)

	// Thumb layer taps
	escMedia := LayerTap(kc.Escape, Media)
	spcNav := LayerTap(kc.Space, Nav)
	tabMouse := LayerTap(kc.Tab, Mouse)
	entSym := LayerTap(kc.Enter, Sym)
	bspNum := LayerTap(kc.Backspace, Num)
	delFun := LayerTap(kc.Delete, Fun)

	zButton := LayerTap(kc.Z, Button)
	slashButton := LayerTap(kc.Slash, Button)
	xAGr := ModTap(kc.X, kc.ModRightAlt)
	dotAGr := ModTap(kc.Dot, kc.ModRightAlt)

	lGui, lAlt, lCtl, lSft := k(kc.LeftGuiKey), k(kc.LeftAltKey), k(kc.LeftCtrlKey), k(kc.LeftShiftKey)
	aGr := k(kc.RightAltKey)

	// One-handed mod columns on the function layers are sticky: tap,
	// release the layer, then hit the key to chord.
	osGui, osAlt, osCtl, osSft := OneShot(kc.ModLeftGui), OneShot(kc.ModLeftAlt), OneShot(kc.ModLeftCtrl), OneShot(kc.ModLeftShift)

	tdBoot, tdBase, tdExtra, tdTap := Dance(DanceBoot), Dance(DanceBase), Dance(DanceExtra), Dance(DanceTap)

	m := &Map{}

	m[Base] = split3x5x3([36]Action{
		k(kc.Q), k(kc.W), k(kc.F), k(kc.P), k(kc.B), k(kc.J), k(kc.L), k(kc.U), k(kc.Y), k(kc.Quote),
		aGui, rAlt, sCtl, tSft, k(kc.G), k(kc.M), nSft, eCtl, iAlt, oGui,
		zButton, xAGr, k(kc.C), k(kc.D), k(kc.V), k(kc.K), k(kc.H), k(kc.Comma), dotAGr, slashButton,
		escMedia, spcNav, tabMouse, entSym, bspNum, delFun,
	})

	m[Extra] = split3x5x3([36]Action{
		k(kc.Q), k(kc.W), k(kc.E), k(kc.R), k(kc.T), k(kc.Y), k(kc.U), k(kc.I), k(kc.O), k(kc.P),
		aGui, ModTap(kc.S, kc.ModLeftAlt), ModTap(kc.D, kc.ModLeftCtrl), ModTap(kc.F, kc.ModLeftShift), k(kc.G),
		k(kc.H), ModTap(kc.J, kc.ModLeftShift), ModTap(kc.K, kc.ModLeftCtrl), ModTap(kc.L, kc.ModLeftAlt), ModTap(kc.Quote, kc.ModLeftGui),
		zButton, xAGr, k(kc.C), k(kc.V), k(kc.B), k(kc.N), k(kc.M), k(kc.Comma), dotAGr, slashButton,
		escMedia, spcNav, tabMouse, entSym, bspNum, delFun,
	})

	m[Tap] = split3x5x3([36]Action{
		k(kc.Q), k(kc.W), k(kc.F), k(kc.P), k(kc.B), k(kc.J), k(kc.L), k(kc.U), k(kc.Y), k(kc.Quote),
		k(kc.A), k(kc.R), k(kc.S), k(kc.T), k(kc.G), k(kc.M), k(kc.N), k(kc.E), k(kc.I), k(kc.O),
		k(kc.Z), k(kc.X), k(kc.C), k(kc.D), k(kc.V), k(kc.K), k(kc.H), k(kc.Comma), k(kc.Dot), k(kc.Slash),
		escMedia, spcNav, tabMouse, entSym, bspNum, delFun,
	})

	m[Button] = split3x5x3([36]Action{
		und, cut, cpy, pst, rdo, rdo, pst, cpy, cut, und,
		lGui, lAlt, lCtl, lSft, XXX, XXX, lSft, lCtl, lAlt, lGui,
		und, cut, cpy, pst, rdo, rdo, pst, cpy, cut, und,
		k(kc.MouseBtn3), k(kc.MouseBtn1), k(kc.MouseBtn2), k(kc.MouseBtn2), k(kc.MouseBtn1), k(kc.MouseBtn3),
	})

	m[Nav] = split3x5x3([36]Action{
		tdBoot, tdTap, tdExtra, tdBase, XXX, rdo, pst, cpy, cut, und,
		osGui, osAlt, osCtl, osSft, XXX, k(kc.CapsWordToggle), k(kc.Left), k(kc.Down), k(kc.Up), k(kc.Right),
		XXX, aGr, tdBase, tdBase, XXX, k(kc.Insert), k(kc.Home), k(kc.PageDown), k(kc.PageUp), k(kc.End),
		XXX, XXX, XXX, k(kc.Enter), k(kc.Backspace), k(kc.Delete),
	})

	m[Mouse] = split3x5x3([36]Action{
		tdBoot, tdTap, tdExtra, tdBase, XXX, rdo, pst, cpy, cut, und,
		osGui, osAlt, osCtl, osSft, XXX, XXX, k(kc.MouseLeft), k(kc.MouseDown), k(kc.MouseUp), k(kc.MouseRight),
		XXX, aGr, tdBase, tdBase, XXX, XXX, k(kc.WheelLeft), k(kc.WheelDown), k(kc.WheelUp), k(kc.WheelRight),
		XXX, XXX, XXX, k(kc.MouseBtn2), k(kc.MouseBtn1), k(kc.MouseBtn3),
	})

	m[Media] = split3x5x3([36]Action{
		tdBoot, tdTap, tdExtra, tdBase, XXX, k(kc.RGBToggle), k(kc.RGBNext), k(kc.RGBHueUp), k(kc.RGBSatUp), k(kc.RGBValUp),
		osGui, osAlt, osCtl, osSft, XXX, XXX, k(kc.MediaPrev), k(kc.VolumeDown), k(kc.VolumeUp), k(kc.MediaNext),
		XXX, aGr, tdBase, tdBase, XXX, k(kc.OutputAuto), XXX, XXX, XXX, XXX,
		XXX, XXX, XXX, k(kc.MediaStop), k(kc.MediaPlayPause), k(kc.VolumeMute),
	})

	m[Num] = split3x5x3([36]Action{
		k(kc.LeftBracket), k(kc.Num7), k(kc.Num8), k(kc.Num9), k(kc.RightBracket), XXX, tdBase, tdExtra, tdTap, tdBoot,
		k(kc.Semicolon), k(kc.Num4), k(kc.Num5), k(kc.Num6), k(kc.Equal), XXX, osSft, osCtl, osAlt, osGui,
		k(kc.Grave), k(kc.Num1), k(kc.Num2), k(kc.Num3), k(kc.Backslash), XXX, tdBase, tdBase, aGr, XXX,
		k(kc.Dot), k(kc.Num0), k(kc.Minus), XXX, XXX, XXX,
	})

	m[Sym] = split3x5x3([36]Action{
		shift(kc.LeftBracket), shift(kc.Num7), shift(kc.Num8), shift(kc.Num9), shift(kc.RightBracket), XXX, tdBase, tdExtra, tdTap, tdBoot,
		shift(kc.Semicolon), shift(kc.Num4), shift(kc.Num5), shift(kc.Num6), shift(kc.Equal), XXX, osSft, osCtl, osAlt, osGui,
		shift(kc.Grave), shift(kc.Num1), shift(kc.Num2), shift(kc.Num3), shift(kc.Backslash), XXX, tdBase, tdBase, aGr, XXX,
		shift(kc.Num9), shift(kc.Num0), shift(kc.Minus), XXX, XXX, XXX,
	})

	m[Fun] = split3x5x3([36]Action{
		k(kc.F12), k(kc.F7), k(kc.F8), k(kc.F9), k(kc.PrintScreen), XXX, tdBase, tdExtra, tdTap, tdBoot,
		k(kc.F11), k(kc.F4), k(kc.F5), k(kc.F6), k(kc.ScrollLock), XXX, osSft, osCtl, osAlt, osGui,
		k(kc.F10), k(kc.F1), k(kc.F2), k(kc.F3), k(kc.Pause), XXX, tdBase, tdBase, aGr, XXX,
		k(kc.Application), k(kc.Space), k(kc.Tab), XXX, XXX, XXX,
	})

	return m
}
