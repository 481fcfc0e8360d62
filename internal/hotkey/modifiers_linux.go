//go:build linux

package hotkey

import "golang.design/x/hotkey"

// Модификаторы для запасного режима на Linux (X11).
const (
	modCtrl  = hotkey.ModCtrl
	modShift = hotkey.ModShift
	modAlt   = hotkey.Mod1 // Alt = Mod1 на X11
	modMeta  = hotkey.Mod4 // Super/Win = Mod4 на X11
)
