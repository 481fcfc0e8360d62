//go:build windows

package hotkey

import "golang.design/x/hotkey"

// Модификаторы для запасного режима на Windows.
const (
	modCtrl  = hotkey.ModCtrl
	modShift = hotkey.ModShift
	modAlt   = hotkey.ModAlt
	modMeta  = hotkey.ModWin
)
