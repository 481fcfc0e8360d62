//go:build darwin

package hotkey

import "golang.design/x/hotkey"

// Модификаторы для запасного режима на macOS.
const (
	modCtrl  = hotkey.ModCtrl
	modShift = hotkey.ModShift
	modAlt   = hotkey.ModOption
	modMeta  = hotkey.ModCmd
)
