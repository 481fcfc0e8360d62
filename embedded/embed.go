// Package embedded содержит встроенные ресурсы приложения.
package embedded

import (
	_ "embed"
)

// IconDisconnected - иконка без связи с сервисом (серая).
//
//go:embed icon_disconnected.png
var IconDisconnected []byte

// IconReady - иконка в состоянии готовности (зелёная).
//
//go:embed icon_ready.png
var IconReady []byte

// IconListening - иконка во время записи (красная).
//
//go:embed icon_listening.png
var IconListening []byte

// IconBusy - иконка во время обработки (оранжевая).
//
//go:embed icon_busy.png
var IconBusy []byte
