// Package dialog предоставляет GUI диалоги приложения.
package dialog

import (
	"github.com/ncruces/zenity"
)

// ShowInfo показывает информационное сообщение.
func ShowInfo(title, message string) {
	zenity.Info(message, zenity.Title(title))
}

// ShowError показывает сообщение об ошибке.
func ShowError(title, message string) {
	zenity.Error(message, zenity.Title(title))
}
