// Package notify предоставляет системные уведомления.
package notify

import (
	"github.com/gen2brain/beeep"

	"kol/internal/i18n"
)

const appName = "Kol"

// Notifier отправляет системные уведомления.
type Notifier struct {
	enabled bool
}

// New создаёт новый Notifier.
func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

// SetEnabled включает/выключает уведомления.
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// Ready показывает уведомление о готовности приложения.
func (n *Notifier) Ready() {
	n.notify("", i18n.T("notify_ready"))
}

// Error показывает уведомление об ошибке.
func (n *Notifier) Error(msg string) {
	n.notify(i18n.T("notify_error"), msg)
}

// Info показывает информационное уведомление.
func (n *Notifier) Info(msg string) {
	if len(msg) > 100 {
		msg = msg[:100] + "..."
	}
	n.notify("", msg)
}

func (n *Notifier) notify(title, message string) {
	if !n.enabled {
		return
	}
	// Игнорируем ошибки уведомлений - они не критичны
	if title != "" {
		_ = beeep.Notify(appName+": "+title, message, "")
	} else {
		_ = beeep.Notify(appName, message, "")
	}
}
