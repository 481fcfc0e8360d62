// Package deliver вставляет распознанный текст в активное окно.
package deliver

import (
	"fmt"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

const (
	// Пауза между записью в буфер и вставкой: буфер должен успеть обновиться.
	settleDelay = 80 * time.Millisecond
	// Пауза перед восстановлением буфера: вставка должна успеть прочитать его.
	restoreDelay = 120 * time.Millisecond
)

// Paster доставляет текст через буфер обмена и эмуляцию вставки.
// Исходное содержимое буфера восстанавливается после вставки.
type Paster struct {
	kb keybd_event.KeyBonding
}

// New создаёт Paster.
func New() (*Paster, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("инициализация эмуляции клавиатуры: %w", err)
	}
	if runtime.GOOS == "linux" {
		// На linux виртуальной клавиатуре нужно время на регистрацию.
		time.Sleep(2 * time.Second)
	}
	return &Paster{kb: kb}, nil
}

// Deliver помещает текст в буфер обмена и отправляет сочетание вставки.
func (p *Paster) Deliver(text string) error {
	orig, _ := clipboard.ReadAll()

	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("запись в буфер обмена: %w", err)
	}
	time.Sleep(settleDelay)

	kb := p.kb
	if runtime.GOOS == "darwin" {
		kb.HasSuper(true)
	} else {
		kb.HasCTRL(true)
	}
	kb.SetKeys(keybd_event.VK_V)
	if err := kb.Launching(); err != nil {
		return fmt.Errorf("эмуляция вставки: %w", err)
	}

	time.Sleep(restoreDelay)
	_ = clipboard.WriteAll(orig)
	return nil
}
