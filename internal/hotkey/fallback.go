package hotkey

import (
	"fmt"
	"log"
	"sync"
	"time"

	"golang.design/x/hotkey"
	"golang.design/x/hotkey/mainthread"
)

// Fallback - запасная регистрация через системный hotkey API.
// Используется когда низкоуровневый хук недоступен: событие отпускания
// система не отдаёт, поэтому срабатывает только нажатие.
type Fallback struct {
	mu      sync.Mutex
	hk      *hotkey.Hotkey
	onPress func()
	current Spec
	stopCh  chan struct{}
}

// NewFallback создаёт запасной обработчик.
func NewFallback(onPress func()) *Fallback {
	return &Fallback{onPress: onPress}
}

// Register регистрирует комбинацию. Повторный вызов перерегистрирует.
func (f *Fallback) Register(spec Spec) error {
	log.Printf("Запасная регистрация горячей клавиши: %s", spec.String())

	f.mu.Lock()
	if f.stopCh != nil {
		close(f.stopCh)
		f.stopCh = nil
	}
	oldHk := f.hk
	f.hk = nil
	f.mu.Unlock()

	// Даём время listener'у завершиться
	time.Sleep(50 * time.Millisecond)

	if oldHk != nil {
		done := make(chan struct{})
		go func() {
			oldHk.Unregister()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(500 * time.Millisecond):
			log.Printf("Hotkey unregister timeout")
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	mods := make([]hotkey.Modifier, 0, 4)
	if spec.Ctrl {
		mods = append(mods, modCtrl)
	}
	if spec.Alt {
		mods = append(mods, modAlt)
	}
	if spec.Shift {
		mods = append(mods, modShift)
	}
	if spec.Meta {
		mods = append(mods, modMeta)
	}

	key, ok := keyMap[spec.Key]
	if !ok {
		return fmt.Errorf("клавиша %q недоступна в запасном режиме", spec.Key)
	}

	f.hk = hotkey.New(mods, key)
	f.current = spec
	f.stopCh = make(chan struct{})

	if err := f.hk.Register(); err != nil {
		f.hk = nil
		f.stopCh = nil
		return err
	}

	go f.listen(f.hk, f.stopCh)
	return nil
}

func (f *Fallback) listen(hk *hotkey.Hotkey, stopCh chan struct{}) {
	var lastKeydown time.Time
	const debounceInterval = 300 * time.Millisecond // защита от key repeat

	for {
		select {
		case <-stopCh:
			return
		case _, ok := <-hk.Keydown():
			if !ok {
				return
			}
			now := time.Now()
			if now.Sub(lastKeydown) < debounceInterval {
				continue
			}
			lastKeydown = now
			if f.onPress != nil {
				f.onPress()
			}
		case _, ok := <-hk.Keyup():
			if !ok {
				return
			}
			// Отпускание в запасном режиме не отслеживается
		}
	}
}

// Unregister отменяет регистрацию.
func (f *Fallback) Unregister() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopCh != nil {
		close(f.stopCh)
		f.stopCh = nil
	}
	if f.hk != nil {
		err := f.hk.Unregister()
		f.hk = nil
		return err
	}
	return nil
}

// RunOnMainThread запускает функцию в главном потоке (требование для macOS).
func RunOnMainThread(fn func()) {
	mainthread.Init(fn)
}

// keyMap маппинг токена основной клавиши -> hotkey.Key для запасного режима.
var keyMap = map[string]hotkey.Key{
	"space": hotkey.KeySpace,
	"enter": hotkey.KeyReturn,
	"tab":   hotkey.KeyTab,
	"a":     hotkey.KeyA,
	"b":     hotkey.KeyB,
	"c":     hotkey.KeyC,
	"d":     hotkey.KeyD,
	"e":     hotkey.KeyE,
	"f":     hotkey.KeyF,
	"g":     hotkey.KeyG,
	"h":     hotkey.KeyH,
	"i":     hotkey.KeyI,
	"j":     hotkey.KeyJ,
	"k":     hotkey.KeyK,
	"l":     hotkey.KeyL,
	"m":     hotkey.KeyM,
	"n":     hotkey.KeyN,
	"o":     hotkey.KeyO,
	"p":     hotkey.KeyP,
	"q":     hotkey.KeyQ,
	"r":     hotkey.KeyR,
	"s":     hotkey.KeyS,
	"t":     hotkey.KeyT,
	"u":     hotkey.KeyU,
	"v":     hotkey.KeyV,
	"w":     hotkey.KeyW,
	"x":     hotkey.KeyX,
	"y":     hotkey.KeyY,
	"z":     hotkey.KeyZ,
	"f1":    hotkey.KeyF1,
	"f2":    hotkey.KeyF2,
	"f3":    hotkey.KeyF3,
	"f4":    hotkey.KeyF4,
	"f5":    hotkey.KeyF5,
	"f6":    hotkey.KeyF6,
	"f7":    hotkey.KeyF7,
	"f8":    hotkey.KeyF8,
	"f9":    hotkey.KeyF9,
	"f10":   hotkey.KeyF10,
	"f11":   hotkey.KeyF11,
	"f12":   hotkey.KeyF12,
}

// modCtrl и другие модификаторы определены в platform-specific файлах:
// - modifiers_linux.go
// - modifiers_darwin.go
// - modifiers_windows.go
