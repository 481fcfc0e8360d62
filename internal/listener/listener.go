// Package listener слушает клавиатуру глобально, независимо от фокуса окна.
package listener

import (
	"log"
	"sync"
	"time"

	hook "github.com/robotn/gohook"

	"kol/internal/hotkey"
)

// Коды модификаторов низкоуровневого хука (libuiohook VC_*).
const (
	vcShiftL = 0x002A
	vcShiftR = 0x0036
	vcCtrlL  = 0x001D
	vcCtrlR  = 0x0E1D
	vcAltL   = 0x0038
	vcAltR   = 0x0E38
	vcMetaL  = 0x0E5B
	vcMetaR  = 0x0E5C
)

// Callbacks - реакции на распознанные жесты.
type Callbacks struct {
	OnPressPTT   func() // нажата комбинация push-to-talk
	OnReleasePTT func() // удержание push-to-talk завершено
	OnToggleMode func() // нажата комбинация переключения режима
}

// Listener владеет глобальным хуком клавиатуры на всё время работы
// процесса. Состояние модификаторов отслеживается по самим событиям,
// события к жестам сводит internal/hotkey.
type Listener struct {
	ptt    hotkey.Spec
	toggle hotkey.Spec
	cb     Callbacks

	mu      sync.Mutex
	stopCh  chan struct{}
	started bool
}

// New создаёт слушатель для двух комбинаций.
func New(ptt, toggle hotkey.Spec, cb Callbacks) *Listener {
	return &Listener{ptt: ptt, toggle: toggle, cb: cb}
}

// Start запускает хук. onStopped вызывается один раз, если хук
// завершился сам (нет прав, нет дисплея) - вызывающая сторона
// переходит в запасной режим.
func (l *Listener) Start(onStopped func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return
	}
	l.started = true
	l.stopCh = make(chan struct{})
	go l.run(l.stopCh, onStopped)
}

// Stop останавливает хук.
func (l *Listener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.started {
		return
	}
	l.started = false
	close(l.stopCh)
}

func (l *Listener) run(stopCh chan struct{}, onStopped func()) {
	events := hook.Start()
	defer hook.End()

	log.Printf("Хук клавиатуры запущен: ptt=%s, режим=%s", l.ptt.String(), l.toggle.String())

	var (
		held       heldModifiers
		lastToggle time.Time
	)
	const toggleDebounce = 300 * time.Millisecond // защита от key repeat

	for {
		select {
		case <-stopCh:
			return
		case e, ok := <-events:
			if !ok {
				log.Printf("Хук клавиатуры завершился")
				if onStopped != nil {
					onStopped()
				}
				return
			}

			switch e.Kind {
			case hook.KeyDown, hook.KeyHold:
				held.set(e.Keycode, true)
				ev := held.event(e.Keycode)
				if hotkey.MatchesPress(ev, l.ptt) && l.cb.OnPressPTT != nil {
					l.cb.OnPressPTT()
				}
				if hotkey.MatchesPress(ev, l.toggle) && l.cb.OnToggleMode != nil {
					now := time.Now()
					if now.Sub(lastToggle) >= toggleDebounce {
						lastToggle = now
						l.cb.OnToggleMode()
					}
				}
			case hook.KeyUp:
				held.set(e.Keycode, false)
				ev := held.event(e.Keycode)
				if hotkey.EndsHold(ev, l.ptt) && l.cb.OnReleasePTT != nil {
					l.cb.OnReleasePTT()
				}
			}
		}
	}
}

// heldModifiers - текущее состояние модификаторов, левые и правые
// варианты сведены к одному флагу. Используется только горутиной run.
type heldModifiers struct {
	ctrlL, ctrlR   bool
	altL, altR     bool
	shiftL, shiftR bool
	metaL, metaR   bool
}

func (h *heldModifiers) set(code uint16, down bool) {
	switch code {
	case vcCtrlL:
		h.ctrlL = down
	case vcCtrlR:
		h.ctrlR = down
	case vcAltL:
		h.altL = down
	case vcAltR:
		h.altR = down
	case vcShiftL:
		h.shiftL = down
	case vcShiftR:
		h.shiftR = down
	case vcMetaL:
		h.metaL = down
	case vcMetaR:
		h.metaR = down
	}
}

func (h *heldModifiers) event(code uint16) hotkey.Event {
	return hotkey.Event{
		Code:  code,
		Ctrl:  h.ctrlL || h.ctrlR,
		Alt:   h.altL || h.altR,
		Shift: h.shiftL || h.shiftR,
		Meta:  h.metaL || h.metaR,
	}
}
