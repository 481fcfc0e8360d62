// Package session переводит жесты, состояние канала и режим в команды воркеру.
package session

import (
	"log"
	"strings"
	"sync"

	"kol/internal/channel"
	"kol/internal/i18n"
	"kol/internal/mode"
)

// Channel - канал к воркеру глазами контроллера.
type Channel interface {
	State() channel.State
	Start(mode string) error
	Stop() error
	Kick()
}

// Modes - контроллер режима глазами сессии.
type Modes interface {
	Current() mode.Mode
	SetBackendAvailable(available bool)
}

// Cues - звуковые сигналы. Ошибки сигналов никогда не всплывают.
type Cues interface {
	Start()
	EndOfTurn()
}

// Deliverer доставляет готовый текст в активное окно.
type Deliverer interface {
	Deliver(text string) error
}

// Notifier показывает уведомления пользователю.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// StatusSink отображает состояние воркера (трей).
type StatusSink interface {
	SetStatus(state string)
}

// Controller - единственный владелец состояния удержания. Методы
// дёргают слушатель и канал из своих горутин, поэтому переходы
// сериализованы мьютексом.
type Controller struct {
	ch      Channel
	modes   Modes
	cues    Cues
	deliver Deliverer
	notify  Notifier
	status  StatusSink

	mu       sync.Mutex
	active   bool // удержание идёт; ставится только здесь
	activity bool // воркер был не-idle с начала оборота
}

// New создаёт контроллер сессии.
func New(ch Channel, modes Modes, cues Cues, deliver Deliverer, notify Notifier, status StatusSink) *Controller {
	return &Controller{
		ch:      ch,
		modes:   modes,
		cues:    cues,
		deliver: deliver,
		notify:  notify,
		status:  status,
	}
}

// OnPress обрабатывает срабатывание комбинации push-to-talk.
// Повторные нажатия при активном удержании игнорируются (key repeat).
// Без соединения команда не отправляется и не запоминается - жест
// нужно повторить после восстановления связи.
func (c *Controller) OnPress() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		return
	}
	c.active = true

	if c.ch.State() != channel.StateConnected {
		c.notify.Info(i18n.T("notify_not_ready"))
		c.ch.Kick()
		return
	}

	c.cues.Start()
	if err := c.ch.Start(string(c.modes.Current())); err != nil {
		log.Printf("Не удалось отправить start: %v", err)
	}
}

// OnRelease завершает удержание. Отпускание без активного удержания
// игнорируется. stop отправляется по возможности, без повторов: при
// разрыве канала страховкой служит собственный таймаут воркера.
func (c *Controller) OnRelease() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}
	c.active = false

	if c.ch.State() != channel.StateConnected {
		return
	}
	if err := c.ch.Stop(); err != nil {
		log.Printf("Не удалось отправить stop: %v", err)
	}
}

// OnMessage обрабатывает входящее сообщение воркера.
func (c *Controller) OnMessage(msg channel.Message) {
	switch msg.Type {
	case channel.TypeStatus:
		c.onStatus(msg.State)

	case channel.TypeResult:
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			// Пустой результат - не ошибка
			return
		}
		if err := c.deliver.Deliver(text); err != nil {
			log.Printf("Не удалось вставить текст: %v", err)
			c.notify.Error(i18n.T("notify_delivery_failed"))
		}

	case channel.TypeAssistantResult:
		// Ответ озвучивает воркер; здесь только краткий показ
		c.notify.Info(strings.TrimSpace(msg.Text))

	case channel.TypeLLMStatus:
		if msg.Available != nil {
			c.modes.SetBackendAvailable(*msg.Available)
		}

	case channel.TypeError:
		c.notify.Error(msg.Message)

	case channel.TypePong:
		// keepalive, ничего не делаем
	}
}

// onStatus ведёт флаг активности. Сигнал конца оборота срабатывает по
// фронту: только на переходе из не-idle в idle, повторные idle его не
// перезапускают.
func (c *Controller) onStatus(state string) {
	c.mu.Lock()
	endOfTurn := false
	if state == channel.StateIdle {
		if c.activity {
			c.activity = false
			endOfTurn = true
		}
	} else {
		c.activity = true
	}
	c.mu.Unlock()

	if endOfTurn {
		c.cues.EndOfTurn()
	}
	c.status.SetStatus(state)
}
