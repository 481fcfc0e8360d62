// Package channel поддерживает постоянное соединение с воркером.
package channel

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// State - состояние соединения.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// String возвращает строковое представление состояния.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

const (
	// DefaultReconnectDelay - фиксированная пауза перед переподключением.
	DefaultReconnectDelay = 1200 * time.Millisecond

	handshakeTimeout = 5 * time.Second
	pingInterval     = 30 * time.Second
)

// ErrNotConnected возвращается при отправке без установленного соединения.
var ErrNotConnected = errors.New("канал не подключён")

// Client - клиент канала: владеет подключением, переподключением и
// кодированием команд. Переподключение и перезапуск воркера идут одним
// путём: действие таймера - поднять воркер, затем подключиться.
type Client struct {
	url            string
	ensure         func() error // поднять воркер перед подключением
	onMessage      func(Message)
	onState        func(State)
	reconnectDelay time.Duration

	mu               sync.Mutex
	state            State
	conn             *websocket.Conn
	reconnectPending bool
	closed           bool

	writeMu sync.Mutex
}

// New создаёт клиент. ensure вызывается перед каждой попыткой
// подключения; onMessage получает каждое распознанное сообщение;
// onState - каждую смену состояния.
func New(url string, ensure func() error, onMessage func(Message), onState func(State)) *Client {
	return &Client{
		url:            url,
		ensure:         ensure,
		onMessage:      onMessage,
		onState:        onState,
		reconnectDelay: DefaultReconnectDelay,
	}
}

// State возвращает текущее состояние соединения.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect начинает подключение. Ничего не делает, если подключение уже
// идёт или установлено - дублирующие попытки исключены.
func (c *Client) Connect() {
	c.mu.Lock()
	if c.closed || c.state != StateDisconnected {
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	c.mu.Unlock()

	c.notifyState(StateConnecting)
	go c.dial()
}

// Kick запрашивает восстановление связи: если канал разорван,
// планируется цикл «поднять воркер - подключиться». Лишние вызовы
// безопасны - таймер переподключения всегда один.
func (c *Client) Kick() {
	c.mu.Lock()
	if c.state == StateDisconnected {
		c.scheduleReconnectLocked()
	}
	c.mu.Unlock()
}

// Close закрывает канал навсегда. Только клиент закрывает соединение.
func (c *Client) Close() {
	c.mu.Lock()
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// Start отправляет команду start с указанным режимом.
// Отправка возможна только из состояния Connected; намерение не
// запоминается и не повторяется - жест нужно выполнить заново.
func (c *Client) Start(mode string) error {
	return c.send(command{Type: "start", Mode: mode})
}

// Stop отправляет команду stop.
func (c *Client) Stop() error {
	return c.send(command{Type: "stop"})
}

// CheckLLM запрашивает у воркера проверку доступности ассистента.
func (c *Client) CheckLLM() error {
	return c.send(command{Type: "check_llm"})
}

func (c *Client) send(cmd command) error {
	c.mu.Lock()
	conn := c.conn
	connected := c.state == StateConnected
	c.mu.Unlock()

	if !connected || conn == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(cmd)
}

func (c *Client) dial() {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.Dial(c.url, nil)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}
	if err != nil {
		c.state = StateDisconnected
		c.scheduleReconnectLocked()
		c.mu.Unlock()

		log.Printf("Не удалось подключиться к воркеру (%s): %v", c.url, err)
		c.notifyState(StateDisconnected)
		return
	}
	c.conn = conn
	c.state = StateConnected
	c.mu.Unlock()

	log.Printf("Канал с воркером установлен: %s", c.url)
	c.notifyState(StateConnected)

	go c.readLoop(conn)
	go c.pingLoop(conn)
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			c.drop(conn, err)
			return
		}

		msg, ok := Decode(payload)
		if !ok {
			// Протокольный мусор не трогает соединение
			continue
		}
		if c.onMessage != nil {
			c.onMessage(msg)
		}
	}
}

// pingLoop шлёт прикладной ping, пока conn остаётся текущим.
func (c *Client) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		current := c.conn == conn && c.state == StateConnected
		c.mu.Unlock()
		if !current {
			return
		}
		if err := c.send(command{Type: "ping"}); err != nil {
			return
		}
	}
}

// drop переводит клиент в Disconnected после ошибки чтения и планирует
// переподключение. Устаревшие соединения игнорируются.
func (c *Client) drop(conn *websocket.Conn, err error) {
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	closed := c.closed
	c.state = StateDisconnected
	if !closed {
		c.scheduleReconnectLocked()
	}
	c.mu.Unlock()

	conn.Close()
	if !closed {
		log.Printf("Канал с воркером разорван: %v", err)
		c.notifyState(StateDisconnected)
	}
}

// scheduleReconnectLocked планирует ровно один таймер переподключения.
// Вызывается под c.mu.
func (c *Client) scheduleReconnectLocked() {
	if c.closed || c.reconnectPending {
		return
	}
	c.reconnectPending = true

	time.AfterFunc(c.reconnectDelay, func() {
		c.mu.Lock()
		c.reconnectPending = false
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}

		if c.ensure != nil {
			if err := c.ensure(); err != nil {
				// dial всё равно попробует и перепланирует цикл
				log.Printf("Не удалось поднять воркер: %v", err)
			}
		}
		c.Connect()
	})
}

func (c *Client) notifyState(s State) {
	if c.onState != nil {
		c.onState(s)
	}
}
