package channel

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestSendWithoutConnection(t *testing.T) {
	t.Parallel()

	c := New("ws://127.0.0.1:1", nil, nil, nil)
	if err := c.Start("stt"); err != ErrNotConnected {
		t.Fatalf("ожидался ErrNotConnected, получено %v", err)
	}
	if err := c.Stop(); err != ErrNotConnected {
		t.Fatalf("ожидался ErrNotConnected, получено %v", err)
	}
}

func TestReconnectScheduledOnce(t *testing.T) {
	t.Parallel()

	var ensures int32
	c := New("ws://127.0.0.1:1", func() error {
		atomic.AddInt32(&ensures, 1)
		return nil
	}, nil, nil)
	c.reconnectDelay = 60 * time.Millisecond
	defer c.Close()

	// Два разрыва до срабатывания таймера - таймер остаётся один.
	c.Kick()
	c.Kick()

	time.Sleep(30 * time.Millisecond)
	if n := atomic.LoadInt32(&ensures); n != 0 {
		t.Fatalf("таймер сработал раньше времени: %d", n)
	}

	time.Sleep(60 * time.Millisecond)
	if n := atomic.LoadInt32(&ensures); n != 1 {
		t.Fatalf("ожидался ровно один запуск цикла переподключения, получено %d", n)
	}
}

func TestClientRoundTrip(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}
	received := make(chan string, 8)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		received <- string(payload)

		frames := []string{
			`{"type":"status","state":"listening"}`,
			`not even json`,
			`{"type":"mystery"}`,
			`{"type":"result","text":"  hello world  "}`,
		}
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	messages := make(chan Message, 8)
	states := make(chan State, 8)
	c := New(url, nil, func(m Message) { messages <- m }, func(s State) { states <- s })
	defer c.Close()

	c.Connect()

	waitState := func(want State) {
		t.Helper()
		deadline := time.After(2 * time.Second)
		for {
			select {
			case s := <-states:
				if s == want {
					return
				}
			case <-deadline:
				t.Fatalf("не дождались состояния %v", want)
			}
		}
	}
	waitState(StateConnected)

	if err := c.Start("stt"); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case payload := <-received:
		if !strings.Contains(payload, `"type":"start"`) || !strings.Contains(payload, `"mode":"stt"`) {
			t.Fatalf("неожиданная команда: %s", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("воркер не получил команду start")
	}

	// Мусорные кадры отброшены, валидные дошли по порядку.
	wantTypes := []string{TypeStatus, TypeResult}
	for _, want := range wantTypes {
		select {
		case msg := <-messages:
			if msg.Type != want {
				t.Fatalf("тип сообщения = %q, ожидалось %q", msg.Type, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("не дождались сообщения %q", want)
		}
	}

	// После закрытия сервером канал переходит в Disconnected.
	waitState(StateDisconnected)
}
