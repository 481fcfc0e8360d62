package session

import (
	"testing"

	"kol/internal/channel"
	"kol/internal/mode"
)

type fakeChannel struct {
	state channel.State
	sent  []string // "start:<mode>", "stop"
	kicks int
	err   error
}

func (f *fakeChannel) State() channel.State { return f.state }
func (f *fakeChannel) Start(m string) error {
	f.sent = append(f.sent, "start:"+m)
	return f.err
}
func (f *fakeChannel) Stop() error {
	f.sent = append(f.sent, "stop")
	return f.err
}
func (f *fakeChannel) Kick() { f.kicks++ }

type fakeModes struct {
	current   mode.Mode
	available []bool
}

func (f *fakeModes) Current() mode.Mode { return f.current }
func (f *fakeModes) SetBackendAvailable(a bool) {
	f.available = append(f.available, a)
}

type fakeCues struct {
	starts, ends int
}

func (f *fakeCues) Start()     { f.starts++ }
func (f *fakeCues) EndOfTurn() { f.ends++ }

type fakeDeliverer struct {
	texts []string
	err   error
}

func (f *fakeDeliverer) Deliver(text string) error {
	f.texts = append(f.texts, text)
	return f.err
}

type fakeNotifier struct {
	infos, errors []string
}

func (f *fakeNotifier) Info(msg string)  { f.infos = append(f.infos, msg) }
func (f *fakeNotifier) Error(msg string) { f.errors = append(f.errors, msg) }

type fakeStatus struct {
	states []string
}

func (f *fakeStatus) SetStatus(state string) { f.states = append(f.states, state) }

type fixture struct {
	ch     *fakeChannel
	modes  *fakeModes
	cues   *fakeCues
	del    *fakeDeliverer
	notify *fakeNotifier
	status *fakeStatus
	ctrl   *Controller
}

func newFixture(state channel.State) *fixture {
	f := &fixture{
		ch:     &fakeChannel{state: state},
		modes:  &fakeModes{current: mode.Transcribe},
		cues:   &fakeCues{},
		del:    &fakeDeliverer{},
		notify: &fakeNotifier{},
		status: &fakeStatus{},
	}
	f.ctrl = New(f.ch, f.modes, f.cues, f.del, f.notify, f.status)
	return f
}

func TestPressSendsStartOnce(t *testing.T) {
	t.Parallel()

	f := newFixture(channel.StateConnected)

	f.ctrl.OnPress()
	f.ctrl.OnPress() // key repeat

	if len(f.ch.sent) != 1 || f.ch.sent[0] != "start:stt" {
		t.Fatalf("команды = %v, ожидался один start:stt", f.ch.sent)
	}
	if f.cues.starts != 1 {
		t.Fatalf("сигнал старта сыгран %d раз", f.cues.starts)
	}
}

func TestReleaseWithoutPressIsIgnored(t *testing.T) {
	t.Parallel()

	f := newFixture(channel.StateConnected)

	f.ctrl.OnRelease()

	if len(f.ch.sent) != 0 {
		t.Fatalf("команды без нажатия: %v", f.ch.sent)
	}
}

func TestHoldCycleSendsStartThenStop(t *testing.T) {
	t.Parallel()

	f := newFixture(channel.StateConnected)

	f.ctrl.OnPress()
	f.ctrl.OnRelease()

	want := []string{"start:stt", "stop"}
	if len(f.ch.sent) != 2 || f.ch.sent[0] != want[0] || f.ch.sent[1] != want[1] {
		t.Fatalf("команды = %v, ожидалось %v", f.ch.sent, want)
	}
}

func TestPressWhileDisconnected(t *testing.T) {
	t.Parallel()

	f := newFixture(channel.StateDisconnected)

	f.ctrl.OnPress()

	if len(f.ch.sent) != 0 {
		t.Fatalf("команды при разорванном канале: %v", f.ch.sent)
	}
	if f.ch.kicks != 1 {
		t.Fatalf("переподключение запрошено %d раз", f.ch.kicks)
	}
	if len(f.notify.infos) != 1 {
		t.Fatalf("уведомления = %v, ожидалось одно «не готов»", f.notify.infos)
	}

	// Разрыв в середине удержания не блокирует следующий жест.
	f.ctrl.OnRelease()
	f.ch.state = channel.StateConnected
	f.ctrl.OnPress()

	if len(f.ch.sent) != 1 || f.ch.sent[0] != "start:stt" {
		t.Fatalf("после восстановления команды = %v", f.ch.sent)
	}
}

func TestReleaseAfterChannelDropClearsHold(t *testing.T) {
	t.Parallel()

	f := newFixture(channel.StateConnected)

	f.ctrl.OnPress()
	f.ch.state = channel.StateDisconnected
	f.ctrl.OnRelease() // stop не отправить, но удержание снимается

	if len(f.ch.sent) != 1 {
		t.Fatalf("команды = %v, stop не должен отправляться без канала", f.ch.sent)
	}

	f.ch.state = channel.StateConnected
	f.ctrl.OnPress()
	if len(f.ch.sent) != 2 || f.ch.sent[1] != "start:stt" {
		t.Fatalf("следующий жест не прошёл: %v", f.ch.sent)
	}
}

func TestStartCarriesCurrentMode(t *testing.T) {
	t.Parallel()

	f := newFixture(channel.StateConnected)
	f.modes.current = mode.Assistant

	f.ctrl.OnPress()

	if len(f.ch.sent) != 1 || f.ch.sent[0] != "start:assistant" {
		t.Fatalf("команды = %v, ожидался start:assistant", f.ch.sent)
	}
}

func TestEndOfTurnCueIsEdgeTriggered(t *testing.T) {
	t.Parallel()

	f := newFixture(channel.StateConnected)

	// idle без предшествующей активности - сигнала нет
	f.ctrl.OnMessage(channel.Message{Type: channel.TypeStatus, State: channel.StateIdle})
	if f.cues.ends != 0 {
		t.Fatal("сигнал конца оборота без активности")
	}

	f.ctrl.OnMessage(channel.Message{Type: channel.TypeStatus, State: channel.StateListening})
	f.ctrl.OnMessage(channel.Message{Type: channel.TypeStatus, State: channel.StateIdle})
	if f.cues.ends != 1 {
		t.Fatalf("сигнал сыгран %d раз, ожидался один", f.cues.ends)
	}

	// Повторный idle не перезапускает сигнал
	f.ctrl.OnMessage(channel.Message{Type: channel.TypeStatus, State: channel.StateIdle})
	if f.cues.ends != 1 {
		t.Fatalf("повторный idle перезапустил сигнал: %d", f.cues.ends)
	}
}

func TestResultDeliveredTrimmed(t *testing.T) {
	t.Parallel()

	f := newFixture(channel.StateConnected)

	f.ctrl.OnPress()
	f.ctrl.OnMessage(channel.Message{Type: channel.TypeStatus, State: channel.StateListening})
	f.ctrl.OnMessage(channel.Message{Type: channel.TypeResult, Text: "  hello world  "})

	if len(f.del.texts) != 1 || f.del.texts[0] != "hello world" {
		t.Fatalf("доставлено %v, ожидалось [hello world]", f.del.texts)
	}
}

func TestEmptyResultDiscarded(t *testing.T) {
	t.Parallel()

	f := newFixture(channel.StateConnected)

	f.ctrl.OnMessage(channel.Message{Type: channel.TypeResult, Text: "   \t  "})

	if len(f.del.texts) != 0 {
		t.Fatalf("пустой результат доставлен: %v", f.del.texts)
	}
	if len(f.notify.errors) != 0 {
		t.Fatal("пустой результат не должен быть ошибкой")
	}
}

func TestDeliveryFailureOnlyNotifies(t *testing.T) {
	t.Parallel()

	f := newFixture(channel.StateConnected)
	f.del.err = errFake

	f.ctrl.OnMessage(channel.Message{Type: channel.TypeResult, Text: "text"})

	if len(f.notify.errors) != 1 {
		t.Fatalf("уведомления об ошибке = %v", f.notify.errors)
	}
	// Состояние сессии не затронуто
	f.ctrl.OnPress()
	if len(f.ch.sent) != 1 {
		t.Fatal("сбой доставки сломал сессию")
	}
}

func TestAssistantResultIsDisplayedNotDelivered(t *testing.T) {
	t.Parallel()

	f := newFixture(channel.StateConnected)

	f.ctrl.OnMessage(channel.Message{Type: channel.TypeAssistantResult, Text: " ответ "})

	if len(f.del.texts) != 0 {
		t.Fatalf("ответ ассистента попал в доставку: %v", f.del.texts)
	}
	if len(f.notify.infos) != 1 || f.notify.infos[0] != "ответ" {
		t.Fatalf("показ ответа = %v", f.notify.infos)
	}
}

func TestLLMStatusRoutedToModes(t *testing.T) {
	t.Parallel()

	f := newFixture(channel.StateConnected)

	avail := true
	f.ctrl.OnMessage(channel.Message{Type: channel.TypeLLMStatus, Available: &avail})
	avail2 := false
	f.ctrl.OnMessage(channel.Message{Type: channel.TypeLLMStatus, Available: &avail2})

	if len(f.modes.available) != 2 || !f.modes.available[0] || f.modes.available[1] {
		t.Fatalf("доступность = %v", f.modes.available)
	}
}

func TestWorkerErrorPassedThrough(t *testing.T) {
	t.Parallel()

	f := newFixture(channel.StateConnected)

	f.ctrl.OnMessage(channel.Message{Type: channel.TypeError, Message: "Already listening."})

	if len(f.notify.errors) != 1 || f.notify.errors[0] != "Already listening." {
		t.Fatalf("ошибка воркера = %v", f.notify.errors)
	}
}

var errFake = &fakeError{}

type fakeError struct{}

func (*fakeError) Error() string { return "fake" }
