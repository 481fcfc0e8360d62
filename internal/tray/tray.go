// Package tray предоставляет системный трей с меню.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"kol/embedded"
	"kol/internal/i18n"
	"kol/internal/mode"
)

// Состояния для отображения в трее. Совпадают со статусами протокола,
// плюс состояния самого канала.
const (
	StatusDisconnected = "disconnected"
	StatusConnecting   = "connecting"
	StatusIdle         = "idle"
	StatusListening    = "listening"
	StatusTranscribing = "transcribing"
	StatusThinking     = "thinking"
	StatusSpeaking     = "speaking"
)

// Callbacks содержит обработчики событий меню.
type Callbacks struct {
	OnModeSelect          func(mode.Mode)
	OnCheckLLM            func()
	OnNotificationsToggle func() bool
	OnSoundCuesToggle     func() bool
	OnLanguageSelect      func(i18n.Language)
	OnQuit                func()
}

// Tray управляет иконкой в системном трее.
type Tray struct {
	callbacks     Callbacks
	notifications bool
	soundCues     bool

	status      *systray.MenuItem
	modeMenu    *systray.MenuItem
	modeStt     *systray.MenuItem
	modeAssist  *systray.MenuItem
	checkLLMBtn *systray.MenuItem
	langMenu    *systray.MenuItem
	langItems   map[i18n.Language]*systray.MenuItem
	notifyOn    *systray.MenuItem
	soundsOn    *systray.MenuItem
	quitBtn     *systray.MenuItem

	mu        sync.Mutex
	statusKey string // ключ i18n последнего статуса, для RefreshUI
}

// New создаёт новый Tray.
func New(callbacks Callbacks, notifications, soundCues bool) *Tray {
	return &Tray{
		callbacks:     callbacks,
		notifications: notifications,
		soundCues:     soundCues,
		statusKey:     "tray_connecting",
	}
}

// Run запускает системный трей. Блокирующая функция.
func (t *Tray) Run(onReady func()) {
	systray.Run(func() {
		t.onReady()
		if onReady != nil {
			onReady()
		}
	}, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(embedded.IconDisconnected)
	systray.SetTitle("Kol")
	systray.SetTooltip(i18n.T("app_tooltip"))

	// Статус
	t.status = systray.AddMenuItem(i18n.T("tray_connecting"), "")
	t.status.Disable()

	systray.AddSeparator()

	// Режим работы
	t.modeMenu = systray.AddMenuItem(i18n.T("tray_mode"), i18n.T("tray_mode_select"))
	t.modeStt = t.modeMenu.AddSubMenuItemCheckbox(i18n.T("tray_mode_stt"), i18n.T("tray_mode_stt_hint"), true)
	t.modeAssist = t.modeMenu.AddSubMenuItemCheckbox(i18n.T("tray_mode_assistant"), i18n.T("tray_mode_assistant_hint"), false)

	// Проверка ассистента
	t.checkLLMBtn = systray.AddMenuItem(i18n.T("tray_check_llm"), i18n.T("tray_check_llm_hint"))

	systray.AddSeparator()

	// Язык интерфейса
	t.langMenu = systray.AddMenuItem(i18n.T("tray_ui_language"), i18n.T("tray_ui_language_hint"))
	t.langItems = make(map[i18n.Language]*systray.MenuItem)
	for _, lang := range i18n.AvailableLanguages() {
		item := t.langMenu.AddSubMenuItemCheckbox(i18n.LanguageName(lang), "", lang == i18n.GetLanguage())
		t.langItems[lang] = item
		go t.watchLanguage(lang, item)
	}

	// Уведомления и звуковые сигналы
	t.notifyOn = systray.AddMenuItemCheckbox(i18n.T("tray_notifications"), i18n.T("tray_notifications_hint"), t.notifications)
	t.soundsOn = systray.AddMenuItemCheckbox(i18n.T("tray_sound_cues"), i18n.T("tray_sound_cues_hint"), t.soundCues)

	systray.AddSeparator()

	// Выход
	t.quitBtn = systray.AddMenuItem(i18n.T("tray_quit"), i18n.T("tray_quit_hint"))

	// Обработка событий меню
	go t.handleMenuEvents()
}

// watchLanguage обслуживает один пункт выбора языка.
func (t *Tray) watchLanguage(lang i18n.Language, item *systray.MenuItem) {
	for range item.ClickedCh {
		if t.callbacks.OnLanguageSelect != nil {
			t.callbacks.OnLanguageSelect(lang)
		}
	}
}

func (t *Tray) handleMenuEvents() {
	for {
		select {
		// Режим: диктовка
		case <-t.modeStt.ClickedCh:
			if t.callbacks.OnModeSelect != nil {
				t.callbacks.OnModeSelect(mode.Transcribe)
			}

		// Режим: ассистент
		case <-t.modeAssist.ClickedCh:
			if t.callbacks.OnModeSelect != nil {
				t.callbacks.OnModeSelect(mode.Assistant)
			}

		// Проверка ассистента
		case <-t.checkLLMBtn.ClickedCh:
			if t.callbacks.OnCheckLLM != nil {
				t.callbacks.OnCheckLLM()
			}

		// Уведомления
		case <-t.notifyOn.ClickedCh:
			if t.callbacks.OnNotificationsToggle != nil {
				enabled := t.callbacks.OnNotificationsToggle()
				if enabled {
					t.notifyOn.Check()
				} else {
					t.notifyOn.Uncheck()
				}
			}

		// Звуковые сигналы
		case <-t.soundsOn.ClickedCh:
			if t.callbacks.OnSoundCuesToggle != nil {
				enabled := t.callbacks.OnSoundCuesToggle()
				if enabled {
					t.soundsOn.Check()
				} else {
					t.soundsOn.Uncheck()
				}
			}

		// Выход
		case <-t.quitBtn.ClickedCh:
			if t.callbacks.OnQuit != nil {
				t.callbacks.OnQuit()
			}
			systray.Quit()
		}
	}
}

// SetStatus обновляет иконку и строку статуса.
func (t *Tray) SetStatus(state string) {
	icon := embedded.IconBusy
	key := ""

	switch state {
	case StatusDisconnected:
		icon = embedded.IconDisconnected
		key = "tray_disconnected"
	case StatusConnecting:
		icon = embedded.IconDisconnected
		key = "tray_connecting"
	case StatusIdle:
		icon = embedded.IconReady
		key = "tray_ready"
	case StatusListening:
		icon = embedded.IconListening
		key = "tray_listening"
	case StatusTranscribing:
		key = "tray_transcribing"
	case StatusThinking:
		key = "tray_thinking"
	case StatusSpeaking:
		key = "tray_speaking"
	default:
		return // Неизвестное состояние не трогает иконку
	}

	t.mu.Lock()
	t.statusKey = key
	t.mu.Unlock()

	systray.SetIcon(icon)
	systray.SetTooltip("Kol - " + i18n.T(key))
	if t.status != nil {
		t.status.SetTitle(i18n.T(key))
	}
}

// SetMode отмечает текущий режим в меню.
func (t *Tray) SetMode(m mode.Mode) {
	if t.modeStt == nil || t.modeAssist == nil {
		return
	}
	if m == mode.Assistant {
		t.modeStt.Uncheck()
		t.modeAssist.Check()
	} else {
		t.modeStt.Check()
		t.modeAssist.Uncheck()
	}
}

// SetAssistantAvailable включает/выключает пункт режима ассистента.
func (t *Tray) SetAssistantAvailable(available bool) {
	if t.modeAssist == nil {
		return
	}
	if available {
		t.modeAssist.Enable()
	} else {
		t.modeAssist.Disable()
	}
}

// RefreshUI обновляет все тексты меню на текущем языке.
func (t *Tray) RefreshUI() {
	systray.SetTooltip(i18n.T("app_tooltip"))

	t.mu.Lock()
	statusKey := t.statusKey
	t.mu.Unlock()

	if t.status != nil {
		t.status.SetTitle(i18n.T(statusKey))
	}
	if t.modeMenu != nil {
		t.modeMenu.SetTitle(i18n.T("tray_mode"))
		t.modeMenu.SetTooltip(i18n.T("tray_mode_select"))
		t.modeStt.SetTitle(i18n.T("tray_mode_stt"))
		t.modeStt.SetTooltip(i18n.T("tray_mode_stt_hint"))
		t.modeAssist.SetTitle(i18n.T("tray_mode_assistant"))
		t.modeAssist.SetTooltip(i18n.T("tray_mode_assistant_hint"))
	}
	if t.checkLLMBtn != nil {
		t.checkLLMBtn.SetTitle(i18n.T("tray_check_llm"))
		t.checkLLMBtn.SetTooltip(i18n.T("tray_check_llm_hint"))
	}
	if t.langMenu != nil {
		t.langMenu.SetTitle(i18n.T("tray_ui_language"))
		t.langMenu.SetTooltip(i18n.T("tray_ui_language_hint"))
		for lang, item := range t.langItems {
			if lang == i18n.GetLanguage() {
				item.Check()
			} else {
				item.Uncheck()
			}
		}
	}
	if t.notifyOn != nil {
		t.notifyOn.SetTitle(i18n.T("tray_notifications"))
		t.notifyOn.SetTooltip(i18n.T("tray_notifications_hint"))
	}
	if t.soundsOn != nil {
		t.soundsOn.SetTitle(i18n.T("tray_sound_cues"))
		t.soundsOn.SetTooltip(i18n.T("tray_sound_cues_hint"))
	}
	if t.quitBtn != nil {
		t.quitBtn.SetTitle(i18n.T("tray_quit"))
		t.quitBtn.SetTooltip(i18n.T("tray_quit_hint"))
	}
}

func (t *Tray) onExit() {
	// Cleanup при выходе
}
