// Package app содержит основную логику приложения.
package app

import (
	"log"
	"sync"

	"kol/internal/channel"
	"kol/internal/config"
	"kol/internal/deliver"
	"kol/internal/hotkey"
	"kol/internal/i18n"
	"kol/internal/listener"
	"kol/internal/mode"
	"kol/internal/notify"
	"kol/internal/session"
	"kol/internal/sound"
	"kol/internal/tray"
	"kol/internal/worker"
)

// App представляет главное приложение.
type App struct {
	config     *config.Config
	supervisor *worker.Supervisor
	client     *channel.Client
	session    *session.Controller
	modes      *mode.Controller
	notifier   *notify.Notifier
	cues       *sound.Cues
	paster     *deliver.Paster
	tray       *tray.Tray
	listener   *listener.Listener

	mu           sync.Mutex
	fallback     *hotkey.Fallback
	fallbackHeld bool // press-only режим: нажатие переключает удержание
}

// New создаёт новое приложение.
func New(cfg *config.Config) (*App, error) {
	// Инициализируем язык интерфейса из конфига
	if uiLang := cfg.UILanguage(); uiLang != "" {
		i18n.SetLanguage(i18n.Language(uiLang))
	}

	paster, err := deliver.New()
	if err != nil {
		return nil, err
	}

	app := &App{
		config:   cfg,
		notifier: notify.New(cfg.NotificationsEnabled()),
		cues:     sound.New(cfg.SoundCuesEnabled()),
		paster:   paster,
	}

	app.modes = mode.Load(mode.DefaultPath(), mode.Mode(cfg.DefaultMode()))

	app.tray = tray.New(tray.Callbacks{
		OnModeSelect:          app.selectMode,
		OnCheckLLM:            app.checkLLM,
		OnNotificationsToggle: app.toggleNotifications,
		OnSoundCuesToggle:     app.toggleSoundCues,
		OnLanguageSelect:      app.selectLanguage,
		OnQuit:                app.Close,
	}, cfg.NotificationsEnabled(), cfg.SoundCuesEnabled())

	app.modes.OnChange(func(m mode.Mode) {
		app.tray.SetMode(m)
		if m == mode.Assistant {
			app.notifier.Info(i18n.T("notify_mode_assistant"))
		} else {
			app.notifier.Info(i18n.T("notify_mode_stt"))
		}
	})
	app.modes.OnNotice(func(key string) {
		app.notifier.Info(i18n.T(key))
	})

	// Воркер распознавания: завершение процесса запускает переподключение,
	// EnsureRunning при переподключении поднимет его заново.
	host, port := cfg.EndpointHostPort()
	wcfg := cfg.Worker()
	app.supervisor = worker.New(worker.Config{
		Command: wcfg.Command,
		Dir:     wcfg.Dir,
		Env: worker.Env{
			Host:        host,
			Port:        port,
			Model:       wcfg.Model,
			Device:      wcfg.Device,
			ComputeType: wcfg.ComputeType,
		},
	}, func(code int) {
		log.Printf("Сервис распознавания завершился с кодом %d", code)
		app.notifier.Info(i18n.T("notify_worker_exit"))
		app.client.Kick()
	})

	app.client = channel.New(cfg.Endpoint(), app.ensureWorker, app.onMessage, app.onChannelState)

	app.session = session.New(app.client, app.modes, app.cues, app.paster, app.notifier, app.tray)

	app.listener = listener.New(cfg.PTT(), cfg.ModeToggle(), listener.Callbacks{
		OnPressPTT:   app.session.OnPress,
		OnReleasePTT: app.session.OnRelease,
		OnToggleMode: app.toggleMode,
	})

	return app, nil
}

// Run запускает приложение. Блокирующая функция.
func (a *App) Run() {
	a.tray.Run(func() {
		a.tray.SetMode(a.modes.Current())
		a.tray.SetAssistantAvailable(a.modes.BackendAvailable())

		a.listener.Start(a.onHookLost)

		if err := a.ensureWorker(); err != nil {
			log.Printf("Ошибка запуска сервиса распознавания: %v", err)
			a.notifier.Error(i18n.T("error_worker_start"))
		}
		a.client.Connect()

		a.notifier.Ready()
		log.Println("Kol готов к работе")
	})
}

// Close останавливает все компоненты приложения.
func (a *App) Close() {
	a.listener.Stop()

	a.mu.Lock()
	fb := a.fallback
	a.fallback = nil
	a.mu.Unlock()
	if fb != nil {
		if err := fb.Unregister(); err != nil {
			log.Printf("Ошибка снятия горячей клавиши: %v", err)
		}
	}

	a.client.Close()
	a.supervisor.Stop()
}

// ensureWorker поднимает воркер если команда задана в конфиге.
// Пустая команда означает внешний сервис.
func (a *App) ensureWorker() error {
	if len(a.config.Worker().Command) == 0 {
		return nil
	}
	return a.supervisor.EnsureRunning()
}

func (a *App) onMessage(msg channel.Message) {
	// Доступность ассистента отражается в меню до обработки сессией.
	if msg.Type == channel.TypeLLMStatus && msg.Available != nil {
		a.tray.SetAssistantAvailable(*msg.Available)
	}
	a.session.OnMessage(msg)
}

func (a *App) onChannelState(s channel.State) {
	switch s {
	case channel.StateConnecting:
		a.tray.SetStatus(tray.StatusConnecting)
	case channel.StateConnected:
		a.tray.SetStatus(tray.StatusIdle)
		// Свежее подключение: уточняем доступность ассистента.
		if err := a.client.CheckLLM(); err != nil {
			log.Printf("Ошибка запроса доступности LLM: %v", err)
		}
	default:
		a.tray.SetStatus(tray.StatusDisconnected)
	}
}

func (a *App) selectMode(m mode.Mode) {
	if err := a.modes.Set(m); err != nil {
		log.Printf("Смена режима отклонена: %v", err)
		a.notifier.Info(i18n.T("notify_assistant_unavailable"))
	}
}

func (a *App) toggleMode() {
	if err := a.modes.Toggle(); err != nil {
		log.Printf("Смена режима отклонена: %v", err)
		a.notifier.Info(i18n.T("notify_assistant_unavailable"))
	}
}

func (a *App) checkLLM() {
	if err := a.client.CheckLLM(); err != nil {
		log.Printf("Ошибка запроса доступности LLM: %v", err)
		a.client.Kick()
	}
}

func (a *App) toggleNotifications() bool {
	enabled := a.config.ToggleNotifications()
	a.notifier.SetEnabled(enabled)
	return enabled
}

func (a *App) toggleSoundCues() bool {
	enabled := a.config.ToggleSoundCues()
	a.cues.SetEnabled(enabled)
	return enabled
}

func (a *App) selectLanguage(lang i18n.Language) {
	i18n.SetLanguage(lang)
	a.config.SetUILanguage(string(lang))
	a.tray.RefreshUI()
	log.Printf("Язык интерфейса переключён: %s", i18n.LanguageName(lang))
}

// onHookLost вызывается когда перехват клавиатуры перестал работать.
// Приложение переходит на упрощённый режим: глобальная горячая клавиша
// без отслеживания отпускания, нажатие переключает удержание.
func (a *App) onHookLost() {
	log.Println("Перехват клавиатуры потерян, переключаюсь на упрощённый режим")
	a.notifier.Info(i18n.T("notify_hook_fallback"))

	fb := hotkey.NewFallback(func() {
		a.mu.Lock()
		a.fallbackHeld = !a.fallbackHeld
		held := a.fallbackHeld
		a.mu.Unlock()
		if held {
			a.session.OnPress()
		} else {
			a.session.OnRelease()
		}
	})

	a.mu.Lock()
	a.fallback = fb
	a.mu.Unlock()

	if err := fb.Register(a.config.PTT()); err != nil {
		log.Printf("Ошибка регистрации горячей клавиши: %v", err)
		a.notifier.Error(i18n.T("error_hotkey_register"))
	}
}
