// Package mode хранит режим работы и его привязку к доступности ассистента.
package mode

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Mode - режим работы.
type Mode string

const (
	// Transcribe - обычная диктовка, текст вставляется в активное окно.
	Transcribe Mode = "stt"
	// Assistant - голосовой ассистент, ответ озвучивает воркер.
	Assistant Mode = "assistant"
)

// Valid сообщает, известен ли режим.
func (m Mode) Valid() bool {
	return m == Transcribe || m == Assistant
}

// ErrAssistantUnavailable возвращается при попытке включить ассистента,
// когда воркер сообщил о его недоступности.
var ErrAssistantUnavailable = errors.New("ассистент недоступен")

// settingsData - единственное содержимое файла настроек.
type settingsData struct {
	Mode Mode `json:"mode"`
}

// Controller владеет режимом. Assistant допустим только пока воркер
// сообщает о доступности бэкенда; до первого сообщения бэкенд считается
// недоступным.
type Controller struct {
	mu        sync.Mutex
	current   Mode
	preferred Mode // сохранённое предпочтение пользователя
	available bool
	path      string
	onChange  func(Mode)
	onNotice  func(key string)
}

// Load создаёт контроллер, читая сохранённый режим из path.
// Отсутствие файла - не ошибка: берётся def. Текущий режим всегда
// начинается с Transcribe; сохранённое предпочтение Assistant
// восстановится при первом llm_status{available:true}.
func Load(path string, def Mode) *Controller {
	if !def.Valid() {
		def = Transcribe
	}

	c := &Controller{
		current:   Transcribe,
		preferred: def,
		path:      path,
	}

	data, err := os.ReadFile(path)
	if err == nil {
		var s settingsData
		if err := json.Unmarshal(data, &s); err == nil && s.Mode.Valid() {
			c.preferred = s.Mode
		}
	}

	return c
}

// OnChange устанавливает callback смены режима (обновление UI).
func (c *Controller) OnChange(fn func(Mode)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// OnNotice устанавливает callback пользовательских уведомлений;
// передаётся ключ i18n.
func (c *Controller) OnNotice(fn func(key string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onNotice = fn
}

// Current возвращает текущий режим.
func (c *Controller) Current() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// BackendAvailable сообщает, доступен ли ассистент по данным воркера.
func (c *Controller) BackendAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.available
}

// Set переключает режим. Повтор текущего режима - no-op. Переход в
// Assistant отклоняется, пока бэкенд недоступен. Успешная смена
// сохраняется на диск сразу.
func (c *Controller) Set(target Mode) error {
	if !target.Valid() {
		return fmt.Errorf("неизвестный режим %q", target)
	}

	c.mu.Lock()
	if target == c.current {
		// Явный выбор текущего режима всё равно фиксирует предпочтение,
		// иначе отложенное восстановление вернёт старый режим.
		if c.preferred != target {
			c.preferred = target
			c.saveLocked()
		}
		c.mu.Unlock()
		return nil
	}
	if target == Assistant && !c.available {
		c.mu.Unlock()
		return ErrAssistantUnavailable
	}

	c.current = target
	c.preferred = target
	c.saveLocked()
	onChange := c.onChange
	c.mu.Unlock()

	log.Printf("Режим переключён: %s", target)
	if onChange != nil {
		onChange(target)
	}
	return nil
}

// Toggle переключает на противоположный режим. Попытка уйти из
// Transcribe при недоступном бэкенде отклоняется сразу, а не
// откатывается молча.
func (c *Controller) Toggle() error {
	c.mu.Lock()
	target := Assistant
	if c.current == Assistant {
		target = Transcribe
	}
	c.mu.Unlock()

	return c.Set(target)
}

// SetBackendAvailable обрабатывает llm_status от воркера. Потеря
// бэкенда в режиме Assistant немедленно откатывает в Transcribe с
// уведомлением; восстановление возвращает сохранённое предпочтение.
func (c *Controller) SetBackendAvailable(available bool) {
	c.mu.Lock()
	c.available = available

	var (
		changed  Mode
		fire     bool
		notice   string
		onChange = c.onChange
		onNotice = c.onNotice
	)

	switch {
	case !available && c.current == Assistant:
		c.current = Transcribe
		c.preferred = Transcribe
		c.saveLocked()
		changed, fire = Transcribe, true
		notice = "notify_assistant_lost"
	case available && c.current == Transcribe && c.preferred == Assistant:
		c.current = Assistant
		changed, fire = Assistant, true
		notice = "notify_assistant_restored"
	}
	c.mu.Unlock()

	if fire {
		log.Printf("Режим изменён по доступности бэкенда: %s", changed)
		if onNotice != nil {
			onNotice(notice)
		}
		if onChange != nil {
			onChange(changed)
		}
	}
}

// saveLocked синхронно сохраняет режим. Вызывается под c.mu.
func (c *Controller) saveLocked() {
	if c.path == "" {
		return
	}

	data, err := json.MarshalIndent(settingsData{Mode: c.preferred}, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		log.Printf("Не удалось создать директорию настроек: %v", err)
		return
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		log.Printf("Не удалось сохранить настройки: %v", err)
	}
}

// DefaultPath возвращает путь файла настроек в пользовательской
// директории приложения.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "kol", "settings.json")
}
