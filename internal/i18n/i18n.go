// Package i18n provides internationalization support.
package i18n

import "sync"

// Language represents a UI language.
type Language string

const (
	RU Language = "ru"
	EN Language = "en"
)

var (
	mu      sync.RWMutex
	current = RU // Default language
)

// Translations for all supported languages.
var translations = map[Language]map[string]string{
	RU: {
		// App
		"app_name":    "Kol",
		"app_tooltip": "Kol - голосовой ввод",

		// Tray menu
		"tray_disconnected":        "Нет связи с сервисом",
		"tray_connecting":          "Подключение...",
		"tray_ready":               "Готов к работе",
		"tray_listening":           "Запись...",
		"tray_transcribing":        "Распознавание...",
		"tray_thinking":            "Ассистент думает...",
		"tray_speaking":            "Ассистент отвечает...",
		"tray_mode":                "Режим",
		"tray_mode_select":         "Выбор режима работы",
		"tray_mode_stt":            "Диктовка",
		"tray_mode_stt_hint":       "Распознанный текст вставляется в активное окно",
		"tray_mode_assistant":      "Ассистент",
		"tray_mode_assistant_hint": "Ответ языковой модели на сказанное",
		"tray_check_llm":           "Проверить ассистента",
		"tray_check_llm_hint":      "Запросить доступность языковой модели",
		"tray_ui_language":         "Язык интерфейса",
		"tray_ui_language_hint":    "Язык меню и уведомлений",
		"tray_notifications":       "Уведомления",
		"tray_notifications_hint":  "Показывать уведомления",
		"tray_sound_cues":          "Звуковые сигналы",
		"tray_sound_cues_hint":     "Сигналы начала и конца записи",
		"tray_quit":                "Выход",
		"tray_quit_hint":           "Закрыть приложение",

		// Notifications
		"notify_ready":                 "Kol готов к работе",
		"notify_error":                 "Ошибка",
		"notify_not_ready":             "Сервис распознавания недоступен, подключаюсь...",
		"notify_delivery_failed":       "Не удалось вставить текст",
		"notify_assistant_lost":        "Языковая модель недоступна, переключаюсь на диктовку",
		"notify_assistant_restored":    "Языковая модель снова доступна",
		"notify_assistant_unavailable": "Ассистент недоступен",
		"notify_worker_exit":           "Сервис распознавания завершился, перезапускаю",
		"notify_hook_fallback":         "Не удалось перехватить клавиатуру, работает упрощённый режим",
		"notify_mode_stt":              "Режим: диктовка",
		"notify_mode_assistant":        "Режим: ассистент",

		// Errors
		"error_config":          "Ошибка конфигурации",
		"error_hotkey_parse":    "Не удалось разобрать горячую клавишу",
		"error_hotkey_register": "Не удалось зарегистрировать горячую клавишу",
		"error_worker_start":    "Не удалось запустить сервис распознавания",
		"error_clipboard":       "Ошибка копирования в буфер обмена",
	},

	EN: {
		// App
		"app_name":    "Kol",
		"app_tooltip": "Kol - voice input",

		// Tray menu
		"tray_disconnected":        "Service unavailable",
		"tray_connecting":          "Connecting...",
		"tray_ready":               "Ready",
		"tray_listening":           "Recording...",
		"tray_transcribing":        "Transcribing...",
		"tray_thinking":            "Assistant is thinking...",
		"tray_speaking":            "Assistant is replying...",
		"tray_mode":                "Mode",
		"tray_mode_select":         "Select working mode",
		"tray_mode_stt":            "Dictation",
		"tray_mode_stt_hint":       "Recognized text is typed into the active window",
		"tray_mode_assistant":      "Assistant",
		"tray_mode_assistant_hint": "Language model reply to what was said",
		"tray_check_llm":           "Check assistant",
		"tray_check_llm_hint":      "Query language model availability",
		"tray_ui_language":         "Interface language",
		"tray_ui_language_hint":    "Language of menus and notifications",
		"tray_notifications":       "Notifications",
		"tray_notifications_hint":  "Show notifications",
		"tray_sound_cues":          "Sound cues",
		"tray_sound_cues_hint":     "Beeps at start and end of recording",
		"tray_quit":                "Quit",
		"tray_quit_hint":           "Close application",

		// Notifications
		"notify_ready":                 "Kol is ready",
		"notify_error":                 "Error",
		"notify_not_ready":             "Recognition service unavailable, reconnecting...",
		"notify_delivery_failed":       "Could not paste text",
		"notify_assistant_lost":        "Language model unavailable, switching to dictation",
		"notify_assistant_restored":    "Language model is available again",
		"notify_assistant_unavailable": "Assistant unavailable",
		"notify_worker_exit":           "Recognition service exited, restarting",
		"notify_hook_fallback":         "Could not hook the keyboard, running in simplified mode",
		"notify_mode_stt":              "Mode: dictation",
		"notify_mode_assistant":        "Mode: assistant",

		// Errors
		"error_config":          "Configuration error",
		"error_hotkey_parse":    "Could not parse hotkey",
		"error_hotkey_register": "Could not register hotkey",
		"error_worker_start":    "Could not start recognition service",
		"error_clipboard":       "Clipboard copy error",
	},
}

// T returns the translation for the given key.
func T(key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if strings, ok := translations[current]; ok {
		if s, ok := strings[key]; ok {
			return s
		}
	}
	// Fallback to key itself
	return key
}

// SetLanguage sets the current UI language.
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	current = lang
}

// GetLanguage returns the current UI language.
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// AvailableLanguages returns list of supported languages.
func AvailableLanguages() []Language {
	return []Language{RU, EN}
}

// LanguageName returns display name for a language.
func LanguageName(lang Language) string {
	switch lang {
	case RU:
		return "Русский"
	case EN:
		return "English"
	default:
		return string(lang)
	}
}
