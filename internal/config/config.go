// Package config предоставляет конфигурацию приложения с сохранением в файл.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"kol/internal/hotkey"
)

// Значения по умолчанию.
const (
	DefaultHotkey     = "ctrl+shift+space"
	DefaultModeHotkey = "ctrl+shift+m"
	DefaultEndpoint   = "ws://127.0.0.1:8765"
	DefaultMode       = "stt"

	// defaultWorkerScript ищется рядом с бинарником, когда команда
	// воркера не задана явно.
	defaultWorkerScript = "ws_server.py"
)

// WorkerConfig хранит настройки запуска сервиса распознавания.
type WorkerConfig struct {
	Command     []string `json:"command,omitempty"`
	Dir         string   `json:"dir,omitempty"`
	Model       string   `json:"model,omitempty"`
	Device      string   `json:"device,omitempty"`
	ComputeType string   `json:"compute_type,omitempty"`
}

// configData структура для сериализации.
type configData struct {
	Hotkey        string       `json:"hotkey"`
	ModeHotkey    string       `json:"mode_hotkey"`
	Endpoint      string       `json:"endpoint"`
	DefaultMode   string       `json:"default_mode,omitempty"`
	UILanguage    string       `json:"ui_language,omitempty"`
	Notifications *bool        `json:"notifications,omitempty"`
	SoundCues     *bool        `json:"sound_cues,omitempty"`
	Worker        WorkerConfig `json:"worker,omitempty"`
}

// Config хранит настройки приложения.
type Config struct {
	mu            sync.RWMutex
	hotkeyRaw     string
	modeHotkeyRaw string
	ptt           hotkey.Spec
	modeToggle    hotkey.Spec
	endpoint      string
	defaultMode   string
	uiLanguage    string
	notifications bool
	soundCues     bool
	worker        WorkerConfig // задано файлом/окружением, сохраняется как есть
	workerDefault WorkerConfig // подставленный ws_server.py, не сохраняется
	configPath    string
}

// New создаёт конфигурацию: значения по умолчанию, затем файл, затем
// переменные окружения. Ошибка возвращается только если горячие клавиши
// не удалось разобрать.
func New(path string) (*Config, error) {
	c := &Config{
		hotkeyRaw:     DefaultHotkey,
		modeHotkeyRaw: DefaultModeHotkey,
		endpoint:      DefaultEndpoint,
		defaultMode:   DefaultMode,
		uiLanguage:    "ru", // По умолчанию русский интерфейс
		notifications: true,
		soundCues:     true,
		configPath:    path,
	}

	c.load()
	c.applyEnv()
	if len(c.worker.Command) == 0 {
		c.resolveWorkerDefault()
	}

	var err error
	if c.ptt, err = hotkey.Parse(c.hotkeyRaw); err != nil {
		return nil, fmt.Errorf("горячая клавиша %q: %w", c.hotkeyRaw, err)
	}
	if c.modeToggle, err = hotkey.Parse(c.modeHotkeyRaw); err != nil {
		return nil, fmt.Errorf("клавиша смены режима %q: %w", c.modeHotkeyRaw, err)
	}
	if c.defaultMode != "stt" && c.defaultMode != "assistant" {
		return nil, fmt.Errorf("неизвестный режим по умолчанию %q", c.defaultMode)
	}
	if _, _, err := endpointHostPort(c.endpoint); err != nil {
		return nil, err
	}

	return c, nil
}

// DefaultPath возвращает путь к config.json рядом с бинарником.
func DefaultPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	// Резолвим симлинки
	if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = resolved
	}
	return filepath.Join(filepath.Dir(execPath), "config.json")
}

// load загружает конфигурацию из файла.
func (c *Config) load() {
	if c.configPath == "" {
		return
	}

	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return // Файл не существует, используем defaults
	}

	var cfg configData
	if err := json.Unmarshal(data, &cfg); err != nil {
		return
	}

	if cfg.Hotkey != "" {
		c.hotkeyRaw = cfg.Hotkey
	}
	if cfg.ModeHotkey != "" {
		c.modeHotkeyRaw = cfg.ModeHotkey
	}
	if cfg.Endpoint != "" {
		c.endpoint = cfg.Endpoint
	}
	if cfg.DefaultMode != "" {
		c.defaultMode = cfg.DefaultMode
	}
	if cfg.UILanguage != "" {
		c.uiLanguage = cfg.UILanguage
	}
	if cfg.Notifications != nil {
		c.notifications = *cfg.Notifications
	}
	if cfg.SoundCues != nil {
		c.soundCues = *cfg.SoundCues
	}
	c.worker = cfg.Worker
}

// applyEnv накладывает переменные окружения поверх файла.
func (c *Config) applyEnv() {
	if v := os.Getenv("KOL_HOTKEY"); v != "" {
		c.hotkeyRaw = v
	}
	if v := os.Getenv("KOL_MODE_HOTKEY"); v != "" {
		c.modeHotkeyRaw = v
	}
	if v := os.Getenv("KOL_ENDPOINT"); v != "" {
		c.endpoint = v
	}
	if v := os.Getenv("KOL_DEFAULT_MODE"); v != "" {
		c.defaultMode = v
	}
	if v := os.Getenv("KOL_UI_LANG"); v != "" {
		c.uiLanguage = v
	}
	if v := os.Getenv("KOL_NOTIFICATIONS"); v != "" {
		c.notifications = v != "0" && v != "false"
	}
	if v := os.Getenv("KOL_SOUND_CUES"); v != "" {
		c.soundCues = v != "0" && v != "false"
	}
	if v := os.Getenv("KOL_WORKER_CMD"); v != "" {
		c.worker.Command = strings.Fields(v)
	}
	if v := os.Getenv("WHISPER_MODEL"); v != "" {
		c.worker.Model = v
	}
	if v := os.Getenv("WHISPER_DEVICE"); v != "" {
		c.worker.Device = v
	}
	if v := os.Getenv("WHISPER_COMPUTE_TYPE"); v != "" {
		c.worker.ComputeType = v
	}
}

// resolveWorkerDefault подставляет команду по умолчанию: ws_server.py в
// директории приложения (рядом с config.json) запускается через python.
// Скрипта нет - команда остаётся пустой, воркер считается внешним сервисом.
func (c *Config) resolveWorkerDefault() {
	if c.configPath == "" {
		return
	}

	dir := filepath.Dir(c.configPath)
	script := filepath.Join(dir, defaultWorkerScript)
	if _, err := os.Stat(script); err != nil {
		return
	}

	c.workerDefault = WorkerConfig{
		Command: []string{pythonExecutable(), script},
		Dir:     dir,
	}
}

func pythonExecutable() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}

// save сохраняет конфигурацию в файл.
func (c *Config) save() {
	if c.configPath == "" {
		return
	}

	cfg := configData{
		Hotkey:        c.hotkeyRaw,
		ModeHotkey:    c.modeHotkeyRaw,
		Endpoint:      c.endpoint,
		DefaultMode:   c.defaultMode,
		UILanguage:    c.uiLanguage,
		Notifications: &c.notifications,
		SoundCues:     &c.soundCues,
		Worker:        c.worker,
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return
	}

	os.WriteFile(c.configPath, data, 0644)
}

// PTT возвращает горячую клавишу удержания.
func (c *Config) PTT() hotkey.Spec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ptt
}

// ModeToggle возвращает клавишу переключения режима.
func (c *Config) ModeToggle() hotkey.Spec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.modeToggle
}

// Endpoint возвращает адрес WebSocket сервиса распознавания.
func (c *Config) Endpoint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.endpoint
}

// EndpointHostPort возвращает хост и порт сервиса для окружения воркера.
func (c *Config) EndpointHostPort() (host, port string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	host, port, _ = endpointHostPort(c.endpoint)
	return host, port
}

func endpointHostPort(endpoint string) (host, port string, err error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", "", fmt.Errorf("некорректный адрес сервиса %q", endpoint)
	}
	host = u.Hostname()
	port = u.Port()
	if port == "" {
		port = "8765"
	}
	return host, port, nil
}

// DefaultMode возвращает режим работы по умолчанию.
func (c *Config) DefaultMode() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultMode
}

// UILanguage возвращает язык интерфейса.
func (c *Config) UILanguage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.uiLanguage
}

// Worker возвращает настройки запуска сервиса распознавания. Явная
// команда из файла или окружения перекрывает найденный ws_server.py;
// пустая команда в обоих случаях означает внешний сервис.
func (c *Config) Worker() WorkerConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	w := c.worker
	if len(w.Command) == 0 && len(c.workerDefault.Command) > 0 {
		w.Command = c.workerDefault.Command
		if w.Dir == "" {
			w.Dir = c.workerDefault.Dir
		}
	}
	return w
}

// NotificationsEnabled возвращает true если уведомления включены.
func (c *Config) NotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.notifications
}

// ToggleNotifications переключает состояние уведомлений.
func (c *Config) ToggleNotifications() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = !c.notifications
	c.save()
	return c.notifications
}

// SoundCuesEnabled возвращает true если звуковые сигналы включены.
func (c *Config) SoundCuesEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.soundCues
}

// ToggleSoundCues переключает звуковые сигналы.
func (c *Config) ToggleSoundCues() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.soundCues = !c.soundCues
	c.save()
	return c.soundCues
}

// SetUILanguage устанавливает язык интерфейса.
func (c *Config) SetUILanguage(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uiLanguage = lang
	c.save()
}
