// Package worker управляет жизненным циклом процесса распознавания.
package worker

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"sync"
)

// Env - переменные окружения воркера, накладываются поверх
// унаследованного окружения.
type Env struct {
	Host        string // LOCAL_WHISPER_HOST
	Port        string // LOCAL_WHISPER_PORT
	Model       string // WHISPER_MODEL
	Device      string // WHISPER_DEVICE
	ComputeType string // WHISPER_COMPUTE_TYPE
}

// Config - параметры запуска воркера.
type Config struct {
	Command []string // argv; первый элемент - исполняемый файл
	Dir     string   // рабочая директория - корень приложения
	Env     Env
}

// Supervisor следит за тем, чтобы процесс воркера был запущен, когда он
// нужен. Процесс завершает только Supervisor; перезапуск после выхода
// идёт через общий цикл переподключения канала, а не напрямую.
type Supervisor struct {
	cfg    Config
	onExit func(code int)

	mu  sync.Mutex
	cmd *exec.Cmd
}

// New создаёт супервизор. onExit вызывается при каждом завершении
// процесса с его кодом выхода.
func New(cfg Config, onExit func(code int)) *Supervisor {
	return &Supervisor{cfg: cfg, onExit: onExit}
}

// EnsureRunning запускает воркер, если он ещё не запущен. Повторный
// вызов при живом процессе ничего не делает.
func (s *Supervisor) EnsureRunning() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return nil
	}
	if len(s.cfg.Command) == 0 {
		return fmt.Errorf("команда запуска воркера не задана")
	}

	cmd := exec.Command(s.cfg.Command[0], s.cfg.Command[1:]...)
	cmd.Dir = s.cfg.Dir
	cmd.Env = BuildEnv(os.Environ(), s.cfg.Env)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("не удалось запустить воркер %q: %w", s.cfg.Command[0], err)
	}

	log.Printf("Воркер запущен: %v (pid %d)", s.cfg.Command, cmd.Process.Pid)
	s.cmd = cmd
	go s.wait(cmd)
	return nil
}

// Running сообщает, жив ли процесс.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmd != nil
}

// Stop завершает процесс воркера при выключении приложения.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	cmd := s.cmd
	s.cmd = nil
	s.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		cmd.Process.Kill()
	}
}

func (s *Supervisor) wait(cmd *exec.Cmd) {
	err := cmd.Wait()

	code := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		code = exitErr.ExitCode()
	} else if err != nil {
		code = -1
	}

	s.mu.Lock()
	stopped := s.cmd == nil // Stop() уже очистил дескриптор
	if s.cmd == cmd {
		s.cmd = nil
	}
	s.mu.Unlock()

	if stopped {
		return
	}

	log.Printf("Воркер завершился с кодом %d", code)
	if s.onExit != nil {
		s.onExit(code)
	}
}

// BuildEnv накладывает переменные воркера поверх базового окружения.
// Пустые значения не переопределяют унаследованные.
func BuildEnv(base []string, env Env) []string {
	out := append([]string(nil), base...)

	set := func(key, value string) {
		if value == "" {
			return
		}
		out = append(out, key+"="+value)
	}

	set("LOCAL_WHISPER_HOST", env.Host)
	set("LOCAL_WHISPER_PORT", env.Port)
	set("WHISPER_MODEL", env.Model)
	set("WHISPER_DEVICE", env.Device)
	set("WHISPER_COMPUTE_TYPE", env.ComputeType)
	return out
}
