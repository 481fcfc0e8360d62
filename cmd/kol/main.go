// Kol - кроссплатформенный оркестратор голосового ввода.
//
// Работает в системном трее, удержание горячей клавиши включает запись.
// Распознавание выполняет внешний сервис, связь через WebSocket.
package main

import (
	"log"
	"os"

	"kol/internal/app"
	"kol/internal/config"
	"kol/internal/dialog"
	"kol/internal/hotkey"
	"kol/internal/i18n"
)

// Version устанавливается при сборке через -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Printf("Kol %s запускается...", Version)

	// Запускаем в главном потоке (требование для macOS и некоторых GUI)
	hotkey.RunOnMainThread(run)
}

func run() {
	cfg, err := config.New(config.DefaultPath())
	if err != nil {
		log.Printf("Ошибка конфигурации: %v", err)
		dialog.ShowError(i18n.T("error_config"), err.Error())
		os.Exit(1)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Printf("Ошибка инициализации: %v", err)
		os.Exit(1)
	}

	log.Printf("Приложение запущено. Удерживайте %s для записи.", cfg.PTT())
	application.Run()
}
