// Package sound воспроизводит короткие звуковые сигналы сессии.
package sound

import (
	"log"

	"github.com/gen2brain/beeep"
)

const (
	startFreq    = 880.0
	endFreq      = 440.0
	beepDuration = 120 // мс
)

// Cues подаёт сигналы начала удержания и конца оборота.
type Cues struct {
	enabled bool
}

// New создаёт Cues.
func New(enabled bool) *Cues {
	return &Cues{enabled: enabled}
}

// SetEnabled включает/выключает звуковые сигналы.
func (c *Cues) SetEnabled(enabled bool) {
	c.enabled = enabled
}

// Start сигнализирует начало удержания.
func (c *Cues) Start() {
	c.play(startFreq)
}

// EndOfTurn сигнализирует завершение оборота.
func (c *Cues) EndOfTurn() {
	c.play(endFreq)
}

func (c *Cues) play(freq float64) {
	if !c.enabled {
		return
	}
	// Сигнал не должен задерживать обработку событий.
	go func() {
		if err := beeep.Beep(freq, beepDuration); err != nil {
			log.Printf("Ошибка звукового сигнала: %v", err)
		}
	}()
}
