// Package hotkey описывает комбинации клавиш и сопоставление событий.
package hotkey

import (
	"fmt"
	"strings"

	"github.com/vcaesar/keycode"
)

// Spec - разобранная комбинация: флаги модификаторов и одна основная клавиша.
type Spec struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
	Key   string // канонический токен, например "space"
	Code  uint16 // код клавиши для низкоуровневого хука
}

// Event - нормализованное событие клавиатуры от слушателя.
// Флаги отражают состояние модификаторов после события.
type Event struct {
	Code  uint16
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
}

// Алиасы модификаторов, без учёта регистра.
var modifierAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"ctl":     "ctrl",
	"alt":     "alt",
	"option":  "alt",
	"opt":     "alt",
	"shift":   "shift",
	"meta":    "meta",
	"super":   "meta",
	"win":     "meta",
	"cmd":     "meta",
	"command": "meta",
}

// Parse разбирает строку вида "ctrl+shift+space".
// Токены разделяются "+", регистр и порядок не важны. Ровно одна
// основная клавиша обязательна; ошибка возвращается при разборе
// конфигурации, а не при сопоставлении.
func Parse(s string) (Spec, error) {
	var spec Spec

	for _, raw := range strings.Split(s, "+") {
		token := strings.ToLower(strings.TrimSpace(raw))
		if token == "" {
			continue
		}

		if mod, ok := modifierAliases[token]; ok {
			switch mod {
			case "ctrl":
				spec.Ctrl = true
			case "alt":
				spec.Alt = true
			case "shift":
				spec.Shift = true
			case "meta":
				spec.Meta = true
			}
			continue
		}

		if spec.Key != "" {
			return Spec{}, fmt.Errorf("комбинация %q содержит две основные клавиши: %q и %q", s, spec.Key, token)
		}

		code, ok := keycode.Keycode[token]
		if !ok {
			return Spec{}, fmt.Errorf("неизвестная клавиша %q в комбинации %q", token, s)
		}
		spec.Key = token
		spec.Code = code
	}

	if spec.Key == "" {
		return Spec{}, fmt.Errorf("комбинация %q не содержит основной клавиши", s)
	}
	return spec, nil
}

// String возвращает каноническую запись комбинации.
func (s Spec) String() string {
	parts := make([]string, 0, 5)
	if s.Ctrl {
		parts = append(parts, "ctrl")
	}
	if s.Alt {
		parts = append(parts, "alt")
	}
	if s.Shift {
		parts = append(parts, "shift")
	}
	if s.Meta {
		parts = append(parts, "meta")
	}
	parts = append(parts, s.Key)
	return strings.Join(parts, "+")
}

// MatchesPress сообщает, начинает ли нажатие удержание для spec.
// Основная клавиша должна совпасть, все требуемые модификаторы должны
// быть зажаты; лишние модификаторы игнорируются.
func MatchesPress(ev Event, spec Spec) bool {
	if ev.Code != spec.Code {
		return false
	}
	if spec.Ctrl && !ev.Ctrl {
		return false
	}
	if spec.Alt && !ev.Alt {
		return false
	}
	if spec.Shift && !ev.Shift {
		return false
	}
	if spec.Meta && !ev.Meta {
		return false
	}
	return true
}

// EndsHold сообщает, завершает ли отпускание активное удержание.
// Удержание заканчивается при отпускании основной клавиши ЛИБО любого
// требуемого модификатора - иначе удержание "залипнет", если
// пользователь отпустит модификаторы раньше основной клавиши.
func EndsHold(ev Event, spec Spec) bool {
	if ev.Code == spec.Code {
		return true
	}
	if spec.Ctrl && !ev.Ctrl {
		return true
	}
	if spec.Alt && !ev.Alt {
		return true
	}
	if spec.Shift && !ev.Shift {
		return true
	}
	if spec.Meta && !ev.Meta {
		return true
	}
	return false
}
