package hotkey

import "testing"

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"ctrl+shift+space", "ctrl+shift+space"},
		{"SHIFT+CTRL+SPACE", "ctrl+shift+space"},
		{" Ctrl + Space ", "ctrl+space"},
		{"super+m", "meta+m"},
		{"cmd+alt+v", "alt+meta+v"},
		{"option+f2", "alt+f2"},
		{"f12", "f12"},
	}

	for _, tt := range tests {
		spec, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if got := spec.String(); got != tt.want {
			t.Errorf("Parse(%q) = %q, ожидалось %q", tt.in, got, tt.want)
		}
		if spec.Code == 0 {
			t.Errorf("Parse(%q): нулевой код клавиши", tt.in)
		}
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"",
		"ctrl+shift",     // нет основной клавиши
		"ctrl+a+b",       // две основные
		"ctrl+nosuchkey", // неизвестный токен
		"+++",
	} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q): ожидалась ошибка", in)
		}
	}
}

func TestMatchesPress(t *testing.T) {
	t.Parallel()

	spec, err := Parse("ctrl+shift+space")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		ev   Event
		want bool
	}{
		{"все модификаторы", Event{Code: spec.Code, Ctrl: true, Shift: true}, true},
		{"лишний модификатор игнорируется", Event{Code: spec.Code, Ctrl: true, Shift: true, Alt: true}, true},
		{"нет ctrl", Event{Code: spec.Code, Shift: true}, false},
		{"нет shift", Event{Code: spec.Code, Ctrl: true}, false},
		{"другая клавиша", Event{Code: spec.Code + 1, Ctrl: true, Shift: true}, false},
	}

	for _, tt := range tests {
		if got := MatchesPress(tt.ev, spec); got != tt.want {
			t.Errorf("%s: MatchesPress = %v, ожидалось %v", tt.name, got, tt.want)
		}
	}
}

func TestEndsHold(t *testing.T) {
	t.Parallel()

	spec, err := Parse("ctrl+shift+space")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		ev   Event
		want bool
	}{
		{"отпущена основная клавиша", Event{Code: spec.Code, Ctrl: true, Shift: true}, true},
		{"отпущен ctrl", Event{Code: 0xFFFF, Shift: true}, true},
		{"отпущен shift", Event{Code: 0xFFFF, Ctrl: true}, true},
		{"посторонняя клавиша, модификаторы на месте", Event{Code: 0xFFFF, Ctrl: true, Shift: true}, false},
	}

	for _, tt := range tests {
		if got := EndsHold(tt.ev, spec); got != tt.want {
			t.Errorf("%s: EndsHold = %v, ожидалось %v", tt.name, got, tt.want)
		}
	}
}

func TestEndsHoldWithoutModifiers(t *testing.T) {
	t.Parallel()

	spec, err := Parse("f9")
	if err != nil {
		t.Fatal(err)
	}

	// Без требуемых модификаторов удержание завершает только сама клавиша.
	if EndsHold(Event{Code: 0xFFFF}, spec) {
		t.Error("посторонняя клавиша не должна завершать удержание")
	}
	if !EndsHold(Event{Code: spec.Code}, spec) {
		t.Error("отпускание основной клавиши должно завершать удержание")
	}
}
