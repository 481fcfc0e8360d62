package i18n

import "testing"

func TestTranslationAndFallback(t *testing.T) {
	SetLanguage(RU)
	defer SetLanguage(RU)

	if got := T("tray_quit"); got != "Выход" {
		t.Errorf("T(tray_quit) = %q", got)
	}
	if got := T("no_such_key"); got != "no_such_key" {
		t.Errorf("неизвестный ключ должен возвращаться как есть, получено %q", got)
	}

	SetLanguage(EN)
	if got := T("tray_quit"); got != "Quit" {
		t.Errorf("T(tray_quit) после смены языка = %q", got)
	}
	if got := GetLanguage(); got != EN {
		t.Errorf("GetLanguage = %q", got)
	}
}

func TestAllLanguagesCoverSameKeys(t *testing.T) {
	langs := AvailableLanguages()
	if len(langs) < 2 {
		t.Fatalf("языков = %d", len(langs))
	}

	base := translations[langs[0]]
	for _, lang := range langs[1:] {
		other := translations[lang]
		for key := range base {
			if _, ok := other[key]; !ok {
				t.Errorf("ключ %q отсутствует в %q", key, lang)
			}
		}
		for key := range other {
			if _, ok := base[key]; !ok {
				t.Errorf("ключ %q отсутствует в %q", key, langs[0])
			}
		}
	}
}

func TestLanguageName(t *testing.T) {
	cases := []struct {
		lang Language
		want string
	}{
		{RU, "Русский"},
		{EN, "English"},
		{Language("xx"), "xx"},
	}
	for _, c := range cases {
		if got := LanguageName(c.lang); got != c.want {
			t.Errorf("LanguageName(%q) = %q, ожидалось %q", c.lang, got, c.want)
		}
	}
}
