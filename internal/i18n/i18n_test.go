package i18n

import "testing"

func TestRender(t *testing.T) {
	b, err := Load("ru")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	got := b.Render("en", "reminder_day_of", 2)
	want := "Today is cleaning day in campus <b>2</b>"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRender_FallsBackToDefaultLocale(t *testing.T) {
	b, err := Load("ru")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	got := b.Render("de", "reminder_day_before", 3)
	want := "Завтра уборка в кампусе <b>3</b>"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRender_MissingKeyReturnsKey(t *testing.T) {
	b, err := Load("en")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := b.Render("en", "no_such_key"); got != "no_such_key" {
		t.Fatalf("got %q", got)
	}
}

func TestLoad_UnknownDefaultLocale(t *testing.T) {
	if _, err := Load("xx"); err == nil {
		t.Fatal("want error for unknown default locale")
	}
}

func TestLocales(t *testing.T) {
	b, err := Load("en")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	locales := b.Locales()
	if len(locales) != 2 || locales[0] != "en" || locales[1] != "ru" {
		t.Fatalf("got %v", locales)
	}
}
