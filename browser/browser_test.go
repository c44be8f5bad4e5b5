package browser

import "testing"

func TestFlagsIncludeSessionSettings(t *testing.T) {
	f := flags(DefaultOptions())

	for _, name := range []string{"start-maximized", "disable-notifications", "disable-popup-blocking"} {
		if f[name] != true {
			t.Errorf("expected %s to be set, got %v", name, f[name])
		}
	}
	if f["lang"] != "vi" {
		t.Errorf("expected lang=vi, got %v", f["lang"])
	}
	if _, ok := f["headless"]; ok {
		t.Error("default session should not be headless")
	}
}

func TestFlagsHeadless(t *testing.T) {
	f := flags(Options{Headless: true})
	if f["headless"] != "new" {
		t.Errorf("expected new headless mode, got %v", f["headless"])
	}
	if _, ok := f["lang"]; ok {
		t.Error("lang should be omitted when no language is configured")
	}
}

func TestAcceptLanguage(t *testing.T) {
	tests := []struct {
		lang, want string
	}{
		{"", ""},
		{"vi", "vi-VN,vi;q=0.9,en-US;q=0.6,en;q=0.4"},
		{"fr", "fr,en;q=0.5"},
	}
	for _, tt := range tests {
		if got := acceptLanguage(tt.lang); got != tt.want {
			t.Errorf("acceptLanguage(%q) = %q, want %q", tt.lang, got, tt.want)
		}
	}
}
