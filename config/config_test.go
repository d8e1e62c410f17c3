package config

import (
	"strings"
	"testing"
)

func validConfig() AppConfig {
	c := AppConfig{
		GeminiAPIKey: "key",
		Debug:        true,
	}
	applyDefaults(&c)
	return c
}

func TestValidateOK(t *testing.T) {
	c := validConfig()
	if errs := c.Validate(); len(errs) != 0 {
		t.Fatalf("expected valid config, got %v", errs)
	}
}

func TestValidateMissingGeminiKey(t *testing.T) {
	c := validConfig()
	c.GeminiAPIKey = ""
	errs := c.Validate()
	if len(errs) == 0 || !strings.Contains(errs[0], "GEMINI_API_KEY") {
		t.Fatalf("expected gemini key error, got %v", errs)
	}
}

func TestValidateTwitterCredsRequiredOutsideDebug(t *testing.T) {
	c := validConfig()
	c.Debug = false
	errs := c.Validate()
	found := false
	for _, e := range errs {
		if strings.Contains(e, "twitter credentials") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected twitter credential error, got %v", errs)
	}

	c.TwitterClientID = "id"
	c.TwitterClientSecret = "secret"
	c.TwitterRefreshToken = "refresh"
	if errs := c.Validate(); len(errs) != 0 {
		t.Fatalf("refresh token should satisfy the credential check: %v", errs)
	}
}

func TestValidateIntervalOrdering(t *testing.T) {
	c := validConfig()
	c.PostIntervalMinutes = 30
	c.MinIntervalMinutes = 60
	errs := c.Validate()
	if len(errs) == 0 {
		t.Fatal("interval below minimum must fail")
	}

	c = validConfig()
	c.PostIntervalMinutes = 500
	if errs := c.Validate(); len(errs) == 0 {
		t.Fatal("interval above maximum must fail")
	}
}

func TestValidateDuplicateWindowBounds(t *testing.T) {
	for _, hours := range []int{12, 96} {
		c := validConfig()
		c.DuplicateWindowHours = hours
		if errs := c.Validate(); len(errs) == 0 {
			t.Fatalf("duplicate window %dh must fail", hours)
		}
	}
	for _, hours := range []int{24, 48, 72} {
		c := validConfig()
		c.DuplicateWindowHours = hours
		if errs := c.Validate(); len(errs) != 0 {
			t.Fatalf("duplicate window %dh should pass: %v", hours, errs)
		}
	}
}

func TestValidateQuietHoursPairing(t *testing.T) {
	c := validConfig()
	c.QuietHoursStart = 23
	c.QuietHoursEnd = -1
	if errs := c.Validate(); len(errs) == 0 {
		t.Fatal("half-set quiet hours must fail")
	}

	c = validConfig()
	c.QuietHoursStart = 23
	c.QuietHoursEnd = 6
	if errs := c.Validate(); len(errs) != 0 {
		t.Fatalf("paired quiet hours should pass: %v", errs)
	}

	c = validConfig()
	c.QuietHoursStart = 25
	c.QuietHoursEnd = 6
	if errs := c.Validate(); len(errs) == 0 {
		t.Fatal("hour above 23 must fail")
	}
}

func TestValidateAccumulatesAllProblems(t *testing.T) {
	c := AppConfig{QuietHoursStart: -1, QuietHoursEnd: -1}
	errs := c.Validate()
	if len(errs) < 4 {
		t.Fatalf("expected every problem reported at once, got %v", errs)
	}
}

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)
	if c.AppPort != "8080" || c.PostIntervalMinutes != 120 || c.MaxPostsPerHour != 5 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.MaxPostLength != 280 || c.DuplicateWindowHours != 48 || c.ThreadProbability != 0.2 {
		t.Fatalf("unexpected content defaults: %+v", c)
	}
	if c.GeminiModel == "" || c.DatabasePath == "" {
		t.Fatalf("model and db path must default: %+v", c)
	}
	if c.QuietHoursStart != -1 || c.QuietHoursEnd != -1 {
		t.Fatalf("quiet hours must default to disabled: %+v", c)
	}
}

func TestQuietHoursSingleOverrideFailsValidation(t *testing.T) {
	// One env var set without its partner must leave the other side at -1
	// so the pairing check fires instead of silently opening a 0-based window.
	c := validConfig()
	c.QuietHoursStart = 23
	errs := c.Validate()
	found := false
	for _, e := range errs {
		if strings.Contains(e, "set together") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected pairing error, got %v", errs)
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("splitAndTrim = %v", got)
	}
}
