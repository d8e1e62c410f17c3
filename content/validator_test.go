package content

import (
	"strings"
	"testing"
)

func TestValidateLength(t *testing.T) {
	v := NewValidator(20, 5, 3)

	ok, _ := v.Validate("short and sweet")
	if !ok {
		t.Fatal("expected valid")
	}

	ok, problems := v.Validate(strings.Repeat("a", 21))
	if ok {
		t.Fatal("expected over-length text to fail")
	}
	if len(problems) != 1 || !strings.Contains(problems[0], "max length") {
		t.Fatalf("unexpected problems: %v", problems)
	}

	ok, _ = v.Validate("hey")
	if ok {
		t.Fatal("expected under-min text to fail")
	}
}

func TestValidateCountsRunesNotBytes(t *testing.T) {
	v := NewValidator(10, 0, 3)
	// 10 runes, 30 bytes
	ok, problems := v.Validate(strings.Repeat("界", 10))
	if !ok {
		t.Fatalf("10 runes should pass a 10-rune limit: %v", problems)
	}
}

func TestValidateEmpty(t *testing.T) {
	v := NewValidator(280, 0, 3)
	for _, text := range []string{"", "   ", "\n\t"} {
		if ok, _ := v.Validate(text); ok {
			t.Fatalf("expected %q to fail", text)
		}
	}
}

func TestValidateHashtags(t *testing.T) {
	v := NewValidator(280, 0, 2)

	if ok, _ := v.Validate("gm #pepe #pfp"); !ok {
		t.Fatal("two hashtags should pass")
	}
	ok, problems := v.Validate("gm #pepe #pfp #frog")
	if ok {
		t.Fatal("three hashtags should fail a 2-hashtag limit")
	}
	if !strings.Contains(problems[0], "hashtags") {
		t.Fatalf("unexpected problems: %v", problems)
	}
}

func TestValidateProhibited(t *testing.T) {
	v := NewValidator(280, 0, 3)

	cases := []string{
		"this will hit $5 by friday",
		"guaranteed gains frens",
		"100x gain incoming",
		"buy now before its too late",
	}
	for _, text := range cases {
		if ok, _ := v.Validate(text); ok {
			t.Errorf("expected %q to fail", text)
		}
	}
}

func TestValidateAccumulatesAllProblems(t *testing.T) {
	v := NewValidator(10, 0, 0)
	ok, problems := v.Validate("guaranteed moon #pepe very long text here")
	if ok {
		t.Fatal("expected invalid")
	}
	if len(problems) < 3 {
		t.Fatalf("expected length, hashtag and prohibited problems, got %v", problems)
	}
}

func TestSanitize(t *testing.T) {
	v := NewValidator(280, 0, 3)

	cases := []struct{ in, want string }{
		{`"wrapped in quotes"`, "wrapped in quotes"},
		{"'single quoted'", "single quoted"},
		{"<b>bold</b> move", "bold move"},
		{"frogs \U0001F438 everywhere \U0001F680", "frogs everywhere"},
		{"too   many    spaces", "too many spaces"},
		{"line\n\n\n\nbreaks", "line\n\nbreaks"},
		{"  padded  ", "padded"},
		{"a & b", "a & b"},
	}
	for _, c := range cases {
		if got := v.Sanitize(c.in); got != c.want {
			t.Errorf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	v := NewValidator(280, 0, 3)
	inputs := []string{
		`""nested quotes""`,
		"plain text already clean",
		"<script>alert(1)</script>gm",
		"mixed \U0001F438 'quotes' &amp; markup",
	}
	for _, in := range inputs {
		once := v.Sanitize(in)
		twice := v.Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
