package content

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	hashtagRe    = regexp.MustCompile(`#\w+`)
	newlineRunRe = regexp.MustCompile(`\n{3,}`)
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)

	// Patterns a post must never contain. Checked case-insensitively,
	// all matches are reported, none short-circuits.
	prohibitedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(fuck|shit|damn)\b`),
		regexp.MustCompile(`(?i)\b(buy|sell|moon|wen)\s+(now|immediately)\b`),
		regexp.MustCompile(`(?i)will\s+(hit|reach|go\s+to)\s+\$\d+`),
		regexp.MustCompile(`(?i)\d+x\s+(gain|profit|return)`),
		regexp.MustCompile(`(?i)guaranteed|promise|definitely will`),
	}
)

// Validator applies the static posting rules to candidate text.
type Validator struct {
	MaxLength   int
	MinLength   int // 0 disables the minimum check
	MaxHashtags int

	policy *bluemonday.Policy
}

// NewValidator builds a validator with the given limits.
func NewValidator(maxLength, minLength, maxHashtags int) *Validator {
	return &Validator{
		MaxLength:   maxLength,
		MinLength:   minLength,
		MaxHashtags: maxHashtags,
		policy:      bluemonday.StrictPolicy(),
	}
}

// Validate runs every rule and accumulates all failures. Rune count is what
// the platform limits, not bytes.
func (v *Validator) Validate(text string) (bool, []string) {
	var problems []string

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		problems = append(problems, "content is empty")
	}

	if n := utf8.RuneCountInString(text); n > v.MaxLength {
		problems = append(problems, fmt.Sprintf("content exceeds max length: %d > %d", n, v.MaxLength))
	} else if v.MinLength > 0 && trimmed != "" && n < v.MinLength {
		problems = append(problems, fmt.Sprintf("content below min length: %d < %d", n, v.MinLength))
	}

	if n := len(hashtagRe.FindAllString(text, -1)); n > v.MaxHashtags {
		problems = append(problems, fmt.Sprintf("too many hashtags: %d > %d", n, v.MaxHashtags))
	}

	for _, re := range prohibitedPatterns {
		if re.MatchString(text) {
			problems = append(problems, fmt.Sprintf("content contains prohibited pattern: %s", re.String()))
		}
	}

	return len(problems) == 0, problems
}

// Sanitize strips markup, surrounding quotes, emoji and stray whitespace.
// Sanitize(Sanitize(x)) == Sanitize(x); callers re-validate afterwards because
// stripping can change the length.
func (v *Validator) Sanitize(text string) string {
	// bluemonday escapes &, < and > on the way out; unescape so the pass is idempotent
	out := html.UnescapeString(v.policy.Sanitize(text))

	out = strings.ReplaceAll(out, "\r", "")
	out = stripEmoji(out)

	for {
		trimmed := strings.TrimSpace(out)
		if len(trimmed) >= 2 && isQuotePair(trimmed[0], trimmed[len(trimmed)-1]) {
			out = trimmed[1 : len(trimmed)-1]
			continue
		}
		out = trimmed
		break
	}

	out = newlineRunRe.ReplaceAllString(out, "\n\n")
	out = spaceRunRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

func isQuotePair(first, last byte) bool {
	return (first == '"' && last == '"') || (first == '\'' && last == '\'')
}

// stripEmoji removes pictographic codepoints the model sometimes emits
// despite instructions.
func stripEmoji(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isEmojiRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF: // symbols and pictographs
		return true
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport and map
		return true
	case r >= 0x1F900 && r <= 0x1F9FF: // supplemental symbols
		return true
	case r >= 0x1FA00 && r <= 0x1FAFF: // extended pictographs
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols and dingbats
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators
		return true
	case r == 0xFE0F || r == 0x200D: // variation selector, zero-width joiner
		return true
	}
	return false
}
