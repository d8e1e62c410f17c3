package content

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/pfplabs/croaker/clients"
	"github.com/pfplabs/croaker/utils"
)

// TextGenerator is the LLM boundary.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string, maxTokens int, temperature float64) (string, error)
}

// PromptSource hands out the system prompt and a rotated user prompt for a
// content type.
type PromptSource interface {
	PromptFor(contentType string) (system, prompt string, err error)
}

// ContextProvider supplies the live market snapshot. Implementations degrade
// to an unfetched summary rather than failing.
type ContextProvider interface {
	ContextSummary(ctx context.Context) clients.Summary
}

// PriceGate throttles how often price action may be mentioned.
type PriceGate interface {
	CanMentionPrice() (bool, time.Duration)
	RecordPriceMention()
}

// GeneratorConfig bounds one generation run.
type GeneratorConfig struct {
	MaxAttempts    int
	MaxTokens      int
	Temperature    float64
	TokenSymbol    string
	PairAddress    string
	CriticEnabled  bool
	MaxThreadPosts int
}

// Generator turns a content type into publishable text: prompt selection,
// optional live-data enrichment, the LLM call, sanitize, validate, similarity
// guard, and an optional critic pass, retried within the attempt budget.
type Generator struct {
	llm       TextGenerator
	prompts   PromptSource
	live      ContextProvider
	priceGate PriceGate
	critic    *Critic
	validator *Validator
	cfg       GeneratorConfig

	mu     sync.Mutex
	recent []string // last accepted texts, similarity guard input
}

const recentTextLimit = 10

// NewGenerator wires the generation pipeline. live, priceGate and critic may
// be nil; the corresponding step is skipped.
func NewGenerator(llm TextGenerator, prompts PromptSource, validator *Validator, live ContextProvider, priceGate PriceGate, critic *Critic, cfg GeneratorConfig) *Generator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &Generator{
		llm:       llm,
		prompts:   prompts,
		live:      live,
		priceGate: priceGate,
		critic:    critic,
		validator: validator,
		cfg:       cfg,
	}
}

// Tweet produces one validated post for the content type.
func (g *Generator) Tweet(ctx context.Context, contentType string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		system, prompt, err := g.prompts.PromptFor(contentType)
		if err != nil {
			return "", err
		}
		prompt = g.enrichPrompt(ctx, contentType, prompt)

		raw, err := g.llm.Generate(ctx, system, prompt, g.cfg.MaxTokens, g.cfg.Temperature)
		if err != nil {
			if errors.Is(err, clients.ErrUnauthorized) {
				return "", err
			}
			lastErr = err
			continue
		}

		text := g.validator.Sanitize(raw)

		if g.isTooSimilar(text) {
			utils.Sugar.Debugw("candidate too similar to recent posts", "content_type", contentType, "attempt", attempt)
			lastErr = &ValidationError{Problems: []string{"too similar to recent posts"}}
			continue
		}

		if ok, problems := g.validator.Validate(text); !ok {
			utils.Sugar.Debugw("candidate failed validation", "content_type", contentType, "attempt", attempt, "problems", problems)
			lastErr = &ValidationError{Problems: problems}
			continue
		}

		if g.cfg.CriticEnabled && g.critic != nil {
			score, ok := g.critic.Review(ctx, text)
			if !ok {
				utils.Sugar.Debugw("candidate rejected by critic", "content_type", contentType, "attempt", attempt, "score", score)
				lastErr = &ValidationError{Problems: []string{fmt.Sprintf("critic score %d below threshold", score)}}
				continue
			}
		}

		if g.priceGate != nil && g.mentionsPrice(text) {
			g.priceGate.RecordPriceMention()
		}
		g.trackRecent(text)
		return text, nil
	}
	return "", &GenerationError{ContentType: contentType, Attempts: g.cfg.MaxAttempts, LastErr: lastErr}
}

// Thread produces n validated posts parsed from one numbered completion.
// All segments must validate or the whole attempt is discarded.
func (g *Generator) Thread(ctx context.Context, contentType string, n int) ([]string, error) {
	if n < 2 {
		n = 2
	}
	if g.cfg.MaxThreadPosts > 0 && n > g.cfg.MaxThreadPosts {
		n = g.cfg.MaxThreadPosts
	}

	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		system, prompt, err := g.prompts.PromptFor(contentType)
		if err != nil {
			return nil, err
		}
		threadPrompt := fmt.Sprintf("Expand on this topic into a thread of exactly %d tweets: %s\nNumber each tweet on its own line as 1/, 2/, and so on. Each tweet must stand alone and stay well under 280 characters.", n, prompt)
		threadPrompt = g.enrichPrompt(ctx, contentType, threadPrompt)

		raw, err := g.llm.Generate(ctx, system, threadPrompt, g.cfg.MaxTokens*n, g.cfg.Temperature)
		if err != nil {
			if errors.Is(err, clients.ErrUnauthorized) {
				return nil, err
			}
			lastErr = err
			continue
		}

		segments := parseThread(raw, n)
		if len(segments) != n {
			lastErr = &ValidationError{Problems: []string{fmt.Sprintf("thread parsed into %d segments, want %d", len(segments), n)}}
			continue
		}

		valid := make([]string, 0, n)
		for _, segment := range segments {
			text := g.validator.Sanitize(segment)
			if ok, problems := g.validator.Validate(text); !ok {
				lastErr = &ValidationError{Problems: problems}
				valid = nil
				break
			}
			valid = append(valid, text)
		}
		if valid == nil {
			continue
		}

		if g.priceGate != nil && g.mentionsPrice(strings.Join(valid, " ")) {
			g.priceGate.RecordPriceMention()
		}
		g.trackRecent(valid[0])
		return valid, nil
	}
	return nil, &GenerationError{ContentType: contentType, Attempts: g.cfg.MaxAttempts, LastErr: lastErr}
}

// enrichPrompt appends the live market block and the price-mention constraint
// for content types that use them.
func (g *Generator) enrichPrompt(ctx context.Context, contentType, prompt string) string {
	if g.live == nil || !UsesLiveData(contentType) {
		return prompt
	}
	summary := g.live.ContextSummary(ctx)
	block := g.contextBlock(summary)
	if block != "" {
		prompt = prompt + "\n\n" + block + "\n\nUse this real-time data naturally if relevant, but stay in character."
	}
	if g.priceGate != nil {
		if ok, wait := g.priceGate.CanMentionPrice(); !ok {
			prompt += fmt.Sprintf("\n\nIMPORTANT CONSTRAINT: do NOT mention %s price action, price changes, or specific price numbers in this tweet. You already talked about price recently; wait %.1f hours before mentioning price again. Culture, community, narrative and tech angles are fine.", "$"+g.cfg.TokenSymbol, wait.Hours())
		}
	}
	return prompt
}

func (g *Generator) contextBlock(s clients.Summary) string {
	if !s.Fetched {
		return ""
	}
	var b strings.Builder
	b.WriteString("Current market context:")
	if s.TokenPriceUSD > 0 {
		dir := "down"
		if s.TokenChange24h > 0 {
			dir = "up"
		}
		fmt.Fprintf(&b, "\n- YOUR TOKEN $%s: $%.8f (%+.2f%% 24h %s), $%.0f volume", s.TokenSymbol, s.TokenPriceUSD, s.TokenChange24h, dir, s.TokenVolume24h)
		if g.cfg.PairAddress != "" {
			fmt.Fprintf(&b, "\n  Chart: https://dexscreener.com/solana/%s", g.cfg.PairAddress)
		}
	}
	if s.Narrative != "" {
		fmt.Fprintf(&b, "\n- Current meta: %s", s.Narrative)
	}
	if len(s.Trending) > 0 {
		b.WriteString("\n- Trending tokens:")
		for _, t := range s.Trending {
			fmt.Fprintf(&b, "\n  * %s", t.Label)
		}
	}
	if s.SuspiciousCount > 0 {
		fmt.Fprintf(&b, "\n- %d suspicious tokens detected in the last 24h", s.SuspiciousCount)
	}
	return b.String()
}

var (
	wordRe       = regexp.MustCompile(`\b\w+\b`)
	threadLineRe = regexp.MustCompile(`^\s*(\d+)\s*[/.):]\s*`)
	priceNumRe   = regexp.MustCompile(`\$\d+\.?\d*[mkb]?`)
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"is": true, "are": true, "was": true, "were": true,
}

// isTooSimilar rejects candidates sharing most meaningful words or any
// three-word phrase with a recently accepted post.
func (g *Generator) isTooSimilar(text string) bool {
	g.mu.Lock()
	recent := make([]string, len(g.recent))
	copy(recent, g.recent)
	g.mu.Unlock()
	if len(recent) == 0 {
		return false
	}

	newWords := meaningfulWords(text)
	newPhrases := phrases(text)

	for _, old := range recent {
		oldWords := meaningfulWords(old)
		if len(newWords) > 0 && len(oldWords) > 0 {
			common := 0
			for w := range newWords {
				if oldWords[w] {
					common++
				}
			}
			if float64(common)/float64(len(newWords)) > 0.6 {
				return true
			}
		}
		for p := range phrases(old) {
			if newPhrases[p] {
				return true
			}
		}
	}
	return false
}

func meaningfulWords(text string) map[string]bool {
	words := map[string]bool{}
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if !stopWords[w] {
			words[w] = true
		}
	}
	return words
}

func phrases(text string) map[string]bool {
	out := map[string]bool{}
	words := strings.Fields(strings.ToLower(text))
	for i := 0; i+2 < len(words); i++ {
		out[strings.Join(words[i:i+3], " ")] = true
	}
	return out
}

func (g *Generator) trackRecent(text string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.recent = append(g.recent, text)
	if len(g.recent) > recentTextLimit {
		g.recent = g.recent[len(g.recent)-recentTextLimit:]
	}
}

// mentionsPrice reports whether text talks about the token's price action.
func (g *Generator) mentionsPrice(text string) bool {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, strings.ToLower(g.cfg.TokenSymbol)) {
		return false
	}
	indicators := []string{
		"price", "mcap", "market cap", "volume", "$0.", "cent", "dollar", "usd",
		"pump", "dump", "moon", "ath", "dip", "breakout", "chart", "candle",
		"support", "resistance", "bought", "sold", "bag",
	}
	for _, ind := range indicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return priceNumRe.MatchString(lower)
}

// parseThread splits a numbered completion into segments. Lines without a
// number continue the previous segment.
func parseThread(raw string, expected int) []string {
	var segments []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			segments = append(segments, strings.TrimSpace(strings.Join(current, " ")))
			current = nil
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := threadLineRe.FindString(line); m != "" {
			flush()
			current = append(current, strings.TrimSpace(line[len(m):]))
		} else if len(current) > 0 {
			current = append(current, line)
		} else {
			current = append(current, line)
		}
	}
	flush()

	if len(segments) > expected {
		segments = segments[:expected]
	}
	return segments
}
