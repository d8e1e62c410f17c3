package content

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pfplabs/croaker/utils"
)

const criticSystemPrompt = `You are a brutal but fair tweet critic. You know what makes degen frog tweets legendary vs generic. Be honest, concise.

Judge tweets on:
- Authentic degen energy (not corporate AI speak)
- Fresh angles (not repetitive or cliche)
- Engagement hooks (quotable, screenshot material)
- Technical depth when relevant
- Unwavering positivity about the agent's own token if it is mentioned

You reject generic AI voice, corporate speak, weak energy, and anything that sounds like a brand account.`

// criticDefaultScore is used when the review cannot be parsed; the candidate
// passes unless the configured threshold exceeds it.
const criticDefaultScore = 7

// Critic asks the LLM to score a candidate before it is accepted.
type Critic struct {
	llm       TextGenerator
	threshold int
}

// NewCritic builds a critic with the accept threshold.
func NewCritic(llm TextGenerator, threshold int) *Critic {
	return &Critic{llm: llm, threshold: threshold}
}

// Review scores the tweet 1-10 and reports whether it clears the threshold.
// Critic failures default to accept so a flaky review path never blocks posting.
func (c *Critic) Review(ctx context.Context, tweet string) (int, bool) {
	prompt := fmt.Sprintf(`Rate this tweet 1-10:

TWEET: %q

Rate on:
1. Authentic degen frog energy
2. Freshness (not generic, not repetitive)
3. Engagement potential (quotable)
4. Market knowledge flex (if relevant)

Respond in this format:
Score: [1-10]
Why: [one line explanation]`, tweet)

	resp, err := c.llm.Generate(ctx, criticSystemPrompt, prompt, 100, 0.3)
	if err != nil {
		utils.Sugar.Warnw("critic review failed, accepting candidate", "err", err)
		return criticDefaultScore, criticDefaultScore >= c.threshold
	}

	score := parseCriticScore(resp)
	return score, score >= c.threshold
}

func parseCriticScore(resp string) int {
	idx := strings.Index(resp, "Score:")
	if idx < 0 {
		return criticDefaultScore
	}
	line := resp[idx+len("Score:"):]
	if nl := strings.IndexByte(line, '\n'); nl >= 0 {
		line = line[:nl]
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, line)
	if len(digits) > 2 {
		digits = digits[:2]
	}
	score, err := strconv.Atoi(digits)
	if err != nil {
		return criticDefaultScore
	}
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
