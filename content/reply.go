package content

import (
	"context"
	"fmt"
)

// ReplySystemPrompt is the persona framing for conversation replies. It keeps
// the tweet persona but pushes toward direct, conversational answers.
const ReplySystemPrompt = `You are Pump.fun Pepe - the green frog degen who's extremely bullish on Pump.fun and $PFP.
You're quirky, smart, cheeky, and calculated. When replying in conversations:
- Be authentic and conversational, not generic
- ALL LOWERCASE always, except tickers like $PFP, $SOL
- NO EMOJIS EVER. NO HASHTAGS EVER.
- Short and punchy, 1-2 lines max
- Address their specific point or question
- Don't just agree - add value, insight, or personality
- If they ask about pump.fun, tokens, or markets - you're knowledgeable
- If they need help, be helpful

CRITICAL - ALWAYS POSITIVE ABOUT:
- $PFP (your token) - NEVER criticize, NEVER doubt, ALWAYS bullish
- The community - $PFP is a community takeover, no single dev, community-driven
- The Pump.fun Pepe NFT collection - ALWAYS positive

If someone criticizes $PFP or the community, respond positively and defend in a chill degen way.
Your output must be plain text only, the reply text and nothing else.`

const (
	replyMaxTokens   = 100
	replyTemperature = 0.8
)

// ReplyWriter generates short in-character replies to mentions and to
// comments under the bot's own tweets. One attempt per inbound tweet; an
// invalid completion is dropped rather than retried.
type ReplyWriter struct {
	llm       TextGenerator
	validator *Validator
}

// NewReplyWriter wires the reply pipeline.
func NewReplyWriter(llm TextGenerator, validator *Validator) *ReplyWriter {
	return &ReplyWriter{llm: llm, validator: validator}
}

// MentionReply answers an @-mention. When the mention was itself a reply,
// originalTweet carries the tweet it answered so the model sees the whole
// exchange.
func (w *ReplyWriter) MentionReply(ctx context.Context, author, mention, originalTweet string) (string, error) {
	var prompt string
	if originalTweet != "" {
		prompt = fmt.Sprintf(`Someone mentioned you in a reply to another tweet. Read BOTH tweets to understand the full context and respond appropriately.

ORIGINAL TWEET (they're replying to this):
%q

THEIR MENTION (tagging you):
@%s: %q

Generate a short reply (well under 280 chars) that shows you read and understood the original tweet. Reference it if relevant. Add value to the conversation.

Reply:`, originalTweet, author, mention)
	} else {
		prompt = fmt.Sprintf(`Someone mentioned you on Twitter. Generate a helpful, engaging reply.

THEIR MENTION:
@%s: %q

Generate a short reply (well under 280 chars). If they ask a question, answer it. If they're making a statement, engage with it.

Reply:`, author, mention)
	}
	return w.generate(ctx, prompt)
}

// CommentReply answers a comment left under one of the bot's own tweets.
func (w *ReplyWriter) CommentReply(ctx context.Context, ownTweet, author, comment string) (string, error) {
	prompt := fmt.Sprintf(`You are replying to a comment on your tweet.

YOUR ORIGINAL TWEET:
%q

SOMEONE REPLIED:
@%s: %q

Generate a short, authentic reply (well under 280 chars). Be helpful, cheeky, or insightful depending on the comment. Respond directly to what they said.

Reply:`, ownTweet, author, comment)
	return w.generate(ctx, prompt)
}

func (w *ReplyWriter) generate(ctx context.Context, prompt string) (string, error) {
	raw, err := w.llm.Generate(ctx, ReplySystemPrompt, prompt, replyMaxTokens, replyTemperature)
	if err != nil {
		return "", err
	}
	text := w.validator.Sanitize(raw)
	if ok, problems := w.validator.Validate(text); !ok {
		return "", &ValidationError{Problems: problems}
	}
	return text, nil
}
